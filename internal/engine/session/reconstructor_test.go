package session

import (
	"testing"
	"time"

	"SessionSpectra/internal/model"
)

var (
	hostA = [4]byte{192, 168, 0, 1}
	hostB = [4]byte{10, 0, 0, 2}
	hostC = [4]byte{10, 0, 0, 3}
)

func tcpPacket(ts time.Time, srcIP, dstIP [4]byte, srcPort, dstPort uint16, flags model.TCPFlags) *model.Packet {
	return &model.Packet{
		Timestamp: ts,
		IP: model.IPv4Header{
			Version:  4,
			IHL:      5,
			TTL:      64,
			Protocol: 6,
			SrcIP:    srcIP,
			DstIP:    dstIP,
		},
		TCP: model.TCPSegment{
			SrcPort:    srcPort,
			DstPort:    dstPort,
			DataOffset: 5,
			Flags:      flags,
		},
	}
}

// findSession looks a session up by key; output order is unspecified, so
// tests must never compare by position.
func findSession(t *testing.T, sessions []*model.Session, key model.FlowKey) *model.Session {
	t.Helper()
	for _, s := range sessions {
		if s.Key == key {
			return s
		}
	}
	t.Fatalf("no session found for key %s", key)
	return nil
}

func TestReconstruct_SingleSession(t *testing.T) {
	// Scenario: a plain open -> data -> close exchange on one flow.
	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	p1 := tcpPacket(base, hostA, hostB, 1000, 80, model.TCPFlags{SYN: true})
	p2 := tcpPacket(base.Add(10*time.Millisecond), hostB, hostA, 80, 1000, model.TCPFlags{ACK: true})
	p3 := tcpPacket(base.Add(20*time.Millisecond), hostB, hostA, 80, 1000, model.TCPFlags{FIN: true, ACK: true})

	sessions := Reconstruct([]*model.Packet{p1, p2, p3})
	if len(sessions) != 1 {
		t.Fatalf("Expected 1 session, got %d", len(sessions))
	}

	want := model.FlowKey{SrcPort: 1000, DstPort: 80, SrcIP: hostA, DstIP: hostB}
	s := findSession(t, sessions, want)

	if !s.StartTime.Equal(p1.Timestamp) {
		t.Errorf("Expected start %v, got %v", p1.Timestamp, s.StartTime)
	}
	if s.EndTime == nil || !s.EndTime.Equal(p3.Timestamp) {
		t.Errorf("Expected end %v, got %v", p3.Timestamp, s.EndTime)
	}

	// The FIN matches through both the reverse-key path and the global
	// append; it must still appear exactly once.
	if len(s.Packets) != 3 {
		t.Fatalf("Expected 3 packets, got %d", len(s.Packets))
	}
	for i, p := range []*model.Packet{p1, p2, p3} {
		if s.Packets[i] != p {
			t.Errorf("Packet %d is not the expected shared reference", i)
		}
	}
}

func TestReconstruct_InterleavedFlowsAccumulateGlobally(t *testing.T) {
	// Two interleaved flows X (A->B) and Y (A->C). Once X exists, it receives
	// every later packet including Y-only traffic. This over-inclusion is the
	// documented membership policy and asserted deliberately.
	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	synX := tcpPacket(base, hostA, hostB, 1000, 80, model.TCPFlags{SYN: true})
	synY := tcpPacket(base.Add(time.Millisecond), hostA, hostC, 2000, 443, model.TCPFlags{SYN: true})
	dataY := tcpPacket(base.Add(2*time.Millisecond), hostA, hostC, 2000, 443, model.TCPFlags{ACK: true, PSH: true})

	sessions := Reconstruct([]*model.Packet{synX, synY, dataY})
	if len(sessions) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(sessions))
	}

	keyX := model.FlowKey{SrcPort: 1000, DstPort: 80, SrcIP: hostA, DstIP: hostB}
	keyY := model.FlowKey{SrcPort: 2000, DstPort: 443, SrcIP: hostA, DstIP: hostC}

	x := findSession(t, sessions, keyX)
	if len(x.Packets) != 3 {
		t.Fatalf("Expected session X to accumulate all 3 packets, got %d", len(x.Packets))
	}
	if x.Packets[2] != dataY {
		t.Error("Session X should contain flow Y's data packet")
	}
	if x.EndTime != nil {
		t.Error("Session X was never closed")
	}

	// Y opened after X's SYN, so it only sees its own two packets.
	y := findSession(t, sessions, keyY)
	if len(y.Packets) != 2 {
		t.Fatalf("Expected session Y to hold 2 packets, got %d", len(y.Packets))
	}
}

func TestReconstruct_RepeatedSYNKeepsStartTime(t *testing.T) {
	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	syn1 := tcpPacket(base, hostA, hostB, 1000, 80, model.TCPFlags{SYN: true})
	syn2 := tcpPacket(base.Add(time.Second), hostA, hostB, 1000, 80, model.TCPFlags{SYN: true})

	sessions := Reconstruct([]*model.Packet{syn1, syn2})
	if len(sessions) != 1 {
		t.Fatalf("Expected 1 session, got %d", len(sessions))
	}
	s := sessions[0]
	if !s.StartTime.Equal(syn1.Timestamp) {
		t.Errorf("Repeated SYN must not reset the start time, got %v", s.StartTime)
	}
	if len(s.Packets) != 2 {
		t.Errorf("Both SYNs should be appended, got %d packets", len(s.Packets))
	}
}

func TestReconstruct_FirstFINWins(t *testing.T) {
	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	syn := tcpPacket(base, hostA, hostB, 1000, 80, model.TCPFlags{SYN: true})
	fin1 := tcpPacket(base.Add(time.Second), hostB, hostA, 80, 1000, model.TCPFlags{FIN: true})
	fin2 := tcpPacket(base.Add(2*time.Second), hostB, hostA, 80, 1000, model.TCPFlags{FIN: true})

	sessions := Reconstruct([]*model.Packet{syn, fin1, fin2})
	s := sessions[0]
	if s.EndTime == nil || !s.EndTime.Equal(fin1.Timestamp) {
		t.Errorf("End time must be frozen at the first FIN, got %v", s.EndTime)
	}
	if len(s.Packets) != 3 {
		t.Errorf("The second FIN still belongs to the packet list, got %d packets", len(s.Packets))
	}
}

func TestReconstruct_OrphanFIN(t *testing.T) {
	// A FIN with no prior SYN for its reverse key must neither create a
	// session nor crash.
	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	fin := tcpPacket(base, hostB, hostA, 80, 1000, model.TCPFlags{FIN: true})

	sessions := Reconstruct([]*model.Packet{fin})
	if len(sessions) != 0 {
		t.Errorf("Expected no sessions for an orphan FIN, got %d", len(sessions))
	}
}

func TestReconstruct_EmptyInput(t *testing.T) {
	sessions := Reconstruct(nil)
	if len(sessions) != 0 {
		t.Errorf("Expected empty session set, got %d", len(sessions))
	}
}

func TestReconstruct_SessionsNeverEmpty(t *testing.T) {
	// Every session is created by a SYN that is itself appended, so the
	// packet list is never empty.
	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	packets := []*model.Packet{
		tcpPacket(base, hostA, hostB, 1000, 80, model.TCPFlags{SYN: true}),
		tcpPacket(base.Add(time.Millisecond), hostA, hostC, 2000, 443, model.TCPFlags{SYN: true}),
		tcpPacket(base.Add(2*time.Millisecond), hostB, hostA, 80, 1000, model.TCPFlags{FIN: true}),
	}

	for _, s := range Reconstruct(packets) {
		if len(s.Packets) == 0 {
			t.Errorf("Session %s has an empty packet list", s.Key)
		}
	}
}

func TestReconstruct_KeyRoundTrip(t *testing.T) {
	// The reverse key computed from a FIN whose endpoints are swapped
	// relative to the SYN must match the SYN's forward key exactly.
	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	syn := tcpPacket(base, hostA, hostB, 1000, 80, model.TCPFlags{SYN: true})
	fin := tcpPacket(base.Add(time.Second), hostB, hostA, 80, 1000, model.TCPFlags{FIN: true})

	if forwardKey(fin).Reverse() != forwardKey(syn) {
		t.Errorf("Reverse key of FIN %s does not match forward key of SYN %s",
			forwardKey(fin).Reverse(), forwardKey(syn))
	}
}
