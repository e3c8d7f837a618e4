package model

import (
	"fmt"
	"net"
	"time"
)

// FlowKey identifies one direction of a TCP conversation: the 4-tuple as seen
// from the side that opened it. It is comparable and used directly as a map
// key during reconstruction.
type FlowKey struct {
	SrcPort uint16  `json:"source_port"`
	DstPort uint16  `json:"destination_port"`
	SrcIP   [4]byte `json:"source_ip"`
	DstIP   [4]byte `json:"destination_ip"`
}

// Reverse returns the key as seen from the opposite direction. A FIN observed
// on the closing side matches the opening side's session through this
// transformation.
func (k FlowKey) Reverse() FlowKey {
	return FlowKey{
		SrcPort: k.DstPort,
		DstPort: k.SrcPort,
		SrcIP:   k.DstIP,
		DstIP:   k.SrcIP,
	}
}

func (k FlowKey) String() string {
	return fmt.Sprintf("%s:%d->%s:%d",
		net.IP(k.SrcIP[:]), k.SrcPort, net.IP(k.DstIP[:]), k.DstPort)
}

// Session is one reconstructed TCP conversation. The key is fixed at
// creation, Packets only grows, and EndTime transitions once from nil to a
// value and is then frozen.
type Session struct {
	Key       FlowKey    `json:"key"`
	StartTime time.Time  `json:"start_timestamp"`
	EndTime   *time.Time `json:"end_timestamp,omitempty"`
	Packets   []*Packet  `json:"packets"`
}

// Closed reports whether a closing signal was observed for this session.
func (s *Session) Closed() bool {
	return s.EndTime != nil
}

// ByteCount returns the sum of TotalSize over the session's packets.
func (s *Session) ByteCount() uint64 {
	var total uint64
	for _, p := range s.Packets {
		total += uint64(p.TotalSize())
	}
	return total
}
