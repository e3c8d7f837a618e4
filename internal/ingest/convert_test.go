package ingest

import (
	"errors"
	"testing"
	"time"

	"SessionSpectra/internal/model"
)

func sampleRecord() Record {
	return Record{
		TimeEpoch:  "1741944413.123456",
		EthSrc:     "00:1a:2b:3c:4d:5e",
		EthDst:     "00:5e:4d:3c:2b:1a",
		EthType:    "0x0800",
		IPSrc:      "192.168.0.1",
		IPDst:      "10.0.0.2",
		SrcPort:    "49152",
		DstPort:    "80",
		Seq:        "1",
		Ack:        "0",
		Flags:      "0x002",
		WindowSize: "65535",
	}
}

func TestPacketFromRecord(t *testing.T) {
	p, err := PacketFromRecord(sampleRecord())
	if err != nil {
		t.Fatalf("PacketFromRecord failed: %v", err)
	}

	want := time.Unix(1741944413, 123456000).UTC()
	if !p.Timestamp.Equal(want) {
		t.Errorf("Expected timestamp %v, got %v", want, p.Timestamp)
	}
	if p.Ethernet.SrcMAC != [6]byte{0x00, 0x1a, 0x2b, 0x3c, 0x4d, 0x5e} {
		t.Errorf("Wrong source MAC: %v", p.Ethernet.SrcMAC)
	}
	if p.IP.SrcIP != [4]byte{192, 168, 0, 1} || p.IP.DstIP != [4]byte{10, 0, 0, 2} {
		t.Errorf("Wrong addresses: %v -> %v", p.IP.SrcIP, p.IP.DstIP)
	}
	if p.TCP.SrcPort != 49152 || p.TCP.DstPort != 80 {
		t.Errorf("Wrong ports: %d -> %d", p.TCP.SrcPort, p.TCP.DstPort)
	}
	if !p.TCP.Flags.SYN || p.TCP.Flags.ACK {
		t.Errorf("Expected SYN only, got %+v", p.TCP.Flags)
	}
	if p.TCP.WindowSize != 65535 {
		t.Errorf("Wrong window size: %d", p.TCP.WindowSize)
	}
	if p.Application.Protocol != model.AppHTTP {
		t.Errorf("Port 80 should classify as HTTP, got %d", p.Application.Protocol)
	}
}

func TestPacketFromRecord_Defaults(t *testing.T) {
	rec := sampleRecord()
	rec.EthType = ""
	rec.SrcPort = "not-a-number"
	rec.Seq = ""
	rec.Flags = "garbage"
	rec.WindowSize = ""

	p, err := PacketFromRecord(rec)
	if err != nil {
		t.Fatalf("Unparseable optional fields must not fail construction: %v", err)
	}

	if p.Ethernet.EtherType != 0x0800 {
		t.Errorf("Expected default ethertype 0x0800, got %#x", p.Ethernet.EtherType)
	}
	if p.TCP.SrcPort != 0 || p.TCP.Seq != 0 || p.TCP.WindowSize != 0 {
		t.Error("Unparseable numeric fields must default to zero")
	}
	if p.TCP.Flags != (model.TCPFlags{}) {
		t.Errorf("Malformed flag bitmap must default to all-clear, got %+v", p.TCP.Flags)
	}

	// The deliberately zero-filled header fields stay zero.
	if p.IP.HeaderChecksum != 0 || p.IP.TotalLength != 0 || p.IP.Identification != 0 {
		t.Error("Checksum, total length, identification must be zero-filled")
	}
	if p.IP.Version != 4 || p.IP.IHL != 5 || p.IP.TTL != 64 || p.IP.Protocol != 6 {
		t.Errorf("Wrong IPv4 defaults: %+v", p.IP)
	}
}

func TestPacketFromRecord_MissingRequired(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Record)
	}{
		{"timestamp", func(r *Record) { r.TimeEpoch = "" }},
		{"unparseable timestamp", func(r *Record) { r.TimeEpoch = "yesterday" }},
		{"source mac", func(r *Record) { r.EthSrc = "" }},
		{"destination mac", func(r *Record) { r.EthDst = "" }},
		{"source ip", func(r *Record) { r.IPSrc = "" }},
		{"destination ip", func(r *Record) { r.IPDst = "" }},
	}

	for _, tc := range cases {
		rec := sampleRecord()
		tc.mutate(&rec)
		if _, err := PacketFromRecord(rec); !errors.Is(err, ErrMissingField) {
			t.Errorf("%s: expected ErrMissingField, got %v", tc.name, err)
		}
	}
}

func TestPacketsFromRecords_SkipsBadRecords(t *testing.T) {
	bad := sampleRecord()
	bad.IPSrc = ""

	packets := PacketsFromRecords([]Record{sampleRecord(), bad, sampleRecord()})
	if len(packets) != 2 {
		t.Errorf("Expected bad record to be skipped, got %d packets", len(packets))
	}
}

func TestPacketsFromRecords_EmptyInput(t *testing.T) {
	if got := PacketsFromRecords(nil); len(got) != 0 {
		t.Errorf("Expected empty result, got %d packets", len(got))
	}
}
