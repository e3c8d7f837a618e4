// Package ingest converts decoded-field records produced by an external
// capture decoder (tshark) into normalized model.Packet values. Field
// extraction is best-effort: a record is only rejected when an identifying
// field (timestamp, hardware or network address) is missing, everything else
// falls back to the defaults table.
package ingest

import (
	"errors"
	"fmt"
)

// ErrMissingField marks a record that lacks a required identifying field.
// Such records are skipped; the batch continues.
var ErrMissingField = errors.New("missing required field")

// Record is one decoded frame as emitted by the upstream decoder: loosely
// structured per-field strings, any of which may be absent.
type Record struct {
	TimeEpoch  string // fractional seconds since epoch
	EthSrc     string // colon-separated hex octets
	EthDst     string
	EthType    string // hex, may carry 0x prefix
	IPSrc      string // dotted decimal
	IPDst      string
	SrcPort    string // decimal
	DstPort    string
	Seq        string
	Ack        string
	Flags      string // hex bitmap, may carry 0x prefix
	WindowSize string
	Payload    []byte
}

// defaults is the single table of substitution values applied when an
// optional field is absent or unparseable. Checksum, total length and
// identification stay zero on purpose; they are never recomputed.
var defaults = struct {
	EtherType  uint16
	IPVersion  uint8
	IHL        uint8
	TTL        uint8
	IPProtocol uint8
	DataOffset uint8
}{
	EtherType:  0x0800,
	IPVersion:  4,
	IHL:        5,
	TTL:        64,
	IPProtocol: 6,
	DataOffset: 5,
}

func missingField(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, name)
}
