package ingest

import (
	"log"
	"strconv"
	"strings"
	"time"

	"SessionSpectra/internal/engine/protocol"
	"SessionSpectra/internal/model"
)

// PacketFromRecord builds a normalized Packet from one decoded record. It
// fails only when the timestamp or one of the four addresses is absent;
// unparseable optional fields take their defaults.
func PacketFromRecord(rec Record) (*model.Packet, error) {
	ts, ok := parseTimestamp(rec.TimeEpoch)
	if !ok {
		return nil, missingField("frame.time_epoch")
	}

	srcMAC, ok := parseMAC(rec.EthSrc)
	if !ok {
		return nil, missingField("eth.src")
	}
	dstMAC, ok := parseMAC(rec.EthDst)
	if !ok {
		return nil, missingField("eth.dst")
	}

	srcIP, ok := parseIPv4(rec.IPSrc)
	if !ok {
		return nil, missingField("ip.src")
	}
	dstIP, ok := parseIPv4(rec.IPDst)
	if !ok {
		return nil, missingField("ip.dst")
	}

	srcPort := uint16(parseUint(rec.SrcPort, 16))
	dstPort := uint16(parseUint(rec.DstPort, 16))

	p := &model.Packet{
		Timestamp: ts,
		Ethernet: model.EthernetFrame{
			SrcMAC:    srcMAC,
			DstMAC:    dstMAC,
			EtherType: parseEtherType(rec.EthType),
		},
		IP: model.IPv4Header{
			Version:  defaults.IPVersion,
			IHL:      defaults.IHL,
			TTL:      defaults.TTL,
			Protocol: defaults.IPProtocol,
			SrcIP:    srcIP,
			DstIP:    dstIP,
		},
		TCP: model.TCPSegment{
			SrcPort:    srcPort,
			DstPort:    dstPort,
			Seq:        uint32(parseUint(rec.Seq, 32)),
			Ack:        uint32(parseUint(rec.Ack, 32)),
			DataOffset: defaults.DataOffset,
			Flags:      parseFlags(rec.Flags),
			WindowSize: uint16(parseUint(rec.WindowSize, 16)),
		},
		Application: protocol.Classify(srcPort, dstPort),
	}
	p.Application.Payload = rec.Payload
	return p, nil
}

// PacketsFromRecords converts a batch of records, skipping the ones that
// lack identifying fields. An empty result is a degenerate success, not an
// error.
func PacketsFromRecords(records []Record) []*model.Packet {
	packets := make([]*model.Packet, 0, len(records))
	for _, rec := range records {
		p, err := PacketFromRecord(rec)
		if err != nil {
			log.Printf("Skipping record: %v", err)
			continue
		}
		packets = append(packets, p)
	}
	return packets
}

// parseTimestamp converts fractional epoch seconds into a UTC time. The
// integer and fractional parts are parsed separately so sub-microsecond
// digits survive without float rounding. ok is false when the field is
// absent or not a number.
func parseTimestamp(epoch string) (time.Time, bool) {
	if epoch == "" {
		return time.Time{}, false
	}

	intPart, fracPart, _ := strings.Cut(epoch, ".")
	secs, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return time.Time{}, false
	}

	var nsecs int64
	if fracPart != "" {
		// Pad or truncate the fraction to nanosecond digits.
		if len(fracPart) > 9 {
			fracPart = fracPart[:9]
		}
		nsecs, err = strconv.ParseInt(fracPart+strings.Repeat("0", 9-len(fracPart)), 10, 64)
		if err != nil {
			return time.Time{}, false
		}
	}
	return time.Unix(secs, nsecs).UTC(), true
}

// parseMAC reads colon-separated hex octets. The field being present is
// required; malformed octets individually fall back to zero.
func parseMAC(s string) ([6]byte, bool) {
	var mac [6]byte
	if s == "" {
		return mac, false
	}
	for i, part := range strings.Split(s, ":") {
		if i >= len(mac) {
			break
		}
		if v, err := strconv.ParseUint(part, 16, 8); err == nil {
			mac[i] = byte(v)
		}
	}
	return mac, true
}

// parseIPv4 reads a dotted-decimal address with the same per-octet
// tolerance as parseMAC.
func parseIPv4(s string) ([4]byte, bool) {
	var ip [4]byte
	if s == "" {
		return ip, false
	}
	for i, part := range strings.Split(s, ".") {
		if i >= len(ip) {
			break
		}
		if v, err := strconv.ParseUint(part, 10, 8); err == nil {
			ip[i] = byte(v)
		}
	}
	return ip, true
}

// parseUint reads a decimal field, defaulting to zero when absent or
// malformed.
func parseUint(s string, bits int) uint64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseUint(s, 10, bits)
	if err != nil {
		return 0
	}
	return v
}

func parseEtherType(s string) uint16 {
	if s == "" {
		return defaults.EtherType
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 16)
	if err != nil {
		return defaults.EtherType
	}
	return uint16(v)
}

// parseFlags decodes the hex TCP flag bitmap into the individual bits.
func parseFlags(s string) model.TCPFlags {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 16)
	if err != nil {
		v = 0
	}
	return model.TCPFlags{
		FIN: v&0x001 != 0,
		SYN: v&0x002 != 0,
		RST: v&0x004 != 0,
		PSH: v&0x008 != 0,
		ACK: v&0x010 != 0,
		URG: v&0x020 != 0,
		ECE: v&0x040 != 0,
		CWR: v&0x080 != 0,
	}
}
