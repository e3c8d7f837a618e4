package model

import (
	"time"
)

// AppProtocol is the application-layer classification of a packet. The set of
// well-known values is closed; anything else is carried as AppCustom with a
// free-form name on the ApplicationData.
type AppProtocol uint8

const (
	AppHTTP AppProtocol = iota
	AppHTTPS
	AppFTP
	AppSSH
	AppSMTP
	AppDNS
	AppCustom
)

// EthernetFrame holds the link-layer fields of a packet.
type EthernetFrame struct {
	SrcMAC             [6]byte `json:"source_mac"`
	DstMAC             [6]byte `json:"destination_mac"`
	EtherType          uint16  `json:"ethertype"` // 0x0800 for IPv4
	FrameCheckSequence uint32  `json:"frame_check_sequence"`
}

// IPv4Flags holds the three IPv4 header flag bits.
type IPv4Flags struct {
	Reserved      bool `json:"reserved"`
	DontFragment  bool `json:"dont_fragment"`
	MoreFragments bool `json:"more_fragments"`
}

// IPv4Header holds the network-layer fields of a packet. TotalLength,
// Identification and HeaderChecksum are zero-filled when the upstream decoder
// does not supply them; they are never recomputed here.
type IPv4Header struct {
	Version        uint8     `json:"version"`
	IHL            uint8     `json:"ihl"`
	DSCP           uint8     `json:"dscp"`
	ECN            uint8     `json:"ecn"`
	TotalLength    uint16    `json:"total_length"`
	Identification uint16    `json:"identification"`
	Flags          IPv4Flags `json:"flags"`
	FragmentOffset uint16    `json:"fragment_offset"`
	TTL            uint8     `json:"ttl"`
	Protocol       uint8     `json:"protocol"` // 6 for TCP
	HeaderChecksum uint16    `json:"header_checksum"`
	SrcIP          [4]byte   `json:"source_ip"`
	DstIP          [4]byte   `json:"destination_ip"`
	Options        []byte    `json:"options,omitempty"`
}

// TCPFlags is the full TCP flag set.
type TCPFlags struct {
	FIN bool `json:"fin"`
	SYN bool `json:"syn"`
	RST bool `json:"rst"`
	PSH bool `json:"psh"`
	ACK bool `json:"ack"`
	URG bool `json:"urg"`
	ECE bool `json:"ece"`
	CWR bool `json:"cwr"`
}

// TCPOption is a single TCP header option as declared on the wire.
type TCPOption struct {
	Kind   uint8  `json:"kind"`
	Length uint8  `json:"length"`
	Data   []byte `json:"data,omitempty"`
}

// TCPSegment holds the transport-layer fields of a packet.
type TCPSegment struct {
	SrcPort       uint16      `json:"source_port"`
	DstPort       uint16      `json:"destination_port"`
	Seq           uint32      `json:"sequence_number"`
	Ack           uint32      `json:"acknowledgment_number"`
	DataOffset    uint8       `json:"data_offset"`
	Flags         TCPFlags    `json:"flags"`
	WindowSize    uint16      `json:"window_size"`
	Checksum      uint16      `json:"checksum"`
	UrgentPointer uint16      `json:"urgent_pointer"`
	Options       []TCPOption `json:"options,omitempty"`
}

// ApplicationData is the application-layer classification plus the raw
// payload. Name is only meaningful when Protocol is AppCustom.
type ApplicationData struct {
	Protocol AppProtocol `json:"protocol"`
	Name     string      `json:"name,omitempty"`
	Payload  []byte      `json:"payload,omitempty"`
}

// Packet is the normalized record for one observed TCP/IPv4 frame. It is
// immutable once built; the session reconstructor holds shared pointers to
// packets, so nothing downstream may mutate one.
type Packet struct {
	Timestamp   time.Time       `json:"timestamp"`
	Ethernet    EthernetFrame   `json:"link_layer"`
	IP          IPv4Header      `json:"network_layer"`
	TCP         TCPSegment      `json:"transport_layer"`
	Application ApplicationData `json:"application_layer"`
}

const (
	ethernetHeaderSize = 14 // without trailing FCS
	ipv4BaseHeaderSize = 20
	tcpBaseHeaderSize  = 20
)

// TotalSize returns the size of the packet in bytes: fixed header sizes plus
// variable options and the application payload.
func (p *Packet) TotalSize() int {
	size := ethernetHeaderSize
	size += ipv4BaseHeaderSize + len(p.IP.Options)
	size += tcpBaseHeaderSize
	for _, opt := range p.TCP.Options {
		size += int(opt.Length)
	}
	size += len(p.Application.Payload)
	return size
}

// IsHandshake reports whether the packet opens or closes a connection.
// A RST-only teardown is deliberately not counted; callers that care must
// inspect the flags directly.
func (p *Packet) IsHandshake() bool {
	return p.TCP.Flags.SYN || p.TCP.Flags.FIN
}

// ProtocolString returns the display name of the application protocol.
// Custom classifications are returned verbatim.
func (p *Packet) ProtocolString() string {
	switch p.Application.Protocol {
	case AppHTTP:
		return "HTTP"
	case AppHTTPS:
		return "HTTPS"
	case AppFTP:
		return "FTP"
	case AppSSH:
		return "SSH"
	case AppSMTP:
		return "SMTP"
	case AppDNS:
		return "DNS"
	default:
		return p.Application.Name
	}
}
