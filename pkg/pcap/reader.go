// Package pcap reads capture files through gopacket and produces normalized
// packets without going through the external tshark decoder. Unlike the
// tshark path, fields like TTL, IP options and TCP options carry their real
// on-wire values here.
package pcap

import (
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"SessionSpectra/internal/engine/protocol"
	"SessionSpectra/internal/model"
)

// Reader reads packets from a pcap file.
type Reader struct {
	handle *pcap.Handle
}

// NewReader creates a new pcap reader for the given file path.
func NewReader(filePath string) (*Reader, error) {
	handle, err := pcap.OpenOffline(filePath)
	if err != nil {
		return nil, err
	}
	return &Reader{handle: handle}, nil
}

// Close closes the pcap handle.
func (r *Reader) Close() {
	r.handle.Close()
}

// ReadPackets decodes every TCP/IPv4 frame in the capture. Frames that are
// not TCP over IPv4 are skipped silently; they are outside the data model.
func (r *Reader) ReadPackets() ([]*model.Packet, error) {
	source := gopacket.NewPacketSource(r.handle, r.handle.LinkType())

	var packets []*model.Packet
	for pkt := range source.Packets() {
		p, err := convert(pkt)
		if err != nil {
			continue
		}
		packets = append(packets, p)
	}
	return packets, nil
}

// convert maps one decoded gopacket frame onto the normalized model.
func convert(pkt gopacket.Packet) (*model.Packet, error) {
	ethLayer := pkt.Layer(layers.LayerTypeEthernet)
	ipLayer := pkt.Layer(layers.LayerTypeIPv4)
	tcpLayer := pkt.Layer(layers.LayerTypeTCP)
	if ethLayer == nil || ipLayer == nil || tcpLayer == nil {
		return nil, fmt.Errorf("not a TCP/IPv4 frame")
	}

	eth := ethLayer.(*layers.Ethernet)
	ip := ipLayer.(*layers.IPv4)
	tcp := tcpLayer.(*layers.TCP)

	p := &model.Packet{
		Timestamp: pkt.Metadata().Timestamp.UTC(),
		Ethernet: model.EthernetFrame{
			EtherType: uint16(eth.EthernetType),
		},
		IP: model.IPv4Header{
			Version: ip.Version,
			IHL:     ip.IHL,
			DSCP:    ip.TOS >> 2,
			ECN:     ip.TOS & 0x3,
			// Total length, identification and checksum are zero-filled to
			// match the contract of the tshark ingest path.
			Flags: model.IPv4Flags{
				Reserved:      ip.Flags&layers.IPv4EvilBit != 0,
				DontFragment:  ip.Flags&layers.IPv4DontFragment != 0,
				MoreFragments: ip.Flags&layers.IPv4MoreFragments != 0,
			},
			FragmentOffset: ip.FragOffset,
			TTL:            ip.TTL,
			Protocol:       uint8(ip.Protocol),
		},
		TCP: model.TCPSegment{
			SrcPort:    uint16(tcp.SrcPort),
			DstPort:    uint16(tcp.DstPort),
			Seq:        tcp.Seq,
			Ack:        tcp.Ack,
			DataOffset: tcp.DataOffset,
			Flags: model.TCPFlags{
				FIN: tcp.FIN,
				SYN: tcp.SYN,
				RST: tcp.RST,
				PSH: tcp.PSH,
				ACK: tcp.ACK,
				URG: tcp.URG,
				ECE: tcp.ECE,
				CWR: tcp.CWR,
			},
			WindowSize: tcp.Window,
		},
	}

	copy(p.Ethernet.SrcMAC[:], eth.SrcMAC)
	copy(p.Ethernet.DstMAC[:], eth.DstMAC)
	copy(p.IP.SrcIP[:], ip.SrcIP.To4())
	copy(p.IP.DstIP[:], ip.DstIP.To4())

	for _, opt := range ip.Options {
		p.IP.Options = append(p.IP.Options, opt.OptionData...)
	}
	for _, opt := range tcp.Options {
		p.TCP.Options = append(p.TCP.Options, model.TCPOption{
			Kind:   uint8(opt.OptionType),
			Length: opt.OptionLength,
			Data:   opt.OptionData,
		})
	}

	p.Application = protocol.Classify(uint16(tcp.SrcPort), uint16(tcp.DstPort))
	p.Application.Payload = tcp.Payload
	return p, nil
}
