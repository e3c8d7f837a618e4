package session

import (
	"time"

	"SessionSpectra/internal/model"
)

// entry is the per-flow accumulation state held while a pass is running.
type entry struct {
	start   time.Time
	end     *time.Time
	packets []*model.Packet
}

// Reconstruct consumes packets strictly in the order given and returns the
// set of TCP sessions observed. It is a pure function: all state lives in a
// local map, so concurrent calls over different packet slices need no
// synchronization.
//
// Membership policy: a session is created by the first SYN for its forward
// key, closed by the first FIN seen on the reverse key, and from the moment
// it exists it accumulates every subsequent packet in the input, not only
// packets belonging to its own flow. Each packet is appended at most once
// per session. Output order is map iteration order and therefore
// unspecified.
func Reconstruct(packets []*model.Packet) []*model.Session {
	sessions := make(map[model.FlowKey]*entry)

	for _, p := range packets {
		if p.TCP.Flags.SYN {
			key := forwardKey(p)
			if _, ok := sessions[key]; !ok {
				sessions[key] = &entry{start: p.Timestamp}
			}
			// A repeated SYN on an existing key does not reset the start time;
			// the packet itself is picked up by the append loop below.
		}

		if p.TCP.Flags.FIN {
			// The FIN travels in the opposite direction of the opening SYN, so
			// it matches through the reversed key. Only the first FIN freezes
			// the end timestamp.
			key := forwardKey(p).Reverse()
			if e, ok := sessions[key]; ok && e.end == nil {
				ts := p.Timestamp
				e.end = &ts
			}
		}

		// Every session alive at this point receives the packet, including one
		// just created by this packet's SYN.
		for _, e := range sessions {
			e.packets = append(e.packets, p)
		}
	}

	out := make([]*model.Session, 0, len(sessions))
	for key, e := range sessions {
		out = append(out, &model.Session{
			Key:       key,
			StartTime: e.start,
			EndTime:   e.end,
			Packets:   e.packets,
		})
	}
	return out
}

// forwardKey builds the flow key from the packet's own point of view.
func forwardKey(p *model.Packet) model.FlowKey {
	return model.FlowKey{
		SrcPort: p.TCP.SrcPort,
		DstPort: p.TCP.DstPort,
		SrcIP:   p.IP.SrcIP,
		DstIP:   p.IP.DstIP,
	}
}
