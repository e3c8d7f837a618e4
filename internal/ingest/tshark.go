package ingest

import (
	"encoding/json"
	"fmt"
)

// tsharkFrame mirrors the envelope tshark emits with `-T json -e <field>`:
// one object per frame, fields nested under _source.layers as single-element
// string arrays.
type tsharkFrame struct {
	Source struct {
		Layers map[string][]string `json:"layers"`
	} `json:"_source"`
}

// RecordsFromTsharkJSON parses the raw JSON produced by the external tshark
// decoder into decoded-field records. Only the envelope has to be well
// formed; per-frame field problems are left for PacketFromRecord to resolve.
func RecordsFromTsharkJSON(data []byte) ([]Record, error) {
	var frames []tsharkFrame
	if err := json.Unmarshal(data, &frames); err != nil {
		return nil, fmt.Errorf("failed to parse tshark output: %w", err)
	}

	records := make([]Record, 0, len(frames))
	for _, frame := range frames {
		layers := frame.Source.Layers
		records = append(records, Record{
			TimeEpoch:  firstField(layers, "frame.time_epoch"),
			EthSrc:     firstField(layers, "eth.src"),
			EthDst:     firstField(layers, "eth.dst"),
			EthType:    firstField(layers, "eth.type"),
			IPSrc:      firstField(layers, "ip.src"),
			IPDst:      firstField(layers, "ip.dst"),
			SrcPort:    firstField(layers, "tcp.srcport"),
			DstPort:    firstField(layers, "tcp.dstport"),
			Seq:        firstField(layers, "tcp.seq"),
			Ack:        firstField(layers, "tcp.ack"),
			Flags:      firstField(layers, "tcp.flags"),
			WindowSize: firstField(layers, "tcp.window_size"),
		})
	}
	return records, nil
}

// firstField returns the first value of a layer field, or "" when the field
// is absent or empty.
func firstField(layers map[string][]string, name string) string {
	if vals, ok := layers[name]; ok && len(vals) > 0 {
		return vals[0]
	}
	return ""
}
