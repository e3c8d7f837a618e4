package protocol

import (
	"fmt"

	"SessionSpectra/internal/model"
)

// wellKnown maps server-side ports to their application protocol.
var wellKnown = map[uint16]model.AppProtocol{
	80:   model.AppHTTP,
	8080: model.AppHTTP,
	443:  model.AppHTTPS,
	21:   model.AppFTP,
	22:   model.AppSSH,
	25:   model.AppSMTP,
	587:  model.AppSMTP,
	53:   model.AppDNS,
}

// Classify guesses the application protocol of a TCP exchange from its port
// pair. Either endpoint may be the server side, so both ports are checked,
// destination first. Unknown ports yield a custom classification labeled
// with the destination port.
func Classify(srcPort, dstPort uint16) model.ApplicationData {
	if proto, ok := wellKnown[dstPort]; ok {
		return model.ApplicationData{Protocol: proto}
	}
	if proto, ok := wellKnown[srcPort]; ok {
		return model.ApplicationData{Protocol: proto}
	}
	return model.ApplicationData{
		Protocol: model.AppCustom,
		Name:     fmt.Sprintf("TCP/%d", dstPort),
	}
}
