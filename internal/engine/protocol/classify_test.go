package protocol

import (
	"testing"

	"SessionSpectra/internal/model"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name     string
		srcPort  uint16
		dstPort  uint16
		expected model.AppProtocol
	}{
		{"http by destination", 49152, 80, model.AppHTTP},
		{"http alternate port", 49152, 8080, model.AppHTTP},
		{"https by destination", 49152, 443, model.AppHTTPS},
		{"ftp", 49152, 21, model.AppFTP},
		{"ssh", 49152, 22, model.AppSSH},
		{"smtp", 49152, 25, model.AppSMTP},
		{"smtp submission", 49152, 587, model.AppSMTP},
		{"dns", 49152, 53, model.AppDNS},
		{"server-to-client direction", 443, 49152, model.AppHTTPS},
		{"unknown ports", 49152, 9000, model.AppCustom},
	}

	for _, tc := range cases {
		app := Classify(tc.srcPort, tc.dstPort)
		if app.Protocol != tc.expected {
			t.Errorf("%s: expected protocol %d, got %d", tc.name, tc.expected, app.Protocol)
		}
	}
}

func TestClassify_CustomLabel(t *testing.T) {
	app := Classify(49152, 9000)
	if app.Name != "TCP/9000" {
		t.Errorf("Expected custom label TCP/9000, got %q", app.Name)
	}
}
