package protocol

import "testing"

func TestVersionForPayloadLength(t *testing.T) {
	tests := []struct {
		name       string
		payloadLen int
		want       Version
	}{
		{"v1", HORUS_V1_PAYLOAD_LENGTH, Version1},
		{"v2", HORUS_V2_PAYLOAD_LENGTH, Version2},
		{"custom", 16, VersionUnknown},
		{"zero", 0, VersionUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VersionForPayloadLength(tt.payloadLen); got != tt.want {
				t.Errorf("VersionForPayloadLength(%d) = %v, want %v", tt.payloadLen, got, tt.want)
			}
		})
	}
}

func TestVersionString(t *testing.T) {
	if Version1.String() != "Horus Binary v1" {
		t.Errorf("unexpected v1 string: %s", Version1.String())
	}
	if Version2.String() != "Horus Binary v2" {
		t.Errorf("unexpected v2 string: %s", Version2.String())
	}
	if VersionUnknown.String() != "unknown" {
		t.Errorf("unexpected unknown string: %s", VersionUnknown.String())
	}
}
