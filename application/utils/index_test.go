package utils

import (
	"encoding/base64"
	"testing"
)

func TestGenerateULIDString(t *testing.T) {
	first := GenerateULIDString()
	second := GenerateULIDString()
	if len(first) != 26 {
		t.Fatalf("expected a 26 character ulid, got %d", len(first))
	}
	if first == second {
		t.Fatal("expected distinct ulids")
	}
}

func TestDecodeBase64Image(t *testing.T) {
	payload := []byte("fake image bytes")
	encoded := base64.StdEncoding.EncodeToString(payload)

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain base64", encoded, false},
		{"data url prefix", "data:image/png;base64," + encoded, false},
		{"url-safe base64", base64.URLEncoding.EncodeToString(payload), false},
		{"garbage", "%%%not-base64%%%", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := DecodeBase64Image(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeBase64Image error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && string(decoded) != string(payload) {
				t.Fatalf("decoded %q, want %q", decoded, payload)
			}
		})
	}
}

func TestHasItemString(t *testing.T) {
	items := []string{"ENTER", "EXIT", "VERIFY"}
	if !HasItemString(&items, "EXIT") {
		t.Fatal("expected EXIT to be present")
	}
	if HasItemString(&items, "enter") {
		t.Fatal("match must be case sensitive")
	}
}
