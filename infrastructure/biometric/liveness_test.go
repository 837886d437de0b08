package biometric

import (
	"image"
	"testing"
)

func TestCheckLiveness(t *testing.T) {
	checker := NewTextureLivenessChecker()

	tests := []struct {
		name     string
		capture  image.Image
		wantLive bool
	}{
		{"textured capture", subjectCapture(640, 480), true},
		{"flat print", uniformCapture(640, 480, 140), false},
		{"underexposed frame", uniformCapture(640, 480, 20), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := checker.CheckLiveness(tt.capture)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Live != tt.wantLive {
				t.Fatalf("live = %v (score %v), want %v", result.Live, result.Score, tt.wantLive)
			}
		})
	}
}

func TestCheckLivenessRejectsInvalidInput(t *testing.T) {
	checker := NewTextureLivenessChecker()
	if _, err := checker.CheckLiveness(nil); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
