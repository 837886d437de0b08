package biometric

import (
	"image"
	"strings"
	"testing"
)

func TestAnalyzeRejectsInvalidInput(t *testing.T) {
	analyzer := NewQualityAnalyzer(DefaultQualityPolicy())
	if _, err := analyzer.Analyze(nil); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAnalyzeGoodCapture(t *testing.T) {
	analyzer := NewQualityAnalyzer(DefaultQualityPolicy())

	report, err := analyzer.Analyze(subjectCapture(640, 480))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.Passable() {
		t.Fatalf("expected a clean report, got issues %v", report.Issues)
	}
	if !report.SubjectDetected || !report.SubjectCentered {
		t.Fatalf("expected centered subject, got detected=%v centered=%v", report.SubjectDetected, report.SubjectCentered)
	}
	if report.Score < analyzer.Policy().MinEnrollScore {
		t.Fatalf("expected score above enroll floor %v, got %v", analyzer.Policy().MinEnrollScore, report.Score)
	}
}

func TestAnalyzeFlagsIssues(t *testing.T) {
	analyzer := NewQualityAnalyzer(DefaultQualityPolicy())

	tests := []struct {
		name      string
		capture   image.Image
		wantIssue string
	}{
		{"too dark", uniformCapture(640, 480, 20), "too dark"},
		{"overexposed", uniformCapture(640, 480, 250), "overexposed"},
		{"blurry", uniformCapture(640, 480, 140), "blurry"},
		{"no subject", uniformCapture(640, 480, 140), "no subject"},
		{"below minimum resolution", subjectCapture(320, 240), "resolution"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := analyzer.Analyze(tt.capture)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if report.Passable() {
				t.Fatal("expected the report to carry issues")
			}
			found := false
			for _, issue := range report.Issues {
				if strings.Contains(issue, tt.wantIssue) {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("expected an issue containing %q, got %v", tt.wantIssue, report.Issues)
			}
		})
	}
}

func TestBandScore(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  float64
	}{
		{"inside band", 140, 1},
		{"at lower bound", 100, 1},
		{"at upper bound", 180, 1},
		{"below band", 36, 0.5},
		{"above band", 244, 0.5},
		{"far outside", 500, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bandScore(tt.value, 100, 180); got != tt.want {
				t.Fatalf("bandScore(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
