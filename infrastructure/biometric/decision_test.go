package biometric

import (
	"image"
	"math"
	"testing"

	"campuspass.io/infrastructure/biometric/types"
)

type stubExtractor struct {
	embedding []float64
	version   string
	err       error
}

func (se *stubExtractor) ExtractEmbedding(_ image.Image) ([]float64, error) {
	return se.embedding, se.err
}

func (se *stubExtractor) ModelVersion() string {
	return se.version
}

type stubLiveness struct {
	live bool
}

func (sl *stubLiveness) CheckLiveness(_ image.Image) (*types.LivenessResult, error) {
	return &types.LivenessResult{Live: sl.live, Score: 1}, nil
}

func stubEngine(extractor Extractor, liveness LivenessChecker) *DecisionEngine {
	analyzer := NewQualityAnalyzer(DefaultQualityPolicy())
	return NewDecisionEngine(analyzer, extractor, liveness, NewMatcher(), DefaultDecisionPolicy())
}

func TestEvaluateEnrollmentAccepts(t *testing.T) {
	embedding := []float64{1, 0, 0.5}
	engine := stubEngine(&stubExtractor{embedding: embedding, version: "stub-v1"}, &stubLiveness{live: true})

	decision, err := engine.EvaluateEnrollment(subjectCapture(640, 480))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Accepted {
		t.Fatalf("expected acceptance, got reason %v", decision.Reason)
	}
	if decision.ModelVersion != "stub-v1" {
		t.Fatalf("unexpected model version %q", decision.ModelVersion)
	}
	if len(decision.Embedding) != len(embedding) {
		t.Fatal("expected the embedding on the accepted decision")
	}
}

func TestEvaluateEnrollmentRejections(t *testing.T) {
	tests := []struct {
		name       string
		capture    image.Image
		extractor  Extractor
		liveness   LivenessChecker
		wantReason types.ReasonCode
	}{
		{
			name:       "low quality capture",
			capture:    subjectCapture(320, 240),
			extractor:  &stubExtractor{embedding: []float64{1}, version: "stub-v1"},
			liveness:   &stubLiveness{live: true},
			wantReason: types.ReasonLowQuality,
		},
		{
			name:       "no subject in frame",
			capture:    uniformCapture(640, 480, 140),
			extractor:  &stubExtractor{embedding: []float64{1}, version: "stub-v1"},
			liveness:   &stubLiveness{live: true},
			wantReason: types.ReasonNoSubject,
		},
		{
			name:       "liveness failure",
			capture:    subjectCapture(640, 480),
			extractor:  &stubExtractor{embedding: []float64{1}, version: "stub-v1"},
			liveness:   &stubLiveness{live: false},
			wantReason: types.ReasonLivenessFailed,
		},
		{
			name:       "extractor finds multiple subjects",
			capture:    subjectCapture(640, 480),
			extractor:  &stubExtractor{err: ErrMultipleSubjectsDetected, version: "stub-v1"},
			liveness:   &stubLiveness{live: true},
			wantReason: types.ReasonMultipleSubjects,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := stubEngine(tt.extractor, tt.liveness)
			decision, err := engine.EvaluateEnrollment(tt.capture)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if decision.Accepted {
				t.Fatal("expected a rejection")
			}
			if decision.Reason == nil || *decision.Reason != tt.wantReason {
				t.Fatalf("reason = %v, want %v", decision.Reason, tt.wantReason)
			}
			if len(decision.Embedding) != 0 {
				t.Fatal("rejected decision must not carry an embedding")
			}
		})
	}
}

func TestEvaluateVerificationAccepts(t *testing.T) {
	embedding := []float64{1, 0, 0.5}
	engine := stubEngine(&stubExtractor{embedding: embedding, version: "stub-v1"}, &stubLiveness{live: true})

	decision, err := engine.EvaluateVerification(subjectCapture(640, 480), &StoredTemplate{
		Embedding:    embedding,
		ModelVersion: "stub-v1",
	}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Accepted {
		t.Fatalf("expected acceptance, got reason %v", decision.Reason)
	}
	if math.Abs(decision.Confidence-100) > 1e-9 {
		t.Fatalf("confidence = %v, want 100", decision.Confidence)
	}
}

func TestEvaluateVerificationRejections(t *testing.T) {
	embedding := []float64{1, 0}
	opposite := []float64{-1, 0}

	tests := []struct {
		name       string
		stored     *StoredTemplate
		wantReason types.ReasonCode
	}{
		{
			name:       "no enrolled template",
			stored:     nil,
			wantReason: types.ReasonNoEnrolledTemplate,
		},
		{
			name:       "model version mismatch",
			stored:     &StoredTemplate{Embedding: embedding, ModelVersion: "other-v9"},
			wantReason: types.ReasonVersionMismatch,
		},
		{
			name:       "below threshold",
			stored:     &StoredTemplate{Embedding: opposite, ModelVersion: "stub-v1"},
			wantReason: types.ReasonBelowThreshold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := stubEngine(&stubExtractor{embedding: embedding, version: "stub-v1"}, &stubLiveness{live: true})
			decision, err := engine.EvaluateVerification(subjectCapture(640, 480), tt.stored, false)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if decision.Accepted {
				t.Fatal("expected a rejection")
			}
			if decision.Reason == nil || *decision.Reason != tt.wantReason {
				t.Fatalf("reason = %v, want %v", decision.Reason, tt.wantReason)
			}
		})
	}
}

func TestEvaluateVerificationStrictMode(t *testing.T) {
	// cos 0.74 remaps to confidence 87: above the normal threshold of 85,
	// below the strict threshold of 90.
	cos := 0.74
	fresh := []float64{1, 0}
	stored := []float64{cos, math.Sqrt(1 - cos*cos)}

	engine := stubEngine(&stubExtractor{embedding: fresh, version: "stub-v1"}, &stubLiveness{live: true})
	template := &StoredTemplate{Embedding: stored, ModelVersion: "stub-v1"}

	normal, err := engine.EvaluateVerification(subjectCapture(640, 480), template, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !normal.Accepted {
		t.Fatalf("expected normal mode acceptance at confidence %v", normal.Confidence)
	}

	strict, err := engine.EvaluateVerification(subjectCapture(640, 480), template, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strict.Accepted {
		t.Fatalf("expected strict mode rejection at confidence %v", strict.Confidence)
	}
	if strict.Reason == nil || *strict.Reason != types.ReasonBelowThreshold {
		t.Fatalf("reason = %v, want %v", strict.Reason, types.ReasonBelowThreshold)
	}
}

func TestEnrollThenVerifyRoundtrip(t *testing.T) {
	analyzer := NewQualityAnalyzer(DefaultQualityPolicy())
	engine := NewDecisionEngine(
		analyzer,
		NewBlockLumaExtractor(analyzer),
		NewTextureLivenessChecker(),
		NewMatcher(),
		DefaultDecisionPolicy(),
	)

	enrollment, err := engine.EvaluateEnrollment(subjectCapture(640, 480))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !enrollment.Accepted {
		t.Fatalf("expected enrollment acceptance, got reason %v", enrollment.Reason)
	}

	verification, err := engine.EvaluateVerification(subjectCapture(640, 480), &StoredTemplate{
		Embedding:    enrollment.Embedding,
		ModelVersion: enrollment.ModelVersion,
	}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !verification.Accepted {
		t.Fatalf("expected verification acceptance, got reason %v confidence %v", verification.Reason, verification.Confidence)
	}
}
