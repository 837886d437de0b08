package types

import "time"

// QualityReport is the per-capture quality breakdown. It is derived and
// transient - only the composite score survives on the stored template.
type QualityReport struct {
	Score           float64  `json:"score"`
	Brightness      float64  `json:"brightness"`
	Sharpness       float64  `json:"sharpness"`
	SubjectDetected bool     `json:"subject_detected"`
	SubjectCentered bool     `json:"subject_centered"`
	Width           int      `json:"width"`
	Height          int      `json:"height"`
	Issues          []string `json:"issues"`
}

// Passable reports whether the capture cleared every policy floor. The
// issue list, not this flag, is what capture UIs should surface.
func (qr *QualityReport) Passable() bool {
	return len(qr.Issues) == 0
}

type LivenessResult struct {
	Live  bool    `json:"live"`
	Score float64 `json:"score"`
}

type MatchResult struct {
	Similarity float64 `json:"similarity"`
	Confidence float64 `json:"confidence"`
}

type ReasonCode string

const (
	ReasonLowQuality         ReasonCode = "LOW_QUALITY"
	ReasonNoSubject          ReasonCode = "NO_SUBJECT"
	ReasonMultipleSubjects   ReasonCode = "MULTIPLE_SUBJECTS"
	ReasonLivenessFailed     ReasonCode = "LIVENESS_FAILED"
	ReasonBelowThreshold     ReasonCode = "BELOW_THRESHOLD"
	ReasonVersionMismatch    ReasonCode = "VERSION_MISMATCH"
	ReasonNoEnrolledTemplate ReasonCode = "NO_ENROLLED_TEMPLATE"
)

// EnrollmentDecision is the decision engine's verdict on a capture submitted
// for enrollment. Embedding is only populated on acceptance.
type EnrollmentDecision struct {
	Accepted     bool           `json:"accepted"`
	Reason       *ReasonCode    `json:"reason"`
	Quality      *QualityReport `json:"quality"`
	Embedding    []float64      `json:"-"`
	ModelVersion string         `json:"model_version"`
	DecidedAt    time.Time      `json:"decided_at"`
}

type VerificationDecision struct {
	Accepted   bool           `json:"accepted"`
	Reason     *ReasonCode    `json:"reason"`
	Confidence float64        `json:"confidence"`
	Quality    *QualityReport `json:"quality"`
	DecidedAt  time.Time      `json:"decided_at"`
}
