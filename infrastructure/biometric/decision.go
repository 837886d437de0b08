package biometric

import (
	"errors"
	"image"
	"time"

	"campuspass.io/infrastructure/biometric/types"
)

// DecisionPolicy holds the accept thresholds for the verification decision
// engine. Verification tolerates a looser capture floor than enrollment but
// demands a high match confidence.
type DecisionPolicy struct {
	AcceptThreshold       float64 // confidence percentage, normal mode
	StrictAcceptThreshold float64 // confidence percentage, strict mode
}

func DefaultDecisionPolicy() DecisionPolicy {
	return DecisionPolicy{
		AcceptThreshold:       85,
		StrictAcceptThreshold: 90,
	}
}

// StoredTemplate is the decrypted comparison side of a verification: the
// enrolled embedding plus the extractor version that produced it.
type StoredTemplate struct {
	Embedding    []float64
	ModelVersion string
}

// DecisionEngine composes quality, liveness and similarity into a single
// accept/reject outcome. It is explicitly constructed and injected rather
// than hiding behind package singletons, is idempotent, and has no side
// effects - writing the audit record belongs to the caller.
type DecisionEngine struct {
	analyzer  *QualityAnalyzer
	extractor Extractor
	liveness  LivenessChecker
	matcher   *Matcher
	policy    DecisionPolicy
}

func NewDecisionEngine(analyzer *QualityAnalyzer, extractor Extractor, liveness LivenessChecker, matcher *Matcher, policy DecisionPolicy) *DecisionEngine {
	return &DecisionEngine{
		analyzer:  analyzer,
		extractor: extractor,
		liveness:  liveness,
		matcher:   matcher,
		policy:    policy,
	}
}

func (de *DecisionEngine) ModelVersion() string {
	return de.extractor.ModelVersion()
}

// EvaluateEnrollment runs the capture through the enrollment pipeline:
// quality at the stricter enrollment floor, then liveness, then extraction.
// The embedding is only populated on acceptance.
func (de *DecisionEngine) EvaluateEnrollment(img image.Image) (*types.EnrollmentDecision, error) {
	decision := &types.EnrollmentDecision{
		ModelVersion: de.extractor.ModelVersion(),
		DecidedAt:    time.Now(),
	}

	report, err := de.analyzer.Analyze(img)
	if err != nil {
		return nil, err
	}
	decision.Quality = report

	if report.Score < de.analyzer.Policy().MinEnrollScore || !report.Passable() {
		return rejectEnrollment(decision, qualityReason(report)), nil
	}

	live, err := de.liveness.CheckLiveness(img)
	if err != nil {
		return nil, err
	}
	if !live.Live {
		return rejectEnrollment(decision, types.ReasonLivenessFailed), nil
	}

	embedding, err := de.extractor.ExtractEmbedding(img)
	if err != nil {
		if reason, ok := extractionReason(err); ok {
			return rejectEnrollment(decision, reason), nil
		}
		return nil, err
	}

	decision.Accepted = true
	decision.Embedding = embedding
	return decision, nil
}

// EvaluateVerification compares a fresh capture against the subject's stored
// template. Cross-version comparison is rejected outright rather than scored
// with degraded confidence.
func (de *DecisionEngine) EvaluateVerification(img image.Image, stored *StoredTemplate, strict bool) (*types.VerificationDecision, error) {
	decision := &types.VerificationDecision{DecidedAt: time.Now()}

	if stored == nil || len(stored.Embedding) == 0 {
		return rejectVerification(decision, types.ReasonNoEnrolledTemplate), nil
	}

	report, err := de.analyzer.Analyze(img)
	if err != nil {
		return nil, err
	}
	decision.Quality = report

	if report.Score < de.analyzer.Policy().MinCaptureScore {
		return rejectVerification(decision, qualityReason(report)), nil
	}

	live, err := de.liveness.CheckLiveness(img)
	if err != nil {
		return nil, err
	}
	if !live.Live {
		return rejectVerification(decision, types.ReasonLivenessFailed), nil
	}

	if stored.ModelVersion != de.extractor.ModelVersion() {
		return rejectVerification(decision, types.ReasonVersionMismatch), nil
	}

	embedding, err := de.extractor.ExtractEmbedding(img)
	if err != nil {
		if reason, ok := extractionReason(err); ok {
			return rejectVerification(decision, reason), nil
		}
		return nil, err
	}

	match, err := de.matcher.Compare(embedding, stored.Embedding)
	if err != nil {
		return nil, err
	}
	decision.Confidence = match.Confidence

	threshold := de.policy.AcceptThreshold
	if strict {
		threshold = de.policy.StrictAcceptThreshold
	}
	if match.Confidence < threshold {
		return rejectVerification(decision, types.ReasonBelowThreshold), nil
	}

	decision.Accepted = true
	return decision, nil
}

// qualityReason picks the primary reason for a quality rejection: a missing
// subject beats a generic low-quality code.
func qualityReason(report *types.QualityReport) types.ReasonCode {
	if !report.SubjectDetected {
		return types.ReasonNoSubject
	}
	return types.ReasonLowQuality
}

func extractionReason(err error) (types.ReasonCode, bool) {
	switch {
	case errors.Is(err, ErrNoSubjectDetected):
		return types.ReasonNoSubject, true
	case errors.Is(err, ErrMultipleSubjectsDetected):
		return types.ReasonMultipleSubjects, true
	}
	return "", false
}

func rejectEnrollment(decision *types.EnrollmentDecision, reason types.ReasonCode) *types.EnrollmentDecision {
	decision.Accepted = false
	decision.Reason = &reason
	return decision
}

func rejectVerification(decision *types.VerificationDecision, reason types.ReasonCode) *types.VerificationDecision {
	decision.Accepted = false
	decision.Reason = &reason
	return decision
}
