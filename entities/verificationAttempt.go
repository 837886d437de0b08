package entities

import (
	"time"

	"campuspass.io/application/utils"
	"github.com/google/uuid"
)

type VerificationMode string

const (
	VerificationModeEnroll VerificationMode = "ENROLL"
	VerificationModeVerify VerificationMode = "VERIFY"
)

type VerificationOutcome string

const (
	VerificationOutcomeAccept VerificationOutcome = "ACCEPT"
	VerificationOutcomeReject VerificationOutcome = "REJECT"
)

type VerificationMethod string

const (
	VerificationMethodFacial      VerificationMethod = "FACIAL"
	VerificationMethodToken       VerificationMethod = "TOKEN"
	VerificationMethodManual      VerificationMethod = "MANUAL"
	VerificationMethodFingerprint VerificationMethod = "FINGERPRINT" // placeholder modality, no pipeline behind it yet
)

// VerificationAttempt is the append-only audit record written for every
// enrollment, verification and token redemption. Rows are never updated.
type VerificationAttempt struct {
	SubjectID  string              `bson:"subjectID" json:"subjectID"`
	Mode       VerificationMode    `bson:"mode" json:"mode"`
	Outcome    VerificationOutcome `bson:"outcome" json:"outcome"`
	Confidence float64             `bson:"confidence" json:"confidence"`
	ReasonCode *string             `bson:"reasonCode" json:"reasonCode"`
	Method     VerificationMethod  `bson:"method" json:"method"`
	AttemptID  string              `bson:"attemptID" json:"attemptID"`
	Timestamp  time.Time           `bson:"timestamp" json:"timestamp"`

	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (model VerificationAttempt) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		if model.ID == "" {
			model.ID = utils.GenerateULIDString()
		}
	}
	if model.AttemptID == "" {
		model.AttemptID = uuid.NewString()
	}
	if model.Timestamp.IsZero() {
		model.Timestamp = now
	}
	model.UpdatedAt = now
	return &model
}
