package entities

import (
	"time"

	"campuspass.io/application/utils"
)

// BiometricTemplate is the encrypted at-rest form of a subject's face embedding.
// The plaintext embedding never leaves the enrollment pipeline; only the
// AES-GCM ciphertext and its nonce are persisted. One active template per
// subject per modality - re-enrollment retires the old row instead of
// mutating it so the audit history stays intact.
type BiometricTemplate struct {
	OwnerID               string     `bson:"ownerID" json:"ownerID"`
	Modality              string     `bson:"modality" json:"modality"`
	EncryptedBlob         []byte     `bson:"encryptedBlob" json:"-"`
	Nonce                 []byte     `bson:"nonce" json:"-"`
	EmbeddingLength       int        `bson:"embeddingLength" json:"embeddingLength"`
	ModelVersion          string     `bson:"modelVersion" json:"modelVersion"`
	QualityScoreAtCapture float64    `bson:"qualityScoreAtCapture" json:"qualityScoreAtCapture"`
	CapturedAt            time.Time  `bson:"capturedAt" json:"capturedAt"`
	RetiredAt             *time.Time `bson:"retiredAt" json:"retiredAt"`

	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (model BiometricTemplate) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		if model.ID == "" {
			model.ID = utils.GenerateULIDString()
		}
	}
	model.UpdatedAt = now
	return &model
}
