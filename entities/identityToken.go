package entities

import (
	"time"

	"campuspass.io/application/utils"
)

// IdentityToken is a short-lived code bound to a subject. The CodeValue is
// the opaque redemption credential; RotationSecret feeds the 30 second
// rotating display code shown inside the QR so a screenshotted code goes
// stale quickly. Expiry is enforced server-side only - a client claiming
// its token is still fresh is never trusted.
type IdentityToken struct {
	SubjectID        string     `bson:"subjectID" json:"subjectID"`
	CodeValue        string     `bson:"codeValue" json:"codeValue"`
	RotationSecret   string     `bson:"rotationSecret" json:"-"`
	IssuedAt         time.Time  `bson:"issuedAt" json:"issuedAt"`
	ExpiresAt        time.Time  `bson:"expiresAt" json:"expiresAt"`
	ConsumedAt       *time.Time `bson:"consumedAt" json:"consumedAt"`
	ConsumptionCount uint       `bson:"consumptionCount" json:"consumptionCount"`
	MaxConsumptions  uint       `bson:"maxConsumptions" json:"maxConsumptions"`

	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (model IdentityToken) ParseModel() any {
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
