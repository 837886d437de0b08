package entities

import (
	"time"

	"campuspass.io/application/utils"
)

// KioskDevice is an operator terminal allowed to redeem tokens and drive
// attendance. The pairing secret is stored as an argon2 hash only.
type KioskDevice struct {
	Name        string     `bson:"name" json:"name"`
	SecretHash  string     `bson:"secretHash" json:"-"`
	Deactivated bool       `bson:"deactivated" json:"deactivated"`
	LastSeenAt  *time.Time `bson:"lastSeenAt" json:"lastSeenAt"`

	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (model KioskDevice) ParseModel() any {
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
