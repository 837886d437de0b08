package entities

import (
	"time"

	"campuspass.io/application/utils"
)

type ResourceKind string

const (
	ResourceKindLecture  ResourceKind = "LECTURE"
	ResourceKindFacility ResourceKind = "FACILITY"
)

// Resource is a lecture session or a physical facility subjects check in and
// out of. MaxCapacity is nil for unbounded resources.
type Resource struct {
	Name        string       `bson:"name" json:"name"`
	Kind        ResourceKind `bson:"kind" json:"kind"`
	MaxCapacity *uint        `bson:"maxCapacity" json:"maxCapacity"`

	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (model Resource) ParseModel() any {
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
