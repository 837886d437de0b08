package entities

import (
	"time"

	"campuspass.io/application/utils"
)

// OccupancyRecord is one open/closed presence interval for a subject at a
// resource. At most one open record (ExitTime == nil) may exist per
// (subject, resource) pair at a time.
type OccupancyRecord struct {
	SubjectID  string             `bson:"subjectID" json:"subjectID"`
	ResourceID string             `bson:"resourceID" json:"resourceID"`
	EntryTime  time.Time          `bson:"entryTime" json:"entryTime"`
	ExitTime   *time.Time         `bson:"exitTime" json:"exitTime"`
	Method     VerificationMethod `bson:"method" json:"method"`

	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (model OccupancyRecord) ParseModel() any {
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

func (model *OccupancyRecord) IsOpen() bool {
	return model.ExitTime == nil
}
