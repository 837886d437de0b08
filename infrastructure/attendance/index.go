package attendance

import (
	"context"
	"time"

	"campuspass.io/entities"
)

// Service is the occupancy state machine: NONE -> OPEN -> CLOSED per
// (subject, resource). Re-entry after a close starts a new record; entering
// while already open is rejected rather than treated as a no-op so operator
// mis-scans surface immediately.
type Service struct {
	store OccupancyStore
}

func NewService(store OccupancyStore) *Service {
	return &Service{store: store}
}

// Enter admits the subject into the resource. capacity nil means unbounded.
func (s *Service) Enter(ctx context.Context, subjectID string, resourceID string, method entities.VerificationMethod, capacity *uint) (*entities.OccupancyRecord, error) {
	record := &entities.OccupancyRecord{
		SubjectID:  subjectID,
		ResourceID: resourceID,
		EntryTime:  time.Now(),
		Method:     method,
	}
	return s.store.Open(ctx, record, capacity)
}

// Exit closes the subject's open record for the resource.
func (s *Service) Exit(ctx context.Context, subjectID string, resourceID string) (*entities.OccupancyRecord, error) {
	return s.store.Close(ctx, subjectID, resourceID, time.Now())
}

func (s *Service) OpenCount(ctx context.Context, resourceID string) (int64, error) {
	return s.store.CountOpen(ctx, resourceID)
}
