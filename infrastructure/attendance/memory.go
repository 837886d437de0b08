package attendance

import (
	"context"
	"sync"
	"time"

	"campuspass.io/entities"
)

// MemoryOccupancyStore keeps occupancy in process memory behind one mutex,
// which is what makes Open atomic here. Used by tests and single-node runs.
type MemoryOccupancyStore struct {
	mu      sync.Mutex
	records []*entities.OccupancyRecord
}

func NewMemoryOccupancyStore() *MemoryOccupancyStore {
	return &MemoryOccupancyStore{}
}

func (ms *MemoryOccupancyStore) Open(_ context.Context, record *entities.OccupancyRecord, capacity *uint) (*entities.OccupancyRecord, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	openCount := uint(0)
	for _, existing := range ms.records {
		if !existing.IsOpen() {
			continue
		}
		if existing.ResourceID == record.ResourceID {
			if existing.SubjectID == record.SubjectID {
				return nil, ErrAlreadyCheckedIn
			}
			openCount++
		}
	}
	if capacity != nil && openCount >= *capacity {
		return nil, ErrCapacityExceeded
	}

	parsed := record.ParseModel().(*entities.OccupancyRecord)
	ms.records = append(ms.records, parsed)
	copied := *parsed
	return &copied, nil
}

func (ms *MemoryOccupancyStore) Close(_ context.Context, subjectID string, resourceID string, exitTime time.Time) (*entities.OccupancyRecord, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	for _, existing := range ms.records {
		if existing.IsOpen() && existing.SubjectID == subjectID && existing.ResourceID == resourceID {
			stamped := exitTime
			existing.ExitTime = &stamped
			existing.UpdatedAt = exitTime
			copied := *existing
			return &copied, nil
		}
	}
	return nil, ErrNotCheckedIn
}

func (ms *MemoryOccupancyStore) CountOpen(_ context.Context, resourceID string) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var count int64
	for _, existing := range ms.records {
		if existing.IsOpen() && existing.ResourceID == resourceID {
			count++
		}
	}
	return count, nil
}
