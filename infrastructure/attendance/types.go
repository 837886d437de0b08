package attendance

import (
	"context"
	"errors"
	"time"

	"campuspass.io/entities"
)

var (
	ErrAlreadyCheckedIn = errors.New("attendance: subject already has an open record for this resource")
	ErrNotCheckedIn     = errors.New("attendance: no open record to close for this subject and resource")
	ErrCapacityExceeded = errors.New("attendance: resource is at capacity")
	ErrResourceNotFound = errors.New("attendance: unknown resource")
)

// OccupancyStore owns the open/closed records. Open must be atomic with
// respect to both the one-open-record invariant and the capacity bound -
// concurrent entries must never over-admit.
type OccupancyStore interface {
	// Open creates a new OPEN record, failing with ErrAlreadyCheckedIn if one
	// exists for the (subject, resource) pair and ErrCapacityExceeded when
	// capacity (nil = unbounded) is reached.
	Open(ctx context.Context, record *entities.OccupancyRecord, capacity *uint) (*entities.OccupancyRecord, error)
	// Close stamps the exit time on the open record, failing with
	// ErrNotCheckedIn when there is none.
	Close(ctx context.Context, subjectID string, resourceID string, exitTime time.Time) (*entities.OccupancyRecord, error)
	CountOpen(ctx context.Context, resourceID string) (int64, error)
}
