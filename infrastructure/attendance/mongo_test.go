package attendance

import (
	"errors"
	"strconv"
	"testing"
	"time"
)

type fakeCounter struct {
	values map[string]int64
	seeds  int
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{values: map[string]int64{}}
}

func (fc *fakeCounter) FindOne(key string) *string {
	value, ok := fc.values[key]
	if !ok {
		return nil
	}
	formatted := strconv.FormatInt(value, 10)
	return &formatted
}

func (fc *fakeCounter) CreateEntryIfAbsent(key string, payload interface{}, _ time.Duration) bool {
	if _, ok := fc.values[key]; ok {
		return false
	}
	fc.values[key] = payload.(int64)
	fc.seeds++
	return true
}

func (fc *fakeCounter) IncrementField(key string, amount int64) int64 {
	fc.values[key] += amount
	return fc.values[key]
}

func TestSeedAndReserveSeedsMissingCounter(t *testing.T) {
	counter := newFakeCounter()

	reserved, err := seedAndReserve(counter, "occupancy:lab-1:open", func() (int64, error) {
		return 3, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reserved != 4 {
		t.Fatalf("reserved = %d, want 4 (3 open records + this reservation)", reserved)
	}
	if counter.seeds != 1 {
		t.Fatalf("expected exactly one seed, got %d", counter.seeds)
	}
}

func TestSeedAndReserveLeavesLiveCounterAlone(t *testing.T) {
	counter := newFakeCounter()
	counter.values["occupancy:lab-1:open"] = 7

	reserved, err := seedAndReserve(counter, "occupancy:lab-1:open", func() (int64, error) {
		t.Fatal("a live counter must not be recounted")
		return 0, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reserved != 8 {
		t.Fatalf("reserved = %d, want 8", reserved)
	}
}

func TestSeedAndReservePropagatesCountFailure(t *testing.T) {
	counter := newFakeCounter()
	countErr := errors.New("count unavailable")

	if _, err := seedAndReserve(counter, "occupancy:lab-1:open", func() (int64, error) {
		return 0, countErr
	}); !errors.Is(err, countErr) {
		t.Fatalf("expected the count error, got %v", err)
	}
	if len(counter.values) != 0 {
		t.Fatal("a failed seed must not leave counter state behind")
	}
}
