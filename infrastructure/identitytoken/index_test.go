package identitytoken

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"campuspass.io/entities"
	"campuspass.io/infrastructure/totp"
)

func testService(store Store) *Service {
	return NewService(store, &totp.PquernaRotatingCodeService{}, time.Minute)
}

func TestIssueAndRedeem(t *testing.T) {
	store := NewMemoryStore()
	service := testService(store)

	issued, err := service.Issue(context.Background(), "student-001", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if issued.CodeValue == "" || issued.DisplayCode == "" {
		t.Fatal("expected both the opaque code and a display code")
	}
	if !issued.ExpiresAt.After(time.Now()) {
		t.Fatal("expected a future expiry")
	}

	token, err := service.Redeem(context.Background(), issued.CodeValue, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token.SubjectID != "student-001" {
		t.Fatalf("unexpected subject %q", token.SubjectID)
	}
	if token.ConsumptionCount != 1 {
		t.Fatalf("consumption count = %d, want 1", token.ConsumptionCount)
	}
	if token.ConsumedAt == nil {
		t.Fatal("expected consumedAt to be stamped")
	}
}

func TestIssueDefaultsToSingleConsumption(t *testing.T) {
	service := testService(NewMemoryStore())

	issued, err := service.Issue(context.Background(), "student-001", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := service.Redeem(context.Background(), issued.CodeValue, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.Redeem(context.Background(), issued.CodeValue, ""); !errors.Is(err, ErrTokenExhausted) {
		t.Fatalf("expected ErrTokenExhausted, got %v", err)
	}
}

func TestRedeemEntryAndExitThenExhausted(t *testing.T) {
	service := testService(NewMemoryStore())

	issued, err := service.Issue(context.Background(), "student-001", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := service.Redeem(context.Background(), issued.CodeValue, ""); err != nil {
			t.Fatalf("redeem %d: unexpected error: %v", i+1, err)
		}
	}
	if _, err := service.Redeem(context.Background(), issued.CodeValue, ""); !errors.Is(err, ErrTokenExhausted) {
		t.Fatalf("expected ErrTokenExhausted, got %v", err)
	}
}

func TestDisplayCodeRefreshesWithoutConsuming(t *testing.T) {
	store := NewMemoryStore()
	service := testService(store)

	issued, err := service.Issue(context.Background(), "student-001", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	refreshed, err := service.DisplayCode(context.Background(), issued.CodeValue)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	token, err := store.FindByCode(context.Background(), issued.CodeValue)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !service.rotator.ValidateRotatingCode(*refreshed, token.RotationSecret) {
		t.Fatal("refreshed display code should validate against the token secret")
	}
	if token.ConsumptionCount != 0 {
		t.Fatalf("refresh must not consume, count = %d", token.ConsumptionCount)
	}

	if _, err := service.Redeem(context.Background(), issued.CodeValue, *refreshed); err != nil {
		t.Fatalf("refreshed code should redeem, got %v", err)
	}
}

func TestDisplayCodeRejectsDeadTokens(t *testing.T) {
	store := NewMemoryStore()
	service := testService(store)

	if _, err := service.DisplayCode(context.Background(), "nope"); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}

	expired := &entities.IdentityToken{
		SubjectID:       "student-001",
		CodeValue:       "stale-code",
		ExpiresAt:       time.Now().Add(-time.Millisecond),
		MaxConsumptions: 1,
	}
	if err := store.Save(context.Background(), expired); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.DisplayCode(context.Background(), "stale-code"); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestRedeemUnknownCode(t *testing.T) {
	service := testService(NewMemoryStore())
	if _, err := service.Redeem(context.Background(), "nope", ""); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
}

func TestRedeemExpiredToken(t *testing.T) {
	store := NewMemoryStore()
	service := testService(store)

	expired := &entities.IdentityToken{
		SubjectID:       "student-001",
		CodeValue:       "stale-code",
		IssuedAt:        time.Now().Add(-10 * time.Minute),
		ExpiresAt:       time.Now().Add(-time.Millisecond),
		MaxConsumptions: 1,
	}
	if err := store.Save(context.Background(), expired); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := service.Redeem(context.Background(), "stale-code", ""); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestRedeemValidatesDisplayCode(t *testing.T) {
	service := testService(NewMemoryStore())

	issued, err := service.Issue(context.Background(), "student-001", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := service.Redeem(context.Background(), issued.CodeValue, "000000"); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound for a wrong display code, got %v", err)
	}

	token, err := service.Redeem(context.Background(), issued.CodeValue, issued.DisplayCode)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token.ConsumptionCount != 1 {
		t.Fatalf("consumption count = %d, want 1", token.ConsumptionCount)
	}
}

func TestConcurrentRedemptionSingleSuccess(t *testing.T) {
	store := NewMemoryStore()
	service := testService(store)

	issued, err := service.Issue(context.Background(), "student-001", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const workers = 16
	var wg sync.WaitGroup
	successes := make(chan struct{}, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Consume(context.Background(), issued.CodeValue, time.Now()); err == nil {
				successes <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(successes)

	count := 0
	for range successes {
		count++
	}
	if count != 1 {
		t.Fatalf("expected exactly one successful consumption, got %d", count)
	}
}

func TestSweepKeepsGraceWindow(t *testing.T) {
	store := NewMemoryStore()
	service := testService(store)

	old := &entities.IdentityToken{
		SubjectID:       "student-001",
		CodeValue:       "long-gone",
		ExpiresAt:       time.Now().Add(-48 * time.Hour),
		MaxConsumptions: 1,
	}
	recent := &entities.IdentityToken{
		SubjectID:       "student-002",
		CodeValue:       "just-expired",
		ExpiresAt:       time.Now().Add(-time.Hour),
		MaxConsumptions: 1,
	}
	for _, token := range []*entities.IdentityToken{old, recent} {
		if err := store.Save(context.Background(), token); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	removed, err := service.Sweep(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 swept token, got %d", removed)
	}
	if _, err := store.FindByCode(context.Background(), "just-expired"); err != nil {
		t.Fatalf("recently expired token should survive the grace window, got %v", err)
	}
}
