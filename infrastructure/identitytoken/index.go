package identitytoken

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"time"

	"campuspass.io/entities"
	"campuspass.io/infrastructure/logger"
	"campuspass.io/infrastructure/totp"
)

const (
	// DefaultTTL is how long an issued token stays redeemable. Clients
	// typically re-issue well before this; the server enforces it regardless.
	DefaultTTL = 5 * time.Minute

	codeEntropyBytes = 20
)

// Service issues and consumes short-lived identity tokens. Expiry is pure
// timestamp comparison at check time - no timers, no trust in any
// client-reported rotation state.
type Service struct {
	store   Store
	rotator totp.RotatingCodeGeneratorType
	ttl     time.Duration
}

func NewService(store Store, rotator totp.RotatingCodeGeneratorType, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		store:   store,
		rotator: rotator,
		ttl:     ttl,
	}
}

// Issue mints a token bound to the subject with a crypto-random opaque code.
// maxConsumptions is 1 for one-shot entry gates, 2 for entry plus exit.
func (s *Service) Issue(ctx context.Context, subjectID string, maxConsumptions uint) (*IssuedToken, error) {
	if maxConsumptions == 0 {
		maxConsumptions = 1
	}

	codeValue, err := generateCodeValue()
	if err != nil {
		return nil, err
	}

	secret, _, err := s.rotator.GenerateSecret(subjectID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	token := &entities.IdentityToken{
		SubjectID:       subjectID,
		CodeValue:       codeValue,
		RotationSecret:  *secret,
		IssuedAt:        now,
		ExpiresAt:       now.Add(s.ttl),
		MaxConsumptions: maxConsumptions,
	}
	if err := s.store.Save(ctx, token); err != nil {
		logger.Error("identity token - failed to persist issued token", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "subjectID",
			Data: subjectID,
		})
		return nil, err
	}

	displayCode, err := s.rotator.GenerateRotatingCode(*secret)
	if err != nil {
		return nil, err
	}

	return &IssuedToken{
		SubjectID:   subjectID,
		CodeValue:   codeValue,
		DisplayCode: *displayCode,
		ExpiresAt:   token.ExpiresAt,
	}, nil
}

// DisplayCode returns the current rotating code for a live token so clients
// can refresh the QR without re-issuing.
func (s *Service) DisplayCode(ctx context.Context, codeValue string) (*string, error) {
	token, err := s.store.FindByCode(ctx, codeValue)
	if err != nil {
		return nil, err
	}
	if time.Now().After(token.ExpiresAt) {
		return nil, ErrTokenExpired
	}
	return s.rotator.GenerateRotatingCode(token.RotationSecret)
}

// Redeem atomically validates and consumes one use of the token. When the
// caller scanned a rotating display code it is checked against the token's
// secret; an empty displayCode skips that check (manual operator entry of
// the opaque code).
func (s *Service) Redeem(ctx context.Context, codeValue string, displayCode string) (*entities.IdentityToken, error) {
	if displayCode != "" {
		token, err := s.store.FindByCode(ctx, codeValue)
		if err != nil {
			return nil, err
		}
		if !s.rotator.ValidateRotatingCode(displayCode, token.RotationSecret) {
			return nil, ErrTokenNotFound
		}
	}
	return s.store.Consume(ctx, codeValue, time.Now())
}

// Sweep removes tokens expired past the grace window kept for audit.
func (s *Service) Sweep(ctx context.Context, grace time.Duration) (int64, error) {
	return s.store.DeleteExpiredBefore(ctx, time.Now().Add(-grace))
}

func generateCodeValue() (string, error) {
	buffer := make([]byte, codeEntropyBytes)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("failed to generate token code: %w", err)
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buffer), nil
}
