package identitytoken

import (
	"context"
	"errors"
	"time"

	"campuspass.io/entities"
)

var (
	ErrTokenNotFound  = errors.New("identitytoken: no live token matches this code")
	ErrTokenExpired   = errors.New("identitytoken: token has expired")
	ErrTokenExhausted = errors.New("identitytoken: token consumption limit reached")
)

// Store persists identity tokens. Consume must be an atomic
// compare-and-increment: two concurrent redemptions of a one-shot token must
// never both succeed.
type Store interface {
	Save(ctx context.Context, token *entities.IdentityToken) error
	FindByCode(ctx context.Context, codeValue string) (*entities.IdentityToken, error)
	// Consume validates and consumes in one step, classifying failures as
	// ErrTokenNotFound, ErrTokenExpired or ErrTokenExhausted.
	Consume(ctx context.Context, codeValue string, now time.Time) (*entities.IdentityToken, error)
	// DeleteExpiredBefore garbage-collects tokens whose expiry predates the
	// cutoff, returning how many were removed.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// IssuedToken is what the client renders: the opaque redemption code, the
// current rotating display code, and the server-authoritative expiry.
type IssuedToken struct {
	SubjectID   string    `json:"subjectID"`
	CodeValue   string    `json:"codeValue"`
	DisplayCode string    `json:"displayCode"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
