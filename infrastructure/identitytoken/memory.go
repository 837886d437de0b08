package identitytoken

import (
	"context"
	"sync"
	"time"

	"campuspass.io/entities"
)

// MemoryStore is a mutex-guarded in-process store. It backs tests and
// single-node deployments without a database; the mutex gives Consume its
// required atomicity.
type MemoryStore struct {
	mu     sync.Mutex
	tokens map[string]*entities.IdentityToken
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: map[string]*entities.IdentityToken{}}
}

func (ms *MemoryStore) Save(_ context.Context, token *entities.IdentityToken) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	parsed := token.ParseModel().(*entities.IdentityToken)
	*token = *parsed
	ms.tokens[token.CodeValue] = token
	return nil
}

func (ms *MemoryStore) FindByCode(_ context.Context, codeValue string) (*entities.IdentityToken, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	token, ok := ms.tokens[codeValue]
	if !ok {
		return nil, ErrTokenNotFound
	}
	copied := *token
	return &copied, nil
}

func (ms *MemoryStore) Consume(_ context.Context, codeValue string, now time.Time) (*entities.IdentityToken, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	token, ok := ms.tokens[codeValue]
	if !ok {
		return nil, ErrTokenNotFound
	}
	if !now.Before(token.ExpiresAt) {
		return nil, ErrTokenExpired
	}
	if token.ConsumptionCount >= token.MaxConsumptions {
		return nil, ErrTokenExhausted
	}

	token.ConsumptionCount++
	if token.ConsumedAt == nil {
		consumedAt := now
		token.ConsumedAt = &consumedAt
	}
	token.UpdatedAt = now

	copied := *token
	return &copied, nil
}

func (ms *MemoryStore) DeleteExpiredBefore(_ context.Context, cutoff time.Time) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var removed int64
	for code, token := range ms.tokens {
		if token.ExpiresAt.Before(cutoff) {
			delete(ms.tokens, code)
			removed++
		}
	}
	return removed, nil
}
