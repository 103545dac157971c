package store

import (
	"context"
	"sync"
	"time"
)

// IssuedToken is an access token handed out by the emulator.
type IssuedToken struct {
	AccessToken string    `json:"-"`
	Fingerprint string    `json:"fingerprint"`
	ClientToken string    `json:"client_token"`
	UserID      string    `json:"user_id"`
	ProfileID   string    `json:"profile_id,omitempty"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (t IssuedToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

type InMemoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]IssuedToken
	now    func() time.Time
}

func NewInMemoryTokenStore() *InMemoryTokenStore {
	return &InMemoryTokenStore{
		tokens: make(map[string]IssuedToken),
		now:    time.Now,
	}
}

func (s *InMemoryTokenStore) Save(_ context.Context, token IssuedToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[token.AccessToken] = token
	return nil
}

// Get returns the token if it is known and not expired.
func (s *InMemoryTokenStore) Get(_ context.Context, accessToken string) (IssuedToken, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tokens[accessToken]
	if !ok || t.Expired(s.now()) {
		return IssuedToken{}, false
	}
	return t, true
}

// Delete removes the token and reports whether it was known.
func (s *InMemoryTokenStore) Delete(_ context.Context, accessToken string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.tokens[accessToken]
	delete(s.tokens, accessToken)
	return ok
}

// DeleteForUser removes every token issued to the user.
func (s *InMemoryTokenStore) DeleteForUser(_ context.Context, userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int
	for key, t := range s.tokens {
		if t.UserID == userID {
			delete(s.tokens, key)
			deleted++
		}
	}
	return deleted
}

func (s *InMemoryTokenStore) ListActive(_ context.Context) ([]IssuedToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	activeTokens := make([]IssuedToken, 0)
	now := s.now()

	for _, t := range s.tokens {
		if !t.Expired(now) {
			activeTokens = append(activeTokens, t)
		}
	}

	return activeTokens, nil
}

func (s *InMemoryTokenStore) DeleteExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var deletedCount int64

	for key, t := range s.tokens {
		if t.Expired(now) {
			delete(s.tokens, key)
			deletedCount++
		}
	}

	return deletedCount, nil
}
