package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"
)

// AdminTokenTTL is how long an issued admin token stays valid
const AdminTokenTTL = 24 * time.Hour

// AdminTokenStore tracks admin tokens issued by the access-code gate. Tokens
// live in process memory only; a restart signs every admin out.
type AdminTokenStore struct {
	mu     sync.Mutex
	tokens map[string]time.Time // token -> expiry
}

func NewAdminTokenStore() *AdminTokenStore {
	return &AdminTokenStore{tokens: make(map[string]time.Time)}
}

// Issue mints a new admin token and its expiry
func (s *AdminTokenStore) Issue() (string, time.Time) {
	buf := make([]byte, 18)
	_, _ = rand.Read(buf)

	raw := fmt.Sprintf("admin_%d_%s", time.Now().UnixMilli(), base64.RawURLEncoding.EncodeToString(buf))
	token := base64.StdEncoding.EncodeToString([]byte(raw))
	expiresAt := time.Now().Add(AdminTokenTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Drop expired tokens while we hold the lock
	now := time.Now()
	for t, exp := range s.tokens {
		if exp.Before(now) {
			delete(s.tokens, t)
		}
	}

	s.tokens[token] = expiresAt
	return token, expiresAt
}

// Valid reports whether token was issued here and has not expired
func (s *AdminTokenStore) Valid(token string) bool {
	if token == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.tokens[token]
	if !ok {
		return false
	}
	if exp.Before(time.Now()) {
		delete(s.tokens, token)
		return false
	}
	return true
}

// Revoke removes a token (admin logout)
func (s *AdminTokenStore) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}
