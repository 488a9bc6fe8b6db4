package security

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"file-vault-api/internal/app/config"
	"file-vault-api/internal/app/ports"
)

// InMemSessionStore binds opaque uuid tokens to principals with a TTL.
// Expired entries are dropped lazily on lookup.
type InMemSessionStore struct {
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]sessionEntry
	now      func() time.Time
}

type sessionEntry struct {
	principal ports.Principal
	expiresAt time.Time
}

// Enforce compile-time conformance to the interface
var _ ports.SessionStore = (*InMemSessionStore)(nil)

func NewInMemSessionStore(cfg config.SessionConfig) *InMemSessionStore {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &InMemSessionStore{
		ttl:      ttl,
		sessions: make(map[string]sessionEntry),
		now:      time.Now,
	}
}

func (s *InMemSessionStore) Put(principal ports.Principal) (string, error) {
	token, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token.String()] = sessionEntry{
		principal: principal,
		expiresAt: s.now().Add(s.ttl),
	}
	return token.String(), nil
}

func (s *InMemSessionStore) Get(token string) (ports.Principal, error) {
	s.mu.RLock()
	entry, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return ports.Principal{}, ports.ErrInvalidCredentials
	}
	if s.now().After(entry.expiresAt) {
		s.Delete(token)
		return ports.Principal{}, ports.ErrInvalidCredentials
	}
	return entry.principal, nil
}

func (s *InMemSessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}
