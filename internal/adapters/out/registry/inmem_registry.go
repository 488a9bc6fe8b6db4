package registry

import (
	"errors"
	"sync"

	"file-vault-api/internal/app/ports"
)

// InMemUserRegistry keeps the mapping in process memory; used by tests
// and throwaway deployments.
type InMemUserRegistry struct {
	users map[string]ports.User
	mu    sync.RWMutex
}

// Enforce compile-time conformance to the interface
var _ ports.UserRegistry = (*InMemUserRegistry)(nil)

func NewInMemUserRegistry() *InMemUserRegistry {
	return &InMemUserRegistry{users: make(map[string]ports.User)}
}

func (s *InMemUserRegistry) HealthCheck() error {
	return nil
}

func (s *InMemUserRegistry) GetInfo() (string, error) {
	return "in-memory", nil
}

func (s *InMemUserRegistry) Load() (map[string]ports.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]ports.User, len(s.users))
	for name, u := range s.users {
		out[name] = u
	}
	return out, nil
}

func (s *InMemUserRegistry) Save(users map[string]ports.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make(map[string]ports.User, len(users))
	for name, u := range users {
		u.Username = name
		next[name] = u
	}
	s.users = next
	return nil
}

func (s *InMemUserRegistry) GetUser(username string) (ports.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return ports.User{}, ports.ErrNotFound
	}
	return u, nil
}

func (s *InMemUserRegistry) AddUser(user ports.User) (ports.User, error) {
	if user.Username == "" {
		return ports.User{}, errors.New("user name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.Username]; exists {
		return ports.User{}, ports.ErrUsernameTaken
	}
	s.users[user.Username] = user
	return user, nil
}
