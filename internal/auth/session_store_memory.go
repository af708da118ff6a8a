package auth

import (
	"context"
	"sync"

	"github.com/vlogit/core/internal/models"
)

// NewInMemorySessionStore returns a SessionStore that forgets everything on exit.
func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{}
}

// InMemorySessionStore implements SessionStore for tests and ephemeral runs.
type InMemorySessionStore struct {
	mu     sync.RWMutex
	user   models.UserProfile
	active bool
}

// ActiveUser returns the stored profile.
func (s *InMemorySessionStore) ActiveUser(context.Context) (models.UserProfile, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.active, nil
}

// SaveActiveUser replaces the stored profile.
func (s *InMemorySessionStore) SaveActiveUser(_ context.Context, user models.UserProfile) error {
	s.mu.Lock()
	s.user, s.active = user, true
	s.mu.Unlock()
	return nil
}

// ClearActiveUser forgets the stored profile.
func (s *InMemorySessionStore) ClearActiveUser(context.Context) error {
	s.mu.Lock()
	s.user, s.active = models.UserProfile{}, false
	s.mu.Unlock()
	return nil
}
