package repositories

import (
	"context"

	"github.com/vlogit/core/internal/models"
)

// Users returns the registered users keyed by email. An empty slot yields an empty map.
func (s *Store) Users(ctx context.Context) (map[string]models.UserProfile, error) {
	users := make(map[string]models.UserProfile)
	if _, err := s.loadSlot(ctx, SlotUsers, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = make(map[string]models.UserProfile)
	}
	for _, user := range users {
		if err := s.check(SlotUsers, user); err != nil {
			return nil, err
		}
	}
	return users, nil
}

// SaveUsers replaces the users table.
func (s *Store) SaveUsers(ctx context.Context, users map[string]models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveUsers(ctx, users)
}

// UpdateUsers runs a read-modify-write cycle on the users table. Nothing is
// written when fn returns an error.
func (s *Store) UpdateUsers(ctx context.Context, fn func(users map[string]models.UserProfile) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.Users(ctx)
	if err != nil {
		return err
	}
	if err := fn(users); err != nil {
		return err
	}
	return s.saveUsers(ctx, users)
}

func (s *Store) saveUsers(ctx context.Context, users map[string]models.UserProfile) error {
	if users == nil {
		users = map[string]models.UserProfile{}
	}
	for _, user := range users {
		if err := s.check(SlotUsers, user); err != nil {
			return err
		}
	}
	return s.saveSlot(ctx, SlotUsers, users)
}
