package repositories

import (
	"context"
	"fmt"

	"github.com/vlogit/core/internal/models"
)

// ActiveUser returns the profile of the active session. The boolean is false
// when nobody is signed in.
func (s *Store) ActiveUser(ctx context.Context) (models.UserProfile, bool, error) {
	var user models.UserProfile
	found, err := s.loadSlot(ctx, SlotActiveUser, &user)
	if err != nil || !found {
		return models.UserProfile{}, false, err
	}
	if err := s.check(SlotActiveUser, user); err != nil {
		return models.UserProfile{}, false, err
	}
	return user, true, nil
}

// SaveActiveUser replaces the active session profile.
func (s *Store) SaveActiveUser(ctx context.Context, user models.UserProfile) error {
	if err := s.check(SlotActiveUser, user); err != nil {
		return err
	}
	if err := s.settleLegacyFriends(ctx); err != nil {
		return err
	}
	return s.saveSlot(ctx, SlotActiveUser, user)
}

// ClearActiveUser empties the active session slot.
func (s *Store) ClearActiveUser(ctx context.Context) error {
	if err := s.settleLegacyFriends(ctx); err != nil {
		return err
	}
	if err := s.backend.Delete(ctx, SlotActiveUser); err != nil {
		return fmt.Errorf("clear %s: %w", SlotActiveUser, err)
	}
	return nil
}
