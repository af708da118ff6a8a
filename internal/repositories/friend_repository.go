package repositories

import (
	"context"

	"github.com/vlogit/core/internal/models"
)

type friendLists map[string][]models.Friend

// Friends returns ownerID's friends in insertion order.
func (s *Store) Friends(ctx context.Context, ownerID string) ([]models.Friend, error) {
	lists, err := s.friendLists(ctx)
	if err != nil {
		return nil, err
	}
	return ownedList(lists, ownerID), nil
}

// SaveFriends replaces ownerID's friends list.
func (s *Store) SaveFriends(ctx context.Context, ownerID string, friends []models.Friend) error {
	return s.UpdateFriends(ctx, ownerID, func([]models.Friend) ([]models.Friend, error) {
		return friends, nil
	})
}

// UpdateFriends runs a read-modify-write cycle on ownerID's list.
func (s *Store) UpdateFriends(ctx context.Context, ownerID string, fn func([]models.Friend) ([]models.Friend, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lists, err := s.friendLists(ctx)
	if err != nil {
		return err
	}
	next, err := fn(ownedList(lists, ownerID))
	if err != nil {
		return err
	}
	if next == nil {
		next = []models.Friend{}
	}
	for _, friend := range next {
		if err := s.check(SlotFriends, friend); err != nil {
			return err
		}
	}
	lists[ownerID] = next
	return s.saveSlot(ctx, SlotFriends, lists)
}

// settleLegacyFriends persists the owner of an unowned single-list layout
// friends list. It runs before the active user slot changes, since that slot
// identifies the owner. With nobody signed in the list is set aside unowned.
func (s *Store) settleLegacyFriends(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lists := make(friendLists)
	if _, err := s.loadSlot(ctx, SlotFriends, &lists); err != nil {
		return err
	}
	if _, ok := lists[legacyOwner]; !ok {
		return nil
	}
	owner, found, err := s.ActiveUser(ctx)
	if err != nil {
		return err
	}
	ownerID := unownedList
	if found {
		ownerID = owner.ID
	}
	adoptLegacy(lists, ownerID)
	return s.saveSlot(ctx, SlotFriends, lists)
}

func (s *Store) friendLists(ctx context.Context) (friendLists, error) {
	lists := make(friendLists)
	if _, err := s.loadSlot(ctx, SlotFriends, &lists); err != nil {
		return nil, err
	}
	if lists == nil {
		lists = make(friendLists)
	}
	if err := s.assignLegacyList(ctx, lists); err != nil {
		return nil, err
	}
	for _, list := range lists {
		for _, friend := range list {
			if err := s.check(SlotFriends, friend); err != nil {
				return nil, err
			}
		}
	}
	return lists, nil
}

// assignLegacyList hands an unowned single-list layout list to the user in the
// active user slot, the account that wrote it.
func (s *Store) assignLegacyList(ctx context.Context, lists friendLists) error {
	if _, ok := lists[legacyOwner]; !ok {
		return nil
	}
	owner, found, err := s.ActiveUser(ctx)
	if err != nil || !found {
		return err
	}
	adoptLegacy(lists, owner.ID)
	return nil
}

func adoptLegacy(lists friendLists, ownerID string) {
	if _, exists := lists[ownerID]; !exists {
		lists[ownerID] = lists[legacyOwner]
	}
	delete(lists, legacyOwner)
}

func ownedList(lists friendLists, ownerID string) []models.Friend {
	list := lists[ownerID]
	out := make([]models.Friend, len(list))
	copy(out, list)
	return out
}
