package friends

import (
	"context"
	"errors"

	"github.com/vlogit/core/internal/auth"
	"github.com/vlogit/core/internal/logging"
	"github.com/vlogit/core/internal/metrics"
	"github.com/vlogit/core/internal/models"
)

var (
	// ErrNotFound indicates the invite code matches nobody.
	ErrNotFound = errors.New("user not found")
	// ErrAlreadyFriends indicates the match is already in the friends list.
	ErrAlreadyFriends = errors.New("already friends")
	// ErrSelfInvite indicates the code belongs to the caller.
	ErrSelfInvite = errors.New("cannot add yourself as a friend")
)

// Store is the slice of the record store holding friends lists.
type Store interface {
	Friends(ctx context.Context, ownerID string) ([]models.Friend, error)
	UpdateFriends(ctx context.Context, ownerID string, fn func([]models.Friend) ([]models.Friend, error)) error
}

// Service manages the session user's friends list.
type Service struct {
	directory Directory
	store     Store
}

// NewService constructs a friends service.
func NewService(directory Directory, store Store) *Service {
	return &Service{directory: directory, store: store}
}

// AddByCode looks code up case-insensitively and appends a snapshot of the match
// to the session user's list. A failed call leaves the list untouched.
func (s *Service) AddByCode(ctx context.Context, sess auth.Session, code string) (friend models.Friend, err error) {
	if !sess.Valid() {
		return models.Friend{}, auth.ErrNoSession
	}

	ctx, span := logging.StartSpan(ctx, "friends.add_by_code")
	defer func() {
		span.Fail(err)
		span.End()
		metrics.FriendAdds.WithLabelValues(outcome(err)).Inc()
	}()

	code = NormalizeCode(code)
	if code == "" {
		return models.Friend{}, ErrNotFound
	}
	if code == NormalizeCode(sess.User.FriendCode) {
		return models.Friend{}, ErrSelfInvite
	}

	found, err := s.directory.Lookup(ctx, code)
	if err != nil {
		return models.Friend{}, err
	}
	if found.ID == sess.UserID() {
		return models.Friend{}, ErrSelfInvite
	}

	err = s.store.UpdateFriends(ctx, sess.UserID(), func(list []models.Friend) ([]models.Friend, error) {
		for _, existing := range list {
			if existing.ID == found.ID {
				return nil, ErrAlreadyFriends
			}
		}
		return append(list, found), nil
	})
	if err != nil {
		return models.Friend{}, err
	}

	logging.FromContext(ctx).Info("friend added", "friendId", found.ID)
	return found, nil
}

// List returns the session user's friends in the order they were added.
func (s *Service) List(ctx context.Context, sess auth.Session) ([]models.Friend, error) {
	if !sess.Valid() {
		return nil, auth.ErrNoSession
	}
	return s.store.Friends(ctx, sess.UserID())
}

// Summary counts friends and how many of them have vlogged this cycle.
func (s *Service) Summary(ctx context.Context, sess auth.Session) (models.FriendSummary, error) {
	list, err := s.List(ctx, sess)
	if err != nil {
		return models.FriendSummary{}, err
	}
	summary := models.FriendSummary{Total: len(list)}
	for _, friend := range list {
		if friend.HasVlogged {
			summary.Vlogged++
		}
	}
	return summary, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, ErrAlreadyFriends), errors.Is(err, ErrSelfInvite):
		return metrics.OutcomeConflict
	default:
		return metrics.OutcomeFailure
	}
}
