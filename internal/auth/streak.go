package auth

import (
	"context"
	"time"

	"github.com/vlogit/core/internal/logging"
	"github.com/vlogit/core/internal/models"
)

// CreditPost applies the streak rule for a post published at now. previous is
// the newest post by the same user stored before this one, or nil. The streak
// grows by one unless previous falls on the same local calendar day. It never
// shrinks. The returned flag reports whether the streak changed.
func (s *Service) CreditPost(ctx context.Context, sess Session, previous *models.VlogPost, now time.Time) (Session, bool, error) {
	if !sess.Valid() {
		return Session{}, false, ErrNoSession
	}
	if previous != nil && SameDay(previous.Time(), now, s.loc) {
		return sess, false, nil
	}

	user := sess.User
	user.Streak++
	if err := s.syncTable(ctx, user, false); err != nil {
		return Session{}, false, err
	}
	next, err := s.sessions.Activate(ctx, user)
	if err != nil {
		return Session{}, false, err
	}
	logging.FromContext(ctx).Info("streak extended", "userId", user.ID, "streak", user.Streak)
	return next, true, nil
}

// SameDay reports whether a and b share a calendar date in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// Location is the time zone used for calendar-day comparisons.
func (s *Service) Location() *time.Location {
	return s.loc
}
