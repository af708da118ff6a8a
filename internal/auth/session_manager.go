package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/vlogit/core/internal/models"
)

// ErrNoSession indicates nobody is signed in on this device.
var ErrNoSession = errors.New("no active session")

// SessionStore persists the profile of the active session so it survives restarts.
type SessionStore interface {
	ActiveUser(ctx context.Context) (models.UserProfile, bool, error)
	SaveActiveUser(ctx context.Context, user models.UserProfile) error
	ClearActiveUser(ctx context.Context) error
}

// Session is the signed-in identity. Services receive it explicitly.
type Session struct {
	User models.UserProfile
}

// UserID returns the identity key of the session.
func (s Session) UserID() string {
	return s.User.ID
}

// Valid reports whether the session carries an identity.
func (s Session) Valid() bool {
	return s.User.ID != ""
}

// Manager tracks the single active session on this device.
type Manager struct {
	store SessionStore
}

// NewManager constructs a Manager backed by the provided store.
func NewManager(store SessionStore) *Manager {
	if store == nil {
		panic("auth: session store must not be nil")
	}
	return &Manager{store: store}
}

// Current returns the active session or ErrNoSession.
func (m *Manager) Current(ctx context.Context) (Session, error) {
	user, ok, err := m.store.ActiveUser(ctx)
	if err != nil {
		return Session{}, fmt.Errorf("load active session: %w", err)
	}
	if !ok || user.ID == "" {
		return Session{}, ErrNoSession
	}
	return Session{User: user}, nil
}

// Activate makes user the active session, replacing any previous one.
func (m *Manager) Activate(ctx context.Context, user models.UserProfile) (Session, error) {
	if user.ID == "" {
		return Session{}, errors.New("user id must be provided")
	}
	if err := m.store.SaveActiveUser(ctx, user); err != nil {
		return Session{}, fmt.Errorf("save active session: %w", err)
	}
	return Session{User: user}, nil
}

// Revoke signs out. Revoking without an active session is not an error.
func (m *Manager) Revoke(ctx context.Context) error {
	if err := m.store.ClearActiveUser(ctx); err != nil {
		return fmt.Errorf("clear active session: %w", err)
	}
	return nil
}
