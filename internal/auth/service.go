package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vlogit/core/internal/logging"
	"github.com/vlogit/core/internal/metrics"
	"github.com/vlogit/core/internal/models"
)

const (
	minPasswordLength = 8
	defaultBio        = "Just vibing."
	avatarBaseURL     = "https://api.dicebear.com/9.x/notionists/svg?seed="
	codeAttempts      = 32

	federatedEmail = "google_user@gmail.com"
	federatedName  = "Google User"
	federatedBio   = "Vlogging via Google"
	federatedSeed  = "GoogleUser"
)

// UserStore is the slice of the record store the account service needs.
type UserStore interface {
	Users(ctx context.Context) (map[string]models.UserProfile, error)
	UpdateUsers(ctx context.Context, fn func(users map[string]models.UserProfile) error) error
	SaveFriends(ctx context.Context, ownerID string, friends []models.Friend) error
}

// RateLimiter throttles credential checks per key.
type RateLimiter interface {
	Allow(key string) bool
}

// CodeReserver reports friend codes that belong to someone outside the users table.
type CodeReserver interface {
	Reserved(code string) bool
}

// AvatarTranscoder shrinks an uploaded image into an embeddable JPEG.
type AvatarTranscoder interface {
	Transcode(ctx context.Context, data []byte) ([]byte, error)
}

// ServiceOptions carries the optional collaborators of Service.
type ServiceOptions struct {
	Limiter  RateLimiter
	Reserved CodeReserver
	Avatars  AvatarTranscoder
	Location *time.Location
	HashCost int
	Now      func() time.Time
}

// Service registers, authenticates and updates accounts on this device.
type Service struct {
	users    UserStore
	sessions *Manager
	limiter  RateLimiter
	reserved CodeReserver
	avatars  AvatarTranscoder
	validate *validator.Validate

	loc      *time.Location
	hashCost int
	now      func() time.Time
	digits   func() (int, error)
}

// NewService constructs the account service.
func NewService(users UserStore, sessions *Manager, opts ServiceOptions) *Service {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		users:    users,
		sessions: sessions,
		limiter:  opts.Limiter,
		reserved: opts.Reserved,
		avatars:  opts.Avatars,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		loc:      opts.Location,
		hashCost: opts.HashCost,
		now:      opts.Now,
		digits:   randomDigits,
	}
}

// Current returns the active session.
func (s *Service) Current(ctx context.Context) (Session, error) {
	return s.sessions.Current(ctx)
}

// Register creates an account keyed by email, signs it in and gives it an empty friends list.
func (s *Service) Register(ctx context.Context, email, password, name string) (sess Session, err error) {
	ctx, span := logging.StartSpan(ctx, "auth.register")
	defer func() {
		span.Fail(err)
		span.End()
	}()

	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return Session{}, fmt.Errorf("%w: email", ErrInvalidInput)
	}
	if name == "" {
		return Session{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return Session{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	var user models.UserProfile
	err = s.users.UpdateUsers(ctx, func(users map[string]models.UserProfile) error {
		if _, ok := users[email]; ok {
			return ErrAlreadyExists
		}
		code, err := s.newFriendCode("VLOG", users)
		if err != nil {
			return err
		}
		user = models.UserProfile{
			ID:           uuid.NewString(),
			Name:         name,
			Email:        email,
			PasswordHash: string(hash),
			Avatar:       avatarBaseURL + url.QueryEscape(name),
			Bio:          defaultBio,
			FriendCode:   code,
			CreatedAt:    s.now().UTC(),
		}
		users[email] = user
		return nil
	})
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("register", outcomeOf(err)).Inc()
		return Session{}, err
	}

	if err := s.users.SaveFriends(ctx, user.ID, []models.Friend{}); err != nil {
		s.forgetUser(ctx, user)
		return Session{}, fmt.Errorf("initialise friends: %w", err)
	}

	metrics.LoginAttempts.WithLabelValues("register", metrics.OutcomeSuccess).Inc()
	logging.FromContext(ctx).Info("user registered", "userId", user.ID)
	return s.sessions.Activate(ctx, user)
}

// forgetUser removes a half-registered account so the email can be registered again.
func (s *Service) forgetUser(ctx context.Context, user models.UserProfile) {
	err := s.users.UpdateUsers(ctx, func(users map[string]models.UserProfile) error {
		if existing, ok := users[user.Email]; ok && existing.ID == user.ID {
			delete(users, user.Email)
		}
		return nil
	})
	if err != nil {
		logging.FromContext(ctx).Error("roll back registration", "userId", user.ID, "error", err)
	}
}

// Login checks the password against the stored hash and activates the account.
// The friends list is left as it is.
func (s *Service) Login(ctx context.Context, email, password string) (sess Session, err error) {
	ctx, span := logging.StartSpan(ctx, "auth.login")
	defer func() {
		span.Fail(err)
		span.End()
	}()

	email = normalizeEmail(email)
	if s.limiter != nil && !s.limiter.Allow("login:"+email) {
		metrics.LoginAttempts.WithLabelValues("password", metrics.OutcomeLimited).Inc()
		return Session{}, ErrTooManyAttempts
	}

	users, err := s.users.Users(ctx)
	if err != nil {
		return Session{}, err
	}
	user, ok := users[email]
	if !ok || user.PasswordHash == "" {
		metrics.LoginAttempts.WithLabelValues("password", metrics.OutcomeFailure).Inc()
		return Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		metrics.LoginAttempts.WithLabelValues("password", metrics.OutcomeFailure).Inc()
		return Session{}, ErrInvalidCredentials
	}

	metrics.LoginAttempts.WithLabelValues("password", metrics.OutcomeSuccess).Inc()
	return s.sessions.Activate(ctx, user)
}

// LoginFederated signs in the canonical single-sign-on identity, creating it on first use.
func (s *Service) LoginFederated(ctx context.Context) (sess Session, err error) {
	ctx, span := logging.StartSpan(ctx, "auth.login_federated")
	defer func() {
		span.Fail(err)
		span.End()
	}()

	var user models.UserProfile
	err = s.users.UpdateUsers(ctx, func(users map[string]models.UserProfile) error {
		if existing, ok := users[federatedEmail]; ok {
			user = existing
			return nil
		}
		code, err := s.newFriendCode("G", users)
		if err != nil {
			return err
		}
		user = models.UserProfile{
			ID:         uuid.NewString(),
			Name:       federatedName,
			Email:      federatedEmail,
			Avatar:     avatarBaseURL + federatedSeed,
			Bio:        federatedBio,
			FriendCode: code,
			CreatedAt:  s.now().UTC(),
		}
		users[federatedEmail] = user
		return nil
	})
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("federated", metrics.OutcomeFailure).Inc()
		return Session{}, err
	}

	metrics.LoginAttempts.WithLabelValues("federated", metrics.OutcomeSuccess).Inc()
	return s.sessions.Activate(ctx, user)
}

// Logout ends the active session.
func (s *Service) Logout(ctx context.Context) error {
	return s.sessions.Revoke(ctx)
}

// UpdateProfile applies the editable fields of updated (name, email, bio, avatar)
// to the session user. The user id is the only key used to find the table entry;
// when no entry has that id the table is left alone.
func (s *Service) UpdateProfile(ctx context.Context, sess Session, updated models.UserProfile) (Session, error) {
	if !sess.Valid() {
		return Session{}, ErrNoSession
	}

	next := sess.User
	if name := strings.TrimSpace(updated.Name); name != "" {
		next.Name = name
	}
	if email := normalizeEmail(updated.Email); email != "" {
		if err := s.validate.Var(email, "email"); err != nil {
			return Session{}, fmt.Errorf("%w: email", ErrInvalidInput)
		}
		next.Email = email
	}
	next.Bio = strings.TrimSpace(updated.Bio)
	if updated.Avatar != "" {
		next.Avatar = updated.Avatar
	}

	if err := s.syncTable(ctx, next, true); err != nil {
		return Session{}, err
	}
	return s.sessions.Activate(ctx, next)
}

// UpdateAvatar transcodes image and stores it inline as the session user's avatar.
func (s *Service) UpdateAvatar(ctx context.Context, sess Session, image []byte) (Session, error) {
	if !sess.Valid() {
		return Session{}, ErrNoSession
	}
	if s.avatars == nil {
		return Session{}, errors.New("avatar transcoder not configured")
	}
	jpeg, err := s.avatars.Transcode(ctx, image)
	if err != nil {
		return Session{}, err
	}
	return s.UpdateProfile(ctx, sess, models.UserProfile{
		Name:   sess.User.Name,
		Bio:    sess.User.Bio,
		Avatar: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpeg),
	})
}

// syncTable writes user over the table entry with the same id. With rekey set
// the entry moves when the email changed.
func (s *Service) syncTable(ctx context.Context, user models.UserProfile, rekey bool) error {
	found := false
	err := s.users.UpdateUsers(ctx, func(users map[string]models.UserProfile) error {
		for key, existing := range users {
			if existing.ID != user.ID {
				continue
			}
			found = true
			user.PasswordHash = existing.PasswordHash
			if !rekey || key == user.Email || user.Email == "" {
				user.Email = existing.Email
				users[key] = user
				return nil
			}
			if other, ok := users[user.Email]; ok && other.ID != user.ID {
				return ErrAlreadyExists
			}
			delete(users, key)
			users[user.Email] = user
			return nil
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		logging.FromContext(ctx).Warn("session user missing from users table", "userId", user.ID)
	}
	return nil
}

func (s *Service) newFriendCode(prefix string, users map[string]models.UserProfile) (string, error) {
	taken := make(map[string]struct{}, len(users))
	for _, user := range users {
		taken[user.FriendCode] = struct{}{}
	}
	for range codeAttempts {
		n, err := s.digits()
		if err != nil {
			return "", fmt.Errorf("generate friend code: %w", err)
		}
		code := fmt.Sprintf("%s%d", prefix, n)
		if _, ok := taken[code]; ok {
			continue
		}
		if s.reserved != nil && s.reserved.Reserved(code) {
			continue
		}
		return code, nil
	}
	return "", ErrCodeExhausted
}

// randomDigits returns a number in [1000, 9999].
func randomDigits() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()) + 1000, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func outcomeOf(err error) string {
	if errors.Is(err, ErrAlreadyExists) {
		return metrics.OutcomeConflict
	}
	return metrics.OutcomeFailure
}
