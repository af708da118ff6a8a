package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vlogit/core/internal/auth"
	"github.com/vlogit/core/internal/friends"
	"github.com/vlogit/core/internal/imaging"
	"github.com/vlogit/core/internal/logging"
	"github.com/vlogit/core/internal/posts"
	"github.com/vlogit/core/internal/videos"
)

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logging.FromContext(ctx).Error("handler error", "error", err)
		message = "internal error"
	}
	respondJSON(ctx, w, status, map[string]string{"error": message})
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrNoSession), errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrAlreadyExists), errors.Is(err, friends.ErrAlreadyFriends):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidInput), errors.Is(err, friends.ErrSelfInvite), errors.Is(err, imaging.ErrDecode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, auth.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	case errors.Is(err, friends.ErrNotFound), errors.Is(err, posts.ErrNotFound), errors.Is(err, videos.ErrMediaUnavailable):
		return http.StatusNotFound
	case errors.Is(err, posts.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, posts.ErrUnsupportedMedia):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

// requireSession writes 401 and reports false when nobody is signed in.
func requireSession(w http.ResponseWriter, r *http.Request, accounts AccountService) (auth.Session, bool) {
	ctx := r.Context()
	sess, err := accounts.Current(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return auth.Session{}, false
	}
	return sess, true
}
