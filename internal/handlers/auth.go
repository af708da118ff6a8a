package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vlogit/core/internal/logging"
	"github.com/vlogit/core/internal/models"
)

// AuthHandler exposes registration, sign-in and the active session.
type AuthHandler struct {
	Accounts AccountService
	Limiter  RateLimiter
}

// Register handles POST /api/v1/auth/register requests.
func (h AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "register") {
		logger.Warn("register rate limited", "client", clientIP(r))
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many attempts, try again later"})
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid register payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	sess, err := h.Accounts.Register(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusCreated, sessionResponse{User: profileFrom(sess.User)})
}

// Login handles POST /api/v1/auth/login requests.
func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "login") {
		logger.Warn("login rate limited", "client", clientIP(r))
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many attempts, try again later"})
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	sess, err := h.Accounts.Login(ctx, req.Email, req.Password)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, sessionResponse{User: profileFrom(sess.User)})
}

// Federated handles POST /api/v1/auth/federated requests.
func (h AuthHandler) Federated(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, err := h.Accounts.LoginFederated(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, sessionResponse{User: profileFrom(sess.User)})
}

// Logout handles POST /api/v1/auth/logout requests.
func (h AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.Accounts.Logout(ctx); err != nil {
		respondError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Session handles GET /api/v1/session requests.
func (h AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.Accounts)
	if !ok {
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, sessionResponse{User: profileFrom(sess.User)})
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User profileResponse `json:"user"`
}

// profileResponse is the public view of a profile. The password hash never leaves the process.
type profileResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Avatar     string    `json:"avatar"`
	Streak     int       `json:"streak"`
	Bio        string    `json:"bio,omitempty"`
	FriendCode string    `json:"friendCode"`
	CreatedAt  time.Time `json:"createdAt"`
}

func profileFrom(user models.UserProfile) profileResponse {
	return profileResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Avatar:     user.Avatar,
		Streak:     user.Streak,
		Bio:        user.Bio,
		FriendCode: user.FriendCode,
		CreatedAt:  user.CreatedAt,
	}
}
