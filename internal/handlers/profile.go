package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/vlogit/core/internal/logging"
	"github.com/vlogit/core/internal/models"
)

const maxAvatarBytes = 16 << 20

// ProfileHandler edits the session user's profile and reports their stats.
type ProfileHandler struct {
	Accounts AccountService
	Posts    PostService
}

// Update handles PUT /api/v1/profile requests.
func (h ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.Accounts)
	if !ok {
		return
	}
	ctx := r.Context()

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logging.FromContext(ctx).Warn("invalid profile payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	sess, err := h.Accounts.UpdateProfile(ctx, sess, models.UserProfile{
		Name:   req.Name,
		Email:  req.Email,
		Bio:    req.Bio,
		Avatar: req.Avatar,
	})
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, sessionResponse{User: profileFrom(sess.User)})
}

// Avatar handles PUT /api/v1/profile/avatar with a raw image body.
func (h ProfileHandler) Avatar(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.Accounts)
	if !ok {
		return
	}
	ctx := r.Context()

	image, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAvatarBytes))
	if err != nil {
		logging.FromContext(ctx).Warn("read avatar body", "error", err)
		respondJSON(ctx, w, http.StatusRequestEntityTooLarge, map[string]string{"error": "avatar too large"})
		return
	}

	sess, err = h.Accounts.UpdateAvatar(ctx, sess, image)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, sessionResponse{User: profileFrom(sess.User)})
}

// Stats handles GET /api/v1/profile/stats requests.
func (h ProfileHandler) Stats(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.Accounts)
	if !ok {
		return
	}
	ctx := r.Context()

	stats, err := h.Posts.Stats(ctx, sess)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, stats)
}

type profileRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Bio    string `json:"bio"`
	Avatar string `json:"avatar"`
}
