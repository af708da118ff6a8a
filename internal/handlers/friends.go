package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vlogit/core/internal/logging"
	"github.com/vlogit/core/internal/models"
)

// FriendHandler manages the session user's friends list.
type FriendHandler struct {
	Accounts AccountService
	Friends  FriendService
}

// List handles GET /api/v1/friends requests.
func (h FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.Accounts)
	if !ok {
		return
	}
	ctx := r.Context()

	list, err := h.Friends.List(ctx, sess)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	summary, err := h.Friends.Summary(ctx, sess)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, friendsResponse{Friends: list, Summary: summary})
}

// Add handles POST /api/v1/friends requests.
func (h FriendHandler) Add(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.Accounts)
	if !ok {
		return
	}
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req addFriendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid add friend payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "code is required"})
		return
	}

	friend, err := h.Friends.AddByCode(ctx, sess, req.Code)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusCreated, friend)
}

type addFriendRequest struct {
	Code string `json:"code"`
}

type friendsResponse struct {
	Friends []models.Friend      `json:"friends"`
	Summary models.FriendSummary `json:"summary"`
}
