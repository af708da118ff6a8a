package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/vlogit/core/internal/logging"
)

// PromptHandler serves the daily challenge and AI reactions.
type PromptHandler struct {
	Prompts PromptService
}

// Daily handles GET /api/v1/prompt requests. It always answers 200.
func (h PromptHandler) Daily(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	respondJSON(ctx, w, http.StatusOK, h.Prompts.DailyPrompt(ctx))
}

// Comment handles POST /api/v1/prompt/comment requests.
func (h PromptHandler) Comment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logging.FromContext(ctx).Warn("invalid comment payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	respondJSON(ctx, w, http.StatusOK, commentResponse{Comment: h.Prompts.Comment(ctx, req.Title)})
}

type commentRequest struct {
	Title string `json:"title"`
}

type commentResponse struct {
	Comment string `json:"comment"`
}
