package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/vlogit/core/internal/logging"
	"github.com/vlogit/core/internal/models"
	"github.com/vlogit/core/internal/posts"
)

// DefaultMaxUploadBytes bounds a video upload when no limit is configured.
const DefaultMaxUploadBytes int64 = 512 << 20

// PostHandler exposes the feed and the session user's posts.
type PostHandler struct {
	Accounts       AccountService
	Posts          PostService
	MaxUploadBytes int64
}

// Feed handles GET /api/v1/posts requests.
func (h PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	feed, err := h.Posts.Feed(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, postsResponse{Posts: feed})
}

// Mine handles GET /api/v1/posts/mine requests.
func (h PostHandler) Mine(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.Accounts)
	if !ok {
		return
	}
	ctx := r.Context()

	mine, err := h.Posts.ListByUser(ctx, sess.UserID())
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, postsResponse{Posts: mine})
}

// Create handles POST /api/v1/posts. The body is the raw video; the prompt
// title and caption travel in the X-Prompt-Title and X-Caption headers.
func (h PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.Accounts)
	if !ok {
		return
	}
	ctx := r.Context()

	limit := h.MaxUploadBytes
	if limit <= 0 {
		limit = DefaultMaxUploadBytes
	}
	video, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		logging.FromContext(ctx).Warn("read video body", "error", err)
		respondJSON(ctx, w, http.StatusRequestEntityTooLarge, map[string]string{"error": "video too large"})
		return
	}

	result, err := h.Posts.Publish(ctx, sess, posts.PublishInput{
		Video:       video,
		PromptTitle: strings.TrimSpace(r.Header.Get("X-Prompt-Title")),
		Caption:     strings.TrimSpace(r.Header.Get("X-Caption")),
	})
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusCreated, publishResponse{
		Post:    result.Post,
		Comment: result.Comment,
		User:    profileFrom(result.Session.User),
	})
}

// Delete handles DELETE /api/v1/posts/{id} requests.
func (h PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.Accounts)
	if !ok {
		return
	}
	ctx := r.Context()

	if err := h.Posts.Delete(ctx, sess, r.PathValue("id")); err != nil {
		respondError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type postsResponse struct {
	Posts []models.VlogPost `json:"posts"`
}

type publishResponse struct {
	Post    models.VlogPost `json:"post"`
	Comment string          `json:"comment"`
	User    profileResponse `json:"user"`
}
