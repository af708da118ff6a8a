package handlers

import (
	"net/http"
	"strconv"
)

// MediaHandler streams hydrated video and thumbnail references.
type MediaHandler struct {
	Media MediaSource
}

// Serve handles GET /media/{token} requests.
func (h MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	media, err := h.Media.Open(r.PathValue("token"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", media.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(media.Data)))
	w.Header().Set("Cache-Control", "private, no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(media.Data)
}
