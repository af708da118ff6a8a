package videos

import (
	"context"
	"errors"
	"sort"

	"github.com/vlogit/core/internal/logging"
	"github.com/vlogit/core/internal/metrics"
	"github.com/vlogit/core/internal/models"
	"github.com/vlogit/core/internal/storage"
)

// BlobReader is the read side of the blob store.
type BlobReader interface {
	Get(ctx context.Context, id string) ([]byte, error)
}

// Hydrator turns stored posts into playable posts. It only reads.
type Hydrator struct {
	blobs    BlobReader
	registry *MediaRegistry
}

// NewHydrator constructs a Hydrator.
func NewHydrator(blobs BlobReader, registry *MediaRegistry) *Hydrator {
	return &Hydrator{blobs: blobs, registry: registry}
}

// Hydrate resolves playable references for every post that has a stored video
// but no reference yet, then orders the result newest first. A post whose blob
// cannot be read is returned without a reference instead of failing the list.
func (h *Hydrator) Hydrate(ctx context.Context, posts []models.VlogPost) []models.VlogPost {
	out := make([]models.VlogPost, len(posts))
	copy(out, posts)

	for i := range out {
		post := &out[i]
		if post.VideoBlobID != "" && post.VideoURL == "" {
			post.VideoURL = h.resolve(ctx, post.ID, post.VideoBlobID, "video")
		}
		if post.ThumbnailURL == "" {
			if post.ThumbBlobID != "" {
				post.ThumbnailURL = h.resolve(ctx, post.ID, post.ThumbBlobID, "thumbnail")
			}
			if post.ThumbnailURL == "" {
				post.ThumbnailURL = post.VideoURL
			}
		}
	}

	SortNewestFirst(out)
	return out
}

func (h *Hydrator) resolve(ctx context.Context, postID, blobID, kind string) string {
	data, err := h.blobs.Get(ctx, blobID)
	if err != nil {
		logger := logging.FromContext(ctx)
		if errors.Is(err, storage.ErrBlobNotFound) {
			logger.Info("media unavailable", "postId", postID, "blobId", blobID, "kind", kind)
		} else {
			logger.Warn("read media blob", "postId", postID, "blobId", blobID, "kind", kind, "error", err)
		}
		metrics.HydrationMisses.WithLabelValues(kind).Inc()
		return ""
	}
	return h.registry.Register(blobID, data)
}

// SortNewestFirst orders posts by timestamp descending, keeping storage order for ties.
func SortNewestFirst(posts []models.VlogPost) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Timestamp > posts[j].Timestamp
	})
}
