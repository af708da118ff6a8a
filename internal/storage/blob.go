package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrBlobNotFound is returned by Get when no blob is stored under the id.
	ErrBlobNotFound = errors.New("blob not found")
	// ErrInvalidBlobID rejects ids that cannot be stored safely.
	ErrInvalidBlobID = errors.New("invalid blob id")
)

// BlobStore persists raw media keyed by an opaque id. Put overwrites, Delete is idempotent.
type BlobStore interface {
	Put(ctx context.Context, id string, data []byte) error
	Get(ctx context.Context, id string) ([]byte, error)
	Delete(ctx context.Context, id string) error
}

// Prefixes for blob ids derived from a post id.
const (
	VideoPrefix = "vid_"
	ThumbPrefix = "thumb_"
)

// VideoBlobID returns the blob id holding a post's video.
func VideoBlobID(postID string) string {
	return VideoPrefix + postID
}

// ThumbBlobID returns the blob id holding a post's still frame.
func ThumbBlobID(postID string) string {
	return ThumbPrefix + postID
}

var blobIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,200}$`)

func validateID(id string) error {
	if !blobIDPattern.MatchString(id) || id == "." || id == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidBlobID, id)
	}
	return nil
}
