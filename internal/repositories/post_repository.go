package repositories

import (
	"context"
	"strings"

	"github.com/vlogit/core/internal/models"
)

// Posts returns the stored posts in storage order (newest insert first).
// Playable references are always cleared; hydration re-derives them.
func (s *Store) Posts(ctx context.Context) ([]models.VlogPost, error) {
	var posts []models.VlogPost
	if _, err := s.loadSlot(ctx, SlotPosts, &posts); err != nil {
		return nil, err
	}
	for i := range posts {
		if err := s.check(SlotPosts, posts[i]); err != nil {
			return nil, err
		}
		stripReferences(&posts[i])
	}
	if posts == nil {
		posts = []models.VlogPost{}
	}
	return posts, nil
}

// SavePosts replaces the posts list.
func (s *Store) SavePosts(ctx context.Context, posts []models.VlogPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.savePosts(ctx, posts)
}

// UpdatePosts runs a read-modify-write cycle on the posts list.
func (s *Store) UpdatePosts(ctx context.Context, fn func([]models.VlogPost) ([]models.VlogPost, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.Posts(ctx)
	if err != nil {
		return err
	}
	next, err := fn(posts)
	if err != nil {
		return err
	}
	return s.savePosts(ctx, next)
}

func (s *Store) savePosts(ctx context.Context, posts []models.VlogPost) error {
	stored := make([]models.VlogPost, len(posts))
	for i, post := range posts {
		stripReferences(&post)
		if err := s.check(SlotPosts, post); err != nil {
			return err
		}
		stored[i] = post
	}
	return s.saveSlot(ctx, SlotPosts, stored)
}

// stripReferences drops process-local references. Remote thumbnail URLs survive.
func stripReferences(post *models.VlogPost) {
	post.VideoURL = ""
	if !strings.HasPrefix(post.ThumbnailURL, "https://") && !strings.HasPrefix(post.ThumbnailURL, "http://") {
		post.ThumbnailURL = ""
	}
}
