package posts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/vlogit/core/internal/auth"
	"github.com/vlogit/core/internal/logging"
	"github.com/vlogit/core/internal/metrics"
	"github.com/vlogit/core/internal/models"
	"github.com/vlogit/core/internal/storage"
)

var (
	// ErrNotFound indicates no post has the requested id.
	ErrNotFound = errors.New("post not found")
	// ErrForbidden indicates the post belongs to someone else.
	ErrForbidden = errors.New("post belongs to another user")
	// ErrUnsupportedMedia indicates the upload is empty or not a video.
	ErrUnsupportedMedia = errors.New("unsupported media")
)

const (
	defaultPromptTitle = "Daily Vlog"
	defaultCaption     = "Just uploaded!"
)

// Store is the slice of the record store holding posts.
type Store interface {
	Posts(ctx context.Context) ([]models.VlogPost, error)
	UpdatePosts(ctx context.Context, fn func([]models.VlogPost) ([]models.VlogPost, error)) error
}

// Hydrator resolves playable references and orders posts newest first.
type Hydrator interface {
	Hydrate(ctx context.Context, posts []models.VlogPost) []models.VlogPost
}

// Thumbnailer extracts a still frame from a video.
type Thumbnailer interface {
	Extract(ctx context.Context, video []byte) ([]byte, error)
}

// Accounts credits streaks for new posts.
type Accounts interface {
	CreditPost(ctx context.Context, sess auth.Session, previous *models.VlogPost, now time.Time) (auth.Session, bool, error)
}

// Commenter produces a supportive comment. It never fails.
type Commenter interface {
	Comment(ctx context.Context, title string) string
}

// MediaRevoker forgets playable references for a blob.
type MediaRevoker interface {
	Revoke(blobID string)
}

// Dependencies bundles the collaborators of Service.
type Dependencies struct {
	Store       Store
	Blobs       storage.BlobStore
	Hydrator    Hydrator
	Accounts    Accounts
	Comments    Commenter
	Thumbnailer Thumbnailer
	Media       MediaRevoker
	Now         func() time.Time
}

// Service publishes, lists and deletes vlog posts.
type Service struct {
	deps Dependencies
}

// NewService constructs the post service. Thumbnailer, Comments and Media are optional.
func NewService(deps Dependencies) *Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Service{deps: deps}
}

// PublishInput is an upload from the session user.
type PublishInput struct {
	Video       []byte
	PromptTitle string
	Caption     string
}

// PublishResult is the stored post, hydrated, plus the generated comment.
type PublishResult struct {
	Post    models.VlogPost `json:"post"`
	Comment string          `json:"comment"`
	Session auth.Session    `json:"-"`
}

// Publish stores the video blob, prepends the post, and credits the author's streak.
func (s *Service) Publish(ctx context.Context, sess auth.Session, in PublishInput) (result PublishResult, err error) {
	if !sess.Valid() {
		return PublishResult{}, auth.ErrNoSession
	}
	if err := checkVideo(in.Video); err != nil {
		return PublishResult{}, err
	}

	ctx, span := logging.StartSpan(ctx, "posts.publish")
	defer func() {
		span.Fail(err)
		span.End()
	}()

	now := s.deps.Now()
	post := models.VlogPost{
		ID:          uuid.NewString(),
		UserID:      sess.UserID(),
		UserName:    sess.User.Name,
		UserAvatar:  sess.User.Avatar,
		Timestamp:   now.UnixMilli(),
		PromptTitle: orDefault(in.PromptTitle, defaultPromptTitle),
		Caption:     orDefault(in.Caption, defaultCaption),
	}
	post.VideoBlobID = storage.VideoBlobID(post.ID)

	if err := s.deps.Blobs.Put(ctx, post.VideoBlobID, in.Video); err != nil {
		return PublishResult{}, fmt.Errorf("store video: %w", err)
	}
	s.storeThumbnail(ctx, &post, in.Video)

	var previous *models.VlogPost
	err = s.deps.Store.UpdatePosts(ctx, func(current []models.VlogPost) ([]models.VlogPost, error) {
		previous = latestBy(current, post.UserID)
		return append([]models.VlogPost{post}, current...), nil
	})
	if err != nil {
		s.discardBlobs(ctx, post)
		return PublishResult{}, err
	}

	sess, _, err = s.deps.Accounts.CreditPost(ctx, sess, previous, now)
	if err != nil {
		s.withdraw(ctx, post)
		return PublishResult{}, fmt.Errorf("credit streak: %w", err)
	}
	metrics.PostsPublished.Inc()

	hydrated := s.deps.Hydrator.Hydrate(ctx, []models.VlogPost{post})
	comment := ""
	if s.deps.Comments != nil {
		comment = s.deps.Comments.Comment(ctx, post.PromptTitle)
	}

	logging.FromContext(ctx).Info("post published", "postId", post.ID, "bytes", len(in.Video))
	return PublishResult{Post: hydrated[0], Comment: comment, Session: sess}, nil
}

// Feed returns every stored post, hydrated and newest first.
func (s *Service) Feed(ctx context.Context) ([]models.VlogPost, error) {
	stored, err := s.deps.Store.Posts(ctx)
	if err != nil {
		return nil, err
	}
	return s.deps.Hydrator.Hydrate(ctx, stored), nil
}

// ListByUser returns userID's posts, hydrated and newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]models.VlogPost, error) {
	stored, err := s.deps.Store.Posts(ctx)
	if err != nil {
		return nil, err
	}
	mine := make([]models.VlogPost, 0, len(stored))
	for _, post := range stored {
		if post.UserID == userID {
			mine = append(mine, post)
		}
	}
	return s.deps.Hydrator.Hydrate(ctx, mine), nil
}

// Stats summarises the session user's posts.
func (s *Service) Stats(ctx context.Context, sess auth.Session) (models.ProfileStats, error) {
	if !sess.Valid() {
		return models.ProfileStats{}, auth.ErrNoSession
	}
	stored, err := s.deps.Store.Posts(ctx)
	if err != nil {
		return models.ProfileStats{}, err
	}
	stats := models.ProfileStats{Streak: sess.User.Streak}
	for _, post := range stored {
		if post.UserID == sess.UserID() {
			stats.Posts++
			stats.Likes += post.Likes
		}
	}
	return stats, nil
}

// Delete removes one of the session user's posts and then its blobs.
func (s *Service) Delete(ctx context.Context, sess auth.Session, postID string) (err error) {
	if !sess.Valid() {
		return auth.ErrNoSession
	}

	ctx, span := logging.StartSpan(ctx, "posts.delete")
	defer func() {
		span.Fail(err)
		span.End()
	}()

	var removed models.VlogPost
	err = s.deps.Store.UpdatePosts(ctx, func(current []models.VlogPost) ([]models.VlogPost, error) {
		for i, post := range current {
			if post.ID != postID {
				continue
			}
			if post.UserID != sess.UserID() {
				return nil, ErrForbidden
			}
			removed = post
			return append(current[:i:i], current[i+1:]...), nil
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return err
	}

	s.discardBlobs(ctx, removed)
	logging.FromContext(ctx).Info("post deleted", "postId", removed.ID)
	return nil
}

// withdraw undoes a publish whose streak could not be credited, so a retry
// does not leave a duplicate post behind.
func (s *Service) withdraw(ctx context.Context, post models.VlogPost) {
	err := s.deps.Store.UpdatePosts(ctx, func(current []models.VlogPost) ([]models.VlogPost, error) {
		for i := range current {
			if current[i].ID == post.ID {
				return append(current[:i:i], current[i+1:]...), nil
			}
		}
		return current, nil
	})
	if err != nil {
		logging.FromContext(ctx).Error("withdraw post", "postId", post.ID, "error", err)
		return
	}
	s.discardBlobs(ctx, post)
}

func (s *Service) storeThumbnail(ctx context.Context, post *models.VlogPost, video []byte) {
	if s.deps.Thumbnailer == nil {
		return
	}
	thumb, err := s.deps.Thumbnailer.Extract(ctx, video)
	if err != nil {
		logging.FromContext(ctx).Info("thumbnail skipped", "postId", post.ID, "error", err)
		return
	}
	id := storage.ThumbBlobID(post.ID)
	if err := s.deps.Blobs.Put(ctx, id, thumb); err != nil {
		logging.FromContext(ctx).Warn("store thumbnail", "postId", post.ID, "error", err)
		return
	}
	post.ThumbBlobID = id
}

func (s *Service) discardBlobs(ctx context.Context, post models.VlogPost) {
	for _, id := range []string{post.VideoBlobID, post.ThumbBlobID} {
		if id == "" {
			continue
		}
		if s.deps.Media != nil {
			s.deps.Media.Revoke(id)
		}
		if err := s.deps.Blobs.Delete(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("delete blob", "blobId", id, "error", err)
		}
	}
}

// latestBy returns the newest post by userID in storage order.
func latestBy(posts []models.VlogPost, userID string) *models.VlogPost {
	var latest *models.VlogPost
	for i := range posts {
		if posts[i].UserID != userID {
			continue
		}
		if latest == nil || posts[i].Timestamp > latest.Timestamp {
			p := posts[i]
			latest = &p
		}
	}
	return latest
}

// checkVideo sniffs the upload and accepts only formats that detect as video.
// ISO media containers holding still images or audio (HEIC, AVIF, M4A) are refused.
func checkVideo(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty upload", ErrUnsupportedMedia)
	}
	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "video/") {
		return fmt.Errorf("%w: %s", ErrUnsupportedMedia, detected.String())
	}
	return nil
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
