package handlers

import (
	"context"

	"github.com/vlogit/core/internal/auth"
	"github.com/vlogit/core/internal/models"
	"github.com/vlogit/core/internal/posts"
	"github.com/vlogit/core/internal/videos"
)

// AccountService captures the account operations exposed over HTTP.
type AccountService interface {
	Current(ctx context.Context) (auth.Session, error)
	Register(ctx context.Context, email, password, name string) (auth.Session, error)
	Login(ctx context.Context, email, password string) (auth.Session, error)
	LoginFederated(ctx context.Context) (auth.Session, error)
	Logout(ctx context.Context) error
	UpdateProfile(ctx context.Context, sess auth.Session, updated models.UserProfile) (auth.Session, error)
	UpdateAvatar(ctx context.Context, sess auth.Session, image []byte) (auth.Session, error)
}

// FriendService captures operations required by the friend handlers.
type FriendService interface {
	AddByCode(ctx context.Context, sess auth.Session, code string) (models.Friend, error)
	List(ctx context.Context, sess auth.Session) ([]models.Friend, error)
	Summary(ctx context.Context, sess auth.Session) (models.FriendSummary, error)
}

// PostService captures the vlog post workflows.
type PostService interface {
	Publish(ctx context.Context, sess auth.Session, in posts.PublishInput) (posts.PublishResult, error)
	Feed(ctx context.Context) ([]models.VlogPost, error)
	ListByUser(ctx context.Context, userID string) ([]models.VlogPost, error)
	Stats(ctx context.Context, sess auth.Session) (models.ProfileStats, error)
	Delete(ctx context.Context, sess auth.Session, postID string) error
}

// PromptService produces the daily challenge and reactions to posts.
type PromptService interface {
	DailyPrompt(ctx context.Context) models.DailyPrompt
	Comment(ctx context.Context, title string) string
}

// MediaSource resolves hydrated references back to bytes.
type MediaSource interface {
	Open(ref string) (videos.Media, error)
}
