package models

import "time"

// UserProfile represents an account on this device.
type UserProfile struct {
	ID           string    `json:"id" validate:"required"`
	Name         string    `json:"name" validate:"required"`
	Email        string    `json:"email,omitempty" validate:"omitempty,email"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	Avatar       string    `json:"avatar"`
	Streak       int       `json:"streak" validate:"gte=0"`
	Bio          string    `json:"bio,omitempty"`
	FriendCode   string    `json:"friendCode" validate:"required"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}

// Friend is a snapshot of another user's public state taken when they were added.
type Friend struct {
	ID                string `json:"id" validate:"required"`
	Name              string `json:"name" validate:"required"`
	Avatar            string `json:"avatar"`
	HasVlogged        bool   `json:"hasVlogged"`
	Streak            int    `json:"streak" validate:"gte=0"`
	FriendCode        string `json:"friendCode,omitempty"`
	LastVlogTimestamp int64  `json:"lastVlogTimestamp,omitempty"`
}

// VlogPost is a single video post. VideoURL and a hydrated ThumbnailURL are
// process-local references and are cleared before the post is persisted.
type VlogPost struct {
	ID           string `json:"id" validate:"required"`
	UserID       string `json:"userId" validate:"required"`
	UserName     string `json:"userName"`
	UserAvatar   string `json:"userAvatar"`
	VideoBlobID  string `json:"videoBlobId,omitempty"`
	VideoURL     string `json:"videoUrl,omitempty"`
	ThumbBlobID  string `json:"thumbBlobId,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Timestamp    int64  `json:"timestamp" validate:"gte=0"`
	PromptTitle  string `json:"promptTitle"`
	Caption      string `json:"caption,omitempty"`
	Likes        int    `json:"likes" validate:"gte=0"`
}

// Time returns the post creation instant.
func (p VlogPost) Time() time.Time {
	return time.UnixMilli(p.Timestamp)
}

// Difficulty grades a daily prompt.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// DailyPrompt is the vlog challenge of the day. It is never persisted.
type DailyPrompt struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Difficulty  Difficulty `json:"difficulty"`
}

// ProfileStats summarises a user's own posts.
type ProfileStats struct {
	Posts  int `json:"posts"`
	Likes  int `json:"likes"`
	Streak int `json:"streak"`
}

// FriendSummary counts friends and how many of them vlogged this cycle.
type FriendSummary struct {
	Total   int `json:"total"`
	Vlogged int `json:"vlogged"`
}
