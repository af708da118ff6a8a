package friends

import (
	"context"
	"strings"
	"time"

	"github.com/vlogit/core/internal/models"
)

// Directory resolves invite codes to the public snapshot of a user.
type Directory interface {
	Lookup(ctx context.Context, code string) (models.Friend, error)
}

// StaticDirectory is a fixed code table standing in for a lookup service.
type StaticDirectory struct {
	entries map[string]models.Friend
}

// NewStaticDirectory returns the built-in directory. Members who vlogged this
// cycle are stamped with now.
func NewStaticDirectory(now time.Time) *StaticDirectory {
	stamp := now.UnixMilli()
	entries := []models.Friend{
		{ID: "u2", Name: "Sarah J.", Avatar: avatar("Sarah"), HasVlogged: true, Streak: 12, FriendCode: "SARAH1", LastVlogTimestamp: stamp},
		{ID: "u3", Name: "Mike Chen", Avatar: avatar("Mike"), Streak: 5, FriendCode: "MIKE88"},
		{ID: "u4", Name: "Emma W.", Avatar: avatar("Emma"), Streak: 28, FriendCode: "EMMA23"},
		{ID: "u5", Name: "David Lee", Avatar: avatar("David"), HasVlogged: true, Streak: 3, FriendCode: "DAVE99", LastVlogTimestamp: stamp},
	}
	return NewDirectory(entries)
}

// NewDirectory builds a directory from explicit entries keyed by their friend code.
func NewDirectory(entries []models.Friend) *StaticDirectory {
	d := &StaticDirectory{entries: make(map[string]models.Friend, len(entries))}
	for _, entry := range entries {
		d.entries[NormalizeCode(entry.FriendCode)] = entry
	}
	return d
}

// Lookup returns a copy of the entry for code or ErrNotFound.
func (d *StaticDirectory) Lookup(ctx context.Context, code string) (models.Friend, error) {
	if err := ctx.Err(); err != nil {
		return models.Friend{}, err
	}
	entry, ok := d.entries[NormalizeCode(code)]
	if !ok {
		return models.Friend{}, ErrNotFound
	}
	return entry, nil
}

// Reserved reports whether code belongs to a directory member.
func (d *StaticDirectory) Reserved(code string) bool {
	_, ok := d.entries[NormalizeCode(code)]
	return ok
}

// NormalizeCode trims and upper-cases an invite code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func avatar(seed string) string {
	return "https://api.dicebear.com/9.x/notionists/svg?seed=" + seed
}
