package friends

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vlogit/core/internal/auth"
	"github.com/vlogit/core/internal/models"
	"github.com/vlogit/core/internal/repositories"
)

func newTestService(t *testing.T) (*Service, *repositories.Store, auth.Session) {
	t.Helper()
	store := repositories.NewStore(repositories.NewMemoryBackend())
	sess := auth.Session{User: models.UserProfile{ID: "me", Name: "Me", FriendCode: "VLOG1234"}}
	return NewService(NewStaticDirectory(time.Now()), store), store, sess
}

func TestAddByCode(t *testing.T) {
	ctx := context.Background()
	svc, store, sess := newTestService(t)

	friend, err := svc.AddByCode(ctx, sess, "SARAH1")
	require.NoError(t, err)
	assert.Equal(t, "SARAH1", friend.FriendCode)
	assert.Equal(t, "Sarah J.", friend.Name)

	_, err = svc.AddByCode(ctx, sess, "SARAH1")
	require.ErrorIs(t, err, ErrAlreadyFriends)
	_, err = svc.AddByCode(ctx, sess, "SARAH1")
	require.ErrorIs(t, err, ErrAlreadyFriends, "retrying must fail the same way")

	list, err := store.Friends(ctx, sess.UserID())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAddByCodeIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	svc, _, sess := newTestService(t)

	lower, err := svc.AddByCode(ctx, sess, " sarah1 ")
	require.NoError(t, err)
	assert.Equal(t, "SARAH1", lower.FriendCode)

	_, err = svc.AddByCode(ctx, sess, "SARAH1")
	assert.ErrorIs(t, err, ErrAlreadyFriends)
}

func TestAddByCodeNotFoundLeavesListAlone(t *testing.T) {
	ctx := context.Background()
	svc, store, sess := newTestService(t)

	_, err := svc.AddByCode(ctx, sess, "MIKE88")
	require.NoError(t, err)

	_, err = svc.AddByCode(ctx, sess, "NOPE00")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = svc.AddByCode(ctx, sess, "")
	require.ErrorIs(t, err, ErrNotFound)

	list, err := store.Friends(ctx, sess.UserID())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "MIKE88", list[0].FriendCode)
}

func TestAddByCodeRejectsSelfAndMissingSession(t *testing.T) {
	ctx := context.Background()
	svc, _, sess := newTestService(t)

	_, err := svc.AddByCode(ctx, sess, "vlog1234")
	assert.ErrorIs(t, err, ErrSelfInvite)

	_, err = svc.AddByCode(ctx, auth.Session{}, "SARAH1")
	assert.ErrorIs(t, err, auth.ErrNoSession)
}

func TestListKeepsInsertionOrderAndSummary(t *testing.T) {
	ctx := context.Background()
	svc, _, sess := newTestService(t)

	for _, code := range []string{"EMMA23", "DAVE99", "SARAH1", "MIKE88"} {
		_, err := svc.AddByCode(ctx, sess, code)
		require.NoError(t, err)
	}

	list, err := svc.List(ctx, sess)
	require.NoError(t, err)
	var codes []string
	for _, f := range list {
		codes = append(codes, f.FriendCode)
	}
	assert.Equal(t, []string{"EMMA23", "DAVE99", "SARAH1", "MIKE88"}, codes)

	summary, err := svc.Summary(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, models.FriendSummary{Total: 4, Vlogged: 2}, summary)
}

func TestFriendsArePerIdentity(t *testing.T) {
	ctx := context.Background()
	svc, _, sess := newTestService(t)
	other := auth.Session{User: models.UserProfile{ID: "other", Name: "Other", FriendCode: "VLOG9999"}}

	_, err := svc.AddByCode(ctx, sess, "SARAH1")
	require.NoError(t, err)

	list, err := svc.List(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.AddByCode(ctx, other, "SARAH1")
	assert.NoError(t, err)
}

func TestStaticDirectory(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	dir := NewStaticDirectory(now)

	sarah, err := dir.Lookup(context.Background(), "sarah1")
	require.NoError(t, err)
	assert.True(t, sarah.HasVlogged)
	assert.Equal(t, now.UnixMilli(), sarah.LastVlogTimestamp)

	mike, err := dir.Lookup(context.Background(), "MIKE88")
	require.NoError(t, err)
	assert.Zero(t, mike.LastVlogTimestamp)

	assert.True(t, dir.Reserved("dave99"))
	assert.False(t, dir.Reserved("VLOG1234"))
}
