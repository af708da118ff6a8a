//go:build integration

package repositories

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/cockroachdb/cockroach-go/v2/testserver"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vlogit/core/internal/models"
	"github.com/vlogit/core/internal/storage"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	server, err := testserver.NewTestServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "start cockroach test server: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, server.PGURL().String())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to cockroach test server: %v\n", err)
		server.Stop()
		os.Exit(1)
	}

	if err := applyMigrations(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "apply migrations: %v\n", err)
		pool.Close()
		server.Stop()
		os.Exit(1)
	}

	testPool = pool

	code := m.Run()

	pool.Close()
	server.Stop()

	os.Exit(code)
}

func TestPostgresBackend_SaveLoadAndDelete(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	backend := NewPostgresBackend(testPool)

	if _, err := backend.Load(ctx, SlotPosts); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty slot, got %v", err)
	}

	if err := backend.Save(ctx, SlotPosts, []byte(`{"version":1,"kind":"vlogit_posts","data":[]}`)); err != nil {
		t.Fatalf("save slot: %v", err)
	}
	if err := backend.Save(ctx, SlotPosts, []byte(`{"version":1,"kind":"vlogit_posts","data":null}`)); err != nil {
		t.Fatalf("overwrite slot: %v", err)
	}

	payload, err := backend.Load(ctx, SlotPosts)
	if err != nil {
		t.Fatalf("load slot: %v", err)
	}
	if len(payload) == 0 {
		t.Fatal("expected payload to be stored")
	}

	if err := backend.Delete(ctx, SlotPosts); err != nil {
		t.Fatalf("delete slot: %v", err)
	}
	if _, err := backend.Load(ctx, SlotPosts); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestPostgresBackend_StoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	store := NewStore(NewPostgresBackend(testPool))

	user := models.UserProfile{
		ID:         uuid.NewString(),
		Name:       "Alice",
		Email:      "alice@example.com",
		FriendCode: "VLOG1234",
		CreatedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := store.SaveUsers(ctx, map[string]models.UserProfile{user.Email: user}); err != nil {
		t.Fatalf("save users: %v", err)
	}

	users, err := store.Users(ctx)
	if err != nil {
		t.Fatalf("load users: %v", err)
	}
	if got := users[user.Email]; got.ID != user.ID || !got.CreatedAt.Equal(user.CreatedAt) {
		t.Fatalf("unexpected user loaded: %+v", got)
	}

	post := models.VlogPost{ID: uuid.NewString(), UserID: user.ID, VideoBlobID: "vid_1", VideoURL: "/media/stale", Timestamp: 42}
	if err := store.SavePosts(ctx, []models.VlogPost{post}); err != nil {
		t.Fatalf("save posts: %v", err)
	}
	posts, err := store.Posts(ctx)
	if err != nil {
		t.Fatalf("load posts: %v", err)
	}
	if len(posts) != 1 || posts[0].VideoURL != "" {
		t.Fatalf("expected one post without a playable reference, got %+v", posts)
	}
}

func TestPostgresBlobStore_PutGetAndDelete(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	blobs := storage.NewPostgresStore(testPool)
	id := storage.VideoBlobID(uuid.NewString())

	if _, err := blobs.Get(ctx, id); !errors.Is(err, storage.ErrBlobNotFound) {
		t.Fatalf("expected ErrBlobNotFound, got %v", err)
	}
	if err := blobs.Put(ctx, id, []byte("first")); err != nil {
		t.Fatalf("put blob: %v", err)
	}
	if err := blobs.Put(ctx, id, []byte("second")); err != nil {
		t.Fatalf("overwrite blob: %v", err)
	}

	data, err := blobs.Get(ctx, id)
	if err != nil {
		t.Fatalf("get blob: %v", err)
	}
	if string(data) != "second" {
		t.Fatalf("expected overwritten content, got %q", data)
	}

	if err := blobs.Delete(ctx, id); err != nil {
		t.Fatalf("delete blob: %v", err)
	}
	if err := blobs.Delete(ctx, id); err != nil {
		t.Fatalf("delete is idempotent, got %v", err)
	}
	if _, err := blobs.Get(ctx, id); !errors.Is(err, storage.ErrBlobNotFound) {
		t.Fatalf("expected ErrBlobNotFound after delete, got %v", err)
	}
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrationsDir := filepath.Join("..", "..", "migrations")
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		contents, err := os.ReadFile(filepath.Join(migrationsDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}

		if _, err := pool.Exec(ctx, string(contents)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func resetDatabase(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	conn, err := testPool.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire connection: %v", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "TRUNCATE TABLE record_slots, media_blobs"); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
