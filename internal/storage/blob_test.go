package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func exerciseBlobStore(t *testing.T, store BlobStore) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, VideoBlobID("missing")); !errors.Is(err, ErrBlobNotFound) {
		t.Fatalf("expected ErrBlobNotFound for unknown id, got %v", err)
	}

	id := VideoBlobID("post-1")
	if err := store.Put(ctx, id, []byte("first")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(ctx, id, []byte("second")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(got, []byte("second")) {
		t.Fatalf("expected overwrite semantics, got %q", got)
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
	if _, err := store.Get(ctx, id); !errors.Is(err, ErrBlobNotFound) {
		t.Fatalf("expected ErrBlobNotFound after delete, got %v", err)
	}

	if err := store.Put(ctx, "../escape", []byte("x")); !errors.Is(err, ErrInvalidBlobID) {
		t.Fatalf("expected ErrInvalidBlobID, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseBlobStore(t, NewMemoryStore())
}

func TestMemoryStoreCopiesData(t *testing.T) {
	store := NewMemoryStore()
	data := []byte("abc")
	if err := store.Put(context.Background(), "vid_x", data); err != nil {
		t.Fatalf("put: %v", err)
	}
	data[0] = 'z'

	got, err := store.Get(context.Background(), "vid_x")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "abc" {
		t.Fatalf("stored blob aliased caller buffer: %q", got)
	}
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	exerciseBlobStore(t, store)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if err := store.Put(context.Background(), "vid_keep", []byte("durable")); err != nil {
		t.Fatalf("put: %v", err)
	}

	reopened, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.Get(context.Background(), "vid_keep")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if string(got) != "durable" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestBlobIDs(t *testing.T) {
	if VideoBlobID("abc") != "vid_abc" {
		t.Fatalf("unexpected video blob id %q", VideoBlobID("abc"))
	}
	if ThumbBlobID("abc") != "thumb_abc" {
		t.Fatalf("unexpected thumb blob id %q", ThumbBlobID("abc"))
	}
}
