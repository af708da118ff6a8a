package videos

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestMediaRegistryRoundTrip(t *testing.T) {
	registry := NewMediaRegistry("/media", 4, time.Minute)

	ref := registry.Register("vid_1", []byte("video-bytes"))
	if !strings.HasPrefix(ref, "/media/") {
		t.Fatalf("unexpected reference %q", ref)
	}

	media, err := registry.Open(ref)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if string(media.Data) != "video-bytes" || media.BlobID != "vid_1" {
		t.Fatalf("unexpected media %+v", media)
	}

	if again := registry.Register("vid_1", []byte("video-bytes")); again != ref {
		t.Fatalf("expected identical content to reuse %q, got %q", ref, again)
	}
	if changed := registry.Register("vid_1", []byte("new-bytes")); changed == ref {
		t.Fatal("expected changed content to get a fresh reference")
	}
	if _, err := registry.Open(ref); !errors.Is(err, ErrMediaUnavailable) {
		t.Fatalf("expected superseded reference to stop resolving, got %v", err)
	}
}

func TestMediaRegistryRejectsForeignReferences(t *testing.T) {
	first := NewMediaRegistry("/media", 4, time.Minute)
	second := NewMediaRegistry("/media", 4, time.Minute)

	ref := first.Register("vid_1", []byte("x"))
	if _, err := second.Open(ref); !errors.Is(err, ErrMediaUnavailable) {
		t.Fatalf("expected reference from another registry to fail, got %v", err)
	}
	for _, bad := range []string{"", "/media/", "blob:http://localhost/123", "/media/a/b"} {
		if _, err := first.Open(bad); !errors.Is(err, ErrMediaUnavailable) {
			t.Fatalf("expected %q to be unavailable, got %v", bad, err)
		}
	}
}

func TestMediaRegistryEvictsAndRevokes(t *testing.T) {
	registry := NewMediaRegistry("/media", 1, time.Minute)

	first := registry.Register("vid_1", []byte("one"))
	registry.Register("vid_2", []byte("two"))
	if _, err := registry.Open(first); !errors.Is(err, ErrMediaUnavailable) {
		t.Fatalf("expected evicted reference to fail, got %v", err)
	}

	ref := registry.Register("vid_3", []byte("three"))
	registry.Revoke("vid_3")
	if _, err := registry.Open(ref); !errors.Is(err, ErrMediaUnavailable) {
		t.Fatalf("expected revoked reference to fail, got %v", err)
	}
	if registry.Len() != 0 {
		t.Fatalf("expected no live references, got %d", registry.Len())
	}
	if registry.tracked() != 0 {
		t.Fatalf("expected no tracked blobs, got %d", registry.tracked())
	}
}

func TestMediaRegistryForgetsEvictedBlobs(t *testing.T) {
	registry := NewMediaRegistry("/media", 2, time.Minute)

	for i := range 10 {
		registry.Register(fmt.Sprintf("vid_%d", i), []byte{byte(i)})
	}
	if registry.Len() != 2 {
		t.Fatalf("expected 2 live references, got %d", registry.Len())
	}
	if registry.tracked() != 2 {
		t.Fatalf("evicted blobs must leave the index, tracking %d", registry.tracked())
	}

	first := registry.Register("vid_8", []byte{8})
	again := registry.Register("vid_8", []byte{8})
	if first != again {
		t.Fatalf("expected stable reference for unchanged content, got %s and %s", first, again)
	}
	replaced := registry.Register("vid_8", []byte("new"))
	if replaced == first {
		t.Fatal("changed content must get a fresh reference")
	}
	if registry.tracked() != 2 {
		t.Fatalf("replacing content must not grow the index, tracking %d", registry.tracked())
	}
}
