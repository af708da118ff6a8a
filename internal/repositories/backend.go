package repositories

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/vlogit/core/internal/storage"
)

// Backend persists opaque slot payloads. Load returns ErrNotFound for an empty slot.
type Backend interface {
	Load(ctx context.Context, slot string) ([]byte, error)
	Save(ctx context.Context, slot string, payload []byte) error
	Delete(ctx context.Context, slot string) error
}

var slotPattern = regexp.MustCompile(`^[a-z0-9_]{1,64}$`)

// MemoryBackend keeps slots in process memory.
type MemoryBackend struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{slots: make(map[string][]byte)}
}

// Load returns a copy of the slot payload.
func (b *MemoryBackend) Load(_ context.Context, slot string) ([]byte, error) {
	b.mu.RLock()
	payload, ok := b.slots[slot]
	b.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), payload...), nil
}

// Save replaces the slot payload.
func (b *MemoryBackend) Save(_ context.Context, slot string, payload []byte) error {
	b.mu.Lock()
	b.slots[slot] = append([]byte(nil), payload...)
	b.mu.Unlock()
	return nil
}

// Delete empties the slot.
func (b *MemoryBackend) Delete(_ context.Context, slot string) error {
	b.mu.Lock()
	delete(b.slots, slot)
	b.mu.Unlock()
	return nil
}

// FileBackend stores each slot as <dir>/<slot>.json on the local device.
type FileBackend struct {
	dir string
}

// NewFileBackend creates dir if needed and returns a backend rooted there.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create record directory: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

// Load reads the slot file.
func (b *FileBackend) Load(ctx context.Context, slot string) ([]byte, error) {
	path, err := b.path(slot)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read slot %s: %w", slot, err)
	}
	return payload, nil
}

// Save atomically replaces the slot file.
func (b *FileBackend) Save(ctx context.Context, slot string, payload []byte) error {
	path, err := b.path(slot)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := storage.WriteFileAtomic(path, payload); err != nil {
		return fmt.Errorf("write slot %s: %w", slot, err)
	}
	return nil
}

// Delete removes the slot file if present.
func (b *FileBackend) Delete(_ context.Context, slot string) error {
	path, err := b.path(slot)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete slot %s: %w", slot, err)
	}
	return nil
}

func (b *FileBackend) path(slot string) (string, error) {
	if !slotPattern.MatchString(slot) {
		return "", fmt.Errorf("invalid slot name %q", slot)
	}
	return filepath.Join(b.dir, slot+".json"), nil
}
