package repositories

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Store is the Record Store: typed, whole-value access to the persisted slots.
// Update helpers serialise read-modify-write cycles within this process.
type Store struct {
	backend  Backend
	validate *validator.Validate
	mu       sync.Mutex
}

// NewStore wraps a slot backend.
func NewStore(backend Backend) *Store {
	return &Store{
		backend:  backend,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// loadSlot decodes the slot into out and reports whether the slot held a value.
func (s *Store) loadSlot(ctx context.Context, slot string, out any) (bool, error) {
	payload, err := s.backend.Load(ctx, slot)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load %s: %w", slot, err)
	}
	if err := decodeEnvelope(slot, payload, out); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) saveSlot(ctx context.Context, slot string, value any) error {
	payload, err := encodeEnvelope(slot, value)
	if err != nil {
		return err
	}
	if err := s.backend.Save(ctx, slot, payload); err != nil {
		return fmt.Errorf("save %s: %w", slot, err)
	}
	return nil
}

func (s *Store) check(slot string, record any) error {
	if err := s.validate.Struct(record); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidRecord, slot, err)
	}
	return nil
}
