package repositories

import "errors"

var (
	// ErrNotFound indicates the requested slot or record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrSchemaMismatch indicates a stored slot carries an unknown version or kind.
	ErrSchemaMismatch = errors.New("record schema mismatch")
	// ErrInvalidRecord indicates a stored value decoded but failed validation.
	ErrInvalidRecord = errors.New("invalid record")
)
