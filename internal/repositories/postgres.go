package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/vlogit/core/internal/db"
)

// PostgresBackend provides PostgreSQL-backed persistence for record slots.
type PostgresBackend struct {
	pool db.Pool
	now  func() time.Time
}

// NewPostgresBackend constructs a slot backend backed by the record_slots table.
func NewPostgresBackend(pool db.Pool) *PostgresBackend {
	return &PostgresBackend{pool: pool, now: time.Now}
}

// Load fetches the payload stored for slot.
func (b *PostgresBackend) Load(ctx context.Context, slot string) ([]byte, error) {
	query, args, err := db.SqBuilder.
		Select("payload").
		From("record_slots").
		Where(sq.Eq{"slot": slot}).
		ToSql()
	if err != nil {
		return nil, db.ErrBadQuery
	}

	conn, err := b.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var payload []byte
	if err := conn.QueryRow(ctx, query, args...).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select slot %s: %w", slot, err)
	}
	return payload, nil
}

// Save upserts the payload for slot.
func (b *PostgresBackend) Save(ctx context.Context, slot string, payload []byte) error {
	query, args, err := db.SqBuilder.
		Insert("record_slots").
		Columns("slot", "payload", "updated_at").
		Values(slot, string(payload), b.now().UTC()).
		Suffix("ON CONFLICT (slot) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return db.ErrBadQuery
	}

	conn, err := b.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert slot %s: %w", slot, err)
	}
	return nil
}

// Delete removes the slot row.
func (b *PostgresBackend) Delete(ctx context.Context, slot string) error {
	query, args, err := db.SqBuilder.
		Delete("record_slots").
		Where(sq.Eq{"slot": slot}).
		ToSql()
	if err != nil {
		return db.ErrBadQuery
	}

	conn, err := b.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete slot %s: %w", slot, err)
	}
	return nil
}

var _ Backend = (*PostgresBackend)(nil)
var _ Backend = (*FileBackend)(nil)
var _ Backend = (*MemoryBackend)(nil)
