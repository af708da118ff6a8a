package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/vlogit/core/internal/db"
)

// PostgresStore keeps blobs in the media_blobs table.
type PostgresStore struct {
	pool db.Pool
	now  func() time.Time
}

// NewPostgresStore constructs a blob store backed by PostgreSQL.
func NewPostgresStore(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, now: time.Now}
}

// Put upserts the blob.
func (s *PostgresStore) Put(ctx context.Context, id string, data []byte) error {
	if err := validateID(id); err != nil {
		return err
	}

	query, args, err := db.SqBuilder.
		Insert("media_blobs").
		Columns("id", "data", "updated_at").
		Values(id, data, s.now().UTC()).
		Suffix("ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return db.ErrBadQuery
	}

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert blob %s: %w", id, err)
	}
	return nil
}

// Get loads the blob stored under id.
func (s *PostgresStore) Get(ctx context.Context, id string) ([]byte, error) {
	query, args, err := db.SqBuilder.
		Select("data").
		From("media_blobs").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, db.ErrBadQuery
	}

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var data []byte
	if err := conn.QueryRow(ctx, query, args...).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("select blob %s: %w", id, err)
	}
	return data, nil
}

// Delete removes the blob row if present.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	query, args, err := db.SqBuilder.
		Delete("media_blobs").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return db.ErrBadQuery
	}

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete blob %s: %w", id, err)
	}
	return nil
}
