package replay

import (
	"context"
	"database/sql"
	"fmt"

	"caguard/internal/guardian/models"
	"caguard/pkg/platform/tx"
)

// Schema creates the replay tables. It is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS signature_replays (
	replay_key BYTEA PRIMARY KEY,
	marked_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS zk_nonces (
	holder_id   TEXT NOT NULL,
	nonce       TEXT NOT NULL,
	consumed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (holder_id, nonce)
);
`

// PostgresStore persists both guards in PostgreSQL. When the context carries
// a transaction (see tx.Runner) guard writes join it and roll back with it.
type PostgresStore struct {
	db *sql.DB
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) q(ctx context.Context) querier {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return s.db
}

// NewPostgresStore constructs a PostgreSQL-backed replay store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema applies Schema.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create replay schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Seen(ctx context.Context, key models.Hash) (bool, error) {
	var exists bool
	err := s.q(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM signature_replays WHERE replay_key = $1)`, key[:],
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check signature replay: %w", err)
	}
	return exists, nil
}

// Mark inserts key and reports whether this call inserted it. A concurrent
// transaction holding the same key blocks the insert until it finishes.
func (s *PostgresStore) Mark(ctx context.Context, key models.Hash) (bool, error) {
	res, err := s.q(ctx).ExecContext(ctx,
		`INSERT INTO signature_replays (replay_key) VALUES ($1) ON CONFLICT (replay_key) DO NOTHING`, key[:],
	)
	if err != nil {
		return false, fmt.Errorf("mark signature replay: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark signature replay: %w", err)
	}
	return n == 1, nil
}

func (s *PostgresStore) Consume(ctx context.Context, holder models.HolderID, nonce string) (bool, error) {
	res, err := s.q(ctx).ExecContext(ctx,
		`INSERT INTO zk_nonces (holder_id, nonce) VALUES ($1, $2) ON CONFLICT (holder_id, nonce) DO NOTHING`,
		holder.String(), nonce,
	)
	if err != nil {
		return false, fmt.Errorf("consume nonce: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("consume nonce: %w", err)
	}
	return n == 1, nil
}
