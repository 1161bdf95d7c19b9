package storexpostgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rohit9625/natively-backend/pkg/logx"
	"github.com/rohit9625/natively-backend/pkg/storex"
)

// DefaultTable is used when no table name is configured.
const DefaultTable = "storex_entries"

// PostgresStore implements storex.Store on a single table. Reads filter on
// expires_at, and Purge deletes what has expired.
type PostgresStore struct {
	db    *sqlx.DB
	table string
	now   func() time.Time
}

// NewPostgresStore creates a Postgres-backed store.
func NewPostgresStore(db *sqlx.DB, table string) *PostgresStore {
	if table == "" {
		table = DefaultTable
	}
	return &PostgresStore{db: db, table: table, now: time.Now}
}

// Migrate creates the table and its expiry index if they are missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			key        TEXT PRIMARY KEY,
			value      BYTEA NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS %[2]s ON %[1]s (expires_at)`,
		pq.QuoteIdentifier(s.table), pq.QuoteIdentifier(s.table+"_expires_at_idx"))

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return storex.Unavailable("migrate", s.table, err)
	}
	return nil
}

// Put upserts the value with a fresh expiry.
func (s *PostgresStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := storex.ValidateTTL(ttl); err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (key, value, expires_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`,
		pq.QuoteIdentifier(s.table))

	if _, err := s.db.ExecContext(ctx, query, key, value, s.now().Add(ttl).UTC()); err != nil {
		return s.wrap("put", key, err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := fmt.Sprintf(`SELECT value FROM %s WHERE key = $1 AND expires_at > $2`, pq.QuoteIdentifier(s.table))

	var value []byte
	if err := s.db.GetContext(ctx, &value, query, key, s.now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storex.NotFound(key)
		}
		return nil, s.wrap("get", key, err)
	}
	return value, nil
}

func (s *PostgresStore) Exists(ctx context.Context, key string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE key = $1 AND expires_at > $2)`, pq.QuoteIdentifier(s.table))

	var ok bool
	if err := s.db.GetContext(ctx, &ok, query, key, s.now().UTC()); err != nil {
		return false, s.wrap("exists", key, err)
	}
	return ok, nil
}

// Purge deletes expired rows.
func (s *PostgresStore) Purge(ctx context.Context) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE expires_at <= $1`, pq.QuoteIdentifier(s.table))

	res, err := s.db.ExecContext(ctx, query, s.now().UTC())
	if err != nil {
		return 0, s.wrap("purge", "", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, s.wrap("purge", "", err)
	}
	return n, nil
}

func (s *PostgresStore) wrap(op, key string, err error) error {
	e := storex.Unavailable(op, key, err)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		e = e.WithDetail("pg_code", string(pqErr.Code))
		if pqErr.Code == "42P01" { // undefined_table
			logx.Warnf("storex: table %s does not exist, run migrations", s.table)
		}
	}
	return e
}
