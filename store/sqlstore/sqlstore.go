// Package sqlstore implements the store contract on a SQL database via sqlx.
// Supported drivers are sqlite (modernc) and postgres (pgx), switched the same
// way the rest of the configuration is. SQL rows do not expire on their own;
// reads filter on the deadline and CleanupExpired removes dead rows.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/templui/magiclink/store"
)

type SQL struct {
	db *sqlx.DB
}

// New wraps an existing database handle. The schema must be in place,
// see RunMigrations.
func New(db *sqlx.DB) *SQL {
	return &SQL{db: db}
}

// Open connects to the database, configures the connection pool and runs
// migrations.
func Open(driver, connection string) (*SQL, error) {
	// SQLite: create the data directory if needed
	if driver == "sqlite" {
		err := os.MkdirAll(filepath.Dir(connection), 0755)
		if err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sqlx.Connect(driver, connection)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	err = RunMigrations(db.DB, driver)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SQL{db: db}, nil
}

// DB exposes the underlying handle so the host can share it, for example
// with directory.NewSQL.
func (s *SQL) DB() *sqlx.DB {
	return s.db
}

func (s *SQL) Close() error {
	return s.db.Close()
}

func (s *SQL) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	query := `
		INSERT INTO kv_entries (key, value, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at
	`
	_, err := s.db.ExecContext(ctx, query, key, string(value), deadline(ttl))
	return err
}

func (s *SQL) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	query := `
		SELECT value FROM kv_entries
		WHERE key = $1 AND (expires_at IS NULL OR expires_at > $2)
	`
	err := s.db.GetContext(ctx, &value, query, key, time.Now())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

func (s *SQL) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = $1`, key)
	return err
}

// Increment is a single upsert so concurrent callers cannot lose updates.
// An expired counter restarts at 1.
func (s *SQL) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	var value int64
	query := `
		INSERT INTO kv_entries (key, value, expires_at)
		VALUES ($1, '1', $2)
		ON CONFLICT (key) DO UPDATE SET
			value = CASE
				WHEN kv_entries.expires_at IS NOT NULL AND kv_entries.expires_at <= $3
					THEN '1'
				ELSE CAST(CAST(kv_entries.value AS INTEGER) + 1 AS TEXT)
			END,
			expires_at = $2
		RETURNING CAST(value AS INTEGER)
	`
	err := s.db.GetContext(ctx, &value, query, key, deadline(ttl), time.Now())
	if err != nil {
		return 0, err
	}
	return value, nil
}

// CompareAndSwap is a single conditional UPDATE, only one concurrent caller
// can match the old value.
func (s *SQL) CompareAndSwap(ctx context.Context, key string, old, new []byte, ttl time.Duration) (bool, error) {
	query := `
		UPDATE kv_entries
		SET value = $1, expires_at = $2
		WHERE key = $3 AND value = $4 AND (expires_at IS NULL OR expires_at > $5)
	`
	result, err := s.db.ExecContext(ctx, query, string(new), deadline(ttl), key, string(old), time.Now())
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// CleanupExpired removes rows whose deadline has passed. Reads never return
// expired rows, so this is maintenance only; call it periodically (e.g. via
// cron) if table growth matters for your deployment.
func (s *SQL) CleanupExpired(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM kv_entries WHERE expires_at IS NOT NULL AND expires_at <= $1`, time.Now())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func deadline(ttl time.Duration) *time.Time {
	if ttl <= 0 {
		return nil
	}
	t := time.Now().Add(ttl)
	return &t
}
