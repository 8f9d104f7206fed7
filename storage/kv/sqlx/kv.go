package sqlxkv

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/pkg/errors"

	"github.com/trezcool/schooladmin/core/record"
)

var tableNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Store is a record.Storage over a two column (key, value) SQL table.
type Store struct {
	db    *sqlx.DB
	table string
}

var _ record.Storage = (*Store)(nil) // interface compliance check

// NewStore wraps an open database. The table is created by Migrate.
func NewStore(db *sqlx.DB, table string) (*Store, error) {
	if !tableNameRegex.MatchString(table) {
		return nil, errors.Errorf("invalid table name %q", table)
	}
	return &Store{db: db, table: table}, nil
}

// Open connects with driver (postgres or sqlite3), waits for the database and creates the table.
func Open(ctx context.Context, driver, dsn, table string) (*Store, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err = ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "pinging database")
	}
	store, err := NewStore(db, table)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err = store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.PingContext(ctx)
		if err == nil {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// Migrate creates the table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	q := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (key TEXT PRIMARY KEY, value TEXT NOT NULL)`, s.table)
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return errors.Wrapf(err, "creating table %s", s.table)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var val string
	q := s.db.Rebind(fmt.Sprintf(`SELECT value FROM %s WHERE key = ?`, s.table))
	if err := s.db.GetContext(ctx, &val, q, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", record.ErrKeyNotFound
		}
		return "", errors.Wrapf(err, "selecting %s", key)
	}
	return val, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	q := s.db.Rebind(fmt.Sprintf(
		`INSERT INTO %s (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		s.table,
	))
	if _, err := s.db.ExecContext(ctx, q, key, value); err != nil {
		return errors.Wrapf(err, "upserting %s", key)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	q := s.db.Rebind(fmt.Sprintf(`DELETE FROM %s WHERE key = ?`, s.table))
	if _, err := s.db.ExecContext(ctx, q, key); err != nil {
		return errors.Wrapf(err, "deleting %s", key)
	}
	return nil
}

// Keys returns every stored key in ascending order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	keys := make([]string, 0)
	if err := s.db.SelectContext(ctx, &keys, fmt.Sprintf(`SELECT key FROM %s ORDER BY key`, s.table)); err != nil {
		return nil, errors.Wrap(err, "listing keys")
	}
	return keys, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
