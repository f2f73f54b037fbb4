// Package sqlite stores feature records in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/chrissnell/thermocline/internal/log"
	"github.com/chrissnell/thermocline/internal/storage"
	"github.com/chrissnell/thermocline/internal/thermocline"
)

// Storage is a SQLite feature store
type Storage struct {
	db     *sql.DB
	dbPath string
}

// New opens (creating if needed) the database at dbPath and its table.
func New(ctx context.Context, dbPath string) (*Storage, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// SQLite allows one writer at a time, and an in-memory database lives
	// only as long as its connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	log.Debugf("creating %s in %s", tableName, dbPath)
	for _, stmt := range []string{createTableSQL(), createProfileIndexSQL} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create table: %w", err)
		}
	}

	return &Storage{db: db, dbPath: dbPath}, nil
}

// StoreRecord implements storage.Store
func (s *Storage) StoreRecord(ctx context.Context, r storage.Record) error {
	m := r.Features.Map()
	args := []any{r.ID.String(), r.Profile, r.CreatedAt.UTC().Format(time.RFC3339Nano)}
	for _, k := range thermocline.Keys() {
		if v := m[k]; v != nil {
			args = append(args, *v)
		} else {
			args = append(args, nil)
		}
	}

	if _, err := s.db.ExecContext(ctx, insertSQL(), args...); err != nil {
		return fmt.Errorf("could not store record for %s: %w", r.Profile, err)
	}
	return nil
}

// GetRecord implements storage.Store
func (s *Storage) GetRecord(ctx context.Context, id uuid.UUID) (storage.Record, error) {
	var (
		rawID, created string
		r              storage.Record
	)
	keys := thermocline.Keys()
	values := make([]sql.NullFloat64, len(keys))
	dest := []any{&rawID, &r.Profile, &created}
	for i := range values {
		dest = append(dest, &values[i])
	}

	err := s.db.QueryRowContext(ctx, selectByIDSQL(), id.String()).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Record{}, fmt.Errorf("%s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return storage.Record{}, fmt.Errorf("failed to query record %s: %w", id, err)
	}

	if r.ID, err = uuid.Parse(rawID); err != nil {
		return storage.Record{}, fmt.Errorf("invalid record id %q: %w", rawID, err)
	}
	if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return storage.Record{}, fmt.Errorf("invalid created_at %q: %w", created, err)
	}
	for i, k := range keys {
		if values[i].Valid {
			v := values[i].Float64
			r.Features.Set(k, &v)
		}
	}
	return r, nil
}

// CheckHealth implements storage.Store
func (s *Storage) CheckHealth(ctx context.Context) error {
	var result int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("sqlite %s: %w", s.dbPath, err)
	}
	return nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}
