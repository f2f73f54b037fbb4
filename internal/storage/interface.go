// Package storage defines the feature record stores.
package storage

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/chrissnell/thermocline/internal/thermocline"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("record not found")

// Record is one stored detection result.
type Record struct {
	ID        uuid.UUID
	Profile   string
	CreatedAt time.Time
	Features  thermocline.FeatureRecord
}

// NewRecord stamps a feature record with a fresh id and the current time.
func NewRecord(profile string, f thermocline.FeatureRecord) Record {
	return Record{
		ID:        uuid.New(),
		Profile:   profile,
		CreatedAt: time.Now().UTC(),
		Features:  f,
	}
}

// Store persists feature records.
type Store interface {
	StoreRecord(ctx context.Context, r Record) error
	GetRecord(ctx context.Context, id uuid.UUID) (Record, error)
	CheckHealth(ctx context.Context) error
	Close() error
}

// Column returns the SQL column name for a feature key, e.g. doubleTRM -> double_trm.
func Column(key string) string {
	var b strings.Builder
	runes := []rune(key)
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 && unicode.IsLower(runes[i-1]) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Multi writes every record to all of its stores. Reads are served by the first store.
type Multi []Store

// StoreRecord implements Store. It stops at the first failing store.
func (m Multi) StoreRecord(ctx context.Context, r Record) error {
	for _, s := range m {
		if err := s.StoreRecord(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// GetRecord implements Store
func (m Multi) GetRecord(ctx context.Context, id uuid.UUID) (Record, error) {
	if len(m) == 0 {
		return Record{}, ErrNotFound
	}
	return m[0].GetRecord(ctx, id)
}

// CheckHealth implements Store
func (m Multi) CheckHealth(ctx context.Context) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.CheckHealth(ctx))
	}
	return errors.Join(errs...)
}

// Close implements Store
func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
