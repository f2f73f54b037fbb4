package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrissnell/thermocline/internal/thermocline"
)

func TestColumn(t *testing.T) {
	tests := map[string]string{
		"TRM_segment":               "trm_segment",
		"UHY_HMM":                   "uhy_hmm",
		"TRM_gradient_segment":      "trm_gradient_segment",
		"doubleTRM":                 "double_trm",
		"positiveGradient":          "positive_gradient",
		"lastButTwoSegmentGradient": "last_but_two_segment_gradient",
	}
	for key, want := range tests {
		assert.Equal(t, want, Column(key), key)
	}

	seen := map[string]bool{}
	for _, k := range thermocline.Keys() {
		c := Column(k)
		assert.False(t, seen[c], "duplicate column %s", c)
		seen[c] = true
	}
}

type memStore struct {
	records map[uuid.UUID]Record
	err     error
	closed  bool
}

func newMemStore() *memStore {
	return &memStore{records: map[uuid.UUID]Record{}}
}

func (m *memStore) StoreRecord(_ context.Context, r Record) error {
	if m.err != nil {
		return m.err
	}
	m.records[r.ID] = r
	return nil
}

func (m *memStore) GetRecord(_ context.Context, id uuid.UUID) (Record, error) {
	r, ok := m.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return r, nil
}

func (m *memStore) CheckHealth(context.Context) error { return m.err }

func (m *memStore) Close() error {
	m.closed = true
	return nil
}

func TestMulti(t *testing.T) {
	ctx := context.Background()
	a, b := newMemStore(), newMemStore()
	m := Multi{a, b}

	rec := NewRecord("cast", thermocline.FeatureRecord{})
	require.NoError(t, m.StoreRecord(ctx, rec))
	assert.Contains(t, a.records, rec.ID)
	assert.Contains(t, b.records, rec.ID)

	got, err := m.GetRecord(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	b.err = errors.New("disk full")
	require.ErrorContains(t, m.StoreRecord(ctx, NewRecord("other", thermocline.FeatureRecord{})), "disk full")
	require.ErrorContains(t, m.CheckHealth(ctx), "disk full")

	require.NoError(t, m.Close())
	assert.True(t, a.closed)
	assert.True(t, b.closed)

	_, err = Multi{}.GetRecord(ctx, rec.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNewRecord(t *testing.T) {
	a := NewRecord("cast", thermocline.FeatureRecord{})
	b := NewRecord("cast", thermocline.FeatureRecord{})
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "UTC", a.CreatedAt.Location().String())
}
