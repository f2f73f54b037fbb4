package timescaledb

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrissnell/thermocline/internal/storage"
	"github.com/chrissnell/thermocline/internal/thermocline"
)

func TestRowRoundTrip(t *testing.T) {
	var f thermocline.FeatureRecord
	for i, k := range thermocline.Keys() {
		v := float64(i) + 0.5
		require.True(t, f.Set(k, &v))
	}
	rec := storage.NewRecord("cast-001", f)

	got := rowFromRecord(rec).record()
	assert.Equal(t, rec, got)
}

func TestRowColumnsMatchFeatureKeys(t *testing.T) {
	typ := reflect.TypeOf(FeatureRow{})
	columns := map[string]bool{}
	for i := 0; i < typ.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("gorm")
		for _, part := range strings.Split(tag, ";") {
			if col, ok := strings.CutPrefix(part, "column:"); ok {
				columns[col] = true
			}
		}
	}

	for _, k := range thermocline.Keys() {
		col := storage.Column(k)
		assert.True(t, columns[col], "no column %s for feature %s", col, k)
		assert.Contains(t, createTableSQL, col+" DOUBLE PRECISION NULL")
	}
	assert.Equal(t, "thermocline_features", FeatureRow{}.TableName())
}
