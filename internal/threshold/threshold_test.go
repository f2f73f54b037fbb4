package threshold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		power     []float64
		want      [3]int
	}{
		{
			name:  "automatic threshold",
			power: []float64{0, 0.05, 2, 10, 4, 0.5, 0},
			want:  [3]int{3, 2, 4},
		},
		{
			name:      "absolute threshold",
			threshold: 3,
			power:     []float64{0, 0.05, 2, 10, 4, 0.5, 0},
			want:      [3]int{3, 3, 4},
		},
		{
			name:  "peak at surface",
			power: []float64{9, 5, 0, 0},
			want:  [3]int{0, 0, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trm, lep, uhy, err := New(tt.threshold, 0).Fit(tt.power)
			require.NoError(t, err)
			assert.Equal(t, tt.want, [3]int{trm, lep, uhy})
		})
	}
}

func TestFitNoSignal(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		power     []float64
	}{
		{name: "empty", power: nil},
		{name: "flat", power: []float64{0, 0, 0}},
		{name: "below absolute threshold", threshold: 5, power: []float64{0, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := New(tt.threshold, 0.2).Fit(tt.power)
			require.ErrorIs(t, err, ErrNoSignal)
		})
	}
}
