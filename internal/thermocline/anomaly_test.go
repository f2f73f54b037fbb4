package thermocline

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectDoubleTRM(t *testing.T) {
	a := NewAnomalyDetector(testConfig().Segment) // stable 0.5, minTRM 2

	tests := []struct {
		name      string
		gradients []float64
		want      []int
	}{
		{name: "single thermocline", gradients: []float64{0, 5, 0}, want: []int{}},
		{name: "two thermoclines", gradients: []float64{0, 2.5, 0, 5, 0}, want: []int{2}},
		{name: "weak upper gradient", gradients: []float64{0, 1.5, 0, 5, 0}, want: []int{}},
		{name: "stable below", gradients: []float64{3, 0.1, 0.2}, want: []int{}},
		{name: "negative middle within tolerance", gradients: []float64{3, -0.4, 1}, want: []int{1}},
		{name: "too short", gradients: []float64{3, 0}, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.DetectDoubleTRM(tt.gradients))
		})
	}
}

func TestDetectPositiveGradient(t *testing.T) {
	a := NewAnomalyDetector(testConfig().Segment)

	assert.Equal(t, []int{1, 3}, a.DetectPositiveGradient([]float64{0, -0.6, -0.5, -3, 2}))
	assert.Equal(t, []int{}, a.DetectPositiveGradient([]float64{0, 1, 2}))
}

func TestAnomalyCountsMatchDefinition(t *testing.T) {
	cfg := testConfig().Segment
	a := NewAnomalyDetector(cfg)
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 200; trial++ {
		g := make([]float64, 2+rng.Intn(10))
		for i := range g {
			g[i] = rng.Float64()*8 - 2
		}

		double, positive := 0, 0
		for i := range g {
			if g[i] < -cfg.StableGradient {
				positive++
			}
			if i >= 1 && i <= len(g)-2 &&
				math.Abs(g[i]) < cfg.StableGradient && g[i-1] > cfg.MinTRMGradient && g[i+1] > cfg.StableGradient {
				double++
			}
		}

		assert.Len(t, a.DetectDoubleTRM(g), double)
		assert.Len(t, a.DetectPositiveGradient(g), positive)
	}
}
