package thermocline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chrissnell/thermocline/internal/profile"
	"github.com/chrissnell/thermocline/internal/segment"
)

func testConfig() Config {
	return Config{
		Interval: 1,
		Segment: SegmentConfig{
			MaxError:        0.1,
			StableGradient:  0.5,
			StableGradient2: 1.5,
			MinTRMGradient:  2,
		},
		HMM:       HMMConfig{Iterations: 10},
		Threshold: ThresholdConfig{Fraction: 0.1},
	}
}

// piecewise builds a unit-interval profile by linear interpolation between knots.
func piecewise(t *testing.T, name string, knots ...[2]float64) profile.Profile {
	t.Helper()
	last := int(knots[len(knots)-1][0])
	depth := make([]float64, last+1)
	temp := make([]float64, last+1)
	k := 0
	for i := 0; i <= last; i++ {
		d := float64(i)
		for k < len(knots)-2 && knots[k+1][0] < d {
			k++
		}
		a, b := knots[k], knots[k+1]
		depth[i] = d
		temp[i] = a[1] + (d-a[0])/(b[0]-a[0])*(b[1]-a[1])
	}
	p, err := profile.New(name, depth, temp)
	require.NoError(t, err)
	return p
}

// scenarioA is flat 20°C to 4 m, 10°C by 6 m, flat to 10 m.
func scenarioA(t *testing.T) profile.Profile {
	return piecewise(t, "scenario-a", [2]float64{0, 20}, [2]float64{4, 20}, [2]float64{6, 10}, [2]float64{10, 10})
}

// scenarioC has two thermoclines separated by a stable layer.
func scenarioC(t *testing.T) profile.Profile {
	return piecewise(t, "scenario-c",
		[2]float64{0, 20}, [2]float64{4, 20}, [2]float64{6, 15},
		[2]float64{10, 15}, [2]float64{12, 5}, [2]float64{20, 5})
}

func flatProfile(t *testing.T, n int) profile.Profile {
	return piecewise(t, "flat", [2]float64{0, 20}, [2]float64{float64(n - 1), 20})
}

// logistic returns a smooth stratified cast with its steepest gradient at center.
func logistic(t *testing.T, n int, center float64) profile.Profile {
	t.Helper()
	depth := make([]float64, n)
	temp := make([]float64, n)
	for i := range depth {
		depth[i] = float64(i)
		temp[i] = 8 + 12/(1+math.Exp((float64(i)-center)/2))
	}
	p, err := profile.New("logistic", depth, temp)
	require.NoError(t, err)
	return p
}

// seg builds a segment over [first, last] with the given fitted end values.
func seg(first, last int, start, end float64) segment.Segment {
	idx := make([]int, 0, last-first+1)
	for i := first; i <= last; i++ {
		idx = append(idx, i)
	}
	return segment.Segment{StartValue: start, EndValue: end, Indices: idx}
}

func value(t *testing.T, v *float64) float64 {
	t.Helper()
	require.NotNil(t, v)
	return *v
}
