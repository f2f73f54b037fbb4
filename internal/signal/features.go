package signal

import (
	"errors"
	"fmt"

	"github.com/chrissnell/thermocline/internal/profile"
)

// ErrTooShort is returned when a series is too short to differentiate.
var ErrTooShort = errors.New("need at least three samples to derive signal features")

// Features is the derived series the HMM and threshold engines consume. All
// slices share the same length and index space; Depth maps an index back to
// the cast.
type Features struct {
	Depth       []float64
	Temperature []float64
	// Gradient is -dT/dz, positive where temperature falls with depth.
	Gradient []float64
	// Power is the squared gradient.
	Power []float64
}

// Len returns the number of feature samples.
func (f Features) Len() int {
	return len(f.Depth)
}

// Extract computes signal features from a uniformly spaced cast. The gradient
// uses central differences in the interior and one-sided differences at the ends.
func Extract(p profile.Profile, interval float64) (Features, error) {
	n := p.Len()
	if n < 3 {
		return Features{}, fmt.Errorf("%s: %w", p.Name, ErrTooShort)
	}
	if interval <= 0 {
		return Features{}, fmt.Errorf("interval must be positive, got %v", interval)
	}

	temps := p.Temperatures()
	f := Features{
		Depth:       p.Depths(),
		Temperature: temps,
		Gradient:    make([]float64, n),
		Power:       make([]float64, n),
	}

	f.Gradient[0] = -(temps[1] - temps[0]) / interval
	f.Gradient[n-1] = -(temps[n-1] - temps[n-2]) / interval
	for i := 1; i < n-1; i++ {
		f.Gradient[i] = -(temps[i+1] - temps[i-1]) / (2 * interval)
	}
	for i, g := range f.Gradient {
		f.Power[i] = g * g
	}

	return f, nil
}
