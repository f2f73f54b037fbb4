// Package threshold finds the thermocline as the peak of the gradient power
// series and its edges as the nearest samples where the power falls below a
// threshold.
package threshold

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ErrNoSignal is returned when the power series has no peak above the threshold.
var ErrNoSignal = errors.New("no power above threshold")

// DefaultFraction of the peak power is used when no absolute threshold is set.
const DefaultFraction = 0.1

// Model is the threshold engine.
type Model struct {
	// Threshold is an absolute power threshold. Zero selects Fraction of the peak.
	Threshold float64
	Fraction  float64
}

// New creates a threshold engine. threshold <= 0 makes it automatic.
func New(threshold, fraction float64) *Model {
	if fraction <= 0 || fraction >= 1 {
		fraction = DefaultFraction
	}
	return &Model{Threshold: threshold, Fraction: fraction}
}

// Fit returns the index of peak power, and the first and last indices of the
// contiguous run around the peak where power stays at or above the threshold.
func (m *Model) Fit(power []float64) (trm, lep, uhy int, err error) {
	if len(power) == 0 {
		return 0, 0, 0, fmt.Errorf("%w: empty power series", ErrNoSignal)
	}

	trm = floats.MaxIdx(power)
	peak := power[trm]
	if peak <= 0 {
		return 0, 0, 0, fmt.Errorf("%w: series is flat", ErrNoSignal)
	}

	limit := m.Threshold
	if limit <= 0 {
		limit = m.Fraction * peak
	}
	if peak < limit {
		return 0, 0, 0, fmt.Errorf("%w: peak %.4g is below %.4g", ErrNoSignal, peak, limit)
	}

	lep = trm
	for lep > 0 && power[lep-1] >= limit {
		lep--
	}
	uhy = trm
	for uhy < len(power)-1 && power[uhy+1] >= limit {
		uhy++
	}

	return trm, lep, uhy, nil
}
