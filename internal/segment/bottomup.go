package segment

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ErrEmptySeries is returned when there is nothing to segment.
var ErrEmptySeries = errors.New("cannot segment a series with fewer than two samples")

// BottomUp is a bottom-up piecewise-linear segmenter. It starts with one segment
// per sample interval and greedily merges the adjacent pair whose merged line
// fit has the lowest sum of squared residuals, until no merge stays within MaxError.
// Adjacent segments share their boundary sample, so the fitted model is connected
// at the knots.
type BottomUp struct {
	MaxError float64
}

// NewBottomUp creates a bottom-up segmenter.
func NewBottomUp(maxError float64) *BottomUp {
	return &BottomUp{MaxError: maxError}
}

type span struct {
	start, end int
}

// Fit segments series and returns the fitted segment list.
func (b *BottomUp) Fit(series []float64) (List, error) {
	n := len(series)
	if n < 2 {
		return nil, fmt.Errorf("%w (got %d)", ErrEmptySeries, n)
	}
	if b.MaxError < 0 || math.IsNaN(b.MaxError) {
		return nil, fmt.Errorf("max error must be non-negative, got %v", b.MaxError)
	}

	spans := make([]span, 0, n-1)
	for i := 0; i < n-1; i++ {
		spans = append(spans, span{start: i, end: i + 1})
	}

	// costs[i] is the error of merging spans[i] and spans[i+1]
	costs := make([]float64, len(spans)-1)
	for i := range costs {
		costs[i] = lineError(series, spans[i].start, spans[i+1].end)
	}

	for len(costs) > 0 {
		best := 0
		for i := 1; i < len(costs); i++ {
			if costs[i] < costs[best] {
				best = i
			}
		}
		if costs[best] > b.MaxError {
			break
		}

		spans[best].end = spans[best+1].end
		spans = append(spans[:best+1], spans[best+2:]...)
		costs = append(costs[:best], costs[best+1:]...)

		if best > 0 {
			costs[best-1] = lineError(series, spans[best-1].start, spans[best].end)
		}
		if best < len(costs) {
			costs[best] = lineError(series, spans[best].start, spans[best+1].end)
		}
	}

	list := make(List, len(spans))
	for i, sp := range spans {
		list[i] = fitSegment(series, sp.start, sp.end)
	}

	return list, nil
}

// fitLine returns the least-squares intercept and slope of series[start:end+1]
// against the sample index.
func fitLine(series []float64, start, end int) (alpha, beta float64) {
	if end == start {
		return series[start], 0
	}
	xs := make([]float64, 0, end-start+1)
	for k := start; k <= end; k++ {
		xs = append(xs, float64(k))
	}
	return stat.LinearRegression(xs, series[start:end+1], nil, false)
}

func lineError(series []float64, start, end int) float64 {
	alpha, beta := fitLine(series, start, end)
	sse := 0.0
	for k := start; k <= end; k++ {
		r := series[k] - (alpha + beta*float64(k))
		sse += r * r
	}
	return sse
}
