package thermocline

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/chrissnell/thermocline/internal/profile"
	"github.com/chrissnell/thermocline/internal/segment"
)

// noiseSpan is the depth span below which a leading max-gradient segment is
// treated as a surface artifact.
const noiseSpan = 2.0

// Boundaries are the detected depths. Nil means the boundary is absent.
type Boundaries struct {
	TRM *float64
	LEP *float64
	UHY *float64
}

// Location is the result of BoundaryLocator.Locate.
type Location struct {
	Boundaries

	// Segments and Gradients are the list actually evaluated, after the noise guard.
	Segments  segment.List
	Gradients []float64

	// TRMGradient is the largest segment gradient, recorded even when it fails the gate.
	TRMGradient float64
	// TRMIndex is the index of the max-gradient segment within Segments.
	TRMIndex int
	// Dropped is the number of leading noise segments removed.
	Dropped int
}

// NumSegments is the number of segments evaluated.
func (l Location) NumSegments() int {
	return len(l.Segments)
}

// KeyGradients returns the gradients of the first, last and second-to-last segments.
func (l Location) KeyGradients() (first, last, secondLast float64, err error) {
	n := len(l.Gradients)
	if n < 2 {
		return 0, 0, 0, fmt.Errorf("second-to-last segment gradient: %w", ErrTooFewSegments)
	}
	return l.Gradients[0], l.Gradients[n-1], l.Gradients[n-2], nil
}

// BoundaryLocator picks TRM, LEP and UHY from a fitted segment list.
type BoundaryLocator struct {
	cfg SegmentConfig
}

// NewBoundaryLocator creates a locator from the segmentation thresholds.
func NewBoundaryLocator(cfg SegmentConfig) BoundaryLocator {
	return BoundaryLocator{cfg: cfg}
}

// DropLeadingNoise removes leading segments that carry the maximum gradient
// but span less than two depth units. The inputs are not modified; the results
// are suffixes of them and always keep at least one segment.
func DropLeadingNoise(p profile.Profile, segs segment.List, gradients []float64) (segment.List, []float64, int) {
	dropped := 0
	for len(segs) > 1 && floats.MaxIdx(gradients) == 0 {
		first := segs[0]
		if p.DepthAt(first.Last())-p.DepthAt(first.First()) >= noiseSpan {
			break
		}
		segs = segs[1:]
		gradients = gradients[1:]
		dropped++
	}
	return segs, gradients, dropped
}

// Locate applies the noise guard, the TRM gate and the LEP/UHY rules.
// A profile without a thermocline is a valid outcome with nil boundaries.
func (b BoundaryLocator) Locate(p profile.Profile, segs segment.List, gradients []float64) (Location, error) {
	if len(segs) == 0 {
		return Location{}, fmt.Errorf("locate boundaries: %w", segment.ErrEmptySeries)
	}
	if len(segs) != len(gradients) {
		return Location{}, fmt.Errorf("locate boundaries: %d segments but %d gradients", len(segs), len(gradients))
	}

	segs, gradients, dropped := DropLeadingNoise(p, segs, gradients)

	maxIdx := floats.MaxIdx(gradients)
	loc := Location{
		Segments:    segs,
		Gradients:   gradients,
		TRMGradient: gradients[maxIdx],
		TRMIndex:    maxIdx,
		Dropped:     dropped,
	}

	if loc.TRMGradient <= b.cfg.MinTRMGradient {
		return loc, nil
	}

	loc.TRM = ptr(p.DepthAt(segs[maxIdx].Mid()))

	if idx, ok := b.upperBoundary(segs, gradients, maxIdx); ok {
		loc.LEP = ptr(p.DepthAt(idx))
	}
	if idx, ok := b.lowerBoundary(segs, gradients, maxIdx); ok {
		loc.UHY = ptr(p.DepthAt(idx))
	}

	return loc, nil
}

// upperBoundary returns the sample index of the epilimnion bottom.
func (b BoundaryLocator) upperBoundary(segs segment.List, g []float64, maxIdx int) (int, bool) {
	switch {
	case maxIdx == 0:
		return 0, false
	case math.Abs(g[1]) < b.cfg.StableGradient:
		// segment 0 is an anomaly above a stable segment 1
		return segs[1].Last(), true
	case math.Abs(g[0]) > b.cfg.StableGradient2:
		return 0, false
	default:
		return segs[0].Last(), true
	}
}

// lowerBoundary returns the sample index of the hypolimnion top.
func (b BoundaryLocator) lowerBoundary(segs segment.List, g []float64, maxIdx int) (int, bool) {
	n := len(segs)
	switch {
	case maxIdx == n-1:
		return 0, false
	case math.Abs(g[n-2]) < b.cfg.StableGradient:
		return segs[n-2].First(), true
	case math.Abs(g[n-1]) > b.cfg.StableGradient2:
		return 0, false
	default:
		return segs[n-1].First(), true
	}
}
