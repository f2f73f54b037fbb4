// Package segment provides piecewise-linear segmentation of a temperature series.
package segment

import (
	"fmt"
	"math"
)

// Segment is a run of consecutive samples approximated by one fitted line.
type Segment struct {
	// StartValue and EndValue are the fitted temperatures at the first and last index.
	StartValue float64
	EndValue   float64
	Indices    []int
}

// First returns the first sample index covered by the segment.
func (s Segment) First() int {
	return s.Indices[0]
}

// Last returns the last sample index covered by the segment.
func (s Segment) Last() int {
	return s.Indices[len(s.Indices)-1]
}

// Steps returns the number of sample intervals the segment spans, at least 1.
func (s Segment) Steps() int {
	if len(s.Indices) < 2 {
		return 1
	}
	return len(s.Indices) - 1
}

// Mid returns the sample index nearest the mean of the segment's indices.
func (s Segment) Mid() int {
	sum := 0
	for _, i := range s.Indices {
		sum += i
	}
	return int(math.Round(float64(sum) / float64(len(s.Indices))))
}

func (s Segment) String() string {
	return fmt.Sprintf("[%d..%d] %.3f -> %.3f", s.First(), s.Last(), s.StartValue, s.EndValue)
}

// List is an ordered, depth-increasing sequence of segments covering a series.
type List []Segment

// Validate checks that the list is non-empty, ordered, contiguous and covers n samples.
// Adjacent segments may share their boundary sample.
func (l List) Validate(n int) error {
	if len(l) == 0 {
		return fmt.Errorf("segment list is empty")
	}
	if l[0].First() != 0 {
		return fmt.Errorf("first segment starts at %d, want 0", l[0].First())
	}
	for i, s := range l {
		if len(s.Indices) == 0 {
			return fmt.Errorf("segment %d is empty", i)
		}
		for k := 1; k < len(s.Indices); k++ {
			if s.Indices[k] != s.Indices[k-1]+1 {
				return fmt.Errorf("segment %d is not contiguous", i)
			}
		}
		if i > 0 {
			prev := l[i-1].Last()
			if s.First() != prev && s.First() != prev+1 {
				return fmt.Errorf("segment %d starts at %d but segment %d ends at %d", i, s.First(), i-1, prev)
			}
		}
	}
	if last := l[len(l)-1].Last(); last != n-1 {
		return fmt.Errorf("last segment ends at %d, want %d", last, n-1)
	}
	return nil
}

// Fitter turns a series into a segment list.
type Fitter interface {
	Fit(series []float64) (List, error)
}
