package segment

import (
	"fmt"
	"math"
)

// PELT segments a series by penalized optimal partitioning. It minimizes the
// total squared line-fit error plus Penalty per segment, pruning candidate
// knots the way the PELT change point method does. Knots are sample indices
// and neighboring segments share them, as with BottomUp.
type PELT struct {
	Penalty float64
	// MinSize is the minimum number of sample intervals in a segment.
	MinSize int
	// Jump restricts interior knots to multiples of Jump.
	Jump int
}

// NewPELT creates a PELT segmenter.
func NewPELT(penalty float64, minSize, jump int) *PELT {
	if minSize < 1 {
		minSize = 1
	}
	if jump < 1 {
		jump = 1
	}
	return &PELT{Penalty: penalty, MinSize: minSize, Jump: jump}
}

// Fit segments series and returns the fitted segment list.
func (p *PELT) Fit(series []float64) (List, error) {
	n := len(series)
	if n < 2 {
		return nil, fmt.Errorf("%w (got %d)", ErrEmptySeries, n)
	}
	if p.Penalty < 0 || math.IsNaN(p.Penalty) {
		return nil, fmt.Errorf("penalty must be non-negative, got %v", p.Penalty)
	}

	last := n - 1
	if last <= p.MinSize {
		return List{fitSegment(series, 0, last)}, nil
	}

	// best[t] is the optimal cost of the series up to knot t, prev[t] the knot before it
	best := make([]float64, n)
	prev := make([]int, n)
	for i := range best {
		best[i] = math.Inf(1)
	}
	best[0] = -p.Penalty

	var ends []int
	for t := p.Jump; t < last; t += p.Jump {
		if t >= p.MinSize {
			ends = append(ends, t)
		}
	}
	ends = append(ends, last)

	admissible := []int{0}
	for _, t := range ends {
		type candidate struct {
			knot int
			cost float64
		}
		var evaluated []candidate
		for _, s := range admissible {
			if t-s < p.MinSize {
				continue
			}
			c := best[s] + lineError(series, s, t)
			evaluated = append(evaluated, candidate{s, c})
			if c+p.Penalty < best[t] {
				best[t] = c + p.Penalty
				prev[t] = s
			}
		}
		if len(evaluated) == 0 {
			continue
		}

		pruned := admissible[:0]
		for _, s := range admissible {
			keep := true
			for _, c := range evaluated {
				if c.knot == s {
					keep = c.cost <= best[t]
					break
				}
			}
			if keep {
				pruned = append(pruned, s)
			}
		}
		admissible = append(pruned, t)
	}

	var knots []int
	for t := last; t > 0; t = prev[t] {
		knots = append(knots, t)
	}
	knots = append(knots, 0)

	list := make(List, 0, len(knots)-1)
	for i := len(knots) - 1; i > 0; i-- {
		list = append(list, fitSegment(series, knots[i], knots[i-1]))
	}
	return list, nil
}

func fitSegment(series []float64, start, end int) Segment {
	alpha, beta := fitLine(series, start, end)
	indices := make([]int, 0, end-start+1)
	for k := start; k <= end; k++ {
		indices = append(indices, k)
	}
	return Segment{
		StartValue: alpha + beta*float64(start),
		EndValue:   alpha + beta*float64(end),
		Indices:    indices,
	}
}
