// Package hmm implements a three-state, left-to-right Gaussian hidden Markov
// model that splits a gradient series into epilimnion, thermocline and
// hypolimnion. Parameters are trained by segmental k-means: decode with
// Viterbi, re-estimate each state's mean and variance, repeat.
package hmm

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrTooShort is returned when the series is too short to hold all three states.
var ErrTooShort = errors.New("series too short for a three-state model")

const (
	stateEpilimnion = iota
	stateThermocline
	stateHypolimnion
	numStates
)

// Model is the HMM engine.
type Model struct {
	Iterations int
	// seedFraction of the peak value marks the initial thermocline samples.
	seedFraction float64
}

// New creates a model that runs at most iterations training passes.
func New(iterations int) *Model {
	if iterations < 1 {
		iterations = 1
	}
	return &Model{Iterations: iterations, seedFraction: 0.5}
}

type emission struct {
	dist [numStates]distuv.Normal
}

// Fit trains the model on series and returns the sample indices of the
// thermocline core (peak inside the thermocline state), its first sample and
// its last sample.
func (m *Model) Fit(series []float64) (trm, lep, uhy int, err error) {
	n := len(series)
	if n < numStates {
		return 0, 0, 0, fmt.Errorf("%w (got %d samples)", ErrTooShort, n)
	}
	for i, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, 0, fmt.Errorf("series value %d is not finite", i)
		}
	}

	labels := m.seed(series)
	floor := varianceFloor(series)

	for iter := 0; iter < m.Iterations; iter++ {
		em := estimate(series, labels, floor)
		path := viterbi(series, em)
		if equal(path, labels) {
			break
		}
		labels = path
	}

	lep, uhy = -1, -1
	for i, s := range labels {
		if s == stateThermocline {
			if lep < 0 {
				lep = i
			}
			uhy = i
		}
	}
	if lep < 0 {
		return 0, 0, 0, errors.New("decoded path never enters the thermocline state")
	}

	trm = lep + floats.MaxIdx(series[lep:uhy+1])
	return trm, lep, uhy, nil
}

// seed labels samples at or above seedFraction of the peak as thermocline, with
// everything above the first such sample epilimnion and everything below the
// last one hypolimnion. The first and last samples are pinned to the outer
// states so every state is populated.
func (m *Model) seed(series []float64) []int {
	n := len(series)
	peak := floats.MaxIdx(series)
	cut := series[peak] * m.seedFraction

	first, last := peak, peak
	for i := peak; i >= 0 && series[i] >= cut; i-- {
		first = i
	}
	for i := peak; i < n && series[i] >= cut; i++ {
		last = i
	}
	if first == 0 {
		first = 1
	}
	if last == n-1 {
		last = n - 2
	}
	if last < first {
		last = first
	}

	labels := make([]int, n)
	for i := range labels {
		switch {
		case i < first:
			labels[i] = stateEpilimnion
		case i > last:
			labels[i] = stateHypolimnion
		default:
			labels[i] = stateThermocline
		}
	}
	return labels
}

func varianceFloor(series []float64) float64 {
	_, v := stat.MeanVariance(series, nil)
	if math.IsNaN(v) || v <= 0 {
		return 1e-6
	}
	return 1e-3*v + 1e-9
}

func estimate(series []float64, labels []int, floor float64) emission {
	var em emission
	for s := 0; s < numStates; s++ {
		var xs []float64
		for i, l := range labels {
			if l == s {
				xs = append(xs, series[i])
			}
		}

		mu, variance := 0.0, floor
		switch len(xs) {
		case 0:
		case 1:
			mu = xs[0]
		default:
			mu, variance = stat.MeanVariance(xs, nil)
		}
		if variance < floor || math.IsNaN(variance) {
			variance = floor
		}
		em.dist[s] = distuv.Normal{Mu: mu, Sigma: math.Sqrt(variance)}
	}
	return em
}

// viterbi decodes the most likely left-to-right path that starts in the
// epilimnion and ends in the hypolimnion.
func viterbi(series []float64, em emission) []int {
	n := len(series)
	expected := float64(n) / numStates
	stay := math.Log(1 - 1/expected)
	advance := math.Log(1 / expected)
	if expected <= 1 {
		stay, advance = math.Log(0.5), math.Log(0.5)
	}

	delta := make([][numStates]float64, n)
	psi := make([][numStates]int, n)

	for s := 0; s < numStates; s++ {
		delta[0][s] = math.Inf(-1)
	}
	delta[0][stateEpilimnion] = em.dist[stateEpilimnion].LogProb(series[0])

	for t := 1; t < n; t++ {
		for s := 0; s < numStates; s++ {
			best, from := delta[t-1][s]+stay, s
			if s == stateHypolimnion {
				best = delta[t-1][s]
			}
			if s > 0 {
				if c := delta[t-1][s-1] + advance; c > best {
					best, from = c, s-1
				}
			}
			delta[t][s] = best + em.dist[s].LogProb(series[t])
			psi[t][s] = from
		}
	}

	path := make([]int, n)
	path[n-1] = stateHypolimnion
	for t := n - 1; t > 0; t-- {
		path[t-1] = psi[t][path[t]]
	}
	return path
}

func equal(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
