// Package profile holds the depth/temperature cast that every detector reads.
package profile

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrTooShort is returned when a cast holds fewer than two samples.
	ErrTooShort = errors.New("profile needs at least two samples")

	// ErrNonMonotonic is returned when depth decreases between samples.
	ErrNonMonotonic = errors.New("profile depth must be non-decreasing")

	// ErrNotFinite is returned when a depth or temperature is NaN or infinite.
	ErrNotFinite = errors.New("profile values must be finite")
)

// Sample is a single CTD reading
type Sample struct {
	Depth       float64
	Temperature float64
}

// Profile is an ordered downcast. Depth is non-decreasing and, after
// Resample, uniformly spaced.
type Profile struct {
	Name    string
	Samples []Sample
}

// New builds a Profile from parallel depth and temperature series.
func New(name string, depth, temperature []float64) (Profile, error) {
	if len(depth) != len(temperature) {
		return Profile{}, fmt.Errorf("depth has %d values but temperature has %d", len(depth), len(temperature))
	}

	samples := make([]Sample, len(depth))
	for i := range depth {
		samples[i] = Sample{Depth: depth[i], Temperature: temperature[i]}
	}

	p := Profile{Name: name, Samples: samples}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate checks the invariants every detector relies on.
func (p Profile) Validate() error {
	if len(p.Samples) < 2 {
		return fmt.Errorf("%s: %w (got %d)", p.Name, ErrTooShort, len(p.Samples))
	}
	for i, s := range p.Samples {
		if !finite(s.Depth) || !finite(s.Temperature) {
			return fmt.Errorf("%s: %w at sample %d (depth %v, temperature %v)",
				p.Name, ErrNotFinite, i, s.Depth, s.Temperature)
		}
		if i > 0 && s.Depth < p.Samples[i-1].Depth {
			return fmt.Errorf("%s: %w at sample %d (%.3f < %.3f)",
				p.Name, ErrNonMonotonic, i, s.Depth, p.Samples[i-1].Depth)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Len returns the number of samples.
func (p Profile) Len() int {
	return len(p.Samples)
}

// Depths returns a copy of the depth series.
func (p Profile) Depths() []float64 {
	out := make([]float64, len(p.Samples))
	for i, s := range p.Samples {
		out[i] = s.Depth
	}
	return out
}

// Temperatures returns a copy of the temperature series.
func (p Profile) Temperatures() []float64 {
	out := make([]float64, len(p.Samples))
	for i, s := range p.Samples {
		out[i] = s.Temperature
	}
	return out
}

// DepthAt returns the depth of sample i.
func (p Profile) DepthAt(i int) float64 {
	return p.Samples[i].Depth
}

// WithTemperatures returns a copy of p carrying a replacement temperature series,
// used after despiking.
func (p Profile) WithTemperatures(temps []float64) Profile {
	samples := make([]Sample, len(p.Samples))
	for i, s := range p.Samples {
		samples[i] = Sample{Depth: s.Depth, Temperature: temps[i]}
	}
	return Profile{Name: p.Name, Samples: samples}
}

// Resample linearly interpolates the cast onto a uniform depth grid starting at
// the shallowest sample. Detectors assume the grid spacing equals the configured
// interval.
func (p Profile) Resample(interval float64) (Profile, error) {
	if interval <= 0 {
		return Profile{}, fmt.Errorf("resample interval must be positive, got %v", interval)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}

	top := p.Samples[0].Depth
	bottom := p.Samples[len(p.Samples)-1].Depth
	n := int(math.Floor((bottom-top)/interval+1e-9)) + 1
	if n < 2 {
		return Profile{}, fmt.Errorf("%s: %w after resampling to %.3f", p.Name, ErrTooShort, interval)
	}

	out := make([]Sample, n)
	j := 0
	for i := 0; i < n; i++ {
		d := top + float64(i)*interval
		for j < len(p.Samples)-2 && p.Samples[j+1].Depth < d {
			j++
		}
		a, b := p.Samples[j], p.Samples[j+1]
		t := a.Temperature
		if b.Depth > a.Depth {
			frac := (d - a.Depth) / (b.Depth - a.Depth)
			t = a.Temperature + frac*(b.Temperature-a.Temperature)
		}
		out[i] = Sample{Depth: d, Temperature: t}
	}

	return Profile{Name: p.Name, Samples: out}, nil
}
