// Package thermocline locates the thermocline (TRM) and its upper (LEP) and
// lower (UHY) boundaries in a temperature cast. Three independent strategies
// are available (piecewise-linear segmentation, a hidden Markov model and a
// power threshold) and the Ensemble runs them side by side.
package thermocline

import (
	"errors"
	"fmt"

	"github.com/chrissnell/thermocline/internal/profile"
	"github.com/chrissnell/thermocline/internal/segment"
)

// Method identifies a detection strategy
type Method string

const (
	// MethodSegmentation fits a piecewise-linear model and applies boundary heuristics
	MethodSegmentation Method = "segmentation"

	// MethodHMM classifies samples into epilimnion/thermocline/hypolimnion states
	MethodHMM Method = "HMM"

	// MethodThreshold finds the edges of the gradient-power peak
	MethodThreshold Method = "threshold"
)

// AllMethods lists the strategies in the order the ensemble runs them.
var AllMethods = []Method{MethodSegmentation, MethodHMM, MethodThreshold}

// ParseMethod converts a configured method name.
func ParseMethod(s string) (Method, error) {
	for _, m := range AllMethods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown detection method %q", s)
}

// ErrTooFewSegments is returned when a diagnostic needs a second-to-last segment
// but the fitted profile has only one.
var ErrTooFewSegments = errors.New("profile has fewer than two segments")

// Strategy is one detection algorithm. Detect returns only the features the
// strategy owns; an error means the strategy produced nothing.
type Strategy interface {
	Name() Method
	Detect(p profile.Profile) (FeatureRecord, error)
}

// Fitting engines for the segmentation strategy
const (
	EngineBottomUp = "bottom-up"
	EnginePELT     = "pelt"
)

// SegmentConfig holds the segmentation thresholds.
type SegmentConfig struct {
	// Engine selects the fitting engine. Empty means bottom-up.
	Engine string
	// MaxError is passed through to the bottom-up engine.
	MaxError        float64
	StableGradient  float64
	StableGradient2 float64
	MinTRMGradient  float64

	// PELT engine settings
	Penalty float64
	MinSize int
	Jump    int
}

// Fitter returns the fitting engine selected by the configuration.
func (c SegmentConfig) Fitter() segment.Fitter {
	if c.Engine == EnginePELT {
		return segment.NewPELT(c.Penalty, c.MinSize, c.Jump)
	}
	return segment.NewBottomUp(c.MaxError)
}

// HMMConfig configures the hidden Markov model engine.
type HMMConfig struct {
	Iterations int
}

// ThresholdConfig configures the threshold engine. A zero Threshold selects
// Fraction of the peak power.
type ThresholdConfig struct {
	Threshold float64
	Fraction  float64
}

// Config is everything the detectors need.
type Config struct {
	// Interval is the uniform depth spacing of the profile.
	Interval  float64
	Segment   SegmentConfig
	HMM       HMMConfig
	Threshold ThresholdConfig
	// Methods selects which strategies run. Empty means all.
	Methods []Method
	// SaveModel retains the fitted segment list in the ensemble report.
	SaveModel bool
}

func (c Config) enabled(m Method) bool {
	if len(c.Methods) == 0 {
		return true
	}
	for _, e := range c.Methods {
		if e == m {
			return true
		}
	}
	return false
}
