package thermocline

import (
	"fmt"

	"github.com/chrissnell/thermocline/internal/hmm"
	"github.com/chrissnell/thermocline/internal/profile"
	"github.com/chrissnell/thermocline/internal/signal"
	"github.com/chrissnell/thermocline/internal/threshold"
)

// IndexEngine is a statistical engine that returns the TRM, LEP and UHY
// positions within the series it was given.
type IndexEngine interface {
	Fit(series []float64) (trm, lep, uhy int, err error)
}

// HMMDetector runs the hidden Markov model engine over the gradient series.
type HMMDetector struct {
	interval float64
	engine   IndexEngine
}

// NewHMMDetector creates the HMM strategy.
func NewHMMDetector(cfg Config) *HMMDetector {
	return &HMMDetector{interval: cfg.Interval, engine: hmm.New(cfg.HMM.Iterations)}
}

// NewHMMDetectorWithEngine creates the HMM strategy with a custom engine.
func NewHMMDetectorWithEngine(cfg Config, engine IndexEngine) *HMMDetector {
	return &HMMDetector{interval: cfg.Interval, engine: engine}
}

// Name implements Strategy
func (d *HMMDetector) Name() Method {
	return MethodHMM
}

// Detect implements Strategy
func (d *HMMDetector) Detect(p profile.Profile) (FeatureRecord, error) {
	f, err := signal.Extract(p, d.interval)
	if err != nil {
		return FeatureRecord{}, err
	}
	b, err := runEngine(d.engine, f.Gradient, f.Depth)
	if err != nil {
		return FeatureRecord{}, fmt.Errorf("hmm: %w", err)
	}
	return FeatureRecord{TRMHMM: b.TRM, LEPHMM: b.LEP, UHYHMM: b.UHY}, nil
}

// ThresholdDetector runs the threshold engine over the gradient power series.
type ThresholdDetector struct {
	interval float64
	engine   IndexEngine
}

// NewThresholdDetector creates the threshold strategy.
func NewThresholdDetector(cfg Config) *ThresholdDetector {
	return &ThresholdDetector{
		interval: cfg.Interval,
		engine:   threshold.New(cfg.Threshold.Threshold, cfg.Threshold.Fraction),
	}
}

// NewThresholdDetectorWithEngine creates the threshold strategy with a custom engine.
func NewThresholdDetectorWithEngine(cfg Config, engine IndexEngine) *ThresholdDetector {
	return &ThresholdDetector{interval: cfg.Interval, engine: engine}
}

// Name implements Strategy
func (d *ThresholdDetector) Name() Method {
	return MethodThreshold
}

// Detect implements Strategy
func (d *ThresholdDetector) Detect(p profile.Profile) (FeatureRecord, error) {
	f, err := signal.Extract(p, d.interval)
	if err != nil {
		return FeatureRecord{}, err
	}
	b, err := runEngine(d.engine, f.Power, f.Depth)
	if err != nil {
		return FeatureRecord{}, fmt.Errorf("threshold: %w", err)
	}
	return FeatureRecord{TRMThreshold: b.TRM, LEPThreshold: b.LEP, UHYThreshold: b.UHY}, nil
}

// runEngine fits the engine and maps its indices back to depths.
func runEngine(engine IndexEngine, series, depth []float64) (Boundaries, error) {
	trm, lep, uhy, err := engine.Fit(series)
	if err != nil {
		return Boundaries{}, err
	}
	var b Boundaries
	for _, m := range []struct {
		name string
		idx  int
		dst  **float64
	}{
		{"TRM", trm, &b.TRM},
		{"LEP", lep, &b.LEP},
		{"UHY", uhy, &b.UHY},
	} {
		if m.idx < 0 || m.idx >= len(depth) {
			return Boundaries{}, fmt.Errorf("engine returned %s index %d outside series of length %d", m.name, m.idx, len(depth))
		}
		*m.dst = ptr(depth[m.idx])
	}
	return b, nil
}
