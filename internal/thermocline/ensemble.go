package thermocline

import (
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/chrissnell/thermocline/internal/metrics"
	"github.com/chrissnell/thermocline/internal/profile"
	"github.com/chrissnell/thermocline/internal/segment"
)

// StrategyResult is the outcome of one strategy. Err is nil on success.
type StrategyResult struct {
	Strategy Method
	Features FeatureRecord
	Err      error
	Elapsed  time.Duration
}

// OK reports whether the strategy succeeded.
func (r StrategyResult) OK() bool {
	return r.Err == nil
}

// Report is the output of one ensemble run.
type Report struct {
	Profile  string
	Features FeatureRecord
	Results  []StrategyResult
	// Segments is the fitted model, present when SaveModel is set and segmentation succeeded.
	Segments segment.List
}

// Failed returns the strategies that produced no result.
func (r Report) Failed() []StrategyResult {
	var failed []StrategyResult
	for _, res := range r.Results {
		if !res.OK() {
			failed = append(failed, res)
		}
	}
	return failed
}

// Ensemble runs every configured strategy on a profile and merges what they find.
// A failing strategy is logged and contributes nothing; it never stops the others.
type Ensemble struct {
	logger  *zap.SugaredLogger
	metrics *metrics.Recorder

	// newStrategies builds fresh strategies for each run so that an Ensemble
	// can be shared between goroutines.
	newStrategies func() []Strategy
}

// NewEnsemble creates an ensemble running the strategies enabled in cfg in
// the fixed order segmentation, HMM, threshold. rec may be nil.
func NewEnsemble(cfg Config, logger *zap.SugaredLogger, rec *metrics.Recorder) *Ensemble {
	e := &Ensemble{logger: logger, metrics: rec}
	e.newStrategies = func() []Strategy {
		var strategies []Strategy
		for _, m := range AllMethods {
			if !cfg.enabled(m) {
				continue
			}
			switch m {
			case MethodSegmentation:
				strategies = append(strategies, NewSegmentationDetector(cfg, logger))
			case MethodHMM:
				strategies = append(strategies, NewHMMDetector(cfg))
			case MethodThreshold:
				strategies = append(strategies, NewThresholdDetector(cfg))
			}
		}
		return strategies
	}
	return e
}

// NewEnsembleWithStrategies creates an ensemble over an explicit strategy list.
// The strategies are reused for every Detect call.
func NewEnsembleWithStrategies(logger *zap.SugaredLogger, rec *metrics.Recorder, strategies ...Strategy) *Ensemble {
	return &Ensemble{
		logger:        logger,
		metrics:       rec,
		newStrategies: func() []Strategy { return strategies },
	}
}

// Detect runs all strategies on p and returns the merged report.
func (e *Ensemble) Detect(p profile.Profile) Report {
	start := time.Now()
	report := Report{Profile: p.Name}

	for _, s := range e.newStrategies() {
		res := e.run(s, p)
		report.Results = append(report.Results, res)
		e.metrics.ObserveStrategy(string(res.Strategy), res.Err)

		if !res.OK() {
			e.logger.Errorw("detection strategy failed",
				"profile", p.Name,
				"strategy", res.Strategy,
				"error", res.Err,
			)
			continue
		}

		report.Features.merge(res.Strategy, res.Features)
		if sd, ok := s.(*SegmentationDetector); ok && sd.saveModel {
			report.Segments = sd.Model()
		}
	}

	e.metrics.ObserveProfile(report.Features.TRMSegment != nil, time.Since(start))
	return report
}

// run executes one strategy, converting a panic into a failed result.
func (e *Ensemble) run(s Strategy, p profile.Profile) (res StrategyResult) {
	start := time.Now()
	res.Strategy = s.Name()

	defer func() {
		if r := recover(); r != nil {
			e.logger.Debugf("%s strategy panic on %s: %s", res.Strategy, p.Name, debug.Stack())
			res = StrategyResult{
				Strategy: s.Name(),
				Err:      fmt.Errorf("panic: %v", r),
				Elapsed:  time.Since(start),
			}
		}
	}()

	features, err := s.Detect(p)
	res.Features = features
	res.Err = err
	res.Elapsed = time.Since(start)
	if err != nil {
		res.Features = FeatureRecord{}
	}
	return res
}
