package thermocline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/chrissnell/thermocline/internal/profile"
	"github.com/chrissnell/thermocline/internal/segment"
)

// SegmentationDetector fits a piecewise-linear model to the temperature series
// and locates the thermocline from the segment gradients.
type SegmentationDetector struct {
	fitter    segment.Fitter
	analyzer  GradientAnalyzer
	anomalies AnomalyDetector
	locator   BoundaryLocator
	logger    *zap.SugaredLogger
	saveModel bool
	model     segment.List
}

// NewSegmentationDetector creates a segmentation strategy using the configured fitting engine.
func NewSegmentationDetector(cfg Config, logger *zap.SugaredLogger) *SegmentationDetector {
	return NewSegmentationDetectorWithFitter(cfg, cfg.Segment.Fitter(), logger)
}

// NewSegmentationDetectorWithFitter creates a segmentation strategy with a custom fitting engine.
func NewSegmentationDetectorWithFitter(cfg Config, fitter segment.Fitter, logger *zap.SugaredLogger) *SegmentationDetector {
	return &SegmentationDetector{
		fitter:    fitter,
		analyzer:  NewGradientAnalyzer(cfg.Interval),
		anomalies: NewAnomalyDetector(cfg.Segment),
		locator:   NewBoundaryLocator(cfg.Segment),
		logger:    logger,
		saveModel: cfg.SaveModel,
	}
}

// Name implements Strategy
func (d *SegmentationDetector) Name() Method {
	return MethodSegmentation
}

// Model returns the segment list evaluated by the last Detect call, if the
// detector was configured to save it.
func (d *SegmentationDetector) Model() segment.List {
	return d.model
}

// Detect implements Strategy
func (d *SegmentationDetector) Detect(p profile.Profile) (FeatureRecord, error) {
	segs, err := d.fitter.Fit(p.Temperatures())
	if err != nil {
		return FeatureRecord{}, fmt.Errorf("fit segments: %w", err)
	}
	if err := segs.Validate(p.Len()); err != nil {
		return FeatureRecord{}, fmt.Errorf("fitting engine returned an invalid segment list: %w", err)
	}

	gradients := d.analyzer.Gradients(segs)
	loc, err := d.locator.Locate(p, segs, gradients)
	if err != nil {
		return FeatureRecord{}, err
	}
	if loc.Dropped > 0 {
		d.logger.Debugf("%s: dropped %d leading noise segment(s) spanning %.2f-%.2f",
			p.Name, loc.Dropped, p.DepthAt(segs[0].First()), p.DepthAt(segs[loc.Dropped-1].Last()))
	}
	d.logger.Debugf("%s: segment gradients %v", p.Name, loc.Gradients)

	if loc.TRM == nil {
		d.logger.Debugf("%s: max gradient %.4f does not exceed %.4f, no thermocline",
			p.Name, loc.TRMGradient, d.locator.cfg.MinTRMGradient)
	}
	if loc.TRM != nil && loc.UHY == nil && loc.TRMIndex != loc.NumSegments()-1 {
		d.logger.Debugf("%s: no UHY, last segment gradient %.4f", p.Name, loc.Gradients[loc.NumSegments()-1])
	}

	doubleTRM := d.anomalies.DetectDoubleTRM(loc.Gradients)
	if len(doubleTRM) > 0 {
		d.logger.Infof("%s: detected double thermocline at segments %v", p.Name, doubleTRM)
	}
	positive := d.anomalies.DetectPositiveGradient(loc.Gradients)

	rec := FeatureRecord{
		TRMSegment:           loc.TRM,
		LEPSegment:           loc.LEP,
		UHYSegment:           loc.UHY,
		TRMGradientSegment:   ptr(loc.TRMGradient),
		TRMNumSegment:        ptr(float64(loc.NumSegments())),
		TRMIdx:               ptr(float64(loc.TRMIndex)),
		DoubleTRM:            ptr(float64(len(doubleTRM))),
		PositiveGradient:     ptr(float64(len(positive))),
		FirstSegmentGradient: ptr(loc.Gradients[0]),
		LastSegmentGradient:  ptr(loc.Gradients[len(loc.Gradients)-1]),
	}

	if _, _, secondLast, err := loc.KeyGradients(); err == nil {
		rec.LastButTwoSegmentGradient = ptr(secondLast)
	} else {
		d.logger.Debugf("%s: %v", p.Name, err)
	}

	if d.saveModel {
		d.model = loc.Segments
	}

	return rec, nil
}
