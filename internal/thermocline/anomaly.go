package thermocline

import "math"

// AnomalyDetector flags segment patterns that don't fit a single, stable thermocline.
type AnomalyDetector struct {
	stableGradient float64
	minTRMGradient float64
}

// NewAnomalyDetector creates a detector from the segmentation thresholds.
func NewAnomalyDetector(cfg SegmentConfig) AnomalyDetector {
	return AnomalyDetector{
		stableGradient: cfg.StableGradient,
		minTRMGradient: cfg.MinTRMGradient,
	}
}

// DetectDoubleTRM returns the interior segments that are stable but sit between
// a thermocline-strength segment above and a non-stable segment below.
func (a AnomalyDetector) DetectDoubleTRM(gradients []float64) []int {
	flagged := []int{}
	for i := 1; i < len(gradients)-1; i++ {
		if math.Abs(gradients[i]) < a.stableGradient &&
			gradients[i-1] > a.minTRMGradient &&
			gradients[i+1] > a.stableGradient {
			flagged = append(flagged, i)
		}
	}
	return flagged
}

// DetectPositiveGradient returns the segments where temperature increases
// with depth by more than the stable tolerance.
func (a AnomalyDetector) DetectPositiveGradient(gradients []float64) []int {
	flagged := []int{}
	for i, g := range gradients {
		if g < -a.stableGradient {
			flagged = append(flagged, i)
		}
	}
	return flagged
}
