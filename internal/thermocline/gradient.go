package thermocline

import "github.com/chrissnell/thermocline/internal/segment"

// GradientAnalyzer converts fitted segments into thermal gradients. Positive
// gradients mean temperature decreases with depth.
type GradientAnalyzer struct {
	interval float64
}

// NewGradientAnalyzer creates an analyzer for a profile with the given depth interval.
func NewGradientAnalyzer(interval float64) GradientAnalyzer {
	return GradientAnalyzer{interval: interval}
}

// Gradient returns the temperature drop per depth unit along seg. The depth
// span is the segment's sample count times the profile's constant interval.
func (g GradientAnalyzer) Gradient(seg segment.Segment) float64 {
	return (seg.StartValue - seg.EndValue) / (g.interval * float64(seg.Steps()))
}

// Gradients returns the gradient of every segment in order.
func (g GradientAnalyzer) Gradients(segs segment.List) []float64 {
	out := make([]float64, len(segs))
	for i, s := range segs {
		out[i] = g.Gradient(s)
	}
	return out
}
