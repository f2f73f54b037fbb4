package thermocline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/chrissnell/thermocline/internal/segment"
)

func TestSegmentationScenarioA(t *testing.T) {
	d := NewSegmentationDetector(testConfig(), zaptest.NewLogger(t).Sugar())

	rec, err := d.Detect(scenarioA(t))
	require.NoError(t, err)

	assert.Equal(t, 5.0, value(t, rec.TRMSegment))
	assert.Equal(t, 4.0, value(t, rec.LEPSegment))
	assert.Equal(t, 6.0, value(t, rec.UHYSegment))
	assert.InDelta(t, 5.0, value(t, rec.TRMGradientSegment), 1e-9)
	assert.Equal(t, 3.0, value(t, rec.TRMNumSegment))
	assert.Equal(t, 1.0, value(t, rec.TRMIdx))
	assert.Equal(t, 0.0, value(t, rec.DoubleTRM))
	assert.Equal(t, 0.0, value(t, rec.PositiveGradient))
	assert.InDelta(t, 0.0, value(t, rec.FirstSegmentGradient), 1e-9)
	assert.InDelta(t, 0.0, value(t, rec.LastSegmentGradient), 1e-9)
	assert.InDelta(t, 5.0, value(t, rec.LastButTwoSegmentGradient), 1e-9)

	assert.Nil(t, rec.TRMHMM)
	assert.Nil(t, d.Model(), "model is only kept when SaveModel is set")
}

func TestSegmentationScenarioB(t *testing.T) {
	d := NewSegmentationDetector(testConfig(), zaptest.NewLogger(t).Sugar())

	rec, err := d.Detect(flatProfile(t, 11))
	require.NoError(t, err)

	assert.Nil(t, rec.TRMSegment)
	assert.Nil(t, rec.LEPSegment)
	assert.Nil(t, rec.UHYSegment)
	assert.InDelta(t, 0.0, value(t, rec.TRMGradientSegment), 1e-9)
	assert.Equal(t, 1.0, value(t, rec.TRMNumSegment))
	assert.Nil(t, rec.LastButTwoSegmentGradient, "a single segment has no second-to-last gradient")
}

func TestSegmentationScenarioC(t *testing.T) {
	d := NewSegmentationDetector(testConfig(), zaptest.NewLogger(t).Sugar())

	rec, err := d.Detect(scenarioC(t))
	require.NoError(t, err)

	assert.Equal(t, 1.0, value(t, rec.DoubleTRM))
	assert.Equal(t, 5.0, value(t, rec.TRMNumSegment))
	assert.Equal(t, 3.0, value(t, rec.TRMIdx))
	assert.Equal(t, 11.0, value(t, rec.TRMSegment))
	assert.Equal(t, 4.0, value(t, rec.LEPSegment))
	assert.Equal(t, 12.0, value(t, rec.UHYSegment))
}

func TestSegmentationPELTEngine(t *testing.T) {
	cfg := testConfig()
	cfg.Segment.Engine = EnginePELT
	cfg.Segment.Penalty = 1
	cfg.Segment.MinSize = 1
	cfg.Segment.Jump = 1
	d := NewSegmentationDetector(cfg, zaptest.NewLogger(t).Sugar())

	rec, err := d.Detect(scenarioA(t))
	require.NoError(t, err)

	assert.Equal(t, 5.0, value(t, rec.TRMSegment))
	assert.Equal(t, 4.0, value(t, rec.LEPSegment))
	assert.Equal(t, 6.0, value(t, rec.UHYSegment))
	assert.Equal(t, 3.0, value(t, rec.TRMNumSegment))
}

func TestSegmentationSavesModel(t *testing.T) {
	cfg := testConfig()
	cfg.SaveModel = true
	d := NewSegmentationDetector(cfg, zaptest.NewLogger(t).Sugar())

	_, err := d.Detect(scenarioA(t))
	require.NoError(t, err)

	model := d.Model()
	require.Len(t, model, 3)
	assert.Equal(t, []int{4, 5, 6}, model[1].Indices)
}

func TestSegmentationDropsNoisySurface(t *testing.T) {
	p := piecewise(t, "spiky-surface",
		[2]float64{0, 26}, [2]float64{1, 20}, [2]float64{6, 20},
		[2]float64{9, 11}, [2]float64{15, 11})
	d := NewSegmentationDetector(testConfig(), zaptest.NewLogger(t).Sugar())

	rec, err := d.Detect(p)
	require.NoError(t, err)

	assert.Equal(t, 3.0, value(t, rec.TRMNumSegment))
	assert.InDelta(t, 3.0, value(t, rec.TRMGradientSegment), 1e-9)
	assert.Equal(t, 8.0, value(t, rec.TRMSegment))
	assert.Equal(t, 6.0, value(t, rec.LEPSegment))
	assert.Equal(t, 9.0, value(t, rec.UHYSegment))
}

type fitterFunc func([]float64) (segment.List, error)

func (f fitterFunc) Fit(series []float64) (segment.List, error) {
	return f(series)
}

func TestSegmentationFitterErrors(t *testing.T) {
	logger := zaptest.NewLogger(t).Sugar()
	p := scenarioA(t)

	failing := fitterFunc(func([]float64) (segment.List, error) {
		return nil, errors.New("did not converge")
	})
	_, err := NewSegmentationDetectorWithFitter(testConfig(), failing, logger).Detect(p)
	require.ErrorContains(t, err, "did not converge")

	partial := fitterFunc(func([]float64) (segment.List, error) {
		return segment.List{seg(0, 4, 20, 20)}, nil
	})
	_, err = NewSegmentationDetectorWithFitter(testConfig(), partial, logger).Detect(p)
	require.ErrorContains(t, err, "invalid segment list")
}
