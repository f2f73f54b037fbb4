package thermocline

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/chrissnell/thermocline/internal/metrics"
	"github.com/chrissnell/thermocline/internal/profile"
)

type stubStrategy struct {
	name   Method
	rec    FeatureRecord
	err    error
	panics bool
}

func (s stubStrategy) Name() Method { return s.name }

func (s stubStrategy) Detect(profile.Profile) (FeatureRecord, error) {
	if s.panics {
		panic("index out of range")
	}
	return s.rec, s.err
}

func smoothConfig() Config {
	cfg := testConfig()
	cfg.Segment = SegmentConfig{
		MaxError:        0.05,
		StableGradient:  0.1,
		StableGradient2: 0.3,
		MinTRMGradient:  0.5,
	}
	return cfg
}

func TestEnsembleRunsAllStrategies(t *testing.T) {
	e := NewEnsemble(smoothConfig(), zaptest.NewLogger(t).Sugar(), nil)

	report := e.Detect(logistic(t, 61, 30))

	require.Len(t, report.Results, 3)
	for i, m := range AllMethods {
		assert.Equal(t, m, report.Results[i].Strategy)
		assert.NoError(t, report.Results[i].Err)
	}
	assert.Empty(t, report.Failed())

	f := report.Features
	assert.InDelta(t, 30, value(t, f.TRMSegment), 3)
	assert.Equal(t, 30.0, value(t, f.TRMHMM))
	assert.Equal(t, 30.0, value(t, f.TRMThreshold))
	assert.Less(t, value(t, f.LEPHMM), 30.0)
	assert.Greater(t, value(t, f.UHYHMM), 30.0)
	assert.Less(t, value(t, f.LEPThreshold), 30.0)
	assert.Greater(t, value(t, f.UHYThreshold), 30.0)
	assert.Nil(t, report.Segments)
}

func TestEnsembleKeepsModel(t *testing.T) {
	cfg := testConfig()
	cfg.SaveModel = true
	e := NewEnsemble(cfg, zaptest.NewLogger(t).Sugar(), nil)

	report := e.Detect(scenarioA(t))
	assert.Len(t, report.Segments, 3)
}

func TestEnsembleIsolatesSegmentationFailure(t *testing.T) {
	logger := zaptest.NewLogger(t).Sugar()
	cfg := smoothConfig()
	p := logistic(t, 61, 30)

	baseline := NewEnsembleWithStrategies(logger, nil,
		NewHMMDetector(cfg), NewThresholdDetector(cfg)).Detect(p)

	failures := []Strategy{
		stubStrategy{name: MethodSegmentation, err: errors.New("fit failed")},
		stubStrategy{name: MethodSegmentation, panics: true},
	}

	for _, failing := range failures {
		report := NewEnsembleWithStrategies(logger, nil,
			failing, NewHMMDetector(cfg), NewThresholdDetector(cfg)).Detect(p)

		require.Len(t, report.Results, 3)
		require.Len(t, report.Failed(), 1)
		assert.Equal(t, MethodSegmentation, report.Failed()[0].Strategy)
		assert.Equal(t, baseline.Features, report.Features)
		assert.Nil(t, report.Features.TRMSegment)
		assert.Nil(t, report.Features.TRMGradientSegment)
	}
}

func TestEnsembleFlatProfile(t *testing.T) {
	e := NewEnsemble(testConfig(), zaptest.NewLogger(t).Sugar(), nil)

	report := e.Detect(flatProfile(t, 21))

	require.Len(t, report.Results, 3)
	assert.True(t, report.Results[0].OK())
	assert.Nil(t, report.Features.TRMSegment)
	assert.InDelta(t, 0, value(t, report.Features.TRMGradientSegment), 1e-9)

	threshold := report.Results[2]
	assert.Equal(t, MethodThreshold, threshold.Strategy)
	assert.Error(t, threshold.Err)
	assert.Nil(t, report.Features.TRMThreshold)
}

func TestEnsembleMergesOnlyOwnNamespace(t *testing.T) {
	rogue := stubStrategy{
		name: MethodHMM,
		rec:  FeatureRecord{TRMHMM: ptr(12), TRMSegment: ptr(99), DoubleTRM: ptr(4)},
	}
	report := NewEnsembleWithStrategies(zaptest.NewLogger(t).Sugar(), nil, rogue).Detect(scenarioA(t))

	assert.Equal(t, 12.0, value(t, report.Features.TRMHMM))
	assert.Nil(t, report.Features.TRMSegment)
	assert.Nil(t, report.Features.DoubleTRM)
}

func TestEnsembleMethodSelection(t *testing.T) {
	cfg := testConfig()
	cfg.Methods = []Method{MethodThreshold}

	report := NewEnsemble(cfg, zaptest.NewLogger(t).Sugar(), nil).Detect(scenarioA(t))

	require.Len(t, report.Results, 1)
	assert.Equal(t, MethodThreshold, report.Results[0].Strategy)
	assert.Nil(t, report.Features.TRMSegment)
	assert.NotNil(t, report.Features.TRMThreshold)
}

func TestEnsembleRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := metrics.New(reg)
	require.NoError(t, err)

	NewEnsembleWithStrategies(zaptest.NewLogger(t).Sugar(), rec,
		stubStrategy{name: MethodSegmentation, err: errors.New("nope")},
		stubStrategy{name: MethodThreshold, rec: FeatureRecord{TRMThreshold: ptr(3)}},
	).Detect(scenarioA(t))

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "thermocline_strategy_runs_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			counts[labels["strategy"]+"/"+labels["outcome"]] = m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, map[string]float64{
		"segmentation/failure": 1,
		"threshold/success":    1,
	}, counts)
}

func TestFeatureRecordMap(t *testing.T) {
	r := FeatureRecord{TRMSegment: ptr(5), DoubleTRM: ptr(1)}
	m := r.Map()

	assert.Len(t, m, len(Keys()))
	assert.Equal(t, 5.0, *m["TRM_segment"])
	assert.Nil(t, m["UHY_threshold"])

	v, ok := r.Get("doubleTRM")
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)
	_, ok = r.Get("LEP_HMM")
	assert.False(t, ok)
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("HMM")
	require.NoError(t, err)
	assert.Equal(t, MethodHMM, m)

	_, err = ParseMethod("kmeans")
	require.Error(t, err)
}
