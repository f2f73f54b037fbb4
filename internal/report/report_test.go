package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/chrissnell/thermocline/internal/profile"
	"github.com/chrissnell/thermocline/internal/segment"
	"github.com/chrissnell/thermocline/internal/thermocline"
)

func f(v float64) *float64 { return &v }

func sampleReport() thermocline.Report {
	return thermocline.Report{
		Profile: "cast-001",
		Features: thermocline.FeatureRecord{
			TRMSegment:         f(5),
			LEPSegment:         f(4),
			UHYSegment:         f(6),
			TRMGradientSegment: f(5),
			TRMHMM:             f(5.5),
		},
		Results: []thermocline.StrategyResult{
			{Strategy: thermocline.MethodSegmentation, Elapsed: 2 * time.Millisecond},
			{Strategy: thermocline.MethodHMM, Elapsed: time.Millisecond},
			{Strategy: thermocline.MethodThreshold, Err: errors.New("no power above threshold")},
		},
		Segments: segment.List{
			{StartValue: 20, EndValue: 20, Indices: []int{0, 1, 2, 3, 4}},
			{StartValue: 20, EndValue: 10, Indices: []int{4, 5, 6}},
			{StartValue: 10, EndValue: 10, Indices: []int{6, 7, 8, 9, 10}},
		},
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"table", "json", "msgpack"} {
		got, err := ParseFormat(s)
		require.NoError(t, err)
		assert.Equal(t, Format(s), got)
	}
	_, err := ParseFormat("xml")
	require.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatJSON).WriteReport(&buf, sampleReport()))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	features := doc["features"].(map[string]any)
	assert.Equal(t, 5.0, features["TRM_segment"])
	assert.Equal(t, 5.5, features["TRM_HMM"])
	assert.Nil(t, features["TRM_threshold"])
	assert.Contains(t, features, "lastButTwoSegmentGradient")

	strategies := doc["strategies"].([]any)
	require.Len(t, strategies, 3)
	threshold := strategies[2].(map[string]any)
	assert.Equal(t, "threshold", threshold["strategy"])
	assert.Equal(t, false, threshold["ok"])
	assert.Equal(t, "no power above threshold", threshold["error"])

	assert.Len(t, doc["segments"], 3)
}

func TestWriteMsgPack(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatMsgPack).WriteReport(&buf, sampleReport()))

	var doc Document
	dec := msgpack.NewDecoder(&buf)
	dec.SetCustomStructTag("json")
	require.NoError(t, dec.Decode(&doc))

	assert.Equal(t, "cast-001", doc.Profile)
	assert.Equal(t, sampleReport().Features, doc.Features)
	assert.Equal(t, SegmentDoc{First: 4, Last: 6, StartValue: 20, EndValue: 10}, doc.Segments[1])
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).WriteReport(&buf, sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "cast-001")
	for _, k := range thermocline.Keys() {
		assert.Contains(t, out, k)
	}
	assert.Contains(t, out, "no power above threshold")
	assert.Contains(t, out, "1 failed")
	assert.Contains(t, out, "20.000")
}

func TestDocumentOmitsEmptyModel(t *testing.T) {
	r := sampleReport()
	r.Segments = nil
	assert.Nil(t, NewDocument(r).Segments)
}

func TestPlot(t *testing.T) {
	depth := make([]float64, 11)
	temp := make([]float64, 11)
	for i := range depth {
		depth[i] = float64(i)
		switch {
		case i <= 4:
			temp[i] = 20
		case i >= 6:
			temp[i] = 10
		default:
			temp[i] = 15
		}
	}
	p, err := profile.New("cast-001", depth, temp)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Plot(&buf, p, sampleReport()))
	html := buf.String()

	assert.True(t, strings.HasPrefix(strings.TrimSpace(html), "<!DOCTYPE html>") || strings.Contains(html, "<html"))
	assert.Contains(t, html, "segment model")
	assert.Contains(t, html, `"xAxis":"5"`)
	assert.Contains(t, html, `"xAxis":"5.5"`)
	assert.NotContains(t, html, `"name":"threshold"`)
}

func TestPlotRejectsForeignModel(t *testing.T) {
	p, err := profile.New("short", []float64{0, 1}, []float64{20, 19})
	require.NoError(t, err)

	r := sampleReport()
	require.Error(t, Plot(&bytes.Buffer{}, p, r))
}
