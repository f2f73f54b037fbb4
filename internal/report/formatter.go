// Package report renders detection results as tables, JSON, MessagePack and
// HTML profile charts.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/chrissnell/thermocline/internal/segment"
	"github.com/chrissnell/thermocline/internal/thermocline"
)

// Format is an output encoding
type Format string

const (
	FormatTable   Format = "table"
	FormatJSON    Format = "json"
	FormatMsgPack Format = "msgpack"
)

// ParseFormat converts a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatTable, FormatJSON, FormatMsgPack:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want table, json or msgpack)", s)
}

// Document is the encoded form of an ensemble report.
type Document struct {
	Profile    string                    `json:"profile"`
	Features   thermocline.FeatureRecord `json:"features"`
	Strategies []StrategyStatus          `json:"strategies"`
	Segments   []SegmentDoc              `json:"segments,omitempty"`
}

// StrategyStatus summarizes one strategy run
type StrategyStatus struct {
	Strategy  string  `json:"strategy"`
	OK        bool    `json:"ok"`
	Error     string  `json:"error,omitempty"`
	ElapsedMS float64 `json:"elapsed_ms"`
}

// SegmentDoc is one fitted segment
type SegmentDoc struct {
	First      int     `json:"first"`
	Last       int     `json:"last"`
	StartValue float64 `json:"start_value"`
	EndValue   float64 `json:"end_value"`
}

// NewDocument builds the encodable view of r.
func NewDocument(r thermocline.Report) Document {
	d := Document{Profile: r.Profile, Features: r.Features}
	for _, res := range r.Results {
		s := StrategyStatus{
			Strategy:  string(res.Strategy),
			OK:        res.OK(),
			ElapsedMS: float64(res.Elapsed) / float64(time.Millisecond),
		}
		if res.Err != nil {
			s.Error = res.Err.Error()
		}
		d.Strategies = append(d.Strategies, s)
	}
	d.Segments = segmentDocs(r.Segments)
	return d
}

func segmentDocs(segs segment.List) []SegmentDoc {
	if len(segs) == 0 {
		return nil
	}
	out := make([]SegmentDoc, len(segs))
	for i, s := range segs {
		out[i] = SegmentDoc{First: s.First(), Last: s.Last(), StartValue: s.StartValue, EndValue: s.EndValue}
	}
	return out
}

// Formatter handles encoding and writing reports
type Formatter struct {
	format Format
}

// NewFormatter creates a new report formatter
func NewFormatter(format Format) *Formatter {
	return &Formatter{format: format}
}

// WriteReport writes one report in the formatter's encoding.
func (f *Formatter) WriteReport(w io.Writer, r thermocline.Report) error {
	switch f.format {
	case FormatJSON:
		return f.writeJSON(w, NewDocument(r))
	case FormatMsgPack:
		return f.writeMsgPack(w, NewDocument(r))
	default:
		return WriteTable(w, r)
	}
}

func (f *Formatter) writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (f *Formatter) writeMsgPack(w io.Writer, data any) error {
	encoder := msgpack.NewEncoder(w)
	encoder.SetCustomStructTag("json") // Use json tags for MessagePack
	return encoder.Encode(data)
}
