package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/chrissnell/thermocline/internal/thermocline"
)

// WriteTable renders the features and the per-strategy outcome of r.
func WriteTable(w io.Writer, r thermocline.Report) error {
	features := newTable(w)
	features.SetTitle(r.Profile)
	features.AppendHeader(table.Row{"feature", "value"})
	m := r.Features.Map()
	for _, k := range thermocline.Keys() {
		features.AppendRow(table.Row{k, formatValue(m[k])})
	}
	features.Render()

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	strategies := newTable(w)
	strategies.AppendHeader(table.Row{"strategy", "status", "elapsed", "error"})
	failed := 0
	for _, res := range r.Results {
		status, msg := "ok", ""
		if !res.OK() {
			status, msg = "failed", res.Err.Error()
			failed++
		}
		strategies.AppendRow(table.Row{res.Strategy, status, res.Elapsed.Round(time.Microsecond), msg})
	}
	strategies.AppendFooter(table.Row{fmt.Sprintf("%d run", len(r.Results)), fmt.Sprintf("%d failed", failed)})
	strategies.Render()

	if len(r.Segments) > 0 {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		segs := newTable(w)
		segs.AppendHeader(table.Row{"#", "first", "last", "start", "end"})
		for i, s := range r.Segments {
			segs.AppendRow(table.Row{i, s.First(), s.Last(), fmt.Sprintf("%.3f", s.StartValue), fmt.Sprintf("%.3f", s.EndValue)})
		}
		segs.Render()
	}
	return nil
}

func newTable(w io.Writer) table.Writer {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	return tbl
}

func formatValue(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
