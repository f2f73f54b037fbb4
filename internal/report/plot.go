package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/chrissnell/thermocline/internal/profile"
	"github.com/chrissnell/thermocline/internal/thermocline"
)

const lineWidth = 2

var boundaryColors = map[thermocline.Method]string{
	thermocline.MethodSegmentation: "#d62728",
	thermocline.MethodHMM:          "#2ca02c",
	thermocline.MethodThreshold:    "#9467bd",
}

// Plot renders the temperature profile of p as an HTML line chart, with the
// fitted segment model when r carries one and a marker line for every
// boundary a strategy found.
func Plot(w io.Writer, p profile.Profile, r thermocline.Report) error {
	labels := make([]string, p.Len())
	temps := make([]opts.LineData, p.Len())
	for i, s := range p.Samples {
		labels[i] = depthLabel(s.Depth)
		temps[i] = opts.LineData{Value: s.Temperature}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: p.Name,
			Width:     "100%",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{Title: p.Name, Subtitle: "temperature by depth"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "depth"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "temperature", Scale: opts.Bool(true)}),
	)
	line.SetXAxis(labels)
	line.AddSeries("temperature", temps,
		charts.WithLineStyleOpts(opts.LineStyle{Width: lineWidth}),
	)

	if len(r.Segments) > 0 {
		model := make([]opts.LineData, p.Len())
		for i := range model {
			model[i] = opts.LineData{Value: "-"}
		}
		for _, s := range r.Segments {
			steps := float64(s.Steps())
			for j, idx := range s.Indices {
				if idx < 0 || idx >= len(model) {
					return fmt.Errorf("segment index %d outside profile of length %d", idx, p.Len())
				}
				v := s.StartValue
				if steps > 0 {
					v += (s.EndValue - s.StartValue) * float64(j) / steps
				}
				model[idx] = opts.LineData{Value: v}
			}
		}
		line.AddSeries("segment model", model,
			charts.WithLineStyleOpts(opts.LineStyle{Width: 1, Type: "dashed"}),
		)
	}

	for _, m := range thermocline.AllMethods {
		items := boundaryMarks(m, r.Features)
		if len(items) == 0 {
			continue
		}
		// an empty series carries the marker lines so each strategy gets its own legend entry
		line.AddSeries(string(m), []opts.LineData{},
			charts.WithItemStyleOpts(opts.ItemStyle{Color: boundaryColors[m]}),
			charts.WithMarkLineNameXAxisItemOpts(items...),
		)
	}

	return line.Render(w)
}

func boundaryMarks(m thermocline.Method, f thermocline.FeatureRecord) []opts.MarkLineNameXAxisItem {
	suffix := map[thermocline.Method]string{
		thermocline.MethodSegmentation: "segment",
		thermocline.MethodHMM:          "HMM",
		thermocline.MethodThreshold:    "threshold",
	}[m]

	var items []opts.MarkLineNameXAxisItem
	for _, b := range []string{"LEP", "TRM", "UHY"} {
		if v, ok := f.Get(b + "_" + suffix); ok {
			items = append(items, opts.MarkLineNameXAxisItem{Name: b, XAxis: depthLabel(v)})
		}
	}
	return items
}

func depthLabel(d float64) string {
	return strconv.FormatFloat(d, 'f', -1, 64)
}
