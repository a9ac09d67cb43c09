package api

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/aerotrace-data/aerotrace/internal/ems"
	"github.com/aerotrace-data/aerotrace/internal/httputil"
)

// temperatureChart renders a quick line chart (HTML) of recent per-cylinder
// EGT/CHT trends using go-echarts. This is a debugging view to eyeball probe
// behaviour without a frontend. Query params:
//   - limit (optional; default 300) number of recent samples to plot
func (s *Server) temperatureChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	limit := 300
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 5000 {
			limit = v
		}
	}

	samples, err := s.db.ListSamples(limit)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to retrieve samples: %v", err))
		return
	}
	if len(samples) == 0 {
		httputil.NotFound(w, "no samples recorded yet")
		return
	}

	// ListSamples returns newest first; plot oldest to newest.
	for i, j := 0, len(samples)-1; i < j; i, j = i+1, j-1 {
		samples[i], samples[j] = samples[j], samples[i]
	}

	xAxis := make([]string, len(samples))
	egtSeries := make(map[int][]opts.LineData)
	chtSeries := make(map[int][]opts.LineData)

	for i, sample := range samples {
		xAxis[i] = sample.RecordedAt.Format("15:04:05")
		appendSeriesPoint(egtSeries, sample.EGTs, i, s.units)
		appendSeriesPoint(chtSeries, sample.CHTs, i, s.units)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Cylinder temperatures",
			Subtitle: fmt.Sprintf("last %d samples (°%s)", len(samples), unitSuffix(s.units)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	line.SetXAxis(xAxis)

	for _, cyl := range sortedKeys(egtSeries) {
		line.AddSeries(fmt.Sprintf("EGT%d", cyl), egtSeries[cyl])
	}
	for _, cyl := range sortedKeys(chtSeries) {
		line.AddSeries(fmt.Sprintf("CHT%d", cyl), chtSeries[cyl])
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := line.Render(w); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to render chart: %v", err))
	}
}

// appendSeriesPoint keeps each cylinder's series aligned with the x axis by
// padding with nil where a sample lacks that cylinder's probe.
func appendSeriesPoint(series map[int][]opts.LineData, readings ems.CylinderReadings, idx int, targetUnits string) {
	for _, r := range readings {
		if _, ok := series[r.Cylinder]; !ok {
			// pad earlier samples that predate this probe
			series[r.Cylinder] = make([]opts.LineData, idx)
		}
	}
	for cyl := range series {
		var value any
		for _, r := range readings {
			if r.Cylinder == cyl {
				converted := convertReadings(ems.CylinderReadings{r}, targetUnits)
				value = converted[0].Value
				break
			}
		}
		series[cyl] = append(series[cyl], opts.LineData{Value: value})
	}
}

func sortedKeys(series map[int][]opts.LineData) []int {
	keys := make([]int, 0, len(series))
	for k := range series {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func unitSuffix(u string) string {
	if u == "c" {
		return "C"
	}
	return "F"
}
