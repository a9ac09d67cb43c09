// Command analysis renders per-cylinder temperature trend plots from a
// recorded database, for post-flight review without the HTTP service.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/aerotrace-data/aerotrace/internal/db"
	"github.com/aerotrace-data/aerotrace/internal/ems"
)

var (
	dbPath    = flag.String("db", "ems.db", "Path to the SQLite database")
	sessionID = flag.String("session", "", "Flight session ID to plot (defaults to most recent samples)")
	limit     = flag.Int("limit", 1000, "Number of recent samples to plot when no session is given")
	outDir    = flag.String("out", ".", "Directory for the rendered plots")
)

// seriesColors cycles per cylinder so six-cylinder engines stay readable.
var seriesColors = []color.RGBA{
	{R: 0xd6, G: 0x2a, B: 0x2a, A: 0xff},
	{R: 0x2a, G: 0x6b, B: 0xd6, A: 0xff},
	{R: 0x2a, G: 0xa0, B: 0x4a, A: 0xff},
	{R: 0xd6, G: 0x8a, B: 0x2a, A: 0xff},
	{R: 0x8a, G: 0x2a, B: 0xd6, A: 0xff},
	{R: 0x2a, G: 0xb8, B: 0xb8, A: 0xff},
	{R: 0x70, G: 0x70, B: 0x70, A: 0xff},
	{R: 0xd6, G: 0x2a, B: 0x8a, A: 0xff},
	{R: 0x4a, G: 0x4a, B: 0x2a, A: 0xff},
}

func main() {
	flag.Parse()

	database, err := db.OpenDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	samples, err := loadSamples(database)
	if err != nil {
		log.Fatalf("Failed to load samples: %v", err)
	}
	if len(samples) == 0 {
		log.Fatal("no samples to plot")
	}
	log.Printf("plotting %d samples", len(samples))

	egtPath := filepath.Join(*outDir, "egt_trend.png")
	if err := renderTrend(samples, "EGT", egtPath, func(s db.EngineSample) ems.CylinderReadings { return s.EGTs }); err != nil {
		log.Fatalf("Failed to render EGT trend: %v", err)
	}
	log.Printf("wrote %s", egtPath)

	chtPath := filepath.Join(*outDir, "cht_trend.png")
	if err := renderTrend(samples, "CHT", chtPath, func(s db.EngineSample) ems.CylinderReadings { return s.CHTs }); err != nil {
		log.Fatalf("Failed to render CHT trend: %v", err)
	}
	log.Printf("wrote %s", chtPath)
}

// loadSamples returns samples oldest first.
func loadSamples(database *db.DB) ([]db.EngineSample, error) {
	if *sessionID != "" {
		return database.SessionSamples(*sessionID)
	}

	samples, err := database.ListSamples(*limit)
	if err != nil {
		return nil, err
	}
	// ListSamples returns newest first
	for i, j := 0, len(samples)-1; i < j; i, j = i+1, j-1 {
		samples[i], samples[j] = samples[j], samples[i]
	}
	return samples, nil
}

// renderTrend plots one line per cylinder, x axis in minutes since the first
// sample, y axis degrees Fahrenheit.
func renderTrend(samples []db.EngineSample, kind, path string, readings func(db.EngineSample) ems.CylinderReadings) error {
	start := samples[0].RecordedAt

	series := make(map[int]plotter.XYs)
	for _, sample := range samples {
		x := sample.RecordedAt.Sub(start).Minutes()
		for _, r := range readings(sample) {
			series[r.Cylinder] = append(series[r.Cylinder], plotter.XY{X: x, Y: r.Value})
		}
	}
	if len(series) == 0 {
		log.Printf("no %s readings recorded, skipping plot", kind)
		return nil
	}

	p := plot.New()
	p.Title.Text = kind + " trend"
	p.X.Label.Text = "minutes"
	p.Y.Label.Text = "°F"
	p.Legend.Top = true

	cylinders := make([]int, 0, len(series))
	for cyl := range series {
		cylinders = append(cylinders, cyl)
	}
	sort.Ints(cylinders)

	for _, cyl := range cylinders {
		line, err := plotter.NewLine(series[cyl])
		if err != nil {
			return fmt.Errorf("failed to build %s%d line: %w", kind, cyl, err)
		}
		line.Color = seriesColors[(cyl-1)%len(seriesColors)]
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("%s%d", kind, cyl), line)
	}

	return p.Save(10*vg.Inch, 5*vg.Inch, path)
}
