// Package cgr30p parses the serial recording stream of the Electronics
// International CGR-30P engine monitor into the standardized ems model.
//
// The device emits a comma-separated column header when recording starts,
// then one comma-separated data row per sample in header order. Probes that
// are unavailable report "---". JSON lines are config/status echoes and are
// not handled here.
package cgr30p

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aerotrace-data/aerotrace/internal/ems"
)

// ErrNoHeader is returned when a data row arrives before any column header.
var ErrNoHeader = fmt.Errorf("no column header received yet")

// blankField is how the CGR-30P reports a probe with no reading.
const blankField = "---"

type columnKind int

const (
	colIgnored columnKind = iota
	colTime
	colRPM
	colManifoldPressure
	colOilPressure
	colOilTemperature
	colFuelPressure
	colVolts
	colAmps
	colGForce
	colEGT
	colCHT
)

type column struct {
	name     string
	kind     columnKind
	cylinder int // 1-based, only for colEGT / colCHT
}

// Parser is a stateful line parser for one CGR-30P stream. It is not safe
// for concurrent use; the serial recorder feeds it from a single goroutine.
type Parser struct {
	columns []column
}

// NewParser returns a Parser with no active header.
func NewParser() *Parser {
	return &Parser{}
}

// Classify reports the record kind of a raw line.
func (p *Parser) Classify(line string) ems.RecordKind {
	return ems.ClassifyLine(line)
}

// HasHeader reports whether a column header has been consumed.
func (p *Parser) HasHeader() bool {
	return p.columns != nil
}

// HandleHeader consumes a column header line, replacing any active header.
// Column names are case-insensitive. Unrecognised columns are retained so
// field counts still line up, but their values are discarded.
func (p *Parser) HandleHeader(line string) error {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) < 2 {
		return fmt.Errorf("header has %d columns, expected at least 2", len(fields))
	}

	columns := make([]column, 0, len(fields))
	for _, f := range fields {
		name := strings.ToUpper(strings.TrimSpace(f))
		if name == "" {
			return fmt.Errorf("header contains an empty column name: %q", line)
		}
		col, err := parseColumnName(name)
		if err != nil {
			return err
		}
		columns = append(columns, col)
	}

	p.columns = columns
	return nil
}

func parseColumnName(name string) (column, error) {
	switch name {
	case "TIME":
		return column{name: name, kind: colTime}, nil
	case "RPM":
		return column{name: name, kind: colRPM}, nil
	case "MAP":
		return column{name: name, kind: colManifoldPressure}, nil
	case "OILP":
		return column{name: name, kind: colOilPressure}, nil
	case "OILT":
		return column{name: name, kind: colOilTemperature}, nil
	case "FUELP":
		return column{name: name, kind: colFuelPressure}, nil
	case "VOLTS", "BAT":
		return column{name: name, kind: colVolts}, nil
	case "AMPS":
		return column{name: name, kind: colAmps}, nil
	case "GMETER":
		return column{name: name, kind: colGForce}, nil
	}

	if cyl, ok := cylinderSuffix(name, "EGT"); ok {
		return column{name: name, kind: colEGT, cylinder: cyl}, nil
	}
	if cyl, ok := cylinderSuffix(name, "CHT"); ok {
		return column{name: name, kind: colCHT, cylinder: cyl}, nil
	}

	// Downloads from newer firmware carry extra columns (fuel flow, tach
	// time). Keep the slot so row field counts still match.
	return column{name: name, kind: colIgnored}, nil
}

// cylinderSuffix parses names like EGT1 or CHT6 and returns the 1-based
// cylinder number.
func cylinderSuffix(name, prefix string) (int, bool) {
	if !strings.HasPrefix(name, prefix) || len(name) == len(prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(name[len(prefix):])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// DecodeSample parses a data row against the active header.
func (p *Parser) DecodeSample(line string) (ems.EngineData, error) {
	if p.columns == nil {
		return ems.EngineData{}, ErrNoHeader
	}

	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) != len(p.columns) {
		return ems.EngineData{}, fmt.Errorf("row has %d fields, header has %d columns", len(fields), len(p.columns))
	}

	var data ems.EngineData
	for i, raw := range fields {
		col := p.columns[i]
		value := strings.TrimSpace(raw)
		if value == "" || value == blankField {
			continue
		}
		if col.kind == colTime || col.kind == colIgnored {
			continue
		}

		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return ems.EngineData{}, fmt.Errorf("failed to parse %s value %q: %v", col.name, value, err)
		}

		switch col.kind {
		case colRPM:
			data.RPM = &v
		case colManifoldPressure:
			data.ManifoldPressure = &v
		case colOilPressure:
			data.OilPressure = &v
		case colOilTemperature:
			data.OilTemperature = &v
		case colFuelPressure:
			data.FuelPressure = &v
		case colVolts:
			data.Volts = &v
		case colAmps:
			data.Amps = &v
		case colGForce:
			data.GForce = &v
		case colEGT:
			reading, err := ems.NewCylinderReading(col.cylinder, v)
			if err != nil {
				return ems.EngineData{}, err
			}
			data.EGTs = append(data.EGTs, reading)
		case colCHT:
			reading, err := ems.NewCylinderReading(col.cylinder, v)
			if err != nil {
				return ems.EngineData{}, err
			}
			data.CHTs = append(data.CHTs, reading)
		}
	}

	sortByCylinder(data.EGTs)
	sortByCylinder(data.CHTs)
	return data, nil
}

func sortByCylinder(readings ems.CylinderReadings) {
	sort.Slice(readings, func(i, j int) bool {
		return readings[i].Cylinder < readings[j].Cylinder
	})
}
