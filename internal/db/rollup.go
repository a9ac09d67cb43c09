package db

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// CylinderStats summarises one cylinder's temperature readings over a window.
// All temperatures are degrees Fahrenheit.
type CylinderStats struct {
	Kind     string  `json:"kind"` // egt or cht
	Cylinder int     `json:"cylinder"`
	Count    int     `json:"count"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	P50      float64 `json:"p50"`
	P85      float64 `json:"p85"`
	P98      float64 `json:"p98"`
}

// TemperatureRollup computes per-cylinder temperature statistics for samples
// recorded in the last N days. Percentiles are computed in Go so SQLite only
// has to stream the raw readings.
func (db *DB) TemperatureRollup(days int) ([]CylinderStats, error) {
	if days < 1 {
		days = 1
	}
	cutoff := time.Now().AddDate(0, 0, -days).Unix()

	rows, err := db.Query(
		`SELECT cr.kind, cr.cylinder, cr.temp_f
		FROM cylinder_reading cr
		JOIN engine_sample es ON es.id = cr.sample_id
		WHERE es.recorded_at_unix >= ?
		ORDER BY cr.kind, cr.cylinder`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query cylinder readings: %w", err)
	}
	defer rows.Close()

	type key struct {
		kind     string
		cylinder int
	}
	values := make(map[key][]float64)
	var order []key

	for rows.Next() {
		var k key
		var temp float64
		if err := rows.Scan(&k.kind, &k.cylinder, &temp); err != nil {
			return nil, fmt.Errorf("failed to scan cylinder reading: %w", err)
		}
		if _, seen := values[k]; !seen {
			order = append(order, k)
		}
		values[k] = append(values[k], temp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats := make([]CylinderStats, 0, len(order))
	for _, k := range order {
		temps := values[k]
		sort.Float64s(temps)

		max := temps[len(temps)-1]
		stats = append(stats, CylinderStats{
			Kind:     k.kind,
			Cylinder: k.cylinder,
			Count:    len(temps),
			Max:      max,
			Mean:     stat.Mean(temps, nil),
			P50:      stat.Quantile(0.50, stat.Empirical, temps, nil),
			P85:      stat.Quantile(0.85, stat.Empirical, temps, nil),
			P98:      stat.Quantile(0.98, stat.Empirical, temps, nil),
		})
	}

	return stats, nil
}
