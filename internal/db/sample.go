package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/aerotrace-data/aerotrace/internal/ems"
)

// EngineSample is one standardized engine data sample as stored in the
// database. Nil pointer fields mean the device did not report that value.
type EngineSample struct {
	ID         int64     `json:"id"`
	SessionID  *string   `json:"session_id"`
	RecordedAt time.Time `json:"recorded_at"`

	RPM              *float64 `json:"rpm"`
	ManifoldPressure *float64 `json:"manifold_pressure"`
	OilPressure      *float64 `json:"oil_pressure"`
	OilTemperature   *float64 `json:"oil_temperature"`
	FuelPressure     *float64 `json:"fuel_pressure"`
	Volts            *float64 `json:"volts"`
	Amps             *float64 `json:"amps"`
	GForce           *float64 `json:"g_force"`

	EGTs ems.CylinderReadings `json:"egts"`
	CHTs ems.CylinderReadings `json:"chts"`
}

// Data converts the stored sample back into the standardized model.
func (s *EngineSample) Data() ems.EngineData {
	return ems.EngineData{
		RPM:              s.RPM,
		ManifoldPressure: s.ManifoldPressure,
		OilPressure:      s.OilPressure,
		OilTemperature:   s.OilTemperature,
		FuelPressure:     s.FuelPressure,
		Volts:            s.Volts,
		Amps:             s.Amps,
		GForce:           s.GForce,
		EGTs:             s.EGTs,
		CHTs:             s.CHTs,
	}
}

// RecordSample stores a standardized sample and its cylinder readings in a
// single transaction. Returns the new sample ID.
func (db *DB) RecordSample(data ems.EngineData, sessionID *string, recordedAt time.Time) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO engine_sample (
			session_id, recorded_at_unix, rpm, manifold_pressure, oil_pressure,
			oil_temperature, fuel_pressure, volts, amps, g_force
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, recordedAt.Unix(),
		data.RPM, data.ManifoldPressure, data.OilPressure, data.OilTemperature,
		data.FuelPressure, data.Volts, data.Amps, data.GForce,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert sample: %w", err)
	}

	sampleID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	for _, r := range data.EGTs {
		if _, err := tx.Exec(
			`INSERT INTO cylinder_reading (sample_id, kind, cylinder, temp_f) VALUES (?, 'egt', ?, ?)`,
			sampleID, r.Cylinder, r.Value,
		); err != nil {
			return 0, fmt.Errorf("failed to insert EGT reading for cylinder %d: %w", r.Cylinder, err)
		}
	}
	for _, r := range data.CHTs {
		if _, err := tx.Exec(
			`INSERT INTO cylinder_reading (sample_id, kind, cylinder, temp_f) VALUES (?, 'cht', ?, ?)`,
			sampleID, r.Cylinder, r.Value,
		); err != nil {
			return 0, fmt.Errorf("failed to insert CHT reading for cylinder %d: %w", r.Cylinder, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sample: %w", err)
	}
	return sampleID, nil
}

// ListSamples returns the most recent samples (newest first) with their
// cylinder readings attached.
func (db *DB) ListSamples(limit int) ([]EngineSample, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.Query(
		`SELECT id, session_id, recorded_at_unix, rpm, manifold_pressure,
			oil_pressure, oil_temperature, fuel_pressure, volts, amps, g_force
		FROM engine_sample ORDER BY recorded_at_unix DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	var samples []EngineSample
	for rows.Next() {
		s, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range samples {
		if err := db.loadCylinderReadings(&samples[i]); err != nil {
			return nil, err
		}
	}

	return samples, nil
}

// LatestSample returns the most recent sample or nil when the database holds
// no samples yet.
func (db *DB) LatestSample() (*EngineSample, error) {
	samples, err := db.ListSamples(1)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, nil
	}
	return &samples[0], nil
}

// SessionSamples returns all samples recorded during the given flight
// session, oldest first.
func (db *DB) SessionSamples(sessionID string) ([]EngineSample, error) {
	rows, err := db.Query(
		`SELECT id, session_id, recorded_at_unix, rpm, manifold_pressure,
			oil_pressure, oil_temperature, fuel_pressure, volts, amps, g_force
		FROM engine_sample WHERE session_id = ? ORDER BY recorded_at_unix ASC, id ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query session samples: %w", err)
	}
	defer rows.Close()

	var samples []EngineSample
	for rows.Next() {
		s, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range samples {
		if err := db.loadCylinderReadings(&samples[i]); err != nil {
			return nil, err
		}
	}

	return samples, nil
}

func scanSample(rows *sql.Rows) (EngineSample, error) {
	var s EngineSample
	var recordedAtUnix int64
	if err := rows.Scan(
		&s.ID, &s.SessionID, &recordedAtUnix,
		&s.RPM, &s.ManifoldPressure, &s.OilPressure, &s.OilTemperature,
		&s.FuelPressure, &s.Volts, &s.Amps, &s.GForce,
	); err != nil {
		return EngineSample{}, fmt.Errorf("failed to scan sample: %w", err)
	}
	s.RecordedAt = time.Unix(recordedAtUnix, 0).UTC()
	return s, nil
}

func (db *DB) loadCylinderReadings(s *EngineSample) error {
	rows, err := db.Query(
		`SELECT kind, cylinder, temp_f FROM cylinder_reading
		WHERE sample_id = ? ORDER BY kind, cylinder`, s.ID)
	if err != nil {
		return fmt.Errorf("failed to query cylinder readings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var reading ems.CylinderReading
		if err := rows.Scan(&kind, &reading.Cylinder, &reading.Value); err != nil {
			return fmt.Errorf("failed to scan cylinder reading: %w", err)
		}
		switch kind {
		case "egt":
			s.EGTs = append(s.EGTs, reading)
		case "cht":
			s.CHTs = append(s.CHTs, reading)
		}
	}
	return rows.Err()
}
