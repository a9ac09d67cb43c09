package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Aircraft represents an airframe whose engine monitor feeds this service.
// The cylinder count bounds the EGT/CHT probes expected from the device.
type Aircraft struct {
	ID            int       `json:"id"`
	TailNumber    string    `json:"tail_number"`
	Name          string    `json:"name"`
	EngineModel   string    `json:"engine_model"`
	CylinderCount int       `json:"cylinder_count"`
	Description   *string   `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateAircraft creates a new aircraft in the database
func (db *DB) CreateAircraft(a *Aircraft) error {
	if a.TailNumber == "" {
		return fmt.Errorf("tail number is required")
	}
	if a.CylinderCount < 1 {
		return fmt.Errorf("cylinder count must be >= 1, got %d", a.CylinderCount)
	}

	result, err := db.Exec(
		`INSERT INTO aircraft (tail_number, name, engine_model, cylinder_count, description)
		VALUES (?, ?, ?, ?, ?)`,
		a.TailNumber, a.Name, a.EngineModel, a.CylinderCount, a.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to create aircraft: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}

	a.ID = int(id)
	return nil
}

// GetAircraft returns an aircraft by ID, or nil if it does not exist.
func (db *DB) GetAircraft(id int) (*Aircraft, error) {
	return db.getAircraft("id = ?", id)
}

// GetAircraftByTailNumber returns an aircraft by tail number, or nil if it
// does not exist.
func (db *DB) GetAircraftByTailNumber(tailNumber string) (*Aircraft, error) {
	return db.getAircraft("tail_number = ?", tailNumber)
}

func (db *DB) getAircraft(where string, arg any) (*Aircraft, error) {
	var a Aircraft
	var createdAtUnix, updatedAtUnix int64
	err := db.QueryRow(
		`SELECT id, tail_number, name, engine_model, cylinder_count, description,
			created_at, updated_at
		FROM aircraft WHERE `+where, arg,
	).Scan(&a.ID, &a.TailNumber, &a.Name, &a.EngineModel, &a.CylinderCount,
		&a.Description, &createdAtUnix, &updatedAtUnix)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get aircraft: %w", err)
	}
	a.CreatedAt = time.Unix(createdAtUnix, 0).UTC()
	a.UpdatedAt = time.Unix(updatedAtUnix, 0).UTC()
	return &a, nil
}

// ListAircraft returns all aircraft ordered by tail number.
func (db *DB) ListAircraft() ([]Aircraft, error) {
	rows, err := db.Query(
		`SELECT id, tail_number, name, engine_model, cylinder_count, description,
			created_at, updated_at
		FROM aircraft ORDER BY tail_number ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query aircraft: %w", err)
	}
	defer rows.Close()

	var aircraft []Aircraft
	for rows.Next() {
		var a Aircraft
		var createdAtUnix, updatedAtUnix int64
		if err := rows.Scan(&a.ID, &a.TailNumber, &a.Name, &a.EngineModel,
			&a.CylinderCount, &a.Description, &createdAtUnix, &updatedAtUnix); err != nil {
			return nil, fmt.Errorf("failed to scan aircraft: %w", err)
		}
		a.CreatedAt = time.Unix(createdAtUnix, 0).UTC()
		a.UpdatedAt = time.Unix(updatedAtUnix, 0).UTC()
		aircraft = append(aircraft, a)
	}
	return aircraft, rows.Err()
}

// UpdateAircraft updates an existing aircraft by ID.
func (db *DB) UpdateAircraft(a *Aircraft) error {
	if a.CylinderCount < 1 {
		return fmt.Errorf("cylinder count must be >= 1, got %d", a.CylinderCount)
	}

	result, err := db.Exec(
		`UPDATE aircraft SET tail_number = ?, name = ?, engine_model = ?,
			cylinder_count = ?, description = ?, updated_at = strftime('%s', 'now')
		WHERE id = ?`,
		a.TailNumber, a.Name, a.EngineModel, a.CylinderCount, a.Description, a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update aircraft: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("aircraft %d not found", a.ID)
	}
	return nil
}

// DeleteAircraft removes an aircraft by ID.
func (db *DB) DeleteAircraft(id int) error {
	result, err := db.Exec(`DELETE FROM aircraft WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete aircraft: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("aircraft %d not found", id)
	}
	return nil
}
