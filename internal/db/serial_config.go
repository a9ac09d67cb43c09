package db

import (
	"database/sql"
	"fmt"
)

// SerialConfig represents a serial port configuration for an engine monitor
type SerialConfig struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	PortPath    string `json:"port_path"`
	BaudRate    int    `json:"baud_rate"`
	DataBits    int    `json:"data_bits"`
	StopBits    int    `json:"stop_bits"`
	Parity      string `json:"parity"`
	Enabled     bool   `json:"enabled"`
	Description string `json:"description"`
	EMSModel    string `json:"ems_model"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

const serialConfigColumns = `id, name, port_path, baud_rate, data_bits, stop_bits, parity, enabled, description, ems_model, created_at, updated_at`

// GetSerialConfigs returns all serial configurations
func (db *DB) GetSerialConfigs() ([]SerialConfig, error) {
	query := `SELECT ` + serialConfigColumns + `
	          FROM ems_serial_config
	          ORDER BY created_at ASC`

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query serial configs: %w", err)
	}
	defer rows.Close()

	return scanSerialConfigs(rows)
}

// GetSerialConfig returns a single serial configuration by ID
func (db *DB) GetSerialConfig(id int) (*SerialConfig, error) {
	query := `SELECT ` + serialConfigColumns + `
	          FROM ems_serial_config
	          WHERE id = ?`

	var c SerialConfig
	var enabled int
	err := db.QueryRow(query, id).Scan(&c.ID, &c.Name, &c.PortPath, &c.BaudRate, &c.DataBits,
		&c.StopBits, &c.Parity, &enabled, &c.Description, &c.EMSModel, &c.CreatedAt, &c.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get serial config: %w", err)
	}

	c.Enabled = enabled == 1
	return &c, nil
}

// GetEnabledSerialConfig returns the enabled serial configuration, or nil
// when none is enabled. A single engine monitor is supported per service, so
// at most one config should be enabled; the oldest wins otherwise.
func (db *DB) GetEnabledSerialConfig() (*SerialConfig, error) {
	query := `SELECT ` + serialConfigColumns + `
	          FROM ems_serial_config
	          WHERE enabled = 1
	          ORDER BY created_at ASC
	          LIMIT 1`

	var c SerialConfig
	var enabled int
	err := db.QueryRow(query).Scan(&c.ID, &c.Name, &c.PortPath, &c.BaudRate, &c.DataBits,
		&c.StopBits, &c.Parity, &enabled, &c.Description, &c.EMSModel, &c.CreatedAt, &c.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get enabled serial config: %w", err)
	}

	c.Enabled = enabled == 1
	return &c, nil
}

// CreateSerialConfig creates a new serial configuration
func (db *DB) CreateSerialConfig(c *SerialConfig) (int64, error) {
	query := `INSERT INTO ems_serial_config (name, port_path, baud_rate, data_bits, stop_bits, parity, enabled, description, ems_model)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	enabled := 0
	if c.Enabled {
		enabled = 1
	}

	result, err := db.Exec(query, c.Name, c.PortPath, c.BaudRate, c.DataBits, c.StopBits,
		c.Parity, enabled, c.Description, c.EMSModel)
	if err != nil {
		return 0, fmt.Errorf("failed to create serial config: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	c.ID = int(id)
	return id, nil
}

// UpdateSerialConfig updates an existing serial configuration
func (db *DB) UpdateSerialConfig(c *SerialConfig) error {
	query := `UPDATE ems_serial_config
	          SET name = ?, port_path = ?, baud_rate = ?, data_bits = ?, stop_bits = ?,
	              parity = ?, enabled = ?, description = ?, ems_model = ?,
	              updated_at = strftime('%s', 'now')
	          WHERE id = ?`

	enabled := 0
	if c.Enabled {
		enabled = 1
	}

	result, err := db.Exec(query, c.Name, c.PortPath, c.BaudRate, c.DataBits, c.StopBits,
		c.Parity, enabled, c.Description, c.EMSModel, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update serial config: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("serial config %d not found", c.ID)
	}
	return nil
}

// DeleteSerialConfig removes a serial configuration by ID
func (db *DB) DeleteSerialConfig(id int) error {
	result, err := db.Exec(`DELETE FROM ems_serial_config WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete serial config: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("serial config %d not found", id)
	}
	return nil
}

func scanSerialConfigs(rows *sql.Rows) ([]SerialConfig, error) {
	var configs []SerialConfig
	for rows.Next() {
		var c SerialConfig
		var enabled int
		err := rows.Scan(&c.ID, &c.Name, &c.PortPath, &c.BaudRate, &c.DataBits, &c.StopBits,
			&c.Parity, &enabled, &c.Description, &c.EMSModel, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan serial config: %w", err)
		}
		c.Enabled = enabled == 1
		configs = append(configs, c)
	}
	return configs, rows.Err()
}
