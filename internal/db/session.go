package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FlightSession groups engine samples recorded between an engine start and
// shutdown. EndedAt is nil while the session is active. At most one session
// is active at a time.
type FlightSession struct {
	ID         string     `json:"id"`
	AircraftID *int       `json:"aircraft_id"`
	StartedAt  time.Time  `json:"started_at"`
	EndedAt    *time.Time `json:"ended_at"`
	Note       *string    `json:"note"`
}

// StartSession opens a new flight session. Any currently active session is
// ended first so samples are never attributed to two sessions.
func (db *DB) StartSession(aircraftID *int, startedAt time.Time) (*FlightSession, error) {
	if _, err := db.Exec(
		`UPDATE flight_session SET ended_at_unix = ? WHERE ended_at_unix IS NULL`,
		startedAt.Unix(),
	); err != nil {
		return nil, fmt.Errorf("failed to end active sessions: %w", err)
	}

	session := &FlightSession{
		ID:         uuid.NewString(),
		AircraftID: aircraftID,
		StartedAt:  startedAt.UTC().Truncate(time.Second),
	}

	if _, err := db.Exec(
		`INSERT INTO flight_session (id, aircraft_id, started_at_unix) VALUES (?, ?, ?)`,
		session.ID, session.AircraftID, session.StartedAt.Unix(),
	); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	return session, nil
}

// EndSession closes the given session. Ending an already-ended session is an
// error.
func (db *DB) EndSession(id string, endedAt time.Time) error {
	result, err := db.Exec(
		`UPDATE flight_session SET ended_at_unix = ? WHERE id = ? AND ended_at_unix IS NULL`,
		endedAt.Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %q not found or already ended", id)
	}
	return nil
}

// ActiveSession returns the currently active session, or nil when none.
func (db *DB) ActiveSession() (*FlightSession, error) {
	row := db.QueryRow(
		`SELECT id, aircraft_id, started_at_unix, ended_at_unix, note
		FROM flight_session WHERE ended_at_unix IS NULL
		ORDER BY started_at_unix DESC LIMIT 1`)
	return scanSession(row)
}

// GetSession returns a session by ID, or nil if it does not exist.
func (db *DB) GetSession(id string) (*FlightSession, error) {
	row := db.QueryRow(
		`SELECT id, aircraft_id, started_at_unix, ended_at_unix, note
		FROM flight_session WHERE id = ?`, id)
	return scanSession(row)
}

// ListSessions returns all sessions newest first, optionally filtered by
// aircraft.
func (db *DB) ListSessions(aircraftID *int) ([]FlightSession, error) {
	query := `SELECT id, aircraft_id, started_at_unix, ended_at_unix, note
		FROM flight_session`
	args := []any{}
	if aircraftID != nil {
		query += ` WHERE aircraft_id = ?`
		args = append(args, *aircraftID)
	}
	query += ` ORDER BY started_at_unix DESC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []FlightSession
	for rows.Next() {
		var s FlightSession
		var startedAtUnix int64
		var endedAtUnix *int64
		if err := rows.Scan(&s.ID, &s.AircraftID, &startedAtUnix, &endedAtUnix, &s.Note); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		s.StartedAt = time.Unix(startedAtUnix, 0).UTC()
		if endedAtUnix != nil {
			t := time.Unix(*endedAtUnix, 0).UTC()
			s.EndedAt = &t
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func scanSession(row *sql.Row) (*FlightSession, error) {
	var s FlightSession
	var startedAtUnix int64
	var endedAtUnix *int64
	err := row.Scan(&s.ID, &s.AircraftID, &startedAtUnix, &endedAtUnix, &s.Note)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}
	s.StartedAt = time.Unix(startedAtUnix, 0).UTC()
	if endedAtUnix != nil {
		t := time.Unix(*endedAtUnix, 0).UTC()
		s.EndedAt = &t
	}
	return &s, nil
}
