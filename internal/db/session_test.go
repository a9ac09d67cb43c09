package db

import (
	"testing"
	"time"
)

func TestStartAndEndSession(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	session, err := db.StartSession(nil, start)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if session.ID == "" {
		t.Fatal("expected session ID")
	}
	if session.EndedAt != nil {
		t.Error("new session should not be ended")
	}

	active, err := db.ActiveSession()
	if err != nil {
		t.Fatalf("ActiveSession failed: %v", err)
	}
	if active == nil || active.ID != session.ID {
		t.Fatalf("expected active session %q, got %+v", session.ID, active)
	}

	if err := db.EndSession(session.ID, start.Add(time.Hour)); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}

	active, err = db.ActiveSession()
	if err != nil {
		t.Fatalf("ActiveSession failed: %v", err)
	}
	if active != nil {
		t.Error("expected no active session after end")
	}

	got, err := db.GetSession(session.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.EndedAt == nil {
		t.Error("ended session should have EndedAt set")
	}
}

func TestStartSessionEndsActiveSession(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	first, err := db.StartSession(nil, start)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	second, err := db.StartSession(nil, start.Add(time.Minute))
	if err != nil {
		t.Fatalf("second StartSession failed: %v", err)
	}

	got, err := db.GetSession(first.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.EndedAt == nil {
		t.Error("first session should be ended when a new one starts")
	}

	active, err := db.ActiveSession()
	if err != nil {
		t.Fatalf("ActiveSession failed: %v", err)
	}
	if active == nil || active.ID != second.ID {
		t.Errorf("expected second session active, got %+v", active)
	}
}

func TestEndSessionAlreadyEnded(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	session, err := db.StartSession(nil, start)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	if err := db.EndSession(session.ID, start.Add(time.Hour)); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}
	if err := db.EndSession(session.ID, start.Add(2*time.Hour)); err == nil {
		t.Error("expected error ending an already-ended session")
	}
	if err := db.EndSession("no-such-session", start); err == nil {
		t.Error("expected error ending an unknown session")
	}
}

func TestGetSessionMissing(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	session, err := db.GetSession("no-such-session")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if session != nil {
		t.Error("expected nil for unknown session")
	}
}

func TestListSessionsByAircraft(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	a := testAircraft()
	if err := db.CreateAircraft(a); err != nil {
		t.Fatalf("CreateAircraft failed: %v", err)
	}

	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	if _, err := db.StartSession(&a.ID, start); err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if _, err := db.StartSession(nil, start.Add(time.Hour)); err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	all, err := db.ListSessions(nil)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(all))
	}
	// Newest first.
	if !all[0].StartedAt.After(all[1].StartedAt) {
		t.Error("expected newest session first")
	}

	filtered, err := db.ListSessions(&a.ID)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(filtered) != 1 {
		t.Fatalf("expected 1 session for aircraft, got %d", len(filtered))
	}
	if filtered[0].AircraftID == nil || *filtered[0].AircraftID != a.ID {
		t.Errorf("unexpected aircraft ID: %v", filtered[0].AircraftID)
	}
}
