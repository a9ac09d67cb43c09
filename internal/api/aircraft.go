package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aerotrace-data/aerotrace/internal/db"
	"github.com/aerotrace-data/aerotrace/internal/httputil"
)

func (s *Server) handleAircraft(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		aircraft, err := s.db.ListAircraft()
		if err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("Failed to list aircraft: %v", err))
			return
		}
		httputil.WriteJSONOK(w, aircraft)

	case http.MethodPost:
		var a db.Aircraft
		if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
			httputil.BadRequest(w, fmt.Sprintf("Invalid aircraft payload: %v", err))
			return
		}
		if err := s.db.CreateAircraft(&a); err != nil {
			httputil.BadRequest(w, fmt.Sprintf("Failed to create aircraft: %v", err))
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, a)

	default:
		httputil.MethodNotAllowed(w)
	}
}

func (s *Server) handleAircraftByID(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/aircraft/")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		httputil.BadRequest(w, "Invalid aircraft ID")
		return
	}

	switch r.Method {
	case http.MethodGet:
		aircraft, err := s.db.GetAircraft(id)
		if err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("Failed to get aircraft: %v", err))
			return
		}
		if aircraft == nil {
			httputil.NotFound(w, fmt.Sprintf("aircraft %d not found", id))
			return
		}
		httputil.WriteJSONOK(w, aircraft)

	case http.MethodPut:
		var a db.Aircraft
		if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
			httputil.BadRequest(w, fmt.Sprintf("Invalid aircraft payload: %v", err))
			return
		}
		a.ID = id
		if err := s.db.UpdateAircraft(&a); err != nil {
			httputil.BadRequest(w, fmt.Sprintf("Failed to update aircraft: %v", err))
			return
		}
		httputil.WriteJSONOK(w, a)

	case http.MethodDelete:
		if err := s.db.DeleteAircraft(id); err != nil {
			httputil.NotFound(w, fmt.Sprintf("Failed to delete aircraft: %v", err))
			return
		}
		httputil.WriteJSONOK(w, map[string]string{"status": "deleted"})

	default:
		httputil.MethodNotAllowed(w)
	}
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	var aircraftID *int
	if a := r.URL.Query().Get("aircraft_id"); a != "" {
		id, err := strconv.Atoi(a)
		if err != nil {
			httputil.BadRequest(w, "Invalid 'aircraft_id' parameter")
			return
		}
		aircraftID = &id
	}

	sessions, err := s.db.ListSessions(aircraftID)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to list sessions: %v", err))
		return
	}
	httputil.WriteJSONOK(w, sessions)
}

func (s *Server) activeSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	session, err := s.db.ActiveSession()
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to get active session: %v", err))
		return
	}
	if session == nil {
		httputil.NotFound(w, "no active session")
		return
	}
	httputil.WriteJSONOK(w, session)
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	var aircraftID *int
	if a := strings.TrimSpace(r.FormValue("aircraft_id")); a != "" {
		id, err := strconv.Atoi(a)
		if err != nil {
			httputil.BadRequest(w, "Invalid 'aircraft_id' parameter")
			return
		}
		if aircraft, err := s.db.GetAircraft(id); err != nil || aircraft == nil {
			httputil.BadRequest(w, fmt.Sprintf("aircraft %d not found", id))
			return
		}
		aircraftID = &id
	}

	session, err := s.db.StartSession(aircraftID, time.Now())
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to start session: %v", err))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, session)
}

func (s *Server) stopSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	session, err := s.db.ActiveSession()
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to get active session: %v", err))
		return
	}
	if session == nil {
		httputil.NotFound(w, "no active session")
		return
	}

	if err := s.db.EndSession(session.ID, time.Now()); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to stop session: %v", err))
		return
	}
	httputil.WriteJSONOK(w, map[string]string{"status": "ended", "id": session.ID})
}
