package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/aerotrace-data/aerotrace/internal/db"
	"github.com/aerotrace-data/aerotrace/internal/ems"
	"github.com/aerotrace-data/aerotrace/internal/httputil"
	"github.com/aerotrace-data/aerotrace/internal/serialmux"
)

// validateSerialConfig checks a serial config payload before it hits the
// database. Parity and framing validation reuses the serialmux rules so the
// stored config is guaranteed to open.
func validateSerialConfig(c *db.SerialConfig) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(c.PortPath) == "" {
		return fmt.Errorf("port_path is required")
	}
	if c.EMSModel == "" {
		c.EMSModel = "cgr-30p"
	}
	if _, ok := ems.GetModel(c.EMSModel); !ok {
		return fmt.Errorf("unsupported ems_model %q", c.EMSModel)
	}

	opts := serialmux.PortOptions{
		BaudRate: c.BaudRate,
		DataBits: c.DataBits,
		StopBits: c.StopBits,
		Parity:   c.Parity,
	}
	normalized, err := opts.Normalize()
	if err != nil {
		return err
	}

	c.BaudRate = normalized.BaudRate
	c.DataBits = normalized.DataBits
	c.StopBits = normalized.StopBits
	c.Parity = normalized.Parity
	return nil
}

func (s *Server) handleSerialConfigs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		configs, err := s.db.GetSerialConfigs()
		if err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("Failed to list serial configs: %v", err))
			return
		}
		httputil.WriteJSONOK(w, configs)

	case http.MethodPost:
		var c db.SerialConfig
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			httputil.BadRequest(w, fmt.Sprintf("Invalid serial config payload: %v", err))
			return
		}
		if err := validateSerialConfig(&c); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		if _, err := s.db.CreateSerialConfig(&c); err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("Failed to create serial config: %v", err))
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, c)

	default:
		httputil.MethodNotAllowed(w)
	}
}

func (s *Server) handleSerialConfigByID(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/serial-configs/")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		httputil.BadRequest(w, "Invalid serial config ID")
		return
	}

	switch r.Method {
	case http.MethodGet:
		config, err := s.db.GetSerialConfig(id)
		if err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("Failed to get serial config: %v", err))
			return
		}
		if config == nil {
			httputil.NotFound(w, fmt.Sprintf("serial config %d not found", id))
			return
		}
		httputil.WriteJSONOK(w, config)

	case http.MethodPut:
		var c db.SerialConfig
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			httputil.BadRequest(w, fmt.Sprintf("Invalid serial config payload: %v", err))
			return
		}
		c.ID = id
		if err := validateSerialConfig(&c); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		if err := s.db.UpdateSerialConfig(&c); err != nil {
			httputil.NotFound(w, fmt.Sprintf("Failed to update serial config: %v", err))
			return
		}
		httputil.WriteJSONOK(w, c)

	case http.MethodDelete:
		if err := s.db.DeleteSerialConfig(id); err != nil {
			httputil.NotFound(w, fmt.Sprintf("Failed to delete serial config: %v", err))
			return
		}
		httputil.WriteJSONOK(w, map[string]string{"status": "deleted"})

	default:
		httputil.MethodNotAllowed(w)
	}
}
