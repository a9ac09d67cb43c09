// Package api exposes the HTTP API for querying standardized engine
// telemetry and managing the service.
package api

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/aerotrace-data/aerotrace/internal/db"
	"github.com/aerotrace-data/aerotrace/internal/ems"
	"github.com/aerotrace-data/aerotrace/internal/httputil"
	"github.com/aerotrace-data/aerotrace/internal/serialmux"
	"github.com/aerotrace-data/aerotrace/internal/units"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

type Server struct {
	m     serialmux.SerialMuxInterface
	db    *db.DB
	units string
}

func NewServer(m serialmux.SerialMuxInterface, database *db.DB, displayUnits string) *Server {
	return &Server{
		m:     m,
		db:    database,
		units: displayUnits,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/samples", s.listSamples)
	mux.HandleFunc("/samples/latest", s.latestSample)
	mux.HandleFunc("/stats", s.showTemperatureStats)
	mux.HandleFunc("/models", s.listModels)
	mux.HandleFunc("/config", s.showConfig)
	mux.HandleFunc("/command", s.sendCommandHandler)
	mux.HandleFunc("/charts/temps", s.temperatureChart)

	mux.HandleFunc("/aircraft", s.handleAircraft)
	mux.HandleFunc("/aircraft/", s.handleAircraftByID)

	mux.HandleFunc("/sessions", s.listSessions)
	mux.HandleFunc("/sessions/active", s.activeSession)
	mux.HandleFunc("/sessions/start", s.startSession)
	mux.HandleFunc("/sessions/stop", s.stopSession)

	mux.HandleFunc("/serial-configs", s.handleSerialConfigs)
	mux.HandleFunc("/serial-configs/", s.handleSerialConfigByID)
	return mux
}

// convertSample applies display unit conversion to all temperature fields.
// Database values are always Fahrenheit.
func (s *Server) convertSample(sample db.EngineSample) db.EngineSample {
	if s.units == units.Fahrenheit {
		return sample
	}

	if sample.OilTemperature != nil {
		v := units.ConvertTemperature(*sample.OilTemperature, s.units)
		sample.OilTemperature = &v
	}
	sample.EGTs = convertReadings(sample.EGTs, s.units)
	sample.CHTs = convertReadings(sample.CHTs, s.units)
	return sample
}

func convertReadings(readings ems.CylinderReadings, targetUnits string) ems.CylinderReadings {
	if len(readings) == 0 {
		return readings
	}
	converted := make(ems.CylinderReadings, len(readings))
	for i, r := range readings {
		converted[i] = ems.CylinderReading{
			Cylinder: r.Cylinder,
			Value:    units.ConvertTemperature(r.Value, targetUnits),
		}
	}
	return converted
}

func (s *Server) listSamples(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	limit := 100 // default value
	if l := r.URL.Query().Get("limit"); l != "" {
		parsedLimit, err := strconv.Atoi(l)
		if err != nil || parsedLimit < 1 || parsedLimit > 5000 {
			httputil.BadRequest(w, "Invalid 'limit' parameter")
			return
		}
		limit = parsedLimit
	}

	samples, err := s.db.ListSamples(limit)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to retrieve samples: %v", err))
		return
	}

	for i := range samples {
		samples[i] = s.convertSample(samples[i])
	}

	httputil.WriteJSONOK(w, samples)
}

func (s *Server) latestSample(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	sample, err := s.db.LatestSample()
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to retrieve latest sample: %v", err))
		return
	}
	if sample == nil {
		httputil.NotFound(w, "no samples recorded yet")
		return
	}

	converted := s.convertSample(*sample)
	httputil.WriteJSONOK(w, converted)
}

func (s *Server) showTemperatureStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	days := 1 // default value
	if d := r.URL.Query().Get("days"); d != "" {
		parsedDays, err := strconv.Atoi(d)
		if err != nil || parsedDays < 1 {
			httputil.BadRequest(w, "Invalid 'days' parameter")
			return
		}
		days = parsedDays
	}

	stats, err := s.db.TemperatureRollup(days)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to retrieve temperature stats: %v", err))
		return
	}

	// Apply unit conversion to all temperature values
	for i := range stats {
		stats[i].Max = units.ConvertTemperature(stats[i].Max, s.units)
		stats[i].Mean = units.ConvertTemperature(stats[i].Mean, s.units)
		stats[i].P50 = units.ConvertTemperature(stats[i].P50, s.units)
		stats[i].P85 = units.ConvertTemperature(stats[i].P85, s.units)
		stats[i].P98 = units.ConvertTemperature(stats[i].P98, s.units)
	}

	httputil.WriteJSONOK(w, stats)
}

func (s *Server) listModels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, ems.AllModels())
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	config := map[string]interface{}{
		"units": s.units,
	}
	httputil.WriteJSONOK(w, config)
}

func (s *Server) sendCommandHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	command := strings.TrimSpace(r.FormValue("command"))
	if !slices.Contains(allowedCommands, command) {
		httputil.BadRequest(w, "Invalid command")
		return
	}

	if err := s.m.SendCommand(command); err != nil {
		httputil.InternalServerError(w, "Failed to send command")
		return
	}
	io.WriteString(w, "Command sent successfully")
}
