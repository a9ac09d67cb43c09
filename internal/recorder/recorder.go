// Package recorder consumes raw serial lines from an engine monitor,
// classifies them, and persists parsed samples to the database.
package recorder

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/aerotrace-data/aerotrace/internal/db"
	"github.com/aerotrace-data/aerotrace/internal/ems"
	"github.com/aerotrace-data/aerotrace/internal/serialmux"
	"github.com/aerotrace-data/aerotrace/internal/timeutil"
)

// sessionRefreshInterval controls how often the cached active flight session
// is re-read from the database while the recorder is running.
const sessionRefreshInterval = 5 * time.Second

// Recorder binds a device parser to the database. Lines are handled from a
// single subscription goroutine; the mutex only guards state read by the
// admin/status surfaces.
type Recorder struct {
	db     *db.DB
	parser ems.Parser
	clock  timeutil.Clock

	mu          sync.Mutex
	sessionID   *string
	deviceState map[string]any
	samples     int64
	skipped     int64
}

// New creates a Recorder for the given parser.
func New(database *db.DB, parser ems.Parser, clock timeutil.Clock) *Recorder {
	return &Recorder{
		db:          database,
		parser:      parser,
		clock:       clock,
		deviceState: make(map[string]any),
	}
}

// HandleLine processes one raw line from the serial stream.
func (r *Recorder) HandleLine(line string) error {
	switch r.parser.Classify(line) {
	case ems.RecordKindHeader:
		if err := r.parser.HandleHeader(line); err != nil {
			return fmt.Errorf("failed to handle column header: %w", err)
		}
		log.Printf("Column header received: %s", line)

	case ems.RecordKindSample:
		data, err := r.parser.DecodeSample(line)
		if err != nil {
			return fmt.Errorf("failed to decode sample: %w", err)
		}
		if data.Empty() {
			r.countSkipped()
			return nil
		}
		if _, err := r.db.RecordSample(data, r.currentSessionID(), r.clock.Now()); err != nil {
			return fmt.Errorf("failed to record sample: %w", err)
		}
		r.countSample()

	case ems.RecordKindStatus:
		if err := r.handleStatus(line); err != nil {
			return err
		}

	default:
		r.countSkipped()
		log.Printf("unknown line from device: %q", line)
	}
	return nil
}

// handleStatus merges a JSON config/status echo into the tracked device state.
func (r *Recorder) handleStatus(line string) error {
	var values map[string]any
	if err := json.Unmarshal([]byte(line), &values); err != nil {
		return fmt.Errorf("failed to unmarshal status line: %v", err)
	}

	r.mu.Lock()
	for k, v := range values {
		r.deviceState[k] = v
	}
	r.mu.Unlock()

	log.Printf("Status line: %+v", line)
	return nil
}

// Run subscribes to the serial mux and handles lines until the context is
// cancelled. The active flight session is cached and refreshed periodically
// so sample inserts do not each hit the session table.
func (r *Recorder) Run(ctx context.Context, mux serialmux.SerialMuxInterface) {
	id, lines := mux.Subscribe()
	defer mux.Unsubscribe(id)

	r.refreshSession()
	ticker := r.clock.NewTicker(sessionRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case line, ok := <-lines:
			if !ok {
				log.Printf("recorder subscription closed")
				return
			}
			if err := r.HandleLine(line); err != nil {
				log.Printf("error handling line: %v", err)
			}
		case <-ticker.C():
			r.refreshSession()
		case <-ctx.Done():
			log.Printf("recorder routine terminated")
			return
		}
	}
}

func (r *Recorder) refreshSession() {
	session, err := r.db.ActiveSession()
	if err != nil {
		log.Printf("failed to refresh active session: %v", err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if session == nil {
		r.sessionID = nil
	} else {
		r.sessionID = &session.ID
	}
}

func (r *Recorder) currentSessionID() *string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessionID
}

func (r *Recorder) countSample() {
	r.mu.Lock()
	r.samples++
	r.mu.Unlock()
}

func (r *Recorder) countSkipped() {
	r.mu.Lock()
	r.skipped++
	r.mu.Unlock()
}

// Stats reports how many samples were recorded and how many lines were
// skipped since the recorder started.
func (r *Recorder) Stats() (samples, skipped int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.samples, r.skipped
}

// DeviceState returns a copy of the most recent config/status values echoed
// by the device.
func (r *Recorder) DeviceState() map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	state := make(map[string]any, len(r.deviceState))
	for k, v := range r.deviceState {
		state[k] = v
	}
	return state
}
