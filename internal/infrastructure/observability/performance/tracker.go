// Package performance provides performance tracking and monitoring capabilities
// for devlog requests and content fetches.
package performance

import (
	"log/slog"
	"sync"
	"time"
)

// Tracker keeps a bounded history of completed markers and warns about slow ones
type Tracker struct {
	recent []Marker
	next   int
	filled bool
	mu     sync.RWMutex
	config *TrackerConfig
	logger *slog.Logger
}

// TrackerConfig contains configuration options for the performance tracker
type TrackerConfig struct {
	MaxMarkers    int           `json:"maxMarkers"`    // Completed markers kept in memory
	SlowThreshold time.Duration `json:"slowThreshold"` // Operations slower than this are logged as warnings
}

// DefaultTrackerConfig returns a sensible default configuration
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		MaxMarkers:    1000,
		SlowThreshold: 500 * time.Millisecond,
	}
}

// NewTracker creates a new performance tracker. logger may be nil.
func NewTracker(config *TrackerConfig, logger *slog.Logger) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}
	if config.MaxMarkers <= 0 {
		config.MaxMarkers = 1
	}
	return &Tracker{
		recent: make([]Marker, config.MaxMarkers),
		config: config,
		logger: logger,
	}
}

// StartOperation creates a marker for an operation; call Complete when done
func (t *Tracker) StartOperation(operation, scope string) *Marker {
	return &Marker{
		Operation: operation,
		Scope:     scope,
		StartTime: time.Now(),
		Metadata:  make(map[string]any),
		Success:   true, // Assume success until proven otherwise
		tracker:   t,
	}
}

func (t *Tracker) record(m *Marker) {
	if m.Duration > t.config.SlowThreshold && t.logger != nil {
		t.logger.Warn("Slow operation detected",
			"operation", m.Operation,
			"scope", m.Scope,
			"duration", m.Duration,
			"success", m.Success)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	snapshot := *m
	snapshot.tracker = nil
	t.recent[t.next] = snapshot
	t.next = (t.next + 1) % len(t.recent)
	if t.next == 0 {
		t.filled = true
	}
}

// GetRecentMetrics returns completed markers newer than within, oldest first
func (t *Tracker) GetRecentMetrics(within time.Duration) []Marker {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cutoff := time.Now().Add(-within)
	var out []Marker
	for _, m := range t.ordered() {
		if m.EndTime.After(cutoff) {
			out = append(out, m)
		}
	}
	return out
}

// Summary aggregates the retained markers by operation
type Summary struct {
	Operation string        `json:"operation"`
	Count     int           `json:"count"`
	Failures  int           `json:"failures"`
	Average   time.Duration `json:"average"`
	Max       time.Duration `json:"max"`
}

// Summaries returns per-operation aggregates of the retained markers
func (t *Tracker) Summaries() map[string]Summary {
	t.mu.RLock()
	defer t.mu.RUnlock()

	totals := make(map[string]time.Duration)
	out := make(map[string]Summary)
	for _, m := range t.ordered() {
		s := out[m.Operation]
		s.Operation = m.Operation
		s.Count++
		if !m.Success {
			s.Failures++
		}
		if m.Duration > s.Max {
			s.Max = m.Duration
		}
		totals[m.Operation] += m.Duration
		out[m.Operation] = s
	}
	for op, s := range out {
		s.Average = totals[op] / time.Duration(s.Count)
		out[op] = s
	}
	return out
}

// ordered returns the ring contents oldest first; caller holds the lock
func (t *Tracker) ordered() []Marker {
	if !t.filled {
		return append([]Marker(nil), t.recent[:t.next]...)
	}
	out := make([]Marker, 0, len(t.recent))
	out = append(out, t.recent[t.next:]...)
	return append(out, t.recent[:t.next]...)
}
