// Package events provides the append-only progress log of a tournament
// run. Consumers (the WebSocket hub, the results repository) read it;
// the engine only ever appends.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of a tournament event.
type EventType string

const (
	EventTypeRunStarted       EventType = "RUN_STARTED"
	EventTypeMatchFinished    EventType = "MATCH_FINISHED"
	EventTypeStandingsUpdated EventType = "STANDINGS_UPDATED"
	EventTypeRunCompleted     EventType = "RUN_COMPLETED"
)

// RunStartedPayload announces a new tournament run.
type RunStartedPayload struct {
	Roster  []string `json:"roster"`
	Rounds  int      `json:"rounds"`
	Seed    int64    `json:"seed"`
	Matches int      `json:"matches"`
}

// MatchFinishedPayload carries one match's final scores.
type MatchFinishedPayload struct {
	NameA  string  `json:"name_a"`
	NameB  string  `json:"name_b"`
	ScoreA float64 `json:"score_a"`
	ScoreB float64 `json:"score_b"`
	Rounds int     `json:"rounds"`
}

// Event is an immutable record of tournament progress.
type Event struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	RunID     string      `json:"run_id"`
	Payload   interface{} `json:"payload"`
}

// Persister defines how an event is durably stored.
type Persister interface {
	Append(event Event) error
}

// Log is the in-memory append-only event log for one server process.
type Log struct {
	mu        sync.RWMutex
	events    []Event
	persister Persister
}

// NewLog creates an event log with an optional write-through persister.
func NewLog(persister Persister) *Log {
	return &Log{
		events:    make([]Event, 0),
		persister: persister,
	}
}

// Append adds a new event to the log. Events are immutable once
// appended; the persister write happens off the caller's goroutine.
func (l *Log) Append(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)

	if l.persister != nil {
		go func(e Event) {
			_ = l.persister.Append(e)
		}(event)
	}
}

// GetByRun returns all events belonging to one run.
func (l *Log) GetByRun(runID string) []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var result []Event
	for _, e := range l.events {
		if e.RunID == runID {
			result = append(result, e)
		}
	}
	return result
}

// Len reports the number of appended events.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}

// Snapshot returns a copy of the full log, oldest first.
func (l *Log) Snapshot() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// New stamps a fresh event with an ID and the current time.
func New(t EventType, runID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Type:      t,
		RunID:     runID,
		Payload:   payload,
	}
}
