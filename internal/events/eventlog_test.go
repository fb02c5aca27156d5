package events

import (
	"sync"
	"testing"
	"time"
)

type memPersister struct {
	mu     sync.Mutex
	stored []Event
}

func (p *memPersister) Append(e Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stored = append(p.stored, e)
	return nil
}

func TestNewStampsIdentity(t *testing.T) {
	e := New(EventTypeMatchFinished, "run-1", nil)
	if e.ID == "" {
		t.Error("event must get an ID")
	}
	if e.Type != EventTypeMatchFinished || e.RunID != "run-1" {
		t.Errorf("unexpected event: %+v", e)
	}
	if e.Timestamp.IsZero() {
		t.Error("event must be timestamped")
	}

	other := New(EventTypeMatchFinished, "run-1", nil)
	if other.ID == e.ID {
		t.Error("event IDs must be unique")
	}
}

func TestAppendAndFilter(t *testing.T) {
	l := NewLog(nil)
	l.Append(New(EventTypeRunStarted, "run-a", nil))
	l.Append(New(EventTypeMatchFinished, "run-a", nil))
	l.Append(New(EventTypeRunStarted, "run-b", nil))

	if l.Len() != 3 {
		t.Errorf("Len = %d, want 3", l.Len())
	}
	if got := len(l.GetByRun("run-a")); got != 2 {
		t.Errorf("GetByRun(run-a) = %d events, want 2", got)
	}
	if got := len(l.GetByRun("run-c")); got != 0 {
		t.Errorf("GetByRun(run-c) = %d events, want 0", got)
	}

	snap := l.Snapshot()
	if len(snap) != 3 || snap[0].Type != EventTypeRunStarted {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	// The snapshot is a copy; mutating it must not touch the log.
	snap[0].RunID = "mutated"
	if l.Snapshot()[0].RunID == "mutated" {
		t.Error("Snapshot leaked internal state")
	}
}

func TestWriteThroughPersister(t *testing.T) {
	p := &memPersister{}
	l := NewLog(p)
	l.Append(New(EventTypeRunCompleted, "run-a", nil))

	// The persister write is async; give it a moment.
	deadline := time.Now().Add(time.Second)
	for {
		p.mu.Lock()
		n := len(p.stored)
		p.mu.Unlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("persister never received the event")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
