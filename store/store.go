package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Hossam-Shehadeh/web-based-jupedsim/model"
)

// RunStatus is the lifecycle state of a stored simulation run.
type RunStatus string

const (
	StatusRunning  RunStatus = "running"
	StatusComplete RunStatus = "complete"
	StatusFailed   RunStatus = "failed"
)

// EventType indicates what kind of change happened in the store.
type EventType int

const (
	EventRunCompleted EventType = iota
	EventRunFailed
)

// Event is emitted to subscribers when a run reaches a terminal state.
type Event struct {
	Type EventType
	Run  Run
}

// Run is one simulation run with its result once finished.
type Run struct {
	ID        string
	Status    RunStatus
	CreatedAt time.Time
	Result    *model.SimulationResult
	Error     string
}

// RunStore is an in-memory, thread-safe store of simulation runs. It keeps
// at most limit runs, evicting the oldest first, so a long-lived server
// does not accumulate frame data without bound.
type RunStore struct {
	mu sync.RWMutex

	runs  map[string]*Run
	order []string
	limit int

	subs    []subscriber
	nextSub int
}

// subscriber pairs a callback with a stable token so unsubscribing one
// subscriber cannot displace another.
type subscriber struct {
	id int
	fn func(Event)
}

// NewRunStore constructs an empty store holding at most limit runs.
func NewRunStore(limit int) *RunStore {
	if limit <= 0 {
		limit = 100
	}
	return &RunStore{
		runs:  make(map[string]*Run),
		limit: limit,
	}
}

// Create registers a new run in the running state and returns its id.
// Creating past the limit evicts the oldest stored run.
func (s *RunStore) Create() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.runs[id] = &Run{
		ID:        id,
		Status:    StatusRunning,
		CreatedAt: time.Now(),
	}
	s.order = append(s.order, id)

	for len(s.order) > s.limit {
		delete(s.runs, s.order[0])
		s.order = s.order[1:]
	}
	return id
}

// Complete stores a finished result and notifies subscribers. Completing
// an evicted or unknown run is an error.
func (s *RunStore) Complete(id string, result *model.SimulationResult) error {
	return s.finish(id, StatusComplete, result, "")
}

// Fail marks a run failed with the given cause and notifies subscribers.
func (s *RunStore) Fail(id string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return s.finish(id, StatusFailed, nil, msg)
}

func (s *RunStore) finish(id string, status RunStatus, result *model.SimulationResult, errMsg string) error {
	s.mu.Lock()
	r, ok := s.runs[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("run %q not found", id)
	}
	r.Status = status
	r.Result = result
	r.Error = errMsg

	event := Event{Type: EventRunCompleted, Run: *r}
	if status == StatusFailed {
		event.Type = EventRunFailed
	}
	subs := make([]func(Event), len(s.subs))
	for i, sub := range s.subs {
		subs[i] = sub.fn
	}
	s.mu.Unlock()

	// Notify subscribers outside the lock to avoid deadlocks.
	for _, sub := range subs {
		sub(event)
	}
	return nil
}

// Get returns a copy of the run with the given id.
func (s *RunStore) Get(id string) (Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[id]
	if !ok {
		return Run{}, false
	}
	return *r, true
}

// Len returns the number of stored runs.
func (s *RunStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}

// Subscribe registers a callback for terminal run events. It returns an
// unsubscribe function.
func (s *RunStore) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}
