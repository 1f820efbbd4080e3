package intake

import (
	"dropfix/internal/model"
	"dropfix/internal/pipeline"
	"slices"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type StateOptions struct {
	DebounceWindow time.Duration
	ProcessedTTL   time.Duration
	ProcessedLimit int
}

// State is the intake bookkeeping shared by the worker and status readers.
// It outlives individual watcher schedules, so counters survive a reload.
type State struct {
	mu        sync.Mutex
	window    *pipeline.Window
	inFlight  map[string]struct{}
	processed *expirable.LRU[string, time.Time]
	counters  model.Counters
}

func NewState(opts StateOptions) *State {
	limit := opts.ProcessedLimit
	if limit <= 0 {
		limit = 1024
	}

	return &State{
		window:    pipeline.NewWindow(opts.DebounceWindow),
		inFlight:  make(map[string]struct{}),
		processed: expirable.NewLRU[string, time.Time](limit, nil, opts.ProcessedTTL),
	}
}

// Accept reports whether an event for path at the given time starts a new
// processing pass, as opposed to repeating one inside the debounce window.
func (s *State) Accept(path string, at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window.Admit(path, at)
}

// Begin marks path in flight; false if it already is.
func (s *State) Begin(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.inFlight[path]; ok {
		return false
	}

	s.inFlight[path] = struct{}{}
	return true
}

// Finish releases path and folds the result into the counters.
func (s *State) Finish(path string, result model.IntakeResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inFlight, path)

	switch result.Outcome {
	case model.OutcomeDone:
		s.counters.TotalProcessed++
		s.counters.Moved++
		if result.Modified {
			s.counters.Modified++
		}
		s.processed.Add(path, time.Now())

	case model.OutcomeFailed:
		s.counters.Errors++
	}
}

// WasProcessed reports whether path completed recently.
func (s *State) WasProcessed(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processed.Contains(path)
}

func (s *State) Counters() model.Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters
}

func (s *State) Snapshot() model.IntakeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	inFlight := make([]string, 0, len(s.inFlight))
	for path := range s.inFlight {
		inFlight = append(inFlight, path)
	}
	slices.Sort(inFlight)

	return model.IntakeSnapshot{
		Counters:  s.counters,
		InFlight:  inFlight,
		Processed: s.processed.Len(),
	}
}
