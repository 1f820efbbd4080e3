package intake

import (
	"dropfix/internal/model"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestState() *State {
	return NewState(StateOptions{
		DebounceWindow: time.Second,
		ProcessedTTL:   time.Minute,
		ProcessedLimit: 2,
	})
}

func TestState_BeginFinish(t *testing.T) {
	s := newTestState()

	assert.True(t, s.Begin("/in/a.utf8"))
	assert.False(t, s.Begin("/in/a.utf8"))
	assert.Equal(t, []string{"/in/a.utf8"}, s.Snapshot().InFlight)

	s.Finish("/in/a.utf8", model.IntakeResult{Outcome: model.OutcomeDone, Modified: true})

	assert.Empty(t, s.Snapshot().InFlight)
	assert.True(t, s.Begin("/in/a.utf8"))
}

func TestState_Counters(t *testing.T) {
	s := newTestState()

	s.Finish("/in/a.utf8", model.IntakeResult{Outcome: model.OutcomeDone, Modified: true})
	s.Finish("/in/b.utf8", model.IntakeResult{Outcome: model.OutcomeDone})
	s.Finish("/in/c.utf8", model.IntakeResult{Outcome: model.OutcomeFailed, Err: errors.New("boom")})
	s.Finish("/in/d.utf8", model.IntakeResult{Outcome: model.OutcomeSkipped})

	assert.Equal(t, model.Counters{
		TotalProcessed: 2,
		Modified:       1,
		Moved:          2,
		Errors:         1,
	}, s.Counters())

	assert.True(t, s.WasProcessed("/in/a.utf8"))
	assert.False(t, s.WasProcessed("/in/c.utf8"))
	assert.False(t, s.WasProcessed("/in/d.utf8"))
}

func TestState_ProcessedIsBounded(t *testing.T) {
	s := newTestState()

	for _, p := range []string{"/in/a.utf8", "/in/b.utf8", "/in/c.utf8"} {
		s.Finish(p, model.IntakeResult{Outcome: model.OutcomeDone})
	}

	assert.Equal(t, 2, s.Snapshot().Processed)
	assert.False(t, s.WasProcessed("/in/a.utf8"))
	assert.True(t, s.WasProcessed("/in/c.utf8"))
}

func TestState_Accept(t *testing.T) {
	s := newTestState()
	t0 := time.Now()

	assert.True(t, s.Accept("/in/a.utf8", t0))
	assert.False(t, s.Accept("/in/a.utf8", t0.Add(200*time.Millisecond)))
	assert.True(t, s.Accept("/in/a.utf8", t0.Add(1200*time.Millisecond)))
}
