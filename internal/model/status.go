package model

import (
	"fmt"
	"time"
)

type State string

const (
	StateNotConfigured State = "not configured"
	StateWatching      State = "watching"
	StateRunning       State = "running"
	StateStopped       State = "stopped"
	StateFailed        State = "failed"
)

type Counters struct {
	TotalProcessed uint64 `json:"total_processed"`
	Modified       uint64 `json:"modified"`
	Moved          uint64 `json:"moved"`
	Errors         uint64 `json:"errors"`
}

type IntakeSnapshot struct {
	Counters  Counters `json:"counters"`
	InFlight  []string `json:"in_flight"`
	Processed int      `json:"processed"`
}

type Status struct {
	State     State          `json:"state"`
	Source    string         `json:"source"`
	Target    string         `json:"target"`
	RunID     string         `json:"run_id"`
	StartedAt time.Time      `json:"started_at"`
	Intake    IntakeSnapshot `json:"intake"`
	LastErr   string         `json:"last_error,omitempty"`
}

func (c Counters) String() string {
	return fmt.Sprintf("processed: %d | modified: %d | moved: %d | errors: %d",
		c.TotalProcessed, c.Modified, c.Moved, c.Errors)
}
