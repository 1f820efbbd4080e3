package model

import "time"

type EventType string

const (
	EventCreate EventType = "CREATE"
	EventWrite  EventType = "WRITE"
)

type FileEvent struct {
	Type      EventType
	Path      string
	IsDir     bool
	Timestamp time.Time
}

type Outcome string

const (
	OutcomeDone    Outcome = "DONE"
	OutcomeFailed  Outcome = "FAILED"
	OutcomeSkipped Outcome = "SKIPPED"
)

// IntakeResult describes one processing pass over a single file.
type IntakeResult struct {
	Event    FileEvent
	SrcPath  string
	DstPath  string
	Outcome  Outcome
	Modified bool
	Err      error
}
