// Package jobs implements the uniform job orchestrator described in
// spec §4.6: one state machine, two backends (in-process and
// durable), both driving pkg/planner.Run behind a cooperative
// cancellation signal.
package jobs

import (
	"encoding/json"
	"fmt"
)

// Status is a job's position in the state machine queued → running →
// {succeeded, failed, timeout, canceled}. Terminal states are sticky.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusTimeout   Status = "timeout"
	StatusCanceled  Status = "canceled"
)

// IsTerminal reports whether the status is final.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusTimeout, StatusCanceled:
		return true
	default:
		return false
	}
}

// IsActive reports whether the job is still queued or running.
func (s Status) IsActive() bool {
	return s == StatusQueued || s == StatusRunning
}

// Validate checks that s is one of the known states.
func (s Status) Validate() error {
	switch s {
	case StatusQueued, StatusRunning, StatusSucceeded, StatusFailed, StatusTimeout, StatusCanceled:
		return nil
	default:
		return fmt.Errorf("invalid job status: %s", s)
	}
}

// MarshalJSON renders the status as its string value.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// UnmarshalJSON parses and validates a status string.
func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = Status(str)
	return s.Validate()
}

// nextValid reports whether a transition from s to next is legal:
// forward-only, and never out of a terminal state.
func (s Status) nextValid(next Status) bool {
	if s.IsTerminal() {
		return false
	}
	switch s {
	case StatusQueued:
		return next == StatusRunning || next == StatusCanceled
	case StatusRunning:
		return next == StatusSucceeded || next == StatusFailed ||
			next == StatusTimeout || next == StatusCanceled
	default:
		return false
	}
}
