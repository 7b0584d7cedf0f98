// Package state records validation runs in a SQLite history database.
package state

import (
	"errors"
	"time"
)

// ErrRunNotFound is returned when a run ID is unknown.
var ErrRunNotFound = errors.New("run not found")

// RunStatus is the outcome of a validation run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning RunStatus = "running"
	RunStatusPassed  RunStatus = "passed"
	RunStatusFailed  RunStatus = "failed"
)

// RunSummary is recorded when a run completes.
type RunSummary struct {
	Models       int
	Declarations int
	// ErrorCode and Error describe the first failure of a failed run.
	ErrorCode string
	Error     string
}

// Run is one recorded invocation of the validator.
type Run struct {
	ID          string
	Source      string
	Status      RunStatus
	StartedAt   time.Time
	CompletedAt *time.Time
	Summary     RunSummary
}

// Duration returns how long the run took, or zero while it is running.
func (r *Run) Duration() time.Duration {
	if r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// Store persists validation runs.
type Store interface {
	CreateRun(source string) (*Run, error)
	CompleteRun(id string, status RunStatus, summary RunSummary) error
	GetRun(id string) (*Run, error)
	GetLatestRun() (*Run, error)
	ListRuns(limit int) ([]*Run, error)
	Close() error
}
