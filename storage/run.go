package storage

import (
	"errors"
	"time"
)

// Run lifecycle states
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusError     = "error"
)

// ErrNotFound is returned when a run or a game's pitches are not stored
var ErrNotFound = errors.New("not found")

// Run is a batch reduction request and its progress
type Run struct {
	ID             string     `json:"run_id"`
	Status         string     `json:"status"`
	TotalGames     int        `json:"total_games"`
	CompletedGames int        `json:"completed_games"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// IsTerminal reports whether the run has stopped making progress
func (r *Run) IsTerminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusError
}
