// Package scheduler runs background maintenance jobs on a fixed
// interval, such as pruning old operation history.
package scheduler

import (
	"context"
	"time"
)

// Job is a unit of periodic work.
type Job interface {
	// Run executes one pass of the job
	Run(ctx context.Context) error
}

// JobFunc adapts a function to the Job interface.
type JobFunc func(ctx context.Context) error

func (f JobFunc) Run(ctx context.Context) error { return f(ctx) }

// Status represents the current state of a scheduler
type Status struct {
	Running        bool
	LastRunTime    time.Time
	NextRunTime    time.Time
	TotalRuns      int
	SuccessfulRuns int
	FailedRuns     int
	LastError      string
}
