package imagegen

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// State is the lifecycle of one asynchronous image job. A job starts
// Submitted and reaches exactly one terminal state per invocation.
type State int

const (
	StateSubmitted State = iota
	StateCompleted
	StateFailed
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateSubmitted:
		return "submitted"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateTimedOut:
		return "timed_out"
	}
	return "unknown"
}

// Terminal reports whether no further polling can change the state.
func (s State) Terminal() bool {
	return s != StateSubmitted
}

// Next computes the successor state for one status observation. Terminal
// states absorb all observations. Anything other than a completed result
// with an image, or an explicit failure, keeps the job in Submitted.
func Next(s State, obs TaskState) State {
	if s.Terminal() {
		return s
	}
	switch {
	case obs.Status == "completed" && obs.ImageURL != "":
		return StateCompleted
	case obs.Status == "failed":
		return StateFailed
	}
	return StateSubmitted
}

// statusReader is the one Client method the poller needs.
type statusReader interface {
	TaskStatus(ctx context.Context, taskID string) (*TaskState, error)
}

// Poller drives one job to a terminal state: a status check every interval,
// at most maxAttempts checks, strictly sequential. Checks that fail on
// transport level are logged and consume an attempt rather than aborting,
// so every invocation still ends in exactly one terminal state.
type Poller struct {
	status      statusReader
	interval    time.Duration
	maxAttempts int
	logger      *slog.Logger
}

const (
	defaultInterval    = 2 * time.Second
	defaultMaxAttempts = 10
)

func NewPoller(status statusReader, logger *slog.Logger) *Poller {
	return &Poller{
		status:      status,
		interval:    defaultInterval,
		maxAttempts: defaultMaxAttempts,
		logger:      logger,
	}
}

// Wait blocks until the job completes, fails, or the attempt budget runs
// out. It returns the result image URL on completion, ErrJobFailed or
// ErrJobTimedOut otherwise.
func (p *Poller) Wait(ctx context.Context, taskID string) (string, error) {
	state := StateSubmitted

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		obs, err := p.status.TaskStatus(ctx, taskID)
		if err != nil {
			p.logger.Warn("task status check failed",
				"task_id", taskID, "attempt", attempt, "error", err)
		} else {
			p.logger.Debug("task status",
				"task_id", taskID, "attempt", attempt, "status", obs.Status)
			state = Next(state, *obs)
		}

		switch state {
		case StateCompleted:
			return obs.ImageURL, nil
		case StateFailed:
			return "", fmt.Errorf("%w: task %s", ErrJobFailed, taskID)
		}

		if attempt < p.maxAttempts {
			select {
			case <-time.After(p.interval):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	return "", fmt.Errorf("%w: task %s after %d attempts",
		ErrJobTimedOut, taskID, p.maxAttempts)
}
