// Package replay turns a count total into paced relative-motion events.
package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"
)

// Sink receives one motion delta per event and commits it on Flush.
type Sink interface {
	Emit(delta int) error
	Flush() error
}

// State is the replayer lifecycle.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateAborted   State = "aborted"
)

// Params is the snapshot a replay works from.
type Params struct {
	Counts      float64
	MoveStep    float64
	FrequencyHz float64
}

// Validate rejects parameters that could not terminate or could not be emitted.
func (p Params) Validate() error {
	if math.IsNaN(p.Counts) || math.IsInf(p.Counts, 0) {
		return fmt.Errorf("%w: counts must be finite, got %v", ErrInvalidReplayParameters, p.Counts)
	}
	if !(p.MoveStep > 0) || math.IsInf(p.MoveStep, 0) {
		return fmt.Errorf("%w: move step must be positive, got %v", ErrInvalidReplayParameters, p.MoveStep)
	}
	if p.MoveStep > math.MaxInt32 {
		return fmt.Errorf("%w: move step %v exceeds the device delta range", ErrInvalidReplayParameters, p.MoveStep)
	}
	if !(p.FrequencyHz > 0) || math.IsInf(p.FrequencyHz, 0) {
		return fmt.Errorf("%w: frequency must be positive, got %v", ErrInvalidReplayParameters, p.FrequencyHz)
	}
	return nil
}

// Interval is the pause after each event.
func (p Params) Interval() time.Duration {
	if p.FrequencyHz <= 0 {
		return 0
	}
	d := float64(time.Second) / p.FrequencyHz
	if d >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d)
}

// Plan returns the deltas a replay of p would emit.
func (p Params) Plan() []int {
	if p.Validate() != nil {
		return nil
	}
	var deltas []int
	for remaining := p.Counts; remaining > 0; remaining -= p.MoveStep {
		deltas = append(deltas, nextDelta(remaining, p.MoveStep))
	}
	return deltas
}

// nextDelta emits a full step until less than one step remains, then the rounded residual.
// Rounding is half-to-even.
func nextDelta(remaining, step float64) int {
	if remaining < step {
		return int(math.RoundToEven(remaining))
	}
	return int(math.RoundToEven(step))
}

// Result describes one replay.
type Result struct {
	State      State
	Events     int
	TotalDelta int
	Remaining  float64
	StartedAt  time.Time
	FinishedAt time.Time
}

// Options configure a Replayer.
type Options struct {
	Sink    Sink
	Sleeper func(context.Context, time.Duration) error
	Clock   func() time.Time
	Logger  *slog.Logger
}

// Replayer drives a Sink. At most one Run is active at a time.
type Replayer struct {
	sink    Sink
	sleeper func(context.Context, time.Duration) error
	clock   func() time.Time
	logger  *slog.Logger

	mu    sync.Mutex
	state State
	last  Result
}

// NewReplayer validates options and returns an idle replayer.
func NewReplayer(opts Options) (*Replayer, error) {
	if opts.Sink == nil {
		return nil, errors.New("motion sink must not be nil")
	}
	sleeper := opts.Sleeper
	if sleeper == nil {
		sleeper = Sleep
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Replayer{
		sink:    opts.Sink,
		sleeper: sleeper,
		clock:   clock,
		logger:  logger,
		state:   StateIdle,
	}, nil
}

// State reports idle or running.
func (r *Replayer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// LastResult returns the outcome of the most recent finished run.
func (r *Replayer) LastResult() Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Run emits p.Counts worth of motion, pausing 1/FrequencyHz after every event.
// The remaining count is decremented by the nominal step, not the emitted delta.
// A sink failure aborts without retry; cancellation is honoured between events.
func (r *Replayer) Run(ctx context.Context, p Params) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{State: StateIdle}, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	r.mu.Lock()
	if r.state == StateRunning {
		r.mu.Unlock()
		return Result{State: StateRunning}, ErrReplayInProgress
	}
	r.state = StateRunning
	r.mu.Unlock()

	res := Result{StartedAt: r.clock()}
	interval := p.Interval()
	r.logger.Info("replay started", "counts", p.Counts, "move_step", p.MoveStep, "frequency_hz", p.FrequencyHz, "planned_events", plannedEvents(p))

	err := r.loop(ctx, p, interval, &res)

	res.FinishedAt = r.clock()
	if err != nil {
		res.State = StateAborted
		r.logger.Warn("replay aborted", "error", err, "events", res.Events, "total_dx", res.TotalDelta, "remaining", res.Remaining)
	} else {
		res.State = StateCompleted
		r.logger.Info("replay completed", "events", res.Events, "total_dx", res.TotalDelta, "elapsed", res.FinishedAt.Sub(res.StartedAt))
	}

	r.mu.Lock()
	r.state = StateIdle
	r.last = res
	r.mu.Unlock()
	return res, err
}

func (r *Replayer) loop(ctx context.Context, p Params, interval time.Duration, res *Result) error {
	remaining := p.Counts
	res.Remaining = math.Max(remaining, 0)
	for remaining > 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrCancelled, err)
		}

		delta := nextDelta(remaining, p.MoveStep)
		if err := r.sink.Emit(delta); err != nil {
			return fmt.Errorf("%w: emit event %d: %w", ErrInjectionFailed, res.Events+1, err)
		}
		res.Events++
		res.TotalDelta += delta
		remaining -= p.MoveStep
		res.Remaining = math.Max(remaining, 0)

		if err := r.sink.Flush(); err != nil {
			return fmt.Errorf("%w: flush event %d: %w", ErrInjectionFailed, res.Events, err)
		}

		if err := r.sleeper(ctx, interval); err != nil {
			if remaining <= 0 {
				return nil
			}
			return fmt.Errorf("%w: %w", ErrCancelled, err)
		}
	}
	return nil
}

func plannedEvents(p Params) int {
	if p.Counts <= 0 {
		return 0
	}
	return int(math.Ceil(p.Counts / p.MoveStep))
}

// Sleep pauses for wait or until ctx ends, returning ctx's error in the latter case.
// A non-positive wait only reports whether ctx has already ended.
func Sleep(ctx context.Context, wait time.Duration) error {
	if wait <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
