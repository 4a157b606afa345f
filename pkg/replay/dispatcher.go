package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Policy decides what happens to a trigger that arrives while a replay runs.
type Policy string

const (
	// PolicyDrop ignores triggers while a replay is running.
	PolicyDrop Policy = "drop"
	// PolicyRestart cancels the running replay, waits for it to release the
	// sink, then starts the new one.
	PolicyRestart Policy = "restart"
)

// ParsePolicy canonicalizes a policy name.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "drop":
		return PolicyDrop, nil
	case "restart", "cancel-and-restart":
		return PolicyRestart, nil
	default:
		return "", fmt.Errorf("unsupported trigger policy %q", name)
	}
}

// DispatcherOptions configure a Dispatcher.
type DispatcherOptions struct {
	Replayer *Replayer
	Policy   Policy
	Logger   *slog.Logger
	// OnResult is called from the replay goroutine after each run.
	OnResult func(Params, Result, error)
}

// Dispatcher hands triggers to a background replay goroutine so the caller
// (hotkey or UI loop) never blocks, and keeps at most one replay active.
type Dispatcher struct {
	replayer *Replayer
	policy   Policy
	logger   *slog.Logger
	onResult func(Params, Result, error)

	mu      sync.Mutex
	current *flight
	closed  bool
	wg      sync.WaitGroup
}

type flight struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewDispatcher validates options and returns an idle dispatcher.
func NewDispatcher(opts DispatcherOptions) (*Dispatcher, error) {
	if opts.Replayer == nil {
		return nil, errors.New("replayer must not be nil")
	}
	policy := opts.Policy
	if policy == "" {
		policy = PolicyDrop
	}
	if _, err := ParsePolicy(string(policy)); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{
		replayer: opts.Replayer,
		policy:   policy,
		logger:   logger,
		onResult: opts.OnResult,
	}, nil
}

// Policy reports the configured trigger policy.
func (d *Dispatcher) Policy() Policy {
	return d.policy
}

// Trigger starts a replay of p under ctx and returns without waiting for it.
// Invalid parameters are reported synchronously and never start a replay.
func (d *Dispatcher) Trigger(ctx context.Context, p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	d.mu.Lock()
	for {
		if d.closed {
			d.mu.Unlock()
			return ErrDispatcherClosed
		}
		prev := d.current
		if prev == nil {
			break
		}
		if d.policy == PolicyDrop {
			d.mu.Unlock()
			d.logger.Info("trigger dropped", "reason", "replay in progress")
			return ErrBusy
		}
		prev.cancel()
		d.mu.Unlock()
		d.logger.Info("restarting replay")
		<-prev.done
		d.mu.Lock()
	}

	runCtx, cancel := context.WithCancel(ctx)
	f := &flight{cancel: cancel, done: make(chan struct{})}
	d.current = f
	d.wg.Add(1)
	d.mu.Unlock()

	go d.run(runCtx, f, p)
	return nil
}

func (d *Dispatcher) run(ctx context.Context, f *flight, p Params) {
	defer d.wg.Done()

	res, err := d.replayer.Run(ctx, p)
	f.cancel()

	d.mu.Lock()
	if d.current == f {
		d.current = nil
	}
	d.mu.Unlock()
	close(f.done)

	if d.onResult != nil {
		d.onResult(p, res, err)
	}
}

// Running reports whether a replay is in flight.
func (d *Dispatcher) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current != nil
}

// Cancel stops the in-flight replay, if any, at its next suspension point.
func (d *Dispatcher) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current == nil {
		return false
	}
	d.current.cancel()
	return true
}

// Close cancels any running replay and waits for it to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	if d.current != nil {
		d.current.cancel()
	}
	d.mu.Unlock()
	d.wg.Wait()
}
