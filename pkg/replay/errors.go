package replay

import "errors"

var (
	// ErrInvalidReplayParameters is returned before any event is emitted.
	ErrInvalidReplayParameters = errors.New("invalid replay parameters")
	// ErrInjectionFailed wraps a sink failure that aborted a replay.
	ErrInjectionFailed = errors.New("motion injection failed")
	// ErrCancelled wraps the context error of a replay stopped between events.
	ErrCancelled = errors.New("replay cancelled")
	// ErrReplayInProgress is returned when Run is called while another run holds the sink.
	ErrReplayInProgress = errors.New("replay already in progress")
	// ErrBusy is returned by a dropping dispatcher when a trigger arrives mid-replay.
	ErrBusy = errors.New("replay busy; trigger dropped")
	// ErrDispatcherClosed is returned by Trigger after Close.
	ErrDispatcherClosed = errors.New("dispatcher closed")
)
