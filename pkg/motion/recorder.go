package motion

import "sync"

// Recorder is an in-memory Sink. Deltas become visible in Flushed only after Flush.
type Recorder struct {
	mu      sync.Mutex
	pending []int
	flushed []int
	flushes int
	closed  bool

	// EmitErr and FlushErr, when set, are consulted before each call.
	EmitErr  func(call int, delta int) error
	FlushErr func(call int) error

	emits int
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return injectionError("emit", ErrClosed)
	}
	r.emits++
	if r.EmitErr != nil {
		if err := r.EmitErr(r.emits, delta); err != nil {
			return injectionError("emit", err)
		}
	}
	r.pending = append(r.pending, delta)
	return nil
}

func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return injectionError("flush", ErrClosed)
	}
	r.flushes++
	if r.FlushErr != nil {
		if err := r.FlushErr(r.flushes); err != nil {
			return injectionError("flush", err)
		}
	}
	r.flushed = append(r.flushed, r.pending...)
	r.pending = r.pending[:0]
	return nil
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return nil
}

// Emitted returns every delta accepted by Emit, flushed or not.
func (r *Recorder) Emitted() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]int(nil), r.flushed...)
	return append(out, r.pending...)
}

// Flushed returns deltas committed by Flush.
func (r *Recorder) Flushed() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.flushed...)
}

// Calls reports how many Emit and Flush calls were made.
func (r *Recorder) Calls() (emits, flushes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.emits, r.flushes
}
