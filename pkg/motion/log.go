package motion

import (
	"io"
	"log/slog"
	"sync"
)

// LogSink logs every committed batch instead of moving the pointer.
type LogSink struct {
	mu      sync.Mutex
	logger  *slog.Logger
	pending int
	events  int
	total   int
	closed  bool
}

// NewLogSink returns a dry-run sink. A nil logger discards output.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Emit(delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return injectionError("emit", ErrClosed)
	}
	s.pending += delta
	s.events++
	s.total += delta
	return nil
}

func (s *LogSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return injectionError("flush", ErrClosed)
	}
	s.logger.Debug("motion flushed", "dx", s.pending, "events", s.events, "total_dx", s.total)
	s.pending = 0
	return nil
}

func (s *LogSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.logger.Info("dry-run motion session closed", "events", s.events, "total_dx", s.total)
	return nil
}
