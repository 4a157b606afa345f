// Package motion injects synthetic relative pointer motion. A Sink is a
// single process-wide session: open it once at startup, hand it to the
// replayer, and close it at shutdown.
package motion

import (
	"fmt"
	"log/slog"
	"strings"
)

// Sink accepts horizontal pointer deltas. Emit queues an event and Flush
// commits everything queued since the previous flush.
type Sink interface {
	Emit(delta int) error
	Flush() error
	Close() error
}

// Backend identifies a sink implementation.
type Backend string

const (
	// BackendUinput writes to a virtual pointer created through /dev/uinput.
	BackendUinput Backend = "uinput"
	// BackendLog only logs deltas, for dry runs.
	BackendLog Backend = "log"
)

// Options configure Open.
type Options struct {
	Logger     *slog.Logger
	DevicePath string
	DeviceName string
}

// ParseBackend canonicalizes a backend name.
func ParseBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "uinput":
		return BackendUinput, nil
	case "log", "dry-run", "dryrun":
		return BackendLog, nil
	default:
		return "", fmt.Errorf("unsupported motion backend %q", name)
	}
}

// Open acquires the sink session for backend. The caller owns the returned
// sink and must Close it.
func Open(backend Backend, opts Options) (Sink, error) {
	switch backend {
	case BackendUinput:
		return openUinput(opts)
	case BackendLog:
		return NewLogSink(opts.Logger), nil
	default:
		return nil, fmt.Errorf("unsupported motion backend %q", backend)
	}
}
