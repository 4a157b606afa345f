//go:build unix

package trigger

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"golang.org/x/sys/unix"
)

// SignalSource fires on SIGUSR1, so any desktop hotkey daemon can trigger a
// replay with `pkill -USR1 sensmatch`.
type SignalSource struct {
	Signal os.Signal
}

// NewSignalSource listens for SIGUSR1.
func NewSignalSource() SignalSource {
	return SignalSource{Signal: unix.SIGUSR1}
}

func (s SignalSource) Listen(ctx context.Context, fire func()) error {
	sig := s.Signal
	if sig == nil {
		sig = unix.SIGUSR1
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sig)
	defer signal.Stop(ch)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
			fire()
		}
	}
}

// SignalSources listens on every named signal ("USR1", "SIGUSR2", ...).
// No names means SIGUSR1.
func SignalSources(names ...string) (Source, error) {
	sources := make([]Source, 0, len(names))
	for _, name := range names {
		canonical := strings.ToUpper(strings.TrimSpace(name))
		if canonical == "" {
			continue
		}
		if !strings.HasPrefix(canonical, "SIG") {
			canonical = "SIG" + canonical
		}
		sig := unix.SignalNum(canonical)
		if sig == 0 {
			return nil, fmt.Errorf("unknown signal %q", name)
		}
		if sig == unix.SIGKILL || sig == unix.SIGSTOP {
			return nil, fmt.Errorf("signal %s cannot be caught", canonical)
		}
		sources = append(sources, SignalSource{Signal: sig})
	}
	switch len(sources) {
	case 0:
		return NewSignalSource(), nil
	case 1:
		return sources[0], nil
	}
	return Merge(sources...), nil
}
