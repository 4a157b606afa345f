//go:build !unix

package trigger

import (
	"context"
	"os"
)

// SignalSource is unavailable without SIGUSR1.
type SignalSource struct {
	Signal os.Signal
}

func NewSignalSource() SignalSource {
	return SignalSource{}
}

func (SignalSource) Listen(context.Context, func()) error {
	return ErrUnsupported
}

func SignalSources(...string) (Source, error) {
	return nil, ErrUnsupported
}
