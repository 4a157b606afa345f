//go:build unix

package trigger

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestSignalSourceFiresOnSIGUSR1(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// SIGUSR1 terminates the process unless someone is subscribed.
	guard := make(chan os.Signal, 16)
	signal.Notify(guard, unix.SIGUSR1)
	defer signal.Stop(guard)

	var fired atomic.Int32
	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(ready)
		done <- NewSignalSource().Listen(ctx, func() { fired.Add(1) })
	}()
	<-ready

	require.Eventually(t, func() bool {
		if fired.Load() > 0 {
			return true
		}
		_ = unix.Kill(unix.Getpid(), unix.SIGUSR1)
		return false
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatalf("signal source did not stop")
	}
}

func TestSignalSourcesParsesNames(t *testing.T) {
	src, err := SignalSources()
	require.NoError(t, err)
	assert.Equal(t, unix.SIGUSR1, src.(SignalSource).Signal)

	src, err = SignalSources(" usr2 ")
	require.NoError(t, err)
	assert.Equal(t, unix.SIGUSR2, src.(SignalSource).Signal)

	src, err = SignalSources("USR1", "SIGUSR2")
	require.NoError(t, err)
	_, merged := src.(SourceFunc)
	assert.True(t, merged)

	_, err = SignalSources("NOPE")
	assert.Error(t, err)

	_, err = SignalSources("kill")
	assert.Error(t, err)
}
