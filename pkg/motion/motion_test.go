package motion

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBackend(t *testing.T) {
	b, err := ParseBackend("")
	require.NoError(t, err)
	assert.Equal(t, BackendUinput, b)

	b, err = ParseBackend(" Dry-Run ")
	require.NoError(t, err)
	assert.Equal(t, BackendLog, b)

	_, err = ParseBackend("xtest")
	assert.Error(t, err)
}

func TestRecorderCommitsOnFlush(t *testing.T) {
	r := NewRecorder()

	require.NoError(t, r.Emit(480))
	require.NoError(t, r.Emit(40))
	assert.Empty(t, r.Flushed())
	assert.Equal(t, []int{480, 40}, r.Emitted())

	require.NoError(t, r.Flush())
	assert.Equal(t, []int{480, 40}, r.Flushed())

	emits, flushes := r.Calls()
	assert.Equal(t, 2, emits)
	assert.Equal(t, 1, flushes)
}

func TestRecorderInjectedFailure(t *testing.T) {
	boom := errors.New("display gone")
	r := NewRecorder()
	r.EmitErr = func(call, _ int) error {
		if call == 2 {
			return boom
		}
		return nil
	}

	require.NoError(t, r.Emit(1))
	err := r.Emit(2)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, ErrInjection)

	var injErr *InjectionError
	require.ErrorAs(t, err, &injErr)
	assert.Equal(t, "emit", injErr.Op)
	assert.Equal(t, []int{1}, r.Emitted())
}

func TestClosedSinksReject(t *testing.T) {
	for name, sink := range map[string]Sink{"recorder": NewRecorder(), "log": NewLogSink(nil)} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, sink.Close())
			assert.ErrorIs(t, sink.Emit(1), ErrClosed)
			assert.ErrorIs(t, sink.Flush(), ErrClosed)
		})
	}
}

func TestLogSinkReportsTotals(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))

	sink, err := Open(BackendLog, Options{Logger: logger})
	require.NoError(t, err)

	require.NoError(t, sink.Emit(480))
	require.NoError(t, sink.Flush())
	require.NoError(t, sink.Emit(40))
	require.NoError(t, sink.Flush())
	require.NoError(t, sink.Close())
	require.NoError(t, sink.Close())

	logged := out.String()
	assert.Contains(t, logged, "dx=480")
	assert.Contains(t, logged, "total_dx=520")
	assert.Equal(t, 1, strings.Count(logged, "session closed"))
}

func TestDetectEnvironmentFallsBackToLog(t *testing.T) {
	lookup := func(key string) (string, bool) {
		if key == "SENSMATCH_UINPUT" {
			return "denied", true
		}
		return "", false
	}
	env := DetectEnvironment("", lookup)
	assert.False(t, env.Available)
	assert.Equal(t, BackendLog, env.Provider)
	assert.Equal(t, "denied", env.Permission)
	assert.Equal(t, "/dev/uinput", env.Device)

	granted := func(string) (string, bool) { return "granted", true }
	env = DetectEnvironment("/dev/input/uinput", granted)
	assert.True(t, env.Available)
	assert.Equal(t, BackendUinput, env.Provider)
	assert.Equal(t, "/dev/input/uinput", env.Device)
}
