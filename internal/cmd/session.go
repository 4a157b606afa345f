package cmd

import (
	"fmt"
	"time"

	"github.com/offlinefirst/sensmatch/pkg/motion"
	"github.com/offlinefirst/sensmatch/pkg/replay"
	"github.com/offlinefirst/sensmatch/pkg/sensitivity"
)

const deviceName = "sensmatch virtual pointer"

var (
	timeNow = time.Now
	// openSink and sleep are swapped in tests.
	openSink = motion.Open
	sleep    = replay.Sleep
)

// openSession acquires the process-wide motion sink. dryRun forces the log backend.
func openSession(ctx *AppContext, dryRun bool) (motion.Sink, motion.Backend, error) {
	backend, err := motion.ParseBackend(ctx.Config.Replay.Backend)
	if err != nil {
		return nil, "", err
	}
	if dryRun {
		backend = motion.BackendLog
	}
	sink, err := openSink(backend, motion.Options{
		Logger:     ctx.Logger,
		DevicePath: ctx.Config.Replay.Device,
		DeviceName: deviceName,
	})
	if err != nil {
		return nil, backend, fmt.Errorf("open %s motion sink: %w", backend, err)
	}
	return sink, backend, nil
}

func newReplayer(ctx *AppContext, sink motion.Sink) (*replay.Replayer, error) {
	return replay.NewReplayer(replay.Options{
		Sink:    sink,
		Sleeper: sleep,
		Clock:   timeNow,
		Logger:  ctx.Logger,
	})
}

func paramsFrom(s sensitivity.Snapshot) replay.Params {
	return replay.Params{
		Counts:      s.CountsPer360,
		MoveStep:    s.MoveStep,
		FrequencyHz: s.EventFrequencyHz,
	}
}
