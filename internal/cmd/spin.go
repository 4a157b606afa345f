package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/offlinefirst/sensmatch/pkg/replay"
)

func newSpinCommand() command {
	return command{
		name:        "spin",
		description: "Replay one full 360 of the current model after a short delay",
		configure: func(fs *flag.FlagSet) {
			fs.Duration("delay", 0, "Wait before spinning (default: replay.start_delay_ms)")
			fs.Bool("dry-run", false, "Log the motion instead of moving the pointer")
			fs.Float64("sens", 0, "Override the in-game sensitivity")
			fs.Float64("yaw", 0, "Degrees per count of the game being spun in")
			fs.String("preset", "", "Game being spun in; sensitivity is kept as given")
		},
		run: runSpin,
	}
}

func runSpin(fs *flag.FlagSet, args []string, ctx *AppContext, stdout io.Writer, stderr io.Writer) error {
	if ctx == nil {
		return fmt.Errorf("application context unavailable")
	}
	set := flagsSet(fs)

	m, err := ctx.NewModel()
	if err != nil {
		return err
	}
	yaw, err := resolveYaw(ctx.Presets, set, fs, "yaw", "preset")
	if err != nil {
		return err
	}
	if yaw != nil {
		if _, err := m.SetYawPerCount(*yaw); err != nil {
			return fmt.Errorf("yaw: %w", err)
		}
	}
	if set["sens"] {
		if _, err := m.SetSensitivity(floatFlag(fs, "sens")); err != nil {
			return fmt.Errorf("sens: %w", err)
		}
	}
	params := paramsFrom(m.Snapshot())
	if err := params.Validate(); err != nil {
		return err
	}

	delay := time.Duration(ctx.Config.Replay.StartDelayMs) * time.Millisecond
	if set["delay"] {
		delay = durationFlag(fs, "delay")
	}

	sink, backend, err := openSession(ctx, boolFlag(fs, "dry-run"))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil {
			ctx.Logger.Warn("close motion sink", "error", cerr)
		}
	}()

	replayer, err := newReplayer(ctx, sink)
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ctx.Logger.Info("spin command invoked", "backend", backend, "counts", params.Counts, "move_step", params.MoveStep, "frequency_hz", params.FrequencyHz, "delay", delay)
	fmt.Fprintf(stdout, "Spinning %s counts in %d events at %s Hz (backend: %s)\n", formatFloat(params.Counts), len(params.Plan()), formatFloat(params.FrequencyHz), backend)
	if delay > 0 {
		fmt.Fprintf(stdout, "Starting in %s, focus the game window...\n", delay)
		if err := sleep(runCtx, delay); err != nil {
			fmt.Fprintln(stdout, "Cancelled before start")
			return nil
		}
	}

	res, err := replayer.Run(runCtx, params)
	printResult(stdout, res)
	if err != nil {
		if errors.Is(err, replay.ErrCancelled) {
			return nil
		}
		return fmt.Errorf("spin: %w", err)
	}
	return nil
}

func printResult(w io.Writer, res replay.Result) {
	fmt.Fprintf(w, "Replay %s: %d events, %d counts", res.State, res.Events, res.TotalDelta)
	if !res.FinishedAt.IsZero() {
		fmt.Fprintf(w, " in %s", res.FinishedAt.Sub(res.StartedAt).Round(time.Millisecond))
	}
	fmt.Fprintln(w)
}
