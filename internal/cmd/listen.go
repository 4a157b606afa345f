package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/offlinefirst/sensmatch/pkg/console"
	"github.com/offlinefirst/sensmatch/pkg/replay"
	"github.com/offlinefirst/sensmatch/pkg/sensitivity"
	"github.com/offlinefirst/sensmatch/pkg/trigger"
)

func newListenCommand() command {
	return command{
		name:        "listen",
		description: "Hold the motion session open and replay on hotkey or SIGUSR1",
		configure: func(fs *flag.FlagSet) {
			fs.Bool("headless", false, "Skip the terminal UI; replay the startup model on every SIGUSR1")
			fs.Bool("dry-run", false, "Log the motion instead of moving the pointer")
			fs.String("policy", "", "Trigger policy while a replay runs (drop, restart)")
			fs.String("signals", "USR1", "Comma-separated signals that trigger a replay")
		},
		run: runListen,
	}
}

// triggerSource is swapped in tests.
var triggerSource = trigger.SignalSources

func runListen(fs *flag.FlagSet, args []string, ctx *AppContext, stdout io.Writer, stderr io.Writer) error {
	if ctx == nil {
		return fmt.Errorf("application context unavailable")
	}

	policyName := ctx.Config.Replay.Policy
	if p := stringFlag(fs, "policy"); p != "" {
		policyName = p
	}
	policy, err := replay.ParsePolicy(policyName)
	if err != nil {
		return err
	}

	m, err := ctx.NewModel()
	if err != nil {
		return err
	}

	source, sourceErr := triggerSource(strings.Split(stringFlag(fs, "signals"), ",")...)
	if sourceErr != nil && !errors.Is(sourceErr, trigger.ErrUnsupported) {
		return sourceErr
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

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var program *tea.Program
	dispatcher, err := replay.NewDispatcher(replay.DispatcherOptions{
		Replayer: replayer,
		Policy:   policy,
		Logger:   ctx.Logger,
		OnResult: func(_ replay.Params, res replay.Result, err error) {
			if program != nil {
				program.Send(console.ResultMsg{Result: res, Err: err})
				return
			}
			printResult(stdout, res)
		},
	})
	if err != nil {
		return err
	}
	defer dispatcher.Close()

	ctx.Logger.Info("listen command invoked", "backend", backend, "policy", policy, "headless", boolFlag(fs, "headless"), "pid", os.Getpid())

	if boolFlag(fs, "headless") {
		if sourceErr != nil {
			return fmt.Errorf("headless listen: %w", sourceErr)
		}
		return listenHeadless(runCtx, ctx, source, dispatcher, paramsFrom(m.Snapshot()), stdout)
	}

	program = tea.NewProgram(console.New(console.Options{
		Model:   m,
		Presets: ctx.Presets,
		Hotkey:  ctx.Config.Replay.Hotkey,
		Dispatch: func(s sensitivity.Snapshot) error {
			return dispatcher.Trigger(runCtx, paramsFrom(s))
		},
		Cancel: dispatcher.Cancel,
	}), tea.WithContext(runCtx), tea.WithAltScreen())

	listenCtx, cancelListen := context.WithCancel(runCtx)
	defer cancelListen()
	if sourceErr != nil {
		ctx.Logger.Debug("signal trigger unavailable", "error", sourceErr)
	} else {
		go func() {
			err := source.Listen(listenCtx, func() {
				program.Send(console.TriggerMsg{Source: "signal"})
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				ctx.Logger.Warn("signal trigger stopped", "error", err)
			}
		}()
	}

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("console: %w", err)
	}
	return nil
}

// listenHeadless replays a snapshot taken at startup on every trigger until runCtx ends.
func listenHeadless(runCtx context.Context, ctx *AppContext, source trigger.Source, dispatcher *replay.Dispatcher, params replay.Params, stdout io.Writer) error {
	if err := params.Validate(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Listening for trigger signals (pid %d), ctrl+c to exit\n", os.Getpid())

	err := source.Listen(runCtx, func() {
		if err := dispatcher.Trigger(runCtx, params); err != nil {
			if errors.Is(err, replay.ErrBusy) {
				return
			}
			ctx.Logger.Warn("trigger rejected", "error", err)
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
