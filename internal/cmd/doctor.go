package cmd

import (
	"flag"
	"fmt"
	"io"

	"github.com/offlinefirst/sensmatch/pkg/config"
	"github.com/offlinefirst/sensmatch/pkg/motion"
	"github.com/offlinefirst/sensmatch/pkg/permissions"
)

func newDoctorCommand() command {
	return command{
		name:        "doctor",
		description: "Check motion backend availability and the loaded profile",
		run:         runDoctor,
	}
}

// lookupEnv is swapped in tests.
var lookupEnv permissions.LookupEnvFunc = permissions.DefaultLookupEnv

func runDoctor(fs *flag.FlagSet, args []string, ctx *AppContext, stdout io.Writer, stderr io.Writer) error {
	if ctx == nil {
		return fmt.Errorf("application context unavailable")
	}

	env := motion.DetectEnvironment(ctx.Config.Replay.Device, lookupEnv)
	ctx.Logger.Info("doctor command invoked", "provider", env.Provider, "available", env.Available, "permission", env.Permission)

	fmt.Fprintf(stdout, "Config: %s\n", ctx.Config.Source)
	fmt.Fprintf(stdout, "Motion backend: configured=%s usable=%s\n", ctx.Config.Replay.Backend, env.Provider)
	fmt.Fprintf(stdout, "  uinput %s: permission=%s available=%t", env.Device, env.Permission, env.Available)
	if env.Message != "" {
		fmt.Fprintf(stdout, " (%s)", env.Message)
	}
	fmt.Fprintln(stdout)
	if env.Guidance != "" {
		fmt.Fprintf(stdout, "  hint: %s\n", env.Guidance)
	}
	if !env.Available && ctx.Config.Replay.Backend == string(motion.BackendUinput) {
		fmt.Fprintln(stdout, "  spin and listen will fail until uinput is writable; use --dry-run to test")
	}

	path := ctx.Config.Profile.Path
	if path == "" {
		path = config.DefaultProfilePath()
	}
	if ctx.ProfileLoaded {
		fmt.Fprintf(stdout, "Profile: loaded from %s (sens %s, yaw %s, cpi %d)\n", ctx.Profile.Source, formatFloat(ctx.Profile.Sensitivity), formatFloat(ctx.Profile.YawPerCount), ctx.Profile.CPI)
	} else {
		fmt.Fprintf(stdout, "Profile: not loaded from %s, built-in defaults in use\n", path)
	}
	fmt.Fprintf(stdout, "Replay: move_step=%s frequency_hz=%s policy=%s hotkey=%q\n", formatFloat(ctx.Config.Replay.MoveStep), formatFloat(ctx.Config.Replay.FrequencyHz), ctx.Config.Replay.Policy, ctx.Config.Replay.Hotkey)
	return nil
}
