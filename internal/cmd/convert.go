package cmd

import (
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/offlinefirst/sensmatch/pkg/presets"
	"github.com/offlinefirst/sensmatch/pkg/sensitivity"
)

func newConvertCommand() command {
	return command{
		name:        "convert",
		description: "Print the conversion model, optionally carrying it to another game",
		configure: func(fs *flag.FlagSet) {
			fs.Float64("sens", 0, "In-game sensitivity")
			fs.Float64("yaw", 0, "Degrees per count of the source game")
			fs.String("preset", "", "Source game preset; sensitivity is kept as given (see `sensmatch presets`)")
			fs.Float64("to-yaw", 0, "Degrees per count of the target game")
			fs.String("to-preset", "", "Target game preset; the increment is held")
			fs.Int("cpi", 0, "Mouse counts per inch")
		},
		run: runConvert,
	}
}

func runConvert(fs *flag.FlagSet, args []string, ctx *AppContext, stdout io.Writer, stderr io.Writer) error {
	if ctx == nil {
		return fmt.Errorf("application context unavailable")
	}
	set := flagsSet(fs)

	m, err := ctx.NewModel()
	if err != nil {
		return err
	}

	source, err := resolveYaw(ctx.Presets, set, fs, "yaw", "preset")
	if err != nil {
		return err
	}
	if source != nil {
		if _, err := m.SetYawPerCount(*source); err != nil {
			return fmt.Errorf("yaw: %w", err)
		}
	}
	if set["sens"] {
		if _, err := m.SetSensitivity(floatFlag(fs, "sens")); err != nil {
			return fmt.Errorf("sens: %w", err)
		}
	}
	if set["cpi"] {
		if _, err := m.SetCPI(intFlag(fs, "cpi")); err != nil {
			return fmt.Errorf("cpi: %w", err)
		}
	}

	target, err := resolveYaw(ctx.Presets, set, fs, "to-yaw", "to-preset")
	if err != nil {
		return err
	}

	ctx.Logger.Debug("convert command invoked", "sensitivity", m.Sensitivity, "yaw", m.YawPerCount, "cpi", m.CPI, "target", target != nil)

	if target == nil {
		printModel(stdout, ctx.Presets, m)
		return nil
	}

	fmt.Fprintln(stdout, "From:")
	printModel(stdout, ctx.Presets, m)
	if _, err := m.SelectPreset(*target); err != nil {
		return fmt.Errorf("target yaw: %w", err)
	}
	fmt.Fprintln(stdout, "To (increment held):")
	printModel(stdout, ctx.Presets, m)
	return nil
}

// resolveYaw returns the yaw named by either the numeric flag or the preset
// flag, or nil when neither was given.
func resolveYaw(table *presets.Table, set map[string]bool, fs *flag.FlagSet, yawFlag, presetFlag string) (*float64, error) {
	switch {
	case set[yawFlag] && set[presetFlag]:
		return nil, fmt.Errorf("--%s and --%s are mutually exclusive", yawFlag, presetFlag)
	case set[yawFlag]:
		v := floatFlag(fs, yawFlag)
		return &v, nil
	case set[presetFlag]:
		name := stringFlag(fs, presetFlag)
		v, ok := table.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown preset %q", name)
		}
		return &v, nil
	}
	return nil, nil
}

func printModel(w io.Writer, table *presets.Table, m *sensitivity.Model) {
	snap := m.Snapshot()
	fmt.Fprintf(w, "  preset:       %s\n", table.NameFor(snap.YawPerCount))
	fmt.Fprintf(w, "  sensitivity:  %s\n", formatFloat(snap.Sensitivity))
	fmt.Fprintf(w, "  yaw:          %s deg/count\n", formatFloat(snap.YawPerCount))
	fmt.Fprintf(w, "  increment:    %s deg/count\n", formatFloat(snap.IncrementDegrees))
	fmt.Fprintf(w, "  counts/360:   %s\n", formatFloat(snap.CountsPer360))
	fmt.Fprintf(w, "  cpi:          %d\n", snap.CPI)
	fmt.Fprintf(w, "  cm/360:       %s\n", formatFloat(snap.PhysicalDistanceCm))
	if snap.IncrementDegrees == 0 || snap.CPI == 0 {
		fmt.Fprintln(w, "  note: a zero divisor was hit; affected values are reported as 0")
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
