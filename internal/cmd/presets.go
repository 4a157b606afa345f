package cmd

import (
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
)

func newPresetsCommand() command {
	return command{
		name:        "presets",
		description: "List game presets and their degrees per count",
		run: func(fs *flag.FlagSet, args []string, ctx *AppContext, stdout io.Writer, stderr io.Writer) error {
			if ctx == nil {
				return fmt.Errorf("application context unavailable")
			}
			tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tYAW")
			for _, p := range ctx.Presets.All() {
				fmt.Fprintf(tw, "%s\t%s\n", p.Name, formatFloat(p.Yaw))
			}
			return tw.Flush()
		},
	}
}
