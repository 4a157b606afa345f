package cmd

import (
	"flag"
	"fmt"
	"io"

	"github.com/offlinefirst/sensmatch/internal/buildinfo"
)

func newVersionCommand() command {
	return command{
		name:        "version",
		description: "Print the CLI version information",
		skipInit:    true,
		configure: func(fs *flag.FlagSet) {
			fs.Bool("short", false, "Print only the version")
		},
		run: func(fs *flag.FlagSet, args []string, ctx *AppContext, stdout io.Writer, stderr io.Writer) error {
			if boolFlag(fs, "short") {
				_, err := fmt.Fprintln(stdout, buildinfo.Version())
				return err
			}
			line := versionString()
			if rev := buildinfo.Revision(); rev != "" {
				line += " rev " + rev
			}
			_, err := fmt.Fprintln(stdout, line)
			return err
		},
	}
}
