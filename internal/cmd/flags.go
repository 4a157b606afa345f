package cmd

import (
	"flag"
	"strconv"
	"time"
)

func boolFlag(fs *flag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	if f == nil {
		return false
	}
	value, err := strconv.ParseBool(f.Value.String())
	if err != nil {
		return false
	}
	return value
}

func stringFlag(fs *flag.FlagSet, name string) string {
	f := fs.Lookup(name)
	if f == nil {
		return ""
	}
	return f.Value.String()
}

func floatFlag(fs *flag.FlagSet, name string) float64 {
	if g, ok := lookupGetter(fs, name); ok {
		if v, ok := g.Get().(float64); ok {
			return v
		}
	}
	return 0
}

func intFlag(fs *flag.FlagSet, name string) int {
	if g, ok := lookupGetter(fs, name); ok {
		if v, ok := g.Get().(int); ok {
			return v
		}
	}
	return 0
}

func durationFlag(fs *flag.FlagSet, name string) time.Duration {
	if g, ok := lookupGetter(fs, name); ok {
		if v, ok := g.Get().(time.Duration); ok {
			return v
		}
	}
	return 0
}

func lookupGetter(fs *flag.FlagSet, name string) (flag.Getter, bool) {
	f := fs.Lookup(name)
	if f == nil {
		return nil, false
	}
	g, ok := f.Value.(flag.Getter)
	return g, ok
}

// flagsSet reports which flags were given on the command line.
func flagsSet(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}
