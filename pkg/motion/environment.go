package motion

import (
	"github.com/offlinefirst/sensmatch/pkg/permissions"
)

// Environment summarises motion backend support.
type Environment struct {
	Device     string
	Provider   Backend
	Available  bool
	Permission string
	Message    string
	Guidance   string
}

// DetectEnvironment reports whether the uinput backend can be opened at device
// (the default node when empty) and falls back to the log backend otherwise.
func DetectEnvironment(device string, lookup permissions.LookupEnvFunc) Environment {
	if device == "" {
		device = permissions.UinputPath
	}
	res := permissions.ProbeUinput(device, lookup, nil)
	env := Environment{
		Device:     device,
		Provider:   BackendUinput,
		Permission: res.StatusString(),
		Message:    res.Message,
		Guidance:   res.Guidance,
		Available:  res.Status == permissions.StatusGranted,
	}
	if !env.Available {
		env.Provider = BackendLog
		if env.Message == "" {
			env.Message = "uinput unavailable"
		}
	}
	return env
}
