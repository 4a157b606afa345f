package permissions

import (
	"errors"
	"os"
	"runtime"
	"strings"
)

// Status enumerates coarse permission results for input-injection devices.
type Status string

const (
	// StatusUnknown indicates no explicit signal about permission state.
	StatusUnknown Status = "unknown"
	// StatusGranted signals the device can be opened for writing.
	StatusGranted Status = "granted"
	// StatusDenied indicates the device exists but the process may not write it.
	StatusDenied Status = "denied"
	// StatusMissing means the device node is absent (module not loaded).
	StatusMissing Status = "missing"
	// StatusUnavailable reports that the capability is not supported.
	StatusUnavailable Status = "unavailable"
)

// UinputPath is the kernel's user-level input device node.
const UinputPath = "/dev/uinput"

// ProbeResult represents the coarse state for a permission surface.
type ProbeResult struct {
	Status   Status
	Message  string
	Guidance string
}

// LookupEnvFunc exposes environment probing for testability.
type LookupEnvFunc func(string) (string, bool)

// AccessFunc reports whether path is writable by the current process.
type AccessFunc func(path string) error

// DefaultLookupEnv is the standard environment resolver.
func DefaultLookupEnv(key string) (string, bool) {
	return lookupEnv(key)
}

// lookupEnv is declared for swapping in tests.
var lookupEnv = func(key string) (string, bool) {
	return os.LookupEnv(key)
}

// ProbeUinput inspects whether synthetic pointer events can be injected through
// the uinput node at path (UinputPath when empty).
// SENSMATCH_UINPUT overrides the probe for tests and unusual setups.
func ProbeUinput(path string, lookup LookupEnvFunc, access AccessFunc) ProbeResult {
	if lookup == nil {
		lookup = lookupEnv
	}
	if value, ok := lookup("SENSMATCH_UINPUT"); ok {
		return interpretPermissionFlag("uinput", value)
	}
	if runtime.GOOS != "linux" {
		return ProbeResult{Status: StatusUnavailable, Message: "uinput injection unsupported on " + runtime.GOOS}
	}
	if access == nil {
		access = writable
	}
	if path == "" {
		path = UinputPath
	}

	err := access(path)
	switch {
	case err == nil:
		return ProbeResult{Status: StatusGranted, Message: path + " is writable"}
	case errors.Is(err, os.ErrNotExist):
		return ProbeResult{Status: StatusMissing, Message: path + " not found", Guidance: "load the module with 'modprobe uinput'"}
	case errors.Is(err, os.ErrPermission):
		return ProbeResult{Status: StatusDenied, Message: path + " is not writable", Guidance: "add a udev rule granting the input group write access, or run with elevated privileges"}
	default:
		return ProbeResult{Status: StatusUnknown, Message: err.Error()}
	}
}

func interpretPermissionFlag(name, value string) ProbeResult {
	normalised := strings.ToLower(strings.TrimSpace(value))
	switch normalised {
	case "granted", "allow", "allowed", "yes", "true":
		return ProbeResult{Status: StatusGranted, Message: name + " permission pre-authorised via env override"}
	case "denied", "no", "false", "blocked":
		return ProbeResult{Status: StatusDenied, Message: name + " permission denied via env override", Guidance: "unset SENSMATCH_UINPUT to probe the device directly"}
	case "missing", "absent":
		return ProbeResult{Status: StatusMissing, Message: name + " device reported missing via env override"}
	case "unavailable", "unsupported":
		return ProbeResult{Status: StatusUnavailable, Message: name + " unavailable on this platform"}
	default:
		return ProbeResult{Status: StatusUnknown, Message: name + " permission state unknown"}
	}
}

// StatusString returns the string representation for diagnostics output.
func (p ProbeResult) StatusString() string {
	if p.Status == "" {
		return string(StatusUnknown)
	}
	return string(p.Status)
}
