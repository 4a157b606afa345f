package config

import (
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/offlinefirst/sensmatch/pkg/sensitivity"
)

// Profile holds the persisted sensitivity defaults.
type Profile struct {
	Sensitivity float64
	YawPerCount float64
	CPI         int
	Source      string
}

type profileFile struct {
	Defaults *struct {
		Sens *float64 `yaml:"sens"`
		Yaw  *float64 `yaml:"yaw"`
		CPI  *float64 `yaml:"cpi"`
	} `yaml:"defaults"`
}

// DefaultProfilePath returns $XDG_CONFIG_HOME/sensmatch/config.json (or the platform equivalent).
func DefaultProfilePath() string {
	dir, err := userConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "sensmatch", "config.json")
}

var userConfigDir = os.UserConfigDir

// LoadProfile reads persisted defaults. It never reports an error: a missing,
// unreadable, malformed or incomplete profile yields ok == false and the caller
// keeps its built-in values. The file is JSON; any YAML superset is accepted.
func LoadProfile(path string) (Profile, bool) {
	if path == "" {
		path = DefaultProfilePath()
		if path == "" {
			return Profile{}, false
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, false
	}

	var raw profileFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Profile{}, false
	}
	d := raw.Defaults
	if d == nil || d.Sens == nil || d.Yaw == nil || d.CPI == nil {
		return Profile{}, false
	}
	if !usable(*d.Sens) || !usable(*d.Yaw) || !usable(*d.CPI) {
		return Profile{}, false
	}
	if *d.CPI != math.Trunc(*d.CPI) || *d.CPI > math.MaxInt32 {
		return Profile{}, false
	}

	return Profile{
		Sensitivity: *d.Sens,
		YawPerCount: *d.Yaw,
		CPI:         int(*d.CPI),
		Source:      path,
	}, true
}

// Apply seeds m with the profile values, sensitivity authoritative.
func (p Profile) Apply(m *sensitivity.Model) sensitivity.Derived {
	m.Sensitivity = p.Sensitivity
	m.YawPerCount = p.YawPerCount
	m.CPI = p.CPI
	return m.RecomputeFromSensitivity()
}

func usable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
