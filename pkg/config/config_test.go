package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(cwd)
	require.NoError(t, os.Chdir(dir))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "<defaults>", cfg.Source)
	assert.Equal(t, 480.0, cfg.Replay.MoveStep)
	assert.Equal(t, 100.0, cfg.Replay.FrequencyHz)
	assert.Equal(t, "drop", cfg.Replay.Policy)
	assert.Equal(t, "uinput", cfg.Replay.Backend)
	assert.Equal(t, ".", cfg.Replay.Hotkey)
	assert.Equal(t, 3000, cfg.Replay.StartDelayMs)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadFromFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sensmatch.yaml")
	content := `replay:
  move_step: 240
  frequency_hz: 250
  policy: Restart
  backend: log
  hotkey: "f"
  start_delay_ms: 500
presets:
  My Game: 0.015
profile:
  path: /tmp/profile.json
logging:
  level: DEBUG
  format: json
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, 240.0, cfg.Replay.MoveStep)
	assert.Equal(t, 250.0, cfg.Replay.FrequencyHz)
	assert.Equal(t, "restart", cfg.Replay.Policy)
	assert.Equal(t, "log", cfg.Replay.Backend)
	assert.Equal(t, "f", cfg.Replay.Hotkey)
	assert.Equal(t, 500, cfg.Replay.StartDelayMs)
	assert.Equal(t, map[string]float64{"My Game": 0.015}, cfg.Presets)
	assert.Equal(t, "/tmp/profile.json", cfg.Profile.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, cfgPath, cfg.Source)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "sensmatch.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("replay:\n  frequency_hz: 60\n"), 0o644))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, 60.0, cfg.Replay.FrequencyHz)
	assert.Equal(t, 480.0, cfg.Replay.MoveStep)
	assert.Equal(t, "drop", cfg.Replay.Policy)
}

func TestLoadReplayDevice(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "sensmatch.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("replay:\n  device: \" /dev/input/uinput \"\n"), 0o644))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "/dev/input/uinput", cfg.Replay.Device)
}

func TestLoadEmptyFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "sensmatch.yaml")
	require.NoError(t, os.WriteFile(cfgPath, nil, 0o644))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, cfgPath, cfg.Source)
}

func TestUnknownKeyReturnsError(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "sensmatch.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("replay:\n  unsupported: true\n"), 0o644))

	_, err := Load(cfgPath)
	assert.Error(t, err)
}

func TestValidateRejectsBadReplaySettings(t *testing.T) {
	cases := map[string]func(*Config){
		"zero move":      func(c *Config) { c.Replay.MoveStep = 0 },
		"zero frequency": func(c *Config) { c.Replay.FrequencyHz = 0 },
		"policy":         func(c *Config) { c.Replay.Policy = "queue" },
		"backend":        func(c *Config) { c.Replay.Backend = "xtest" },
		"hotkey":         func(c *Config) { c.Replay.Hotkey = "alt+." },
		"delay":          func(c *Config) { c.Replay.StartDelayMs = -1 },
		"preset":         func(c *Config) { c.Presets = map[string]float64{"x": 0} },
		"log level":      func(c *Config) { c.Logging.Level = "trace" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, Default().Validate())
}
