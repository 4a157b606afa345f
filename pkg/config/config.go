package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/offlinefirst/sensmatch/pkg/motion"
	"github.com/offlinefirst/sensmatch/pkg/replay"
	"github.com/offlinefirst/sensmatch/pkg/sensitivity"
)

const DefaultFileName = "sensmatch.yaml"

// Config captures the user-adjustable knobs of the CLI.
type Config struct {
	Replay  ReplayConfig       `yaml:"replay"`
	Presets map[string]float64 `yaml:"presets"`
	Profile ProfileConfig      `yaml:"profile"`
	Logging LoggingConfig      `yaml:"logging"`

	// Source indicates where the configuration originated (defaults or a file path).
	Source string `yaml:"-"`
}

// ReplayConfig holds the motion replay engine parameters.
type ReplayConfig struct {
	MoveStep     float64 `yaml:"move_step"`
	FrequencyHz  float64 `yaml:"frequency_hz"`
	Policy       string  `yaml:"policy"`
	Backend      string  `yaml:"backend"`
	Device       string  `yaml:"device"`
	Hotkey       string  `yaml:"hotkey"`
	StartDelayMs int     `yaml:"start_delay_ms"`
}

// ProfileConfig points at the persisted sensitivity defaults.
type ProfileConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig defines log verbosity and formatting.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the baseline configuration used when no overrides are supplied.
func Default() Config {
	return Config{
		Replay: ReplayConfig{
			MoveStep:     sensitivity.DefaultMoveStep,
			FrequencyHz:  sensitivity.DefaultEventFrequencyHz,
			Policy:       string(replay.PolicyDrop),
			Backend:      string(motion.BackendUinput),
			Hotkey:       ".",
			StartDelayMs: 3000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Source: "<defaults>",
	}
}

// Load reads configuration from disk if present, otherwise returning defaults.
// When path is empty, the loader attempts to read ./sensmatch.yaml but tolerates a missing file.
func Load(path string) (Config, error) {
	cfg := Default()

	candidate := strings.TrimSpace(path)
	explicit := candidate != ""
	if !explicit {
		candidate = DefaultFileName
	}

	file, err := os.Open(candidate)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if explicit {
				return cfg, fmt.Errorf("config file %q not found", candidate)
			}
			return cfg, nil
		}
		return cfg, fmt.Errorf("open config file %q: %w", candidate, err)
	}
	defer file.Close()

	dec := yaml.NewDecoder(file)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config file %q: %w", candidate, err)
	}
	cfg.Source = candidate
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate ensures essential configuration values are present and sensible.
func (c Config) Validate() error {
	if _, err := NormalizeLogLevel(c.Logging.Level); err != nil {
		return err
	}
	if _, err := NormalizeFormat(c.Logging.Format); err != nil {
		return err
	}

	if !(c.Replay.MoveStep > 0) || math.IsInf(c.Replay.MoveStep, 0) {
		return errors.New("replay.move_step must be positive")
	}
	if !(c.Replay.FrequencyHz > 0) || math.IsInf(c.Replay.FrequencyHz, 0) {
		return errors.New("replay.frequency_hz must be positive")
	}
	if _, err := replay.ParsePolicy(c.Replay.Policy); err != nil {
		return fmt.Errorf("replay.policy: %w", err)
	}
	if _, err := motion.ParseBackend(c.Replay.Backend); err != nil {
		return fmt.Errorf("replay.backend: %w", err)
	}
	if len([]rune(c.Replay.Hotkey)) != 1 {
		return fmt.Errorf("replay.hotkey must be a single key, got %q", c.Replay.Hotkey)
	}
	if c.Replay.StartDelayMs < 0 {
		return errors.New("replay.start_delay_ms must not be negative")
	}

	for name, yaw := range c.Presets {
		if strings.TrimSpace(name) == "" {
			return errors.New("presets: name must not be empty")
		}
		if !(yaw > 0) || math.IsInf(yaw, 0) {
			return fmt.Errorf("presets.%s: yaw must be positive", name)
		}
	}

	return nil
}

func (c *Config) normalize() {
	defaults := Default()

	c.Replay.Policy = strings.ToLower(strings.TrimSpace(c.Replay.Policy))
	if c.Replay.Policy == "" {
		c.Replay.Policy = defaults.Replay.Policy
	}
	c.Replay.Backend = strings.ToLower(strings.TrimSpace(c.Replay.Backend))
	if c.Replay.Backend == "" {
		c.Replay.Backend = defaults.Replay.Backend
	}
	c.Replay.Device = strings.TrimSpace(c.Replay.Device)
	if c.Replay.Hotkey == "" {
		c.Replay.Hotkey = defaults.Replay.Hotkey
	}
	c.Profile.Path = strings.TrimSpace(c.Profile.Path)

	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaults.Logging.Format
	}
	c.Logging.Format = strings.ToLower(c.Logging.Format)
}

// NormalizeLogLevel validates and lowercases known logging levels.
func NormalizeLogLevel(level string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return "info", nil
	case "debug":
		return "debug", nil
	case "warn", "warning":
		return "warn", nil
	case "error":
		return "error", nil
	default:
		return "", fmt.Errorf("unsupported log level %q", level)
	}
}

// NormalizeFormat validates and canonicalizes logging format identifiers.
func NormalizeFormat(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return "json", nil
	case "console", "text":
		return "console", nil
	default:
		return "", fmt.Errorf("unsupported log format %q", format)
	}
}
