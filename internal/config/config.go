// Package config provides configuration types and defaults for tickwatch.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Audio backends.
const (
	BackendAuto    = "auto"
	BackendCommand = "command"
	BackendBell    = "bell"
	BackendNone    = "none"
)

// Limits enforced by Validate.
const (
	MinCueDuration = 10 * time.Millisecond
	MaxCueDuration = time.Second
	MaxPrecision   = 9
)

// Config holds all configuration options for tickwatch.
type Config struct {
	Poll    PollConfig    `mapstructure:"poll"`
	Cue     CueConfig     `mapstructure:"cue"`
	Display DisplayConfig `mapstructure:"display"`
	Log     LogConfig     `mapstructure:"log"`
}

// PollConfig controls the poll cadence.
type PollConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// CueConfig controls audio cues.
type CueConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Backend   string        `mapstructure:"backend"` // auto, command, bell, none
	LowHz     int           `mapstructure:"low_hz"`  // start/stop/clear
	HighHz    int           `mapstructure:"high_hz"` // each whole second
	Duration  time.Duration `mapstructure:"duration"`
	QueueSize int           `mapstructure:"queue_size"`
}

// DisplayConfig controls elapsed time formatting.
type DisplayConfig struct {
	Precision int `mapstructure:"precision"` // decimal places of seconds, 0-9
}

// LogConfig controls the debug log file.
type LogConfig struct {
	Debug bool   `mapstructure:"debug"`
	File  string `mapstructure:"file"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Poll: PollConfig{
			Interval: time.Millisecond,
		},
		Cue: CueConfig{
			Enabled:   true,
			Backend:   BackendAuto,
			LowHz:     500,
			HighHz:    1000,
			Duration:  150 * time.Millisecond,
			QueueSize: 16,
		},
		Display: DisplayConfig{
			Precision: 9,
		},
	}
}

// SetDefaults registers Defaults with v so unset keys resolve to them.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("poll.interval", d.Poll.Interval)
	v.SetDefault("cue.enabled", d.Cue.Enabled)
	v.SetDefault("cue.backend", d.Cue.Backend)
	v.SetDefault("cue.low_hz", d.Cue.LowHz)
	v.SetDefault("cue.high_hz", d.Cue.HighHz)
	v.SetDefault("cue.duration", d.Cue.Duration)
	v.SetDefault("cue.queue_size", d.Cue.QueueSize)
	v.SetDefault("display.precision", d.Display.Precision)
	v.SetDefault("log.debug", d.Log.Debug)
	v.SetDefault("log.file", d.Log.File)
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks configuration for errors.
func (c Config) Validate() error {
	if c.Poll.Interval <= 0 {
		return fmt.Errorf("%w: poll.interval must be positive, got %s", ErrInvalid, c.Poll.Interval)
	}

	switch c.Cue.Backend {
	case BackendAuto, BackendCommand, BackendBell, BackendNone:
	default:
		return fmt.Errorf("%w: cue.backend %q is not one of auto, command, bell, none", ErrInvalid, c.Cue.Backend)
	}
	if c.Cue.LowHz <= 0 || c.Cue.HighHz <= 0 {
		return fmt.Errorf("%w: cue.low_hz and cue.high_hz must be positive", ErrInvalid)
	}
	if c.Cue.Duration < MinCueDuration || c.Cue.Duration > MaxCueDuration {
		return fmt.Errorf("%w: cue.duration must be between %s and %s, got %s",
			ErrInvalid, MinCueDuration, MaxCueDuration, c.Cue.Duration)
	}
	if c.Cue.QueueSize <= 0 {
		return fmt.Errorf("%w: cue.queue_size must be positive", ErrInvalid)
	}

	if c.Display.Precision < 0 || c.Display.Precision > MaxPrecision {
		return fmt.Errorf("%w: display.precision must be between 0 and %d", ErrInvalid, MaxPrecision)
	}
	return nil
}

// AudioBackend returns the backend for one-off playback, folding
// cue.enabled into it. Long-running hosts mute instead.
func (c Config) AudioBackend() string {
	if !c.Cue.Enabled {
		return BackendNone
	}
	return c.Cue.Backend
}

// yamlConfig mirrors Config with human-readable durations.
type yamlConfig struct {
	Poll struct {
		Interval string `yaml:"interval"`
	} `yaml:"poll"`
	Cue struct {
		Enabled   bool   `yaml:"enabled"`
		Backend   string `yaml:"backend"`
		LowHz     int    `yaml:"low_hz"`
		HighHz    int    `yaml:"high_hz"`
		Duration  string `yaml:"duration"`
		QueueSize int    `yaml:"queue_size"`
	} `yaml:"cue"`
	Display struct {
		Precision int `yaml:"precision"`
	} `yaml:"display"`
	Log struct {
		Debug bool   `yaml:"debug"`
		File  string `yaml:"file,omitempty"`
	} `yaml:"log"`
}

// YAML renders the config in the same shape the config file uses.
func (c Config) YAML() ([]byte, error) {
	var out yamlConfig
	out.Poll.Interval = c.Poll.Interval.String()
	out.Cue.Enabled = c.Cue.Enabled
	out.Cue.Backend = c.Cue.Backend
	out.Cue.LowHz = c.Cue.LowHz
	out.Cue.HighHz = c.Cue.HighHz
	out.Cue.Duration = c.Cue.Duration.String()
	out.Cue.QueueSize = c.Cue.QueueSize
	out.Display.Precision = c.Display.Precision
	out.Log.Debug = c.Log.Debug
	out.Log.File = c.Log.File

	data, err := yaml.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal config yaml: %w", err)
	}
	return data, nil
}

// DefaultConfigPath returns the per-user config file location.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "tickwatch", "config.yaml"), nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# tickwatch configuration

# How often the display polls the stopwatch. Smaller is more precise.
poll:
  interval: 1ms

# Audio cues: a low tone on start/stop/clear, a high tone each whole second.
cue:
  enabled: true
  backend: auto      # auto, command, bell, none
  low_hz: 500
  high_hz: 1000
  duration: 150ms    # 10ms - 1s
  queue_size: 16     # pending cues beyond this are dropped

display:
  precision: 9       # decimal places of seconds, 0-9

# Debug logging goes to a file because the terminal is in use.
log:
  debug: false
  # file: /tmp/tickwatch.log
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
