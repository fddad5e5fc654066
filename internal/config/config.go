package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the only configuration version Load accepts.
const CurrentVersion = "1"

// Config is the on-disk configuration of a cmdcenter session.
type Config struct {
	Version string            `yaml:"version"`
	Session SessionConfig     `yaml:"session"`
	Aliases map[string]string `yaml:"aliases,omitempty"` // Added on top of the built-in aliases
	Logging LoggingConfig     `yaml:"logging"`
	History HistoryConfig     `yaml:"history"`
	Metrics MetricsConfig     `yaml:"metrics"`
	Notify  NotifyConfig      `yaml:"notify"`
	Watch   WatchConfig       `yaml:"watch"`
}

// SessionConfig seeds the build context.
type SessionConfig struct {
	WorkDir  string            `yaml:"work_dir"`
	Flags    map[string]string `yaml:"flags,omitempty"`
	Snapshot string            `yaml:"snapshot,omitempty"` // JSON state file; empty disables persistence
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// HistoryConfig controls the SQLite invocation history.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// NotifyConfig controls outcome publishing over NATS. An empty URL disables it.
type NotifyConfig struct {
	NATSURL        string   `yaml:"nats_url"`
	Subject        string   `yaml:"subject"`
	ConnectRetries int      `yaml:"connect_retries,omitempty"` // Zero uses the retry default
	RetryInitial   Duration `yaml:"retry_initial,omitempty"`
}

// WatchConfig controls script re-runs in watch mode.
type WatchConfig struct {
	Debounce Duration `yaml:"debounce"`
	Interval Duration `yaml:"interval"` // Zero disables scheduled re-runs
}

// Duration is a time.Duration that reads and writes as "500ms", "1m" etc.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return ErrInvalidDuration.WithCause(err).WithContext("value", raw)
	}
	*d = Duration(parsed)
	return nil
}

// Load reads path, expands ${VAR} references, applies environment overrides
// and defaults, then validates the result.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return nil, ErrConfigNotFound.WithContext("path", configPath)
	}
	if err != nil {
		return nil, ErrConfigRead.WithCause(err).WithContext("path", configPath)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, ErrConfigParse.WithCause(err).WithContext("path", configPath)
	}
	if cfg.Version != CurrentVersion {
		return nil, ErrUnsupportedVersion.
			WithContext("version", cfg.Version).
			WithContext("expected", CurrentVersion)
	}

	if err := finish(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault behaves like Load but returns Default() when path does not exist.
func LoadOrDefault(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		loadEnvFiles()
		cfg := &Config{Version: CurrentVersion}
		if err := finish(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return Load(configPath)
}

// Default returns a configuration with every default applied and no
// environment overrides.
func Default() *Config {
	cfg := &Config{Version: CurrentVersion}
	_ = NewDefaultApplier().ApplyDefaults(cfg)
	return cfg
}

func finish(cfg *Config) error {
	applyEnvOverrides(cfg)
	if err := NewDefaultApplier().ApplyDefaults(cfg); err != nil {
		return err
	}
	return Validate(cfg)
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ErrConfigExists.WithContext("path", configPath)
	}

	example := Default()
	example.Session.Flags = map[string]string{"profile": "debug"}
	example.Session.Snapshot = ".cmdcenter/state.json"
	example.Aliases = map[string]string{"docs": "/src/docs"}

	data, err := yaml.Marshal(example)
	if err != nil {
		return ErrConfigWrite.WithCause(err).WithContext("path", configPath)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return ErrConfigWrite.WithCause(err).WithContext("path", configPath)
	}
	return nil
}
