package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cmdcenter.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `version: "1"
aliases:
  docs: /src/docs
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultWorkDir, cfg.Session.WorkDir)
	assert.Equal(t, DefaultHistoryPath, cfg.History.Path)
	assert.Equal(t, DefaultMetricsListen, cfg.Metrics.Listen)
	assert.Equal(t, DefaultOutcomeSubject, cfg.Notify.Subject)
	assert.Equal(t, DefaultWatchDebounce, cfg.Watch.Debounce.Std())
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	assert.Equal(t, "/src/docs", cfg.Aliases["docs"])
}

func TestLoadFullFile(t *testing.T) {
	path := writeConfig(t, `version: "1"
session:
  work_dir: /work
  flags:
    profile: release
  snapshot: state.json
logging:
  level: DEBUG
  format: json
history:
  enabled: true
  path: /tmp/h.db
metrics:
  enabled: true
  listen: "127.0.0.1:9000"
notify:
  nats_url: nats://localhost:4222
  subject: builds.outcomes
watch:
  debounce: 2s
  interval: 1m
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/work", cfg.Session.WorkDir)
	assert.Equal(t, map[string]string{"profile": "release"}, cfg.Session.Flags)
	assert.Equal(t, "state.json", cfg.Session.Snapshot)
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
	assert.True(t, cfg.History.Enabled)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "nats://localhost:4222", cfg.Notify.NATSURL)
	assert.Equal(t, "builds.outcomes", cfg.Notify.Subject)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce.Std())
	assert.Equal(t, time.Minute, cfg.Watch.Interval.Std())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"wrong version", `version: "2"`, ErrUnsupportedVersion},
		{"missing version", `session: {work_dir: /w}`, ErrUnsupportedVersion},
		{"bad yaml", "version: [", ErrConfigParse},
		{"bad duration", "version: \"1\"\nwatch:\n  debounce: soon\n", ErrConfigParse},
		{"bad flag name", "version: \"1\"\nsession:\n  flags:\n    9x: y\n", ErrInvalidConfig},
		{"option-like alias", "version: \"1\"\naliases:\n  -x: /p\n", ErrInvalidConfig},
		{"empty alias path", "version: \"1\"\naliases:\n  x: \"\"\n", ErrInvalidConfig},
		{"bad metrics listen", "version: \"1\"\nmetrics:\n  enabled: true\n  listen: nope\n", ErrInvalidConfig},
		{"bad nats scheme", "version: \"1\"\nnotify:\n  nats_url: http://x\n", ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, DefaultWorkDir, cfg.Session.WorkDir)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvWorkDir, "/from/env")
	t.Setenv(EnvHistoryPath, "/env/history.db")
	t.Setenv(EnvNATSURL, "nats://env:4222")
	t.Setenv(EnvLogLevel, "warning")

	cfg, err := Load(writeConfig(t, "version: \"1\"\nsession:\n  work_dir: /file\n"))
	require.NoError(t, err)

	assert.Equal(t, "/from/env", cfg.Session.WorkDir)
	assert.Equal(t, "/env/history.db", cfg.History.Path)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "nats://env:4222", cfg.Notify.NATSURL)
	assert.Equal(t, LogLevelWarn, cfg.Logging.Level)
}

func TestExpandsVariables(t *testing.T) {
	t.Setenv("CMDCENTER_TEST_SRC", "/expanded")
	cfg, err := Load(writeConfig(t, "version: \"1\"\naliases:\n  src: ${CMDCENTER_TEST_SRC}/main\n"))
	require.NoError(t, err)
	assert.Equal(t, "/expanded/main", cfg.Aliases["src"])
}

func TestInitRoundTripsAndRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmdcenter.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Session.Flags["profile"])
	assert.Equal(t, "/src/docs", cfg.Aliases["docs"])

	err = Init(path, false)
	assert.ErrorIs(t, err, ErrConfigExists)
	assert.NoError(t, Init(path, true))
}

func TestNormalizeLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LogLevelDebug,
		" INFO ":  LogLevelInfo,
		"Warning": LogLevelWarn,
		"error":   LogLevelError,
		"loud":    LogLevelInfo,
		"":        LogLevelInfo,
	}
	for raw, want := range tests {
		assert.Equal(t, want, NormalizeLogLevel(raw), raw)
	}
}

func TestGetApplierByDomain(t *testing.T) {
	applier := NewDefaultApplier()
	assert.NotNil(t, applier.GetApplierByDomain("watch"))
	assert.Nil(t, applier.GetApplierByDomain("hugo"))
}
