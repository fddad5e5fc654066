package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override file values.
const (
	EnvWorkDir     = "CMDCENTER_WORK_DIR"
	EnvHistoryPath = "CMDCENTER_HISTORY_PATH"
	EnvNATSURL     = "CMDCENTER_NATS_URL"
	EnvLogLevel    = "CMDCENTER_LOG_LEVEL"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads .env files that exist. Variables already present in the
// process environment are never overwritten.
func loadEnvFiles() {
	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("Failed to load env file", slog.String("file", path), slog.Any("error", err))
			continue
		}
		slog.Debug("Loaded environment variables", slog.String("file", path))
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvWorkDir); v != "" {
		cfg.Session.WorkDir = v
	}
	if v := os.Getenv(EnvHistoryPath); v != "" {
		cfg.History.Path = v
		cfg.History.Enabled = true
	}
	if v := os.Getenv(EnvNATSURL); v != "" {
		cfg.Notify.NATSURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = NormalizeLogLevel(v)
	}
}
