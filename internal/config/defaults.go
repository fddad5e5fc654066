package config

import (
	"fmt"
	"time"
)

// Default values applied when the file leaves a field empty.
const (
	DefaultWorkDir        = "."
	DefaultHistoryPath    = ".cmdcenter/history.db"
	DefaultMetricsListen  = ":9464"
	DefaultOutcomeSubject = "cmdcenter.outcomes"
	DefaultWatchDebounce  = 500 * time.Millisecond
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// SessionDefaultApplier handles session defaults.
type SessionDefaultApplier struct{}

func (s *SessionDefaultApplier) Domain() string { return "session" }

func (s *SessionDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Session.WorkDir == "" {
		cfg.Session.WorkDir = DefaultWorkDir
	}
	return nil
}

// LoggingDefaultApplier normalizes log settings.
type LoggingDefaultApplier struct{}

func (l *LoggingDefaultApplier) Domain() string { return "logging" }

func (l *LoggingDefaultApplier) ApplyDefaults(cfg *Config) error {
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	return nil
}

// HistoryDefaultApplier handles history defaults.
type HistoryDefaultApplier struct{}

func (h *HistoryDefaultApplier) Domain() string { return "history" }

func (h *HistoryDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath
	}
	return nil
}

// MetricsDefaultApplier handles metrics defaults.
type MetricsDefaultApplier struct{}

func (m *MetricsDefaultApplier) Domain() string { return "metrics" }

func (m *MetricsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = DefaultMetricsListen
	}
	return nil
}

// NotifyDefaultApplier handles NATS defaults.
type NotifyDefaultApplier struct{}

func (n *NotifyDefaultApplier) Domain() string { return "notify" }

func (n *NotifyDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = DefaultOutcomeSubject
	}
	return nil
}

// WatchDefaultApplier handles watch-mode defaults.
type WatchDefaultApplier struct{}

func (w *WatchDefaultApplier) Domain() string { return "watch" }

func (w *WatchDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = Duration(DefaultWatchDebounce)
	}
	return nil
}

// CompositeDefaultApplier applies defaults across all configuration domains.
type CompositeDefaultApplier struct {
	appliers []DefaultApplier
}

// NewDefaultApplier creates a composite default applier with all domain appliers.
func NewDefaultApplier() *CompositeDefaultApplier {
	return &CompositeDefaultApplier{
		appliers: []DefaultApplier{
			&SessionDefaultApplier{},
			&LoggingDefaultApplier{},
			&HistoryDefaultApplier{},
			&MetricsDefaultApplier{},
			&NotifyDefaultApplier{},
			&WatchDefaultApplier{},
		},
	}
}

// ApplyDefaults applies defaults for all configuration domains.
func (c *CompositeDefaultApplier) ApplyDefaults(cfg *Config) error {
	for _, applier := range c.appliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("applying defaults for %s: %w", applier.Domain(), err)
		}
	}
	return nil
}

// GetApplierByDomain returns a specific domain applier (useful for testing).
func (c *CompositeDefaultApplier) GetApplierByDomain(domain string) DefaultApplier {
	for _, applier := range c.appliers {
		if applier.Domain() == domain {
			return applier
		}
	}
	return nil
}
