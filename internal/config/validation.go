package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"git.home.luguber.info/inful/cmdcenter/internal/command"
)

// Validate checks a configuration after defaults have been applied.
func Validate(cfg *Config) error {
	return newConfigurationValidator(cfg).validate()
}

// configurationValidator coordinates validation across configuration domains.
type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	checks := []func() error{
		cv.validateSession,
		cv.validateAliases,
		cv.validateMetrics,
		cv.validateNotify,
		cv.validateWatch,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return ErrInvalidConfig.WithCause(err)
		}
	}
	return nil
}

func (cv *configurationValidator) validateSession() error {
	if strings.TrimSpace(cv.config.Session.WorkDir) == "" {
		return fmt.Errorf("session.work_dir must not be blank")
	}
	for name := range cv.config.Session.Flags {
		if err := command.Identifier(name); err != nil {
			return fmt.Errorf("session.flags: %w", err)
		}
	}
	return nil
}

func (cv *configurationValidator) validateAliases() error {
	for alias, path := range cv.config.Aliases {
		if err := command.AliasName(alias); err != nil {
			return fmt.Errorf("aliases: %w", err)
		}
		if strings.ContainsAny(alias, " \t") {
			return fmt.Errorf("aliases: %q must not contain whitespace", alias)
		}
		if path == "" {
			return fmt.Errorf("aliases.%s: path must not be empty", alias)
		}
	}
	return nil
}

func (cv *configurationValidator) validateMetrics() error {
	if !cv.config.Metrics.Enabled {
		return nil
	}
	if _, _, err := net.SplitHostPort(cv.config.Metrics.Listen); err != nil {
		return fmt.Errorf("metrics.listen: %w", err)
	}
	return nil
}

func (cv *configurationValidator) validateNotify() error {
	if cv.config.Notify.NATSURL == "" {
		return nil
	}
	u, err := url.Parse(cv.config.Notify.NATSURL)
	if err != nil {
		return fmt.Errorf("notify.nats_url: %w", err)
	}
	switch u.Scheme {
	case "nats", "tls", "ws", "wss":
	default:
		return fmt.Errorf("notify.nats_url: unsupported scheme %q", u.Scheme)
	}
	if cv.config.Notify.ConnectRetries < 0 {
		return fmt.Errorf("notify.connect_retries must not be negative")
	}
	if strings.ContainsAny(cv.config.Notify.Subject, " \t*>") {
		return fmt.Errorf("notify.subject: %q is not a publishable subject", cv.config.Notify.Subject)
	}
	return nil
}

func (cv *configurationValidator) validateWatch() error {
	if cv.config.Watch.Interval < 0 {
		return fmt.Errorf("watch.interval must not be negative")
	}
	return nil
}
