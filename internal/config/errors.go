package config

import "git.home.luguber.info/inful/cmdcenter/internal/foundation/errors"

var (
	ErrConfigNotFound     = errors.NewError(errors.CategoryNotFound, "configuration file not found").UserAction().Build()
	ErrConfigExists       = errors.ConfigError("configuration file already exists (use --force to overwrite)").Build()
	ErrConfigRead         = errors.FileSystemError("failed to read configuration file").Build()
	ErrConfigWrite        = errors.FileSystemError("failed to write configuration file").Build()
	ErrConfigParse        = errors.ConfigError("failed to parse configuration").Build()
	ErrUnsupportedVersion = errors.ConfigError("unsupported configuration version").Build()
	ErrInvalidDuration    = errors.ValidationError("invalid duration").Build()
	ErrInvalidConfig      = errors.ValidationError("configuration validation failed").Build()
)
