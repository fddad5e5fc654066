package dispatch

import (
	"git.home.luguber.info/inful/cmdcenter/internal/command"
	"git.home.luguber.info/inful/cmdcenter/internal/foundation/errors"
)

var (
	// ErrMissingState indicates a Center was constructed without a build context.
	ErrMissingState = errors.ConfigError("command center requires a build context").Build()

	// Re-exported so callers of the center need not import package command.
	ErrEmptyCommand     = command.ErrEmptyCommand
	ErrUnknownCommand   = command.ErrUnknownCommand
	ErrInvalidArguments = command.ErrInvalidArguments
	ErrUnknownAlias     = command.ErrUnknownAlias
	ErrExecutionFailure = command.ErrExecutionFailure
)
