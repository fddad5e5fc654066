package command

import (
	"git.home.luguber.info/inful/cmdcenter/internal/foundation/errors"
)

var (
	// ErrEmptyCommand indicates an invocation without any token.
	ErrEmptyCommand = errors.ValidationError("empty command").Build()

	// ErrUnknownCommand indicates the first token names no registered command.
	ErrUnknownCommand = errors.NotFoundError("unknown command").Build()

	// ErrInvalidArguments indicates the arguments violate the command's contract.
	ErrInvalidArguments = errors.ValidationError("invalid arguments").Build()

	// ErrUnknownAlias indicates an alias lookup in the file table failed.
	ErrUnknownAlias = errors.NotFoundError("unknown alias").Build()

	// ErrExecutionFailure indicates a command ran and reported failure.
	ErrExecutionFailure = errors.ExecutionError("command execution failed").Build()
)
