// Package errors provides the classified error primitives used across cmdcenter.
//
// Every package declares its failure modes as ClassifiedError sentinels built
// with the fluent ErrorBuilder. Call sites attach context or wrap a cause and
// callers match with the standard library errors.Is, which compares category
// and message.
//
// Key features:
//   - ErrorCategory: broad classification (config, validation, not_found, execution, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - RetryStrategy: how a caller may react (never, immediate, backoff, user)
//   - ClassifiedError: structured error with category, severity and context
//   - ErrorBuilder: fluent API for creating classified errors
//   - CLIErrorAdapter: exit codes and user-facing messages for the CLI
//
// Example usage:
//
//	var ErrUnknownAlias = errors.NotFoundError("unknown alias").Build()
//
//	return errors.NewError(errors.CategoryNotFound, "unknown alias").
//		WithContext("alias", name).
//		Build()
package errors
