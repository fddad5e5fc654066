// Package dispatch implements the command center: the single entry point that
// turns invocation text into an executed command.
//
// A Center owns the alias table and the command registry and shares the build
// context with whichever command is running. Every invocation goes through the
// same pipeline:
//
//	Received → Tokenized → Resolved → Executing → Evaluated
//
// Failures while tokenizing or resolving end the invocation before Executing
// and never touch the build context. Every evaluated invocation, successful or
// not, is reported to the configured Logger as an Outcome.
//
// Invocations are serialized: one runs to completion, logging included,
// before the next starts.
package dispatch
