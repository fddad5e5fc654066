// Package command defines the unit of build work executed by the dispatch
// center, the factory that binds an invocation's tokens to a registered
// command, and the built-in command set.
//
// A Command has exactly one capability: Execute against an Invocation. The
// argument contract of a command is optional and expressed through the
// ArgsValidator interface, which Make checks before anything runs. Commands
// only ever see the alias table through the read-only FileResolver.
package command
