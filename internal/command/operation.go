package command

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/agnivade/levenshtein"

	"git.home.luguber.info/inful/cmdcenter/internal/foundation/errors"
	"git.home.luguber.info/inful/cmdcenter/internal/state"
)

// Lookup resolves a command name to a registered command.
type Lookup interface {
	GetCommand(name string) (Command, error)
}

// Operation is a registered command bound to a validated argument list.
type Operation struct {
	name string
	args []string
	cmd  Command
}

// Make selects the command named by the first token and binds the remaining
// tokens as its arguments. It fails with ErrEmptyCommand, ErrUnknownCommand
// or ErrInvalidArguments and never executes anything.
func Make(registry Lookup, tokens []string) (*Operation, error) {
	if len(tokens) == 0 {
		return nil, ErrEmptyCommand
	}

	name := tokens[0]
	cmd, err := registry.GetCommand(name)
	if err != nil {
		return nil, err
	}

	args := slices.Clone(tokens[1:])
	if v, ok := cmd.(ArgsValidator); ok {
		if err := v.ValidateArgs(args); err != nil {
			return nil, err
		}
	}

	return &Operation{name: name, args: args, cmd: cmd}, nil
}

// Name returns the command name the operation was made from.
func (o *Operation) Name() string { return o.name }

// Args returns a copy of the bound arguments.
func (o *Operation) Args() []string { return slices.Clone(o.args) }

// ReadOnly reports whether the bound command declares it never mutates state.
func (o *Operation) ReadOnly() bool {
	if d, ok := o.cmd.(Describer); ok {
		return d.Describe().ReadOnly
	}
	return false
}

// Execute runs the bound command against st. Any failure, including a panic
// inside the command, is returned as ErrExecutionFailure wrapping the cause.
func (o *Operation) Execute(ctx context.Context, st *state.State, files FileResolver, out io.Writer) (err error) {
	if out == nil {
		out = io.Discard
	}
	inv := &Invocation{
		Name:  o.name,
		Args:  o.Args(),
		State: st,
		Files: files,
		Out:   out,
	}

	defer func() {
		if r := recover(); r != nil {
			err = executionFailure(o.name, fmt.Errorf("panic: %v", r))
		}
	}()

	if err := o.cmd.Execute(ctx, inv); err != nil {
		return executionFailure(o.name, err)
	}
	return nil
}

func executionFailure(name string, cause error) error {
	if classified, ok := errors.AsClassified(cause); ok && classified.Is(ErrExecutionFailure) {
		return cause
	}
	return ErrExecutionFailure.WithCause(cause).WithContext("command", name)
}

// maxSuggestionDistance bounds how far a typo may be from a known name.
const maxSuggestionDistance = 2

// Suggest returns the candidate closest to name by edit distance, or "" when
// nothing is close enough. Ties resolve to the lexically smallest candidate.
func Suggest(name string, candidates []string) string {
	sorted := slices.Clone(candidates)
	slices.Sort(sorted)

	best, bestDist := "", maxSuggestionDistance+1
	for _, c := range sorted {
		if d := levenshtein.ComputeDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
