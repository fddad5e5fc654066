package command

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/cmdcenter/internal/state"
)

// Command is a unit of build work. A nil error reports success.
type Command interface {
	Execute(ctx context.Context, inv *Invocation) error
}

// FileResolver is the read-only view of the alias table handed to commands.
type FileResolver interface {
	ResolveFile(alias string) (string, error)
}

// Invocation carries everything a command may use while it executes.
// None of it may be retained after Execute returns.
type Invocation struct {
	Name  string
	Args  []string
	State *state.State
	Files FileResolver
	Out   io.Writer
}

// ArgsValidator is implemented by commands that have an argument contract.
type ArgsValidator interface {
	ValidateArgs(args []string) error
}

// Describer is implemented by commands that can describe themselves.
type Describer interface {
	Describe() Metadata
}

// CommandFunc adapts an ordinary function to the Command interface.
type CommandFunc func(ctx context.Context, inv *Invocation) error

// Execute calls f(ctx, inv).
func (f CommandFunc) Execute(ctx context.Context, inv *Invocation) error {
	return f(ctx, inv)
}

// ArgRule validates a single positional argument.
type ArgRule func(arg string) error

// Unlimited as MaxArgs accepts any number of trailing arguments.
const Unlimited = -1

// Metadata describes a command and its argument contract.
type Metadata struct {
	Name        string
	Usage       string
	Description string
	MinArgs     int
	MaxArgs     int
	ArgRules    []ArgRule // positional, applied to the arguments that are present
	ReadOnly    bool      // never mutates the build context
}

// BaseCommand provides metadata and argument validation for built-in commands.
type BaseCommand struct {
	metadata Metadata
}

// NewBaseCommand creates a new base command with the given metadata.
func NewBaseCommand(metadata Metadata) BaseCommand {
	return BaseCommand{metadata: metadata}
}

// Describe returns the command metadata.
func (c BaseCommand) Describe() Metadata {
	return c.metadata
}

// ValidateArgs checks arity first, then each positional rule.
func (c BaseCommand) ValidateArgs(args []string) error {
	m := c.metadata
	if len(args) < m.MinArgs || (m.MaxArgs != Unlimited && len(args) > m.MaxArgs) {
		return invalidArguments(m, fmt.Errorf("expected %s, got %d", arity(m), len(args)))
	}
	for i, rule := range m.ArgRules {
		if i >= len(args) {
			break
		}
		if err := rule(args[i]); err != nil {
			return invalidArguments(m, fmt.Errorf("argument %d: %w", i+1, err))
		}
	}
	return nil
}

func invalidArguments(m Metadata, cause error) error {
	return ErrInvalidArguments.
		WithCause(cause).
		WithContext("command", m.Name).
		WithContext("usage", m.Usage)
}

func arity(m Metadata) string {
	switch {
	case m.MaxArgs == Unlimited:
		return fmt.Sprintf("at least %d argument(s)", m.MinArgs)
	case m.MinArgs == m.MaxArgs:
		return fmt.Sprintf("%d argument(s)", m.MinArgs)
	default:
		return fmt.Sprintf("%d to %d arguments", m.MinArgs, m.MaxArgs)
	}
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// Identifier accepts flag-style names such as "profile" or "cc.opt-level".
func Identifier(arg string) error {
	if !identifierPattern.MatchString(arg) {
		return fmt.Errorf("%q is not a valid identifier", arg)
	}
	return nil
}

// AliasName accepts anything usable as an alias table key. Names that look
// like options are rejected.
func AliasName(arg string) error {
	if arg == "" {
		return fmt.Errorf("alias must not be empty")
	}
	if strings.HasPrefix(arg, "-") {
		return fmt.Errorf("%q looks like an option, not an alias", arg)
	}
	return nil
}
