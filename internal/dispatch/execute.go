package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/cmdcenter/internal/command"
	"git.home.luguber.info/inful/cmdcenter/internal/metrics"
	"git.home.luguber.info/inful/cmdcenter/internal/observability"
)

// ExecuteCommand parses and runs one line of input and reports whether it
// succeeded. Every call, successful or not, produces exactly one Outcome for
// the configured Logger.
func (c *Center) ExecuteCommand(ctx context.Context, text string) bool {
	return c.Execute(ctx, text).Success
}

// Execute is ExecuteCommand returning the full Outcome.
func (c *Center) Execute(ctx context.Context, text string) Outcome {
	c.execMu.Lock()
	defer c.execMu.Unlock()

	start := c.now()
	id := uuid.NewString()
	ctx = observability.WithInvocationID(ctx, id)
	out := Outcome{
		ID:        id,
		Command:   text,
		StartedAt: start,
		Reached:   PhaseReceived,
	}

	err := c.run(ctx, text, &out)
	return c.evaluate(ctx, out, err)
}

// run drives the pipeline up to, but not including, evaluation.
func (c *Center) run(ctx context.Context, text string, out *Outcome) error {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return ErrEmptyCommand
	}
	out.Reached = PhaseTokenized
	out.Name = tokens[0]
	out.Args = tokens[1:]

	op, err := command.Make(c, tokens)
	if err != nil {
		return err
	}
	out.Reached = PhaseResolved

	if err := ctx.Err(); err != nil {
		return ErrExecutionFailure.WithCause(err).WithContext("command", op.Name())
	}

	out.Reached = PhaseExecuting
	if !op.ReadOnly() {
		return op.Execute(ctx, c.state, fileView{c}, c.out)
	}

	// Read-only commands are rolled back and failed if they touch the context.
	before := c.state.Snapshot()
	err = op.Execute(ctx, c.state, fileView{c}, c.out)
	if c.state.Equal(before) {
		return err
	}
	c.state.Restore(before)
	if err != nil {
		return err
	}
	return ErrExecutionFailure.
		WithCause(fmt.Errorf("read-only command %q modified the build context", op.Name())).
		WithContext("command", op.Name())
}

// evaluate finalizes the outcome, reports it and returns it.
func (c *Center) evaluate(ctx context.Context, out Outcome, err error) Outcome {
	out.Duration = c.now().Sub(out.StartedAt)
	out.Success = err == nil
	out.Kind = kindOf(err)
	out.Reason = reasonOf(err)
	out.Err = err
	out.StateFingerprint = c.state.Fingerprint()

	switch {
	case out.Success:
		c.recorder.ObserveCommandDuration(out.Name, out.Duration)
		c.recorder.IncCommandResult(out.Name, metrics.ResultSuccess)
	case out.Kind.ParseStage():
		c.recorder.IncParseFailure(string(out.Kind))
	default:
		c.recorder.ObserveCommandDuration(out.Name, out.Duration)
		c.recorder.IncCommandResult(out.Name, metrics.ResultFailure)
	}

	c.logger.Log(ctx, out)
	return out
}

// tokenize splits on runs of whitespace. Quoting is not supported.
func tokenize(text string) []string {
	return strings.Fields(text)
}
