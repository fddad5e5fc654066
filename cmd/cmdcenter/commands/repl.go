package commands

import (
	"context"
	"os/signal"
	"syscall"
)

// ReplCmd implements the 'repl' command.
type ReplCmd struct{}

func (r *ReplCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()
	return RunRepl(ctx, g, root)
}

func RunRepl(ctx context.Context, g *Global, root *CLI) error {
	rt, err := openRuntime(ctx, g, root)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	return rt.session.REPL(ctx, g.In, g.Out)
}
