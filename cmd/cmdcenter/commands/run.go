package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/cmdcenter/internal/session"
)

// RunCmd implements the 'run' command.
type RunCmd struct {
	Script    string `arg:"" type:"existingfile" help:"Script to execute"`
	KeepGoing bool   `short:"k" help:"Continue after a failing line"`
}

func (r *RunCmd) Run(g *Global, root *CLI) error {
	return RunScript(context.Background(), g, root, r.Script, r.KeepGoing)
}

func RunScript(ctx context.Context, g *Global, root *CLI, script string, keepGoing bool) error {
	rt, err := openRuntime(ctx, g, root)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	sum, err := rt.session.RunScriptFile(ctx, script, session.ScriptOptions{KeepGoing: keepGoing})
	if err != nil {
		return err
	}
	fmt.Fprintf(g.Out, "%d run, %d ok, %d failed\n", sum.Total, sum.Succeeded, sum.Failed)
	return scriptError(script, sum)
}

func scriptError(script string, sum session.Summary) error {
	if sum.OK() {
		return nil
	}
	return session.ErrScriptFail.
		WithContext("file", script).
		WithContext("failed_lines", sum.FailedLines)
}
