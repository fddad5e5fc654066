package commands

import (
	"context"
	"strings"
)

// ExecCmd implements the 'exec' command.
type ExecCmd struct {
	Words []string `arg:"" passthrough:"" help:"Command and arguments, e.g. build main"`
}

func (e *ExecCmd) Run(g *Global, root *CLI) error {
	return RunExec(context.Background(), g, root, strings.Join(e.Words, " "))
}

// RunExec runs one invocation and returns its failure, if any, so the exit
// code reflects the error kind.
func RunExec(ctx context.Context, g *Global, root *CLI, line string) error {
	rt, err := openRuntime(ctx, g, root)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	out := rt.session.Execute(ctx, line)
	return out.Err
}
