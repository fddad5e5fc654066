package commands

import (
	"fmt"
	"text/tabwriter"

	"git.home.luguber.info/inful/cmdcenter/internal/dispatch"
	"git.home.luguber.info/inful/cmdcenter/internal/state"
)

// CommandsCmd implements the 'commands' command.
type CommandsCmd struct{}

func (c *CommandsCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	center, err := dispatch.New(state.New(cfg.Session.WorkDir),
		dispatch.WithFiles(cfg.Aliases),
		dispatch.WithLogger(dispatch.NopLogger{}))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(g.Out, 0, 0, 2, ' ', 0)
	for _, name := range center.Commands() {
		md, _ := center.Describe(name)
		usage := md.Usage
		if usage == "" {
			usage = name
		}
		fmt.Fprintf(tw, "%s\t%s\n", usage, md.Description)
	}
	return tw.Flush()
}
