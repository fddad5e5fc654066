package main

import (
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/cmdcenter/cmd/cmdcenter/commands"
	"git.home.luguber.info/inful/cmdcenter/internal/foundation/errors"
	"git.home.luguber.info/inful/cmdcenter/internal/version"
)

func main() {
	var cli commands.CLI
	global := commands.NewGlobal(os.Stdin, os.Stdout)

	ctx := kong.Parse(&cli,
		kong.Name("cmdcenter"),
		kong.Description("Dispatch build commands against a shared build context"),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	)

	if err := ctx.Run(&cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
	}
}
