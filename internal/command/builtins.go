package command

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"git.home.luguber.info/inful/cmdcenter/internal/state"
)

// Built-in command names.
const (
	NameBuild  = "build"
	NameCopy   = "copy"
	NameClean  = "clean"
	NameCd     = "cd"
	NameSet    = "set"
	NameUnset  = "unset"
	NameStatus = "status"
	NameWhich  = "which"
)

// Builtins returns a fresh instance of every built-in command keyed by name.
// Each call returns new values so registries never share ownership.
func Builtins() map[string]Command {
	return map[string]Command{
		NameBuild:  NewBuildCommand(),
		NameCopy:   NewCopyCommand(),
		NameClean:  NewCleanCommand(),
		NameCd:     NewCdCommand(),
		NameSet:    NewSetCommand(),
		NameUnset:  NewUnsetCommand(),
		NameStatus: NewStatusCommand(),
		NameWhich:  NewWhichCommand(),
	}
}

// BuildCommand resolves an alias and records the path as the produced artifact.
type BuildCommand struct{ BaseCommand }

func NewBuildCommand() *BuildCommand {
	return &BuildCommand{NewBaseCommand(Metadata{
		Name:        NameBuild,
		Usage:       "build <alias>",
		Description: "Build the target registered under alias and record it as the last artifact",
		MinArgs:     1,
		MaxArgs:     1,
		ArgRules:    []ArgRule{AliasName},
	})}
}

func (c *BuildCommand) Execute(_ context.Context, inv *Invocation) error {
	path, err := inv.Files.ResolveFile(inv.Args[0])
	if err != nil {
		return err
	}
	inv.State.AppendArtifact(path)
	return nil
}

// CopyCommand records the destination of a copy between two aliased paths.
type CopyCommand struct{ BaseCommand }

func NewCopyCommand() *CopyCommand {
	return &CopyCommand{NewBaseCommand(Metadata{
		Name:        NameCopy,
		Usage:       "copy <src-alias> <dst-alias>",
		Description: "Copy the target at src to dst and record dst as the last artifact",
		MinArgs:     2,
		MaxArgs:     2,
		ArgRules:    []ArgRule{AliasName, AliasName},
	})}
}

func (c *CopyCommand) Execute(_ context.Context, inv *Invocation) error {
	// Resolve both before touching state so a bad alias leaves it unchanged.
	src, err := inv.Files.ResolveFile(inv.Args[0])
	if err != nil {
		return err
	}
	dst, err := inv.Files.ResolveFile(inv.Args[1])
	if err != nil {
		return err
	}
	if src == dst {
		return fmt.Errorf("source and destination are the same path %q", src)
	}
	inv.State.AppendArtifact(dst)
	return nil
}

// CleanCommand forgets every artifact recorded so far.
type CleanCommand struct{ BaseCommand }

func NewCleanCommand() *CleanCommand {
	return &CleanCommand{NewBaseCommand(Metadata{
		Name:        NameClean,
		Usage:       "clean",
		Description: "Forget the artifact history and the last artifact",
	})}
}

func (c *CleanCommand) Execute(_ context.Context, inv *Invocation) error {
	inv.State.ClearArtifacts()
	return nil
}

// CdCommand changes the session working directory.
type CdCommand struct{ BaseCommand }

func NewCdCommand() *CdCommand {
	return &CdCommand{NewBaseCommand(Metadata{
		Name:        NameCd,
		Usage:       "cd <dir|alias>",
		Description: "Change the working directory; aliases resolve first, relative paths join the current directory",
		MinArgs:     1,
		MaxArgs:     1,
	})}
}

func (c *CdCommand) Execute(_ context.Context, inv *Invocation) error {
	dir := inv.Args[0]
	if resolved, err := inv.Files.ResolveFile(dir); err == nil {
		dir = resolved
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(inv.State.WorkDir(), dir)
	}
	inv.State.SetWorkDir(filepath.Clean(dir))
	return nil
}

// SetCommand sets a session flag.
type SetCommand struct{ BaseCommand }

func NewSetCommand() *SetCommand {
	return &SetCommand{NewBaseCommand(Metadata{
		Name:        NameSet,
		Usage:       "set <flag> [value]",
		Description: `Set a session flag; the value defaults to "true"`,
		MinArgs:     1,
		MaxArgs:     2,
		ArgRules:    []ArgRule{Identifier},
	})}
}

func (c *SetCommand) Execute(_ context.Context, inv *Invocation) error {
	value := "true"
	if len(inv.Args) == 2 {
		value = inv.Args[1]
	}
	inv.State.SetFlag(inv.Args[0], value)
	return nil
}

// UnsetCommand removes a session flag.
type UnsetCommand struct{ BaseCommand }

func NewUnsetCommand() *UnsetCommand {
	return &UnsetCommand{NewBaseCommand(Metadata{
		Name:        NameUnset,
		Usage:       "unset <flag>",
		Description: "Remove a session flag; fails when the flag is not set",
		MinArgs:     1,
		MaxArgs:     1,
		ArgRules:    []ArgRule{Identifier},
	})}
}

func (c *UnsetCommand) Execute(_ context.Context, inv *Invocation) error {
	if !inv.State.UnsetFlag(inv.Args[0]) {
		return state.ErrFieldNotSet.WithContext("field", state.FieldFlag).WithContext("flag", inv.Args[0])
	}
	return nil
}

// StatusCommand prints the build context without changing it.
type StatusCommand struct{ BaseCommand }

func NewStatusCommand() *StatusCommand {
	return &StatusCommand{NewBaseCommand(Metadata{
		Name:        NameStatus,
		Usage:       "status",
		Description: "Print the working directory, artifacts and flags",
		ReadOnly:    true,
	})}
}

func (c *StatusCommand) Execute(_ context.Context, inv *Invocation) error {
	st := inv.State
	var b strings.Builder

	fmt.Fprintf(&b, "workdir: %s\n", st.WorkDir())
	if last, err := st.LastArtifact(); err == nil {
		fmt.Fprintf(&b, "last artifact: %s\n", last)
	} else {
		b.WriteString("last artifact: -\n")
	}
	fmt.Fprintf(&b, "artifacts: %d\n", len(st.Artifacts()))

	flags := st.Flags()
	for _, name := range slices.Sorted(maps.Keys(flags)) {
		fmt.Fprintf(&b, "flag %s=%s\n", name, flags[name])
	}

	_, err := fmt.Fprint(inv.Out, b.String())
	return err
}

// WhichCommand prints the path an alias resolves to.
type WhichCommand struct{ BaseCommand }

func NewWhichCommand() *WhichCommand {
	return &WhichCommand{NewBaseCommand(Metadata{
		Name:        NameWhich,
		Usage:       "which <alias>",
		Description: "Print the path registered under alias",
		MinArgs:     1,
		MaxArgs:     1,
		ArgRules:    []ArgRule{AliasName},
		ReadOnly:    true,
	})}
}

func (c *WhichCommand) Execute(_ context.Context, inv *Invocation) error {
	path, err := inv.Files.ResolveFile(inv.Args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(inv.Out, path)
	return err
}
