package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/cmdcenter/internal/logfields"
	"git.home.luguber.info/inful/cmdcenter/internal/session"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Script    string        `arg:"" type:"existingfile" help:"Script to re-run"`
	Interval  time.Duration `short:"i" help:"Also re-run on this interval (overrides watch.interval)"`
	KeepGoing bool          `short:"k" help:"Continue after a failing line"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunWatch(ctx, g, root, w)
}

// RunWatch runs the script once, then again on every change and tick until
// ctx is canceled.
func RunWatch(ctx context.Context, g *Global, root *CLI, w *WatchCmd) error {
	rt, err := openRuntime(ctx, g, root)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	cfg := rt.cfg
	interval := cfg.Watch.Interval.Std()
	if w.Interval > 0 {
		interval = w.Interval
	}

	rerun := func(ctx context.Context) {
		sum, err := rt.session.RunScriptFile(ctx, w.Script, session.ScriptOptions{KeepGoing: w.KeepGoing})
		if err != nil {
			slog.Error("Script run failed", logfields.File(w.Script), logfields.Error(err))
			return
		}
		fmt.Fprintf(g.Out, "%s: %d run, %d ok, %d failed\n", w.Script, sum.Total, sum.Succeeded, sum.Failed)
	}
	rerun(ctx)

	watcher, err := session.NewWatcher(w.Script, cfg.Watch.Debounce.Std(), rerun)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Stop() }()
	if err := watcher.Start(ctx); err != nil {
		return err
	}

	if interval > 0 {
		sched, err := session.NewScheduler()
		if err != nil {
			return err
		}
		if _, err := sched.Every(ctx, "rerun-"+w.Script, interval, rerun); err != nil {
			return err
		}
		sched.Start()
		defer func() { _ = sched.Stop() }()
	}

	slog.Info("Watching for changes, press Ctrl+C to stop", logfields.File(w.Script))
	<-ctx.Done()
	slog.Info("Shutdown signal received, stopping watch")
	return nil
}
