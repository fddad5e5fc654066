package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/cmdcenter/internal/eventstore"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Session string `short:"s" help:"Show the invocations of one session"`
	Limit   int    `short:"n" help:"Show at most this many sessions" default:"20"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	return RunHistory(context.Background(), g, root, h)
}

func RunHistory(ctx context.Context, g *Global, root *CLI, h *HistoryCmd) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfg.History.Path); err != nil {
		return ErrHistoryOff.WithContext("path", cfg.History.Path)
	}

	store, err := eventstore.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	if h.Session != "" {
		return printSession(ctx, g.Out, store, h.Session)
	}

	proj := eventstore.NewSessionProjection(store)
	if err := proj.Rebuild(ctx); err != nil {
		return err
	}
	return printSessions(g.Out, proj.History(), h.Limit)
}

func printSessions(w io.Writer, sessions []eventstore.SessionSummary, limit int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tSTARTED\tSTATUS\tRUN\tOK\tFAILED")
	for i, s := range sessions {
		if limit > 0 && i >= limit {
			break
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\n",
			s.SessionID, s.StartedAt.Format(time.RFC3339), s.Status, s.Invocations, s.Succeeded, s.Failed)
	}
	return tw.Flush()
}

func printSession(ctx context.Context, w io.Writer, store eventstore.Store, sessionID string) error {
	events, err := store.GetBySession(ctx, sessionID)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tRESULT\tCOMMAND\tREASON")
	for _, ev := range events {
		if ev.Type() != eventstore.TypeInvocationEvaluated {
			continue
		}
		var rec eventstore.InvocationRecord
		if err := json.Unmarshal(ev.Payload(), &rec); err != nil {
			return err
		}
		result := "ok"
		if !rec.Success {
			result = rec.Kind
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", ev.Timestamp().Format(time.RFC3339), result, rec.Command, rec.Reason)
	}
	return tw.Flush()
}
