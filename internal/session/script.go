package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"git.home.luguber.info/inful/cmdcenter/internal/dispatch"
	"git.home.luguber.info/inful/cmdcenter/internal/logfields"
	"git.home.luguber.info/inful/cmdcenter/internal/observability"
)

// ScriptOptions controls RunScript.
type ScriptOptions struct {
	// KeepGoing runs every line even after a failure.
	KeepGoing bool
	// Name labels log records; usually the script path.
	Name string
}

// Summary reports what a script run did.
type Summary struct {
	Total       int
	Succeeded   int
	Failed      int
	FailedLines []int
	Stopped     bool // a failure ended the run early
}

// OK reports whether every executed line succeeded.
func (s Summary) OK() bool { return s.Failed == 0 }

// RunScript executes r line by line. Blank lines and lines starting with #
// are skipped. The run stops at the first failing line unless KeepGoing is
// set; the returned error is reserved for read failures and cancellation.
func (s *Session) RunScript(ctx context.Context, r io.Reader, opts ScriptOptions) (Summary, error) {
	s.scriptMu.Lock()
	defer s.scriptMu.Unlock()

	ctx = s.context(ctx)
	if opts.Name != "" {
		ctx = observability.WithScript(ctx, opts.Name)
	}

	var sum Summary
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		sum.Total++
		out := s.Center.Execute(ctx, line)
		if out.Success {
			sum.Succeeded++
			continue
		}

		sum.Failed++
		sum.FailedLines = append(sum.FailedLines, lineNo)
		slog.Debug("Script line failed",
			logfields.File(opts.Name),
			logfields.Line(lineNo),
			logfields.Kind(string(out.Kind)))
		if !opts.KeepGoing {
			sum.Stopped = true
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return sum, ErrScriptRead.WithCause(err).WithContext("file", opts.Name)
	}
	return sum, nil
}

// RunScriptFile opens path and runs it with RunScript.
func (s *Session) RunScriptFile(ctx context.Context, path string, opts ScriptOptions) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, ErrScriptOpen.WithCause(err).WithContext("file", path)
	}
	defer f.Close()

	if opts.Name == "" {
		opts.Name = path
	}
	sum, err := s.RunScript(ctx, f, opts)
	if err != nil {
		return sum, err
	}
	slog.Info("Script finished",
		logfields.File(path),
		slog.Int("total", sum.Total),
		slog.Int("succeeded", sum.Succeeded),
		slog.Int("failed", sum.Failed))
	return sum, nil
}

// Prompt is printed before each REPL read.
const Prompt = "> "

// REPL reads invocations from in until EOF, "exit" or "quit", printing
// "ok" or "fail: <reason>" to out after each one.
func (s *Session) REPL(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx = s.context(ctx)
	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "exit", "quit":
			return nil
		case "":
			continue
		}
		printOutcome(out, s.Center.Execute(ctx, line))
	}
}

func printOutcome(w io.Writer, o dispatch.Outcome) {
	if o.Success {
		fmt.Fprintln(w, "ok")
		return
	}
	fmt.Fprintf(w, "fail: %s\n", o.Reason)
}
