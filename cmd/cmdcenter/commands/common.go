package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/cmdcenter/internal/config"
	"git.home.luguber.info/inful/cmdcenter/internal/logfields"
	"git.home.luguber.info/inful/cmdcenter/internal/metrics"
	"git.home.luguber.info/inful/cmdcenter/internal/observability"
	"git.home.luguber.info/inful/cmdcenter/internal/session"
)

// Global carries process-wide handles shared by every subcommand.
type Global struct {
	Logger *slog.Logger
	In     io.Reader
	Out    io.Writer
}

// NewGlobal returns a Global reading from in and writing to out.
func NewGlobal(in io.Reader, out io.Writer) *Global {
	return &Global{Logger: slog.Default(), In: in, Out: out}
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"cmdcenter.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Exec     ExecCmd     `cmd:"" help:"Execute a single command line"`
	Run      RunCmd      `cmd:"" help:"Execute a script, one command per line"`
	Repl     ReplCmd     `cmd:"" help:"Read commands interactively from stdin"`
	Watch    WatchCmd    `cmd:"" help:"Re-run a script whenever it changes or on an interval"`
	History  HistoryCmd  `cmd:"" help:"Show recorded sessions and invocations"`
	Commands CommandsCmd `cmd:"" help:"List registered commands"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	setLogger(g, config.LogFormatText, level)
	return nil
}

func setLogger(g *Global, format config.LogFormat, level slog.Level) {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	logger := slog.New(observability.NewContextHandler(handler))
	slog.SetDefault(logger)
	if g != nil {
		g.Logger = logger
	}
}

// loadConfig reads the configured file, falling back to defaults when it
// does not exist, and applies the file's logging settings unless -v was given.
func loadConfig(g *Global, root *CLI) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(root.Config)
	if err != nil {
		return nil, err
	}
	if !root.Verbose {
		setLogger(g, cfg.Logging.Format, cfg.Logging.Level.SlogLevel())
	}
	return cfg, nil
}

// runtime is an open session plus the process-level services around it.
type runtime struct {
	cfg     *config.Config
	session *session.Session
	metrics *http.Server
}

func openRuntime(ctx context.Context, g *Global, root *CLI) (*runtime, error) {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg}
	opts := []session.Option{
		session.WithOutput(g.Out),
		session.WithLogger(g.Logger),
		session.WithConfigPath(root.Config),
	}

	if cfg.Metrics.Enabled {
		reg := prom.NewRegistry()
		opts = append(opts, session.WithRecorder(metrics.NewPrometheusRecorder(reg)))
		srv, err := serveMetrics(cfg.Metrics.Listen, reg)
		if err != nil {
			return nil, err
		}
		rt.metrics = srv
	}

	sess, err := session.Open(ctx, cfg, opts...)
	if err != nil {
		rt.stopMetrics()
		return nil, err
	}
	rt.session = sess
	return rt, nil
}

func (rt *runtime) Close() error {
	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := rt.session.Close(closeCtx)
	rt.stopMetrics()
	return err
}

func (rt *runtime) stopMetrics() {
	if rt.metrics == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rt.metrics.Shutdown(ctx); err != nil {
		slog.Warn("Failed to stop metrics server", logfields.Error(err))
	}
}

func serveMetrics(addr string, reg *prom.Registry) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, ErrMetricsListen.WithCause(err).WithContext("listen", addr)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", logfields.Error(err))
		}
	}()
	slog.Info("Serving metrics", slog.String("listen", ln.Addr().String()))
	return srv, nil
}
