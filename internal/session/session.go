package session

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/cmdcenter/internal/config"
	"git.home.luguber.info/inful/cmdcenter/internal/dispatch"
	"git.home.luguber.info/inful/cmdcenter/internal/eventstore"
	"git.home.luguber.info/inful/cmdcenter/internal/logfields"
	"git.home.luguber.info/inful/cmdcenter/internal/metrics"
	"git.home.luguber.info/inful/cmdcenter/internal/observability"
	"git.home.luguber.info/inful/cmdcenter/internal/retry"
	"git.home.luguber.info/inful/cmdcenter/internal/state"
)

// Session is one run of the command center: a build context, the center
// bound to it and the sinks its outcomes flow to.
type Session struct {
	ID     string
	State  *state.State
	Center *dispatch.Center

	cfg        *config.Config
	configPath string
	store      eventstore.Store
	ownsStore  bool
	publisher  *dispatch.NATSLogger

	// scriptMu keeps whole script runs from interleaving.
	scriptMu sync.Mutex

	countMu   sync.Mutex
	succeeded int
	failed    int
}

type options struct {
	out        io.Writer
	logger     *slog.Logger
	recorder   metrics.Recorder
	store      eventstore.Store
	publisher  dispatch.Publisher
	configPath string
}

// Option configures Open.
type Option func(*options)

// WithOutput sets where command output (status, which) is written.
func WithOutput(w io.Writer) Option { return func(o *options) { o.out = w } }

// WithLogger sets the structured logger outcomes are written to.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(o *options) { o.recorder = r } }

// WithStore records history in store instead of opening the configured
// SQLite file. The caller keeps ownership of store.
func WithStore(s eventstore.Store) Option { return func(o *options) { o.store = s } }

// WithPublisher publishes outcomes through p instead of dialing NATS.
func WithPublisher(p dispatch.Publisher) Option { return func(o *options) { o.publisher = p } }

// WithConfigPath records which file the configuration came from.
func WithConfigPath(path string) Option { return func(o *options) { o.configPath = path } }

// Open builds a session from cfg: it restores the snapshot when one is
// configured, opens the history store and the NATS publisher when enabled,
// and constructs the center.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	o := options{out: io.Discard}
	for _, opt := range opts {
		opt(&o)
	}

	st, err := loadState(cfg)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:         uuid.NewString(),
		State:      st,
		cfg:        cfg,
		configPath: o.configPath,
	}

	loggers := dispatch.MultiLogger{
		dispatch.NewSlogLogger(o.logger),
		dispatch.LoggerFunc(s.count),
	}

	if err := s.openHistory(o.store); err != nil {
		return nil, err
	}
	if s.store != nil {
		loggers = append(loggers, dispatch.NewStoreLogger(s.store, s.ID))
	}

	if err := s.openPublisher(ctx, o.publisher); err != nil {
		s.closeStore()
		return nil, err
	}
	if s.publisher != nil {
		loggers = append(loggers, s.publisher)
	}

	center, err := dispatch.New(st,
		dispatch.WithFiles(cfg.Aliases),
		dispatch.WithLogger(loggers),
		dispatch.WithRecorder(o.recorder),
		dispatch.WithOutput(o.out),
	)
	if err != nil {
		s.closePublisher()
		s.closeStore()
		return nil, err
	}
	s.Center = center

	// Only a fully opened session is recorded, so every start gets an end.
	if s.store != nil {
		s.appendEvent(ctx, eventstore.TypeSessionStarted, eventstore.SessionStarted{
			WorkDir: s.State.WorkDir(),
			Config:  s.configPath,
		})
	}

	slog.Info("Session opened",
		logfields.SessionID(s.ID),
		logfields.Path(st.WorkDir()),
		slog.Bool("history", s.store != nil),
		slog.Bool("notify", s.publisher != nil))
	return s, nil
}

func loadState(cfg *config.Config) (*state.State, error) {
	var st *state.State
	if cfg.Session.Snapshot != "" {
		loaded, err := state.LoadFile(cfg.Session.Snapshot, cfg.Session.WorkDir)
		if err != nil {
			return nil, err
		}
		st = loaded
	} else {
		st = state.New(cfg.Session.WorkDir)
	}

	for name, value := range cfg.Session.Flags {
		if _, err := st.Flag(name); err != nil {
			st.SetFlag(name, value)
		}
	}
	return st, nil
}

func (s *Session) openHistory(injected eventstore.Store) error {
	switch {
	case injected != nil:
		s.store = injected
	case s.cfg.History.Enabled:
		if err := ensureParentDir(s.cfg.History.Path); err != nil {
			return ErrHistoryOpen.WithCause(err).WithContext("path", s.cfg.History.Path)
		}
		store, err := eventstore.NewSQLiteStore(s.cfg.History.Path)
		if err != nil {
			return ErrHistoryOpen.WithCause(err).WithContext("path", s.cfg.History.Path)
		}
		s.store, s.ownsStore = store, true
	}
	return nil
}

func (s *Session) openPublisher(ctx context.Context, injected dispatch.Publisher) error {
	if injected != nil {
		s.publisher = dispatch.NewNATSLogger(injected, s.cfg.Notify.Subject, s.ID)
		return nil
	}
	if s.cfg.Notify.NATSURL == "" {
		return nil
	}
	retries := s.cfg.Notify.ConnectRetries
	if retries == 0 {
		retries = -1
	}
	policy := retry.NewPolicy(retry.ModeExponential, s.cfg.Notify.RetryInitial.Std(), 0, retries)
	pub, err := dispatch.DialNATS(ctx, s.cfg.Notify.NATSURL, s.cfg.Notify.Subject, s.ID, policy)
	if err != nil {
		return err
	}
	s.publisher = pub
	return nil
}

func (s *Session) count(_ context.Context, o dispatch.Outcome) {
	s.countMu.Lock()
	defer s.countMu.Unlock()
	if o.Success {
		s.succeeded++
	} else {
		s.failed++
	}
}

// Counts returns how many invocations succeeded and failed so far.
func (s *Session) Counts() (succeeded, failed int) {
	s.countMu.Lock()
	defer s.countMu.Unlock()
	return s.succeeded, s.failed
}

// Execute runs one line through the center.
func (s *Session) Execute(ctx context.Context, line string) dispatch.Outcome {
	return s.Center.Execute(s.context(ctx), line)
}

// context tags ctx with the session ID for log records.
func (s *Session) context(ctx context.Context) context.Context {
	return observability.WithSessionID(ctx, s.ID)
}

// Close records the end of the session, saves the snapshot and releases
// the history store and publisher. It is safe to call more than once.
func (s *Session) Close(ctx context.Context) error {
	succeeded, failed := s.Counts()
	if s.store != nil {
		s.appendEvent(ctx, eventstore.TypeSessionEnded, eventstore.SessionEnded{
			Succeeded: succeeded,
			Failed:    failed,
		})
	}

	var firstErr error
	if s.cfg.Session.Snapshot != "" {
		if err := state.SaveFile(s.cfg.Session.Snapshot, s.State); err != nil {
			firstErr = err
		}
	}
	if err := s.closePublisher(); err != nil && firstErr == nil {
		firstErr = err
	}
	s.closeStore()

	slog.Info("Session closed",
		logfields.SessionID(s.ID),
		slog.Int("succeeded", succeeded),
		slog.Int("failed", failed))
	return firstErr
}

func (s *Session) closePublisher() error {
	if s.publisher == nil {
		return nil
	}
	err := s.publisher.Close()
	s.publisher = nil
	return err
}

func (s *Session) closeStore() {
	if s.store != nil && s.ownsStore {
		if err := s.store.Close(); err != nil {
			slog.Warn("Failed to close invocation history", logfields.SessionID(s.ID), logfields.Error(err))
		}
	}
	s.store = nil
}

func (s *Session) appendEvent(ctx context.Context, eventType string, payload any) {
	data, err := eventstore.Marshal(eventType, payload)
	if err == nil {
		err = s.store.Append(ctx, s.ID, eventType, data, nil)
	}
	if err != nil {
		slog.Warn("Failed to record session event",
			logfields.SessionID(s.ID),
			slog.String("event_type", eventType),
			logfields.Error(err))
	}
}
