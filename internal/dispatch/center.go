package dispatch

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"sync"
	"time"

	"git.home.luguber.info/inful/cmdcenter/internal/command"
	"git.home.luguber.info/inful/cmdcenter/internal/logfields"
	"git.home.luguber.info/inful/cmdcenter/internal/metrics"
	"git.home.luguber.info/inful/cmdcenter/internal/state"
)

// Center owns the alias table and the command registry and is the sole entry
// point for executing invocations against a shared build context.
//
// Commands see the alias table only through a read-only resolver. Calling
// SetFile or SetCommand from inside a running command is outside the contract;
// other goroutines may read or update the tables while an invocation runs.
type Center struct {
	// execMu serializes invocations; mu guards the two tables.
	execMu sync.Mutex
	mu     sync.RWMutex

	files    map[string]string
	commands map[string]command.Command
	state    *state.State

	logger   Logger
	recorder metrics.Recorder
	out      io.Writer
	now      func() time.Time

	extraFiles    map[string]string
	extraCommands map[string]command.Command
	skipDefaults  bool
}

// Option configures a Center at construction time.
type Option func(*Center)

// WithLogger sets the outcome sink. Defaults to a SlogLogger on slog.Default().
func WithLogger(l Logger) Option {
	return func(c *Center) {
		c.logger = l
	}
}

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Center) {
		c.recorder = r
	}
}

// WithOutput sets where commands write user-facing output (status, which).
func WithOutput(w io.Writer) Option {
	return func(c *Center) {
		c.out = w
	}
}

// WithFiles adds aliases on top of the built-in table; later entries win.
func WithFiles(files map[string]string) Option {
	return func(c *Center) {
		maps.Copy(c.extraFiles, files)
	}
}

// WithCommands registers extra commands during initialization.
func WithCommands(cmds map[string]command.Command) Option {
	return func(c *Center) {
		maps.Copy(c.extraCommands, cmds)
	}
}

// WithoutDefaults starts from empty tables instead of the built-ins.
func WithoutDefaults() Option {
	return func(c *Center) {
		c.skipDefaults = true
	}
}

// withClock overrides time.Now in tests.
func withClock(now func() time.Time) Option {
	return func(c *Center) {
		c.now = now
	}
}

// New creates a Center bound to st. It fails with ErrMissingState when st is
// nil, which must abort session startup.
func New(st *state.State, opts ...Option) (*Center, error) {
	if st == nil {
		return nil, ErrMissingState
	}

	c := &Center{
		state:         st,
		logger:        NewSlogLogger(nil),
		recorder:      metrics.NoopRecorder{},
		out:           io.Discard,
		now:           time.Now,
		extraFiles:    make(map[string]string),
		extraCommands: make(map[string]command.Command),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = NopLogger{}
	}
	if c.recorder == nil {
		c.recorder = metrics.NoopRecorder{}
	}
	if c.out == nil {
		c.out = io.Discard
	}

	c.initialize()
	return c, nil
}

// initialize populates both tables. It runs once, from New, before the Center
// is reachable by any caller.
func (c *Center) initialize() {
	c.initializeFileMap()
	c.initializeCommandMap()
	c.extraFiles, c.extraCommands = nil, nil
}

func (c *Center) initializeFileMap() {
	base := map[string]string{}
	if !c.skipDefaults {
		base = DefaultFiles()
	}
	c.files = mergeFiles(base, c.extraFiles)
}

func (c *Center) initializeCommandMap() {
	c.commands = make(map[string]command.Command)
	if !c.skipDefaults {
		maps.Copy(c.commands, command.Builtins())
	}
	maps.Copy(c.commands, c.extraCommands)
}

// GetFile returns the path registered under alias.
func (c *Center) GetFile(alias string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	path, ok := c.files[alias]
	if !ok {
		return "", ErrUnknownAlias.
			WithCause(fmt.Errorf("%q", alias)).
			WithContext("alias", alias)
	}
	return path, nil
}

// SetFile registers or overwrites an alias.
func (c *Center) SetFile(alias, path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[alias] = path
}

// GetCommand returns the command registered under name. The registry keeps
// ownership; callers must not release it.
func (c *Center) GetCommand(name string) (command.Command, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cmd, ok := c.commands[name]
	if !ok {
		cause := fmt.Errorf("%q", name)
		if s := command.Suggest(name, slices.Collect(maps.Keys(c.commands))); s != "" {
			cause = fmt.Errorf("%q, did you mean %q?", name, s)
		}
		return nil, ErrUnknownCommand.
			WithCause(cause).
			WithContext("command", name)
	}
	return cmd, nil
}

// SetCommand registers cmd under name and takes ownership of it. A command
// previously registered under name is released before SetCommand returns:
// if it implements io.Closer it is closed. A nil cmd removes the entry.
func (c *Center) SetCommand(name string, cmd command.Command) {
	c.mu.Lock()
	prev, existed := c.commands[name]
	if cmd == nil {
		delete(c.commands, name)
	} else {
		c.commands[name] = cmd
	}
	c.mu.Unlock()

	if existed && !sameCommand(prev, cmd) {
		release(name, prev)
	}
}

// sameCommand reports whether a and b are the same registered value. Values
// that cannot be compared, such as CommandFunc or structs holding slices in
// interface fields, are never considered the same.
func sameCommand(a, b command.Command) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() || !va.Comparable() || !vb.Comparable() {
		return false
	}
	return va.Equal(vb)
}

func release(name string, cmd command.Command) {
	closer, ok := cmd.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		slog.Warn("Failed to release replaced command", logfields.Command(name), logfields.Error(err))
	}
}

// Commands returns the registered command names, sorted.
func (c *Center) Commands() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.commands))
}

// Describe returns the metadata of a registered command, if it has any.
func (c *Center) Describe(name string) (command.Metadata, bool) {
	cmd, err := c.GetCommand(name)
	if err != nil {
		return command.Metadata{}, false
	}
	d, ok := cmd.(command.Describer)
	if !ok {
		return command.Metadata{Name: name}, false
	}
	return d.Describe(), true
}

// State returns the build context the Center was constructed with.
func (c *Center) State() *state.State {
	return c.state
}

// fileView is what commands see of the alias table: lookups only.
type fileView struct {
	c *Center
}

func (v fileView) ResolveFile(alias string) (string, error) {
	return v.c.GetFile(alias)
}
