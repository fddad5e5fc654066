package dispatch

import (
	"bytes"
	"context"
	"maps"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/cmdcenter/internal/command"
	"git.home.luguber.info/inful/cmdcenter/internal/metrics"
	"git.home.luguber.info/inful/cmdcenter/internal/state"
)

// captureLogger records every outcome it receives.
type captureLogger struct {
	mu       sync.Mutex
	outcomes []Outcome
}

func (c *captureLogger) Log(_ context.Context, o Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcomes = append(c.outcomes, o)
}

func (c *captureLogger) all() []Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Outcome(nil), c.outcomes...)
}

// closingCommand counts how often it was released.
type closingCommand struct {
	closed int
}

func (c *closingCommand) Execute(context.Context, *command.Invocation) error { return nil }

func (c *closingCommand) Close() error {
	c.closed++
	return nil
}

// taggedCommand is a value command whose tag may hold an uncomparable value.
type taggedCommand struct {
	tag any
}

func (taggedCommand) Execute(context.Context, *command.Invocation) error { return nil }

// sneakyStatus declares itself read-only but sets a flag.
type sneakyStatus struct{ command.BaseCommand }

func (sneakyStatus) Execute(_ context.Context, inv *command.Invocation) error {
	inv.State.SetFlag("touched", "true")
	return nil
}

func newTestCenter(t *testing.T, opts ...Option) (*Center, *state.State, *captureLogger) {
	t.Helper()
	st := state.New("/work")
	logger := &captureLogger{}
	c, err := New(st, append([]Option{WithLogger(logger)}, opts...)...)
	require.NoError(t, err)
	return c, st, logger
}

func TestNewRequiresState(t *testing.T) {
	c, err := New(nil)
	require.Error(t, err)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrMissingState)
}

func TestBuiltinTables(t *testing.T) {
	c, _, _ := newTestCenter(t)

	path, err := c.GetFile("main")
	require.NoError(t, err)
	assert.Equal(t, "/src/main", path)

	assert.Equal(t, []string{"build", "cd", "clean", "copy", "set", "status", "unset", "which"}, c.Commands())
}

func TestWithoutDefaults(t *testing.T) {
	c, _, _ := newTestCenter(t, WithoutDefaults(), WithFiles(map[string]string{"docs": "/docs"}))

	assert.Empty(t, c.Commands())
	_, err := c.GetFile("main")
	assert.ErrorIs(t, err, ErrUnknownAlias)

	path, err := c.GetFile("docs")
	require.NoError(t, err)
	assert.Equal(t, "/docs", path)
}

func TestSetFileThenGetFile(t *testing.T) {
	c, _, _ := newTestCenter(t)

	c.SetFile("docs", "/src/docs")
	path, err := c.GetFile("docs")
	require.NoError(t, err)
	assert.Equal(t, "/src/docs", path)

	c.SetFile("docs", "/elsewhere")
	path, err = c.GetFile("docs")
	require.NoError(t, err)
	assert.Equal(t, "/elsewhere", path)
}

func TestGetFileUnknownAlias(t *testing.T) {
	c, _, _ := newTestCenter(t)

	_, err := c.GetFile("nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownAlias)
	assert.Contains(t, err.Error(), `"nope"`)
}

func TestGetCommandUnknownSuggests(t *testing.T) {
	c, _, _ := newTestCenter(t)

	_, err := c.GetCommand("biuld")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.Contains(t, err.Error(), `did you mean "build"?`)

	_, err = c.GetCommand("deploy")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "did you mean")
}

func TestSetCommandReplacesAndReleases(t *testing.T) {
	c, _, _ := newTestCenter(t)
	op1 := &closingCommand{}
	op2 := &closingCommand{}

	c.SetCommand("deploy", op1)
	got, err := c.GetCommand("deploy")
	require.NoError(t, err)
	assert.Same(t, op1, got)

	c.SetCommand("deploy", op2)
	got, err = c.GetCommand("deploy")
	require.NoError(t, err)
	assert.Same(t, op2, got)
	assert.Equal(t, 1, op1.closed)
	assert.Equal(t, 0, op2.closed)

	// Re-registering the same value must not release it.
	c.SetCommand("deploy", op2)
	assert.Equal(t, 0, op2.closed)

	c.SetCommand("deploy", nil)
	_, err = c.GetCommand("deploy")
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.Equal(t, 1, op2.closed)
}

func TestExecuteBuildMain(t *testing.T) {
	c, st, logger := newTestCenter(t)

	ok := c.ExecuteCommand(context.Background(), "build main")
	require.True(t, ok)

	last, err := st.LastArtifact()
	require.NoError(t, err)
	assert.Equal(t, "/src/main", last)

	outcomes := logger.all()
	require.Len(t, outcomes, 1)
	o := outcomes[0]
	assert.True(t, o.Success)
	assert.Equal(t, KindNone, o.Kind)
	assert.Equal(t, PhaseExecuting, o.Reached)
	assert.Equal(t, PhaseEvaluated, o.Phase())
	assert.Equal(t, "build", o.Name)
	assert.Equal(t, []string{"main"}, o.Args)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, st.Fingerprint(), o.StateFingerprint)
}

func TestExecuteUnknownAliasFailsWithoutMutation(t *testing.T) {
	c, st, logger := newTestCenter(t)
	before := st.Snapshot()

	o := c.Execute(context.Background(), "build ghost")
	assert.False(t, o.Success)
	assert.Equal(t, KindExecutionFailure, o.Kind)
	assert.ErrorIs(t, o.Err, ErrExecutionFailure)
	assert.ErrorIs(t, o.Err, ErrUnknownAlias)
	assert.Contains(t, o.Reason, "ghost")
	assert.True(t, st.Equal(before))

	_, err := st.LastArtifact()
	assert.ErrorIs(t, err, state.ErrFieldNotSet)
	require.Len(t, logger.all(), 1)
}

func TestParseFailuresNeverExecute(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		kind    ErrorKind
		reached Phase
	}{
		{"empty", "", KindEmptyCommand, PhaseReceived},
		{"whitespace only", " \t  ", KindEmptyCommand, PhaseReceived},
		{"unknown command", "deploy main", KindUnknownCommand, PhaseTokenized},
		{"too few arguments", "build", KindInvalidArguments, PhaseTokenized},
		{"too many arguments", "build main lib", KindInvalidArguments, PhaseTokenized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, st, logger := newTestCenter(t)
			files := maps.Clone(c.files)
			names := c.Commands()
			before := st.Snapshot()

			assert.False(t, c.ExecuteCommand(context.Background(), tt.input))

			outcomes := logger.all()
			require.Len(t, outcomes, 1)
			o := outcomes[0]
			assert.Equal(t, tt.kind, o.Kind)
			assert.True(t, o.Kind.ParseStage())
			assert.Equal(t, tt.reached, o.Reached)
			assert.NotEqual(t, PhaseExecuting, o.Reached)

			assert.True(t, st.Equal(before))
			assert.Equal(t, files, c.files)
			assert.Equal(t, names, c.Commands())
		})
	}
}

func TestStatusIsIdempotent(t *testing.T) {
	var out bytes.Buffer
	c, st, _ := newTestCenter(t, WithOutput(&out))
	require.True(t, c.ExecuteCommand(context.Background(), "build main"))
	before := st.Snapshot()

	require.True(t, c.ExecuteCommand(context.Background(), "status"))
	first := out.String()
	out.Reset()
	require.True(t, c.ExecuteCommand(context.Background(), "status"))

	assert.Equal(t, first, out.String())
	assert.Contains(t, first, "last artifact: /src/main")
	assert.True(t, st.Equal(before))
}

func TestLoggerReceivesEveryOutcomeInOrder(t *testing.T) {
	c, _, logger := newTestCenter(t)
	inputs := []string{"build main", "", "deploy", "copy main dist", "unset nothing"}

	for _, in := range inputs {
		c.ExecuteCommand(context.Background(), in)
	}

	outcomes := logger.all()
	require.Len(t, outcomes, len(inputs))
	for i, o := range outcomes {
		assert.Equal(t, inputs[i], o.Command)
	}
	assert.True(t, outcomes[0].Success)
	assert.True(t, outcomes[3].Success)
	assert.Equal(t, KindExecutionFailure, outcomes[4].Kind)
}

func TestCustomCommandSeesStateAndFiles(t *testing.T) {
	var resolved string
	deploy := command.CommandFunc(func(_ context.Context, inv *command.Invocation) error {
		p, err := inv.Files.ResolveFile(inv.Args[0])
		if err != nil {
			return err
		}
		resolved = p
		inv.State.SetFlag("deployed", p)
		return nil
	})

	c, st, _ := newTestCenter(t, WithCommands(map[string]command.Command{"deploy": deploy}))
	require.True(t, c.ExecuteCommand(context.Background(), "deploy dist"))

	assert.Equal(t, "/out/dist", resolved)
	v, err := st.Flag("deployed")
	require.NoError(t, err)
	assert.Equal(t, "/out/dist", v)
}

func TestTablesStayAvailableDuringExecution(t *testing.T) {
	started := make(chan struct{})
	proceed := make(chan struct{})
	slow := command.CommandFunc(func(context.Context, *command.Invocation) error {
		close(started)
		<-proceed
		return nil
	})
	c, _, _ := newTestCenter(t, WithCommands(map[string]command.Command{"slow": slow}))

	done := make(chan bool)
	go func() { done <- c.ExecuteCommand(context.Background(), "slow") }()
	<-started

	c.SetFile("docs", "/src/docs")
	path, err := c.GetFile("docs")
	require.NoError(t, err)
	assert.Equal(t, "/src/docs", path)
	assert.Contains(t, c.Commands(), "slow")

	close(proceed)
	assert.True(t, <-done)
}

func TestReadOnlyCommandMutationIsRolledBack(t *testing.T) {
	sneaky := sneakyStatus{command.NewBaseCommand(command.Metadata{
		Name:     "peek",
		MaxArgs:  0,
		ReadOnly: true,
	})}
	c, st, _ := newTestCenter(t, WithCommands(map[string]command.Command{"peek": sneaky}))
	before := st.Fingerprint()

	o := c.Execute(context.Background(), "peek")
	assert.False(t, o.Success)
	assert.Equal(t, KindExecutionFailure, o.Kind)
	assert.Contains(t, o.Reason, "read-only")
	assert.Equal(t, before, o.StateFingerprint)
	_, err := st.Flag("touched")
	assert.ErrorIs(t, err, state.ErrFieldNotSet)
}

func TestCanceledContextStopsBeforeExecution(t *testing.T) {
	c, st, _ := newTestCenter(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := c.Execute(ctx, "build main")
	assert.False(t, o.Success)
	assert.Equal(t, KindExecutionFailure, o.Kind)
	assert.Equal(t, PhaseResolved, o.Reached)
	_, err := st.LastArtifact()
	assert.ErrorIs(t, err, state.ErrFieldNotSet)
}

func TestDurationUsesClock(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	clock := func() time.Time {
		calls++
		return base.Add(time.Duration(calls-1) * 250 * time.Millisecond)
	}

	c, _, _ := newTestCenter(t, withClock(clock))
	o := c.Execute(context.Background(), "status")
	assert.Equal(t, base, o.StartedAt)
	assert.Equal(t, 250*time.Millisecond, o.Duration)
}

// countingRecorder tallies recorder calls.
type countingRecorder struct {
	metrics.NoopRecorder
	results       map[string]int
	parseFailures map[string]int
}

func (r *countingRecorder) IncCommandResult(cmd string, result metrics.ResultLabel) {
	r.results[cmd+"/"+string(result)]++
}

func (r *countingRecorder) IncParseFailure(kind string) { r.parseFailures[kind]++ }

func TestRecorderCounts(t *testing.T) {
	rec := &countingRecorder{results: map[string]int{}, parseFailures: map[string]int{}}
	c, _, _ := newTestCenter(t, WithRecorder(rec))

	c.ExecuteCommand(context.Background(), "build main")
	c.ExecuteCommand(context.Background(), "build ghost")
	c.ExecuteCommand(context.Background(), "")
	c.ExecuteCommand(context.Background(), "deploy")

	assert.Equal(t, 1, rec.results["build/success"])
	assert.Equal(t, 1, rec.results["build/failure"])
	assert.Equal(t, 1, rec.parseFailures["empty_command"])
	assert.Equal(t, 1, rec.parseFailures["unknown_command"])
}

func TestDescribe(t *testing.T) {
	c, _, _ := newTestCenter(t)

	md, ok := c.Describe("copy")
	require.True(t, ok)
	assert.Equal(t, 2, md.MinArgs)

	_, ok = c.Describe("missing")
	assert.False(t, ok)
}

func TestSetCommandReplacesFuncCommand(t *testing.T) {
	c, _, _ := newTestCenter(t)
	noop := command.CommandFunc(func(context.Context, *command.Invocation) error { return nil })

	c.SetCommand("noop", noop)
	c.SetCommand("noop", noop)

	assert.Contains(t, c.Commands(), "noop")
}

func TestSetCommandReplacesValueWithUncomparableField(t *testing.T) {
	c, _, _ := newTestCenter(t)

	require.NotPanics(t, func() {
		c.SetCommand("tagged", taggedCommand{tag: []string{"a"}})
		c.SetCommand("tagged", taggedCommand{tag: []string{"b"}})
		c.SetCommand("tagged", taggedCommand{tag: "plain"})
		c.SetCommand("tagged", taggedCommand{tag: "plain"})
	})

	got, err := c.GetCommand("tagged")
	require.NoError(t, err)
	assert.Equal(t, taggedCommand{tag: "plain"}, got)
}
