package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/tristendillon/pydeploy/core/logger"
	"github.com/tristendillon/pydeploy/core/models"
)

const (
	searchPathVar = "PYTHONPATH"
	maxLineSize   = 1024 * 1024
)

// Listener receives the events of a run on the goroutine that called Run.
type Listener interface {
	OnLine(line string)
	OnProgress(event models.ProgressEvent)
}

// Runner executes packaging commands one at a time.
type Runner struct {
	// Shell is the interpreter prefix the command string is appended to.
	Shell []string
	// Env is the base environment; nil means the current process environment.
	Env []string
	// WaitDelay bounds how long output is drained after a cancelled run.
	WaitDelay time.Duration

	active atomic.Bool
}

func New() *Runner {
	return &Runner{
		Shell:     DefaultShell(runtime.GOOS),
		WaitDelay: 2 * time.Second,
	}
}

func DefaultShell(goos string) []string {
	if goos == "windows" {
		return []string{"cmd", "/C"}
	}
	return []string{"sh", "-c"}
}

// Active reports whether a run is in flight.
func (r *Runner) Active() bool {
	return r.active.Load()
}

// Run is a single packaging run started by Runner.Start.
type Run struct {
	events  chan models.RunEvent
	done    chan struct{}
	outcome models.RunOutcome
}

// Events delivers output lines and progress updates in emission order. The
// channel is closed when the run ends and must be drained for the run to
// make progress.
func (r *Run) Events() <-chan models.RunEvent {
	return r.events
}

// Wait blocks until the run ends and returns its outcome. Events not yet
// read are discarded.
func (r *Run) Wait() models.RunOutcome {
	for range r.events {
	}
	<-r.done
	return r.outcome
}

// Start launches req in the background. It fails only when another run of
// this Runner is still active; spawn failures are reported by the outcome.
func (r *Runner) Start(ctx context.Context, req models.RunRequest) (*Run, error) {
	if !r.active.CompareAndSwap(false, true) {
		return nil, models.ErrRunInProgress
	}

	run := &Run{
		events: make(chan models.RunEvent),
		done:   make(chan struct{}),
	}
	cmd := r.command(ctx, req)

	go func() {
		run.outcome = execute(ctx, cmd, req.Command, run.events)
		r.active.Store(false)
		close(run.events)
		close(run.done)
	}()
	return run, nil
}

// Run starts req and pushes its events into l until it ends.
func (r *Runner) Run(ctx context.Context, req models.RunRequest, l Listener) (models.RunOutcome, error) {
	run, err := r.Start(ctx, req)
	if err != nil {
		return models.RunOutcome{}, err
	}
	for ev := range run.Events() {
		switch ev.Kind {
		case models.EventLine:
			l.OnLine(ev.Line)
		case models.EventProgress:
			l.OnProgress(ev.Progress)
		}
	}
	return run.Wait(), nil
}

func (r *Runner) command(ctx context.Context, req models.RunRequest) *exec.Cmd {
	shell := r.Shell
	if len(shell) == 0 {
		shell = DefaultShell(runtime.GOOS)
	}
	args := append(append([]string(nil), shell[1:]...), req.Command)
	cmd := exec.CommandContext(ctx, shell[0], args...)

	base := r.Env
	if base == nil {
		base = os.Environ()
	}
	cmd.Env = BuildEnv(base, req.ExtraSearchPath)
	cmd.WaitDelay = r.WaitDelay
	return cmd
}

// BuildEnv returns a copy of base with extra prepended to PYTHONPATH.
func BuildEnv(base []string, extra string) []string {
	env := append([]string(nil), base...)
	if extra == "" {
		return env
	}
	prefix := searchPathVar + "="
	for i, kv := range env {
		if !strings.HasPrefix(kv, prefix) {
			continue
		}
		if existing := strings.TrimPrefix(kv, prefix); existing != "" {
			env[i] = prefix + extra + string(os.PathListSeparator) + existing
		} else {
			env[i] = prefix + extra
		}
		return env
	}
	return append(env, prefix+extra)
}

func execute(ctx context.Context, cmd *exec.Cmd, command string, events chan<- models.RunEvent) models.RunOutcome {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return spawnFailure(command, err)
	}
	cmd.Stderr = cmd.Stdout

	logger.Debug("Running: %s", command)
	if err := cmd.Start(); err != nil {
		return spawnFailure(command, err)
	}

	est := NewEstimator()
	emitProgress(events, est.Start())

	var lines []string
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		lines = append(lines, line)
		events <- models.RunEvent{Kind: models.EventLine, Line: line}
		for _, p := range est.Observe(line) {
			emitProgress(events, p)
		}
	}
	if err := scanner.Err(); err != nil {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		_ = cmd.Wait()
		return spawnFailure(command, fmt.Errorf("failed to read output: %w", err))
	}

	waitErr := cmd.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		logger.Warn("Packaging run cancelled: %v", ctxErr)
		return models.RunOutcome{
			Status:   models.OutcomeFailure,
			Message:  fmt.Sprintf("build cancelled: %v", ctxErr),
			ExitCode: -1,
			Err:      ctxErr,
		}
	}

	if waitErr == nil {
		emitProgress(events, est.Complete())
		return models.RunOutcome{
			Status:  models.OutcomeSuccess,
			Message: "Build completed successfully",
		}
	}

	var exitErr *exec.ExitError
	if !errors.As(waitErr, &exitErr) {
		return spawnFailure(command, waitErr)
	}
	toolErr := &models.ToolExitError{ExitCode: exitErr.ExitCode()}
	return models.RunOutcome{
		Status:   models.OutcomeFailure,
		Message:  toolErr.Error(),
		Excerpt:  Excerpt(lines),
		ExitCode: toolErr.ExitCode,
		Err:      toolErr,
	}
}

func emitProgress(events chan<- models.RunEvent, p models.ProgressEvent) {
	events <- models.RunEvent{Kind: models.EventProgress, Progress: p}
}

func spawnFailure(command string, err error) models.RunOutcome {
	spawnErr := &models.SpawnError{Command: command, Err: err}
	logger.Error("%v", spawnErr)
	return models.RunOutcome{
		Status:   models.OutcomeFailure,
		Message:  spawnErr.Error(),
		ExitCode: -1,
		Err:      spawnErr,
	}
}
