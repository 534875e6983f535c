// SPDX-License-Identifier: MPL-2.0

package pyruntime

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
)

// EnvInterpreter is the environment variable that overrides interpreter
// discovery with an explicit executable path.
const EnvInterpreter = "VOLPROBE_PYTHON"

// candidateNames are the executables probed on PATH, in order, when no
// explicit interpreter is configured.
var candidateNames = []string{"python3", "python"}

var (
	// ErrNoInterpreter is returned by Discover when no Python executable
	// can be found through any discovery source.
	ErrNoInterpreter = errors.New("no python interpreter found")

	// ErrAlreadyStarted is returned by Start when called more than once.
	ErrAlreadyStarted = errors.New("interpreter already started")

	// ErrNotStarted is returned by WithSession before a successful Start.
	ErrNotStarted = errors.New("interpreter not started")
)

// Interpreter lifecycle states. Transitions are linear:
// Created -> Started, or Created -> Failed. There is no restart path;
// a failed interpreter handle is discarded with the process.
const (
	stateCreated int32 = iota
	stateStarted
	stateFailed
)

type (
	// Interpreter is a handle to one host Python interpreter. At most one
	// Interpreter should be started per run, and all imports go through
	// sessions acquired with WithSession.
	Interpreter struct {
		path    string
		version string
		runner  Runner

		state atomic.Int32
		// mu serializes sessions: WithSession holds it for the whole
		// callback so at most one session exists at a time.
		mu sync.Mutex
	}

	// Option configures an Interpreter at construction time.
	Option func(*Interpreter)

	// StartError is returned when a discovered interpreter fails its
	// startup check. It carries the interpreter's stderr tail.
	StartError struct {
		Path       string
		Diagnostic string
		Cause      error
	}
)

// WithRunner overrides the production exec-backed Runner. Used by tests.
func WithRunner(r Runner) Option {
	return func(i *Interpreter) {
		i.runner = r
	}
}

// Discover locates a Python interpreter executable. Sources, highest
// priority first: the explicit path argument (from config), the
// VOLPROBE_PYTHON environment variable, then python3/python on PATH.
// Explicit sources are trusted as-is if non-empty but must resolve via
// exec.LookPath so relative names still work.
func Discover(explicit string) (string, error) {
	if explicit != "" {
		path, err := exec.LookPath(explicit)
		if err != nil {
			return "", fmt.Errorf("configured interpreter %q: %w", explicit, errors.Join(ErrNoInterpreter, err))
		}
		return path, nil
	}

	if env := os.Getenv(EnvInterpreter); env != "" {
		path, err := exec.LookPath(env)
		if err != nil {
			return "", fmt.Errorf("%s=%q: %w", EnvInterpreter, env, errors.Join(ErrNoInterpreter, err))
		}
		return path, nil
	}

	for _, name := range candidateNames {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}

	return "", ErrNoInterpreter
}

// New creates an Interpreter handle for the executable at path.
// The handle is inert until Start is called.
func New(path string, opts ...Option) *Interpreter {
	i := &Interpreter{
		path:   path,
		runner: NewExecRunner(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Path returns the interpreter executable path.
func (i *Interpreter) Path() string { return i.path }

// Version returns the interpreter version reported during Start.
// Empty until Start succeeds.
func (i *Interpreter) Version() string { return i.version }

// Start performs the one-shot startup check: the interpreter is executed
// once to confirm it runs and to record its version. Start may be called
// at most once per Interpreter; a second call returns ErrAlreadyStarted
// regardless of the first call's outcome.
func (i *Interpreter) Start(ctx context.Context) error {
	if !i.state.CompareAndSwap(stateCreated, stateStarted) {
		return ErrAlreadyStarted
	}

	result := i.runner.Run(ctx, i.path, "-c", "import sys; print(sys.version.split()[0])")
	if !result.Success() {
		i.state.Store(stateFailed)
		return &StartError{
			Path:       i.path,
			Diagnostic: diagnosticTail(result.ErrOutput),
			Cause:      result.Error,
		}
	}

	i.version = strings.TrimSpace(result.Output)
	return nil
}

// WithSession acquires exclusive access to the interpreter, hands the
// callback a Session, and guarantees release when the callback returns,
// whether it completes or fails early. The callback's error is returned
// unchanged.
func (i *Interpreter) WithSession(ctx context.Context, fn func(*Session) error) error {
	if i.state.Load() != stateStarted {
		return ErrNotStarted
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	return fn(&Session{interp: i, ctx: ctx})
}

// Error implements the error interface.
func (e *StartError) Error() string {
	msg := fmt.Sprintf("interpreter %s failed to start", e.Path)
	if e.Diagnostic != "" {
		msg += ": " + e.Diagnostic
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *StartError) Unwrap() error { return e.Cause }

// diagnosticTail returns the last non-empty line of interpreter stderr,
// which for Python tracebacks is the exception summary.
func diagnosticTail(errOutput string) string {
	lines := strings.Split(strings.TrimSpace(errOutput), "\n")
	for n := len(lines) - 1; n >= 0; n-- {
		if line := strings.TrimSpace(lines[n]); line != "" {
			return line
		}
	}
	return ""
}
