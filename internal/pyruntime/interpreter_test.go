// SPDX-License-Identifier: MPL-2.0

package pyruntime

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/volprobe/volprobe/internal/testutil"
)

// chmodExec marks path executable so exec.LookPath accepts it.
func chmodExec(path string) error {
	return os.Chmod(path, 0o755)
}

// fakeRunner records invocations and returns canned results per argument
// signature. The default result is success with empty output.
type fakeRunner struct {
	calls   []fakeCall
	results map[string]*Result
}

type fakeCall struct {
	exe  string
	args []string
}

func (f *fakeRunner) Run(_ context.Context, exe string, args ...string) *Result {
	f.calls = append(f.calls, fakeCall{exe: exe, args: args})
	if r, ok := f.results[strings.Join(args, " ")]; ok {
		return r
	}
	return &Result{Output: "3.12.1\n"}
}

func TestDiscover_ExplicitPathMissing(t *testing.T) {
	_, err := Discover("/nonexistent/bin/python-missing")
	if err == nil {
		t.Fatal("Discover() should fail for a missing explicit path")
	}
	if !errors.Is(err, ErrNoInterpreter) {
		t.Errorf("error should wrap ErrNoInterpreter, got %v", err)
	}
}

func TestDiscover_EnvOverride(t *testing.T) {
	// Point the env var at a file that is definitely not executable Python
	// but does resolve via LookPath when given as an absolute path with
	// the exec bit set.
	fake := testutil.MustTempFile(t, "python-fake", []byte("#!/bin/sh\nexit 0\n"))
	if err := chmodExec(fake); err != nil {
		t.Fatalf("failed to chmod fake interpreter: %v", err)
	}
	defer testutil.MustSetenv(t, EnvInterpreter, fake)()

	path, err := Discover("")
	if err != nil {
		t.Fatalf("Discover() with env override failed: %v", err)
	}
	if path != fake {
		t.Errorf("Discover() = %q, want %q", path, fake)
	}
}

func TestDiscover_EnvOverrideMissing(t *testing.T) {
	defer testutil.MustSetenv(t, EnvInterpreter, "/nonexistent/python-env")()

	_, err := Discover("")
	if !errors.Is(err, ErrNoInterpreter) {
		t.Errorf("error should wrap ErrNoInterpreter, got %v", err)
	}
}

func TestInterpreter_StartExactlyOnce(t *testing.T) {
	runner := &fakeRunner{}
	interp := New("/usr/bin/python3", WithRunner(runner))

	if err := interp.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("Start() invoked the interpreter %d times, want 1", len(runner.calls))
	}
	if interp.Version() != "3.12.1" {
		t.Errorf("Version() = %q, want %q", interp.Version(), "3.12.1")
	}

	if err := interp.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start() = %v, want ErrAlreadyStarted", err)
	}
	if len(runner.calls) != 1 {
		t.Errorf("second Start() must not invoke the interpreter again")
	}
}

func TestInterpreter_StartFailure(t *testing.T) {
	runner := &fakeRunner{
		results: map[string]*Result{
			"-c import sys; print(sys.version.split()[0])": {
				ExitCode:  1,
				ErrOutput: "Could not find platform independent libraries\nFatal Python error: init failed\n",
			},
		},
	}
	interp := New("/opt/broken/python", WithRunner(runner))

	err := interp.Start(context.Background())
	if err == nil {
		t.Fatal("Start() should fail when the startup check exits non-zero")
	}

	var startErr *StartError
	if !errors.As(err, &startErr) {
		t.Fatalf("Start() error type = %T, want *StartError", err)
	}
	if startErr.Diagnostic != "Fatal Python error: init failed" {
		t.Errorf("Diagnostic = %q, want the stderr tail", startErr.Diagnostic)
	}

	// A failed interpreter refuses sessions.
	sessionErr := interp.WithSession(context.Background(), func(*Session) error { return nil })
	if !errors.Is(sessionErr, ErrNotStarted) {
		t.Errorf("WithSession() after failed start = %v, want ErrNotStarted", sessionErr)
	}
}

func TestInterpreter_WithSessionBeforeStart(t *testing.T) {
	interp := New("/usr/bin/python3", WithRunner(&fakeRunner{}))

	err := interp.WithSession(context.Background(), func(*Session) error { return nil })
	if !errors.Is(err, ErrNotStarted) {
		t.Errorf("WithSession() before Start = %v, want ErrNotStarted", err)
	}
}

func TestInterpreter_WithSessionReleasesOnError(t *testing.T) {
	interp := New("/usr/bin/python3", WithRunner(&fakeRunner{}))
	if err := interp.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	boom := errors.New("boom")
	if err := interp.WithSession(context.Background(), func(*Session) error {
		return boom
	}); !errors.Is(err, boom) {
		t.Fatalf("WithSession() should return the callback error, got %v", err)
	}

	// The lock must have been released even though the callback failed;
	// a second session would deadlock otherwise.
	done := make(chan struct{})
	go func() {
		_ = interp.WithSession(context.Background(), func(*Session) error { return nil })
		close(done)
	}()
	<-done
}

func TestSession_ImportModule(t *testing.T) {
	importKey := "-c " + importProgram + " "

	tests := []struct {
		name       string
		module     string
		result     *Result
		wantErr    bool
		diagnostic string
	}{
		{
			name:   "resolves",
			module: "volatility3.framework.contexts",
			result: &Result{},
		},
		{
			name:   "import fails",
			module: "volatility3.plugins.windows.pslist",
			result: &Result{
				ExitCode:  1,
				ErrOutput: "Traceback (most recent call last):\n  ...\nModuleNotFoundError: No module named 'volatility3'\n",
			},
			wantErr:    true,
			diagnostic: "ModuleNotFoundError: No module named 'volatility3'",
		},
		{
			name:       "invalid identifier",
			module:     "volatility3; import os",
			wantErr:    true,
			diagnostic: "invalid module identifier",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{results: map[string]*Result{}}
			if tt.result != nil {
				runner.results[importKey+tt.module] = tt.result
			}
			interp := New("/usr/bin/python3", WithRunner(runner))
			if err := interp.Start(context.Background()); err != nil {
				t.Fatalf("Start() failed: %v", err)
			}

			var importErr error
			err := interp.WithSession(context.Background(), func(s *Session) error {
				importErr = s.ImportModule(tt.module)
				return importErr
			})

			if !tt.wantErr {
				if err != nil {
					t.Fatalf("ImportModule(%q) failed: %v", tt.module, err)
				}
				return
			}

			var ie *ImportError
			if !errors.As(importErr, &ie) {
				t.Fatalf("ImportModule(%q) error type = %T, want *ImportError", tt.module, importErr)
			}
			if ie.Module != tt.module {
				t.Errorf("ImportError.Module = %q, want %q", ie.Module, tt.module)
			}
			if ie.Diagnostic != tt.diagnostic {
				t.Errorf("ImportError.Diagnostic = %q, want %q", ie.Diagnostic, tt.diagnostic)
			}
		})
	}
}

func TestSession_InvalidIdentifierNeverReachesInterpreter(t *testing.T) {
	runner := &fakeRunner{}
	interp := New("/usr/bin/python3", WithRunner(runner))
	if err := interp.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	_ = interp.WithSession(context.Background(), func(s *Session) error {
		return s.ImportModule("not a module")
	})

	// Only the Start invocation should have hit the runner.
	if len(runner.calls) != 1 {
		t.Errorf("invalid identifier reached the interpreter: %d calls, want 1", len(runner.calls))
	}
}

func TestDiagnosticTail(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "single line", in: "boom\n", want: "boom"},
		{
			name: "traceback",
			in:   "Traceback (most recent call last):\n  File \"<string>\", line 1\nModuleNotFoundError: No module named 'volatility3'\n",
			want: "ModuleNotFoundError: No module named 'volatility3'",
		},
		{name: "trailing blanks", in: "last real line\n\n  \n", want: "last real line"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := diagnosticTail(tt.in); got != tt.want {
				t.Errorf("diagnosticTail() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInterpreter_RealPython(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	path, err := Discover("")
	if err != nil {
		t.Skipf("no python interpreter on this system: %v", err)
	}

	interp := New(path)
	if err := interp.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if interp.Version() == "" {
		t.Error("Version() should be populated after Start")
	}

	err = interp.WithSession(context.Background(), func(s *Session) error {
		if err := s.ImportModule("os.path"); err != nil {
			t.Errorf("ImportModule(os.path) failed: %v", err)
		}

		importErr := s.ImportModule("volprobe_definitely_not_a_module")
		var ie *ImportError
		if !errors.As(importErr, &ie) {
			t.Errorf("expected *ImportError for a missing module, got %v", importErr)
		} else if !strings.Contains(ie.Diagnostic, "ModuleNotFoundError") {
			t.Errorf("Diagnostic = %q, want a ModuleNotFoundError summary", ie.Diagnostic)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithSession() failed: %v", err)
	}
}
