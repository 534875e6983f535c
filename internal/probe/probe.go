// SPDX-License-Identifier: MPL-2.0

package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/volprobe/volprobe/internal/issue"
	"github.com/volprobe/volprobe/internal/pyruntime"
)

type (
	// Runtime is the embedded-interpreter boundary the probe drives.
	// pyruntime.Interpreter satisfies it through the adapter in runtime.go;
	// tests substitute fakes to verify sequencing.
	Runtime interface {
		// Start initializes the interpreter. Called at most once per run.
		Start(ctx context.Context) error
		// WithSession acquires exclusive interpreter access for the
		// callback's duration, releasing it on every exit path.
		WithSession(ctx context.Context, fn func(Session) error) error
		// Path returns the interpreter executable path.
		Path() string
		// Version returns the interpreter version (after Start).
		Version() string
	}

	// Session resolves module identifiers inside an acquired interpreter.
	Session interface {
		ImportModule(name string) error
	}

	// ScriptCheck is one custom environment check from config.
	ScriptCheck struct {
		Name   string
		Script string
	}

	// ScriptRunner executes custom check scripts. The production
	// implementation is the built-in POSIX shell in script.go.
	ScriptRunner interface {
		RunScript(ctx context.Context, name, script string) error
	}

	// Options configures a Probe.
	Options struct {
		// DumpPath is the memory dump whose existence gates the run.
		DumpPath string
		// Modules are the identifiers to resolve, in order.
		Modules []string
		// Checks are optional custom checks run after the imports succeed.
		Checks []ScriptCheck
		// Runtime is the interpreter boundary. Required.
		Runtime Runtime
		// Scripts runs custom checks. Required only when Checks is non-empty.
		Scripts ScriptRunner
		// Stdout receives success messages. Defaults to os.Stdout.
		Stdout io.Writer
		// Stderr receives failure diagnostics. Defaults to os.Stderr.
		Stderr io.Writer
		// Logger receives verbose diagnostics. Defaults to a discarding logger.
		Logger *log.Logger
	}

	// Probe runs the check sequence. One Probe performs one run.
	Probe struct {
		opts Options
	}
)

// New creates a Probe with defaulted writers and logger.
func New(opts Options) *Probe {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Probe{opts: opts}
}

// Run executes the probe sequence and returns its report. Every failure
// is terminal for the run: the failed step prints its diagnostic and no
// later step is attempted.
func (p *Probe) Run(ctx context.Context) *Report {
	report := &Report{State: StateStart}
	o := &p.opts

	// Step 1: the dump must exist before anything else is worth checking.
	o.Logger.Debug("checking dump file", "path", o.DumpPath)
	if !fileExists(o.DumpPath) {
		fmt.Fprintln(o.Stderr, "Dump file doesn't exist!")
		return report.fail("dump file", issue.DumpNotFoundId,
			issue.NewErrorContext().
				WithOperation("locate dump file").
				WithResource(o.DumpPath).
				WithSuggestion("Check the path for typos").
				WithSuggestion("Pass the path explicitly: volprobe run <dump-path>").
				Wrap(os.ErrNotExist).
				BuildError())
	}
	report.pass("dump file")
	report.State = StatePathChecked
	o.Logger.Debug("dump file present", "url", fileURL(o.DumpPath))

	// Step 2: start the interpreter, exactly once. Discovery failure and
	// startup failure are distinct failure classes for 'volprobe explain'.
	if err := o.Runtime.Start(ctx); err != nil {
		id := issue.InterpreterStartFailedId
		if errors.Is(err, pyruntime.ErrNoInterpreter) {
			id = issue.InterpreterNotFoundId
		}
		fmt.Fprintf(o.Stderr, "✗ Failed to initialize Python: %v\n", err)
		return report.fail("interpreter", id,
			issue.WrapWithOperation(err, "start interpreter"))
	}
	o.Logger.Debug("interpreter started", "path", o.Runtime.Path(), "version", o.Runtime.Version())

	// Steps 3-5: scoped session for the import checks. The confirmation
	// prints after acquisition so it genuinely reflects a held handle.
	failedModule := ""
	err := o.Runtime.WithSession(ctx, func(s Session) error {
		fmt.Fprintln(o.Stdout, "Python initialized")
		report.State = StateRuntimeInitialized

		for _, module := range o.Modules {
			if err := s.ImportModule(module); err != nil {
				failedModule = module
				fmt.Fprintf(o.Stderr, "✗ Failed to import %s: %v\n", module, err)
				return err
			}
			fmt.Fprintf(o.Stdout, "✓ Imported %s\n", module)
			report.pass(module)
		}
		report.State = StateModulesChecked
		return nil
	})
	if err != nil {
		return report.fail(failedModule, issue.ModuleImportFailedId,
			issue.WrapWithOperation(err, "resolve module"))
	}

	fmt.Fprintln(o.Stdout, "All imports successful!")

	// Step 6: custom checks, same fail-fast policy.
	for _, check := range o.Checks {
		o.Logger.Debug("running custom check", "name", check.Name)
		if err := o.Scripts.RunScript(ctx, check.Name, check.Script); err != nil {
			fmt.Fprintf(o.Stderr, "✗ Check failed: %s: %v\n", check.Name, err)
			return report.fail(check.Name, issue.ScriptCheckFailedId,
				issue.WrapWithOperation(err, "run custom check"))
		}
		fmt.Fprintf(o.Stdout, "✓ Check passed: %s\n", check.Name)
		report.pass(check.Name)
	}

	report.State = StateDone
	return report
}

// fileExists reports whether path names an existing regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// fileURL renders path in the file URL form volatility3 configuration
// uses, for verbose logging only. Backslashes are normalized so Windows
// paths render as file:///F:/physmem.raw.
func fileURL(path string) string {
	p := strings.ReplaceAll(path, "\\", "/")
	if strings.HasPrefix(p, "/") {
		return "file://" + p
	}
	return "file:///" + p
}
