// SPDX-License-Identifier: MPL-2.0

package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// shellRunner executes custom check scripts in the embedded POSIX shell.
// Using mvdan/sh keeps check behavior identical across platforms instead
// of depending on whatever /bin/sh the host provides.
type shellRunner struct {
	stdout io.Writer
	stderr io.Writer
}

// NewShellRunner creates a ScriptRunner backed by the embedded POSIX
// shell. Script output is forwarded to the given writers.
func NewShellRunner(stdout, stderr io.Writer) ScriptRunner {
	return &shellRunner{stdout: stdout, stderr: stderr}
}

// RunScript parses and executes one check script. A non-zero exit status
// is reported as an error carrying the status; parse failures are
// reported as such so a broken check is distinguishable from a failing one.
func (r *shellRunner) RunScript(ctx context.Context, name, script string) error {
	prog, err := syntax.NewParser().Parse(strings.NewReader(script), name)
	if err != nil {
		return fmt.Errorf("script syntax error: %w", err)
	}

	runner, err := interp.New(
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(nil, r.stdout, r.stderr),
	)
	if err != nil {
		return fmt.Errorf("failed to create shell interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return fmt.Errorf("exited with status %d", int(exitStatus))
		}
		return fmt.Errorf("script execution failed: %w", err)
	}

	return nil
}
