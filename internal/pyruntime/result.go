// SPDX-License-Identifier: MPL-2.0

package pyruntime

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

type (
	// Result contains the outcome of one interpreter invocation.
	Result struct {
		// ExitCode is the exit code of the interpreter process.
		ExitCode ExitCode
		// Error contains any error that prevented the process from running.
		Error error
		// Output contains captured stdout.
		Output string
		// ErrOutput contains captured stderr.
		ErrOutput string
	}

	// Runner executes an interpreter binary with arguments and captures its
	// output. The production implementation shells out; tests substitute a
	// fake to observe sequencing without a real interpreter.
	Runner interface {
		Run(ctx context.Context, exe string, args ...string) *Result
	}

	// execRunner is the production Runner backed by os/exec.
	execRunner struct{}
)

// Success returns true if the invocation completed with exit code 0.
func (r *Result) Success() bool {
	return r.ExitCode.IsSuccess() && r.Error == nil
}

// NewExecRunner returns the production Runner backed by os/exec.
func NewExecRunner() Runner {
	return execRunner{}
}

// Run executes exe with args, capturing stdout and stderr.
// A non-zero exit from the process is reported via ExitCode, not Error;
// Error is reserved for failures to run the process at all.
func (execRunner) Run(ctx context.Context, exe string, args ...string) *Result {
	cmd := exec.CommandContext(ctx, exe, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &Result{
		Output:    stdout.String(),
		ErrOutput: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := ExitCode(exitErr.ExitCode())
			if validateErr := code.Validate(); validateErr != nil {
				result.ExitCode = 1
				result.Error = validateErr
				return result
			}
			result.ExitCode = code
			return result
		}
		result.ExitCode = 1
		result.Error = err
	}

	return result
}
