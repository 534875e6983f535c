// SPDX-License-Identifier: MPL-2.0

package pyruntime

import (
	"context"
	"fmt"
	"regexp"
)

// moduleNamePattern validates module identifiers before they reach the
// interpreter command line. Dotted Python identifiers only.
var moduleNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// importProgram resolves the module named by the first interpreter
// argument. Using importlib keeps the module name out of Python source
// text, so no quoting is needed.
const importProgram = "import importlib, sys; importlib.import_module(sys.argv[1])"

type (
	// Session is a scoped view of a started Interpreter. It is only valid
	// inside the WithSession callback that produced it.
	Session struct {
		interp *Interpreter
		ctx    context.Context
	}

	// ImportError is returned when a module identifier cannot be resolved.
	// Diagnostic carries the interpreter's exception summary.
	ImportError struct {
		Module     string
		Diagnostic string
		ExitCode   ExitCode
		Cause      error
	}
)

// ImportModule attempts to resolve one module identifier inside the
// session's interpreter. Returns nil on success and an *ImportError when
// the interpreter rejects the import.
func (s *Session) ImportModule(name string) error {
	if !moduleNamePattern.MatchString(name) {
		return &ImportError{
			Module:     name,
			Diagnostic: "invalid module identifier",
		}
	}

	result := s.interp.runner.Run(s.ctx, s.interp.path, "-c", importProgram, name)
	if result.Success() {
		return nil
	}

	return &ImportError{
		Module:     name,
		Diagnostic: diagnosticTail(result.ErrOutput),
		ExitCode:   result.ExitCode,
		Cause:      result.Error,
	}
}

// Error implements the error interface.
func (e *ImportError) Error() string {
	if e.Diagnostic != "" {
		return fmt.Sprintf("import %s: %s", e.Module, e.Diagnostic)
	}
	if e.Cause != nil {
		return fmt.Sprintf("import %s: %s", e.Module, e.Cause.Error())
	}
	return fmt.Sprintf("import %s: interpreter exited with code %s", e.Module, e.ExitCode)
}

// Unwrap returns the underlying cause, if any.
func (e *ImportError) Unwrap() error { return e.Cause }
