// SPDX-License-Identifier: MPL-2.0

package probe

import (
	"context"

	"github.com/volprobe/volprobe/internal/pyruntime"
)

// pythonRuntime adapts *pyruntime.Interpreter to the Runtime interface,
// narrowing its concrete *pyruntime.Session to the Session interface.
type pythonRuntime struct {
	interp *pyruntime.Interpreter
}

// NewPythonRuntime wraps a pyruntime interpreter handle for use by the probe.
func NewPythonRuntime(interp *pyruntime.Interpreter) Runtime {
	return &pythonRuntime{interp: interp}
}

func (r *pythonRuntime) Start(ctx context.Context) error {
	return r.interp.Start(ctx)
}

func (r *pythonRuntime) WithSession(ctx context.Context, fn func(Session) error) error {
	return r.interp.WithSession(ctx, func(s *pyruntime.Session) error {
		return fn(s)
	})
}

func (r *pythonRuntime) Path() string { return r.interp.Path() }

func (r *pythonRuntime) Version() string { return r.interp.Version() }

// discoveringRuntime defers interpreter discovery to Start so the dump
// existence check always runs first: a missing dump must short-circuit
// before any interpreter work happens.
type discoveringRuntime struct {
	explicit string
	interp   *pyruntime.Interpreter
}

// NewDiscoveringRuntime returns a Runtime that discovers the interpreter
// (explicit config path, VOLPROBE_PYTHON, then PATH) when started.
func NewDiscoveringRuntime(explicit string) Runtime {
	return &discoveringRuntime{explicit: explicit}
}

func (r *discoveringRuntime) Start(ctx context.Context) error {
	path, err := pyruntime.Discover(r.explicit)
	if err != nil {
		return err
	}
	r.interp = pyruntime.New(path)
	return r.interp.Start(ctx)
}

func (r *discoveringRuntime) WithSession(ctx context.Context, fn func(Session) error) error {
	if r.interp == nil {
		return pyruntime.ErrNotStarted
	}
	return r.interp.WithSession(ctx, func(s *pyruntime.Session) error {
		return fn(s)
	})
}

func (r *discoveringRuntime) Path() string {
	if r.interp == nil {
		return ""
	}
	return r.interp.Path()
}

func (r *discoveringRuntime) Version() string {
	if r.interp == nil {
		return ""
	}
	return r.interp.Version()
}
