// SPDX-License-Identifier: MPL-2.0

package probe

import (
	"github.com/volprobe/volprobe/internal/issue"
)

// Probe states. Transitions are linear; a failed step moves directly to
// StateFailed and no later step runs.
const (
	StateStart State = iota
	StatePathChecked
	StateRuntimeInitialized
	StateModulesChecked
	StateDone
	StateFailed
)

type (
	// State identifies where in the linear sequence a run is (or stopped).
	State int

	// StepResult records the outcome of one probe step.
	StepResult struct {
		// Name identifies the step (e.g., "dump file", "interpreter",
		// a module identifier, or a custom check name).
		Name string
		// Err is nil for a passed step.
		Err error
	}

	// Report is the outcome of one probe run. It is not persisted;
	// callers read it, map it to an exit code, and discard it.
	Report struct {
		// State is the terminal state of the run: StateDone on success,
		// StateFailed otherwise.
		State State
		// Steps holds per-step outcomes in execution order. Steps after
		// the first failure are absent, never marked skipped.
		Steps []StepResult
		// IssueId identifies the failure class for 'volprobe explain'.
		// Zero when the run succeeded.
		IssueId issue.Id
		// Err is the error of the failed step. Nil on success.
		Err error
	}
)

// String returns a short name for the state.
func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StatePathChecked:
		return "path-checked"
	case StateRuntimeInitialized:
		return "runtime-initialized"
	case StateModulesChecked:
		return "modules-checked"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Success returns true if the run reached StateDone.
func (r *Report) Success() bool {
	return r.State == StateDone
}

// fail records a terminal failure and returns the report for chaining.
func (r *Report) fail(step string, id issue.Id, err error) *Report {
	r.Steps = append(r.Steps, StepResult{Name: step, Err: err})
	r.State = StateFailed
	r.IssueId = id
	r.Err = err
	return r
}

// pass records a completed step.
func (r *Report) pass(step string) {
	r.Steps = append(r.Steps, StepResult{Name: step})
}
