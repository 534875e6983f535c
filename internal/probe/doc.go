// SPDX-License-Identifier: MPL-2.0

// Package probe implements the environment probe: a linear, fail-fast
// sequence that verifies the dump file exists, the Python interpreter
// starts, and every required volatility3 module resolves. Each run drives
// the state machine
//
//	Start -> PathChecked -> RuntimeInitialized -> ModulesChecked -> Done
//
// with any failed step moving directly to the terminal Failed state.
package probe
