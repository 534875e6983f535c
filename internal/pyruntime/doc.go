// SPDX-License-Identifier: MPL-2.0

// Package pyruntime discovers and drives a host Python interpreter.
//
// The package models the interpreter as a process-scoped handle: it is
// discovered once, started at most once, and all module resolution happens
// inside a scoped session that holds the interpreter lock for its whole
// duration and releases it on every exit path.
package pyruntime
