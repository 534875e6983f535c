// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing diagnostics for probe failures:
// a catalog of renderable markdown help cards keyed by failure class,
// and the ActionableError type carrying operation/resource/suggestion
// context for error display.
package issue
