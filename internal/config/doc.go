// SPDX-License-Identifier: MPL-2.0

// Package config loads and validates volprobe configuration. Files are
// written in CUE, validated against an embedded schema, and merged into
// viper on top of defaults and environment overrides.
package config
