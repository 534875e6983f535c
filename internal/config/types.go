// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

// Module identifiers probed by default. The framework's context layer is
// checked first because every later volatility3 import depends on it.
var DefaultModules = []string{
	"volatility3.framework.contexts",
	"volatility3.plugins.windows.pslist",
}

var (
	// ErrNoModules is returned when the configured module list is empty.
	ErrNoModules = errors.New("modules list must not be empty")
	// ErrInvalidCheck is the sentinel error wrapped by InvalidCheckError.
	ErrInvalidCheck = errors.New("invalid check entry")
)

type (
	// Config is the effective volprobe configuration after merging
	// defaults, the config file, and environment overrides.
	Config struct {
		// DumpPath is the memory dump to probe. May be empty here; the CLI
		// requires a path from one of its sources before running.
		DumpPath string `mapstructure:"dump_path"`
		// Python configures interpreter discovery.
		Python PythonConfig `mapstructure:"python"`
		// Modules are the module identifiers to resolve, in order.
		Modules []string `mapstructure:"modules"`
		// UI holds output preferences.
		UI UIConfig `mapstructure:"ui"`
		// Checks are optional extra environment checks, run after the
		// module imports succeed.
		Checks []CheckEntry `mapstructure:"checks"`
	}

	// PythonConfig configures interpreter discovery.
	PythonConfig struct {
		// Interpreter is an explicit interpreter executable. Empty means
		// discover via VOLPROBE_PYTHON and PATH.
		Interpreter string `mapstructure:"interpreter"`
	}

	// UIConfig holds output preferences.
	UIConfig struct {
		// Verbose enables diagnostic logging.
		Verbose bool `mapstructure:"verbose"`
	}

	// CheckEntry is one custom environment check: a named script run in
	// the built-in POSIX shell.
	CheckEntry struct {
		Name   string `mapstructure:"name"`
		Script string `mapstructure:"script"`
	}

	// InvalidCheckError is returned when a check entry fails validation.
	// It wraps ErrInvalidCheck for errors.Is() compatibility.
	InvalidCheckError struct {
		Index  int
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidCheckError) Error() string {
	return fmt.Sprintf("checks[%d]: %s", e.Index, e.Reason)
}

// Unwrap returns ErrInvalidCheck so callers can use errors.Is for programmatic detection.
func (e *InvalidCheckError) Unwrap() error { return ErrInvalidCheck }

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Modules: append([]string(nil), DefaultModules...),
	}
}

// Validate checks constraints that CUE cannot express: a non-empty module
// list with no blank entries, and uniquely named, non-empty check scripts.
func (c *Config) Validate() error {
	if len(c.Modules) == 0 {
		return ErrNoModules
	}
	for i, m := range c.Modules {
		if strings.TrimSpace(m) == "" {
			return fmt.Errorf("modules[%d]: identifier must not be blank", i)
		}
	}

	seen := make(map[string]int)
	for i, check := range c.Checks {
		if strings.TrimSpace(check.Name) == "" {
			return &InvalidCheckError{Index: i, Reason: "name must not be blank"}
		}
		if strings.TrimSpace(check.Script) == "" {
			return &InvalidCheckError{Index: i, Reason: "script must not be blank"}
		}
		if first, dup := seen[check.Name]; dup {
			return &InvalidCheckError{
				Index:  i,
				Reason: fmt.Sprintf("duplicate name %q (same as checks[%d])", check.Name, first),
			}
		}
		seen[check.Name] = i
	}

	return nil
}
