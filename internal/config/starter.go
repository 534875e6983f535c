// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// starterConfig is the commented template written by 'volprobe config init'.
const starterConfig = `// volprobe configuration.
// All fields are optional; the values shown are the defaults.

// Path to the memory dump to probe. The CLI argument and VOLPROBE_DUMP
// both override this.
// dump_path: "/data/dumps/memory.dmp"

// python: {
// 	// Explicit interpreter. Discovery via VOLPROBE_PYTHON and PATH
// 	// applies when unset.
// 	interpreter: "/usr/bin/python3"
// }

// Module identifiers to resolve, in order.
// modules: [
// 	"volatility3.framework.contexts",
// 	"volatility3.plugins.windows.pslist",
// ]

// ui: {
// 	verbose: false
// }

// Extra environment checks, run in the built-in POSIX shell after the
// module imports succeed.
// checks: [
// 	{name: "vol cli", script: "command -v vol"},
// ]
`

// WriteStarter writes the starter config template to path, creating
// parent directories as needed. Refuses to overwrite an existing file.
func WriteStarter(path string) error {
	if fileExists(path) {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
