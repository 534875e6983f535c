// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/volprobe/volprobe/internal/config"
	"github.com/volprobe/volprobe/internal/testutil"
)

// isolateConfig points the config package at an empty temp directory so
// tests never read or write the real user configuration.
func isolateConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	config.SetConfigDirOverride(dir)
	t.Cleanup(config.Reset)

	restore := testutil.MustUnsetenv(t, config.EnvDumpPath)
	t.Cleanup(restore)

	return dir
}

func TestConfigShow_Defaults(t *testing.T) {
	isolateConfig(t)

	var outBuf, errBuf bytes.Buffer
	configShowCmd.SetOut(&outBuf)
	configShowCmd.SetErr(&errBuf)
	t.Cleanup(func() {
		configShowCmd.SetOut(nil)
		configShowCmd.SetErr(nil)
	})

	if err := configShowCmd.RunE(configShowCmd, nil); err != nil {
		t.Fatalf("config show returned error: %v", err)
	}

	stdout := outBuf.String()
	for _, module := range config.DefaultModules {
		if !strings.Contains(stdout, module) {
			t.Errorf("output missing default module %q:\n%s", module, stdout)
		}
	}
	if !strings.Contains(stdout, "dump_path:") {
		t.Errorf("output missing dump_path line:\n%s", stdout)
	}
}

func TestConfigInit_CreatesStarterFile(t *testing.T) {
	dir := isolateConfig(t)

	var outBuf bytes.Buffer
	configInitCmd.SetOut(&outBuf)
	t.Cleanup(func() { configInitCmd.SetOut(nil) })

	if err := configInitCmd.RunE(configInitCmd, nil); err != nil {
		t.Fatalf("config init returned error: %v", err)
	}

	path := filepath.Join(dir, "config.cue")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("starter config not written: %v", err)
	}
	if !strings.Contains(string(data), "dump_path") {
		t.Errorf("starter config missing dump_path key:\n%s", data)
	}
}

func TestConfigInit_RefusesOverwrite(t *testing.T) {
	dir := isolateConfig(t)
	testutil.MustWriteFile(t, filepath.Join(dir, "config.cue"), []byte("dump_path: \"/tmp/a.dmp\"\n"), 0o644)

	var errBuf bytes.Buffer
	configInitCmd.SetErr(&errBuf)
	t.Cleanup(func() { configInitCmd.SetErr(nil) })

	err := configInitCmd.RunE(configInitCmd, nil)
	if err == nil {
		t.Fatal("expected an error when the config file already exists")
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %T", err)
	}
}

func TestOrUnset(t *testing.T) {
	t.Parallel()

	if got := orUnset("value"); got != "value" {
		t.Errorf("orUnset(%q) = %q, want the value unchanged", "value", got)
	}
	if got := orUnset(""); !strings.Contains(got, "unset") {
		t.Errorf("orUnset(\"\") = %q, want an unset placeholder", got)
	}
}
