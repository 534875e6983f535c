// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/volprobe/volprobe/internal/issue"
)

// execExplain runs the explain command with captured output streams.
func execExplain(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	explainCmd.SetOut(&outBuf)
	explainCmd.SetErr(&errBuf)
	t.Cleanup(func() {
		explainCmd.SetOut(nil)
		explainCmd.SetErr(nil)
	})

	err = explainCmd.RunE(explainCmd, args)
	return outBuf.String(), errBuf.String(), err
}

func TestExplain_ListsAllFailureClasses(t *testing.T) {
	stdout, _, err := execExplain(t)
	if err != nil {
		t.Fatalf("explain with no args returned error: %v", err)
	}

	for _, i := range issue.Values() {
		if !strings.Contains(stdout, i.Name()) {
			t.Errorf("listing missing failure class %q:\n%s", i.Name(), stdout)
		}
	}
}

func TestExplain_UnknownFailureClass(t *testing.T) {
	_, stderr, err := execExplain(t, "no-such-failure")
	if err == nil {
		t.Fatal("expected an error for an unknown failure class")
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %T", err)
	}
	if exitErr.Code != 1 {
		t.Errorf("Code = %d, want 1", exitErr.Code)
	}
	if !strings.Contains(stderr, "no-such-failure") {
		t.Errorf("stderr should name the unknown class:\n%s", stderr)
	}
}

func TestExplain_RendersKnownCard(t *testing.T) {
	stdout, _, err := execExplain(t, "dump-not-found")
	if err != nil {
		t.Fatalf("explain dump-not-found returned error: %v", err)
	}
	if !strings.Contains(stdout, "Dump") && !strings.Contains(stdout, "dump") {
		t.Errorf("rendered card should mention the dump file:\n%s", stdout)
	}
}
