// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/volprobe/volprobe/internal/config"
	"github.com/volprobe/volprobe/internal/issue"
	"github.com/volprobe/volprobe/internal/probe"
)

var runCmd = &cobra.Command{
	Use:   "run [dump-path]",
	Short: "Run the environment probe",
	Long: `Run the probe against a memory dump. The dump path is resolved from,
in order of precedence: the positional argument, the VOLPROBE_DUMP
environment variable, and the dump_path key in the config file.

Exit status is 0 when every check passes and 1 on the first failure.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
			printExplainHint(cmd.ErrOrStderr(), issue.ConfigLoadFailedId)
			return &ExitError{Code: 1, Err: err}
		}

		dumpPath := cfg.DumpPath
		if len(args) == 1 {
			dumpPath = args[0]
		}
		if dumpPath == "" {
			err := issue.NewErrorContext().
				WithOperation("resolve dump path").
				WithSuggestion("Pass the path as an argument: volprobe run <dump-path>").
				WithSuggestion("Or set VOLPROBE_DUMP, or dump_path in your config file").
				Wrap(errors.New("no dump path configured")).
				BuildError()
			fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
			return &ExitError{Code: 1, Err: err}
		}

		return runProbe(cmd, cfg, dumpPath)
	},
}

// runProbe wires the interpreter, shell runner, and logger, runs the
// probe, and maps its report to an exit status plus an explain hint.
func runProbe(cmd *cobra.Command, cfg *config.Config, dumpPath string) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	checks := make([]probe.ScriptCheck, 0, len(cfg.Checks))
	for _, c := range cfg.Checks {
		checks = append(checks, probe.ScriptCheck{Name: c.Name, Script: c.Script})
	}

	p := probe.New(probe.Options{
		DumpPath: dumpPath,
		Modules:  cfg.Modules,
		Checks:   checks,
		Runtime:  probe.NewDiscoveringRuntime(cfg.Python.Interpreter),
		Scripts:  probe.NewShellRunner(stdout, stderr),
		Stdout:   stdout,
		Stderr:   stderr,
		Logger:   newLogger(stderr),
	})

	report := p.Run(cmd.Context())
	if !report.Success() {
		printExplainHint(stderr, report.IssueId)
		return &ExitError{Code: 1, Err: report.Err}
	}
	return nil
}

// newLogger builds the verbose diagnostics logger. Quiet runs discard
// debug output entirely so the console contract stays exact.
func newLogger(stderr io.Writer) *log.Logger {
	if !verbose {
		return log.New(io.Discard)
	}
	logger := log.NewWithOptions(stderr, log.Options{
		Prefix: "volprobe",
	})
	logger.SetLevel(log.DebugLevel)
	return logger
}

// printExplainHint points the user at the help card for a failure class.
func printExplainHint(stderr io.Writer, id issue.Id) {
	i := issue.Get(id)
	if i == nil {
		return
	}
	fmt.Fprintln(stderr, SubtitleStyle.Render("Run ")+
		CmdStyle.Render("volprobe explain "+i.Name())+
		SubtitleStyle.Render(" for help with this failure."))
}
