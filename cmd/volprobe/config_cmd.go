// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/volprobe/volprobe/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage volprobe configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
			return &ExitError{Code: 1, Err: err}
		}

		path, err := config.ConfigFilePath()
		if err != nil {
			return &ExitError{Code: 1, Err: err}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, TitleStyle.Render("volprobe configuration"))
		fmt.Fprintln(out, SubtitleStyle.Render("file: ")+path)
		fmt.Fprintln(out)
		fmt.Fprintf(out, "dump_path:          %s\n", orUnset(cfg.DumpPath))
		fmt.Fprintf(out, "python.interpreter: %s\n", orUnset(cfg.Python.Interpreter))
		fmt.Fprintf(out, "modules:            %s\n", strings.Join(cfg.Modules, ", "))
		fmt.Fprintf(out, "ui.verbose:         %t\n", cfg.UI.Verbose)
		if len(cfg.Checks) == 0 {
			fmt.Fprintf(out, "checks:             %s\n", orUnset(""))
		} else {
			fmt.Fprintln(out, "checks:")
			for _, c := range cfg.Checks {
				fmt.Fprintf(out, "  %s: %s\n", c.Name, c.Script)
			}
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ConfigFilePath()
		if err != nil {
			return &ExitError{Code: 1, Err: err}
		}

		if err := config.WriteStarter(path); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error: ")+err.Error())
			return &ExitError{Code: 1, Err: err}
		}

		fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Created ")+path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

// orUnset renders empty config values as a muted placeholder.
func orUnset(v string) string {
	if v == "" {
		return SubtitleStyle.Render("(unset)")
	}
	return v
}
