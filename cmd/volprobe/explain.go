// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/volprobe/volprobe/internal/issue"
)

var explainCmd = &cobra.Command{
	Use:   "explain [failure]",
	Short: "Explain a probe failure class",
	Long: `Render the help card for a known failure class. Without an argument,
lists the failure classes the probe can report.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if len(args) == 0 {
			names := make([]string, 0)
			for _, i := range issue.Values() {
				names = append(names, i.Name())
			}
			sort.Strings(names)

			fmt.Fprintln(out, TitleStyle.Render("Known failure classes:"))
			for _, name := range names {
				fmt.Fprintln(out, "  "+CmdStyle.Render(name))
			}
			return nil
		}

		i := issue.GetByName(args[0])
		if i == nil {
			fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error: ")+
				fmt.Sprintf("unknown failure class %q (run 'volprobe explain' to list them)", args[0]))
			return &ExitError{Code: 1}
		}

		rendered, err := i.Render("auto")
		if err != nil {
			// Fall back to the raw markdown if the terminal renderer fails
			fmt.Fprintln(out, string(i.MarkdownMsg()))
			return nil
		}
		fmt.Fprint(out, rendered)
		return nil
	},
}
