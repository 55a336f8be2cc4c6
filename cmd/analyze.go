package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"github.com/tristendillon/pydeploy/core/ast"
	"github.com/tristendillon/pydeploy/core/exclude"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <script.py>",
	Short: "Show a script's imports and which catalog modules can be excluded",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", args[0], err)
		}

		parsed := ast.AnalyzeImports(cmd.Context(), path)
		advice := exclude.Advise(exclude.Catalog(), parsed.Imports)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Script:        %s\n", path)
		fmt.Fprintf(out, "Imports (%d):   %s\n", parsed.Imports.Len(), orNone(parsed.Imports.Sorted()))
		fmt.Fprintf(out, "GUI framework: %s\n", parsed.Framework)
		fmt.Fprintf(out, "Excludable:    %s\n", color.Success.Sprint(orNone(advice.Safe)))
		fmt.Fprintf(out, "In use:        %s\n", color.Danger.Sprint(orNone(advice.InUse)))
		fmt.Fprintln(out, exclude.Summary(advice.Safe))
		return nil
	},
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
