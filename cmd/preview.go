package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tristendillon/pydeploy/core/command"
)

var previewFlags buildFlags

var previewCmd = &cobra.Command{
	Use:   "preview <script.py>",
	Short: "Print the packaging command without running it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := previewFlags.options(cmd, appConfig, args[0])
		if err != nil {
			return err
		}
		tool := previewFlags.locate(appConfig)

		fmt.Fprintf(cmd.ErrOrStderr(), "PyInstaller: %s (%s)\n", tool.Status, tool.Path)
		fmt.Fprintln(cmd.OutOrStdout(), command.Build(opts, tool.Path))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewFlags.register(previewCmd)
}
