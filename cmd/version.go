package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tristendillon/pydeploy/core/version"
)

var short bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the version of pydeploy",
	Run: func(cmd *cobra.Command, args []string) {
		v := version.Get()
		if short {
			fmt.Fprintln(cmd.OutOrStdout(), v.Version)
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), v.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVarP(&short, "short", "s", false, "Print the version number only")
}
