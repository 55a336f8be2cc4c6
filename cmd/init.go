package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tristendillon/pydeploy/core/ast"
	"github.com/tristendillon/pydeploy/core/config"
	"github.com/tristendillon/pydeploy/core/exclude"
	"github.com/tristendillon/pydeploy/core/models"
	"github.com/tristendillon/pydeploy/core/template_engine"
)

var (
	force bool
)

var initCmd = &cobra.Command{
	Use:   "init [script.py]",
	Short: "Write a starter pydeploy.yaml",
	Long: `Creates pydeploy.yaml in the current directory. When a script is given its
name and GUI framework are filled in from its imports.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := config.FileName
		if _, err := os.Stat(out); err == nil && !force {
			return fmt.Errorf("%s already exists, use --force to overwrite", out)
		}

		var parsed *models.ParsedFile
		advice := models.ExcludeAdvice{}
		if len(args) == 1 {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("failed to resolve %s: %w", args[0], err)
			}
			if err := (models.BuildOptions{SourceFile: path}).Validate(); err != nil {
				return err
			}
			parsed = ast.AnalyzeImports(cmd.Context(), path)
			advice = exclude.Advise(exclude.Catalog(), parsed.Imports)
		}

		data := template_engine.NewConfigData(parsed, advice, appConfig.Watch.Debounce)
		engine := template_engine.NewTemplateEngine()
		if err := engine.GenerateFile(template_engine.TEMPLATES.CONFIG, out, data); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (gui: %s)\n", out, data.GUI)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing pydeploy.yaml")
}
