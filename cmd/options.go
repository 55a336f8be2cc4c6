package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tristendillon/pydeploy/core/ast"
	"github.com/tristendillon/pydeploy/core/command"
	"github.com/tristendillon/pydeploy/core/config"
	"github.com/tristendillon/pydeploy/core/exclude"
	"github.com/tristendillon/pydeploy/core/logger"
	"github.com/tristendillon/pydeploy/core/models"
	"github.com/tristendillon/pydeploy/core/shared"
)

// buildFlags are the packaging options settable on the command line. Only
// flags the user actually set override the config file.
type buildFlags struct {
	tool          string
	name          string
	icon          string
	gui           string
	clean         bool
	oneFile       bool
	noConsole     bool
	autoExclude   bool
	hiddenImports []string
	excludes      []string
}

func (f *buildFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.tool, "tool", "", "Path to the packaging tool (default: libs/bin/pyinstaller, then PATH)")
	fs.StringVar(&f.name, "name", "", "Executable name (default: script name)")
	fs.StringVar(&f.icon, "icon", "", "Icon file for the executable")
	fs.StringVar(&f.gui, "gui", "", "GUI framework whose modules must be bundled")
	fs.BoolVar(&f.clean, "clean", true, "Clean the build cache before building")
	fs.BoolVar(&f.oneFile, "onefile", false, "Bundle into a single executable")
	fs.BoolVar(&f.noConsole, "noconsole", false, "Hide the console window")
	fs.BoolVar(&f.autoExclude, "auto-exclude", false, "Exclude every catalog module the script does not import")
	fs.StringArrayVar(&f.hiddenImports, "hidden-import", nil, "Extra modules to bundle (repeatable, comma separated)")
	fs.StringArrayVar(&f.excludes, "exclude", nil, "Modules to leave out (repeatable, comma separated)")
}

// options layers the set flags over cfg for script.
func (f *buildFlags) options(cmd *cobra.Command, cfg *config.Config, script string) (models.BuildOptions, error) {
	abs, err := filepath.Abs(script)
	if err != nil {
		return models.BuildOptions{}, fmt.Errorf("failed to resolve %s: %w", script, err)
	}

	opts := cfg.BuildOptions(abs)
	changed := cmd.Flags().Changed

	if changed("name") {
		opts.OutputName = f.name
	}
	if changed("icon") {
		opts.IconPath = f.icon
	}
	if changed("clean") {
		opts.CleanBuild = f.clean
	}
	if changed("onefile") {
		opts.OneFile = f.oneFile
	}
	if changed("noconsole") {
		opts.NoConsole = f.noConsole
	}
	if changed("gui") {
		gui, err := models.ParseGUIFramework(f.gui)
		if err != nil {
			return models.BuildOptions{}, err
		}
		opts.GUIFramework = gui
	}
	if changed("hidden-import") {
		opts.HiddenImports = shared.SplitLists(f.hiddenImports)
	}
	if changed("exclude") {
		opts.ExcludeSelections, opts.CustomExcludes = nil, nil
		for _, name := range shared.SplitLists(f.excludes) {
			if exclude.Contains(name) {
				opts.ExcludeSelections = append(opts.ExcludeSelections, name)
			} else {
				opts.CustomExcludes = append(opts.CustomExcludes, name)
			}
		}
	}
	opts = opts.WithDefaults()

	if err := opts.Validate(); err != nil {
		return models.BuildOptions{}, err
	}

	if f.autoExclude || cfg.Build.AutoExclude {
		opts = autoExclude(cmd.Context(), opts)
	}
	return opts, nil
}

// autoExclude replaces the catalog selections with every catalog entry the
// script does not import. Custom exclusions are kept.
func autoExclude(ctx context.Context, opts models.BuildOptions) models.BuildOptions {
	parsed := ast.AnalyzeImports(ctx, opts.SourceFile)
	advice := exclude.Advise(exclude.Catalog(), parsed.Imports)
	logger.Info("%s", exclude.Summary(advice.Safe))
	return opts.WithExcludeSelections(advice.Safe)
}

func (f *buildFlags) locate(cfg *config.Config) command.Tool {
	override := cfg.Tool
	if f.tool != "" {
		override = f.tool
	}
	tool := command.Locate(cfg.ResolveBaseDir(), override)
	logger.Debug("Packaging tool: %s (%s)", tool.Path, tool.Status)
	return tool
}
