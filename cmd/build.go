package cmd

import (
	"fmt"
	"io"

	"github.com/gookit/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/tristendillon/pydeploy/core/command"
	"github.com/tristendillon/pydeploy/core/logger"
	"github.com/tristendillon/pydeploy/core/models"
	"github.com/tristendillon/pydeploy/core/runner"
	"github.com/tristendillon/pydeploy/core/shared"
)

var (
	buildOpts  buildFlags
	openFolder bool
	quiet      bool
)

var buildCmd = &cobra.Command{
	Use:   "build <script.py>",
	Short: "Package a script into an executable",
	Long: `Runs PyInstaller for the script with the configured options, streaming
its output and a progress estimate. The executable is written to dist/ next to
the script.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := buildOpts.options(cmd, appConfig, args[0])
		if err != nil {
			return err
		}
		tool := buildOpts.locate(appConfig)
		line := command.Build(opts, tool.Path)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "PyInstaller: %s\n", tool.Status)
		fmt.Fprintf(out, "$ %s\n", line)

		ui := newBuildUI(out, quiet)
		outcome, err := runner.New().Run(cmd.Context(), models.RunRequest{
			Command:         line,
			ExtraSearchPath: tool.LibsDir,
		}, ui)
		if err != nil {
			return err
		}
		ui.finish()

		if !outcome.Succeeded() {
			fmt.Fprintln(out, color.Danger.Sprint(outcome.Message))
			if outcome.Excerpt != "" {
				fmt.Fprintf(out, "\n%s\n", outcome.Excerpt)
			}
			return outcome.Err
		}

		fmt.Fprintln(out, color.Success.Sprint(outcome.Message))
		fmt.Fprintf(out, "Output: %s\n", command.ArtifactPath(opts))
		if openFolder {
			if err := shared.OpenFolder(command.DistDir(opts)); err != nil {
				logger.Warn("%v", err)
			}
		}
		return nil
	},
}

// buildUI renders run events as a progress bar with the tool output above it.
type buildUI struct {
	out   io.Writer
	bar   *progressbar.ProgressBar
	quiet bool
}

func newBuildUI(out io.Writer, quiet bool) *buildUI {
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription("Initializing"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(out)
		}),
	)
	return &buildUI{out: out, bar: bar, quiet: quiet}
}

func (u *buildUI) OnLine(line string) {
	if u.quiet {
		logger.Debug("%s", line)
		return
	}
	_ = u.bar.Clear()
	fmt.Fprintln(u.out, line)
	_ = u.bar.RenderBlank()
}

func (u *buildUI) OnProgress(ev models.ProgressEvent) {
	u.bar.Describe(ev.Stage)
	_ = u.bar.Set(ev.Value)
}

func (u *buildUI) finish() {
	if !u.bar.IsFinished() {
		_ = u.bar.Clear()
		fmt.Fprintln(u.out)
	}
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildOpts.register(buildCmd)
	buildCmd.Flags().BoolVar(&openFolder, "open", false, "Open the output folder after a successful build")
	buildCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Hide the packaging tool output")
}
