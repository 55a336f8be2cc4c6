package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"sync"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"github.com/tristendillon/pydeploy/core/ast"
	"github.com/tristendillon/pydeploy/core/command"
	"github.com/tristendillon/pydeploy/core/config"
	"github.com/tristendillon/pydeploy/core/exclude"
	"github.com/tristendillon/pydeploy/core/logger"
	"github.com/tristendillon/pydeploy/core/models"
	"github.com/tristendillon/pydeploy/core/runner"
	"github.com/tristendillon/pydeploy/core/watcher"
)

var (
	watchOpts  buildFlags
	watchBuild bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <script.py>",
	Short: "Re-analyze and re-render the command whenever the script changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		script, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", args[0], err)
		}
		cfgPath, err := filepath.Abs(config.FileName)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", config.FileName, err)
		}

		s := &watchSession{
			cmd:    cmd,
			script: script,
			cfg:    appConfig,
			build:  watchBuild || appConfig.Watch.Build,
			runner: runner.New(),
			out:    cmd.OutOrStdout(),
		}

		fw, err := watcher.NewFileWatcher([]string{script, cfgPath}, appConfig.Watch.Debounce)
		if err != nil {
			return err
		}
		defer fw.Close()

		fw.FileWatcher.AddOnStartFunc(func() error {
			logger.Info("Watching %s for changes (Ctrl+C to stop)", script)
			return s.refresh(false)
		})
		fw.FileWatcher.AddOnChangeFunc(func(changed []string) error {
			return s.refresh(slices.Contains(changed, cfgPath))
		})
		fw.FileWatcher.AddOnCloseFunc(func() error {
			logger.Info("Stopped watching %s", script)
			return nil
		})

		return fw.Watch(cmd.Context())
	},
}

// watchSession is shared by the debounce callbacks; mu serializes refreshes.
type watchSession struct {
	mu     sync.Mutex
	cmd    *cobra.Command
	script string
	cfg    *config.Config
	build  bool
	runner *runner.Runner
	out    io.Writer
}

// refresh re-renders the command from a fresh snapshot of the options and,
// when enabled, starts a build unless one is already running.
func (s *watchSession) refresh(reloadConfig bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if reloadConfig {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		s.cfg = cfg
		logger.Info("Reloaded %s", config.FileName)
	}

	ctx := s.cmd.Context()
	parsed := ast.AnalyzeImports(ctx, s.script)
	advice := exclude.Advise(exclude.Catalog(), parsed.Imports)
	fmt.Fprintf(s.out, "Imports: %s\n", orNone(parsed.Imports.Sorted()))
	fmt.Fprintln(s.out, exclude.Summary(advice.Safe))

	opts, err := watchOpts.options(s.cmd, s.cfg, s.script)
	if err != nil {
		return err
	}
	tool := watchOpts.locate(s.cfg)
	line := command.Build(opts, tool.Path)
	fmt.Fprintf(s.out, "$ %s\n", line)

	if !s.build {
		return nil
	}
	return s.startBuild(ctx, line, tool, opts)
}

func (s *watchSession) startBuild(ctx context.Context, line string, tool command.Tool, opts models.BuildOptions) error {
	run, err := s.runner.Start(ctx, models.RunRequest{Command: line, ExtraSearchPath: tool.LibsDir})
	if errors.Is(err, models.ErrRunInProgress) {
		logger.Warn("Build already running, skipping rebuild")
		return nil
	}
	if err != nil {
		return err
	}

	go func() {
		for ev := range run.Events() {
			switch ev.Kind {
			case models.EventLine:
				logger.Debug("%s", ev.Line)
			case models.EventProgress:
				logger.Debug("Progress %d%% (%s)", ev.Progress.Value, ev.Progress.Stage)
			}
		}
		outcome := run.Wait()
		if outcome.Succeeded() {
			fmt.Fprintln(s.out, color.Success.Sprintf("%s: %s", outcome.Message, command.ArtifactPath(opts)))
			return
		}
		fmt.Fprintln(s.out, color.Danger.Sprint(outcome.Message))
		if outcome.Excerpt != "" {
			fmt.Fprintln(s.out, outcome.Excerpt)
		}
	}()
	return nil
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchOpts.register(watchCmd)
	watchCmd.Flags().BoolVar(&watchBuild, "build", false, "Rebuild after every change")
}
