package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tristendillon/pydeploy/core/config"
	"github.com/tristendillon/pydeploy/core/exclude"
	"github.com/tristendillon/pydeploy/core/logger"
	"github.com/tristendillon/pydeploy/core/models"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvTool, "")
	t.Setenv(config.EnvBaseDir, "")
	t.Setenv(config.EnvVerbose, "")

	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags clears values and Changed marks left by an earlier Execute.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func script(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "app.py")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestPreviewCommand(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := script(t, dir, "import json\n")

	out, err := execute(t, "preview", path, "--tool", "pyinstaller", "--onefile", "--name", "tool",
		"--exclude", "numpy,mylib", "--exclude", "unittest", "--hidden-import", "requests")
	require.NoError(t, err)

	want := strings.Join([]string{
		"pyinstaller --clean -y --onefile",
		`--name="tool"`,
		`--distpath="` + filepath.Join(dir, "dist") + `"`,
		`--workpath="` + filepath.Join(dir, "build") + `"`,
		`--specpath="` + dir + `"`,
		`--hidden-import="requests"`,
		"--exclude-module=unittest --exclude-module=numpy --exclude-module=mylib",
		`"` + path + `"`,
	}, " ")
	assert.Equal(t, want+"\n", out)
}

func TestPreviewRejectsNonScript(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("x"), 0o644))

	_, err := execute(t, "preview", notes)
	assert.Error(t, err)
}

func TestAnalyzeCommand(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := script(t, dir, "import tkinter\nimport numpy as np\n")

	out, err := execute(t, "analyze", path)
	require.NoError(t, err)

	assert.Contains(t, out, "GUI framework: Tkinter")
	assert.Contains(t, out, "numpy, tkinter")
	assert.Contains(t, out, "Selected 15 modules: unittest, test, doctest, pydoc, PyQt5... (+10 more)")
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := script(t, dir, "from PySide6.QtWidgets import QApplication\n")

	out, err := execute(t, "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "gui: PySide6")

	cfg, err := config.LoadFile(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "app", cfg.Build.Name)

	_, err = execute(t, "init", path)
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "pydeploy dev"), out)
}

func TestPreviewAutoExclude(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := script(t, dir, "import numpy\n")

	out, err := execute(t, "preview", path, "--tool", "pyinstaller", "--auto-exclude", "--exclude", "numpy,mylib")
	require.NoError(t, err)

	var want []string
	for _, name := range exclude.Catalog() {
		if name != "numpy" {
			want = append(want, "--exclude-module="+name)
		}
	}
	want = append(want, "--exclude-module=mylib")
	assert.Contains(t, out, strings.Join(want, " ")+` "`+path+`"`)
	assert.NotContains(t, out, "--exclude-module=numpy")
}

// fakeTool writes a shell script standing in for the packaging tool.
func fakeTool(t *testing.T, dir, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("build tests use a POSIX shell")
	}
	path := filepath.Join(dir, "fake-pyinstaller")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestBuildCommandSuccess(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := script(t, dir, "import json\n")
	tool := fakeTool(t, dir, "echo 'INFO: Analyzing app.py'\necho 'INFO: Building EXE from EXE-00.toc'\necho 'INFO: Build complete! completed successfully'\n")

	out, err := execute(t, "build", path, "--tool", tool)
	require.NoError(t, err)

	assert.Contains(t, out, "INFO: Building EXE from EXE-00.toc")
	assert.Contains(t, out, "Build completed successfully")
	assert.Contains(t, out, "Output: "+filepath.Join(dir, "dist", "app"))
}

func TestBuildCommandFailure(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := script(t, dir, "import json\n")
	tool := fakeTool(t, dir, "echo 'INFO: Analyzing app.py'\necho 'ERROR: module not found: foo'\necho 'bye'\nexit 1\n")

	out, err := execute(t, "build", path, "--tool", tool, "--quiet")
	require.Error(t, err)

	var toolErr *models.ToolExitError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, 1, toolErr.ExitCode)
	assert.Contains(t, out, "packaging tool failed (code 1)")
	assert.Contains(t, out, "\nERROR: module not found: foo\n")
	assert.NotContains(t, out, "Output:")
}

func TestVerboseLogsCacheStats(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := script(t, dir, "import os\n")

	var logs bytes.Buffer
	logger.SetWriterForAll(&logs)
	t.Cleanup(func() {
		logger.SetWriterForAll(os.Stderr)
		logger.SetVerbose(false)
	})

	_, err := execute(t, "analyze", path, "--verbose")
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "Cache stats:")
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
