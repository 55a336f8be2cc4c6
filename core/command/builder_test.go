package command

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tristendillon/pydeploy/core/models"
)

func TestBuildOneFileNamed(t *testing.T) {
	opts := models.BuildOptions{SourceFile: "/tmp/app.py", OneFile: true, OutputName: "app"}

	got := Build(opts, "pyinstaller")

	assert.Contains(t, got, "--onefile")
	assert.Contains(t, got, `--name="app"`)
	assert.True(t, strings.HasSuffix(got, `"/tmp/app.py"`), got)
}

func TestBuildFullOrder(t *testing.T) {
	opts := models.BuildOptions{
		SourceFile:     "/tmp/app.py",
		CleanBuild:     true,
		OneFile:        true,
		NoConsole:      true,
		OutputName:     "app",
		IconPath:       "/tmp/icon.ico",
		HiddenImports:  []string{"requests"},
		CustomExcludes: []string{"mylib"},
	}

	want := strings.Join([]string{
		"pyinstaller",
		"--clean -y",
		"--onefile",
		"--noconsole",
		`--name="app"`,
		`--icon="/tmp/icon.ico"`,
		`--distpath="` + filepath.Join("/tmp", "dist") + `"`,
		`--workpath="` + filepath.Join("/tmp", "build") + `"`,
		`--specpath="/tmp"`,
		`--hidden-import="requests"`,
		"--exclude-module=mylib",
		`"/tmp/app.py"`,
	}, " ")
	assert.Equal(t, want, Build(opts, "pyinstaller"))
}

func TestBuildFrameworkImportsFirst(t *testing.T) {
	opts := models.BuildOptions{
		SourceFile:    "/tmp/app.py",
		GUIFramework:  models.GUIPyQt5,
		HiddenImports: []string{"extra"},
	}

	got := Build(opts, "pyinstaller")

	framework := `--hidden-import="PyQt5" --hidden-import="PyQt5.QtCore" --hidden-import="PyQt5.QtGui" --hidden-import="PyQt5.QtWidgets"`
	require.Contains(t, got, framework)
	assert.Less(t, strings.Index(got, framework), strings.Index(got, `--hidden-import="extra"`))
}

func TestBuildEmptySource(t *testing.T) {
	assert.Equal(t, "", Build(models.BuildOptions{OneFile: true}, "pyinstaller"))
}

func TestBuildDeterministic(t *testing.T) {
	opts := models.BuildOptions{
		SourceFile:        "/tmp/app.py",
		GUIFramework:      models.GUIKivy,
		ExcludeSelections: []string{"numpy", "unittest"},
	}
	assert.Equal(t, Build(opts, "pyinstaller"), Build(opts, "pyinstaller"))
}

func TestBuildQuotesToolWithSpace(t *testing.T) {
	opts := models.BuildOptions{SourceFile: "/tmp/app.py"}

	assert.True(t, strings.HasPrefix(Build(opts, "/opt/my tools/pyinstaller"), `"/opt/my tools/pyinstaller" `))
	assert.True(t, strings.HasPrefix(Build(opts, "/usr/bin/pyinstaller"), "/usr/bin/pyinstaller "))
}

func TestExcludedModulesOrder(t *testing.T) {
	opts := models.BuildOptions{
		ExcludeSelections: []string{"numpy", "custom_pick", "unittest", "tkinter"},
		CustomExcludes:    []string{"zeta", "numpy"},
	}

	want := []string{"unittest", "tkinter", "numpy", "custom_pick", "zeta", "numpy"}
	if diff := cmp.Diff(want, ExcludedModules(opts)); diff != "" {
		t.Errorf("ExcludedModules() mismatch (-want +got):\n%s", diff)
	}
}

func TestLocate(t *testing.T) {
	base := t.TempDir()

	tool := Locate(base, "")
	assert.Equal(t, ToolName, tool.Path)
	assert.Equal(t, ToolSystem, tool.Status)
	assert.Empty(t, tool.LibsDir)

	bin := filepath.Join(base, LibsDir, "bin")
	require.NoError(t, os.MkdirAll(bin, 0o755))
	local := filepath.Join(bin, ToolName+ExeSuffix(runtime.GOOS))
	require.NoError(t, os.WriteFile(local, []byte("#!/bin/sh\n"), 0o755))

	tool = Locate(base, "")
	assert.Equal(t, local, tool.Path)
	assert.Equal(t, "Local", tool.Status.String())
	assert.Equal(t, filepath.Join(base, LibsDir), tool.LibsDir)

	tool = Locate(base, "/custom/pyinstaller")
	assert.Equal(t, "/custom/pyinstaller", tool.Path)
	assert.Equal(t, ToolOverride, tool.Status)
	assert.Equal(t, filepath.Join(base, LibsDir), tool.LibsDir)
}

func TestArtifactPath(t *testing.T) {
	opts := models.BuildOptions{SourceFile: filepath.Join("/work", "game.py")}

	assert.Equal(t, filepath.Join("/work", "dist", "game.exe"), artifactPath(opts, "windows"))
	assert.Equal(t, filepath.Join("/work", "dist", "game"), artifactPath(opts, "linux"))

	opts.OutputName = "Game"
	assert.Equal(t, filepath.Join("/work", "dist", "Game"), artifactPath(opts, "darwin"))
	assert.Equal(t, "", artifactPath(models.BuildOptions{}, "linux"))
}
