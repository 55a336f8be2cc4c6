package command

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/tristendillon/pydeploy/core/models"
)

const (
	ToolName = "pyinstaller"
	LibsDir  = "libs"
)

type ToolStatus int

const (
	ToolSystem ToolStatus = iota
	ToolLocal
	ToolOverride
)

func (s ToolStatus) String() string {
	switch s {
	case ToolLocal:
		return "Local"
	case ToolOverride:
		return "Override"
	default:
		return "System"
	}
}

// Tool is the resolved packaging tool for a project directory.
type Tool struct {
	Path   string
	Status ToolStatus
	// LibsDir is the bundled library directory, empty when absent.
	LibsDir string
}

// Locate resolves the packaging tool. An explicit override wins, then a copy
// bundled under <baseDir>/libs/bin, then whatever the shell finds on PATH.
func Locate(baseDir, override string) Tool {
	tool := Tool{Path: ToolName, Status: ToolSystem}

	libs := filepath.Join(baseDir, LibsDir)
	if info, err := os.Stat(libs); err == nil && info.IsDir() {
		tool.LibsDir = libs
	}

	if override != "" {
		tool.Path = override
		tool.Status = ToolOverride
		return tool
	}

	local := filepath.Join(libs, "bin", ToolName+ExeSuffix(runtime.GOOS))
	if info, err := os.Stat(local); err == nil && !info.IsDir() {
		tool.Path = local
		tool.Status = ToolLocal
	}
	return tool
}

func ExeSuffix(goos string) string {
	if goos == "windows" {
		return ".exe"
	}
	return ""
}

// ArtifactPath is where the packaging tool is expected to write the
// executable for opts. The path is never checked.
func ArtifactPath(opts models.BuildOptions) string {
	return artifactPath(opts, runtime.GOOS)
}

func artifactPath(opts models.BuildOptions, goos string) string {
	opts = opts.WithDefaults()
	if opts.SourceFile == "" {
		return ""
	}
	return filepath.Join(opts.SourceDir(), "dist", opts.OutputName+ExeSuffix(goos))
}

// DistDir is the output directory opened after a successful build.
func DistDir(opts models.BuildOptions) string {
	if opts.SourceFile == "" {
		return ""
	}
	return filepath.Join(opts.SourceDir(), "dist")
}
