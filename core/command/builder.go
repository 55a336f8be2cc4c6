package command

import (
	"path/filepath"
	"strings"

	"github.com/tristendillon/pydeploy/core/exclude"
	"github.com/tristendillon/pydeploy/core/models"
)

// Build renders the packaging command for opts. The result depends only on
// its inputs; an empty source file renders as "".
func Build(opts models.BuildOptions, toolPath string) string {
	if opts.SourceFile == "" {
		return ""
	}

	tokens := []string{quoteIfSpaced(toolPath)}

	if opts.CleanBuild {
		tokens = append(tokens, "--clean", "-y")
	}
	if opts.OneFile {
		tokens = append(tokens, "--onefile")
	}
	if opts.NoConsole {
		tokens = append(tokens, "--noconsole")
	}
	if opts.OutputName != "" {
		tokens = append(tokens, "--name="+quote(opts.OutputName))
	}
	if opts.IconPath != "" {
		tokens = append(tokens, "--icon="+quote(opts.IconPath))
	}

	dir := opts.SourceDir()
	tokens = append(tokens,
		"--distpath="+quote(filepath.Join(dir, "dist")),
		"--workpath="+quote(filepath.Join(dir, "build")),
		"--specpath="+quote(dir),
	)

	for _, name := range HiddenImports(opts) {
		tokens = append(tokens, "--hidden-import="+quote(name))
	}
	for _, name := range ExcludedModules(opts) {
		tokens = append(tokens, "--exclude-module="+name)
	}

	tokens = append(tokens, quote(opts.SourceFile))
	return strings.Join(tokens, " ")
}

// HiddenImports lists the framework imports followed by the user's own.
func HiddenImports(opts models.BuildOptions) []string {
	out := opts.GUIFramework.HiddenImports()
	return append(out, opts.HiddenImports...)
}

// ExcludedModules orders catalog selections by catalog position, then any
// selection the catalog does not know in the order given, then custom entries.
func ExcludedModules(opts models.BuildOptions) []string {
	out := []string{}
	picked := make(map[string]int, len(opts.ExcludeSelections))
	for _, s := range opts.ExcludeSelections {
		picked[s]++
	}
	for _, name := range exclude.Catalog() {
		for i := 0; i < picked[name]; i++ {
			out = append(out, name)
		}
	}
	for _, s := range opts.ExcludeSelections {
		if !exclude.Contains(s) {
			out = append(out, s)
		}
	}
	return append(out, opts.CustomExcludes...)
}

func quote(s string) string {
	return `"` + s + `"`
}

func quoteIfSpaced(s string) string {
	if strings.Contains(s, " ") {
		return quote(s)
	}
	return s
}
