package models

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const ScriptExt = ".py"

// BuildOptions is a snapshot of everything needed to render one packaging
// command. Helpers return modified copies; a value is never changed after it
// has been handed to the command builder.
type BuildOptions struct {
	SourceFile    string
	CleanBuild    bool
	OneFile       bool
	NoConsole     bool
	OutputName    string
	IconPath      string
	GUIFramework  GUIFramework
	HiddenImports []string

	// ExcludeSelections are picks from the exclude catalog.
	ExcludeSelections []string
	// CustomExcludes are free-text module names entered by the user.
	CustomExcludes []string
}

// WithDefaults fills OutputName from the script stem when it is empty.
func (o BuildOptions) WithDefaults() BuildOptions {
	out := o.clone()
	if out.OutputName == "" && out.SourceFile != "" {
		base := filepath.Base(out.SourceFile)
		out.OutputName = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return out
}

// WithExcludeSelections returns a copy whose catalog selections are replaced.
func (o BuildOptions) WithExcludeSelections(selections []string) BuildOptions {
	out := o.clone()
	out.ExcludeSelections = append([]string(nil), selections...)
	return out
}

// SourceDir is the directory the dist/build/spec paths are derived from.
func (o BuildOptions) SourceDir() string {
	if o.SourceFile == "" {
		return ""
	}
	return filepath.Dir(o.SourceFile)
}

// Validate checks that SourceFile names an existing script. Nothing else is
// validated; the packaging tool is the authority on the remaining fields.
func (o BuildOptions) Validate() error {
	if o.SourceFile == "" {
		return ErrSourceMissing
	}
	if !strings.EqualFold(filepath.Ext(o.SourceFile), ScriptExt) {
		return fmt.Errorf("%w: %s", ErrNotScript, o.SourceFile)
	}
	info, err := os.Stat(o.SourceFile)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrSourceMissing, o.SourceFile)
		}
		return fmt.Errorf("failed to stat %s: %w", o.SourceFile, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrNotScript, o.SourceFile)
	}
	return nil
}

func (o BuildOptions) clone() BuildOptions {
	out := o
	out.HiddenImports = append([]string(nil), o.HiddenImports...)
	out.ExcludeSelections = append([]string(nil), o.ExcludeSelections...)
	out.CustomExcludes = append([]string(nil), o.CustomExcludes...)
	return out
}
