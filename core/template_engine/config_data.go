package template_engine

import (
	"path/filepath"
	"time"

	"github.com/tristendillon/pydeploy/core/models"
)

// ConfigData feeds the starter pydeploy.yaml template.
type ConfigData struct {
	Script        string
	Name          string
	GUI           string
	Frameworks    []string
	OneFile       bool
	NoConsole     bool
	HiddenImports []string
	Excludes      []string
	Safe          []string
	Debounce      time.Duration
}

// NewConfigData pre-fills the template from a parsed script.
func NewConfigData(parsed *models.ParsedFile, advice models.ExcludeAdvice, debounce time.Duration) ConfigData {
	frameworks := make([]string, 0, len(models.GUIFrameworks()))
	for _, f := range models.GUIFrameworks() {
		frameworks = append(frameworks, f.String())
	}

	data := ConfigData{
		Frameworks:    frameworks,
		GUI:           models.GUINone.String(),
		OneFile:       true,
		HiddenImports: []string{},
		Excludes:      []string{},
		Safe:          append([]string{}, advice.Safe...),
		Debounce:      debounce,
	}
	if parsed == nil {
		data.Name = "app"
		return data
	}

	opts := models.BuildOptions{SourceFile: parsed.Path}.WithDefaults()
	data.Script = filepath.Base(parsed.Path)
	data.Name = opts.OutputName
	data.GUI = parsed.Framework.String()
	data.NoConsole = parsed.Framework != models.GUINone
	return data
}
