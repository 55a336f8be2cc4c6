package template_engine

import (
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/tristendillon/pydeploy/core/logger"
)

//go:embed templates
var TemplateFS embed.FS

type TemplateRef struct {
	Path string
}

var TEMPLATES = struct {
	CONFIG TemplateRef
}{
	CONFIG: TemplateRef{Path: "pydeploy.yaml.tmpl"},
}

type TemplateEngine struct {
	funcMap template.FuncMap
}

func getDefaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"join":  strings.Join,
		"quote": strconv.Quote,
		"quoteAll": func(items []string) []string {
			out := make([]string, len(items))
			for i, s := range items {
				out[i] = strconv.Quote(s)
			}
			return out
		},
		"default": func(def, val string) string {
			if val == "" {
				return def
			}
			return val
		},
	}
}

func NewTemplateEngine() *TemplateEngine {
	return &TemplateEngine{funcMap: getDefaultFuncMap()}
}

func (te *TemplateEngine) Render(ref TemplateRef, w io.Writer, data interface{}) error {
	templatePath := filepath.ToSlash(filepath.Join("templates", ref.Path))
	content, err := TemplateFS.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read template file %s: %w", templatePath, err)
	}

	tmpl, err := template.New(filepath.Base(ref.Path)).Funcs(te.funcMap).Parse(string(content))
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %w", ref.Path, err)
	}
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", ref.Path, err)
	}
	return nil
}

func (te *TemplateEngine) GenerateFile(ref TemplateRef, outputPath string, data interface{}) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	outputFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", outputPath, err)
	}
	defer outputFile.Close()

	logger.Debug("Rendering %s to %s", ref.Path, outputPath)
	return te.Render(ref, outputFile, data)
}
