package ast

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/tristendillon/pydeploy/core/cache"
	"github.com/tristendillon/pydeploy/core/logger"
	"github.com/tristendillon/pydeploy/core/models"
)

// ExtractImports walks every node below root and collects the top-level
// module name of each import statement.
func ExtractImports(root *sitter.Node, src []byte) models.ImportSet {
	imports := models.NewImportSet()

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "import_statement":
			for i := 0; i < int(n.NamedChildCount()); i++ {
				imports.Add(topLevelName(importedModule(n.NamedChild(i)), src))
			}
		case "import_from_statement":
			imports.Add(topLevelName(fromModule(n.ChildByFieldName("module_name")), src))
		case "future_import_statement":
			imports.Add("__future__")
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)

	return imports
}

// importedModule unwraps `a.b as c` to the dotted name `a.b`.
func importedModule(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	if n.Type() == "aliased_import" {
		return n.ChildByFieldName("name")
	}
	return n
}

// fromModule returns the dotted part of a from-import. Relative imports keep
// the name after the leading dots; `from . import x` has none.
func fromModule(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	if n.Type() != "relative_import" {
		return n
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child.Type() == "dotted_name" {
			return child
		}
	}
	return nil
}

func topLevelName(n *sitter.Node, src []byte) string {
	if n == nil || n.Type() != "dotted_name" {
		return ""
	}
	if n.NamedChildCount() > 0 {
		return strings.TrimSpace(n.NamedChild(0).Content(src))
	}
	name, _, _ := strings.Cut(n.Content(src), ".")
	return strings.TrimSpace(name)
}

// firstSyntaxError locates the first node that is not valid Python 3: parse
// errors, Python 2 print/exec statements and misordered parameters.
func firstSyntaxError(n *sitter.Node) *sitter.Node {
	switch n.Type() {
	case "ERROR", "print_statement", "exec_statement":
		return n
	case "parameters", "lambda_parameters":
		if bad := misorderedParameter(n); bad != nil {
			return bad
		}
	}
	if n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if found := firstSyntaxError(n.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

// misorderedParameter finds a parameter without a default that follows one
// with a default, before any `*` marker.
func misorderedParameter(params *sitter.Node) *sitter.Node {
	seenDefault := false
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "default_parameter", "typed_default_parameter":
			seenDefault = true
		case "identifier", "typed_parameter":
			if seenDefault {
				return p
			}
		case "list_splat_pattern", "keyword_separator", "dictionary_splat_pattern":
			return nil
		}
	}
	return nil
}

// ParseImports reads a script and returns its import set. On any failure the
// returned set is empty (never nil) and the error is a *models.ParseError.
func ParseImports(ctx context.Context, path string) (models.ImportSet, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return models.NewImportSet(), &models.ParseError{Path: path, Err: err}
	}

	if !utf8.Valid(src) {
		return models.NewImportSet(), &models.ParseError{Path: path, Err: errors.New("source is not valid UTF-8")}
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return models.NewImportSet(), &models.ParseError{Path: path, Err: err}
	}
	defer tree.Close()

	root := tree.RootNode()
	if bad := firstSyntaxError(root); bad != nil || root.HasError() {
		line := 0
		if bad != nil {
			line = int(bad.StartPoint().Row) + 1
		}
		return models.NewImportSet(), &models.ParseError{
			Path: path,
			Err:  fmt.Errorf("invalid syntax near line %d", line),
		}
	}

	imports := ExtractImports(root, src)
	logger.Debug("Parsed %s: %d top-level imports %v", path, imports.Len(), imports.Sorted())
	return imports, nil
}

// ParseScript analyzes a script and guesses its GUI framework.
func ParseScript(ctx context.Context, path string) (*models.ParsedFile, error) {
	imports, err := ParseImports(ctx, path)
	parsed := &models.ParsedFile{
		Path:      path,
		Imports:   imports,
		Framework: models.DetectFramework(imports),
		ParsedAt:  time.Now(),
	}
	return parsed, err
}

// Analyze is ParseScript backed by the process-wide import cache. Failed
// parses are not cached.
func Analyze(ctx context.Context, path string) (*models.ParsedFile, error) {
	fc := cache.GetCache()
	if parsed, ok := fc.ValidateAndGet(path); ok {
		return parsed, nil
	}

	parsed, err := ParseScript(ctx, path)
	if err != nil {
		return parsed, err
	}
	if err := fc.Set(parsed); err != nil {
		logger.Debug("Not caching %s: %v", path, err)
	}
	return parsed, nil
}

// AnalyzeImports is the degrading form of Analyze: a failure is logged and the
// script is reported with no detected imports.
func AnalyzeImports(ctx context.Context, path string) *models.ParsedFile {
	parsed, err := Analyze(ctx, path)
	if err != nil {
		logger.Warn("Import analysis failed, treating imports as unknown: %v", err)
	}
	return parsed
}
