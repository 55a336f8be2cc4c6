// Package exclude decides which commonly bundled modules a script can safely
// leave out of its executable.
package exclude

import (
	"fmt"
	"strings"

	"github.com/tristendillon/pydeploy/core/models"
)

var catalog = []string{
	"unittest", "test", "doctest", "pydoc",
	"tkinter", "PyQt5", "PyQt6", "PySide2",
	"PySide6", "matplotlib", "scipy", "pandas",
	"numpy", "PIL", "wx", "sqlite3", "email",
}

// Catalog returns a copy of the fixed list of commonly excludable modules.
func Catalog() []string {
	return append([]string(nil), catalog...)
}

// Contains reports whether name is a catalog entry.
func Contains(name string) bool {
	for _, c := range catalog {
		if c == name {
			return true
		}
	}
	return false
}

// Advise partitions the catalog: an entry is safe to exclude iff the script
// does not import it. Catalog order is kept within both partitions.
func Advise(catalog []string, imports models.ImportSet) models.ExcludeAdvice {
	advice := models.ExcludeAdvice{
		Safe:  []string{},
		InUse: []string{},
	}
	for _, name := range catalog {
		if imports.Has(name) {
			advice.InUse = append(advice.InUse, name)
		} else {
			advice.Safe = append(advice.Safe, name)
		}
	}
	return advice
}

// Summary renders the "auto detect" message: the first five safe modules and
// a count of the rest.
func Summary(safe []string) string {
	if len(safe) == 0 {
		return "No safe modules to exclude"
	}
	shown := safe
	if len(shown) > 5 {
		shown = shown[:5]
	}
	text := strings.Join(shown, ", ")
	if len(safe) > 5 {
		text += fmt.Sprintf("... (+%d more)", len(safe)-5)
	}
	return fmt.Sprintf("Selected %d modules: %s", len(safe), text)
}
