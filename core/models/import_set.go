package models

import "sort"

// ImportSet holds the top-level module names imported by one script.
type ImportSet map[string]struct{}

func NewImportSet(names ...string) ImportSet {
	s := make(ImportSet, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

func (s ImportSet) Add(name string) {
	if name == "" {
		return
	}
	s[name] = struct{}{}
}

func (s ImportSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

func (s ImportSet) Len() int {
	return len(s)
}

// Sorted returns the module names in lexical order.
func (s ImportSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// DetectFramework guesses the GUI framework of a script from its imports.
// CustomTkinter wins over Tkinter since it pulls tkinter in as well.
func DetectFramework(imports ImportSet) GUIFramework {
	order := []GUIFramework{
		GUICustomTkinter,
		GUITkinter,
		GUIPyQt5,
		GUIPyQt6,
		GUIPySide2,
		GUIPySide6,
		GUIKivy,
		GUIPygame,
	}
	for _, g := range order {
		if imports.Has(g.RootModule()) {
			return g
		}
	}
	return GUINone
}
