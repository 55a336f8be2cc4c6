package models

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type GUIFramework int

const (
	GUINone GUIFramework = iota
	GUITkinter
	GUICustomTkinter
	GUIPyQt5
	GUIPyQt6
	GUIPySide2
	GUIPySide6
	GUIKivy
	GUIPygame
)

var guiFrameworkNames = []string{
	"None",
	"Tkinter",
	"CustomTkinter",
	"PyQt5",
	"PyQt6",
	"PySide2",
	"PySide6",
	"Kivy",
	"Pygame",
}

func (g GUIFramework) String() string {
	if g < 0 || int(g) >= len(guiFrameworkNames) {
		return "Unknown"
	}
	return guiFrameworkNames[g]
}

// GUIFrameworks lists every framework in selection order.
func GUIFrameworks() []GUIFramework {
	out := make([]GUIFramework, len(guiFrameworkNames))
	for i := range guiFrameworkNames {
		out[i] = GUIFramework(i)
	}
	return out
}

// ParseGUIFramework matches a framework by name, ignoring case. An empty
// string selects GUINone.
func ParseGUIFramework(name string) (GUIFramework, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return GUINone, nil
	}
	for i, n := range guiFrameworkNames {
		if strings.EqualFold(n, name) {
			return GUIFramework(i), nil
		}
	}
	return GUINone, fmt.Errorf("unknown GUI framework %q (want one of %s)", name, strings.Join(guiFrameworkNames, ", "))
}

// HiddenImports returns the modules the packaging tool must be forced to
// bundle for this framework. The slice is freshly allocated on every call.
func (g GUIFramework) HiddenImports() []string {
	switch g {
	case GUITkinter:
		return []string{"tkinter", "tkinter.ttk", "_tkinter"}
	case GUICustomTkinter:
		return []string{"customtkinter", "tkinter", "_tkinter"}
	case GUIPyQt5, GUIPyQt6, GUIPySide2, GUIPySide6:
		pkg := g.String()
		return []string{pkg, pkg + ".QtCore", pkg + ".QtGui", pkg + ".QtWidgets"}
	case GUIKivy:
		return []string{"kivy", "kivy.core.window"}
	case GUIPygame:
		return []string{"pygame", "pygame.mixer", "pygame.font"}
	default:
		return []string{}
	}
}

// RootModule is the top-level module a script imports when it uses g.
func (g GUIFramework) RootModule() string {
	switch g {
	case GUINone:
		return ""
	case GUITkinter:
		return "tkinter"
	case GUICustomTkinter:
		return "customtkinter"
	case GUIKivy:
		return "kivy"
	case GUIPygame:
		return "pygame"
	default:
		return g.String()
	}
}

func (g GUIFramework) MarshalYAML() (interface{}, error) {
	return g.String(), nil
}

func (g *GUIFramework) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseGUIFramework(name)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
