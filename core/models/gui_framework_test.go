package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestGUIFrameworkYAML(t *testing.T) {
	var doc struct {
		GUI GUIFramework `yaml:"gui"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("gui: pyside6\n"), &doc))
	assert.Equal(t, GUIPySide6, doc.GUI)

	out, err := yaml.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, "gui: PySide6\n", string(out))

	assert.Error(t, yaml.Unmarshal([]byte("gui: swing\n"), &doc))
	assert.Error(t, yaml.Unmarshal([]byte("gui: [a, b]\n"), &doc))
}

func TestGUIFrameworkHiddenImports(t *testing.T) {
	assert.Equal(t, []string{"PyQt5", "PyQt5.QtCore", "PyQt5.QtGui", "PyQt5.QtWidgets"}, GUIPyQt5.HiddenImports())
	assert.Equal(t, []string{}, GUINone.HiddenImports())
}
