package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTOML(t *testing.T) {
	data := []byte(`
generation = "legacy"
check_errors = false
profiling = true

[window]
title = "sprites"
width = 800
`)
	c, err := Parse(data, FormatTOML)
	require.NoError(t, err)
	assert.Equal(t, "legacy", c.Generation)
	require.NotNil(t, c.CheckErrors)
	assert.False(t, *c.CheckErrors)
	assert.True(t, c.Profiling)
	assert.Equal(t, "sprites", c.Window.Title)
	assert.Equal(t, 800, c.Window.Width)
	assert.Equal(t, 720, c.Window.Height)
	assert.Equal(t, "fragColor", c.FragColorName)
}

func TestParseYAML(t *testing.T) {
	data := []byte("generation: core\nfrag_color: outColor\nwindow:\n  height: 600\n  vsync: true\n")
	c, err := Parse(data, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "core", c.Generation)
	assert.Nil(t, c.CheckErrors)
	assert.Equal(t, "outColor", c.FragColorName)
	assert.Equal(t, 1280, c.Window.Width)
	assert.Equal(t, 600, c.Window.Height)
	assert.True(t, c.Window.VSync)
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "oxy.yml")
	require.NoError(t, os.WriteFile(path, []byte("window:\n  title: from-file\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", c.Window.Title)

	_, err = Load(filepath.Join(dir, "oxy.json"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("generation = "), FormatTOML)
	assert.Error(t, err)
}
