package project

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chad-russell/rcarve/internal/model"
)

func TestLoadToolLibraryMissingFileReturnsEmpty(t *testing.T) {
	lib, err := LoadToolLibrary(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Empty(t, lib.Tools)
}

func TestToolLibrarySaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools", "library.json")
	lib := NewToolLibrary()
	lib.AddTool(model.Tool{Name: "6mm Endmill", Diameter: 6, Stepover: 0.4, PassDepth: 3,
		Type: model.ToolType{Kind: model.ToolEndmill, Diameter: 6}})

	require.NoError(t, SaveToolLibrary(path, lib))

	loaded, err := LoadToolLibrary(path)
	require.NoError(t, err)
	require.Len(t, loaded.Tools, 1)
	assert.Equal(t, "6mm Endmill", loaded.Tools[0].Name)
}

func TestToolLibraryRemoveInvalidIndexErrors(t *testing.T) {
	lib := NewToolLibrary()
	err := lib.RemoveTool(0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid tool index")
}

func TestToolLibraryUpdateTool(t *testing.T) {
	lib := NewToolLibrary()
	lib.AddTool(model.Tool{Name: "old"})
	require.NoError(t, lib.UpdateTool(0, model.Tool{Name: "new"}))
	assert.Equal(t, "new", lib.Tools[0].Name)
}
