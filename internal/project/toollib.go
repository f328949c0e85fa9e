package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chad-russell/rcarve/internal/model"
)

// ToolLibrary is a flat, ordered, persisted list of tool definitions.
type ToolLibrary struct {
	Tools []model.Tool
}

// NewToolLibrary returns an empty library.
func NewToolLibrary() *ToolLibrary {
	return &ToolLibrary{}
}

type jsonToolLibrary struct {
	Tools []model.Tool `json:"tools"`
}

// DefaultLibraryPath returns $HOME/.rcarve/tools/library.json.
func DefaultLibraryPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("project: resolve home directory: %w", err)
	}
	return filepath.Join(home, ".rcarve", "tools", "library.json"), nil
}

// LoadToolLibrary reads a library from path. A missing file yields an
// empty library with no error.
func LoadToolLibrary(path string) (*ToolLibrary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewToolLibrary(), nil
		}
		return nil, fmt.Errorf("project: read tool library %s: %w", path, err)
	}
	var jlib jsonToolLibrary
	if err := json.Unmarshal(data, &jlib); err != nil {
		return nil, fmt.Errorf("project: parse tool library %s: %w", path, err)
	}
	return &ToolLibrary{Tools: jlib.Tools}, nil
}

// SaveToolLibrary writes lib to path as pretty-printed JSON, creating
// parent directories if needed.
func SaveToolLibrary(path string, lib *ToolLibrary) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("project: create directory %s: %w", dir, err)
	}
	data, err := json.MarshalIndent(jsonToolLibrary{Tools: lib.Tools}, "", "  ")
	if err != nil {
		return fmt.Errorf("project: marshal tool library: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("project: write tool library %s: %w", path, err)
	}
	return nil
}

// AddTool appends tool to the library.
func (l *ToolLibrary) AddTool(tool model.Tool) {
	l.Tools = append(l.Tools, tool)
}

// UpdateTool replaces the tool at index.
func (l *ToolLibrary) UpdateTool(index int, tool model.Tool) error {
	if index < 0 || index >= len(l.Tools) {
		return fmt.Errorf("project: invalid tool index %d", index)
	}
	l.Tools[index] = tool
	return nil
}

// RemoveTool deletes the tool at index.
func (l *ToolLibrary) RemoveTool(index int) error {
	if index < 0 || index >= len(l.Tools) {
		return fmt.Errorf("project: invalid tool index %d", index)
	}
	l.Tools = append(l.Tools[:index], l.Tools[index+1:]...)
	return nil
}
