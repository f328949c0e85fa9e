package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chad-russell/rcarve/internal/engine"
	"github.com/chad-russell/rcarve/internal/model"
	"github.com/chad-russell/rcarve/internal/project"
)

// A generation failure must leave the operation's prior state untouched:
// still dirty, and with whatever artifact (or lack of one) it had before.
func TestRunGenerateLeavesStateUntouchedOnError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	path := filepath.Join(dir, "proj.json")

	proj := project.New("p", project.NewStockSpec(100, 100, 10), 0)
	curveID := proj.Shapes.CreateLine(model.Point2D{}, model.Point2D{X: 1})
	// ToolIndex 0 resolves against an empty tool library (no tools added),
	// so generation fails with "no tool at index 0".
	proj.AddOperation(model.Operation{
		Kind:    model.OpProfile,
		Targets: model.CurvesTarget(curveID),
	})
	require.NoError(t, proj.Save(path))

	require.NoError(t, runGenerate([]string{path}))

	loaded, err := project.Load(path)
	require.NoError(t, err)
	require.Len(t, loaded.OperationStates, 1)
	assert.True(t, loaded.OperationStates[0].Dirty)
	assert.Nil(t, loaded.OperationStates[0].Artifact)
}

func TestRunGenerateKeepsPriorArtifactWhenRegenerationFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	path := filepath.Join(dir, "proj.json")

	proj := project.New("p", project.NewStockSpec(100, 100, 10), 0)
	curveID := proj.Shapes.CreateLine(model.Point2D{}, model.Point2D{X: 1})
	idx := proj.AddOperation(model.Operation{
		Kind:    model.OpProfile,
		Targets: model.CurvesTarget(curveID),
	})
	prior := engine.Toolpath{Paths: []engine.Path3D{{{X: 1, Y: 1, Z: -1}}}}
	proj.AttachToolpath(idx, prior, nil, 0)
	// MarkOperationDirty would also discard the artifact, so only the dirty
	// flag is set here: a still-cached prior result alongside a dirty flag
	// is the state runGenerate must not disturb on a failed regeneration
	// attempt.
	proj.OperationStates[idx].Dirty = true

	require.NoError(t, proj.Save(path))

	require.NoError(t, runGenerate([]string{path}))

	loaded, err := project.Load(path)
	require.NoError(t, err)
	require.Len(t, loaded.OperationStates, 1)
	assert.True(t, loaded.OperationStates[0].Dirty)
	require.NotNil(t, loaded.OperationStates[0].Artifact)
	assert.Equal(t, prior.Paths, loaded.OperationStates[0].Artifact.Toolpath.Paths)
}
