package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chad-russell/rcarve/internal/engine"
	"github.com/chad-russell/rcarve/internal/model"
)

func TestNewProjectStartsWithNoOperations(t *testing.T) {
	proj := New("Test Project", NewStockSpec(200, 100, 18), 1000)
	assert.Equal(t, "Test Project", proj.Meta.Name)
	assert.Equal(t, uint32(FileVersion), proj.Meta.FileVersion)
	assert.Empty(t, proj.Operations)
}

func TestAddOperationStartsDirty(t *testing.T) {
	proj := New("p", NewStockSpec(10, 10, 1), 0)
	idx := proj.AddOperation(model.Operation{Kind: model.OpProfile})

	require.Len(t, proj.OperationStates, 1)
	assert.Equal(t, StatusDirty, proj.OperationStates[idx].Status().Kind)
}

func TestAttachToolpathMarksReady(t *testing.T) {
	proj := New("p", NewStockSpec(10, 10, 1), 0)
	idx := proj.AddOperation(model.Operation{Kind: model.OpProfile})

	proj.AttachToolpath(idx, engine.Toolpath{}, nil, 123)
	st := proj.OperationStates[idx]
	assert.False(t, st.Dirty)
	assert.Equal(t, StatusReady, st.Status().Kind)
}

func TestUpdateOperationMarksDirtyAgain(t *testing.T) {
	proj := New("p", NewStockSpec(10, 10, 1), 0)
	idx := proj.AddOperation(model.Operation{Kind: model.OpProfile})
	proj.AttachToolpath(idx, engine.Toolpath{}, nil, 0)

	require.NoError(t, proj.UpdateOperation(idx, model.Operation{Kind: model.OpPocket}))
	assert.Equal(t, StatusDirty, proj.OperationStates[idx].Status().Kind)
}

func TestUpdateOperationDiscardsStaleArtifact(t *testing.T) {
	proj := New("p", NewStockSpec(10, 10, 1), 0)
	idx := proj.AddOperation(model.Operation{Kind: model.OpProfile})
	proj.AttachToolpath(idx, engine.Toolpath{Paths: []engine.Path3D{{{X: 1}}}}, nil, 0)

	require.NoError(t, proj.UpdateOperation(idx, model.Operation{Kind: model.OpPocket}))

	// A dirty operation must never hand back a stale toolpath: the
	// definition changed, so the cached artifact no longer describes it.
	_, ok := proj.ToolpathForOperation(idx)
	assert.False(t, ok)
	assert.Nil(t, proj.OperationStates[idx].Artifact)
}

func TestRemoveOperationDropsMatchingState(t *testing.T) {
	proj := New("p", NewStockSpec(10, 10, 1), 0)
	proj.AddOperation(model.Operation{Kind: model.OpProfile})
	proj.AddOperation(model.Operation{Kind: model.OpPocket})

	require.NoError(t, proj.RemoveOperation(0))
	assert.Len(t, proj.Operations, 1)
	assert.Len(t, proj.OperationStates, 1)
	assert.Equal(t, model.OpPocket, proj.Operations[0].Kind)
}

func TestRemoveOperationInvalidIndexErrors(t *testing.T) {
	proj := New("p", NewStockSpec(10, 10, 1), 0)
	assert.Error(t, proj.RemoveOperation(0))
}

func TestToolpathForOperationMissingArtifactReturnsFalse(t *testing.T) {
	proj := New("p", NewStockSpec(10, 10, 1), 0)
	proj.AddOperation(model.Operation{Kind: model.OpProfile})

	_, ok := proj.ToolpathForOperation(0)
	assert.False(t, ok)
}

func TestSummaryCountsRegistryContents(t *testing.T) {
	proj := New("p", NewStockSpec(10, 10, 1), 0)
	proj.Shapes.CreateLine(model.Point2D{}, model.Point2D{X: 1})
	proj.AddOperation(model.Operation{Kind: model.OpProfile})

	s := proj.Summary()
	assert.Equal(t, 1, s.OperationCount)
	assert.Equal(t, 1, s.CurveCount)
}
