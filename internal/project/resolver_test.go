package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chad-russell/rcarve/internal/model"
)

func TestResolveCurveUsesOwningImportTransform(t *testing.T) {
	proj := New("p", NewStockSpec(10, 10, 1), 0)
	curveID := proj.Shapes.CreateLine(model.Point2D{}, model.Point2D{X: 1})

	transform := model.Affine{A: 2, D: 2, E: 5}
	proj.ImportedSVGs = append(proj.ImportedSVGs, NewSvgImport("import", "a.svg",
		model.ImportedBatch{CurveIDs: []model.CurveID{curveID}}, transform, 0))

	resolver := NewResolver(proj, NewToolLibrary())
	_, tr, ok := resolver.ResolveCurve(curveID)
	require.True(t, ok)
	assert.Equal(t, transform, tr)
}

func TestResolveCurveManualUsesIdentityTransform(t *testing.T) {
	proj := New("p", NewStockSpec(10, 10, 1), 0)
	curveID := proj.Shapes.CreateLine(model.Point2D{}, model.Point2D{X: 1})

	resolver := NewResolver(proj, NewToolLibrary())
	_, tr, ok := resolver.ResolveCurve(curveID)
	require.True(t, ok)
	assert.Equal(t, model.IdentityAffine, tr)
}

func TestResolveToolOutOfRangeReturnsFalse(t *testing.T) {
	proj := New("p", NewStockSpec(10, 10, 1), 0)
	resolver := NewResolver(proj, NewToolLibrary())
	_, ok := resolver.ResolveTool(0)
	assert.False(t, ok)
}

func TestResolveToolInRange(t *testing.T) {
	proj := New("p", NewStockSpec(10, 10, 1), 0)
	lib := NewToolLibrary()
	lib.AddTool(model.Tool{Name: "6mm"})
	resolver := NewResolver(proj, lib)

	tool, ok := resolver.ResolveTool(0)
	require.True(t, ok)
	assert.Equal(t, "6mm", tool.Name)
}
