package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chad-russell/rcarve/internal/model"
)

func TestChainDxfSegmentsClosesALoop(t *testing.T) {
	segs := []dxfSegment{
		{start: model.Point2D{X: 0, Y: 0}, end: model.Point2D{X: 10, Y: 0}},
		{start: model.Point2D{X: 10, Y: 0}, end: model.Point2D{X: 10, Y: 10}},
		{start: model.Point2D{X: 10, Y: 10}, end: model.Point2D{X: 0, Y: 10}},
		{start: model.Point2D{X: 0, Y: 10}, end: model.Point2D{X: 0, Y: 0}},
	}
	loops := chainDxfSegments(segs, 1e-2)
	require.Len(t, loops, 1)
	assert.Len(t, loops[0], 4)
}

func TestChainDxfSegmentsOrdersByDescendingArea(t *testing.T) {
	big := []dxfSegment{
		{start: model.Point2D{X: 0, Y: 0}, end: model.Point2D{X: 10, Y: 0}},
		{start: model.Point2D{X: 10, Y: 0}, end: model.Point2D{X: 10, Y: 10}},
		{start: model.Point2D{X: 10, Y: 10}, end: model.Point2D{X: 0, Y: 10}},
		{start: model.Point2D{X: 0, Y: 10}, end: model.Point2D{X: 0, Y: 0}},
	}
	small := []dxfSegment{
		{start: model.Point2D{X: 20, Y: 20}, end: model.Point2D{X: 22, Y: 20}},
		{start: model.Point2D{X: 22, Y: 20}, end: model.Point2D{X: 22, Y: 22}},
		{start: model.Point2D{X: 22, Y: 22}, end: model.Point2D{X: 20, Y: 22}},
		{start: model.Point2D{X: 20, Y: 22}, end: model.Point2D{X: 20, Y: 20}},
	}
	segs := append(append([]dxfSegment{}, small...), big...)
	loops := chainDxfSegments(segs, 1e-2)
	require.Len(t, loops, 2)

	bigArea := 0.0
	for i := range loops[0] {
		j := (i + 1) % len(loops[0])
		bigArea += loops[0][i].X*loops[0][j].Y - loops[0][j].X*loops[0][i].Y
	}
	smallArea := 0.0
	for i := range loops[1] {
		j := (i + 1) % len(loops[1])
		smallArea += loops[1][i].X*loops[1][j].Y - loops[1][j].X*loops[1][i].Y
	}
	assert.Greater(t, abs(bigArea), abs(smallArea))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestChainDxfSegmentsIgnoresOpenChains(t *testing.T) {
	segs := []dxfSegment{
		{start: model.Point2D{X: 0, Y: 0}, end: model.Point2D{X: 10, Y: 0}},
	}
	loops := chainDxfSegments(segs, 1e-2)
	assert.Empty(t, loops)
}

func TestLoopToBezPathDropsDuplicateClosingVertex(t *testing.T) {
	pts := []model.Point2D{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 0},
	}
	curve := loopToBezPath(pts)
	require.Equal(t, model.CurveBezPath, curve.Kind)
	require.Len(t, curve.Path, 4) // MoveTo + 2 LineTo + Close
	assert.Equal(t, model.ElemClose, curve.Path[len(curve.Path)-1].Kind)
}

func TestPointsCloseRespectsTolerance(t *testing.T) {
	a := model.Point2D{X: 0, Y: 0}
	b := model.Point2D{X: 0.005, Y: 0}
	assert.True(t, pointsClose(a, b, 0.01))
	assert.False(t, pointsClose(a, b, 0.001))
}
