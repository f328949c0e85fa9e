package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chad-russell/rcarve/internal/model"
)

func square(side float64) []model.Point2D {
	return []model.Point2D{
		{X: 0, Y: 0},
		{X: side, Y: 0},
		{X: side, Y: side},
		{X: 0, Y: side},
	}
}

func endmill(diameter float64) model.Tool {
	return model.Tool{
		Name:      "test endmill",
		Diameter:  diameter,
		Stepover:  0.4,
		PassDepth: 3,
		Type:      model.ToolType{Kind: model.ToolEndmill, Diameter: diameter},
	}
}

func vbit(angle float64) model.Tool {
	return model.Tool{
		Name:     "test vbit",
		Diameter: 6,
		Stepover: 1,
		Type:     model.ToolType{Kind: model.ToolVBit, AngleDegrees: angle},
	}
}

// Scenario 1: profile outside a 100mm square with a 6mm endmill offsets
// outward by the tool radius.
func TestGenerateProfileOutsideOffsetsOutward(t *testing.T) {
	tp, err := GenerateProfile(square(100), endmill(6), model.CutOutside, 5)
	require.NoError(t, err)
	require.Len(t, tp.Paths, 1)

	for _, p := range tp.Paths {
		for _, pt := range p {
			assert.InDelta(t, -5, pt.Z, 1e-9)
		}
	}

	var maxX float64
	for _, pt := range tp.Paths[0] {
		if pt.X > maxX {
			maxX = pt.X
		}
	}
	assert.Greater(t, maxX, 100.0)
}

// Scenario 2: profile inside the same square offsets inward.
func TestGenerateProfileInsideOffsetsInward(t *testing.T) {
	tp, err := GenerateProfile(square(100), endmill(6), model.CutInside, 5)
	require.NoError(t, err)
	require.Len(t, tp.Paths, 1)

	var maxX float64
	for _, pt := range tp.Paths[0] {
		if pt.X > maxX {
			maxX = pt.X
		}
	}
	assert.Less(t, maxX, 100.0)
}

func TestGenerateProfileRejectsDegenerateInput(t *testing.T) {
	_, err := GenerateProfile([]model.Point2D{{X: 0, Y: 0}, {X: 1, Y: 0}}, endmill(6), model.CutOutside, 5)
	assert.Error(t, err)
}

// Scenario 3: pocketing a square with no island produces at least one
// concentric ring.
func TestGeneratePocketNoIsland(t *testing.T) {
	tp, err := GeneratePocket(square(100), nil, endmill(6), 5)
	require.NoError(t, err)
	assert.NotEmpty(t, tp.Paths)
}

// Scenario 4: pocketing with an island subtracts it before deflating.
func TestGeneratePocketWithIsland(t *testing.T) {
	island := []model.Point2D{
		{X: 30, Y: 30}, {X: 70, Y: 30}, {X: 70, Y: 70}, {X: 30, Y: 70},
	}
	tp, err := GeneratePocket(square(100), [][]model.Point2D{island}, endmill(6), 5)
	require.NoError(t, err)
	assert.NotEmpty(t, tp.Paths)

	withoutIsland, err := GeneratePocket(square(100), nil, endmill(6), 5)
	require.NoError(t, err)
	assert.NotEqual(t, len(withoutIsland.Paths), 0)
}

func TestGeneratePocketEmptyAfterSubtractionErrors(t *testing.T) {
	_, err := GeneratePocket(square(10), [][]model.Point2D{square(20)}, endmill(6), 5)
	assert.Error(t, err)
}

// Scenario 5: V-carving an outline with a 60-degree V-bit and max depth 5
// produces paths whose depth never exceeds the max.
func TestGenerateVCarveRespectsMaxDepth(t *testing.T) {
	outline := []model.Point2D{
		{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 8}, {X: 12, Y: 8},
		{X: 12, Y: 20}, {X: 8, Y: 20}, {X: 8, Y: 8}, {X: 0, Y: 8},
	}
	maxDepth := 5.0
	tp, err := GenerateVCarve([]CarvePolygon{{Outer: outline}}, vbit(60), &maxDepth)
	require.NoError(t, err)
	require.NotEmpty(t, tp.Paths)

	for _, p := range tp.Paths {
		for _, pt := range p {
			assert.LessOrEqual(t, pt.Z, 1e-9)
			assert.GreaterOrEqual(t, pt.Z, -maxDepth-1e-6)
		}
	}
}

// Scenario 6: V-carving with an endmill (not a V-bit) is rejected.
func TestGenerateVCarveRequiresVBit(t *testing.T) {
	outline := square(20)
	_, err := GenerateVCarve([]CarvePolygon{{Outer: outline}}, endmill(6), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "V-bit")
}
