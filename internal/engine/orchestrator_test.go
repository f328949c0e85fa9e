package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chad-russell/rcarve/internal/model"
)

// inwardOffsetOuter must offset holes along with the outer ring (not leave
// them at their original, un-offset position) so the returned inner polygon
// stays topologically consistent with its own offset outer boundary.
func TestInwardOffsetOuterOffsetsHolesToo(t *testing.T) {
	poly := CarvePolygon{
		Outer: square(20),
		Holes: [][]model.Point2D{{{X: 5, Y: 5}, {X: 15, Y: 5}, {X: 15, Y: 15}, {X: 5, Y: 15}}}, // (5,5)-(15,15), interior hole
	}

	outer, holes := inwardOffsetOuter(poly, 1)
	require.NotNil(t, outer)
	require.Len(t, holes, 1)

	outerBox := bbox(outer)
	assert.InDelta(t, 1, outerBox.Min.X, 0.1)
	assert.InDelta(t, 19, outerBox.Max.X, 0.1)

	// The hole must have grown outward by the same offset (erosion of the
	// outer+hole region shrinks the outer ring inward and grows the hole),
	// not stayed at its original (5,5)-(15,15) footprint.
	holeBox := bbox(holes[0])
	assert.InDelta(t, 4, holeBox.Min.X, 0.1)
	assert.InDelta(t, 16, holeBox.Max.X, 0.1)
}

func bbox(pts []model.Point2D) model.BBox {
	b := model.BBox{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		if p.X < b.Min.X {
			b.Min.X = p.X
		}
		if p.Y < b.Min.Y {
			b.Min.Y = p.Y
		}
		if p.X > b.Max.X {
			b.Max.X = p.X
		}
		if p.Y > b.Max.Y {
			b.Max.Y = p.Y
		}
	}
	return b
}

// fakeResolver is a minimal CurveResolver backed by in-memory maps, enough
// to drive GenerateToolpathForOperation without a project.
type fakeResolver struct {
	curves  map[model.CurveID]model.Curve
	regions map[model.RegionID]model.Region
	tools   map[int]model.Tool
}

func (f *fakeResolver) ResolveCurve(id model.CurveID) (model.Curve, model.Affine, bool) {
	c, ok := f.curves[id]
	return c, model.IdentityAffine, ok
}

func (f *fakeResolver) ResolveRegion(id model.RegionID) (model.Region, bool) {
	r, ok := f.regions[id]
	return r, ok
}

func (f *fakeResolver) ResolveTool(index int) (model.Tool, bool) {
	t, ok := f.tools[index]
	return t, ok
}

func bezSquare(side float64) model.Curve {
	elems := make([]model.PathElem, 0, 5)
	pts := square(side)
	for i, p := range pts {
		if i == 0 {
			elems = append(elems, model.PathElem{Kind: model.ElemMoveTo, P: p})
		} else {
			elems = append(elems, model.PathElem{Kind: model.ElemLineTo, P: p})
		}
	}
	elems = append(elems, model.PathElem{Kind: model.ElemClose})
	return model.NewBezPathCurve(elems)
}

// A V-carve operation with a clearance tool must generate clearance pocket
// paths in addition to the carve paths, exercising the ClearanceToolIndex
// branch end to end.
func TestGenerateToolpathForOperationVCarveClearancePass(t *testing.T) {
	outerID := model.NewCurveID()
	resolver := &fakeResolver{
		curves: map[model.CurveID]model.Curve{
			outerID: bezSquare(20),
		},
		regions: map[model.RegionID]model.Region{},
		tools: map[int]model.Tool{
			0: vbit(60),
			1: endmill(3),
		},
	}

	clearanceIdx := 1
	depth := 5.0
	op := model.Operation{
		Kind:               model.OpVCarve,
		ToolIndex:          0,
		Targets:            model.CurvesTarget(outerID),
		TargetDepth:        &depth,
		ClearanceToolIndex: &clearanceIdx,
	}

	withClearance, _, err := GenerateToolpathForOperation(resolver, op)
	require.NoError(t, err)

	op.ClearanceToolIndex = nil
	withoutClearance, _, err := GenerateToolpathForOperation(resolver, op)
	require.NoError(t, err)

	assert.Greater(t, len(withClearance.Paths), len(withoutClearance.Paths))
}
