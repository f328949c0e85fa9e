package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/chad-russell/rcarve/internal/geomkernel"
	"github.com/chad-russell/rcarve/internal/model"
)

// dxfSegment is a line segment between two 2D points, used for chaining
// disconnected LINE/ARC entities into closed loops.
type dxfSegment struct {
	start model.Point2D
	end   model.Point2D
}

// arcTessellation is the fixed number of line segments an ARC or an
// LWPOLYLINE bulge is tessellated into. DXF has no Bezier primitive, so
// arcs cannot be preserved losslessly as a curve element the way an SVG
// cubic/quadratic segment can; a fine fixed tessellation stands in for
// the missing exact representation.
const arcTessellation = 64

// chainTolerance is the maximum endpoint gap, in drawing units, for two
// loose LINE/ARC segments to be considered connected.
const chainTolerance = 1e-2

// ImportDXF reads entities from the DXF file at path and ingests them into
// reg, mirroring ImportSVG's shape/curve/batch conventions. LWPOLYLINE
// bulges and loose ARC/LINE chains are tessellated to BezPath LineTo
// sequences (DXF has no native curve primitive to preserve them
// losslessly); CIRCLE entities map directly to the registry's exact
// Circle curve, since that representation already exists in this
// module's data model and needs no approximation.
func ImportDXF(reg *model.ShapeRegistry, path string) (ImportResult, error) {
	var result ImportResult

	drawing, err := dxf.Open(path)
	if err != nil {
		return result, fmt.Errorf("importer: open DXF %s: %w", path, err)
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		return result, fmt.Errorf("importer: DXF %s contains no entities", path)
	}

	type pendingCurve struct {
		curve model.Curve
	}
	var pending []pendingCurve
	var segments []dxfSegment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			path := lwPolylineToBezPath(e)
			if path == nil {
				result.Warnings = append(result.Warnings, "skipped LWPOLYLINE with fewer than 3 vertices")
				continue
			}
			pending = append(pending, pendingCurve{curve: *path})

		case *entity.Circle:
			pending = append(pending, pendingCurve{
				curve: model.NewCircleCurve(
					model.Point2D{X: e.Center[0], Y: e.Center[1]},
					e.Radius,
				),
			})

		case *entity.Arc:
			pts := arcToPoints(e, arcTessellation)
			if len(pts) >= 2 {
				segments = append(segments, pointsToSegments(pts)...)
			}

		case *entity.Line:
			segments = append(segments, dxfSegment{
				start: model.Point2D{X: e.Start[0], Y: e.Start[1]},
				end:   model.Point2D{X: e.End[0], Y: e.End[1]},
			})

		default:
			// Text, dimensions, hatches, blocks, and other entity types are
			// silently skipped; this ingest only produces cuttable outlines.
		}
	}

	for _, loop := range chainDxfSegments(segments, chainTolerance) {
		if len(loop) < 3 {
			continue
		}
		pending = append(pending, pendingCurve{curve: loopToBezPath(loop)})
	}

	if len(pending) == 0 {
		return result, fmt.Errorf("importer: no closed shapes found in DXF %s", path)
	}

	for i, pc := range pending {
		curveID := reg.AddCurve(pc.curve)
		result.Batch.CurveIDs = append(result.Batch.CurveIDs, curveID)

		shapeID := reg.AddShape(model.Shape{
			Label: fmt.Sprintf("DXF Shape %d", i+1),
			Kind:  model.ShapeKindCurve,
			Curve: curveID,
			Source: model.ShapeSource{
				Kind: model.ShapeSourceDxfImport,
				Path: path,
			},
		})
		result.Batch.ShapeIDs = append(result.Batch.ShapeIDs, shapeID)
	}

	return result, nil
}

// lwPolylineToBezPath converts a DXF LWPOLYLINE into a closed BezPath,
// expanding bulged vertices into LineTo-tessellated arcs. Returns nil if
// the polyline has fewer than 3 vertices.
func lwPolylineToBezPath(lw *entity.LwPolyline) *model.Curve {
	if len(lw.Vertices) < 3 {
		return nil
	}

	var pts []model.Point2D
	n := len(lw.Vertices)
	for i := 0; i < n; i++ {
		v := lw.Vertices[i]
		current := model.Point2D{X: v[0], Y: v[1]}

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}

		if math.Abs(bulge) > 1e-9 {
			next := lw.Vertices[(i+1)%n]
			nextPt := model.Point2D{X: next[0], Y: next[1]}
			arcPts := geomkernel.TessellateBulge(current, nextPt, bulge, arcTessellation)
			pts = append(pts, arcPts[:len(arcPts)-1]...)
		} else {
			pts = append(pts, current)
		}
	}

	c := loopToBezPath(pts)
	return &c
}

// loopToBezPath builds a closed BezPath (MoveTo, LineTo..., Close) from a
// sequence of vertices, dropping a duplicate closing vertex if present.
func loopToBezPath(pts []model.Point2D) model.Curve {
	if len(pts) >= 2 {
		first, last := pts[0], pts[len(pts)-1]
		if math.Hypot(first.X-last.X, first.Y-last.Y) < 1e-9 {
			pts = pts[:len(pts)-1]
		}
	}
	elems := make([]model.PathElem, 0, len(pts)+2)
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

// arcToPoints samples a DXF ARC entity into numSegments+1 points, from its
// start angle to its end angle (always counter-clockwise per the DXF
// convention).
func arcToPoints(a *entity.Arc, numSegments int) []model.Point2D {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius
	startRad := a.Angle[0] * math.Pi / 180
	endRad := a.Angle[1] * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}

	pts := make([]model.Point2D, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startRad + t*(endRad-startRad)
		pts[i] = model.Point2D{X: cx + r*math.Cos(angle), Y: cy + r*math.Sin(angle)}
	}
	return pts
}

func pointsToSegments(pts []model.Point2D) []dxfSegment {
	segs := make([]dxfSegment, 0, len(pts)-1)
	for i := 0; i < len(pts)-1; i++ {
		segs = append(segs, dxfSegment{start: pts[i], end: pts[i+1]})
	}
	return segs
}

// chainDxfSegments links loose LINE/ARC segments into closed loops by
// endpoint proximity, exactly as the teacher's chainSegments does,
// ordering the resulting loops by descending area for deterministic
// output.
func chainDxfSegments(segs []dxfSegment, tolerance float64) [][]model.Point2D {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var loops [][]model.Point2D

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []model.Point2D{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]
			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		if len(chain) >= 3 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			chain = chain[:len(chain)-1]
			if len(chain) >= 3 {
				loops = append(loops, chain)
			}
		}
	}

	sort.SliceStable(loops, func(i, j int) bool {
		return math.Abs(geomkernel.SignedArea(loops[i])) > math.Abs(geomkernel.SignedArea(loops[j]))
	})
	return loops
}

func pointsClose(a, b model.Point2D, tolerance float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tolerance
}
