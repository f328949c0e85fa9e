package engine

import (
	"fmt"
	"math"

	"github.com/chad-russell/rcarve/internal/geomkernel"
	"github.com/chad-russell/rcarve/internal/model"
)

// CarvePolygon is an outer loop plus holes, the input shape for V-carving.
type CarvePolygon struct {
	Outer []model.Point2D
	Holes [][]model.Point2D
}

// skeletonStepMM is the inward-offset increment used to discretize an
// approximate medial axis when no straight-skeleton library is available
// (see DESIGN.md). Smaller steps track the true medial axis more closely
// at the cost of more segments.
const skeletonStepMM = 0.2

// maxSkeletonSteps bounds the inward-offset iteration so a degenerate
// polygon (e.g. one that never fully collapses due to offset rounding)
// cannot loop indefinitely.
const maxSkeletonSteps = 2000

// GenerateVCarve produces variable-depth crease paths along the
// approximate medial axis of each polygon, driven by a V-bit tool, plus
// an optional flat-bottom pocket-boundary pass at maxDepth.
func GenerateVCarve(polygons []CarvePolygon, tool model.Tool, maxDepth *float64) (Toolpath, error) {
	if tool.Type.Kind != model.ToolVBit {
		return Toolpath{}, fmt.Errorf("engine: V-carve requires a V-bit tool, but tool type is %v", tool.Type.Kind)
	}
	if len(polygons) == 0 {
		return Toolpath{}, fmt.Errorf("engine: V-carve requires at least one polygon target")
	}

	halfAngle := tool.Type.AngleDegrees / 2 * math.Pi / 180
	tanA := math.Tan(halfAngle)

	var limit float64
	if maxDepth != nil {
		limit = *maxDepth * tanA
	} else {
		limit = math.MaxFloat64
	}

	var paths []Path3D

	if maxDepth != nil {
		for _, poly := range polygons {
			flat, err := geomkernel.Inflate([]geomkernel.Polygon{{Outer: poly.Outer, Holes: poly.Holes}}, -limit)
			if err != nil {
				return Toolpath{}, fmt.Errorf("engine: vcarve flat-bottom offset: %w", err)
			}
			for _, p := range flat {
				paths = append(paths, closeLoop(to3D(p.Outer, -*maxDepth)))
				for _, h := range p.Holes {
					paths = append(paths, closeLoop(to3D(h, -*maxDepth)))
				}
			}
		}
	}

	for _, poly := range polygons {
		simplified := simplifyCarvePolygon(poly)
		segments := approximateMedialAxis(simplified)
		for _, seg := range segments {
			paths = append(paths, splitSegmentByDepth(seg, simplified, tanA, limit, maxDepth)...)
		}
	}

	if len(paths) == 0 {
		return Toolpath{}, fmt.Errorf("engine: straight skeleton produced no toolpaths. Ensure shapes are valid closed polygons")
	}

	return Toolpath{Paths: paths}, nil
}

// simplifyCarvePolygon removes vertices collinear with their neighbours
// within a 1e-3 triangle-area tolerance, keeping a vertex where the
// direction reverses (dot product of adjacent edge vectors is negative).
func simplifyCarvePolygon(poly CarvePolygon) CarvePolygon {
	return CarvePolygon{
		Outer: simplifyRing(poly.Outer),
		Holes: mapRings(poly.Holes, simplifyRing),
	}
}

func mapRings(rings [][]model.Point2D, f func([]model.Point2D) []model.Point2D) [][]model.Point2D {
	out := make([][]model.Point2D, len(rings))
	for i, r := range rings {
		out[i] = f(r)
	}
	return out
}

func simplifyRing(ring []model.Point2D) []model.Point2D {
	n := len(ring)
	if n < 3 {
		return ring
	}
	var out []model.Point2D
	for i := 0; i < n; i++ {
		prev := ring[(i-1+n)%n]
		cur := ring[i]
		next := ring[(i+1)%n]
		if areCollinear(prev, cur, next) {
			continue
		}
		out = append(out, cur)
	}
	if len(out) < 3 {
		return ring
	}
	return out
}

func areCollinear(a, b, c model.Point2D) bool {
	area := math.Abs((b.X-a.X)*(c.Y-a.Y)-(c.X-a.X)*(b.Y-a.Y)) / 2
	if area > 1e-3 {
		return false
	}
	e1x, e1y := b.X-a.X, b.Y-a.Y
	e2x, e2y := c.X-b.X, c.Y-b.Y
	dot := e1x*e2x + e1y*e2y
	return dot > 0
}

// medialSegment is a polyline segment of the approximate medial axis.
type medialSegment []model.Point2D

// approximateMedialAxis discretizes the medial axis by repeatedly
// inward-offsetting the polygon-with-holes in small steps and linking
// each step's ring points to their nearest point on the previous step's
// ring, producing segments that converge toward the polygon's interior
// as the rings shrink and eventually vanish. See DESIGN.md for the
// rationale: no straight-skeleton library is available in this module's
// dependency set.
func approximateMedialAxis(poly CarvePolygon) []medialSegment {
	var segments []medialSegment
	prevRings := [][]model.Point2D{poly.Outer}
	for _, h := range poly.Holes {
		prevRings = append(prevRings, h)
	}

	current := []geomkernel.Polygon{{Outer: poly.Outer, Holes: poly.Holes}}
	for step := 0; step < maxSkeletonSteps; step++ {
		next, err := geomkernel.Inflate(current, -skeletonStepMM)
		if err != nil || len(next) == 0 {
			break
		}
		var nextRings [][]model.Point2D
		for _, p := range next {
			nextRings = append(nextRings, p.Outer)
			nextRings = append(nextRings, p.Holes...)
		}
		for _, ring := range nextRings {
			owner := nearestRing(ring, prevRings)
			for _, pt := range ring {
				nearest := nearestPoint(pt, owner)
				if dist(pt, nearest) < 1e-9 {
					continue
				}
				segments = append(segments, medialSegment{nearest, pt})
			}
		}
		prevRings = nextRings
		current = next
	}
	return segments
}

func nearestRing(ring []model.Point2D, candidates [][]model.Point2D) []model.Point2D {
	if len(ring) == 0 || len(candidates) == 0 {
		return nil
	}
	probe := ring[0]
	best := candidates[0]
	bestDist := math.Inf(1)
	for _, c := range candidates {
		if len(c) == 0 {
			continue
		}
		if d := dist(probe, nearestPoint(probe, c)); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

func nearestPoint(p model.Point2D, ring []model.Point2D) model.Point2D {
	if len(ring) == 0 {
		return p
	}
	best := ring[0]
	bestDist := dist(p, best)
	for _, q := range ring[1:] {
		if d := dist(p, q); d < bestDist {
			bestDist = d
			best = q
		}
	}
	return best
}

func dist(a, b model.Point2D) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// splitSegmentByDepth walks a medial-axis segment and splits it against
// the depth-limit distance L, per spec: both endpoints shallow emits the
// whole segment; both deep suppresses it; a crossing truncates the path
// at the interpolated boundary point, held at -maxDepth.
func splitSegmentByDepth(seg medialSegment, poly CarvePolygon, tanA, limit float64, maxDepth *float64) []Path3D {
	if len(seg) < 2 {
		return nil
	}
	kernelPoly := geomkernel.Polygon{Outer: poly.Outer, Holes: poly.Holes}

	depths := make([]float64, len(seg))
	for i, v := range seg {
		depths[i] = geomkernel.DistanceToBoundary(v, kernelPoly)
	}

	var paths []Path3D
	var cur Path3D

	flushCur := func() {
		if len(cur) >= 2 {
			paths = append(paths, cur)
		}
		cur = nil
	}

	floorZ := func() float64 {
		if maxDepth != nil {
			return -*maxDepth
		}
		return -limit / tanA
	}

	for i := 0; i < len(seg)-1; i++ {
		p1, p2 := seg[i], seg[i+1]
		d1, d2 := depths[i], depths[i+1]
		z1, z2 := -d1/tanA, -d2/tanA

		shallow1 := d1 <= limit
		shallow2 := d2 <= limit

		switch {
		case shallow1 && shallow2:
			if len(cur) == 0 {
				cur = append(cur, model.Point3D{X: p1.X, Y: p1.Y, Z: z1})
			}
			cur = append(cur, model.Point3D{X: p2.X, Y: p2.Y, Z: z2})
		case !shallow1 && !shallow2:
			flushCur()
		case shallow1 && !shallow2:
			t := (limit - d1) / (d2 - d1)
			bx, by := lerp(p1, p2, t), lerpY(p1, p2, t)
			if len(cur) == 0 {
				cur = append(cur, model.Point3D{X: p1.X, Y: p1.Y, Z: z1})
			}
			cur = append(cur, model.Point3D{X: bx, Y: by, Z: floorZ()})
			flushCur()
		case !shallow1 && shallow2:
			t := (limit - d1) / (d2 - d1)
			bx, by := lerp(p1, p2, t), lerpY(p1, p2, t)
			flushCur()
			cur = append(cur, model.Point3D{X: bx, Y: by, Z: floorZ()})
			cur = append(cur, model.Point3D{X: p2.X, Y: p2.Y, Z: z2})
		}
	}
	flushCur()
	return paths
}

func lerp(a, b model.Point2D, t float64) float64  { return a.X + t*(b.X-a.X) }
func lerpY(a, b model.Point2D, t float64) float64 { return a.Y + t*(b.Y-a.Y) }
