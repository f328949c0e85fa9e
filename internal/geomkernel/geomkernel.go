// Package geomkernel wraps github.com/go-clipper/clipper2's polygon
// offset and boolean kernel with the millimetre-space polyline types used
// throughout this module, plus the polyline-preparation, hole/outer
// reassignment, and bulge-tessellation helpers the toolpath generators
// depend on.
package geomkernel

import (
	"fmt"
	"math"
	"sort"

	clipper "github.com/go-clipper/clipper2"

	"github.com/chad-russell/rcarve/internal/model"
)

// scale maps millimetre-space float coordinates onto Clipper2's internal
// int64 lattice. 1e4 preserves sub-micron precision for the magnitudes
// (tens to low-thousands of millimetres) this module's geometry uses.
const scale = 1e4

// Polygon is a polyline-with-holes in millimetre space. Outer is expected
// CCW and each hole CW by the time it reaches the kernel; Normalize
// enforces this.
type Polygon struct {
	Outer []model.Point2D
	Holes [][]model.Point2D
}

func toClipperPath(pts []model.Point2D) clipper.Path64 {
	path := make(clipper.Path64, len(pts))
	for i, p := range pts {
		path[i] = clipper.Point64{X: int64(math.Round(p.X * scale)), Y: int64(math.Round(p.Y * scale))}
	}
	return path
}

func fromClipperPath(path clipper.Path64) []model.Point2D {
	pts := make([]model.Point2D, len(path))
	for i, p := range path {
		pts[i] = model.Point2D{X: float64(p.X) / scale, Y: float64(p.Y) / scale}
	}
	return pts
}

// SignedArea computes the signed area via the shoelace formula: positive
// for CCW, negative for CW.
func SignedArea(pts []model.Point2D) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return area / 2
}

// Normalize drops a duplicate closing vertex, collapses consecutive
// duplicates within 1e-9, and enforces orientation: CCW outer, CW holes.
func Normalize(p Polygon) Polygon {
	out := Polygon{
		Outer: normalizeLoop(p.Outer, true),
	}
	for _, h := range p.Holes {
		out.Holes = append(out.Holes, normalizeLoop(h, false))
	}
	return out
}

func normalizeLoop(pts []model.Point2D, ccw bool) []model.Point2D {
	pts = dedupClosing(pts)
	pts = dedupConsecutive(pts, 1e-9)
	area := SignedArea(pts)
	if ccw && area < 0 {
		pts = reversed(pts)
	} else if !ccw && area > 0 {
		pts = reversed(pts)
	}
	return pts
}

func dedupClosing(pts []model.Point2D) []model.Point2D {
	if len(pts) < 2 {
		return pts
	}
	first, last := pts[0], pts[len(pts)-1]
	if math.Hypot(first.X-last.X, first.Y-last.Y) < 1e-9 {
		return pts[:len(pts)-1]
	}
	return pts
}

func dedupConsecutive(pts []model.Point2D, eps float64) []model.Point2D {
	if len(pts) == 0 {
		return pts
	}
	out := make([]model.Point2D, 0, len(pts))
	out = append(out, pts[0])
	for _, p := range pts[1:] {
		last := out[len(out)-1]
		if math.Hypot(p.X-last.X, p.Y-last.Y) >= eps {
			out = append(out, p)
		}
	}
	return out
}

func reversed(pts []model.Point2D) []model.Point2D {
	out := make([]model.Point2D, len(pts))
	for i, p := range pts {
		out[len(out)-1-i] = p
	}
	return out
}

// Inflate offsets a set of polygons by delta (positive grows, negative
// shrinks) using round joins and closed-polygon ends, and reassigns the
// resulting loops into outer/hole polygons by signed area and point-in-
// polygon containment.
func Inflate(polys []Polygon, delta float64) ([]Polygon, error) {
	var subjects clipper.Paths64
	for _, p := range polys {
		n := Normalize(p)
		subjects = append(subjects, toClipperPath(n.Outer))
		for _, h := range n.Holes {
			subjects = append(subjects, toClipperPath(h))
		}
	}
	if len(subjects) == 0 {
		return nil, nil
	}

	co := clipper.NewClipperOffset(2.0, 0.25)
	co.AddPaths(subjects, clipper.JoinRound, clipper.EndPolygon)
	result, err := co.Execute(delta * scale)
	if err != nil {
		return nil, fmt.Errorf("geomkernel: offset failed: %w", err)
	}
	return reassemble(result), nil
}

// Difference subtracts clip polygons from subject polygons via a boolean
// difference (non-zero fill rule), reassigning the resulting loops into
// outer/hole polygons.
func Difference(subject, clip []Polygon) ([]Polygon, error) {
	subjectPaths := polysToPaths(subject)
	clipPaths := polysToPaths(clip)
	if len(subjectPaths) == 0 {
		return nil, nil
	}
	result, err := clipper.Difference(subjectPaths, clipPaths, clipper.FillNonZero)
	if err != nil {
		return nil, fmt.Errorf("geomkernel: difference failed: %w", err)
	}
	return reassemble(result), nil
}

func polysToPaths(polys []Polygon) clipper.Paths64 {
	var paths clipper.Paths64
	for _, p := range polys {
		n := Normalize(p)
		paths = append(paths, toClipperPath(n.Outer))
		for _, h := range n.Holes {
			paths = append(paths, toClipperPath(h))
		}
	}
	return paths
}

// reassemble classifies raw result loops by signed area (positive outer,
// negative hole) and assigns each hole to the first outer that strictly
// contains one of its vertices, per a ray-cast point-in-polygon test.
func reassemble(paths clipper.Paths64) []Polygon {
	type loop struct {
		pts  []model.Point2D
		area float64
	}
	var loops []loop
	for _, path := range paths {
		pts := fromClipperPath(path)
		if len(pts) < 3 {
			continue
		}
		loops = append(loops, loop{pts: pts, area: SignedArea(pts)})
	}

	var outers []*Polygon
	var holes [][]model.Point2D
	for _, l := range loops {
		if l.area >= 0 {
			outers = append(outers, &Polygon{Outer: l.pts})
		} else {
			holes = append(holes, l.pts)
		}
	}

	for _, h := range holes {
		owner := findContainingOuter(outers, h)
		if owner != nil {
			owner.Holes = append(owner.Holes, h)
		}
		// A hole with no containing outer (offset degeneracy) is dropped
		// silently, matching the "collapses vanish silently" rule.
	}

	out := make([]Polygon, len(outers))
	for i, o := range outers {
		out[i] = *o
	}
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(SignedArea(out[i].Outer)) > math.Abs(SignedArea(out[j].Outer))
	})
	return out
}

func findContainingOuter(outers []*Polygon, hole []model.Point2D) *Polygon {
	if len(hole) == 0 {
		return nil
	}
	probe := hole[0]
	for _, o := range outers {
		if PointInPolygon(probe, o.Outer) {
			return o
		}
	}
	return nil
}

// PointInPolygon is a standard even-odd ray-cast test against a closed
// polyline.
func PointInPolygon(p model.Point2D, poly []model.Point2D) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := poly[i], poly[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			xIntersect := (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if p.X < xIntersect {
				inside = !inside
			}
		}
	}
	return inside
}

// DistanceToBoundary returns the minimum Euclidean distance from p to the
// outer ring and every hole ring of poly, treating each ring as a closed
// polyline of segments.
func DistanceToBoundary(p model.Point2D, poly Polygon) float64 {
	best := distanceToRing(p, poly.Outer)
	for _, h := range poly.Holes {
		if d := distanceToRing(p, h); d < best {
			best = d
		}
	}
	return best
}

func distanceToRing(p model.Point2D, ring []model.Point2D) float64 {
	if len(ring) == 0 {
		return math.Inf(1)
	}
	best := math.Inf(1)
	n := len(ring)
	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]
		if d := distanceToSegment(p, a, b); d < best {
			best = d
		}
	}
	return best
}

func distanceToSegment(p, a, b model.Point2D) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq < 1e-18 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	projX := a.X + t*dx
	projY := a.Y + t*dy
	return math.Hypot(p.X-projX, p.Y-projY)
}

// TessellateBulge expands a single bulge-encoded arc (DXF/polyline
// convention: bulge is the tangent of a quarter of the included angle)
// between p1 and p2 into numSegments+1 polyline points, inclusive of both
// endpoints, via the midpoint/sagitta construction.
func TessellateBulge(p1, p2 model.Point2D, bulge float64, numSegments int) []model.Point2D {
	if math.Abs(bulge) < 1e-12 {
		return []model.Point2D{p1, p2}
	}
	mx, my := (p1.X+p2.X)/2, (p1.Y+p2.Y)/2
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	chord := math.Hypot(dx, dy)
	if chord < 1e-12 {
		return []model.Point2D{p1, p2}
	}
	sagitta := math.Abs(bulge) * chord / 2
	radius := (chord*chord/(4*sagitta) + sagitta) / 2

	perpX, perpY := -dy/chord, dx/chord
	dist := radius - sagitta
	if bulge < 0 {
		perpX, perpY = -perpX, -perpY
	}
	cx, cy := mx+perpX*dist, my+perpY*dist

	startAngle := math.Atan2(p1.Y-cy, p1.X-cx)
	endAngle := math.Atan2(p2.Y-cy, p2.X-cx)
	if bulge < 0 {
		if endAngle > startAngle {
			endAngle -= 2 * math.Pi
		}
	} else {
		if endAngle < startAngle {
			endAngle += 2 * math.Pi
		}
	}

	if numSegments < 1 {
		numSegments = 1
	}
	pts := make([]model.Point2D, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startAngle + t*(endAngle-startAngle)
		pts[i] = model.Point2D{X: cx + radius*math.Cos(angle), Y: cy + radius*math.Sin(angle)}
	}
	return pts
}
