package model

import "math"

// Point2D is a point in the XY plane, in millimetres.
type Point2D struct {
	X, Y float64
}

// Point3D is a machine-space point; Z is negative into the material.
type Point3D struct {
	X, Y, Z float64
}

// BBox is an axis-aligned bounding rectangle.
type BBox struct {
	Min, Max Point2D
}

// Affine is a 2D affine transform in row-major form:
//
//	x' = A*x + B*y + E
//	y' = C*x + D*y + F
type Affine struct {
	A, B, C, D, E, F float64
}

// IdentityAffine is the no-op transform.
var IdentityAffine = Affine{A: 1, D: 1}

// Apply transforms a point by the affine.
func (m Affine) Apply(p Point2D) Point2D {
	return Point2D{
		X: m.A*p.X + m.B*p.Y + m.E,
		Y: m.C*p.X + m.D*p.Y + m.F,
	}
}

// CurveKind discriminates the Curve tagged union.
type CurveKind int

const (
	CurveLine CurveKind = iota
	CurveCircle
	CurveBezPath
)

// PathElemKind discriminates a BezPath element.
type PathElemKind int

const (
	ElemMoveTo PathElemKind = iota
	ElemLineTo
	ElemQuadTo
	ElemCurveTo
	ElemClose
)

// PathElem is one element of a BezPath. Control points are populated
// according to Kind: QuadTo uses C1 only, CurveTo uses C1 and C2, MoveTo
// and LineTo use P only, Close uses neither.
type PathElem struct {
	Kind PathElemKind
	C1   Point2D
	C2   Point2D
	P    Point2D
}

// Curve is a tagged union: exactly one of Line, Circle, or Path fields is
// meaningful, selected by Kind.
type Curve struct {
	Kind CurveKind

	// CurveLine
	P0, P1 Point2D

	// CurveCircle
	Center Point2D
	Radius float64

	// CurveBezPath
	Path []PathElem
}

// NewLineCurve builds a Line curve between two points.
func NewLineCurve(p0, p1 Point2D) Curve {
	return Curve{Kind: CurveLine, P0: p0, P1: p1}
}

// NewCircleCurve builds a Circle curve. radius must be > 0.
func NewCircleCurve(center Point2D, radius float64) Curve {
	return Curve{Kind: CurveCircle, Center: center, Radius: radius}
}

// NewBezPathCurve builds a BezPath curve from its elements.
func NewBezPathCurve(elems []PathElem) Curve {
	return Curve{Kind: CurveBezPath, Path: elems}
}

// IsClosed reports whether the curve is a closed loop. Line is never
// closed, Circle is always closed, and BezPath is closed iff its last
// element is Close.
func (c Curve) IsClosed() bool {
	switch c.Kind {
	case CurveLine:
		return false
	case CurveCircle:
		return true
	case CurveBezPath:
		if len(c.Path) == 0 {
			return false
		}
		return c.Path[len(c.Path)-1].Kind == ElemClose
	default:
		return false
	}
}

// BoundingBox computes the axis-aligned bounding box of the curve. An
// empty BezPath returns a degenerate zero box.
func (c Curve) BoundingBox() BBox {
	switch c.Kind {
	case CurveLine:
		return bboxOf([]Point2D{c.P0, c.P1})
	case CurveCircle:
		return BBox{
			Min: Point2D{X: c.Center.X - c.Radius, Y: c.Center.Y - c.Radius},
			Max: Point2D{X: c.Center.X + c.Radius, Y: c.Center.Y + c.Radius},
		}
	case CurveBezPath:
		var pts []Point2D
		var cur Point2D
		for _, e := range c.Path {
			switch e.Kind {
			case ElemMoveTo, ElemLineTo:
				pts = append(pts, e.P)
				cur = e.P
			case ElemQuadTo:
				pts = append(pts, e.C1, e.P)
				cur = e.P
			case ElemCurveTo:
				pts = append(pts, e.C1, e.C2, e.P)
				cur = e.P
			case ElemClose:
				_ = cur
			}
		}
		return bboxOf(pts)
	default:
		return BBox{}
	}
}

func bboxOf(pts []Point2D) BBox {
	if len(pts) == 0 {
		return BBox{}
	}
	b := BBox{Min: pts[0], Max: pts[0]}
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

// ApplyAffine returns a copy of the curve with m applied to every control
// point.
func (c Curve) ApplyAffine(m Affine) Curve {
	out := c
	switch c.Kind {
	case CurveLine:
		out.P0 = m.Apply(c.P0)
		out.P1 = m.Apply(c.P1)
	case CurveCircle:
		out.Center = m.Apply(c.Center)
		// Radius scales by the length of the transformed x axis,
		// hypot(A, C); this is exact only for uniform scale.
		scale := math.Hypot(m.A, m.C)
		out.Radius = c.Radius * scale
	case CurveBezPath:
		path := make([]PathElem, len(c.Path))
		for i, e := range c.Path {
			ne := e
			switch e.Kind {
			case ElemMoveTo, ElemLineTo:
				ne.P = m.Apply(e.P)
			case ElemQuadTo:
				ne.C1 = m.Apply(e.C1)
				ne.P = m.Apply(e.P)
			case ElemCurveTo:
				ne.C1 = m.Apply(e.C1)
				ne.C2 = m.Apply(e.C2)
				ne.P = m.Apply(e.P)
			}
			path[i] = ne
		}
		out.Path = path
	}
	return out
}

// Flatten approximates the curve by a polyline whose chord error does not
// exceed tolerance. Flattening an empty BezPath returns nil; the caller is
// responsible for treating that as a no-op or an error as appropriate.
func (c Curve) Flatten(tolerance float64) []Point2D {
	switch c.Kind {
	case CurveLine:
		return []Point2D{c.P0, c.P1}
	case CurveCircle:
		return flattenCircle(c.Center, c.Radius, tolerance)
	case CurveBezPath:
		return flattenBezPath(c.Path, tolerance)
	default:
		return nil
	}
}

func flattenCircle(center Point2D, radius, tolerance float64) []Point2D {
	if tolerance <= 0 {
		tolerance = 0.01
	}
	n := int(math.Ceil(2 * math.Pi * radius / tolerance))
	if n < 4 {
		n = 4
	}
	pts := make([]Point2D, n+1)
	for i := 0; i <= n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = Point2D{
			X: center.X + radius*math.Cos(theta),
			Y: center.Y + radius*math.Sin(theta),
		}
	}
	return pts
}

// flattenBezPath samples each segment independently and includes both its
// start and end point, so the endpoint shared by two consecutive segments
// is duplicated across the seam (callers that need a deduped polyline
// collapse adjacent equal points themselves).
func flattenBezPath(elems []PathElem, tolerance float64) []Point2D {
	if len(elems) == 0 {
		return nil
	}
	if tolerance <= 0 {
		tolerance = 0.01
	}
	var pts []Point2D
	var cur Point2D
	var subpathStart Point2D
	for _, e := range elems {
		switch e.Kind {
		case ElemMoveTo:
			cur = e.P
			subpathStart = e.P
		case ElemLineTo:
			pts = append(pts, cur, e.P)
			cur = e.P
		case ElemQuadTo:
			pts = append(pts, sampleQuad(cur, e.C1, e.P, tolerance)...)
			cur = e.P
		case ElemCurveTo:
			pts = append(pts, sampleCubic(cur, e.C1, e.C2, e.P, tolerance)...)
			cur = e.P
		case ElemClose:
			pts = append(pts, cur, subpathStart)
			cur = subpathStart
		}
	}
	return pts
}

// sampleQuad samples a quadratic Bezier at num_samples+1 points evenly
// spaced in t from t=0 through t=1 inclusive, where num_samples comes
// from an arc-length estimate; the segment's own start and end points
// are included.
func sampleQuad(p0, c1, p1 Point2D, tolerance float64) []Point2D {
	arclen := polylineLength([]Point2D{p0, c1, p1}) // coarse upper bound
	n := int(math.Ceil(arclen / tolerance))
	if n < 2 {
		n = 2
	}
	pts := make([]Point2D, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		mt := 1 - t
		x := mt*mt*p0.X + 2*mt*t*c1.X + t*t*p1.X
		y := mt*mt*p0.Y + 2*mt*t*c1.Y + t*t*p1.Y
		pts = append(pts, Point2D{X: x, Y: y})
	}
	return pts
}

// sampleCubic samples a cubic Bezier at num_samples+1 points evenly
// spaced in t from t=0 through t=1 inclusive, where num_samples comes
// from an arc-length estimate; the segment's own start and end points
// are included.
func sampleCubic(p0, c1, c2, p1 Point2D, tolerance float64) []Point2D {
	arclen := polylineLength([]Point2D{p0, c1, c2, p1}) // coarse upper bound
	n := int(math.Ceil(arclen / tolerance))
	if n < 2 {
		n = 2
	}
	pts := make([]Point2D, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		mt := 1 - t
		x := mt*mt*mt*p0.X + 3*mt*mt*t*c1.X + 3*mt*t*t*c2.X + t*t*t*p1.X
		y := mt*mt*mt*p0.Y + 3*mt*mt*t*c1.Y + 3*mt*t*t*c2.Y + t*t*t*p1.Y
		pts = append(pts, Point2D{X: x, Y: y})
	}
	return pts
}

func polylineLength(pts []Point2D) float64 {
	var total float64
	for i := 1; i < len(pts); i++ {
		total += math.Hypot(pts[i].X-pts[i-1].X, pts[i].Y-pts[i-1].Y)
	}
	return total
}
