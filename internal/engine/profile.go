// Package engine implements the three toolpath generators (Profile,
// Pocket, V-carve) and the orchestrator that dispatches project
// operations to them.
package engine

import (
	"errors"
	"fmt"

	"github.com/chad-russell/rcarve/internal/geomkernel"
	"github.com/chad-russell/rcarve/internal/model"
)

// ErrPolygonCollapsed is returned when an offset produces no geometry.
var ErrPolygonCollapsed = errors.New("polygon may have collapsed")

// Path3D is one continuous cut: a sequence of (x, y, z) points.
type Path3D []model.Point3D

// Toolpath is the generator's common output shape: an ordered list of
// independent cut paths.
type Toolpath struct {
	Paths []Path3D
}

// GenerateProfile offsets a single closed 2D polyline by the tool radius
// (signed by cut side) and emits one closed 3D path at -targetDepth.
func GenerateProfile(input []model.Point2D, tool model.Tool, side model.CutSide, targetDepth float64) (Toolpath, error) {
	if len(distinctVertices(input)) < 3 {
		return Toolpath{}, fmt.Errorf("engine: profile input has fewer than three distinct vertices")
	}

	var delta float64
	switch side {
	case model.CutOutside:
		delta = tool.Radius()
	case model.CutInside:
		delta = -tool.Radius()
	case model.CutOnLine:
		delta = 0
	}

	var resultPts []model.Point2D
	if delta == 0 {
		resultPts = geomkernel.Normalize(geomkernel.Polygon{Outer: input}).Outer
	} else {
		offsets, err := geomkernel.Inflate([]geomkernel.Polygon{{Outer: input}}, delta)
		if err != nil {
			return Toolpath{}, fmt.Errorf("engine: %w", err)
		}
		if len(offsets) == 0 {
			return Toolpath{}, fmt.Errorf("engine: %w", ErrPolygonCollapsed)
		}
		resultPts = offsets[0].Outer
		if len(resultPts) == 0 {
			return Toolpath{}, fmt.Errorf("engine: no offset path generated")
		}
	}

	path := closeLoop(to3D(resultPts, -targetDepth))
	return Toolpath{Paths: []Path3D{path}}, nil
}

func distinctVertices(pts []model.Point2D) []model.Point2D {
	out := make([]model.Point2D, 0, len(pts))
	for _, p := range pts {
		dup := false
		for _, q := range out {
			if p.X == q.X && p.Y == q.Y {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}

func to3D(pts []model.Point2D, z float64) Path3D {
	out := make(Path3D, len(pts))
	for i, p := range pts {
		out[i] = model.Point3D{X: p.X, Y: p.Y, Z: z}
	}
	return out
}

// closeLoop appends the first vertex to the end if the path isn't already
// closed.
func closeLoop(path Path3D) Path3D {
	if len(path) == 0 {
		return path
	}
	first, last := path[0], path[len(path)-1]
	if first.X != last.X || first.Y != last.Y || first.Z != last.Z {
		path = append(path, first)
	}
	return path
}
