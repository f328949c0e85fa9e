package engine

import (
	"fmt"

	"github.com/chad-russell/rcarve/internal/geomkernel"
	"github.com/chad-russell/rcarve/internal/model"
)

// GeneratePocket contour-parallel clears a region: islands are subtracted
// from the outer boundary, then the remaining region is repeatedly
// deflated by the tool's stepover distance until it vanishes, emitting
// each deflation's rings as concentric 3D paths at -targetDepth.
func GeneratePocket(outer []model.Point2D, islands [][]model.Point2D, tool model.Tool, targetDepth float64) (Toolpath, error) {
	current := []geomkernel.Polygon{{Outer: outer}}

	if len(islands) > 0 {
		var clip []geomkernel.Polygon
		for _, island := range islands {
			clip = append(clip, geomkernel.Polygon{Outer: island})
		}
		subtracted, err := geomkernel.Difference(current, clip)
		if err != nil {
			return Toolpath{}, fmt.Errorf("engine: pocket island subtraction: %w", err)
		}
		current = subtracted
	}

	if len(current) == 0 {
		return Toolpath{}, fmt.Errorf("engine: pocket region is empty after island subtraction")
	}

	step := tool.Diameter * tool.Stepover
	if step <= 0 {
		return Toolpath{}, fmt.Errorf("engine: pocket stepover distance must be positive")
	}

	var paths []Path3D
	for {
		next, err := geomkernel.Inflate(current, -step)
		if err != nil {
			return Toolpath{}, fmt.Errorf("engine: pocket deflate: %w", err)
		}
		if len(next) == 0 {
			break
		}
		for _, poly := range next {
			paths = append(paths, closeLoop(to3D(poly.Outer, -targetDepth)))
			for _, h := range poly.Holes {
				paths = append(paths, closeLoop(to3D(h, -targetDepth)))
			}
		}
		current = next
	}

	return Toolpath{Paths: paths}, nil
}
