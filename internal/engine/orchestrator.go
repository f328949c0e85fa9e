package engine

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/chad-russell/rcarve/internal/geomkernel"
	"github.com/chad-russell/rcarve/internal/model"
)

// FlattenTolerance is the fixed chord-error tolerance the orchestrator
// flattens curves at before dispatching to a generator. Higher fidelity
// is available to direct callers of Curve.Flatten; this is a core
// constant, not user-configurable here.
const FlattenTolerance = 0.25

// DefaultClearanceDepth is substituted, with a warning, when a V-carve
// operation names a clearance tool but no target depth.
const DefaultClearanceDepth = 1.0

// Status is the outcome of generating one operation's toolpath.
type Status int

const (
	StatusReady Status = iota
	StatusDirty
)

// Report is the per-operation outcome of a toolpath generation pass.
type Report struct {
	OperationIndex int
	Status         Status
	Warnings       []string
	Error          string
}

// BatchReport is the result of running the orchestrator over every
// operation in a project. RunID is an opaque, non-sortable correlation
// id for the batch (distinct from the sortable entity IDs used
// elsewhere), useful for tying a group of per-operation reports together
// in a log line or export.
type BatchReport struct {
	RunID   string
	Reports []Report
}

// CurveResolver looks up curves and applies any owning import's affine
// transform. Implementations are expected to wrap a *model.ShapeRegistry
// plus a project's import-transform table.
type CurveResolver interface {
	ResolveCurve(id model.CurveID) (model.Curve, model.Affine, bool)
	ResolveRegion(id model.RegionID) (model.Region, bool)
	ResolveTool(index int) (model.Tool, bool)
}

// PolygonsForOperation reproduces the target-resolution step of
// GenerateToolpathForOperation without dispatching to a generator, for UI
// preview purposes.
func PolygonsForOperation(resolver CurveResolver, op model.Operation) ([][]model.Point2D, error) {
	target := op.Targets
	if op.Kind == model.OpPocket {
		target = op.Target
	}
	polys, err := flattenForGenerator(resolver, target)
	if err != nil {
		return nil, err
	}
	out := make([][]model.Point2D, len(polys))
	for i, p := range polys {
		out[i] = p.Outer
	}
	return out, nil
}

// GenerateToolpathForOperation resolves op's targets, flattens them, and
// dispatches to the matching generator. It returns the toolpath, any
// non-fatal warnings, and an error if the operation could not be
// generated at all.
func GenerateToolpathForOperation(resolver CurveResolver, op model.Operation) (Toolpath, []string, error) {
	tool, ok := resolver.ResolveTool(op.ToolIndex)
	if !ok {
		return Toolpath{}, nil, fmt.Errorf("engine: no tool at index %d", op.ToolIndex)
	}

	switch op.Kind {
	case model.OpProfile:
		polys, err := flattenForGenerator(resolver, op.Targets)
		if err != nil {
			return Toolpath{}, nil, err
		}
		if len(polys) == 0 {
			return Toolpath{}, nil, fmt.Errorf("engine: profile operation has no resolvable target")
		}
		depth := 0.0
		if op.TargetDepth != nil {
			depth = *op.TargetDepth
		}
		tp, err := GenerateProfile(polys[0].Outer, tool, op.CutSide, depth)
		return tp, nil, err

	case model.OpPocket:
		polys, err := flattenForGenerator(resolver, op.Target)
		if err != nil {
			return Toolpath{}, nil, err
		}
		if len(polys) == 0 {
			return Toolpath{}, nil, fmt.Errorf("engine: pocket operation has no resolvable target")
		}
		outer, islands := popLastAsOuter(polys, op.Target)
		depth := 0.0
		if op.TargetDepth != nil {
			depth = *op.TargetDepth
		}
		tp, err := GeneratePocket(outer, islands, tool, depth)
		return tp, nil, err

	case model.OpVCarve:
		polys, err := flattenForGenerator(resolver, op.Targets)
		if err != nil {
			return Toolpath{}, nil, err
		}
		if len(polys) == 0 {
			return Toolpath{}, nil, fmt.Errorf("engine: vcarve operation has no resolvable target")
		}
		carvePolys := make([]CarvePolygon, len(polys))
		for i, p := range polys {
			carvePolys[i] = CarvePolygon{Outer: p.Outer, Holes: p.Holes}
		}

		var warnings []string
		maxDepth := op.TargetDepth
		if maxDepth == nil && op.ClearanceToolIndex != nil {
			d := DefaultClearanceDepth
			maxDepth = &d
			warnings = append(warnings, fmt.Sprintf("no target depth set; defaulting clearance depth to %.1fmm", DefaultClearanceDepth))
		}

		tp, err := GenerateVCarve(carvePolys, tool, maxDepth)
		if err != nil {
			return Toolpath{}, warnings, err
		}

		if op.ClearanceToolIndex != nil && maxDepth != nil {
			clearanceTool, ok := resolver.ResolveTool(*op.ClearanceToolIndex)
			if !ok {
				return Toolpath{}, warnings, fmt.Errorf("engine: no clearance tool at index %d", *op.ClearanceToolIndex)
			}
			limit := *maxDepth * clearanceToolTan(tool)
			for _, poly := range carvePolys {
				inner, innerHoles := inwardOffsetOuter(poly, limit)
				if inner == nil {
					continue
				}
				clearance, err := GeneratePocket(inner, innerHoles, clearanceTool, *maxDepth)
				if err == nil {
					tp.Paths = append(tp.Paths, clearance.Paths...)
				}
			}
		}
		return tp, warnings, nil

	default:
		return Toolpath{}, nil, fmt.Errorf("engine: unknown operation kind %d", op.Kind)
	}
}

// GenerateToolpathsForOperations runs GenerateToolpathForOperation over
// every operation in order, continuing past per-operation failures.
func GenerateToolpathsForOperations(resolver CurveResolver, ops []model.Operation) ([]Toolpath, BatchReport) {
	batch := BatchReport{RunID: uuid.NewString()}
	toolpaths := make([]Toolpath, len(ops))
	for i, op := range ops {
		tp, warnings, err := GenerateToolpathForOperation(resolver, op)
		report := Report{OperationIndex: i, Warnings: warnings}
		if err != nil {
			report.Status = StatusDirty
			report.Error = err.Error()
		} else {
			report.Status = StatusReady
			toolpaths[i] = tp
		}
		batch.Reports = append(batch.Reports, report)
	}
	return toolpaths, batch
}

// flattenedPolygon is an internal shape used between target resolution
// and generator dispatch.
type flattenedPolygon struct {
	Outer []model.Point2D
	Holes [][]model.Point2D
}

// flattenForGenerator resolves an OperationTarget into one polygon per
// curve (for Curves targets) or one polygon with holes (for Region
// targets), flattening at FlattenTolerance and applying each curve's
// owning import transform. Loops with fewer than three vertices after
// closing are discarded.
func flattenForGenerator(resolver CurveResolver, target model.OperationTarget) ([]flattenedPolygon, error) {
	switch target.Kind {
	case model.TargetRegion:
		region, ok := resolver.ResolveRegion(target.Region)
		if !ok {
			return nil, fmt.Errorf("engine: no region %s", target.Region)
		}
		outer, err := flattenCurveClosed(resolver, region.Outer)
		if err != nil {
			return nil, err
		}
		if outer == nil {
			return nil, nil
		}
		var holes [][]model.Point2D
		for _, hid := range region.Holes {
			h, err := flattenCurveClosed(resolver, hid)
			if err != nil {
				return nil, err
			}
			if h != nil {
				holes = append(holes, h)
			}
		}
		return []flattenedPolygon{{Outer: outer, Holes: holes}}, nil

	case model.TargetCurves:
		var polys []flattenedPolygon
		for _, cid := range target.Curves {
			pts, err := flattenCurveClosed(resolver, cid)
			if err != nil {
				return nil, err
			}
			if pts != nil {
				polys = append(polys, flattenedPolygon{Outer: pts})
			}
		}
		return polys, nil

	default:
		return nil, fmt.Errorf("engine: unknown operation target kind %d", target.Kind)
	}
}

func flattenCurveClosed(resolver CurveResolver, id model.CurveID) ([]model.Point2D, error) {
	curve, transform, ok := resolver.ResolveCurve(id)
	if !ok {
		return nil, fmt.Errorf("engine: no curve %s", id)
	}
	transformed := curve.ApplyAffine(transform)
	pts := transformed.Flatten(FlattenTolerance)
	pts = closeLoop2D(pts)
	if len(pts) < 3 {
		return nil, nil
	}
	return pts, nil
}

func closeLoop2D(pts []model.Point2D) []model.Point2D {
	if len(pts) == 0 {
		return pts
	}
	first, last := pts[0], pts[len(pts)-1]
	if first.X != last.X || first.Y != last.Y {
		pts = append(pts, first)
	}
	return pts
}

// popLastAsOuter implements the documented Pocket convention: when the
// target is a Curves list, the last curve is treated as the outer
// boundary and the rest as islands. Region targets pass their outer/holes
// straight through.
func popLastAsOuter(polys []flattenedPolygon, target model.OperationTarget) ([]model.Point2D, [][]model.Point2D) {
	if target.Kind == model.TargetRegion {
		p := polys[0]
		return p.Outer, p.Holes
	}
	last := polys[len(polys)-1]
	var islands [][]model.Point2D
	for _, p := range polys[:len(polys)-1] {
		islands = append(islands, p.Outer)
	}
	return last.Outer, islands
}

func clearanceToolTan(tool model.Tool) float64 {
	halfAngle := tool.Type.AngleDegrees / 2 * math.Pi / 180
	return math.Tan(halfAngle)
}

// inwardOffsetOuter shrinks poly's outer ring and holes inward together by
// limit, returning the first resulting outer loop and its own offset holes
// (or nil if the offset collapses it). Offsetting outer and holes as one
// polygon (rather than the outer alone against poly's original holes)
// matches toolpath_generation.rs's offset_polygon/generate_clearance_toolpath
// pairing.
func inwardOffsetOuter(poly CarvePolygon, limit float64) ([]model.Point2D, [][]model.Point2D) {
	result, err := geomkernel.Inflate([]geomkernel.Polygon{{Outer: poly.Outer, Holes: poly.Holes}}, -limit)
	if err != nil || len(result) == 0 {
		return nil, nil
	}
	return result[0].Outer, result[0].Holes
}
