// Package importer converts external vector formats (an abstract SVG
// path-segment visitor, and DXF files) into registry curves and shapes.
// Actual XML/CSS parsing is an external collaborator; this package only
// consumes an already-valid segment stream.
package importer

import (
	"fmt"

	"github.com/chad-russell/rcarve/internal/model"
)

// ImportResult holds the outcome of one ingest call.
type ImportResult struct {
	Batch    model.ImportedBatch
	Warnings []string
}

// PathVisitor receives the segments of one vector path, in order, ending
// with Close iff the path is closed. ImportSVG replays each SourcePath
// once onto a fresh visitor through its Build callback.
type PathVisitor interface {
	MoveTo(p model.Point2D)
	LineTo(p model.Point2D)
	QuadTo(c, p model.Point2D)
	CubicTo(c1, c2, p model.Point2D)
	Close()
}

// pathCollector implements PathVisitor by accumulating PathElems.
type pathCollector struct {
	elems []model.PathElem
}

func (c *pathCollector) MoveTo(p model.Point2D) {
	c.elems = append(c.elems, model.PathElem{Kind: model.ElemMoveTo, P: p})
}
func (c *pathCollector) LineTo(p model.Point2D) {
	c.elems = append(c.elems, model.PathElem{Kind: model.ElemLineTo, P: p})
}
func (c *pathCollector) QuadTo(c1, p model.Point2D) {
	c.elems = append(c.elems, model.PathElem{Kind: model.ElemQuadTo, C1: c1, P: p})
}
func (c *pathCollector) CubicTo(c1, c2, p model.Point2D) {
	c.elems = append(c.elems, model.PathElem{Kind: model.ElemCurveTo, C1: c1, C2: c2, P: p})
}
func (c *pathCollector) Close() {
	c.elems = append(c.elems, model.PathElem{Kind: model.ElemClose})
}

// SourcePath is one path from a parsed vector tree: a node id/label (used
// as the Shape's label, or "" to get a synthetic "Path N"), the layer
// name it belongs to (if any), and a callback that replays the path's
// segments onto a PathVisitor.
type SourcePath struct {
	NodeID string
	Layer  string
	Build  func(v PathVisitor)
}

// ImportSVG ingests a sequence of pre-parsed vector paths into reg,
// creating one BezPath curve and one Shape per path. IDs are collected as
// they are created (not by diffing the registry afterward), so the
// returned batch is deterministic regardless of map iteration order.
func ImportSVG(reg *model.ShapeRegistry, sourcePath string, paths []SourcePath) ImportResult {
	var result ImportResult
	for i, sp := range paths {
		collector := &pathCollector{}
		sp.Build(collector)
		if len(collector.elems) == 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("skipped empty path %d", i))
			continue
		}

		curveID := reg.AddCurve(model.NewBezPathCurve(collector.elems))
		result.Batch.CurveIDs = append(result.Batch.CurveIDs, curveID)

		label := sp.NodeID
		if label == "" {
			label = fmt.Sprintf("Path %d", i+1)
		}

		shapeID := reg.AddShape(model.Shape{
			Label: label,
			Kind:  model.ShapeKindCurve,
			Curve: curveID,
			Source: model.ShapeSource{
				Kind:      model.ShapeSourceSvgImport,
				Path:      sourcePath,
				LayerName: sp.Layer,
			},
		})
		result.Batch.ShapeIDs = append(result.Batch.ShapeIDs, shapeID)
	}
	return result
}
