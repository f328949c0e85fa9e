package project

import "github.com/chad-russell/rcarve/internal/model"

// Resolver adapts a Project and a ToolLibrary to engine.CurveResolver,
// so the orchestrator can resolve curves (with their owning import's
// affine transform), regions, and tools by index.
type Resolver struct {
	project *Project
	tools   *ToolLibrary
}

// NewResolver builds a Resolver over proj's registry/imports and lib's
// tool list.
func NewResolver(proj *Project, lib *ToolLibrary) *Resolver {
	return &Resolver{project: proj, tools: lib}
}

// ResolveCurve looks up a curve by ID and returns the affine transform of
// whichever SVG/DXF import owns it, or the identity transform for
// manually-created curves.
func (r *Resolver) ResolveCurve(id model.CurveID) (model.Curve, model.Affine, bool) {
	curve, ok := r.project.Shapes.GetCurve(id)
	if !ok {
		return model.Curve{}, model.IdentityAffine, false
	}
	for _, imp := range r.project.ImportedSVGs {
		for _, cid := range imp.CurveIDs {
			if cid == id {
				return curve, imp.Transform, true
			}
		}
	}
	return curve, model.IdentityAffine, true
}

// ResolveRegion looks up a region by ID.
func (r *Resolver) ResolveRegion(id model.RegionID) (model.Region, bool) {
	return r.project.Shapes.GetRegion(id)
}

// ResolveTool looks up a tool by index in the library.
func (r *Resolver) ResolveTool(index int) (model.Tool, bool) {
	if index < 0 || index >= len(r.tools.Tools) {
		return model.Tool{}, false
	}
	return r.tools.Tools[index], true
}
