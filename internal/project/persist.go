package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chad-russell/rcarve/internal/engine"
	"github.com/chad-russell/rcarve/internal/model"
)

type jsonMeta struct {
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	Version         uint32 `json:"version"`
	CreatedAtMS     int64  `json:"created_at_epoch_ms"`
	UpdatedAtMS     int64  `json:"updated_at_epoch_ms"`
	FileVersion     uint32 `json:"file_version"`
}

type jsonStock struct {
	Width     float64     `json:"width"`
	Height    float64     `json:"height"`
	Thickness float64     `json:"thickness"`
	Material  string      `json:"material,omitempty"`
	Origin    *[3]float64 `json:"origin,omitempty"`
}

type jsonSvgImport struct {
	ID           model.ID        `json:"id"`
	Label        string          `json:"label"`
	SourcePath   string          `json:"source_path,omitempty"`
	ShapeIDs     []model.ShapeID `json:"shape_ids"`
	CurveIDs     []model.CurveID `json:"curve_ids"`
	RegionIDs    []model.RegionID `json:"region_ids"`
	ImportedAtMS int64           `json:"imported_at_ms"`
	Transform    model.Affine    `json:"transform"`
}

type jsonPass struct {
	ToolIndex int             `json:"tool_index"`
	Kind      string          `json:"kind"`
	Toolpath  jsonToolpath    `json:"toolpath"`
}

type jsonToolpath struct {
	Paths [][]jsonPoint3 `json:"paths"`
}

type jsonPoint3 struct {
	X, Y, Z float64
}

func (p jsonPoint3) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{p.X, p.Y, p.Z})
}

func (p *jsonPoint3) UnmarshalJSON(data []byte) error {
	var arr [3]float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	p.X, p.Y, p.Z = arr[0], arr[1], arr[2]
	return nil
}

func toJSONToolpath(tp engine.Toolpath) jsonToolpath {
	out := jsonToolpath{Paths: make([][]jsonPoint3, len(tp.Paths))}
	for i, path := range tp.Paths {
		pts := make([]jsonPoint3, len(path))
		for j, v := range path {
			pts[j] = jsonPoint3{X: v.X, Y: v.Y, Z: v.Z}
		}
		out.Paths[i] = pts
	}
	return out
}

func fromJSONToolpath(j jsonToolpath) engine.Toolpath {
	tp := engine.Toolpath{Paths: make([]engine.Path3D, len(j.Paths))}
	for i, pts := range j.Paths {
		path := make(engine.Path3D, len(pts))
		for k, p := range pts {
			path[k] = model.Point3D{X: p.X, Y: p.Y, Z: p.Z}
		}
		tp.Paths[i] = path
	}
	return tp
}

func passKindName(k ToolpathPassKind) string {
	if k == PassClearance {
		return "Clearance"
	}
	return "Finish"
}

func passKindFromName(s string) ToolpathPassKind {
	if s == "Clearance" {
		return PassClearance
	}
	return PassFinish
}

type jsonArtifact struct {
	OperationIndex int      `json:"operation_index"`
	Toolpath       jsonToolpath `json:"toolpath"`
	Passes         []jsonPass   `json:"passes,omitempty"`
	GeneratedAtMS  int64    `json:"generated_at_ms"`
	Warnings       []string `json:"warnings,omitempty"`
	IsValid        bool     `json:"is_valid"`
}

type jsonOperationState struct {
	Dirty    bool          `json:"dirty"`
	Artifact *jsonArtifact `json:"artifact,omitempty"`
}

type jsonProject struct {
	Meta            jsonMeta             `json:"meta"`
	Stock           jsonStock            `json:"stock"`
	Shapes          *model.ShapeRegistry `json:"shapes"`
	ImportedSVGs    []jsonSvgImport      `json:"imported_svgs"`
	Operations      []model.Operation    `json:"operations"`
	OperationStates []jsonOperationState `json:"operation_states"`
	Toolpaths       []jsonToolpath       `json:"toolpaths"`
}

// MarshalJSON renders the project in its pretty-printed wire format
// (§6): meta, stock, shapes, imported_svgs, operations, operation_states,
// toolpaths.
func (p *Project) MarshalJSON() ([]byte, error) {
	jp := jsonProject{
		Meta: jsonMeta{
			Name:        p.Meta.Name,
			Description: p.Meta.Description,
			Version:     p.Meta.Version,
			CreatedAtMS: p.Meta.CreatedAtMS,
			UpdatedAtMS: p.Meta.UpdatedAtMS,
			FileVersion: p.Meta.FileVersion,
		},
		Stock: jsonStock{
			Width: p.Stock.Width, Height: p.Stock.Height, Thickness: p.Stock.Thickness,
			Material: p.Stock.Material, Origin: p.Stock.Origin,
		},
		Shapes:     p.Shapes,
		Operations: p.Operations,
	}
	for _, imp := range p.ImportedSVGs {
		jp.ImportedSVGs = append(jp.ImportedSVGs, jsonSvgImport{
			ID: imp.ID, Label: imp.Label, SourcePath: imp.SourcePath,
			ShapeIDs: imp.ShapeIDs, CurveIDs: imp.CurveIDs, RegionIDs: imp.RegionIDs,
			ImportedAtMS: imp.ImportedAtMS, Transform: imp.Transform,
		})
	}
	for _, st := range p.OperationStates {
		jst := jsonOperationState{Dirty: st.Dirty}
		if st.Artifact != nil {
			a := st.Artifact
			ja := &jsonArtifact{
				OperationIndex: a.OperationIndex,
				Toolpath:       toJSONToolpath(a.Toolpath),
				GeneratedAtMS:  a.GeneratedAtMS,
				Warnings:       a.Warnings,
				IsValid:        a.IsValid,
			}
			for _, pass := range a.Passes {
				ja.Passes = append(ja.Passes, jsonPass{
					ToolIndex: pass.ToolIndex,
					Kind:      passKindName(pass.Kind),
					Toolpath:  toJSONToolpath(pass.Toolpath),
				})
			}
			jst.Artifact = ja
		}
		jp.OperationStates = append(jp.OperationStates, jst)
	}

	// toolpaths mirrors every ready operation's cached artifact, in
	// operation order; it is derived from operation_states rather than
	// stored independently, so there is nothing to desynchronize.
	for _, st := range p.OperationStates {
		if !st.Dirty && st.Artifact != nil && st.Artifact.IsValid {
			jp.Toolpaths = append(jp.Toolpaths, toJSONToolpath(st.Artifact.Toolpath))
		}
	}
	return json.Marshal(jp)
}

// UnmarshalJSON parses a project from its wire format. operation_states
// defaults to one dirty entry per operation when absent from the input.
func (p *Project) UnmarshalJSON(data []byte) error {
	var jp jsonProject
	if err := json.Unmarshal(data, &jp); err != nil {
		return err
	}
	p.Meta = Meta{
		Name: jp.Meta.Name, Description: jp.Meta.Description, Version: jp.Meta.Version,
		CreatedAtMS: jp.Meta.CreatedAtMS, UpdatedAtMS: jp.Meta.UpdatedAtMS, FileVersion: jp.Meta.FileVersion,
	}
	p.Stock = StockSpec{
		Width: jp.Stock.Width, Height: jp.Stock.Height, Thickness: jp.Stock.Thickness,
		Material: jp.Stock.Material, Origin: jp.Stock.Origin,
	}
	if jp.Shapes != nil {
		p.Shapes = jp.Shapes
	} else {
		p.Shapes = model.NewShapeRegistry()
	}
	for _, imp := range jp.ImportedSVGs {
		p.ImportedSVGs = append(p.ImportedSVGs, SvgImport{
			ID: imp.ID, Label: imp.Label, SourcePath: imp.SourcePath,
			ShapeIDs: imp.ShapeIDs, CurveIDs: imp.CurveIDs, RegionIDs: imp.RegionIDs,
			ImportedAtMS: imp.ImportedAtMS, Transform: imp.Transform,
		})
	}
	p.Operations = jp.Operations

	// jp.Toolpaths is read but not stored separately: operation_states is
	// the canonical source and MarshalJSON regenerates toolpaths from it.
	if jp.OperationStates == nil {
		p.EnsureOperationStatesLen(len(p.Operations))
		return nil
	}
	p.OperationStates = nil
	for _, jst := range jp.OperationStates {
		st := OperationState{Dirty: jst.Dirty}
		if jst.Artifact != nil {
			a := jst.Artifact
			artifact := &ToolpathArtifact{
				OperationIndex: a.OperationIndex,
				Toolpath:       fromJSONToolpath(a.Toolpath),
				GeneratedAtMS:  a.GeneratedAtMS,
				Warnings:       a.Warnings,
				IsValid:        a.IsValid,
			}
			for _, jpass := range a.Passes {
				artifact.Passes = append(artifact.Passes, ToolpathPass{
					ToolIndex: jpass.ToolIndex,
					Kind:      passKindFromName(jpass.Kind),
					Toolpath:  fromJSONToolpath(jpass.Toolpath),
				})
			}
			st.Artifact = artifact
		}
		p.OperationStates = append(p.OperationStates, st)
	}
	return nil
}

// Save persists the project to path as pretty-printed JSON, creating
// parent directories if needed.
func (p *Project) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("project: create directory %s: %w", dir, err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("project: marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("project: write %s: %w", path, err)
	}
	return nil
}

// Load reads a project from path.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("project: read %s: %w", path, err)
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("project: parse %s: %w", path, err)
	}
	return &p, nil
}
