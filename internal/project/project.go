// Package project implements the project model: stock spec, operations,
// per-operation dirty/ready state, cached toolpath artifacts, import
// metadata, and JSON persistence.
package project

import (
	"fmt"
	"time"

	"github.com/chad-russell/rcarve/internal/engine"
	"github.com/chad-russell/rcarve/internal/model"
)

// FileVersion is the current project file format version, carried in
// ProjectMeta for forward-compatible deserialization.
const FileVersion = 1

// StockSpec describes the raw material an operation's toolpaths cut
// into.
type StockSpec struct {
	Width     float64
	Height    float64
	Thickness float64
	Material  string
	Origin    *[3]float64
}

// NewStockSpec builds a StockSpec with no material or origin set.
func NewStockSpec(width, height, thickness float64) StockSpec {
	return StockSpec{Width: width, Height: height, Thickness: thickness}
}

// Meta carries a project's name, timestamps, and file format version.
type Meta struct {
	Name            string
	Description     string
	Version         uint32
	CreatedAtMS     int64
	UpdatedAtMS     int64
	FileVersion     uint32
}

// SvgImport records one SVG (or DXF) ingest: the IDs it created, the
// affine transform applied lazily at flatten time, and when it happened.
type SvgImport struct {
	ID            model.ID
	Label         string
	SourcePath    string
	ShapeIDs      []model.ShapeID
	CurveIDs      []model.CurveID
	RegionIDs     []model.RegionID
	ImportedAtMS  int64
	Transform     model.Affine
}

// NewSvgImport builds an SvgImport record from an ingest batch.
func NewSvgImport(label, sourcePath string, batch model.ImportedBatch, transform model.Affine, nowMS int64) SvgImport {
	return SvgImport{
		ID:           model.NewID(),
		Label:        label,
		SourcePath:   sourcePath,
		ShapeIDs:     batch.ShapeIDs,
		CurveIDs:     batch.CurveIDs,
		RegionIDs:    batch.RegionIDs,
		ImportedAtMS: nowMS,
		Transform:    transform,
	}
}

// ToolpathPassKind discriminates a generated pass.
type ToolpathPassKind int

const (
	PassFinish ToolpathPassKind = iota
	PassClearance
)

// ToolpathPass is one tool/kind-tagged sub-toolpath within an artifact.
type ToolpathPass struct {
	ToolIndex int
	Kind      ToolpathPassKind
	Toolpath  engine.Toolpath
}

// NewToolpathPass builds a ToolpathPass.
func NewToolpathPass(toolIndex int, kind ToolpathPassKind, tp engine.Toolpath) ToolpathPass {
	return ToolpathPass{ToolIndex: toolIndex, Kind: kind, Toolpath: tp}
}

// ToolpathArtifact is the cached output of generating one operation.
type ToolpathArtifact struct {
	OperationIndex int
	Toolpath       engine.Toolpath
	Passes         []ToolpathPass
	GeneratedAtMS  int64
	Warnings       []string
	IsValid        bool
}

// OperationState tracks whether an operation's cached artifact is
// current.
type OperationState struct {
	Dirty    bool
	Artifact *ToolpathArtifact
}

// DefaultOperationState returns a dirty state with no artifact, the
// default for a newly-added operation.
func DefaultOperationState() OperationState {
	return OperationState{Dirty: true}
}

// ToolpathStatusKind discriminates ToolpathStatus.
type ToolpathStatusKind int

const (
	StatusDirty ToolpathStatusKind = iota
	StatusReady
	StatusInvalid
)

// ToolpathStatus summarizes an operation's current state for display.
type ToolpathStatus struct {
	Kind     ToolpathStatusKind
	Warnings []string
}

// Status derives a ToolpathStatus from an OperationState.
func (s OperationState) Status() ToolpathStatus {
	if s.Dirty || s.Artifact == nil {
		return ToolpathStatus{Kind: StatusDirty}
	}
	if !s.Artifact.IsValid {
		return ToolpathStatus{Kind: StatusInvalid, Warnings: s.Artifact.Warnings}
	}
	return ToolpathStatus{Kind: StatusReady, Warnings: s.Artifact.Warnings}
}

// Project is the top-level persisted document: metadata, stock, the
// shape registry, import history, operations, per-operation state, and
// any attached toolpath artifacts.
type Project struct {
	Meta             Meta
	Stock            StockSpec
	Shapes           *model.ShapeRegistry
	ImportedSVGs     []SvgImport
	Operations       []model.Operation
	OperationStates  []OperationState
}

// New builds an empty project with the given name and stock spec.
func New(name string, stock StockSpec, nowMS int64) *Project {
	return &Project{
		Meta: Meta{
			Name:        name,
			CreatedAtMS: nowMS,
			UpdatedAtMS: nowMS,
			FileVersion: FileVersion,
		},
		Stock:  stock,
		Shapes: model.NewShapeRegistry(),
	}
}

// TouchUpdatedTimestamp stamps Meta.UpdatedAtMS with nowMS.
func (p *Project) TouchUpdatedTimestamp(nowMS int64) {
	p.Meta.UpdatedAtMS = nowMS
}

// EnsureOperationStatesLen pads OperationStates with default (dirty, no
// artifact) entries up to n entries.
func (p *Project) EnsureOperationStatesLen(n int) {
	for len(p.OperationStates) < n {
		p.OperationStates = append(p.OperationStates, DefaultOperationState())
	}
}

// AddOperation appends op to the project and a matching dirty state.
func (p *Project) AddOperation(op model.Operation) int {
	p.Operations = append(p.Operations, op)
	p.OperationStates = append(p.OperationStates, DefaultOperationState())
	return len(p.Operations) - 1
}

// UpdateOperation replaces the operation at index and marks it dirty.
func (p *Project) UpdateOperation(index int, op model.Operation) error {
	if index < 0 || index >= len(p.Operations) {
		return fmt.Errorf("project: invalid operation index %d", index)
	}
	p.Operations[index] = op
	p.MarkOperationDirty(index)
	return nil
}

// RemoveOperation deletes the operation and its state slot at index.
func (p *Project) RemoveOperation(index int) error {
	if index < 0 || index >= len(p.Operations) {
		return fmt.Errorf("project: invalid operation index %d", index)
	}
	p.Operations = append(p.Operations[:index], p.Operations[index+1:]...)
	if index < len(p.OperationStates) {
		p.OperationStates = append(p.OperationStates[:index], p.OperationStates[index+1:]...)
	}
	return nil
}

// MarkOperationDirty sets the operation's state to dirty and discards its
// cached artifact, since it was generated from operation parameters that
// no longer apply.
func (p *Project) MarkOperationDirty(index int) {
	p.EnsureOperationStatesLen(index + 1)
	p.OperationStates[index].Dirty = true
	p.OperationStates[index].Artifact = nil
}

// AttachToolpath stores tp and warnings as a ready artifact for
// operation index, clearing its dirty flag.
func (p *Project) AttachToolpath(index int, tp engine.Toolpath, warnings []string, nowMS int64) {
	p.EnsureOperationStatesLen(index + 1)
	p.OperationStates[index] = OperationState{
		Dirty: false,
		Artifact: &ToolpathArtifact{
			OperationIndex: index,
			Toolpath:       tp,
			GeneratedAtMS:  nowMS,
			Warnings:       warnings,
			IsValid:        true,
		},
	}
}

// RemoveToolpathForOperation clears any cached artifact for index and
// marks it dirty.
func (p *Project) RemoveToolpathForOperation(index int) {
	if index < 0 || index >= len(p.OperationStates) {
		return
	}
	p.OperationStates[index] = DefaultOperationState()
}

// ToolpathForOperation returns the cached artifact's toolpath for index,
// if the operation is not dirty and has a cached artifact.
func (p *Project) ToolpathForOperation(index int) (engine.Toolpath, bool) {
	if index < 0 || index >= len(p.OperationStates) {
		return engine.Toolpath{}, false
	}
	st := p.OperationStates[index]
	if st.Dirty || st.Artifact == nil {
		return engine.Toolpath{}, false
	}
	return st.Artifact.Toolpath, true
}

// Summary is a lightweight overview of a project's contents.
type Summary struct {
	Name           string
	OperationCount int
	ShapeCount     int
	CurveCount     int
	RegionCount    int
	SvgImportCount int
}

// Summary computes a project Summary.
func (p *Project) Summary() Summary {
	return Summary{
		Name:           p.Meta.Name,
		OperationCount: len(p.Operations),
		ShapeCount:     len(p.Shapes.Shapes),
		CurveCount:     len(p.Shapes.Curves),
		RegionCount:    len(p.Shapes.Regions),
		SvgImportCount: len(p.ImportedSVGs),
	}
}

// nowMS returns the current time in epoch milliseconds.
func nowMS() int64 {
	return time.Now().UnixMilli()
}
