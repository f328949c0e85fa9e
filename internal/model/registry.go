package model

import "encoding/json"

// ShapeRegistry owns three ID-keyed mappings: curves, shapes, and regions.
// Entities live from insertion until explicit removal; removing a curve
// referenced by a shape or region leaves a dangling reference that
// downstream consumers must detect and report, not the registry itself.
type ShapeRegistry struct {
	Curves  map[CurveID]Curve
	Shapes  map[ShapeID]Shape
	Regions map[RegionID]Region
}

// NewShapeRegistry returns an empty registry.
func NewShapeRegistry() *ShapeRegistry {
	return &ShapeRegistry{
		Curves:  make(map[CurveID]Curve),
		Shapes:  make(map[ShapeID]Shape),
		Regions: make(map[RegionID]Region),
	}
}

// AddCurve inserts a curve, assigning it a fresh ID.
func (r *ShapeRegistry) AddCurve(c Curve) CurveID {
	id := NewCurveID()
	r.Curves[id] = c
	return id
}

// GetCurve looks up a curve by ID.
func (r *ShapeRegistry) GetCurve(id CurveID) (Curve, bool) {
	c, ok := r.Curves[id]
	return c, ok
}

// RemoveCurve deletes a curve by ID.
func (r *ShapeRegistry) RemoveCurve(id CurveID) {
	delete(r.Curves, id)
}

// AddShape inserts a shape, assigning it a fresh ID and overwriting the
// passed-in shape's ID field to match (self-consistency invariant).
func (r *ShapeRegistry) AddShape(s Shape) ShapeID {
	id := NewShapeID()
	s.ID = id
	r.Shapes[id] = s
	return id
}

// GetShape looks up a shape by ID.
func (r *ShapeRegistry) GetShape(id ShapeID) (Shape, bool) {
	s, ok := r.Shapes[id]
	return s, ok
}

// RemoveShape deletes a shape by ID.
func (r *ShapeRegistry) RemoveShape(id ShapeID) {
	delete(r.Shapes, id)
}

// AddRegion inserts a region, assigning it a fresh ID and overwriting the
// passed-in region's ID field to match (self-consistency invariant).
func (r *ShapeRegistry) AddRegion(reg Region) RegionID {
	id := NewRegionID()
	reg.ID = id
	r.Regions[id] = reg
	return id
}

// GetRegion looks up a region by ID.
func (r *ShapeRegistry) GetRegion(id RegionID) (Region, bool) {
	reg, ok := r.Regions[id]
	return reg, ok
}

// RemoveRegion deletes a region by ID.
func (r *ShapeRegistry) RemoveRegion(id RegionID) {
	delete(r.Regions, id)
}

// CreateLine is a convenience constructor inserting a Line curve.
func (r *ShapeRegistry) CreateLine(p0, p1 Point2D) CurveID {
	return r.AddCurve(NewLineCurve(p0, p1))
}

// CreateCircle is a convenience constructor inserting a Circle curve.
func (r *ShapeRegistry) CreateCircle(center Point2D, radius float64) CurveID {
	return r.AddCurve(NewCircleCurve(center, radius))
}

// CreateBezPath is a convenience constructor inserting a BezPath curve.
func (r *ShapeRegistry) CreateBezPath(elems []PathElem) CurveID {
	return r.AddCurve(NewBezPathCurve(elems))
}

// AllCurveIDs returns every curve ID currently in the registry, in no
// particular order.
func (r *ShapeRegistry) AllCurveIDs() []CurveID {
	ids := make([]CurveID, 0, len(r.Curves))
	for id := range r.Curves {
		ids = append(ids, id)
	}
	return ids
}

// AllShapeIDs returns every shape ID currently in the registry, in no
// particular order.
func (r *ShapeRegistry) AllShapeIDs() []ShapeID {
	ids := make([]ShapeID, 0, len(r.Shapes))
	for id := range r.Shapes {
		ids = append(ids, id)
	}
	return ids
}

// AllRegionIDs returns every region ID currently in the registry, in no
// particular order.
func (r *ShapeRegistry) AllRegionIDs() []RegionID {
	ids := make([]RegionID, 0, len(r.Regions))
	for id := range r.Regions {
		ids = append(ids, id)
	}
	return ids
}

// MarshalJSON renders the registry as {"shapes":{...},"curves":{...},"regions":{...}}.
func (r *ShapeRegistry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Shapes  map[ShapeID]Shape   `json:"shapes"`
		Curves  map[CurveID]Curve   `json:"curves"`
		Regions map[RegionID]Region `json:"regions"`
	}{r.Shapes, r.Curves, r.Regions})
}

// UnmarshalJSON parses a registry from its wire format.
func (r *ShapeRegistry) UnmarshalJSON(data []byte) error {
	var v struct {
		Shapes  map[ShapeID]Shape   `json:"shapes"`
		Curves  map[CurveID]Curve   `json:"curves"`
		Regions map[RegionID]Region `json:"regions"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.Shapes == nil {
		v.Shapes = make(map[ShapeID]Shape)
	}
	if v.Curves == nil {
		v.Curves = make(map[CurveID]Curve)
	}
	if v.Regions == nil {
		v.Regions = make(map[RegionID]Region)
	}
	r.Shapes, r.Curves, r.Regions = v.Shapes, v.Curves, v.Regions
	return nil
}

// ImportedBatch collects the IDs created by a single ingest call (SVG or
// DXF), gathered at insertion time so the batch is deterministic and does
// not depend on map iteration order.
type ImportedBatch struct {
	ShapeIDs  []ShapeID
	CurveIDs  []CurveID
	RegionIDs []RegionID
}
