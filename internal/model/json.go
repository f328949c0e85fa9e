package model

import (
	"encoding/json"
	"fmt"
)

// jsonPoint2D/jsonPathElem mirror Point2D/PathElem with exported field tags.

type jsonPoint2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func toJSONPoint(p Point2D) jsonPoint2D { return jsonPoint2D{X: p.X, Y: p.Y} }
func fromJSONPoint(p jsonPoint2D) Point2D { return Point2D{X: p.X, Y: p.Y} }

type jsonPathElem struct {
	Type string      `json:"type"`
	C1   jsonPoint2D `json:"c1,omitempty"`
	C2   jsonPoint2D `json:"c2,omitempty"`
	P    jsonPoint2D `json:"p,omitempty"`
}

func elemKindName(k PathElemKind) string {
	switch k {
	case ElemMoveTo:
		return "MoveTo"
	case ElemLineTo:
		return "LineTo"
	case ElemQuadTo:
		return "QuadTo"
	case ElemCurveTo:
		return "CurveTo"
	case ElemClose:
		return "Close"
	default:
		return "MoveTo"
	}
}

func elemKindFromName(s string) PathElemKind {
	switch s {
	case "LineTo":
		return ElemLineTo
	case "QuadTo":
		return ElemQuadTo
	case "CurveTo":
		return ElemCurveTo
	case "Close":
		return ElemClose
	default:
		return ElemMoveTo
	}
}

// MarshalJSON renders a Curve as a tagged object: {"type":"Line","p0":...}.
func (c Curve) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CurveLine:
		return json.Marshal(struct {
			Type string      `json:"type"`
			P0   jsonPoint2D `json:"p0"`
			P1   jsonPoint2D `json:"p1"`
		}{"Line", toJSONPoint(c.P0), toJSONPoint(c.P1)})
	case CurveCircle:
		return json.Marshal(struct {
			Type   string      `json:"type"`
			Center jsonPoint2D `json:"center"`
			Radius float64     `json:"radius"`
		}{"Circle", toJSONPoint(c.Center), c.Radius})
	case CurveBezPath:
		elems := make([]jsonPathElem, len(c.Path))
		for i, e := range c.Path {
			elems[i] = jsonPathElem{
				Type: elemKindName(e.Kind),
				C1:   toJSONPoint(e.C1),
				C2:   toJSONPoint(e.C2),
				P:    toJSONPoint(e.P),
			}
		}
		return json.Marshal(struct {
			Type     string         `json:"type"`
			Elements []jsonPathElem `json:"elements"`
		}{"BezPath", elems})
	default:
		return nil, fmt.Errorf("model: unknown curve kind %d", c.Kind)
	}
}

// UnmarshalJSON parses a tagged Curve object.
func (c *Curve) UnmarshalJSON(data []byte) error {
	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	switch tag.Type {
	case "Line":
		var v struct {
			P0 jsonPoint2D `json:"p0"`
			P1 jsonPoint2D `json:"p1"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*c = NewLineCurve(fromJSONPoint(v.P0), fromJSONPoint(v.P1))
	case "Circle":
		var v struct {
			Center jsonPoint2D `json:"center"`
			Radius float64     `json:"radius"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*c = NewCircleCurve(fromJSONPoint(v.Center), v.Radius)
	case "BezPath":
		var v struct {
			Elements []jsonPathElem `json:"elements"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		elems := make([]PathElem, len(v.Elements))
		for i, e := range v.Elements {
			elems[i] = PathElem{
				Kind: elemKindFromName(e.Type),
				C1:   fromJSONPoint(e.C1),
				C2:   fromJSONPoint(e.C2),
				P:    fromJSONPoint(e.P),
			}
		}
		*c = NewBezPathCurve(elems)
	default:
		return fmt.Errorf("model: unknown curve type %q", tag.Type)
	}
	return nil
}

func shapeSourceKindName(k ShapeSourceKind) string {
	switch k {
	case ShapeSourceSvgImport:
		return "SvgImport"
	case ShapeSourceDxfImport:
		return "DxfImport"
	case ShapeSourceFont:
		return "Font"
	case ShapeSourcePrimitive:
		return "Primitive"
	default:
		return "Manual"
	}
}

func shapeSourceKindFromName(s string) ShapeSourceKind {
	switch s {
	case "SvgImport":
		return ShapeSourceSvgImport
	case "DxfImport":
		return ShapeSourceDxfImport
	case "Font":
		return ShapeSourceFont
	case "Primitive":
		return ShapeSourcePrimitive
	default:
		return ShapeSourceManual
	}
}

// MarshalJSON renders a ShapeSource as a tagged object.
func (s ShapeSource) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type          string `json:"type"`
		Path          string `json:"path,omitempty"`
		LayerName     string `json:"layer_name,omitempty"`
		FontName      string `json:"font_name,omitempty"`
		Text          string `json:"text,omitempty"`
		PrimitiveType string `json:"primitive_type,omitempty"`
	}{
		Type:          shapeSourceKindName(s.Kind),
		Path:          s.Path,
		LayerName:     s.LayerName,
		FontName:      s.FontName,
		Text:          s.Text,
		PrimitiveType: s.PrimitiveType,
	})
}

// UnmarshalJSON parses a tagged ShapeSource object.
func (s *ShapeSource) UnmarshalJSON(data []byte) error {
	var v struct {
		Type          string `json:"type"`
		Path          string `json:"path"`
		LayerName     string `json:"layer_name"`
		FontName      string `json:"font_name"`
		Text          string `json:"text"`
		PrimitiveType string `json:"primitive_type"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	s.Kind = shapeSourceKindFromName(v.Type)
	s.Path = v.Path
	s.LayerName = v.LayerName
	s.FontName = v.FontName
	s.Text = v.Text
	s.PrimitiveType = v.PrimitiveType
	return nil
}

func shapeKindName(k ShapeKind) string {
	switch k {
	case ShapeKindCurves:
		return "Curves"
	case ShapeKindRegion:
		return "Region"
	default:
		return "Curve"
	}
}

func shapeKindFromName(s string) ShapeKind {
	switch s {
	case "Curves":
		return ShapeKindCurves
	case "Region":
		return ShapeKindRegion
	default:
		return ShapeKindCurve
	}
}

// MarshalJSON renders a Shape with its kind-specific payload flattened
// into the object alongside label/origin/source.
func (s Shape) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID     ShapeID     `json:"id"`
		Label  string      `json:"label"`
		Kind   string      `json:"kind"`
		Curve  CurveID     `json:"curve,omitempty"`
		Curves []CurveID   `json:"curves,omitempty"`
		Region RegionID    `json:"region,omitempty"`
		Origin *[3]float64 `json:"origin,omitempty"`
		Source ShapeSource `json:"source"`
	}{
		ID:     s.ID,
		Label:  s.Label,
		Kind:   shapeKindName(s.Kind),
		Curve:  s.Curve,
		Curves: s.Curves,
		Region: s.Region,
		Origin: s.Origin,
		Source: s.Source,
	})
}

// UnmarshalJSON parses a Shape object.
func (s *Shape) UnmarshalJSON(data []byte) error {
	var v struct {
		ID     ShapeID     `json:"id"`
		Label  string      `json:"label"`
		Kind   string      `json:"kind"`
		Curve  CurveID     `json:"curve"`
		Curves []CurveID   `json:"curves"`
		Region RegionID    `json:"region"`
		Origin *[3]float64 `json:"origin"`
		Source ShapeSource `json:"source"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	s.ID = v.ID
	s.Label = v.Label
	s.Kind = shapeKindFromName(v.Kind)
	s.Curve = v.Curve
	s.Curves = v.Curves
	s.Region = v.Region
	s.Origin = v.Origin
	s.Source = v.Source
	return nil
}

func toolTypeKindName(k ToolTypeKind) string {
	switch k {
	case ToolVBit:
		return "VBit"
	case ToolBallnose:
		return "Ballnose"
	default:
		return "Endmill"
	}
}

func toolTypeKindFromName(s string) ToolTypeKind {
	switch s {
	case "VBit":
		return ToolVBit
	case "Ballnose":
		return ToolBallnose
	default:
		return ToolEndmill
	}
}

// MarshalJSON renders a ToolType as a tagged object.
func (t ToolType) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type         string  `json:"type"`
		Diameter     float64 `json:"diameter,omitempty"`
		AngleDegrees float64 `json:"angle_degrees,omitempty"`
	}{toolTypeKindName(t.Kind), t.Diameter, t.AngleDegrees})
}

// UnmarshalJSON parses a tagged ToolType object.
func (t *ToolType) UnmarshalJSON(data []byte) error {
	var v struct {
		Type         string  `json:"type"`
		Diameter     float64 `json:"diameter"`
		AngleDegrees float64 `json:"angle_degrees"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	t.Kind = toolTypeKindFromName(v.Type)
	t.Diameter = v.Diameter
	t.AngleDegrees = v.AngleDegrees
	return nil
}

func cutSideName(c CutSide) string {
	switch c {
	case CutInside:
		return "Inside"
	case CutOnLine:
		return "OnLine"
	default:
		return "Outside"
	}
}

func cutSideFromName(s string) CutSide {
	switch s {
	case "Inside":
		return CutInside
	case "OnLine":
		return CutOnLine
	default:
		return CutOutside
	}
}

func operationTargetKindName(k OperationTargetKind) string {
	if k == TargetRegion {
		return "Region"
	}
	return "Curves"
}

// MarshalJSON renders an OperationTarget as a tagged object.
func (t OperationTarget) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string     `json:"type"`
		Curves []CurveID  `json:"curves,omitempty"`
		Region RegionID   `json:"region,omitempty"`
	}{operationTargetKindName(t.Kind), t.Curves, t.Region})
}

// UnmarshalJSON parses a tagged OperationTarget object.
func (t *OperationTarget) UnmarshalJSON(data []byte) error {
	var v struct {
		Type   string    `json:"type"`
		Curves []CurveID `json:"curves"`
		Region RegionID  `json:"region"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.Type == "Region" {
		*t = RegionTarget(v.Region)
	} else {
		*t = CurvesTarget(v.Curves...)
	}
	return nil
}

func operationKindName(k OperationKind) string {
	switch k {
	case OpPocket:
		return "Pocket"
	case OpVCarve:
		return "VCarve"
	default:
		return "Profile"
	}
}

func operationKindFromName(s string) OperationKind {
	switch s {
	case "Pocket":
		return OpPocket
	case "VCarve":
		return OpVCarve
	default:
		return OpProfile
	}
}

// MarshalJSON renders an Operation as a tagged object.
func (op Operation) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type               string          `json:"type"`
		TargetDepth        *float64        `json:"target_depth,omitempty"`
		ToolIndex          int             `json:"tool_index"`
		Targets            OperationTarget `json:"targets,omitempty"`
		Target             OperationTarget `json:"target,omitempty"`
		CutSide            string          `json:"cut_side,omitempty"`
		ClearanceToolIndex *int            `json:"clearance_tool_index,omitempty"`
	}{
		Type:               operationKindName(op.Kind),
		TargetDepth:        op.TargetDepth,
		ToolIndex:          op.ToolIndex,
		Targets:            op.Targets,
		Target:             op.Target,
		CutSide:            cutSideName(op.CutSide),
		ClearanceToolIndex: op.ClearanceToolIndex,
	})
}

// UnmarshalJSON parses a tagged Operation object.
func (op *Operation) UnmarshalJSON(data []byte) error {
	var v struct {
		Type               string          `json:"type"`
		TargetDepth        *float64        `json:"target_depth"`
		ToolIndex          int             `json:"tool_index"`
		Targets            OperationTarget `json:"targets"`
		Target             OperationTarget `json:"target"`
		CutSide            string          `json:"cut_side"`
		ClearanceToolIndex *int            `json:"clearance_tool_index"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	op.Kind = operationKindFromName(v.Type)
	op.TargetDepth = v.TargetDepth
	op.ToolIndex = v.ToolIndex
	op.Targets = v.Targets
	op.Target = v.Target
	op.CutSide = cutSideFromName(v.CutSide)
	op.ClearanceToolIndex = v.ClearanceToolIndex
	return nil
}
