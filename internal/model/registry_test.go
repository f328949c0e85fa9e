package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCreateConveniencesRoundTrip(t *testing.T) {
	reg := NewShapeRegistry()
	lineID := reg.CreateLine(Point2D{X: 0, Y: 0}, Point2D{X: 1, Y: 1})
	circleID := reg.CreateCircle(Point2D{X: 0, Y: 0}, 5)

	line, ok := reg.GetCurve(lineID)
	require.True(t, ok)
	assert.Equal(t, CurveLine, line.Kind)

	circle, ok := reg.GetCurve(circleID)
	require.True(t, ok)
	assert.Equal(t, CurveCircle, circle.Kind)

	assert.Len(t, reg.AllCurveIDs(), 2)
}

func TestRegistryAddShapeOverwritesID(t *testing.T) {
	reg := NewShapeRegistry()
	curveID := reg.CreateLine(Point2D{}, Point2D{X: 1})

	id := reg.AddShape(Shape{Kind: ShapeKindCurve, Curve: curveID})
	shape, ok := reg.GetShape(id)
	require.True(t, ok)
	assert.Equal(t, id, shape.ID)
}

func TestRegistryJSONRoundTrip(t *testing.T) {
	reg := NewShapeRegistry()
	curveID := reg.CreateCircle(Point2D{X: 3, Y: 4}, 10)
	reg.AddShape(Shape{Kind: ShapeKindCurve, Curve: curveID, Label: "disc"})

	data, err := json.Marshal(reg)
	require.NoError(t, err)

	var decoded ShapeRegistry
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Len(t, decoded.Curves, 1)
	assert.Len(t, decoded.Shapes, 1)

	c, ok := decoded.GetCurve(curveID)
	require.True(t, ok)
	assert.Equal(t, CurveCircle, c.Kind)
	assert.InDelta(t, 10, c.Radius, 1e-9)
}

func TestRegistryUnmarshalEmptyObjectYieldsNonNilMaps(t *testing.T) {
	var reg ShapeRegistry
	require.NoError(t, json.Unmarshal([]byte(`{}`), &reg))
	assert.NotNil(t, reg.Curves)
	assert.NotNil(t, reg.Shapes)
	assert.NotNil(t, reg.Regions)
}
