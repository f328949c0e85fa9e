package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chad-russell/rcarve/internal/importer"
	"github.com/chad-russell/rcarve/internal/model"
)

func writeTestFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

type recordingVisitor struct {
	elems []model.PathElem
}

func (r *recordingVisitor) MoveTo(p model.Point2D) {
	r.elems = append(r.elems, model.PathElem{Kind: model.ElemMoveTo, P: p})
}
func (r *recordingVisitor) LineTo(p model.Point2D) {
	r.elems = append(r.elems, model.PathElem{Kind: model.ElemLineTo, P: p})
}
func (r *recordingVisitor) QuadTo(c, p model.Point2D) {
	r.elems = append(r.elems, model.PathElem{Kind: model.ElemQuadTo, C1: c, P: p})
}
func (r *recordingVisitor) CubicTo(c1, c2, p model.Point2D) {
	r.elems = append(r.elems, model.PathElem{Kind: model.ElemCurveTo, C1: c1, C2: c2, P: p})
}
func (r *recordingVisitor) Close() {
	r.elems = append(r.elems, model.PathElem{Kind: model.ElemClose})
}

var _ importer.PathVisitor = (*recordingVisitor)(nil)

func TestReplayPathDataSimpleTriangle(t *testing.T) {
	v := &recordingVisitor{}
	replayPathData("M0,0 L10,0 L10,10 Z", v)

	require.Len(t, v.elems, 4)
	assert.Equal(t, model.ElemMoveTo, v.elems[0].Kind)
	assert.Equal(t, model.Point2D{X: 0, Y: 0}, v.elems[0].P)
	assert.Equal(t, model.ElemLineTo, v.elems[1].Kind)
	assert.Equal(t, model.Point2D{X: 10, Y: 0}, v.elems[1].P)
	assert.Equal(t, model.ElemClose, v.elems[3].Kind)
}

func TestReplayPathDataImplicitLineToRepeat(t *testing.T) {
	v := &recordingVisitor{}
	// "L10,0 10,10" repeats the L command implicitly for the second pair.
	replayPathData("M0,0 L10,0 10,10 Z", v)
	require.Len(t, v.elems, 4)
	assert.Equal(t, model.Point2D{X: 10, Y: 10}, v.elems[2].P)
}

func TestReplayPathDataCubic(t *testing.T) {
	v := &recordingVisitor{}
	replayPathData("M0,0 C1,1 2,2 3,3", v)
	require.Len(t, v.elems, 2)
	assert.Equal(t, model.ElemCurveTo, v.elems[1].Kind)
	assert.Equal(t, model.Point2D{X: 3, Y: 3}, v.elems[1].P)
}

func TestParseCircleElementsProducesSixElements(t *testing.T) {
	doc := `<svg><circle cx="10" cy="10" r="5"/></svg>`
	sources := parseCircleElements(doc)
	require.Len(t, sources, 1)

	v := &recordingVisitor{}
	sources[0].Build(v)
	assert.Len(t, v.elems, 6) // MoveTo + 4 CubicTo + Close
}

func TestParseRectElements(t *testing.T) {
	doc := `<svg><rect x="0" y="0" width="10" height="20"/></svg>`
	sources := parseRectElements(doc)
	require.Len(t, sources, 1)

	v := &recordingVisitor{}
	sources[0].Build(v)
	require.Len(t, v.elems, 5) // MoveTo + 3 LineTo + Close
	assert.Equal(t, model.Point2D{X: 10, Y: 20}, v.elems[2].P)
}

func TestParseMiniSVGReadsAllElementKinds(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/test.svg"
	content := `<svg>
		<path d="M0,0 L10,0 L10,10 Z"/>
		<circle cx="5" cy="5" r="2"/>
		<rect x="0" y="0" width="4" height="4"/>
	</svg>`
	require.NoError(t, writeTestFile(path, content))

	sources, err := parseMiniSVG(path)
	require.NoError(t, err)
	assert.Len(t, sources, 3)
}
