package gcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chad-russell/rcarve/internal/engine"
)

// Scenario 8: an empty toolpath emits exactly the 4-line fixed header and
// nothing else.
func TestPostProcessGrblEmptyToolpathEmitsOnlyHeader(t *testing.T) {
	lines := PostProcessGrbl(engine.Toolpath{})
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"G90", "G21", "G17", "G0 Z10.0000"}, lines)
}

func TestPostProcessGrblSkipsEmptyPaths(t *testing.T) {
	lines := PostProcessGrbl(engine.Toolpath{Paths: []engine.Path3D{{}}})
	assert.Len(t, lines, 4)
}

func TestPostProcessGrblOnePathEmitsRapidPlungeCutRetract(t *testing.T) {
	path := engine.Path3D{
		{X: 0, Y: 0, Z: -5},
		{X: 10, Y: 0, Z: -5},
		{X: 10, Y: 10, Z: -5},
	}
	lines := PostProcessGrbl(engine.Toolpath{Paths: []engine.Path3D{path}})

	require.Len(t, lines, 4+5)
	assert.Equal(t, "G0 X0.0000 Y0.0000", lines[4])
	assert.Equal(t, "G1 Z-5.0000 F100", lines[5])
	assert.Equal(t, "G1 X10.0000 Y0.0000", lines[6])
	assert.Equal(t, "G1 X10.0000 Y10.0000", lines[7])
	assert.Equal(t, "G0 Z10.0000", lines[8])
}

func TestRenderJoinsWithTrailingNewlines(t *testing.T) {
	out := Render([]string{"G90", "G21"})
	assert.Equal(t, "G90\nG21\n", out)
	assert.Equal(t, 2, strings.Count(out, "\n"))
}
