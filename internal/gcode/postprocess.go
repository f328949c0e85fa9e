// Package gcode lowers a generic 3D toolpath into Grbl-dialect G-code
// text lines.
package gcode

import (
	"fmt"
	"strings"

	"github.com/chad-russell/rcarve/internal/engine"
)

// SafeZ is the retract height, guaranteed collision-free relative to the
// workpiece for rapid moves.
const SafeZ = 10.0

// PlungeFeed is the fixed feed rate used for plunge moves.
const PlungeFeed = 100

// PostProcessGrbl lowers a Toolpath into Grbl G-code lines: a fixed
// header, then for each non-empty path a rapid-to-entry, plunge, cut, and
// retract sequence. Empty paths contribute nothing.
func PostProcessGrbl(tp engine.Toolpath) []string {
	var lines []string
	lines = append(lines,
		"G90",
		"G21",
		"G17",
		fmt.Sprintf("G0 Z%s", format4(SafeZ)),
	)

	for _, path := range tp.Paths {
		if len(path) == 0 {
			continue
		}
		v0 := path[0]
		lines = append(lines, fmt.Sprintf("G0 X%s Y%s", format4(v0.X), format4(v0.Y)))
		lines = append(lines, fmt.Sprintf("G1 Z%s F%d", format4(v0.Z), PlungeFeed))
		for _, v := range path[1:] {
			lines = append(lines, fmt.Sprintf("G1 X%s Y%s", format4(v.X), format4(v.Y)))
		}
		lines = append(lines, fmt.Sprintf("G0 Z%s", format4(SafeZ)))
	}

	return lines
}

// Render joins G-code lines into a single newline-terminated string,
// suitable for writing to a .nc file.
func Render(lines []string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

// format4 renders a coordinate with exactly four decimal digits.
func format4(v float64) string {
	return fmt.Sprintf("%.4f", v)
}
