package main

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/chad-russell/rcarve/internal/importer"
	"github.com/chad-russell/rcarve/internal/model"
)

// parseMiniSVG extracts <path d="...">, <circle>, and <rect> elements from
// an SVG document via a handful of regular expressions. It is a demo-only
// stand-in for the real XML/CSS-aware SVG parser spec.md §1 places out of
// scope for the core (no nested groups, transforms, styling, or text):
// just enough to exercise ImportSVG end-to-end from the CLI against
// hand-authored or CAM-exported SVGs, which are usually flat path/shape
// lists.
func parseMiniSVG(path string) ([]importer.SourcePath, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read SVG %s: %w", path, err)
	}
	doc := string(data)

	var sources []importer.SourcePath
	sources = append(sources, parsePathElements(doc)...)
	sources = append(sources, parseCircleElements(doc)...)
	sources = append(sources, parseRectElements(doc)...)
	return sources, nil
}

var pathElemRe = regexp.MustCompile(`<path\b[^>]*\bd="([^"]*)"[^>]*/?>`)
var circleElemRe = regexp.MustCompile(`<circle\b([^>]*)/?>`)
var rectElemRe = regexp.MustCompile(`<rect\b([^>]*)/?>`)
var attrRe = regexp.MustCompile(`(\w[\w-]*)\s*=\s*"([^"]*)"`)
var numTokenRe = regexp.MustCompile(`-?[0-9]*\.?[0-9]+(?:[eE][-+]?[0-9]+)?`)

func attrs(fragment string) map[string]string {
	out := map[string]string{}
	for _, m := range attrRe.FindAllStringSubmatch(fragment, -1) {
		out[m[1]] = m[2]
	}
	return out
}

func parsePathElements(doc string) []importer.SourcePath {
	var out []importer.SourcePath
	for i, m := range pathElemRe.FindAllStringSubmatch(doc, -1) {
		d := m[1]
		out = append(out, importer.SourcePath{
			NodeID: fmt.Sprintf("path-%d", i),
			Build: func(v importer.PathVisitor) { replayPathData(d, v) },
		})
	}
	return out
}

// replayPathData tokenizes an SVG path `d` attribute supporting the
// absolute M/L/C/Q/Z commands (the common subset emitted by CAM/vector
// tools) and replays them onto v. A run of bare coordinate pairs after a
// command implicitly repeats that command (M repeats as L, per the SVG
// grammar); the loop below falls through to the same case without
// consuming a fresh command letter, which is what makes that work.
func replayPathData(d string, v importer.PathVisitor) {
	tokens := tokenizePathData(d)
	i := 0
	next := func() float64 {
		if i >= len(tokens) {
			return 0
		}
		f, _ := strconv.ParseFloat(tokens[i], 64)
		i++
		return f
	}
	point := func() model.Point2D { return model.Point2D{X: next(), Y: next()} }

	cmd := ""
	for i < len(tokens) {
		if isCommandLetter(tokens[i]) {
			cmd = tokens[i]
			i++
			if cmd == "Z" {
				v.Close()
				continue
			}
		}
		switch cmd {
		case "M":
			v.MoveTo(point())
			cmd = "L"
		case "L":
			v.LineTo(point())
		case "C":
			c1, c2, p := point(), point(), point()
			v.CubicTo(c1, c2, p)
		case "Q":
			c, p := point(), point()
			v.QuadTo(c, p)
		default:
			// unrecognized leading token; skip to avoid looping forever
			i++
		}
	}
}

// tokenizePathData splits a path data string into command letters and
// bare numeric tokens, with no notion of which command a number belongs
// to — that association is resolved by replayPathData's loop state.
func tokenizePathData(d string) []string {
	var tokens []string
	i := 0
	for i < len(d) {
		c := d[i]
		switch {
		case strings.ContainsRune("MLCQZmlcqz", rune(c)):
			tokens = append(tokens, strings.ToUpper(string(c)))
			i++
		case c == ' ' || c == ',' || c == '\t' || c == '\n' || c == '\r':
			i++
		default:
			loc := numTokenRe.FindStringIndex(d[i:])
			if loc == nil {
				i++
				continue
			}
			if loc[0] != 0 {
				i += loc[0]
				continue
			}
			tokens = append(tokens, d[i:i+loc[1]])
			i += loc[1]
		}
	}
	return tokens
}

func isCommandLetter(tok string) bool {
	return len(tok) == 1 && strings.ContainsRune("MLCQZ", rune(tok[0]))
}

// parseCircleElements converts <circle cx cy r> into a 4-cubic-quadrant
// BezPath via the visitor, the standard constant-0.5523 Bezier circle
// approximation.
func parseCircleElements(doc string) []importer.SourcePath {
	const k = 0.5522847498307936
	var out []importer.SourcePath
	for i, m := range circleElemRe.FindAllStringSubmatch(doc, -1) {
		a := attrs(m[1])
		cx, _ := strconv.ParseFloat(a["cx"], 64)
		cy, _ := strconv.ParseFloat(a["cy"], 64)
		r, _ := strconv.ParseFloat(a["r"], 64)
		out = append(out, importer.SourcePath{
			NodeID: fmt.Sprintf("circle-%d", i),
			Build: func(v importer.PathVisitor) {
				right := model.Point2D{X: cx + r, Y: cy}
				top := model.Point2D{X: cx, Y: cy - r}
				left := model.Point2D{X: cx - r, Y: cy}
				bottom := model.Point2D{X: cx, Y: cy + r}
				v.MoveTo(right)
				v.CubicTo(model.Point2D{X: cx + r, Y: cy - r*k}, model.Point2D{X: cx + r*k, Y: cy - r}, top)
				v.CubicTo(model.Point2D{X: cx - r*k, Y: cy - r}, model.Point2D{X: cx - r, Y: cy - r*k}, left)
				v.CubicTo(model.Point2D{X: cx - r, Y: cy + r*k}, model.Point2D{X: cx - r*k, Y: cy + r}, bottom)
				v.CubicTo(model.Point2D{X: cx + r*k, Y: cy + r}, model.Point2D{X: cx + r, Y: cy + r*k}, right)
				v.Close()
			},
		})
	}
	return out
}

// parseRectElements converts <rect x y width height> into a 4-LineTo
// closed BezPath.
func parseRectElements(doc string) []importer.SourcePath {
	var out []importer.SourcePath
	for i, m := range rectElemRe.FindAllStringSubmatch(doc, -1) {
		a := attrs(m[1])
		x, _ := strconv.ParseFloat(a["x"], 64)
		y, _ := strconv.ParseFloat(a["y"], 64)
		w, _ := strconv.ParseFloat(a["width"], 64)
		h, _ := strconv.ParseFloat(a["height"], 64)
		out = append(out, importer.SourcePath{
			NodeID: fmt.Sprintf("rect-%d", i),
			Build: func(v importer.PathVisitor) {
				v.MoveTo(model.Point2D{X: x, Y: y})
				v.LineTo(model.Point2D{X: x + w, Y: y})
				v.LineTo(model.Point2D{X: x + w, Y: y + h})
				v.LineTo(model.Point2D{X: x, Y: y + h})
				v.Close()
			},
		})
	}
	return out
}
