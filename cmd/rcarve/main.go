// Command rcarve is the toolpath-generator CLI: it runs the four demo
// scenarios from the command line with no project file, and drives full
// projects (import, generate, post-process, export) against a JSON
// project file on disk.
//
// Usage:
//
//	rcarve profile|pocket|pocket-island|vcarve
//	rcarve project new PATH NAME WIDTH HEIGHT THICKNESS [MATERIAL]
//	rcarve project show PATH
//	rcarve import svg|dxf PROJECT SOURCE
//	rcarve generate PROJECT
//	rcarve gcode PROJECT OP_INDEX OUT.nc
//	rcarve tool list|add|rm ...
//	rcarve jobsheet PROJECT OUT.pdf
//	rcarve label PROJECT OUT.png
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/chad-russell/rcarve/internal/engine"
	"github.com/chad-russell/rcarve/internal/export"
	"github.com/chad-russell/rcarve/internal/gcode"
	"github.com/chad-russell/rcarve/internal/importer"
	"github.com/chad-russell/rcarve/internal/model"
	"github.com/chad-russell/rcarve/internal/project"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "profile":
		err = runDemoProfile()
	case "pocket":
		err = runDemoPocket()
	case "pocket-island":
		err = runDemoPocketIsland()
	case "vcarve":
		err = runDemoVCarve()
	case "project":
		err = runProject(os.Args[2:])
	case "import":
		err = runImport(os.Args[2:])
	case "generate":
		err = runGenerate(os.Args[2:])
	case "gcode":
		err = runGcode(os.Args[2:])
	case "tool":
		err = runTool(os.Args[2:])
	case "jobsheet":
		err = runJobsheet(os.Args[2:])
	case "label":
		err = runLabel(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "rcarve: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: rcarve profile|pocket|pocket-island|vcarve")
	fmt.Fprintln(os.Stderr, "       rcarve project new PATH NAME WIDTH HEIGHT THICKNESS [MATERIAL]")
	fmt.Fprintln(os.Stderr, "       rcarve project show PATH")
	fmt.Fprintln(os.Stderr, "       rcarve import svg|dxf PROJECT SOURCE")
	fmt.Fprintln(os.Stderr, "       rcarve generate PROJECT")
	fmt.Fprintln(os.Stderr, "       rcarve gcode PROJECT OP_INDEX OUT.nc")
	fmt.Fprintln(os.Stderr, "       rcarve tool list|add|rm ...")
	fmt.Fprintln(os.Stderr, "       rcarve jobsheet PROJECT OUT.pdf")
	fmt.Fprintln(os.Stderr, "       rcarve label PROJECT OUT.png")
}

// --- demo scenarios, grounded on original_source/crates/rcarve/src/main.rs ---

func squareLoop(side float64) []model.Point2D {
	return []model.Point2D{
		{X: 0, Y: 0},
		{X: side, Y: 0},
		{X: side, Y: side},
		{X: 0, Y: side},
	}
}

func demoEndmill(diameter, stepover, passDepth float64) model.Tool {
	return model.Tool{
		Name:      fmt.Sprintf("%.1fmm Endmill", diameter),
		Diameter:  diameter,
		Stepover:  stepover,
		PassDepth: passDepth,
		Type:      model.ToolType{Kind: model.ToolEndmill, Diameter: diameter},
	}
}

func printToolpath(tp engine.Toolpath) {
	lines := gcode.PostProcessGrbl(tp)
	fmt.Print(gcode.Render(lines))
}

func runDemoProfile() error {
	tool := demoEndmill(6.0, 0.4, 3.0)
	tp, err := engine.GenerateProfile(squareLoop(100), tool, model.CutOutside, 5.0)
	if err != nil {
		return err
	}
	printToolpath(tp)
	return nil
}

func runDemoPocket() error {
	tool := demoEndmill(6.0, 0.4, 3.0)
	tp, err := engine.GeneratePocket(squareLoop(100), nil, tool, 5.0)
	if err != nil {
		return err
	}
	printToolpath(tp)
	return nil
}

func runDemoPocketIsland() error {
	tool := demoEndmill(6.0, 0.4, 3.0)
	island := []model.Point2D{
		{X: 30, Y: 30},
		{X: 70, Y: 30},
		{X: 70, Y: 70},
		{X: 30, Y: 70},
	}
	tp, err := engine.GeneratePocket(squareLoop(100), [][]model.Point2D{island}, tool, 5.0)
	if err != nil {
		return err
	}
	printToolpath(tp)
	return nil
}

func runDemoVCarve() error {
	vbit := model.Tool{
		Name:     "60deg V-bit",
		Diameter: 6.0,
		Stepover: 1.0,
		Type:     model.ToolType{Kind: model.ToolVBit, AngleDegrees: 60},
	}
	outline := []model.Point2D{
		{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 8}, {X: 12, Y: 8},
		{X: 12, Y: 20}, {X: 8, Y: 20}, {X: 8, Y: 8}, {X: 0, Y: 8},
	}
	maxDepth := 5.0
	tp, err := engine.GenerateVCarve([]engine.CarvePolygon{{Outer: outline}}, vbit, &maxDepth)
	if err != nil {
		return err
	}
	printToolpath(tp)
	return nil
}

// --- project management ---

func runProject(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: project new|show PATH ...")
	}
	switch args[0] {
	case "new":
		return projectNew(args[1:])
	case "show":
		return projectShow(args[1])
	default:
		return fmt.Errorf("unknown project subcommand %q", args[0])
	}
}

func projectNew(args []string) error {
	if len(args) < 5 {
		return fmt.Errorf("usage: project new PATH NAME WIDTH HEIGHT THICKNESS [MATERIAL]")
	}
	path, name := args[0], args[1]
	width, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("invalid WIDTH %q: %w", args[2], err)
	}
	height, err := strconv.ParseFloat(args[3], 64)
	if err != nil {
		return fmt.Errorf("invalid HEIGHT %q: %w", args[3], err)
	}
	thickness, err := strconv.ParseFloat(args[4], 64)
	if err != nil {
		return fmt.Errorf("invalid THICKNESS %q: %w", args[4], err)
	}
	stock := project.NewStockSpec(width, height, thickness)
	if len(args) > 5 {
		stock.Material = args[5]
	}
	proj := project.New(name, stock, time.Now().UnixMilli())
	return proj.Save(path)
}

func projectShow(path string) error {
	proj, err := project.Load(path)
	if err != nil {
		return err
	}
	s := proj.Summary()
	fmt.Printf("name:        %s\n", s.Name)
	fmt.Printf("operations:  %d\n", s.OperationCount)
	fmt.Printf("shapes:      %d\n", s.ShapeCount)
	fmt.Printf("curves:      %d\n", s.CurveCount)
	fmt.Printf("regions:     %d\n", s.RegionCount)
	fmt.Printf("svg imports: %d\n", s.SvgImportCount)
	fmt.Printf("stock:       %.1f x %.1f x %.1f mm\n", proj.Stock.Width, proj.Stock.Height, proj.Stock.Thickness)
	return nil
}

// --- import ---

func runImport(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: import svg|dxf PROJECT SOURCE")
	}
	kind, path, source := args[0], args[1], args[2]

	proj, err := project.Load(path)
	if err != nil {
		return err
	}

	var result importer.ImportResult
	switch kind {
	case "svg":
		paths, err := parseMiniSVG(source)
		if err != nil {
			return err
		}
		result = importer.ImportSVG(proj.Shapes, source, paths)
	case "dxf":
		result, err = importer.ImportDXF(proj.Shapes, source)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown import kind %q", kind)
	}

	now := time.Now().UnixMilli()
	proj.ImportedSVGs = append(proj.ImportedSVGs, project.NewSvgImport(source, source, result.Batch, model.IdentityAffine, now))
	proj.TouchUpdatedTimestamp(now)

	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	fmt.Printf("imported %d shape(s) from %s\n", len(result.Batch.ShapeIDs), source)
	return proj.Save(path)
}

// --- generate / gcode ---

func runGenerate(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: generate PROJECT")
	}
	path := args[0]
	proj, err := project.Load(path)
	if err != nil {
		return err
	}
	libPath, err := project.DefaultLibraryPath()
	if err != nil {
		return err
	}
	lib, err := project.LoadToolLibrary(libPath)
	if err != nil {
		return err
	}
	resolver := project.NewResolver(proj, lib)
	proj.EnsureOperationStatesLen(len(proj.Operations))

	now := time.Now().UnixMilli()
	for i, op := range proj.Operations {
		tp, warnings, genErr := engine.GenerateToolpathForOperation(resolver, op)
		if genErr != nil {
			// Leave the operation's state untouched: it stays dirty with
			// whatever artifact (if any) it had before this attempt.
			fmt.Fprintf(os.Stderr, "operation %d: %v\n", i, genErr)
			continue
		}
		proj.AttachToolpath(i, tp, warnings, now)
		fmt.Printf("operation %d: ready (%d path(s))\n", i, len(tp.Paths))
	}
	proj.TouchUpdatedTimestamp(now)
	return proj.Save(path)
}

func runGcode(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: gcode PROJECT OP_INDEX OUT.nc")
	}
	path := args[0]
	index, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid OP_INDEX %q: %w", args[1], err)
	}
	outPath := args[2]

	proj, err := project.Load(path)
	if err != nil {
		return err
	}
	tp, ok := proj.ToolpathForOperation(index)
	if !ok {
		return fmt.Errorf("operation %d has no ready toolpath; run generate first", index)
	}
	lines := gcode.PostProcessGrbl(tp)
	return os.WriteFile(outPath, []byte(gcode.Render(lines)), 0644)
}

// --- tool library ---

func runTool(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: tool list|add|rm ...")
	}
	libPath, err := project.DefaultLibraryPath()
	if err != nil {
		return err
	}
	lib, err := project.LoadToolLibrary(libPath)
	if err != nil {
		return err
	}

	switch args[0] {
	case "list":
		for i, t := range lib.Tools {
			fmt.Printf("%d: %s (%.2fmm)\n", i, t.Name, t.Diameter)
		}
		return nil
	case "add":
		if len(args) < 6 {
			return fmt.Errorf("usage: tool add NAME DIAMETER STEPOVER PASSDEPTH TYPE [ANGLE]")
		}
		tool, err := parseToolArgs(args[1:])
		if err != nil {
			return err
		}
		lib.AddTool(tool)
		if err := project.SaveToolLibrary(libPath, lib); err != nil {
			return err
		}
		fmt.Printf("added tool %d: %s\n", len(lib.Tools)-1, tool.Name)
		return nil
	case "rm":
		if len(args) < 2 {
			return fmt.Errorf("usage: tool rm INDEX")
		}
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid INDEX %q: %w", args[1], err)
		}
		if err := lib.RemoveTool(index); err != nil {
			return err
		}
		return project.SaveToolLibrary(libPath, lib)
	default:
		return fmt.Errorf("unknown tool subcommand %q", args[0])
	}
}

func parseToolArgs(args []string) (model.Tool, error) {
	name := args[0]
	diameter, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return model.Tool{}, fmt.Errorf("invalid DIAMETER %q: %w", args[1], err)
	}
	stepover, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return model.Tool{}, fmt.Errorf("invalid STEPOVER %q: %w", args[2], err)
	}
	passDepth, err := strconv.ParseFloat(args[3], 64)
	if err != nil {
		return model.Tool{}, fmt.Errorf("invalid PASSDEPTH %q: %w", args[3], err)
	}

	var toolType model.ToolType
	switch args[4] {
	case "endmill":
		toolType = model.ToolType{Kind: model.ToolEndmill, Diameter: diameter}
	case "ballnose":
		toolType = model.ToolType{Kind: model.ToolBallnose, Diameter: diameter}
	case "vbit":
		if len(args) < 6 {
			return model.Tool{}, fmt.Errorf("vbit tools require an ANGLE argument")
		}
		angle, err := strconv.ParseFloat(args[5], 64)
		if err != nil {
			return model.Tool{}, fmt.Errorf("invalid ANGLE %q: %w", args[5], err)
		}
		toolType = model.ToolType{Kind: model.ToolVBit, AngleDegrees: angle}
	default:
		return model.Tool{}, fmt.Errorf("unknown tool TYPE %q (want endmill, ballnose, or vbit)", args[4])
	}

	return model.Tool{Name: name, Diameter: diameter, Stepover: stepover, PassDepth: passDepth, Type: toolType}, nil
}

// --- export ---

func runJobsheet(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: jobsheet PROJECT OUT.pdf")
	}
	proj, err := project.Load(args[0])
	if err != nil {
		return err
	}
	libPath, err := project.DefaultLibraryPath()
	if err != nil {
		return err
	}
	lib, err := project.LoadToolLibrary(libPath)
	if err != nil {
		return err
	}
	return export.GenerateJobSheet(proj, lib, args[1])
}

func runLabel(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: label PROJECT OUT.png")
	}
	proj, err := project.Load(args[0])
	if err != nil {
		return err
	}
	png, err := export.GenerateLabel(proj)
	if err != nil {
		return err
	}
	return os.WriteFile(args[1], png, 0644)
}
