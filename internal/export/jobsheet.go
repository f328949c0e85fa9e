// Package export renders read-only, shop-floor-facing documents from a
// Project: a job-sheet PDF summary and a single QR-code label image.
// Neither ever mutates project state.
package export

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/chad-russell/rcarve/internal/model"
	"github.com/chad-russell/rcarve/internal/project"
)

// Page layout constants (A4 portrait in mm).
const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	headerHeight = 12.0
)

// GenerateJobSheet renders a single PDF page summarizing proj's metadata,
// stock spec, tool list, and operation table (kind, target, tool, depth,
// status) and writes it to path.
func GenerateJobSheet(proj *project.Project, lib *project.ToolLibrary, path string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, marginTop)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, proj.Meta.Name, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	if proj.Meta.Description != "" {
		pdf.SetX(marginLeft)
		pdf.CellFormat(pageWidth-marginLeft-marginRight, 6, proj.Meta.Description, "", 1, "L", false, 0, "")
	}

	y := pdf.GetY() + 4
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Stock", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	stockLine := fmt.Sprintf("%.1f x %.1f x %.1f mm", proj.Stock.Width, proj.Stock.Height, proj.Stock.Thickness)
	if proj.Stock.Material != "" {
		stockLine += fmt.Sprintf(" (%s)", proj.Stock.Material)
	}
	pdf.SetX(marginLeft)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 6, stockLine, "", 1, "L", false, 0, "")

	y = pdf.GetY() + 4
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Tools", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for i, t := range lib.Tools {
		pdf.SetX(marginLeft + 5)
		pdf.CellFormat(pageWidth-marginLeft-marginRight-5, 5, fmt.Sprintf("%d. %s (%s, %.2fmm)", i, t.Name, toolTypeLabel(t.Type), t.Diameter), "", 1, "L", false, 0, "")
	}

	y = pdf.GetY() + 4
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Operations", "", 1, "L", false, 0, "")

	colWidths := []float64{10, 30, 50, 25, 25, 40}
	headers := []string{"#", "Kind", "Target", "Tool", "Depth", "Status"}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	x := marginLeft
	for i, h := range headers {
		pdf.SetXY(x, pdf.GetY())
		pdf.CellFormat(colWidths[i], 6, h, "1", 0, "C", true, 0, "")
		x += colWidths[i]
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 9)
	for i, op := range proj.Operations {
		row := operationRow(i, op, proj)
		x = marginLeft
		for j, cell := range row {
			pdf.SetXY(x, pdf.GetY())
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", false, 0, "")
			x += colWidths[j]
		}
		pdf.Ln(6)
	}

	return pdf.OutputFileAndClose(path)
}

func toolTypeLabel(t model.ToolType) string {
	switch t.Kind {
	case model.ToolVBit:
		return fmt.Sprintf("V-bit %.0f°", t.AngleDegrees)
	case model.ToolBallnose:
		return "Ballnose"
	default:
		return "Endmill"
	}
}

func operationKindLabel(k model.OperationKind) string {
	switch k {
	case model.OpPocket:
		return "Pocket"
	case model.OpVCarve:
		return "V-Carve"
	default:
		return "Profile"
	}
}

func operationRow(index int, op model.Operation, proj *project.Project) []string {
	target := "Curves"
	if (op.Kind == model.OpProfile || op.Kind == model.OpVCarve) && op.Targets.Kind == model.TargetRegion ||
		op.Kind == model.OpPocket && op.Target.Kind == model.TargetRegion {
		target = "Region"
	}

	depth := "-"
	if op.TargetDepth != nil {
		depth = fmt.Sprintf("%.1fmm", *op.TargetDepth)
	}

	status := "Dirty"
	if index < len(proj.OperationStates) {
		st := proj.OperationStates[index].Status()
		switch st.Kind {
		case project.StatusReady:
			status = "Ready"
		case project.StatusInvalid:
			status = "Invalid"
		}
	}

	return []string{
		fmt.Sprintf("%d", index),
		operationKindLabel(op.Kind),
		target,
		fmt.Sprintf("%d", op.ToolIndex),
		depth,
		status,
	}
}
