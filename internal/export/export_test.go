package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chad-russell/rcarve/internal/model"
	"github.com/chad-russell/rcarve/internal/project"
)

func sampleProject() *project.Project {
	proj := project.New("Sample Job", project.NewStockSpec(300, 200, 18), 0)
	proj.Stock.Material = "Baltic Birch"
	curveID := proj.Shapes.CreateCircle(model.Point2D{X: 10, Y: 10}, 5)
	depth := 5.0
	proj.AddOperation(model.Operation{
		Kind:        model.OpProfile,
		ToolIndex:   0,
		Targets:     model.CurvesTarget(curveID),
		CutSide:     model.CutOutside,
		TargetDepth: &depth,
	})
	return proj
}

func sampleLibrary() *project.ToolLibrary {
	lib := project.NewToolLibrary()
	lib.AddTool(model.Tool{
		Name: "6mm Endmill", Diameter: 6, Stepover: 0.4, PassDepth: 3,
		Type: model.ToolType{Kind: model.ToolEndmill, Diameter: 6},
	})
	return lib
}

func TestGenerateJobSheetWritesAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.pdf")
	err := GenerateJobSheet(sampleProject(), sampleLibrary(), path)
	require.NoError(t, err)

	assert.FileExists(t, path)
}

func TestGenerateLabelProducesPNGBytes(t *testing.T) {
	png, err := GenerateLabel(sampleProject())
	require.NoError(t, err)
	assert.NotEmpty(t, png)
	// PNG files start with an 8-byte signature.
	assert.Equal(t, byte(0x89), png[0])
	assert.Equal(t, byte('P'), png[1])
	assert.Equal(t, byte('N'), png[2])
	assert.Equal(t, byte('G'), png[3])
}

func TestToolTypeLabelVariants(t *testing.T) {
	assert.Equal(t, "Endmill", toolTypeLabel(model.ToolType{Kind: model.ToolEndmill}))
	assert.Equal(t, "Ballnose", toolTypeLabel(model.ToolType{Kind: model.ToolBallnose}))
	assert.Equal(t, "V-bit 60°", toolTypeLabel(model.ToolType{Kind: model.ToolVBit, AngleDegrees: 60}))
}

func TestOperationKindLabelVariants(t *testing.T) {
	assert.Equal(t, "Profile", operationKindLabel(model.OpProfile))
	assert.Equal(t, "Pocket", operationKindLabel(model.OpPocket))
	assert.Equal(t, "V-Carve", operationKindLabel(model.OpVCarve))
}
