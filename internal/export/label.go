package export

import (
	"encoding/json"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/chad-russell/rcarve/internal/project"
)

// LabelInfo is the data encoded into a project's QR label.
type LabelInfo struct {
	Name   string `json:"name"`
	Width  float64 `json:"stock_width_mm"`
	Height float64 `json:"stock_height_mm"`
}

// labelQRSize is the emitted QR code's side length in pixels.
const labelQRSize = 256

// GenerateLabel renders a single QR code PNG encoding proj's name and
// stock dimensions, for affixing to the stock or a job traveller.
func GenerateLabel(proj *project.Project) ([]byte, error) {
	info := LabelInfo{Name: proj.Meta.Name, Width: proj.Stock.Width, Height: proj.Stock.Height}
	data, err := json.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("export: marshal label info: %w", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, labelQRSize)
	if err != nil {
		return nil, fmt.Errorf("export: encode QR label: %w", err)
	}
	return png, nil
}
