package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Placement guide defaults.
const (
	DefaultGuideDivisions = 4
	MaxGuideDivisions     = 20
	DefaultGuideColor     = "#FF000080"
)

// GuideLine is one guide line: its percentage and pixel offset along the axis.
type GuideLine struct {
	Percent float64 `json:"percent"`
	Pixel   int     `json:"pixel"`
}

// PlacementGuide describes the lines drawn by DrawPlacementGuide.
type PlacementGuide struct {
	Divisions int         `json:"divisions"`
	Columns   []GuideLine `json:"columns"`
	Rows      []GuideLine `json:"rows"`
}

// DrawPlacementGuide returns a copy of img with percentage guide lines
// dividing each axis into equal parts, each labelled with its percentage.
// A line at p% sits at the pixel an overlay position of "p%" resolves to.
//
// Parameters:
//   - divisions: Number of equal parts per axis. Values below 2 use
//     DefaultGuideDivisions; values above MaxGuideDivisions are clamped.
//   - lineColor: "#RRGGBB" or "#RRGGBBAA"; empty means DefaultGuideColor.
//
// Returns an error wrapping ErrInvalidColorFormat for a bad colour.
func DrawPlacementGuide(img image.Image, divisions int, lineColor string) (*image.NRGBA, *PlacementGuide, error) {
	if divisions < 2 {
		divisions = DefaultGuideDivisions
	}
	divisions = min(divisions, MaxGuideDivisions)
	if lineColor == "" {
		lineColor = DefaultGuideColor
	}
	c, err := ParseColorToken(lineColor)
	if err != nil {
		return nil, nil, err
	}

	canvas := ToCanvas(img)
	w, h := canvas.Bounds().Dx(), canvas.Bounds().Dy()
	guide := &PlacementGuide{
		Divisions: divisions,
		Columns:   guideLines(w, divisions),
		Rows:      guideLines(h, divisions),
	}

	dc := gg.NewContextForImage(canvas)
	dc.SetLineWidth(1)
	dc.SetColor(c)
	for _, l := range guide.Columns {
		dc.DrawLine(float64(l.Pixel)+0.5, 0, float64(l.Pixel)+0.5, float64(h))
	}
	for _, l := range guide.Rows {
		dc.DrawLine(0, float64(l.Pixel)+0.5, float64(w), float64(l.Pixel)+0.5)
	}
	dc.Stroke()

	dc.SetFontFace(basicfont.Face7x13)
	for _, l := range guide.Columns {
		label(dc, fmt.Sprintf("%g%%", l.Percent), float64(l.Pixel)+3, 2)
	}
	for _, l := range guide.Rows {
		label(dc, fmt.Sprintf("%g%%", l.Percent), 3, float64(l.Pixel)+3)
	}

	return imaging.Clone(dc.Image()), guide, nil
}

func guideLines(dim, divisions int) []GuideLine {
	lines := make([]GuideLine, 0, divisions-1)
	for k := 1; k < divisions; k++ {
		p := float64(k) * 100 / float64(divisions)
		lines = append(lines, GuideLine{Percent: p, Pixel: int(p / 100 * float64(dim))})
	}
	return lines
}

// label draws white text on a dark box with its top-left corner at (x, y).
func label(dc *gg.Context, text string, x, y float64) {
	tw, th := dc.MeasureString(text)
	dc.SetRGBA255(0, 0, 0, 180)
	dc.DrawRectangle(x-1, y-1, tw+2, th+4)
	dc.Fill()
	dc.SetRGB255(255, 255, 255)
	dc.DrawStringAnchored(text, x, y, 0, 1)
}
