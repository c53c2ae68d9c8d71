package compose

import (
	"image"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/text/unicode/norm"

	ewimg "github.com/ironsheep/ewok/internal/imaging"
)

// WatermarkMargin is the distance kept from the canvas edges by every
// anchor except center.
const WatermarkMargin = 20

// watermarkOrigin returns the top-left corner of a w x h ink box placed at
// the anchor on a cw x ch canvas.
func watermarkOrigin(a Anchor, cw, ch, w, h int) (int, int) {
	switch a {
	case AnchorTopLeft:
		return WatermarkMargin, WatermarkMargin
	case AnchorTopRight:
		return cw - w - WatermarkMargin, WatermarkMargin
	case AnchorBottomRight:
		return cw - w - WatermarkMargin, ch - h - WatermarkMargin
	case AnchorCenter:
		return floorDiv(cw-w, 2), floorDiv(ch-h, 2)
	default:
		// bottom-left, and the fallback for unrecognised anchors
		return WatermarkMargin, ch - h - WatermarkMargin
	}
}

// renderWatermark stamps the watermark text once with the configured
// opacity. It reports whether anything was drawn.
func (r *run) renderWatermark(canvas *image.NRGBA, wm *Watermark) (bool, error) {
	if wm == nil || wm.Type != WatermarkText {
		return false, nil
	}
	text := strings.TrimSpace(norm.NFC.String(wm.Text))
	if text == "" {
		r.log.Debug().Msg("empty watermark skipped")
		return false, nil
	}

	token, err := ewimg.WithOpacity(orDefault(wm.Color, DefaultTextColor), wm.opacity())
	if err != nil {
		return false, err
	}
	c, err := ewimg.ParseColorToken(token)
	if err != nil {
		return false, err
	}

	size := wm.Size
	if size <= 0 {
		size = DefaultTextSize
	}
	face, source := r.p.fonts.Face(size)
	defer face.Close()

	cw, ch := canvas.Bounds().Dx(), canvas.Bounds().Dy()
	box := measure(face, text)
	x, y := watermarkOrigin(wm.Position, cw, ch, box.w, box.h)

	r.log.Debug().
		Str("font", source).
		Stringer("anchor", wm.Position).
		Str("color", token).
		Int("x", x).Int("y", y).
		Msg("drawing watermark")

	dc := gg.NewContext(cw, ch)
	dc.SetFontFace(face)
	dc.SetColor(c)
	ox, oy := box.origin(x, y)
	dc.DrawString(text, ox, oy)

	blendOver(canvas, dc.Image().(*image.RGBA))
	return true, nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
