package compose

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/text/unicode/norm"

	ewimg "github.com/ironsheep/ewok/internal/imaging"
)

// Glow geometry: rings every pixel out to strength*2, each ring drawn at
// glowPoints evenly spaced angles, never more than glowMaxOpacity opaque.
const (
	glowPoints     = 12
	glowMaxOpacity = 0.3
)

// MaxEffectStrength caps effect_strength. Outline and glow cost grows with
// the square of the strength.
const MaxEffectStrength = 32

var glowMaxAlpha = uint8(math.Round(255 * glowMaxOpacity))

// textBox is the ink extent of a string relative to its drawing origin.
type textBox struct {
	minX, minY int
	w, h       int
}

func measure(face font.Face, s string) textBox {
	b, _ := font.BoundString(face, s)
	minX, minY := b.Min.X.Floor(), b.Min.Y.Floor()
	return textBox{
		minX: minX,
		minY: minY,
		w:    b.Max.X.Ceil() - minX,
		h:    b.Max.Y.Ceil() - minY,
	}
}

// origin converts the desired top-left corner of the ink box into the
// baseline origin expected by gg.
func (b textBox) origin(x, y int) (float64, float64) {
	return float64(x - b.minX), float64(y - b.minY)
}

// renderText draws every overlay with non-empty text onto one transparent
// layer, in list order, then composites the layer over the canvas. It
// reports whether anything was drawn.
func (r *run) renderText(canvas *image.NRGBA, overlays []TextOverlay) (bool, error) {
	w, h := canvas.Bounds().Dx(), canvas.Bounds().Dy()
	var dc *gg.Context

	for i, o := range overlays {
		text := norm.NFC.String(o.Text)
		if text == "" {
			r.log.Debug().Int("overlay", i).Msg("empty text overlay skipped")
			continue
		}

		fill, err := ewimg.ParseHexColor(o.color())
		if err != nil {
			return false, err
		}
		var effect color.NRGBA
		if o.Effect != EffectNone {
			if effect, err = ewimg.ParseHexColor(o.effectColor()); err != nil {
				return false, err
			}
		}

		strength := o.strength()
		if o.Effect != EffectNone && strength > MaxEffectStrength {
			r.warn("text overlay %d: effect strength %d reduced to %d", i, strength, MaxEffectStrength)
			strength = MaxEffectStrength
		}

		if dc == nil {
			dc = gg.NewContext(w, h)
		}
		face, source := r.p.fonts.Face(o.size())
		dc.SetFontFace(face)
		box := measure(face, text)

		// centre the ink box on the resolved point, then keep it on canvas
		x := o.X.Resolve(w, 0) - box.w/2
		y := o.Y.Resolve(h, 0) - box.h/2
		x = max(0, min(x, w-box.w))
		y = max(0, min(y, h-box.h))
		ox, oy := box.origin(x, y)

		r.log.Debug().
			Int("overlay", i).
			Str("font", source).
			Int("x", x).Int("y", y).
			Int("width", box.w).Int("height", box.h).
			Stringer("effect", o.Effect).
			Msg("drawing text overlay")

		drawEffect(dc, face, text, box, x, y, o.Effect, effect, strength)

		dc.SetColor(fill)
		dc.DrawString(text, ox, oy)
		face.Close()
	}

	if dc == nil {
		return false, nil
	}
	blendOver(canvas, dc.Image().(*image.RGBA))
	return true, nil
}

// drawEffect draws the decoration beneath the main text whose ink box has
// its top-left corner at (x, y).
func drawEffect(dc *gg.Context, face font.Face, text string, box textBox, x, y int, kind EffectKind, c color.NRGBA, strength int) {
	ox, oy := box.origin(x, y)
	switch kind {
	case EffectShadow:
		dc.SetColor(c)
		dc.DrawString(text, ox+float64(strength), oy+float64(strength))

	case EffectOutline:
		dc.SetColor(c)
		for dx := -strength; dx <= strength; dx++ {
			for dy := -strength; dy <= strength; dy++ {
				if dx == 0 && dy == 0 {
					continue
				}
				dc.DrawString(text, ox+float64(dx), oy+float64(dy))
			}
		}

	case EffectGlow:
		drawGlow(dc.Image().(*image.RGBA), face, text, box, x, y, c, strength)
	}
}

// drawGlow stamps the text coverage at glowPoints angles on every ring out
// to strength*2 pixels. Each pixel keeps the strongest ring that reaches
// it, so overlapping stamps never add up past glowMaxAlpha. The finished
// halo is composited onto layer once.
func drawGlow(layer *image.RGBA, face font.Face, text string, box textBox, x, y int, c color.NRGBA, strength int) {
	maxRadius := strength * 2
	if maxRadius <= 0 {
		return
	}

	// only the part of the text that can reach the layer is rasterised
	ink := image.Rect(x, y, x+box.w, y+box.h).Inset(-1)
	visible := ink.Intersect(layer.Bounds().Inset(-maxRadius))
	area := visible.Inset(-maxRadius).Intersect(layer.Bounds())
	if visible.Empty() || area.Empty() {
		return
	}

	ox, oy := box.origin(x, y)
	mask := textMask(face, text, ox, oy, visible)
	cov := image.NewAlpha(area)

	for radius := maxRadius; radius > 0; radius-- {
		alpha := min(uint8(255*(1-float64(radius)/float64(maxRadius))*glowMaxOpacity), glowMaxAlpha)
		if alpha == 0 {
			continue
		}
		for p := 0; p < glowPoints; p++ {
			angle := 2 * math.Pi * float64(p) / glowPoints
			dx := int(math.Round(float64(radius) * math.Cos(angle)))
			dy := int(math.Round(float64(radius) * math.Sin(angle)))
			stampMax(cov, mask, dx, dy, alpha)
		}
	}

	halo := image.NewNRGBA(area)
	for py := area.Min.Y; py < area.Max.Y; py++ {
		for px := area.Min.X; px < area.Max.X; px++ {
			if a := cov.AlphaAt(px, py).A; a != 0 {
				halo.SetNRGBA(px, py, color.NRGBA{c.R, c.G, c.B, a})
			}
		}
	}
	draw.Draw(layer, area, halo, area.Min, draw.Over)
}

// textMask renders text in opaque white with its baseline origin at
// (ox, oy) and returns the coverage inside r.
func textMask(face font.Face, text string, ox, oy float64, r image.Rectangle) *image.Alpha {
	dc := gg.NewContext(r.Dx(), r.Dy())
	dc.SetFontFace(face)
	dc.SetColor(color.White)
	dc.DrawString(text, ox-float64(r.Min.X), oy-float64(r.Min.Y))

	img := dc.Image().(*image.RGBA)
	mask := image.NewAlpha(r)
	for i := range mask.Pix {
		mask.Pix[i] = img.Pix[i*4+3]
	}
	return mask
}

// stampMax raises cov to mask*alpha/255 with the mask shifted by (dx, dy).
// Pixels landing outside cov are ignored.
func stampMax(cov, mask *image.Alpha, dx, dy int, alpha uint8) {
	mb, cb := mask.Bounds(), cov.Bounds()
	for my := mb.Min.Y; my < mb.Max.Y; my++ {
		py := my + dy
		if py < cb.Min.Y || py >= cb.Max.Y {
			continue
		}
		row := mask.Pix[mask.PixOffset(mb.Min.X, my):][:mb.Dx()]
		for i, m := range row {
			px := mb.Min.X + i + dx
			if m == 0 || px < cb.Min.X || px >= cb.Max.X {
				continue
			}
			v := uint8(uint32(m) * uint32(alpha) / 255)
			if k := cov.PixOffset(px, py); v > cov.Pix[k] {
				cov.Pix[k] = v
			}
		}
	}
}
