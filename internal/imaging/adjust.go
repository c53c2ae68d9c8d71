package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// ToCanvas upgrades any image to a non-premultiplied RGBA canvas with its
// origin at (0,0). *image.NRGBA values already in that shape are returned
// as-is; everything else is copied.
func ToCanvas(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(img)
}

// ScaleAlpha multiplies every alpha value by factor, truncating. A factor of
// 0.5 turns an opaque image half transparent; colour channels are untouched.
func ScaleAlpha(img image.Image, factor float64) *image.NRGBA {
	factor = math.Max(factor, 0)
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		c.A = uint8(math.Min(float64(c.A)*factor, 255))
		return c
	})
}

// EnhanceColor adjusts colour intensity by blending each pixel with its own
// luma:
//
//	gray = (299*R + 587*G + 114*B) / 1000
//	out  = gray + factor*(c - gray)
//
// factor 0 yields grayscale, 1 is the identity and values above 1 boost
// saturation. Results are clamped to [0,255]; alpha is preserved.
func EnhanceColor(img image.Image, factor float64) *image.NRGBA {
	if factor == 1 {
		return imaging.Clone(img)
	}
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		gray := float64(299*int(c.R)+587*int(c.G)+114*int(c.B)) / 1000
		c.R = clampChannel(gray + factor*(float64(c.R)-gray))
		c.G = clampChannel(gray + factor*(float64(c.G)-gray))
		c.B = clampChannel(gray + factor*(float64(c.B)-gray))
		return c
	})
}

// ScalePercent resizes both dimensions by percent/100, truncating each to a
// minimum of one pixel. Resampling uses the Lanczos filter.
func ScalePercent(img image.Image, percent float64) *image.NRGBA {
	b := img.Bounds()
	factor := percent / 100
	w := max(int(float64(b.Dx())*factor), 1)
	h := max(int(float64(b.Dy())*factor), 1)
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

func clampChannel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}
