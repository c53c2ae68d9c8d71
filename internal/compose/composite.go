package compose

import (
	"image"

	"github.com/anthonynsimon/bild/parallel"
)

// blendOver alpha-composites a premultiplied drawing layer (as produced by
// gg) over the canvas in place. Pixels where the layer is fully transparent
// are left untouched. Both images must share the canvas bounds.
func blendOver(canvas *image.NRGBA, layer *image.RGBA) {
	w, h := canvas.Bounds().Dx(), canvas.Bounds().Dy()

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			dst := canvas.Pix[y*canvas.Stride : y*canvas.Stride+w*4]
			src := layer.Pix[y*layer.Stride : y*layer.Stride+w*4]
			for i := 0; i < len(dst); i += 4 {
				sa := src[i+3]
				if sa == 0 {
					continue
				}
				fa := float64(sa) / 255
				da := float64(dst[i+3]) / 255
				outA := fa + da*(1-fa)
				for c := 0; c < 3; c++ {
					// src is premultiplied, dst is not
					v := (float64(src[i+c])/255 + float64(dst[i+c])/255*da*(1-fa)) / outA
					dst[i+c] = unit8(v)
				}
				dst[i+3] = unit8(outA)
			}
		}
	})
}

// pasteMasked pastes src onto the canvas with its top-left corner at
// (x, y), using src's own alpha as the mask for all four channels:
//
//	out = (src*m + dst*(255-m)) / 255
//
// rounded to nearest. Transparent source pixels leave the canvas as is.
// Parts of src falling outside the canvas are clipped.
func pasteMasked(canvas, src *image.NRGBA, x, y int) {
	dstRect := src.Bounds().Sub(src.Bounds().Min).Add(image.Pt(x, y)).Intersect(canvas.Bounds())
	if dstRect.Empty() {
		return
	}
	sx0, sy0 := dstRect.Min.X-x+src.Bounds().Min.X, dstRect.Min.Y-y+src.Bounds().Min.Y
	rowBytes := dstRect.Dx() * 4

	parallel.Line(dstRect.Dy(), func(start, end int) {
		for row := start; row < end; row++ {
			di := canvas.PixOffset(dstRect.Min.X, dstRect.Min.Y+row)
			si := src.PixOffset(sx0, sy0+row)
			dst := canvas.Pix[di : di+rowBytes]
			s := src.Pix[si : si+rowBytes]
			for i := 0; i < rowBytes; i += 4 {
				m := uint32(s[i+3])
				switch m {
				case 0:
					continue
				case 255:
					copy(dst[i:i+4], s[i:i+4])
					continue
				}
				for c := 0; c < 4; c++ {
					dst[i+c] = div255(uint32(s[i+c])*m + uint32(dst[i+c])*(255-m))
				}
			}
		}
	})
}

// div255 divides by 255 rounding to nearest, exact for v <= 255*255.
func div255(v uint32) uint8 {
	v += 128
	return uint8((v + v>>8) >> 8)
}

func unit8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
