package imaging

import (
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
)

// Aspect-ratio classes and their size caps used by OptimizeSize.
const (
	LandscapeRatio    = 1.5
	PortraitRatio     = 0.8
	LandscapeMaxWidth = 2560
	PortraitMaxHeight = 2560
	SquareMaxSide     = 1920
)

// FitMode selects how ResizeToTarget reconciles the source aspect ratio with
// the target box.
type FitMode int

const (
	// FitContain scales the image down to fit inside the target box and
	// centres it on a transparent canvas of the target size.
	FitContain FitMode = iota
	// FitCrop scales the image to cover the target box and centre-crops the
	// overflowing axis.
	FitCrop
	// FitStretch resizes directly to the target size, ignoring aspect ratio.
	FitStretch
)

// ParseFitMode maps "fit", "crop" and "stretch" to a FitMode. Anything else
// is FitContain.
func ParseFitMode(s string) FitMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "crop":
		return FitCrop
	case "stretch":
		return FitStretch
	default:
		return FitContain
	}
}

func (m FitMode) String() string {
	switch m {
	case FitCrop:
		return "crop"
	case FitStretch:
		return "stretch"
	default:
		return "fit"
	}
}

// UnmarshalText implements encoding.TextUnmarshaler. It never fails.
func (m *FitMode) UnmarshalText(text []byte) error {
	*m = ParseFitMode(string(text))
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (m FitMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// OptimizeSize shrinks an image to a size suited to its aspect-ratio class.
//
// Classification uses ratio = width / height:
//   - ratio > 1.5 (landscape): width is capped at 2560
//   - ratio < 0.8 (portrait): height is capped at 2560
//   - otherwise (square-ish): the larger side is capped at 1920
//
// Images already within their cap are returned unchanged; the function never
// upscales. The scaled dimension is derived from the capped one through the
// ratio and truncated. Resampling uses the Lanczos filter.
func OptimizeSize(img image.Image) *image.NRGBA {
	canvas := ToCanvas(img)
	w, h := canvas.Bounds().Dx(), canvas.Bounds().Dy()
	if w == 0 || h == 0 {
		return canvas
	}

	ratio := float64(w) / float64(h)
	var newW, newH int

	switch {
	case ratio > LandscapeRatio:
		if w <= LandscapeMaxWidth {
			return canvas
		}
		newW = LandscapeMaxWidth
		newH = int(float64(newW) / ratio)
	case ratio < PortraitRatio:
		if h <= PortraitMaxHeight {
			return canvas
		}
		newH = PortraitMaxHeight
		newW = int(float64(newH) * ratio)
	default:
		maxSide := max(w, h)
		if maxSide <= SquareMaxSide {
			return canvas
		}
		scale := float64(SquareMaxSide) / float64(maxSide)
		newW = int(float64(w) * scale)
		newH = int(float64(h) * scale)
	}

	return imaging.Resize(canvas, max(newW, 1), max(newH, 1), imaging.Lanczos)
}

// ResizeToTarget produces an image of exactly targetW x targetH.
//
// Modes:
//   - FitStretch: direct resize, distorting if the aspect ratios differ.
//   - FitCrop: if the source is relatively wider than the target it is scaled
//     to the target height and the excess width is cropped symmetrically;
//     otherwise (including equal ratios) it is scaled to the target width and
//     the excess height is cropped. No padding is ever introduced.
//   - FitContain: scaled down (never up) to fit inside the box, then centred
//     on a fully transparent canvas of the target size.
//
// Non-positive targets return the image unchanged.
func ResizeToTarget(img image.Image, targetW, targetH int, mode FitMode) *image.NRGBA {
	canvas := ToCanvas(img)
	if targetW <= 0 || targetH <= 0 {
		return canvas
	}

	switch mode {
	case FitStretch:
		return imaging.Resize(canvas, targetW, targetH, imaging.Lanczos)
	case FitCrop:
		return coverCrop(canvas, targetW, targetH)
	default:
		return containCentered(canvas, targetW, targetH)
	}
}

func coverCrop(canvas *image.NRGBA, targetW, targetH int) *image.NRGBA {
	w, h := canvas.Bounds().Dx(), canvas.Bounds().Dy()
	srcRatio := float64(w) / float64(h)
	targetRatio := float64(targetW) / float64(targetH)

	if srcRatio > targetRatio {
		newW := max(int(float64(targetH)*srcRatio), targetW)
		scaled := imaging.Resize(canvas, newW, targetH, imaging.Lanczos)
		left := (newW - targetW) / 2
		return imaging.Crop(scaled, image.Rect(left, 0, left+targetW, targetH))
	}

	// truncation can land one pixel short at (near) equal ratios
	newH := max(int(float64(targetW)/srcRatio), targetH)
	scaled := imaging.Resize(canvas, targetW, newH, imaging.Lanczos)
	top := (newH - targetH) / 2
	return imaging.Crop(scaled, image.Rect(0, top, targetW, top+targetH))
}

func containCentered(canvas *image.NRGBA, targetW, targetH int) *image.NRGBA {
	fitted := imaging.Fit(canvas, targetW, targetH, imaging.Lanczos)
	fw, fh := fitted.Bounds().Dx(), fitted.Bounds().Dy()

	result := imaging.New(targetW, targetH, color.NRGBA{})
	return imaging.Paste(result, fitted, image.Pt((targetW-fw)/2, (targetH-fh)/2))
}
