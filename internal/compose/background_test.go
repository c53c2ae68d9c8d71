package compose

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/ewok/internal/imaging"
)

func filled(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func transparent(w, h int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, w, h))
}

func TestRenderBackground_Gradient(t *testing.T) {
	tests := []struct {
		name      string
		dir       GradientDirection
		first     image.Point
		last      image.Point
		lastLevel uint8
	}{
		// 255 * 99/100 = 252.45
		{"horizontal", GradientHorizontal, image.Pt(0, 5), image.Pt(99, 5), 252},
		{"vertical", GradientVertical, image.Pt(5, 0), image.Pt(5, 49), 249},
		// 255 * 148/150 = 251.6
		{"diagonal", GradientDiagonal, image.Pt(0, 0), image.Pt(99, 49), 251},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bg := &Background{Type: BackgroundGradient, StartColor: "#000000", EndColor: "#FFFFFF", Direction: tt.dir}
			out, applied, err := renderBackground(transparent(100, 50), bg)
			require.NoError(t, err)
			require.True(t, applied)

			assert.Equal(t, color.NRGBA{0, 0, 0, 255}, out.NRGBAAt(tt.first.X, tt.first.Y))
			l := tt.lastLevel
			assert.Equal(t, color.NRGBA{l, l, l, 255}, out.NRGBAAt(tt.last.X, tt.last.Y))
		})
	}
}

func TestRenderBackground_GradientIsMonotonic(t *testing.T) {
	bg := &Background{Type: BackgroundGradient, StartColor: "#000000", EndColor: "#FFFFFF", Direction: GradientHorizontal}
	out, _, err := renderBackground(transparent(64, 4), bg)
	require.NoError(t, err)

	prev := -1
	for x := 0; x < 64; x++ {
		v := int(out.NRGBAAt(x, 2).R)
		assert.GreaterOrEqual(t, v, prev)
		prev = v
	}
}

func TestRenderBackground_ColorUnderTransparentCanvas(t *testing.T) {
	canvas := transparent(10, 10)
	canvas.SetNRGBA(3, 3, color.NRGBA{0, 0, 255, 255})

	out, applied, err := renderBackground(canvas, &Background{Color: "#FF0000"})
	require.NoError(t, err)
	require.True(t, applied)

	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{0, 0, 255, 255}, out.NRGBAAt(3, 3), "opaque canvas pixels stay on top")
}

func TestRenderBackground_Patterns(t *testing.T) {
	white := color.NRGBA{255, 255, 255, 255}
	black := color.NRGBA{0, 0, 0, 255}

	tests := []struct {
		kind  PatternKind
		point image.Point
		want  color.NRGBA
	}{
		{PatternDots, image.Pt(10, 10), black},
		{PatternDots, image.Pt(30, 30), white},
		{PatternStripes, image.Pt(15, 40), black},
		{PatternStripes, image.Pt(45, 40), white},
		{PatternChecker, image.Pt(20, 20), white},
		{PatternChecker, image.Pt(60, 20), black},
		{PatternChecker, image.Pt(20, 60), black},
		{PatternChecker, image.Pt(60, 60), white},
		{PatternStarburst, image.Pt(60, 60), black},
		{PatternStarburst, image.Pt(5, 5), white},
		{PatternUnknown, image.Pt(10, 10), white},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			bg := &Background{Type: BackgroundPattern, Pattern: tt.kind, Color1: "#FFFFFF", Color2: "#000000"}
			out, _, err := renderBackground(transparent(160, 160), bg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.NRGBAAt(tt.point.X, tt.point.Y), "pixel %v", tt.point)
		})
	}
}

func TestRenderBackground_Sunburst(t *testing.T) {
	bg := &Background{Type: BackgroundPattern, Pattern: PatternSunburst, Color1: "#FFFFFF", Color2: "#000000"}
	out, _, err := renderBackground(transparent(300, 200), bg)
	require.NoError(t, err)

	// 12 wedges of 30 degrees measured clockwise from +x; wedge 0 (filled)
	// lies just below the horizontal right of centre, wedge 1 is empty
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, out.NRGBAAt(250, 110))
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, out.NRGBAAt(190, 150))

	// wedge 10 (300..330 deg) is filled out to the top-right corner
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, out.NRGBAAt(299, 0))
}

func TestRenderBackground_UnknownTypeSkipped(t *testing.T) {
	canvas := filled(4, 4, color.NRGBA{1, 2, 3, 4})
	out, applied, err := renderBackground(canvas, &Background{Type: BackgroundUnknown, Color: "#FF0000"})
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Same(t, canvas, out)
}

func TestRenderBackground_InvalidColor(t *testing.T) {
	for _, bg := range []*Background{
		{Color: "#12345"},
		{Type: BackgroundGradient, StartColor: "nope"},
		{Type: BackgroundPattern, Color2: "#GGGGGG"},
	} {
		_, _, err := renderBackground(transparent(4, 4), bg)
		assert.True(t, errors.Is(err, imaging.ErrInvalidColorFormat), "background %+v: %v", bg, err)
	}
}
