package compose

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	ewimg "github.com/ironsheep/ewok/internal/imaging"
)

// Background defaults.
const (
	DefaultBackgroundColor = "#FFFFFF"
	DefaultGradientStart   = "#FFFFFF"
	DefaultGradientEnd     = "#000000"
	DefaultPatternColor1   = "#FFFFFF"
	DefaultPatternColor2   = "#E0E0E0"
)

// Pattern geometry.
const (
	dotDiameter     = 20
	dotSpacing      = 40
	stripeWidth     = 30
	checkerSize     = 40
	burstSpacing    = 120
	burstRays       = 8
	burstRayLength  = 40
	burstCenterSize = 4
	sunburstArcStep = 10
)

// renderBackground builds an opaque layer of the canvas size and composites
// the canvas over it. It returns the canvas unchanged and false when the
// background type is unknown.
func renderBackground(canvas *image.NRGBA, bg *Background) (*image.NRGBA, bool, error) {
	w, h := canvas.Bounds().Dx(), canvas.Bounds().Dy()

	var (
		layer *image.NRGBA
		err   error
	)
	switch bg.Type {
	case BackgroundUnset, BackgroundColor:
		layer, err = solidLayer(w, h, orDefault(bg.Color, DefaultBackgroundColor))
	case BackgroundGradient:
		layer, err = gradientLayer(w, h,
			orDefault(bg.StartColor, DefaultGradientStart),
			orDefault(bg.EndColor, DefaultGradientEnd),
			bg.Direction)
	case BackgroundPattern:
		layer, err = patternLayer(w, h,
			orDefault(bg.Color1, DefaultPatternColor1),
			orDefault(bg.Color2, DefaultPatternColor2),
			bg.Pattern)
	default:
		return canvas, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	// layer is opaque, so Overlay reduces to a masked paste of the canvas
	return imaging.Overlay(layer, canvas, image.Pt(0, 0), 1.0), true, nil
}

func solidLayer(w, h int, hex string) (*image.NRGBA, error) {
	c, err := ewimg.ParseHexColor(hex)
	if err != nil {
		return nil, err
	}
	return imaging.New(w, h, c), nil
}

// gradientLayer interpolates start..end per channel and truncates:
//
//	c = start*(1-ratio) + end*ratio
//
// with ratio = y/h (vertical), x/w (horizontal) or (x+y)/(w+h) (diagonal).
// Channel values are computed once per distinct ratio into a ramp table.
func gradientLayer(w, h int, startHex, endHex string, dir GradientDirection) (*image.NRGBA, error) {
	start, err := ewimg.ResolveRGB(startHex)
	if err != nil {
		return nil, err
	}
	end, err := ewimg.ResolveRGB(endHex)
	if err != nil {
		return nil, err
	}

	layer := image.NewNRGBA(image.Rect(0, 0, w, h))

	var ramp [][4]uint8
	switch dir {
	case GradientHorizontal:
		ramp = rampTable(start, end, w, w)
	case GradientDiagonal:
		ramp = rampTable(start, end, w+h-1, w+h)
	default:
		ramp = rampTable(start, end, h, h)
	}

	parallel.Line(h, func(startY, endY int) {
		for y := startY; y < endY; y++ {
			row := layer.Pix[y*layer.Stride : y*layer.Stride+w*4]
			for x := 0; x < w; x++ {
				var c [4]uint8
				switch dir {
				case GradientHorizontal:
					c = ramp[x]
				case GradientDiagonal:
					c = ramp[x+y]
				default:
					c = ramp[y]
				}
				copy(row[x*4:x*4+4], c[:])
			}
		}
	})

	return layer, nil
}

// rampTable returns n opaque colours for ratio i/span, i in [0,n).
func rampTable(start, end ewimg.RGBColor, n, span int) [][4]uint8 {
	ramp := make([][4]uint8, max(n, 0))
	for i := range ramp {
		r := float64(i) / float64(span)
		ramp[i] = [4]uint8{
			uint8(float64(start.R)*(1-r) + float64(end.R)*r),
			uint8(float64(start.G)*(1-r) + float64(end.G)*r),
			uint8(float64(start.B)*(1-r) + float64(end.B)*r),
			255,
		}
	}
	return ramp
}

// patternLayer draws the pattern in color2 over a color1 fill. Unknown
// pattern kinds leave only the fill.
func patternLayer(w, h int, hex1, hex2 string, kind PatternKind) (*image.NRGBA, error) {
	c1, err := ewimg.ParseHexColor(hex1)
	if err != nil {
		return nil, err
	}
	c2, err := ewimg.ParseHexColor(hex2)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(c1)
	dc.Clear()
	dc.SetColor(c2)

	switch kind {
	case PatternDots:
		drawDots(dc, w, h)
	case PatternStripes:
		drawStripes(dc, w, h)
	case PatternChecker:
		drawChecker(dc, w, h)
	case PatternStarburst:
		drawStarbursts(dc, w, h)
	case PatternSunburst:
		drawSunburst(dc, w, h)
	}

	return imaging.Clone(dc.Image()), nil
}

func drawDots(dc *gg.Context, w, h int) {
	r := float64(dotDiameter) / 2
	for x := 0; x < w; x += dotSpacing {
		for y := 0; y < h; y += dotSpacing {
			dc.DrawCircle(float64(x)+r, float64(y)+r, r)
		}
	}
	dc.Fill()
}

func drawStripes(dc *gg.Context, w, h int) {
	for x := 0; x < w; x += stripeWidth * 2 {
		dc.DrawRectangle(float64(x), 0, stripeWidth, float64(h))
	}
	dc.Fill()
}

func drawChecker(dc *gg.Context, w, h int) {
	for x := 0; x < w; x += checkerSize {
		for y := 0; y < h; y += checkerSize {
			if (x/checkerSize+y/checkerSize)%2 == 1 {
				dc.DrawRectangle(float64(x), float64(y), checkerSize, checkerSize)
			}
		}
	}
	dc.Fill()
}

func drawStarbursts(dc *gg.Context, w, h int) {
	step := 2 * math.Pi / burstRays
	short := burstRayLength * 0.6

	for cx := burstSpacing / 2; cx < w; cx += burstSpacing {
		for cy := burstSpacing / 2; cy < h; cy += burstSpacing {
			x, y := float64(cx), float64(cy)
			for i := 0; i < burstRays; i++ {
				angle := step * float64(i)

				dc.SetLineWidth(2)
				dc.DrawLine(x, y, x+burstRayLength*math.Cos(angle), y+burstRayLength*math.Sin(angle))
				dc.Stroke()

				mid := angle + step/2
				dc.SetLineWidth(1)
				dc.DrawLine(x, y, x+short*math.Cos(mid), y+short*math.Sin(mid))
				dc.Stroke()
			}
			dc.DrawCircle(x, y, burstCenterSize)
			dc.Fill()
		}
	}
}

// drawSunburst fills every other wedge of a single burst centred on the
// canvas. Rays reach 1.2x the farthest corner so the wedges cover the
// canvas; each arc is approximated by sunburstArcStep segments.
func drawSunburst(dc *gg.Context, w, h int) {
	cx, cy := w/2, h/2

	rays := 20
	switch side := min(w, h); {
	case side < 400:
		rays = 12
	case side < 800:
		rays = 16
	}

	farthest := 0.0
	for _, corner := range [][2]int{{0, 0}, {w, 0}, {0, h}, {w, h}} {
		farthest = math.Max(farthest, math.Hypot(float64(corner[0]-cx), float64(corner[1]-cy)))
	}
	length := float64(int(farthest * 1.2))

	x, y := float64(cx), float64(cy)
	perRay := 2 * math.Pi / float64(rays)
	for i := 0; i < rays; i += 2 {
		from := perRay * float64(i)
		dc.MoveTo(x, y)
		for s := 0; s <= sunburstArcStep; s++ {
			a := from + perRay*float64(s)/sunburstArcStep
			dc.LineTo(x+length*math.Cos(a), y+length*math.Sin(a))
		}
		dc.ClosePath()
		dc.Fill()
	}
}
