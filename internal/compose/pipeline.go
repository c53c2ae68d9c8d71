package compose

import (
	"context"
	"fmt"
	"image"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"github.com/ironsheep/ewok/internal/fonts"
	ewimg "github.com/ironsheep/ewok/internal/imaging"
)

// Pipeline renders edit configurations onto source images. A Pipeline is
// immutable after New and safe for concurrent use; each Render owns its
// canvas exclusively.
type Pipeline struct {
	fonts   *fonts.Chain
	images  ImageSource
	presets *PresetTable

	maxPixels int
}

// DefaultMaxPixels bounds every raster a render allocates: three times the
// largest built-in preset, about 256 MiB as NRGBA.
const DefaultMaxPixels = 64 << 20

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithFonts sets the font fallback chain.
func WithFonts(c *fonts.Chain) Option {
	return func(p *Pipeline) { p.fonts = c }
}

// WithImageSource sets the lookup used by image overlays. Without one,
// every image overlay is skipped.
func WithImageSource(s ImageSource) Option {
	return func(p *Pipeline) { p.images = s }
}

// WithPresets replaces the wallpaper preset table.
func WithPresets(t *PresetTable) Option {
	return func(p *Pipeline) { p.presets = t }
}

// WithMaxPixels sets the largest raster, in pixels, a render may allocate.
// Non-positive values keep the default.
func WithMaxPixels(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxPixels = n
		}
	}
}

// New returns a Pipeline using the system font candidates and the default
// preset table unless overridden.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.fonts == nil {
		p.fonts = fonts.NewChain(fonts.DefaultCandidates...)
	}
	if p.presets == nil {
		p.presets = DefaultPresets()
	}
	if p.maxPixels == 0 {
		p.maxPixels = DefaultMaxPixels
	}
	return p
}

// MaxPixels reports the raster size limit.
func (p *Pipeline) MaxPixels() int { return p.maxPixels }

// checkSize fails with ErrTooLarge unless a w x h raster fits the limit.
// Sides below one pixel count as one.
func (p *Pipeline) checkSize(what string, w, h float64) error {
	if area := math.Max(w, 1) * math.Max(h, 1); area <= float64(p.maxPixels) {
		return nil
	}
	return fmt.Errorf("%w: %s of %.0fx%.0f exceeds %d pixels", ErrTooLarge, what, w, h, p.maxPixels)
}

// Presets returns the wallpaper preset table.
func (p *Pipeline) Presets() *PresetTable { return p.presets }

// Result is a finished render.
type Result struct {
	Image  *image.NRGBA
	Width  int
	Height int

	// Warnings lists recoverable conditions, such as an unknown preset,
	// that changed the output without failing the render.
	Warnings []string
}

// Encode writes the result as PNG.
func (r *Result) Encode(w io.Writer) error {
	return ewimg.EncodePNG(w, r.Image)
}

// run is the state of a single Render call.
type run struct {
	p        *Pipeline
	cfg      Config
	log      *zerolog.Logger
	warnings []string
}

func (r *run) warn(format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

// Render applies cfg to src and returns the final raster. Stages run in a
// fixed order: tone adjustments, wallpaper sizing, text overlays, image
// overlays, background, watermark. Stages with nothing to do are skipped
// entirely, so an empty Config returns an RGBA copy of src.
//
// The source image is never modified. A failing stage aborts the render
// with a *StageError and no partial result. The logger is taken from ctx
// (see zerolog.Ctx); cancellation is checked between stages.
func (p *Pipeline) Render(ctx context.Context, src image.Image, cfg Config) (*Result, error) {
	if src == nil || src.Bounds().Empty() {
		return nil, &StageError{Stage: StageSource, Err: ErrEmptySource}
	}

	r := &run{p: p, cfg: cfg, log: zerolog.Ctx(ctx)}
	canvas := imaging.Clone(src)

	stages := []struct {
		name Stage
		fn   func(*image.NRGBA) (*image.NRGBA, error)
	}{
		{StageAdjust, r.adjust},
		{StageWallpaper, r.wallpaper},
		{StageText, r.text},
		{StageImageOverlays, r.imageOverlays},
		{StageBackground, r.background},
		{StageWatermark, r.watermark},
	}

	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := s.fn(canvas)
		if err != nil {
			r.log.Error().Err(err).Str("stage", string(s.name)).Msg("render failed")
			return nil, &StageError{Stage: s.name, Err: err}
		}
		canvas = next
	}

	b := canvas.Bounds()
	r.log.Debug().
		Int("width", b.Dx()).
		Int("height", b.Dy()).
		Int("warnings", len(r.warnings)).
		Msg("render complete")

	return &Result{
		Image:    canvas,
		Width:    b.Dx(),
		Height:   b.Dy(),
		Warnings: r.warnings,
	}, nil
}

func (r *run) adjust(canvas *image.NRGBA) (*image.NRGBA, error) {
	if v := r.cfg.Opacity; v != nil && *v != 100 {
		canvas = ewimg.ScaleAlpha(canvas, *v/100)
	}
	if v := r.cfg.Saturation; v != nil && *v != 100 {
		canvas = ewimg.EnhanceColor(canvas, *v/100)
	}
	if v := r.cfg.Resize; v != nil && *v != 100 {
		b := canvas.Bounds()
		if err := r.p.checkSize("resize", float64(b.Dx())**v/100, float64(b.Dy())**v/100); err != nil {
			return nil, err
		}
		canvas = ewimg.ScalePercent(canvas, *v)
	}
	return canvas, nil
}

func (r *run) wallpaper(canvas *image.NRGBA) (*image.NRGBA, error) {
	if !r.cfg.WallpaperMode || r.cfg.WallpaperPreset == "" {
		return canvas, nil
	}

	preset, ok := r.p.presets.Lookup(r.cfg.WallpaperPreset)
	if !ok {
		r.log.Warn().Str("preset", r.cfg.WallpaperPreset).Msg("unsupported wallpaper preset; resize skipped")
		r.warn("unsupported wallpaper preset %q; wallpaper resize skipped", r.cfg.WallpaperPreset)
		return canvas, nil
	}

	if preset.Auto {
		return ewimg.OptimizeSize(canvas), nil
	}
	// crop scales to cover the target before cutting, so thin sources can
	// need a much larger intermediate raster
	tw, th := float64(preset.Width), float64(preset.Height)
	if r.cfg.FitMode == ewimg.FitCrop {
		b := canvas.Bounds()
		if ratio := float64(b.Dx()) / float64(b.Dy()); ratio > tw/th {
			tw = th * ratio
		} else {
			th = tw / ratio
		}
	}
	if err := r.p.checkSize("wallpaper "+preset.Name, tw, th); err != nil {
		return nil, err
	}
	r.log.Debug().
		Str("preset", preset.Name).
		Int("width", preset.Width).
		Int("height", preset.Height).
		Stringer("fit_mode", r.cfg.FitMode).
		Msg("resizing for wallpaper")
	return ewimg.ResizeToTarget(canvas, preset.Width, preset.Height, r.cfg.FitMode), nil
}

func (r *run) text(canvas *image.NRGBA) (*image.NRGBA, error) {
	if len(r.cfg.TextOverlays) == 0 {
		return canvas, nil
	}
	_, err := r.renderText(canvas, r.cfg.TextOverlays)
	return canvas, err
}

func (r *run) imageOverlays(canvas *image.NRGBA) (*image.NRGBA, error) {
	r.renderImageOverlays(canvas, r.cfg.ImageOverlays)
	return canvas, nil
}

func (r *run) background(canvas *image.NRGBA) (*image.NRGBA, error) {
	if r.cfg.Background.IsZero() {
		return canvas, nil
	}
	out, applied, err := renderBackground(canvas, r.cfg.Background)
	if err != nil {
		return nil, err
	}
	if !applied {
		r.log.Debug().Stringer("type", r.cfg.Background.Type).Msg("unknown background type; skipped")
	}
	return out, nil
}

func (r *run) watermark(canvas *image.NRGBA) (*image.NRGBA, error) {
	_, err := r.renderWatermark(canvas, r.cfg.Watermark)
	return canvas, err
}
