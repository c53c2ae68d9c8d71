package compose

import (
	"errors"
	"fmt"
	"image"
	"io/fs"

	"github.com/disintegration/imaging"

	ewimg "github.com/ironsheep/ewok/internal/imaging"
)

// ImageSource resolves a stored image by name for image overlays. Any
// error skips the overlay; errors matching fs.ErrNotExist are expected and
// only logged at debug level.
type ImageSource interface {
	LoadStoredImage(name string) (image.Image, error)
}

// ImageSourceFunc adapts a function to ImageSource.
type ImageSourceFunc func(name string) (image.Image, error)

// LoadStoredImage calls f(name).
func (f ImageSourceFunc) LoadStoredImage(name string) (image.Image, error) {
	return f(name)
}

// renderImageOverlays pastes each loadable overlay in list order and
// reports whether any was applied.
func (r *run) renderImageOverlays(canvas *image.NRGBA, overlays []ImageOverlay) bool {
	applied := false
	for i, o := range overlays {
		log := r.log.With().Int("overlay", i).Str("filename", o.Filename).Logger()

		if o.Filename == "" || r.p.images == nil {
			log.Debug().Msg("image overlay has no source; skipped")
			continue
		}

		src, err := r.p.images.LoadStoredImage(o.Filename)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Debug().Msg("image overlay not found; skipped")
			} else {
				log.Warn().Err(err).Msg("image overlay could not be loaded; skipped")
				r.warn("image overlay %q skipped: %v", o.Filename, err)
			}
			continue
		}

		ov, err := r.p.prepareOverlay(src, o)
		if err != nil {
			log.Warn().Err(err).Msg("image overlay skipped")
			r.warn("image overlay %q skipped: %v", o.Filename, err)
			continue
		}

		x := o.X.Resolve(canvas.Bounds().Dx(), 0)
		y := o.Y.Resolve(canvas.Bounds().Dy(), 0)
		log.Debug().Int("x", x).Int("y", y).
			Int("width", ov.Bounds().Dx()).Int("height", ov.Bounds().Dy()).
			Msg("pasting image overlay")

		pasteMasked(canvas, ov, x, y)
		applied = true
	}
	return applied
}

// prepareOverlay converts the overlay to NRGBA, applies the explicit size
// (each missing side keeps the source dimension) and scales its alpha by
// the configured opacity.
func (p *Pipeline) prepareOverlay(src image.Image, o ImageOverlay) (*image.NRGBA, error) {
	ov := imaging.Clone(src)

	if o.Width != nil || o.Height != nil {
		w, h := ov.Bounds().Dx(), ov.Bounds().Dy()
		if o.Width != nil {
			w = *o.Width
		}
		if o.Height != nil {
			h = *o.Height
		}
		if w <= 0 || h <= 0 {
			return nil, fmt.Errorf("invalid overlay size %dx%d", w, h)
		}
		if err := p.checkSize("overlay", float64(w), float64(h)); err != nil {
			return nil, err
		}
		ov = imaging.Resize(ov, w, h, imaging.Lanczos)
	}

	if o.Opacity != nil && *o.Opacity != 100 {
		ov = ewimg.ScaleAlpha(ov, *o.Opacity/100)
	}
	return ov, nil
}
