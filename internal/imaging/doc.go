// Package imaging provides the raster primitives of the compositing pipeline.
//
// It covers colour decoding, wallpaper sizing, tone adjustments, source-image
// decoding with an optional cache, and PNG encoding. All operations accept
// standard Go image.Image values and return *image.NRGBA canvases whose
// origin is (0,0), X increasing rightward and Y increasing downward.
//
// # Canvas Format
//
// The pipeline canvas is non-premultiplied RGBA (*image.NRGBA). ToCanvas
// upgrades any decoded image once at pipeline entry; every function in this
// package returns a new canvas or, when nothing changes, its input.
//
// # Colour Strings
//
// Colours arrive as six hex digits with an optional leading '#'. Malformed
// colours are a hard failure (ErrInvalidColorFormat) because there is no
// sensible visual default. WithAlpha and WithOpacity append an alpha byte to
// form the "#RRGGBBAA" token understood by ParseColorToken.
//
// # Sizing
//
// OptimizeSize picks caps from the aspect-ratio class and never upscales.
// ResizeToTarget always yields exactly the requested size using one of the
// FitMode strategies (fit, crop, stretch).
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. All other functions are stateless
// and can run concurrently on different images.
package imaging
