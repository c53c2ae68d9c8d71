package imaging

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColorFormat is returned for colour strings that are not six
// hexadecimal digits (optionally prefixed with '#').
var ErrInvalidColorFormat = errors.New("invalid color format")

// RGBColor represents an RGB color with 8-bit components.
//
// Each component ranges from 0 to 255, where:
//   - 0 represents no intensity (black for all components)
//   - 255 represents full intensity (white for all components)
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// NRGBA returns the colour as an opaque non-premultiplied colour.
func (c RGBColor) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// ResolveRGB decodes a colour string of the form "#RRGGBB" or "RRGGBB".
//
// Parameters:
//   - hex: Six hexadecimal digits, upper or lower case, with an optional
//     leading '#'.
//
// Returns:
//   - RGBColor: The decoded 8-bit components.
//   - error: Wraps ErrInvalidColorFormat when the input is not exactly six hex
//     digits. There is no fallback colour.
func ResolveRGB(hex string) (RGBColor, error) {
	digits := strings.TrimPrefix(hex, "#")
	if len(digits) != 6 || !isHexDigits(digits) {
		return RGBColor{}, fmt.Errorf("%w: %q", ErrInvalidColorFormat, hex)
	}

	c, err := colorful.Hex("#" + digits)
	if err != nil {
		return RGBColor{}, fmt.Errorf("%w: %q: %v", ErrInvalidColorFormat, hex, err)
	}
	r, g, b := c.RGB255()
	return RGBColor{R: r, G: g, B: b}, nil
}

// ParseHexColor decodes "#RRGGBB" into an opaque color.NRGBA.
func ParseHexColor(hex string) (color.NRGBA, error) {
	rgb, err := ResolveRGB(hex)
	if err != nil {
		return color.NRGBA{}, err
	}
	return rgb.NRGBA(), nil
}

// OpacityAlpha converts an opacity percentage (0-100) into an alpha byte,
// rounding half away from zero and clamping to [0,255]. 50% maps to 128.
func OpacityAlpha(percent float64) uint8 {
	a := math.Round(255 * percent / 100)
	switch {
	case math.IsNaN(a) || a < 0:
		return 0
	case a > 255:
		return 255
	}
	return uint8(a)
}

// WithAlpha appends a two-digit alpha byte to a six-digit colour, producing
// the eight-digit token "#RRGGBBAA" consumed by the text and watermark
// renderers.
func WithAlpha(hex string, alpha uint8) (string, error) {
	rgb, err := ResolveRGB(hex)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", rgb.R, rgb.G, rgb.B, alpha), nil
}

// WithOpacity is WithAlpha with the alpha byte computed from an opacity
// percentage by OpacityAlpha.
func WithOpacity(hex string, percent float64) (string, error) {
	return WithAlpha(hex, OpacityAlpha(percent))
}

// ParseColorToken decodes a "#RRGGBB" or "#RRGGBBAA" token. Six-digit tokens
// are opaque.
func ParseColorToken(token string) (color.NRGBA, error) {
	digits := strings.TrimPrefix(token, "#")
	switch len(digits) {
	case 6:
		return ParseHexColor(digits)
	case 8:
		c, err := ParseHexColor(digits[:6])
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColorFormat, token)
		}
		a, err := strconv.ParseUint(digits[6:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColorFormat, token)
		}
		c.A = uint8(a)
		return c, nil
	default:
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColorFormat, token)
	}
}

func isHexDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
