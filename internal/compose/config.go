package compose

import (
	"strings"

	"github.com/ironsheep/ewok/internal/imaging"
)

// Config is the declarative edit description for one render. Every field
// is optional; the zero Config renders the source unchanged.
//
// Percentages (Opacity, Saturation, Resize) are pointers so that an explicit
// 100 and an absent field both mean "leave as is" while 0 stays meaningful.
type Config struct {
	Opacity    *float64 `json:"opacity,omitempty" yaml:"opacity,omitempty"`
	Saturation *float64 `json:"saturation,omitempty" yaml:"saturation,omitempty"`
	Resize     *float64 `json:"resize,omitempty" yaml:"resize,omitempty"`

	WallpaperMode   bool            `json:"wallpaper_mode,omitempty" yaml:"wallpaper_mode,omitempty"`
	WallpaperPreset string          `json:"wallpaper_preset,omitempty" yaml:"wallpaper_preset,omitempty"`
	FitMode         imaging.FitMode `json:"fit_mode,omitempty" yaml:"fit_mode,omitempty"`

	TextOverlays  []TextOverlay  `json:"text_overlays,omitempty" yaml:"text_overlays,omitempty"`
	ImageOverlays []ImageOverlay `json:"image_overlays,omitempty" yaml:"image_overlays,omitempty"`
	Background    *Background    `json:"background,omitempty" yaml:"background,omitempty"`
	Watermark     *Watermark     `json:"watermark,omitempty" yaml:"watermark,omitempty"`
}

// Defaults shared by the text and watermark renderers.
const (
	DefaultTextSize       = 24
	DefaultTextColor      = "#FFFFFF"
	DefaultEffectColor    = "#000000"
	DefaultEffectStrength = 3
	DefaultWatermarkAlpha = 50
)

// TextOverlay is one piece of styled text. Empty Text is a no-op.
type TextOverlay struct {
	Text           string     `json:"text" yaml:"text"`
	X              Position   `json:"x" yaml:"x"`
	Y              Position   `json:"y" yaml:"y"`
	Size           float64    `json:"size,omitempty" yaml:"size,omitempty"`
	Color          string     `json:"color,omitempty" yaml:"color,omitempty"`
	Effect         EffectKind `json:"text_effect,omitempty" yaml:"text_effect,omitempty"`
	EffectColor    string     `json:"effect_color,omitempty" yaml:"effect_color,omitempty"`
	EffectStrength *int       `json:"effect_strength,omitempty" yaml:"effect_strength,omitempty"`
}

func (t TextOverlay) size() float64 {
	if t.Size <= 0 {
		return DefaultTextSize
	}
	return t.Size
}

func (t TextOverlay) color() string { return orDefault(t.Color, DefaultTextColor) }

func (t TextOverlay) effectColor() string { return orDefault(t.EffectColor, DefaultEffectColor) }

func (t TextOverlay) strength() int {
	if t.EffectStrength == nil {
		return DefaultEffectStrength
	}
	return max(*t.EffectStrength, 0)
}

// ImageOverlay references a previously stored image by name.
type ImageOverlay struct {
	Filename string   `json:"filename" yaml:"filename"`
	Width    *int     `json:"width,omitempty" yaml:"width,omitempty"`
	Height   *int     `json:"height,omitempty" yaml:"height,omitempty"`
	X        Position `json:"x" yaml:"x"`
	Y        Position `json:"y" yaml:"y"`
	Opacity  *float64 `json:"opacity,omitempty" yaml:"opacity,omitempty"`
}

// Background is a tagged variant; only the fields of the selected Type are
// read. A Background with no fields set is skipped.
type Background struct {
	Type BackgroundType `json:"type,omitempty" yaml:"type,omitempty"`

	Color string `json:"color,omitempty" yaml:"color,omitempty"`

	StartColor string            `json:"start_color,omitempty" yaml:"start_color,omitempty"`
	EndColor   string            `json:"end_color,omitempty" yaml:"end_color,omitempty"`
	Direction  GradientDirection `json:"direction,omitempty" yaml:"direction,omitempty"`

	Pattern PatternKind `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Color1  string      `json:"color1,omitempty" yaml:"color1,omitempty"`
	Color2  string      `json:"color2,omitempty" yaml:"color2,omitempty"`
}

// IsZero reports whether no background field was supplied.
func (b *Background) IsZero() bool {
	return b == nil || *b == Background{}
}

// Watermark is a text stamp placed at an anchor. Only WatermarkText is
// rendered; empty or whitespace-only Text is a no-op.
type Watermark struct {
	Type     WatermarkType `json:"type" yaml:"type"`
	Text     string        `json:"text" yaml:"text"`
	Position Anchor        `json:"position,omitempty" yaml:"position,omitempty"`
	Size     float64       `json:"size,omitempty" yaml:"size,omitempty"`
	Color    string        `json:"color,omitempty" yaml:"color,omitempty"`
	Opacity  *float64      `json:"opacity,omitempty" yaml:"opacity,omitempty"`
}

func (w *Watermark) opacity() float64 {
	if w.Opacity == nil {
		return DefaultWatermarkAlpha
	}
	return *w.Opacity
}

// EffectKind selects the decoration drawn beneath overlay text.
type EffectKind uint8

const (
	EffectNone EffectKind = iota
	EffectShadow
	EffectOutline
	EffectGlow
)

var effectNames = map[EffectKind]string{
	EffectNone:    "none",
	EffectShadow:  "shadow",
	EffectOutline: "outline",
	EffectGlow:    "glow",
}

func (e EffectKind) String() string { return effectNames[e] }

// UnmarshalText implements encoding.TextUnmarshaler. Unknown effects
// decode to EffectNone.
func (e *EffectKind) UnmarshalText(text []byte) error {
	*e = EffectNone
	lookupName(effectNames, text, e)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (e EffectKind) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// BackgroundType tags the Background variant.
type BackgroundType uint8

const (
	// BackgroundUnset is an absent type; it renders as BackgroundColor.
	BackgroundUnset BackgroundType = iota
	BackgroundColor
	BackgroundGradient
	BackgroundPattern
	// BackgroundUnknown is an unrecognised type; the stage is skipped.
	BackgroundUnknown
)

var backgroundNames = map[BackgroundType]string{
	BackgroundColor:    "color",
	BackgroundGradient: "gradient",
	BackgroundPattern:  "pattern",
}

func (b BackgroundType) String() string {
	switch b {
	case BackgroundUnset:
		return ""
	case BackgroundUnknown:
		return "unknown"
	}
	return backgroundNames[b]
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *BackgroundType) UnmarshalText(text []byte) error {
	*b = BackgroundUnknown
	lookupName(backgroundNames, text, b)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (b BackgroundType) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// GradientDirection is the axis a gradient interpolates along.
type GradientDirection uint8

const (
	GradientVertical GradientDirection = iota
	GradientHorizontal
	GradientDiagonal
)

var directionNames = map[GradientDirection]string{
	GradientVertical:   "vertical",
	GradientHorizontal: "horizontal",
	GradientDiagonal:   "diagonal",
}

func (d GradientDirection) String() string { return directionNames[d] }

// UnmarshalText implements encoding.TextUnmarshaler. Unknown directions
// decode to GradientVertical.
func (d *GradientDirection) UnmarshalText(text []byte) error {
	*d = GradientVertical
	lookupName(directionNames, text, d)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d GradientDirection) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// PatternKind selects the procedural pattern.
type PatternKind uint8

const (
	PatternDots PatternKind = iota
	PatternStripes
	PatternChecker
	PatternStarburst
	PatternSunburst
	// PatternUnknown draws only the base fill.
	PatternUnknown
)

var patternNames = map[PatternKind]string{
	PatternDots:      "dots",
	PatternStripes:   "stripes",
	PatternChecker:   "checker",
	PatternStarburst: "starburst",
	PatternSunburst:  "sunburst",
}

func (p PatternKind) String() string {
	if p == PatternUnknown {
		return "unknown"
	}
	return patternNames[p]
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *PatternKind) UnmarshalText(text []byte) error {
	*p = PatternUnknown
	lookupName(patternNames, text, p)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (p PatternKind) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// WatermarkType tags the Watermark variant.
type WatermarkType uint8

const (
	WatermarkNone WatermarkType = iota
	WatermarkText
)

func (w WatermarkType) String() string {
	if w == WatermarkText {
		return "text"
	}
	return ""
}

// UnmarshalText implements encoding.TextUnmarshaler. Anything but "text"
// decodes to WatermarkNone.
func (w *WatermarkType) UnmarshalText(text []byte) error {
	*w = WatermarkNone
	if strings.EqualFold(strings.TrimSpace(string(text)), "text") {
		*w = WatermarkText
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (w WatermarkType) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

// Anchor is a named watermark position.
type Anchor uint8

const (
	AnchorBottomRight Anchor = iota
	AnchorTopLeft
	AnchorTopRight
	AnchorBottomLeft
	AnchorCenter
	// AnchorUnknown is an unrecognised name; it is placed like bottom-left.
	AnchorUnknown
)

var anchorNames = map[Anchor]string{
	AnchorBottomRight: "bottom-right",
	AnchorTopLeft:     "top-left",
	AnchorTopRight:    "top-right",
	AnchorBottomLeft:  "bottom-left",
	AnchorCenter:      "center",
}

func (a Anchor) String() string {
	if a == AnchorUnknown {
		return "unknown"
	}
	return anchorNames[a]
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Anchor) UnmarshalText(text []byte) error {
	*a = AnchorUnknown
	lookupName(anchorNames, text, a)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (a Anchor) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func lookupName[K comparable](names map[K]string, text []byte, out *K) {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for k, name := range names {
		if name == s {
			*out = k
			return
		}
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
