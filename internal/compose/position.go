package compose

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// PositionKind tags how a Position is interpreted.
type PositionKind uint8

const (
	// PositionAbsent means no value was given; the stage default applies.
	PositionAbsent PositionKind = iota
	// PositionPixels is an absolute pixel offset.
	PositionPixels
	// PositionPercent is a percentage of the canvas dimension.
	PositionPercent
	// PositionInvalid is a value that could not be parsed. It resolves to
	// the centre of the dimension.
	PositionInvalid
)

// Position is an unresolved coordinate on one axis. It is resolved against
// a canvas dimension at render time and never stored resolved.
//
// JSON and YAML accept a number (pixels), a string such as "120" or "50%",
// or null. Strings that do not parse and values of any other type decode to
// PositionInvalid rather than failing the whole configuration.
type Position struct {
	Kind  PositionKind
	Value float64
}

// Pixels returns an absolute pixel position.
func Pixels(v float64) Position { return Position{Kind: PositionPixels, Value: v} }

// Percent returns a percentage position; Percent(50) is the centre.
func Percent(p float64) Position { return Position{Kind: PositionPercent, Value: p} }

// ParsePosition interprets a position string. A trailing '%' makes it a
// percentage; otherwise it must parse as a number of pixels.
func ParsePosition(s string) Position {
	s = strings.TrimSpace(s)
	if num, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil || !finite(v) {
			return Position{Kind: PositionInvalid}
		}
		return Percent(v)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(v) {
		return Position{Kind: PositionInvalid}
	}
	return Pixels(v)
}

// IsSet reports whether a value (valid or not) was supplied.
func (p Position) IsSet() bool { return p.Kind != PositionAbsent }

// Resolve converts the position to a pixel offset along an axis of length
// dim. Absent positions yield def; invalid ones yield dim/2. Results are
// truncated toward zero and never clamped here.
func (p Position) Resolve(dim, def int) int {
	switch p.Kind {
	case PositionAbsent:
		return def
	case PositionPixels:
		return int(p.Value)
	case PositionPercent:
		return int(p.Value / 100 * float64(dim))
	default:
		return dim / 2
	}
}

func (p Position) String() string {
	switch p.Kind {
	case PositionPixels:
		return strconv.FormatFloat(p.Value, 'f', -1, 64)
	case PositionPercent:
		return strconv.FormatFloat(p.Value, 'f', -1, 64) + "%"
	case PositionInvalid:
		return "invalid"
	}
	return "absent"
}

// UnmarshalJSON implements json.Unmarshaler. It never returns an error for
// well-formed JSON.
func (p *Position) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0:
		*p = Position{Kind: PositionInvalid}
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*p = Position{Kind: PositionInvalid}
			return nil
		}
		*p = ParsePosition(s)
	case data[0] == '-' || data[0] >= '0' && data[0] <= '9':
		v, err := strconv.ParseFloat(string(data), 64)
		if err != nil || !finite(v) {
			*p = Position{Kind: PositionInvalid}
			return nil
		}
		*p = Pixels(v)
	default:
		// null, booleans, objects and arrays
		*p = Position{Kind: PositionInvalid}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p Position) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case PositionPixels:
		return []byte(strconv.FormatFloat(p.Value, 'f', -1, 64)), nil
	case PositionPercent:
		return json.Marshal(p.String())
	}
	return []byte("null"), nil
}

// UnmarshalYAML implements yaml.Unmarshaler. Plain scalars go through
// ParsePosition so both `x: 40` and `x: 50%` work.
func (p *Position) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		*p = Position{Kind: PositionInvalid}
		return nil
	}
	switch node.ShortTag() {
	case "!!int", "!!float", "!!str":
		*p = ParsePosition(node.Value)
	default:
		*p = Position{Kind: PositionInvalid}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
