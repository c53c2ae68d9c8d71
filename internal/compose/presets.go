package compose

// OptimizedPreset is the preset name that maps to the "auto" sentinel.
const OptimizedPreset = "Optimized"

// Preset is a named wallpaper target. Auto presets carry no dimensions;
// the size is derived from the source aspect ratio instead.
type Preset struct {
	Name   string `json:"name" yaml:"name"`
	Width  int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height int    `json:"height,omitempty" yaml:"height,omitempty"`
	Auto   bool   `json:"auto,omitempty" yaml:"auto,omitempty"`
}

// PresetTable is an ordered, read-only lookup of wallpaper presets.
type PresetTable struct {
	order []string
	byKey map[string]Preset
}

// NewPresetTable builds a table. Later entries replace earlier ones with
// the same name but keep the original position.
func NewPresetTable(presets ...Preset) *PresetTable {
	t := &PresetTable{byKey: make(map[string]Preset, len(presets))}
	for _, p := range presets {
		if _, ok := t.byKey[p.Name]; !ok {
			t.order = append(t.order, p.Name)
		}
		t.byKey[p.Name] = p
	}
	return t
}

// DefaultPresets returns the built-in device table.
func DefaultPresets() *PresetTable {
	return NewPresetTable(
		Preset{Name: "iPhone 15 Pro", Width: 1179, Height: 2556},
		Preset{Name: "iPhone 15", Width: 1179, Height: 2556},
		Preset{Name: "iPhone 14 Pro", Width: 1179, Height: 2556},
		Preset{Name: "iPhone 14", Width: 1170, Height: 2532},
		Preset{Name: `iPad Pro 12.9"`, Width: 2048, Height: 2732},
		Preset{Name: "iPad Air", Width: 1620, Height: 2160},
		Preset{Name: "iPad", Width: 1620, Height: 2160},
		Preset{Name: `MacBook Air 13"`, Width: 2560, Height: 1600},
		Preset{Name: `MacBook Pro 14"`, Width: 3024, Height: 1964},
		Preset{Name: `MacBook Pro 16"`, Width: 3456, Height: 2234},
		Preset{Name: `iMac 24"`, Width: 4480, Height: 2520},
		Preset{Name: "Studio Display", Width: 5120, Height: 2880},
		Preset{Name: "Pro Display XDR", Width: 6016, Height: 3384},
		Preset{Name: "Custom 16:9 1080p", Width: 1920, Height: 1080},
		Preset{Name: "Custom 16:9 4K", Width: 3840, Height: 2160},
		Preset{Name: "Custom 4:3", Width: 1024, Height: 768},
		Preset{Name: "Custom Square", Width: 1080, Height: 1080},
		Preset{Name: OptimizedPreset, Auto: true},
	)
}

// Lookup finds a preset by exact name.
func (t *PresetTable) Lookup(name string) (Preset, bool) {
	p, ok := t.byKey[name]
	return p, ok
}

// List returns the presets in table order.
func (t *PresetTable) List() []Preset {
	out := make([]Preset, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.byKey[name])
	}
	return out
}

// Len reports the number of presets.
func (t *PresetTable) Len() int { return len(t.order) }

// With returns a copy of the table with overrides applied on top. Presets
// without dimensions that are not marked Auto are ignored.
func (t *PresetTable) With(overrides ...Preset) *PresetTable {
	all := t.List()
	for _, p := range overrides {
		if p.Name == "" || (!p.Auto && (p.Width <= 0 || p.Height <= 0)) {
			continue
		}
		all = append(all, p)
	}
	return NewPresetTable(all...)
}
