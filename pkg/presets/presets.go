// Package presets maps game names to the yaw (degrees per count) their
// sensitivity formula uses.
package presets

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Custom is reported when a yaw value matches no preset.
const Custom = "Custom"

// Preset pairs a display name with its yaw per count.
type Preset struct {
	Name string
	Yaw  float64
}

// builtin preserves display order.
var builtin = []Preset{
	{Name: "Source / CS2", Yaw: 0.022},
	{Name: "Apex Legends", Yaw: 0.022},
	{Name: "Quake Champions", Yaw: 0.022},
	{Name: "Overwatch 2", Yaw: 0.0066},
	{Name: "Valorant", Yaw: 0.07},
	{Name: "Fortnite", Yaw: 0.5555},
	{Name: "Rainbow Six Siege", Yaw: 0.00572958},
}

// Table is an ordered, case-insensitive preset lookup.
type Table struct {
	presets []Preset
	index   map[string]int
}

// Builtin returns the table of built-in presets.
func Builtin() *Table {
	t, _ := New(nil)
	return t
}

// New returns the built-in presets followed by extra entries in name order.
// An extra entry whose name matches a built-in replaces its yaw.
func New(extra map[string]float64) (*Table, error) {
	t := &Table{index: make(map[string]int, len(builtin)+len(extra))}
	for _, p := range builtin {
		t.add(p)
	}

	names := make([]string, 0, len(extra))
	for name := range extra {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		yaw := extra[name]
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return nil, fmt.Errorf("preset name must not be empty")
		}
		if strings.EqualFold(trimmed, Custom) {
			return nil, fmt.Errorf("preset name %q is reserved", trimmed)
		}
		if math.IsNaN(yaw) || math.IsInf(yaw, 0) || yaw <= 0 {
			return nil, fmt.Errorf("preset %q: yaw must be a positive finite number", trimmed)
		}
		t.add(Preset{Name: trimmed, Yaw: yaw})
	}
	return t, nil
}

func (t *Table) add(p Preset) {
	key := normalize(p.Name)
	if i, ok := t.index[key]; ok {
		t.presets[i].Yaw = p.Yaw
		return
	}
	t.index[key] = len(t.presets)
	t.presets = append(t.presets, p)
}

// Lookup resolves a preset name to its yaw.
func (t *Table) Lookup(name string) (float64, bool) {
	i, ok := t.index[normalize(name)]
	if !ok {
		return 0, false
	}
	return t.presets[i].Yaw, true
}

// NameFor returns the first preset with the given yaw, or Custom.
func (t *Table) NameFor(yaw float64) string {
	for _, p := range t.presets {
		if p.Yaw == yaw {
			return p.Name
		}
	}
	return Custom
}

// Names lists preset names in display order.
func (t *Table) Names() []string {
	names := make([]string, len(t.presets))
	for i, p := range t.presets {
		names[i] = p.Name
	}
	return names
}

// All returns a copy of the presets in display order.
func (t *Table) All() []Preset {
	return append([]Preset(nil), t.presets...)
}

// Next returns the preset after the named one, wrapping around.
// Unknown names (including Custom) start at the first preset.
func (t *Table) Next(name string) Preset {
	if len(t.presets) == 0 {
		return Preset{Name: Custom}
	}
	i, ok := t.index[normalize(name)]
	if !ok {
		return t.presets[0]
	}
	return t.presets[(i+1)%len(t.presets)]
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
