package dataset

// Entity records mirror the YAML datasets. All records are immutable once
// loaded; the selector only reads them.

// BoxMap maps a physical box name to the wave it belongs to.
type BoxMap map[string]string

// Setting is the descriptive backdrop for one wave. Fields carries the
// free-form payload (location, mood, themes, ...) verbatim; Variants holds
// named field overlays that merge into Fields when chosen.
type Setting struct {
	Wave     string
	Fields   map[string]any
	Variants map[string]map[string]any
}

// MageVariant is one physical card-set a mage appears in.
type MageVariant struct {
	Name       string `yaml:"name" json:"name"`
	Box        string `yaml:"box" json:"box"`
	Wave       string `yaml:"wave_name" json:"wave_name,omitempty"`
	Background string `yaml:"background" json:"background,omitempty"`
	Appearance string `yaml:"appearance" json:"appearance,omitempty"`
	StoryNotes string `yaml:"story_notes" json:"story_notes,omitempty"`
	Strengths  string `yaml:"strengths" json:"strengths,omitempty"`
	Weaknesses string `yaml:"weaknesses" json:"weaknesses,omitempty"`
}

// Mage is a playable character; one mage may map to several variants.
type Mage struct {
	Name       string        `yaml:"name"`
	Background string        `yaml:"background"`
	Appearance string        `yaml:"appearance"`
	StoryNotes string        `yaml:"story_notes"`
	Variants   []MageVariant `yaml:"variants"`
}

// Nemesis is a battle opponent. Tier (1-4) dictates where it may appear in a
// battle sequence.
type Nemesis struct {
	Name       string `yaml:"name"`
	Tier       int    `yaml:"battle"`
	Box        string `yaml:"box"`
	Background string `yaml:"background"`
	StoryNotes string `yaml:"story_notes"`
}

// Character is a friend or foe record; both tables share this shape.
type Character struct {
	Name       string `yaml:"name"`
	Box        string `yaml:"box"`
	Background string `yaml:"background"`
	StoryNotes string `yaml:"story_notes"`
}

// Collection is the fully loaded, typed view over all datasets.
type Collection struct {
	Boxes    BoxMap
	Settings map[string]Setting // keyed by wave name
	Mages    []Mage
	Nemeses  []Nemesis
	Friends  []Character
	Foes     []Character
}

// WavesOf returns the sorted wave names a collection knows about, from both
// the box table and the settings table.
func (c *Collection) WavesOf() []string {
	seen := map[string]string{}
	for _, w := range c.Boxes {
		seen[Key(w)] = w
	}
	for w := range c.Settings {
		seen[Key(w)] = w
	}
	return sortedValues(seen)
}

// BoxesForWave returns the sorted boxes belonging to the given wave.
func (c *Collection) BoxesForWave(wave string) []string {
	k := Key(wave)
	var out []string
	for box, w := range c.Boxes {
		if Key(w) == k {
			out = append(out, box)
		}
	}
	sortStrings(out)
	return out
}
