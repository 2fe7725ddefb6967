package expedition

import (
	"sort"

	"expedition-backend/internal/dataset"
)

// Scope is the resolved content filter for one request. Explicit wave
// filters imply their boxes; explicit box filters imply their waves for the
// setting choice.
type Scope struct {
	// Waves are the explicit wave filters, normalized and sorted.
	Waves []string
	// Boxes are the explicit box filters plus every box of an explicit
	// wave, normalized and sorted.
	Boxes []string
	// SettingWaves are the waves eligible for the setting choice: explicit
	// waves plus the waves of explicit boxes, restricted to waves that have
	// a setting. Never empty.
	SettingWaves []string

	boxToWave dataset.BoxMap
}

// ResolveScope turns the request's wave/box filters into a validated scope.
// Empty filters mean the whole collection. The literal "all" clears a filter
// list. Returns a ScopeError when the filters produce no usable wave.
func ResolveScope(col *dataset.Collection, waves, boxes []string) (*Scope, error) {
	waves = normalizeScopeList(waves)
	boxes = normalizeScopeList(boxes)

	sc := &Scope{Waves: waves, boxToWave: col.Boxes}

	boxSet := map[string]string{}
	for _, b := range boxes {
		boxSet[dataset.Key(b)] = b
	}
	for _, w := range waves {
		for _, b := range col.BoxesForWave(w) {
			boxSet[dataset.Key(b)] = b
		}
	}
	for _, b := range boxSet {
		sc.Boxes = append(sc.Boxes, b)
	}
	sort.Strings(sc.Boxes)

	// Waves allowed for the setting: explicit waves plus waves reached via
	// explicit boxes.
	waveSet := map[string]string{}
	for _, w := range waves {
		waveSet[dataset.Key(w)] = w
	}
	for _, b := range boxes {
		if w, ok := col.Boxes[dataset.Norm(b)]; ok {
			waveSet[dataset.Key(w)] = w
		}
	}

	unfiltered := len(waves) == 0 && len(boxes) == 0
	for wave := range col.Settings {
		if unfiltered {
			sc.SettingWaves = append(sc.SettingWaves, wave)
		} else if _, ok := waveSet[dataset.Key(wave)]; ok {
			sc.SettingWaves = append(sc.SettingWaves, wave)
		}
	}
	sort.Strings(sc.SettingWaves)

	if len(sc.SettingWaves) == 0 {
		return nil, &ScopeError{Waves: waves, Boxes: boxes}
	}
	return sc, nil
}

// Unfiltered reports whether the scope allows the whole collection.
func (s *Scope) Unfiltered() bool {
	return len(s.Waves) == 0 && len(s.Boxes) == 0
}

// Contains reports whether an entity identified by its box (and optionally
// an explicit wave) falls inside the scope.
func (s *Scope) Contains(box, wave string) bool {
	return inScope(box, wave, s.Waves, s.Boxes, s.boxToWave)
}

func inScope(box, wave string, allowedWaves, allowedBoxes []string, boxToWave dataset.BoxMap) bool {
	if len(allowedWaves) == 0 && len(allowedBoxes) == 0 {
		return true
	}
	if box != "" {
		b := dataset.Norm(box)
		if containsKey(allowedBoxes, b) {
			return true
		}
		if w, ok := boxToWave[b]; ok && containsKey(allowedWaves, w) {
			return true
		}
	}
	if wave != "" && containsKey(allowedWaves, wave) {
		return true
	}
	return false
}

func containsKey(list []string, name string) bool {
	k := dataset.Key(name)
	for _, item := range list {
		if dataset.Key(item) == k {
			return true
		}
	}
	return false
}

// normalizeScopeList cleans a filter list; an "all" entry clears the filter.
func normalizeScopeList(values []string) []string {
	var out []string
	for _, v := range values {
		n := dataset.Norm(v)
		if n == "" {
			continue
		}
		if dataset.Key(n) == "all" {
			return nil
		}
		out = append(out, n)
	}
	return out
}
