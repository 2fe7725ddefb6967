package expedition

import (
	"sort"

	"expedition-backend/internal/dataset"
)

// ContentWave describes one wave available for scope selection, with its
// setting variant names when the wave has any.
type ContentWave struct {
	Name     string   `json:"name"`
	Variants []string `json:"variants,omitempty"`
}

// ContentBox describes one box and the wave it belongs to.
type ContentBox struct {
	Name string `json:"name"`
	Wave string `json:"wave"`
}

// ContentIndex lists everything a scope picker can offer.
type ContentIndex struct {
	Waves []ContentWave `json:"waves"`
	Boxes []ContentBox  `json:"boxes"`
}

// Content enumerates the waves and boxes known to the datasets, sorted for
// stable discovery responses.
func Content(col *dataset.Collection) ContentIndex {
	var idx ContentIndex
	for name, s := range col.Settings {
		w := ContentWave{Name: name}
		if len(s.Variants) > 0 {
			w.Variants = variantNames(s)
		}
		idx.Waves = append(idx.Waves, w)
	}
	sort.Slice(idx.Waves, func(i, j int) bool { return idx.Waves[i].Name < idx.Waves[j].Name })

	for box, wave := range col.Boxes {
		idx.Boxes = append(idx.Boxes, ContentBox{Name: box, Wave: wave})
	}
	sort.Slice(idx.Boxes, func(i, j int) bool {
		a, b := idx.Boxes[i], idx.Boxes[j]
		if a.Wave != b.Wave {
			return a.Wave < b.Wave
		}
		return a.Name < b.Name
	})
	return idx
}
