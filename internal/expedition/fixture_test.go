package expedition

import "expedition-backend/internal/dataset"

// testCollection builds an in-memory dataset spanning four waves, with
// enough entities in every category to satisfy any length in open scope.
func testCollection() *dataset.Collection {
	return &dataset.Collection{
		Boxes: dataset.BoxMap{
			"Box A":           "1st Wave",
			"Box B":           "2nd Wave",
			"Outcasts":        "5th Wave",
			"Past and Future": "7th Wave",
		},
		Settings: map[string]dataset.Setting{
			"1st Wave": {Wave: "1st Wave", Fields: map[string]any{"location": "Gravehold"}},
			"2nd Wave": {Wave: "2nd Wave", Fields: map[string]any{"location": "The Depths"}},
			"5th Wave": {Wave: "5th Wave", Fields: map[string]any{"location": "New Gravehold"}},
			"7th Wave": {
				Wave:   "7th Wave",
				Fields: map[string]any{"location": "The Breach"},
				Variants: map[string]map[string]any{
					"past":   {"mood": "ruinous"},
					"future": {"mood": "luminous"},
				},
			},
		},
		Mages: []dataset.Mage{
			mage("Brama", "Box A"),
			mage("Kadir", "Box A"),
			mage("Mazra", "Box A"),
			mage("Rhia", "Box B"),
			mage("Sura", "Outcasts"),
			mage("Talix", "Past and Future"),
		},
		Nemeses: []dataset.Nemesis{
			{Name: "Carapace Queen", Tier: 1, Box: "Box A"},
			{Name: "Hollow Crown", Tier: 2, Box: "Box A"},
			{Name: "Crooked Mask", Tier: 3, Box: "Box A"},
			{Name: "Knight of Shackles", Tier: 4, Box: "Box A"},
			{Name: "Seer of Darkfire", Tier: 1, Box: "Box B"},
			{Name: "Prince of Gluttons", Tier: 2, Box: "Box B"},
			{Name: "Wraithmonger", Tier: 3, Box: "Box B"},
			{Name: "Wayward One", Tier: 4, Box: "Box B"},
			{Name: "Bellowing Serpent", Tier: 1, Box: "Outcasts"},
			{Name: "Siltborn Titan", Tier: 3, Box: "Outcasts"},
			{Name: "Horde-Crone", Tier: 4, Box: "Outcasts"},
		},
		Friends: []dataset.Character{
			{Name: "Lost Captain", Box: "Box A"},
			{Name: "Archivist", Box: "Box A"},
			{Name: "Wanderer", Box: "Box A"},
			{Name: "Bandit Queen", Box: "Box A"},
			{Name: "Blacksmith", Box: "Box B"},
			{Name: "Snarecaller", Box: "Outcasts"},
			{Name: "Nomad", Box: "Outcasts"},
			{Name: "Tidecaller", Box: "Outcasts"},
		},
		Foes: []dataset.Character{
			{Name: "Broodling Pack", Box: "Box A"},
			{Name: "Grub Horde", Box: "Box A"},
			{Name: "Silt Stalkers", Box: "Box A"},
			{Name: "Wailing Throng", Box: "Box A"},
			{Name: "Rift Scourge", Box: "Box B"},
			{Name: "Scuttling Swarm", Box: "Outcasts"},
			{Name: "Drowned Thrall", Box: "Outcasts"},
			{Name: "Cinder Brutes", Box: "Outcasts"},
		},
	}
}

func mage(name, box string) dataset.Mage {
	return dataset.Mage{
		Name:     name,
		Variants: []dataset.MageVariant{{Name: name, Box: box}},
	}
}

func seedOf(v int64) *int64 { return &v }
