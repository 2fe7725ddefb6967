package expedition

import (
	"sort"

	"expedition-backend/internal/dataset"
)

// MageCandidate pairs a mage with the variants the scope leaves available.
type MageCandidate struct {
	Mage     dataset.Mage
	Variants []dataset.MageVariant
}

// Pools are the per-category candidate pools for one attempt, already
// filtered by scope and strictness and deterministically ordered.
type Pools struct {
	Mages         []MageCandidate
	NemesesByTier map[int][]dataset.Nemesis
	Friends       []dataset.Character
	Foes          []dataset.Character

	// PairAvailable is false when either the friend or the foe pool is
	// empty; the categories are coupled, so the whole packet then runs
	// without friend/foe pairs.
	PairAvailable bool
}

// AvailableTiers reports which nemesis tiers have at least one candidate.
func (p *Pools) AvailableTiers() map[int]bool {
	out := make(map[int]bool, 4)
	for tier, list := range p.NemesesByTier {
		if len(list) > 0 {
			out[tier] = true
		}
	}
	return out
}

// DistinctNemeses counts distinct nemesis names within a tier.
func (p *Pools) DistinctNemeses(tier int) int {
	seen := map[string]bool{}
	for _, n := range p.NemesesByTier[tier] {
		seen[dataset.Key(n.Name)] = true
	}
	return len(seen)
}

// buildPools assembles candidate pools for the chosen setting wave under the
// given strictness mode.
func buildPools(col *dataset.Collection, sc *Scope, mode Strictness, settingWave string) *Pools {
	waveOnly := []string{settingWave}
	waveBoxes := col.BoxesForWave(settingWave)

	p := &Pools{}
	switch mode {
	case StrictnessThematic:
		p.Mages = eligibleMages(col, waveOnly, waveBoxes)
		p.NemesesByTier = groupNemeses(filterNemeses(col.Nemeses, waveOnly, waveBoxes, col.Boxes))
		p.Friends = filterCharacters(col.Friends, waveOnly, waveBoxes, col.Boxes)
		p.Foes = filterCharacters(col.Foes, waveOnly, waveBoxes, col.Boxes)
	case StrictnessMixed:
		p.Mages = eligibleMages(col, waveOnly, waveBoxes)
		p.NemesesByTier = groupNemeses(filterNemeses(col.Nemeses, sc.Waves, sc.Boxes, col.Boxes))
		p.Friends = filterCharacters(col.Friends, sc.Waves, sc.Boxes, col.Boxes)
		p.Foes = filterCharacters(col.Foes, sc.Waves, sc.Boxes, col.Boxes)
	default: // open
		p.Mages = eligibleMages(col, sc.Waves, sc.Boxes)
		p.NemesesByTier = groupNemeses(filterNemeses(col.Nemeses, sc.Waves, sc.Boxes, col.Boxes))
		p.Friends = filterCharacters(col.Friends, sc.Waves, sc.Boxes, col.Boxes)
		p.Foes = filterCharacters(col.Foes, sc.Waves, sc.Boxes, col.Boxes)
	}
	p.PairAvailable = len(p.Friends) > 0 && len(p.Foes) > 0
	return p
}

// fullScopePools builds the wave-independent pools used for structural
// prechecks; for open strictness they are also the attempt pools.
func fullScopePools(col *dataset.Collection, sc *Scope) *Pools {
	p := &Pools{
		Mages:         eligibleMages(col, sc.Waves, sc.Boxes),
		NemesesByTier: groupNemeses(filterNemeses(col.Nemeses, sc.Waves, sc.Boxes, col.Boxes)),
		Friends:       filterCharacters(col.Friends, sc.Waves, sc.Boxes, col.Boxes),
		Foes:          filterCharacters(col.Foes, sc.Waves, sc.Boxes, col.Boxes),
	}
	p.PairAvailable = len(p.Friends) > 0 && len(p.Foes) > 0
	return p
}

// eligibleMages keeps mages with at least one in-scope variant, sorted by
// name for deterministic shuffles.
func eligibleMages(col *dataset.Collection, waves, boxes []string) []MageCandidate {
	var out []MageCandidate
	for _, m := range col.Mages {
		var inScopeVariants []dataset.MageVariant
		for _, v := range m.Variants {
			if inScope(v.Box, v.Wave, waves, boxes, col.Boxes) {
				inScopeVariants = append(inScopeVariants, v)
			}
		}
		if len(inScopeVariants) > 0 {
			out = append(out, MageCandidate{Mage: m, Variants: inScopeVariants})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return dataset.Key(out[i].Mage.Name) < dataset.Key(out[j].Mage.Name)
	})
	return out
}

func filterNemeses(list []dataset.Nemesis, waves, boxes []string, boxToWave dataset.BoxMap) []dataset.Nemesis {
	var out []dataset.Nemesis
	for _, n := range list {
		if inScope(n.Box, "", waves, boxes, boxToWave) {
			out = append(out, n)
		}
	}
	sortNemeses(out)
	return out
}

func filterCharacters(list []dataset.Character, waves, boxes []string, boxToWave dataset.BoxMap) []dataset.Character {
	var out []dataset.Character
	for _, c := range list {
		if inScope(c.Box, "", waves, boxes, boxToWave) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if ka, kb := dataset.Key(a.Name), dataset.Key(b.Name); ka != kb {
			return ka < kb
		}
		return dataset.Key(a.Box) < dataset.Key(b.Box)
	})
	return out
}

func groupNemeses(list []dataset.Nemesis) map[int][]dataset.Nemesis {
	out := map[int][]dataset.Nemesis{1: nil, 2: nil, 3: nil, 4: nil}
	for _, n := range list {
		if n.Tier >= 1 && n.Tier <= 4 {
			out[n.Tier] = append(out[n.Tier], n)
		}
	}
	return out
}

func sortNemeses(list []dataset.Nemesis) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if ka, kb := dataset.Key(a.Name), dataset.Key(b.Name); ka != kb {
			return ka < kb
		}
		return dataset.Key(a.Box) < dataset.Key(b.Box)
	})
}
