package expedition

import (
	"fmt"
	"sort"

	"expedition-backend/internal/dataset"
)

// personal/group reward label pools, drawn uniformly per slot.
var (
	personalRewardLabels = []string{RewardLabelSupplyCache, RewardLabelLevelUp, RewardLabelNewMage}
	groupRewardLabels    = []string{RewardLabelTreasure, RewardLabelBarracks, RewardLabelNewMage}
)

// assembler holds the per-request state shared by every attempt.
type assembler struct {
	col   *dataset.Collection
	scope *Scope
	req   Request
	full  *Pools // wave-independent pools, reused by open-strictness attempts
}

// assemble runs one full packet attempt under one seed. The draw order is a
// contract: setting wave, setting variant, mage roster, each battle in
// sequence (nemesis then friend/foe pair), protect target, reward labels.
// Re-running with the same seed reproduces the packet byte for byte.
func (a *assembler) assemble(seed int64) (*Packet, []Violation) {
	s := NewSampler(seed)

	wave := a.req.SettingWave
	if wave == "" {
		wave = pickOne(s, a.scope.SettingWaves)
	}
	setting, fail := a.chooseSetting(s, wave)
	if fail != nil {
		return nil, fail
	}

	pools := a.full
	if a.req.Strictness != StrictnessOpen {
		pools = buildPools(a.col, a.scope, a.req.Strictness, wave)
	}
	if len(pools.AvailableTiers()) == 0 {
		return nil, []Violation{{"nemesis-pool", fmt.Sprintf("no nemeses available for wave %s with strictness=%s", wave, a.req.Strictness)}}
	}

	mages, used, fail := a.chooseRoster(s, pools)
	if fail != nil {
		return nil, fail
	}

	schedule, err := planSchedule(a.req.Length, s, pools.AvailableTiers())
	if err != nil {
		return nil, []Violation{{"schedule", err.Error()}}
	}

	battles, fail := a.chooseBattles(s, pools, schedule, used)
	if fail != nil {
		return nil, fail
	}

	protect := ProtectGravehold
	if dataset.Key(wave) == dataset.Key(outcastsWave) {
		protect = pickOne(s, []string{ProtectGravehold, ProtectXaxos})
	}

	rewards := a.chooseRewards(s, pools, schedule, used)

	p := &Packet{
		Setting:        setting,
		ProtectTarget:  protect,
		Mages:          mages,
		Battles:        battles,
		FinalNemesis:   battles[len(battles)-1].Nemesis,
		RewardSchedule: rewards,
		Meta: Meta{
			AttemptSeed: seed,
			Inputs: Inputs{
				MageCount:    a.req.MageCount,
				Length:       a.req.Length,
				ContentWaves: a.req.ContentWaves,
				ContentBoxes: a.req.ContentBoxes,
				Strictness:   a.req.Strictness,
			},
		},
	}
	return p, Validate(p)
}

// chooseSetting merges the chosen (or forced) variant into the wave's
// setting payload.
func (a *assembler) chooseSetting(s *Sampler, wave string) (SettingPick, []Violation) {
	base, ok := a.col.Settings[wave]
	if !ok {
		return SettingPick{}, []Violation{{"setting", "no setting for wave " + wave}}
	}
	pick := SettingPick{Wave: base.Wave, Fields: map[string]any{}}
	for k, v := range base.Fields {
		pick.Fields[k] = v
	}
	if len(base.Variants) > 0 {
		names := make([]string, 0, len(base.Variants))
		for name := range base.Variants {
			names = append(names, name)
		}
		sort.Strings(names)
		chosen := a.req.SettingVariant
		if chosen == "" {
			chosen = pickOne(s, names)
		}
		overlay, ok := base.Variants[chosen]
		if !ok {
			return SettingPick{}, []Violation{{"setting", fmt.Sprintf("variant %q not found for wave %s", chosen, wave)}}
		}
		for k, v := range overlay {
			pick.Fields[k] = v
		}
		pick.Variant = chosen
	}
	return pick, nil
}

// chooseRoster shuffles the eligible mage pool and takes the requested
// count, drawing one variant per chosen mage.
func (a *assembler) chooseRoster(s *Sampler, pools *Pools) ([]MagePick, map[string]bool, []Violation) {
	if len(pools.Mages) < a.req.MageCount {
		return nil, nil, []Violation{{"mage-pool", fmt.Sprintf("need %d eligible mages, have %d", a.req.MageCount, len(pools.Mages))}}
	}
	chosen := sampleK(s, pools.Mages, a.req.MageCount)
	used := map[string]bool{}
	out := make([]MagePick, 0, len(chosen))
	for _, c := range chosen {
		k := dataset.Key(c.Mage.Name)
		if used[k] {
			return nil, nil, []Violation{{"roster-unique", "mage name collision inside selection pool: " + c.Mage.Name}}
		}
		used[k] = true
		out = append(out, magePick(s, c))
	}
	return out, used, nil
}

func magePick(s *Sampler, c MageCandidate) MagePick {
	v := pickOne(s, c.Variants)
	return MagePick{
		Name:       c.Mage.Name,
		SourceBox:  v.Box,
		Background: c.Mage.Background,
		Appearance: c.Mage.Appearance,
		StoryNotes: c.Mage.StoryNotes,
		Variant:    v,
	}
}

// chooseBattles fills the schedule battle by battle: the tier's nemesis
// first, then the friend/foe pair when both pools are live. Every pick
// excludes every name already used anywhere in the packet.
func (a *assembler) chooseBattles(s *Sampler, pools *Pools, schedule Schedule, used map[string]bool) ([]Battle, []Violation) {
	battles := make([]Battle, 0, schedule.Battles())
	for i, tier := range schedule.Tiers {
		var candidates []dataset.Nemesis
		for _, n := range pools.NemesesByTier[tier] {
			if !used[dataset.Key(n.Name)] {
				candidates = append(candidates, n)
			}
		}
		if len(candidates) == 0 {
			return nil, []Violation{{"nemesis-pool", fmt.Sprintf("no unique nemesis left for tier %d", tier)}}
		}
		nem := pickOne(s, candidates)
		used[dataset.Key(nem.Name)] = true

		b := Battle{
			Index: i + 1,
			Tier:  tier,
			Nemesis: NemesisPick{
				Name: nem.Name, Box: nem.Box, Tier: nem.Tier,
				Background: nem.Background, StoryNotes: nem.StoryNotes,
			},
		}

		if pools.PairAvailable {
			friend, fail := pickCharacter(s, pools.Friends, used, "friend", i+1)
			if fail != nil {
				return nil, fail
			}
			foe, fail := pickCharacter(s, pools.Foes, used, "foe", i+1)
			if fail != nil {
				return nil, fail
			}
			b.Friend, b.Foe = friend, foe
		}
		battles = append(battles, b)
	}
	return battles, nil
}

func pickCharacter(s *Sampler, pool []dataset.Character, used map[string]bool, label string, battle int) (*CharacterPick, []Violation) {
	var candidates []dataset.Character
	for _, c := range pool {
		if !used[dataset.Key(c.Name)] {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return nil, []Violation{{label + "-pool", fmt.Sprintf("no unique %s left for battle %d", label, battle)}}
	}
	c := pickOne(s, candidates)
	used[dataset.Key(c.Name)] = true
	return &CharacterPick{Name: c.Name, Box: c.Box, Background: c.Background, StoryNotes: c.StoryNotes}, nil
}

// chooseRewards draws a label per slot in schedule order. A "new mage" label
// immediately draws its reinforcement target from the mages not yet in the
// party, under the same eligibility rules as the roster; if none remain, the
// slot keeps the label with no target.
func (a *assembler) chooseRewards(s *Sampler, pools *Pools, schedule Schedule, used map[string]bool) []RewardPick {
	out := make([]RewardPick, 0, len(schedule.Rewards))
	for _, slot := range schedule.Rewards {
		pick := RewardPick{AfterBattle: slot.AfterBattle, Kind: slot.Kind, Earned: []string{}}
		switch slot.Kind {
		case RewardFinale:
			pick.Label = RewardLabelVictory
		case RewardPersonal:
			pick.Label = pickOne(s, personalRewardLabels)
		case RewardGroup:
			pick.Label = pickOne(s, groupRewardLabels)
		}
		if pick.Label == RewardLabelNewMage {
			var candidates []MageCandidate
			for _, c := range pools.Mages {
				if !used[dataset.Key(c.Mage.Name)] {
					candidates = append(candidates, c)
				}
			}
			if len(candidates) > 0 {
				c := pickOne(s, candidates)
				used[dataset.Key(c.Mage.Name)] = true
				mp := magePick(s, c)
				pick.NewMage = &mp
			}
		}
		out = append(out, pick)
	}
	return out
}
