package expedition

import "expedition-backend/internal/dataset"

// Length selects how many battles an expedition runs.
type Length string

const (
	LengthShort    Length = "short"
	LengthStandard Length = "standard"
	LengthLong     Length = "long"
)

// Strictness controls how tightly non-mage entities must match the chosen
// setting's wave.
type Strictness string

const (
	// StrictnessThematic restricts every category to the setting's wave.
	StrictnessThematic Strictness = "thematic"
	// StrictnessMixed restricts mages to the setting's wave; everything
	// else draws from the full scope.
	StrictnessMixed Strictness = "mixed"
	// StrictnessOpen draws all categories from the full scope.
	StrictnessOpen Strictness = "open"
)

// ParseLength validates a length string, defaulting empty to standard.
func ParseLength(s string) (Length, error) {
	switch Length(dataset.Key(s)) {
	case LengthShort:
		return LengthShort, nil
	case LengthStandard, Length(""):
		return LengthStandard, nil
	case LengthLong:
		return LengthLong, nil
	}
	return "", ErrInvalidLength
}

// ParseStrictness validates a strictness string, defaulting empty to open.
func ParseStrictness(s string) (Strictness, error) {
	switch Strictness(dataset.Key(s)) {
	case StrictnessThematic:
		return StrictnessThematic, nil
	case StrictnessMixed:
		return StrictnessMixed, nil
	case StrictnessOpen, Strictness(""):
		return StrictnessOpen, nil
	}
	return "", ErrInvalidStrictness
}

// RewardKind classifies a reward slot.
type RewardKind string

const (
	RewardPersonal RewardKind = "personal"
	RewardGroup    RewardKind = "group"
	RewardFinale   RewardKind = "finale"
)

// RewardSlot marks a reward opportunity after a given battle.
type RewardSlot struct {
	AfterBattle int
	Kind        RewardKind
}

// Schedule is the fixed battle plan for one length: an ordered tier per
// battle plus the reward slots between them. Only entity choice within each
// tier is random; the tables themselves never are, except the short
// expedition's opening tier.
type Schedule struct {
	Tiers   []int
	Rewards []RewardSlot
}

// Battles returns the planned battle count.
func (s Schedule) Battles() int { return len(s.Tiers) }

// planSchedule builds the schedule for a length. The short expedition opens
// with tier 1 or 2: a uniform draw when both tiers have candidates in scope,
// otherwise whichever one does.
func planSchedule(length Length, s *Sampler, tierAvailable map[int]bool) (Schedule, error) {
	switch length {
	case LengthStandard:
		return Schedule{
			Tiers: []int{1, 2, 3, 4},
			Rewards: []RewardSlot{
				{AfterBattle: 1, Kind: RewardPersonal},
				{AfterBattle: 2, Kind: RewardGroup},
				{AfterBattle: 3, Kind: RewardPersonal},
				{AfterBattle: 4, Kind: RewardFinale},
			},
		}, nil
	case LengthLong:
		return Schedule{
			Tiers: []int{1, 1, 2, 2, 3, 3, 4, 4},
			Rewards: []RewardSlot{
				{AfterBattle: 2, Kind: RewardPersonal},
				{AfterBattle: 4, Kind: RewardGroup},
				{AfterBattle: 6, Kind: RewardPersonal},
				{AfterBattle: 8, Kind: RewardFinale},
			},
		}, nil
	case LengthShort:
		var first int
		switch {
		case tierAvailable[1] && tierAvailable[2]:
			first = pickOne(s, []int{1, 2})
		case tierAvailable[1]:
			first = 1
		case tierAvailable[2]:
			first = 2
		default:
			return Schedule{}, &InsufficientPoolError{Category: "tier 1-2 nemeses", Need: 1, Have: 0}
		}
		return Schedule{
			Tiers: []int{first, 3, 4},
			Rewards: []RewardSlot{
				{AfterBattle: 1, Kind: RewardGroup},
				{AfterBattle: 2, Kind: RewardPersonal},
				{AfterBattle: 3, Kind: RewardFinale},
			},
		}, nil
	}
	return Schedule{}, ErrInvalidLength
}

// tierNeeds counts how many distinct nemeses each tier must supply for a
// length, assuming the short opener could land on either eligible tier.
func tierNeeds(length Length) map[int]int {
	switch length {
	case LengthLong:
		return map[int]int{1: 2, 2: 2, 3: 2, 4: 2}
	case LengthShort:
		return map[int]int{3: 1, 4: 1}
	default:
		return map[int]int{1: 1, 2: 1, 3: 1, 4: 1}
	}
}
