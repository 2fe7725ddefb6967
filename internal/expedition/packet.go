package expedition

import "expedition-backend/internal/dataset"

// Packet is the sole output of one selector invocation: a value, assembled
// once and never mutated after validation succeeds.
type Packet struct {
	Setting        SettingPick  `json:"setting"`
	ProtectTarget  string       `json:"protect_target"`
	Mages          []MagePick   `json:"mages"`
	Battles        []Battle     `json:"battles"`
	FinalNemesis   NemesisPick  `json:"final_nemesis"`
	RewardSchedule []RewardPick `json:"reward_schedule"`
	Meta           Meta         `json:"meta"`
}

// SettingPick is the chosen wave backdrop, with any variant already merged
// into Fields.
type SettingPick struct {
	Wave    string         `json:"wave_name"`
	Variant string         `json:"setting_variant,omitempty"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// MagePick is one roster entry with its chosen variant.
type MagePick struct {
	Name       string              `json:"name"`
	SourceBox  string              `json:"source_box"`
	Background string              `json:"background,omitempty"`
	Appearance string              `json:"appearance,omitempty"`
	StoryNotes string              `json:"story_notes,omitempty"`
	Variant    dataset.MageVariant `json:"chosen_variant"`
}

// NemesisPick is a selected battle opponent.
type NemesisPick struct {
	Name       string `json:"name"`
	Box        string `json:"box"`
	Tier       int    `json:"battle"`
	Background string `json:"background,omitempty"`
	StoryNotes string `json:"story_notes,omitempty"`
}

// CharacterPick is a selected friend or foe.
type CharacterPick struct {
	Name       string `json:"name"`
	Box        string `json:"box"`
	Background string `json:"background,omitempty"`
	StoryNotes string `json:"story_notes,omitempty"`
}

// Battle is one step of the battle sequence. Friend and Foe are both set or
// both nil, never one of each.
type Battle struct {
	Index   int            `json:"battle_index"`
	Tier    int            `json:"tier"`
	Nemesis NemesisPick    `json:"nemesis"`
	Friend  *CharacterPick `json:"friend"`
	Foe     *CharacterPick `json:"foe"`
}

// Reward labels drawn into non-finale slots.
const (
	RewardLabelSupplyCache = "supply cache"
	RewardLabelLevelUp     = "level up"
	RewardLabelTreasure    = "treasure"
	RewardLabelBarracks    = "barracks"
	RewardLabelNewMage     = "new mage"
	RewardLabelVictory     = "victory"
)

// RewardPick is one reward slot of the schedule. Earned starts empty and is
// filled by a later process recording what the party actually collected.
type RewardPick struct {
	AfterBattle int        `json:"after_battle"`
	Kind        RewardKind `json:"kind"`
	Label       string     `json:"label"`
	NewMage     *MagePick  `json:"new_mage,omitempty"`
	Earned      []string   `json:"earned"`
}

// Inputs echoes the request parameters that shaped the packet.
type Inputs struct {
	MageCount    int        `json:"mage_count"`
	Length       Length     `json:"length"`
	ContentWaves []string   `json:"content_waves"`
	ContentBoxes []string   `json:"content_boxes"`
	Strictness   Strictness `json:"strictness"`
}

// Meta records how the packet came to be.
type Meta struct {
	PacketID      string `json:"packet_id"`
	RequestedSeed *int64 `json:"requested_seed"`
	AttemptSeed   int64  `json:"attempt_seed"`
	AttemptsTaken int    `json:"attempts_taken"`
	Inputs        Inputs `json:"inputs"`
}

// EffectiveSeed returns the seed that reproduces this packet: the requested
// seed when one was pinned, otherwise the attempt seed actually used.
func (m Meta) EffectiveSeed() int64 {
	if m.RequestedSeed != nil {
		return *m.RequestedSeed
	}
	return m.AttemptSeed
}

// StoryInputs is the compact view a storytelling layer consumes.
type StoryInputs struct {
	Setting       SettingPick  `json:"setting"`
	ProtectTarget string       `json:"protect_target"`
	Mages         []MagePick   `json:"mages"`
	Battles       []StoryStep  `json:"battles"`
	FinalNemesis  NemesisPick  `json:"final_nemesis"`
	EffectiveSeed int64        `json:"effective_seed"`
}

// StoryStep compacts one battle for narration.
type StoryStep struct {
	Index   int            `json:"battle_index"`
	Tier    int            `json:"tier"`
	Nemesis NemesisPick    `json:"nemesis"`
	Friend  *CharacterPick `json:"friend"`
	Foe     *CharacterPick `json:"foe"`
}

// Story extracts the story-relevant slice of a packet in one pass.
func (p *Packet) Story() StoryInputs {
	steps := make([]StoryStep, len(p.Battles))
	for i, b := range p.Battles {
		steps[i] = StoryStep{Index: b.Index, Tier: b.Tier, Nemesis: b.Nemesis, Friend: b.Friend, Foe: b.Foe}
	}
	return StoryInputs{
		Setting:       p.Setting,
		ProtectTarget: p.ProtectTarget,
		Mages:         p.Mages,
		Battles:       steps,
		FinalNemesis:  p.FinalNemesis,
		EffectiveSeed: p.Meta.EffectiveSeed(),
	}
}
