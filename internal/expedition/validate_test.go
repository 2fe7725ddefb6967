package expedition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validPacket() *Packet {
	friend := func(name string) *CharacterPick { return &CharacterPick{Name: name, Box: "Box A"} }
	p := &Packet{
		Setting:       SettingPick{Wave: "1st Wave"},
		ProtectTarget: ProtectGravehold,
		Mages: []MagePick{
			{Name: "Brama", SourceBox: "Box A"},
			{Name: "Kadir", SourceBox: "Box A"},
		},
		Battles: []Battle{
			{Index: 1, Tier: 1, Nemesis: NemesisPick{Name: "Carapace Queen", Tier: 1}, Friend: friend("Lost Captain"), Foe: friend("Broodling Pack")},
			{Index: 2, Tier: 2, Nemesis: NemesisPick{Name: "Hollow Crown", Tier: 2}, Friend: friend("Archivist"), Foe: friend("Grub Horde")},
			{Index: 3, Tier: 3, Nemesis: NemesisPick{Name: "Crooked Mask", Tier: 3}, Friend: friend("Wanderer"), Foe: friend("Silt Stalkers")},
			{Index: 4, Tier: 4, Nemesis: NemesisPick{Name: "Knight of Shackles", Tier: 4}, Friend: friend("Bandit Queen"), Foe: friend("Wailing Throng")},
		},
		Meta: Meta{Inputs: Inputs{MageCount: 2, Length: LengthStandard}},
	}
	p.FinalNemesis = p.Battles[3].Nemesis
	return p
}

func rules(vs []Violation) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Rule
	}
	return out
}

func TestValidateCleanPacket(t *testing.T) {
	assert.Empty(t, Validate(validPacket()))
}

func TestValidateRosterSize(t *testing.T) {
	p := validPacket()
	p.Meta.Inputs.MageCount = 3
	assert.Contains(t, rules(Validate(p)), "roster-size")
}

func TestValidateDuplicateMage(t *testing.T) {
	p := validPacket()
	p.Mages[1].Name = "Brama"
	assert.Contains(t, rules(Validate(p)), "roster-unique")
}

func TestValidateNameMatchingIgnoresCaseAndSpacing(t *testing.T) {
	p := validPacket()
	p.Mages[1].Name = "  BRAMA "
	assert.Contains(t, rules(Validate(p)), "roster-unique")
}

func TestValidateDuplicateNemesis(t *testing.T) {
	p := validPacket()
	p.Battles[1].Nemesis = p.Battles[0].Nemesis
	vs := rules(Validate(p))
	assert.Contains(t, vs, "nemesis-unique")
	assert.Contains(t, vs, "schedule") // tier 1 nemesis on a tier 2 slot
}

func TestValidateRoleOverlap(t *testing.T) {
	p := validPacket()
	p.Battles[0].Friend.Name = "Brama"
	assert.Contains(t, rules(Validate(p)), "role-overlap")

	p = validPacket()
	p.Battles[2].Foe.Name = "Lost Captain" // friend in battle 1
	assert.Contains(t, rules(Validate(p)), "role-overlap")
}

func TestValidateHalfPair(t *testing.T) {
	p := validPacket()
	p.Battles[1].Foe = nil
	assert.Contains(t, rules(Validate(p)), "pairing")
}

func TestValidateProtectTarget(t *testing.T) {
	p := validPacket()
	p.ProtectTarget = ProtectXaxos
	assert.Contains(t, rules(Validate(p)), "protect-target")

	p.Setting.Wave = "5th Wave"
	assert.Empty(t, Validate(p))

	p.ProtectTarget = "The Depths"
	assert.Contains(t, rules(Validate(p)), "protect-target")
}

func TestValidateTierSequence(t *testing.T) {
	p := validPacket()
	p.Battles[0].Tier = 2
	p.Battles[0].Nemesis.Tier = 2
	assert.Contains(t, rules(Validate(p)), "schedule")
}

func TestValidateBattleIndices(t *testing.T) {
	p := validPacket()
	p.Battles[2].Index = 7
	assert.Contains(t, rules(Validate(p)), "schedule")
}

func TestValidateFinalNemesisClosesSequence(t *testing.T) {
	p := validPacket()
	p.FinalNemesis = p.Battles[0].Nemesis
	assert.Contains(t, rules(Validate(p)), "schedule")
}

func TestValidateForeignPacketWithoutLength(t *testing.T) {
	// A packet from elsewhere may omit the length; only per-battle checks
	// apply then.
	p := validPacket()
	p.Meta.Inputs.Length = ""
	p.Battles = p.Battles[:3]
	p.FinalNemesis = p.Battles[2].Nemesis
	assert.Empty(t, Validate(p))
}
