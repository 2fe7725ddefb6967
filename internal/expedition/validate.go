package expedition

import (
	"fmt"

	"expedition-backend/internal/dataset"
)

// Violation is one broken packet invariant.
type Violation struct {
	Rule   string
	Detail string
}

func (v Violation) String() string { return v.Rule + ": " + v.Detail }

// ProtectGravehold and ProtectXaxos are the only legal protect targets.
// Xaxos may appear only for Outcasts-wave settings.
const (
	ProtectGravehold = "Gravehold"
	ProtectXaxos     = "Xaxos"

	outcastsWave = "5th Wave"
)

// Validate checks every packet invariant and returns all violations found.
// It runs at the end of each assembly attempt, and doubles as a standalone
// post-hoc check for packets received from elsewhere.
func Validate(p *Packet) []Violation {
	var out []Violation

	if want := p.Meta.Inputs.MageCount; want > 0 && len(p.Mages) != want {
		out = append(out, Violation{"roster-size", fmt.Sprintf("have %d mages, want %d", len(p.Mages), want)})
	}

	roster := map[string]bool{}
	for _, m := range p.Mages {
		k := dataset.Key(m.Name)
		if roster[k] {
			out = append(out, Violation{"roster-unique", "duplicate mage name: " + m.Name})
		}
		roster[k] = true
	}

	nemeses := map[string]bool{}
	friends := map[string]bool{}
	foes := map[string]bool{}
	for _, b := range p.Battles {
		nk := dataset.Key(b.Nemesis.Name)
		if nemeses[nk] {
			out = append(out, Violation{"nemesis-unique", "duplicate nemesis: " + b.Nemesis.Name})
		}
		nemeses[nk] = true

		if (b.Friend == nil) != (b.Foe == nil) {
			out = append(out, Violation{"pairing", fmt.Sprintf("battle %d has exactly one of friend/foe", b.Index)})
		}
		if b.Friend != nil {
			fk := dataset.Key(b.Friend.Name)
			if friends[fk] {
				out = append(out, Violation{"friend-unique", "duplicate friend: " + b.Friend.Name})
			}
			friends[fk] = true
		}
		if b.Foe != nil {
			fk := dataset.Key(b.Foe.Name)
			if foes[fk] {
				out = append(out, Violation{"foe-unique", "duplicate foe: " + b.Foe.Name})
			}
			foes[fk] = true
		}
	}

	// One role per name across the whole packet.
	out = append(out, overlaps("mage/nemesis", roster, nemeses)...)
	out = append(out, overlaps("mage/friend", roster, friends)...)
	out = append(out, overlaps("mage/foe", roster, foes)...)
	out = append(out, overlaps("nemesis/friend", nemeses, friends)...)
	out = append(out, overlaps("nemesis/foe", nemeses, foes)...)
	out = append(out, overlaps("friend/foe", friends, foes)...)

	out = append(out, validateProtect(p)...)
	out = append(out, validateSchedule(p)...)
	return out
}

func overlaps(label string, a, b map[string]bool) []Violation {
	var out []Violation
	for k := range a {
		if b[k] {
			out = append(out, Violation{"role-overlap", label + " name overlap: " + k})
		}
	}
	return out
}

func validateProtect(p *Packet) []Violation {
	switch p.ProtectTarget {
	case ProtectGravehold:
		return nil
	case ProtectXaxos:
		if dataset.Key(p.Setting.Wave) != dataset.Key(outcastsWave) {
			return []Violation{{"protect-target", "Xaxos chosen outside the Outcasts wave"}}
		}
		return nil
	}
	return []Violation{{"protect-target", "unknown protect target: " + p.ProtectTarget}}
}

// validateSchedule checks battle count and tier sequence against the fixed
// length tables, and that the finale nemesis closes the sequence.
func validateSchedule(p *Packet) []Violation {
	var out []Violation
	tiers := make([]int, len(p.Battles))
	for i, b := range p.Battles {
		tiers[i] = b.Tier
		if b.Index != i+1 {
			out = append(out, Violation{"schedule", fmt.Sprintf("battle %d has index %d", i+1, b.Index)})
		}
		if b.Nemesis.Tier != 0 && b.Nemesis.Tier != b.Tier {
			out = append(out, Violation{"schedule", fmt.Sprintf("battle %d: nemesis tier %d does not match planned tier %d", b.Index, b.Nemesis.Tier, b.Tier)})
		}
	}

	ok := false
	switch p.Meta.Inputs.Length {
	case LengthShort:
		ok = len(tiers) == 3 && (tiers[0] == 1 || tiers[0] == 2) && tiers[1] == 3 && tiers[2] == 4
	case LengthLong:
		ok = tiersEqual(tiers, []int{1, 1, 2, 2, 3, 3, 4, 4})
	case LengthStandard:
		ok = tiersEqual(tiers, []int{1, 2, 3, 4})
	default:
		// Unknown length in a foreign packet: only the per-battle checks
		// above apply.
		ok = true
	}
	if !ok {
		out = append(out, Violation{"schedule", fmt.Sprintf("tier sequence %v does not match %s table", tiers, p.Meta.Inputs.Length)})
	}

	if n := len(p.Battles); n > 0 {
		last := p.Battles[n-1].Nemesis
		if dataset.Key(last.Name) != dataset.Key(p.FinalNemesis.Name) {
			out = append(out, Violation{"schedule", "final_nemesis does not close the battle sequence"})
		}
	}
	return out
}

func tiersEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
