package expedition

import (
	"expedition-backend/internal/dataset"
)

// ReplaceRequest asks for a single mage that does not collide with an
// existing party.
type ReplaceRequest struct {
	ExistingNames []string
	ContentWaves  []string
	ContentBoxes  []string
	Seed          *int64
}

// Replacement is the output of a replacement-mage selection.
type Replacement struct {
	Mage MagePick `json:"mage"`
	Meta Meta     `json:"meta"`
}

// ReplaceMage picks one in-scope mage whose name is not already in the
// party. A single draw cannot collide with itself, so there is no retry
// loop; an empty candidate pool is an InsufficientPoolError.
func ReplaceMage(col *dataset.Collection, req ReplaceRequest) (*Replacement, error) {
	req.ContentWaves = normalizeScopeList(req.ContentWaves)
	req.ContentBoxes = normalizeScopeList(req.ContentBoxes)
	scope, err := ResolveScope(col, req.ContentWaves, req.ContentBoxes)
	if err != nil {
		return nil, err
	}

	forbidden := map[string]bool{}
	for _, name := range req.ExistingNames {
		if k := dataset.Key(name); k != "" {
			forbidden[k] = true
		}
	}

	var candidates []MageCandidate
	for _, c := range eligibleMages(col, scope.Waves, scope.Boxes) {
		if !forbidden[dataset.Key(c.Mage.Name)] {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return nil, &InsufficientPoolError{Category: "replacement mages", Need: 1, Have: 0}
	}

	seed, err := baseSeed(req.Seed)
	if err != nil {
		return nil, err
	}
	attemptSeed := NewSampler(seed).NextSeed()
	as := NewSampler(attemptSeed)
	pick := magePick(as, pickOne(as, candidates))
	meta := Meta{
		RequestedSeed: req.Seed,
		AttemptSeed:   attemptSeed,
		AttemptsTaken: 1,
	}
	meta.PacketID = packetID(meta.EffectiveSeed(), 1)
	return &Replacement{Mage: pick, Meta: meta}, nil
}
