package expedition

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"expedition-backend/internal/dataset"
)

// DefaultMaxAttempts bounds the retry orchestrator when the request does not
// override it. The original tuning: plenty for any sane scope, small enough
// that a structurally doomed request fails fast.
const DefaultMaxAttempts = 200

var ErrVariantWithoutWave = errors.New("setting_variant requires setting_wave")

// Request carries the selector's inputs. Zero values take the documented
// defaults (length standard, strictness open, DefaultMaxAttempts).
type Request struct {
	MageCount    int
	Length       Length
	Strictness   Strictness
	ContentWaves []string
	ContentBoxes []string

	// Seed pins the base seed for reproducible selection. Nil means a
	// fresh random seed per call.
	Seed        *int64
	MaxAttempts int

	// SettingWave / SettingVariant force the setting instead of drawing it.
	SettingWave    string
	SettingVariant string
}

// Retry orchestrator states.
type orchestratorState int

const (
	stateAttempting orchestratorState = iota
	stateSucceeded
	stateExhausted
)

// Select assembles one collision-free expedition packet, or fails with one
// of the structural errors (scope, pool, enum) or CollisionExhaustedError.
// Structural problems are detected eagerly and never consume retry budget.
func Select(col *dataset.Collection, req Request) (*Packet, error) {
	req, err := normalizeRequest(col, req)
	if err != nil {
		return nil, err
	}

	req.ContentWaves = normalizeScopeList(req.ContentWaves)
	req.ContentBoxes = normalizeScopeList(req.ContentBoxes)
	scope, err := ResolveScope(col, req.ContentWaves, req.ContentBoxes)
	if err != nil {
		return nil, err
	}

	full := fullScopePools(col, scope)
	if err := precheck(full, req); err != nil {
		return nil, err
	}

	baseSeed, err := baseSeed(req.Seed)
	if err != nil {
		return nil, err
	}

	asm := &assembler{col: col, scope: scope, req: req, full: full}
	base := NewSampler(baseSeed)

	state := stateAttempting
	attempts := 0
	var last []Violation
	for state == stateAttempting {
		attemptSeed := base.NextSeed()
		attempts++

		packet, violations := asm.assemble(attemptSeed)
		if len(violations) == 0 {
			state = stateSucceeded
			packet.Meta.RequestedSeed = req.Seed
			packet.Meta.AttemptsTaken = attempts
			packet.Meta.PacketID = packetID(packet.Meta.EffectiveSeed(), attempts)
			return packet, nil
		}
		last = violations
		if attempts >= req.MaxAttempts {
			state = stateExhausted
		}
	}
	return nil, &CollisionExhaustedError{Attempts: attempts, LastViolations: last}
}

func normalizeRequest(col *dataset.Collection, req Request) (Request, error) {
	if req.MageCount <= 0 {
		return req, ErrInvalidMageCount
	}
	length, err := ParseLength(string(req.Length))
	if err != nil {
		return req, err
	}
	req.Length = length
	mode, err := ParseStrictness(string(req.Strictness))
	if err != nil {
		return req, err
	}
	req.Strictness = mode
	if req.MaxAttempts <= 0 {
		req.MaxAttempts = DefaultMaxAttempts
	}

	if req.SettingVariant != "" && req.SettingWave == "" {
		return req, ErrVariantWithoutWave
	}
	if req.SettingWave != "" {
		wave, setting, ok := findSetting(col, req.SettingWave)
		if !ok {
			return req, &UnknownSettingError{Wave: req.SettingWave, Available: settingWaves(col)}
		}
		req.SettingWave = wave
		if req.SettingVariant != "" {
			if _, ok := setting.Variants[req.SettingVariant]; !ok {
				return req, &UnknownSettingError{
					Wave: wave, Variant: req.SettingVariant, Available: variantNames(setting),
				}
			}
		}
	}
	return req, nil
}

// precheck fails structurally impossible requests before the retry loop.
// Only the wave-independent pools can be judged here: under thematic or
// mixed strictness the remaining pools depend on the drawn wave and are
// checked per attempt.
func precheck(full *Pools, req Request) error {
	if req.Strictness == StrictnessOpen && len(full.Mages) < req.MageCount {
		return &InsufficientPoolError{Category: "mages", Need: req.MageCount, Have: len(full.Mages)}
	}
	if req.Strictness == StrictnessThematic {
		return nil
	}

	for tier, need := range tierNeeds(req.Length) {
		if have := full.DistinctNemeses(tier); have < need {
			return &InsufficientPoolError{
				Category: fmt.Sprintf("tier %d nemeses", tier), Need: need, Have: have,
			}
		}
	}
	if req.Length == LengthShort && full.DistinctNemeses(1)+full.DistinctNemeses(2) == 0 {
		return &InsufficientPoolError{Category: "tier 1-2 nemeses", Need: 1, Have: 0}
	}

	if full.PairAvailable {
		battles := len(tiersForPrecheck(req.Length))
		if have := distinctCharacters(full.Friends); have < battles {
			return &InsufficientPoolError{Category: "friends", Need: battles, Have: have}
		}
		if have := distinctCharacters(full.Foes); have < battles {
			return &InsufficientPoolError{Category: "foes", Need: battles, Have: have}
		}
	}
	return nil
}

func tiersForPrecheck(length Length) []int {
	switch length {
	case LengthShort:
		return []int{0, 3, 4}
	case LengthLong:
		return []int{1, 1, 2, 2, 3, 3, 4, 4}
	default:
		return []int{1, 2, 3, 4}
	}
}

func distinctCharacters(list []dataset.Character) int {
	seen := map[string]bool{}
	for _, c := range list {
		seen[dataset.Key(c.Name)] = true
	}
	return len(seen)
}

func baseSeed(requested *int64) (int64, error) {
	if requested != nil {
		return *requested, nil
	}
	seed, err := NewRequestSeed()
	if err != nil {
		return 0, fmt.Errorf("generate base seed: %w", err)
	}
	return seed, nil
}

// packetID derives a stable v5 UUID so identical seeded requests yield
// byte-identical packets.
func packetID(effectiveSeed int64, attempts int) string {
	name := fmt.Sprintf("expedition:%d:%d", effectiveSeed, attempts)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

func findSetting(col *dataset.Collection, wave string) (string, dataset.Setting, bool) {
	k := dataset.Key(wave)
	for name, s := range col.Settings {
		if dataset.Key(name) == k {
			return name, s, true
		}
	}
	return "", dataset.Setting{}, false
}

func settingWaves(col *dataset.Collection) []string {
	out := make([]string, 0, len(col.Settings))
	for name := range col.Settings {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func variantNames(s dataset.Setting) []string {
	out := make([]string, 0, len(s.Variants))
	for name := range s.Variants {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
