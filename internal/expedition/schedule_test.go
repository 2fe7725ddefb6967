package expedition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLength(t *testing.T) {
	for in, want := range map[string]Length{
		"":         LengthStandard,
		"short":    LengthShort,
		"Standard": LengthStandard,
		" LONG ":   LengthLong,
	} {
		got, err := ParseLength(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}

	_, err := ParseLength("marathon")
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestParseStrictness(t *testing.T) {
	for in, want := range map[string]Strictness{
		"":         StrictnessOpen,
		"open":     StrictnessOpen,
		"Mixed":    StrictnessMixed,
		"THEMATIC": StrictnessThematic,
	} {
		got, err := ParseStrictness(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}

	_, err := ParseStrictness("casual")
	assert.ErrorIs(t, err, ErrInvalidStrictness)
}

func TestPlanScheduleStandard(t *testing.T) {
	sched, err := planSchedule(LengthStandard, NewSampler(1), map[int]bool{1: true, 2: true, 3: true, 4: true})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, sched.Tiers)
	assert.Equal(t, 4, sched.Battles())
	require.Len(t, sched.Rewards, 4)
	assert.Equal(t, RewardSlot{AfterBattle: 4, Kind: RewardFinale}, sched.Rewards[3])
}

func TestPlanScheduleLong(t *testing.T) {
	sched, err := planSchedule(LengthLong, NewSampler(1), map[int]bool{1: true, 2: true, 3: true, 4: true})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 2, 2, 3, 3, 4, 4}, sched.Tiers)
	assert.Equal(t, []RewardSlot{
		{AfterBattle: 2, Kind: RewardPersonal},
		{AfterBattle: 4, Kind: RewardGroup},
		{AfterBattle: 6, Kind: RewardPersonal},
		{AfterBattle: 8, Kind: RewardFinale},
	}, sched.Rewards)
}

func TestPlanScheduleShortOpener(t *testing.T) {
	both := map[int]bool{1: true, 2: true, 3: true, 4: true}
	seenOne, seenTwo := false, false
	for seed := int64(0); seed < 30; seed++ {
		sched, err := planSchedule(LengthShort, NewSampler(seed), both)
		require.NoError(t, err)
		require.Len(t, sched.Tiers, 3)
		assert.Equal(t, []int{3, 4}, sched.Tiers[1:])
		switch sched.Tiers[0] {
		case 1:
			seenOne = true
		case 2:
			seenTwo = true
		default:
			t.Fatalf("opener tier %d", sched.Tiers[0])
		}
	}
	assert.True(t, seenOne && seenTwo, "30 seeds never covered both openers")

	onlyTwo := map[int]bool{2: true, 3: true, 4: true}
	sched, err := planSchedule(LengthShort, NewSampler(0), onlyTwo)
	require.NoError(t, err)
	assert.Equal(t, 2, sched.Tiers[0])

	neither := map[int]bool{3: true, 4: true}
	_, err = planSchedule(LengthShort, NewSampler(0), neither)
	var pool *InsufficientPoolError
	require.ErrorAs(t, err, &pool)
}

func TestPlanScheduleDeterministic(t *testing.T) {
	avail := map[int]bool{1: true, 2: true, 3: true, 4: true}
	a, err := planSchedule(LengthShort, NewSampler(99), avail)
	require.NoError(t, err)
	b, err := planSchedule(LengthShort, NewSampler(99), avail)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
