package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequencyScorerHotNumberDominates(t *testing.T) {
	def := mustLookup(t, "lotto649")
	w := buildTestWindow(t, def, hotLottoRows(20, 15))

	ss, err := NewFrequencyScorer().Score(w)
	require.NoError(t, err)

	// 热号归一化后权重为1，任何填充号码都远低于它
	assert.InDelta(t, 1.0, ss.Numbers[7], 1e-9)
	for n := 1; n <= 49; n++ {
		if n == 7 {
			continue
		}
		assert.Less(t, ss.Numbers[n], 0.5, "filler number %d should stay well below the hot number", n)
	}
}

func TestFrequencyScorerWeightsNormalized(t *testing.T) {
	def := mustLookup(t, "lotto649")
	w := buildTestWindow(t, def, hotLottoRows(20, 15))

	ss, err := NewFrequencyScorer().Score(w)
	require.NoError(t, err)

	require.Len(t, ss.Numbers, 49)
	for n, weight := range ss.Numbers {
		assert.GreaterOrEqual(t, weight, 0.0, "number %d", n)
		assert.LessOrEqual(t, weight, 1.0, "number %d", n)
	}

	require.Len(t, ss.Special, 49)
	for n, weight := range ss.Special {
		assert.GreaterOrEqual(t, weight, 0.0, "special %d", n)
		assert.LessOrEqual(t, weight, 1.0, "special %d", n)
	}
}

func TestFrequencyScorerRecencyDecay(t *testing.T) {
	def := mustLookup(t, "dailycash")

	// 号码1只出现在最新一期，号码39只出现在最旧一期，其余行不含两者
	rows := []RawDraw{
		{Period: "114000006", Numbers: []int{1, 10, 20, 30, 35}},
		{Period: "114000005", Numbers: []int{2, 11, 21, 31, 36}},
		{Period: "114000004", Numbers: []int{3, 12, 22, 32, 37}},
		{Period: "114000003", Numbers: []int{4, 13, 23, 33, 38}},
		{Period: "114000002", Numbers: []int{5, 14, 24, 34, 29}},
		{Period: "114000001", Numbers: []int{39, 15, 25, 28, 19}},
	}
	w := buildTestWindow(t, def, rows)

	ss, err := NewFrequencyScorer().Score(w)
	require.NoError(t, err)
	assert.Greater(t, ss.Numbers[1], ss.Numbers[39],
		"a recent appearance must outweigh an old one")
}

func TestFrequencyScorerDigitSlots(t *testing.T) {
	def := mustLookup(t, "3stars")
	w := buildTestWindow(t, def, skewedDigitRows(12))

	ss, err := NewFrequencyScorer().Score(w)
	require.NoError(t, err)

	require.Len(t, ss.Slots, 3)
	assert.Nil(t, ss.Numbers, "digit games score per slot, not over a shared pool")
	assert.InDelta(t, 1.0, ss.Slots[0][7], 1e-9, "slot 0 is dominated by digit 7")
	for d := 0; d <= 9; d++ {
		if d == 7 {
			continue
		}
		assert.Less(t, ss.Slots[0][d], ss.Slots[0][7])
	}
}

func TestFrequencyScorerDeterministic(t *testing.T) {
	def := mustLookup(t, "lotto649")
	w := buildTestWindow(t, def, hotLottoRows(30, 18))

	scorer := NewFrequencyScorer()
	first, err := scorer.Score(w)
	require.NoError(t, err)
	second, err := scorer.Score(w)
	require.NoError(t, err)

	assert.Equal(t, first.Numbers, second.Numbers)
	assert.Equal(t, first.Special, second.Special)
}
