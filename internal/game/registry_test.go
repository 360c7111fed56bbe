package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryCatalog(t *testing.T) {
	r := DefaultRegistry()

	games := r.List()
	require.Len(t, games, 9)

	lotto, err := r.Lookup("lotto649")
	require.NoError(t, err)
	assert.Equal(t, 49, lotto.PoolSize())
	assert.Equal(t, 6, lotto.PickCount)
	assert.True(t, lotto.HasSpecial)
	assert.Equal(t, 49, lotto.SpecialPoolSize())

	super, err := r.Lookup("superlotto638")
	require.NoError(t, err)
	assert.Equal(t, 8, super.SpecialPoolSize())

	stars, err := r.Lookup("4stars")
	require.NoError(t, err)
	assert.True(t, stars.IsDigitGame)
	assert.Equal(t, 0, stars.PoolMin)
	assert.Equal(t, 9, stars.PoolMax)
	assert.Equal(t, 10, stars.PoolSize())
}

func TestLookupUnknownGame(t *testing.T) {
	r := DefaultRegistry()

	_, err := r.Lookup("powerball")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownGame))
}

func TestRegisterRejectsInvalidDefinitions(t *testing.T) {
	r := NewRegistry()

	err := r.Register(&Definition{ID: "bad", PoolMin: 1, PoolMax: 5, PickCount: 6})
	assert.Error(t, err, "pick count above pool size must be rejected")

	require.NoError(t, r.Register(&Definition{ID: "ok", PoolMin: 1, PoolMax: 10, PickCount: 3}))
	err = r.Register(&Definition{ID: "ok", PoolMin: 1, PoolMax: 10, PickCount: 3})
	assert.Error(t, err, "duplicate id must be rejected")
}

func TestRegisterDerivedRequiresBase(t *testing.T) {
	r := NewRegistry()

	def := &Definition{ID: "mini", PoolMin: 1, PoolMax: 10, PickCount: 3, DerivedFrom: "missing"}
	err := r.RegisterDerived(def, IdentityRule("missing", 1, 10))
	assert.Error(t, err, "derived game without a registered base must be rejected")
}

func TestIdentityRule(t *testing.T) {
	rule := IdentityRule("base", 1, 49)

	base := []int{3, 12, 19, 27, 35, 44}
	derived := rule.Apply(base)
	assert.Equal(t, base, derived)

	// Apply返回副本，不与基础开奖共享底层数组
	derived[0] = 99
	assert.Equal(t, 3, base[0])

	assert.True(t, rule.Admits(1))
	assert.True(t, rule.Admits(49))
	assert.False(t, rule.Admits(50))
	assert.False(t, rule.Admits(0))
}

func TestTruncationRule(t *testing.T) {
	rule := TruncationRule("dailycash", 38)

	derived := rule.Apply([]int{5, 14, 23, 38, 39})
	assert.Equal(t, []int{5, 14, 23, 38}, derived)

	assert.True(t, rule.Admits(38))
	assert.False(t, rule.Admits(39))
}

func TestDerivationRulesRegistered(t *testing.T) {
	r := DefaultRegistry()

	for _, id := range []string{"38lotto", "39lotto", "49lotto"} {
		rule, ok := r.Rule(id)
		require.True(t, ok, "rule missing for %s", id)

		def, err := r.Lookup(id)
		require.NoError(t, err)
		assert.Equal(t, def.DerivedFrom, rule.BaseGameID)

		// 衍生游戏自身号码池必须落在规则的像内
		for n := def.PoolMin; n <= def.PoolMax; n++ {
			assert.True(t, rule.Admits(n), "%s pool number %d not admitted by rule", id, n)
		}
	}

	_, ok := r.Rule("lotto649")
	assert.False(t, ok, "base games must not carry derivation rules")
}
