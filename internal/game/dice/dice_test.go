package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

func TestCryptoSource_InRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 1000).Draw(rt, "n")
		v := dice.NewCryptoSource().Intn(n)
		assert.GreaterOrEqual(rt, v, 0)
		assert.Less(rt, v, n)
	})
}

func TestCryptoSource_PanicsOnNonPositive(t *testing.T) {
	assert.PanicsWithValue(t, "dice: Intn called with n <= 0", func() {
		dice.NewCryptoSource().Intn(0)
	})
}

func TestSeededSource_Deterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		a, b := dice.NewSeededSource(seed), dice.NewSeededSource(seed)
		for range 20 {
			assert.Equal(rt, a.Intn(97), b.Intn(97))
		}
	})
}

func TestSeededSource_PanicsOnNonPositive(t *testing.T) {
	assert.Panics(t, func() { dice.NewSeededSource(1).Intn(-1) })
}

func TestPick(t *testing.T) {
	_, ok := dice.Pick(dice.NewSeededSource(1), []string(nil))
	assert.False(t, ok)

	items := []string{"a", "b", "c"}
	rapid.Check(t, func(rt *rapid.T) {
		v, ok := dice.Pick(dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed")), items)
		assert.True(rt, ok)
		assert.Contains(rt, items, v)
	})
}
