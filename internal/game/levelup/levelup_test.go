package levelup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/game/battler"
	"github.com/cory-johannsen/skirmish/internal/game/levelup"
	"github.com/cory-johannsen/skirmish/internal/game/refdata"
	"github.com/cory-johannsen/skirmish/internal/testutil"
)

var steelSlash = battler.AffinityKey{Element: testutil.Steel, Type: testutil.Slashing}

func sword(t *testing.T, conv map[refdata.ElementGroupKey]refdata.ElementKey) *battler.Equipment {
	t.Helper()
	eq, err := battler.NewEquipment(battler.EquipmentSpec{Name: "Sword", Type: testutil.Weapon, Conversions: conv}, nil)
	require.NoError(t, err)
	return eq
}

func steelOption() levelup.Option {
	return levelup.Option{
		Label:         "Temper",
		Group:         testutil.Blades,
		Element:       testutil.Steel,
		MaxHP:         15,
		Stats:         map[refdata.StatKey]int{testutil.Strength: 2, testutil.Defense: 1},
		Affinity:      steelSlash,
		AffinityDelta: 3,
	}
}

func TestApply_MatchingConversion(t *testing.T) {
	w := sword(t, map[refdata.ElementGroupKey]refdata.ElementKey{testutil.Blades: testutil.Steel})
	b := testutil.NewBattler(t, "Hero", []*battler.Equipment{w}, testutil.AsCharacter())

	require.True(t, levelup.Apply(b, testutil.Weapon, steelOption()))
	assert.Equal(t, 115, b.Stat(battler.MaxHP))
	assert.Equal(t, 2, b.Stat(testutil.Strength))
	assert.Equal(t, 1, b.Stat(testutil.Defense))
	assert.Equal(t, 3, b.Affinity(steelSlash))
}

func TestApply_WrongConversionIsSilentlySkipped(t *testing.T) {
	w := sword(t, map[refdata.ElementGroupKey]refdata.ElementKey{testutil.Blades: testutil.Bronze})
	b := testutil.NewBattler(t, "Hero", []*battler.Equipment{w}, testutil.AsCharacter())

	assert.False(t, levelup.Apply(b, testutil.Weapon, steelOption()))
	assert.Equal(t, 100, b.Stat(battler.MaxHP))
	assert.Zero(t, b.Affinity(steelSlash))
}

func TestApply_NoWeapon(t *testing.T) {
	b := testutil.NewBattler(t, "Hero", nil, testutil.AsCharacter())
	assert.False(t, levelup.Apply(b, testutil.Weapon, steelOption()))
	assert.Equal(t, 100, b.Stat(battler.MaxHP))
}

func TestTable_SetRequiresThreeOptions(t *testing.T) {
	tbl := levelup.NewTable()
	assert.Error(t, tbl.Set("Hero", []levelup.Option{steelOption()}))
	assert.Error(t, tbl.Set("", make([]levelup.Option, 3)))
	require.NoError(t, tbl.Set("Hero", []levelup.Option{steelOption(), steelOption(), steelOption()}))
	assert.True(t, tbl.Has("Hero"))
	assert.Len(t, tbl.Options("Hero"), 3)
	assert.Nil(t, tbl.Options("Nobody"))
}
