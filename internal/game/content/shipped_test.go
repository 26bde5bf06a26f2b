package content_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/game/battler"
	"github.com/cory-johannsen/skirmish/internal/game/content"
	"github.com/cory-johannsen/skirmish/internal/game/refdata"
	"github.com/cory-johannsen/skirmish/internal/game/scene"
)

func loadShipped(t *testing.T) *content.Store {
	t.Helper()
	refs, err := refdata.Load("../../../content/refdata.yaml")
	require.NoError(t, err, "content/refdata.yaml should load without error")
	s, err := content.LoadDirectory("../../../content/game", refs)
	require.NoError(t, err, "content/game should load without error")
	return s
}

// TestContent_EveryCombatantCanAct verifies every party member and every
// battle-scene enemy starts with at least one skill.
func TestContent_EveryCombatantCanAct(t *testing.T) {
	s := loadShipped(t)

	for _, b := range s.Party() {
		assert.NotEmpty(t, battler.NewInstance(b, 0).Skills(), "party member %q has no skills", b.Name())
	}
	battles := 0
	for _, sc := range s.Scenes() {
		if sc.Kind != scene.KindBattle {
			continue
		}
		battles++
		enemy, ok := s.Battler(sc.Enemy)
		require.True(t, ok, "scene %q enemy %q", sc.Name, sc.Enemy)
		assert.NotEmpty(t, battler.NewInstance(enemy, 0).Skills(), "enemy %q has no skills", sc.Enemy)
	}
	assert.Positive(t, battles)
}

// TestContent_SceneListEndsWithEnding verifies the last scene closes the game.
func TestContent_SceneListEndsWithEnding(t *testing.T) {
	scenes := loadShipped(t).Scenes()
	require.NotEmpty(t, scenes)
	assert.Equal(t, scene.KindEnding, scenes[len(scenes)-1].Kind)
}

// TestContent_PartyHasLevelUpOptions verifies every party member has a
// level-up table entry.
func TestContent_PartyHasLevelUpOptions(t *testing.T) {
	s := loadShipped(t)
	for _, b := range s.Party() {
		assert.Len(t, s.LevelUpOptions(b.Name()), 3, "character %q", b.Name())
	}
}

func TestContent_StartingEquipmentApplies(t *testing.T) {
	s := loadShipped(t)
	hero, ok := s.Battler("Hero")
	require.True(t, ok)
	inst := battler.NewInstance(hero, 0)
	assert.Equal(t, 135, inst.HP(), "base 120 plus the vest's 15")
	_, ok = inst.Skill("Slash")
	assert.True(t, ok)
	_, ok = inst.Skill("Firebolt")
	assert.False(t, ok, "a sword does not convert flames")
}
