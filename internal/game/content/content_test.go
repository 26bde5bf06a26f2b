package content_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/game/battler"
	"github.com/cory-johannsen/skirmish/internal/game/content"
	"github.com/cory-johannsen/skirmish/internal/game/refdata"
	"github.com/cory-johannsen/skirmish/internal/game/scene"
	"github.com/cory-johannsen/skirmish/internal/testutil"
)

const settingsDoc = `
settings:
  weapon_type: WEAP
  equipment_slots: [WEAP, ARMR]
  party: [Hero]
  inclinations:
    - {inclination: PHYS, attacking: [STRN], defending: [DEFN]}
    - {inclination: MAGI, attacking: [INTL], defending: [WILL]}
`

const worldDoc = `
skills:
  - name: Cleave
    texture: cleave
    sound: swing
    damage:
      - base: {inclination: PHYS, value: 12}
        stat_scaling:
          - {inclination: PHYS, stat: STRN, weight: 0.5}
        element_bindings:
          - {inclination: PHYS, damage_type: SLSH, group: BLAD, scaling: 1}
  - name: Ignite
    damage:
      - base: {inclination: MAGI, value: 8}
        element_bindings:
          - {inclination: MAGI, damage_type: FIRE, group: FLAM, scaling: 1, penetrating: true}
equipment:
  - name: Iron Sword
    type: WEAP
    stats: {STRN: 4, MXHP: 10}
    resistances:
      - {damage_type: SLSH, inclination: PHYS, value: 1}
    damage_sources:
      - {damage_type: SLSH, inclination: PHYS, value: 2}
    conversions: {BLAD: STEL}
battlers:
  - name: Hero
    character: true
    priority: 1
    textures: [hero_idle]
    stats: {MXHP: 100, STRN: 12, DEFN: 6}
    affinities:
      - {element: STEL, damage_type: SLSH, value: 2}
    starting_equipment: [Iron Sword]
  - name: Slime
    priority: 2
    stats: {MXHP: 40, DEFN: 2}
scenes:
  - name: Meadow
    kind: battle
    enemy: Slime
    music: meadow
    monologue: ["A slime blocks the road."]
  - {name: Camp, kind: level_up}
  - {name: Fin, kind: ending}
level_up:
  - character: Hero
    options:
      - {label: Temper, group: BLAD, element: STEL, max_hp: 10, stats: {STRN: 2}, affinity: {element: STEL, damage_type: SLSH, value: 1}}
      - {label: Harden, group: BLAD, element: STEL, max_hp: 20, stats: {DEFN: 2}, affinity: {element: STEL, damage_type: SLSH, value: 1}}
      - {label: Gild, group: BLAD, element: BRNZ, max_hp: 5, stats: {STRN: 1, DEFN: 1}, affinity: {element: BRNZ, damage_type: SLSH, value: 2}}
`

func writeDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(data), 0644))
	}
	return dir
}

func loadKind(t *testing.T, doc string) refdata.ErrorKind {
	t.Helper()
	_, err := content.LoadFromBytes([]byte(doc), testutil.Store(t))
	require.Error(t, err)
	var le *refdata.LoadError
	require.True(t, errors.As(err, &le), "expected *LoadError, got %T: %v", err, err)
	return le.Kind
}

func TestLoadDirectory_Valid(t *testing.T) {
	dir := writeDir(t, map[string]string{
		"00_settings.yaml": settingsDoc,
		"10_world.yaml":    worldDoc,
		"notes.txt":        "ignored",
	})
	s, err := content.LoadDirectory(dir, testutil.Store(t))
	require.NoError(t, err)

	settings := s.Settings()
	assert.Equal(t, testutil.Weapon, settings.WeaponType)
	assert.Equal(t, []string{"Hero"}, settings.Party)
	assert.Equal(t, []refdata.StatKey{testutil.Strength}, settings.StatLists.Attacking(testutil.Physical))
	assert.Equal(t, []refdata.StatKey{testutil.Will}, settings.StatLists.Defending(testutil.Magical))

	sword, ok := s.Equipment("Iron Sword")
	require.True(t, ok)
	skills := sword.Skills()
	require.Len(t, skills, 1, "Ignite needs a FLAM conversion")
	assert.Equal(t, "Cleave", skills[0].Name)

	hero, ok := s.Battler("Hero")
	require.True(t, ok)
	inst := battler.NewInstance(hero, 0)
	assert.Equal(t, 110, inst.HP())
	assert.Equal(t, 16, inst.Stat(testutil.Strength))
	assert.Equal(t, 2, inst.DamageSource(battler.TypeInclination{Type: testutil.Slashing, Inclination: testutil.Physical}))
	_, ok = inst.Skill("Cleave")
	assert.True(t, ok)

	party := s.Party()
	require.Len(t, party, 1)
	assert.Same(t, hero, party[0])

	scenes := s.Scenes()
	require.Len(t, scenes, 3)
	assert.Equal(t, scene.KindBattle, scenes[0].Kind)
	assert.Equal(t, []string{"A slime blocks the road."}, scenes[0].Monologue)
	assert.Equal(t, scene.KindEnding, scenes[2].Kind)

	opts := s.LevelUpOptions("Hero")
	require.Len(t, opts, 3)
	assert.Equal(t, "Gild", opts[2].Label)
	assert.Equal(t, testutil.Bronze, opts[2].Element)
	assert.Equal(t, 2, opts[2].AffinityDelta)
}

func TestLoadDirectory_MissingDir(t *testing.T) {
	_, err := content.LoadDirectory(filepath.Join(t.TempDir(), "nope"), testutil.Store(t))
	assert.Error(t, err)
}

func TestLoad_SettingsRequired(t *testing.T) {
	assert.Equal(t, refdata.KindMalformedRecord, loadKind(t, worldDoc))
}

func TestLoadDirectory_DuplicateSettings(t *testing.T) {
	dir := writeDir(t, map[string]string{"a.yaml": settingsDoc, "b.yaml": settingsDoc + worldDoc})
	_, err := content.LoadDirectory(dir, testutil.Store(t))
	var le *refdata.LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, refdata.KindDuplicateCode, le.Kind)
}

func TestLoad_UnknownCode(t *testing.T) {
	doc := settingsDoc + strings.Replace(worldDoc, "stats: {MXHP: 40, DEFN: 2}", "stats: {MXHP: 40, LUCK: 2}", 1)
	assert.Equal(t, refdata.KindUnknownCode, loadKind(t, doc))
}

func TestLoad_UnknownField(t *testing.T) {
	doc := settingsDoc + "skilz: []\n"
	assert.Equal(t, refdata.KindMalformedRecord, loadKind(t, doc))
}

func TestLoad_DuplicateSkill(t *testing.T) {
	doc := settingsDoc + `
skills:
  - {name: Poke, damage: [{base: {inclination: PHYS, value: 1}}]}
  - {name: Poke, damage: [{base: {inclination: PHYS, value: 2}}]}
`
	assert.Equal(t, refdata.KindDuplicateCode, loadKind(t, doc))
}

func TestLoad_AutoBaseWithValueRejected(t *testing.T) {
	doc := settingsDoc + `
skills:
  - {name: Poke, damage: [{base: {inclination: AUTO, value: 1}}]}
`
	assert.Equal(t, refdata.KindMalformedRecord, loadKind(t, doc))
}

func TestLoad_ConversionOutsideGroup(t *testing.T) {
	doc := settingsDoc + `
equipment:
  - {name: Odd Sword, type: WEAP, conversions: {BLAD: EMBR}}
`
	assert.Equal(t, refdata.KindMalformedRecord, loadKind(t, doc))
}

func TestLoad_PartyMemberMustBeCharacter(t *testing.T) {
	doc := strings.Replace(settingsDoc, "party: [Hero]", "party: [Slime]", 1) + worldDoc
	assert.Equal(t, refdata.KindMalformedRecord, loadKind(t, doc))
}

func TestLoad_BattleSceneNeedsEnemy(t *testing.T) {
	doc := settingsDoc + strings.Replace(worldDoc, "enemy: Slime", "enemy: Dragon", 1)
	assert.Equal(t, refdata.KindMalformedRecord, loadKind(t, doc))
}

func TestLoad_LevelUpNeedsThreeOptions(t *testing.T) {
	doc := settingsDoc + worldDoc + `
  - character: Slime
    options:
      - {label: Ooze, group: BLAD, element: STEL, affinity: {element: STEL, damage_type: SLSH}}
`
	assert.Equal(t, refdata.KindMalformedRecord, loadKind(t, doc))
}
