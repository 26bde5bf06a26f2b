// Package testutil provides shared test fixtures: a small reference-data
// store, stat lists and battler builders.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/game/battler"
	"github.com/cory-johannsen/skirmish/internal/game/damage"
	"github.com/cory-johannsen/skirmish/internal/game/refdata"
)

// RefDataYAML is a small but complete reference-data document.
const RefDataYAML = `
stats:
  - {code: MXHP, name: Max HP}
  - {code: STRN, name: Strength}
  - {code: DEFN, name: Defense}
  - {code: INTL, name: Intellect}
  - {code: WILL, name: Will}
damage_types:
  - {code: SLSH, name: Slashing}
  - {code: FIRE, name: Fire}
inclinations:
  - {code: PHYS, name: Physical}
  - {code: MAGI, name: Magical}
equipment_types:
  - {code: WEAP, name: Weapon}
  - {code: ARMR, name: Armor}
element_groups:
  - {code: BLAD, name: Blades}
  - {code: FLAM, name: Flames}
elements:
  - {code: STEL, name: Steel, group: BLAD}
  - {code: BRNZ, name: Bronze, group: BLAD}
  - {code: EMBR, name: Ember, group: FLAM}
end: true
`

// Keys defined by RefDataYAML.
var (
	MaxHP     = battler.MaxHP
	Strength  = refdata.MustStat("STRN")
	Defense   = refdata.MustStat("DEFN")
	Intellect = refdata.MustStat("INTL")
	Will      = refdata.MustStat("WILL")
	Slashing  = refdata.MustDamageType("SLSH")
	Fire      = refdata.MustDamageType("FIRE")
	Physical  = refdata.MustInclination("PHYS")
	Magical   = refdata.MustInclination("MAGI")
	Weapon    = refdata.MustEquipmentType("WEAP")
	Armor     = refdata.MustEquipmentType("ARMR")
	Blades    = refdata.MustElementGroup("BLAD")
	Flames    = refdata.MustElementGroup("FLAM")
	Steel     = refdata.MustElement("STEL")
	Bronze    = refdata.MustElement("BRNZ")
	Ember     = refdata.MustElement("EMBR")
)

// Store loads RefDataYAML or fails the test.
func Store(t testing.TB) *refdata.Store {
	t.Helper()
	s, err := refdata.LoadFromBytes([]byte(RefDataYAML))
	require.NoError(t, err)
	return s
}

// StatLists returns STRN/DEFN for PHYS and INTL/WILL for MAGI.
func StatLists() *damage.StatLists {
	l := damage.NewStatLists()
	l.Set(Physical, []refdata.StatKey{Strength}, []refdata.StatKey{Defense})
	l.Set(Magical, []refdata.StatKey{Intellect}, []refdata.StatKey{Will})
	return l
}

// BattlerOption customizes NewBattler.
type BattlerOption func(*battler.Spec)

// WithStats merges stats into the spec.
func WithStats(stats map[refdata.StatKey]int) BattlerOption {
	return func(s *battler.Spec) {
		for k, v := range stats {
			s.Stats[k] = v
		}
	}
}

// WithPriority sets the turn priority.
func WithPriority(p int) BattlerOption {
	return func(s *battler.Spec) { s.Priority = p }
}

// AsCharacter marks the battler as a party member.
func AsCharacter() BattlerOption {
	return func(s *battler.Spec) { s.IsCharacter = true }
}

// WithDamageSources sets innate damage-source levels.
func WithDamageSources(src map[battler.TypeInclination]int) BattlerOption {
	return func(s *battler.Spec) { s.DamageSources = src }
}

// WithAffinities sets innate affinities.
func WithAffinities(src map[battler.AffinityKey]int) BattlerOption {
	return func(s *battler.Spec) { s.Affinities = src }
}

// WithResistances sets innate resistances.
func WithResistances(src map[battler.TypeInclination]int) BattlerOption {
	return func(s *battler.Spec) { s.Resistances = src }
}

// NewBattler builds a battler with MXHP=100, one weapon and one armor slot, then
// equips every item in equip.
func NewBattler(t testing.TB, name string, equip []*battler.Equipment, opts ...BattlerOption) *battler.Battler {
	t.Helper()
	spec := battler.Spec{
		Name:  name,
		Stats: map[refdata.StatKey]int{MaxHP: 100},
	}
	for _, o := range opts {
		o(&spec)
	}
	slots := battler.NewEquipmentSlots([]refdata.EquipmentTypeKey{Weapon, Armor})
	for _, eq := range equip {
		require.NoError(t, slots.Equip(eq))
	}
	b, err := battler.New(spec, slots)
	require.NoError(t, err)
	return b
}
