package battler

import (
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/cory-johannsen/skirmish/internal/game/refdata"
	"github.com/cory-johannsen/skirmish/internal/game/skill"
)

// Instance is a battler's per-battle snapshot: the template's values plus
// every equipped item's bonuses, and the current HP.
type Instance struct {
	id            string
	parent        *Battler
	stats         *Stats
	resistances   *Resistances
	damageSources *DamageSources
	affinities    *Affinities
	skills        map[string]*skill.Skill
	hp            int
}

// NewInstance snapshots b and its currently equipped items.
//
// Precondition: b must be non-nil.
// Postcondition: HP() == hp when hp != 0, otherwise HP() == MaxHP() after
// equipment bonuses. Later changes to b do not affect the instance.
func NewInstance(b *Battler, hp int) *Instance {
	inst := &Instance{
		id:            uuid.New().String(),
		parent:        b,
		stats:         b.stats.clone(),
		resistances:   b.resistances.clone(),
		damageSources: b.damageSources.clone(),
		affinities:    b.affinities.clone(),
		skills:        make(map[string]*skill.Skill),
	}
	for _, eq := range b.slots.Equipped() {
		for _, k := range eq.stats.Keys() {
			inst.stats.addValue(k, eq.stats.GetValue(k))
		}
		for _, k := range eq.resistances.Keys() {
			inst.resistances.add(k, eq.resistances.GetValue(k))
		}
		for _, s := range eq.Skills() {
			inst.skills[s.Name] = s
		}
		for k, v := range eq.damageSources {
			inst.damageSources.addValue(k, v)
		}
	}
	if hp == 0 {
		hp = inst.MaxHP()
	}
	inst.hp = hp
	return inst
}

// ID returns the unique instance identifier.
func (i *Instance) ID() string { return i.id }

// Parent returns the template the instance was built from.
func (i *Instance) Parent() *Battler { return i.parent }

// Name returns the template's name.
func (i *Instance) Name() string { return i.parent.name }

// Priority returns the template's turn priority.
func (i *Instance) Priority() int { return i.parent.priority }

// IsCharacter reports whether the template is a party member.
func (i *Instance) IsCharacter() bool { return i.parent.isCharacter }

// Stat returns the aggregated value of stat k.
func (i *Instance) Stat(k refdata.StatKey) int { return i.stats.GetValue(k) }

// Resistance returns the aggregated resistance for k.
func (i *Instance) Resistance(k TypeInclination) int { return i.resistances.GetValue(k) }

// Affinity returns the affinity for k.
func (i *Instance) Affinity(k AffinityKey) int { return i.affinities.GetValue(k) }

// DamageSource returns the aggregated damage-source level for k.
func (i *Instance) DamageSource(k TypeInclination) int { return i.damageSources.GetValue(k) }

// Skills returns the usable skills sorted by name.
func (i *Instance) Skills() []*skill.Skill {
	out := slices.Collect(maps.Values(i.skills))
	slices.SortFunc(out, func(a, b *skill.Skill) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Skill returns the usable skill called name.
func (i *Instance) Skill(name string) (*skill.Skill, bool) {
	s, ok := i.skills[name]
	return s, ok
}

// HP returns the current hit points.
func (i *Instance) HP() int { return i.hp }

// SetHP sets the current hit points. Callers clamp.
func (i *Instance) SetHP(hp int) { i.hp = hp }

// MaxHP returns the aggregated MXHP stat.
func (i *Instance) MaxHP() int { return i.stats.GetValue(MaxHP) }

// IsAlive reports whether HP is above zero.
func (i *Instance) IsAlive() bool { return i.hp > 0 }

// Weapon returns the first equipped item of weaponType on the template.
func (i *Instance) Weapon(weaponType refdata.EquipmentTypeKey) (*Equipment, bool) {
	return i.parent.Equipped(weaponType)
}
