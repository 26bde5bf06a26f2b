package battler

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/cory-johannsen/skirmish/internal/game/refdata"
	"github.com/cory-johannsen/skirmish/internal/game/skill"
)

// EquipmentSpec is the raw description used to build an Equipment.
type EquipmentSpec struct {
	// Name is the unique display name.
	Name string
	// Type selects which slots accept the equipment.
	Type refdata.EquipmentTypeKey
	// Stats are bonus stats summed into a wearer's instance.
	Stats map[refdata.StatKey]int
	// Resistances are bonus resistances summed into a wearer's instance.
	Resistances map[TypeInclination]int
	// DamageSources are damage-source levels summed into a wearer's instance.
	DamageSources map[TypeInclination]int
	// Conversions map an element group to the concrete element it channels.
	Conversions map[refdata.ElementGroupKey]refdata.ElementKey
}

// Equipment is an immutable item that grants stats, resistances, damage
// sources and the skills its element conversions unlock.
type Equipment struct {
	name          string
	typ           refdata.EquipmentTypeKey
	stats         *Stats
	resistances   *Resistances
	damageSources map[TypeInclination]int
	conversions   map[refdata.ElementGroupKey]refdata.ElementKey
	skills        map[string]*skill.Skill
}

// NewEquipment builds an Equipment from spec, unlocking every skill in pool
// whose element groups all have a conversion.
//
// Precondition: spec.Name must be non-empty; spec.Type must be non-zero.
// Postcondition: Skills() contains exactly the unlocked subset of pool.
func NewEquipment(spec EquipmentSpec, pool []*skill.Skill) (*Equipment, error) {
	if strings.TrimSpace(spec.Name) == "" {
		return nil, fmt.Errorf("equipment name must not be empty")
	}
	if spec.Type.IsZero() {
		return nil, fmt.Errorf("equipment %q: type must be set", spec.Name)
	}
	e := &Equipment{
		name:          spec.Name,
		typ:           spec.Type,
		stats:         NewStats(spec.Stats),
		resistances:   NewResistances(spec.Resistances),
		damageSources: maps.Clone(spec.DamageSources),
		conversions:   maps.Clone(spec.Conversions),
		skills:        make(map[string]*skill.Skill),
	}
	if e.damageSources == nil {
		e.damageSources = make(map[TypeInclination]int)
	}
	if e.conversions == nil {
		e.conversions = make(map[refdata.ElementGroupKey]refdata.ElementKey)
	}
	for _, s := range pool {
		if e.unlocks(s) {
			e.skills[s.Name] = s
		}
	}
	return e, nil
}

func (e *Equipment) unlocks(s *skill.Skill) bool {
	for _, g := range s.ElementGroups() {
		if _, ok := e.conversions[g]; !ok {
			return false
		}
	}
	return true
}

// Name returns the equipment name.
func (e *Equipment) Name() string { return e.name }

// Type returns the equipment type.
func (e *Equipment) Type() refdata.EquipmentTypeKey { return e.typ }

// Stat returns the bonus for stat k.
func (e *Equipment) Stat(k refdata.StatKey) int { return e.stats.GetValue(k) }

// Resistance returns the bonus resistance for k.
func (e *Equipment) Resistance(k TypeInclination) int { return e.resistances.GetValue(k) }

// DamageSource returns the damage-source bonus for k.
func (e *Equipment) DamageSource(k TypeInclination) int { return e.damageSources[k] }

// Conversion returns the element that group converts to, if any.
func (e *Equipment) Conversion(group refdata.ElementGroupKey) (refdata.ElementKey, bool) {
	elem, ok := e.conversions[group]
	return elem, ok
}

// Skills returns the unlocked skills sorted by name.
func (e *Equipment) Skills() []*skill.Skill {
	out := slices.Collect(maps.Values(e.skills))
	slices.SortFunc(out, func(a, b *skill.Skill) int { return strings.Compare(a.Name, b.Name) })
	return out
}
