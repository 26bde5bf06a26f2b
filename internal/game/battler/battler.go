package battler

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/skirmish/internal/game/refdata"
)

// MaxHPCode is the stat code holding a battler's hit-point cap.
const MaxHPCode = "MXHP"

// MaxHP is the stat key for MaxHPCode.
var MaxHP = refdata.MustStat(MaxHPCode)

// Spec is the raw description used to build a Battler template.
type Spec struct {
	Name        string
	IsCharacter bool
	// Priority orders turns; lower acts first.
	Priority      int
	Textures      []string
	Stats         map[refdata.StatKey]int
	Resistances   map[TypeInclination]int
	DamageSources map[TypeInclination]int
	Affinities    map[AffinityKey]int
}

// Battler is a character or monster template. It is shared by every Instance
// built from it and only changes through AdjustStat and AdjustAffinity.
type Battler struct {
	name          string
	isCharacter   bool
	priority      int
	textures      []string
	stats         *Stats
	resistances   *Resistances
	damageSources *DamageSources
	affinities    *Affinities
	slots         *EquipmentSlots
}

// New builds a Battler template from spec using slots for its equipment.
//
// Precondition: spec.Name must be non-empty; slots must be non-nil.
// Postcondition: the returned Battler owns copies of every map in spec.
func New(spec Spec, slots *EquipmentSlots) (*Battler, error) {
	if strings.TrimSpace(spec.Name) == "" {
		return nil, fmt.Errorf("battler name must not be empty")
	}
	if slots == nil {
		return nil, fmt.Errorf("battler %q: slots must not be nil", spec.Name)
	}
	return &Battler{
		name:          spec.Name,
		isCharacter:   spec.IsCharacter,
		priority:      spec.Priority,
		textures:      append([]string(nil), spec.Textures...),
		stats:         NewStats(spec.Stats),
		resistances:   NewResistances(spec.Resistances),
		damageSources: NewDamageSources(spec.DamageSources),
		affinities:    NewAffinities(spec.Affinities),
		slots:         slots,
	}, nil
}

// Name returns the battler name.
func (b *Battler) Name() string { return b.name }

// IsCharacter reports whether the battler is a party member.
func (b *Battler) IsCharacter() bool { return b.isCharacter }

// Priority returns the turn priority.
func (b *Battler) Priority() int { return b.priority }

// Textures returns the texture identifiers.
func (b *Battler) Textures() []string { return append([]string(nil), b.textures...) }

// Stat returns the base value of stat k.
func (b *Battler) Stat(k refdata.StatKey) int { return b.stats.GetValue(k) }

// Affinity returns the base affinity for k.
func (b *Battler) Affinity(k AffinityKey) int { return b.affinities.GetValue(k) }

// Resistance returns the base resistance for k.
func (b *Battler) Resistance(k TypeInclination) int { return b.resistances.GetValue(k) }

// DamageSource returns the innate damage-source level for k.
func (b *Battler) DamageSource(k TypeInclination) int { return b.damageSources.GetValue(k) }

// Slots returns the battler's equipment slots.
func (b *Battler) Slots() *EquipmentSlots { return b.slots }

// Equipped returns the first equipment of typ, if any.
func (b *Battler) Equipped(typ refdata.EquipmentTypeKey) (*Equipment, bool) {
	return b.slots.FirstOfType(typ)
}

// AdjustStat permanently changes stat k by delta.
func (b *Battler) AdjustStat(k refdata.StatKey, delta int) { b.stats.addValue(k, delta) }

// AdjustAffinity permanently changes affinity k by delta.
func (b *Battler) AdjustAffinity(k AffinityKey, delta int) { b.affinities.add(k, delta) }
