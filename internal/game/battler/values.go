// Package battler provides battler templates, per-battle battler instances,
// equipment and the resistance/affinity/damage-source containers they carry.
//
// Containers are read through GetValue from anywhere; only this package
// mutates them.
package battler

import (
	"slices"

	"github.com/cory-johannsen/skirmish/internal/game/refdata"
)

// MaxDamageSource is the highest damage-source level.
const MaxDamageSource = 4

// TypeInclination is a (damage type, inclination) pair, ordered type first.
type TypeInclination struct {
	Type        refdata.DamageTypeKey
	Inclination refdata.InclinationKey
}

// Compare orders pairs by damage type, then inclination.
func (p TypeInclination) Compare(o TypeInclination) int {
	if c := p.Type.Compare(o.Type.AbbreviatedKey); c != 0 {
		return c
	}
	return p.Inclination.Compare(o.Inclination.AbbreviatedKey)
}

// AffinityKey is an (element, damage type) pair, ordered element first.
type AffinityKey struct {
	Element refdata.ElementKey
	Type    refdata.DamageTypeKey
}

// Compare orders pairs by element, then damage type.
func (p AffinityKey) Compare(o AffinityKey) int {
	if c := p.Element.Compare(o.Element.AbbreviatedKey); c != 0 {
		return c
	}
	return p.Type.Compare(o.Type.AbbreviatedKey)
}

type orderedKey[K any] interface {
	comparable
	Compare(K) int
}

// valueTable is the shared storage behind every container. Absent keys read as 0.
type valueTable[K orderedKey[K]] struct {
	values map[K]int
}

func newValueTable[K orderedKey[K]](src map[K]int) valueTable[K] {
	t := valueTable[K]{values: make(map[K]int, len(src))}
	for k, v := range src {
		t.values[k] = v
	}
	return t
}

func (t valueTable[K]) get(k K) int { return t.values[k] }

func (t valueTable[K]) keys() []K {
	out := make([]K, 0, len(t.values))
	for k := range t.values {
		out = append(out, k)
	}
	slices.SortFunc(out, func(a, b K) int { return a.Compare(b) })
	return out
}

func (t valueTable[K]) clone() valueTable[K] { return newValueTable(t.values) }

func (t valueTable[K]) set(k K, v int) { t.values[k] = v }

func (t valueTable[K]) add(k K, delta int) { t.values[k] += delta }

// Resistances maps (damage type, inclination) to a defender's mitigation.
type Resistances struct{ valueTable[TypeInclination] }

// NewResistances copies src into a new container.
func NewResistances(src map[TypeInclination]int) *Resistances {
	return &Resistances{newValueTable(src)}
}

// DenseResistances pre-populates every (damage type × inclination) pair with 0.
//
// Postcondition: Keys() has len(DamageTypes) × len(Inclinations) entries.
func DenseResistances(store *refdata.Store) *Resistances {
	r := NewResistances(nil)
	for _, typ := range store.DamageTypes() {
		for _, incl := range store.Inclinations() {
			r.set(TypeInclination{typ, incl}, 0)
		}
	}
	return r
}

// GetValue returns the resistance for k, or 0 when absent.
func (r *Resistances) GetValue(k TypeInclination) int { return r.get(k) }

// Keys returns every stored pair in order.
func (r *Resistances) Keys() []TypeInclination { return r.keys() }

func (r *Resistances) clone() *Resistances { return &Resistances{r.valueTable.clone()} }

// Affinities maps (element, damage type) to an attacker's amplification.
type Affinities struct{ valueTable[AffinityKey] }

// NewAffinities copies src into a new container.
func NewAffinities(src map[AffinityKey]int) *Affinities {
	return &Affinities{newValueTable(src)}
}

// DenseAffinities pre-populates every (element × damage type) pair with 0.
func DenseAffinities(store *refdata.Store) *Affinities {
	a := NewAffinities(nil)
	for _, elem := range store.Elements() {
		for _, typ := range store.DamageTypes() {
			a.set(AffinityKey{elem, typ}, 0)
		}
	}
	return a
}

// GetValue returns the affinity for k, or 0 when absent.
func (a *Affinities) GetValue(k AffinityKey) int { return a.get(k) }

// Keys returns every stored pair in order.
func (a *Affinities) Keys() []AffinityKey { return a.keys() }

func (a *Affinities) clone() *Affinities { return &Affinities{a.valueTable.clone()} }

// DamageSources maps (damage type, inclination) to a 0..MaxDamageSource level.
//
// Invariant: every stored level is within [0, MaxDamageSource].
type DamageSources struct{ valueTable[TypeInclination] }

// NewDamageSources copies src into a new container, clamping each level.
func NewDamageSources(src map[TypeInclination]int) *DamageSources {
	d := &DamageSources{newValueTable[TypeInclination](nil)}
	for k, v := range src {
		d.setValue(k, v)
	}
	return d
}

// DenseDamageSources pre-populates every (damage type × inclination) pair with MaxDamageSource.
func DenseDamageSources(store *refdata.Store) *DamageSources {
	d := NewDamageSources(nil)
	for _, typ := range store.DamageTypes() {
		for _, incl := range store.Inclinations() {
			d.setValue(TypeInclination{typ, incl}, MaxDamageSource)
		}
	}
	return d
}

// GetValue returns the level for k, or 0 when absent.
func (d *DamageSources) GetValue(k TypeInclination) int { return d.get(k) }

// Keys returns every stored pair in order.
func (d *DamageSources) Keys() []TypeInclination { return d.keys() }

func (d *DamageSources) clone() *DamageSources { return &DamageSources{d.valueTable.clone()} }

func (d *DamageSources) setValue(k TypeInclination, v int) { d.set(k, clampLevel(v)) }

func (d *DamageSources) addValue(k TypeInclination, delta int) {
	d.set(k, clampLevel(d.get(k)+delta))
}

func clampLevel(v int) int {
	return min(max(v, 0), MaxDamageSource)
}

// Stats maps battler stats to values.
type Stats struct {
	values map[refdata.StatKey]int
}

// NewStats copies src into a new container.
func NewStats(src map[refdata.StatKey]int) *Stats {
	s := &Stats{values: make(map[refdata.StatKey]int, len(src))}
	for k, v := range src {
		s.values[k] = v
	}
	return s
}

// GetValue returns the stat value for k, or 0 when absent.
func (s *Stats) GetValue(k refdata.StatKey) int { return s.values[k] }

// Keys returns every stored stat in code order.
func (s *Stats) Keys() []refdata.StatKey {
	out := make([]refdata.StatKey, 0, len(s.values))
	for k := range s.values {
		out = append(out, k)
	}
	slices.SortFunc(out, func(a, b refdata.StatKey) int { return a.Compare(b.AbbreviatedKey) })
	return out
}

func (s *Stats) clone() *Stats { return NewStats(s.values) }

func (s *Stats) addValue(k refdata.StatKey, delta int) { s.values[k] += delta }
