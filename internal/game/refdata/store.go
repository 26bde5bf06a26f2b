package refdata

import (
	"fmt"
	"slices"
)

// table is one code -> display-name mapping with a sorted key order.
type table struct {
	name  string
	names map[AbbreviatedKey]string
	order []AbbreviatedKey
}

func newTable(name string) *table {
	return &table{name: name, names: make(map[AbbreviatedKey]string)}
}

func (t *table) add(code, name string) (AbbreviatedKey, error) {
	k, err := ParseKey(code)
	if err != nil {
		return AbbreviatedKey{}, NewLoadError(KindMalformedRecord, t.name, code, err.Error())
	}
	if name == "" {
		return AbbreviatedKey{}, NewLoadError(KindMalformedRecord, t.name, code, "name must not be empty")
	}
	if _, dup := t.names[k]; dup {
		return AbbreviatedKey{}, NewLoadError(KindDuplicateCode, t.name, code, "")
	}
	t.names[k] = name
	i, _ := slices.BinarySearchFunc(t.order, k, AbbreviatedKey.Compare)
	t.order = slices.Insert(t.order, i, k)
	return k, nil
}

func (t *table) lookup(code string) (AbbreviatedKey, bool) {
	k, err := ParseKey(code)
	if err != nil {
		return AbbreviatedKey{}, false
	}
	_, ok := t.names[k]
	return k, ok
}

func (t *table) has(k AbbreviatedKey) bool {
	_, ok := t.names[k]
	return ok
}

func (t *table) nameOf(k AbbreviatedKey) string { return t.names[k] }

func keysAs[T any](t *table, wrap func(AbbreviatedKey) T) []T {
	out := make([]T, len(t.order))
	for i, k := range t.order {
		out[i] = wrap(k)
	}
	return out
}

// Store is the read-only reference data every other game package is keyed by.
// It is populated once at load time; after that it is never mutated.
//
// Invariant: every element belongs to exactly one defined element group.
type Store struct {
	stats          *table
	damageTypes    *table
	inclinations   *table
	equipmentTypes *table
	elementGroups  *table
	elements       *table
	groupOf        map[ElementKey]ElementGroupKey
	members        map[ElementGroupKey][]ElementKey
}

// NewStore returns an empty Store.
//
// Postcondition: all tables are initialised and empty.
func NewStore() *Store {
	return &Store{
		stats:          newTable("stats"),
		damageTypes:    newTable("damage_types"),
		inclinations:   newTable("inclinations"),
		equipmentTypes: newTable("equipment_types"),
		elementGroups:  newTable("element_groups"),
		elements:       newTable("elements"),
		groupOf:        make(map[ElementKey]ElementGroupKey),
		members:        make(map[ElementGroupKey][]ElementKey),
	}
}

// AddStat defines a battler stat.
//
// Postcondition: Returns a *LoadError on a malformed or duplicate code.
func (s *Store) AddStat(code, name string) (StatKey, error) {
	k, err := s.stats.add(code, name)
	return StatKey{k}, err
}

// AddDamageType defines a damage type.
func (s *Store) AddDamageType(code, name string) (DamageTypeKey, error) {
	k, err := s.damageTypes.add(code, name)
	return DamageTypeKey{k}, err
}

// AddInclination defines a damage inclination. The reserved AUTO code is rejected.
func (s *Store) AddInclination(code, name string) (InclinationKey, error) {
	if code == AutoCode {
		return InclinationKey{}, NewLoadError(KindMalformedRecord, s.inclinations.name, code, "AUTO is reserved")
	}
	k, err := s.inclinations.add(code, name)
	return InclinationKey{k}, err
}

// AddEquipmentType defines an equipment type.
func (s *Store) AddEquipmentType(code, name string) (EquipmentTypeKey, error) {
	k, err := s.equipmentTypes.add(code, name)
	return EquipmentTypeKey{k}, err
}

// AddElementGroup defines a skill element group.
func (s *Store) AddElementGroup(code, name string) (ElementGroupKey, error) {
	k, err := s.elementGroups.add(code, name)
	return ElementGroupKey{k}, err
}

// AddElement defines a skill element belonging to groupCode.
//
// Precondition: groupCode must already have been added via AddElementGroup.
// Postcondition: Returns a *LoadError of KindUndefinedElementGroup when the group is unknown.
func (s *Store) AddElement(code, name, groupCode string) (ElementKey, error) {
	g, ok := s.elementGroups.lookup(groupCode)
	if !ok {
		return ElementKey{}, NewLoadError(KindUndefinedElementGroup, s.elements.name, code,
			fmt.Sprintf("group %q is not defined", groupCode))
	}
	k, err := s.elements.add(code, name)
	if err != nil {
		return ElementKey{}, err
	}
	e, group := ElementKey{k}, ElementGroupKey{g}
	s.groupOf[e] = group
	i, _ := slices.BinarySearchFunc(s.members[group], e, func(a, b ElementKey) int {
		return a.Compare(b.AbbreviatedKey)
	})
	s.members[group] = slices.Insert(s.members[group], i, e)
	return e, nil
}

// Stat resolves a stat code.
func (s *Store) Stat(code string) (StatKey, bool) {
	k, ok := s.stats.lookup(code)
	return StatKey{k}, ok
}

// DamageType resolves a damage type code.
func (s *Store) DamageType(code string) (DamageTypeKey, bool) {
	k, ok := s.damageTypes.lookup(code)
	return DamageTypeKey{k}, ok
}

// Inclination resolves an inclination code. AUTO resolves to AutoInclination.
func (s *Store) Inclination(code string) (InclinationKey, bool) {
	if code == AutoCode {
		return AutoInclination, true
	}
	k, ok := s.inclinations.lookup(code)
	return InclinationKey{k}, ok
}

// EquipmentType resolves an equipment type code.
func (s *Store) EquipmentType(code string) (EquipmentTypeKey, bool) {
	k, ok := s.equipmentTypes.lookup(code)
	return EquipmentTypeKey{k}, ok
}

// Element resolves an element code.
func (s *Store) Element(code string) (ElementKey, bool) {
	k, ok := s.elements.lookup(code)
	return ElementKey{k}, ok
}

// ElementGroup resolves an element group code.
func (s *Store) ElementGroup(code string) (ElementGroupKey, bool) {
	k, ok := s.elementGroups.lookup(code)
	return ElementGroupKey{k}, ok
}

// HasStat reports whether k is a defined stat.
func (s *Store) HasStat(k StatKey) bool { return s.stats.has(k.AbbreviatedKey) }

// StatName returns the display name of k, or "" when undefined.
func (s *Store) StatName(k StatKey) string { return s.stats.nameOf(k.AbbreviatedKey) }

// DamageTypeName returns the display name of k, or "" when undefined.
func (s *Store) DamageTypeName(k DamageTypeKey) string { return s.damageTypes.nameOf(k.AbbreviatedKey) }

// InclinationName returns the display name of k, or "" when undefined.
func (s *Store) InclinationName(k InclinationKey) string {
	if k.IsAuto() {
		return "Auto"
	}
	return s.inclinations.nameOf(k.AbbreviatedKey)
}

// ElementName returns the display name of k, or "" when undefined.
func (s *Store) ElementName(k ElementKey) string { return s.elements.nameOf(k.AbbreviatedKey) }

// ElementGroupName returns the display name of k, or "" when undefined.
func (s *Store) ElementGroupName(k ElementGroupKey) string {
	return s.elementGroups.nameOf(k.AbbreviatedKey)
}

// EquipmentTypeName returns the display name of k, or "" when undefined.
func (s *Store) EquipmentTypeName(k EquipmentTypeKey) string {
	return s.equipmentTypes.nameOf(k.AbbreviatedKey)
}

// Stats returns every stat in code order.
func (s *Store) Stats() []StatKey {
	return keysAs(s.stats, func(k AbbreviatedKey) StatKey { return StatKey{k} })
}

// DamageTypes returns every damage type in code order.
func (s *Store) DamageTypes() []DamageTypeKey {
	return keysAs(s.damageTypes, func(k AbbreviatedKey) DamageTypeKey { return DamageTypeKey{k} })
}

// Inclinations returns every inclination in code order. AUTO is never included.
func (s *Store) Inclinations() []InclinationKey {
	return keysAs(s.inclinations, func(k AbbreviatedKey) InclinationKey { return InclinationKey{k} })
}

// EquipmentTypes returns every equipment type in code order.
func (s *Store) EquipmentTypes() []EquipmentTypeKey {
	return keysAs(s.equipmentTypes, func(k AbbreviatedKey) EquipmentTypeKey { return EquipmentTypeKey{k} })
}

// Elements returns every element in code order.
func (s *Store) Elements() []ElementKey {
	return keysAs(s.elements, func(k AbbreviatedKey) ElementKey { return ElementKey{k} })
}

// ElementGroups returns every element group in code order.
func (s *Store) ElementGroups() []ElementGroupKey {
	return keysAs(s.elementGroups, func(k AbbreviatedKey) ElementGroupKey { return ElementGroupKey{k} })
}

// GroupElements returns the elements of group in code order; nil when the group is unknown.
func (s *Store) GroupElements(group ElementGroupKey) []ElementKey {
	return slices.Clone(s.members[group])
}

// ElementGroupOf returns the group element e belongs to.
func (s *Store) ElementGroupOf(e ElementKey) (ElementGroupKey, bool) {
	g, ok := s.groupOf[e]
	return g, ok
}
