// Package skill describes skills declaratively: per-component base damage,
// stat scaling terms and elemental bindings. Damage arithmetic lives in the
// damage package.
package skill

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cory-johannsen/skirmish/internal/game/refdata"
)

// StatScaling adds attacker stat × Weight to the elemental stat damage of one inclination.
type StatScaling struct {
	Inclination refdata.InclinationKey
	Stat        refdata.StatKey
	Weight      float64
}

// ElementBinding routes elemental stat damage of one inclination into a
// (damage type, inclination) bucket, amplified by the attacker's affinity for
// either a single element or every element of a group.
type ElementBinding struct {
	Inclination refdata.InclinationKey
	DamageType  refdata.DamageTypeKey
	// Element is set when the binding names a single element.
	Element refdata.ElementKey
	// Group is set when the binding names an element group.
	Group       refdata.ElementGroupKey
	Scaling     float64
	Penetrating bool
}

// NewElementBinding binds a single element.
func NewElementBinding(incl refdata.InclinationKey, typ refdata.DamageTypeKey, elem refdata.ElementKey, scaling float64, penetrating bool) ElementBinding {
	return ElementBinding{Inclination: incl, DamageType: typ, Element: elem, Scaling: scaling, Penetrating: penetrating}
}

// NewGroupBinding binds every element of a group.
func NewGroupBinding(incl refdata.InclinationKey, typ refdata.DamageTypeKey, group refdata.ElementGroupKey, scaling float64, penetrating bool) ElementBinding {
	return ElementBinding{Inclination: incl, DamageType: typ, Group: group, Scaling: scaling, Penetrating: penetrating}
}

// UsesGroup reports whether the binding names an element group rather than one element.
func (b ElementBinding) UsesGroup() bool { return !b.Group.IsZero() }

// Damage is one damage component of a skill.
type Damage struct {
	// BaseInclination selects the reduction applied to BaseValue and the
	// attacking stat list. AUTO evaluates attacking stats per inclination.
	BaseInclination refdata.InclinationKey
	BaseValue       float64
	Scalings        []StatScaling
	Bindings        []ElementBinding
}

// Skill is an immutable, shared skill definition.
type Skill struct {
	Name       string
	Components []Damage
	Texture    string
	Sound      string
}

// ElementGroups returns the union of element groups referenced by any binding, in code order.
//
// Postcondition: the result contains no duplicates.
func (s *Skill) ElementGroups() []refdata.ElementGroupKey {
	var out []refdata.ElementGroupKey
	for _, c := range s.Components {
		for _, b := range c.Bindings {
			if b.UsesGroup() && !slices.Contains(out, b.Group) {
				out = append(out, b.Group)
			}
		}
	}
	slices.SortFunc(out, func(a, b refdata.ElementGroupKey) int {
		return a.Compare(b.AbbreviatedKey)
	})
	return out
}

// Validate checks the skill's structural invariants.
//
// Postcondition: Returns nil iff Name is non-empty, there is at least one
// component, no component pairs a non-zero base value with the AUTO
// inclination, and every binding names exactly one of element or group.
func (s *Skill) Validate() error {
	var errs []error
	if s.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if len(s.Components) == 0 {
		errs = append(errs, errors.New("at least one damage component is required"))
	}
	for i, c := range s.Components {
		if c.BaseInclination.IsAuto() && c.BaseValue != 0 {
			errs = append(errs, fmt.Errorf("component %d: base damage cannot use the AUTO inclination", i))
		}
		for j, st := range c.Scalings {
			if st.Inclination.IsAuto() {
				errs = append(errs, fmt.Errorf("component %d scaling %d: AUTO inclination is not allowed", i, j))
			}
		}
		for j, b := range c.Bindings {
			if b.Element.IsZero() == b.Group.IsZero() {
				errs = append(errs, fmt.Errorf("component %d binding %d: exactly one of element or group is required", i, j))
			}
			if b.Inclination.IsAuto() {
				errs = append(errs, fmt.Errorf("component %d binding %d: AUTO inclination is not allowed", i, j))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("skill %q: %w", s.Name, errors.Join(errs...))
	}
	return nil
}
