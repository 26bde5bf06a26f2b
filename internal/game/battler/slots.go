package battler

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/refdata"
)

// EquipmentSlots is an ordered set of typed slots. Each slot holds at most
// one Equipment whose type matches the slot's type.
type EquipmentSlots struct {
	schema []refdata.EquipmentTypeKey
	filled []*Equipment
}

// NewEquipmentSlots returns empty slots following schema.
//
// Postcondition: Len() == len(schema) and every slot is empty.
func NewEquipmentSlots(schema []refdata.EquipmentTypeKey) *EquipmentSlots {
	return &EquipmentSlots{
		schema: append([]refdata.EquipmentTypeKey(nil), schema...),
		filled: make([]*Equipment, len(schema)),
	}
}

// Len returns the number of slots.
func (s *EquipmentSlots) Len() int { return len(s.schema) }

// Equip places eq into the lowest-index empty slot of its type.
//
// Precondition: eq must be non-nil.
// Postcondition: Returns an error when no slot of eq's type exists or every such slot is full.
func (s *EquipmentSlots) Equip(eq *Equipment) error {
	found := false
	for i, typ := range s.schema {
		if typ != eq.Type() {
			continue
		}
		found = true
		if s.filled[i] == nil {
			s.filled[i] = eq
			return nil
		}
	}
	if !found {
		return fmt.Errorf("equip %q: no %s slot", eq.Name(), eq.Type())
	}
	return fmt.Errorf("equip %q: every %s slot is full", eq.Name(), eq.Type())
}

// Unequip empties the highest-index filled slot of typ.
//
// Postcondition: Returns the removed equipment and true, or (nil, false) when
// no slot of typ is filled.
func (s *EquipmentSlots) Unequip(typ refdata.EquipmentTypeKey) (*Equipment, bool) {
	for i := len(s.schema) - 1; i >= 0; i-- {
		if s.schema[i] == typ && s.filled[i] != nil {
			eq := s.filled[i]
			s.filled[i] = nil
			return eq, true
		}
	}
	return nil, false
}

// Equipped returns the filled slots in slot order.
func (s *EquipmentSlots) Equipped() []*Equipment {
	var out []*Equipment
	for _, eq := range s.filled {
		if eq != nil {
			out = append(out, eq)
		}
	}
	return out
}

// FirstOfType returns the equipment in the lowest-index filled slot of typ.
func (s *EquipmentSlots) FirstOfType(typ refdata.EquipmentTypeKey) (*Equipment, bool) {
	for i, t := range s.schema {
		if t == typ && s.filled[i] != nil {
			return s.filled[i], true
		}
	}
	return nil, false
}

// Clone returns an independent copy sharing the immutable Equipment values.
func (s *EquipmentSlots) Clone() *EquipmentSlots {
	return &EquipmentSlots{
		schema: append([]refdata.EquipmentTypeKey(nil), s.schema...),
		filled: append([]*Equipment(nil), s.filled...),
	}
}
