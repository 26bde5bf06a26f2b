// Package refdata provides the abbreviated-code reference tables every other
// game package is keyed by: battler stats, damage types, damage inclinations,
// equipment types, skill elements and skill element groups.
package refdata

import "fmt"

// CodeLength is the number of ASCII characters in every abbreviated code.
const CodeLength = 4

// AutoCode is the reserved inclination code meaning "use whichever inclination
// is currently being evaluated".
const AutoCode = "AUTO"

// AbbreviatedKey identifies a reference-data entity by a four character code
// packed big-endian into an integer.
//
// Invariant: two keys are equal iff their packed codes are equal.
type AbbreviatedKey struct {
	code uint32
}

// ParseKey packs a four character ASCII code.
//
// Precondition: code must be exactly CodeLength printable ASCII characters.
// Postcondition: Returns the packed key, or an error describing the violation.
func ParseKey(code string) (AbbreviatedKey, error) {
	if len(code) != CodeLength {
		return AbbreviatedKey{}, fmt.Errorf("code %q must be %d characters", code, CodeLength)
	}
	var packed uint32
	for i := 0; i < CodeLength; i++ {
		c := code[i]
		if c < 0x21 || c > 0x7e {
			return AbbreviatedKey{}, fmt.Errorf("code %q contains non-printable or non-ASCII byte at %d", code, i)
		}
		packed = packed<<8 | uint32(c)
	}
	return AbbreviatedKey{code: packed}, nil
}

// MustKey is ParseKey that panics on error. Useful for package-level constants.
func MustKey(code string) AbbreviatedKey {
	k, err := ParseKey(code)
	if err != nil {
		panic("refdata: MustKey: " + err.Error())
	}
	return k
}

// Code unpacks the key back into its four character code.
func (k AbbreviatedKey) Code() string {
	if k.code == 0 {
		return ""
	}
	b := [CodeLength]byte{
		byte(k.code >> 24),
		byte(k.code >> 16),
		byte(k.code >> 8),
		byte(k.code),
	}
	return string(b[:])
}

// Packed returns the packed integer form of the code.
func (k AbbreviatedKey) Packed() uint32 { return k.code }

// IsZero reports whether k was never assigned a code.
func (k AbbreviatedKey) IsZero() bool { return k.code == 0 }

// Equal reports whether k and o carry the same code.
func (k AbbreviatedKey) Equal(o AbbreviatedKey) bool { return k.code == o.code }

// Compare orders keys by packed code, which matches lexicographic code order.
//
// Postcondition: Returns -1, 0 or 1.
func (k AbbreviatedKey) Compare(o AbbreviatedKey) int {
	switch {
	case k.code < o.code:
		return -1
	case k.code > o.code:
		return 1
	default:
		return 0
	}
}

// String returns the four character code.
func (k AbbreviatedKey) String() string { return k.Code() }

// StatKey identifies a battler stat (e.g. MXHP).
type StatKey struct{ AbbreviatedKey }

// DamageTypeKey identifies a damage type (e.g. SLSH, FIRE).
type DamageTypeKey struct{ AbbreviatedKey }

// InclinationKey identifies a damage inclination (e.g. PHYS, MAGI).
type InclinationKey struct{ AbbreviatedKey }

// IsAuto reports whether k is the reserved AUTO inclination.
func (k InclinationKey) IsAuto() bool { return k.Equal(AutoInclination.AbbreviatedKey) }

// EquipmentTypeKey identifies an equipment slot type (e.g. WEAP).
type EquipmentTypeKey struct{ AbbreviatedKey }

// ElementKey identifies a skill element.
type ElementKey struct{ AbbreviatedKey }

// ElementGroupKey identifies a group of skill elements.
type ElementGroupKey struct{ AbbreviatedKey }

// AutoInclination is the reserved AUTO inclination key.
var AutoInclination = InclinationKey{MustKey(AutoCode)}

// MustStat returns the StatKey for code, panicking on a malformed code.
func MustStat(code string) StatKey { return StatKey{MustKey(code)} }

// MustDamageType returns the DamageTypeKey for code, panicking on a malformed code.
func MustDamageType(code string) DamageTypeKey { return DamageTypeKey{MustKey(code)} }

// MustInclination returns the InclinationKey for code, panicking on a malformed code.
func MustInclination(code string) InclinationKey { return InclinationKey{MustKey(code)} }

// MustEquipmentType returns the EquipmentTypeKey for code, panicking on a malformed code.
func MustEquipmentType(code string) EquipmentTypeKey { return EquipmentTypeKey{MustKey(code)} }

// MustElement returns the ElementKey for code, panicking on a malformed code.
func MustElement(code string) ElementKey { return ElementKey{MustKey(code)} }

// MustElementGroup returns the ElementGroupKey for code, panicking on a malformed code.
func MustElementGroup(code string) ElementGroupKey { return ElementGroupKey{MustKey(code)} }
