// Package levelup holds the fixed per-character growth table and applies a
// chosen option to a battler template.
package levelup

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/battler"
	"github.com/cory-johannsen/skirmish/internal/game/refdata"
)

// OptionsPerCharacter is the number of choices offered on each level-up screen.
const OptionsPerCharacter = 3

// Option is one selectable growth branch.
type Option struct {
	Label string
	// Group and Element name the conversion the equipped weapon must provide.
	Group   refdata.ElementGroupKey
	Element refdata.ElementKey
	// MaxHP is added to the MXHP stat.
	MaxHP int
	// Stats holds one or two stat deltas.
	Stats         map[refdata.StatKey]int
	Affinity      battler.AffinityKey
	AffinityDelta int
}

// Table maps a character name to its options.
type Table struct {
	options map[string][]Option
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{options: make(map[string][]Option)}
}

// Set registers the options for character.
//
// Precondition: character must be non-empty.
// Postcondition: Returns an error unless exactly OptionsPerCharacter options are given.
func (t *Table) Set(character string, opts []Option) error {
	if character == "" {
		return fmt.Errorf("level-up character must not be empty")
	}
	if len(opts) != OptionsPerCharacter {
		return fmt.Errorf("level-up %q: expected %d options, got %d", character, OptionsPerCharacter, len(opts))
	}
	t.options[character] = append([]Option(nil), opts...)
	return nil
}

// Options returns the options for character, nil when none are registered.
func (t *Table) Options(character string) []Option { return t.options[character] }

// Has reports whether character has options.
func (t *Table) Has(character string) bool {
	_, ok := t.options[character]
	return ok
}

// Apply grows b by opt when b's equipped weapon converts opt.Group into
// opt.Element. Otherwise nothing changes.
//
// Precondition: b must be non-nil.
// Postcondition: Returns true iff the deltas were applied.
func Apply(b *battler.Battler, weaponType refdata.EquipmentTypeKey, opt Option) bool {
	weapon, ok := b.Equipped(weaponType)
	if !ok {
		return false
	}
	elem, ok := weapon.Conversion(opt.Group)
	if !ok || elem != opt.Element {
		return false
	}
	if opt.MaxHP != 0 {
		b.AdjustStat(battler.MaxHP, opt.MaxHP)
	}
	for k, v := range opt.Stats {
		b.AdjustStat(k, v)
	}
	if opt.AffinityDelta != 0 {
		b.AdjustAffinity(opt.Affinity, opt.AffinityDelta)
	}
	return true
}
