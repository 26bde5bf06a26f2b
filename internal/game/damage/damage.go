// Package damage computes skill damage from an attacker and a defender
// instance. Arithmetic never fails: missing data contributes zero.
package damage

import (
	"math"

	"github.com/cory-johannsen/skirmish/internal/game/battler"
	"github.com/cory-johannsen/skirmish/internal/game/refdata"
)

// Values is the result for one skill damage component.
type Values struct {
	Base      float64
	Subtotals map[battler.TypeInclination]float64
}

// Total returns Base plus every subtotal.
func (v Values) Total() float64 {
	total := v.Base
	for _, s := range v.Subtotals {
		total += s
	}
	return total
}

// Damage is the result of one skill use, one Values per component.
type Damage struct {
	Components []Values
}

// Final returns the ceiling of the sum of every component total.
//
// Postcondition: any positive total, however small, yields at least 1.
func (d Damage) Final() int {
	var sum float64
	for _, c := range d.Components {
		sum += c.Total()
	}
	return int(math.Ceil(sum))
}

// DamageSourcePercentage maps a damage-source level to the channelled share
// of elemental damage.
//
// Postcondition: 0 for level < 1, 1 for level >= MaxDamageSource, level/MaxDamageSource otherwise.
func DamageSourcePercentage(level int) float64 {
	switch {
	case level < 1:
		return 0
	case level >= battler.MaxDamageSource:
		return 1
	default:
		return float64(level) / float64(battler.MaxDamageSource)
	}
}

// StatLists names the stats summed on each side of the reduction formula for
// every inclination.
type StatLists struct {
	attacking map[refdata.InclinationKey][]refdata.StatKey
	defending map[refdata.InclinationKey][]refdata.StatKey
}

// NewStatLists returns empty stat lists.
func NewStatLists() *StatLists {
	return &StatLists{
		attacking: make(map[refdata.InclinationKey][]refdata.StatKey),
		defending: make(map[refdata.InclinationKey][]refdata.StatKey),
	}
}

// Set replaces the attacking and defending lists for incl.
func (l *StatLists) Set(incl refdata.InclinationKey, attacking, defending []refdata.StatKey) {
	l.attacking[incl] = append([]refdata.StatKey(nil), attacking...)
	l.defending[incl] = append([]refdata.StatKey(nil), defending...)
}

// Attacking returns the attacking stats for incl, nil when unset.
func (l *StatLists) Attacking(incl refdata.InclinationKey) []refdata.StatKey { return l.attacking[incl] }

// Defending returns the defending stats for incl, nil when unset.
func (l *StatLists) Defending(incl refdata.InclinationKey) []refdata.StatKey { return l.defending[incl] }

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
