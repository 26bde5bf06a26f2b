package damage

import (
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/battler"
	"github.com/cory-johannsen/skirmish/internal/game/refdata"
	"github.com/cory-johannsen/skirmish/internal/game/skill"
)

// DefaultPenetrationEffectiveness makes penetrating bindings ignore damage reduction.
const DefaultPenetrationEffectiveness = 1.0

// Calculator evaluates skills against battler instances.
type Calculator struct {
	store  *refdata.Store
	lists  *StatLists
	logger *zap.Logger

	penetration float64
}

// NewCalculator creates a Calculator.
//
// Precondition: store and lists must be non-nil; logger may be nil.
func NewCalculator(store *refdata.Store, lists *StatLists, logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{
		store:       store,
		lists:       lists,
		logger:      logger,
		penetration: DefaultPenetrationEffectiveness,
	}
}

// WithPenetrationEffectiveness sets the share of damage reduction penetrating
// bindings bypass, clamped to [0, 1].
func (c *Calculator) WithPenetrationEffectiveness(e float64) *Calculator {
	c.penetration = clamp(e, 0, 1)
	return c
}

// PenetrationEffectiveness returns the configured effectiveness.
func (c *Calculator) PenetrationEffectiveness() float64 { return c.penetration }

// CalculateDamage evaluates every component of s for attacker hitting defender.
//
// Precondition: s, attacker and defender must be non-nil.
// Postcondition: len(result.Components) == len(s.Components). Subtotal
// entries exist only for (damage type, inclination) pairs some binding hit.
func (c *Calculator) CalculateDamage(s *skill.Skill, attacker, defender *battler.Instance) Damage {
	out := Damage{Components: make([]Values, 0, len(s.Components))}
	for i, comp := range s.Components {
		v := c.component(comp, attacker, defender)
		c.logger.Debug("damage component",
			zap.String("skill", s.Name),
			zap.Int("component", i),
			zap.String("attacker", attacker.Name()),
			zap.String("defender", defender.Name()),
			zap.Float64("base", v.Base),
			zap.Float64("total", v.Total()),
		)
		out.Components = append(out.Components, v)
	}
	return out
}

func (c *Calculator) component(comp skill.Damage, attacker, defender *battler.Instance) Values {
	reduction := make(map[refdata.InclinationKey]float64)
	subtotals := make(map[battler.TypeInclination]float64)

	for _, incl := range c.store.Inclinations() {
		atkIncl := comp.BaseInclination
		if atkIncl.IsAuto() {
			atkIncl = incl
		}
		atkStat := sumStats(attacker, c.lists.Attacking(atkIncl))
		defStat := sumStats(defender, c.lists.Defending(incl))
		resist := c.totalResistance(defender, incl)

		statRatio := clamp((atkStat-0.1*defStat)/math.Max(defStat, 1), 0, 1)
		resistFloor := clamp((2000+0.5*atkStat)/(4000+resist+defStat), 0, 1)
		resistRatio := math.Min(math.Max(2000/(2000+resist+defStat), resistFloor), 1)
		reduction[incl] = statRatio * resistRatio

		var elemental float64
		for _, sc := range comp.Scalings {
			if sc.Inclination == incl {
				elemental += float64(attacker.Stat(sc.Stat)) * sc.Weight
			}
		}

		for _, b := range comp.Bindings {
			if b.Inclination != incl {
				continue
			}
			key := battler.TypeInclination{Type: b.DamageType, Inclination: incl}
			affinity := c.affinity(attacker, b)
			resistance := float64(defender.Resistance(key))
			affinityReduced := math.Max(affinity-0.1*resistance, 0)
			multiplier := math.Max(1+(affinityReduced-resistance)/20, 0)
			sourcePct := DamageSourcePercentage(attacker.DamageSource(key))

			if b.Penetrating {
				penetrated := clamp(c.penetration+math.Min(reduction[incl]*(1-c.penetration), 0), 0, 1)
				subtotals[key] += penetrated * b.Scaling * multiplier * elemental * sourcePct
				continue
			}
			bonus := bonusScaling(elemental, defStat)
			var floor float64
			if 200+affinity > 0 {
				floor = math.Max(1-200/(200+affinity), 0)
			}
			subtotals[key] += reduction[incl] * b.Scaling * math.Max(multiplier, floor) * bonus * elemental * sourcePct
		}
	}

	return Values{
		Base:      reduction[comp.BaseInclination] * comp.BaseValue,
		Subtotals: subtotals,
	}
}

func (c *Calculator) affinity(attacker *battler.Instance, b skill.ElementBinding) float64 {
	if !b.UsesGroup() {
		return float64(attacker.Affinity(battler.AffinityKey{Element: b.Element, Type: b.DamageType}))
	}
	var sum float64
	for _, e := range c.store.GroupElements(b.Group) {
		sum += float64(attacker.Affinity(battler.AffinityKey{Element: e, Type: b.DamageType}))
	}
	return sum
}

// totalResistance sums the defender's non-negative resistances across every
// damage type for incl.
func (c *Calculator) totalResistance(defender *battler.Instance, incl refdata.InclinationKey) float64 {
	var sum float64
	for _, typ := range c.store.DamageTypes() {
		sum += math.Max(float64(defender.Resistance(battler.TypeInclination{Type: typ, Inclination: incl})), 0)
	}
	return sum
}

// bonusScaling is clamp((elemental - 0.1*def) / def, 1, 2). With no defense
// the ratio is +Inf for a positive numerator and 0/0 otherwise, so those
// cases resolve to 2 and 1 without dividing.
func bonusScaling(elemental, defStat float64) float64 {
	num := elemental - 0.1*defStat
	if defStat <= 0 {
		if num > 0 {
			return 2
		}
		return 1
	}
	return clamp(num/defStat, 1, 2)
}

func sumStats(b *battler.Instance, stats []refdata.StatKey) float64 {
	var sum float64
	for _, k := range stats {
		sum += float64(b.Stat(k))
	}
	return sum
}
