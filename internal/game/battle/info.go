package battle

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/battler"
	"github.com/cory-johannsen/skirmish/internal/game/damage"
)

// Resolution is the decision being resolved and its computed damage.
type Resolution struct {
	Decision Decision
	Damage   damage.Damage
}

// Info is the shared state of the current battle.
type Info struct {
	Calculator *damage.Calculator
	Decisions  *DecisionOrdering
	// Current is set by DecisionInit and cleared once the decision resolves.
	Current *Resolution

	templates []*battler.Battler
	party     []*battler.Instance
	enemy     *battler.Instance
	logger    *zap.Logger
}

// NewInfo creates battle info for the party roster.
//
// Precondition: calc must be non-nil; party must contain character battlers.
// Postcondition: Party() holds a fresh instance per template; Enemy() is nil.
func NewInfo(calc *damage.Calculator, party []*battler.Battler, logger *zap.Logger) *Info {
	if logger == nil {
		logger = zap.NewNop()
	}
	info := &Info{
		Calculator: calc,
		Decisions:  NewDecisionOrdering(),
		templates:  append([]*battler.Battler(nil), party...),
		logger:     logger,
	}
	info.rebuildParty()
	return info
}

func (i *Info) rebuildParty() {
	i.party = make([]*battler.Instance, 0, len(i.templates))
	for _, b := range i.templates {
		i.party = append(i.party, battler.NewInstance(b, 0))
	}
}

// StartBattle instantiates enemy, re-instantiates the party from their
// templates and clears pending decisions.
//
// Postcondition: every party member is at full HP with current equipment.
func (i *Info) StartBattle(enemy *battler.Battler) {
	i.rebuildParty()
	i.enemy = battler.NewInstance(enemy, 0)
	i.Decisions.Clear()
	i.Current = nil
	i.logger.Info("battle started",
		zap.String("enemy", enemy.Name()),
		zap.Int("party", len(i.party)),
	)
}

// PartyTemplates returns the roster templates in order.
func (i *Info) PartyTemplates() []*battler.Battler { return i.templates }

// Party returns the party instances in roster order.
func (i *Info) Party() []*battler.Instance { return i.party }

// Enemy returns the current enemy instance, nil before the first battle.
func (i *Info) Enemy() *battler.Instance { return i.enemy }

// LivingParty returns the party members with HP above zero.
func (i *Info) LivingParty() []*battler.Instance {
	var out []*battler.Instance
	for _, p := range i.party {
		if p.IsAlive() {
			out = append(out, p)
		}
	}
	return out
}

// PartyDefeated reports whether every party member is down.
func (i *Info) PartyDefeated() bool { return len(i.LivingParty()) == 0 }

// EnemyDefeated reports whether the enemy is down.
func (i *Info) EnemyDefeated() bool { return i.enemy != nil && !i.enemy.IsAlive() }

// Over reports whether either side is defeated.
func (i *Info) Over() bool { return i.PartyDefeated() || i.EnemyDefeated() }

// ApplyDamage subtracts amount from target's HP, clamping at zero.
//
// Postcondition: target.HP() >= 0. Returns the HP after the hit.
func ApplyDamage(target *battler.Instance, amount int) int {
	hp := max(target.HP()-amount, 0)
	target.SetHP(hp)
	return hp
}
