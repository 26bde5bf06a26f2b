package state

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/battle"
	"github.com/cory-johannsen/skirmish/internal/game/battler"
	"github.com/cory-johannsen/skirmish/internal/game/skill"
)

// AnimationFrames is the number of texture frames a skill animation cycles.
const AnimationFrames = 4

// awaiting returns the living party members that can act and have no
// pending decision, in roster order.
func awaiting(info *battle.Info) []*battler.Instance {
	var out []*battler.Instance
	for _, p := range info.LivingParty() {
		if len(p.Skills()) == 0 {
			continue
		}
		if _, ok := info.Decisions.Find(p); ok {
			continue
		}
		out = append(out, p)
	}
	return out
}

// aiSelect queues the enemy's decision.
type aiSelect struct {
	passive
	env *env
}

func (s *aiSelect) begin(Control) Outcome {
	e := s.env
	if e.Info == nil || e.Chooser == nil || e.Info.Enemy() == nil {
		return Fail
	}
	enemy := e.Info.Enemy()
	d, ok := e.Chooser.Choose(enemy, e.Info.Party())
	if !ok {
		e.logger.Debug("enemy cannot act", zap.String("enemy", enemy.Name()))
		return Finish
	}
	e.Info.Decisions.Add(d)
	e.logger.Debug("enemy decided",
		zap.String("enemy", enemy.Name()),
		zap.String("skill", d.Skill.Name),
		zap.String("target", d.Target.Name()),
	)
	return Finish
}

// playerSelect shows the skill menu for the next party member awaiting a
// decision and queues the confirmed choice against the enemy.
type playerSelect struct {
	env    *env
	actor  *battler.Instance
	skills []*skill.Skill
	cursor int
}

func (s *playerSelect) render() {
	names := make([]string, len(s.skills))
	for i, sk := range s.skills {
		names[i] = sk.Name
	}
	header := fmt.Sprintf("%s (%d/%d)", s.actor.Name(), s.actor.HP(), s.actor.MaxHP())
	show(s.env.View.Menu, renderMenu(header, names, s.cursor))
}

func (s *playerSelect) begin(Control) Outcome {
	e := s.env
	if e.Info == nil || e.Info.Enemy() == nil || e.View.Menu == nil {
		return Fail
	}
	next := awaiting(e.Info)
	if len(next) == 0 {
		return Finish
	}
	s.actor = next[0]
	s.skills = s.actor.Skills()
	s.cursor = 0
	s.render()
	return Advance
}

func (s *playerSelect) process(Control) Outcome {
	a, ok := s.env.poll()
	if !ok {
		return Stay
	}
	switch a {
	case ActionUp, ActionDown:
		s.cursor = moveCursor(a, s.cursor, len(s.skills))
		s.render()
		return Stay
	case ActionConfirm:
		d := battle.Decision{Skill: s.skills[s.cursor], Source: s.actor, Target: s.env.Info.Enemy()}
		s.env.Info.Decisions.Add(d)
		s.env.logger.Debug("player decided",
			zap.String("battler", s.actor.Name()),
			zap.String("skill", d.Skill.Name),
		)
		return Advance
	}
	return Stay
}

func (s *playerSelect) end(Control) Outcome {
	hide(s.env.View.Menu)
	return Advance
}

func (s *playerSelect) reset() {
	hide(s.env.View.Menu)
	s.actor = nil
	s.skills = nil
	s.cursor = 0
}

// playerLoop repeats player selection until every party member able to act
// has a pending decision.
type playerLoop struct {
	passive
	env *env
}

func (s *playerLoop) begin(c Control) Outcome {
	if s.env.Info == nil {
		return Fail
	}
	if len(awaiting(s.env.Info)) == 0 {
		return Finish
	}
	if !c.ResetBack(TypeAISelect) {
		return Fail
	}
	return Stay
}

// decisionInit picks the first resolvable decision of the top priority
// bucket. Decisions whose source or target is already down are dropped.
type decisionInit struct {
	passive
	env *env
}

func (s *decisionInit) begin(Control) Outcome {
	info := s.env.Info
	if info == nil {
		return Fail
	}
	info.Current = nil
	for {
		bucket, priority, ok := info.Decisions.CleanTop()
		if !ok {
			return Finish
		}
		d := bucket[0]
		if d.Source.IsAlive() && d.Target.IsAlive() {
			info.Current = &battle.Resolution{Decision: d}
			s.env.logger.Debug("resolving decision",
				zap.String("source", d.Source.Name()),
				zap.String("skill", d.Skill.Name),
				zap.Int("priority", priority),
			)
			return Finish
		}
		info.Decisions.Remove(d.Source)
	}
}

// skillName announces the skill being used.
type skillName struct {
	env   *env
	timer Timer
}

func (s *skillName) begin(Control) Outcome {
	e := s.env
	if e.Info == nil {
		return Fail
	}
	cur := e.Info.Current
	if cur == nil {
		return Finish
	}
	if e.View.Dialog == nil || e.View.Clock == nil {
		return Fail
	}
	show(e.View.Dialog, fmt.Sprintf("%s uses %s!", cur.Decision.Source.Name(), cur.Decision.Skill.Name))
	s.timer.Start(e.View.Clock, e.Timings.SkillName)
	return Advance
}

func (s *skillName) process(Control) Outcome {
	if a, ok := s.env.poll(); (ok && a == ActionConfirm) || s.timer.Done() {
		return Advance
	}
	return Stay
}

func (s *skillName) end(Control) Outcome {
	hide(s.env.View.Dialog)
	s.timer.Stop()
	return Advance
}

func (s *skillName) reset() {
	hide(s.env.View.Dialog)
	s.timer.Stop()
}

// skillAnimation plays the skill's effect over the target's sprite.
type skillAnimation struct {
	env   *env
	timer Timer
}

func (s *skillAnimation) begin(Control) Outcome {
	e := s.env
	if e.Info == nil {
		return Fail
	}
	cur := e.Info.Current
	if cur == nil {
		return Finish
	}
	if e.View.Effect == nil || e.View.Sound == nil || e.View.Clock == nil {
		return Fail
	}
	sk := cur.Decision.Skill
	if sp := e.spriteFor(cur.Decision.Target); sp != nil {
		x, y := sp.Position()
		e.View.Effect.SetPosition(x, y)
	}
	e.View.Effect.SetTexture(sk.Texture, 0)
	e.View.Effect.SetVisible(true)
	if sk.Sound != "" {
		e.View.Sound.Play(sk.Sound)
	}
	s.timer.Start(e.View.Clock, e.Timings.Animation)
	return Advance
}

func (s *skillAnimation) process(Control) Outcome {
	if s.timer.Done() {
		return Advance
	}
	frame := min(int(s.timer.Fraction()*AnimationFrames), AnimationFrames-1)
	s.env.View.Effect.SetTexture(s.env.Info.Current.Decision.Skill.Texture, frame)
	return Stay
}

func (s *skillAnimation) end(Control) Outcome {
	s.stop()
	return Advance
}

func (s *skillAnimation) reset() { s.stop() }

func (s *skillAnimation) stop() {
	s.timer.Stop()
	if s.env.View.Effect != nil {
		s.env.View.Effect.SetVisible(false)
	}
	if s.env.View.Sound != nil {
		s.env.View.Sound.Stop()
	}
}

// damageCalc computes the current decision's damage and displays it. The
// damage is applied later by skillLoop.
type damageCalc struct {
	env   *env
	timer Timer
}

func (s *damageCalc) begin(Control) Outcome {
	e := s.env
	if e.Info == nil {
		return Fail
	}
	cur := e.Info.Current
	if cur == nil {
		return Finish
	}
	if e.Info.Calculator == nil || e.View.Dialog == nil || e.View.Clock == nil {
		return Fail
	}
	d := cur.Decision
	cur.Damage = e.Info.Calculator.CalculateDamage(d.Skill, d.Source, d.Target)
	show(e.View.Dialog, fmt.Sprintf("%s takes %d damage.", d.Target.Name(), cur.Damage.Final()))
	s.timer.Start(e.View.Clock, e.Timings.DamageDisplay)
	return Advance
}

func (s *damageCalc) process(Control) Outcome {
	if a, ok := s.env.poll(); (ok && a == ActionConfirm) || s.timer.Done() {
		return Advance
	}
	return Stay
}

func (s *damageCalc) end(Control) Outcome {
	hide(s.env.View.Dialog)
	s.timer.Stop()
	return Advance
}

func (s *damageCalc) reset() {
	hide(s.env.View.Dialog)
	s.timer.Stop()
}

// skillLoop applies the resolved damage, retires the decision and repeats
// resolution while decisions remain and neither side is down.
type skillLoop struct {
	passive
	env *env
}

func (s *skillLoop) begin(c Control) Outcome {
	e := s.env
	info := e.Info
	if info == nil {
		return Fail
	}
	if cur := info.Current; cur != nil {
		d := cur.Decision
		hp := battle.ApplyDamage(d.Target, cur.Damage.Final())
		info.Decisions.Remove(d.Source)
		info.Current = nil
		e.logger.Debug("decision resolved",
			zap.String("source", d.Source.Name()),
			zap.String("target", d.Target.Name()),
			zap.Int("damage", cur.Damage.Final()),
			zap.Int("hp", hp),
		)
		e.refreshStatus()
	}
	if info.Over() {
		info.Decisions.Clear()
		return Finish
	}
	if info.Decisions.Len() == 0 {
		return Finish
	}
	if !c.ResetBack(TypePlayerLoop) {
		return Fail
	}
	return Stay
}

// battleLoop starts another round until one side is down.
type battleLoop struct {
	passive
	env *env
}

func (s *battleLoop) begin(c Control) Outcome {
	if s.env.Info == nil {
		return Fail
	}
	if s.env.Info.Over() {
		return Finish
	}
	if !c.ResetBack(TypeMonologue) {
		return Fail
	}
	return Stay
}

// outcome switches to the battle-lost flow when the party is down.
type outcome struct {
	passive
	env *env
}

func (s *outcome) begin(c Control) Outcome {
	info := s.env.Info
	if info == nil {
		return Fail
	}
	enemy := ""
	if info.Enemy() != nil {
		enemy = info.Enemy().Name()
	}
	if !info.PartyDefeated() {
		s.env.logger.Info("battle won", zap.String("enemy", enemy))
		return Finish
	}
	s.env.logger.Info("battle lost", zap.String("enemy", enemy))
	if err := c.Configure(FlowBattleLost); err != nil {
		s.env.logger.Warn("configuring battle-lost", zap.Error(err))
		return Fail
	}
	return Stay
}
