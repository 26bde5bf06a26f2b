package state

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/levelup"
)

// levelUpLoad queues every roster member that has level-up options.
type levelUpLoad struct {
	passive
	env *env
}

func (s *levelUpLoad) begin(Control) Outcome {
	e := s.env
	if e.Info == nil || e.LevelUp == nil {
		return Fail
	}
	e.pending = e.pending[:0]
	for _, b := range e.Info.PartyTemplates() {
		if e.LevelUp.Has(b.Name()) {
			e.pending = append(e.pending, b)
		}
	}
	e.logger.Debug("level-up loaded", zap.Int("characters", len(e.pending)))
	return Finish
}

// levelUpSelect offers the first pending character its options and applies
// the confirmed one.
type levelUpSelect struct {
	env     *env
	options []levelup.Option
	cursor  int
}

func (s *levelUpSelect) render() {
	labels := make([]string, len(s.options))
	for i, o := range s.options {
		labels[i] = o.Label
	}
	header := fmt.Sprintf("%s grows stronger. Choose:", s.env.pending[0].Name())
	show(s.env.View.Menu, renderMenu(header, labels, s.cursor))
}

func (s *levelUpSelect) begin(Control) Outcome {
	e := s.env
	if len(e.pending) == 0 {
		return Finish
	}
	if e.LevelUp == nil || e.View.Menu == nil {
		return Fail
	}
	s.options = e.LevelUp.Options(e.pending[0].Name())
	s.cursor = 0
	s.render()
	return Advance
}

func (s *levelUpSelect) process(Control) Outcome {
	a, ok := s.env.poll()
	if !ok {
		return Stay
	}
	switch a {
	case ActionUp, ActionDown:
		s.cursor = moveCursor(a, s.cursor, len(s.options))
		s.render()
	case ActionConfirm:
		e := s.env
		b := e.pending[0]
		opt := s.options[s.cursor]
		applied := levelup.Apply(b, e.WeaponType, opt)
		e.logger.Info("level up",
			zap.String("character", b.Name()),
			zap.String("option", opt.Label),
			zap.Bool("applied", applied),
		)
		e.pending = e.pending[1:]
		return Advance
	}
	return Stay
}

func (s *levelUpSelect) end(Control) Outcome {
	hide(s.env.View.Menu)
	return Advance
}

func (s *levelUpSelect) reset() {
	hide(s.env.View.Menu)
	s.options = nil
	s.cursor = 0
}

// levelUpLoop repeats selection until no character is pending.
type levelUpLoop struct {
	passive
	env *env
}

func (s *levelUpLoop) begin(c Control) Outcome {
	if len(s.env.pending) == 0 {
		return Finish
	}
	if !c.ResetBack(TypeLevelUpLoad) {
		return Fail
	}
	return Stay
}
