package state

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/scene"
)

// title waits for Confirm on the title card.
type title struct {
	env *env
}

func (s *title) begin(Control) Outcome {
	if s.env.View.Dialog == nil {
		return Fail
	}
	name := s.env.Title
	if name == "" {
		name = "Skirmish"
	}
	show(s.env.View.Dialog, name+"\nPress confirm to begin.")
	return Advance
}

func (s *title) process(Control) Outcome {
	if a, ok := s.env.poll(); ok && a == ActionConfirm {
		return Advance
	}
	return Stay
}

func (s *title) end(Control) Outcome {
	hide(s.env.View.Dialog)
	return Advance
}

func (s *title) reset() { hide(s.env.View.Dialog) }

// sceneTransition enters the next scene and configures the flow it needs.
// When the scene list is exhausted, or an ending scene is reached, it
// finishes the machine.
type sceneTransition struct {
	passive
	env *env
}

func (s *sceneTransition) begin(c Control) Outcome {
	e := s.env
	if e.Scenes == nil || e.Info == nil || e.Roster == nil {
		return Fail
	}
	next, ok := e.Scenes.Next()
	if !ok || next.Kind == scene.KindEnding {
		if ok {
			e.scene = next
			if len(next.Monologue) > 0 {
				show(e.View.Dialog, strings.Join(next.Monologue, "\n"))
			}
		}
		e.logger.Info("scene list finished")
		c.Finish()
		return Finish
	}
	e.scene = next
	e.logger.Info("entering scene",
		zap.String("scene", next.Name),
		zap.Stringer("kind", next.Kind),
	)

	switch next.Kind {
	case scene.KindBattle:
		enemy, ok := e.Roster.Battler(next.Enemy)
		if !ok {
			e.logger.Warn("scene enemy not found", zap.String("scene", next.Name), zap.String("enemy", next.Enemy))
			return Fail
		}
		e.Info.StartBattle(enemy)
		if e.View.Enemy != nil {
			if tex := enemy.Textures(); len(tex) > 0 {
				e.View.Enemy.SetTexture(tex[0], 0)
			}
			e.View.Enemy.SetVisible(true)
		}
		e.refreshStatus()
		if err := c.Configure(FlowBattle); err != nil {
			e.logger.Warn("configuring battle", zap.Error(err))
			return Fail
		}
	case scene.KindLevelUp:
		if err := c.Configure(FlowLevelUp); err != nil {
			e.logger.Warn("configuring level-up", zap.Error(err))
			return Fail
		}
	}
	return Advance
}

// fade ramps the screen alpha over Timings.Fade.
type fade struct {
	env   *env
	in    bool
	timer Timer
}

func (s *fade) alpha() float64 {
	f := s.timer.Fraction()
	if s.in {
		return 1 - f
	}
	return f
}

func (s *fade) begin(Control) Outcome {
	e := s.env
	if e.View.Screen == nil || e.View.Clock == nil {
		return Fail
	}
	s.timer.Start(e.View.Clock, e.Timings.Fade)
	e.View.Screen.SetFade(s.alpha())
	return Advance
}

func (s *fade) process(Control) Outcome {
	s.env.View.Screen.SetFade(s.alpha())
	if s.timer.Done() {
		return Advance
	}
	return Stay
}

func (s *fade) end(Control) Outcome {
	s.timer.Stop()
	if !s.in {
		e := s.env
		if e.View.Music != nil {
			e.View.Music.Stop()
		}
		hide(e.View.Status)
		hide(e.View.Dialog)
	}
	return Advance
}

func (s *fade) reset() { s.timer.Stop() }

// playMusic starts the current scene's track.
type playMusic struct {
	passive
	env *env
}

func (s *playMusic) begin(Control) Outcome {
	if s.env.View.Music == nil {
		return Fail
	}
	if track := s.env.scene.Music; track != "" {
		s.env.View.Music.Play(track)
	}
	return Finish
}

func (s *playMusic) reset() {
	if s.env.View.Music != nil {
		s.env.View.Music.Stop()
	}
}

// monologue shows the scene's lines one at a time. Confirm or the line
// timer moves on; Skip ends it at once.
type monologue struct {
	env   *env
	line  int
	timer Timer
}

func (s *monologue) begin(Control) Outcome {
	e := s.env
	if len(e.scene.Monologue) == 0 {
		return Finish
	}
	if e.View.Dialog == nil || e.View.Clock == nil {
		return Fail
	}
	s.line = 0
	show(e.View.Dialog, e.scene.Monologue[0])
	s.timer.Start(e.View.Clock, e.Timings.MonologueLine)
	return Advance
}

func (s *monologue) process(Control) Outcome {
	e := s.env
	a, ok := e.poll()
	if ok && a == ActionSkip {
		return Advance
	}
	if !(ok && a == ActionConfirm) && !s.timer.Done() {
		return Stay
	}
	s.line++
	if s.line >= len(e.scene.Monologue) {
		return Advance
	}
	show(e.View.Dialog, e.scene.Monologue[s.line])
	s.timer.Start(e.View.Clock, e.Timings.MonologueLine)
	return Stay
}

func (s *monologue) end(Control) Outcome {
	hide(s.env.View.Dialog)
	s.timer.Stop()
	return Advance
}

func (s *monologue) reset() {
	hide(s.env.View.Dialog)
	s.timer.Stop()
	s.line = 0
}

// announce shows the battle result for Timings.Outcome or until Confirm.
type announce struct {
	env   *env
	won   bool
	timer Timer
}

func (s *announce) begin(Control) Outcome {
	e := s.env
	if e.Info == nil || e.View.Dialog == nil || e.View.Clock == nil {
		return Fail
	}
	text := "The party has fallen..."
	if s.won {
		text = "Victory!"
		if en := e.Info.Enemy(); en != nil {
			text = fmt.Sprintf("Victory! %s was defeated.", en.Name())
		}
		if e.View.Enemy != nil {
			e.View.Enemy.SetVisible(false)
		}
	}
	show(e.View.Dialog, text)
	s.timer.Start(e.View.Clock, e.Timings.Outcome)
	return Advance
}

func (s *announce) process(Control) Outcome {
	if a, ok := s.env.poll(); (ok && a == ActionConfirm) || s.timer.Done() {
		return Advance
	}
	return Stay
}

func (s *announce) end(Control) Outcome {
	hide(s.env.View.Dialog)
	s.timer.Stop()
	return Advance
}

func (s *announce) reset() {
	hide(s.env.View.Dialog)
	s.timer.Stop()
}

// closeGame finishes the machine after a loss.
type closeGame struct {
	passive
}

func (closeGame) begin(c Control) Outcome {
	c.Finish()
	return Finish
}
