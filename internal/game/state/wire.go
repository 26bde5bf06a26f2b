package state

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/ai"
	"github.com/cory-johannsen/skirmish/internal/game/battle"
	"github.com/cory-johannsen/skirmish/internal/game/battler"
	"github.com/cory-johannsen/skirmish/internal/game/levelup"
	"github.com/cory-johannsen/skirmish/internal/game/refdata"
	"github.com/cory-johannsen/skirmish/internal/game/scene"
)

// Roster looks up battler templates by name.
type Roster interface {
	Battler(name string) (*battler.Battler, bool)
}

// Deps are the collaborators states read and write.
type Deps struct {
	Title      string
	Info       *battle.Info
	Chooser    ai.Chooser
	Scenes     *scene.Progression
	Roster     Roster
	LevelUp    *levelup.Table
	WeaponType refdata.EquipmentTypeKey
	View       Presentation
	Timings    Timings
}

func (d Deps) validate() error {
	var errs []error
	missing := func(ok bool, name string) {
		if !ok {
			errs = append(errs, fmt.Errorf("state: %s must be set", name))
		}
	}
	missing(d.Info != nil, "Info")
	missing(d.Chooser != nil, "Chooser")
	missing(d.Scenes != nil, "Scenes")
	missing(d.Roster != nil, "Roster")
	missing(d.LevelUp != nil, "LevelUp")
	v := d.View
	missing(v.Screen != nil, "View.Screen")
	missing(v.Dialog != nil, "View.Dialog")
	missing(v.Menu != nil, "View.Menu")
	missing(v.Status != nil, "View.Status")
	missing(v.Enemy != nil, "View.Enemy")
	missing(v.Effect != nil, "View.Effect")
	missing(v.Sound != nil, "View.Sound")
	missing(v.Music != nil, "View.Music")
	missing(v.Input != nil, "View.Input")
	missing(v.Clock != nil, "View.Clock")
	return errors.Join(errs...)
}

// env is shared by every state of one Machine.
type env struct {
	Deps
	// scene is the scene most recently entered.
	scene scene.Scene
	// pending holds the characters still to choose a level-up option.
	pending []*battler.Battler
	logger  *zap.Logger
}

// Wire supplies the collaborators to every state and registers all flows.
//
// Postcondition: on success every ConfigureForX succeeds. On error nothing
// is registered.
func (m *Machine) Wire(d Deps) error {
	if err := d.validate(); err != nil {
		return err
	}
	m.env.Deps = d
	for f, seq := range Sequences() {
		m.setFlow(f, seq)
	}
	m.logger.Info("state: machine wired", zap.String("title", d.Title))
	return nil
}

func (m *Machine) populate() {
	e := m.env
	m.register(TypeTitle, &title{env: e})
	m.register(TypeSceneTransition, &sceneTransition{env: e})
	m.register(TypeFadeIn, &fade{env: e, in: true})
	m.register(TypeFadeOut, &fade{env: e})
	m.register(TypePlayMusic, &playMusic{env: e})
	m.register(TypeMonologue, &monologue{env: e})
	m.register(TypeAISelect, &aiSelect{env: e})
	m.register(TypePlayerSelect, &playerSelect{env: e})
	m.register(TypePlayerLoop, &playerLoop{env: e})
	m.register(TypeDecisionInit, &decisionInit{env: e})
	m.register(TypeSkillName, &skillName{env: e})
	m.register(TypeSkillAnimation, &skillAnimation{env: e})
	m.register(TypeDamageCalc, &damageCalc{env: e})
	m.register(TypeSkillLoop, &skillLoop{env: e})
	m.register(TypeBattleLoop, &battleLoop{env: e})
	m.register(TypeOutcome, &outcome{env: e})
	m.register(TypeWin, &announce{env: e, won: true})
	m.register(TypeLose, &announce{env: e})
	m.register(TypeClose, &closeGame{})
	m.register(TypeLevelUpLoad, &levelUpLoad{env: e})
	m.register(TypeLevelUpSelect, &levelUpSelect{env: e})
	m.register(TypeLevelUpLoop, &levelUpLoop{env: e})
}

// refreshStatus writes every battler's HP into the status box.
func (e *env) refreshStatus() {
	if e.View.Status == nil || e.Info == nil {
		return
	}
	var parts []string
	for _, p := range e.Info.Party() {
		parts = append(parts, fmt.Sprintf("%s %d/%d", p.Name(), p.HP(), p.MaxHP()))
	}
	line := strings.Join(parts, "  ")
	if en := e.Info.Enemy(); en != nil {
		line += fmt.Sprintf("  | %s %d/%d", en.Name(), en.HP(), en.MaxHP())
	}
	e.View.Status.SetText(line)
	e.View.Status.SetVisible(true)
}

// spriteFor returns the sprite showing b, or nil.
func (e *env) spriteFor(b *battler.Instance) Sprite {
	if e.Info == nil {
		return nil
	}
	if b == e.Info.Enemy() {
		return e.View.Enemy
	}
	for i, p := range e.Info.Party() {
		if p == b && i < len(e.View.Party) {
			return e.View.Party[i]
		}
	}
	return nil
}

// poll returns the next input action, if any.
func (e *env) poll() (Action, bool) {
	if e.View.Input == nil {
		return 0, false
	}
	return e.View.Input.Poll()
}

func show(box TextBox, text string) {
	if box == nil {
		return
	}
	box.SetText(text)
	box.SetVisible(true)
}

func hide(box TextBox) {
	if box != nil {
		box.SetVisible(false)
	}
}

// renderMenu lays out choices one per line with a marker on the selected one.
func renderMenu(header string, choices []string, selected int) string {
	var b strings.Builder
	b.WriteString(header)
	for i, c := range choices {
		b.WriteByte('\n')
		if i == selected {
			b.WriteString("> ")
		} else {
			b.WriteString("  ")
		}
		b.WriteString(c)
	}
	return b.String()
}

// moveCursor applies Up/Down to a wrapped menu cursor.
func moveCursor(a Action, cursor, n int) int {
	if n == 0 {
		return 0
	}
	switch a {
	case ActionUp:
		return (cursor - 1 + n) % n
	case ActionDown:
		return (cursor + 1) % n
	}
	return cursor
}
