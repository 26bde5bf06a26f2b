// Package ai chooses enemy decisions, either from a Lua choose_skill hook or
// uniformly at random.
package ai

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/battle"
	"github.com/cory-johannsen/skirmish/internal/game/battler"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/scripting"
)

// ChooseHook is the Lua global called by ScriptedChooser.
//
// Signature: choose_skill(self, targets) -> {skill = <name>, target = <1-based index>}
const ChooseHook = "choose_skill"

// Chooser picks a decision for source against one of targets.
type Chooser interface {
	// Choose returns false when source cannot act.
	Choose(source *battler.Instance, targets []*battler.Instance) (battle.Decision, bool)
}

// ScriptCaller is the interface required to evaluate Lua hooks.
type ScriptCaller interface {
	// CallHook calls a named Lua function in the given set's VM.
	// Returns (LNil, nil) if the function is not defined.
	CallHook(set, hook string, args ...any) (lua.LValue, error)
}

// RandomChooser picks a uniformly random skill and living target.
type RandomChooser struct {
	src dice.Source
}

// NewRandomChooser constructs a RandomChooser.
//
// Precondition: src must not be nil.
func NewRandomChooser(src dice.Source) *RandomChooser {
	if src == nil {
		panic("ai.NewRandomChooser: src must not be nil")
	}
	return &RandomChooser{src: src}
}

// Choose implements Chooser.
//
// Postcondition: Returns false when source has no skills or no target is alive.
func (c *RandomChooser) Choose(source *battler.Instance, targets []*battler.Instance) (battle.Decision, bool) {
	sk, ok := dice.Pick(c.src, source.Skills())
	if !ok {
		return battle.Decision{}, false
	}
	target, ok := dice.Pick(c.src, living(targets))
	if !ok {
		return battle.Decision{}, false
	}
	return battle.Decision{Skill: sk, Source: source, Target: target}, true
}

// ScriptedChooser asks the script set named after the source battler, and
// falls back when the hook is missing or returns something unusable.
type ScriptedChooser struct {
	caller   ScriptCaller
	fallback Chooser
	logger   *zap.Logger
}

// NewScriptedChooser constructs a ScriptedChooser.
//
// Precondition: caller and fallback must not be nil.
func NewScriptedChooser(caller ScriptCaller, fallback Chooser, logger *zap.Logger) *ScriptedChooser {
	if caller == nil {
		panic("ai.NewScriptedChooser: caller must not be nil")
	}
	if fallback == nil {
		panic("ai.NewScriptedChooser: fallback must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScriptedChooser{caller: caller, fallback: fallback, logger: logger}
}

// Choose implements Chooser.
//
// Postcondition: A scripted decision always names a skill source owns and a
// living target; anything else defers to the fallback.
func (c *ScriptedChooser) Choose(source *battler.Instance, targets []*battler.Instance) (battle.Decision, bool) {
	infos := make([]scripting.BattlerInfo, len(targets))
	for i, t := range targets {
		infos[i] = Snapshot(t)
	}
	ret, err := c.caller.CallHook(source.Name(), ChooseHook, Snapshot(source), infos)
	if err != nil {
		c.logger.Warn("ai: choose hook failed", zap.String("battler", source.Name()), zap.Error(err))
		return c.fallback.Choose(source, targets)
	}
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return c.fallback.Choose(source, targets)
	}

	name, _ := tbl.RawGetString("skill").(lua.LString)
	idx, _ := tbl.RawGetString("target").(lua.LNumber)
	sk, ok := source.Skill(string(name))
	i := int(idx) - 1
	if !ok || i < 0 || i >= len(targets) || !targets[i].IsAlive() {
		c.logger.Debug("ai: script returned an unusable decision",
			zap.String("battler", source.Name()),
			zap.String("skill", string(name)),
			zap.Int("target", int(idx)),
		)
		return c.fallback.Choose(source, targets)
	}
	return battle.Decision{Skill: sk, Source: source, Target: targets[i]}, true
}

// Snapshot converts an instance into the table shape scripts receive.
func Snapshot(b *battler.Instance) scripting.BattlerInfo {
	skills := b.Skills()
	names := make([]string, len(skills))
	for i, s := range skills {
		names[i] = s.Name
	}
	return scripting.BattlerInfo{
		ID:     b.ID(),
		Name:   b.Name(),
		HP:     b.HP(),
		MaxHP:  b.MaxHP(),
		Skills: names,
	}
}

func living(in []*battler.Instance) []*battler.Instance {
	var out []*battler.Instance
	for _, b := range in {
		if b.IsAlive() {
			out = append(out, b)
		}
	}
	return out
}
