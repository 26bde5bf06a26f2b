package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/battle"
	"github.com/cory-johannsen/skirmish/internal/game/battler"
	"github.com/cory-johannsen/skirmish/internal/game/damage"
	"github.com/cory-johannsen/skirmish/internal/game/skill"
	"github.com/cory-johannsen/skirmish/internal/testutil"
)

// recorder logs every phase call into a shared journal.
type recorder struct {
	typ     Type
	journal *[]string
	// beginOut is what begin returns.
	beginOut Outcome
}

func (r *recorder) note(what string) { *r.journal = append(*r.journal, r.typ.String()+":"+what) }

func (r *recorder) begin(Control) Outcome   { r.note("begin"); return r.beginOut }
func (r *recorder) process(Control) Outcome { r.note("process"); return Advance }
func (r *recorder) end(Control) Outcome     { r.note("end"); return Advance }
func (r *recorder) reset()                  { r.note("reset") }

// nopControl ignores every request.
type nopControl struct{}

func (nopControl) ResetBack(Type) bool  { return true }
func (nopControl) Configure(Flow) error { return nil }
func (nopControl) Finish()              {}

func TestUpdate_DispatchesByStep(t *testing.T) {
	var journal []string
	s := newState(TypeTitle, &recorder{typ: TypeTitle, journal: &journal, beginOut: Advance})

	require.True(t, s.Update(nopControl{}))
	assert.Equal(t, StepProcessing, s.Step())
	require.True(t, s.Update(nopControl{}))
	assert.Equal(t, []string{"title:begin", "title:process"}, journal)
	assert.Equal(t, StepEnding, s.Step())

	require.True(t, s.Update(nopControl{}))
	assert.True(t, s.IsDone())
	require.True(t, s.Update(nopControl{}))
	assert.Len(t, journal, 3, "a done state is not dispatched")
}

func TestPhases_NoOpOutsideTheirStep(t *testing.T) {
	var journal []string
	s := newState(TypeTitle, &recorder{typ: TypeTitle, journal: &journal, beginOut: Advance})
	assert.True(t, s.Process(nopControl{}))
	assert.True(t, s.End(nopControl{}))
	assert.Empty(t, journal)
	assert.Equal(t, StepBeginning, s.Step())
}

func TestPhases_StayAndFailKeepStep(t *testing.T) {
	var journal []string
	stay := newState(TypeTitle, &recorder{typ: TypeTitle, journal: &journal, beginOut: Stay})
	assert.True(t, stay.Update(nopControl{}))
	assert.Equal(t, StepBeginning, stay.Step())

	fail := newState(TypeTitle, &recorder{typ: TypeTitle, journal: &journal, beginOut: Fail})
	assert.False(t, fail.Update(nopControl{}))
	assert.Equal(t, StepBeginning, fail.Step())

	finish := newState(TypeTitle, &recorder{typ: TypeTitle, journal: &journal, beginOut: Finish})
	assert.True(t, finish.Update(nopControl{}))
	assert.True(t, finish.IsDone())
}

func TestResetSteps_ReturnsToBeginning(t *testing.T) {
	var journal []string
	s := newState(TypeWin, &recorder{typ: TypeWin, journal: &journal, beginOut: Finish})
	s.Update(nopControl{})
	require.True(t, s.IsDone())
	s.ResetSteps()
	assert.Equal(t, StepBeginning, s.Step())
	assert.Equal(t, "win:reset", journal[len(journal)-1])
}

// recordingMachine replaces every arena slot with a recorder.
func recordingMachine(t *testing.T) (*Machine, *[]string) {
	t.Helper()
	journal := &[]string{}
	m := NewMachine(zap.NewNop())
	for typ := Type(0); typ < typeCount; typ++ {
		m.register(typ, &recorder{typ: typ, journal: journal, beginOut: Finish})
	}
	for f, seq := range Sequences() {
		m.setFlow(f, seq)
	}
	return m, journal
}

func TestResetBack_ResetsInterveningStatesInDescendingOrder(t *testing.T) {
	m, journal := recordingMachine(t)
	require.NoError(t, m.ConfigureForBattle())
	seq := m.Sequence()
	*journal = nil
	m.cursor = 7

	require.True(t, m.ResetBack(seq[3]))
	assert.Equal(t, 3, m.Cursor())
	assert.Equal(t, []string{
		seq[7].String() + ":reset",
		seq[6].String() + ":reset",
		seq[5].String() + ":reset",
		seq[4].String() + ":reset",
	}, *journal)
}

func TestResetBack_UnknownTargetChangesNothing(t *testing.T) {
	m, journal := recordingMachine(t)
	require.NoError(t, m.ConfigureForBattle())
	*journal = nil
	m.cursor = 2
	assert.False(t, m.ResetBack(TypeWin), "target after the cursor")
	assert.False(t, m.ResetBack(TypeLose), "target not in the flow")
	assert.Equal(t, 2, m.Cursor())
	assert.Empty(t, *journal)
}

func TestProperty_ResetBackLandsOnTarget(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		journal := &[]string{}
		m := NewMachine(zap.NewNop())
		for typ := Type(0); typ < typeCount; typ++ {
			m.register(typ, &recorder{typ: typ, journal: journal, beginOut: Finish})
		}
		seq := Sequences()[FlowBattle]
		m.setFlow(FlowBattle, seq)
		require.NoError(rt, m.ConfigureForBattle())
		cursor := rapid.IntRange(1, len(seq)-1).Draw(rt, "cursor")
		target := rapid.IntRange(0, cursor-1).Draw(rt, "target")
		m.cursor = cursor
		*journal = nil

		require.True(rt, m.ResetBack(seq[target]))
		assert.Equal(rt, target, m.Cursor())
		assert.Len(rt, *journal, cursor-target)
	})
}

func TestConfigure_BeforeWire(t *testing.T) {
	m := NewMachine(nil)
	assert.ErrorIs(t, m.ConfigureForBeginning(), ErrNotInitialized)
	assert.ErrorIs(t, m.ConfigureForBattle(), ErrNotInitialized)
	assert.ErrorIs(t, m.ConfigureForBattleLost(), ErrNotInitialized)
	assert.ErrorIs(t, m.ConfigureForLevelUp(), ErrNotInitialized)
	assert.False(t, m.Update(), "unconfigured machine cannot run")
}

func TestWire_ReportsMissingCollaborators(t *testing.T) {
	m := NewMachine(nil)
	err := m.Wire(Deps{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Info must be set")
	assert.Contains(t, err.Error(), "View.Clock must be set")
	assert.ErrorIs(t, m.ConfigureForBattle(), ErrNotInitialized)
}

func TestMachine_RunsSequenceToEnd(t *testing.T) {
	m, journal := recordingMachine(t)
	require.NoError(t, m.ConfigureForBattleLost())
	*journal = nil
	for i := 0; i < 20 && !m.IsDone(); i++ {
		require.True(t, m.Update())
	}
	assert.True(t, m.IsDone())
	assert.Equal(t, []string{"lose:begin", "fade_out:begin", "close:begin"}, *journal)
}

func TestMachine_ResetStepsRewindsWholeSequence(t *testing.T) {
	m, journal := recordingMachine(t)
	require.NoError(t, m.ConfigureForBattleLost())
	m.Update()
	m.Update()
	m.Update()
	require.Equal(t, 2, m.Cursor())
	*journal = nil
	m.ResetSteps()
	assert.Equal(t, 0, m.Cursor())
	assert.Equal(t, StepBeginning, m.Step())
	assert.Equal(t, []string{"close:reset", "fade_out:reset", "lose:reset"}, *journal)
}

func TestMachine_FailedPhaseKeepsCursorAndWarns(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	m := NewMachine(zap.New(core))
	m.setFlow(FlowBattle, Sequences()[FlowBattle])
	require.NoError(t, m.ConfigureForBattle())
	m.cursor = 3 // ai_select without battle info
	require.True(t, m.Update())
	assert.False(t, m.Update())
	assert.Equal(t, 3, m.Cursor())
	assert.Equal(t, 1, logs.FilterMessage("state: phase failed").Len())
}

// selfRewinder rewinds to target from its own begin.
type selfRewinder struct {
	passive
	target Type
}

func (s *selfRewinder) begin(c Control) Outcome {
	c.ResetBack(s.target)
	return Advance
}

func TestMachine_LoopStateRewindingItselfIsNotAdvanced(t *testing.T) {
	m, journal := recordingMachine(t)
	m.register(TypePlayerLoop, &selfRewinder{target: TypeAISelect})
	require.NoError(t, m.ConfigureForBattle())
	m.cursor = 5 // player_loop
	m.step = StepProcessing
	*journal = nil

	require.True(t, m.Update())
	assert.Equal(t, 3, m.Cursor())
	assert.Equal(t, StepBeginning, m.State(TypePlayerLoop).Step())
	assert.Equal(t, []string{"player_select:reset"}, *journal)

	require.True(t, m.Update()) // ai_select finishes and the cursor moves on
	assert.Equal(t, 4, m.Cursor())
}

func skillLoopFixture(t *testing.T, final float64) (*env, *battler.Instance) {
	t.Helper()
	heroTemplate := testutil.NewBattler(t, "Hero", nil, testutil.AsCharacter())
	slime := testutil.NewBattler(t, "Slime", nil)
	calc := damage.NewCalculator(testutil.Store(t), testutil.StatLists(), nil)
	info := battle.NewInfo(calc, []*battler.Battler{heroTemplate}, nil)
	info.StartBattle(slime)
	hero := info.Party()[0]

	sk := &skill.Skill{Name: "Crush"}
	d := battle.Decision{Skill: sk, Source: info.Enemy(), Target: hero}
	info.Decisions.Add(d)
	info.Current = &battle.Resolution{
		Decision: d,
		Damage:   damage.Damage{Components: []damage.Values{{Base: final}}},
	}
	e := &env{logger: zap.NewNop()}
	e.Info = info
	return e, hero
}

func TestSkillLoop_AppliesFinalDamage(t *testing.T) {
	e, hero := skillLoopFixture(t, 30)
	require.Equal(t, 100, hero.HP())
	s := newState(TypeSkillLoop, &skillLoop{env: e})
	require.True(t, s.Update(nopControl{}))
	assert.Equal(t, 70, hero.HP())
	assert.Nil(t, e.Info.Current)
	assert.Equal(t, 0, e.Info.Decisions.Len())
	assert.True(t, s.IsDone())
}

func TestSkillLoop_ClampsHPAtZero(t *testing.T) {
	e, hero := skillLoopFixture(t, 150)
	s := newState(TypeSkillLoop, &skillLoop{env: e})
	require.True(t, s.Update(nopControl{}))
	assert.Equal(t, 0, hero.HP())
}

func TestSkillLoop_FailsWithoutBattleInfo(t *testing.T) {
	s := newState(TypeSkillLoop, &skillLoop{env: &env{logger: zap.NewNop()}})
	assert.False(t, s.Update(nopControl{}))
	assert.Equal(t, StepBeginning, s.Step())
}

type manualClock struct{ now time.Time }

func (c *manualClock) Now() time.Time          { return c.now }
func (c *manualClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func TestTimer(t *testing.T) {
	var tm Timer
	assert.True(t, tm.Done(), "a stopped timer is done")
	clk := &manualClock{}
	tm.Start(clk, 100)
	assert.False(t, tm.Done())
	clk.advance(50)
	assert.InDelta(t, 0.5, tm.Fraction(), 1e-9)
	clk.advance(60)
	assert.True(t, tm.Done())
	tm.Start(clk, 0)
	assert.True(t, tm.Done())
}

func TestMoveCursor_Wraps(t *testing.T) {
	assert.Equal(t, 2, moveCursor(ActionUp, 0, 3))
	assert.Equal(t, 0, moveCursor(ActionDown, 2, 3))
	assert.Equal(t, 1, moveCursor(ActionConfirm, 1, 3))
	assert.Equal(t, 0, moveCursor(ActionDown, 0, 0))
}
