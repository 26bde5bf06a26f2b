package state

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// ErrNotInitialized is returned when a flow is configured before Wire.
var ErrNotInitialized = errors.New("state: flow not initialized")

// Control is the part of the Machine a running state may steer. It is passed
// to every phase so states never hold a reference to their owner.
type Control interface {
	// ResetBack rewinds the cursor to the nearest earlier occurrence of
	// target, calling ResetSteps on every state it backs over. target itself
	// is not reset.
	ResetBack(target Type) bool
	// Configure swaps the active sequence.
	Configure(f Flow) error
	// Finish moves the machine to StepEnding.
	Finish()
}

// Machine owns one State per Type and runs the configured flow's sequence.
//
// Machine is not safe for concurrent use; one goroutine ticks Update.
type Machine struct {
	arena  [typeCount]*State
	flows  [flowCount][]Type
	ready  [flowCount]bool
	seq    []Type
	flow   Flow
	cursor int
	step   Step
	// jumped is set when the running phase moved the cursor itself.
	jumped bool
	env    *env
	logger *zap.Logger
}

// NewMachine constructs every concrete state, unwired.
//
// Postcondition: every flow reports ErrNotInitialized until Wire succeeds.
func NewMachine(logger *zap.Logger) *Machine {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Machine{logger: logger, env: &env{logger: logger}}
	m.populate()
	return m
}

func (m *Machine) register(t Type, impl phases) {
	m.arena[t] = newState(t, impl)
}

func (m *Machine) setFlow(f Flow, seq []Type) {
	m.flows[f] = slices.Clone(seq)
	m.ready[f] = true
}

// State returns the arena slot for t.
func (m *Machine) State(t Type) *State { return m.arena[t] }

// Current returns the state at the cursor, nil when the sequence is exhausted.
func (m *Machine) Current() *State {
	if m.cursor < 0 || m.cursor >= len(m.seq) {
		return nil
	}
	return m.arena[m.seq[m.cursor]]
}

// Cursor returns the index of the running state in the sequence.
func (m *Machine) Cursor() int { return m.cursor }

// Flow returns the configured flow.
func (m *Machine) Flow() Flow { return m.flow }

// Sequence returns a copy of the configured sequence.
func (m *Machine) Sequence() []Type { return slices.Clone(m.seq) }

// Step returns the machine's own lifecycle step.
func (m *Machine) Step() Step { return m.step }

// IsDone reports whether the machine finished.
func (m *Machine) IsDone() bool { return m.step == StepDone }

// Configure makes f the active sequence, resets every state in it and puts
// the cursor on its first element.
//
// Postcondition: returns ErrNotInitialized when f was never wired.
func (m *Machine) Configure(f Flow) error {
	if f < 0 || f >= flowCount || !m.ready[f] {
		return fmt.Errorf("%w: %s", ErrNotInitialized, f)
	}
	m.flow = f
	m.seq = m.flows[f]
	for i := len(m.seq) - 1; i >= 0; i-- {
		m.arena[m.seq[i]].ResetSteps()
	}
	m.cursor = 0
	m.jumped = true
	m.logger.Info("state: configured flow",
		zap.Stringer("flow", f),
		zap.Int("states", len(m.seq)),
	)
	return nil
}

// ConfigureForBeginning configures FlowBeginning.
func (m *Machine) ConfigureForBeginning() error { return m.Configure(FlowBeginning) }

// ConfigureForBattle configures FlowBattle.
func (m *Machine) ConfigureForBattle() error { return m.Configure(FlowBattle) }

// ConfigureForBattleLost configures FlowBattleLost.
func (m *Machine) ConfigureForBattleLost() error { return m.Configure(FlowBattleLost) }

// ConfigureForLevelUp configures FlowLevelUp.
func (m *Machine) ConfigureForLevelUp() error { return m.Configure(FlowLevelUp) }

// ResetBack implements Control.
//
// Postcondition: on success the cursor rests on target and the states
// formerly at cursor, cursor-1, ... target+1 were reset in that order.
// Returns false, changing nothing, when target does not precede the cursor.
func (m *Machine) ResetBack(target Type) bool {
	if m.cursor >= len(m.seq) {
		return false
	}
	idx := -1
	for i := m.cursor - 1; i >= 0; i-- {
		if m.seq[i] == target {
			idx = i
			break
		}
	}
	if idx < 0 {
		m.logger.Warn("state: reset target not before cursor",
			zap.Stringer("target", target),
			zap.Int("cursor", m.cursor),
		)
		return false
	}
	from := m.cursor
	for ; m.cursor > idx; m.cursor-- {
		m.arena[m.seq[m.cursor]].ResetSteps()
	}
	m.jumped = true
	m.logger.Debug("state: reset back",
		zap.Stringer("target", target),
		zap.Int("from", from),
		zap.Int("to", m.cursor),
	)
	return true
}

// Finish implements Control.
func (m *Machine) Finish() {
	m.step = StepEnding
	m.jumped = true
}

// ResetSteps rewinds the whole sequence to its first element, resetting every
// state from the cursor down, and returns the machine to StepBeginning.
func (m *Machine) ResetSteps() {
	for i := min(m.cursor, len(m.seq)-1); i >= 0; i-- {
		m.arena[m.seq[i]].ResetSteps()
	}
	m.cursor = 0
	m.step = StepBeginning
	m.jumped = true
}

// Update runs one tick.
//
// Postcondition: returns false when the machine is unconfigured or the
// running state failed; the cursor is unchanged in that case.
func (m *Machine) Update() bool {
	switch m.step {
	case StepBeginning:
		if m.seq == nil {
			m.logger.Warn("state: update before configure")
			return false
		}
		m.step = StepProcessing
		return true
	case StepProcessing:
		return m.process()
	case StepEnding:
		m.step = StepDone
		m.logger.Info("state: machine finished", zap.Stringer("flow", m.flow))
		return true
	default:
		return true
	}
}

func (m *Machine) process() bool {
	if m.cursor >= len(m.seq) {
		m.step = StepEnding
		return true
	}
	s := m.arena[m.seq[m.cursor]]
	m.jumped = false
	if !s.Update(m) {
		m.logger.Warn("state: phase failed",
			zap.Stringer("state", s.Type()),
			zap.Stringer("step", s.Step()),
			zap.Stringer("flow", m.flow),
		)
		return false
	}
	if m.jumped || !s.IsDone() {
		return true
	}
	m.cursor++
	m.logger.Debug("state: advanced",
		zap.Stringer("finished", s.Type()),
		zap.Int("cursor", m.cursor),
	)
	if m.cursor >= len(m.seq) {
		m.step = StepEnding
	}
	return true
}
