// Package state drives the game as an ordered sequence of lifecycle states
// owned by a Machine.
package state

// Step is a state's lifecycle phase.
type Step int

const (
	StepBeginning Step = iota
	StepProcessing
	StepEnding
	StepDone
)

// String returns the step name.
func (s Step) String() string {
	switch s {
	case StepBeginning:
		return "beginning"
	case StepProcessing:
		return "processing"
	case StepEnding:
		return "ending"
	case StepDone:
		return "done"
	default:
		return "unknown"
	}
}

// Outcome is what a phase asks its State to do next.
type Outcome int

const (
	// Stay keeps the current step so the phase runs again next tick.
	Stay Outcome = iota
	// Advance moves to the following step.
	Advance
	// Finish jumps straight to StepDone.
	Finish
	// Fail reports a missing collaborator. The step is unchanged.
	Fail
)

// phases is implemented by every concrete state. The methods are unexported
// so the set of variants is closed to this package.
type phases interface {
	begin(c Control) Outcome
	process(c Control) Outcome
	end(c Control) Outcome
	// reset undoes presentation side effects and clears per-run fields.
	reset()
}

// State is one slot of a Machine's arena: a type tag, the lifecycle step and
// the variant that implements the phases.
type State struct {
	typ  Type
	step Step
	// epoch changes on every ResetSteps so a phase that rewinds its own
	// state does not then advance it.
	epoch uint64
	impl  phases
}

func newState(typ Type, impl phases) *State {
	return &State{typ: typ, impl: impl}
}

// Type returns the state's tag.
func (s *State) Type() Type { return s.typ }

// Step returns the current lifecycle step.
func (s *State) Step() Step { return s.step }

// IsDone reports whether the state reached StepDone.
func (s *State) IsDone() bool { return s.step == StepDone }

// Begin runs the beginning phase.
//
// Postcondition: a no-op returning true unless the step is StepBeginning.
// Returns false when a required collaborator is missing.
func (s *State) Begin(c Control) bool { return s.run(StepBeginning, c, s.impl.begin) }

// Process runs the processing phase. See Begin.
func (s *State) Process(c Control) bool { return s.run(StepProcessing, c, s.impl.process) }

// End runs the ending phase. See Begin.
func (s *State) End(c Control) bool { return s.run(StepEnding, c, s.impl.end) }

func (s *State) run(want Step, c Control, phase func(Control) Outcome) bool {
	if s.step != want {
		return true
	}
	epoch := s.epoch
	out := phase(c)
	if out == Fail {
		return false
	}
	if s.epoch != epoch {
		return true
	}
	switch out {
	case Advance:
		s.step++
	case Finish:
		s.step = StepDone
	}
	return true
}

// Update dispatches to the phase matching the current step. A done state is
// left untouched.
func (s *State) Update(c Control) bool {
	switch s.step {
	case StepBeginning:
		return s.Begin(c)
	case StepProcessing:
		return s.Process(c)
	case StepEnding:
		return s.End(c)
	default:
		return true
	}
}

// ResetSteps returns the state to StepBeginning and hides anything it showed.
func (s *State) ResetSteps() {
	s.impl.reset()
	s.step = StepBeginning
	s.epoch++
}

// passive supplies phases that complete immediately. Concrete states embed it
// and override what they need.
type passive struct{}

func (passive) begin(Control) Outcome   { return Advance }
func (passive) process(Control) Outcome { return Advance }
func (passive) end(Control) Outcome     { return Advance }
func (passive) reset()                  {}
