package state

import (
	"time"
)

// TextBox is a line-oriented text area.
type TextBox interface {
	SetText(text string)
	SetVisible(visible bool)
}

// Sprite is a positioned, textured image.
type Sprite interface {
	SetVisible(visible bool)
	// SetTexture selects the texture id and the animation frame within it.
	SetTexture(id string, frame int)
	Position() (x, y int)
	SetPosition(x, y int)
}

// Sound plays one-shot effects.
type Sound interface {
	Play(id string)
	Stop()
}

// Music plays a looping background track.
type Music interface {
	Play(track string)
	Stop()
}

// Screen controls the whole-screen fade. Alpha 0 is fully visible, 1 is black.
type Screen interface {
	SetFade(alpha float64)
}

// Action is an edge-triggered player input.
type Action int

const (
	ActionUp Action = iota
	ActionDown
	ActionConfirm
	ActionCancel
	ActionSkip
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionUp:
		return "up"
	case ActionDown:
		return "down"
	case ActionConfirm:
		return "confirm"
	case ActionCancel:
		return "cancel"
	case ActionSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Input yields at most one pending action per call and never blocks.
type Input interface {
	Poll() (Action, bool)
}

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is a Clock backed by time.Now.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// Presentation groups the handles states write to. States never own them.
type Presentation struct {
	Screen Screen
	// Dialog shows monologue, skill names, damage and outcomes.
	Dialog TextBox
	// Menu shows skill and level-up choices.
	Menu TextBox
	// Status shows every battler's HP.
	Status TextBox
	Enemy  Sprite
	// Party holds one sprite per roster member, in roster order. May be short.
	Party  []Sprite
	Effect Sprite
	Sound  Sound
	Music  Music
	Input  Input
	Clock  Clock
}

// Timings are the display durations of time-gated phases. A zero duration
// completes on the first check.
type Timings struct {
	Fade          time.Duration
	SkillName     time.Duration
	Animation     time.Duration
	DamageDisplay time.Duration
	Outcome       time.Duration
	MonologueLine time.Duration
}

// Timer measures elapsed wall-clock time against a duration by polling.
type Timer struct {
	clock   Clock
	start   time.Time
	length  time.Duration
	running bool
}

// Start begins timing d from now.
//
// Precondition: clock must be non-nil.
func (t *Timer) Start(clock Clock, d time.Duration) {
	t.clock = clock
	t.start = clock.Now()
	t.length = d
	t.running = true
}

// Stop halts the timer.
func (t *Timer) Stop() { t.running = false }

// Running reports whether Start was called since the last Stop.
func (t *Timer) Running() bool { return t.running }

// Fraction returns elapsed time as a share of the duration in [0, 1].
// A stopped timer reports 1.
func (t *Timer) Fraction() float64 {
	if !t.running || t.length <= 0 {
		return 1
	}
	f := float64(t.clock.Now().Sub(t.start)) / float64(t.length)
	return min(max(f, 0), 1)
}

// Done reports whether the duration has elapsed.
func (t *Timer) Done() bool { return t.Fraction() >= 1 }
