// Package scene describes the scripted scene list and a cursor over it.
package scene

import "fmt"

// Kind selects the flow a scene runs.
type Kind int

const (
	// KindBattle fights Scene.Enemy.
	KindBattle Kind = iota
	// KindLevelUp runs the level-up selection for every eligible character.
	KindLevelUp
	// KindEnding finishes the game.
	KindEnding
)

// String returns the YAML spelling of the kind.
func (k Kind) String() string {
	switch k {
	case KindBattle:
		return "battle"
	case KindLevelUp:
		return "level_up"
	case KindEnding:
		return "ending"
	default:
		return "unknown"
	}
}

// ParseKind converts the YAML spelling into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "battle":
		return KindBattle, nil
	case "level_up":
		return KindLevelUp, nil
	case "ending":
		return KindEnding, nil
	default:
		return 0, fmt.Errorf("unknown scene kind %q", s)
	}
}

// Scene is one step of the game's script.
type Scene struct {
	Name string
	Kind Kind
	// Enemy is the battler fought in a battle scene.
	Enemy string
	// Music is the track id played when the scene fades in.
	Music string
	// Monologue lines are shown before the first turn of a battle.
	Monologue []string
}

// Progression walks the scene list in order.
type Progression struct {
	scenes []Scene
	next   int
}

// NewProgression creates a progression positioned before the first scene.
func NewProgression(scenes []Scene) *Progression {
	return &Progression{scenes: append([]Scene(nil), scenes...)}
}

// Next advances to and returns the next scene.
//
// Postcondition: Returns false once every scene has been returned.
func (p *Progression) Next() (Scene, bool) {
	if p.next >= len(p.scenes) {
		return Scene{}, false
	}
	s := p.scenes[p.next]
	p.next++
	return s, true
}

// Current returns the scene most recently returned by Next.
func (p *Progression) Current() (Scene, bool) {
	if p.next == 0 {
		return Scene{}, false
	}
	return p.scenes[p.next-1], true
}

// Remaining returns how many scenes Next has yet to return.
func (p *Progression) Remaining() int { return len(p.scenes) - p.next }

// Reset rewinds to before the first scene.
func (p *Progression) Reset() { p.next = 0 }
