// Package console renders the game as plain text lines on a writer and reads
// player actions from a line-oriented reader.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/state"
)

// Console serializes writes from every widget onto one writer.
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	color  bool
	logger *zap.Logger
}

// New creates a Console writing to w. With color false every ANSI sequence
// is stripped before writing.
//
// Precondition: w must be non-nil.
func New(w io.Writer, color bool, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{w: w, color: color, logger: logger}
}

// Println writes one line.
func (c *Console) Println(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.color {
		line = StripANSI(line)
	}
	if _, err := fmt.Fprintln(c.w, line); err != nil {
		c.logger.Warn("console write failed", zap.Error(err))
	}
}

// Presentation builds every handle the state machine needs. partySize
// sprites are laid out left to right along the bottom row.
func (c *Console) Presentation(input state.Input, partySize int) state.Presentation {
	party := make([]state.Sprite, partySize)
	for i := range party {
		party[i] = c.NewSprite(fmt.Sprintf("party%d", i), 40+i*80, 200)
	}
	return state.Presentation{
		Screen: c.NewScreen(),
		Dialog: c.NewTextBox("", Bold),
		Menu:   c.NewTextBox("", Cyan),
		Status: c.NewTextBox("HP", Green),
		Enemy:  c.NewSprite("enemy", 320, 60),
		Party:  party,
		Effect: c.NewSprite("effect", 0, 0),
		Sound:  c.NewSound(),
		Music:  c.NewMusic(),
		Input:  input,
		Clock:  state.SystemClock{},
	}
}

// TextBox prints its text whenever it changes while visible, or becomes
// visible.
type TextBox struct {
	c       *Console
	label   string
	color   string
	text    string
	visible bool
}

// NewTextBox creates a hidden text box. A non-empty label prefixes every line.
func (c *Console) NewTextBox(label, color string) *TextBox {
	return &TextBox{c: c, label: label, color: color}
}

// SetText implements state.TextBox.
func (b *TextBox) SetText(text string) {
	if text == b.text {
		return
	}
	b.text = text
	if b.visible {
		b.print()
	}
}

// SetVisible implements state.TextBox.
func (b *TextBox) SetVisible(visible bool) {
	if visible && !b.visible && b.text != "" {
		b.visible = true
		b.print()
		return
	}
	b.visible = visible
}

// Text returns the current text.
func (b *TextBox) Text() string { return b.text }

// Visible reports whether the box is shown.
func (b *TextBox) Visible() bool { return b.visible }

func (b *TextBox) print() {
	for _, line := range strings.Split(b.text, "\n") {
		if b.label != "" {
			line = "[" + b.label + "] " + line
		}
		b.c.Println(Colorize(b.color, line))
	}
}

// Sprite tracks position and texture and logs changes at Debug.
type Sprite struct {
	c       *Console
	name    string
	x, y    int
	texture string
	frame   int
	visible bool
}

// NewSprite creates a hidden sprite at (x, y).
func (c *Console) NewSprite(name string, x, y int) *Sprite {
	return &Sprite{c: c, name: name, x: x, y: y}
}

// SetVisible implements state.Sprite.
func (s *Sprite) SetVisible(visible bool) {
	if visible == s.visible {
		return
	}
	s.visible = visible
	s.c.logger.Debug("sprite visibility",
		zap.String("sprite", s.name),
		zap.Bool("visible", visible),
		zap.String("texture", s.texture),
	)
}

// SetTexture implements state.Sprite.
func (s *Sprite) SetTexture(id string, frame int) {
	s.texture, s.frame = id, frame
}

// Position implements state.Sprite.
func (s *Sprite) Position() (int, int) { return s.x, s.y }

// SetPosition implements state.Sprite.
func (s *Sprite) SetPosition(x, y int) { s.x, s.y = x, y }

// Visible reports whether the sprite is shown.
func (s *Sprite) Visible() bool { return s.visible }

// Texture returns the texture id and frame.
func (s *Sprite) Texture() (string, int) { return s.texture, s.frame }

// Sound prints the effect id.
type Sound struct {
	c       *Console
	playing string
}

// NewSound creates a silent Sound.
func (c *Console) NewSound() *Sound { return &Sound{c: c} }

// Play implements state.Sound.
func (s *Sound) Play(id string) {
	s.playing = id
	s.c.Println(Colorize(Dim, "*"+id+"*"))
}

// Stop implements state.Sound.
func (s *Sound) Stop() { s.playing = "" }

// Music prints the track name when it changes.
type Music struct {
	c       *Console
	playing string
}

// NewMusic creates a silent Music.
func (c *Console) NewMusic() *Music { return &Music{c: c} }

// Play implements state.Music.
func (m *Music) Play(track string) {
	if track == m.playing {
		return
	}
	m.playing = track
	m.c.Println(Colorize(Dim, "~ "+track+" ~"))
}

// Stop implements state.Music.
func (m *Music) Stop() { m.playing = "" }

// Playing returns the current track, empty when silent.
func (m *Music) Playing() string { return m.playing }

// Screen prints a separator when a fade completes to black.
type Screen struct {
	c     *Console
	alpha float64
}

// NewScreen creates a fully visible Screen.
func (c *Console) NewScreen() *Screen { return &Screen{c: c} }

// SetFade implements state.Screen.
func (s *Screen) SetFade(alpha float64) {
	if alpha >= 1 && s.alpha < 1 {
		s.c.Println(Colorize(Dim, strings.Repeat("-", 40)))
	}
	s.alpha = alpha
}

// Alpha returns the last fade value.
func (s *Screen) Alpha() float64 { return s.alpha }
