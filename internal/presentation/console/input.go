package console

import (
	"bufio"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/state"
)

// inputBuffer bounds how many actions may wait between ticks.
const inputBuffer = 16

// Input maps typed lines to actions. A goroutine reads the source and Poll
// drains the buffered channel without blocking.
type Input struct {
	actions   chan state.Action
	done      chan struct{}
	exhausted chan struct{}
	once      sync.Once
	logger    *zap.Logger
}

// NewInput starts reading lines from r.
//
// Precondition: r must be non-nil.
// Postcondition: Done() is closed once r reaches EOF or fails.
func NewInput(r io.Reader, logger *zap.Logger) *Input {
	if logger == nil {
		logger = zap.NewNop()
	}
	in := &Input{
		actions:   make(chan state.Action, inputBuffer),
		done:      make(chan struct{}),
		exhausted: make(chan struct{}),
		logger:    logger,
	}
	go in.read(r)
	return in
}

func (in *Input) read(r io.Reader) {
	defer close(in.done)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		a, ok := ParseAction(scanner.Text())
		if !ok {
			in.logger.Debug("unrecognized input", zap.String("line", scanner.Text()))
			continue
		}
		select {
		case in.actions <- a:
		default:
			in.logger.Debug("input buffer full, dropping action", zap.Stringer("action", a))
		}
	}
	if err := scanner.Err(); err != nil {
		in.logger.Warn("reading input", zap.Error(err))
	}
}

// Poll implements state.Input. A Poll that finds nothing after the reader
// finished closes Exhausted.
func (in *Input) Poll() (state.Action, bool) {
	select {
	case a := <-in.actions:
		return a, true
	default:
	}
	select {
	case <-in.done:
		in.once.Do(func() {
			in.logger.Info("input exhausted")
			close(in.exhausted)
		})
	default:
	}
	return 0, false
}

// Done is closed when the reader reaches EOF. Actions may still be buffered.
func (in *Input) Done() <-chan struct{} { return in.done }

// Exhausted is closed once the reader is done and every buffered action has
// been polled: no further action will ever arrive.
func (in *Input) Exhausted() <-chan struct{} { return in.exhausted }

// ParseAction maps one typed line to an action. An empty line confirms.
func ParseAction(line string) (state.Action, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return -1
		}
		return r
	}, line)
	switch strings.ToLower(strings.TrimSpace(cleaned)) {
	case "w", "k", "up":
		return state.ActionUp, true
	case "s", "j", "down":
		return state.ActionDown, true
	case "", "y", "ok", "confirm":
		return state.ActionConfirm, true
	case "n", "x", "cancel":
		return state.ActionCancel, true
	case "q", "skip":
		return state.ActionSkip, true
	default:
		return 0, false
	}
}
