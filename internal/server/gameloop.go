package server

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrTickFailed is returned by GameLoop.Start when the machine reports a
// failed tick. A failed tick means a state is missing a collaborator, which
// no later tick can repair.
var ErrTickFailed = errors.New("game loop: tick failed")

// Machine is the surface of the state machine the loop drives.
type Machine interface {
	Update() bool
	IsDone() bool
}

// GameLoop is a Service that ticks a Machine once per interval on a single
// goroutine.
type GameLoop struct {
	machine  Machine
	interval time.Duration
	stop     chan struct{}
	stopOnce sync.Once
	ticks    int
	logger   *zap.Logger
}

// NewGameLoop creates a GameLoop.
//
// Precondition: m must be non-nil and configured; interval > 0.
func NewGameLoop(m Machine, interval time.Duration, logger *zap.Logger) *GameLoop {
	if m == nil {
		panic("server.NewGameLoop: machine must not be nil")
	}
	if interval <= 0 {
		panic("server.NewGameLoop: interval must be > 0")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GameLoop{
		machine:  m,
		interval: interval,
		stop:     make(chan struct{}),
		logger:   logger,
	}
}

// Start implements Service.
//
// Postcondition: returns nil once the machine is done or Stop is called;
// returns ErrTickFailed on the first failed tick.
func (g *GameLoop) Start() error {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()
	for {
		select {
		case <-g.stop:
			return nil
		case <-ticker.C:
			g.ticks++
			if !g.machine.Update() {
				return ErrTickFailed
			}
			if g.machine.IsDone() {
				g.logger.Info("game finished", zap.Int("ticks", g.ticks))
				return nil
			}
		}
	}
}

// Stop implements Service. Safe to call more than once.
func (g *GameLoop) Stop() {
	g.stopOnce.Do(func() { close(g.stop) })
}
