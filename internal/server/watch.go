package server

import (
	"sync"

	"go.uber.org/zap"
)

// Watch is a Service that returns once a channel closes. Added next to the
// game loop it ends the run when a collaborator can no longer make progress,
// such as an input source that reached EOF.
type Watch struct {
	name     string
	done     <-chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

// NewWatch creates a Watch over done.
//
// Precondition: done must be non-nil.
func NewWatch(name string, done <-chan struct{}, logger *zap.Logger) *Watch {
	if done == nil {
		panic("server.NewWatch: done must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watch{name: name, done: done, stop: make(chan struct{}), logger: logger}
}

// Start implements Service. It returns nil when done closes or Stop is called.
func (w *Watch) Start() error {
	select {
	case <-w.done:
		w.logger.Info("watched source closed", zap.String("source", w.name))
	case <-w.stop:
	}
	return nil
}

// Stop implements Service. Safe to call more than once.
func (w *Watch) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
}
