// Package server runs the game's long-lived services and shuts them down on
// completion, failure or a termination signal.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is a blocking unit of work the Lifecycle supervises.
type Service interface {
	// Start blocks until the service has nothing left to do, is told to
	// stop, or fails.
	Start() error
	// Stop makes a blocked Start return.
	Stop()
}

// FuncService builds a Service from two closures.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

// Start runs StartFn.
func (f *FuncService) Start() error { return f.StartFn() }

// Stop runs StopFn.
func (f *FuncService) Stop() { f.StopFn() }

type entry struct {
	name string
	svc  Service
}

// exit reports a returned Start.
type exit struct {
	name string
	err  error
}

// Lifecycle supervises a set of services. The first to return ends the run
// for all of them; shutdown walks the services in reverse registration order.
type Lifecycle struct {
	mu      sync.Mutex
	entries []entry
	logger  *zap.Logger
}

// NewLifecycle creates an empty Lifecycle.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{logger: logger}
}

// Add registers svc under name.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry{name: name, svc: svc})
}

// Run starts every service and waits for the first of: a service returning,
// SIGINT or SIGTERM, or ctx ending.
//
// Postcondition: every service has been stopped. The returned error is the
// first service failure, wrapped with the service name, or nil.
func (l *Lifecycle) Run(ctx context.Context) error {
	began := time.Now()
	l.mu.Lock()
	entries := slices.Clone(l.entries)
	l.mu.Unlock()

	exits := l.launch(entries)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	var err error
	select {
	case ex := <-exits:
		err = ex.err
		if err != nil {
			l.logger.Error("service failed, shutting down", zap.String("service", ex.name), zap.Error(err))
		} else {
			l.logger.Info("service returned, shutting down", zap.String("service", ex.name))
		}
	case sig := <-sigs:
		l.logger.Info("signal received, shutting down", zap.Stringer("signal", sig))
	case <-ctx.Done():
		l.logger.Info("context done, shutting down")
	}

	l.stopAll(entries)
	l.logger.Info("lifecycle finished", zap.Duration("uptime", time.Since(began)))
	return err
}

// launch starts each service on its own goroutine. The returned channel is
// buffered for every service so late exits never block.
func (l *Lifecycle) launch(entries []entry) <-chan exit {
	exits := make(chan exit, len(entries))
	for _, e := range entries {
		go func() {
			l.logger.Info("service starting", zap.String("service", e.name))
			var err error
			if startErr := e.svc.Start(); startErr != nil {
				err = fmt.Errorf("service %s: %w", e.name, startErr)
			}
			exits <- exit{name: e.name, err: err}
		}()
	}
	l.logger.Info("services launched", zap.Int("count", len(entries)))
	return exits
}

func (l *Lifecycle) stopAll(entries []entry) {
	for _, e := range slices.Backward(entries) {
		t := time.Now()
		e.svc.Stop()
		l.logger.Info("service stopped",
			zap.String("service", e.name),
			zap.Duration("elapsed", time.Since(t)),
		)
	}
}
