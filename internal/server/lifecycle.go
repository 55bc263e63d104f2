// Package server runs the process's long-lived components and tears them
// down in reverse order on SIGINT/SIGTERM.
package server

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is a component whose Start blocks until Stop is called or it fails.
type Service interface {
	Start() error
	Stop()
}

// FuncService adapts a start/stop function pair into a Service.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

func (f *FuncService) Start() error { return f.StartFn() }

func (f *FuncService) Stop() { f.StopFn() }

// Actor wraps a goroutine-owned component such as the hub or the lobby.
// Start returns once the component's loop has exited.
func Actor(a interface {
	Done() <-chan struct{}
	Stop()
}) *FuncService {
	return &FuncService{
		StartFn: func() error {
			<-a.Done()
			return nil
		},
		StopFn: a.Stop,
	}
}

// Lifecycle owns an ordered list of services.
type Lifecycle struct {
	logger   *zap.Logger
	names    []string
	services []Service
}

func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{logger: logger}
}

// Add appends svc. Services stop in the reverse of the order they were added.
// Add must not be called once Run has started.
func (l *Lifecycle) Add(name string, svc Service) {
	l.names = append(l.names, name)
	l.services = append(l.services, svc)
}

// Run starts every service and blocks until a signal arrives, ctx is
// cancelled, or a service's Start fails. It returns that failure, if any,
// after every service has been stopped.
func (l *Lifecycle) Run(ctx context.Context) error {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	failed := make(chan error, len(l.services))
	for i, svc := range l.services {
		svc := svc
		name := l.names[i]
		go func() {
			l.logger.Info("starting service", zap.String("service", name))
			if err := svc.Start(); err != nil {
				failed <- fmt.Errorf("service %s: %w", name, err)
			}
		}()
	}

	var runErr error
	select {
	case runErr = <-failed:
		l.logger.Error("service failed, shutting down", zap.Error(runErr))
	case <-ctx.Done():
		l.logger.Info("shutting down", zap.NamedError("cause", context.Cause(ctx)))
	}

	l.stopAll()
	return runErr
}

func (l *Lifecycle) stopAll() {
	start := time.Now()
	for i := len(l.services) - 1; i >= 0; i-- {
		t := time.Now()
		l.services[i].Stop()
		l.logger.Info("service stopped",
			zap.String("service", l.names[i]),
			zap.Duration("elapsed", time.Since(t)),
		)
	}
	l.logger.Info("all services stopped", zap.Duration("elapsed", time.Since(start)))
}
