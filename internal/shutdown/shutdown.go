// Package shutdown runs registered cleanup hooks once when the process exits,
// whether through a normal return or a termination signal.
package shutdown

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/user/oculus-guard/internal/logger"
)

// Hook is a cleanup step. Errors are logged and never stop later hooks.
type Hook func() error

type namedHook struct {
	name string
	fn   Hook
}

// Registry holds hooks and runs them at most once.
type Registry struct {
	mu    sync.Mutex
	hooks []namedHook
	ran   bool
	exit  func(code int)
}

// NewRegistry creates an empty registry that exits through os.Exit.
func NewRegistry() *Registry {
	return &Registry{exit: os.Exit}
}

var std = NewRegistry()

// Register adds a hook to the process-wide registry.
func Register(name string, fn Hook) { std.Register(name, fn) }

// Run runs the process-wide hooks.
func Run() { std.Run() }

// RunOnPanic runs the process-wide hooks if the calling goroutine is
// panicking, then resumes the panic. It must be deferred directly.
func RunOnPanic() {
	if rec := recover(); rec != nil {
		logger.Error("Unhandled panic: %v", rec)
		std.Run()
		panic(rec)
	}
}

// Watch watches for termination signals on behalf of the process-wide registry.
func Watch(parent context.Context, grace time.Duration) (context.Context, context.CancelFunc) {
	return std.Watch(parent, grace)
}

// Register adds a hook. Hooks run in reverse registration order.
func (r *Registry) Register(name string, fn Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, namedHook{name: name, fn: fn})
}

// Run runs every hook once. Later calls do nothing.
func (r *Registry) Run() {
	r.mu.Lock()
	if r.ran {
		r.mu.Unlock()
		return
	}
	r.ran = true
	hooks := r.hooks
	r.mu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		runHook(hooks[i])
	}
}

// RunOnPanic runs the hooks if the calling goroutine is panicking, then
// resumes the panic. It must be deferred directly.
func (r *Registry) RunOnPanic() {
	if rec := recover(); rec != nil {
		logger.Error("Unhandled panic: %v", rec)
		r.Run()
		panic(rec)
	}
}

func runHook(h namedHook) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Shutdown hook %s panicked: %v", h.name, rec)
		}
	}()
	if err := h.fn(); err != nil {
		logger.Warning("Shutdown hook %s failed: %v", h.name, err)
		return
	}
	logger.Debug("Shutdown hook %s done", h.name)
}

// Watch returns a context cancelled on SIGINT, SIGTERM or SIGHUP so callers
// can unwind normally. If the process is still alive grace after the signal,
// or a second signal arrives, the hooks run and the process exits.
func (r *Registry) Watch(parent context.Context, grace time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		defer logger.Recover("shutdown.Watch")
		defer signal.Stop(sigs)

		select {
		case sig := <-sigs:
			logger.Info("Received %s, shutting down", sig)
			cancel()
		case <-ctx.Done():
			return
		}

		select {
		case sig := <-sigs:
			logger.Warning("Received %s again, exiting now", sig)
		case <-time.After(grace):
			logger.Warning("Shutdown did not finish within %s, exiting", grace)
		}
		r.Run()
		fmt.Fprintln(os.Stderr, "oculus-guard: forced exit")
		r.exit(1)
	}()

	return ctx, cancel
}
