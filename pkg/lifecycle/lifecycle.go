// Package lifecycle coordinates startup hooks, shutdown hooks, and
// readiness probes for long-lived subsystems.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// ErrShutdownTimeout is returned when shutdown hooks outlive the timeout.
var ErrShutdownTimeout = errors.New("shutdown timeout")

// ProbeFunc reports whether a dependency can currently serve traffic.
type ProbeFunc func(ctx context.Context) error

// ProbeResult is the outcome of one named probe.
type ProbeResult struct {
	Name  string `json:"name"`
	Error string `json:"error,omitempty"`
}

// Coordinator manages startup and shutdown hooks for the application lifecycle.
type Coordinator struct {
	ctx        context.Context
	cancel     context.CancelFunc
	startupWg  sync.WaitGroup
	shutdownWg sync.WaitGroup

	mu     sync.RWMutex
	ready  bool
	probes map[string]ProbeFunc
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
		probes: make(map[string]ProbeFunc),
	}
}

// Context returns the coordinator's context, cancelled on shutdown.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup registers a function to run concurrently during startup.
func (c *Coordinator) OnStartup(fn func()) {
	c.startupWg.Go(fn)
}

// OnShutdown registers a function to run concurrently during shutdown.
// Shutdown hooks should block on <-c.Context().Done() before executing cleanup.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdownWg.Go(fn)
}

// AddProbe registers a named readiness probe. Registering the same name
// again replaces the earlier probe.
func (c *Coordinator) AddProbe(name string, fn ProbeFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.probes[name] = fn
}

// Ready returns true after all startup hooks have completed.
func (c *Coordinator) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// Probe runs every registered probe and returns the results sorted by name.
// ok is false when startup has not finished or any probe failed.
func (c *Coordinator) Probe(ctx context.Context) (results []ProbeResult, ok bool) {
	type named struct {
		name string
		fn   ProbeFunc
	}

	c.mu.RLock()
	ready := c.ready
	probes := make([]named, 0, len(c.probes))
	for name, fn := range c.probes {
		probes = append(probes, named{name, fn})
	}
	c.mu.RUnlock()

	slices.SortFunc(probes, func(a, b named) int { return strings.Compare(a.name, b.name) })

	ok = ready
	results = make([]ProbeResult, 0, len(probes))
	for _, p := range probes {
		r := ProbeResult{Name: p.name}
		if err := p.fn(ctx); err != nil {
			r.Error = err.Error()
			ok = false
		}
		results = append(results, r)
	}
	return results, ok
}

// WaitForStartup blocks until all startup hooks have completed and sets the ready flag.
func (c *Coordinator) WaitForStartup() {
	c.startupWg.Wait()
	c.mu.Lock()
	c.ready = true
	c.mu.Unlock()
}

// Shutdown cancels the context and waits for shutdown hooks to complete
// within the given timeout.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.mu.Lock()
	c.ready = false
	c.mu.Unlock()

	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdownWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("%w after %v", ErrShutdownTimeout, timeout)
	}
}
