package component

import (
	"fmt"
	"sync/atomic"

	"github.com/felixarntz/wpdlib/errors"
)

// DefaultGateName is the lifecycle point registration is tied to.
const DefaultGateName = "init"

// Gate models the one-time initialization event that closes registration.
// Registration is allowed before the event fires and while it is firing;
// afterwards every mutating registry call fails with errors.ErrTooLate.
type Gate struct {
	name    string
	running atomic.Bool
	fired   atomic.Bool
}

// NewGate creates a gate for the named lifecycle event
func NewGate(name string) *Gate {
	if name == "" {
		name = DefaultGateName
	}
	return &Gate{name: name}
}

// Name returns the lifecycle event name
func (g *Gate) Name() string {
	return g.name
}

// Run fires the event with fn as its handler. Registration stays open while
// fn runs and closes when it returns, even if fn fails.
func (g *Gate) Run(fn func() error) error {
	if g.fired.Load() {
		return errors.Newf(errors.CodeTooLate, "", "the %s event has already fired", g.name)
	}

	g.running.Store(true)
	defer func() {
		g.fired.Store(true)
		g.running.Store(false)
	}()

	if fn == nil {
		return nil
	}
	if err := fn(); err != nil {
		return fmt.Errorf("%s handler: %w", g.name, err)
	}
	return nil
}

// Fire marks the event as fired without running a handler
func (g *Gate) Fire() {
	g.fired.Store(true)
}

// Fired reports whether the event has fired or is firing
func (g *Gate) Fired() bool {
	return g.fired.Load() || g.running.Load()
}

// Running reports whether the event is currently firing
func (g *Gate) Running() bool {
	return g.running.Load()
}

// TooLate reports whether registration has closed
func (g *Gate) TooLate() bool {
	return g.fired.Load() && !g.running.Load()
}
