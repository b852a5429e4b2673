package view

import (
	"sync"
	"time"

	"github.com/go-surface/surface/pkg/errors"
)

// Clock provides time for the render guard. The default implementation uses
// system time. Tests can inject a fake clock via GuardOptions to control
// cooldown timing deterministically.
type Clock interface {
	Now() time.Time
}

// systemClock uses system time.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Default render guard tuning.
const (
	DefaultMinRenderInterval = 100 * time.Millisecond
	DefaultMaxRenderCount    = 10
	DefaultRenderCountDecay  = time.Second
)

// GuardOptions tunes the render guard. Zero values select the defaults.
type GuardOptions struct {
	// MinRenderInterval is the cooldown between render starts. Calls inside
	// the window are skipped with a logged warning.
	MinRenderInterval time.Duration
	// MaxRenderCount is the attempt budget. Once the running count exceeds
	// it, render calls are rejected with a logged error until decay.
	MaxRenderCount int
	// DecayDelay is how long after each render attempt its count decays.
	DecayDelay time.Duration
	// Clock overrides the time source.
	Clock Clock
}

// renderGuard is the heuristic safety net against concurrent and runaway
// renders. Without virtual-DOM diffing, a data-driven re-render can recurse;
// the guard degrades such loops to "render stops happening" instead of a
// hang. It is best-effort, not a correctness proof.
//
// Three independent checks gate admission: an in-flight render skips the
// call (warning), an exhausted attempt budget rejects it (logged error), and
// a call inside the cooldown window skips it (warning). Every attempt counts
// toward the budget and schedules its own decay, so transient bursts
// recover once the decay delay elapses.
type renderGuard struct {
	opts     GuardOptions
	clock    Clock
	schedule func(time.Duration, func()) // replaceable in tests

	mu        sync.Mutex
	rendering bool
	lastStart time.Time
	count     int
	stopped   bool
}

func newRenderGuard(opts GuardOptions) *renderGuard {
	if opts.MinRenderInterval == 0 {
		opts.MinRenderInterval = DefaultMinRenderInterval
	}
	if opts.MaxRenderCount == 0 {
		opts.MaxRenderCount = DefaultMaxRenderCount
	}
	if opts.DecayDelay == 0 {
		opts.DecayDelay = DefaultRenderCountDecay
	}
	clock := opts.Clock
	if clock == nil {
		clock = systemClock{}
	}
	g := &renderGuard{opts: opts, clock: clock}
	g.schedule = func(d time.Duration, fn func()) {
		time.AfterFunc(d, fn)
	}
	return g
}

// admit decides whether a render call may proceed. A false return means the
// call was skipped or rejected; the condition has already been logged.
func (g *renderGuard) admit(node string) bool {
	const op = "view.renderGuard"

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.stopped {
		return false
	}
	if g.rendering {
		errors.Warnf(op, node, "render skipped: render already in flight")
		return false
	}

	g.count++
	g.schedule(g.opts.DecayDelay, g.decay)

	if g.count > g.opts.MaxRenderCount {
		errors.Report(errors.Newf(op, errors.KindRender, node,
			"render loop suspected: %d attempts exceed limit %d, render skipped until decay",
			g.count, g.opts.MaxRenderCount))
		return false
	}

	now := g.clock.Now()
	if !g.lastStart.IsZero() && now.Sub(g.lastStart) < g.opts.MinRenderInterval {
		errors.Warnf(op, node, "render skipped: %v since last render start (cooldown %v)",
			now.Sub(g.lastStart), g.opts.MinRenderInterval)
		return false
	}

	g.rendering = true
	g.lastStart = now
	return true
}

// finish clears the in-flight flag after an admitted render completes.
func (g *renderGuard) finish() {
	g.mu.Lock()
	g.rendering = false
	g.mu.Unlock()
}

// decay lowers the attempt count one step.
func (g *renderGuard) decay() {
	g.mu.Lock()
	if !g.stopped && g.count > 0 {
		g.count--
	}
	g.mu.Unlock()
}

// stop permanently closes the guard when the node is destroyed.
func (g *renderGuard) stop() {
	g.mu.Lock()
	g.stopped = true
	g.mu.Unlock()
}

// renderCount returns the current attempt count.
func (g *renderGuard) renderCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.count
}

// inFlight reports whether a render is currently admitted.
func (g *renderGuard) inFlight() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rendering
}
