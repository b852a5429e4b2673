// Package viewtest provides an isolated harness for testing components:
// a fresh document, a deterministic render-guard clock, finders for the
// rendered markup, and input helpers that drive the declarative dispatcher.
package viewtest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-surface/surface/pkg/dom"
	"github.com/go-surface/surface/pkg/view"
)

// FakeClock provides controllable time for deterministic guard tests.
// All methods are safe for concurrent use.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock returns a FakeClock starting at a fixed epoch.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Tester mounts one component tree into a private document and drives it
// without a real browser. The guard clock is the tester's FakeClock, so
// cooldown windows are crossed with Clock.Advance instead of sleeping.
type Tester struct {
	t     *testing.T
	doc   *dom.Element
	body  *dom.Element
	root  *view.View
	Clock *FakeClock
}

// NewTester creates a tester that cleans up via t.Cleanup.
func NewTester(t *testing.T) *Tester {
	doc := dom.NewDocument()
	body := dom.NewElement("body")
	doc.AppendChild(body)
	tester := &Tester{t: t, doc: doc, body: body, Clock: NewFakeClock()}
	t.Cleanup(tester.cleanup)
	return tester
}

func (ts *Tester) cleanup() {
	if ts.root != nil {
		_ = ts.root.Destroy(context.Background())
		ts.root = nil
	}
}

// Body returns the document body the root mounts into.
func (ts *Tester) Body() *dom.Element { return ts.body }

// Root returns the mounted root node, nil before Mount.
func (ts *Tester) Root() *view.View { return ts.root }

// Mount builds a node from the config and mounts it into the tester's
// document. The config's guard clock is replaced by the tester's FakeClock
// unless set explicitly.
func (ts *Tester) Mount(cfg view.Config) *view.View {
	ts.t.Helper()
	if cfg.Container == nil {
		cfg.Container = ts.body
	}
	if cfg.Guard.Clock == nil {
		cfg.Guard.Clock = ts.Clock
	}
	v, err := view.New(context.Background(), cfg)
	if err != nil {
		ts.t.Fatalf("viewtest: New: %v", err)
	}
	if err := v.Mount(context.Background()); err != nil {
		ts.t.Fatalf("viewtest: Mount: %v", err)
	}
	ts.root = v
	return v
}

// Rerender advances past the guard cooldown and renders the root again.
func (ts *Tester) Rerender() {
	ts.t.Helper()
	ts.Clock.Advance(time.Second)
	if err := ts.root.Render(context.Background()); err != nil {
		ts.t.Fatalf("viewtest: Render: %v", err)
	}
}

// Tap dispatches a plain click on the finder's first match.
func (ts *Tester) Tap(f Finder) {
	ts.t.Helper()
	ts.Find(f).First().Dispatch(dom.NewEvent("click"))
}

// Submit dispatches a submit event on the finder's first match.
func (ts *Tester) Submit(f Finder) {
	ts.t.Helper()
	ts.Find(f).First().Dispatch(dom.NewEvent("submit"))
}

// Find evaluates a finder against the mounted tree.
func (ts *Tester) Find(f Finder) FinderResult {
	ts.t.Helper()
	if ts.root == nil || ts.root.Element() == nil {
		ts.t.Fatal("viewtest: Find before Mount")
	}
	return FinderResult{elements: f.Evaluate(ts.root.Element()), finder: f}
}
