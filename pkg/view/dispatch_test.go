package view

import (
	"context"
	goerrors "errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/go-surface/surface/pkg/dom"
	"github.com/go-surface/surface/pkg/errors"
)

// rendered builds and renders a node for dispatcher tests.
func rendered(t *testing.T, cfg Config) *View {
	t.Helper()
	v, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := v.Render(context.Background()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return v
}

func firstWithAttr(t *testing.T, v *View, attr string) *dom.Element {
	t.Helper()
	els := v.Element().QueryAttr(attr)
	if len(els) == 0 {
		t.Fatalf("no element with %s in %s", attr, v.Element().InnerHTML())
	}
	return els[0]
}

func TestActionRegisteredHandler(t *testing.T) {
	v := rendered(t, Config{Template: `<button data-action="save">Save</button>`})

	calls := 0
	v.Action("save", func(ev *dom.Event, el *dom.Element) error {
		calls++
		return nil
	})

	btn := firstWithAttr(t, v, "data-action")
	btn.Dispatch(dom.NewEvent("click"))
	if calls != 1 {
		t.Errorf("handler calls = %d, want exactly 1", calls)
	}
}

func TestActionFormBindsSubmit(t *testing.T) {
	v := rendered(t, Config{Template: `<form data-action="search"><input name="q"></form>`})

	calls := 0
	v.Action("search", func(ev *dom.Event, el *dom.Element) error {
		calls++
		return nil
	})

	form := firstWithAttr(t, v, "data-action")
	if got := form.ListenerCount("submit"); got != 1 {
		t.Fatalf("form submit listeners = %d, want 1", got)
	}
	if got := form.ListenerCount("click"); got != 0 {
		t.Errorf("form click listeners = %d, want 0", got)
	}

	ev := dom.NewEvent("submit")
	form.Dispatch(ev)
	if calls != 1 {
		t.Errorf("handler calls = %d, want 1", calls)
	}
	if !ev.DefaultPrevented() {
		t.Error("action submit must prevent the native form submission")
	}
}

type orderComponent struct {
	placed []string
}

func (c *orderComponent) OnActionPlaceOrder(ev *dom.Event, el *dom.Element) error {
	c.placed = append(c.placed, el.AttrValue("data-action"))
	return nil
}

func TestActionReflectedMethod(t *testing.T) {
	comp := &orderComponent{}
	v := rendered(t, Config{
		Template: `<button data-action="place-order">Order</button>`,
		Self:     comp,
	})

	firstWithAttr(t, v, "data-action").Dispatch(dom.NewEvent("click"))
	if len(comp.placed) != 1 || comp.placed[0] != "place-order" {
		t.Errorf("reflected handler calls = %v, want one place-order", comp.placed)
	}
}

func TestActionRegisteredBeatsReflected(t *testing.T) {
	comp := &orderComponent{}
	v := rendered(t, Config{
		Template: `<button data-action="place-order">Order</button>`,
		Self:     comp,
	})
	explicit := 0
	v.Action("place-order", func(ev *dom.Event, el *dom.Element) error {
		explicit++
		return nil
	})

	firstWithAttr(t, v, "data-action").Dispatch(dom.NewEvent("click"))
	if explicit != 1 {
		t.Errorf("explicit handler calls = %d, want 1", explicit)
	}
	if len(comp.placed) != 0 {
		t.Error("registered handler must shadow the reflected method")
	}
}

func TestActionEmitFallback(t *testing.T) {
	v := rendered(t, Config{Template: `<button data-action="ping">P</button>`})

	var got ActionEvent
	v.On("action:ping", func(data any) { got = data.(ActionEvent) })

	btn := firstWithAttr(t, v, "data-action")
	btn.Dispatch(dom.NewEvent("click"))
	if got.Action != "ping" {
		t.Errorf("emitted action = %q, want ping", got.Action)
	}
	if got.Element != btn {
		t.Error("emitted event should carry the triggering element")
	}
}

func TestActionFailureContained(t *testing.T) {
	h := &captureHandler{}
	errors.SetHandler(h)
	defer errors.SetHandler(nil)
	not := &fakeNotifier{}

	v := rendered(t, Config{
		Template: `<button data-action="boom">B</button><button data-action="panic">P</button>`,
		Notifier: not,
	})
	v.Action("boom", func(ev *dom.Event, el *dom.Element) error {
		return goerrors.New("handler failed")
	})
	v.Action("panic", func(ev *dom.Event, el *dom.Element) error {
		panic("handler panicked")
	})

	buttons := v.Element().QueryAttr("data-action")
	for _, b := range buttons {
		b.Dispatch(dom.NewEvent("click"))
	}

	if h.errorCount() != 1 {
		t.Errorf("failing handler reports = %d, want 1", h.errorCount())
	}
	if len(h.panics) != 1 {
		t.Errorf("panic reports = %d, want 1", len(h.panics))
	}
	if len(not.errs) != 2 {
		t.Errorf("notifier errors = %d, want 2", len(not.errs))
	}
	if v.Destroyed() {
		t.Error("a failing action must not take the node down")
	}
}

func TestNavigationDataPage(t *testing.T) {
	nav := &fakeNavigator{}
	v := rendered(t, Config{
		Template:  `<a data-page="product" data-params='{"id":"42"}' href="/products/42">Product</a>`,
		Navigator: nav,
	})

	a := firstWithAttr(t, v, "data-page")
	ev := dom.NewEvent("click")
	a.Dispatch(ev)

	want := []pageCall{{Name: "product", Params: map[string]any{"id": "42"}}}
	if diff := cmp.Diff(want, nav.pages); diff != "" {
		t.Errorf("page navigation mismatch (-want +got):\n%s", diff)
	}
	if len(nav.paths) != 0 {
		t.Errorf("data-page must win over href, Navigate called with %v", nav.paths)
	}
	if !ev.DefaultPrevented() {
		t.Error("intercepted navigation must prevent the default")
	}
}

func TestNavigationInternalHref(t *testing.T) {
	nav := &fakeNavigator{}
	v := rendered(t, Config{
		Template:  `<a href="/about">About</a>`,
		Navigator: nav,
	})

	ev := dom.NewEvent("click")
	firstWithAttr(t, v, "href").Dispatch(ev)

	if len(nav.paths) != 1 || nav.paths[0] != "/about" {
		t.Errorf("Navigate calls = %v, want [/about]", nav.paths)
	}
	if !ev.DefaultPrevented() {
		t.Error("internal link must be intercepted")
	}
}

func TestNavigationFragmentWithTarget(t *testing.T) {
	nav := &fakeNavigator{}
	v := rendered(t, Config{
		Template:  `<a href="#details">Details</a>`,
		Navigator: nav,
	})

	ev := dom.NewEvent("click")
	firstWithAttr(t, v, "href").Dispatch(ev)

	if len(nav.paths) != 1 || nav.paths[0] != "#details" {
		t.Errorf("Navigate calls = %v, want [#details]", nav.paths)
	}
	if !ev.DefaultPrevented() {
		t.Error("a targeted fragment link routes through the navigator")
	}
}

func TestNavigationLeftAlone(t *testing.T) {
	tests := []struct {
		name     string
		template string
		event    *dom.Event
	}{
		{"external http", `<a href="https://example.com">x</a>`, dom.NewEvent("click")},
		{"protocol relative", `<a href="//cdn.example.com/a.js">x</a>`, dom.NewEvent("click")},
		{"mailto", `<a href="mailto:a@b.c">x</a>`, dom.NewEvent("click")},
		{"tel", `<a href="tel:+123">x</a>`, dom.NewEvent("click")},
		{"bare fragment", `<a href="#">x</a>`, dom.NewEvent("click")},
		{"native opt-out", `<a href="/about" data-native>x</a>`, dom.NewEvent("click")},
		{"ctrl click", `<a href="/about">x</a>`, &dom.Event{Type: "click", CtrlKey: true}},
		{"meta click", `<a href="/about">x</a>`, &dom.Event{Type: "click", MetaKey: true}},
		{"middle click", `<a href="/about">x</a>`, &dom.Event{Type: "click", Button: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav := &fakeNavigator{}
			v := rendered(t, Config{Template: tt.template, Navigator: nav})

			firstWithAttr(t, v, "href").Dispatch(tt.event)

			if len(nav.paths) != 0 || len(nav.pages) != 0 {
				t.Errorf("navigator must not be called, got paths=%v pages=%v", nav.paths, nav.pages)
			}
			if tt.event.DefaultPrevented() {
				t.Error("default browser behavior must survive")
			}
		})
	}
}

func TestNavigationMalformedParams(t *testing.T) {
	h := &captureHandler{}
	errors.SetHandler(h)
	defer errors.SetHandler(nil)

	nav := &fakeNavigator{}
	v := rendered(t, Config{
		Template:  `<span data-page="home" data-params="{not json">Home</span>`,
		Navigator: nav,
	})

	firstWithAttr(t, v, "data-page").Dispatch(dom.NewEvent("click"))

	want := []pageCall{{Name: "home", Params: map[string]any{}}}
	if diff := cmp.Diff(want, nav.pages); diff != "" {
		t.Errorf("malformed params should degrade to empty (-want +got):\n%s", diff)
	}
	if h.warningCount() == 0 {
		t.Error("malformed data-params should log a warning")
	}
}

func TestNavigationWithoutNavigator(t *testing.T) {
	h := &captureHandler{}
	errors.SetHandler(h)
	defer errors.SetHandler(nil)

	v := rendered(t, Config{Template: `<a href="/about">About</a>`})

	ev := dom.NewEvent("click")
	firstWithAttr(t, v, "href").Dispatch(ev)

	if ev.DefaultPrevented() {
		t.Error("without a navigator the default behavior must survive")
	}
	if h.warningCount() == 0 {
		t.Error("missing navigator should log a warning")
	}
}

func TestActionExcludesNavigation(t *testing.T) {
	nav := &fakeNavigator{}
	v := rendered(t, Config{
		Template:  `<button data-action="open" data-page="product">Open</button>`,
		Navigator: nav,
	})
	calls := 0
	v.Action("open", func(ev *dom.Event, el *dom.Element) error {
		calls++
		return nil
	})

	firstWithAttr(t, v, "data-action").Dispatch(dom.NewEvent("click"))
	if calls != 1 {
		t.Errorf("action calls = %d, want 1", calls)
	}
	if len(nav.pages) != 0 {
		t.Errorf("data-action element must never navigate, got %v", nav.pages)
	}
}

func TestActionRebindAfterRerender(t *testing.T) {
	clk := newFakeClock()
	v, err := New(context.Background(), Config{
		Template: `<button data-action="save">S</button>`,
		Guard:    GuardOptions{Clock: clk},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := v.Render(context.Background()); err != nil {
		t.Fatalf("Render: %v", err)
	}

	calls := 0
	v.Action("save", func(ev *dom.Event, el *dom.Element) error {
		calls++
		return nil
	})

	firstWithAttr(t, v, "data-action").Dispatch(dom.NewEvent("click"))
	if calls != 1 {
		t.Fatalf("calls after first click = %d, want 1", calls)
	}

	clk.advance(time.Second)
	if err := v.Render(context.Background()); err != nil {
		t.Fatalf("rerender: %v", err)
	}

	btn := firstWithAttr(t, v, "data-action")
	if got := btn.ListenerCount("click"); got != 1 {
		t.Fatalf("fresh button click listeners = %d, want exactly 1", got)
	}
	btn.Dispatch(dom.NewEvent("click"))
	if calls != 2 {
		t.Errorf("calls after rerender click = %d, want 2 (no double binding)", calls)
	}
}

func TestParentRebindSkipsChildSubtrees(t *testing.T) {
	_, body := testDoc()
	clk := newFakeClock()

	parent, err := New(context.Background(), Config{
		ID:        "parent",
		Template:  `<section></section>`,
		Container: body,
		Guard:     GuardOptions{Clock: clk},
	})
	if err != nil {
		t.Fatalf("New parent: %v", err)
	}
	child, err := New(context.Background(), Config{
		ID:       "child",
		Template: `<button data-action="save">S</button>`,
		Guard:    GuardOptions{Clock: clk},
	})
	if err != nil {
		t.Fatalf("New child: %v", err)
	}
	if err := parent.AddChild("c", child); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if err := parent.Mount(context.Background()); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	childCalls := 0
	child.Action("save", func(ev *dom.Event, el *dom.Element) error {
		childCalls++
		return nil
	})
	parentActions := 0
	parent.On("action:save", func(data any) { parentActions++ })

	clk.advance(time.Second)
	if err := parent.Render(context.Background()); err != nil {
		t.Fatalf("parent rerender: %v", err)
	}

	btn := firstWithAttr(t, child, "data-action")
	if got := btn.ListenerCount("click"); got != 1 {
		t.Fatalf("click listeners on child button after parent rerender = %d, want 1", got)
	}

	btn.Dispatch(dom.NewEvent("click"))
	if childCalls != 1 {
		t.Errorf("child handler calls = %d, want 1", childCalls)
	}
	if parentActions != 0 {
		t.Errorf("parent received %d action:save events, want 0", parentActions)
	}
}

func TestUnbindOnUnmount(t *testing.T) {
	_, body := testDoc()
	v, err := New(context.Background(), Config{
		Template:  `<button data-action="save">S</button>`,
		Container: body,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := v.Mount(context.Background()); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	btn := firstWithAttr(t, v, "data-action")
	if got := btn.ListenerCount("click"); got != 1 {
		t.Fatalf("bound click listeners = %d, want 1", got)
	}

	if err := v.Unmount(context.Background()); err != nil {
		t.Fatalf("Unmount: %v", err)
	}
	if got := btn.ListenerCount("click"); got != 0 {
		t.Errorf("click listeners after unmount = %d, want 0", got)
	}
}

func TestActionMethodSuffix(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"save", "Save"},
		{"place-order", "PlaceOrder"},
		{"save_draft", "SaveDraft"},
		{"cart.add", "CartAdd"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := actionMethodSuffix(tt.name); got != tt.want {
			t.Errorf("actionMethodSuffix(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestIsExternalLink(t *testing.T) {
	external := []string{"", "http://x", "https://x", "//x", "mailto:a@b", "tel:+1", "#"}
	for _, href := range external {
		if !isExternalLink(href) {
			t.Errorf("isExternalLink(%q) = false, want true", href)
		}
	}
	internal := []string{"/about", "products/1", "/a?b=c", "#top"}
	for _, href := range internal {
		if isExternalLink(href) {
			t.Errorf("isExternalLink(%q) = true, want false", href)
		}
	}
}
