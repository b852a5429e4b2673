// Package view implements the component node at the heart of the runtime: a
// managed lifecycle (init, render, mount, unmount, destroy), a parent/child
// hierarchy, declarative DOM event dispatch, and a per-instance event bus.
//
// A View renders its template into a retained dom.Element and mounts that
// element into a container. Re-rendering replaces the element's entire
// subtree; there is no diffing. A render guard protects against concurrent
// and runaway renders.
package view

import (
	"context"
	goerrors "errors"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/go-surface/surface/pkg/dom"
	"github.com/go-surface/surface/pkg/errors"
	"github.com/go-surface/surface/pkg/navigation"
	"github.com/go-surface/surface/pkg/notify"
	"github.com/go-surface/surface/pkg/template"
)

var (
	errDestroyed = goerrors.New("node is destroyed")
	errNilChild  = goerrors.New("child is nil")
	errSelfChild = goerrors.New("node cannot be its own child")
	errNoElement = goerrors.New("node has no rendered element")

	// ErrNoContainer is returned by Mount when no container was configured.
	ErrNoContainer = goerrors.New("no container")
	// ErrContainerDetached is returned by Mount when the container is not
	// attached to a document.
	ErrContainerDetached = goerrors.New("container not attached to document")
)

// Config describes a node at construction time. The zero value is usable:
// an anonymous, template-less div that renders empty.
type Config struct {
	// ID identifies the node; autogenerated when empty.
	ID string

	// Template is the node's markup source: a literal string, a URL string,
	// a template.Func generator, a templ.Component, or any template.Source.
	Template any

	// Container is the element the node mounts into. A child without a
	// container mounts into its parent's element.
	Container *dom.Element

	// Data holds template binding values. State holds values that shadow
	// Data keys in the binding context.
	Data  map[string]any
	State map[string]any

	// TagName is the rendered element's tag, "div" when empty. ClassName
	// populates its class attribute.
	TagName   string
	ClassName string

	// DisableCache turns off per-instance caching of static template text.
	// Caching is on by default; generator sources are never cached.
	DisableCache bool

	// Partials are named sub-templates available to the template engine.
	Partials map[string]string

	// Engine overrides the default mustache template engine.
	Engine template.Engine

	// AutoRender renders the node during construction.
	AutoRender bool

	// ReplaceContent clears the container before the element is appended
	// on mount.
	ReplaceContent bool

	// Self is the concrete component embedding this node. Overridable
	// lifecycle methods (OnInit, OnBeforeRender, ...) and reflected action
	// handlers (OnActionSave, ...) are discovered on it.
	Self any

	// Hooks are the configured lifecycle callbacks.
	Hooks Hooks

	// Guard tunes the render guard. Zero values select the defaults.
	Guard GuardOptions

	// Navigator handles intercepted link and data-page clicks. Inherited
	// from the parent when unset.
	Navigator navigation.Navigator

	// Notifier surfaces action and navigation failures to the user.
	// Inherited from the parent when unset.
	Notifier notify.Notifier
}

// View is the base component node. Embed it in a concrete component and pass
// that component as Config.Self to get overridable lifecycle methods and
// reflected action handlers.
//
// Lifecycle operations on one node are sequential; sibling subtrees run
// their phases concurrently, and a parent always awaits its children before
// finishing a phase. Destroying a node while one of its operations is in
// flight is the caller's race to avoid.
type View struct {
	id        string
	self      any
	hooks     Hooks
	tagName   string
	className string

	replaceContent bool

	resolver *template.Resolver
	guard    *renderGuard
	binder   Binder
	bus      emitter

	mu        sync.RWMutex
	data      map[string]any
	state     map[string]any
	container *dom.Element
	element   *dom.Element
	parent    *View
	navigator navigation.Navigator
	notifier  notify.Notifier
	loading   bool
	rendered  bool
	mounted   bool
	destroyed bool

	childMu    sync.Mutex
	children   map[string]*View
	childOrder []string
	actions    map[string]ActionFunc
}

var idCounter atomic.Uint64

func newID() string {
	return fmt.Sprintf("surface-%d", idCounter.Add(1))
}

// New constructs a node and runs its init phase synchronously: BeforeInit
// hook, OnInit override, AfterInit hook. With AutoRender set the initial
// render also runs before New returns.
func New(ctx context.Context, cfg Config) (*View, error) {
	v := &View{
		id:             cfg.ID,
		self:           cfg.Self,
		hooks:          cfg.Hooks,
		tagName:        cfg.TagName,
		className:      cfg.ClassName,
		replaceContent: cfg.ReplaceContent,
		data:           copyMap(cfg.Data),
		state:          copyMap(cfg.State),
		container:      cfg.Container,
		navigator:      cfg.Navigator,
		notifier:       cfg.Notifier,
		guard:          newRenderGuard(cfg.Guard),
	}
	if v.id == "" {
		v.id = newID()
	}
	if v.tagName == "" {
		v.tagName = "div"
	}
	v.bus.node = v.id
	v.binder = &dispatcher{view: v}

	if cfg.Template != nil {
		src, err := template.Detect(cfg.Template)
		if err != nil {
			return nil, errors.New("view.New", errors.KindInit, v.id, err)
		}
		opts := []template.Option{}
		if cfg.Engine != nil {
			opts = append(opts, template.WithEngine(cfg.Engine))
		}
		if cfg.Partials != nil {
			opts = append(opts, template.WithPartials(cfg.Partials))
		}
		if cfg.DisableCache {
			opts = append(opts, template.WithoutCache())
		}
		v.resolver = template.NewResolver(src, opts...)
	}

	if err := v.hookBeforeInit(ctx); err != nil {
		return nil, errors.New("view.New", errors.KindInit, v.id, err)
	}
	if err := v.hookAfterInit(ctx); err != nil {
		return nil, errors.New("view.New", errors.KindInit, v.id, err)
	}

	if cfg.AutoRender {
		if err := v.Render(ctx); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// ID returns the node identifier.
func (v *View) ID() string { return v.id }

// Element returns the node's rendered element, nil before the first render.
func (v *View) Element() *dom.Element {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.element
}

// Container returns the element the node mounts into.
func (v *View) Container() *dom.Element {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.container
}

// SetContainer changes the mount target for subsequent renders and mounts.
func (v *View) SetContainer(c *dom.Element) {
	v.mu.Lock()
	v.container = c
	v.mu.Unlock()
}

// Parent returns the parent node, nil at the root or after destroy.
func (v *View) Parent() *View {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.parent
}

func (v *View) Loading() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loading
}

func (v *View) Rendered() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.rendered
}

func (v *View) Mounted() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.mounted
}

func (v *View) Destroyed() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.destroyed
}

// RenderCount returns the guard's current attempt count.
func (v *View) RenderCount() int { return v.guard.renderCount() }

// Render resolves the template and swaps the element's entire subtree, then
// re-renders children concurrently and rebinds declarative DOM handlers.
// Calls skipped by the render guard return nil; the skip is logged.
func (v *View) Render(ctx context.Context) error {
	return v.RenderInto(ctx, nil)
}

// RenderInto renders into the given container, which replaces the configured
// one when non-nil.
func (v *View) RenderInto(ctx context.Context, container *dom.Element) error {
	v.mu.Lock()
	if v.destroyed {
		v.mu.Unlock()
		return errors.New("view.Render", errors.KindInit, v.id, errDestroyed)
	}
	if container != nil {
		v.container = container
	}
	v.mu.Unlock()

	if !v.guard.admit(v.id) {
		return nil
	}
	defer v.guard.finish()

	v.mu.Lock()
	v.loading = true
	v.mu.Unlock()
	defer func() {
		v.mu.Lock()
		v.loading = false
		v.mu.Unlock()
	}()

	if err := v.hookBeforeRender(ctx); err != nil {
		return errors.New("view.Render", errors.KindRender, v.id, err)
	}

	el := v.ensureElement()

	markup := ""
	if v.resolver != nil {
		var err error
		markup, err = v.resolver.Resolve(ctx, v.templateContext())
		if err != nil {
			return errors.New("view.Render", errors.KindRender, v.id, err)
		}
	}

	v.binder.Unbind()
	if err := el.SetInnerHTML(markup); err != nil {
		return errors.New("view.Render", errors.KindRender, v.id, err)
	}

	if err := v.renderChildren(ctx, el); err != nil {
		return err
	}

	v.binder.Bind(el)

	v.mu.Lock()
	v.rendered = true
	v.mu.Unlock()

	v.reattachIfMounted()

	if err := v.hookAfterRender(ctx); err != nil {
		return errors.New("view.Render", errors.KindRender, v.id, err)
	}
	return nil
}

// renderChildren re-renders every child into the freshly swapped element,
// siblings concurrently, all awaited.
func (v *View) renderChildren(ctx context.Context, el *dom.Element) error {
	children := v.Children()
	if len(children) == 0 {
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, c := range children {
		c := c
		g.Go(func() error {
			if c.Container() == nil {
				c.SetContainer(el)
			}
			if err := c.Render(ctx); err != nil {
				return err
			}
			// The swap above detached the child's element; put it back
			// even when the child's guard skipped this render.
			c.reattachIfMounted()
			return nil
		})
	}
	return g.Wait()
}

// reattachIfMounted restores a mounted node's element under its container
// after a parent re-render detached it. It runs outside guard admission so
// a skipped render never leaves a mounted node out of the document.
func (v *View) reattachIfMounted() {
	v.mu.RLock()
	mounted, el, target := v.mounted, v.element, v.container
	v.mu.RUnlock()
	if mounted && el != nil && target != nil && el.Parent() == nil {
		target.AppendChild(el)
	}
}

// ensureElement lazily creates the node's element on first render.
func (v *View) ensureElement() *dom.Element {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.element == nil {
		v.element = dom.NewElement(v.tagName)
		v.element.SetAttr("id", v.id)
		if v.className != "" {
			v.element.SetAttr("class", v.className)
		}
		if v.self != nil {
			v.element.Component = v.self
		} else {
			v.element.Component = v
		}
	}
	return v.element
}

// templateContext assembles the binding context from copies of data and
// state plus the node's lifecycle flags.
func (v *View) templateContext() template.Context {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return template.Context{
		ID:       v.id,
		Loading:  v.loading,
		Rendered: v.rendered,
		Mounted:  v.mounted,
		Data:     copyMap(v.data),
		State:    copyMap(v.state),
	}
}

// Mount attaches the rendered element to the container and cascades to
// children. An unrendered node renders first. The container must be attached
// to a document.
func (v *View) Mount(ctx context.Context) error {
	v.mu.RLock()
	destroyed, rendered := v.destroyed, v.rendered
	v.mu.RUnlock()

	if destroyed {
		return errors.New("view.Mount", errors.KindInit, v.id, errDestroyed)
	}
	if !rendered {
		if err := v.Render(ctx); err != nil {
			return err
		}
		if !v.Rendered() {
			return errors.New("view.Mount", errors.KindMount, v.id, errNoElement)
		}
	}

	v.mu.RLock()
	container, el := v.container, v.element
	v.mu.RUnlock()

	if container == nil {
		return errors.New("view.Mount", errors.KindMount, v.id, ErrNoContainer)
	}
	if !container.Attached() {
		return errors.New("view.Mount", errors.KindMount, v.id, ErrContainerDetached)
	}

	if err := v.hookBeforeMount(ctx); err != nil {
		return errors.New("view.Mount", errors.KindMount, v.id, err)
	}

	if v.replaceContent {
		container.RemoveChildren()
	}
	if !container.Contains(el) {
		container.AppendChild(el)
	}

	v.mu.Lock()
	v.mounted = true
	v.mu.Unlock()

	if err := v.mountChildren(ctx); err != nil {
		return err
	}

	if err := v.hookAfterMount(ctx); err != nil {
		return errors.New("view.Mount", errors.KindMount, v.id, err)
	}
	return nil
}

func (v *View) mountChildren(ctx context.Context) error {
	children := v.Children()
	if len(children) == 0 {
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, c := range children {
		c := c
		g.Go(func() error {
			if c.Mounted() {
				return nil
			}
			return c.Mount(ctx)
		})
	}
	return g.Wait()
}

// Unmount detaches the subtree from the document, children first, and
// unbinds declarative DOM handlers. The rendered element is retained for a
// later remount. Unmounting an unmounted node is a no-op.
func (v *View) Unmount(ctx context.Context) error {
	v.mu.RLock()
	destroyed, mounted := v.destroyed, v.mounted
	v.mu.RUnlock()

	if destroyed {
		return errors.New("view.Unmount", errors.KindInit, v.id, errDestroyed)
	}
	if !mounted {
		return nil
	}

	if err := v.hookBeforeUnmount(ctx); err != nil {
		return errors.New("view.Unmount", errors.KindUnmount, v.id, err)
	}

	children := v.Children()
	if len(children) > 0 {
		g, gctx := errgroup.WithContext(ctx)
		for _, c := range children {
			c := c
			g.Go(func() error { return c.Unmount(gctx) })
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	v.mu.RLock()
	el := v.element
	v.mu.RUnlock()
	if el != nil {
		el.Remove()
	}
	v.binder.Unbind()

	v.mu.Lock()
	v.mounted = false
	v.mu.Unlock()

	if err := v.hookAfterUnmount(ctx); err != nil {
		return errors.New("view.Unmount", errors.KindUnmount, v.id, err)
	}
	return nil
}

// Destroy tears the subtree down for good: children bottom-up, unmount,
// detach from the parent, release listeners, actions, data, state and the
// template cache. Destroy is idempotent; a second call is a silent no-op.
// Hook and teardown errors are reported but never stop finalization; the
// first one is returned.
func (v *View) Destroy(ctx context.Context) error {
	v.mu.Lock()
	if v.destroyed {
		v.mu.Unlock()
		return nil
	}
	v.mu.Unlock()

	var firstErr error
	keep := func(err error) {
		if err == nil {
			return
		}
		errors.Report(errors.New("view.Destroy", errors.KindUnknown, v.id, err))
		if firstErr == nil {
			firstErr = err
		}
	}

	keep(v.hookBeforeDestroy(ctx))

	children := v.Children()
	if len(children) > 0 {
		g, gctx := errgroup.WithContext(ctx)
		for _, c := range children {
			c := c
			g.Go(func() error { return c.Destroy(gctx) })
		}
		keep(g.Wait())
	}

	if v.Mounted() {
		keep(v.Unmount(ctx))
	}

	v.mu.RLock()
	parent := v.parent
	v.mu.RUnlock()
	if parent != nil {
		parent.removeChildEntry(v)
	}

	v.binder.Unbind()
	v.bus.clear()
	if v.resolver != nil {
		v.resolver.InvalidateCache()
	}
	v.guard.stop()

	v.childMu.Lock()
	v.children = nil
	v.childOrder = nil
	v.actions = nil
	v.childMu.Unlock()

	v.mu.Lock()
	v.data = nil
	v.state = nil
	v.parent = nil
	v.element = nil
	v.destroyed = true
	v.mu.Unlock()

	keep(v.hookAfterDestroy(ctx))
	return firstErr
}

// UpdateData merges the patch into the node's data, re-rendering when asked.
func (v *View) UpdateData(ctx context.Context, patch map[string]any, rerender bool) error {
	v.mu.Lock()
	if v.destroyed {
		v.mu.Unlock()
		return errors.New("view.UpdateData", errors.KindInit, v.id, errDestroyed)
	}
	if v.data == nil {
		v.data = make(map[string]any, len(patch))
	}
	for k, val := range patch {
		v.data[k] = val
	}
	v.mu.Unlock()

	if rerender {
		return v.Render(ctx)
	}
	return nil
}

// UpdateState merges the patch into the node's state. Unlike data changes,
// state changes usually want an immediate re-render.
func (v *View) UpdateState(ctx context.Context, patch map[string]any, rerender bool) error {
	v.mu.Lock()
	if v.destroyed {
		v.mu.Unlock()
		return errors.New("view.UpdateState", errors.KindInit, v.id, errDestroyed)
	}
	if v.state == nil {
		v.state = make(map[string]any, len(patch))
	}
	for k, val := range patch {
		v.state[k] = val
	}
	v.mu.Unlock()

	if rerender {
		return v.Render(ctx)
	}
	return nil
}

// Data returns a copy of the node's data map.
func (v *View) Data() map[string]any {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return copyMap(v.data)
}

// State returns a copy of the node's state map.
func (v *View) State() map[string]any {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return copyMap(v.state)
}

// On subscribes to an application-level event. The returned function removes
// the subscription.
func (v *View) On(event string, fn EventFunc) func() {
	return v.bus.on(event, fn, false)
}

// Once subscribes for a single delivery.
func (v *View) Once(event string, fn EventFunc) func() {
	return v.bus.on(event, fn, true)
}

// Off removes every subscription for the event.
func (v *View) Off(event string) {
	v.bus.off(event)
}

// Emit delivers the event synchronously to subscribers in registration
// order. A panicking subscriber is reported and skipped; its siblings still
// run.
func (v *View) Emit(event string, data any) {
	v.bus.emit(event, data)
}

// Action registers a handler for a declarative data-action name. A nil
// handler unregisters it. Registered handlers take precedence over reflected
// OnAction methods.
func (v *View) Action(name string, fn ActionFunc) {
	v.childMu.Lock()
	defer v.childMu.Unlock()
	if fn == nil {
		delete(v.actions, name)
		return
	}
	if v.actions == nil {
		v.actions = make(map[string]ActionFunc)
	}
	v.actions[name] = fn
}
