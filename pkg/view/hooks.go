package view

import "context"

// Hook is a lifecycle callback configured on a node. Returning an error
// aborts the surrounding lifecycle operation, except during destruction
// where errors are reported and finalization continues.
type Hook func(ctx context.Context, v *View) error

// Hooks carries the configurable lifecycle callbacks. Each hook runs before
// the matching overridable method on the concrete component.
type Hooks struct {
	BeforeInit    Hook
	AfterInit     Hook
	BeforeRender  Hook
	AfterRender   Hook
	BeforeMount   Hook
	AfterMount    Hook
	BeforeUnmount Hook
	AfterUnmount  Hook
	BeforeDestroy Hook
	AfterDestroy  Hook
}

// The overridable lifecycle interfaces. A concrete component passed as
// Config.Self may implement any subset; each method runs after the
// corresponding configured Hook.

type Initializer interface {
	OnInit(ctx context.Context) error
}

type BeforeRenderer interface {
	OnBeforeRender(ctx context.Context) error
}

type AfterRenderer interface {
	OnAfterRender(ctx context.Context) error
}

type BeforeMounter interface {
	OnBeforeMount(ctx context.Context) error
}

type AfterMounter interface {
	OnAfterMount(ctx context.Context) error
}

type BeforeUnmounter interface {
	OnBeforeUnmount(ctx context.Context) error
}

type AfterUnmounter interface {
	OnAfterUnmount(ctx context.Context) error
}

type BeforeDestroyer interface {
	OnBeforeDestroy(ctx context.Context) error
}

type AfterDestroyer interface {
	OnAfterDestroy(ctx context.Context) error
}

// runHook invokes the configured hook, then the matching overridable method
// on the concrete component. Both always run, in that order; the first error
// wins.
func (v *View) runHook(ctx context.Context, h Hook, method func(context.Context) error) error {
	var first error
	if h != nil {
		first = h(ctx, v)
	}
	if method != nil {
		if err := method(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (v *View) hookBeforeInit(ctx context.Context) error {
	var m func(context.Context) error
	if i, ok := v.self.(Initializer); ok {
		m = i.OnInit
	}
	return v.runHook(ctx, v.hooks.BeforeInit, m)
}

func (v *View) hookAfterInit(ctx context.Context) error {
	return v.runHook(ctx, v.hooks.AfterInit, nil)
}

func (v *View) hookBeforeRender(ctx context.Context) error {
	var m func(context.Context) error
	if i, ok := v.self.(BeforeRenderer); ok {
		m = i.OnBeforeRender
	}
	return v.runHook(ctx, v.hooks.BeforeRender, m)
}

func (v *View) hookAfterRender(ctx context.Context) error {
	var m func(context.Context) error
	if i, ok := v.self.(AfterRenderer); ok {
		m = i.OnAfterRender
	}
	return v.runHook(ctx, v.hooks.AfterRender, m)
}

func (v *View) hookBeforeMount(ctx context.Context) error {
	var m func(context.Context) error
	if i, ok := v.self.(BeforeMounter); ok {
		m = i.OnBeforeMount
	}
	return v.runHook(ctx, v.hooks.BeforeMount, m)
}

func (v *View) hookAfterMount(ctx context.Context) error {
	var m func(context.Context) error
	if i, ok := v.self.(AfterMounter); ok {
		m = i.OnAfterMount
	}
	return v.runHook(ctx, v.hooks.AfterMount, m)
}

func (v *View) hookBeforeUnmount(ctx context.Context) error {
	var m func(context.Context) error
	if i, ok := v.self.(BeforeUnmounter); ok {
		m = i.OnBeforeUnmount
	}
	return v.runHook(ctx, v.hooks.BeforeUnmount, m)
}

func (v *View) hookAfterUnmount(ctx context.Context) error {
	var m func(context.Context) error
	if i, ok := v.self.(AfterUnmounter); ok {
		m = i.OnAfterUnmount
	}
	return v.runHook(ctx, v.hooks.AfterUnmount, m)
}

func (v *View) hookBeforeDestroy(ctx context.Context) error {
	var m func(context.Context) error
	if i, ok := v.self.(BeforeDestroyer); ok {
		m = i.OnBeforeDestroy
	}
	return v.runHook(ctx, v.hooks.BeforeDestroy, m)
}

func (v *View) hookAfterDestroy(ctx context.Context) error {
	var m func(context.Context) error
	if i, ok := v.self.(AfterDestroyer); ok {
		m = i.OnAfterDestroy
	}
	return v.runHook(ctx, v.hooks.AfterDestroy, m)
}
