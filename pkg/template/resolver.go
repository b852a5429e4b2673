package template

import (
	"context"
	"sync"
)

// Context is the data snapshot a template is bound against. The binding map
// is the merge {...data, ...state, id, loading, rendered, mounted}; state
// keys shadow data keys.
type Context struct {
	ID       string
	Loading  bool
	Rendered bool
	Mounted  bool
	Data     map[string]any
	State    map[string]any
}

// Map flattens the context into the engine's binding map.
func (tc Context) Map() map[string]any {
	out := make(map[string]any, len(tc.Data)+len(tc.State)+4)
	for k, v := range tc.Data {
		out[k] = v
	}
	for k, v := range tc.State {
		out[k] = v
	}
	out["id"] = tc.ID
	out["loading"] = tc.Loading
	out["rendered"] = tc.Rendered
	out["mounted"] = tc.Mounted
	return out
}

// Resolver turns a template source plus a render context into final markup.
//
// Template text from static sources (literals, URL fetches) is cached on the
// instance after the first load; data binding is re-evaluated on every
// render. Generator sources are invoked each render and never cached.
type Resolver struct {
	source   Source
	engine   Engine
	partials map[string]string
	caching  bool

	mu     sync.Mutex
	cached string
	loaded bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithEngine overrides the default mustache binding engine.
func WithEngine(e Engine) Option {
	return func(r *Resolver) { r.engine = e }
}

// WithPartials registers named partial templates passed to the engine.
func WithPartials(partials map[string]string) Option {
	return func(r *Resolver) { r.partials = partials }
}

// WithoutCache disables template-text caching; static sources reload (and
// URLs refetch) on every render.
func WithoutCache() Option {
	return func(r *Resolver) { r.caching = false }
}

// NewResolver creates a resolver for the given source.
func NewResolver(source Source, opts ...Option) *Resolver {
	r := &Resolver{
		source:  source,
		engine:  MustacheEngine{},
		caching: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Source returns the resolver's template source.
func (r *Resolver) Source() Source { return r.source }

// Resolve loads template text and binds the render context into it.
func (r *Resolver) Resolve(ctx context.Context, tc Context) (string, error) {
	if r == nil || r.source == nil {
		return "", nil
	}

	text, err := r.load(ctx, tc)
	if err != nil {
		return "", err
	}

	if pre, ok := r.source.(prerenderedSource); ok && pre.Prerendered() {
		return text, nil
	}
	return r.engine.Render(text, tc.Map(), r.partials)
}

func (r *Resolver) load(ctx context.Context, tc Context) (string, error) {
	dynamic := false
	if d, ok := r.source.(dynamicSource); ok {
		dynamic = d.Dynamic()
	}
	if dynamic || !r.caching {
		return r.source.Load(ctx, tc)
	}

	r.mu.Lock()
	if r.loaded {
		text := r.cached
		r.mu.Unlock()
		return text, nil
	}
	r.mu.Unlock()

	text, err := r.source.Load(ctx, tc)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.cached = text
	r.loaded = true
	r.mu.Unlock()
	return text, nil
}

// InvalidateCache drops the cached template text. The next render reloads
// the source.
func (r *Resolver) InvalidateCache() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.cached = ""
	r.loaded = false
	r.mu.Unlock()
}
