package navigation

import (
	"sync"

	"github.com/go-surface/surface/pkg/errors"
)

// RouteSettings carries the resolved target of a navigation.
type RouteSettings struct {
	// Path is the full navigated path, including query.
	Path string
	// Name is the route's registered name, if any.
	Name string
	// Params contains path parameters extracted from the URL.
	Params map[string]string
	// Query contains parsed query string values.
	Query map[string][]string
	// Args contains arbitrary values passed by NavigateToPage.
	Args map[string]any
}

// Param returns a path parameter value or empty string if not found.
func (s RouteSettings) Param(key string) string {
	return s.Params[key]
}

// QueryValue returns the first query parameter value or empty string.
func (s RouteSettings) QueryValue(key string) string {
	if vals := s.Query[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// Handler activates a route, typically by mounting its page component.
type Handler func(settings RouteSettings) error

// RedirectContext describes a navigation being evaluated for redirect.
type RedirectContext struct {
	FromPath string
	ToPath   string
}

// RedirectResult is the outcome of a redirect callback. A zero value allows
// the navigation.
type RedirectResult struct {
	Path string
}

// NoRedirect allows the navigation to proceed.
func NoRedirect() RedirectResult { return RedirectResult{} }

// RedirectTo redirects the navigation to another path.
func RedirectTo(path string) RedirectResult { return RedirectResult{Path: path} }

// Route declares a navigable path.
type Route struct {
	// Path is the URL pattern. Use :param for parameters and *param for a
	// trailing wildcard.
	Path string
	// Name registers the route in the page registry for NavigateToPage.
	Name string
	// Handler activates the route.
	Handler Handler
	// Redirect is checked for this route after the router's global redirect.
	Redirect func(ctx RedirectContext) RedirectResult
}

type compiledRoute struct {
	route   Route
	pattern *PathPattern
}

// Router is the standard Navigator implementation: an ordered route table
// with a history stack, a named-page registry and redirect hooks.
//
// Router is safe for use from multiple goroutines. Route handlers are
// invoked without internal locks held, so they may navigate again.
type Router struct {
	// Unknown handles paths no route matches. If nil, unknown paths fail
	// with a navigation error.
	Unknown Handler
	// Redirect is the global redirect hook, checked before every navigation.
	Redirect func(ctx RedirectContext) RedirectResult

	mu      sync.Mutex
	routes  []*compiledRoute
	pages   map[string]*compiledRoute
	history []string
}

// maxRedirects bounds redirect chains so cyclic redirects fail loudly.
const maxRedirects = 5

// NewRouter creates a router with the given routes.
func NewRouter(routes ...Route) *Router {
	r := &Router{pages: make(map[string]*compiledRoute)}
	for _, route := range routes {
		r.Register(route)
	}
	return r
}

// Register adds a route to the table. Named routes also join the page
// registry; a duplicate name replaces the earlier registration.
func (r *Router) Register(route Route) {
	cr := &compiledRoute{route: route, pattern: NewPathPattern(route.Path)}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, cr)
	if route.Name != "" {
		r.pages[route.Name] = cr
	}
}

// Navigate resolves path through redirects, matches it against the route
// table, pushes it onto the history stack and invokes the route handler.
func (r *Router) Navigate(path string) error {
	return r.navigate(path, nil, true)
}

// Replace is Navigate without growing the history stack: the current entry
// is replaced.
func (r *Router) Replace(path string) error {
	return r.navigate(path, nil, false)
}

// NavigateToPage activates a named page. Params matching path parameters are
// substituted into the pattern; the rest become query values. The raw params
// are also passed through as handler Args.
func (r *Router) NavigateToPage(name string, params map[string]any) error {
	r.mu.Lock()
	cr, ok := r.pages[name]
	r.mu.Unlock()
	if !ok {
		return errors.Newf("navigation.NavigateToPage", errors.KindNavigation, "",
			"unknown page %q", name)
	}
	path, err := cr.pattern.Expand(params)
	if err != nil {
		return errors.New("navigation.NavigateToPage", errors.KindNavigation, "", err)
	}
	return r.navigate(path, params, true)
}

func (r *Router) navigate(path string, args map[string]any, push bool) error {
	const op = "navigation.Navigate"

	from := r.Current()
	for i := 0; ; i++ {
		if i > maxRedirects {
			return errors.Newf(op, errors.KindNavigation, "", "redirect loop at %q", path)
		}
		result := r.applyRedirect(RedirectContext{FromPath: from, ToPath: path})
		if result.Path == "" || result.Path == path {
			break
		}
		path = result.Path
	}

	cr, settings := r.match(path)
	settings.Args = args

	var handler Handler
	if cr != nil {
		handler = cr.route.Handler
	} else if r.Unknown != nil {
		handler = r.Unknown
	} else {
		return errors.Newf(op, errors.KindNavigation, "", "no route matches %q", path)
	}

	r.mu.Lock()
	if push || len(r.history) == 0 {
		r.history = append(r.history, path)
	} else {
		r.history[len(r.history)-1] = path
	}
	r.mu.Unlock()

	if handler == nil {
		return nil
	}
	return handler(settings)
}

func (r *Router) applyRedirect(ctx RedirectContext) RedirectResult {
	if r.Redirect != nil {
		if result := r.Redirect(ctx); result.Path != "" {
			return result
		}
	}
	if cr, _ := r.match(ctx.ToPath); cr != nil && cr.route.Redirect != nil {
		return cr.route.Redirect(ctx)
	}
	return NoRedirect()
}

func (r *Router) match(path string) (*compiledRoute, RouteSettings) {
	pathOnly, query := ParsePath(path)

	r.mu.Lock()
	routes := make([]*compiledRoute, len(r.routes))
	copy(routes, r.routes)
	r.mu.Unlock()

	for _, cr := range routes {
		if params, ok := cr.pattern.Match(pathOnly); ok {
			return cr, RouteSettings{
				Path:   path,
				Name:   cr.route.Name,
				Params: params,
				Query:  query,
			}
		}
	}
	return nil, RouteSettings{Path: path, Query: query}
}

// Back pops the history stack and re-activates the previous entry.
// It reports whether there was a previous entry to return to.
func (r *Router) Back() (bool, error) {
	r.mu.Lock()
	if len(r.history) < 2 {
		r.mu.Unlock()
		return false, nil
	}
	r.history = r.history[:len(r.history)-1]
	path := r.history[len(r.history)-1]
	r.mu.Unlock()

	cr, settings := r.match(path)
	if cr == nil || cr.route.Handler == nil {
		return true, nil
	}
	return true, cr.route.Handler(settings)
}

// Current returns the active path, or "" before the first navigation.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) == 0 {
		return ""
	}
	return r.history[len(r.history)-1]
}

// History returns a copy of the history stack, oldest first.
func (r *Router) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.history))
	copy(out, r.history)
	return out
}
