// Package navigation provides routing for Surface applications.
//
// The component runtime consumes navigation through the [Navigator]
// interface; declarative navigation elements (data-page attributes and
// anchors) are routed to whichever Navigator the application injects into
// its component tree. This package also ships the standard implementation:
// a [Router] with pattern-based path matching, a named-page registry, a
// history stack and redirect hooks.
//
// Basic usage:
//
//	router := navigation.NewRouter(
//	    navigation.Route{Path: "/", Name: "home", Handler: showHome},
//	    navigation.Route{Path: "/products/:id", Name: "product", Handler: showProduct},
//	)
//	router.Navigate("/products/123")
//	router.NavigateToPage("product", map[string]any{"id": 456})
package navigation

// Navigator is the contract the component runtime dispatches navigation
// through. Absence of a navigator degrades to default browser behavior with
// a logged warning.
type Navigator interface {
	// Navigate resolves and activates the route matching path.
	Navigate(path string) error

	// NavigateToPage activates a named page, expanding params into its
	// path pattern. Params that are not path parameters become query
	// values.
	NavigateToPage(name string, params map[string]any) error
}
