// Package surface ties the runtime together: a document, a root component
// node, a router and a notifier, wired so pages and components can navigate
// and report to the user without manual plumbing.
package surface

import (
	"context"

	"github.com/go-surface/surface/pkg/dom"
	"github.com/go-surface/surface/pkg/navigation"
	"github.com/go-surface/surface/pkg/notify"
	"github.com/go-surface/surface/pkg/view"
)

// App hosts a component tree inside a document.
type App struct {
	// Document is the document root the tree mounts under.
	Document *dom.Element
	// Body is the mount container for Root.
	Body *dom.Element
	// Root is the root component node.
	Root *view.View
	// Router handles navigation; optional.
	Router *navigation.Router
	// Notifier surfaces errors to the user; defaults to logging.
	Notifier notify.Notifier
}

// NewApp builds an app around a root node, creating a fresh document with a
// body container.
func NewApp(root *view.View) *App {
	doc := dom.NewDocument()
	body := dom.NewElement("body")
	doc.AppendChild(body)
	return &App{
		Document: doc,
		Body:     body,
		Root:     root,
		Notifier: notify.LogNotifier{},
	}
}

// Run renders and mounts the root node into the document body.
func (a *App) Run(ctx context.Context) error {
	a.Root.SetContainer(a.Body)
	return a.Root.Mount(ctx)
}

// Shutdown tears the component tree down.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Root.Destroy(ctx)
}
