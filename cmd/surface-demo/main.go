// Command surface-demo runs a small component tree headlessly: it loads a
// page manifest, registers routes that swap page components in and out of
// the document body, walks through a few navigations and prints the
// resulting markup. It exists to exercise the runtime end to end and as a
// copyable starting point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/go-surface/surface/pkg/navigation"
	"github.com/go-surface/surface/pkg/surface"
	"github.com/go-surface/surface/pkg/view"
)

const defaultManifest = `
pages:
  - name: home
    path: /
    title: Home
    template: "<h1>Home</h1><a data-page=\"product\" data-params='{\"id\":\"42\"}' href=\"/products/42\">Featured</a>"
  - name: product
    path: /products/:id
    title: Product
    template: "<h1>Product {{id}}</h1><a href=\"/\">Back</a>"
`

func main() {
	manifestPath := flag.String("pages", "", "path to a pages.yaml manifest (built-in demo pages when empty)")
	flag.Parse()

	if err := run(*manifestPath); err != nil {
		fmt.Fprintln(os.Stderr, "surface-demo:", err)
		os.Exit(1)
	}
}

func run(manifestPath string) error {
	ctx := context.Background()

	manifest, err := loadManifest(manifestPath)
	if err != nil {
		return err
	}

	root, err := view.New(ctx, view.Config{ID: "app", Template: `<main></main>`})
	if err != nil {
		return err
	}
	app := surface.NewApp(root)

	router := navigation.NewRouter()
	app.Router = router
	router.RegisterPages(manifest, func(page navigation.PageDef, settings navigation.RouteSettings) error {
		return showPage(ctx, root, page, settings)
	})
	router.Unknown = func(settings navigation.RouteSettings) error {
		return showPage(ctx, root, navigation.PageDef{
			Name:     "not-found",
			Template: "<h1>Not found</h1>",
		}, settings)
	}

	if err := app.Run(ctx); err != nil {
		return err
	}

	for _, path := range []string{"/", "/products/42", "/nowhere"} {
		if err := router.Navigate(path); err != nil {
			return err
		}
		fmt.Printf("%-14s %s\n", path, strings.TrimSpace(root.Element().Text()))
	}
	fmt.Println("history:", router.History())

	return app.Shutdown(ctx)
}

func loadManifest(path string) (*navigation.Manifest, error) {
	if path != "" {
		return navigation.LoadManifestFile(path)
	}
	return navigation.LoadManifest(strings.NewReader(defaultManifest))
}

// showPage replaces the current page component under the root with one built
// from the page definition. Route params become the page's data, so a
// template like "Product {{id}}" picks them up directly.
func showPage(ctx context.Context, root *view.View, page navigation.PageDef, settings navigation.RouteSettings) error {
	data := map[string]any{"title": page.Title}
	for k, v := range settings.Params {
		data[k] = v
	}

	pageView, err := view.New(ctx, view.Config{
		ID:        "page-" + page.Name,
		Template:  pageTemplate(page),
		ClassName: "page",
		Data:      data,
	})
	if err != nil {
		return err
	}
	// AddChild under a fixed key destroys the previous page.
	if err := root.AddChild("page", pageView); err != nil {
		return err
	}
	pageView.SetContainer(root.Element())
	return pageView.Mount(ctx)
}

func pageTemplate(page navigation.PageDef) string {
	if page.Template != "" {
		return page.Template
	}
	return "<h1>{{title}}</h1>"
}
