package surface_test

import (
	"context"
	"fmt"

	"github.com/go-surface/surface/pkg/dom"
	"github.com/go-surface/surface/pkg/navigation"
	"github.com/go-surface/surface/pkg/surface"
	"github.com/go-surface/surface/pkg/view"
)

// This example shows how to create and run a minimal application.
func ExampleNewApp() {
	root, err := view.New(context.Background(), view.Config{
		Template: "<h1>{{title}}</h1>",
		Data:     map[string]any{"title": "Hello, Surface!"},
	})
	if err != nil {
		panic(err)
	}

	app := surface.NewApp(root)
	if err := app.Run(context.Background()); err != nil {
		panic(err)
	}

	fmt.Println(root.Element().Text())
	// Output: Hello, Surface!
}

// This example shows a component handling a declarative action.
func ExampleApp_actions() {
	ctx := context.Background()
	counter, err := view.New(ctx, view.Config{
		Template: `<span>{{count}}</span><button data-action="increment">+</button>`,
		Data:     map[string]any{"count": 0},
	})
	if err != nil {
		panic(err)
	}
	counter.Action("increment", func(ev *dom.Event, el *dom.Element) error {
		count := counter.Data()["count"].(int)
		return counter.UpdateData(ctx, map[string]any{"count": count + 1}, false)
	})

	app := surface.NewApp(counter)
	if err := app.Run(ctx); err != nil {
		panic(err)
	}

	// A click on the button dispatches the registered action.
	button := counter.Element().QueryAttr("data-action")[0]
	button.Dispatch(dom.NewEvent("click"))

	fmt.Println(counter.Data()["count"])
	// Output: 1
}

// This example shows how pages declared in a router drive the tree.
func ExampleApp_routing() {
	router := navigation.NewRouter()
	router.Register(navigation.Route{
		Path: "/products/:id",
		Name: "product",
		Handler: func(rs navigation.RouteSettings) error {
			fmt.Println("showing product", rs.Param("id"))
			return nil
		},
	})

	if err := router.NavigateToPage("product", map[string]any{"id": "42"}); err != nil {
		panic(err)
	}
	// Output: showing product 42
}
