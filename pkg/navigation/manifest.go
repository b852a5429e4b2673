package navigation

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the optional declarative page table, typically loaded from a
// pages.yaml next to the application:
//
//	pages:
//	  - name: home
//	    path: /
//	    title: Home
//	  - name: product
//	    path: /products/:id
//	    template: /templates/product.html
type Manifest struct {
	Pages []PageDef `yaml:"pages"`
}

// PageDef declares a single navigable page.
type PageDef struct {
	// Name is the page registry key used by NavigateToPage.
	Name string `yaml:"name"`
	// Path is the route pattern for the page.
	Path string `yaml:"path"`
	// Title is an optional display title.
	Title string `yaml:"title,omitempty"`
	// Template is an optional template source (literal markup or URL)
	// for the page component.
	Template string `yaml:"template,omitempty"`
}

// LoadManifest parses a page manifest from r.
func LoadManifest(r io.Reader) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("navigation: read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("navigation: parse manifest: %w", err)
	}
	for i, p := range m.Pages {
		if p.Name == "" {
			return nil, fmt.Errorf("navigation: manifest page %d: missing name", i)
		}
		if p.Path == "" {
			return nil, fmt.Errorf("navigation: manifest page %q: missing path", p.Name)
		}
	}
	return &m, nil
}

// LoadManifestFile parses a page manifest from disk.
func LoadManifestFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("navigation: open manifest: %w", err)
	}
	defer f.Close()
	return LoadManifest(f)
}

// RegisterPages adds every manifest page as a named route. The activate
// callback receives the page definition alongside the resolved settings.
func (r *Router) RegisterPages(m *Manifest, activate func(page PageDef, settings RouteSettings) error) {
	for _, page := range m.Pages {
		p := page
		var handler Handler
		if activate != nil {
			handler = func(settings RouteSettings) error {
				return activate(p, settings)
			}
		}
		r.Register(Route{Path: p.Path, Name: p.Name, Handler: handler})
	}
}
