package viewtest

import (
	"fmt"
	"strings"

	"github.com/go-surface/surface/pkg/dom"
)

// Finder locates elements in the rendered tree.
type Finder interface {
	// Evaluate returns all matching elements under root (depth-first pre-order).
	Evaluate(root *dom.Element) []*dom.Element
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	elements []*dom.Element
	finder   Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *dom.Element {
	if len(r.elements) == 0 {
		panic(fmt.Sprintf("viewtest: finder found no elements: %s", r.describe()))
	}
	return r.elements[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *dom.Element {
	if len(r.elements) == 0 {
		return nil
	}
	return r.elements[0]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []*dom.Element {
	return r.elements
}

// Count returns the number of matches.
func (r FinderResult) Count() int { return len(r.elements) }

func (r FinderResult) describe() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// ByTag finds elements by tag name.
func ByTag(tag string) Finder { return tagFinder(tag) }

type tagFinder string

func (f tagFinder) Evaluate(root *dom.Element) []*dom.Element {
	return root.QueryTag(string(f))
}

func (f tagFinder) Description() string { return fmt.Sprintf("tag %q", string(f)) }

// ByAttr finds elements carrying an attribute, optionally with an exact value.
func ByAttr(key string, value ...string) Finder {
	f := attrFinder{key: key}
	if len(value) > 0 {
		f.value = value[0]
		f.exact = true
	}
	return f
}

type attrFinder struct {
	key   string
	value string
	exact bool
}

func (f attrFinder) Evaluate(root *dom.Element) []*dom.Element {
	all := root.QueryAttr(f.key)
	if !f.exact {
		return all
	}
	var out []*dom.Element
	for _, el := range all {
		if el.AttrValue(f.key) == f.value {
			out = append(out, el)
		}
	}
	return out
}

func (f attrFinder) Description() string {
	if f.exact {
		return fmt.Sprintf("attribute %s=%q", f.key, f.value)
	}
	return fmt.Sprintf("attribute %s", f.key)
}

// ByAction finds elements declaring the given data-action.
func ByAction(name string) Finder { return ByAttr("data-action", name) }

// ByText finds elements whose text content contains the given substring.
func ByText(substr string) Finder { return textFinder(substr) }

type textFinder string

func (f textFinder) Evaluate(root *dom.Element) []*dom.Element {
	var out []*dom.Element
	root.Walk(func(el *dom.Element) bool {
		if el.Type == dom.ElementNode && strings.Contains(el.Text(), string(f)) {
			// Prefer the deepest elements containing the text; skip pure
			// containers whose match comes only from one child.
			leaf := true
			for _, c := range el.Children() {
				if c.Type == dom.ElementNode && strings.Contains(c.Text(), string(f)) {
					leaf = false
					break
				}
			}
			if leaf {
				out = append(out, el)
			}
		}
		return true
	})
	return out
}

func (f textFinder) Description() string { return fmt.Sprintf("text containing %q", string(f)) }
