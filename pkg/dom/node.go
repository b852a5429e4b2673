// Package dom implements the retained document model the Surface runtime
// renders into.
//
// The model is deliberately small: a single Element type represents document
// roots, elements and text nodes, mirroring the node structure produced by
// parsing HTML fragments. Structural mutations across the tree are guarded by
// a package-level lock so sibling subtrees can be rendered concurrently;
// event listeners are invoked without the lock held.
package dom

import (
	"strings"
	"sync"
)

// NodeType identifies what an Element node represents.
type NodeType int

const (
	// ElementNode is a regular element with a tag, attributes and children.
	ElementNode NodeType = iota
	// TextNode holds character data in its Data field.
	TextNode
	// DocumentNode is a tree root. An element is attached when walking its
	// parents reaches a DocumentNode.
	DocumentNode
)

// Attr is a single element attribute. Order is preserved.
type Attr struct {
	Key string
	Val string
}

// treeMu guards structural mutations (parent/child links) and parent-chain
// walks for all trees in the process. Listener invocation never holds it.
var treeMu sync.RWMutex

// Element is a node in the retained document tree.
type Element struct {
	// Type discriminates document roots, elements and text nodes.
	Type NodeType
	// Tag is the lowercase tag name for ElementNode nodes.
	Tag string
	// Data is the character data for TextNode nodes.
	Data string

	// Component is an opaque back-reference to the component node that owns
	// this element as its root, if any.
	Component any

	attrs     []Attr
	parent    *Element
	children  []*Element
	listeners map[string][]*Listener
}

// NewDocument creates a document root. Elements appended under it (at any
// depth) report Attached() == true.
func NewDocument() *Element {
	return &Element{Type: DocumentNode, Tag: "#document"}
}

// NewElement creates a detached element with the given tag and attributes.
func NewElement(tag string, attrs ...Attr) *Element {
	return &Element{Type: ElementNode, Tag: strings.ToLower(tag), attrs: attrs}
}

// NewText creates a detached text node.
func NewText(data string) *Element {
	return &Element{Type: TextNode, Tag: "#text", Data: data}
}

// Parent returns the parent node, or nil for a detached or root node.
func (e *Element) Parent() *Element {
	treeMu.RLock()
	defer treeMu.RUnlock()
	return e.parent
}

// Children returns a copy of the ordered child list.
func (e *Element) Children() []*Element {
	treeMu.RLock()
	defer treeMu.RUnlock()
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

// FirstChild returns the first child, or nil.
func (e *Element) FirstChild() *Element {
	treeMu.RLock()
	defer treeMu.RUnlock()
	if len(e.children) == 0 {
		return nil
	}
	return e.children[0]
}

// AppendChild appends c as the last child, detaching it from any previous
// parent first.
func (e *Element) AppendChild(c *Element) {
	if c == nil || c == e {
		return
	}
	treeMu.Lock()
	defer treeMu.Unlock()
	c.detachLocked()
	c.parent = e
	e.children = append(e.children, c)
}

// Remove detaches the element from its parent. No-op for detached nodes.
func (e *Element) Remove() {
	treeMu.Lock()
	defer treeMu.Unlock()
	e.detachLocked()
}

// RemoveChildren detaches all children.
func (e *Element) RemoveChildren() {
	treeMu.Lock()
	defer treeMu.Unlock()
	e.removeChildrenLocked()
}

func (e *Element) removeChildrenLocked() {
	for _, c := range e.children {
		c.parent = nil
	}
	e.children = nil
}

func (e *Element) detachLocked() {
	p := e.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == e {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	e.parent = nil
}

// Attached reports whether the element is part of a tree rooted at a
// DocumentNode.
func (e *Element) Attached() bool {
	treeMu.RLock()
	defer treeMu.RUnlock()
	for n := e; n != nil; n = n.parent {
		if n.Type == DocumentNode {
			return true
		}
	}
	return false
}

// Contains reports whether desc is e or a descendant of e.
func (e *Element) Contains(desc *Element) bool {
	treeMu.RLock()
	defer treeMu.RUnlock()
	for n := desc; n != nil; n = n.parent {
		if n == e {
			return true
		}
	}
	return false
}

// Attr returns the value of the named attribute and whether it is present.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// AttrValue returns the value of the named attribute, or "" when absent.
func (e *Element) AttrValue(key string) string {
	v, _ := e.Attr(key)
	return v
}

// HasAttr reports whether the named attribute is present.
func (e *Element) HasAttr(key string) bool {
	_, ok := e.Attr(key)
	return ok
}

// SetAttr sets or replaces the named attribute, preserving attribute order.
func (e *Element) SetAttr(key, val string) {
	for i, a := range e.attrs {
		if a.Key == key {
			e.attrs[i].Val = val
			return
		}
	}
	e.attrs = append(e.attrs, Attr{Key: key, Val: val})
}

// RemoveAttr deletes the named attribute if present.
func (e *Element) RemoveAttr(key string) {
	for i, a := range e.attrs {
		if a.Key == key {
			e.attrs = append(e.attrs[:i], e.attrs[i+1:]...)
			return
		}
	}
}

// Attrs returns a copy of the ordered attribute list.
func (e *Element) Attrs() []Attr {
	out := make([]Attr, len(e.attrs))
	copy(out, e.attrs)
	return out
}
