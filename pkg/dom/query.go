package dom

import "strings"

// Walk visits the element and all descendants depth-first in document order.
// The visitor returns false to stop the walk.
func (e *Element) Walk(visit func(*Element) bool) {
	e.walk(visit)
}

func (e *Element) walk(visit func(*Element) bool) bool {
	if !visit(e) {
		return false
	}
	for _, c := range e.Children() {
		if !c.walk(visit) {
			return false
		}
	}
	return true
}

// WalkPrune visits like Walk, but a false return from the visitor skips the
// element's descendants and continues with its siblings instead of ending
// the walk.
func (e *Element) WalkPrune(visit func(*Element) bool) {
	if !visit(e) {
		return
	}
	for _, c := range e.Children() {
		c.WalkPrune(visit)
	}
}

// QueryAttr returns all descendant elements (and the element itself) carrying
// the named attribute, in document order.
func (e *Element) QueryAttr(key string) []*Element {
	var out []*Element
	e.Walk(func(n *Element) bool {
		if n.Type == ElementNode && n.HasAttr(key) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// QueryTag returns all descendant elements (and the element itself) with the
// given tag, in document order.
func (e *Element) QueryTag(tag string) []*Element {
	tag = strings.ToLower(tag)
	var out []*Element
	e.Walk(func(n *Element) bool {
		if n.Type == ElementNode && n.Tag == tag {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Text returns the concatenated character data of the subtree.
func (e *Element) Text() string {
	var sb strings.Builder
	e.Walk(func(n *Element) bool {
		if n.Type == TextNode {
			sb.WriteString(n.Data)
		}
		return true
	})
	return sb.String()
}
