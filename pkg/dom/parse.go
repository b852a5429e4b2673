package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// voidElements render without a closing tag and never have children.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// SetInnerHTML parses markup as an HTML fragment and replaces the element's
// children with the result. The previous children are detached.
func (e *Element) SetInnerHTML(markup string) error {
	parsed, err := parseFragment(markup, e.Tag)
	if err != nil {
		return fmt.Errorf("dom: parse fragment: %w", err)
	}
	treeMu.Lock()
	defer treeMu.Unlock()
	e.removeChildrenLocked()
	for _, c := range parsed {
		c.parent = e
		e.children = append(e.children, c)
	}
	return nil
}

// parseFragment parses markup in the context of the given parent tag, so
// context-sensitive content (table rows, list items, options) parses the way
// a browser would parse it.
func parseFragment(markup, contextTag string) ([]*Element, error) {
	tag := contextTag
	if tag == "" || strings.HasPrefix(tag, "#") {
		tag = "div"
	}
	ctxNode := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctxNode)
	if err != nil {
		return nil, err
	}
	var out []*Element
	for _, n := range nodes {
		if el := fromHTMLNode(n); el != nil {
			out = append(out, el)
		}
	}
	return out, nil
}

// fromHTMLNode converts a parsed html.Node subtree into dom elements.
// Comments and doctypes are dropped.
func fromHTMLNode(n *html.Node) *Element {
	switch n.Type {
	case html.TextNode:
		return &Element{Type: TextNode, Tag: "#text", Data: n.Data}
	case html.ElementNode:
		el := &Element{Type: ElementNode, Tag: strings.ToLower(n.Data)}
		for _, a := range n.Attr {
			el.attrs = append(el.attrs, Attr{Key: a.Key, Val: a.Val})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := fromHTMLNode(c); child != nil {
				child.parent = el
				el.children = append(el.children, child)
			}
		}
		return el
	default:
		return nil
	}
}

// InnerHTML serializes the element's children back to markup.
func (e *Element) InnerHTML() string {
	var sb strings.Builder
	treeMu.RLock()
	defer treeMu.RUnlock()
	for _, c := range e.children {
		c.serialize(&sb)
	}
	return sb.String()
}

// OuterHTML serializes the element including its own tag.
func (e *Element) OuterHTML() string {
	var sb strings.Builder
	treeMu.RLock()
	defer treeMu.RUnlock()
	e.serialize(&sb)
	return sb.String()
}

func (e *Element) serialize(sb *strings.Builder) {
	switch e.Type {
	case TextNode:
		sb.WriteString(html.EscapeString(e.Data))
	case DocumentNode:
		for _, c := range e.children {
			c.serialize(sb)
		}
	case ElementNode:
		sb.WriteByte('<')
		sb.WriteString(e.Tag)
		for _, a := range e.attrs {
			sb.WriteByte(' ')
			sb.WriteString(a.Key)
			sb.WriteString(`="`)
			sb.WriteString(html.EscapeString(a.Val))
			sb.WriteByte('"')
		}
		sb.WriteByte('>')
		if voidElements[e.Tag] {
			return
		}
		for _, c := range e.children {
			c.serialize(sb)
		}
		sb.WriteString("</")
		sb.WriteString(e.Tag)
		sb.WriteByte('>')
	}
}
