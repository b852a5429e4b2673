package dom

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAppendChild_SetsParent(t *testing.T) {
	parent := NewElement("div")
	child := NewElement("span")

	parent.AppendChild(child)

	if child.Parent() != parent {
		t.Error("expected child parent to be set")
	}
	if got := parent.Children(); len(got) != 1 || got[0] != child {
		t.Errorf("expected [child], got %v", got)
	}
}

func TestAppendChild_ReparentsFromOldParent(t *testing.T) {
	a := NewElement("div")
	b := NewElement("div")
	child := NewElement("span")

	a.AppendChild(child)
	b.AppendChild(child)

	if len(a.Children()) != 0 {
		t.Error("expected child to be detached from old parent")
	}
	if child.Parent() != b {
		t.Error("expected child to be reparented")
	}
}

func TestRemove_Detaches(t *testing.T) {
	parent := NewElement("div")
	child := NewElement("span")
	parent.AppendChild(child)

	child.Remove()

	if child.Parent() != nil {
		t.Error("expected nil parent after Remove")
	}
	if len(parent.Children()) != 0 {
		t.Error("expected empty child list after Remove")
	}
}

func TestAttached(t *testing.T) {
	doc := NewDocument()
	container := NewElement("div")
	leaf := NewElement("span")
	container.AppendChild(leaf)

	if container.Attached() {
		t.Error("detached subtree should not report attached")
	}

	doc.AppendChild(container)

	if !container.Attached() {
		t.Error("expected container attached after appending to document")
	}
	if !leaf.Attached() {
		t.Error("expected descendant attached through parent chain")
	}

	container.Remove()
	if leaf.Attached() {
		t.Error("expected detached after removal from document")
	}
}

func TestContains(t *testing.T) {
	root := NewElement("div")
	mid := NewElement("ul")
	leaf := NewElement("li")
	root.AppendChild(mid)
	mid.AppendChild(leaf)

	if !root.Contains(leaf) {
		t.Error("expected root to contain leaf")
	}
	if !root.Contains(root) {
		t.Error("expected element to contain itself")
	}
	if leaf.Contains(root) {
		t.Error("leaf should not contain its ancestor")
	}
}

func TestAttrs(t *testing.T) {
	el := NewElement("button", Attr{Key: "class", Val: "primary"})
	el.SetAttr("data-action", "save")
	el.SetAttr("class", "secondary")

	if got := el.AttrValue("class"); got != "secondary" {
		t.Errorf("expected updated class, got %q", got)
	}
	want := []Attr{{Key: "class", Val: "secondary"}, {Key: "data-action", Val: "save"}}
	if diff := cmp.Diff(want, el.Attrs()); diff != "" {
		t.Errorf("attrs mismatch (-want +got):\n%s", diff)
	}

	el.RemoveAttr("class")
	if el.HasAttr("class") {
		t.Error("expected class removed")
	}
}

func TestSetInnerHTML_ParsesFragment(t *testing.T) {
	el := NewElement("div")
	if err := el.SetInnerHTML(`<span class="x">hello</span><button data-action="save">Go</button>`); err != nil {
		t.Fatalf("SetInnerHTML: %v", err)
	}

	kids := el.Children()
	if len(kids) != 2 {
		t.Fatalf("expected 2 children, got %d", len(kids))
	}
	if kids[0].Tag != "span" || kids[0].Text() != "hello" {
		t.Errorf("unexpected first child: %s %q", kids[0].Tag, kids[0].Text())
	}
	if got := kids[1].AttrValue("data-action"); got != "save" {
		t.Errorf("expected data-action attr, got %q", got)
	}
}

func TestSetInnerHTML_ReplacesPreviousChildren(t *testing.T) {
	el := NewElement("div")
	old := NewElement("p")
	el.AppendChild(old)

	if err := el.SetInnerHTML("<span>new</span>"); err != nil {
		t.Fatalf("SetInnerHTML: %v", err)
	}

	if old.Parent() != nil {
		t.Error("expected old child detached")
	}
	if got := el.Children(); len(got) != 1 || got[0].Tag != "span" {
		t.Errorf("expected single span child, got %v", got)
	}
}

func TestSetInnerHTML_TableContext(t *testing.T) {
	table := NewElement("table")
	if err := table.SetInnerHTML("<tr><td>cell</td></tr>"); err != nil {
		t.Fatalf("SetInnerHTML: %v", err)
	}
	if len(table.QueryTag("td")) != 1 {
		t.Errorf("expected table row to survive fragment parsing, got %q", table.InnerHTML())
	}
}

func TestInnerHTML_Roundtrip(t *testing.T) {
	el := NewElement("div")
	if err := el.SetInnerHTML(`<a href="/home">Home</a><br><img src="x.png">`); err != nil {
		t.Fatalf("SetInnerHTML: %v", err)
	}

	got := el.InnerHTML()
	if !strings.Contains(got, `<a href="/home">Home</a>`) {
		t.Errorf("anchor not preserved: %q", got)
	}
	if strings.Contains(got, "</br>") || strings.Contains(got, "</img>") {
		t.Errorf("void elements must not be closed: %q", got)
	}
}

func TestSerialize_EscapesText(t *testing.T) {
	el := NewElement("span")
	el.AppendChild(NewText(`<b>&"`))

	if got := el.OuterHTML(); strings.Contains(got, "<b>") {
		t.Errorf("text content must be escaped, got %q", got)
	}
}

func TestQueryAttr_DocumentOrder(t *testing.T) {
	el := NewElement("div")
	if err := el.SetInnerHTML(`<button data-action="a">1</button><div><button data-action="b">2</button></div>`); err != nil {
		t.Fatalf("SetInnerHTML: %v", err)
	}

	got := el.QueryAttr("data-action")
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].AttrValue("data-action") != "a" || got[1].AttrValue("data-action") != "b" {
		t.Error("expected document order a, b")
	}
}

func TestWalkPrune_SkipsSubtreeOnly(t *testing.T) {
	el := NewElement("div")
	if err := el.SetInnerHTML(`<nav><a href="/x">skip me</a></nav><a href="/y">keep</a>`); err != nil {
		t.Fatalf("SetInnerHTML: %v", err)
	}

	var tags []string
	el.WalkPrune(func(n *Element) bool {
		if n.Tag == "nav" {
			return false
		}
		if n.Type == ElementNode {
			tags = append(tags, n.Tag)
		}
		return true
	})

	want := []string{"div", "a"}
	if diff := cmp.Diff(want, tags); diff != "" {
		t.Errorf("pruned walk mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatch_InvokesListener(t *testing.T) {
	el := NewElement("button")
	var calls int
	el.AddEventListener("click", func(ev *Event) { calls++ })

	el.Dispatch(NewEvent("click"))
	el.Dispatch(NewEvent("click"))

	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestDispatch_RemovedListenerNotInvoked(t *testing.T) {
	el := NewElement("button")
	var calls int
	l := el.AddEventListener("click", func(ev *Event) { calls++ })
	el.RemoveEventListener(l)

	el.Dispatch(NewEvent("click"))

	if calls != 0 {
		t.Errorf("expected removed listener not to fire, got %d calls", calls)
	}
}

func TestDispatch_BubblesToAncestors(t *testing.T) {
	parent := NewElement("div")
	child := NewElement("button")
	parent.AppendChild(child)

	var order []string
	child.AddEventListener("click", func(ev *Event) {
		order = append(order, "child")
		if ev.CurrentTarget != child {
			t.Error("expected CurrentTarget child")
		}
	})
	parent.AddEventListener("click", func(ev *Event) {
		order = append(order, "parent")
		if ev.Target != child {
			t.Error("expected Target to stay the dispatch origin")
		}
	})

	child.Dispatch(NewEvent("click"))

	if diff := cmp.Diff([]string{"child", "parent"}, order); diff != "" {
		t.Errorf("bubble order mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatch_StopPropagation(t *testing.T) {
	parent := NewElement("div")
	child := NewElement("button")
	parent.AppendChild(child)

	var parentCalled bool
	child.AddEventListener("click", func(ev *Event) { ev.StopPropagation() })
	parent.AddEventListener("click", func(ev *Event) { parentCalled = true })

	child.Dispatch(NewEvent("click"))

	if parentCalled {
		t.Error("expected propagation stopped before parent")
	}
}

func TestDispatch_PreventDefault(t *testing.T) {
	el := NewElement("a")
	el.AddEventListener("click", func(ev *Event) { ev.PreventDefault() })

	if el.Dispatch(NewEvent("click")) {
		t.Error("expected Dispatch to report cancelled default")
	}
	if el.Dispatch(NewEvent("mouseover")) == false {
		t.Error("expected untouched event to keep its default")
	}
}
