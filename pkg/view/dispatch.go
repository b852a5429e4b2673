package view

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/go-surface/surface/pkg/dom"
	"github.com/go-surface/surface/pkg/errors"
)

// Binder binds declarative event handlers in a freshly rendered subtree and
// unbinds them symmetrically. The concrete mechanism (attribute scanning
// here) is an implementation detail behind this contract.
type Binder interface {
	Bind(root *dom.Element)
	Unbind()
}

// ActionFunc handles a declarative action dispatched from the DOM.
type ActionFunc func(ev *dom.Event, el *dom.Element) error

// ActionEvent is the payload emitted as "action:<name>" when no handler is
// registered or discovered for an action.
type ActionEvent struct {
	Action  string
	Event   *dom.Event
	Element *dom.Element
}

// dispatcher scans rendered markup for data-action and navigation markers
// and wires native DOM listeners to the owning node. Every binding is
// recorded so a re-render can unbind the replaced subtree's listeners before
// binding the new one.
type dispatcher struct {
	view  *View
	bound []*dom.Listener
}

func (d *dispatcher) Bind(root *dom.Element) {
	if root == nil {
		return
	}
	// One pruned pass: a descendant carrying a Component back-reference is
	// another node's root, and that node binds its own subtree. The switch
	// order keeps action and navigation roles mutually exclusive per
	// element, with data-action winning.
	var actions, navs []*dom.Element
	root.WalkPrune(func(el *dom.Element) bool {
		if el != root && el.Component != nil {
			return false
		}
		if el.Type != dom.ElementNode {
			return true
		}
		switch {
		case el.HasAttr("data-action"):
			actions = append(actions, el)
		case el.HasAttr("data-page"):
			navs = append(navs, el)
		case el.Tag == "a" && el.HasAttr("href"):
			navs = append(navs, el)
		}
		return true
	})

	for _, el := range actions {
		el := el
		name := el.AttrValue("data-action")
		eventType := "click"
		if el.Tag == "form" {
			eventType = "submit"
		}
		d.record(el.AddEventListener(eventType, func(ev *dom.Event) {
			d.view.dispatchAction(name, ev, el)
		}))
	}

	for _, el := range navs {
		el := el
		d.record(el.AddEventListener("click", func(ev *dom.Event) {
			d.view.dispatchNavigation(ev, el)
		}))
	}
}

func (d *dispatcher) record(l *dom.Listener) {
	d.bound = append(d.bound, l)
}

func (d *dispatcher) Unbind() {
	for _, l := range d.bound {
		l.Element().RemoveEventListener(l)
	}
	d.bound = nil
}

// dispatchAction routes a data-action trigger to, in order: an explicitly
// registered handler, a reflected OnAction<Name> method on the concrete
// component, or an emitted "action:<name>" event. Handler failures are
// contained: reported, surfaced through the notifier, and never allowed to
// crash the tree.
func (v *View) dispatchAction(name string, ev *dom.Event, el *dom.Element) {
	defer func() {
		if r := recover(); r != nil {
			errors.ReportPanic(&errors.PanicError{
				Op:         "view.dispatchAction",
				Node:       v.id,
				Value:      r,
				StackTrace: errors.CaptureStack(),
			})
			v.notify().ShowError("Action failed: " + name)
		}
	}()

	// Intercept form submission; the action replaces the native submit.
	if ev.Type == "submit" {
		ev.PreventDefault()
	}

	var err error
	if fn := v.actionHandler(name); fn != nil {
		err = fn(ev, el)
	} else if m := v.actionMethod(name); m.IsValid() {
		err = callActionMethod(m, ev, el)
	} else {
		v.Emit("action:"+name, ActionEvent{Action: name, Event: ev, Element: el})
		return
	}

	if err != nil {
		errors.Report(errors.New("view.dispatchAction", errors.KindAction, v.id, err))
		v.notify().ShowError("Action failed: " + name)
	}
}

func (v *View) actionHandler(name string) ActionFunc {
	v.childMu.Lock()
	defer v.childMu.Unlock()
	return v.actions[name]
}

// actionMethod looks up OnAction<Name> on the concrete component, so for
// data-action="save" a method OnActionSave(ev, el) is discovered without
// explicit registration.
func (v *View) actionMethod(name string) reflect.Value {
	if v.self == nil {
		return reflect.Value{}
	}
	m := reflect.ValueOf(v.self).MethodByName("OnAction" + actionMethodSuffix(name))
	if !m.IsValid() {
		return reflect.Value{}
	}
	t := m.Type()
	if t.NumIn() != 2 ||
		t.In(0) != reflect.TypeOf((*dom.Event)(nil)) ||
		t.In(1) != reflect.TypeOf((*dom.Element)(nil)) {
		return reflect.Value{}
	}
	if t.NumOut() > 1 {
		return reflect.Value{}
	}
	if t.NumOut() == 1 && t.Out(0) != reflect.TypeOf((*error)(nil)).Elem() {
		return reflect.Value{}
	}
	return m
}

func callActionMethod(m reflect.Value, ev *dom.Event, el *dom.Element) error {
	out := m.Call([]reflect.Value{reflect.ValueOf(ev), reflect.ValueOf(el)})
	if len(out) == 1 && !out[0].IsNil() {
		return out[0].Interface().(error)
	}
	return nil
}

// actionMethodSuffix maps an action name to its method suffix:
// "save" -> "Save", "save-draft" -> "SaveDraft".
func actionMethodSuffix(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || r == ':'
	})
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(strings.ToUpper(p[:1]))
		sb.WriteString(p[1:])
	}
	return sb.String()
}

// dispatchNavigation intercepts clicks on data-page elements and internal
// anchors, redirecting them through the injected navigator. Modified and
// middle clicks, external links and opted-out elements keep their default
// browser behavior.
func (v *View) dispatchNavigation(ev *dom.Event, el *dom.Element) {
	if ev.CtrlKey || ev.MetaKey || ev.ShiftKey || ev.Button == 1 {
		return
	}

	page, hasPage := el.Attr("data-page")
	href := el.AttrValue("href")
	if !hasPage {
		if el.HasAttr("data-native") || isExternalLink(href) {
			return
		}
	}

	nav := v.navigatorOrNil()
	if nav == nil {
		errors.Warnf("view.dispatchNavigation", v.id,
			"no navigator configured, falling back to default navigation")
		return
	}

	ev.PreventDefault()

	var err error
	if hasPage {
		// data-page takes precedence over href when both are present.
		err = nav.NavigateToPage(page, parseDataParams(v.id, el))
	} else {
		err = nav.Navigate(href)
	}
	if err != nil {
		errors.Report(errors.New("view.dispatchNavigation", errors.KindNavigation, v.id, err))
		v.notify().ShowError("Navigation failed")
	}
}

// parseDataParams reads the optional data-params JSON attribute. Malformed
// JSON is tolerated: logged, with params defaulting to empty.
func parseDataParams(node string, el *dom.Element) map[string]any {
	raw, ok := el.Attr("data-params")
	if !ok || raw == "" {
		return map[string]any{}
	}
	params := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		errors.Warnf("view.dispatchNavigation", node, "malformed data-params %q: %v", raw, err)
		return map[string]any{}
	}
	return params
}

// isExternalLink reports whether an href must keep default browser behavior.
// Only a bare "#" is exempt among fragment links; "#section" still routes
// through the navigator.
func isExternalLink(href string) bool {
	if href == "" || href == "#" {
		return true
	}
	return strings.HasPrefix(href, "http://") ||
		strings.HasPrefix(href, "https://") ||
		strings.HasPrefix(href, "//") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:")
}
