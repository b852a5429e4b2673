package dom

// Event is a synthetic DOM event dispatched through the element tree.
//
// Events bubble from the target to the document root unless a listener calls
// StopPropagation. Listeners run synchronously in registration order.
type Event struct {
	// Type is the event name, e.g. "click" or "submit".
	Type string
	// Target is the element the event was dispatched on.
	Target *Element
	// CurrentTarget is the element whose listener is currently running.
	CurrentTarget *Element

	// Mouse modifiers, used by navigation interception to preserve default
	// browser behavior for modified clicks.
	CtrlKey  bool
	MetaKey  bool
	ShiftKey bool
	// Button is the mouse button: 0 primary, 1 middle, 2 secondary.
	Button int

	defaultPrevented bool
	stopped          bool
}

// NewEvent creates an event of the given type.
func NewEvent(typ string) *Event {
	return &Event{Type: typ}
}

// PreventDefault marks the event's default behavior as cancelled.
func (ev *Event) PreventDefault() { ev.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (ev *Event) DefaultPrevented() bool { return ev.defaultPrevented }

// StopPropagation stops the event from bubbling to ancestor elements.
func (ev *Event) StopPropagation() { ev.stopped = true }

// ListenerFunc handles a dispatched event.
type ListenerFunc func(*Event)

// Listener is a registered event listener. It is the handle used for
// symmetric removal, since Go function values are not comparable.
type Listener struct {
	// Type is the event name the listener was registered for.
	Type string
	fn   ListenerFunc
	el   *Element
}

// Element returns the element the listener is bound to.
func (l *Listener) Element() *Element { return l.el }

// AddEventListener registers fn for events of the given type and returns the
// removal handle.
func (e *Element) AddEventListener(typ string, fn ListenerFunc) *Listener {
	l := &Listener{Type: typ, fn: fn, el: e}
	treeMu.Lock()
	defer treeMu.Unlock()
	if e.listeners == nil {
		e.listeners = make(map[string][]*Listener)
	}
	e.listeners[typ] = append(e.listeners[typ], l)
	return l
}

// RemoveEventListener unregisters a listener previously returned by
// AddEventListener. Removing a listener twice is a no-op.
func (e *Element) RemoveEventListener(l *Listener) {
	if l == nil || l.el != e {
		return
	}
	treeMu.Lock()
	defer treeMu.Unlock()
	list := e.listeners[l.Type]
	for i, cur := range list {
		if cur == l {
			e.listeners[l.Type] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// ListenerCount returns the number of listeners registered for an event type.
func (e *Element) ListenerCount(typ string) int {
	treeMu.RLock()
	defer treeMu.RUnlock()
	return len(e.listeners[typ])
}

// Dispatch delivers the event to listeners on the element and then bubbles it
// up the parent chain. It reports whether the default behavior survives, i.e.
// no listener called PreventDefault.
func (e *Element) Dispatch(ev *Event) bool {
	ev.Target = e

	// Snapshot the bubble path and per-element listener lists up front so
	// listeners may mutate the tree while the event is in flight.
	type hop struct {
		el        *Element
		listeners []*Listener
	}
	var path []hop
	treeMu.RLock()
	for n := e; n != nil; n = n.parent {
		list := n.listeners[ev.Type]
		if len(list) > 0 {
			snapshot := make([]*Listener, len(list))
			copy(snapshot, list)
			path = append(path, hop{el: n, listeners: snapshot})
		}
	}
	treeMu.RUnlock()

	for _, h := range path {
		ev.CurrentTarget = h.el
		for _, l := range h.listeners {
			l.fn(ev)
		}
		if ev.stopped {
			break
		}
	}
	return !ev.defaultPrevented
}
