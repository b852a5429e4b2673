package view

import (
	"sync"

	"github.com/go-surface/surface/pkg/errors"
)

// EventFunc handles an application-level event emitted on a node.
type EventFunc func(data any)

type subscription struct {
	event   string
	fn      EventFunc
	once    bool
	removed bool
}

// emitter is the per-instance event bus. Listener invocation is synchronous
// and in registration order; each callback's panics are contained
// individually so one faulty subscriber never starves the rest.
type emitter struct {
	node string

	mu        sync.Mutex
	listeners map[string][]*subscription
}

func (e *emitter) on(event string, fn EventFunc, once bool) func() {
	sub := &subscription{event: event, fn: fn, once: once}
	e.mu.Lock()
	if e.listeners == nil {
		e.listeners = make(map[string][]*subscription)
	}
	e.listeners[event] = append(e.listeners[event], sub)
	e.mu.Unlock()

	return func() { e.remove(sub) }
}

func (e *emitter) remove(sub *subscription) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if sub.removed {
		return
	}
	sub.removed = true
	list := e.listeners[sub.event]
	for i, cur := range list {
		if cur == sub {
			e.listeners[sub.event] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

func (e *emitter) off(event string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, sub := range e.listeners[event] {
		sub.removed = true
	}
	delete(e.listeners, event)
}

func (e *emitter) emit(event string, data any) {
	e.mu.Lock()
	list := e.listeners[event]
	snapshot := make([]*subscription, 0, len(list))
	for _, sub := range list {
		snapshot = append(snapshot, sub)
	}
	e.mu.Unlock()

	for _, sub := range snapshot {
		e.mu.Lock()
		skip := sub.removed
		e.mu.Unlock()
		if skip {
			continue
		}
		if sub.once {
			e.remove(sub)
		}
		e.invoke(event, sub, data)
	}
}

// invoke runs a single subscriber with panic containment.
func (e *emitter) invoke(event string, sub *subscription, data any) {
	defer func() {
		if r := recover(); r != nil {
			errors.Report(errors.Newf("view.Emit", errors.KindListener, e.node,
				"listener for %q panicked: %v", event, r))
		}
	}()
	sub.fn(data)
}

// clear drops every subscription, for node destruction.
func (e *emitter) clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, list := range e.listeners {
		for _, sub := range list {
			sub.removed = true
		}
	}
	e.listeners = nil
}
