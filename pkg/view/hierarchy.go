package view

import (
	"context"

	"github.com/go-surface/surface/pkg/errors"
	"github.com/go-surface/surface/pkg/navigation"
	"github.com/go-surface/surface/pkg/notify"
)

// AddChild attaches the child under the given name, replacing and destroying
// any previous child registered under the same name. The child inherits this
// node's navigator and notifier unless it carries its own.
func (v *View) AddChild(name string, child *View) error {
	if child == nil {
		return errors.New("view.AddChild", errors.KindUnknown, v.id, errNilChild)
	}
	if child == v {
		return errors.New("view.AddChild", errors.KindUnknown, v.id, errSelfChild)
	}

	v.childMu.Lock()
	prev := v.children[name]
	if v.children == nil {
		v.children = make(map[string]*View)
	}
	v.children[name] = child
	v.childOrder = append(removeName(v.childOrder, name), name)
	v.childMu.Unlock()

	child.mu.Lock()
	child.parent = v
	if child.navigator == nil {
		child.navigator = v.navigatorOrNil()
	}
	if child.notifier == nil {
		child.notifier = v.notifierOrNil()
	}
	child.mu.Unlock()

	if prev != nil && prev != child {
		if err := prev.Destroy(context.Background()); err != nil {
			errors.Report(errors.New("view.AddChild", errors.KindUnknown, v.id, err))
		}
	}
	return nil
}

// RemoveChild detaches and destroys the named child. Removing an unknown
// name is a no-op.
func (v *View) RemoveChild(name string) error {
	v.childMu.Lock()
	child := v.children[name]
	delete(v.children, name)
	v.childOrder = removeName(v.childOrder, name)
	v.childMu.Unlock()

	if child == nil {
		return nil
	}
	child.mu.Lock()
	if child.parent == v {
		child.parent = nil
	}
	child.mu.Unlock()
	return child.Destroy(context.Background())
}

// GetChild returns the named child, or nil.
func (v *View) GetChild(name string) *View {
	v.childMu.Lock()
	defer v.childMu.Unlock()
	return v.children[name]
}

// Children returns the direct children in registration order.
func (v *View) Children() []*View {
	v.childMu.Lock()
	defer v.childMu.Unlock()
	out := make([]*View, 0, len(v.childOrder))
	for _, name := range v.childOrder {
		if c := v.children[name]; c != nil {
			out = append(out, c)
		}
	}
	return out
}

// removeChildEntry drops the bookkeeping for a child that destroyed itself,
// without triggering another destroy.
func (v *View) removeChildEntry(child *View) {
	v.childMu.Lock()
	defer v.childMu.Unlock()
	for name, c := range v.children {
		if c == child {
			delete(v.children, name)
			v.childOrder = removeName(v.childOrder, name)
			return
		}
	}
}

func removeName(names []string, name string) []string {
	out := names[:0]
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}

func (v *View) navigatorOrNil() navigation.Navigator {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.navigator
}

func (v *View) notifierOrNil() notify.Notifier {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.notifier
}

// notify returns the configured notifier, degrading to log output so error
// surfacing never depends on wiring.
func (v *View) notify() notify.Notifier {
	if n := v.notifierOrNil(); n != nil {
		return n
	}
	return notify.LogNotifier{}
}
