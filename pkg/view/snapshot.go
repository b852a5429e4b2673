package view

import (
	"github.com/go-surface/surface/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// snapshot is the wire form of a node's user-visible content.
type snapshot struct {
	ID    string         `msgpack:"id"`
	Data  map[string]any `msgpack:"data"`
	State map[string]any `msgpack:"state"`
}

// Snapshot serializes the node's id, data and state into a compact binary
// form suitable for persistence or transport.
func (v *View) Snapshot() ([]byte, error) {
	v.mu.RLock()
	s := snapshot{
		ID:    v.id,
		Data:  copyMap(v.data),
		State: copyMap(v.state),
	}
	v.mu.RUnlock()

	b, err := msgpack.Marshal(s)
	if err != nil {
		return nil, errors.New("view.Snapshot", errors.KindUnknown, v.id, err)
	}
	return b, nil
}

// RestoreSnapshot replaces the node's data and state from a serialized
// snapshot. The node's identity is not overwritten. A re-render is the
// caller's responsibility.
func (v *View) RestoreSnapshot(b []byte) error {
	var s snapshot
	if err := msgpack.Unmarshal(b, &s); err != nil {
		return errors.New("view.RestoreSnapshot", errors.KindUnknown, v.id, err)
	}

	v.mu.Lock()
	if v.destroyed {
		v.mu.Unlock()
		return errors.New("view.RestoreSnapshot", errors.KindUnknown, v.id, errDestroyed)
	}
	v.data = s.Data
	if v.data == nil {
		v.data = map[string]any{}
	}
	v.state = s.State
	if v.state == nil {
		v.state = map[string]any{}
	}
	v.mu.Unlock()
	return nil
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, val := range m {
		out[k] = val
	}
	return out
}
