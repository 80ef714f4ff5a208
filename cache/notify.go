package cache

import (
	"slices"

	"github.com/google/uuid"
)

type listenerEntry struct {
	id    uuid.UUID
	segs  []Segment
	fn    Listener
	exact bool
}

// Subscribe registers a change listener. A nil or empty prefix in any of the
// path forms makes it global. The returned handle is the argument to
// Unsubscribe.
func (c *impl) Subscribe(pathPrefix any, fn Listener, exact bool) (uuid.UUID, error) {
	var segs []Segment
	if !emptyPrefix(pathPrefix) {
		var err error
		segs, err = ParsePath(pathPrefix)
		if err != nil {
			return uuid.Nil, err
		}
	}
	id := uuid.New()
	c.mu.Lock()
	c.listeners = append(c.listeners, listenerEntry{id: id, segs: segs, fn: fn, exact: exact})
	c.mu.Unlock()
	return id, nil
}

// Unsubscribe removes the listener with the given handle.
func (c *impl) Unsubscribe(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, l := range c.listeners {
		if l.id == id {
			c.listeners = slices.Delete(c.listeners, i, i+1)
			return true
		}
	}
	return false
}

// notify fires matching listeners in registration order, once per Put,
// outside the tree lock so callbacks may re-enter the cache. path and value
// are whatever the Put caller passed, not the normalized forms.
func (c *impl) notify(segs []Segment, path, value any) {
	c.mu.RLock()
	if len(c.listeners) == 0 {
		c.mu.RUnlock()
		return
	}
	snapshot := slices.Clone(c.listeners)
	c.mu.RUnlock()

	for _, l := range snapshot {
		if matchesPrefix(segs, l.segs, l.exact) {
			l.fn(path, value)
		}
	}
}

// emptyPrefix reports whether a listener prefix denotes "everything" in any
// of the accepted path forms.
func emptyPrefix(p any) bool {
	switch t := p.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case []Segment:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

// matchesPrefix reports whether the put path starts with (or, for exact
// listeners, equals) the listener path, segment-wise.
func matchesPrefix(put, prefix []Segment, exact bool) bool {
	if len(prefix) == 0 {
		return true
	}
	if len(put) < len(prefix) || (exact && len(put) != len(prefix)) {
		return false
	}
	for i := range prefix {
		if !prefix[i].matches(put[i]) {
			return false
		}
	}
	return true
}
