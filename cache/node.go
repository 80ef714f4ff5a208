package cache

import (
	"github.com/IvanBrykalov/pathcache/internal/ident"
)

// Meta is a node of the metadata tree. The tree mirrors the shape of the data
// tree one level at a time: a Meta node exists for every path level that was
// written through Put, while values stored wholesale (a map put in one call)
// carry metadata only at their root.
//
// TTL is an absolute UnixNano deadline; zero means no expiration. Type is a
// tag of the stored value ("object", "array", "string", ...). ID holds the
// identity value for identity-addressed array elements.
//
// Metadata returns live references into this tree: mutating TTL on a returned
// node changes the expiry decision for subsequent reads.
type Meta struct {
	TTL  int64
	Type string
	ID   any

	children map[string]*Meta
	elems    []*Meta
}

// Expired reports whether the node's deadline has passed at the given
// UnixNano instant. A zero deadline never expires.
func (m *Meta) Expired(now int64) bool {
	return m != nil && m.TTL != 0 && now > m.TTL
}

func (m *Meta) child(key string) *Meta {
	if m == nil {
		return nil
	}
	return m.children[key]
}

func (m *Meta) ensureChild(key string) *Meta {
	if m.children == nil {
		m.children = make(map[string]*Meta)
	}
	c := m.children[key]
	if c == nil {
		c = &Meta{}
		m.children[key] = c
	}
	return c
}

func (m *Meta) elem(i int) *Meta {
	if m == nil || i < 0 || i >= len(m.elems) {
		return nil
	}
	return m.elems[i]
}

// ensureElem grows the element list with nil placeholders up to index i and
// returns the node there, creating it if needed. Placeholders keep metadata
// elements index-aligned with data array slots.
func (m *Meta) ensureElem(i int) *Meta {
	for len(m.elems) <= i {
		m.elems = append(m.elems, nil)
	}
	if m.elems[i] == nil {
		m.elems[i] = &Meta{}
	}
	return m.elems[i]
}

// setLeaf stamps leaf metadata for a stored value, fully replacing the prior
// deadline and dropping metadata recorded for the replaced value's children:
// a wholesale replacement makes the old descendant deadlines describe values
// that no longer exist.
func (m *Meta) setLeaf(deadline int64, value any, id any) {
	m.stamp(deadline, value, id)
	m.children = nil
	m.elems = nil
}

// mergeLeaf stamps leaf metadata after a shallow merge with the merged-in
// value. Child metadata survives for keys the merge did not touch (their
// stored values survive too); overwritten keys drop theirs.
func (m *Meta) mergeLeaf(deadline int64, value any, id any) {
	m.stamp(deadline, value, id)
	if nm, ok := value.(map[string]any); ok {
		for k := range nm {
			delete(m.children, k)
		}
	}
}

func (m *Meta) stamp(deadline int64, value any, id any) {
	m.TTL = deadline
	m.Type = typeName(value)
	if id != nil {
		m.ID = id
	}
}

// typeName tags a stored value the way the metadata tree records it.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "bool"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return "number"
	default:
		return "opaque"
	}
}

// indexByID scans an array for the element whose identity attribute matches
// id under coercive comparison. Returns -1 when absent.
func indexByID(arr []any, idAttr string, id any) int {
	for i, el := range arr {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}
		if v, ok := m[idAttr]; ok && ident.Equal(v, id) {
			return i
		}
	}
	return -1
}

// stepInto resolves one segment against a data value and its metadata node,
// read-only. ok is false when the addressed child is absent: missing key,
// out-of-range index, unknown identity, nil slot, or a non-container where a
// container is needed. Callers distinguish this "absent" outcome from expiry,
// which they check on the returned metadata themselves.
func stepInto(data any, mn *Meta, seg Segment, idAttr string) (any, *Meta, bool) {
	m, ok := data.(map[string]any)
	if !ok {
		return nil, nil, false
	}
	switch {
	case seg.HasIndex:
		arr, ok := m[seg.Key].([]any)
		if !ok || seg.Index < 0 || seg.Index >= len(arr) {
			return nil, nil, false
		}
		el := arr[seg.Index]
		if el == nil {
			return nil, nil, false
		}
		return el, mn.child(seg.Key).elem(seg.Index), true
	case seg.ID != nil:
		arr, ok := m[seg.Key].([]any)
		if !ok {
			return nil, nil, false
		}
		i := indexByID(arr, idAttr, seg.ID)
		if i < 0 || arr[i] == nil {
			return nil, nil, false
		}
		return arr[i], mn.child(seg.Key).elem(i), true
	default:
		v, ok := m[seg.Key]
		if !ok || v == nil {
			return nil, nil, false
		}
		return v, mn.child(seg.Key), true
	}
}
