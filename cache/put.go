package cache

import (
	"go.uber.org/zap"

	"github.com/IvanBrykalov/pathcache/internal/ident"
)

// Put writes value at path. Intermediate containers are auto-vivified: maps
// for plain segments, arrays for index and identity segments. The leaf
// metadata is stamped with a fresh deadline, fully replacing the prior one.
func (c *impl) Put(path, value any, opts ...PutOption) error {
	segs, err := ParsePath(path)
	if err != nil {
		return err
	}
	pv := c.putViewFor(opts)
	if err := c.putSegs(segs, value, pv); err != nil {
		return err
	}
	c.opt.Metrics.Put()
	c.notify(segs, path, value)
	return nil
}

// putSegs performs the locked write walk. Both trees descend in lockstep;
// every level the data tree gains, the metadata tree gains too. The identity
// leaf is validated up front so a rejected write vivifies no intermediates.
func (c *impl) putSegs(segs []Segment, value any, pv putView) error {
	if err := c.checkIdentityLeaf(segs, value); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.data
	mn := c.meta
	for i, seg := range segs {
		if i == len(segs)-1 {
			return c.putLeaf(cur, mn, seg, segs, value, pv)
		}
		if seg.Append {
			return &ConflictError{Path: pathString(segs), Reason: "append segment must be the final segment"}
		}
		var err error
		cur, mn, err = c.descend(cur, mn, seg, segs)
		if err != nil {
			return err
		}
	}
	return nil
}

// checkIdentityLeaf applies the value-shape rules of an identity-addressed
// final segment before the tree is touched: a conflicting embedded identity
// and a rejected scalar both fail the whole Put with nothing written.
func (c *impl) checkIdentityLeaf(segs []Segment, value any) error {
	last := segs[len(segs)-1]
	if last.ID == nil {
		return nil
	}
	vm, ok := value.(map[string]any)
	if !ok {
		if c.opt.ScalarPolicy == RejectScalars {
			return &ConflictError{Path: pathString(segs), Reason: "cannot store non-object value under identity path"}
		}
		return nil
	}
	if emb, ok := vm[c.opt.IDAttr]; ok && !ident.Equal(emb, last.ID) {
		return &IdentityMismatchError{PathID: last.ID, ValueID: emb}
	}
	return nil
}

// descend resolves one intermediate segment, creating the addressed child
// when absent. Identity segments synthesize a {idAttr: id} element for
// unknown identities and continue into it.
func (c *impl) descend(cur map[string]any, mn *Meta, seg Segment, segs []Segment) (map[string]any, *Meta, error) {
	switch {
	case seg.HasIndex:
		arr, err := c.arrayAt(cur, seg.Key, segs)
		if err != nil {
			return nil, nil, err
		}
		for len(arr) <= seg.Index {
			arr = append(arr, nil)
		}
		if arr[seg.Index] == nil {
			arr[seg.Index] = make(map[string]any)
		}
		cur[seg.Key] = arr
		child, ok := arr[seg.Index].(map[string]any)
		if !ok {
			return nil, nil, &ConflictError{Path: pathString(segs), Reason: "cannot descend into non-object element"}
		}
		return child, mn.ensureChild(seg.Key).ensureElem(seg.Index), nil
	case seg.ID != nil:
		arr, err := c.arrayAt(cur, seg.Key, segs)
		if err != nil {
			return nil, nil, err
		}
		i := indexByID(arr, c.opt.IDAttr, seg.ID)
		if i < 0 {
			arr = append(arr, map[string]any{c.opt.IDAttr: seg.ID})
			i = len(arr) - 1
		}
		cur[seg.Key] = arr
		child, ok := arr[i].(map[string]any)
		if !ok {
			return nil, nil, &ConflictError{Path: pathString(segs), Reason: "cannot descend into non-object element"}
		}
		em := mn.ensureChild(seg.Key).ensureElem(i)
		if em.ID == nil {
			em.ID = seg.ID
		}
		return child, em, nil
	default:
		v := cur[seg.Key]
		if v == nil {
			v = make(map[string]any)
			cur[seg.Key] = v
		}
		child, ok := v.(map[string]any)
		if !ok {
			return nil, nil, &ConflictError{Path: pathString(segs), Reason: "cannot descend into non-object value"}
		}
		return child, mn.ensureChild(seg.Key), nil
	}
}

// putLeaf applies the final segment. Identity validation happens before any
// mutation so a mismatch leaves the addressed element untouched.
func (c *impl) putLeaf(cur map[string]any, mn *Meta, seg Segment, segs []Segment, value any, pv putView) error {
	dl := c.deadline(pv.ttl)
	switch {
	case seg.Append:
		v := cur[seg.Key]
		var arr []any
		if v != nil {
			var ok bool
			if arr, ok = v.([]any); !ok {
				return &ConflictError{Path: pathString(segs), Reason: "cannot append, not an array"}
			}
		}
		arr = append(arr, value)
		cur[seg.Key] = arr
		mn.ensureChild(seg.Key).ensureElem(len(arr) - 1).setLeaf(dl, value, nil)
		return nil

	case seg.HasIndex:
		arr, err := c.arrayAt(cur, seg.Key, segs)
		if err != nil {
			return err
		}
		for len(arr) <= seg.Index {
			arr = append(arr, nil)
		}
		stored, merged, err := mergeValue(arr[seg.Index], value, pv.merge, segs)
		if err != nil {
			return err
		}
		arr[seg.Index] = stored
		cur[seg.Key] = arr
		em := mn.ensureChild(seg.Key).ensureElem(seg.Index)
		if merged {
			em.mergeLeaf(dl, value, nil)
		} else {
			em.setLeaf(dl, stored, nil)
		}
		return nil

	case seg.ID != nil:
		vm, ok := value.(map[string]any)
		if !ok {
			if c.opt.ScalarPolicy == RejectScalars {
				return &ConflictError{Path: pathString(segs), Reason: "cannot store non-object value under identity path"}
			}
			vm = map[string]any{c.opt.IDAttr: seg.ID, "value": value}
		}
		if emb, ok := vm[c.opt.IDAttr]; ok {
			if !ident.Equal(emb, seg.ID) {
				return &IdentityMismatchError{PathID: seg.ID, ValueID: emb}
			}
		} else {
			// self-healing: adopt the identity from the path
			vm[c.opt.IDAttr] = seg.ID
			c.opt.Logger.Warn("cache: value missing identity attribute, assigned from path",
				zap.String("path", pathString(segs)),
				zap.Any("id", seg.ID))
		}
		arr, err := c.arrayAt(cur, seg.Key, segs)
		if err != nil {
			return err
		}
		var merged bool
		i := indexByID(arr, c.opt.IDAttr, seg.ID)
		if i < 0 {
			arr = append(arr, vm)
			i = len(arr) - 1
		} else {
			var stored any
			stored, merged, err = mergeValue(arr[i], vm, pv.merge, segs)
			if err != nil {
				return err
			}
			arr[i] = stored
		}
		cur[seg.Key] = arr
		em := mn.ensureChild(seg.Key).ensureElem(i)
		if merged {
			em.mergeLeaf(dl, vm, seg.ID)
		} else {
			em.setLeaf(dl, arr[i], seg.ID)
		}
		return nil

	default:
		stored, merged, err := mergeValue(cur[seg.Key], value, pv.merge, segs)
		if err != nil {
			return err
		}
		cur[seg.Key] = stored
		cm := mn.ensureChild(seg.Key)
		if merged {
			cm.mergeLeaf(dl, value, nil)
		} else {
			cm.setLeaf(dl, stored, nil)
		}
		return nil
	}
}

// arrayAt returns the array stored under key, or a fresh one when the slot
// is empty. A resident non-array value conflicts.
func (c *impl) arrayAt(cur map[string]any, key string, segs []Segment) ([]any, error) {
	v := cur[key]
	if v == nil {
		return nil, nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, &ConflictError{Path: pathString(segs), Reason: "existing value at " + key + " is not an array"}
	}
	return arr, nil
}

// mergeValue applies the replace-or-merge leaf policy. Shallow merge is only
// defined between two objects; anything else conflicts. merged reports
// whether the stored value was merged into rather than replaced.
func mergeValue(old, val any, merge bool, segs []Segment) (stored any, merged bool, err error) {
	if !merge || old == nil {
		return val, false, nil
	}
	om, ok := old.(map[string]any)
	if !ok {
		return nil, false, &ConflictError{Path: pathString(segs), Reason: "cannot merge into non-object value"}
	}
	nm, ok := val.(map[string]any)
	if !ok {
		return nil, false, &ConflictError{Path: pathString(segs), Reason: "cannot merge non-object value"}
	}
	for k, v := range nm {
		om[k] = v
	}
	return om, true, nil
}

// Delete nils the value at path in place. Array slots are preserved to avoid
// index shifts; the node's metadata is reset. Absent paths are a no-op.
func (c *impl) Delete(path any) error {
	segs, err := ParsePath(path)
	if err != nil {
		return err
	}
	for _, s := range segs {
		if s.Append {
			return &ConflictError{Path: pathString(segs), Reason: "append segment is not addressable"}
		}
	}

	c.mu.Lock()
	var data any = c.data
	mn := c.meta
	for _, seg := range segs[:len(segs)-1] {
		var ok bool
		data, mn, ok = stepInto(data, mn, seg, c.opt.IDAttr)
		if !ok {
			c.mu.Unlock()
			return nil
		}
	}
	if m, ok := data.(map[string]any); ok {
		last := segs[len(segs)-1]
		switch {
		case last.HasIndex:
			if arr, ok := m[last.Key].([]any); ok && last.Index >= 0 && last.Index < len(arr) {
				arr[last.Index] = nil
				if em := mn.child(last.Key).elem(last.Index); em != nil {
					*em = Meta{}
				}
			}
		case last.ID != nil:
			if arr, ok := m[last.Key].([]any); ok {
				if i := indexByID(arr, c.opt.IDAttr, last.ID); i >= 0 {
					arr[i] = nil
					if em := mn.child(last.Key).elem(i); em != nil {
						*em = Meta{}
					}
				}
			}
		default:
			if _, ok := m[last.Key]; ok {
				m[last.Key] = nil
				if cm := mn.child(last.Key); cm != nil {
					*cm = Meta{}
				}
			}
		}
	}
	size := countLeaves(c.data)
	c.mu.Unlock()
	c.opt.Metrics.Size(size)
	return nil
}
