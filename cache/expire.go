package cache

// DeleteExpired synchronously prunes every node whose deadline has passed.
// Expired map entries are removed together with their metadata; expired
// array slots are nilled in place to preserve indices. Fresh containers are
// swept recursively. No backend involvement.
func (c *impl) DeleteExpired() {
	c.mu.Lock()
	now := c.now()
	sweepMap(c.data, c.meta, now)
	size := countLeaves(c.data)
	c.mu.Unlock()
	c.opt.Metrics.Size(size)
}

func sweepMap(m map[string]any, mn *Meta, now int64) {
	for k, v := range m {
		cm := mn.child(k)
		if cm.Expired(now) {
			delete(m, k)
			delete(mn.children, k)
			continue
		}
		switch t := v.(type) {
		case map[string]any:
			sweepMap(t, cm, now)
		case []any:
			sweepSlice(t, cm, now)
		}
	}
}

func sweepSlice(arr []any, mn *Meta, now int64) {
	for i, v := range arr {
		em := mn.elem(i)
		if em.Expired(now) {
			arr[i] = nil
			*em = Meta{}
			continue
		}
		switch t := v.(type) {
		case map[string]any:
			sweepMap(t, em, now)
		case []any:
			sweepSlice(t, em, now)
		}
	}
}
