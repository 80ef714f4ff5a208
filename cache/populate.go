package cache

import (
	"context"
	"maps"
	"slices"
)

// Populate resolves reference markers inside value. Each map carrying the
// marker attribute is replaced in the returned structure by the value the
// cache holds (or fetches) at the marker's path; everything else is returned
// as-is. An empty refAttr uses Options.RefAttr.
func (c *impl) Populate(ctx context.Context, value any, refAttr string, opts ...GetOption) (any, error) {
	if refAttr == "" {
		refAttr = c.opt.RefAttr
	}
	gv := c.getViewFor(opts)
	v, _, err := c.populateValue(ctx, value, refAttr, gv)
	return v, err
}

// populateValue is a copy-on-substitute visitor. Containers are recursed
// into unconditionally to find deeper markers, but a container is cloned
// only when one of its children was substituted; untouched subtrees stay
// shared with the cache, and stored markers are never mutated. Resolved
// targets are populated recursively, so a cycle of markers does not
// terminate — the same property the marker encoding itself has.
func (c *impl) populateValue(ctx context.Context, v any, refAttr string, gv getView) (any, bool, error) {
	switch t := v.(type) {
	case map[string]any:
		if ref, ok := t[refAttr]; ok {
			segs, err := ParsePath(ref)
			if err != nil {
				return nil, false, err
			}
			rv, err := c.getSegs(ctx, segs, gv)
			if err != nil {
				return nil, false, err
			}
			pv, _, err := c.populateValue(ctx, rv, refAttr, gv)
			if err != nil {
				return nil, false, err
			}
			return pv, true, nil
		}
		var out map[string]any
		for k, val := range t {
			nv, changed, err := c.populateValue(ctx, val, refAttr, gv)
			if err != nil {
				return nil, false, err
			}
			if changed {
				if out == nil {
					out = maps.Clone(t)
				}
				out[k] = nv
			}
		}
		if out != nil {
			return out, true, nil
		}
		return t, false, nil
	case []any:
		var out []any
		for i, val := range t {
			nv, changed, err := c.populateValue(ctx, val, refAttr, gv)
			if err != nil {
				return nil, false, err
			}
			if changed {
				if out == nil {
					out = slices.Clone(t)
				}
				out[i] = nv
			}
		}
		if out != nil {
			return out, true, nil
		}
		return t, false, nil
	default:
		return v, false, nil
	}
}
