package cache

import (
	"context"
	"slices"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type walkState int

const (
	walkHit walkState = iota
	walkAbsent
	walkExpired
	walkRef
	walkFailed
)

// walkResult is the outcome of one read-only traversal. depth counts the
// segments consumed when the walk stopped.
type walkResult struct {
	state   walkState
	value   any
	depth   int
	refSegs []Segment
	err     error
}

// walk traverses the trees read-only, top-down. The first stale or absent
// ancestor decides the outcome; deeper metadata is never consulted for that
// branch. A reference marker before the final segment stops the walk so the
// caller can restart it on the marker's target path.
func (c *impl) walk(segs []Segment) walkResult {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	var data any = c.data
	mn := c.meta
	for i, seg := range segs {
		var ok bool
		data, mn, ok = stepInto(data, mn, seg, c.opt.IDAttr)
		if !ok {
			return walkResult{state: walkAbsent, depth: i}
		}
		if mn.Expired(now) {
			return walkResult{state: walkExpired, depth: i + 1}
		}
		if i < len(segs)-1 {
			if m, ok := data.(map[string]any); ok {
				if ref, ok := m[c.opt.RefAttr]; ok {
					refSegs, err := ParsePath(ref)
					if err != nil {
						return walkResult{state: walkFailed,
							err: errors.Wrapf(err, "cache: reference marker at %s", pathString(segs[:i+1]))}
					}
					return walkResult{state: walkRef, depth: i + 1, refSegs: refSegs}
				}
			}
		}
	}
	return walkResult{state: walkHit, value: data, depth: len(segs)}
}

// Get reads the value at path per the selected BackendMode, refetching stale
// ancestors along the walk and reinserting fetched values with refreshed
// deadlines.
func (c *impl) Get(ctx context.Context, path any, opts ...GetOption) (any, error) {
	segs, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	gv := c.getViewFor(opts)
	v, err := c.getSegs(ctx, segs, gv)
	if err != nil {
		return nil, err
	}
	if gv.populate {
		v, _, err = c.populateValue(ctx, v, c.opt.RefAttr, gv)
		if err != nil {
			return nil, err
		}
	}
	if gv.clone {
		return deepClone(v)
	}
	return v, nil
}

func (c *impl) getSegs(ctx context.Context, segs []Segment, gv getView) (any, error) {
	for _, s := range segs {
		if s.Append {
			return nil, &ConflictError{Path: pathString(segs), Reason: "append segment is not addressable"}
		}
	}
	if gv.mode == ModeForce {
		return c.fetchAndStore(ctx, segs)
	}
	for {
		res := c.walk(segs)
		switch res.state {
		case walkHit:
			c.opt.Metrics.Hit()
			return res.value, nil
		case walkRef:
			target := append(slices.Clone(res.refSegs), segs[res.depth:]...)
			return c.getSegs(ctx, target, gv)
		case walkExpired:
			c.opt.Metrics.Expired()
			if gv.mode == ModeNever {
				return nil, errors.Wrap(ErrExpired, pathString(segs[:res.depth]))
			}
			if res.depth == len(segs) {
				return c.fetchAndStore(ctx, segs)
			}
			// Refresh the stale ancestor, then resume the walk from the top.
			if _, err := c.fetchAndStore(ctx, segs[:res.depth]); err != nil {
				return nil, err
			}
		case walkAbsent:
			c.opt.Metrics.Miss()
			if gv.mode == ModeNever {
				return nil, errors.Wrap(ErrNotCached, pathString(segs))
			}
			return c.fetchAndStore(ctx, segs)
		default:
			return nil, res.err
		}
	}
}

// GetSync is the backend-free lookup. Absent paths return (nil, nil);
// expired ones return (nil, nil) or ErrExpired per errorOnExpired.
// Reference markers resolve through the cache only.
func (c *impl) GetSync(path any, errorOnExpired bool) (any, error) {
	segs, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	for _, s := range segs {
		if s.Append {
			return nil, &ConflictError{Path: pathString(segs), Reason: "append segment is not addressable"}
		}
	}
	for {
		res := c.walk(segs)
		switch res.state {
		case walkHit:
			c.opt.Metrics.Hit()
			return res.value, nil
		case walkRef:
			segs = append(slices.Clone(res.refSegs), segs[res.depth:]...)
		case walkExpired:
			c.opt.Metrics.Expired()
			if errorOnExpired {
				return nil, errors.Wrap(ErrExpired, pathString(segs[:res.depth]))
			}
			return nil, nil
		case walkAbsent:
			c.opt.Metrics.Miss()
			return nil, nil
		default:
			return nil, res.err
		}
	}
}

// Contains reports whether GetSync would return a fresh, non-nil value.
func (c *impl) Contains(path any) bool {
	v, err := c.GetSync(path, true)
	return err == nil && v != nil
}

// fetchAndStore calls the backend for the given path and reinserts the
// result with a refreshed deadline. The cache stays untouched when the
// backend fails. The reinsert notifies listeners like any other Put.
func (c *impl) fetchAndStore(ctx context.Context, segs []Segment) (any, error) {
	if c.opt.Fetch == nil {
		return nil, ErrNoFetch
	}
	c.opt.Logger.Debug("cache: fetching from backend", zap.String("path", pathString(segs)))
	v, err := c.opt.Fetch(ctx, segs)
	if err != nil {
		c.opt.Metrics.FetchError()
		return nil, errors.Wrapf(err, "cache: fetch %s", pathString(segs))
	}
	c.opt.Metrics.Fetch()
	if err := c.putSegs(segs, v, putView{ttl: c.opt.DefaultTTL}); err != nil {
		return nil, err
	}
	c.opt.Metrics.Put()
	c.notify(segs, segs, v)
	return v, nil
}
