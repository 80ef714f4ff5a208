package cache

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// impl is the tree cache behind the Cache interface. One RWMutex guards both
// the data and the metadata tree; backend fetches run outside the lock, so
// overlapping Gets on a stale path each fetch and the last completed write
// wins.
type impl struct {
	mu   sync.RWMutex
	data map[string]any
	meta *Meta

	listeners []listenerEntry

	opt Options
}

// New constructs a cache with the provided Options. See Options for the
// defaults applied here.
func New(opt Options) Cache {
	if opt.IDAttr == "" {
		opt.IDAttr = "_id"
	}
	if opt.RefAttr == "" {
		opt.RefAttr = "$refPath"
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Logger == nil {
		opt.Logger = zap.NewNop()
	}
	return &impl{
		data: make(map[string]any),
		meta: &Meta{},
		opt:  opt,
	}
}

// Data returns the live root of the data tree.
func (c *impl) Data() map[string]any {
	return c.data
}

// Metadata returns the live metadata node addressed by path, or the metadata
// root for a nil path. Identity segments resolve against the ID recorded on
// the metadata elements.
func (c *impl) Metadata(path any) (*Meta, error) {
	if path == nil {
		return c.meta, nil
	}
	segs, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	mn := c.meta
	var data any = c.data
	for _, seg := range segs {
		var ok bool
		data, mn, ok = stepInto(data, mn, seg, c.opt.IDAttr)
		if !ok {
			return nil, nil
		}
	}
	return mn, nil
}

// Len returns the number of resident leaf values.
func (c *impl) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return countLeaves(c.data)
}

// Flush resets both trees to empty.
func (c *impl) Flush() {
	c.mu.Lock()
	c.data = make(map[string]any)
	c.meta = &Meta{}
	c.mu.Unlock()
	c.opt.Metrics.Size(0)
}

// ---- helpers ----

// now returns the current instant in UnixNano, through the injected Clock
// when one is configured.
func (c *impl) now() int64 {
	if c.opt.Clock != nil {
		return c.opt.Clock.NowUnixNano()
	}
	return time.Now().UnixNano()
}

// deadline converts a relative TTL into an absolute UnixNano deadline.
// A non-positive ttl returns 0 (no expiration).
func (c *impl) deadline(ttl time.Duration) int64 {
	if ttl <= 0 {
		return 0
	}
	return c.now() + int64(ttl)
}

func (c *impl) putViewFor(opts []PutOption) putView {
	v := putView{ttl: c.opt.DefaultTTL, merge: c.opt.Merge}
	for _, o := range opts {
		o(&v)
	}
	return v
}

func (c *impl) getViewFor(opts []GetOption) getView {
	v := getView{mode: c.opt.Mode, populate: c.opt.Populate, clone: c.opt.CloneOnGet}
	for _, o := range opts {
		o(&v)
	}
	return v
}

// countLeaves counts non-nil scalar values; containers contribute their
// contents only.
func countLeaves(v any) int {
	switch t := v.(type) {
	case nil:
		return 0
	case map[string]any:
		n := 0
		for _, e := range t {
			n += countLeaves(e)
		}
		return n
	case []any:
		n := 0
		for _, e := range t {
			n += countLeaves(e)
		}
		return n
	default:
		return 1
	}
}
