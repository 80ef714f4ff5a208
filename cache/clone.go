package cache

import (
	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

// deepClone produces an isolated copy of a cached value via a JSON
// round-trip. Numeric leaves come back as float64 and non-JSON values do not
// survive; cloning is meant for the JSON-shaped trees a REST backend
// produces.
func deepClone(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := sonic.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "cache: clone")
	}
	var out any
	if err := sonic.Unmarshal(b, &out); err != nil {
		return nil, errors.Wrap(err, "cache: clone")
	}
	return out, nil
}
