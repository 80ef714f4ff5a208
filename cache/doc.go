// Package cache provides an in-process, path-addressable tree cache with
// TTL-based expiration, lazy backend refetching, and automatic resolution of
// cross-entity references. It fronts a slow remote data source (typically a
// REST-like backend) and transparently stores fetched values in a nested
// tree addressed by structured paths instead of flat keys.
//
// Design
//
//   - Paths: a flexible grammar normalizes dotted strings
//     ("posts/11.comments[0].text"), mixed slices ([]any{"posts/11",
//     map[string]any{"user": 42}}), and bare single-key maps into one
//     Segment sequence. See ParsePath.
//
//   - Storage: two trees descend in lockstep — the data tree holds plain
//     maps, arrays, and scalar leaves; the metadata tree records per-node
//     deadlines, type tags, and identity values. Put auto-vivifies every
//     intermediate container along the path.
//
//   - Expiration: deadlines are absolute UnixNano stamps, refreshed on
//     every Put, checked top-down on every Get. The first stale ancestor
//     on a walk decides; its sub-path is refetched from the backend and the
//     walk resumes inside the refreshed value. Nothing is evicted until an
//     explicit DeleteExpired sweep.
//
//   - References: a value of the form {"$refPath": <path>} is a pointer to
//     another path in the same cache. Get resolves markers encountered
//     mid-walk; Populate resolves markers inside returned values without
//     ever mutating the stored marker.
//
//   - Concurrency: one RWMutex guards both trees. Backend fetches run
//     outside the lock, so overlapping Gets on a stale path each fetch and
//     the last completed write wins. Returned values are live references
//     into the tree — callers that hold onto them can observe later Puts.
//
//   - Observability: Options.Metrics receives Hit/Miss/Expired/Fetch
//     signals (NoopMetrics by default; a Prometheus adapter lives in
//     metrics/prom), and Options.Logger (zap) reports identity auto-heal
//     and backend refetches.
//
// Basic usage
//
//	c := cache.New(cache.Options{
//		DefaultTTL: 5 * time.Minute,
//		Fetch: func(ctx context.Context, path []cache.Segment) (any, error) {
//			url, _ := cache.PathToREST(path)
//			return client.GetJSON(ctx, url)
//		},
//	})
//	_ = c.Put("users/42", map[string]any{"_id": 42, "name": "ada"})
//	v, err := c.Get(ctx, "users/42.name") // cache hit, no backend call
//
// With references
//
//	_ = c.Put("posts/11", map[string]any{
//		"_id":       11,
//		"createdBy": map[string]any{"$refPath": "users/42"},
//	})
//	v, err := c.Get(ctx, "posts/11", cache.WithPopulate(true))
//	// v.(map[string]any)["createdBy"] is the users/42 value, not the marker
//
// Backend-free checks
//
//	v, err := c.GetSync("users/42", false) // nil, nil when absent or stale
//	ok := c.Contains("users/42")           // never calls the backend
package cache
