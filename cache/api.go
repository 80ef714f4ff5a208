package cache

import (
	"context"

	"github.com/google/uuid"
)

// Listener is a change-notification callback. It receives the path and value
// exactly as the caller passed them to Put (not the normalized forms).
type Listener func(path, value any)

// Cache is a path-addressed, in-memory tree cache with TTL expiration, lazy
// backend refetching, and reference population.
// All methods are safe for concurrent use by multiple goroutines, but
// returned values are live references into the tree (see Data).
type Cache interface {
	// Put writes value at path, auto-vivifying intermediate containers,
	// and stamps the leaf with a fresh deadline. Synchronous; never calls
	// the backend. Fires matching listeners exactly once on success.
	Put(path, value any, opts ...PutOption) error

	// Get reads the value at path, refetching stale or missing nodes from
	// the backend according to the selected BackendMode. An expired
	// ancestor on the walk triggers a refetch scoped to that ancestor's
	// sub-path before the walk continues. Reference markers encountered
	// mid-walk resolve recursively with the same options.
	Get(ctx context.Context, path any, opts ...GetOption) (any, error)

	// GetSync is a read-only lookup that never calls the backend.
	// Absent values return (nil, nil); expired values return (nil, nil)
	// or ErrExpired depending on errorOnExpired.
	GetSync(path any, errorOnExpired bool) (any, error)

	// Contains reports whether a fresh, non-nil value exists at path.
	// Never calls the backend.
	Contains(path any) bool

	// Delete nils the value at path in place. Array slots are preserved
	// to avoid index shifts. Deleting an absent path is a no-op.
	Delete(path any) error

	// Populate resolves reference markers inside value, replacing each
	// marker in the returned structure with the value cached (or fetched)
	// at the marker's path. The input structure and the cache's stored
	// markers are never mutated. An empty refAttr uses Options.RefAttr.
	Populate(ctx context.Context, value any, refAttr string, opts ...GetOption) (any, error)

	// Subscribe registers a listener fired synchronously on every Put
	// whose normalized path has pathPrefix as a segment-wise prefix
	// (or matches it exactly, when exact is set). A nil or empty prefix
	// registers a global listener.
	Subscribe(pathPrefix any, fn Listener, exact bool) (uuid.UUID, error)

	// Unsubscribe removes a listener; returns false for unknown handles.
	Unsubscribe(id uuid.UUID) bool

	// Data returns the live root of the data tree. No defensive copy:
	// mutating the result mutates the cache.
	Data() map[string]any

	// Metadata returns the live metadata node for path, or the tree root
	// for a nil path. Absent nodes return (nil, nil). Mutating the
	// returned node's TTL changes subsequent expiry decisions.
	Metadata(path any) (*Meta, error)

	// Len returns the number of resident leaf values.
	Len() int

	// Flush resets both trees to empty.
	Flush()

	// DeleteExpired synchronously prunes every node whose deadline has
	// passed. Map entries are removed; array slots are nilled in place.
	// No backend involvement.
	DeleteExpired()
}
