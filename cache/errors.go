package cache

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors. ErrExpired and ErrNotCached are expected control-flow
// signals for ModeNever lookups and GetSync, not failures.
var (
	// ErrNoFetch is returned by Get when a backend call is required but no
	// Fetch function was configured.
	ErrNoFetch = errors.New("cache: no fetch function configured")

	// ErrExpired signals that a cached value exists but its TTL has passed.
	ErrExpired = errors.New("cache: value expired")

	// ErrNotCached signals that no value exists for the path.
	ErrNotCached = errors.New("cache: value not cached")
)

// PathError reports a malformed path or path token at parse time.
type PathError struct {
	Token  string
	Reason string
}

func (e *PathError) Error() string {
	if e.Token == "" {
		return "cache: invalid path: " + e.Reason
	}
	return fmt.Sprintf("cache: invalid path token %q: %s", e.Token, e.Reason)
}

// ConflictError reports a structural conflict between a path and the stored
// tree, e.g. appending to a non-array or merging into a non-object.
type ConflictError struct {
	Path   string
	Reason string
}

func (e *ConflictError) Error() string {
	if e.Path == "" {
		return "cache: " + e.Reason
	}
	return fmt.Sprintf("cache: %s at %q", e.Reason, e.Path)
}

// IdentityMismatchError reports a Put whose value carries an identity
// attribute conflicting with the identity in the path. The cache is left
// unmodified at the addressed element.
type IdentityMismatchError struct {
	PathID  any
	ValueID any
}

func (e *IdentityMismatchError) Error() string {
	return fmt.Sprintf("cache: identity mismatch: path id %v, value id %v", e.PathID, e.ValueID)
}
