package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// FetchFunc is the injected backend collaborator. It is invoked with a
// normalized path whenever a backend call is needed and returns the value
// stored at that path on the remote side. Use PathToREST or Segment.String
// to map the segments onto a transport-specific address.
//
// The cache enforces no timeout on fetches: if the function never returns,
// the corresponding Get never returns. Honor ctx cancellation inside the
// function if that matters to you.
type FetchFunc func(ctx context.Context, path []Segment) (any, error)

// BackendMode controls Get's backend-call policy.
type BackendMode int

const (
	// ModeDefault calls the backend only for absent or expired nodes.
	ModeDefault BackendMode = iota
	// ModeForce always calls the backend for the full requested path,
	// ignoring cache freshness.
	ModeForce
	// ModeNever never calls the backend; absent or expired values fail
	// with ErrNotCached or ErrExpired.
	ModeNever
)

// ScalarPolicy decides what Put does with a non-object value addressed by an
// identity segment (e.g. Put("users/7", "bob")).
type ScalarPolicy int

const (
	// RejectScalars fails the Put with a ConflictError.
	RejectScalars ScalarPolicy = iota
	// WrapScalars stores {idAttr: id, "value": v} instead.
	WrapScalars
)

// Clock provides time in UnixNano; useful for deterministic tests.
type Clock interface{ NowUnixNano() int64 }

// Options configures a cache instance. The struct is copied by New and never
// mutated afterwards; per-call options derive a temporary view from it.
// Zero values are safe; defaults are applied in New():
//   - IDAttr ""     => "_id"
//   - RefAttr ""    => "$refPath"
//   - nil Metrics   => NoopMetrics
//   - nil Logger    => zap.NewNop()
//   - nil Clock     => time.Now()
type Options struct {
	// Fetch is the backend function; required for any Get that has to
	// reach past the cache. Without it such Gets fail with ErrNoFetch.
	Fetch FetchFunc

	// DefaultTTL is the freshness window stamped on every Put unless
	// overridden per call. Zero disables expiration.
	DefaultTTL time.Duration

	// Populate makes Get resolve reference markers by default.
	Populate bool

	// Merge makes Put shallow-merge object values by default instead of
	// replacing them.
	Merge bool

	// IDAttr is the identity attribute for identity-addressed segments.
	IDAttr string

	// RefAttr is the attribute recognized as a reference marker.
	RefAttr string

	// Mode is the default backend-call policy for Get.
	Mode BackendMode

	// ScalarPolicy decides how Put treats non-object values under
	// identity-addressed paths.
	ScalarPolicy ScalarPolicy

	// CloneOnGet returns deep copies from Get instead of live references.
	// The clone is a JSON round-trip: numeric leaves come back as float64.
	CloneOnGet bool

	// Observability.
	Metrics Metrics
	Logger  *zap.Logger

	// Clock allows overriding the time source (tests). Nil => time.Now().
	Clock Clock
}

// ---- per-call options ----

// putView is the derived per-call configuration for Put.
type putView struct {
	ttl   time.Duration
	merge bool
}

// PutOption overrides instance defaults for a single Put call.
type PutOption func(*putView)

// WithTTL overrides the freshness window for this Put. Non-positive values
// disable expiration for the written leaf.
func WithTTL(d time.Duration) PutOption {
	return func(v *putView) { v.ttl = d }
}

// WithMerge overrides the merge/replace behavior for this Put.
func WithMerge(merge bool) PutOption {
	return func(v *putView) { v.merge = merge }
}

// getView is the derived per-call configuration for Get and Populate.
type getView struct {
	mode     BackendMode
	populate bool
	clone    bool
}

// GetOption overrides instance defaults for a single Get or Populate call.
type GetOption func(*getView)

// WithMode overrides the backend-call policy for this Get.
func WithMode(m BackendMode) GetOption {
	return func(v *getView) { v.mode = m }
}

// WithPopulate overrides reference-marker resolution for this Get.
func WithPopulate(populate bool) GetOption {
	return func(v *getView) { v.populate = populate }
}

// WithClone overrides value cloning for this Get.
func WithClone(clone bool) GetOption {
	return func(v *getView) { v.clone = clone }
}
