package cache

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
//
// Hit/Miss/Expired fire per read decision, Fetch/FetchError around backend
// calls, Put once per successful write. Size is reported after structural
// operations (Delete, Flush, DeleteExpired), not on the hot path.
type Metrics interface {
	Hit()
	Miss()
	Expired()
	Fetch()
	FetchError()
	Put()
	Size(entries int)
}

// NoopMetrics is a drop-in Metrics implementation that does nothing.
// It is safe for concurrent use and intended as the default when
// no observability backend is configured.
type NoopMetrics struct{}

func (NoopMetrics) Hit()             {}
func (NoopMetrics) Miss()            {}
func (NoopMetrics) Expired()         {}
func (NoopMetrics) Fetch()           {}
func (NoopMetrics) FetchError()      {}
func (NoopMetrics) Put()             {}
func (NoopMetrics) Size(entries int) {}

// Ensure NoopMetrics implements the Metrics interface at compile time.
var _ Metrics = NoopMetrics{}
