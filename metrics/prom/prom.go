package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/IvanBrykalov/pathcache/cache"
)

// Adapter implements cache.Metrics and exports Prometheus counters/gauges.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	expired   prometheus.Counter
	fetches   prometheus.Counter
	fetchErrs prometheus.Counter
	puts      prometheus.Counter
	sizeEnt   prometheus.Gauge
}

// New constructs a Prometheus metrics adapter.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        name,
			Help:        help,
			ConstLabels: constLabels,
		})
	}
	a := &Adapter{
		hits:      counter("hits_total", "Fresh cache hits"),
		misses:    counter("misses_total", "Lookups of absent paths"),
		expired:   counter("expired_total", "Lookups that found a stale node"),
		fetches:   counter("fetches_total", "Successful backend fetches"),
		fetchErrs: counter("fetch_errors_total", "Failed backend fetches"),
		puts:      counter("puts_total", "Tree writes"),
		sizeEnt: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "size_entries",
			Help:        "Number of resident leaf values",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.hits, a.misses, a.expired, a.fetches, a.fetchErrs, a.puts, a.sizeEnt)
	return a
}

// Hit increments the hit counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter.
func (a *Adapter) Miss() { a.misses.Inc() }

// Expired increments the stale-lookup counter.
func (a *Adapter) Expired() { a.expired.Inc() }

// Fetch increments the backend-fetch counter.
func (a *Adapter) Fetch() { a.fetches.Inc() }

// FetchError increments the failed-fetch counter.
func (a *Adapter) FetchError() { a.fetchErrs.Inc() }

// Put increments the write counter.
func (a *Adapter) Put() { a.puts.Inc() }

// Size updates the resident-entries gauge.
func (a *Adapter) Size(entries int) { a.sizeEnt.Set(float64(entries)) }

// Compile-time check: ensure Adapter implements cache.Metrics.
var _ cache.Metrics = (*Adapter)(nil)
