// Package metrics registers the prometheus counters and histograms
// cmd/ccbench bumps around each engine call during a benchmark run, and
// serves them on a gorilla/mux-routed /metrics endpoint — the same
// instrument-then-serve pattern the teacher uses for its own per-module
// metrics.
package metrics

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTRehashTotal counts hash-table rehash events, labeled by the
	// container instance name a benchmark run assigns.
	HTRehashTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cc",
		Subsystem: "ht",
		Name:      "rehash_total",
		Help:      "Number of times a hash table rehash (grow) occurred.",
	}, []string{"container"})

	// HTProbeLength observes the chain length walked per lookup/insert.
	HTProbeLength = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cc",
		Subsystem: "ht",
		Name:      "probe_length",
		Help:      "Number of chain members visited per hash table operation.",
		Buckets:   prometheus.LinearBuckets(0, 1, 8),
	}, []string{"container"})

	// RBTFixupTotal counts red-black tree fixup invocations.
	RBTFixupTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cc",
		Subsystem: "rbt",
		Name:      "fixup_total",
		Help:      "Number of red-black tree insert/erase fixups performed.",
	}, []string{"container"})

	// VectorGrowTotal counts vector backing-array reallocations.
	VectorGrowTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cc",
		Subsystem: "vector",
		Name:      "grow_total",
		Help:      "Number of times a vector's backing array was reallocated.",
	}, []string{"container"})
)

// Handler returns a router serving the registered metrics at /metrics.
func Handler() http.Handler {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	return r
}
