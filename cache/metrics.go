package cache

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mingle_cache_hits_total",
		Help: "Cache lookups served from Redis, by key prefix",
	}, []string{"prefix"})

	cacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mingle_cache_misses_total",
		Help: "Cache lookups that fell through to the source, by key prefix",
	}, []string{"prefix"})

	cacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mingle_cache_errors_total",
		Help: "Redis errors by operation",
	}, []string{"operation"})
)

// keyPrefix reduces "suggestions:7" to "suggestions" so per-entity keys do
// not explode label cardinality.
func keyPrefix(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
