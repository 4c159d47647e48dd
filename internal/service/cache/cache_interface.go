package cache

import "github.com/guttosm/cartonization-service/internal/domain/model"

// Cache stores packing solutions under their request fingerprint.
// Entries are tagged with the catalog version they were computed against.
type Cache interface {
	Get(key string) (*model.PackingSolution, bool)
	Set(key string, catalogVersion int64, value *model.PackingSolution)
	Invalidate(key string)
	// InvalidateBefore drops every entry computed against a catalog version below version.
	InvalidateBefore(version int64)
	Clear()
	Stop()
}

// Metrics provides cache performance metrics.
type Metrics struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	Capacity  int
	// MinVersion is the lowest catalog version still served.
	MinVersion int64
}

// CacheWithMetrics extends Cache with metrics reporting.
type CacheWithMetrics interface {
	Cache
	Metrics() Metrics
}
