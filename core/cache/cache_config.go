package cache

import (
	"time"
)

type CacheConfig struct {
	MaxEntries int           `yaml:"max_entries"`
	TTL        time.Duration `yaml:"ttl"`
}

func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		MaxEntries: 256,
		TTL:        15 * time.Minute,
	}
}

type CacheMetrics struct {
	Hits          int64
	Misses        int64
	Invalidations int64
	TotalEntries  int
	HitRate       float64
}

func (m *CacheMetrics) CalculateHitRate() {
	total := m.Hits + m.Misses
	if total > 0 {
		m.HitRate = float64(m.Hits) / float64(total) * 100
	} else {
		m.HitRate = 0
	}
}
