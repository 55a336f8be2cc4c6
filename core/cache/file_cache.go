package cache

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tristendillon/pydeploy/core/logger"
	"github.com/tristendillon/pydeploy/core/models"
)

// FileCache holds parsed scripts keyed by path. An entry is served only while
// the file content it was parsed from is unchanged.
type FileCache struct {
	entries *lru.Cache[string, *models.CacheEntry]
	config  *CacheConfig
	metrics CacheMetrics
	mutex   sync.Mutex
}

var (
	globalCache *FileCache
	cacheOnce   sync.Once
)

func GetCache() *FileCache {
	cacheOnce.Do(func() {
		c, err := NewFileCache(DefaultCacheConfig())
		if err != nil {
			logger.Fatal("Failed to create import cache: %v", err)
		}
		globalCache = c
	})
	return globalCache
}

func NewFileCache(config *CacheConfig) (*FileCache, error) {
	fc := &FileCache{config: config}
	entries, err := lru.NewWithEvict(config.MaxEntries, func(path string, _ *models.CacheEntry) {
		fc.metrics.Invalidations++
		logger.Debug("Evicted cache entry: %s", path)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create lru cache: %w", err)
	}
	fc.entries = entries

	logger.Debug("Created new file cache with config: MaxEntries=%d, TTL=%v", config.MaxEntries, config.TTL)
	return fc, nil
}

func (fc *FileCache) ValidateAndGet(filePath string) (*models.ParsedFile, bool) {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()

	entry, ok := fc.entries.Get(filePath)
	if !ok {
		fc.metrics.Misses++
		logger.Debug("Cache miss for %s - entry not found", filePath)
		return nil, false
	}

	current, err := entry.Stamp.Current()
	switch {
	case err != nil:
		logger.Debug("Cache validation error for %s: %v", filePath, err)
	case !current:
		logger.Debug("Cache miss for %s - file modified", filePath)
	case fc.config.TTL > 0 && time.Since(entry.CreatedAt) > fc.config.TTL:
		logger.Debug("Cache miss for %s - entry expired", filePath)
	default:
		fc.metrics.Hits++
		logger.Debug("Cache hit for %s", filePath)
		return entry.Parsed, true
	}

	fc.entries.Remove(filePath)
	fc.metrics.Misses++
	return nil, false
}

func (fc *FileCache) Set(parsed *models.ParsedFile) error {
	entry, err := models.NewCacheEntry(parsed)
	if err != nil {
		return fmt.Errorf("failed to create cache entry: %w", err)
	}

	fc.mutex.Lock()
	defer fc.mutex.Unlock()
	fc.entries.Add(parsed.Path, entry)
	logger.Debug("Cached imports for %s", parsed.Path)
	return nil
}

func (fc *FileCache) InvalidateFile(filePath string) {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()
	fc.entries.Remove(filePath)
}

func (fc *FileCache) GetMetrics() *CacheMetrics {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()

	metrics := fc.metrics
	metrics.TotalEntries = fc.entries.Len()
	metrics.CalculateHitRate()
	return &metrics
}

func (fc *FileCache) LogStats() {
	metrics := fc.GetMetrics()
	logger.Debug("Cache stats: Hits=%d, Misses=%d, Hit Rate=%.1f%%, Total Entries=%d, Invalidations=%d",
		metrics.Hits, metrics.Misses, metrics.HitRate, metrics.TotalEntries, metrics.Invalidations)
}
