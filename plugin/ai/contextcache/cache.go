package contextcache

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	berrors "github.com/babynest/babynest/internal/errors"
)

const (
	cacheFilePrefix = "context_"
	cacheFileSuffix = ".json"
)

// Policy holds the cache management limits.
type Policy struct {
	// MaxFileBytes is the disk size ceiling per cache file.
	MaxFileBytes int64
	// MaxTrackingEntries caps each tracking category.
	MaxTrackingEntries int
	// MaxFileAge is how long an untouched cache file may live on disk.
	MaxFileAge time.Duration
	// MaxMemoryUsers caps the number of records resident in memory.
	MaxMemoryUsers int
}

// DefaultPolicy returns the default cache limits.
func DefaultPolicy() Policy {
	return Policy{
		MaxFileBytes:       10 << 20,
		MaxTrackingEntries: 10,
		MaxFileAge:         30 * 24 * time.Hour,
		MaxMemoryUsers:     50,
	}
}

// Cache is the two-tier context cache. The memory tier maps user
// identifiers to records; the disk tier holds one JSON file per user
// under dir. A single mutex serializes every operation body, so no read
// can observe a half-written record.
type Cache struct {
	mu      sync.Mutex
	memory  map[string]*Record
	builder *Builder
	dir     string
	policy  Policy
}

// New creates a cache backed by dir, loads any existing disk records
// into the memory tier, and sweeps expired or oversized files.
func New(s Store, dir string, policy Policy) (*Cache, error) {
	if policy.MaxFileBytes <= 0 {
		policy.MaxFileBytes = DefaultPolicy().MaxFileBytes
	}
	if policy.MaxTrackingEntries <= 0 {
		policy.MaxTrackingEntries = DefaultPolicy().MaxTrackingEntries
	}
	if policy.MaxFileAge <= 0 {
		policy.MaxFileAge = DefaultPolicy().MaxFileAge
	}
	if policy.MaxMemoryUsers <= 0 {
		policy.MaxMemoryUsers = DefaultPolicy().MaxMemoryUsers
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, berrors.Wrap(err, berrors.ErrCodeWriteFailed, "failed to create cache directory")
	}

	c := &Cache{
		memory:  make(map[string]*Record),
		builder: NewBuilder(s, policy.MaxTrackingEntries),
		dir:     dir,
		policy:  policy,
	}
	c.loadFromDisk()
	c.sweepDisk()
	return c, nil
}

// Get returns the context record for userID, serving memory first, then
// disk, then a full rebuild from the relational store. A nil record with
// a nil error is the absence-signal: the user has no profile row yet.
func (c *Cache) Get(ctx context.Context, userID string) (*Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if record, ok := c.memory[userID]; ok {
		return record.Clone(), nil
	}

	if record := c.readFile(userID); record != nil {
		c.memory[userID] = record
		return record.Clone(), nil
	}

	record, err := c.builder.Build(ctx)
	if err != nil {
		slog.Error("context build failed", "user", userID, "error", err)
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	c.memory[userID] = record
	c.writeFile(userID, record)
	return record.Clone(), nil
}

// Update refreshes the named category of the user's record from the
// relational store and persists the result to both tiers. An invalid
// category is rejected; the operation is recorded for logging only.
func (c *Cache) Update(ctx context.Context, userID string, category Category, operation Operation) error {
	if category == "" {
		category = CategoryAll
	}
	if !category.Valid() {
		return berrors.Newf(berrors.ErrCodeInvalidArgument, "unknown cache category %q", category)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	record, ok := c.memory[userID]
	if !ok {
		record = c.readFile(userID)
	}
	if record == nil {
		// Bootstrap: nothing cached yet, build the whole record.
		fresh, err := c.builder.Build(ctx)
		if err != nil {
			return err
		}
		if fresh == nil {
			return nil
		}
		c.memory[userID] = fresh
		c.writeFile(userID, fresh)
		c.maintain(userID)
		return nil
	}

	if err := c.builder.Refresh(ctx, category, record); err != nil {
		return err
	}
	record.LastUpdated = time.Now()

	c.memory[userID] = record
	c.writeFile(userID, record)
	slog.Debug("context cache updated",
		"user", userID, "category", category, "operation", operation)

	c.maintain(userID)
	return nil
}

// Invalidate removes the user's record from both tiers. The next Get
// rebuilds lazily.
func (c *Cache) Invalidate(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.memory, userID)
	if err := os.Remove(c.filePath(userID)); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove cache file", "user", userID, "error", err)
	}
}

// InvalidateAll clears both tiers for every user.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.memory = make(map[string]*Record)
	for _, name := range c.listFiles() {
		if err := os.Remove(filepath.Join(c.dir, name)); err != nil {
			slog.Warn("failed to remove cache file", "file", name, "error", err)
		}
	}
}

// Stats reports cache occupancy and the configured limits.
type Stats struct {
	MemoryCacheSize    int     `json:"memory_cache_size"`
	MaxMemoryCacheSize int     `json:"max_memory_cache_size"`
	MaxCacheSizeMB     float64 `json:"max_cache_size_mb"`
	MaxTrackingEntries int     `json:"max_tracking_entries"`
	MaxCacheAgeDays    int     `json:"max_cache_age_days"`
	CacheFiles         int     `json:"cache_files"`
	TotalCacheSizeMB   float64 `json:"total_cache_size_mb"`
	OldestCacheFile    *string `json:"oldest_cache_file"`
	NewestCacheFile    *string `json:"newest_cache_file"`
}

// Stats returns cache statistics for monitoring.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{
		MemoryCacheSize:    len(c.memory),
		MaxMemoryCacheSize: c.policy.MaxMemoryUsers,
		MaxCacheSizeMB:     float64(c.policy.MaxFileBytes) / (1 << 20),
		MaxTrackingEntries: c.policy.MaxTrackingEntries,
		MaxCacheAgeDays:    int(c.policy.MaxFileAge / (24 * time.Hour)),
	}

	var oldest, newest time.Time
	for _, name := range c.listFiles() {
		info, err := os.Stat(filepath.Join(c.dir, name))
		if err != nil {
			continue
		}
		stats.CacheFiles++
		stats.TotalCacheSizeMB += float64(info.Size()) / (1 << 20)
		mtime := info.ModTime()
		if oldest.IsZero() || mtime.Before(oldest) {
			oldest = mtime
		}
		if newest.IsZero() || mtime.After(newest) {
			newest = mtime
		}
	}
	if stats.CacheFiles > 0 {
		o, n := oldest.Format(time.RFC3339), newest.Format(time.RFC3339)
		stats.OldestCacheFile, stats.NewestCacheFile = &o, &n
	}
	return stats
}

// Cleanup runs the disk sweep and memory trim on demand.
func (c *Cache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepDisk()
	c.trimMemory()
}

func (c *Cache) filePath(userID string) string {
	return filepath.Join(c.dir, cacheFilePrefix+userID+cacheFileSuffix)
}

// listFiles returns the cache file names currently on disk.
func (c *Cache) listFiles() []string {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil
	}
	names := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.Type().IsRegular() &&
			strings.HasPrefix(name, cacheFilePrefix) && strings.HasSuffix(name, cacheFileSuffix) {
			names = append(names, name)
		}
	}
	return names
}

// loadFromDisk warms the memory tier from existing cache files.
// Unreadable files are skipped and left for the next write to replace.
func (c *Cache) loadFromDisk() {
	for _, name := range c.listFiles() {
		userID := strings.TrimSuffix(strings.TrimPrefix(name, cacheFilePrefix), cacheFileSuffix)
		if record := c.readFile(userID); record != nil {
			c.memory[userID] = record
		}
	}
}

// readFile deserializes a user's cache file. Corrupt or missing files
// are a miss, never an error.
func (c *Cache) readFile(userID string) *Record {
	data, err := os.ReadFile(c.filePath(userID))
	if err != nil {
		return nil
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		slog.Warn("corrupt cache file ignored", "user", userID, "error", err)
		return nil
	}
	return &record
}

// writeFile persists a record to the user's cache file. A write failure
// is logged and the memory tier stays authoritative until the next
// successful write.
func (c *Cache) writeFile(userID string, record *Record) {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		slog.Error("failed to encode cache record", "user", userID, "error", err)
		return
	}
	if err := os.WriteFile(c.filePath(userID), data, 0o644); err != nil {
		slog.Error("failed to write cache file", "user", userID, "error", err)
	}
}
