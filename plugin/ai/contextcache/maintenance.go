package contextcache

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// maintain runs after every update while the lock is held: the size
// guard for the just-written file, then the memory trim.
func (c *Cache) maintain(userID string) {
	c.guardFileSize(userID)
	c.trimMemory()
}

// sweepDisk deletes cache files older than the age threshold or larger
// than the size threshold. Called at startup and from Cleanup.
func (c *Cache) sweepDisk() {
	now := time.Now()
	for _, name := range c.listFiles() {
		path := filepath.Join(c.dir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		age := now.Sub(info.ModTime())
		if age > c.policy.MaxFileAge {
			if err := os.Remove(path); err == nil {
				slog.Info("removed expired cache file", "file", name, "age", age)
			}
			continue
		}
		if info.Size() > c.policy.MaxFileBytes {
			if err := os.Remove(path); err == nil {
				slog.Info("removed oversized cache file", "file", name, "size", info.Size())
			}
		}
	}
}

// guardFileSize checks the just-written file against the size ceiling.
// An oversized file gets its tracking categories truncated to the entry
// cap and rewritten; if that rewrite fails, the file and its memory
// counterpart are dropped so the next get rebuilds cleanly.
func (c *Cache) guardFileSize(userID string) {
	path := c.filePath(userID)
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.Size() <= c.policy.MaxFileBytes {
		return
	}

	record, ok := c.memory[userID]
	if !ok {
		record = c.readFile(userID)
	}
	if record == nil {
		c.dropUser(userID)
		return
	}

	record.truncate(c.policy.MaxTrackingEntries)
	data, err := json.MarshalIndent(record, "", "  ")
	if err == nil {
		err = os.WriteFile(path, data, 0o644)
	}
	if err != nil {
		slog.Error("failed to rewrite oversized cache file, dropping it",
			"user", userID, "error", err)
		c.dropUser(userID)
		return
	}
	c.memory[userID] = record
	slog.Info("truncated oversized cache file",
		"user", userID, "entries", c.policy.MaxTrackingEntries)
}

// trimMemory evicts the oldest-updated records until the memory tier is
// back under its user limit. Disk files are untouched, so evicted users
// remain retrievable without a rebuild.
func (c *Cache) trimMemory() {
	excess := len(c.memory) - c.policy.MaxMemoryUsers
	if excess <= 0 {
		return
	}

	type resident struct {
		userID  string
		updated time.Time
	}
	residents := make([]resident, 0, len(c.memory))
	for userID, record := range c.memory {
		residents = append(residents, resident{userID: userID, updated: record.LastUpdated})
	}
	sort.Slice(residents, func(i, j int) bool {
		return residents[i].updated.Before(residents[j].updated)
	})

	for _, r := range residents[:excess] {
		delete(c.memory, r.userID)
		slog.Debug("evicted user from memory cache", "user", r.userID)
	}
}

// dropUser removes the user from both tiers. Must be called with the
// lock held.
func (c *Cache) dropUser(userID string) {
	delete(c.memory, userID)
	if err := os.Remove(c.filePath(userID)); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove cache file", "user", userID, "error", err)
	}
}
