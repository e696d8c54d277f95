package utils

import (
	"os"
	"sync"
	"time"
)

type fileCacheEntry[V any] struct {
	value   V
	modTime time.Time
	size    int64
}

// FileCache caches values derived from files. An entry is dropped as soon
// as the file's modification time or size differs from when it was stored.
type FileCache[V any] struct {
	entries map[string]fileCacheEntry[V]
	mutex   sync.RWMutex
}

// NewFileCache creates an empty file cache
func NewFileCache[V any]() *FileCache[V] {
	return &FileCache[V]{
		entries: make(map[string]fileCacheEntry[V]),
	}
}

// Load returns the cached value for path, calling load when there is no
// entry or the file changed since it was cached.
func (c *FileCache[V]) Load(path string, load func() (V, error)) (V, error) {
	stat, statErr := os.Stat(path)

	c.mutex.RLock()
	entry, exists := c.entries[path]
	c.mutex.RUnlock()

	if exists && statErr == nil && stat.ModTime().Equal(entry.modTime) && stat.Size() == entry.size {
		return entry.value, nil
	}

	value, err := load()
	if err != nil {
		c.Delete(path)
		var zero V
		return zero, err
	}

	if statErr == nil {
		c.mutex.Lock()
		c.entries[path] = fileCacheEntry[V]{value: value, modTime: stat.ModTime(), size: stat.Size()}
		c.mutex.Unlock()
	}
	return value, nil
}

// Delete removes the entry for path
func (c *FileCache[V]) Delete(path string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.entries, path)
}

// Clear removes all entries
func (c *FileCache[V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]fileCacheEntry[V])
}

// Size returns the number of cached entries
func (c *FileCache[V]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.entries)
}
