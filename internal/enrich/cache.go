package enrich

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Cache is a JSON file of enrichment results keyed by normalized ISBN.
// A cache hit short-circuits the external lookups entirely, so reruns
// of a large queue only pay for the books not seen before.
type Cache struct {
	path    string
	entries map[string]Result
	dirty   bool
}

// LoadCache reads the cache file at path, starting empty when the file
// does not exist yet.
func LoadCache(path string) (*Cache, error) {
	c := &Cache{
		path:    path,
		entries: make(map[string]Result),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache: %w", err)
	}

	if err := json.Unmarshal(data, &c.entries); err != nil {
		return nil, fmt.Errorf("parse cache %s: %w", path, err)
	}
	return c, nil
}

// Get returns the cached result for an ISBN.
func (c *Cache) Get(isbn string) (Result, bool) {
	res, ok := c.entries[isbn]
	return res, ok
}

// Put stores a result. Results carrying an error payload are not
// cached, so transient failures retry on the next run.
func (c *Cache) Put(isbn string, res Result) {
	if res.Error != "" {
		return
	}
	c.entries[isbn] = res
	c.dirty = true
}

// Len returns the number of cached ISBNs.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Save writes the cache atomically, temp file then rename, so a crash
// mid-write never corrupts it. No-op when nothing changed.
func (c *Cache) Save() error {
	if !c.dirty {
		return nil
	}

	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replace cache: %w", err)
	}

	c.dirty = false
	return nil
}
