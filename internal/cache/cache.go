package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"archlens/internal/shared/observability"
	"archlens/internal/shared/util"
)

// ResultCache is a TTL-based key/value store persisted as a single on-disk
// JSON document. The whole document is read and rewritten on every write; a
// writer mutex serializes the load-modify-store cycle so concurrent detector
// calls never interleave partial writes. A missing, unreadable, or corrupt
// cache file is an empty cache, never an error.
type ResultCache struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

type entry struct {
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

type document map[string]entry

func New(path string) *ResultCache {
	return &ResultCache{path: path, now: time.Now}
}

// Key builds a namespaced cache key "<domain>:<identity>".
func Key(domain, identity string) string {
	return domain + ":" + identity
}

// Get unmarshals the payload stored under key into out when a fresh entry
// exists. Expired or malformed entries are misses.
func (c *ResultCache) Get(key string, ttl time.Duration, out any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	domain := domainOf(key)
	doc := c.load()
	e, ok := doc[key]
	if !ok {
		observability.CacheMissesTotal.WithLabelValues(domain).Inc()
		return false
	}

	age := c.now().Sub(time.Unix(e.Timestamp, 0))
	if age < 0 || age >= ttl {
		observability.CacheMissesTotal.WithLabelValues(domain).Inc()
		return false
	}

	if err := json.Unmarshal(e.Payload, out); err != nil {
		observability.CacheMissesTotal.WithLabelValues(domain).Inc()
		return false
	}
	observability.CacheHitsTotal.WithLabelValues(domain).Inc()
	return true
}

func domainOf(key string) string {
	if idx := strings.IndexByte(key, ':'); idx >= 0 {
		return key[:idx]
	}
	return key
}

// Put stores payload under key. Write failures are logged and swallowed:
// losing a cache entry must never lose already-computed results.
func (c *ResultCache) Put(key string, payload any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("cache payload not serializable", "key", key, "error", err)
		return
	}

	doc := c.load()
	doc[key] = entry{Payload: raw, Timestamp: c.now().Unix()}
	c.store(doc)
}

// Clear deletes the backing file. A missing file is fine.
func (c *ResultCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear cache %q: %w", c.path, err)
	}
	return nil
}

// Path returns the backing file location.
func (c *ResultCache) Path() string {
	return c.path
}

func (c *ResultCache) load() document {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return make(document)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil || doc == nil {
		return make(document)
	}
	return doc
}

func (c *ResultCache) store(doc document) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		slog.Warn("cache document not serializable", "error", err)
		return
	}
	if err := util.WriteFileWithDirs(c.path, data, 0o644); err != nil {
		slog.Warn("cache write failed", "path", c.path, "error", err)
	}
}
