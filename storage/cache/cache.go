package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/shulehub/shule/core"
)

var NowFunc = time.Now // mockable

// Entry wraps a cached payload with its write time and a per-key sequence
// number. The sequence only ever grows for a given key; concurrent writers
// race on it and the last write wins.
type Entry struct {
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
	Seq       uint64          `json:"seq"`
}

// Cache is a freshness cache over a core.KVStore. Reads inside the TTL hit;
// anything else, including unreadable entries, is a miss. It never returns
// read errors: a cache that cannot answer simply does not answer.
type Cache struct {
	store core.KVStore
	ttl   time.Duration
}

func New(store core.KVStore, ttl time.Duration) *Cache {
	return &Cache{store: store, ttl: ttl}
}

// Read unmarshals the cached payload for key into v and reports whether the
// entry was present, fresh and well formed.
func (c *Cache) Read(key string, v interface{}) bool {
	entry, ok := c.load(key)
	if !ok {
		return false
	}
	if NowFunc().Sub(entry.Timestamp) >= c.ttl {
		return false
	}
	if err := json.Unmarshal(entry.Payload, v); err != nil {
		return false
	}
	return true
}

// Write replaces the entry for key with v, stamping the current time and the
// next sequence number. A stale or corrupt prior entry still contributes its
// sequence so the number keeps growing across expiries.
func (c *Cache) Write(key string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "marshaling cache entry %q", key)
	}
	var seq uint64
	if prior, ok := c.load(key); ok {
		seq = prior.Seq
	}
	entry := Entry{Payload: payload, Timestamp: NowFunc().UTC(), Seq: seq + 1}
	raw, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrapf(err, "marshaling cache entry %q", key)
	}
	return c.store.Set(context.Background(), key, raw)
}

// Invalidate drops the entry for key. Missing keys are not an error.
func (c *Cache) Invalidate(key string) error {
	return c.store.Delete(context.Background(), key)
}

func (c *Cache) load(key string) (Entry, bool) {
	raw, err := c.store.Get(context.Background(), key)
	if err != nil {
		return Entry{}, false
	}
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Entry{}, false
	}
	if entry.Timestamp.IsZero() || entry.Payload == nil {
		return Entry{}, false
	}
	return entry, true
}
