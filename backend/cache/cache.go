package cache

import (
	"errors"
	"fmt"
	"github.com/dgraph-io/badger/v4"
	"satchel/backend/logging"
	"time"
)

// Cache holds gateway responses on disk, keyed by a gateway independent
// content key. A nil *Cache is valid and caches nothing.
type Cache struct {
	db  *badger.DB
	ttl time.Duration
}

// Open opens (or creates) the cache in dir. An empty dir returns a nil cache,
// which turns every operation into a no-op.
func Open(dir string, ttl time.Duration) (*Cache, error) {
	if len(dir) == 0 {
		return nil, nil
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	logging.Log.Infof("Gateway cache opened at %s (ttl %s)", dir, ttl)
	return &Cache{db: db, ttl: ttl}, nil
}

// Get returns the cached value for key, if present and not yet expired
func (c *Cache) Get(key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}

	var data []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}

		data, err = item.ValueCopy(nil)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false
	} else if err != nil {
		logging.Log.Warnf("Error reading cache key %s: %v", key, err)
		return nil, false
	}

	return data, true
}

func (c *Cache) Put(key string, data []byte) error {
	if c == nil {
		return nil
	}

	return c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), data)
		if c.ttl > 0 {
			entry = entry.WithTTL(c.ttl)
		}

		return txn.SetEntry(entry)
	})
}

func (c *Cache) Delete(key string) error {
	if c == nil {
		return nil
	}

	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// RunGC reclaims space in the value log left behind by expired and
// overwritten entries.
func (c *Cache) RunGC() {
	if c == nil {
		return
	}

	count := 0
	for {
		err := c.db.RunValueLogGC(0.5)
		if err != nil {
			if !errors.Is(err, badger.ErrNoRewrite) {
				logging.Log.Warnf("Cache GC error: %v", err)
			}

			break
		}

		count++
	}

	logging.Log.Debugf("Cache GC rewrote %d value log files", count)
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}

	return c.db.Close()
}
