package storage

import (
	"time"

	"github.com/maypok86/otter/v2"
)

// Cache is a TTL cache whose entries expire a fixed interval after creation.
// Updates do not extend the window.
type Cache[T any] struct {
	outer *otter.Cache[string, T]
}

func NewCache[T any](capacity int, ttl time.Duration, onDeletion func(key string, val T)) *Cache[T] {
	c := &Cache[T]{}
	c.outer = otter.Must(&otter.Options[string, T]{
		InitialCapacity:  capacity,
		ExpiryCalculator: otter.ExpiryCreating[string, T](ttl),
		OnDeletion: func(e otter.DeletionEvent[string, T]) {
			if onDeletion != nil {
				onDeletion(e.Key, e.Value)
			}
		},
	})

	return c
}

func (c *Cache[T]) Set(key string, val T) {
	c.outer.Set(key, val)
}

func (c *Cache[T]) Get(key string) (T, bool) {
	return c.outer.GetIfPresent(key)
}

func (c *Cache[T]) Has(key string) bool {
	_, ok := c.outer.GetIfPresent(key)
	return ok
}

func (c *Cache[T]) Delete(key string) {
	c.outer.Invalidate(key)
}

func (c *Cache[T]) Clear() {
	c.outer.InvalidateAll()
}
