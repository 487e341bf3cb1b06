package database

import (
	"container/list"
	"sync"
)

// cacheEntry holds a cached value with its key
type cacheEntry[T any] struct {
	key   string
	value T
}

// lruCache is a size-bounded cache evicting the least recently used entry.
// A max of 0 or less disables eviction.
type lruCache[T any] struct {
	max   int
	items map[string]*list.Element
	order *list.List
	mu    sync.Mutex
}

func newLRUCache[T any](max int) *lruCache[T] {
	return &lruCache[T]{
		max:   max,
		items: make(map[string]*list.Element),
		order: list.New(),
	}
}

func (c *lruCache[T]) get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.items[key]
	if !ok {
		var zero T
		return zero, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry[T]).value, true
}

func (c *lruCache[T]) put(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[key]; ok {
		elem.Value.(*cacheEntry[T]).value = value
		c.order.MoveToFront(elem)
		return
	}
	c.items[key] = c.order.PushFront(&cacheEntry[T]{key: key, value: value})
	if c.max > 0 && c.order.Len() > c.max {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry[T]).key)
	}
}

func (c *lruCache[T]) remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[key]; ok {
		c.order.Remove(elem)
		delete(c.items, key)
	}
}

func (c *lruCache[T]) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.order.Init()
}

func (c *lruCache[T]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
