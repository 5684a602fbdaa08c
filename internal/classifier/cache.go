package classifier

import (
	"container/list"
	"sync"
)

const DefaultCacheSize = 10_000

// Cache remembers identifier classifications. Implementations must be safe
// for concurrent use.
type Cache interface {
	Get(key string) (string, bool)
	Add(key, value string)
}

type lruItem struct {
	key   string
	value string
}

// LRUCache is a bounded least-recently-used Cache.
type LRUCache struct {
	items map[string]*list.Element
	order *list.List
	size  int
	mu    sync.Mutex
}

func NewLRUCache(size int) *LRUCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &LRUCache{
		items: make(map[string]*list.Element, size),
		order: list.New(),
		size:  size,
	}
}

func (c *LRUCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return "", false
	}
	c.order.MoveToFront(el)
	return el.Value.(*lruItem).value, true //nolint: forcetypeassert // only lruItem is stored
}

func (c *LRUCache) Add(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*lruItem).value = value //nolint: forcetypeassert // only lruItem is stored
		c.order.MoveToFront(el)
		return
	}

	c.items[key] = c.order.PushFront(&lruItem{key: key, value: value})
	if c.order.Len() > c.size {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*lruItem).key) //nolint: forcetypeassert // only lruItem is stored
	}
}

func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
