package catalog

import (
	"container/list"
	"sync"
	"time"
)

type cacheEntry struct {
	slug    string
	product Product
	expires time.Time
}

// detailCache is an LRU of product details with per-entry expiry. Safe for
// concurrent use.
type detailCache struct {
	capacity int
	ttl      time.Duration

	mu       sync.Mutex
	items    map[string]*list.Element
	eviction *list.List
}

func newDetailCache(capacity int, ttl time.Duration) *detailCache {
	return &detailCache{
		capacity: max(capacity, 1),
		ttl:      ttl,
		items:    make(map[string]*list.Element),
		eviction: list.New(),
	}
}

func (c *detailCache) get(slug string) (Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[slug]
	if !ok {
		return Product{}, false
	}
	entry := elem.Value.(*cacheEntry)
	if time.Now().After(entry.expires) {
		c.eviction.Remove(elem)
		delete(c.items, slug)
		return Product{}, false
	}
	c.eviction.MoveToFront(elem)
	return entry.product, true
}

func (c *detailCache) put(slug string, p Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[slug]; ok {
		entry := elem.Value.(*cacheEntry)
		entry.product = p
		entry.expires = time.Now().Add(c.ttl)
		c.eviction.MoveToFront(elem)
		return
	}

	elem := c.eviction.PushFront(&cacheEntry{slug: slug, product: p, expires: time.Now().Add(c.ttl)})
	c.items[slug] = elem

	if c.eviction.Len() > c.capacity {
		oldest := c.eviction.Back()
		c.eviction.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).slug)
	}
}

func (c *detailCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.eviction.Init()
}
