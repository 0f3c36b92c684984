package csvfile

import (
	"sync"
	"time"

	"github.com/couchcryptid/envdata-hub/internal/domain"
)

// stamp identifies one version of a file on disk.
type stamp struct {
	modTime time.Time
	size    int64
}

// lruCache is a thread-safe LRU cache of loaded datasets keyed by name.
// An entry is valid only for the file version it was loaded from.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key     string
	stamp   stamp
	dataset *domain.Dataset
	prev    *entry
	next    *entry
}

func newLRUCache(maxEntries int) *lruCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

// get returns the cached dataset for key when it was loaded from the file
// version st. A stale entry is dropped.
func (c *lruCache) get(key string, st stamp) (*domain.Dataset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !e.stamp.modTime.Equal(st.modTime) || e.stamp.size != st.size {
		delete(c.entries, key)
		c.remove(e)
		return nil, false
	}
	c.moveToFront(e)
	return e.dataset, true
}

func (c *lruCache) put(key string, st stamp, ds *domain.Dataset) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.stamp = st
		e.dataset = ds
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, stamp: st, dataset: ds}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
	e.prev, e.next = nil, nil
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
