// Package cache provides a weight-bounded LRU cache.
package cache

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Cache is a concurrency-safe LRU cache whose entries each carry a weight.
// Least recently used entries are evicted until the total weight fits the
// budget.
type Cache interface {
	// Insert adds or replaces the entry for key.
	Insert(key string, value interface{}, weight int)

	// Retrieve returns the entry for key and marks it as recently used.
	Retrieve(key string) (interface{}, bool)

	Len() int
	Weight() int
	Budget() int
	Clear()
}

type entry struct {
	prev, next *entry

	key    string
	value  interface{}
	weight int
}

type cache struct {
	log *logrus.Entry

	mu     sync.Mutex
	head   *entry // most recently used
	tail   *entry // least recently used
	lookup map[string]*entry
	weight int
	budget int
}

// New returns an empty cache that holds at most budget total weight.
func New(budget int) Cache {
	return &cache{
		log:    logrus.StandardLogger().WithField("type", "cache"),
		lookup: make(map[string]*entry),
		budget: budget,
	}
}

func (c *cache) Insert(key string, value interface{}, weight int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.lookup[key]; ok {
		c.unlink(existing)
		c.weight -= existing.weight
		delete(c.lookup, key)
	}

	e := &entry{key: key, value: value, weight: weight}
	c.pushFront(e)
	c.lookup[key] = e
	c.weight += weight

	for c.weight > c.budget && c.tail != nil {
		evicted := c.tail
		c.unlink(evicted)
		c.weight -= evicted.weight
		delete(c.lookup, evicted.key)

		c.log.WithFields(logrus.Fields{
			"key":        evicted.key,
			"weight":     evicted.weight,
			"free_space": c.budget - c.weight,
		}).Trace("evicted cache entry")
	}
}

func (c *cache) Retrieve(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lookup[key]
	if !ok {
		return nil, false
	}

	if e != c.head {
		c.unlink(e)
		c.pushFront(e)
	}

	return e.value, true
}

func (c *cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.lookup)
}

func (c *cache) Weight() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.weight
}

func (c *cache) Budget() int {
	return c.budget
}

func (c *cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.head = nil
	c.tail = nil
	c.lookup = make(map[string]*entry)
	c.weight = 0
}

func (c *cache) pushFront(e *entry) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *cache) unlink(e *entry) {
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
	e.prev = nil
	e.next = nil
}
