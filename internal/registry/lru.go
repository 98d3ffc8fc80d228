package registry

import (
	"container/list"

	"metabind/internal/analyze"
	"metabind/internal/model"
)

// lruEntry represents an entry in the model cache.
type lruEntry struct {
	key   analyze.TypeID
	value *model.ComponentModel
}

// lru is the LRU ordering of cached models. It is not synchronized; Registry
// guards it with its cache mutex.
type lru struct {
	maxSize int // <= 0 means unbounded
	items   map[analyze.TypeID]*list.Element
	order   *list.List
}

func newLRU(maxSize int) *lru {
	return &lru{
		maxSize: maxSize,
		items:   make(map[analyze.TypeID]*list.Element),
		order:   list.New(),
	}
}

// get returns the model and marks it as recently used.
func (c *lru) get(key analyze.TypeID) (*model.ComponentModel, bool) {
	element, ok := c.items[key]
	if !ok {
		return nil, false
	}

	c.order.MoveToFront(element)

	return element.Value.(*lruEntry).value, true
}

// peek returns the model without touching the ordering.
func (c *lru) peek(key analyze.TypeID) (*model.ComponentModel, bool) {
	element, ok := c.items[key]
	if !ok {
		return nil, false
	}

	return element.Value.(*lruEntry).value, true
}

// put stores a model and returns the keys evicted to make room.
func (c *lru) put(key analyze.TypeID, value *model.ComponentModel) []analyze.TypeID {
	if element, ok := c.items[key]; ok {
		element.Value.(*lruEntry).value = value
		c.order.MoveToFront(element)
		return nil
	}

	c.items[key] = c.order.PushFront(&lruEntry{key: key, value: value})

	var evicted []analyze.TypeID
	for c.maxSize > 0 && len(c.items) > c.maxSize {
		back := c.order.Back()
		entry := back.Value.(*lruEntry)
		c.order.Remove(back)
		delete(c.items, entry.key)
		evicted = append(evicted, entry.key)
	}

	return evicted
}

func (c *lru) remove(key analyze.TypeID) bool {
	element, ok := c.items[key]
	if !ok {
		return false
	}

	c.order.Remove(element)
	delete(c.items, key)

	return true
}

func (c *lru) clear() int {
	n := len(c.items)
	c.items = make(map[analyze.TypeID]*list.Element)
	c.order.Init()

	return n
}

func (c *lru) len() int {
	return len(c.items)
}
