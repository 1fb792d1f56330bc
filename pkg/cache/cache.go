package cache

import (
	"sync"
	"time"
)

// Timed is a cache that invalidates elements on a timer basis. It is safe for
// use by concurrent handlers.
type Timed struct {
	mu    sync.Mutex
	ttl   time.Duration
	cache map[string]element
}

// element holds a timestamped value to save.
type element struct {
	value    []byte
	creation time.Time
}

// NewTimed creates a new Timed cache where elements will be invalidated after
// a time in cache corresponding to TTL.
func NewTimed(ttl time.Duration) *Timed {
	return &Timed{
		ttl:   ttl,
		cache: make(map[string]element),
	}
}

// Set assigns a value to a key.
func (c *Timed) Set(key string, val []byte) {
	c.set(key, val, time.Now())
}

// set performs Set's work with the wall clock factored out.
func (c *Timed) set(key string, val []byte, t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = element{
		value:    val,
		creation: t,
	}
}

// Get retrieves a value for a key. The value may not exist or have expired, in
// which case ok will be false.
func (c *Timed) Get(key string) (value []byte, ok bool) {
	return c.get(key, time.Now())
}

// get is like set in that the time is factored out
func (c *Timed) get(key string, t time.Time) (value []byte, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// check if the element is in memory
	el, ok := c.cache[key]
	if !ok {
		return nil, false
	}

	// in memory elements might still be invalid
	if elapsed := t.Sub(el.creation); elapsed > c.ttl {
		delete(c.cache, key)
		return nil, false
	}

	return el.value, true
}

// Sweep deletes every expired element and reports how many were removed.
func (c *Timed) Sweep() int {
	return c.sweep(time.Now())
}

func (c *Timed) sweep(t time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for key, el := range c.cache {
		if t.Sub(el.creation) > c.ttl {
			delete(c.cache, key)
			removed++
		}
	}
	return removed
}

// Len counts the stored elements, expired or not.
func (c *Timed) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}
