package engine

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// parseCache memoizes parsed templates by path. Concurrent misses for the same
// path share a single load. Only parsed structure is cached, never output.
type parseCache[T any] struct {
	items    map[string]T
	group    singleflight.Group
	mu       sync.RWMutex
	disabled bool
}

func newParseCache[T any](disabled bool) *parseCache[T] {
	return &parseCache[T]{items: make(map[string]T), disabled: disabled}
}

func (c *parseCache[T]) get(key string, load func() (T, error)) (T, error) {
	if c.disabled {
		return load()
	}

	c.mu.RLock()
	v, ok := c.items[key]
	c.mu.RUnlock()
	if ok {
		return v, nil
	}

	out, err, _ := c.group.Do(key, func() (any, error) {
		loaded, err := load()
		if err != nil {
			return loaded, err
		}
		c.mu.Lock()
		c.items[key] = loaded
		c.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out.(T), nil
}
