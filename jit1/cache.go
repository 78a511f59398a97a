//go:build linux && amd64

package jit1

import (
	"context"
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// Cache memoizes compiled shaders by fingerprint, evicting least recently
// used entries. Eviction frees the shader's code buffer, so the caller must
// not hold onto evicted shaders across invocations; the intended use is a
// single dispatch loop asking for the current program each draw.
type Cache struct {
	mu  sync.Mutex
	lru *simplelru.LRU[Fingerprint, *Shader]
}

// NewCache creates a cache holding at most size shaders.
func NewCache(size int) (*Cache, error) {
	lru, err := simplelru.NewLRU(size, func(_ Fingerprint, s *Shader) {
		s.Free()
	})
	if err != nil {
		return nil, err
	}
	return &Cache{lru: lru}, nil
}

// Get returns the compiled shader for the program, compiling it on a miss.
func (c *Cache) Get(ctx context.Context, words, swizzle []uint32) (*Shader, error) {
	fp := FingerprintOf(words, swizzle)
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.lru.Get(fp); ok {
		return s, nil
	}
	s, err := Compile(ctx, words, swizzle)
	if err != nil {
		return nil, err
	}
	c.lru.Add(fp, s)
	return s, nil
}

// Len returns the number of resident shaders.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Purge drops and frees every resident shader.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}
