package cache

import (
	"fmt"
	"sync"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/indicator"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"golang.org/x/sync/singleflight"
)

type Cache interface {
	// GetOrCompute returns the frame of the series, computing it at most once
	GetOrCompute(symbol string, bars []types.Bar, compute func() indicator.Frame) indicator.Frame
	// Stats returns the number of cache hits and misses since the last reset
	Stats() (hits int, misses int)
	Reset()
}

// CacheV1 keeps computed indicator frames so several strategies run over the
// same bars compute indicators once. Stored frames are shared and must not be
// modified by readers. Computes run outside the lock; concurrent callers for
// the same key wait on a single compute.
type CacheV1 struct {
	mu       sync.RWMutex
	inflight singleflight.Group
	frames   map[string]indicator.Frame
	hits     int
	misses   int
}

func NewCacheV1() Cache {
	return &CacheV1{
		mu:     sync.RWMutex{},
		frames: make(map[string]indicator.Frame),
		hits:   0,
		misses: 0,
	}
}

// Key identifies a bar series by symbol, first and last timestamp, and length.
func Key(symbol string, bars []types.Bar) string {
	if len(bars) == 0 {
		return fmt.Sprintf("%s|empty", symbol)
	}

	return fmt.Sprintf("%s|%d|%d|%d", symbol, bars[0].Time.UnixNano(), bars[len(bars)-1].Time.UnixNano(), len(bars))
}

// Reset implements cache.Cache.
func (c *CacheV1) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.frames = make(map[string]indicator.Frame)
	c.hits = 0
	c.misses = 0
}

// Get returns the frame stored under key.
func (c *CacheV1) Get(key string) optional.Option[indicator.Frame] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	frame, ok := c.frames[key]
	if !ok {
		return optional.None[indicator.Frame]()
	}

	return optional.Some(frame)
}

// Set stores frame under key.
func (c *CacheV1) Set(key string, frame indicator.Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.frames[key] = frame
}

// GetOrCompute returns the cached frame for the series or computes and stores it.
// A caller that joins another caller's compute counts as a hit.
func (c *CacheV1) GetOrCompute(symbol string, bars []types.Bar, compute func() indicator.Frame) indicator.Frame {
	key := Key(symbol, bars)

	if frame := c.Get(key); frame.IsSome() {
		c.count(false)

		return frame.Unwrap()
	}

	computed := false
	v, _, _ := c.inflight.Do(key, func() (any, error) {
		// an earlier flight for this key may have stored its frame after the check above
		if frame := c.Get(key); frame.IsSome() {
			return frame.Unwrap(), nil
		}

		computed = true
		frame := compute()
		c.Set(key, frame)

		return frame, nil
	})

	c.count(computed)

	return v.(indicator.Frame)
}

func (c *CacheV1) count(miss bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if miss {
		c.misses++
	} else {
		c.hits++
	}
}

// Stats returns the number of cache hits and misses since the last reset.
func (c *CacheV1) Stats() (hits int, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.hits, c.misses
}
