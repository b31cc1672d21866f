package bplus

import (
	"fmt"

	"github.com/dgraph-io/ristretto/v2"
)

// valueCache is a read cache in front of the value store. Every entry has
// cost 1, so capacity is a number of values. A nil *valueCache is a valid,
// always-missing cache.
type valueCache struct {
	c *ristretto.Cache[int64, string]
}

func newValueCache(capacity int64) (*valueCache, error) {
	if capacity <= 0 {
		return nil, nil
	}
	c, err := ristretto.NewCache(&ristretto.Config[int64, string]{
		NumCounters: capacity * 10, // ~10x entries for admission counters
		MaxCost:     capacity,
		BufferItems: 64,
		// cost is an entry count, not bytes
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("value cache: %w", err)
	}
	return &valueCache{c: c}, nil
}

func (vc *valueCache) get(key int64) (string, bool) {
	if vc == nil {
		return "", false
	}
	return vc.c.Get(key)
}

// put admission is best effort; a dropped set only costs a later miss.
func (vc *valueCache) put(key int64, value string) {
	if vc == nil {
		return
	}
	vc.c.Set(key, value, 1)
}

func (vc *valueCache) invalidate(key int64) {
	if vc == nil {
		return
	}
	vc.c.Del(key)
	// Drain the set buffer so a pending put of the old value cannot land
	// after the delete has been observed.
	vc.c.Wait()
}

func (vc *valueCache) close() {
	if vc == nil {
		return
	}
	vc.c.Close()
}
