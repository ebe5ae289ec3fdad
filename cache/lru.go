// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	lru "github.com/hashicorp/golang-lru"
)

// LRU is a typed, size bounded cache recording its hit rate.
type LRU[K comparable, V any] struct {
	cache *lru.Cache
	stats Stats
}

// NewLRU creates a LRU cache of maxSize entries.
// maxSize should be > 0, or an error returned.
func NewLRU[K comparable, V any](maxSize int) (*LRU[K, V], error) {
	cache, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU[K, V]{cache: cache}, nil
}

// Get looks up key.
func (l *LRU[K, V]) Get(key K) (V, bool) {
	if v, ok := l.cache.Get(key); ok {
		l.stats.Hit()
		return v.(V), true
	}
	l.stats.Miss()
	var zero V
	return zero, false
}

// Add adds or replaces the value of key.
func (l *LRU[K, V]) Add(key K, value V) {
	l.cache.Add(key, value)
}

// Purge drops every entry.
func (l *LRU[K, V]) Purge() {
	l.cache.Purge()
}

func (l *LRU[K, V]) Len() int {
	return l.cache.Len()
}

// GetOrLoad returns the cached value of key, loading and caching it on miss.
// Failed loads are not cached.
func (l *LRU[K, V]) GetOrLoad(key K, loader func(K) (V, error)) (V, error) {
	if v, ok := l.Get(key); ok {
		return v, nil
	}
	v, err := loader(key)
	if err != nil {
		return v, err
	}
	l.Add(key, v)
	return v, nil
}

// Stats returns the hit and miss counters.
func (l *LRU[K, V]) Stats() *Stats {
	return &l.stats
}
