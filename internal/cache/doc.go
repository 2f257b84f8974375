// Package cache provides the bounded LRU cache that holds compiled shader
// programs.
//
//	programs := cache.New[Key, *Program](256)
//	p, hit, err := programs.GetOrCompute(key, compile)
//
// Entries are evicted least recently used first once the cache holds more
// than its capacity. Failed computations are not cached.
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
