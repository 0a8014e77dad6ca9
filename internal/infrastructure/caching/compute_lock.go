// Package caching provides application-wide caching and related utilities.
package caching

import "sync"

// ComputeLock serializes expensive cache-fill computations per key so that
// concurrent misses do not stampede the data source. The first caller
// computes; callers queued behind it should re-check the cache once the lock
// is acquired.
type ComputeLock struct {
	mu   sync.Mutex
	keys map[string]*sync.Mutex
}

// NewComputeLock creates a new instance of a ComputeLock.
func NewComputeLock() *ComputeLock {
	return &ComputeLock{
		keys: make(map[string]*sync.Mutex),
	}
}

// Lock acquires the lock for a given key, blocking until it is available,
// and returns the matching unlock function for use with `defer`.
func (l *ComputeLock) Lock(key string) func() {
	l.mu.Lock()
	keyLock, exists := l.keys[key]
	if !exists {
		keyLock = &sync.Mutex{}
		l.keys[key] = keyLock
	}
	l.mu.Unlock()

	keyLock.Lock()
	return keyLock.Unlock
}
