// Package sync provides keyed locking with a bounded memory footprint.
package sync

import (
	base "sync"
)

const replicasPerStripe = 200

// StripedLock consistently maps an unbounded key space onto a fixed set of
// mutexes. Two keys may share a stripe, so callers must not hold more than
// one stripe at a time.
type StripedLock struct {
	stripes []base.Mutex
	ring    *ring
}

// NewStripedLock returns a StripedLock with the given number of stripes.
func NewStripedLock(stripes uint) *StripedLock {
	if stripes == 0 {
		stripes = 1
	}

	return &StripedLock{
		stripes: make([]base.Mutex, stripes),
		ring:    newRing(stripes, replicasPerStripe),
	}
}

// Get returns the mutex guarding key.
func (l *StripedLock) Get(key []byte) *base.Mutex {
	return &l.stripes[l.ring.shard(key)]
}

// Lock acquires the stripe for key and returns its unlock function.
func (l *StripedLock) Lock(key []byte) func() {
	mu := l.Get(key)
	mu.Lock()
	return mu.Unlock
}
