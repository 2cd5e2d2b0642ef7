package session

import (
	"hash/fnv"
	"sync"
)

const lockShards = 32

// transitionLocks serializes state transitions per session so that exactly
// one transition is applied (and persisted) at a time. Transitions for the
// same session remain last-write-wins in arrival order.
type transitionLocks struct {
	shards [lockShards]sync.Mutex
}

func (l *transitionLocks) lock(sid string) func() {
	h := fnv.New32a()
	h.Write([]byte(sid))
	mu := &l.shards[h.Sum32()%lockShards]
	mu.Lock()
	return mu.Unlock
}
