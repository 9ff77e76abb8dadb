// Package sync serializes work per key inside one process: one doctor's
// agenda, one appointment record.
package sync

import (
	"hash/maphash"
	"sync"
)

// DefaultShards is the shard count used by NewShardedMutex.
const DefaultShards = 64

// ShardedMutex maps keys onto a fixed set of mutexes. Two keys may share a
// shard, so holding one key's lock can block an unrelated key; it never
// lets two holders of the same key run together.
type ShardedMutex struct {
	seed   maphash.Seed
	shards []sync.Mutex
}

// NewShardedMutex creates a ShardedMutex with DefaultShards shards.
func NewShardedMutex() *ShardedMutex {
	return NewShardedMutexN(DefaultShards)
}

// NewShardedMutexN creates a ShardedMutex with n shards; n below 1 means 1.
func NewShardedMutexN(n int) *ShardedMutex {
	if n < 1 {
		n = 1
	}
	return &ShardedMutex{
		seed:   maphash.MakeSeed(),
		shards: make([]sync.Mutex, n),
	}
}

// For returns the lock guarding key.
func (m *ShardedMutex) For(key string) sync.Locker {
	return &m.shards[m.shardFor(key)]
}

func (m *ShardedMutex) Lock(key string) {
	m.shards[m.shardFor(key)].Lock()
}

func (m *ShardedMutex) Unlock(key string) {
	m.shards[m.shardFor(key)].Unlock()
}

func (m *ShardedMutex) shardFor(key string) int {
	if len(m.shards) == 1 {
		return 0
	}
	return int(maphash.String(m.seed, key) % uint64(len(m.shards)))
}
