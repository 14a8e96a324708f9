package sync

import (
	"slices"
	"sync"
)

const shardCount = 32

// ShardedMutex serializes work per entity key. Keys are hashed onto a fixed set
// of shards, so two unrelated keys may share a shard; that only costs throughput.
type ShardedMutex struct {
	shards [shardCount]sync.Mutex
}

// NewShardedMutex creates a new ShardedMutex with 32 shards.
func NewShardedMutex() *ShardedMutex {
	return &ShardedMutex{}
}

// LockKeys acquires the shards of every key and returns a function releasing them.
// Shards are taken once each in ascending order, so callers locking overlapping
// key sets (a student and an asset, say) cannot deadlock each other.
func (m *ShardedMutex) LockKeys(keys ...string) (unlock func()) {
	shards := make([]int, 0, len(keys))
	for _, key := range keys {
		shards = append(shards, m.shardFor(key))
	}
	slices.Sort(shards)
	shards = slices.Compact(shards)

	for _, shard := range shards {
		m.shards[shard].Lock()
	}
	return func() {
		for i := len(shards) - 1; i >= 0; i-- {
			m.shards[shards[i]].Unlock()
		}
	}
}

// shardFor returns the shard index for the given key. Empty keys use shard 0.
func (m *ShardedMutex) shardFor(key string) int {
	if key == "" {
		return 0
	}
	return int(hashString(key) % uint32(len(m.shards)))
}

// hashString provides a simple hash for shard selection.
func hashString(s string) uint32 {
	var h uint32
	for i := 0; i < len(s); i++ {
		h = h*31 + uint32(s[i])
	}
	return h
}
