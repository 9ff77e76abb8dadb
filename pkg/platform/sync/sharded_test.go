package sync

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShardedMutexSerializesSameKey(t *testing.T) {
	m := NewShardedMutex()
	counter := 0
	var wg sync.WaitGroup

	for range 200 {
		wg.Go(func() {
			l := m.For("doctor-1")
			l.Lock()
			defer l.Unlock()
			counter++
		})
	}
	wg.Wait()

	assert.Equal(t, 200, counter)
}

func TestShardedMutexKeyIsStable(t *testing.T) {
	m := NewShardedMutex()
	for i := range 50 {
		key := fmt.Sprintf("appointment-%d", i)
		assert.Same(t, m.For(key), m.For(key))
	}
}

func TestShardedMutexDistributesKeys(t *testing.T) {
	m := NewShardedMutex()
	shards := make(map[int]struct{})
	for i := range 100 {
		shards[m.shardFor(fmt.Sprintf("doctor-%d", i))] = struct{}{}
	}
	assert.Greater(t, len(shards), DefaultShards/4)
}

func TestShardedMutexSingleShardBlocksEveryKey(t *testing.T) {
	m := NewShardedMutexN(0)
	m.Lock("a")

	acquired := make(chan struct{})
	go func() {
		m.Lock("b")
		close(acquired)
		m.Unlock("b")
	}()

	select {
	case <-acquired:
		t.Fatal("second key acquired a held shard")
	case <-time.After(50 * time.Millisecond):
	}
	m.Unlock("a")
	<-acquired
}
