package bot

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInflightAcquireRelease(t *testing.T) {
	var f inflight

	assert.True(t, f.TryAcquire(1))
	assert.False(t, f.TryAcquire(1))
	assert.True(t, f.TryAcquire(2), "other users are unaffected")

	f.Release(1)
	assert.True(t, f.TryAcquire(1))
}

func TestInflightConcurrentAcquire(t *testing.T) {
	var f inflight

	const attempts = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	acquired := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f.TryAcquire(7) {
				mu.Lock()
				acquired++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, acquired, "exactly one concurrent acquire may win")
}

func TestDedupe(t *testing.T) {
	var d dedupe

	assert.False(t, d.Seen(41))
	assert.True(t, d.Seen(41))
	assert.True(t, d.Seen(41))

	// Only consecutive repeats are suppressed.
	assert.False(t, d.Seen(42))
	assert.False(t, d.Seen(41))
}
