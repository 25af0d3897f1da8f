package buffer

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/noroshi/internal/model"
)

func event(i int) model.EventRecord {
	return model.EventRecord{Message: fmt.Sprintf("event-%d", i)}
}

func TestDrainPreservesEnqueueOrder(t *testing.T) {
	b := New(100)
	for i := 0; i < 10; i++ {
		b.Enqueue(event(i))
	}

	batch := b.DrainAll()
	require.Len(t, batch, 10)
	for i, it := range batch {
		assert.Equal(t, fmt.Sprintf("event-%d", i), it.(model.EventRecord).Message)
	}

	assert.Empty(t, b.DrainAll(), "second drain must be empty")
	assert.Zero(t, b.Len())
}

func TestEnqueueReportsThresholdCrossing(t *testing.T) {
	b := New(3)
	assert.False(t, b.Enqueue(event(0)))
	assert.False(t, b.Enqueue(event(1)))
	assert.True(t, b.Enqueue(event(2)), "third enqueue reaches the threshold")
	assert.True(t, b.Enqueue(event(3)), "still at or above threshold until drained")

	b.DrainAll()
	assert.False(t, b.Enqueue(event(4)), "threshold resets after drain")
}

func TestConcurrentEnqueueLosesNothing(t *testing.T) {
	const workers, perWorker = 50, 20

	b := New(workers*perWorker + 1)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				b.Enqueue(event(w*perWorker + i))
			}
		}(w)
	}
	wg.Wait()

	batch := b.DrainAll()
	require.Len(t, batch, workers*perWorker)

	seen := make(map[string]bool, len(batch))
	for _, it := range batch {
		seen[it.(model.EventRecord).Message] = true
	}
	assert.Len(t, seen, workers*perWorker, "no item delivered twice")
}

func TestConcurrentDrainsNeverShareAnItem(t *testing.T) {
	const total = 1000

	b := New(total + 1)
	for i := 0; i < total; i++ {
		b.Enqueue(event(i))
	}

	var mu sync.Mutex
	seen := make(map[string]int)

	var wg sync.WaitGroup
	for d := 0; d < 10; d++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			batch := b.DrainAll()
			mu.Lock()
			defer mu.Unlock()
			for _, it := range batch {
				seen[it.(model.EventRecord).Message]++
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, total, "every item drained exactly once")
	for msg, n := range seen {
		assert.Equal(t, 1, n, "item %s drained %d times", msg, n)
	}
}
