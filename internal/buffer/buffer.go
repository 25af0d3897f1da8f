// Package buffer provides the bounded in-memory queue of pending telemetry
// items. It is the only shared mutable state in the SDK.
package buffer

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/metric"

	"github.com/ashita-ai/noroshi/internal/model"
	"github.com/ashita-ai/noroshi/internal/telemetry"
)

// Buffer is a thread-safe, order-preserving queue of pending items. All
// mutation happens under a single mutex held only for slice operations,
// never across I/O.
type Buffer struct {
	mu      sync.Mutex
	items   []model.Item
	maxSize int
}

// New creates a buffer that reports the size threshold as reached once
// maxSize items are queued.
func New(maxSize int) *Buffer {
	return &Buffer{maxSize: maxSize}
}

// Enqueue appends an item and reports whether the post-append length has
// reached or exceeded the configured maximum.
func (b *Buffer) Enqueue(it model.Item) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, it)
	return len(b.items) >= b.maxSize
}

// DrainAll atomically captures the current contents and resets the buffer.
// An empty result means there is nothing to send. No item is ever returned
// by two drains: the captured slice is handed off whole and the internal
// slice is replaced, not reused.
func (b *Buffer) DrainAll() []model.Item {
	b.mu.Lock()
	defer b.mu.Unlock()
	batch := b.items
	b.items = nil
	return batch
}

// Len returns the current number of buffered items.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// RegisterMetrics registers an observable gauge for buffer depth on the
// global meter provider. No-op instruments when the host app has not
// configured OTEL.
func (b *Buffer) RegisterMetrics() {
	meter := telemetry.Meter("noroshi/buffer")

	_, _ = meter.Int64ObservableGauge("noroshi.buffer.depth",
		metric.WithDescription("Current number of items in the telemetry buffer"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(int64(b.Len()))
			return nil
		}),
	)
}
