// Package dispatch frames buffered batches into signed wire payloads and
// hands them to the transport, either fire-and-forget or blocking with a
// timeout for crash/termination paths.
package dispatch

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/zoobzio/clockz"
	"go.opentelemetry.io/otel/metric"

	"github.com/ashita-ai/noroshi/internal/model"
	"github.com/ashita-ai/noroshi/internal/telemetry"
	"github.com/ashita-ai/noroshi/internal/transport"
)

const (
	headerSignature  = "X-Signature"
	headerProjectKey = "X-Project-Key"
)

// Dispatcher serializes batches and delivers them through the transport.
// Delivery failure never surfaces to application code: a telemetry failure
// must be strictly less severe than the condition it was reporting.
type Dispatcher struct {
	transport  transport.Transport
	secret     []byte
	projectKey string
	logger     *slog.Logger
	clock      clockz.Clock

	droppedItems atomic.Int64 // items lost to serialization failure
}

// New creates a dispatcher signing payloads with the given pre-shared secret.
func New(t transport.Transport, secret, projectKey string, logger *slog.Logger, clock clockz.Clock) *Dispatcher {
	return &Dispatcher{
		transport:  t,
		secret:     []byte(secret),
		projectKey: projectKey,
		logger:     logger,
		clock:      clock,
	}
}

// DispatchAsync frames and sends the batch without awaiting completion.
// An empty batch is dispatched nowhere.
func (d *Dispatcher) DispatchAsync(batch []model.Item) {
	body, headers, ok := d.frame(batch)
	if !ok {
		return
	}
	go func() {
		defer d.recoverPanic()
		if err := d.transport.Send(context.Background(), body, headers); err != nil {
			d.logger.Debug("dispatch: send failed", "error", err, "batch_size", len(batch))
		}
	}()
}

// DispatchSync frames and sends the batch, blocking the caller until the
// transport completes or timeout elapses, whichever comes first. Used on
// crash/termination paths where async work cannot be trusted to finish.
// On timeout the send is abandoned, not retried.
func (d *Dispatcher) DispatchSync(batch []model.Item, timeout time.Duration) {
	body, headers, ok := d.frame(batch)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer d.recoverPanic()
		defer close(done)
		if err := d.transport.Send(ctx, body, headers); err != nil {
			d.logger.Debug("dispatch: sync send failed", "error", err, "batch_size", len(batch))
		}
	}()

	select {
	case <-done:
	case <-d.clock.After(timeout):
		d.logger.Debug("dispatch: sync send timed out", "timeout", timeout, "batch_size", len(batch))
	}
}

// frame serializes the batch envelope and computes its signature headers.
// Returns ok=false for empty batches and for batches that cannot be encoded;
// the latter are dropped silently and counted.
func (d *Dispatcher) frame(batch []model.Item) ([]byte, map[string]string, bool) {
	if len(batch) == 0 {
		return nil, nil, false
	}

	body, err := json.Marshal(model.Envelope{Events: batch})
	if err != nil {
		d.droppedItems.Add(int64(len(batch)))
		d.logger.Debug("dispatch: batch dropped, encode failed", "error", err, "batch_size", len(batch))
		return nil, nil, false
	}

	headers := map[string]string{
		headerSignature: d.sign(body),
	}
	if d.projectKey != "" {
		headers[headerProjectKey] = d.projectKey
	}
	return body, headers, true
}

// sign computes the hex-encoded HMAC-SHA256 of the exact request body.
func (d *Dispatcher) sign(body []byte) string {
	mac := hmac.New(sha256.New, d.secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func (d *Dispatcher) recoverPanic() {
	if r := recover(); r != nil {
		d.logger.Debug("dispatch: transport panicked", "panic", r)
	}
}

// DroppedItems returns the total number of items dropped because their batch
// could not be encoded. A non-zero value indicates data loss.
func (d *Dispatcher) DroppedItems() int64 {
	return d.droppedItems.Load()
}

// RegisterMetrics registers an observable gauge for dropped items on the
// global meter provider.
func (d *Dispatcher) RegisterMetrics() {
	meter := telemetry.Meter("noroshi/dispatch")

	_, _ = meter.Int64ObservableGauge("noroshi.dispatch.dropped_total",
		metric.WithDescription("Total items dropped due to batch encoding failure"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(d.DroppedItems())
			return nil
		}),
	)
}
