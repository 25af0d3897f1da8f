// Package noroshi is a client-side telemetry SDK: it captures structured
// error events and hierarchical LLM call traces, batches them in memory, and
// ships them to a collector over a signed channel, without ever risking the
// crash or slowdown of the host application.
//
//	client, err := noroshi.New(
//	    noroshi.WithEndpoint("https://ingest.example.com"),
//	    noroshi.WithSecret(secret),
//	    noroshi.WithRelease("1.4.2"),
//	)
//	if err != nil { ... }
//	defer client.Close()
//
//	client.Capture(noroshi.Event{ErrorType: "NetworkError", Message: "timeout"})
//
//	trace := client.StartTrace(noroshi.TraceOptions{Name: "chat-completion"})
//	span := trace.StartSpan(noroshi.SpanOptions{Kind: noroshi.SpanKindGeneration, Name: "llm-call"})
//	span.End(noroshi.SpanEndOptions{OutputTokens: noroshi.Ptr(128)})
//	trace.End(noroshi.TraceEndOptions{})
//
// Delivery is best-effort and fire-and-forget: telemetry loss is acceptable,
// application correctness is not. Nothing in this package panics into the
// caller or returns an error after construction.
package noroshi

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/zoobzio/clockz"

	"github.com/ashita-ai/noroshi/internal/buffer"
	"github.com/ashita-ai/noroshi/internal/config"
	"github.com/ashita-ai/noroshi/internal/dispatch"
	"github.com/ashita-ai/noroshi/internal/hostinfo"
	"github.com/ashita-ai/noroshi/internal/model"
	"github.com/ashita-ai/noroshi/internal/transport"
)

// Client is the telemetry facade. It owns the event buffer and the periodic
// flush scheduler, and holds the dispatcher's transport collaborator.
// All methods are safe for concurrent use.
type Client struct {
	cfg       config.Config
	logger    *slog.Logger
	clock     clockz.Clock
	buf       *buffer.Buffer
	disp      *dispatch.Dispatcher
	device    DeviceInfoProvider
	lifecycle LifecycleSource

	cancelLoop context.CancelFunc
	loopDone   chan struct{}
	closeOnce  sync.Once
}

// New constructs a Client and starts its background flush scheduler.
// Configuration is read from NOROSHI_* environment variables (a .env file is
// honored if present), then option overrides are applied. A malformed
// endpoint or missing secret is a fatal misconfiguration reported here;
// this is the only point where the SDK returns an error.
func New(opts ...Option) (*Client, error) {
	o := resolvedOptions{}
	for _, fn := range opts {
		fn(&o)
	}

	// Load .env file if present (non-fatal; production won't have one).
	_ = godotenv.Load()

	cfg := config.Load()
	o.applyTo(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("noroshi: %w", err)
	}

	logger := o.logger
	if logger == nil {
		if cfg.Debug {
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		} else {
			logger = slog.Default()
		}
	}

	clock := o.clock
	if clock == nil {
		clock = clockz.RealClock
	}

	tp := o.transport
	if tp == nil {
		tp = transport.NewHTTP(cfg.Endpoint, o.httpClient)
	}

	device := o.device
	if device == nil {
		device = hostinfo.Provider{}
	}

	lifecycle := o.lifecycle
	if lifecycle == nil {
		lifecycle = NoopLifecycle{}
	}

	c := &Client{
		cfg:       cfg,
		logger:    logger,
		clock:     clock,
		buf:       buffer.New(cfg.MaxBufferSize),
		disp:      dispatch.New(tp, cfg.Secret, cfg.ProjectKey, logger, clock),
		device:    device,
		lifecycle: lifecycle,
		loopDone:  make(chan struct{}),
	}
	c.buf.RegisterMetrics()
	c.disp.RegisterMetrics()

	loopCtx, cancel := context.WithCancel(context.Background())
	c.cancelLoop = cancel
	go c.flushLoop(loopCtx)

	c.lifecycle.Notify(LifecycleHooks{
		OnBackground: c.Flush,
		OnTerminate:  c.FlushSync,
	})

	return c, nil
}

// Event is the caller-facing input for Capture. Only ErrorType and Message
// are required; everything else defaults or stays absent on the wire.
type Event struct {
	ErrorType  string
	Message    string
	Stack      string
	Route      string
	Screen     string
	HTTPStatus int
	RequestID  string
	Metadata   map[string]any
}

// Capture constructs an immutable event record and enqueues it. Caller
// metadata is merged over the DeviceInfoProvider baseline, caller values
// winning on key collision. Crossing the buffer size threshold triggers an
// immediate flush on the caller's path (the network send stays async).
func (c *Client) Capture(e Event) {
	rec := model.EventRecord{
		Timestamp:   c.clock.Now().UnixMilli(),
		Source:      c.cfg.Source,
		Environment: c.cfg.Environment,
		Release:     c.cfg.Release,
		ErrorType:   e.ErrorType,
		Message:     e.Message,

		AppVersion:       optString(c.cfg.AppVersion),
		BuildNumber:      optString(c.cfg.BuildNumber),
		RouteOrProcedure: optString(e.Route),
		Screen:           optString(e.Screen),
		RequestID:        optString(e.RequestID),
		Metadata:         mergeMetadata(c.device.DeviceInfo(), e.Metadata),
	}
	if e.Stack != "" {
		rec.Stack = Ptr(model.TruncateStack(e.Stack))
	}
	if e.HTTPStatus != 0 {
		rec.HTTPStatus = Ptr(e.HTTPStatus)
	}
	c.enqueueItem(rec)
}

// Flush drains the buffer and dispatches the batch asynchronously. Safe to
// call at any time; an empty buffer is a no-op.
func (c *Client) Flush() {
	c.disp.DispatchAsync(c.buf.DrainAll())
}

// FlushSync drains the buffer and dispatches the batch, blocking until the
// transport completes or the configured sync timeout elapses. Intended for
// crash handlers and termination hooks where async work cannot be trusted
// to finish.
func (c *Client) FlushSync() {
	c.disp.DispatchSync(c.buf.DrainAll(), c.cfg.SyncTimeout)
}

// Close cancels the periodic scheduler, detaches lifecycle hooks, and
// performs one final FlushSync. Repeated calls are harmless no-ops.
// Capturing after Close is a caller contract violation: the scheduler is
// stopped, so such items would only ever leave via a manual Flush.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.cancelLoop()
		<-c.loopDone
		c.lifecycle.Detach()
		c.FlushSync()
	})
}

// flushLoop fires an async flush every FlushInterval, independent of buffer
// occupancy. It may race with size-triggered flushes; the buffer's atomic
// drain makes the race benign: the loser drains an empty buffer.
func (c *Client) flushLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(c.loopDone)
			return
		case <-c.clock.After(c.cfg.FlushInterval):
			c.Flush()
		}
	}
}

// enqueueItem is the single buffering path shared by Capture and Trace.End.
func (c *Client) enqueueItem(it model.Item) {
	if c.buf.Enqueue(it) {
		c.Flush()
	}
}

// Ptr returns a pointer to v. Convenience for optional fields in
// SpanEndOptions and TraceEndOptions.
func Ptr[T any](v T) *T { return &v }

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// mergeMetadata layers caller metadata over the device baseline, caller
// values winning. Returns nil when both sides are empty so the wire key is
// omitted entirely.
func mergeMetadata(base, caller map[string]any) map[string]any {
	if len(base) == 0 && len(caller) == 0 {
		return nil
	}
	merged := make(map[string]any, len(base)+len(caller))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range caller {
		merged[k] = v
	}
	return merged
}
