package noroshi

import (
	"github.com/google/uuid"
	"github.com/zoobzio/clockz"

	"github.com/ashita-ai/noroshi/internal/model"
)

// Re-exported enums for the public trace API.
type (
	SpanKind    = model.SpanKind
	SpanStatus  = model.SpanStatus
	TraceStatus = model.TraceStatus
)

const (
	SpanKindGeneration = model.SpanKindGeneration
	SpanKindTool       = model.SpanKindTool
	SpanKindRetrieval  = model.SpanKindRetrieval
	SpanKindCustom     = model.SpanKindCustom

	SpanStatusOK    = model.SpanStatusOK
	SpanStatusError = model.SpanStatusError

	TraceStatusCompleted = model.TraceStatusCompleted
	TraceStatusError     = model.TraceStatusError
)

// itemSink is the enqueue capability injected into traces so End can hand
// the serialized trace back for buffering without a facade back-reference.
type itemSink interface {
	enqueueItem(it model.Item)
}

// TraceOptions are the construction inputs for StartTrace.
type TraceOptions struct {
	Name          string
	SessionID     string
	UserID        string
	Input         string
	Metadata      map[string]any
	PromptName    string
	PromptVersion string
}

// Trace is a named, timed operation envelope owning an ordered sequence of
// spans. Spans are append-only; the sequence never shrinks. A Trace is
// mutable until End and serializes deterministically at any point in its
// lifecycle: open spans simply render without closing fields.
//
// A Trace is meant to be mutated from a single logical call site. No
// internal locking is provided for concurrent StartSpan on the same Trace.
type Trace struct {
	id        string
	name      string
	startedAt int64

	sessionID     *string
	userID        *string
	input         *string
	metadata      map[string]any
	promptName    *string
	promptVersion *string

	status  model.TraceStatus
	output  *string
	endedAt *int64
	spans   []*Span

	sink  itemSink
	clock clockz.Clock
}

// StartTrace constructs a new running Trace bound to this client. Nothing is
// buffered until the trace's End.
func (c *Client) StartTrace(opts TraceOptions) *Trace {
	return &Trace{
		id:            uuid.New().String(),
		name:          opts.Name,
		startedAt:     c.clock.Now().UnixMilli(),
		sessionID:     optString(opts.SessionID),
		userID:        optString(opts.UserID),
		input:         optString(opts.Input),
		metadata:      opts.Metadata,
		promptName:    optString(opts.PromptName),
		promptVersion: optString(opts.PromptVersion),
		status:        model.TraceStatusRunning,
		sink:          c,
		clock:         c.clock,
	}
}

// ID returns the trace identifier.
func (t *Trace) ID() string { return t.id }

// Spans returns the owned spans in start order.
func (t *Trace) Spans() []*Span {
	out := make([]*Span, len(t.spans))
	copy(out, t.spans)
	return out
}

// SpanOptions are the construction inputs for StartSpan.
type SpanOptions struct {
	Kind         SpanKind // defaults to SpanKindCustom
	Name         string
	ParentSpanID string // back-reference for client-side tree reconstruction
	Model        string
	Provider     string
	Input        string
	Metadata     map[string]any
}

// StartSpan appends a new open span to the trace and returns it.
func (t *Trace) StartSpan(opts SpanOptions) *Span {
	kind := opts.Kind
	if kind == "" {
		kind = model.SpanKindCustom
	}
	s := &Span{
		id:           uuid.New().String(),
		kind:         kind,
		name:         opts.Name,
		startedAt:    t.clock.Now().UnixMilli(),
		parentSpanID: optString(opts.ParentSpanID),
		model:        optString(opts.Model),
		provider:     optString(opts.Provider),
		input:        optString(opts.Input),
		metadata:     opts.Metadata,
		clock:        t.clock,
	}
	t.spans = append(t.spans, s)
	return s
}

// TraceEndOptions are the closing inputs for Trace.End.
type TraceEndOptions struct {
	Status TraceStatus // defaults to TraceStatusCompleted
	Output *string     // overwrites the trace output when set
}

// End closes the trace: it sets the end timestamp and status, optionally
// overwrites the output, and hands a full snapshot (including any spans
// still open) to the client for buffering. Calling End again overwrites the
// closing fields and enqueues a fresh snapshot; this mirrors the collector's
// last-write-wins semantics and is deliberate.
func (t *Trace) End(opts TraceEndOptions) {
	now := t.clock.Now().UnixMilli()
	t.endedAt = &now

	t.status = opts.Status
	if t.status == "" {
		t.status = model.TraceStatusCompleted
	}
	if opts.Output != nil {
		t.output = opts.Output
	}

	t.sink.enqueueItem(t.record())
}

// record snapshots the full current state of the trace and every owned span.
func (t *Trace) record() model.TraceRecord {
	spans := make([]model.SpanRecord, len(t.spans))
	for i, s := range t.spans {
		spans[i] = s.record()
	}
	return model.TraceRecord{
		ID:            t.id,
		Name:          t.name,
		Status:        t.status,
		StartedAt:     t.startedAt,
		Spans:         spans,
		SessionID:     t.sessionID,
		UserID:        t.userID,
		Input:         t.input,
		Output:        t.output,
		Metadata:      t.metadata,
		PromptName:    t.promptName,
		PromptVersion: t.promptVersion,
		EndedAt:       t.endedAt,
	}
}

// Span is one timed sub-operation within a Trace. Its identity is assigned
// at construction and immutable; closing fields are absent until End.
type Span struct {
	id           string
	kind         model.SpanKind
	name         string
	startedAt    int64
	parentSpanID *string
	model        *string
	provider     *string
	input        *string
	metadata     map[string]any

	ended        bool
	status       model.SpanStatus
	inputTokens  *int
	outputTokens *int
	cost         *float64
	latencyMS    *int64
	firstTokenAt int64 // 0 until MarkFirstToken
	errorMessage *string
	output       *string

	clock clockz.Clock
}

// ID returns the span identifier.
func (s *Span) ID() string { return s.id }

// MarkFirstToken records the instant the first token arrived. The derived
// time_to_first_token_ms appears on the wire only once the span is ended.
func (s *Span) MarkFirstToken() {
	s.firstTokenAt = s.clock.Now().UnixMilli()
}

// SpanEndOptions are the closing inputs for Span.End. Pointer fields
// distinguish "absent" from zero.
type SpanEndOptions struct {
	Status       SpanStatus // defaults to SpanStatusOK
	InputTokens  *int
	OutputTokens *int
	Cost         *float64
	ErrorMessage *string
	Output       *string
}

// End closes the span, computing latency from the injected clock. A second
// End silently overwrites all closing fields; last write wins, matching the
// collector's semantics.
func (s *Span) End(opts SpanEndOptions) {
	now := s.clock.Now().UnixMilli()

	s.ended = true
	s.status = opts.Status
	if s.status == "" {
		s.status = model.SpanStatusOK
	}

	latency := now - s.startedAt
	if latency < 0 {
		latency = 0
	}
	s.latencyMS = &latency

	s.inputTokens = opts.InputTokens
	s.outputTokens = opts.OutputTokens
	s.cost = opts.Cost
	s.errorMessage = opts.ErrorMessage
	s.output = opts.Output
}

// record snapshots the span's current wire state. Open spans render with
// status "ok" and no closing fields.
func (s *Span) record() model.SpanRecord {
	rec := model.SpanRecord{
		ID:           s.id,
		SpanType:     s.kind,
		Name:         s.name,
		StartedAt:    s.startedAt,
		Status:       model.SpanStatusOK,
		ParentSpanID: s.parentSpanID,
		Model:        s.model,
		Provider:     s.provider,
		Input:        s.input,
		Metadata:     s.metadata,
	}
	if !s.ended {
		return rec
	}

	rec.Status = s.status
	rec.InputTokens = s.inputTokens
	rec.OutputTokens = s.outputTokens
	rec.Cost = s.cost
	rec.LatencyMS = s.latencyMS
	rec.ErrorMessage = s.errorMessage
	rec.Output = s.output
	if s.firstTokenAt > 0 {
		ttft := s.firstTokenAt - s.startedAt
		if ttft < 0 {
			ttft = 0
		}
		rec.TimeToFirstTokenMS = &ttft
	}
	return rec
}
