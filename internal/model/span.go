package model

// SpanKind categorizes a span within an LLM call trace.
type SpanKind string

const (
	SpanKindGeneration SpanKind = "generation"
	SpanKindTool       SpanKind = "tool"
	SpanKindRetrieval  SpanKind = "retrieval"
	SpanKindCustom     SpanKind = "custom"
)

// SpanStatus is the terminal status of a span.
type SpanStatus string

const (
	SpanStatusOK    SpanStatus = "ok"
	SpanStatusError SpanStatus = "error"
)

// SpanRecord is the wire form of a span at a point in its lifecycle. A span
// that was never closed serializes with Status "ok" and no closing fields.
type SpanRecord struct {
	ID        string     `json:"id"`
	SpanType  SpanKind   `json:"span_type"`
	Name      string     `json:"name"`
	StartedAt int64      `json:"started_at"`
	Status    SpanStatus `json:"status"`

	ParentSpanID       *string        `json:"parent_span_id,omitempty"`
	Model              *string        `json:"model,omitempty"`
	Provider           *string        `json:"provider,omitempty"`
	InputTokens        *int           `json:"input_tokens,omitempty"`
	OutputTokens       *int           `json:"output_tokens,omitempty"`
	Cost               *float64       `json:"cost,omitempty"`
	LatencyMS          *int64         `json:"latency_ms,omitempty"`
	TimeToFirstTokenMS *int64         `json:"time_to_first_token_ms,omitempty"`
	ErrorMessage       *string        `json:"error_message,omitempty"`
	Input              *string        `json:"input,omitempty"`
	Output             *string        `json:"output,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
}
