package model

// TraceStatus is the lifecycle state of a trace.
type TraceStatus string

const (
	TraceStatusRunning   TraceStatus = "running"
	TraceStatusCompleted TraceStatus = "completed"
	TraceStatusError     TraceStatus = "error"
)

// TraceRecord is the wire form of a trace, including the full current state
// of every owned span. Spans is never null; an empty trace serializes with
// an empty array.
type TraceRecord struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Status    TraceStatus  `json:"status"`
	StartedAt int64        `json:"started_at"`
	Spans     []SpanRecord `json:"spans"`

	SessionID     *string        `json:"session_id,omitempty"`
	UserID        *string        `json:"user_id,omitempty"`
	Input         *string        `json:"input,omitempty"`
	Output        *string        `json:"output,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	PromptName    *string        `json:"prompt_name,omitempty"`
	PromptVersion *string        `json:"prompt_version,omitempty"`
	EndedAt       *int64         `json:"ended_at,omitempty"`
}

func (TraceRecord) item() {}
