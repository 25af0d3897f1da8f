package model

// MaxStackLen caps the stack text carried on an event record.
const MaxStackLen = 8192

// EventRecord is one immutable error report. Timestamps are epoch
// milliseconds.
type EventRecord struct {
	Timestamp   int64  `json:"timestamp"`
	Source      string `json:"source"`
	Environment string `json:"environment"`
	Release     string `json:"release"`
	ErrorType   string `json:"error_type"`
	Message     string `json:"message"`

	AppVersion       *string        `json:"app_version,omitempty"`
	BuildNumber      *string        `json:"build_number,omitempty"`
	RouteOrProcedure *string        `json:"route_or_procedure,omitempty"`
	Screen           *string        `json:"screen,omitempty"`
	Stack            *string        `json:"stack,omitempty"`
	HTTPStatus       *int           `json:"http_status,omitempty"`
	RequestID        *string        `json:"request_id,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

func (EventRecord) item() {}

// TruncateStack enforces MaxStackLen on stack text.
func TruncateStack(s string) string {
	if len(s) <= MaxStackLen {
		return s
	}
	return s[:MaxStackLen]
}
