// Package model defines the collector-facing wire records for Noroshi.
//
// All keys are snake_case. Optional fields are pointers with omitempty so an
// absent value is an omitted key, never null. Records are immutable snapshots:
// once an item enters the buffer it is never touched again by its producer.
package model

// Item is one buffered telemetry record awaiting dispatch: either an
// EventRecord or a TraceRecord.
type Item interface {
	item()
}

// Envelope is the batch payload posted to the collector.
type Envelope struct {
	Events []Item `json:"events"`
}
