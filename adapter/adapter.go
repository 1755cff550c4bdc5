// Package adapter defines the notification boundary for completed batches.
//
// Adapters publish one event per finished transfer batch to a downstream
// system. The session owns adapter lifecycle; users provide configuration
// only.
package adapter

import (
	"context"
	"time"

	"github.com/pithecene-io/adbpush/types"
)

// EventTypeBatchCompleted is the event_type of every published event.
const EventTypeBatchCompleted = "batch_completed"

// BatchCompletedEvent is the payload published when a batch finishes.
type BatchCompletedEvent struct {
	ContractVersion string `json:"contract_version"`
	EventType       string `json:"event_type"` // always "batch_completed"
	BatchID         string `json:"batch_id"`
	SessionID       string `json:"session_id"`
	Device          string `json:"device"`
	Destination     string `json:"destination"`
	FileCount       int    `json:"file_count"`
	Sent            int    `json:"sent"`
	Failed          int    `json:"failed"`
	Timestamp       string `json:"timestamp"` // RFC 3339, batch end
	DurationMs      int64  `json:"duration_ms"`
}

// Batch describes a finished batch for NewBatchCompletedEvent.
type Batch struct {
	ID          string
	SessionID   string
	Device      types.DeviceID
	Destination string
	Outcomes    []types.TransferOutcome
	Started     time.Time
	Finished    time.Time
}

// NewBatchCompletedEvent summarizes a finished batch.
func NewBatchCompletedEvent(b Batch) *BatchCompletedEvent {
	event := &BatchCompletedEvent{
		ContractVersion: types.ContractVersion,
		EventType:       EventTypeBatchCompleted,
		BatchID:         b.ID,
		SessionID:       b.SessionID,
		Device:          string(b.Device),
		Destination:     b.Destination,
		FileCount:       len(b.Outcomes),
		Timestamp:       b.Finished.UTC().Format(time.RFC3339),
		DurationMs:      b.Finished.Sub(b.Started).Milliseconds(),
	}
	for _, o := range b.Outcomes {
		if o.Sent() {
			event.Sent++
		} else {
			event.Failed++
		}
	}
	return event
}

// Adapter publishes batch completion events to a downstream system.
type Adapter interface {
	// Publish sends a batch completion event to the downstream system.
	// Must respect context cancellation and deadlines.
	Publish(ctx context.Context, event *BatchCompletedEvent) error

	// Close releases adapter resources.
	Close() error
}
