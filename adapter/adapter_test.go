package adapter

import (
	"testing"
	"time"

	"github.com/pithecene-io/adbpush/types"
)

func TestNewBatchCompletedEvent(t *testing.T) {
	started := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	event := NewBatchCompletedEvent(Batch{
		ID:          "batch-001",
		SessionID:   "session-001",
		Device:      "ABC123",
		Destination: "/storage/emulated/0/Downloads",
		Outcomes: []types.TransferOutcome{
			{Source: "a", Status: types.OutcomeSent},
			{Source: "b", Status: types.OutcomeFailed},
			{Source: "c", Status: types.OutcomeSent, ExitCode: 1},
		},
		Started:  started,
		Finished: started.Add(1500 * time.Millisecond),
	})

	if event.EventType != EventTypeBatchCompleted {
		t.Errorf("EventType = %q", event.EventType)
	}
	if event.ContractVersion != types.ContractVersion {
		t.Errorf("ContractVersion = %q", event.ContractVersion)
	}
	if event.FileCount != 3 || event.Sent != 2 || event.Failed != 1 {
		t.Errorf("counts = %d/%d/%d, want 3/2/1", event.FileCount, event.Sent, event.Failed)
	}
	if event.DurationMs != 1500 {
		t.Errorf("DurationMs = %d, want 1500", event.DurationMs)
	}
	if event.Timestamp != "2026-02-07T12:00:01Z" {
		t.Errorf("Timestamp = %q", event.Timestamp)
	}
	if event.Device != "ABC123" || event.BatchID != "batch-001" || event.SessionID != "session-001" {
		t.Errorf("identity fields = %+v", event)
	}
}
