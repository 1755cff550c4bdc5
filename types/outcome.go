package types

import (
	"fmt"
	"time"
)

// OutcomeStatus is the result of one attempted file copy.
type OutcomeStatus string

const (
	// OutcomeSent means the bridge process ran. Its exit status is recorded
	// but does not change the status.
	OutcomeSent OutcomeStatus = "sent"
	// OutcomeFailed means the bridge process could not be started, or was
	// stopped by a timeout or cancellation before it finished.
	OutcomeFailed OutcomeStatus = "failed"
)

// TransferOutcome records one attempted file copy. Outcomes are appended to
// the session log and never mutated afterwards.
type TransferOutcome struct {
	Source      string        `json:"source" yaml:"source"`
	Destination string        `json:"destination" yaml:"destination"`
	Device      DeviceID      `json:"device" yaml:"device"`
	Status      OutcomeStatus `json:"status" yaml:"status"`
	// Output is the captured standard output of a launched push.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`
	// Error is the failure reason of a push that did not run to completion.
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
	ExitCode int           `json:"exit_code" yaml:"exit_code"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Sent reports whether the push process was launched and ran to exit.
func (o TransferOutcome) Sent() bool {
	return o.Status == OutcomeSent
}

// LogLine renders the outcome as a single output-log entry.
func (o TransferOutcome) LogLine() string {
	if o.Sent() {
		return fmt.Sprintf("Sent %q to %q: %s", o.Source, o.Destination, o.Output)
	}
	return fmt.Sprintf("Failed to send %q: %s", o.Source, o.Error)
}
