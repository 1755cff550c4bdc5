// Package metrics provides per-process counters for the transfer workflow.
//
// The Collector accumulates counters for the lifetime of one adbpush process.
// It is a leaf package with no internal dependencies; precondition reasons
// are plain strings so callers need not share a type with it.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of all counters.
// Returned by Collector.Snapshot(). Safe to read concurrently after creation.
type Snapshot struct {
	// Batches
	BatchesStarted   int64 `json:"batches_started"`
	BatchesCompleted int64 `json:"batches_completed"`

	// Pushes
	PushSent        int64 `json:"push_sent"`
	PushFailed      int64 `json:"push_failed"`
	PushNonZeroExit int64 `json:"push_nonzero_exit"`

	// Staging
	FilesStaged           int64            `json:"files_staged"`
	InvalidDrops          int64            `json:"invalid_drops"`
	PreconditionsUnmet    int64            `json:"preconditions_unmet"`
	PreconditionsByReason map[string]int64 `json:"preconditions_by_reason"`

	// Device bridge
	DeviceRefreshes   int64 `json:"device_refreshes"`
	BridgeUnavailable int64 `json:"bridge_unavailable"`

	// Notifications
	NotifySuccess int64 `json:"notify_success"`
	NotifyFailure int64 `json:"notify_failure"`

	// Dimensions (informational, set at construction)
	Bridge     string `json:"bridge"`
	RemoteRoot string `json:"remote_root"`
	SessionID  string `json:"session_id"`
}

// Collector accumulates counters.
// Thread-safe via sync.Mutex. All methods are nil-receiver safe so callers
// can run without metrics by passing a nil *Collector.
type Collector struct {
	mu sync.Mutex

	batchesStarted   int64
	batchesCompleted int64

	pushSent        int64
	pushFailed      int64
	pushNonZeroExit int64

	filesStaged           int64
	invalidDrops          int64
	preconditionsUnmet    int64
	preconditionsByReason map[string]int64

	deviceRefreshes   int64
	bridgeUnavailable int64

	notifySuccess int64
	notifyFailure int64

	bridge     string
	remoteRoot string
	sessionID  string
}

// NewCollector creates a Collector with dimension labels.
func NewCollector(bridge, remoteRoot, sessionID string) *Collector {
	return &Collector{
		preconditionsByReason: make(map[string]int64),
		bridge:                bridge,
		remoteRoot:            remoteRoot,
		sessionID:             sessionID,
	}
}

func (c *Collector) add(counter *int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	*counter++
	c.mu.Unlock()
}

// --- Batches ---

// IncBatchStarted records a batch that passed its preconditions.
func (c *Collector) IncBatchStarted() {
	if c == nil {
		return
	}
	c.add(&c.batchesStarted)
}

// IncBatchCompleted records a batch whose every file has an outcome.
func (c *Collector) IncBatchCompleted() {
	if c == nil {
		return
	}
	c.add(&c.batchesCompleted)
}

// --- Pushes ---

// ObservePush records one push outcome. sent is false when the process did
// not run to exit; exitCode is only considered for sent pushes.
func (c *Collector) ObservePush(sent bool, exitCode int) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !sent {
		c.pushFailed++
		return
	}
	c.pushSent++
	if exitCode != 0 {
		c.pushNonZeroExit++
	}
}

// --- Staging ---

// IncFileStaged records a path added to the pending set.
func (c *Collector) IncFileStaged() {
	if c == nil {
		return
	}
	c.add(&c.filesStaged)
}

// IncInvalidDrop records a rejected directory drop.
func (c *Collector) IncInvalidDrop() {
	if c == nil {
		return
	}
	c.add(&c.invalidDrops)
}

// IncPreconditionUnmet records a send request refused before any push.
func (c *Collector) IncPreconditionUnmet(reason string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.preconditionsUnmet++
	c.preconditionsByReason[reason]++
	c.mu.Unlock()
}

// --- Device bridge ---

// IncDeviceRefresh records a device refresh; unavailable marks a refresh
// that could not reach the bridge.
func (c *Collector) IncDeviceRefresh(unavailable bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.deviceRefreshes++
	if unavailable {
		c.bridgeUnavailable++
	}
	c.mu.Unlock()
}

// --- Notifications ---

// ObserveNotify records a batch notification publish attempt.
func (c *Collector) ObserveNotify(err error) {
	if c == nil {
		return
	}
	if err != nil {
		c.add(&c.notifyFailure)
		return
	}
	c.add(&c.notifySuccess)
}

// --- Snapshot ---

// Snapshot returns an immutable point-in-time view of all counters.
// The returned Snapshot is safe to read concurrently; the Collector can
// continue to be mutated independently.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	reasons := make(map[string]int64, len(c.preconditionsByReason))
	for k, v := range c.preconditionsByReason {
		reasons[k] = v
	}

	return Snapshot{
		BatchesStarted:   c.batchesStarted,
		BatchesCompleted: c.batchesCompleted,

		PushSent:        c.pushSent,
		PushFailed:      c.pushFailed,
		PushNonZeroExit: c.pushNonZeroExit,

		FilesStaged:           c.filesStaged,
		InvalidDrops:          c.invalidDrops,
		PreconditionsUnmet:    c.preconditionsUnmet,
		PreconditionsByReason: reasons,

		DeviceRefreshes:   c.deviceRefreshes,
		BridgeUnavailable: c.bridgeUnavailable,

		NotifySuccess: c.notifySuccess,
		NotifyFailure: c.notifyFailure,

		Bridge:     c.bridge,
		RemoteRoot: c.remoteRoot,
		SessionID:  c.sessionID,
	}
}
