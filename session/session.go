// Package session owns the drop-target's application state.
//
// A Session holds the pending file set, the active device, the target
// fragment and the output log. All mutations go through its methods and are
// guarded by one mutex, so the TUI, the headless push command and the
// background batch goroutine can share it.
//
// State machine: Idle -> Sending -> Idle. While Sending, new drops are
// accepted and survive the batch; only the files captured when the batch
// started are removed from the pending set when it completes.
package session

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pithecene-io/adbpush/adapter"
	"github.com/pithecene-io/adbpush/log"
	"github.com/pithecene-io/adbpush/metrics"
	"github.com/pithecene-io/adbpush/types"
)

// Messages written to the log when a send request is refused.
const (
	MsgInProgress = "Transfer already in progress."
	MsgNoFiles    = "No files to send."
	MsgNoDevice   = "No valid device connected."
)

// Precondition reasons reported to metrics.
const (
	ReasonInProgress = "in_progress"
	ReasonNoFiles    = "no_files"
	ReasonNoDevice   = "no_device"
)

// NotifyTimeout bounds publishing one batch notification, retries included.
const NotifyTimeout = 30 * time.Second

// EntryKind classifies a log entry.
type EntryKind string

const (
	// KindTransfer is the outcome of one file push.
	KindTransfer EntryKind = "transfer"
	// KindInvalidDrop is a rejected drop (a directory).
	KindInvalidDrop EntryKind = "invalid_drop"
	// KindPrecondition is a refused send request.
	KindPrecondition EntryKind = "precondition"
)

// Entry is one line of the output log.
type Entry struct {
	Time    time.Time              `json:"time" yaml:"time"`
	Kind    EntryKind              `json:"kind" yaml:"kind"`
	Message string                 `json:"message" yaml:"message"`
	// Path is the rejected path of an invalid-drop entry.
	Path    string                 `json:"path,omitempty" yaml:"path,omitempty"`
	Outcome *types.TransferOutcome `json:"outcome,omitempty" yaml:"outcome,omitempty"`
}

// Registry resolves the active device.
type Registry interface {
	Refresh(ctx context.Context) types.DeviceID
}

// Orchestrator pushes a batch of files.
type Orchestrator interface {
	Destination(fragment string) string
	Stream(ctx context.Context, files []string, device types.DeviceID, fragment string) <-chan types.TransferOutcome
}

// Config configures a Session. Registry and Orchestrator are required.
type Config struct {
	Registry     Registry
	Orchestrator Orchestrator
	// Notifier receives one event per completed batch. Nil disables.
	Notifier adapter.Adapter
	Logger   *log.Logger
	Metrics  *metrics.Collector
	// SessionID is generated when empty.
	SessionID string
	// Fragment is the initial target fragment.
	Fragment string
	// Stat classifies dropped paths. Defaults to os.Stat.
	Stat func(name string) (os.FileInfo, error)
	// Now defaults to time.Now.
	Now func() time.Time
}

// Session is the application-state controller.
type Session struct {
	id           string
	registry     Registry
	orchestrator Orchestrator
	notifier     adapter.Adapter
	logger       *log.Logger
	metrics      *metrics.Collector
	stat         func(string) (os.FileInfo, error)
	now          func() time.Time

	mu       sync.Mutex
	pending  []string
	device   types.DeviceID
	fragment string
	entries  []Entry
	sending  bool
	batchID  string
	idle     chan struct{}
}

// New creates an idle session with no device resolved yet.
func New(cfg Config) *Session {
	if cfg.SessionID == "" {
		cfg.SessionID = uuid.NewString()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Nop()
	}
	if cfg.Stat == nil {
		cfg.Stat = os.Stat
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Session{
		id:           cfg.SessionID,
		registry:     cfg.Registry,
		orchestrator: cfg.Orchestrator,
		notifier:     cfg.Notifier,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
		stat:         cfg.Stat,
		now:          cfg.Now,
		fragment:     cfg.Fragment,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Drop stages paths for the next batch and returns how many were staged.
//
// A path that is a directory is rejected with one invalid-drop log entry.
// Anything else is staged, including paths that cannot be stat'ed; the
// bridge reports those when the batch runs. Duplicates are kept.
func (s *Session) Drop(paths ...string) int {
	type classified struct {
		path string
		dir  bool
	}
	items := make([]classified, 0, len(paths))
	for _, p := range paths {
		info, err := s.stat(p)
		items = append(items, classified{path: p, dir: err == nil && info.IsDir()})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	staged := 0
	for _, it := range items {
		if it.dir {
			s.entries = append(s.entries, Entry{
				Time:    s.now(),
				Kind:    KindInvalidDrop,
				Message: fmt.Sprintf("%s is a directory", it.path),
				Path:    it.path,
			})
			s.metrics.IncInvalidDrop()
			s.logger.Info("drop rejected", map[string]any{"path": it.path, "reason": "directory"})
			continue
		}
		s.pending = append(s.pending, it.path)
		s.metrics.IncFileStaged()
		staged++
	}
	return staged
}

// Refresh queries the registry and stores the result. The last refresh
// wins.
func (s *Session) Refresh(ctx context.Context) types.DeviceID {
	id := s.registry.Refresh(ctx)

	s.mu.Lock()
	s.device = id
	s.mu.Unlock()
	return id
}

// Device returns the stored device identifier.
func (s *Session) Device() types.DeviceID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.device
}

// SetFragment replaces the target fragment.
func (s *Session) SetFragment(fragment string) {
	s.mu.Lock()
	s.fragment = fragment
	s.mu.Unlock()
}

// Fragment returns the target fragment.
func (s *Session) Fragment() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fragment
}

// StartSend begins a batch in the background.
//
// Preconditions are checked in order: no batch already running, at least
// one pending file, a real device. The first unmet one is written to the
// log and StartSend returns (nil, false) without contacting the bridge.
//
// Otherwise every outcome is appended to the log as it arrives and also
// delivered on the returned channel, which is buffered for the whole batch
// so a slow reader never stalls the pushes. When the batch ends its files
// are removed from the pending set, a notification is published, and the
// channel is closed.
func (s *Session) StartSend(ctx context.Context) (<-chan types.TransferOutcome, bool) {
	s.mu.Lock()
	reason, msg := s.unmetLocked()
	if reason != "" {
		s.appendLocked(KindPrecondition, msg, nil)
		s.mu.Unlock()
		s.metrics.IncPreconditionUnmet(reason)
		s.logger.Info("send refused", map[string]any{"reason": reason})
		return nil, false
	}

	files := append([]string(nil), s.pending...)
	device := s.device
	fragment := s.fragment
	batchID := uuid.NewString()
	s.sending = true
	s.batchID = batchID
	done := make(chan struct{})
	s.idle = done
	s.mu.Unlock()

	destination := s.orchestrator.Destination(fragment)
	s.metrics.IncBatchStarted()
	s.logger.Info("batch started", map[string]any{
		"batch_id":    batchID,
		"device":      string(device),
		"destination": destination,
		"files":       len(files),
	})

	out := make(chan types.TransferOutcome, len(files))
	started := s.now()
	stream := s.orchestrator.Stream(ctx, files, device, fragment)

	go func() {
		defer close(done)
		defer close(out)

		outcomes := make([]types.TransferOutcome, 0, len(files))
		for outcome := range stream {
			s.mu.Lock()
			s.appendLocked(KindTransfer, outcome.LogLine(), &outcome)
			s.mu.Unlock()
			outcomes = append(outcomes, outcome)
			out <- outcome
		}

		s.mu.Lock()
		// Drops that arrived during the batch sit behind the batch's files.
		s.pending = s.pending[min(len(files), len(s.pending)):]
		s.sending = false
		s.batchID = ""
		s.mu.Unlock()

		finished := s.now()
		s.metrics.IncBatchCompleted()
		s.logger.Info("batch completed", map[string]any{
			"batch_id":    batchID,
			"files":       len(outcomes),
			"duration_ms": finished.Sub(started).Milliseconds(),
		})

		s.notify(ctx, adapter.Batch{
			ID:          batchID,
			SessionID:   s.id,
			Device:      device,
			Destination: destination,
			Outcomes:    outcomes,
			Started:     started,
			Finished:    finished,
		})
	}()

	return out, true
}

// Send runs a batch to completion and returns its outcomes in file order.
// ok is false when a precondition was unmet.
func (s *Session) Send(ctx context.Context) (outcomes []types.TransferOutcome, ok bool) {
	ch, ok := s.StartSend(ctx)
	if !ok {
		return nil, false
	}
	for outcome := range ch {
		outcomes = append(outcomes, outcome)
	}
	return outcomes, true
}

// WaitIdle blocks until the running batch, its notification included, has
// finished or ctx is done. It reports whether the session is idle.
func (s *Session) WaitIdle(ctx context.Context) bool {
	s.mu.Lock()
	done := s.idle
	s.mu.Unlock()
	if done == nil {
		return true
	}
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}

// Sending reports whether a batch is running.
func (s *Session) Sending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending
}

// ClearLog empties the output log.
func (s *Session) ClearLog() {
	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()
}

// ClearPending empties the pending set. It is refused while a batch is
// running, and returns whether the set was cleared.
func (s *Session) ClearPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sending {
		return false
	}
	s.pending = nil
	return true
}

// State is a point-in-time copy of a Session for rendering.
type State struct {
	SessionID   string         `json:"session_id" yaml:"session_id"`
	Pending     []string       `json:"pending" yaml:"pending"`
	Device      types.DeviceID `json:"device" yaml:"device"`
	Fragment    string         `json:"fragment" yaml:"fragment"`
	Destination string         `json:"destination" yaml:"destination"`
	Log         []Entry        `json:"log" yaml:"log"`
	Sending     bool           `json:"sending" yaml:"sending"`
	BatchID     string         `json:"batch_id,omitempty" yaml:"batch_id,omitempty"`
}

// Snapshot copies the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		SessionID:   s.id,
		Pending:     append([]string(nil), s.pending...),
		Device:      s.device,
		Fragment:    s.fragment,
		Destination: s.orchestrator.Destination(s.fragment),
		Log:         append([]Entry(nil), s.entries...),
		Sending:     s.sending,
		BatchID:     s.batchID,
	}
}

func (s *Session) unmetLocked() (reason, msg string) {
	switch {
	case s.sending:
		return ReasonInProgress, MsgInProgress
	case len(s.pending) == 0:
		return ReasonNoFiles, MsgNoFiles
	case !s.device.Valid():
		return ReasonNoDevice, MsgNoDevice
	}
	return "", ""
}

func (s *Session) appendLocked(kind EntryKind, msg string, outcome *types.TransferOutcome) {
	s.entries = append(s.entries, Entry{
		Time:    s.now(),
		Kind:    kind,
		Message: msg,
		Outcome: outcome,
	})
}

func (s *Session) notify(ctx context.Context, batch adapter.Batch) {
	if s.notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), NotifyTimeout)
	defer cancel()

	err := s.notifier.Publish(ctx, adapter.NewBatchCompletedEvent(batch))
	s.metrics.ObserveNotify(err)
	if err != nil {
		s.logger.Warn("batch notification failed", map[string]any{
			"batch_id": batch.ID,
			"error":    err.Error(),
		})
	}
}
