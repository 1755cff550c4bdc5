// Package transfer copies staged files to the active device.
//
// The orchestrator is stateless between invocations. It does not check
// preconditions (non-empty batch, valid device); the session does that
// before calling it.
package transfer

import (
	"context"
	"time"

	"github.com/pithecene-io/adbpush/bridge"
	"github.com/pithecene-io/adbpush/log"
	"github.com/pithecene-io/adbpush/metrics"
	"github.com/pithecene-io/adbpush/types"
)

// DefaultRemoteRoot is the fixed storage root on the device.
const DefaultRemoteRoot = "/storage/emulated/0/"

// Config configures an Orchestrator.
type Config struct {
	// Runner invokes the bridge (required).
	Runner bridge.Runner
	// RemoteRoot is prepended verbatim to the target fragment.
	// Empty means DefaultRemoteRoot.
	RemoteRoot string
	// Logger receives one entry per push. Nil discards.
	Logger *log.Logger
	// Metrics records push outcomes. Nil disables.
	Metrics *metrics.Collector
}

// Orchestrator pushes files one at a time through the bridge.
type Orchestrator struct {
	runner     bridge.Runner
	remoteRoot string
	logger     *log.Logger
	metrics    *metrics.Collector
}

// New creates an Orchestrator.
func New(cfg Config) *Orchestrator {
	if cfg.RemoteRoot == "" {
		cfg.RemoteRoot = DefaultRemoteRoot
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Nop()
	}
	return &Orchestrator{
		runner:     cfg.Runner,
		remoteRoot: cfg.RemoteRoot,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
	}
}

// RemoteRoot returns the storage root destinations are built from.
func (o *Orchestrator) RemoteRoot() string {
	return o.remoteRoot
}

// Destination returns the remote path for a target fragment: the remote
// root followed by the fragment exactly as typed. No separator is inserted
// and nothing is escaped or normalized.
func (o *Orchestrator) Destination(fragment string) string {
	return o.remoteRoot + fragment
}

// Send pushes every file in order and returns one outcome per file.
// It never stops early and never retries.
func (o *Orchestrator) Send(ctx context.Context, files []string, device types.DeviceID, fragment string) []types.TransferOutcome {
	outcomes := make([]types.TransferOutcome, 0, len(files))
	for outcome := range o.Stream(ctx, files, device, fragment) {
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// Stream pushes every file in order on a background goroutine. Outcomes
// are delivered in file order and the channel is closed after the last one.
// The caller must drain the channel.
func (o *Orchestrator) Stream(ctx context.Context, files []string, device types.DeviceID, fragment string) <-chan types.TransferOutcome {
	files = append([]string(nil), files...)
	dst := o.Destination(fragment)
	out := make(chan types.TransferOutcome)

	go func() {
		defer close(out)
		for _, src := range files {
			out <- o.push(ctx, src, dst, device)
		}
	}()

	return out
}

func (o *Orchestrator) push(ctx context.Context, src, dst string, device types.DeviceID) types.TransferOutcome {
	outcome := types.TransferOutcome{
		Source:      src,
		Destination: dst,
		Device:      device,
	}

	start := time.Now()
	result, err := o.runner.Run(ctx, "push", src, dst)
	outcome.Duration = time.Since(start)

	if err != nil {
		outcome.Status = types.OutcomeFailed
		outcome.Error = err.Error()
		o.metrics.ObservePush(false, 0)
		o.logger.Warn("push failed", map[string]any{
			"source":      src,
			"destination": dst,
			"device":      string(device),
			"error":       err.Error(),
			"launch":      bridge.IsLaunchError(err),
		})
		return outcome
	}

	outcome.Status = types.OutcomeSent
	outcome.Output = result.Stdout
	outcome.ExitCode = result.ExitCode
	o.metrics.ObservePush(true, result.ExitCode)

	fields := map[string]any{
		"source":      src,
		"destination": dst,
		"device":      string(device),
		"exit_code":   result.ExitCode,
		"duration_ms": outcome.Duration.Milliseconds(),
	}
	if result.ExitCode != 0 {
		fields["stderr"] = result.Stderr
		o.logger.Warn("push exited non-zero", fields)
	} else {
		o.logger.Info("push completed", fields)
	}
	return outcome
}
