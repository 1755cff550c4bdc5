// Package device resolves the active device from the bridge's device list.
//
// Only the first listed device is ever resolved; additional devices are
// ignored. Failures never escape Refresh: they degrade to a sentinel
// types.DeviceID so the caller always has something to display.
package device

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pithecene-io/adbpush/bridge"
	"github.com/pithecene-io/adbpush/log"
	"github.com/pithecene-io/adbpush/metrics"
	"github.com/pithecene-io/adbpush/types"
)

// Registry queries the bridge for attached devices.
type Registry struct {
	runner  bridge.Runner
	logger  *log.Logger
	metrics *metrics.Collector
}

// NewRegistry creates a registry. logger and collector may be nil.
func NewRegistry(runner bridge.Runner, logger *log.Logger, collector *metrics.Collector) *Registry {
	if logger == nil {
		logger = log.Nop()
	}
	return &Registry{runner: runner, logger: logger, metrics: collector}
}

// Refresh runs `devices` and resolves the active device identifier.
// When the bridge cannot be launched or does not answer, Refresh returns
// types.BridgeUnavailable.
func (r *Registry) Refresh(ctx context.Context) types.DeviceID {
	result, err := r.runner.Run(ctx, "devices")
	if err != nil {
		r.metrics.IncDeviceRefresh(true)
		r.logger.Warn("device bridge unavailable", map[string]any{
			"error":  err.Error(),
			"launch": bridge.IsLaunchError(err),
		})
		return types.BridgeUnavailable
	}

	id := ParseActive(result.Stdout)
	r.metrics.IncDeviceRefresh(false)
	r.logger.Debug("device refreshed", map[string]any{
		"device":    string(id),
		"exit_code": result.ExitCode,
	})
	return id
}

// Listing is one `devices` answer: every row and the device Refresh would
// resolve from the same output.
type Listing struct {
	Active  types.DeviceID
	Devices []types.Device
}

// List runs `devices` once and returns every device row in output order
// together with the active device.
func (r *Registry) List(ctx context.Context) (*Listing, error) {
	result, err := r.runner.Run(ctx, "devices")
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	if result.ExitCode != 0 {
		return nil, &ExitError{Code: result.ExitCode, Stderr: strings.TrimSpace(result.Stderr)}
	}
	return &Listing{
		Active:  ParseActive(result.Stdout),
		Devices: ParseDevices(result.Stdout),
	}, nil
}

// ExitError is returned by List when the bridge exits non-zero.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("devices exited with status %d", e.Code)
	}
	return fmt.Sprintf("devices exited with status %d: %s", e.Code, e.Stderr)
}

// IsExitError reports whether err is an ExitError.
func IsExitError(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr)
}

// ParseActive resolves the active device from `devices` output.
//
// The first line is the bridge's header. Fewer than two lines means no
// device; otherwise the first whitespace-delimited token of the second line
// is the identifier, or types.NoValidDevice if that line is blank.
func ParseActive(output string) types.DeviceID {
	lines := splitLines(output)
	if len(lines) < 2 {
		return types.NoDevicesFound
	}
	fields := strings.Fields(lines[1])
	if len(fields) == 0 {
		return types.NoValidDevice
	}
	return types.DeviceID(fields[0])
}

// ParseDevices returns every non-blank row after the header.
func ParseDevices(output string) []types.Device {
	lines := splitLines(output)
	if len(lines) < 2 {
		return nil
	}
	devices := make([]types.Device, 0, len(lines)-1)
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		d := types.Device{Serial: fields[0]}
		if len(fields) > 1 {
			d.State = fields[1]
		}
		devices = append(devices, d)
	}
	return devices
}

// splitLines splits on newlines, dropping a trailing \r from each line and
// the empty remainder after a final newline.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
