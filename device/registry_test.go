package device

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pithecene-io/adbpush/bridge"
	"github.com/pithecene-io/adbpush/bridge/bridgetest"
	"github.com/pithecene-io/adbpush/metrics"
	"github.com/pithecene-io/adbpush/types"
)

func TestParseActive(t *testing.T) {
	long := strings.Repeat("S", 2<<20)

	tests := []struct {
		name   string
		output string
		want   types.DeviceID
	}{
		{"empty output", "", types.NoDevicesFound},
		{"header only", "List of devices attached\n", types.NoDevicesFound},
		{"header without newline", "List of devices attached", types.NoDevicesFound},
		{"one device", "List of devices attached\nABC123\tdevice\n", "ABC123"},
		{"crlf line endings", "List of devices attached\r\nABC123\tdevice\r\n", "ABC123"},
		{"header then blank line", "List of devices attached\n\n", types.NoValidDevice},
		{"whitespace-only device line", "List of devices attached\n   \t \n", types.NoValidDevice},
		{"first device wins", "List of devices attached\nFIRST\tdevice\nSECOND\tdevice\n", "FIRST"},
		{"unauthorized device still resolves", "List of devices attached\nXYZ\tunauthorized\n", "XYZ"},
		{"very long device line", "List of devices attached\n" + long + "\tdevice\n", types.DeviceID(long)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseActive(tt.output); got != tt.want {
				t.Errorf("ParseActive() = %.40q, want %.40q", got, tt.want)
			}
		})
	}
}

func TestParseDevices(t *testing.T) {
	output := "List of devices attached\nABC123\tdevice\n\nemulator-5554\toffline\nLONE\n"

	got := ParseDevices(output)
	want := []types.Device{
		{Serial: "ABC123", State: "device"},
		{Serial: "emulator-5554", State: "offline"},
		{Serial: "LONE"},
	}
	if len(got) != len(want) {
		t.Fatalf("ParseDevices returned %d devices, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("device[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	if devices := ParseDevices("List of devices attached\n"); devices != nil {
		t.Errorf("header only should yield nil, got %+v", devices)
	}
}

func TestRefresh_ResolvesFirstDevice(t *testing.T) {
	runner := bridgetest.NewRunner().Devices("List of devices attached\nABC123\tdevice\n")
	collector := metrics.NewCollector("adb", "/storage/emulated/0/", "")
	r := NewRegistry(runner, nil, collector)

	if got := r.Refresh(t.Context()); got != "ABC123" {
		t.Errorf("Refresh() = %q, want ABC123", got)
	}

	calls := runner.Calls()
	if len(calls) != 1 || len(calls[0]) != 1 || calls[0][0] != "devices" {
		t.Errorf("unexpected bridge calls: %v", calls)
	}
	if s := collector.Snapshot(); s.DeviceRefreshes != 1 || s.BridgeUnavailable != 0 {
		t.Errorf("metrics = %+v", s)
	}
}

func TestRefresh_LaunchFailureIsRecoverable(t *testing.T) {
	launchErr := &bridge.LaunchError{Path: "adb", Args: []string{"devices"}, Err: errors.New("not found")}
	runner := bridgetest.NewRunner().Fail("devices", launchErr)
	collector := metrics.NewCollector("adb", "/storage/emulated/0/", "")
	r := NewRegistry(runner, nil, collector)

	if got := r.Refresh(t.Context()); got != types.BridgeUnavailable {
		t.Errorf("Refresh() = %q, want %q", got, types.BridgeUnavailable)
	}
	if s := collector.Snapshot(); s.BridgeUnavailable != 1 {
		t.Errorf("BridgeUnavailable = %d, want 1", s.BridgeUnavailable)
	}
}

func TestRefresh_TimeoutIsBridgeUnavailable(t *testing.T) {
	runner := bridgetest.NewRunner().Fail("devices", bridge.ErrTimeout)
	r := NewRegistry(runner, nil, nil)

	if got := r.Refresh(t.Context()); got != types.BridgeUnavailable {
		t.Errorf("Refresh() = %q, want %q", got, types.BridgeUnavailable)
	}
}

func TestRefresh_LastRefreshWins(t *testing.T) {
	outputs := []string{
		"List of devices attached\nFIRST\tdevice\n",
		"List of devices attached\n",
	}
	calls := 0
	runner := bridgetest.NewRunner()
	runner.Handler = func(_ context.Context, _ []string) (*bridge.Result, error) {
		out := outputs[calls]
		calls++
		return &bridge.Result{Stdout: out}, nil
	}
	r := NewRegistry(runner, nil, nil)

	if got := r.Refresh(t.Context()); got != "FIRST" {
		t.Fatalf("first Refresh() = %q", got)
	}
	if got := r.Refresh(t.Context()); got != types.NoDevicesFound {
		t.Errorf("second Refresh() = %q, want %q", got, types.NoDevicesFound)
	}
}

func TestList(t *testing.T) {
	runner := bridgetest.NewRunner().Devices("List of devices attached\nA\tdevice\nB\toffline\n")
	r := NewRegistry(runner, nil, nil)

	listing, err := r.List(t.Context())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if listing.Active != "A" {
		t.Errorf("Active = %q, want A", listing.Active)
	}
	devices := listing.Devices
	if len(devices) != 2 || devices[1].Serial != "B" || devices[1].State != "offline" {
		t.Errorf("Devices = %+v", devices)
	}
	if calls := runner.CallsTo("devices"); len(calls) != 1 {
		t.Errorf("devices calls = %d, want 1", len(calls))
	}
}

func TestList_Errors(t *testing.T) {
	t.Run("launch failure", func(t *testing.T) {
		launchErr := &bridge.LaunchError{Path: "adb", Err: errors.New("not found")}
		r := NewRegistry(bridgetest.NewRunner().Fail("devices", launchErr), nil, nil)

		_, err := r.List(t.Context())
		if !bridge.IsLaunchError(err) {
			t.Errorf("expected wrapped LaunchError, got %v", err)
		}
	})

	t.Run("non-zero exit", func(t *testing.T) {
		runner := bridgetest.NewRunner()
		runner.Responses["devices"] = bridgetest.Response{
			Result: &bridge.Result{ExitCode: 1, Stderr: "adb: server version mismatch\n"},
		}
		r := NewRegistry(runner, nil, nil)

		_, err := r.List(t.Context())
		if !IsExitError(err) {
			t.Fatalf("expected ExitError, got %v", err)
		}
		if err.Error() != "devices exited with status 1: adb: server version mismatch" {
			t.Errorf("error = %q", err.Error())
		}
	})
}
