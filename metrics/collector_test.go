package metrics

import (
	"errors"
	"sync"
	"testing"
)

func TestCollector_Counters(t *testing.T) {
	c := NewCollector("adb", "/storage/emulated/0/", "sess-1")

	c.IncBatchStarted()
	c.IncBatchCompleted()
	c.ObservePush(true, 0)
	c.ObservePush(true, 1)
	c.ObservePush(false, 0)
	c.IncFileStaged()
	c.IncFileStaged()
	c.IncInvalidDrop()
	c.IncPreconditionUnmet("no_files")
	c.IncPreconditionUnmet("no_files")
	c.IncPreconditionUnmet("no_device")
	c.IncDeviceRefresh(false)
	c.IncDeviceRefresh(true)
	c.ObserveNotify(nil)
	c.ObserveNotify(errors.New("boom"))

	s := c.Snapshot()

	checks := []struct {
		name string
		got  int64
		want int64
	}{
		{"BatchesStarted", s.BatchesStarted, 1},
		{"BatchesCompleted", s.BatchesCompleted, 1},
		{"PushSent", s.PushSent, 2},
		{"PushFailed", s.PushFailed, 1},
		{"PushNonZeroExit", s.PushNonZeroExit, 1},
		{"FilesStaged", s.FilesStaged, 2},
		{"InvalidDrops", s.InvalidDrops, 1},
		{"PreconditionsUnmet", s.PreconditionsUnmet, 3},
		{"PreconditionsByReason[no_files]", s.PreconditionsByReason["no_files"], 2},
		{"PreconditionsByReason[no_device]", s.PreconditionsByReason["no_device"], 1},
		{"DeviceRefreshes", s.DeviceRefreshes, 2},
		{"BridgeUnavailable", s.BridgeUnavailable, 1},
		{"NotifySuccess", s.NotifySuccess, 1},
		{"NotifyFailure", s.NotifyFailure, 1},
	}
	for _, chk := range checks {
		if chk.got != chk.want {
			t.Errorf("%s = %d, want %d", chk.name, chk.got, chk.want)
		}
	}
}

func TestCollector_Dimensions(t *testing.T) {
	c := NewCollector("/opt/platform-tools/adb", "/sdcard/", "sess-42")
	s := c.Snapshot()

	if s.Bridge != "/opt/platform-tools/adb" {
		t.Errorf("Bridge = %q", s.Bridge)
	}
	if s.RemoteRoot != "/sdcard/" {
		t.Errorf("RemoteRoot = %q", s.RemoteRoot)
	}
	if s.SessionID != "sess-42" {
		t.Errorf("SessionID = %q", s.SessionID)
	}
}

func TestCollector_SnapshotImmutability(t *testing.T) {
	c := NewCollector("adb", "/storage/emulated/0/", "")
	c.IncPreconditionUnmet("no_files")

	s1 := c.Snapshot()

	c.IncPreconditionUnmet("no_files")
	c.ObservePush(true, 0)

	if s1.PreconditionsByReason["no_files"] != 1 {
		t.Errorf("s1 reasons mutated: %v", s1.PreconditionsByReason)
	}
	if s1.PushSent != 0 {
		t.Errorf("s1.PushSent = %d, want 0 (snapshot should be frozen)", s1.PushSent)
	}

	s2 := c.Snapshot()
	if s2.PreconditionsByReason["no_files"] != 2 {
		t.Errorf("s2 reasons = %v", s2.PreconditionsByReason)
	}
}

func TestCollector_NilSafe(_ *testing.T) {
	var c *Collector
	c.IncBatchStarted()
	c.IncBatchCompleted()
	c.ObservePush(true, 0)
	c.IncFileStaged()
	c.IncInvalidDrop()
	c.IncPreconditionUnmet("no_files")
	c.IncDeviceRefresh(true)
	c.ObserveNotify(nil)
	_ = c.Snapshot()
}

func TestCollector_ConcurrentAccess(t *testing.T) {
	c := NewCollector("adb", "/storage/emulated/0/", "")

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.ObservePush(true, 0)
			c.IncFileStaged()
			_ = c.Snapshot()
		}()
	}
	wg.Wait()

	s := c.Snapshot()
	if s.PushSent != 50 {
		t.Errorf("PushSent = %d, want 50", s.PushSent)
	}
	if s.FilesStaged != 50 {
		t.Errorf("FilesStaged = %d, want 50", s.FilesStaged)
	}
}
