package types

// DeviceID identifies the active device reported by the device bridge.
//
// Besides real serials, a DeviceID can hold one of the sentinel values
// below. The zero value means no refresh has happened yet.
type DeviceID string

// Sentinel device identifiers. They are display strings as well as states,
// so the UI can render them directly in the device status line.
const (
	// NoDevicesFound means the bridge listed no device rows.
	NoDevicesFound DeviceID = "No devices found"
	// NoValidDevice means the first device row had no identifier token.
	NoValidDevice DeviceID = "No valid device"
	// BridgeUnavailable means the bridge could not be launched or did not
	// answer in time.
	BridgeUnavailable DeviceID = "Device bridge unavailable"
)

// IsSentinel reports whether d is one of the non-device states, including
// the unset zero value.
func (d DeviceID) IsSentinel() bool {
	switch d {
	case "", NoDevicesFound, NoValidDevice, BridgeUnavailable:
		return true
	default:
		return false
	}
}

// Valid reports whether d names a real device that files can be sent to.
func (d DeviceID) Valid() bool {
	return !d.IsSentinel()
}

// String returns the identifier, or "Not refreshed" for the zero value.
func (d DeviceID) String() string {
	if d == "" {
		return "Not refreshed"
	}
	return string(d)
}

// Device is one row of the bridge's device listing.
type Device struct {
	// Serial is the first whitespace-delimited field of the row.
	Serial string `json:"serial" yaml:"serial"`
	// State is the second field ("device", "offline", "unauthorized", ...).
	// Empty when the row carries only a serial.
	State string `json:"state" yaml:"state"`
}
