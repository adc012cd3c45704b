// Package cloudapi is a typed wrapper over the cloud device API: list/get
// devices, get status, execute commands. It owns the vendor-specific
// command translation rules that are the hardest behavioural contract in
// the bridge (spec.md §4.3).
package cloudapi

import (
	"errors"

	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/device"
)

// Sentinel errors for the domain outcomes in spec.md §7.
var (
	ErrUnauthenticated = errors.New("cloudapi: not authenticated")
	ErrDeviceNotFound  = errors.New("cloudapi: device not found")
	ErrCommandFailed   = errors.New("cloudapi: command failed")
)

// Summary is a device summary as returned by the device-list endpoint.
type Summary struct {
	ID           string
	Name         string
	Manufacturer string
}

// DeviceDetail is the full per-device detail, including capability lists
// from both the top-level device record and its components.
type DeviceDetail struct {
	Summary
	TopLevelCapabilities  []string
	ComponentCapabilities [][]string
}

// ToDevice converts a detail record into the closed device.Device model.
func (d DeviceDetail) ToDevice() *device.Device {
	return &device.Device{
		ID:           d.ID,
		Name:         d.Name,
		Manufacturer: d.Manufacturer,
		Capabilities: device.ExtractCapabilities(d.TopLevelCapabilities, d.ComponentCapabilities),
	}
}

// Status is the raw per-device status payload the bridge needs.
type Status struct {
	Temperature     float64
	HeatingSetpoint *float64
	CoolingSetpoint *float64
	Mode            string // raw vendor mode string, normalize via device.NormalizeMode
	SwitchOn        bool
	DisplayLightOn  bool
}

// Command is a single cloud device command, matching the wire shape
// {component, capability, command, arguments} from spec.md §6.
type Command struct {
	Component  string
	Capability string
	Command    string
	Arguments  []any
}
