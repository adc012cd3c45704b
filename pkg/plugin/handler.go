package plugin

import (
	"context"

	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/device"
)

// DeviceAccess is the coordinator-shaped dependency a handler needs to
// look up other devices' current state. It is bound into the Dispatcher
// after construction (the coordinator that implements it is built using
// the dispatcher, so the dependency is necessarily cyclic) via
// Dispatcher.BindDeviceAccess, the same late-binding shape zone.Manager
// uses for its onZoneAdded-style callbacks.
type DeviceAccess interface {
	Device(deviceID string) (*device.Device, bool)
	State(deviceID string) (device.State, bool)
}

// Handler is a chain link in the plugin dispatcher. Concrete handlers
// embed BaseHandler to pick up no-op defaults for the hooks they don't
// care about.
type Handler interface {
	Name() string
	ShouldHandleDevice(d *device.Device) bool
	BeforeSetSmartThingsState(ctx context.Context, d *device.Device, proposed device.State) HookResult
	BeforeSetHomeKitState(ctx context.Context, d *device.Device, cloudState device.State) HookResult
	AfterDeviceUpdate(ctx context.Context, d *device.Device, previous, current device.State)
	OnPollCycle(ctx context.Context)
}

// BaseHandler supplies no-op implementations of every Handler method.
// Concrete handlers embed it and override only what they need.
type BaseHandler struct{}

func (BaseHandler) ShouldHandleDevice(d *device.Device) bool { return true }

func (BaseHandler) BeforeSetSmartThingsState(ctx context.Context, d *device.Device, proposed device.State) HookResult {
	return Continue(proposed)
}

func (BaseHandler) BeforeSetHomeKitState(ctx context.Context, d *device.Device, cloudState device.State) HookResult {
	return Continue(cloudState)
}

func (BaseHandler) AfterDeviceUpdate(ctx context.Context, d *device.Device, previous, current device.State) {
}

func (BaseHandler) OnPollCycle(ctx context.Context) {}
