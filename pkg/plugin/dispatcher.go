package plugin

import (
	"context"
	"sync"

	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/device"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/protolog"
)

// Dispatcher runs a fixed-order chain of Handlers over each device
// event. Handlers are tried in registration order; the first one whose
// ShouldHandleDevice matches and whose before-hook cancels stops the
// chain for that event.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers []Handler
	access   DeviceAccess
	logger   protolog.Logger
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(logger protolog.Logger) *Dispatcher {
	if logger == nil {
		logger = protolog.NoopLogger{}
	}
	return &Dispatcher{logger: logger}
}

// Register appends a handler to the end of the chain.
func (d *Dispatcher) Register(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, h)
}

// BindDeviceAccess supplies the coordinator-shaped lookup dependency
// after construction, resolving the coordinator/dispatcher cycle.
func (d *Dispatcher) BindDeviceAccess(a DeviceAccess) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.access = a
}

// DeviceAccess returns the bound DeviceAccess, or nil if unbound.
func (d *Dispatcher) DeviceAccess() DeviceAccess {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.access
}

func (d *Dispatcher) snapshot() []Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Handler, len(d.handlers))
	copy(out, d.handlers)
	return out
}

// DispatchBeforeSetSmartThingsState runs the chain for a proposed
// accessory-protocol-to-cloud state change. Handlers are applied in
// order, each seeing the previous handler's (possibly modified) state.
func (d *Dispatcher) DispatchBeforeSetSmartThingsState(ctx context.Context, dev *device.Device, proposed device.State) HookResult {
	state := proposed
	for _, h := range d.snapshot() {
		if !h.ShouldHandleDevice(dev) {
			continue
		}
		result := h.BeforeSetSmartThingsState(ctx, dev, state)
		if result.Cancelled {
			d.logger.Log(protolog.Event{Component: protolog.ComponentPlugin, Operation: "beforeSetSmartThingsState", DeviceID: dev.ID, Outcome: protolog.OutcomeSuppressed, Detail: h.Name()})
			return result
		}
		state = result.State
	}
	return Continue(state)
}

// DispatchBeforeSetHomeKitState runs the chain for a proposed
// cloud-to-accessory-protocol state change.
func (d *Dispatcher) DispatchBeforeSetHomeKitState(ctx context.Context, dev *device.Device, cloudState device.State) HookResult {
	state := cloudState
	for _, h := range d.snapshot() {
		if !h.ShouldHandleDevice(dev) {
			continue
		}
		result := h.BeforeSetHomeKitState(ctx, dev, state)
		if result.Cancelled {
			d.logger.Log(protolog.Event{Component: protolog.ComponentPlugin, Operation: "beforeSetHomeKitState", DeviceID: dev.ID, Outcome: protolog.OutcomeSuppressed, Detail: h.Name()})
			return result
		}
		state = result.State
	}
	return Continue(state)
}

// DispatchAfterDeviceUpdate notifies every matching handler that a
// device's state has changed. There is no cancellation: this is a
// notification, not a gate.
func (d *Dispatcher) DispatchAfterDeviceUpdate(ctx context.Context, dev *device.Device, previous, current device.State) {
	for _, h := range d.snapshot() {
		if h.ShouldHandleDevice(dev) {
			h.AfterDeviceUpdate(ctx, dev, previous, current)
		}
	}
}

// DispatchOnPollCycle notifies every handler once per poll cycle,
// regardless of ShouldHandleDevice (that predicate is per-device and a
// poll cycle has no single device).
func (d *Dispatcher) DispatchOnPollCycle(ctx context.Context) {
	for _, h := range d.snapshot() {
		h.OnPollCycle(ctx)
	}
}
