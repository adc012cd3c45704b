package plugin

import (
	"context"
	"time"

	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/automode"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/cloudapi"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/device"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/protolog"
)

// HVACAutoModeHandler enforces the shared auto-mode decision on every
// enrolled thermostat-like device: while a device stays enrolled, the
// mode of an accessory-protocol request for it is rewritten to the
// controller's current decision rather than applied verbatim, since the
// compressor is shared and an individual device does not get to pick its
// own mode.
//
// Selecting "auto" at the accessory enrolls the device; selecting any
// other mode unenrolls it, per spec.md §4.5. Once enrolled, the
// accessory is always reported as running "auto" regardless of which
// concrete mode the shared compressor is in. Each poll cycle, the
// handler gathers a DeviceReading per enrolled device, asks the
// Controller to decide, and broadcasts the result to the cloud.
type HVACAutoModeHandler struct {
	BaseHandler

	Controller *automode.Controller

	// Client executes the cloud commands that realize a broadcast
	// decision. Devices is called fresh each poll cycle so newly
	// enrolled/registered devices are picked up without re-wiring.
	Client  *cloudapi.Client
	Devices func() []string
	Access  DeviceAccess

	logger protolog.Logger
	now    func() time.Time
}

// NewHVACAutoModeHandler creates a handler wired to broadcast decisions
// through client and enumerate candidate devices via devices/access.
func NewHVACAutoModeHandler(controller *automode.Controller, client *cloudapi.Client, devices func() []string, access DeviceAccess, logger protolog.Logger) *HVACAutoModeHandler {
	if logger == nil {
		logger = protolog.NoopLogger{}
	}
	return &HVACAutoModeHandler{
		Controller: controller,
		Client:     client,
		Devices:    devices,
		Access:     access,
		logger:     logger,
		now:        time.Now,
	}
}

func (h *HVACAutoModeHandler) Name() string { return "hvac-auto-mode" }

func (h *HVACAutoModeHandler) ShouldHandleDevice(d *device.Device) bool {
	return d.IsThermostatLike()
}

// BeforeSetSmartThingsState tracks enrollment from the accessory's own
// mode selection: choosing auto enrolls the device; choosing anything
// else unenrolls it. An enrolled device's proposed mode is rewritten to
// the controller's current committed mode, since it does not control
// the shared compressor directly.
func (h *HVACAutoModeHandler) BeforeSetSmartThingsState(ctx context.Context, d *device.Device, proposed device.State) HookResult {
	if h.Controller == nil {
		return Continue(proposed)
	}

	switch proposed.Mode {
	case device.ModeAuto:
		if err := h.Controller.Enroll(d.ID); err != nil {
			h.logger.Log(protolog.Event{Component: protolog.ComponentPlugin, Operation: "enroll", DeviceID: d.ID, Outcome: protolog.OutcomeFailure, Err: err.Error()})
		}
	case device.ModeHeat, device.ModeCool, device.ModeOff:
		if h.Controller.IsEnrolled(d.ID) {
			if err := h.Controller.Unenroll(d.ID); err != nil {
				h.logger.Log(protolog.Event{Component: protolog.ComponentPlugin, Operation: "unenroll", DeviceID: d.ID, Outcome: protolog.OutcomeFailure, Err: err.Error()})
			}
		}
	}

	if !h.Controller.IsEnrolled(d.ID) {
		return Continue(proposed)
	}

	state := proposed
	state.Mode = h.Controller.CurrentMode()
	return Continue(state)
}

// BeforeSetHomeKitState reports "auto" upward for enrolled devices
// regardless of which concrete mode the shared compressor is actually
// running, so the accessory's mode selector reflects the user's choice.
func (h *HVACAutoModeHandler) BeforeSetHomeKitState(ctx context.Context, d *device.Device, cloudState device.State) HookResult {
	if h.Controller == nil || !h.Controller.IsEnrolled(d.ID) {
		return Continue(cloudState)
	}
	state := cloudState
	state.Mode = device.ModeAuto
	return Continue(state)
}

// OnPollCycle gathers a DeviceReading for every enrolled device,
// evaluates the shared decision, commits it, and broadcasts the desired
// mode to the cloud for each enrolled device. A poll cycle with no
// enrolled devices, or a decision that does not change anything, is a
// no-op.
func (h *HVACAutoModeHandler) OnPollCycle(ctx context.Context) {
	if h.Controller == nil || h.Devices == nil || h.Access == nil {
		return
	}

	var readings []automode.DeviceReading
	for _, id := range h.Devices() {
		if !h.Controller.IsEnrolled(id) {
			continue
		}
		state, ok := h.Access.State(id)
		if !ok || state.HeatingSetpoint == nil || state.CoolingSetpoint == nil {
			continue
		}
		readings = append(readings, automode.DeviceReading{
			DeviceID:        id,
			CurrentTemp:     state.CurrentTemperature,
			HeatingSetpoint: *state.HeatingSetpoint,
			CoolingSetpoint: *state.CoolingSetpoint,
			Weight:          1,
		})
	}
	if len(readings) == 0 {
		return
	}

	now := h.now
	if now == nil {
		now = time.Now
	}
	moment := now()

	previous := h.Controller.CurrentMode()
	decision := h.Controller.Evaluate(readings, moment)
	if err := h.Controller.ApplyDecision(decision, moment); err != nil {
		h.logger.Log(protolog.Event{Component: protolog.ComponentAutoMode, Operation: "apply", Outcome: protolog.OutcomeFailure, Err: err.Error()})
		return
	}
	if decision.Suppressed || decision.DesiredMode == previous {
		return
	}

	for _, r := range readings {
		h.broadcast(ctx, r.DeviceID, decision.DesiredMode)
	}
}

func (h *HVACAutoModeHandler) broadcast(ctx context.Context, deviceID string, mode device.Mode) {
	if h.Client == nil {
		return
	}
	dev, ok := h.Access.Device(deviceID)
	if !ok {
		return
	}
	commands := cloudapi.SetModeCommands(dev.Capabilities, mode)
	if len(commands) == 0 {
		return
	}
	if err := h.Client.ExecuteCommands(ctx, deviceID, commands...); err != nil {
		h.logger.Log(protolog.Event{Component: protolog.ComponentAutoMode, Operation: "broadcast", DeviceID: deviceID, Outcome: protolog.OutcomeFailure, Err: err.Error()})
		return
	}
	h.logger.Log(protolog.Event{Component: protolog.ComponentAutoMode, Operation: "broadcast", DeviceID: deviceID, Outcome: protolog.OutcomeSuccess, Detail: string(mode)})
}
