package coordinator

import (
	"context"
	"fmt"
	"time"

	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/accessory"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/cloudapi"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/device"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/protolog"
)

// ErrDeviceUnknown is returned by HandleIntent for a device the
// coordinator has not registered (e.g. removed by a concurrent Reload).
var ErrDeviceUnknown = fmt.Errorf("coordinator: device not registered")

// HandleIntent translates an accessory-protocol-originated state change
// into cloud API commands and sends them. Every user-initiated intent is
// sent as soon as it arrives; the per-device cooldown that absorbs
// poll/command echo applies only to the cloud->accessory push direction
// in pollDevice, per spec.md §4.4. The beforeSetSmartThingsState hook
// chain gets a chance to veto or rewrite the proposed state before
// anything is sent.
func (c *Coordinator) HandleIntent(ctx context.Context, evt accessory.IntentEvent) error {
	c.mu.RLock()
	entry, ok := c.registry[evt.DeviceID]
	c.mu.RUnlock()

	if !ok {
		return ErrDeviceUnknown
	}

	proposed := evt.Proposed
	if c.dispatcher != nil {
		result := c.dispatcher.DispatchBeforeSetSmartThingsState(ctx, entry.device, proposed)
		if result.Cancelled {
			c.logger.Log(protolog.Event{Component: protolog.ComponentCoordinator, Operation: "intent", DeviceID: evt.DeviceID, Outcome: protolog.OutcomeSuppressed})
			return nil
		}
		proposed = result.State
	}

	commands := buildCommands(entry.device, entry.state, proposed)
	if len(commands) == 0 {
		return nil
	}

	if err := c.cloud.ExecuteCommands(ctx, evt.DeviceID, commands...); err != nil {
		c.logger.Log(protolog.Event{Component: protolog.ComponentCoordinator, Operation: "intent", DeviceID: evt.DeviceID, Outcome: protolog.OutcomeFailure, Err: err.Error()})
		return err
	}

	c.mu.Lock()
	previous := entry.state
	entry.state = proposed
	c.cooldown[evt.DeviceID] = c.now()
	saveErr := c.saveStates()
	c.mu.Unlock()

	if c.dispatcher != nil {
		c.dispatcher.DispatchAfterDeviceUpdate(ctx, entry.device, previous, proposed)
	}
	c.cloud.SilentDisplayLightOff(ctx, evt.DeviceID)

	c.logger.Log(protolog.Event{Component: protolog.ComponentCoordinator, Operation: "intent", DeviceID: evt.DeviceID, Outcome: protolog.OutcomeSuccess})
	return saveErr
}

// buildCommands diffs current against proposed and returns the commands
// needed to realize the change, applying the capability-aware
// translation rules from pkg/cloudapi.
func buildCommands(dev *device.Device, current, proposed device.State) []cloudapi.Command {
	var commands []cloudapi.Command

	if proposed.Mode != current.Mode {
		commands = append(commands, cloudapi.SetModeCommands(dev.Capabilities, proposed.Mode)...)
	}

	if proposed.CoolingSetpoint != nil && !floatPtrEqual(current.CoolingSetpoint, proposed.CoolingSetpoint) {
		commands = append(commands, cloudapi.SetCoolingSetpointCommands(dev.Capabilities, *proposed.CoolingSetpoint)...)
	}

	if proposed.HeatingSetpoint != nil && !floatPtrEqual(current.HeatingSetpoint, proposed.HeatingSetpoint) {
		heatCommands := cloudapi.SetHeatingSetpointCommands(dev.Capabilities, *proposed.HeatingSetpoint)
		if heatCommands == nil && dev.Capabilities.Has("airConditionerMode") {
			// Single-setpoint AC units have no heating setpoint
			// capability: a heating-setpoint request is honored by
			// steering the cooling setpoint instead, per spec.md §4.3.
			heatCommands = cloudapi.SetCoolingSetpointCommands(dev.Capabilities, *proposed.HeatingSetpoint)
		}
		commands = append(commands, heatCommands...)
	}

	return commands
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// pollIntervalFor computes a normalized ticker duration from configuration
// seconds. It is unexported and has no callers; StartPolling normalizes
// the interval it is given on its own.
func pollIntervalFor(seconds int) time.Duration {
	return NormalizePollInterval(time.Duration(seconds) * time.Second)
}
