package coordinator

import (
	"context"
	"math"
	"sync"

	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/device"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/protolog"
)

// PollOnce fetches current status for every registered device
// concurrently, runs each through the beforeSetHomeKitState hook chain,
// and propagates materially-changed state to the accessory adapter. A
// poll cycle already in flight causes this call to return immediately
// without starting a second one: poll cycles never overlap.
func (c *Coordinator) PollOnce(ctx context.Context) error {
	if !c.polling.CompareAndSwap(false, true) {
		c.logger.Log(protolog.Event{Component: protolog.ComponentCoordinator, Operation: "poll", Outcome: protolog.OutcomeSkipped, Detail: "previous poll cycle still running"})
		return nil
	}
	defer c.polling.Store(false)

	c.mu.RLock()
	ids := make([]string, 0, len(c.registry))
	devs := make(map[string]*device.Device, len(c.registry))
	for id, e := range c.registry {
		ids = append(ids, id)
		devs[id] = e.device
	}
	c.mu.RUnlock()

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			c.pollDevice(ctx, id, devs[id])
		}(id)
	}
	wg.Wait()

	if c.dispatcher != nil {
		c.dispatcher.DispatchOnPollCycle(ctx)
	}

	c.mu.Lock()
	err := c.saveStates()
	c.mu.Unlock()
	return err
}

func (c *Coordinator) pollDevice(ctx context.Context, id string, dev *device.Device) {
	status, err := c.cloud.GetStatus(ctx, id)
	if err != nil || status == nil {
		c.logger.Log(protolog.Event{Component: protolog.ComponentCoordinator, Operation: "poll", DeviceID: id, Outcome: protolog.OutcomeFailure})
		return
	}

	newState := device.State{
		CurrentTemperature: status.Temperature,
		HeatingSetpoint:    status.HeatingSetpoint,
		CoolingSetpoint:    status.CoolingSetpoint,
		Mode:               device.NormalizeMode(status.Mode),
		Switch:             status.SwitchOn,
		DisplayLightOn:     status.DisplayLightOn,
		LastRefresh:        c.now(),
	}
	newState.Normalize(dev.Capabilities)

	if c.dispatcher != nil {
		result := c.dispatcher.DispatchBeforeSetHomeKitState(ctx, dev, newState)
		if result.Cancelled {
			c.logger.Log(protolog.Event{Component: protolog.ComponentCoordinator, Operation: "poll", DeviceID: id, Outcome: protolog.OutcomeSuppressed})
			return
		}
		newState = result.State
	}

	c.mu.Lock()
	e, ok := c.registry[id]
	if !ok {
		c.mu.Unlock()
		return
	}
	previous := e.state
	e.state = newState
	paired := e.paired
	lastPush, hasCooldown := c.cooldown[id]
	c.mu.Unlock()

	if !materiallyChanged(previous, newState) {
		return
	}

	if !paired {
		// Registry-only metadata device: plugins may still want its
		// state via AfterDeviceUpdate, but there is no accessory to push
		// to.
	} else if hasCooldown && c.now().Sub(lastPush) < commandCooldown {
		c.logger.Log(protolog.Event{Component: protolog.ComponentCoordinator, Operation: "updateState", DeviceID: id, Outcome: protolog.OutcomeSkipped, Detail: "push rate limited, absorbing echo"})
	} else if c.adapter != nil {
		if err := c.adapter.UpdateState(ctx, id, newState); err != nil {
			c.logger.Log(protolog.Event{Component: protolog.ComponentCoordinator, Operation: "updateState", DeviceID: id, Outcome: protolog.OutcomeFailure, Err: err.Error()})
		}
		c.mu.Lock()
		c.cooldown[id] = c.now()
		c.mu.Unlock()
	}
	if c.dispatcher != nil {
		c.dispatcher.DispatchAfterDeviceUpdate(ctx, dev, previous, newState)
	}
}

// materiallyChanged reports whether the two states differ enough to be
// worth propagating: a mode change, a temperature/setpoint move of more
// than the material-delta threshold, per spec.md §5, or a change of the
// switch or display-light state.
func materiallyChanged(prev, next device.State) bool {
	if prev.Mode != next.Mode {
		return true
	}
	if math.Abs(next.CurrentTemperature-prev.CurrentTemperature) > materialDeltaTemp {
		return true
	}
	if setpointDelta(prev.HeatingSetpoint, next.HeatingSetpoint) > materialDeltaSetpoint {
		return true
	}
	if setpointDelta(prev.CoolingSetpoint, next.CoolingSetpoint) > materialDeltaSetpoint {
		return true
	}
	if prev.Switch != next.Switch || prev.DisplayLightOn != next.DisplayLightOn {
		return true
	}
	return false
}

func setpointDelta(a, b *float64) float64 {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil || b == nil:
		return math.Inf(1)
	default:
		return math.Abs(*a - *b)
	}
}
