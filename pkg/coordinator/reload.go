package coordinator

import (
	"context"
	"fmt"

	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/protolog"
)

// Reload re-fetches the full device list from the cloud and applies the
// inclusion filter, keeping metadata for every filter-eligible device
// (plugins need capability info even for non-HVAC devices, per spec.md
// §4.4) while gating accessory publish/pairing on the thermostat-like
// predicate: devices no longer present (or no longer passing the
// filter) are dropped, unpairing and forgetting the accessory identity
// of any that had one; newly-eligible thermostat-like devices are given
// a stable accessory identity and published.
func (c *Coordinator) Reload(ctx context.Context) error {
	summaries, err := c.cloud.ListDevices(ctx)
	if err != nil {
		return err
	}

	details := c.cloud.ListDeviceDetails(ctx, summaries)

	desired := make(map[string]*registryEntry, len(details))
	for _, d := range details {
		dev := d.ToDevice()
		if !c.filter(dev) {
			continue
		}
		desired[dev.ID] = &registryEntry{device: dev, paired: dev.IsThermostatLike()}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for id, e := range c.registry {
		if _, keep := desired[id]; !keep {
			if e.paired {
				if c.cache != nil {
					c.cache.Forget(id)
				}
				if c.adapter != nil {
					c.adapter.UnpublishAccessory(ctx, id)
				}
			}
			delete(c.registry, id)
			delete(c.cooldown, id)
			c.logger.Log(protolog.Event{Component: protolog.ComponentCoordinator, Operation: "reload", DeviceID: id, Outcome: protolog.OutcomeSkipped, Detail: "device no longer eligible, removed"})
		}
	}

	paired := 0
	for id, e := range desired {
		existing, alreadyKnown := c.registry[id]
		if alreadyKnown {
			e.state = existing.state
		}
		c.registry[id] = e

		if !e.paired {
			continue
		}
		paired++

		if c.cache != nil {
			identity, err := c.cache.Identity(id, e.device.Name, e.device.Manufacturer)
			if err != nil {
				c.logger.Log(protolog.Event{Component: protolog.ComponentCoordinator, Operation: "reload", DeviceID: id, Outcome: protolog.OutcomeFailure, Err: err.Error()})
				continue
			}
			if c.adapter != nil && (!alreadyKnown || !existing.paired) {
				if err := c.adapter.PublishAccessory(ctx, id, identity); err != nil {
					c.logger.Log(protolog.Event{Component: protolog.ComponentCoordinator, Operation: "publish", DeviceID: id, Outcome: protolog.OutcomeFailure, Err: err.Error()})
				}
			}
		}
	}

	c.logger.Log(protolog.Event{Component: protolog.ComponentCoordinator, Operation: "reload", Outcome: protolog.OutcomeSuccess, Detail: fmt.Sprintf("%d devices, %d paired", len(desired), paired)})
	return c.saveStates()
}
