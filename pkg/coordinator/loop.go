package coordinator

import (
	"context"
	"time"

	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/protolog"
)

// StartPolling runs PollOnce on the given interval (normalized via
// NormalizePollInterval) until ctx is cancelled.
func (c *Coordinator) StartPolling(ctx context.Context, interval time.Duration) {
	interval = NormalizePollInterval(interval)
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := c.PollOnce(ctx); err != nil {
					c.logger.Log(protolog.Event{Component: protolog.ComponentCoordinator, Operation: "poll", Outcome: protolog.OutcomeFailure, Err: err.Error()})
				}
			}
		}
	}()
}

// StartIntentLoop consumes accessory-originated intents from adapter
// until ctx is cancelled or the channel closes.
func (c *Coordinator) StartIntentLoop(ctx context.Context) {
	if c.adapter == nil {
		return
	}
	go func() {
		intents := c.adapter.Intents()
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-intents:
				if !ok {
					return
				}
				if err := c.HandleIntent(ctx, evt); err != nil {
					c.logger.Log(protolog.Event{Component: protolog.ComponentCoordinator, Operation: "intent", DeviceID: evt.DeviceID, Outcome: protolog.OutcomeFailure, Err: err.Error()})
				}
			}
		}
	}()
}
