package plugin

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/cloudapi"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/protolog"
)

// DisplayLightMonitor periodically issues a silent display-light-off to
// every known device, independent of the coordinator's poll cycle. It
// runs its own ticker rather than hooking OnPollCycle because the sweep
// interval (spec.md §6's displayLightScanIntervalSeconds) is configured
// separately from the poll interval.
type DisplayLightMonitor struct {
	BaseHandler

	Client   *cloudapi.Client
	Interval time.Duration
	Devices  func() []string

	logger   protolog.Logger
	sweeping atomic.Bool
}

// NewDisplayLightMonitor creates a monitor. devices is called fresh on
// every sweep tick so newly-paired devices are picked up without
// restarting the monitor.
func NewDisplayLightMonitor(client *cloudapi.Client, interval time.Duration, devices func() []string, logger protolog.Logger) *DisplayLightMonitor {
	if logger == nil {
		logger = protolog.NoopLogger{}
	}
	return &DisplayLightMonitor{Client: client, Interval: interval, Devices: devices, logger: logger}
}

func (m *DisplayLightMonitor) Name() string { return "display-light-monitor" }

// Start runs the sweep loop until ctx is cancelled. It is safe to call
// once; call it from the startup orchestrator alongside the poll loop.
func (m *DisplayLightMonitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.Interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.sweep(ctx)
			}
		}
	}()
}

// sweep runs one pass. If the previous sweep is still in flight (a slow
// device fetch, a saturated retry backoff), this tick is skipped rather
// than overlapping it.
func (m *DisplayLightMonitor) sweep(ctx context.Context) {
	if !m.sweeping.CompareAndSwap(false, true) {
		m.logger.Log(protolog.Event{Component: protolog.ComponentPlugin, Operation: "displayLightSweep", Outcome: protolog.OutcomeSkipped, Detail: "previous sweep still running"})
		return
	}
	defer m.sweeping.Store(false)

	for _, id := range m.Devices() {
		m.Client.SilentDisplayLightOff(ctx, id)
	}
}
