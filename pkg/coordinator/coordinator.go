// Package coordinator owns the device registry, the poll/reconcile loop,
// and the translation between accessory-protocol intents and cloud API
// commands.
package coordinator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/accessory"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/cloudapi"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/device"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/persistence"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/plugin"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/protolog"
)

// materialDeltaTemp and materialDeltaSetpoint are the thresholds below
// which a refreshed reading is not considered a meaningful change, per
// spec.md §5.
const (
	materialDeltaTemp     = 0.5
	materialDeltaSetpoint = 0.5
)

// commandCooldown is the minimum spacing between two accessory-protocol
// state pushes for the same device, absorbing poll/command echo per
// spec.md §4.4. A successful HandleIntent write also stamps this
// cooldown so the poll that observes its own echo does not re-push it.
const commandCooldown = 2 * time.Second

type registryEntry struct {
	device *device.Device
	state  device.State

	// paired is true for thermostat-like devices; Reload gives them an
	// accessory identity and publishes them to the adapter when one is
	// configured. Non-HVAC devices
	// are still registered (plugins need their capability info, per
	// spec.md §4.4) but are never paired.
	paired bool
}

// Config configures a Coordinator.
type Config struct {
	Cloud          *cloudapi.Client
	Dispatcher     *plugin.Dispatcher
	AccessoryCache *accessory.Cache
	Adapter        accessory.Adapter
	StatePath      string
	DeviceFilter   func(d *device.Device) bool
	Logger         protolog.Logger
}

// Coordinator reconciles cloud device state against the local
// accessory-protocol bridge.
type Coordinator struct {
	cloud      *cloudapi.Client
	dispatcher *plugin.Dispatcher
	cache      *accessory.Cache
	adapter    accessory.Adapter
	filter     func(d *device.Device) bool
	store      *persistence.Store
	logger     protolog.Logger
	now        func() time.Time

	mu       sync.RWMutex
	registry map[string]*registryEntry
	cooldown map[string]time.Time

	polling atomic.Bool
}

// New creates a Coordinator and binds it into the dispatcher as its
// DeviceAccess implementation.
func New(cfg Config) *Coordinator {
	logger := cfg.Logger
	if logger == nil {
		logger = protolog.NoopLogger{}
	}
	filter := cfg.DeviceFilter
	if filter == nil {
		filter = func(d *device.Device) bool { return true }
	}

	c := &Coordinator{
		cloud:      cfg.Cloud,
		dispatcher: cfg.Dispatcher,
		cache:      cfg.AccessoryCache,
		adapter:    cfg.Adapter,
		filter:     filter,
		store:      persistence.NewStore(cfg.StatePath),
		logger:     logger,
		now:        time.Now,
		registry:   make(map[string]*registryEntry),
		cooldown:   make(map[string]time.Time),
	}
	if cfg.Dispatcher != nil {
		cfg.Dispatcher.BindDeviceAccess(c)
	}
	return c
}

// Device implements plugin.DeviceAccess.
func (c *Coordinator) Device(deviceID string) (*device.Device, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.registry[deviceID]
	if !ok {
		return nil, false
	}
	return e.device, true
}

// State implements plugin.DeviceAccess.
func (c *Coordinator) State(deviceID string) (device.State, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.registry[deviceID]
	if !ok {
		return device.State{}, false
	}
	return e.state, true
}

// DeviceIDs returns every currently-registered device ID, for use by
// collaborators like the display-light monitor that need to enumerate
// devices without depending on the coordinator directly.
func (c *Coordinator) DeviceIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.registry))
	for id := range c.registry {
		ids = append(ids, id)
	}
	return ids
}

type persistedStateSnapshot struct {
	States map[string]device.State `json:"states"`
}

func (c *Coordinator) saveStates() error {
	snapshot := persistedStateSnapshot{States: make(map[string]device.State, len(c.registry))}
	for id, e := range c.registry {
		snapshot.States[id] = e.state
	}
	return c.store.Save(&snapshot)
}

// LoadStates restores the last-known state for each currently registered
// device, so a restart does not report every device as materially
// changed on the first poll after Reload.
func (c *Coordinator) LoadStates() error {
	var snapshot persistedStateSnapshot
	found, err := c.store.Load(&snapshot)
	if err != nil || !found {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, s := range snapshot.States {
		if e, ok := c.registry[id]; ok {
			e.state = s
		}
	}
	return nil
}
