// Package accessory owns the bridge's side of the local accessory
// protocol: a stable per-device identity cache (the bridge library
// itself is out of scope, per spec.md's Non-goals) and LAN presence
// advertising.
package accessory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/persistence"
)

// Identity is the stable per-device identity the accessory protocol
// needs. UUID must not change across restarts, or paired controllers
// would see the device disappear and reappear as a new accessory.
type Identity struct {
	UUID         uuid.UUID `json:"uuid"`
	Name         string    `json:"name"`
	Manufacturer string    `json:"manufacturer"`
	Model        string    `json:"model"`
	SerialNumber string    `json:"serialNumber"`
	Firmware     string    `json:"firmware"`
}

type cacheState struct {
	Identities map[string]Identity `json:"identities"`
}

// Cache maps cloud device IDs to stable accessory identities, persisted
// across restarts.
type Cache struct {
	mu    sync.Mutex
	state cacheState
	store *persistence.Store
}

// NewCache creates a Cache backed by the file at path. Call Load before
// first use.
func NewCache(path string) *Cache {
	return &Cache{
		state: cacheState{Identities: make(map[string]Identity)},
		store: persistence.NewStore(path),
	}
}

// Load restores persisted identities. A missing file leaves the cache
// empty.
func (c *Cache) Load() error {
	var s cacheState
	found, err := c.store.Load(&s)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if found && s.Identities != nil {
		c.state = s
	}
	return nil
}

func (c *Cache) save() error {
	return c.store.Save(&c.state)
}

// Identity returns the identity for deviceID, creating and persisting a
// new one (with a freshly generated UUID) on first lookup.
func (c *Cache) Identity(deviceID, name, manufacturer string) (Identity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.state.Identities[deviceID]; ok {
		if id.Name != name || id.Manufacturer != manufacturer {
			id.Name = name
			id.Manufacturer = manufacturer
			c.state.Identities[deviceID] = id
			if err := c.save(); err != nil {
				return Identity{}, err
			}
		}
		return id, nil
	}

	id := Identity{
		UUID:         uuid.New(),
		Name:         name,
		Manufacturer: manufacturer,
		Model:        "HVAC Bridge",
		SerialNumber: deviceID,
		Firmware:     "1.0.0",
	}
	c.state.Identities[deviceID] = id
	if err := c.save(); err != nil {
		return Identity{}, err
	}
	return id, nil
}

// Forget removes a device's cached identity, e.g. when it is excluded
// from the inclusion filter.
func (c *Cache) Forget(deviceID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.state.Identities, deviceID)
	return c.save()
}

// Len reports how many identities are cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.state.Identities)
}
