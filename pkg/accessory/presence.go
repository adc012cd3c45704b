package accessory

import (
	"context"
	"fmt"
	"sync"

	"github.com/enbility/zeroconf/v3"
)

const serviceType = "_hvac-bridge._tcp"
const domain = "local."

// MDNSPresence advertises the bridge's LAN presence so accessory-protocol
// controllers can find it, the same zeroconf.Register call shape the
// accessory-protocol library's own discovery package uses for its
// service records.
type MDNSPresence struct {
	mu     sync.Mutex
	server *zeroconf.Server
}

// Advertise starts advertising the bridge on the network. Calling it
// again while already advertising first stops the previous
// advertisement.
func (p *MDNSPresence) Advertise(ctx context.Context, instanceName string, port int, txt map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.server != nil {
		p.server.Shutdown()
		p.server = nil
	}

	records := make([]string, 0, len(txt))
	for k, v := range txt {
		records = append(records, fmt.Sprintf("%s=%s", k, v))
	}

	server, err := zeroconf.Register(instanceName, serviceType, domain, port, records, nil)
	if err != nil {
		return fmt.Errorf("failed to register bridge presence: %w", err)
	}
	p.server = server
	return nil
}

// Stop withdraws the bridge's presence advertisement. It is safe to call
// when not currently advertising.
func (p *MDNSPresence) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.server != nil {
		p.server.Shutdown()
		p.server = nil
	}
}
