package accessory

import (
	"context"

	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/device"
)

// IntentEvent is an accessory-protocol-originated request to change a
// device's state (e.g. a controller app setting a new target
// temperature). The coordinator consumes these and translates them into
// cloud API commands.
type IntentEvent struct {
	DeviceID string
	Proposed device.State
}

// Adapter is the external collaborator that actually speaks the local
// accessory protocol: publishing accessories, emitting intent events
// from paired controllers, and accepting state updates to mirror back to
// them. The protocol implementation itself (pairing, discovery, QR setup
// codes) is out of scope per spec.md's Non-goals; this interface is the
// seam the coordinator depends on instead of a concrete bridge library.
type Adapter interface {
	// PublishAccessory makes a device visible to paired controllers
	// under the given stable identity.
	PublishAccessory(ctx context.Context, deviceID string, identity Identity) error

	// UnpublishAccessory removes a device from the published set.
	UnpublishAccessory(ctx context.Context, deviceID string) error

	// Intents returns the channel of accessory-originated state-change
	// requests. The coordinator is the sole consumer.
	Intents() <-chan IntentEvent

	// UpdateState pushes a freshly-polled cloud state to paired
	// controllers for the given device.
	UpdateState(ctx context.Context, deviceID string, state device.State) error
}
