package plugin

import (
	"context"

	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/device"
)

// CorePassthroughHandler is registered first in the bridge's dispatcher
// chain (NewDispatcher itself starts empty): it handles every device and
// never modifies or cancels a state change. Its purpose is structural,
// not behavioral — registered first, it gives the chain at least one
// link, so later handlers can be reasoned about as
// "what changed since the core state" rather than "what changed since
// nothing ran at all".
type CorePassthroughHandler struct {
	BaseHandler
}

func (CorePassthroughHandler) Name() string { return "core" }

func (CorePassthroughHandler) ShouldHandleDevice(d *device.Device) bool { return true }
