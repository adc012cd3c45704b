// Package plugin dispatches device state-change events through a
// fixed-order chain of handlers. Each before-hook returns a HookResult:
// either a (possibly modified) state to continue the chain with, or an
// explicit cancellation. The coordinator that owns device lookups is
// bound in after construction via Dispatcher.BindDeviceAccess, because
// the coordinator itself depends on the dispatcher.
package plugin
