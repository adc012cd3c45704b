// Package coordinator reconciles the cloud device API against the local
// accessory-protocol bridge: Reload keeps the device registry in sync
// with the cloud's device list, PollOnce refreshes and propagates
// materially-changed state, and HandleIntent translates
// accessory-originated requests into cloud commands. All three run
// through the plugin dispatcher's hook chain, and the coordinator itself
// implements plugin.DeviceAccess so handlers can look up other devices.
package coordinator
