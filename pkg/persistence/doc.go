// Package persistence provides atomic JSON file persistence for the
// bridge's state files: the OAuth token, the coordinator's device state
// snapshot, the auto-mode controller's mode/timing state, and the
// accessory identity cache.
package persistence
