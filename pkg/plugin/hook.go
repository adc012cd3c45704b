package plugin

import "github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/device"

// HookResult is the outcome of a before-state hook. It is a small sum
// type rather than a nullable state pointer: Cancelled is explicit, so a
// handler cannot accidentally cancel by returning a zero value.
type HookResult struct {
	Cancelled bool
	State     device.State
}

// Continue carries a (possibly modified) state forward to the next
// handler in the chain.
func Continue(s device.State) HookResult {
	return HookResult{State: s}
}

// Cancel stops the hook chain: the pending state change is dropped.
func Cancel() HookResult {
	return HookResult{Cancelled: true}
}
