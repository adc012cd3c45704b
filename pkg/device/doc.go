// Package device holds the cloud-side device model: capability
// extraction and classification, and the reconciled per-device state with
// its normalization and effective-setpoint rules.
//
// Capability records arrive from the cloud SDK as weakly-typed strings.
// This package normalizes them into a closed Capability enumeration and a
// set-valued CapabilitySet, then derives the thermostat-like predicate from
// that set rather than from ad hoc string matching scattered across the
// bridge.
package device
