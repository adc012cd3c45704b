// Package cloudapi wraps the cloud device API and owns the vendor-specific
// command translation table from spec.md §4.3.
//
// # Command translation
//
// Setting a setpoint or mode is translated per the device's capability
// set, not a fixed per-vendor branch: a device exposing thermostatMode
// gets a single setThermostatMode command; a device with only
// airConditionerMode needs a switch.on primer before
// setAirConditionerMode, and has no off command of its own (switching off
// means switch.off).
//
// # Inverted display-light tokens
//
// The display-light execute command's argument tokens are inverted
// relative to their effect: "Light_On" turns the display off, and
// "Light_Off" turns it on. This is a vendor contract, not a bug; do not
// "fix" it. See commands.go.
package cloudapi
