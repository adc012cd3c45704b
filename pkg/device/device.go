package device

// Device is the cloud-reported metadata for a paired device: identity,
// manufacturer, and the derived capability set used to classify and
// translate commands for it.
type Device struct {
	ID           string
	Name         string
	Manufacturer string

	// Capabilities is the full, unfiltered capability set extracted per
	// ExtractCapabilities.
	Capabilities CapabilitySet
}

// IsThermostatLike implements the predicate from spec.md §3: a device is
// thermostat-like iff it has any of thermostat, thermostatMode,
// airConditionerMode, customThermostatSetpointControl, or has
// temperatureMeasurement together with at least one setpoint capability.
func (d *Device) IsThermostatLike() bool {
	if d.Capabilities.HasAny(
		CapThermostat,
		CapThermostatMode,
		CapAirConditionerMode,
		CapCustomThermostatSetpointCtrl,
	) {
		return true
	}

	if d.Capabilities.Has(CapTemperatureMeasurement) &&
		d.Capabilities.HasAny(CapThermostatCoolingSetpoint, CapThermostatHeatingSetpoint) {
		return true
	}

	return false
}
