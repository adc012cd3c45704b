package cloudapi

import "github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/device"

// Display-light argument tokens. This mapping is INVERTED relative to
// effect, verified empirically against the vendor's AC firmware: sending
// "Light_On" turns the display OFF, and "Light_Off" turns the display ON.
// Do not "fix" this mapping — spec.md §4.3/§8/§9 encode it as a contract,
// and §8's round-trip property is a regression test against exactly this
// inversion.
const (
	lightArgTurnDisplayOff = "Light_On"
	lightArgTurnDisplayOn  = "Light_Off"
)

const executeDisplayLightArgument = "mode/vs/0"

// SetCoolingSetpointCommands builds the command(s) to set the cooling
// setpoint to t, given the device's capability set.
func SetCoolingSetpointCommands(caps device.CapabilitySet, t float64) []Command {
	if !caps.Has(device.CapThermostatCoolingSetpoint) {
		return nil
	}
	return []Command{{
		Component:  "main",
		Capability: string(device.CapThermostatCoolingSetpoint),
		Command:    "setCoolingSetpoint",
		Arguments:  []any{t},
	}}
}

// SetHeatingSetpointCommands builds the command(s) to set the heating
// setpoint to t, given the device's capability set. Per spec.md §4.4, a
// device that exposes airConditionerMode but not thermostatHeatingSetpoint
// has only a single setpoint; for such a device this returns nil, and the
// coordinator's command construction falls back to
// SetCoolingSetpointCommands.
func SetHeatingSetpointCommands(caps device.CapabilitySet, t float64) []Command {
	if !caps.Has(device.CapThermostatHeatingSetpoint) {
		return nil
	}
	return []Command{{
		Component:  "main",
		Capability: string(device.CapThermostatHeatingSetpoint),
		Command:    "setHeatingSetpoint",
		Arguments:  []any{t},
	}}
}

// SetModeCommands builds the command(s) to switch to mode m, given the
// device's capability set, per the translation table in spec.md §4.3.
func SetModeCommands(caps device.CapabilitySet, m device.Mode) []Command {
	if caps.Has(device.CapThermostatMode) {
		return []Command{{
			Component:  "main",
			Capability: string(device.CapThermostatMode),
			Command:    "setThermostatMode",
			Arguments:  []any{string(m)},
		}}
	}

	if caps.Has(device.CapAirConditionerMode) {
		if m == device.ModeOff {
			// The AC-mode capability has no "off" command; switching the
			// device off entirely is the only way to turn it off.
			return []Command{{
				Component:  "main",
				Capability: string(device.CapSwitch),
				Command:    "off",
				Arguments:  []any{},
			}}
		}
		return []Command{
			{Component: "main", Capability: string(device.CapSwitch), Command: "on", Arguments: []any{}},
			{Component: "main", Capability: string(device.CapAirConditionerMode), Command: "setAirConditionerMode", Arguments: []any{string(m)}},
		}
	}

	return nil
}

// SetDisplayLightCommand builds the command to set the display light to
// on or off. The public API is intuitive; the inverted vendor token is
// applied internally and must never leak to callers.
func SetDisplayLightCommand(on bool) Command {
	token := lightArgTurnDisplayOff
	if on {
		token = lightArgTurnDisplayOn
	}
	return Command{
		Component:  "main",
		Capability: "execute",
		Command:    "execute",
		Arguments: []any{
			executeDisplayLightArgument,
			map[string]any{"x.com.samsung.da.options": []string{token}},
		},
	}
}
