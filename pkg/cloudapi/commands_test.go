package cloudapi

import (
	"reflect"
	"testing"

	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/device"
)

func TestSetModeCommandsThermostatMode(t *testing.T) {
	caps := device.NewCapabilitySet("thermostatMode")
	got := SetModeCommands(caps, device.ModeHeat)
	want := []Command{{Component: "main", Capability: "thermostatMode", Command: "setThermostatMode", Arguments: []any{"heat"}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SetModeCommands() = %+v, want %+v", got, want)
	}
}

// Scenario 5 (spec.md §8): Samsung AC off. Device has only
// airConditionerMode and switch. Emitted commands: exactly switch.off.
func TestSetModeCommandsSamsungACOff(t *testing.T) {
	caps := device.NewCapabilitySet("airConditionerMode", "switch")
	got := SetModeCommands(caps, device.ModeOff)
	want := []Command{{Component: "main", Capability: "switch", Command: "off", Arguments: []any{}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SetModeCommands(off) = %+v, want %+v", got, want)
	}
}

// Scenario 6 (spec.md §8): Samsung AC heat from off. Emitted commands in
// order: switch.on, then airConditionerMode.setAirConditionerMode["heat"].
func TestSetModeCommandsSamsungACHeatFromOff(t *testing.T) {
	caps := device.NewCapabilitySet("airConditionerMode", "switch")
	got := SetModeCommands(caps, device.ModeHeat)
	want := []Command{
		{Component: "main", Capability: "switch", Command: "on", Arguments: []any{}},
		{Component: "main", Capability: "airConditionerMode", Command: "setAirConditionerMode", Arguments: []any{"heat"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SetModeCommands(heat) = %+v, want %+v", got, want)
	}
}

func TestSetModeCommandsNoCapability(t *testing.T) {
	caps := device.NewCapabilitySet("switch")
	if got := SetModeCommands(caps, device.ModeHeat); got != nil {
		t.Errorf("SetModeCommands() = %+v, want nil", got)
	}
}

func TestSetCoolingAndHeatingSetpointCommands(t *testing.T) {
	caps := device.NewCapabilitySet("thermostatCoolingSetpoint", "thermostatHeatingSetpoint")

	cool := SetCoolingSetpointCommands(caps, 72)
	wantCool := []Command{{Component: "main", Capability: "thermostatCoolingSetpoint", Command: "setCoolingSetpoint", Arguments: []any{72.0}}}
	if !reflect.DeepEqual(cool, wantCool) {
		t.Errorf("SetCoolingSetpointCommands() = %+v, want %+v", cool, wantCool)
	}

	heat := SetHeatingSetpointCommands(caps, 68)
	wantHeat := []Command{{Component: "main", Capability: "thermostatHeatingSetpoint", Command: "setHeatingSetpoint", Arguments: []any{68.0}}}
	if !reflect.DeepEqual(heat, wantHeat) {
		t.Errorf("SetHeatingSetpointCommands() = %+v, want %+v", heat, wantHeat)
	}
}

func TestSetSetpointCommandsAbsentCapability(t *testing.T) {
	caps := device.NewCapabilitySet("airConditionerMode")
	if got := SetCoolingSetpointCommands(caps, 72); got != nil {
		t.Errorf("SetCoolingSetpointCommands() = %+v, want nil", got)
	}
	if got := SetHeatingSetpointCommands(caps, 68); got != nil {
		t.Errorf("SetHeatingSetpointCommands() = %+v, want nil", got)
	}
}

// Display-light round trip (spec.md §8): setDisplayLight(on) always emits
// Light_Off; setDisplayLight(off) always emits Light_On.
func TestSetDisplayLightCommandInversion(t *testing.T) {
	on := SetDisplayLightCommand(true)
	off := SetDisplayLightCommand(false)

	extractToken := func(c Command) string {
		m := c.Arguments[1].(map[string]any)
		return m["x.com.samsung.da.options"].([]string)[0]
	}

	if got := extractToken(on); got != "Light_Off" {
		t.Errorf("SetDisplayLightCommand(true) token = %q, want Light_Off", got)
	}
	if got := extractToken(off); got != "Light_On" {
		t.Errorf("SetDisplayLightCommand(false) token = %q, want Light_On", got)
	}
	if on.Arguments[0] != "mode/vs/0" || off.Arguments[0] != "mode/vs/0" {
		t.Errorf("display light commands must target mode/vs/0")
	}
}
