package device

import "time"

// Mode is the operating mode of an HVAC device.
type Mode string

const (
	ModeHeat Mode = "heat"
	ModeCool Mode = "cool"
	ModeAuto Mode = "auto"
	ModeOff  Mode = "off"
)

// rawModeNormalization maps counterintuitive vendor mode strings onto the
// closed Mode enumeration, per spec.md §3: "wind" and "dry" both normalize
// to cool.
var rawModeNormalization = map[string]Mode{
	"heat": ModeHeat,
	"cool": ModeCool,
	"auto": ModeAuto,
	"off":  ModeOff,
	"wind": ModeCool,
	"dry":  ModeCool,
}

// NormalizeMode maps a raw cloud mode string onto the closed Mode
// enumeration. Unrecognized strings pass through as ModeOff, the safest
// default.
func NormalizeMode(raw string) Mode {
	if m, ok := rawModeNormalization[raw]; ok {
		return m
	}
	return ModeOff
}

// State is the reconciled state of a single device.
type State struct {
	CurrentTemperature float64
	HeatingSetpoint    *float64
	CoolingSetpoint    *float64
	Mode               Mode
	Switch             bool // true = on
	DisplayLightOn     bool
	LastRefresh        time.Time
}

// Normalize applies the invariants from spec.md §3 in place: if the switch
// is off and the device advertises airConditionerMode, the mode is forced
// to off regardless of what the cloud reports for the AC mode.
func (s *State) Normalize(caps CapabilitySet) {
	if !s.Switch && caps.Has(CapAirConditionerMode) {
		s.Mode = ModeOff
	}
}

// EffectiveSetpoint returns the setpoint the device is steering toward:
// the cooling setpoint when mode is cool, else the heating setpoint if
// present, else the cooling setpoint.
func (s *State) EffectiveSetpoint() float64 {
	if s.Mode == ModeCool && s.CoolingSetpoint != nil {
		return *s.CoolingSetpoint
	}
	if s.HeatingSetpoint != nil {
		return *s.HeatingSetpoint
	}
	if s.CoolingSetpoint != nil {
		return *s.CoolingSetpoint
	}
	return 0
}
