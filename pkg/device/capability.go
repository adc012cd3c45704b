package device

// Capability is a recognized cloud capability ID. Capability records arrive
// from the cloud SDK as weakly-typed strings; this type closes them over a
// known enumeration so the rest of the bridge can reason about sets rather
// than raw strings. Unrecognized capability strings are kept in the same
// capability set (Device.Capabilities) as opaque metadata.
type Capability string

// Recognized thermostat/AC-relevant capabilities (spec.md §3).
const (
	CapTemperatureMeasurement        Capability = "temperatureMeasurement"
	CapThermostat                    Capability = "thermostat"
	CapThermostatCoolingSetpoint     Capability = "thermostatCoolingSetpoint"
	CapThermostatHeatingSetpoint     Capability = "thermostatHeatingSetpoint"
	CapThermostatMode                Capability = "thermostatMode"
	CapSwitch                        Capability = "switch"
	CapAirConditionerMode            Capability = "airConditionerMode"
	CapCustomThermostatSetpointCtrl  Capability = "customThermostatSetpointControl"
	CapExecute                       Capability = "execute"
)

// CapabilitySet is a set of capability IDs, recognized and raw alike.
type CapabilitySet map[string]struct{}

// NewCapabilitySet builds a set from a list of capability ID strings.
func NewCapabilitySet(ids ...string) CapabilitySet {
	s := make(CapabilitySet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether the set contains cap.
func (s CapabilitySet) Has(cap Capability) bool {
	_, ok := s[string(cap)]
	return ok
}

// HasAny reports whether the set contains any of caps.
func (s CapabilitySet) HasAny(caps ...Capability) bool {
	for _, c := range caps {
		if s.Has(c) {
			return true
		}
	}
	return false
}

// Union merges other into a new set and returns it; s is not mutated.
func (s CapabilitySet) Union(other CapabilitySet) CapabilitySet {
	merged := make(CapabilitySet, len(s)+len(other))
	for k := range s {
		merged[k] = struct{}{}
	}
	for k := range other {
		merged[k] = struct{}{}
	}
	return merged
}

// ExtractCapabilities implements the extraction rule from spec.md §4.3: if
// the top-level capability list is non-empty, use it; otherwise union the
// capability lists of all components.
func ExtractCapabilities(topLevel []string, componentCapabilities [][]string) CapabilitySet {
	if len(topLevel) > 0 {
		return NewCapabilitySet(topLevel...)
	}

	set := CapabilitySet{}
	for _, comp := range componentCapabilities {
		for _, id := range comp {
			set[id] = struct{}{}
		}
	}
	return set
}
