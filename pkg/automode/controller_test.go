package automode

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/device"
)

func newTestController(t *testing.T, cfg Config) *Controller {
	t.Helper()
	path := filepath.Join(t.TempDir(), "automode.json")
	c := NewController(cfg, path, nil)
	if err := c.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return c
}

func TestEnrollIsIdempotent(t *testing.T) {
	c := newTestController(t, Config{})
	if err := c.Enroll("dev-1"); err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}
	if err := c.Enroll("dev-1"); err != nil {
		t.Fatalf("Enroll() (second) error = %v", err)
	}
	if !c.IsEnrolled("dev-1") {
		t.Errorf("IsEnrolled(dev-1) = false, want true")
	}

	c2 := NewController(Config{}, filepath.Join(t.TempDir(), "x.json"), nil)
	_ = c2
}

func TestUnenrollRemovesDevice(t *testing.T) {
	c := newTestController(t, Config{})
	c.Enroll("dev-1")
	c.Enroll("dev-2")
	c.Unenroll("dev-1")
	if c.IsEnrolled("dev-1") {
		t.Errorf("IsEnrolled(dev-1) = true, want false")
	}
	if !c.IsEnrolled("dev-2") {
		t.Errorf("IsEnrolled(dev-2) = false, want true")
	}
}

// Scenario: freeze protection. Any device at or below the freeze
// threshold forces heat unconditionally, bypassing every timing lock.
func TestEvaluateFreezeProtectionOverridesLock(t *testing.T) {
	c := newTestController(t, Config{})
	now := time.Now()

	readings := []DeviceReading{{DeviceID: "dev-1", CurrentTemp: 48, HeatingSetpoint: 70, CoolingSetpoint: 75, Weight: 1}}
	d := c.Evaluate(readings, now)

	if d.DesiredMode != device.ModeHeat {
		t.Fatalf("DesiredMode = %v, want heat", d.DesiredMode)
	}
	if d.Suppressed {
		t.Errorf("Suppressed = true, want false (safety override bypasses locks)")
	}
}

// Scenario: min-on lock. A device just switched on must stay on for
// MinOnDuration even if demand drops to zero.
func TestEvaluateMinOnLockSuppressesEarlyOff(t *testing.T) {
	cfg := Config{MinOnDuration: 10 * time.Minute}
	c := newTestController(t, cfg)
	now := time.Now()

	onDecision := c.Evaluate([]DeviceReading{{DeviceID: "dev-1", CurrentTemp: 60, HeatingSetpoint: 70, CoolingSetpoint: 75, Weight: 1}}, now)
	if onDecision.DesiredMode != device.ModeHeat {
		t.Fatalf("setup: DesiredMode = %v, want heat", onDecision.DesiredMode)
	}
	if err := c.ApplyDecision(onDecision, now); err != nil {
		t.Fatalf("ApplyDecision() error = %v", err)
	}

	soon := now.Add(1 * time.Minute)
	offAttempt := c.Evaluate([]DeviceReading{{DeviceID: "dev-1", CurrentTemp: 72, HeatingSetpoint: 70, CoolingSetpoint: 75, Weight: 1}}, soon)

	if !offAttempt.Suppressed {
		t.Fatalf("Suppressed = false, want true (min-on lock active)")
	}
	if offAttempt.DesiredMode != device.ModeHeat {
		t.Errorf("DesiredMode = %v, want heat (held)", offAttempt.DesiredMode)
	}
	if offAttempt.SecondsUntilAllowed <= 0 {
		t.Errorf("SecondsUntilAllowed = %d, want > 0", offAttempt.SecondsUntilAllowed)
	}
}

// Scenario: flip guard (spec.md §8 scenario 3). A device's heat demand
// opposing the currently-running cool mode is suppressed unless the
// temperature clears hysteresis+flipGuard below the heating setpoint;
// with no demand left in either direction, the desired mode falls to
// off, which the min-on lock then holds at the running mode.
func TestEvaluateFlipGuardSuppressesOpposingDemand(t *testing.T) {
	cfg := Config{FlipGuard: 2.0, Hysteresis: 0.7}
	c := newTestController(t, cfg)
	now := time.Now()

	// Start in cool mode.
	start := c.Evaluate([]DeviceReading{{DeviceID: "dev-1", CurrentTemp: 80, HeatingSetpoint: 65, CoolingSetpoint: 75, Weight: 1}}, now)
	if start.DesiredMode != device.ModeCool {
		t.Fatalf("setup: DesiredMode = %v, want cool", start.DesiredMode)
	}
	c.ApplyDecision(start, now)

	// Heat threshold = 68 - 0.7 - 2.0 = 65.3; 67.5 >= 65.3, so rawHeatΔ
	// is suppressed and the device has no demand in either direction.
	soon := now.Add(time.Minute)
	d := c.Evaluate([]DeviceReading{{DeviceID: "dev-1", CurrentTemp: 67.5, HeatingSetpoint: 68, CoolingSetpoint: 72, Weight: 1}}, soon)
	if d.TotalHeat != 0 {
		t.Errorf("TotalHeat = %v, want 0 (opposing demand suppressed)", d.TotalHeat)
	}
	if d.DesiredMode != device.ModeCool {
		t.Errorf("DesiredMode = %v, want cool (min-on lock holds the running mode)", d.DesiredMode)
	}
	if !d.Suppressed {
		t.Errorf("Suppressed = false, want true (min-on lock blocks the off desired by rule 1)")
	}
}

// Scenario: a device whose demand continues in the already-running
// direction is never gated by hysteresis/flip guard.
func TestEvaluateContinuingDemandIsUngated(t *testing.T) {
	cfg := Config{FlipGuard: 5.0, Hysteresis: 5.0, MinOnDuration: 0}
	c := newTestController(t, cfg)
	now := time.Now()

	start := c.Evaluate([]DeviceReading{{DeviceID: "dev-1", CurrentTemp: 60, HeatingSetpoint: 70, CoolingSetpoint: 75, Weight: 1}}, now)
	if start.DesiredMode != device.ModeHeat {
		t.Fatalf("setup: DesiredMode = %v, want heat", start.DesiredMode)
	}
	c.ApplyDecision(start, now)

	// Still below the heating setpoint: heat demand continues in the
	// running direction, so it counts with no hysteresis/flip-guard gate.
	later := now.Add(time.Hour)
	d := c.Evaluate([]DeviceReading{{DeviceID: "dev-1", CurrentTemp: 69, HeatingSetpoint: 70, CoolingSetpoint: 75, Weight: 1}}, later)
	if d.TotalHeat != 1 {
		t.Errorf("TotalHeat = %v, want 1 (ungated continuing demand)", d.TotalHeat)
	}
	if d.DesiredMode != device.ModeHeat {
		t.Errorf("DesiredMode = %v, want heat", d.DesiredMode)
	}
}

// Scenario: a device starting from off is never gated by hysteresis or
// flip guard, regardless of direction.
func TestEvaluateOffToHeatIsUngated(t *testing.T) {
	cfg := Config{FlipGuard: 5.0, Hysteresis: 5.0}
	c := newTestController(t, cfg)

	d := c.Evaluate([]DeviceReading{{DeviceID: "dev-1", CurrentTemp: 67, HeatingSetpoint: 68, CoolingSetpoint: 72, Weight: 1}}, time.Now())
	if d.TotalHeat != 1 {
		t.Errorf("TotalHeat = %v, want 1 (no gate starting from off)", d.TotalHeat)
	}
	if d.DesiredMode != device.ModeHeat {
		t.Errorf("DesiredMode = %v, want heat", d.DesiredMode)
	}
}

// Scenario: dominance tie. Roughly equal heat and cool demand across
// devices holds the current mode rather than picking a side.
func TestEvaluateDominanceTieHoldsCurrentMode(t *testing.T) {
	cfg := Config{RelativeThreshold: 0.25, AbsoluteThreshold: 2.0, Hysteresis: 0, FlipGuard: 0.1}
	c := newTestController(t, cfg)
	now := time.Now()

	start := c.Evaluate([]DeviceReading{{DeviceID: "dev-1", CurrentTemp: 70, HeatingSetpoint: 72, CoolingSetpoint: 75, Weight: 1}}, now)
	c.ApplyDecision(start, now)

	readings := []DeviceReading{
		{DeviceID: "dev-1", CurrentTemp: 68, HeatingSetpoint: 70, CoolingSetpoint: 75, Weight: 1},
		{DeviceID: "dev-2", CurrentTemp: 78, HeatingSetpoint: 65, CoolingSetpoint: 76, Weight: 1},
	}
	d := c.Evaluate(readings, now.Add(time.Hour))

	if d.Suppressed {
		t.Errorf("Suppressed = true, want false (dominance hold is a demand-rule outcome)")
	}
	if d.DesiredMode != c.CurrentMode() {
		t.Errorf("DesiredMode = %v, want held at current mode %v", d.DesiredMode, c.CurrentMode())
	}
}

// Scenario: dominance tie broken by relative dominance (spec.md §8
// scenario 4). Absolute gap (1) is below AbsoluteThreshold (2.0), but
// the winner still clears RelativeThreshold (2 >= 1*1.25), so either
// condition alone is enough to pick a side.
func TestEvaluateDominanceRelativeThresholdWins(t *testing.T) {
	cfg := Config{RelativeThreshold: 0.25, AbsoluteThreshold: 2.0, Hysteresis: 0, FlipGuard: 0}
	c := newTestController(t, cfg)

	readings := []DeviceReading{
		{DeviceID: "dev-a", CurrentTemp: 66, HeatingSetpoint: 68, CoolingSetpoint: 72, Weight: 1},
		{DeviceID: "dev-b", CurrentTemp: 73, HeatingSetpoint: 68, CoolingSetpoint: 72, Weight: 1},
	}
	d := c.Evaluate(readings, time.Now())

	if d.TotalHeat != 2 || d.TotalCool != 1 {
		t.Fatalf("TotalHeat=%v TotalCool=%v, want 2 and 1", d.TotalHeat, d.TotalCool)
	}
	if d.DesiredMode != device.ModeHeat {
		t.Errorf("DesiredMode = %v, want heat (relative dominance)", d.DesiredMode)
	}
	if d.Suppressed {
		t.Errorf("Suppressed = true, want false (no lock set up to block the off->heat transition)")
	}
}

func TestEvaluateNoDemandGoesOff(t *testing.T) {
	c := newTestController(t, Config{})
	d := c.Evaluate([]DeviceReading{{DeviceID: "dev-1", CurrentTemp: 72, HeatingSetpoint: 70, CoolingSetpoint: 75, Weight: 1}}, time.Now())
	if d.DesiredMode != device.ModeOff {
		t.Errorf("DesiredMode = %v, want off", d.DesiredMode)
	}
}

func TestApplyDecisionSuppressedIsNoop(t *testing.T) {
	c := newTestController(t, Config{})
	before := c.CurrentMode()
	err := c.ApplyDecision(Decision{DesiredMode: device.ModeHeat, Suppressed: true}, time.Now())
	if err != nil {
		t.Fatalf("ApplyDecision() error = %v", err)
	}
	if c.CurrentMode() != before {
		t.Errorf("CurrentMode() = %v, want unchanged %v", c.CurrentMode(), before)
	}
}

func TestControllerLoadPersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "automode.json")
	c1 := NewController(Config{}, path, nil)
	c1.Load()
	c1.Enroll("dev-1")
	now := time.Now()
	d := c1.Evaluate([]DeviceReading{{DeviceID: "dev-1", CurrentTemp: 60, HeatingSetpoint: 70, CoolingSetpoint: 75, Weight: 1}}, now)
	c1.ApplyDecision(d, now)

	c2 := NewController(Config{}, path, nil)
	if err := c2.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !c2.IsEnrolled("dev-1") {
		t.Errorf("IsEnrolled(dev-1) = false after reload, want true")
	}
	if c2.CurrentMode() != device.ModeHeat {
		t.Errorf("CurrentMode() = %v after reload, want heat", c2.CurrentMode())
	}
}
