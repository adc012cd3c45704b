// Package automode implements the weighted-demand decision engine that
// picks a single heat/cool/off mode for a group of devices sharing one
// compressor, with hysteresis, dominance thresholds and timing locks
// modeled on pkg/failsafe's mutex-guarded state machine.
package automode

import (
	"sync"
	"time"

	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/device"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/persistence"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/protolog"
)

// Config holds the tunables of the decision engine. Zero-value fields are
// replaced with defaults by NewController.
type Config struct {
	// Hysteresis, combined with FlipGuard, gates a device's raw demand
	// only when that demand opposes the currently running mode (e.g. a
	// heat demand while the compressor runs cool). Demand continuing in
	// the running direction, or starting from off, is never gated.
	Hysteresis float64

	// FlipGuard is the additional margin (beyond Hysteresis) a device's
	// temperature must clear before an opposing-mode demand counts.
	FlipGuard float64

	// RelativeThreshold and AbsoluteThreshold together gate which side
	// "dominates" a heat/cool conflict: the winning total must beat the
	// losing total by at least this fraction OR this many degrees.
	RelativeThreshold float64
	AbsoluteThreshold float64

	// FreezeThreshold and HighTempThreshold are unconditional safety
	// overrides: at or below FreezeThreshold any device forces heat; at
	// or above HighTempThreshold any device forces cool. Both bypass
	// every timing lock.
	FreezeThreshold   float64
	HighTempThreshold float64

	// MinOffDuration, MinOnDuration and MinLockDuration are the three
	// timing locks guarding the shared compressor.
	MinOffDuration  time.Duration
	MinOnDuration   time.Duration
	MinLockDuration time.Duration
}

// DefaultConfig returns the engine's default tunables.
func DefaultConfig() Config {
	return Config{
		Hysteresis:        0.7,
		FlipGuard:         2.0,
		RelativeThreshold: 0.25,
		AbsoluteThreshold: 2.0,
		FreezeThreshold:   50.0,
		HighTempThreshold: 90.0,
		MinOffDuration:    300 * time.Second,
		MinOnDuration:     600 * time.Second,
		MinLockDuration:   1800 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Hysteresis == 0 {
		c.Hysteresis = d.Hysteresis
	}
	if c.FlipGuard == 0 {
		c.FlipGuard = d.FlipGuard
	}
	if c.RelativeThreshold == 0 {
		c.RelativeThreshold = d.RelativeThreshold
	}
	if c.AbsoluteThreshold == 0 {
		c.AbsoluteThreshold = d.AbsoluteThreshold
	}
	if c.FreezeThreshold == 0 {
		c.FreezeThreshold = d.FreezeThreshold
	}
	if c.HighTempThreshold == 0 {
		c.HighTempThreshold = d.HighTempThreshold
	}
	if c.MinOffDuration == 0 {
		c.MinOffDuration = d.MinOffDuration
	}
	if c.MinOnDuration == 0 {
		c.MinOnDuration = d.MinOnDuration
	}
	if c.MinLockDuration == 0 {
		c.MinLockDuration = d.MinLockDuration
	}
	return c
}

// persistedState is the on-disk shape of the controller's state.
type persistedState struct {
	CurrentMode       device.Mode `json:"currentMode"`
	LastSwitchTime    time.Time   `json:"lastSwitchTime"`
	LastOnTime        time.Time   `json:"lastOnTime"`
	LastOffTime       time.Time   `json:"lastOffTime"`
	EnrolledDeviceIDs []string    `json:"enrolledDeviceIds"`
}

// Controller is the auto-mode decision engine for one group of
// shared-compressor devices.
type Controller struct {
	mu     sync.Mutex
	cfg    Config
	state  persistedState
	store  *persistence.Store
	logger protolog.Logger
	now    func() time.Time
}

// NewController creates a Controller. Call Load before first use.
func NewController(cfg Config, statePath string, logger protolog.Logger) *Controller {
	if logger == nil {
		logger = protolog.NoopLogger{}
	}
	return &Controller{
		cfg:    cfg.withDefaults(),
		state:  persistedState{CurrentMode: device.ModeOff},
		store:  persistence.NewStore(statePath),
		logger: logger,
		now:    time.Now,
	}
}

// Load restores persisted controller state. A missing file leaves the
// controller in its zero state (off, no enrollment, no lock history).
func (c *Controller) Load() error {
	var s persistedState
	found, err := c.store.Load(&s)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if found {
		c.state = s
	}
	return nil
}

func (c *Controller) save() error {
	return c.store.Save(&c.state)
}

// Enroll adds a device to the managed group. It is idempotent.
func (c *Controller) Enroll(deviceID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range c.state.EnrolledDeviceIDs {
		if id == deviceID {
			return nil
		}
	}
	c.state.EnrolledDeviceIDs = append(c.state.EnrolledDeviceIDs, deviceID)
	return c.save()
}

// Unenroll removes a device from the managed group. It is idempotent.
func (c *Controller) Unenroll(deviceID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.state.EnrolledDeviceIDs[:0]
	for _, id := range c.state.EnrolledDeviceIDs {
		if id != deviceID {
			out = append(out, id)
		}
	}
	c.state.EnrolledDeviceIDs = out
	return c.save()
}

// IsEnrolled reports whether deviceID is part of the managed group.
func (c *Controller) IsEnrolled(deviceID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range c.state.EnrolledDeviceIDs {
		if id == deviceID {
			return true
		}
	}
	return false
}

// CurrentMode returns the controller's current committed mode.
func (c *Controller) CurrentMode() device.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.CurrentMode
}

// DeviceReading is one enrolled device's current demand inputs.
type DeviceReading struct {
	DeviceID        string
	CurrentTemp     float64
	HeatingSetpoint float64
	CoolingSetpoint float64
	Weight          float64
}

// DeviceDemand is the per-device contribution to a Decision, reported for
// diagnostics.
type DeviceDemand struct {
	HeatDemand float64
	CoolDemand float64
}

// Decision is the result of one Evaluate call.
type Decision struct {
	DesiredMode         device.Mode
	TotalHeat           float64
	TotalCool           float64
	PerDevice           map[string]DeviceDemand
	Reason              string
	Suppressed          bool
	SecondsUntilAllowed int
}

func clampPositive(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// Evaluate computes the desired mode from the current set of device
// readings, applying hysteresis, dominance and the timing locks. It does
// not mutate controller state; call ApplyDecision to commit a transition.
func (c *Controller) Evaluate(readings []DeviceReading, now time.Time) Decision {
	c.mu.Lock()
	defer c.mu.Unlock()

	perDevice := make(map[string]DeviceDemand, len(readings))
	var totalHeat, totalCool float64
	var freeze, hot bool

	current := c.state.CurrentMode

	for _, r := range readings {
		if r.CurrentTemp <= c.cfg.FreezeThreshold {
			freeze = true
		}
		if r.CurrentTemp >= c.cfg.HighTempThreshold {
			hot = true
		}

		weight := r.Weight
		if weight == 0 {
			weight = 1
		}

		rawHeat := clampPositive(r.HeatingSetpoint - r.CurrentTemp)
		rawCool := clampPositive(r.CurrentTemp - r.CoolingSetpoint)

		// Flip guard only gates a device's raw demand when it opposes the
		// mode currently running; demand continuing in the running
		// direction, or starting from off, counts unguarded.
		if current == device.ModeCool && rawHeat > 0 {
			if r.CurrentTemp >= r.HeatingSetpoint-c.cfg.Hysteresis-c.cfg.FlipGuard {
				rawHeat = 0
			}
		}
		if current == device.ModeHeat && rawCool > 0 {
			if r.CurrentTemp <= r.CoolingSetpoint+c.cfg.Hysteresis+c.cfg.FlipGuard {
				rawCool = 0
			}
		}

		heatDemand := weight * rawHeat
		coolDemand := weight * rawCool
		perDevice[r.DeviceID] = DeviceDemand{HeatDemand: heatDemand, CoolDemand: coolDemand}
		totalHeat += heatDemand
		totalCool += coolDemand
	}

	if freeze {
		return Decision{DesiredMode: device.ModeHeat, TotalHeat: totalHeat, TotalCool: totalCool, PerDevice: perDevice, Reason: "freeze protection override"}
	}
	if hot {
		return Decision{DesiredMode: device.ModeCool, TotalHeat: totalHeat, TotalCool: totalCool, PerDevice: perDevice, Reason: "high temperature protection override"}
	}

	proposed, reason := c.decide(totalHeat, totalCool, current)

	if proposed == current {
		return Decision{DesiredMode: proposed, TotalHeat: totalHeat, TotalCool: totalCool, PerDevice: perDevice, Reason: reason}
	}

	if allowed, secondsUntil := c.lockAllows(current, proposed, now); !allowed {
		return Decision{
			DesiredMode:         current,
			TotalHeat:           totalHeat,
			TotalCool:           totalCool,
			PerDevice:           perDevice,
			Reason:              "timing lock active, holding " + string(current),
			Suppressed:          true,
			SecondsUntilAllowed: secondsUntil,
		}
	}

	return Decision{DesiredMode: proposed, TotalHeat: totalHeat, TotalCool: totalCool, PerDevice: perDevice, Reason: reason}
}

// decide applies the demand rules, assuming no safety override is
// active. Flip guard has already been folded into totalHeat/totalCool by
// the per-device gating in Evaluate, so rules 1 and 2 apply unguarded.
// It never consults timing locks.
func (c *Controller) decide(totalHeat, totalCool float64, current device.Mode) (device.Mode, string) {
	switch {
	case totalHeat == 0 && totalCool == 0:
		return device.ModeOff, "no demand"
	case totalHeat > 0 && totalCool == 0:
		return device.ModeHeat, "heat demand only"
	case totalCool > 0 && totalHeat == 0:
		return device.ModeCool, "cool demand only"
	}

	winner := device.ModeHeat
	winnerTotal, loserTotal := totalHeat, totalCool
	if totalCool > totalHeat {
		winner = device.ModeCool
		winnerTotal, loserTotal = totalCool, totalHeat
	}

	relativeDominance := winnerTotal >= loserTotal*(1+c.cfg.RelativeThreshold)
	absoluteDominance := winnerTotal-loserTotal >= c.cfg.AbsoluteThreshold

	if !relativeDominance && !absoluteDominance {
		return current, "conflicting demand below dominance threshold, holding"
	}
	return winner, "demand favors " + string(winner)
}

// lockAllows reports whether a transition from current to proposed is
// permitted right now, and if not, how many seconds remain.
func (c *Controller) lockAllows(current, proposed device.Mode, now time.Time) (bool, int) {
	switch {
	case current == device.ModeOff && proposed != device.ModeOff:
		return c.elapsedAtLeast(c.state.LastOffTime, c.cfg.MinOffDuration, now)
	case current != device.ModeOff && proposed == device.ModeOff:
		return c.elapsedAtLeast(c.state.LastOnTime, c.cfg.MinOnDuration, now)
	default:
		return c.elapsedAtLeast(c.state.LastSwitchTime, c.cfg.MinLockDuration, now)
	}
}

func (c *Controller) elapsedAtLeast(since time.Time, min time.Duration, now time.Time) (bool, int) {
	if since.IsZero() {
		return true, 0
	}
	elapsed := now.Sub(since)
	if elapsed >= min {
		return true, 0
	}
	remaining := min - elapsed
	return false, int(remaining / time.Second)
}

// ApplyDecision commits a non-suppressed Decision's mode to controller
// state and persists it. Suppressed decisions and decisions that do not
// change the mode are no-ops.
func (c *Controller) ApplyDecision(d Decision, now time.Time) error {
	if d.Suppressed {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if d.DesiredMode == c.state.CurrentMode {
		return nil
	}

	previous := c.state.CurrentMode
	c.state.CurrentMode = d.DesiredMode
	c.state.LastSwitchTime = now

	switch {
	case previous == device.ModeOff && d.DesiredMode != device.ModeOff:
		c.state.LastOnTime = now
	case previous != device.ModeOff && d.DesiredMode == device.ModeOff:
		c.state.LastOffTime = now
	}

	if err := c.save(); err != nil {
		return err
	}

	c.logger.Log(protolog.Event{
		Component: protolog.ComponentAutoMode,
		Operation: "modeChange",
		Outcome:   protolog.OutcomeSuccess,
		Detail:    string(previous) + "->" + string(d.DesiredMode) + ": " + d.Reason,
	})
	return nil
}
