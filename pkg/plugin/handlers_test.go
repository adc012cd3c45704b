package plugin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/automode"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/cloudapi"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/device"
)

// Selecting "auto" enrolls the device and translates the selection down
// to whatever the shared compressor is currently running, per spec.md
// §4.5.
func TestHVACAutoModeHandlerEnrollsAndTranslatesAutoSelection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "automode.json")
	ctrl := automode.NewController(automode.Config{}, path, nil)
	ctrl.Load()
	ctrl.ApplyDecision(automode.Decision{DesiredMode: device.ModeCool}, time.Now())

	h := &HVACAutoModeHandler{Controller: ctrl}
	dev := testDevice("dev-1")

	result := h.BeforeSetSmartThingsState(context.Background(), dev, device.State{Mode: device.ModeAuto})
	if result.Cancelled {
		t.Fatalf("Cancelled = true, want false")
	}
	if !ctrl.IsEnrolled("dev-1") {
		t.Errorf("selecting auto did not enroll the device")
	}
	if result.State.Mode != device.ModeCool {
		t.Errorf("Mode = %v, want cool (translated to the compressor's running mode)", result.State.Mode)
	}
}

// Selecting a concrete mode directly unenrolls the device and honors
// the request as given, rather than being overridden back to the
// shared decision.
func TestHVACAutoModeHandlerUnenrollsOnDirectModeSelection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "automode.json")
	ctrl := automode.NewController(automode.Config{}, path, nil)
	ctrl.Load()
	ctrl.Enroll("dev-1")
	ctrl.ApplyDecision(automode.Decision{DesiredMode: device.ModeCool}, time.Now())

	h := &HVACAutoModeHandler{Controller: ctrl}
	dev := testDevice("dev-1")

	result := h.BeforeSetSmartThingsState(context.Background(), dev, device.State{Mode: device.ModeHeat})
	if ctrl.IsEnrolled("dev-1") {
		t.Errorf("selecting heat did not unenroll the device")
	}
	if result.State.Mode != device.ModeHeat {
		t.Errorf("Mode = %v, want heat (direct request honored, not overridden)", result.State.Mode)
	}
}

func TestHVACAutoModeHandlerPassesThroughUnenrolledDevice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "automode.json")
	ctrl := automode.NewController(automode.Config{}, path, nil)
	ctrl.Load()

	h := &HVACAutoModeHandler{Controller: ctrl}
	dev := testDevice("dev-2")

	result := h.BeforeSetSmartThingsState(context.Background(), dev, device.State{Mode: device.ModeHeat})
	if result.State.Mode != device.ModeHeat {
		t.Errorf("Mode = %v, want heat (unchanged for unenrolled device)", result.State.Mode)
	}
}

// BeforeSetHomeKitState always reports "auto" upward for an enrolled
// device, regardless of the concrete mode the compressor runs.
func TestHVACAutoModeHandlerReportsAutoUpwardWhenEnrolled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "automode.json")
	ctrl := automode.NewController(automode.Config{}, path, nil)
	ctrl.Load()
	ctrl.Enroll("dev-1")
	ctrl.ApplyDecision(automode.Decision{DesiredMode: device.ModeHeat}, time.Now())

	h := &HVACAutoModeHandler{Controller: ctrl}
	dev := testDevice("dev-1")

	result := h.BeforeSetHomeKitState(context.Background(), dev, device.State{Mode: device.ModeHeat})
	if result.State.Mode != device.ModeAuto {
		t.Errorf("Mode = %v, want auto (reported upward for enrolled device)", result.State.Mode)
	}
}

// OnPollCycle evaluates the shared decision from enrolled devices'
// current state and broadcasts it to the cloud.
func TestHVACAutoModeHandlerOnPollCycleBroadcastsDecision(t *testing.T) {
	path := filepath.Join(t.TempDir(), "automode.json")
	ctrl := automode.NewController(automode.Config{}, path, nil)
	ctrl.Load()
	ctrl.Enroll("dev-1")

	heat := 70.0
	cool := 75.0
	access := &fakeDeviceAccess{
		devices: map[string]*device.Device{"dev-1": testDevice("dev-1")},
		states: map[string]device.State{
			"dev-1": {CurrentTemperature: 60, HeatingSetpoint: &heat, CoolingSetpoint: &cool},
		},
	}

	var gotCommand int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&gotCommand, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	client := cloudapi.NewClient(cloudapi.Config{Tokens: authedTokens{}, HTTPClient: redirectClient(srv)})

	h := &HVACAutoModeHandler{
		Controller: ctrl,
		Client:     client,
		Devices:    func() []string { return []string{"dev-1"} },
		Access:     access,
	}

	h.OnPollCycle(context.Background())

	if ctrl.CurrentMode() != device.ModeHeat {
		t.Errorf("CurrentMode() = %v, want heat (decision committed)", ctrl.CurrentMode())
	}
	if atomic.LoadInt32(&gotCommand) == 0 {
		t.Errorf("no command broadcast to the cloud for the enrolled device")
	}
}

// redirectClient returns an HTTP client that delivers every request to srv,
// whatever scheme and host its URL names, so calls to the cloud client's
// fixed API base URL reach the test server.
func redirectClient(srv *httptest.Server) *http.Client {
	target, _ := url.Parse(srv.URL)
	return &http.Client{Transport: redirectTransport{target: target, base: srv.Client().Transport}}
}

type redirectTransport struct {
	target *url.URL
	base   http.RoundTripper
}

func (t redirectTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.URL.Scheme = t.target.Scheme
	r.URL.Host = t.target.Host
	return t.base.RoundTrip(r)
}

type fakeDeviceAccess struct {
	devices map[string]*device.Device
	states  map[string]device.State
}

func (a *fakeDeviceAccess) Device(deviceID string) (*device.Device, bool) {
	d, ok := a.devices[deviceID]
	return d, ok
}

func (a *fakeDeviceAccess) State(deviceID string) (device.State, bool) {
	s, ok := a.states[deviceID]
	return s, ok
}

type authedTokens struct{}

func (authedTokens) EnsureValidToken(ctx context.Context) error { return nil }
func (authedTokens) HasAuth() bool                              { return true }
func (authedTokens) AccessToken() string                        { return "tok" }

func TestDisplayLightMonitorSweepSuppressesOverlap(t *testing.T) {
	c := cloudapi.NewClient(cloudapi.Config{Tokens: &fakeTokens{}})
	var calls int32
	m := NewDisplayLightMonitor(c, time.Millisecond, func() []string { return []string{"dev-1"} }, nil)

	m.sweeping.Store(true)
	m.sweep(context.Background())
	atomic.AddInt32(&calls, 0)

	if !m.sweeping.Load() {
		t.Errorf("sweeping flag cleared despite overlap-skip path, want still true (held by the 'other' sweep)")
	}
}

func TestDisplayLightMonitorSweepClearsFlagAfterRun(t *testing.T) {
	c := cloudapi.NewClient(cloudapi.Config{Tokens: &fakeTokens{}})
	m := NewDisplayLightMonitor(c, time.Millisecond, func() []string { return nil }, nil)

	m.sweep(context.Background())
	if m.sweeping.Load() {
		t.Errorf("sweeping flag left set after sweep completed")
	}
}

type fakeTokens struct{}

func (fakeTokens) EnsureValidToken(ctx context.Context) error { return nil }
func (fakeTokens) HasAuth() bool                              { return false }
func (fakeTokens) AccessToken() string                         { return "" }
