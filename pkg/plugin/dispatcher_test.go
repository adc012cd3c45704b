package plugin

import (
	"context"
	"testing"

	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/device"
)

type recordingHandler struct {
	BaseHandler
	name      string
	mutate    func(device.State) device.State
	cancel    bool
	seen      []string
	afterSeen []string
	polled    bool
}

func (r *recordingHandler) Name() string { return r.name }

func (r *recordingHandler) BeforeSetSmartThingsState(ctx context.Context, d *device.Device, proposed device.State) HookResult {
	r.seen = append(r.seen, d.ID)
	if r.cancel {
		return Cancel()
	}
	if r.mutate != nil {
		return Continue(r.mutate(proposed))
	}
	return Continue(proposed)
}

func (r *recordingHandler) AfterDeviceUpdate(ctx context.Context, d *device.Device, previous, current device.State) {
	r.afterSeen = append(r.afterSeen, d.ID)
}

func (r *recordingHandler) OnPollCycle(ctx context.Context) { r.polled = true }

func testDevice(id string) *device.Device {
	return &device.Device{ID: id, Capabilities: device.NewCapabilitySet("thermostatMode")}
}

func TestDispatcherRunsHandlersInOrderChainingState(t *testing.T) {
	d := NewDispatcher(nil)
	first := &recordingHandler{name: "first", mutate: func(s device.State) device.State { s.CurrentTemperature = 1; return s }}
	second := &recordingHandler{name: "second", mutate: func(s device.State) device.State { s.CurrentTemperature += 10; return s }}
	d.Register(first)
	d.Register(second)

	result := d.DispatchBeforeSetSmartThingsState(context.Background(), testDevice("dev-1"), device.State{})
	if result.Cancelled {
		t.Fatalf("Cancelled = true, want false")
	}
	if result.State.CurrentTemperature != 11 {
		t.Errorf("CurrentTemperature = %v, want 11 (chained through both handlers)", result.State.CurrentTemperature)
	}
}

func TestDispatcherStopsChainOnCancel(t *testing.T) {
	d := NewDispatcher(nil)
	first := &recordingHandler{name: "first", cancel: true}
	second := &recordingHandler{name: "second"}
	d.Register(first)
	d.Register(second)

	result := d.DispatchBeforeSetSmartThingsState(context.Background(), testDevice("dev-1"), device.State{})
	if !result.Cancelled {
		t.Fatalf("Cancelled = false, want true")
	}
	if len(second.seen) != 0 {
		t.Errorf("second handler was invoked after a cancel, want chain to stop")
	}
}

func TestDispatcherSkipsHandlersThatDontMatchDevice(t *testing.T) {
	d := NewDispatcher(nil)
	h := &recordingHandler{name: "only-switch"}
	d.Register(&nonMatchingWrapper{recordingHandler: h})

	dev := testDevice("dev-1")
	d.DispatchBeforeSetSmartThingsState(context.Background(), dev, device.State{})
	if len(h.seen) != 0 {
		t.Errorf("handler was invoked despite ShouldHandleDevice returning false")
	}
}

type nonMatchingWrapper struct {
	*recordingHandler
}

func (n *nonMatchingWrapper) ShouldHandleDevice(d *device.Device) bool { return false }

func TestDispatcherAfterDeviceUpdateNotifiesMatchingHandlers(t *testing.T) {
	d := NewDispatcher(nil)
	h := &recordingHandler{name: "after"}
	d.Register(h)

	dev := testDevice("dev-1")
	d.DispatchAfterDeviceUpdate(context.Background(), dev, device.State{}, device.State{CurrentTemperature: 5})
	if len(h.afterSeen) != 1 || h.afterSeen[0] != "dev-1" {
		t.Errorf("afterSeen = %v, want [dev-1]", h.afterSeen)
	}
}

func TestDispatcherOnPollCycleNotifiesAllHandlers(t *testing.T) {
	d := NewDispatcher(nil)
	h := &recordingHandler{name: "poll"}
	d.Register(h)

	d.DispatchOnPollCycle(context.Background())
	if !h.polled {
		t.Errorf("OnPollCycle was not invoked")
	}
}

func TestBindDeviceAccessLateBinding(t *testing.T) {
	d := NewDispatcher(nil)
	if d.DeviceAccess() != nil {
		t.Fatalf("DeviceAccess() = non-nil before binding")
	}
	access := &fakeAccess{}
	d.BindDeviceAccess(access)
	if d.DeviceAccess() != access {
		t.Errorf("DeviceAccess() did not return the bound value")
	}
}

type fakeAccess struct{}

func (fakeAccess) Device(id string) (*device.Device, bool) { return nil, false }
func (fakeAccess) State(id string) (device.State, bool)    { return device.State{}, false }
