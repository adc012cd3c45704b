package coordinator

import (
	"context"
	"testing"

	"github.com/Xatter/SmartThingsHomekitBridge-sub000/internal/mocks"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/accessory"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/device"
)

func TestGeneratedAdapterMockPublishAndUpdate(t *testing.T) {
	adapter := mocks.NewAdapter()
	identity := accessory.Identity{Name: "Bedroom"}
	adapter.EXPECT().PublishAccessory(context.Background(), "dev-1", identity).Return(nil)
	adapter.EXPECT().UpdateState(context.Background(), "dev-1", device.State{Mode: device.ModeCool}).Return(nil)

	if err := adapter.PublishAccessory(context.Background(), "dev-1", identity); err != nil {
		t.Fatalf("PublishAccessory() error = %v", err)
	}
	if err := adapter.UpdateState(context.Background(), "dev-1", device.State{Mode: device.ModeCool}); err != nil {
		t.Fatalf("UpdateState() error = %v", err)
	}
	adapter.AssertExpectations(t)
}
