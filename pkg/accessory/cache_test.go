package accessory

import (
	"path/filepath"
	"testing"
)

func TestCacheIdentityCreatesAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c := NewCache(path)
	if err := c.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	id1, err := c.Identity("dev-1", "Living Room", "Samsung")
	if err != nil {
		t.Fatalf("Identity() error = %v", err)
	}
	if id1.UUID.String() == "" {
		t.Fatalf("UUID is empty")
	}

	c2 := NewCache(path)
	if err := c2.Load(); err != nil {
		t.Fatalf("Load() (reload) error = %v", err)
	}
	id2, err := c2.Identity("dev-1", "Living Room", "Samsung")
	if err != nil {
		t.Fatalf("Identity() (reload) error = %v", err)
	}
	if id1.UUID != id2.UUID {
		t.Errorf("UUID changed across reload: %v != %v, want stable identity", id1.UUID, id2.UUID)
	}
}

func TestCacheIdentityUpdatesNameWithoutChangingUUID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c := NewCache(path)
	c.Load()

	id1, _ := c.Identity("dev-1", "Old Name", "Samsung")
	id2, _ := c.Identity("dev-1", "New Name", "Samsung")

	if id1.UUID != id2.UUID {
		t.Errorf("UUID changed on rename, want stable")
	}
	if id2.Name != "New Name" {
		t.Errorf("Name = %q, want updated to New Name", id2.Name)
	}
}

func TestCacheForgetRemovesIdentity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c := NewCache(path)
	c.Load()
	c.Identity("dev-1", "Living Room", "Samsung")
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
	if err := c.Forget("dev-1"); err != nil {
		t.Fatalf("Forget() error = %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after Forget, want 0", c.Len())
	}
}
