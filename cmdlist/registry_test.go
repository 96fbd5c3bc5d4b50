package cmdlist

import (
	"testing"

	"github.com/gogpu/dpu/mmio"
)

func TestBuiltinMMIORegistered(t *testing.T) {
	c, err := NewConsumer("mmio", mmio.NewMemory(0x10))
	if err != nil {
		t.Fatalf("NewConsumer(mmio) error = %v", err)
	}
	if _, ok := c.(*MMIO); !ok {
		t.Errorf("NewConsumer(mmio) returned %T, want *MMIO", c)
	}
}

func TestRegisterAndUnregister(t *testing.T) {
	Register("test-null", func(mmio.Window) Consumer { return &recordingConsumer{} })
	defer Unregister("test-null")

	found := false
	for _, name := range Consumers() {
		if name == "test-null" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Consumers() = %v, missing test-null", Consumers())
	}

	Unregister("test-null")
	if _, err := NewConsumer("test-null", nil); err == nil {
		t.Error("NewConsumer after Unregister succeeded")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("duplicate Register did not panic")
		}
	}()
	Register("mmio", func(w mmio.Window) Consumer { return NewMMIO(w) })
}

func TestRegisterNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Register(nil) did not panic")
		}
	}()
	Register("nil-factory", nil)
}
