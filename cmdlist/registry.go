package cmdlist

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/dpu/mmio"
)

// ConsumerFactory creates a consumer bound to a register window.
type ConsumerFactory func(w mmio.Window) Consumer

var (
	registryMu sync.RWMutex
	consumers  = make(map[string]ConsumerFactory)
)

// Register makes a consumer available by name.
// It panics if factory is nil or name is already registered.
func Register(name string, factory ConsumerFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("cmdlist: Register factory is nil")
	}
	if _, dup := consumers[name]; dup {
		panic("cmdlist: Register called twice for " + name)
	}
	consumers[name] = factory
}

// Unregister removes a consumer. It is a no-op for unknown names.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(consumers, name)
}

// NewConsumer creates a registered consumer bound to w.
func NewConsumer(name string, w mmio.Window) (Consumer, error) {
	registryMu.RLock()
	factory, ok := consumers[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("cmdlist: unknown consumer %q (forgotten import?)", name)
	}
	return factory(w), nil
}

// Consumers returns the sorted names of registered consumers.
func Consumers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(consumers))
	for name := range consumers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
