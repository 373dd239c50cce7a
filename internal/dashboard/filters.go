package dashboard

import (
	"strings"
	"sync"

	"listingsdash/internal/listings"
)

// Controls holds the current value of every filter control, keyed by control id.
// Ids are prefixed by the scope they belong to, see FilterPrefix.
type Controls struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewControls(initial map[string]string) *Controls {
	values := make(map[string]string, len(initial))
	for id, value := range initial {
		values[id] = value
	}
	return &Controls{values: values}
}

// Set changes a control's value, an empty value clears the control.
func (c *Controls) Set(id, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[id] = value
}

func (c *Controls) Snapshot() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.values))
	for id, value := range c.values {
		out[id] = value
	}
	return out
}

// FilterPrefix returns the control id prefix of the given scope.
func FilterPrefix(scope listings.Scope) string {
	if scope == listings.ScopeNew {
		return "new_filter_"
	}
	return "filter_"
}

// CollectFilters returns the non-empty controls of the scope.
func CollectFilters(controls *Controls, scope listings.Scope) listings.FilterMap {
	filters := listings.FilterMap{}
	if controls == nil {
		return filters
	}
	prefix := FilterPrefix(scope)

	controls.mu.RLock()
	defer controls.mu.RUnlock()
	for id, value := range controls.values {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		filters[id] = value
	}
	return filters
}
