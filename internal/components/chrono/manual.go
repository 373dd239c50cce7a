package chrono

import (
	"sync"
	"time"
)

// ManualScheduler is a Scheduler whose runs are triggered by calling Fire, for tests.
type ManualScheduler struct {
	mu      sync.Mutex
	nextId  int
	entries map[int]manualEntry
}

type manualEntry struct {
	interval time.Duration
	callback func()
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{entries: map[int]manualEntry{}}
}

func (m *ManualScheduler) Every(interval time.Duration, callback func()) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextId
	m.nextId++
	m.entries[id] = manualEntry{interval: interval, callback: callback}

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.entries, id)
	}, nil
}

// Fire runs every registered callback once, synchronously.
func (m *ManualScheduler) Fire() {
	m.mu.Lock()
	callbacks := make([]func(), 0, len(m.entries))
	for _, e := range m.entries {
		callbacks = append(callbacks, e.callback)
	}
	m.mu.Unlock()

	for _, cb := range callbacks {
		cb()
	}
}

// Intervals returns the intervals of the registered callbacks.
func (m *ManualScheduler) Intervals() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]time.Duration, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.interval)
	}
	return out
}
