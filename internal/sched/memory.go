package sched

import "sync"

// Memory is an in-process Scheduler holding registrations in a map. It
// backs tests, and hosts without a native bridge can run one to keep the
// alarm layer exercised even though nothing is delivered.
type Memory struct {
	mu      sync.Mutex
	pending map[int32]Notification

	// Granted controls the permission answer; defaults to granted.
	Granted bool
	// Asked counts RequestPermissions calls (idempotence checks in tests).
	Asked int
}

// NewMemory returns a Memory scheduler with permission granted.
func NewMemory() *Memory {
	return &Memory{pending: make(map[int32]Notification), Granted: true}
}

func (m *Memory) Supported() bool { return true }

func (m *Memory) RequestPermissions() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Asked++
	return m.Granted, nil
}

func (m *Memory) Schedule(n Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[n.ID] = n
	return nil
}

func (m *Memory) Cancel(ids ...int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.pending, id)
	}
	return nil
}

func (m *Memory) Pending() ([]Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Notification, 0, len(m.pending))
	for _, n := range m.pending {
		out = append(out, n)
	}
	return out, nil
}
