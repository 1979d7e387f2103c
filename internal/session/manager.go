package session

import "sync"

// Manager owns one container per client session ID. Containers live in
// process memory only; persistence across reloads is the upstream token's
// job, not ours.
type Manager struct {
	mu         sync.Mutex
	containers map[string]*Container
}

func NewManager() *Manager {
	return &Manager{containers: make(map[string]*Container)}
}

// GetOrCreate returns the container for sid, creating it in the initial
// (unauthenticated) state on first use.
func (m *Manager) GetOrCreate(sid string) *Container {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.containers[sid]
	if !ok {
		c = NewContainer()
		m.containers[sid] = c
	}
	return c
}

// Get returns the container for sid if one exists.
func (m *Manager) Get(sid string) (*Container, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.containers[sid]
	return c, ok
}

// Drop clears and removes the container for sid. Called on logout and
// session teardown. Safe to call for unknown IDs.
func (m *Manager) Drop(sid string) {
	m.mu.Lock()
	c, ok := m.containers[sid]
	delete(m.containers, sid)
	m.mu.Unlock()

	if ok {
		c.ClearAuth()
	}
}

// Len reports the number of live containers.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.containers)
}
