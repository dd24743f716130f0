// Package session tracks the current authenticated identity on the client.
//
// The identity is explicit state: it is initialized on login, cleared on
// logout, and handed to collaborators as a parameter. Components that need
// to react to login/logout (e.g. to trigger a sync) subscribe for change
// notifications instead of polling a global.
package session

import "sync"

// Manager holds the nullable owner identity and its subscribers.
type Manager struct {
	mu      sync.RWMutex
	ownerID string
	subs    map[int]func(ownerID string)
	nextID  int
}

func NewManager() *Manager {
	return &Manager{subs: make(map[int]func(string))}
}

// Current returns the active owner id, or "" when no session exists.
func (m *Manager) Current() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ownerID
}

// Set establishes a session for ownerID and notifies subscribers.
func (m *Manager) Set(ownerID string) {
	m.notify(ownerID)
}

// Clear tears the session down (logout) and notifies subscribers with "".
func (m *Manager) Clear() {
	m.notify("")
}

func (m *Manager) notify(ownerID string) {
	m.mu.Lock()
	m.ownerID = ownerID
	subs := make([]func(string), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(ownerID)
	}
}

// Subscribe registers fn to run on every session change and returns an id
// for Unsubscribe.
func (m *Manager) Subscribe(fn func(ownerID string)) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.subs[m.nextID] = fn
	return m.nextID
}

// Unsubscribe removes a previously registered subscriber.
func (m *Manager) Unsubscribe(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subs, id)
}
