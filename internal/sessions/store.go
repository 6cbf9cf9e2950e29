package sessions

import (
	"errors"
	"math"
	"slices"
	"sync"
	"time"
)

var (
	ErrSessionExists   = errors.New("session already exists")
	ErrSessionNotFound = errors.New("session not found")
)

// Session is the health-tracking state of one chat.
type Session struct {
	Key     string
	health  map[string]int
	order   []string // participant IDs in insertion order, for stable rendering
	Created time.Time
	Updated time.Time
}

// Entry is one participant's counter.
type Entry struct {
	PlayerID string
	Health   int
}

// Snapshot is a read-only copy of a session, safe to hand out of the store.
type Snapshot struct {
	Key     string
	Entries []Entry
	Created time.Time
	Updated time.Time
}

// Has reports whether playerID is a participant.
func (s Snapshot) Has(playerID string) bool {
	for _, e := range s.Entries {
		if e.PlayerID == playerID {
			return true
		}
	}
	return false
}

// PlayerIDs returns the participant IDs in insertion order.
func (s Snapshot) PlayerIDs() []string {
	ids := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		ids[i] = e.PlayerID
	}
	return ids
}

func (s *Session) snapshot() Snapshot {
	entries := make([]Entry, len(s.order))
	for i, id := range s.order {
		entries[i] = Entry{PlayerID: id, Health: s.health[id]}
	}
	return Snapshot{Key: s.Key, Entries: entries, Created: s.Created, Updated: s.Updated}
}

// Store is the process-wide registry of active sessions, one per key.
// It is not persisted; a restart starts empty.
type Store struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Get returns a snapshot of the session for key.
func (m *Store) Get(key string) (Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[key]
	if !ok {
		return Snapshot{}, false
	}
	return s.snapshot(), true
}

// Has reports whether playerID participates in the session for key.
func (m *Store) Has(key, playerID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[key]
	if !ok {
		return false
	}
	_, ok = s.health[playerID]
	return ok
}

// Create starts a session with every player at health.
// Duplicate player IDs collapse into one participant.
func (m *Store) Create(key string, playerIDs []string, health int) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[key]; ok {
		return Snapshot{}, ErrSessionExists
	}

	now := time.Now()
	s := &Session{
		Key:     key,
		health:  make(map[string]int, len(playerIDs)),
		Created: now,
		Updated: now,
	}
	for _, id := range playerIDs {
		if _, dup := s.health[id]; dup {
			continue
		}
		s.health[id] = health
		s.order = append(s.order, id)
	}
	m.sessions[key] = s
	return s.snapshot(), nil
}

// Delete removes the session for key. Deleting a missing key is a no-op.
func (m *Store) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
}

// Mutate adds delta to playerID's counter. A player not yet in the session
// is inserted with counter delta.
func (m *Store) Mutate(key, playerID string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[key]
	if !ok {
		return ErrSessionNotFound
	}
	if _, ok := s.health[playerID]; !ok {
		s.order = append(s.order, playerID)
	}
	s.health[playerID] = saturatingAdd(s.health[playerID], delta)
	s.Updated = time.Now()
	return nil
}

// saturatingAdd returns a+b clamped to [math.MinInt, math.MaxInt].
func saturatingAdd(a, b int) int {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return math.MaxInt
	case b < 0 && a < math.MinInt-b:
		return math.MinInt
	}
	return a + b
}

// Keys returns the keys of all active sessions, sorted.
func (m *Store) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.sessions))
	for k := range m.sessions {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of active sessions.
func (m *Store) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
