package browsersession

import (
	"sync"
)

// Store holds per-browser-session string key/value data, keyed by the
// director's session cookie. Data lives only in process memory and is lost on
// restart, which is acceptable - a restarted director simply re-processes
// users.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]map[string]string),
	}
}

// Session returns the key/value view bound to one browser session id.
func (s *Store) Session(id string) *Session {
	return &Session{store: s, id: id}
}

// Destroy drops all data for a browser session.
func (s *Store) Destroy(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *Store) set(id, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		s.sessions[id] = make(map[string]string)
	}
	s.sessions[id][key] = value
}

func (s *Store) get(id, key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id][key]
}

func (s *Store) remove(id, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if values, ok := s.sessions[id]; ok {
		delete(values, key)
	}
}

// Session is the string store for a single browser session. It satisfies the
// director's SessionStore port.
type Session struct {
	store *Store
	id    string
}

// Set stores a value under the key.
func (s *Session) Set(key, value string) {
	s.store.set(s.id, key, value)
}

// Get returns the value under the key, or "" when absent.
func (s *Session) Get(key string) string {
	return s.store.get(s.id, key)
}

// Remove deletes the key.
func (s *Session) Remove(key string) {
	s.store.remove(s.id, key)
}
