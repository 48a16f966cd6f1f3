package accessapi

import (
	"fmt"
	"strings"
	"sync"
)

// Store is an in-memory registry of plates and their assigned puesto.
type Store struct {
	mu     sync.RWMutex
	plates map[string]string
}

func NewStore() *Store {
	return &Store{plates: make(map[string]string)}
}

// ParseAllowList builds a store from "PLATE=PUESTO,PLATE2=" entries.
// A plate without "=" has no puesto.
func ParseAllowList(s string) (*Store, error) {
	st := NewStore()
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		plate, location, _ := strings.Cut(entry, "=")
		plate = strings.TrimSpace(plate)
		if plate == "" {
			return nil, fmt.Errorf("allow list entry %q has no plate", entry)
		}
		st.Register(plate, strings.TrimSpace(location))
	}
	return st, nil
}

// Register allows plate with the given puesto (may be empty).
func (s *Store) Register(plate, location string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plates[plate] = location
}

// Lookup reports whether plate is registered and its puesto.
func (s *Store) Lookup(plate string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	location, ok := s.plates[plate]
	return location, ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.plates)
}
