package session

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/teslashibe/go-camview/internal/log"
	"github.com/teslashibe/go-camview/pkg/sensor"
)

// Store holds the live sessions.
type Store struct {
	catalog     *sensor.Catalog
	density     float64
	focusAreaDP int

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty store. New sessions resolve sensors from catalog
// and scale dp values by density.
func NewStore(catalog *sensor.Catalog, density float64) *Store {
	if catalog == nil {
		catalog = sensor.DefaultCatalog()
	}
	return &Store{
		catalog:  catalog,
		density:  density,
		sessions: make(map[string]*Session),
	}
}

// WithFocusArea sets the touch area edge (dp) for sessions created afterwards.
func (st *Store) WithFocusArea(dp int) *Store {
	st.mu.Lock()
	st.focusAreaDP = dp
	st.mu.Unlock()
	return st
}

// Catalog returns the sensor catalog sessions attach from.
func (st *Store) Catalog() *sensor.Catalog { return st.catalog }

// Create starts a new session. A density <= 0 uses the store default.
func (st *Store) Create(density float64) *Session {
	if density <= 0 {
		density = st.density
	}
	st.mu.Lock()
	s := newSession(uuid.New().String(), st.catalog, density, st.focusAreaDP)
	st.sessions[s.ID] = s
	count := len(st.sessions)
	st.mu.Unlock()

	log.Info("session created", "session", s.ID, "density", density, "total", count)
	return s
}

// Get returns the session with id.
func (st *Store) Get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

// Delete removes a session.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	log.Info("session deleted", "session", id)
	return nil
}

// List returns sessions oldest first.
func (st *Store) List() []*Session {
	st.mu.RLock()
	out := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		out = append(out, s)
	}
	st.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Created.Equal(out[j].Created) {
			return out[i].ID < out[j].ID
		}
		return out[i].Created.Before(out[j].Created)
	})
	return out
}

// Len returns the number of sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
