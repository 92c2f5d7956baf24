package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"route_planner/internal/models"
)

var (
	ErrInvalidInput       = errors.New("stop name is required")
	ErrOutOfRange         = errors.New("stop index out of range")
	ErrInvalidPermutation = errors.New("order must be a permutation of the current stops")
	ErrStopNotFound       = errors.New("stop not found")
)

// StopStore owns the ordered stop collection. Order in the slice is the
// display and route order.
type StopStore struct {
	mu    sync.RWMutex
	stops []models.Stop
	newID func() string
}

// New returns an empty store that assigns UUIDs to new stops.
func New() *StopStore {
	return &StopStore{newID: uuid.NewString}
}

// Add appends a pending stop. Name and notes are trimmed.
func (s *StopStore) Add(name, notes string) (models.Stop, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Stop{}, ErrInvalidInput
	}

	stop := models.Stop{
		ID:               s.newID(),
		Name:             name,
		Notes:            strings.TrimSpace(notes),
		ValidationStatus: models.StatusPending,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops = append(s.stops, stop)
	return stop.Clone(), nil
}

// Remove deletes the stop with id. Unknown ids are ignored.
// It reports whether anything was removed.
func (s *StopStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.stops = append(s.stops[:i], s.stops[i+1:]...)
	return true
}

// MoveUp swaps the stop at index with the one before it. Index 0 is a no-op.
func (s *StopStore) MoveUp(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.stops) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, index)
	}
	if index == 0 {
		return nil
	}
	s.stops[index], s.stops[index-1] = s.stops[index-1], s.stops[index]
	return nil
}

// MoveDown swaps the stop at index with the one after it. The last index is a no-op.
func (s *StopStore) MoveDown(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.stops) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, index)
	}
	if index == len(s.stops)-1 {
		return nil
	}
	s.stops[index], s.stops[index+1] = s.stops[index+1], s.stops[index]
	return nil
}

// Reorder puts the stops in the order given by ids. Unknown or repeated ids are
// rejected; stops the caller left out keep their relative order after the
// listed ones.
func (s *StopStore) Reorder(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := make(map[string]models.Stop, len(s.stops))
	for _, st := range s.stops {
		byID[st.ID] = st
	}

	seen := make(map[string]bool, len(ids))
	ordered := make([]models.Stop, 0, len(s.stops))
	for _, id := range ids {
		st, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: unknown id %q", ErrInvalidPermutation, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidPermutation, id)
		}
		seen[id] = true
		ordered = append(ordered, st)
	}
	for _, st := range s.stops {
		if !seen[st.ID] {
			ordered = append(ordered, st)
		}
	}

	s.stops = ordered
	return nil
}

// Arrange is the lenient form of Reorder used when the order was computed from
// an earlier snapshot: ids no longer present are skipped and stops added since
// are kept at the end. Stop contents are never touched.
func (s *StopStore) Arrange(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := make(map[string]int, len(s.stops))
	for i, st := range s.stops {
		byID[st.ID] = i
	}

	placed := make(map[string]bool, len(ids))
	ordered := make([]models.Stop, 0, len(s.stops))
	for _, id := range ids {
		i, ok := byID[id]
		if !ok || placed[id] {
			continue
		}
		placed[id] = true
		ordered = append(ordered, s.stops[i])
	}
	for _, st := range s.stops {
		if !placed[st.ID] {
			ordered = append(ordered, st)
		}
	}
	s.stops = ordered
}

// ReplaceAll swaps in a new collection. Callers guarantee unique ids.
func (s *StopStore) ReplaceAll(stops []models.Stop) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops = models.CloneStops(stops)
}

// Clear empties the collection.
func (s *StopStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops = nil
}

// List returns a copy of the stops in order.
func (s *StopStore) List() []models.Stop {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneStops(s.stops)
}

// Get returns a copy of one stop.
func (s *StopStore) Get(id string) (models.Stop, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Stop{}, false
	}
	return s.stops[i].Clone(), true
}

// Len returns the number of stops.
func (s *StopStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.stops)
}

// Update applies fn to the stored stop with id under the write lock.
// Only the validation workflow uses it; it reports false if the stop is gone.
func (s *StopStore) Update(id string, fn func(*models.Stop)) (models.Stop, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Stop{}, false
	}
	fn(&s.stops[i])
	return s.stops[i].Clone(), true
}

func (s *StopStore) indexOf(id string) int {
	for i := range s.stops {
		if s.stops[i].ID == id {
			return i
		}
	}
	return -1
}
