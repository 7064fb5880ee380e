// Package store is the shared state container the client writes normalized
// entities into. Each named slot is typed and can be observed.
package store

import (
	"crowdfund/domain"
	"sync"
)

const (
	SlotConnectedAccount = "connectedAccount"
	SlotProjects         = "projects"
	SlotProject          = "project"
	SlotBackers          = "backers"
	SlotStats            = "stats"
)

// Persister receives every slot write. Calls are fire-and-forget.
type Persister interface {
	Persist(slot string, value interface{})
}

type Slot[T any] struct {
	name      string
	persister Persister

	mu     sync.RWMutex
	value  T
	filled bool
	subs   map[int]func(T)
	nextID int
}

func newSlot[T any](name string, persister Persister) *Slot[T] {
	return &Slot[T]{
		name:      name,
		persister: persister,
		subs:      make(map[int]func(T)),
	}
}

func (s *Slot[T]) Name() string {
	return s.name
}

// Get returns the current value and whether the slot was written since the
// last reset.
func (s *Slot[T]) Get() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.filled
}

// Set replaces the whole value; the last write wins.
func (s *Slot[T]) Set(value T) {
	s.write(value, true, true)
}

// Restore fills the slot with a value read back from the persister. Subscribers
// are notified, the persister is not.
func (s *Slot[T]) Restore(value T) {
	s.write(value, true, false)
}

func (s *Slot[T]) Reset() {
	var zero T
	s.write(zero, false, true)
}

func (s *Slot[T]) write(value T, filled bool, persist bool) {
	s.mu.Lock()
	s.value = value
	s.filled = filled
	subs := make([]func(T), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	if persist && s.persister != nil {
		s.persister.Persist(s.name, value)
	}
	for _, fn := range subs {
		fn(value)
	}
}

// Subscribe registers fn to be called after every write. The returned function
// removes the subscription.
func (s *Slot[T]) Subscribe(fn func(T)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

type Store struct {
	ConnectedAccount *Slot[string]
	Projects         *Slot[[]domain.Project]
	Project          *Slot[*domain.Project]
	Backers          *Slot[[]domain.Backer]
	Stats            *Slot[*domain.Stats]
}

// New creates an empty store. persister may be nil.
func New(persister Persister) *Store {
	return &Store{
		ConnectedAccount: newSlot[string](SlotConnectedAccount, persister),
		Projects:         newSlot[[]domain.Project](SlotProjects, persister),
		Project:          newSlot[*domain.Project](SlotProject, persister),
		Backers:          newSlot[[]domain.Backer](SlotBackers, persister),
		Stats:            newSlot[*domain.Stats](SlotStats, persister),
	}
}

// Reset empties every slot, as a fresh page load would.
func (s *Store) Reset() {
	s.ConnectedAccount.Reset()
	s.Projects.Reset()
	s.Project.Reset()
	s.Backers.Reset()
	s.Stats.Reset()
}
