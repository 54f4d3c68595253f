// Package uploadconfig holds the active image upload configuration.
//
// A Store is a small observable cell: it keeps zero or one Config and tells
// its subscribers whenever the value changes. It performs no validation;
// completeness is checked by whoever uses the configuration.
package uploadconfig

import (
	"slices"
	"sync"
)

// Observer receives the current configuration, or nil when none is set
type Observer func(*Config)

// Store is an observable holder for the active upload configuration.
//
// Deliveries go through one queue in change order, so an observer always
// ends up holding the latest value. A change made while another caller is
// delivering is queued and delivered by that caller.
type Store struct {
	mu         sync.Mutex
	value      *Config
	observers  map[int]Observer
	nextID     int
	queue      []delivery
	delivering bool
}

type delivery struct {
	id    int
	value *Config
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{observers: make(map[int]Observer)}
}

// Subscribe registers fn and delivers the current value to it.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn Observer) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.queue = append(s.queue, delivery{id: id, value: s.copyLocked()})
	s.mu.Unlock()

	s.drain()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// Set replaces the stored configuration
func (s *Store) Set(cfg Config) {
	c := cfg.Clone()
	s.replace(&c)
}

// Update merges p over the stored configuration. When nothing is stored
// yet, p is stored as-is and may be incomplete.
func (s *Store) Update(p Partial) {
	s.mu.Lock()
	base := Config{}
	if s.value != nil {
		base = *s.value
	}
	merged := p.ApplyTo(base)
	s.value = &merged
	s.publishLocked()
	s.mu.Unlock()

	s.drain()
}

// Reset clears the stored configuration
func (s *Store) Reset() {
	s.replace(nil)
}

// Snapshot returns a copy of the stored configuration, or nil
func (s *Store) Snapshot() *Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

func (s *Store) replace(cfg *Config) {
	s.mu.Lock()
	s.value = cfg
	s.publishLocked()
	s.mu.Unlock()

	s.drain()
}

func (s *Store) copyLocked() *Config {
	if s.value == nil {
		return nil
	}
	c := s.value.Clone()
	return &c
}

// publishLocked queues the current value for every observer in
// subscription order.
func (s *Store) publishLocked() {
	ids := make([]int, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		s.queue = append(s.queue, delivery{id: id, value: s.copyLocked()})
	}
}

// drain delivers queued values unless another caller already is. Observers
// run outside the lock so they may read or write the store; their own
// writes are delivered after they return.
func (s *Store) drain() {
	s.mu.Lock()
	if s.delivering {
		s.mu.Unlock()
		return
	}
	s.delivering = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.delivering = false
		s.mu.Unlock()
	}()

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		d := s.queue[0]
		s.queue = s.queue[1:]
		fn, ok := s.observers[d.id]
		s.mu.Unlock()

		if ok {
			fn(d.value)
		}
	}
}
