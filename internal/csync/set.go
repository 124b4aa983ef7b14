package csync

import "sync"

// Set is a thread-safe set that remembers insertion order.
type Set[T comparable] struct {
	items []T
	index map[T]struct{}
	mu    sync.RWMutex
}

// NewSet creates a set holding the given items, duplicates dropped.
func NewSet[T comparable](items ...T) *Set[T] {
	s := &Set[T]{
		index: make(map[T]struct{}, len(items)),
	}
	s.addLocked(items)
	return s
}

// Add inserts items not already present. It reports how many were new.
func (s *Set[T]) Add(items ...T) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(items)
}

func (s *Set[T]) addLocked(items []T) int {
	added := 0
	for _, item := range items {
		if _, ok := s.index[item]; ok {
			continue
		}
		s.index[item] = struct{}{}
		s.items = append(s.items, item)
		added++
	}
	return added
}

// Has checks membership.
func (s *Set[T]) Has(item T) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[item]
	return ok
}

// Items returns a copy of the items in insertion order.
func (s *Set[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Clear removes every item.
func (s *Set[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.index = make(map[T]struct{})
}
