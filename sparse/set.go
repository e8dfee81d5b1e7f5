// Package sparse provides a dense/sparse keyed store with O(1) insert, remove and lookup
package sparse

import "errors"

// ErrNegativeKey is returned when inserting a key below zero
var ErrNegativeKey = errors.New("sparse: negative key")

// empty marks a sparse slot with no dense entry
const empty = -1

type entry[T any] struct {
	key int
	val T
}

// Set maps small integer keys to values
// Iteration walks the dense array, so removal reorders elements (swap-remove)
// Not safe for concurrent use; the owner serializes access
type Set[T any] struct {
	dense  []entry[T]
	sparse []int
}

// New creates a set with sparse capacity preallocated
func New[T any](capacity int) *Set[T] {
	if capacity < 0 {
		capacity = 0
	}
	s := &Set[T]{
		dense:  make([]entry[T], 0, capacity),
		sparse: make([]int, capacity),
	}
	for i := range s.sparse {
		s.sparse[i] = empty
	}
	return s
}

// grow extends the sparse array by doubling, or to key+1 if larger
func (s *Set[T]) grow(key int) {
	oldLen := len(s.sparse)
	newLen := max(oldLen*2, key+1)

	next := make([]int, newLen)
	copy(next, s.sparse)
	for i := oldLen; i < newLen; i++ {
		next[i] = empty
	}
	s.sparse = next
}

// Insert stores val at key, overwriting in place if key is occupied
// Keys beyond current capacity grow the sparse array
func (s *Set[T]) Insert(key int, val T) error {
	if key < 0 {
		return ErrNegativeKey
	}
	if key >= len(s.sparse) {
		s.grow(key)
	}

	if idx := s.sparse[key]; idx != empty {
		s.dense[idx].val = val
		return nil
	}

	s.dense = append(s.dense, entry[T]{key: key, val: val})
	s.sparse[key] = len(s.dense) - 1
	return nil
}

// Remove deletes key and returns its value
// The last dense entry moves into the vacated slot and its mapping is fixed up
func (s *Set[T]) Remove(key int) (T, bool) {
	var zero T
	if !s.IsFilled(key) {
		return zero, false
	}

	idx := s.sparse[key]
	removed := s.dense[idx].val

	last := len(s.dense) - 1
	if idx != last {
		moved := s.dense[last]
		s.dense[idx] = moved
		s.sparse[moved.key] = idx
	}

	s.dense[last] = entry[T]{} // release reference for GC
	s.dense = s.dense[:last]
	s.sparse[key] = empty
	return removed, true
}

// Get returns the value stored at key
func (s *Set[T]) Get(key int) (T, bool) {
	if !s.IsFilled(key) {
		var zero T
		return zero, false
	}
	return s.dense[s.sparse[key]].val, true
}

// IsFilled reports whether key is occupied
func (s *Set[T]) IsFilled(key int) bool {
	return key >= 0 && key < len(s.sparse) && s.sparse[key] != empty
}

// Len returns the number of occupied keys
func (s *Set[T]) Len() int {
	return len(s.dense)
}

// Cap returns the current sparse capacity
func (s *Set[T]) Cap() int {
	return len(s.sparse)
}

// Each visits entries in dense order until fn returns false
// fn must not mutate the set
func (s *Set[T]) Each(fn func(key int, val T) bool) {
	for i := range s.dense {
		if !fn(s.dense[i].key, s.dense[i].val) {
			return
		}
	}
}

// Keys returns a copy of the occupied keys in dense order
func (s *Set[T]) Keys() []int {
	keys := make([]int, len(s.dense))
	for i := range s.dense {
		keys[i] = s.dense[i].key
	}
	return keys
}

// Clear removes all entries, keeping allocated capacity
func (s *Set[T]) Clear() {
	for i := range s.dense {
		s.sparse[s.dense[i].key] = empty
		s.dense[i] = entry[T]{}
	}
	s.dense = s.dense[:0]
}
