package internal

import (
	"cmp"
	"slices"
)

// SortedMap is a map that iterates its entries in ascending key order. Keys
// are kept in a sorted slice.
type SortedMap[K cmp.Ordered, V any] struct {
	keys   []K
	values map[K]V
}

func NewSortedMap[K cmp.Ordered, V any]() *SortedMap[K, V] {
	return &SortedMap[K, V]{values: map[K]V{}}
}

func (s *SortedMap[K, V]) Load(key K) (value V, ok bool) {
	value, ok = s.values[key]
	return
}

// Store sets key to value, replacing any previous value.
func (s *SortedMap[K, V]) Store(key K, value V) {
	if _, ok := s.values[key]; !ok {
		idx, _ := slices.BinarySearch(s.keys, key)
		s.keys = slices.Insert(s.keys, idx, key)
	}
	s.values[key] = value
}

// LoadOrStore keeps the first value stored for a given key. Returns the value
// present in the map after the call, and whether it was already there.
func (s *SortedMap[K, V]) LoadOrStore(key K, value V) (actual V, loaded bool) {
	if v, ok := s.values[key]; ok {
		return v, true
	}
	s.Store(key, value)
	return value, false
}

func (s *SortedMap[K, V]) Delete(key K) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	idx, _ := slices.BinarySearch(s.keys, key)
	s.keys = slices.Delete(s.keys, idx, idx+1)
}

func (s *SortedMap[K, V]) Len() int {
	return len(s.keys)
}

// Keys returns a copy of the keys in ascending order.
func (s *SortedMap[K, V]) Keys() []K {
	return slices.Clone(s.keys)
}

func (s *SortedMap[K, V]) Range() func(func(key K, value V) bool) {
	return func(yield func(key K, value V) bool) {
		for _, k := range s.keys {
			if !yield(k, s.values[k]) {
				return
			}
		}
	}
}
