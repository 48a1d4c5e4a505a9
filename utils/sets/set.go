package sets

import (
	"cmp"
	"encoding/json"
	"slices"
)

// A set of unique keys. The zero value is not usable, create one with New or FromSlice.
type Set[K comparable] map[K]struct{}

func New[K comparable]() Set[K] {
	return make(Set[K])
}

func FromSlice[K comparable](keys []K) Set[K] {
	s := make(Set[K], len(keys))
	s.Add(keys...)

	return s
}

func (s Set[K]) Has(key K) bool {
	_, ok := s[key]
	return ok
}

func (s Set[K]) Add(keys ...K) {
	for _, k := range keys {
		s[k] = struct{}{}
	}
}

// Adds key and reports whether it was absent beforehand.
func (s Set[K]) TryAdd(key K) bool {
	if s.Has(key) {
		return false
	}

	s[key] = struct{}{}
	return true
}

func (s Set[K]) Len() int {
	return len(s)
}

// Keys in no particular order. Use Sorted when output must be stable.
func (s Set[K]) Keys() []K {
	keys := make([]K, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}

	return keys
}

// Keys of an ordered set in ascending order.
func Sorted[K cmp.Ordered](s Set[K]) []K {
	keys := s.Keys()
	slices.Sort(keys)

	return keys
}

// Serializes this set's keys to a JSON array.
func (s Set[K]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Keys())
}

func (s *Set[K]) UnmarshalJSON(data []byte) error {
	var keys []K
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}

	*s = FromSlice(keys)
	return nil
}
