// Package set provides a generic unordered set.
package set

type unit = struct{}

// Set is an unordered set of values of type T.
type Set[T comparable] map[T]unit

// Keeping Set a defined map type rather than a struct preserves ordinary
// indexing and range syntax for callers, at the cost of the casts in the
// mutating methods below.

// New returns an empty set.
func New[T comparable]() Set[T] {
	return make(Set[T])
}

// FromSlice builds a set of the values in vals.
func FromSlice[T comparable](vals []T) Set[T] {
	set := make(Set[T], len(vals))
	for _, x := range vals {
		set.Insert(x)
	}
	return set
}

// Contains reports whether val is present in the Set.
func (s *Set[T]) Contains(val T) bool {
	_, ok := (map[T]unit)(*s)[val]
	return ok
}

// Insert adds val to the Set.
func (s *Set[T]) Insert(val T) {
	(map[T]unit)(*s)[val] = unit{}
}

// Remove deletes val from the Set.
func (s *Set[T]) Remove(val T) {
	delete((map[T]unit)(*s), val)
}

// SupersetOf reports whether every value in other is also present in the Set.
func (s Set[T]) SupersetOf(other Set[T]) bool {
	for val := range other {
		if !s.Contains(val) {
			return false
		}
	}
	return true
}

// ToSlice returns a new slice holding the values of the Set.
func (s Set[T]) ToSlice() []T {
	res := make([]T, 0, len(s))
	for val := range s {
		res = append(res, val)
	}
	return res
}
