package refs

import "sort"

// vector is a growable array with an optional element limit. It backs the
// catalog, each index entry and the index entry list.
type vector[T any] struct {
	items []T
	limit int // 0 means unbounded
}

func newVector[T any](capacity, limit int) vector[T] {
	if limit > 0 && capacity > limit {
		capacity = limit
	}
	return vector[T]{items: make([]T, 0, capacity), limit: limit}
}

func (v *vector[T]) Len() int { return len(v.items) }

func (v *vector[T]) At(i int) T { return v.items[i] }

// Push appends x, failing with ErrAllocation once the limit is reached.
func (v *vector[T]) Push(x T) error {
	if v.limit > 0 && len(v.items) >= v.limit {
		return ErrAllocation
	}
	v.items = append(v.items, x)
	return nil
}

// Retain keeps the elements for which keep returns true, preserving order.
func (v *vector[T]) Retain(keep func(T) bool) {
	n := 0
	for _, x := range v.items {
		if keep(x) {
			v.items[n] = x
			n++
		}
	}
	var zero T
	for i := n; i < len(v.items); i++ {
		v.items[i] = zero
	}
	v.items = v.items[:n]
}

func (v *vector[T]) SortStable(less func(a, b T) bool) {
	sort.SliceStable(v.items, func(i, j int) bool {
		return less(v.items[i], v.items[j])
	})
}

// Slice returns a copy of the elements.
func (v *vector[T]) Slice() []T {
	out := make([]T, len(v.items))
	copy(out, v.items)
	return out
}
