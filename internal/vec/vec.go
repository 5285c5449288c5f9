// Package vec provides the contiguous growable buffer used by the linear
// S-expression arena. Capacity is always at least the length and grows by
// doubling, so Push is amortized O(1).
package vec

import (
	"errors"
	"fmt"
)

// MaxLen is the largest number of elements a Vec may hold. Arena references
// are 32-bit indices, so nothing larger can be addressed.
const MaxLen = 1<<31 - 1

// ErrCapacity is returned when a request would grow a Vec past MaxLen.
var ErrCapacity = errors.New("vec: capacity exceeded")

// Vec is a contiguous, element-typed buffer. Growing it may move the backing
// array; callers must hold indices, never pointers into it.
type Vec[T any] struct {
	items []T
}

// New returns a Vec with room for capacity elements.
func New[T any](capacity int) *Vec[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Vec[T]{items: make([]T, 0, capacity)}
}

// Len returns the number of stored elements.
func (v *Vec[T]) Len() int { return len(v.items) }

// Cap returns the current capacity.
func (v *Vec[T]) Cap() int { return cap(v.items) }

// Reserve makes room for at least n more elements without further growth.
func (v *Vec[T]) Reserve(n int) error {
	if n < 0 {
		return fmt.Errorf("vec: negative reserve %d", n)
	}
	need := len(v.items) + n
	if need > MaxLen {
		return ErrCapacity
	}
	if need <= cap(v.items) {
		return nil
	}
	newCap := cap(v.items) * 2
	if newCap < need {
		newCap = need
	}
	if newCap > MaxLen {
		newCap = MaxLen
	}
	grown := make([]T, len(v.items), newCap)
	copy(grown, v.items)
	v.items = grown
	return nil
}

// Push appends x and returns its index.
func (v *Vec[T]) Push(x T) (int, error) {
	if err := v.Reserve(1); err != nil {
		return 0, err
	}
	v.items = append(v.items, x)
	return len(v.items) - 1, nil
}

// Extend appends every element of xs and returns the index of the first one.
func (v *Vec[T]) Extend(xs []T) (int, error) {
	if err := v.Reserve(len(xs)); err != nil {
		return 0, err
	}
	start := len(v.items)
	v.items = append(v.items, xs...)
	return start, nil
}

// Pop removes and returns the last element.
func (v *Vec[T]) Pop() (T, bool) {
	var zero T
	if len(v.items) == 0 {
		return zero, false
	}
	x := v.items[len(v.items)-1]
	v.items[len(v.items)-1] = zero
	v.items = v.items[:len(v.items)-1]
	return x, true
}

// At returns the element at index i. It panics if i is out of range, like a
// slice index.
func (v *Vec[T]) At(i int) T { return v.items[i] }

// Set overwrites the element at index i.
func (v *Vec[T]) Set(i int, x T) { v.items[i] = x }

// Resize sets the length to n, zero-filling new elements.
func (v *Vec[T]) Resize(n int) error {
	if n < 0 {
		return fmt.Errorf("vec: negative size %d", n)
	}
	if n <= len(v.items) {
		v.Truncate(n)
		return nil
	}
	if err := v.Reserve(n - len(v.items)); err != nil {
		return err
	}
	v.items = v.items[:n]
	return nil
}

// Truncate drops every element at index n and above.
func (v *Vec[T]) Truncate(n int) {
	if n < 0 || n >= len(v.items) {
		return
	}
	var zero T
	for i := n; i < len(v.items); i++ {
		v.items[i] = zero
	}
	v.items = v.items[:n]
}

// Slice returns a view of elements [from, to). The view is invalidated by the
// next growing call.
func (v *Vec[T]) Slice(from, to int) []T { return v.items[from:to] }
