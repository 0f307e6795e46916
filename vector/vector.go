// Package vector implements the growable contiguous-array engine: a
// placeholder-until-first-insert sequence with explicit, checkable
// allocation on every operation that might grow its backing storage.
package vector

import "github.com/go-cc/containers/alloc"

// Option configures a Vector at construction time.
type Option[E any] func(*Vector[E])

// WithAllocator injects an Allocator, letting tests simulate allocation
// failure (see alloc.FailAfter).
func WithAllocator[E any](a alloc.Allocator) Option[E] {
	return func(v *Vector[E]) { v.alloc = a }
}

// WithDispose registers a destructor invoked exactly once per removed
// element (explicit Erase/EraseN, Resize-down, Clear, Cleanup, or
// replacement — though Vector never replaces in place, only appends).
func WithDispose[E any](dispose func(*E)) Option[E] {
	return func(v *Vector[E]) { v.dispose = dispose }
}

// Vector is a growable contiguous sequence of E. The zero value is a valid
// empty placeholder: no backing array exists until the first operation
// that must grow one.
type Vector[E any] struct {
	data    []E
	alloc   alloc.Allocator
	dispose func(*E)
}

// New constructs an empty, placeholder Vector.
func New[E any](opts ...Option[E]) *Vector[E] {
	v := &Vector[E]{alloc: alloc.Default}
	for _, o := range opts {
		o(v)
	}
	return v
}

func (v *Vector[E]) ensureAlloc() {
	if v.alloc == nil {
		v.alloc = alloc.Default
	}
}

// Len reports the number of live elements.
func (v *Vector[E]) Len() int { return len(v.data) }

// Cap reports the current capacity; 0 for a placeholder.
func (v *Vector[E]) Cap() int { return cap(v.data) }

// Get returns a pointer to element i. Precondition: i < Len(); an
// out-of-range index panics via the underlying slice access, matching the
// "contract violation, not defended against" stance on invariant breaches.
func (v *Vector[E]) Get(i int) *E { return &v.data[i] }

// Last returns a pointer to the final element. Precondition: Len() > 0.
func (v *Vector[E]) Last() *E { return &v.data[len(v.data)-1] }

// reserveExact grows the backing array to exactly n capacity if it is
// currently smaller, gated by the Allocator. Capacity never shrinks here.
func (v *Vector[E]) reserveExact(n int) bool {
	if cap(v.data) >= n {
		return true
	}
	v.ensureAlloc()
	if !v.alloc.Grow(cap(v.data), n) {
		return false
	}
	next := make([]E, len(v.data), n)
	copy(next, v.data)
	v.data = next
	return true
}

// Reserve ensures capacity >= n, reallocating if needed. On allocation
// failure the container is left unchanged.
func (v *Vector[E]) Reserve(n int) bool { return v.reserveExact(n) }

// growthFor computes the capacity reached by doubling curCap (starting
// from 2 when curCap is 0) until it accommodates `needed` elements, per
// the distilled spec's growth policy (start at 2, double until sufficient).
func growthFor(curCap, needed int) int {
	c := curCap
	if c == 0 {
		c = 2
	}
	for c < needed {
		c *= 2
	}
	return c
}

// Resize sets the length to n. If n < Len(), the tail is erased
// (destructors invoked). If n > Len(), capacity is ensured and the length
// extended without initialising the new tail: slots inside the existing
// capacity keep whatever values they last held, and only freshly
// allocated slots are zero-valued. Capacity never decreases here.
func (v *Vector[E]) Resize(n int) bool {
	size := len(v.data)
	if n < size {
		v.disposeRange(n, size)
		v.data = v.data[:n]
		return true
	}
	if n == size {
		return true
	}
	if !v.reserveExact(n) {
		return false
	}
	v.data = v.data[:n]
	return true
}

// Shrink reduces capacity to Len(). When Len() == 0 the Vector returns to
// placeholder form and releases its backing array.
func (v *Vector[E]) Shrink() bool {
	size := len(v.data)
	if size == 0 {
		v.data = nil
		return true
	}
	if cap(v.data) == size {
		return true
	}
	v.ensureAlloc()
	if !v.alloc.Grow(cap(v.data), size) {
		return false
	}
	next := make([]E, size, size)
	copy(next, v.data)
	v.data = next
	return true
}

// InsertN inserts buf at index i, growing capacity (by doubling) if
// necessary. Returns a pointer to the first inserted element, or
// (nil, false) on allocation failure, leaving the Vector unchanged.
func (v *Vector[E]) InsertN(i int, buf []E) (*E, bool) {
	n := len(buf)
	if n == 0 {
		if i == len(v.data) {
			return nil, true
		}
		return &v.data[i], true
	}
	size := len(v.data)
	if size+n > cap(v.data) {
		if !v.reserveExact(growthFor(cap(v.data), size+n)) {
			return nil, false
		}
	}
	v.data = v.data[:size+n]
	copy(v.data[i+n:size+n], v.data[i:size])
	copy(v.data[i:i+n], buf)
	return &v.data[i], true
}

// Insert inserts a single element at index i.
func (v *Vector[E]) Insert(i int, el E) (*E, bool) {
	return v.InsertN(i, []E{el})
}

// PushN appends buf to the end of the Vector.
func (v *Vector[E]) PushN(buf []E) (*E, bool) { return v.InsertN(len(v.data), buf) }

// Push appends a single element.
func (v *Vector[E]) Push(el E) (*E, bool) { return v.Insert(len(v.data), el) }

func (v *Vector[E]) disposeRange(from, to int) {
	if v.dispose == nil {
		return
	}
	for i := from; i < to; i++ {
		v.dispose(&v.data[i])
	}
}

// EraseN removes the n elements starting at index i, invoking the
// destructor on each, then shifts the tail into place. Returns a pointer
// to the successor slot, or nil if the erasure reached the end.
func (v *Vector[E]) EraseN(i, n int) *E {
	size := len(v.data)
	v.disposeRange(i, i+n)
	copy(v.data[i:size-n], v.data[i+n:size])
	v.data = v.data[:size-n]
	if i >= len(v.data) {
		return nil
	}
	return &v.data[i]
}

// Erase removes the element at index i.
func (v *Vector[E]) Erase(i int) *E { return v.EraseN(i, 1) }

// Clear erases every element (destructors invoked) but keeps the backing
// array allocated.
func (v *Vector[E]) Clear() {
	v.disposeRange(0, len(v.data))
	v.data = v.data[:0]
}

// Cleanup clears the Vector and releases its backing array, returning it
// to placeholder form.
func (v *Vector[E]) Cleanup() {
	v.Clear()
	v.data = nil
}

// ForEach calls fn for every element in order, stopping early if fn
// returns false.
func (v *Vector[E]) ForEach(fn func(i int, e *E) bool) {
	for i := range v.data {
		if !fn(i, &v.data[i]) {
			return
		}
	}
}

// Clone produces a shallow copy of src whose capacity equals src.Len()
// (not src.Cap()), per the distilled spec's cloneInto contract. Reports
// false on allocation failure.
func Clone[E any](src *Vector[E]) (*Vector[E], bool) {
	dst := &Vector[E]{alloc: src.alloc, dispose: src.dispose}
	dst.ensureAlloc()
	size := len(src.data)
	if size == 0 {
		return dst, true
	}
	if !dst.alloc.Grow(0, size) {
		return nil, false
	}
	dst.data = make([]E, size, size)
	copy(dst.data, src.data)
	return dst, true
}
