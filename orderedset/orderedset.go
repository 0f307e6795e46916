// Package orderedset is the ordered-set facade over the internal
// red-black tree engine: it reuses rbt.Tree directly with the element
// type as its own key (§4.4.6's identity key-extractor mirroring
// §4.3.8), so no separate key storage exists.
package orderedset

import (
	"github.com/go-cc/containers/alloc"
	"github.com/go-cc/containers/internal/rbt"
	"github.com/go-cc/containers/orderedmap"
)

type void = struct{}

// Iterator is a handle to a live element; stable across every operation
// except the erasure of the element it names.
type Iterator[E any] = rbt.Iterator[E, void]

// Comparator three-way compares two elements.
type Comparator[E any] func(a, b E) int

// Option configures a Set at construction time.
type Option[E any] func(*rbt.Tree[E, void])

// WithAllocator injects an Allocator, letting tests simulate allocation
// failure on node creation.
func WithAllocator[E any](a alloc.Allocator) Option[E] {
	return Option[E](rbt.WithAllocator[E, void](a))
}

// WithDispose registers a destructor invoked exactly once per removed
// element.
func WithDispose[E any](f func(*E)) Option[E] {
	return Option[E](rbt.WithKeyDispose[E, void](f))
}

// OrderedString compares string elements lexically, re-exported from
// orderedmap so callers of either package share one implementation. For
// integer element types, use orderedmap.OrderedInt directly.
var OrderedString = orderedmap.OrderedString

// Set is an ordered collection of distinct E, built on the same
// red-black tree engine as orderedmap.Map.
type Set[E any] struct {
	t *rbt.Tree[E, void]
}

// New constructs an empty Set ordered by cmp.
func New[E any](cmp Comparator[E], opts ...Option[E]) *Set[E] {
	rbtOpts := make([]rbt.Option[E, void], len(opts))
	for i, o := range opts {
		rbtOpts[i] = rbt.Option[E, void](o)
	}
	return &Set[E]{t: rbt.New[E, void](rbt.Comparator[E](cmp), rbtOpts...)}
}

// Len reports the number of elements.
func (s *Set[E]) Len() int { return s.t.Len() }

// Add inserts e if not already present. existed reports whether e was
// already a member.
func (s *Set[E]) Add(e E) (existed bool, ok bool) {
	before := s.t.Len()
	if _, ok = s.t.GetOrInsert(e, void{}); !ok {
		return false, false
	}
	return s.t.Len() == before, true
}

// Contains reports whether e is a member.
func (s *Set[E]) Contains(e E) bool {
	_, ok := s.t.Get(e)
	return ok
}

// Remove deletes e if present, reporting whether it was present.
func (s *Set[E]) Remove(e E) bool { return s.t.EraseKey(e) }

// EraseIterator removes the element at it, returning an iterator to the
// element that was next in order.
func (s *Set[E]) EraseIterator(it Iterator[E]) Iterator[E] { return s.t.EraseIterator(it) }

// Clear erases every element (destructors invoked).
func (s *Set[E]) Clear() { s.t.Clear() }

// Cleanup clears the set.
func (s *Set[E]) Cleanup() { s.t.Cleanup() }

// First returns the smallest element, or Rend() if empty.
func (s *Set[E]) First() Iterator[E] { return s.t.First() }

// Last returns the largest element, or End() if empty.
func (s *Set[E]) Last() Iterator[E] { return s.t.Last() }

// Rend returns the reverse-end sentinel.
func (s *Set[E]) Rend() Iterator[E] { return s.t.Rend() }

// End returns the end sentinel.
func (s *Set[E]) End() Iterator[E] { return s.t.End() }

// BoundedFirst returns an iterator to the smallest element >= e, or
// End() if none exists.
func (s *Set[E]) BoundedFirst(e E) Iterator[E] { return s.t.BoundedFirst(e) }

// BoundedLast returns an iterator to the largest element <= e, or
// Rend() if none exists.
func (s *Set[E]) BoundedLast(e E) Iterator[E] { return s.t.BoundedLast(e) }

// Next returns the element immediately after it in order.
func (s *Set[E]) Next(it Iterator[E]) Iterator[E] { return s.t.Next(it) }

// Prev returns the element immediately before it in order.
func (s *Set[E]) Prev(it Iterator[E]) Iterator[E] { return s.t.Prev(it) }

// ElementAt returns the element stored at iterator it.
func (s *Set[E]) ElementAt(it Iterator[E]) E { return s.t.KeyAt(it) }

// ForEach calls fn for every element in ascending order, stopping early
// if fn returns false.
func (s *Set[E]) ForEach(fn func(e E) bool) {
	s.t.ForEach(func(k E, _ *void) bool { return fn(k) })
}

// ForEachReverse calls fn for every element in descending order,
// stopping early if fn returns false.
func (s *Set[E]) ForEachReverse(fn func(e E) bool) {
	for it := s.t.Last(); it != s.t.Rend(); it = s.t.Prev(it) {
		if !fn(s.t.KeyAt(it)) {
			return
		}
	}
}

// Clone produces a new Set holding a structural copy of src's tree.
func Clone[E any](src *Set[E]) (*Set[E], bool) {
	t, ok := rbt.Clone(src.t)
	if !ok {
		return nil, false
	}
	return &Set[E]{t: t}, true
}
