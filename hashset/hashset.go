// Package hashset is the unordered-set facade over the internal hash
// table engine: it reuses ht.Table directly with the element type as
// its own key (§4.3.8's identity key-extractor), so no separate key
// storage exists.
package hashset

import (
	"github.com/go-cc/containers/alloc"
	"github.com/go-cc/containers/hashmap"
	"github.com/go-cc/containers/internal/ht"
)

type void = struct{}

// Iterator is a handle to a live element; see hashmap.Iterator for its
// invalidation rules, which apply identically here.
type Iterator = int

// Option configures a Set at construction time.
type Option[E comparable] func(*ht.Table[E, void])

// WithAllocator injects an Allocator, letting tests simulate allocation
// failure on growth/rehash.
func WithAllocator[E comparable](a alloc.Allocator) Option[E] {
	return Option[E](ht.WithAllocator[E, void](a))
}

// WithMaxLoad overrides the load-factor cap (default 0.9).
func WithMaxLoad[E comparable](f float64) Option[E] {
	return Option[E](ht.WithMaxLoad[E, void](f))
}

// WithDispose registers a destructor invoked exactly once per removed
// element.
func WithDispose[E comparable](f func(*E)) Option[E] {
	return Option[E](ht.WithKeyDispose[E, void](f))
}

// WithProbeObserver registers a callback invoked with the length of each
// chain walked during lookups, inserts and erases, for callers that want
// probe-length metrics; an operation that walks no chain reports nothing.
func WithProbeObserver[E comparable](f func(steps int)) Option[E] {
	return Option[E](ht.WithProbeObserver[E, void](f))
}

func equal[E comparable](a, b E) bool { return a == b }

// StringHasher hashes string elements with xxhash, re-exported from
// hashmap so callers of either package share one implementation.
var StringHasher = hashmap.StringHasher

// IntHasher hashes int elements with FNV-1a.
var IntHasher = hashmap.IntHasher

// Set is an unordered collection of distinct E, built on the same
// open-addressed engine as hashmap.Map.
type Set[E comparable] struct {
	t *ht.Table[E, void]
}

// New constructs an empty Set using hash to place elements.
func New[E comparable](hash func(E) uint64, opts ...Option[E]) *Set[E] {
	htOpts := make([]ht.Option[E, void], len(opts))
	for i, o := range opts {
		htOpts[i] = ht.Option[E, void](o)
	}
	return &Set[E]{t: ht.New[E, void](hash, equal[E], htOpts...)}
}

// NewString constructs a Set of string, defaulting to StringHasher.
func NewString(opts ...Option[string]) *Set[string] {
	return New[string](StringHasher, opts...)
}

// Len reports the number of elements.
func (s *Set[E]) Len() int { return s.t.Len() }

// Cap reports the current bucket-array capacity.
func (s *Set[E]) Cap() int { return s.t.Cap() }

// Reserve ensures the set can hold n elements without rehashing.
func (s *Set[E]) Reserve(n int) bool { return s.t.Reserve(n) }

// Shrink reduces capacity to fit the current size.
func (s *Set[E]) Shrink() bool { return s.t.Shrink() }

// Add inserts e if not already present. existed reports whether e was
// already a member; ok is false only on allocation failure.
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

// EraseIterator removes the element at it, returning an iterator
// suitable for continuing a forward traversal.
func (s *Set[E]) EraseIterator(it Iterator) Iterator { return s.t.EraseIterator(it) }

// Clear erases every element (destructors invoked) but keeps the
// backing arrays allocated.
func (s *Set[E]) Clear() { s.t.Clear() }

// Cleanup clears the set and releases its backing arrays.
func (s *Set[E]) Cleanup() { s.t.Cleanup() }

// First returns the first live iterator, or End() if empty.
func (s *Set[E]) First() Iterator { return s.t.First() }

// Next returns the next live iterator after it, or End().
func (s *Set[E]) Next(it Iterator) Iterator { return s.t.Next(it) }

// End returns one past the last iterator.
func (s *Set[E]) End() Iterator { return s.t.End() }

// ElementAt returns the element stored at iterator it.
func (s *Set[E]) ElementAt(it Iterator) E { return s.t.KeyAt(it) }

// ForEach calls fn for every element, stopping early if fn returns
// false.
func (s *Set[E]) ForEach(fn func(e E) bool) {
	s.t.ForEach(func(k E, _ *void) bool { return fn(k) })
}

// Clone produces a bitwise copy of src's bucket/metadata layout.
func Clone[E comparable](src *Set[E]) (*Set[E], bool) {
	t, ok := ht.Clone(src.t)
	if !ok {
		return nil, false
	}
	return &Set[E]{t: t}, true
}
