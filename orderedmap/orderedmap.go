// Package orderedmap is the ordered-map facade over the internal
// red-black tree engine: a K->V map whose iteration order follows key
// order, with pointer-stable iterators even across erasure.
package orderedmap

import (
	"github.com/go-cc/containers/alloc"
	"github.com/go-cc/containers/internal/rbt"
)

// Iterator is a handle to a live entry; stable across every operation
// except the erasure of the entry it names (SPEC_FULL.md §5).
type Iterator[K any, V any] = rbt.Iterator[K, V]

// Comparator three-way compares two keys: negative if a < b, zero if
// equal, positive if a > b.
type Comparator[K any] func(a, b K) int

// Option configures a Map at construction time.
type Option[K any, V any] func(*rbt.Tree[K, V])

// WithAllocator injects an Allocator, letting tests simulate allocation
// failure on node creation.
func WithAllocator[K any, V any](a alloc.Allocator) Option[K, V] {
	return Option[K, V](rbt.WithAllocator[K, V](a))
}

// WithKeyDispose registers a destructor invoked exactly once per
// removed key.
func WithKeyDispose[K any, V any](f func(*K)) Option[K, V] {
	return Option[K, V](rbt.WithKeyDispose[K, V](f))
}

// WithElementDispose registers a destructor invoked exactly once per
// removed value.
func WithElementDispose[K any, V any](f func(*V)) Option[K, V] {
	return Option[K, V](rbt.WithElementDispose[K, V](f))
}

// OrderedInt compares signed and unsigned integer key types; a
// convenience Comparator for the common case.
func OrderedInt[K int | int32 | int64 | uint | uint32 | uint64](a, b K) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// OrderedString compares string keys lexically.
func OrderedString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Map is an ordered K->V map built on a red-black tree.
type Map[K any, V any] struct {
	t *rbt.Tree[K, V]
}

// New constructs an empty Map ordered by cmp.
func New[K any, V any](cmp Comparator[K], opts ...Option[K, V]) *Map[K, V] {
	rbtOpts := make([]rbt.Option[K, V], len(opts))
	for i, o := range opts {
		rbtOpts[i] = rbt.Option[K, V](o)
	}
	return &Map[K, V]{t: rbt.New[K, V](rbt.Comparator[K](cmp), rbtOpts...)}
}

// Len reports the number of entries.
func (m *Map[K, V]) Len() int { return m.t.Len() }

// Put inserts key/value, overwriting any existing entry for key.
func (m *Map[K, V]) Put(key K, value V) (*V, bool) { return m.t.Put(key, value) }

// GetOrInsert returns the existing value for key if present, otherwise
// inserts value and returns a pointer to it.
func (m *Map[K, V]) GetOrInsert(key K, value V) (*V, bool) { return m.t.GetOrInsert(key, value) }

// Get looks up key.
func (m *Map[K, V]) Get(key K) (*V, bool) { return m.t.Get(key) }

// EraseKey removes key if present, reporting whether it was present.
func (m *Map[K, V]) EraseKey(key K) bool { return m.t.EraseKey(key) }

// EraseIterator removes the entry at it, returning an iterator to the
// entry that was next in key order.
func (m *Map[K, V]) EraseIterator(it Iterator[K, V]) Iterator[K, V] { return m.t.EraseIterator(it) }

// Clear erases every entry (destructors invoked).
func (m *Map[K, V]) Clear() { m.t.Clear() }

// Cleanup clears the map.
func (m *Map[K, V]) Cleanup() { m.t.Cleanup() }

// First returns the smallest-keyed entry, or Rend() if empty.
func (m *Map[K, V]) First() Iterator[K, V] { return m.t.First() }

// Last returns the largest-keyed entry, or End() if empty.
func (m *Map[K, V]) Last() Iterator[K, V] { return m.t.Last() }

// Rend returns the reverse-end sentinel.
func (m *Map[K, V]) Rend() Iterator[K, V] { return m.t.Rend() }

// End returns the end sentinel.
func (m *Map[K, V]) End() Iterator[K, V] { return m.t.End() }

// BoundedFirst returns an iterator to the smallest entry whose key is
// >= key, or End() if none exists.
func (m *Map[K, V]) BoundedFirst(key K) Iterator[K, V] { return m.t.BoundedFirst(key) }

// BoundedLast returns an iterator to the largest entry whose key is <=
// key, or Rend() if none exists.
func (m *Map[K, V]) BoundedLast(key K) Iterator[K, V] { return m.t.BoundedLast(key) }

// Next returns the entry immediately after it in key order.
func (m *Map[K, V]) Next(it Iterator[K, V]) Iterator[K, V] { return m.t.Next(it) }

// Prev returns the entry immediately before it in key order.
func (m *Map[K, V]) Prev(it Iterator[K, V]) Iterator[K, V] { return m.t.Prev(it) }

// KeyFor returns the key stored at iterator it.
func (m *Map[K, V]) KeyFor(it Iterator[K, V]) K { return m.t.KeyAt(it) }

// ValueAt returns a pointer to the value stored at iterator it.
func (m *Map[K, V]) ValueAt(it Iterator[K, V]) *V { return m.t.ValueAt(it) }

// ForEach calls fn for every entry in ascending key order, stopping
// early if fn returns false.
func (m *Map[K, V]) ForEach(fn func(key K, value *V) bool) { m.t.ForEach(fn) }

// ForEachReverse calls fn for every entry in descending key order,
// stopping early if fn returns false.
func (m *Map[K, V]) ForEachReverse(fn func(key K, value *V) bool) {
	for it := m.t.Last(); it != m.t.Rend(); it = m.t.Prev(it) {
		if !fn(m.t.KeyAt(it), m.t.ValueAt(it)) {
			return
		}
	}
}

// Clone produces a new Map holding a structural copy of src's tree.
func Clone[K any, V any](src *Map[K, V]) (*Map[K, V], bool) {
	t, ok := rbt.Clone(src.t)
	if !ok {
		return nil, false
	}
	return &Map[K, V]{t: t}, true
}
