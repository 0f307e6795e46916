// Package hashmap is the unordered-map facade over the internal hash
// table engine: a generic `map[K]V` with explicit capacity control,
// allocation-failure reporting, and destructor hooks that
// `map[K]V` itself has no room for.
package hashmap

import (
	"github.com/cespare/xxhash/v2"
	"github.com/segmentio/fasthash/fnv1a"

	"github.com/go-cc/containers/alloc"
	"github.com/go-cc/containers/internal/ht"
)

// Iterator is a handle to a live entry; valid until the next rehash, or
// (for the entry it names) until an unrelated erase moves a different
// element into its slot — see the package-level invalidation notes in
// SPEC_FULL.md §5.
type Iterator = int

// Option configures a Map at construction time.
type Option[K comparable, V any] func(*ht.Table[K, V])

// WithAllocator injects an Allocator, letting tests simulate allocation
// failure on growth/rehash.
func WithAllocator[K comparable, V any](a alloc.Allocator) Option[K, V] {
	return Option[K, V](ht.WithAllocator[K, V](a))
}

// WithMaxLoad overrides the load-factor cap (default 0.9).
func WithMaxLoad[K comparable, V any](f float64) Option[K, V] {
	return Option[K, V](ht.WithMaxLoad[K, V](f))
}

// WithKeyDispose registers a destructor invoked exactly once per removed
// key.
func WithKeyDispose[K comparable, V any](f func(*K)) Option[K, V] {
	return Option[K, V](ht.WithKeyDispose[K, V](f))
}

// WithElementDispose registers a destructor invoked exactly once per
// removed value.
func WithElementDispose[K comparable, V any](f func(*V)) Option[K, V] {
	return Option[K, V](ht.WithElementDispose[K, V](f))
}

// WithProbeObserver registers a callback invoked with the length of each
// chain walked during lookups, inserts and erases, for callers that want
// probe-length metrics; an operation that walks no chain reports nothing.
func WithProbeObserver[K comparable, V any](f func(steps int)) Option[K, V] {
	return Option[K, V](ht.WithProbeObserver[K, V](f))
}

func equal[K comparable](a, b K) bool { return a == b }

// StringHasher hashes string keys with xxhash; it is the hasher NewString
// uses.
func StringHasher(s string) uint64 { return xxhash.Sum64String(s) }

// BytesHasher hashes []byte keys with xxhash.
func BytesHasher(b []byte) uint64 { return xxhash.Sum64(b) }

// IntHasher hashes int keys with FNV-1a, for callers who don't need
// xxhash's string-oriented tuning.
func IntHasher(n int) uint64 { return fnv1a.HashUint64(fnv1a.Init64, uint64(n)) }

// Int64Hasher hashes int64 keys with FNV-1a.
func Int64Hasher(n int64) uint64 { return fnv1a.HashUint64(fnv1a.Init64, uint64(n)) }

// Map is an unordered K->V map built on open addressing with quadratic
// probing. The zero value is not usable; construct with New.
type Map[K comparable, V any] struct {
	t *ht.Table[K, V]
}

// New constructs an empty Map using hash to place keys. Supply one of
// the Hasher helpers above, or your own, matching K.
func New[K comparable, V any](hash func(K) uint64, opts ...Option[K, V]) *Map[K, V] {
	htOpts := make([]ht.Option[K, V], len(opts))
	for i, o := range opts {
		htOpts[i] = ht.Option[K, V](o)
	}
	return &Map[K, V]{t: ht.New[K, V](hash, equal[K], htOpts...)}
}

// NewString constructs a Map keyed by string, defaulting to
// StringHasher.
func NewString[V any](opts ...Option[string, V]) *Map[string, V] {
	return New[string, V](StringHasher, opts...)
}

// Len reports the number of entries.
func (m *Map[K, V]) Len() int { return m.t.Len() }

// Cap reports the current bucket-array capacity.
func (m *Map[K, V]) Cap() int { return m.t.Cap() }

// Reserve ensures the map can hold n entries without rehashing.
func (m *Map[K, V]) Reserve(n int) bool { return m.t.Reserve(n) }

// Shrink reduces capacity to fit the current size.
func (m *Map[K, V]) Shrink() bool { return m.t.Shrink() }

// Put inserts key/value, overwriting any existing entry for key.
// Reports false only on allocation failure.
func (m *Map[K, V]) Put(key K, value V) (*V, bool) { return m.t.Put(key, value) }

// GetOrInsert returns the existing value for key if present, otherwise
// inserts value and returns a pointer to it.
func (m *Map[K, V]) GetOrInsert(key K, value V) (*V, bool) { return m.t.GetOrInsert(key, value) }

// Get looks up key.
func (m *Map[K, V]) Get(key K) (*V, bool) { return m.t.Get(key) }

// EraseKey removes key if present, reporting whether it was present.
func (m *Map[K, V]) EraseKey(key K) bool { return m.t.EraseKey(key) }

// EraseIterator removes the entry at it, returning an iterator suitable
// for continuing a forward traversal (see Iterator's invalidation
// notes).
func (m *Map[K, V]) EraseIterator(it Iterator) Iterator { return m.t.EraseIterator(it) }

// Clear erases every entry (destructors invoked) but keeps the backing
// arrays allocated.
func (m *Map[K, V]) Clear() { m.t.Clear() }

// Cleanup clears the map and releases its backing arrays.
func (m *Map[K, V]) Cleanup() { m.t.Cleanup() }

// First returns the first live iterator, or End() if empty.
func (m *Map[K, V]) First() Iterator { return m.t.First() }

// Next returns the next live iterator after it, or End().
func (m *Map[K, V]) Next(it Iterator) Iterator { return m.t.Next(it) }

// End returns one past the last iterator.
func (m *Map[K, V]) End() Iterator { return m.t.End() }

// KeyFor returns the key stored at iterator it.
func (m *Map[K, V]) KeyFor(it Iterator) K { return m.t.KeyAt(it) }

// ValueAt returns a pointer to the value stored at iterator it.
func (m *Map[K, V]) ValueAt(it Iterator) *V { return m.t.ValueAt(it) }

// ForEach calls fn for every entry, stopping early if fn returns false.
func (m *Map[K, V]) ForEach(fn func(key K, value *V) bool) { m.t.ForEach(fn) }

// Clone produces a bitwise copy of src's bucket/metadata layout.
func Clone[K comparable, V any](src *Map[K, V]) (*Map[K, V], bool) {
	t, ok := ht.Clone(src.t)
	if !ok {
		return nil, false
	}
	return &Map[K, V]{t: t}, true
}
