// Package list implements the doubly linked list engine: two fixed
// sentinel elements (Rend, End) bracket the live chain, giving iterators
// that stay valid and comparable across the entire life of the list.
//
// Unlike the distilled C source, a List's header is an ordinary Go value
// (not a separately heap-allocated struct), so there is no
// placeholder-to-allocated header promotion to model: a zero-value List
// already owns stable Rend/End addresses before any element is ever
// inserted, and the only heap allocation a List ever performs is one node
// per inserted element.
package list

import "github.com/go-cc/containers/alloc"

// Option configures a List at construction time.
type Option[E any] func(*List[E])

// WithAllocator injects an Allocator, letting tests simulate allocation
// failure on node creation.
func WithAllocator[E any](a alloc.Allocator) Option[E] {
	return func(l *List[E]) { l.alloc = a }
}

// WithDispose registers a destructor invoked exactly once per removed
// element (Erase, Clear, Cleanup).
func WithDispose[E any](dispose func(*E)) Option[E] {
	return func(l *List[E]) { l.dispose = dispose }
}

// Element is a node in the list; its address is the list's iterator type
// and remains stable across every operation except the destruction of
// the element it holds.
type Element[E any] struct {
	next, prev *Element[E]
	list       *List[E]
	Value      E
}

// Next returns the next element, or the list's End() sentinel if e is the
// last live element.
func (e *Element[E]) Next() *Element[E] { return e.next }

// Prev returns the previous element, or the list's Rend() sentinel if e is
// the first live element.
func (e *Element[E]) Prev() *Element[E] { return e.prev }

// List is a doubly linked sequence of E, bracketed by the Rend and End
// sentinels.
type List[E any] struct {
	rend, end Element[E]
	size      int
	alloc     alloc.Allocator
	dispose   func(*E)
}

// New constructs an empty List.
func New[E any](opts ...Option[E]) *List[E] {
	l := &List[E]{alloc: alloc.Default}
	for _, o := range opts {
		o(l)
	}
	l.lazyInit()
	return l
}

// lazyInit wires the sentinel ring on first use, so that a List obtained
// as a zero value (rather than via New) is also immediately usable, the
// same lazy-init idiom the Go standard library's container/list uses.
func (l *List[E]) lazyInit() {
	if l.rend.next == nil {
		l.rend.list, l.end.list = l, l
		l.rend.next = &l.end
		l.end.prev = &l.rend
		l.rend.prev = &l.rend
		l.end.next = &l.end
	}
	if l.alloc == nil {
		l.alloc = alloc.Default
	}
}

// Len reports the number of live elements.
func (l *List[E]) Len() int { return l.size }

// Rend returns the reverse-end sentinel: Prev() of the first element, and
// the iterator one step before First().
func (l *List[E]) Rend() *Element[E] { l.lazyInit(); return &l.rend }

// End returns the end sentinel: Next() of the last element.
func (l *List[E]) End() *Element[E] { l.lazyInit(); return &l.end }

// First returns the first live element, or End() if the list is empty.
func (l *List[E]) First() *Element[E] { l.lazyInit(); return l.rend.next }

// Last returns the last live element, or Rend() if the list is empty.
func (l *List[E]) Last() *Element[E] { l.lazyInit(); return l.end.prev }

// InsertBefore allocates a node holding el and links it immediately before
// the iterator `before` (which must belong to l, and may be l.End() to
// append). Returns (nil, false) on allocation failure, leaving the list
// structurally unchanged.
func (l *List[E]) InsertBefore(before *Element[E], el E) (*Element[E], bool) {
	l.lazyInit()
	if !l.alloc.Grow(l.size, l.size+1) {
		return nil, false
	}
	n := &Element[E]{Value: el, list: l}
	p := before.prev
	n.prev, n.next = p, before
	p.next, before.prev = n, n
	l.size++
	return n, true
}

// Push appends el to the back of the list: InsertBefore(l.End(), el).
func (l *List[E]) Push(el E) (*Element[E], bool) { return l.InsertBefore(l.End(), el) }

// Erase unlinks it, invokes the destructor, and returns the element that
// now occupies "next" (possibly End()).
func (l *List[E]) Erase(it *Element[E]) *Element[E] {
	next := it.next
	if l.dispose != nil {
		l.dispose(&it.Value)
	}
	it.prev.next = it.next
	it.next.prev = it.prev
	it.next, it.prev, it.list = nil, nil, nil
	l.size--
	return next
}

// Splice moves srcIt (which must belong to src) out of src and links it
// immediately before `before` in l, in O(1) without allocating or
// disposing: the node retains its address, so any iterator into it stays
// valid.
func (l *List[E]) Splice(before *Element[E], src *List[E], srcIt *Element[E]) {
	srcIt.prev.next = srcIt.next
	srcIt.next.prev = srcIt.prev
	src.size--

	l.lazyInit()
	p := before.prev
	srcIt.prev, srcIt.next, srcIt.list = p, before, l
	p.next, before.prev = srcIt, srcIt
	l.size++
}

// Next returns the element following it (End() if it is the last live
// element or already End()).
func (l *List[E]) Next(it *Element[E]) *Element[E] { return it.next }

// Prev returns the element preceding it (Rend() if it is the first live
// element or already Rend()).
func (l *List[E]) Prev(it *Element[E]) *Element[E] { return it.prev }

// Clear erases every element (destructors invoked), resetting the
// sentinel ring to empty.
func (l *List[E]) Clear() {
	l.lazyInit()
	for it := l.rend.next; it != &l.end; {
		next := it.next
		if l.dispose != nil {
			l.dispose(&it.Value)
		}
		it.next, it.prev, it.list = nil, nil, nil
		it = next
	}
	l.rend.next = &l.end
	l.end.prev = &l.rend
	l.size = 0
}

// Cleanup clears the list. Go's garbage collector reclaims the unlinked
// nodes; there is no separate free step as there would be in a
// manual-memory-management port.
func (l *List[E]) Cleanup() { l.Clear() }

// ForEach calls fn for every element from First() to Last(), stopping
// early if fn returns false.
func (l *List[E]) ForEach(fn func(e *Element[E]) bool) {
	l.lazyInit()
	for it := l.rend.next; it != &l.end; it = it.next {
		if !fn(it) {
			return
		}
	}
}

// ForEachReverse calls fn for every element from Last() to First(),
// stopping early if fn returns false.
func (l *List[E]) ForEachReverse(fn func(e *Element[E]) bool) {
	l.lazyInit()
	for it := l.end.prev; it != &l.rend; it = it.prev {
		if !fn(it) {
			return
		}
	}
}

// Clone produces a new List holding copies of src's elements in order. On
// any allocation failure partway through, already-allocated nodes are
// discarded (without invoking destructors, since they were never handed
// to the caller) and Clone reports false.
func Clone[E any](src *List[E]) (*List[E], bool) {
	dst := New[E](WithAllocator[E](src.alloc), WithDispose(src.dispose))
	src.lazyInit()
	for it := src.rend.next; it != &src.end; it = it.next {
		if _, ok := dst.Push(it.Value); !ok {
			return nil, false
		}
	}
	return dst, true
}
