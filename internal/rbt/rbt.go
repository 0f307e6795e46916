// Package rbt implements the red-black tree engine shared by
// orderedmap.Map and orderedset.Set. A single sentinel node per tree
// stands in for every NIL leaf, for Rend(), and for End(); erasure
// splices the in-order successor into the deleted node's structural
// position rather than copying its payload over the deleted one, so
// every surviving node keeps its address — and therefore every
// surviving iterator stays valid.
package rbt

import "github.com/go-cc/containers/alloc"

const (
	black = false
	red   = true
)

// Comparator three-way compares two keys: negative if a < b, zero if
// equal, positive if a > b.
type Comparator[K any] func(a, b K) int

type node[K any, V any] struct {
	parent, left, right *node[K, V]
	color               bool
	key                 K
	value               V
}

// Iterator is the handle type Tree's traversal operations return: a
// pointer-stable node address. orderedmap/orderedset re-export this
// alias so callers never need to spell the unexported node type.
type Iterator[K any, V any] = *node[K, V]

// Option configures a Tree at construction time.
type Option[K any, V any] func(*Tree[K, V])

// WithAllocator injects an Allocator, letting tests simulate allocation
// failure on node creation.
func WithAllocator[K any, V any](a alloc.Allocator) Option[K, V] {
	return func(t *Tree[K, V]) { t.alloc = a }
}

// WithKeyDispose registers a destructor invoked exactly once per removed
// key.
func WithKeyDispose[K any, V any](f func(*K)) Option[K, V] {
	return func(t *Tree[K, V]) { t.keyDispose = f }
}

// WithElementDispose registers a destructor invoked exactly once per
// removed value.
func WithElementDispose[K any, V any](f func(*V)) Option[K, V] {
	return func(t *Tree[K, V]) { t.elemDispose = f }
}

// Tree is a red-black tree keyed by K. The zero value is a valid empty
// placeholder; the sentinel is allocated lazily on first use.
type Tree[K any, V any] struct {
	sentinel *node[K, V]
	root     *node[K, V]
	size     int

	cmp Comparator[K]

	alloc       alloc.Allocator
	keyDispose  func(*K)
	elemDispose func(*V)
}

// New constructs an empty Tree ordered by cmp.
func New[K any, V any](cmp Comparator[K], opts ...Option[K, V]) *Tree[K, V] {
	t := &Tree[K, V]{cmp: cmp, alloc: alloc.Default}
	for _, o := range opts {
		o(t)
	}
	t.lazyInit()
	return t
}

func (t *Tree[K, V]) lazyInit() {
	if t.sentinel == nil {
		s := &node[K, V]{color: black}
		s.parent, s.left, s.right = s, s, s
		t.sentinel = s
		t.root = s
	}
	if t.alloc == nil {
		t.alloc = alloc.Default
	}
}

// Len reports the number of live nodes.
func (t *Tree[K, V]) Len() int { return t.size }

// Rend returns the reverse-end sentinel: Prev() of the first element.
func (t *Tree[K, V]) Rend() *node[K, V] { t.lazyInit(); return t.sentinel }

// End returns the end sentinel: Next() of the last element. The same
// node as Rend(), per §4.4.1 — direction is implied by how it was
// reached, not by its identity.
func (t *Tree[K, V]) End() *node[K, V] { t.lazyInit(); return t.sentinel }

func (t *Tree[K, V]) treeMin(n *node[K, V]) *node[K, V] {
	for n.left != t.sentinel {
		n = n.left
	}
	return n
}

func (t *Tree[K, V]) treeMax(n *node[K, V]) *node[K, V] {
	for n.right != t.sentinel {
		n = n.right
	}
	return n
}

// First returns the leftmost node, or Rend() if empty.
func (t *Tree[K, V]) First() *node[K, V] {
	t.lazyInit()
	if t.root == t.sentinel {
		return t.sentinel
	}
	return t.treeMin(t.root)
}

// Last returns the rightmost node, or End() if empty.
func (t *Tree[K, V]) Last() *node[K, V] {
	t.lazyInit()
	if t.root == t.sentinel {
		return t.sentinel
	}
	return t.treeMax(t.root)
}

func (t *Tree[K, V]) rotateLeft(x *node[K, V]) {
	y := x.right
	x.right = y.left
	if y.left != t.sentinel {
		y.left.parent = x
	}
	y.parent = x.parent
	if x.parent == t.sentinel {
		t.root = y
	} else if x == x.parent.left {
		x.parent.left = y
	} else {
		x.parent.right = y
	}
	y.left = x
	x.parent = y
}

func (t *Tree[K, V]) rotateRight(x *node[K, V]) {
	y := x.left
	x.left = y.right
	if y.right != t.sentinel {
		y.right.parent = x
	}
	y.parent = x.parent
	if x.parent == t.sentinel {
		t.root = y
	} else if x == x.parent.right {
		x.parent.right = y
	} else {
		x.parent.left = y
	}
	y.right = x
	x.parent = y
}

func (t *Tree[K, V]) insertFixup(z *node[K, V]) {
	for z.parent.color == red {
		if z.parent == z.parent.parent.left {
			y := z.parent.parent.right
			if y.color == red {
				z.parent.color = black
				y.color = black
				z.parent.parent.color = red
				z = z.parent.parent
			} else {
				if z == z.parent.right {
					z = z.parent
					t.rotateLeft(z)
				}
				z.parent.color = black
				z.parent.parent.color = red
				t.rotateRight(z.parent.parent)
			}
		} else {
			y := z.parent.parent.left
			if y.color == red {
				z.parent.color = black
				y.color = black
				z.parent.parent.color = red
				z = z.parent.parent
			} else {
				if z == z.parent.left {
					z = z.parent
					t.rotateRight(z)
				}
				z.parent.color = black
				z.parent.parent.color = red
				t.rotateLeft(z.parent.parent)
			}
		}
	}
	t.root.color = black
}

// insert is the shared core of Put (replace=true) and GetOrInsert
// (replace=false), per §4.4.2.
func (t *Tree[K, V]) insert(key K, value V, replace bool) (*node[K, V], bool) {
	t.lazyInit()
	cur := t.root
	parent := t.sentinel
	goLeft := false
	for cur != t.sentinel {
		parent = cur
		c := t.cmp(key, cur.key)
		switch {
		case c == 0:
			if replace {
				if t.keyDispose != nil {
					t.keyDispose(&cur.key)
				}
				if t.elemDispose != nil {
					t.elemDispose(&cur.value)
				}
				cur.key, cur.value = key, value
			}
			return cur, true
		case c < 0:
			cur = cur.left
			goLeft = true
		default:
			cur = cur.right
			goLeft = false
		}
	}
	if !t.alloc.Grow(t.size, t.size+1) {
		return nil, false
	}
	n := &node[K, V]{key: key, value: value, color: red, parent: parent, left: t.sentinel, right: t.sentinel}
	if parent == t.sentinel {
		t.root = n
	} else if goLeft {
		parent.left = n
	} else {
		parent.right = n
	}
	t.insertFixup(n)
	t.size++
	return n, true
}

// Put inserts key/value, overwriting (and disposing) any existing entry.
// Reports false only on allocation failure.
func (t *Tree[K, V]) Put(key K, value V) (*V, bool) {
	n, ok := t.insert(key, value, true)
	if !ok {
		return nil, false
	}
	return &n.value, true
}

// GetOrInsert returns the existing value for key if present, otherwise
// inserts value and returns a pointer to it. Reports false only on
// allocation failure.
func (t *Tree[K, V]) GetOrInsert(key K, value V) (*V, bool) {
	n, ok := t.insert(key, value, false)
	if !ok {
		return nil, false
	}
	return &n.value, true
}

// Get performs a standard BST descent with three-way comparison.
func (t *Tree[K, V]) Get(key K) (*V, bool) {
	t.lazyInit()
	cur := t.root
	for cur != t.sentinel {
		c := t.cmp(key, cur.key)
		switch {
		case c == 0:
			return &cur.value, true
		case c < 0:
			cur = cur.left
		default:
			cur = cur.right
		}
	}
	return nil, false
}

// BoundedFirst returns an iterator to the smallest element >= key, or
// End() if none exists.
func (t *Tree[K, V]) BoundedFirst(key K) *node[K, V] {
	t.lazyInit()
	cur, result := t.root, t.sentinel
	for cur != t.sentinel {
		if t.cmp(key, cur.key) <= 0 {
			result = cur
			cur = cur.left
		} else {
			cur = cur.right
		}
	}
	return result
}

// BoundedLast returns an iterator to the largest element <= key, or
// Rend() if none exists.
func (t *Tree[K, V]) BoundedLast(key K) *node[K, V] {
	t.lazyInit()
	cur, result := t.root, t.sentinel
	for cur != t.sentinel {
		if t.cmp(key, cur.key) >= 0 {
			result = cur
			cur = cur.right
		} else {
			cur = cur.left
		}
	}
	return result
}

// Next returns the in-order successor of it: from Rend() this is
// First(), and from the last element it is End().
func (t *Tree[K, V]) Next(it *node[K, V]) *node[K, V] {
	if it == t.sentinel {
		return t.First()
	}
	if it.right != t.sentinel {
		return t.treeMin(it.right)
	}
	p := it.parent
	for p != t.sentinel && it == p.right {
		it = p
		p = p.parent
	}
	return p
}

// Prev returns the in-order predecessor of it, the mirror of Next.
func (t *Tree[K, V]) Prev(it *node[K, V]) *node[K, V] {
	if it == t.sentinel {
		return t.Last()
	}
	if it.left != t.sentinel {
		return t.treeMax(it.left)
	}
	p := it.parent
	for p != t.sentinel && it == p.left {
		it = p
		p = p.parent
	}
	return p
}

func (t *Tree[K, V]) transplant(u, v *node[K, V]) {
	if u.parent == t.sentinel {
		t.root = v
	} else if u == u.parent.left {
		u.parent.left = v
	} else {
		u.parent.right = v
	}
	if v != t.sentinel {
		v.parent = u.parent
	}
}

func isBlack[K any, V any](n *node[K, V]) bool { return n.color == black }

// eraseFixup restores red-black properties after detaching a node whose
// replacement is x. x may be the shared sentinel, whose parent must
// never be mutated — so the node it logically hangs from is threaded
// through as parent instead of being read off x itself, per §4.4.3.
func (t *Tree[K, V]) eraseFixup(x, parent *node[K, V]) {
	for x != t.root && isBlack(x) {
		if x == parent.left {
			w := parent.right
			if w.color == red {
				w.color = black
				parent.color = red
				t.rotateLeft(parent)
				w = parent.right
			}
			if isBlack(w.left) && isBlack(w.right) {
				w.color = red
				x = parent
				parent = x.parent
			} else {
				if isBlack(w.right) {
					w.left.color = black
					w.color = red
					t.rotateRight(w)
					w = parent.right
				}
				w.color = parent.color
				parent.color = black
				w.right.color = black
				t.rotateLeft(parent)
				x = t.root
			}
		} else {
			w := parent.left
			if w.color == red {
				w.color = black
				parent.color = red
				t.rotateRight(parent)
				w = parent.left
			}
			if isBlack(w.right) && isBlack(w.left) {
				w.color = red
				x = parent
				parent = x.parent
			} else {
				if isBlack(w.left) {
					w.right.color = black
					w.color = red
					t.rotateLeft(w)
					w = parent.left
				}
				w.color = parent.color
				parent.color = black
				w.left.color = black
				t.rotateRight(parent)
				x = t.root
			}
		}
	}
	x.color = black
}

// eraseNode removes z, splicing its in-order successor into z's
// structural position when z has two children (rather than copying the
// successor's payload into z), per §4.4.3.
func (t *Tree[K, V]) eraseNode(z *node[K, V]) {
	if t.keyDispose != nil {
		t.keyDispose(&z.key)
	}
	if t.elemDispose != nil {
		t.elemDispose(&z.value)
	}

	y := z
	yOrigColor := y.color
	var x, xParent *node[K, V]

	switch {
	case z.left == t.sentinel:
		x = z.right
		xParent = z.parent
		t.transplant(z, z.right)
	case z.right == t.sentinel:
		x = z.left
		xParent = z.parent
		t.transplant(z, z.left)
	default:
		y = t.treeMin(z.right)
		yOrigColor = y.color
		x = y.right
		if y.parent == z {
			xParent = y
		} else {
			xParent = y.parent
			t.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		t.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}
	if yOrigColor == black {
		t.eraseFixup(x, xParent)
	}
	t.size--
}

// EraseKey removes key if present, reporting whether it was present.
func (t *Tree[K, V]) EraseKey(key K) bool {
	t.lazyInit()
	cur := t.root
	for cur != t.sentinel {
		c := t.cmp(key, cur.key)
		switch {
		case c == 0:
			t.eraseNode(cur)
			return true
		case c < 0:
			cur = cur.left
		default:
			cur = cur.right
		}
	}
	return false
}

// EraseIterator removes it, returning an iterator to the element that
// was next in order. Next(it) is captured before the splice; since
// erasure never reallocates a surviving node, that captured node
// remains the correct successor afterwards even if it is the very node
// spliced into it's old position.
func (t *Tree[K, V]) EraseIterator(it *node[K, V]) *node[K, V] {
	next := t.Next(it)
	t.eraseNode(it)
	return next
}

// KeyAt returns the key stored at iterator it.
func (t *Tree[K, V]) KeyAt(it *node[K, V]) K { return it.key }

// ValueAt returns a pointer to the value stored at iterator it.
func (t *Tree[K, V]) ValueAt(it *node[K, V]) *V { return &it.value }

// Clear erases every node (destructors invoked), returning the tree to
// empty.
func (t *Tree[K, V]) Clear() {
	t.lazyInit()
	for it := t.First(); it != t.sentinel; {
		next := t.Next(it)
		if t.keyDispose != nil {
			t.keyDispose(&it.key)
		}
		if t.elemDispose != nil {
			t.elemDispose(&it.value)
		}
		it = next
	}
	t.root = t.sentinel
	t.size = 0
}

// Cleanup clears the tree.
func (t *Tree[K, V]) Cleanup() { t.Clear() }

// ForEach calls fn for every element in ascending key order, stopping
// early if fn returns false.
func (t *Tree[K, V]) ForEach(fn func(key K, value *V) bool) {
	t.lazyInit()
	for it := t.First(); it != t.sentinel; it = t.Next(it) {
		if !fn(it.key, &it.value) {
			return
		}
	}
}

// Clone allocates a new tree and clones the source's nodes, preserving
// colour, via an explicit stack rather than recursion (§4.4.5). On
// allocation failure partway through, the partially built destination is
// discarded without invoking destructors — those nodes' payloads were
// never handed to the caller.
func Clone[K any, V any](src *Tree[K, V]) (*Tree[K, V], bool) {
	dst := &Tree[K, V]{cmp: src.cmp, alloc: src.alloc, keyDispose: src.keyDispose, elemDispose: src.elemDispose}
	dst.lazyInit()
	if src.root == src.sentinel {
		return dst, true
	}

	type frame struct {
		srcNode   *node[K, V]
		dstParent *node[K, V]
		isLeft    bool
	}

	if !dst.alloc.Grow(0, 1) {
		return nil, false
	}
	root := &node[K, V]{key: src.root.key, value: src.root.value, color: src.root.color,
		left: dst.sentinel, right: dst.sentinel, parent: dst.sentinel}
	dst.root = root
	dst.size = 1

	stack := []frame{
		{src.root.left, root, true},
		{src.root.right, root, false},
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.srcNode == src.sentinel {
			continue
		}
		if !dst.alloc.Grow(dst.size, dst.size+1) {
			return nil, false
		}
		n := &node[K, V]{key: f.srcNode.key, value: f.srcNode.value, color: f.srcNode.color,
			left: dst.sentinel, right: dst.sentinel, parent: f.dstParent}
		if f.isLeft {
			f.dstParent.left = n
		} else {
			f.dstParent.right = n
		}
		dst.size++
		stack = append(stack,
			frame{f.srcNode.left, n, true},
			frame{f.srcNode.right, n, false},
		)
	}
	return dst, true
}
