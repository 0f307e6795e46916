package rbt

import (
	"sort"
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-cc/containers/alloc"
)

func intCmp(a, b int) int { return a - b }

func newIntTree() *Tree[int, int] { return New[int, int](intCmp) }

func TestTreePutGetAndOverwrite(t *testing.T) {
	tr := newIntTree()
	for i := 0; i < 100; i++ {
		_, ok := tr.Put(i, i*i)
		require.True(t, ok)
	}
	require.Equal(t, 100, tr.Len())

	v, ok := tr.Get(42)
	require.True(t, ok)
	assert.Equal(t, 42*42, *v)

	v, ok = tr.Put(42, -1)
	require.True(t, ok)
	assert.Equal(t, -1, *v)
}

func TestTreeGetOrInsertKeepsExisting(t *testing.T) {
	tr := newIntTree()
	tr.Put(1, 100)
	v, ok := tr.GetOrInsert(1, 999)
	require.True(t, ok)
	assert.Equal(t, 100, *v)
}

func TestTreeInOrderIterationIsSorted(t *testing.T) {
	tr := newIntTree()
	values := []int{5, 3, 8, 1, 4, 7, 9, 2, 6, 0}
	for _, v := range values {
		tr.Put(v, v)
	}
	var got []int
	for it := tr.First(); it != tr.End(); it = tr.Next(it) {
		got = append(got, tr.KeyAt(it))
	}
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	assert.Equal(t, sorted, got)
}

func TestTreeReverseIterationFromLast(t *testing.T) {
	tr := newIntTree()
	for _, v := range []int{5, 3, 8, 1, 4} {
		tr.Put(v, v)
	}
	var got []int
	for it := tr.Last(); it != tr.Rend(); it = tr.Prev(it) {
		got = append(got, tr.KeyAt(it))
	}
	assert.Equal(t, []int{8, 5, 4, 3, 1}, got)
}

func TestTreeBoundedFirstAndLast(t *testing.T) {
	tr := newIntTree()
	for _, v := range []int{10, 20, 30, 40} {
		tr.Put(v, v)
	}
	it := tr.BoundedFirst(25)
	require.NotEqual(t, tr.End(), it)
	assert.Equal(t, 30, tr.KeyAt(it))

	it = tr.BoundedLast(25)
	require.NotEqual(t, tr.Rend(), it)
	assert.Equal(t, 20, tr.KeyAt(it))

	assert.Equal(t, tr.End(), tr.BoundedFirst(1000))
	assert.Equal(t, tr.Rend(), tr.BoundedLast(-1000))
}

func TestTreeEraseKeyPreservesOrderAndCount(t *testing.T) {
	tr := newIntTree()
	n := 50
	for i := 0; i < n; i++ {
		tr.Put(i, i)
	}
	for i := 0; i < n; i += 3 {
		require.True(t, tr.EraseKey(i))
	}
	var got []int
	for it := tr.First(); it != tr.End(); it = tr.Next(it) {
		got = append(got, tr.KeyAt(it))
	}
	var want []int
	for i := 0; i < n; i++ {
		if i%3 != 0 {
			want = append(want, i)
		}
	}
	assert.Equal(t, want, got)
	assert.Equal(t, len(want), tr.Len())
}

func TestTreeEraseIteratorVisitsEveryElementOnce(t *testing.T) {
	tr := newIntTree()
	n := 40
	for i := 0; i < n; i++ {
		tr.Put(i, i)
	}
	visited := map[int]int{}
	for it := tr.First(); it != tr.End(); {
		k := tr.KeyAt(it)
		visited[k]++
		if k%2 == 0 {
			it = tr.EraseIterator(it)
		} else {
			it = tr.Next(it)
		}
	}
	for i := 0; i < n; i++ {
		assert.Equal(t, 1, visited[i])
	}
}

// TestTreeEraseOfNodeWithTwoChildrenPreservesSurvivorIdentity exercises
// the splice-based two-child erase path (§4.4.3): a held iterator to the
// in-order successor of 10 must keep its address when 10, which has two
// children, is erased and that successor is spliced into its position.
func TestTreeEraseOfNodeWithTwoChildrenPreservesSurvivorIdentity(t *testing.T) {
	tr := newIntTree()
	for _, v := range []int{10, 5, 15, 12, 20, 11, 13} {
		tr.Put(v, v)
	}
	successor := tr.BoundedFirst(11) // node 11: the in-order successor of 10 (leftmost node of 10's right subtree)
	key := tr.KeyAt(successor)

	tr.EraseKey(10)

	got, ok := tr.Get(key)
	require.True(t, ok)
	assert.Equal(t, key, *got)
	assert.Same(t, successor, tr.BoundedFirst(key))
}

func TestTreeDisposeCalledOnceOnOverwriteAndErase(t *testing.T) {
	var disposedKeys, disposedVals []int
	tr := New[int, int](intCmp,
		WithKeyDispose[int, int](func(k *int) { disposedKeys = append(disposedKeys, *k) }),
		WithElementDispose[int, int](func(v *int) { disposedVals = append(disposedVals, *v) }),
	)
	tr.Put(1, 100)
	tr.Put(1, 200)
	assert.Equal(t, []int{1}, disposedKeys)
	assert.Equal(t, []int{100}, disposedVals)

	tr.EraseKey(1)
	assert.Equal(t, []int{1, 1}, disposedKeys)
	assert.Equal(t, []int{100, 200}, disposedVals)
}

func TestTreeAllocationFailureLeavesTreeUnchanged(t *testing.T) {
	a := &alloc.FailAfter{N: 1}
	tr := New[int, int](intCmp, WithAllocator[int, int](a))

	_, ok := tr.Put(1, 1)
	assert.False(t, ok)
	assert.Equal(t, 0, tr.Len())
}

func TestTreeCloneIsIndependent(t *testing.T) {
	tr := newIntTree()
	for i := 0; i < 30; i++ {
		tr.Put(i, i*i)
	}
	clone, ok := Clone(tr)
	require.True(t, ok)
	assert.Equal(t, tr.Len(), clone.Len())

	clone.Put(1000, -1)
	_, ok = tr.Get(1000)
	assert.False(t, ok)

	want := map[int]int{}
	for it := tr.First(); it != tr.End(); it = tr.Next(it) {
		want[tr.KeyAt(it)] = *tr.ValueAt(it)
	}
	got := map[int]int{}
	for it := clone.First(); it != clone.End(); it = clone.Next(it) {
		if k := clone.KeyAt(it); k != 1000 {
			got[k] = *clone.ValueAt(it)
		}
	}
	if diff := deep.Equal(want, got); diff != nil {
		t.Errorf("clone diverged from source before the post-clone insert: %v", diff)
	}
}

// assertRedBlackInvariants walks tr's tree from the root and fails if
// either red-black property is violated: no red node has a red child,
// and every root-to-sentinel path carries the same black-height.
func assertRedBlackInvariants[K any, V any](t *testing.T, tr *Tree[K, V]) {
	t.Helper()
	if tr.root == tr.sentinel {
		return
	}
	assert.Equal(t, black, tr.root.color, "root must be black")

	var walk func(n *node[K, V]) int
	walk = func(n *node[K, V]) int {
		if n == tr.sentinel {
			return 1
		}
		if n.color == red {
			assert.Equalf(t, black, n.left.color, "red node %v has red left child", n.key)
			assert.Equalf(t, black, n.right.color, "red node %v has red right child", n.key)
		}
		lh := walk(n.left)
		rh := walk(n.right)
		assert.Equalf(t, lh, rh, "unequal black-height at node %v: left=%d right=%d", n.key, lh, rh)
		if n.color == black {
			return lh + 1
		}
		return lh
	}
	walk(tr.root)
}

func TestTreeRedBlackInvariantsHoldAfterBulkInsert(t *testing.T) {
	tr := newIntTree()
	for i := 0; i < 500; i++ {
		tr.Put((i*37)%500, i)
	}
	assertRedBlackInvariants(t, tr)
}

func TestTreeRedBlackInvariantsHoldAfterBulkInsertAndErase(t *testing.T) {
	tr := newIntTree()
	for i := 0; i < 500; i++ {
		tr.Put((i*37)%500, i)
	}
	for i := 0; i < 500; i += 2 {
		require.True(t, tr.EraseKey(i))
		assertRedBlackInvariants(t, tr)
	}
}

func TestTreeCloneAllocationFailure(t *testing.T) {
	tr := newIntTree()
	tr.Put(1, 1)
	tr.Put(2, 2)
	tr.alloc = &alloc.FailAfter{N: 1}

	clone, ok := Clone(tr)
	assert.False(t, ok)
	assert.Nil(t, clone)
}
