package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-cc/containers/alloc"
)

func TestListPushAndEraseMultiplesOf3(t *testing.T) {
	l := New[int]()
	for i := 0; i < 10; i++ {
		_, ok := l.Push(i)
		require.True(t, ok)
	}
	require.Equal(t, 10, l.Len())

	for it := l.First(); it != l.End(); {
		if it.Value%3 == 0 {
			it = l.Erase(it)
		} else {
			it = l.Next(it)
		}
	}

	var got []int
	l.ForEach(func(e *Element[int]) bool {
		got = append(got, e.Value)
		return true
	})
	assert.Equal(t, []int{1, 2, 4, 5, 7, 8}, got)
	assert.Equal(t, 6, l.Len())
}

func TestListForwardAndReverseIteration(t *testing.T) {
	l := New[int]()
	l.Push(1)
	l.Push(2)
	l.Push(3)

	var fwd []int
	for it := l.First(); it != l.End(); it = l.Next(it) {
		fwd = append(fwd, it.Value)
	}
	assert.Equal(t, []int{1, 2, 3}, fwd)

	var rev []int
	for it := l.Last(); it != l.Rend(); it = l.Prev(it) {
		rev = append(rev, it.Value)
	}
	assert.Equal(t, []int{3, 2, 1}, rev)
}

func TestListSpliceMovesNodeWithoutAllocation(t *testing.T) {
	a := New[int]()
	b := New[int]()
	a.Push(1)
	n, _ := a.Push(2)
	a.Push(3)

	b.Splice(b.End(), a, n)

	assert.Equal(t, 2, a.Len())
	assert.Equal(t, 1, b.Len())
	assert.Equal(t, 2, n.Value)
	assert.Same(t, n, b.Last())
}

func TestListDisposeCalledOnErase(t *testing.T) {
	var disposed []int
	l := New[int](WithDispose(func(e *int) { disposed = append(disposed, *e) }))
	l.Push(1)
	l.Push(2)

	l.Erase(l.First())
	assert.Equal(t, []int{1}, disposed)

	l.Clear()
	assert.Equal(t, []int{1, 2}, disposed)
}

func TestListAllocationFailureLeavesListUnchanged(t *testing.T) {
	a := &alloc.FailAfter{N: 1}
	l := New[int](WithAllocator[int](a))

	_, ok := l.Push(1)
	assert.False(t, ok)
	assert.Equal(t, 0, l.Len())
	assert.Same(t, l.End(), l.First())
}

func TestListCloneIsIndependent(t *testing.T) {
	l := New[int]()
	l.Push(1)
	l.Push(2)
	l.Push(3)

	clone, ok := Clone(l)
	require.True(t, ok)
	assert.Equal(t, 3, clone.Len())

	clone.Push(4)
	assert.Equal(t, 3, l.Len())

	var got []int
	clone.ForEach(func(e *Element[int]) bool { got = append(got, e.Value); return true })
	assert.Equal(t, []int{1, 2, 3, 4}, got)
}

func TestListCloneAllocationFailure(t *testing.T) {
	l := New[int]()
	l.Push(1)
	l.Push(2)
	l.alloc = &alloc.FailAfter{N: 1}

	clone, ok := Clone(l)
	assert.False(t, ok)
	assert.Nil(t, clone)
}
