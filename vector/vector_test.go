package vector

import (
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-cc/containers/alloc"
)

func TestVectorPushAndEraseN(t *testing.T) {
	v := New[int]()
	for i := 0; i < 10; i++ {
		_, ok := v.Push(i)
		require.True(t, ok)
	}
	require.Equal(t, 10, v.Len())

	v.EraseN(3, 4)
	require.Equal(t, 6, v.Len())
	got := make([]int, 0, v.Len())
	v.ForEach(func(_ int, e *int) bool {
		got = append(got, *e)
		return true
	})
	assert.Equal(t, []int{0, 1, 2, 7, 8, 9}, got)
}

func TestVectorInsertAtFront(t *testing.T) {
	v := New[int]()
	v.PushN([]int{1, 2, 3})
	v.Insert(0, 0)
	assert.Equal(t, 0, *v.Get(0))
	assert.Equal(t, 4, v.Len())
}

func TestVectorResizeGrowAndShrink(t *testing.T) {
	v := New[int]()
	v.PushN([]int{1, 2, 3})

	ok := v.Resize(5)
	require.True(t, ok)
	assert.Equal(t, 5, v.Len())

	ok = v.Resize(2)
	require.True(t, ok)
	assert.Equal(t, 2, v.Len())
	assert.Equal(t, 1, *v.Get(0))
	assert.Equal(t, 2, *v.Get(1))
}

func TestVectorShrinkReturnsToPlaceholder(t *testing.T) {
	v := New[int]()
	v.Push(1)
	v.EraseN(0, 1)
	require.True(t, v.Shrink())
	assert.Equal(t, 0, v.Cap())
}

func TestVectorDisposeCalledExactlyOncePerRemoval(t *testing.T) {
	var disposed []int
	v := New[int](WithDispose(func(e *int) { disposed = append(disposed, *e) }))
	v.PushN([]int{1, 2, 3, 4})

	v.EraseN(1, 2)
	assert.Equal(t, []int{2, 3}, disposed)

	v.Clear()
	assert.Equal(t, []int{2, 3, 1, 4}, disposed)
}

func TestVectorCleanupReleasesBackingArray(t *testing.T) {
	v := New[int]()
	v.PushN([]int{1, 2, 3})
	v.Cleanup()
	assert.Equal(t, 0, v.Len())
	assert.Equal(t, 0, v.Cap())
}

func TestVectorAllocationFailureLeavesVectorUnchanged(t *testing.T) {
	a := &alloc.FailAfter{N: 1}
	v := New[int](WithAllocator[int](a))

	_, ok := v.Push(1)
	assert.False(t, ok)
	assert.Equal(t, 0, v.Len())
	assert.Equal(t, 0, v.Cap())
}

func TestVectorCloneIsIndependentAndTrimmed(t *testing.T) {
	v := New[int]()
	v.PushN([]int{1, 2, 3})
	v.Reserve(100)

	clone, ok := Clone(v)
	require.True(t, ok)
	assert.Equal(t, 3, clone.Len())
	assert.Equal(t, 3, clone.Cap())
	if diff := deep.Equal(v.data, clone.data); diff != nil {
		t.Errorf("clone diverged from source: %v", diff)
	}

	clone.Push(4)
	assert.Equal(t, 3, v.Len())
}

func TestVectorCloneAllocationFailure(t *testing.T) {
	v := New[int]()
	v.PushN([]int{1, 2, 3})
	v.alloc = &alloc.FailAfter{N: 1}

	clone, ok := Clone(v)
	assert.False(t, ok)
	assert.Nil(t, clone)
}
