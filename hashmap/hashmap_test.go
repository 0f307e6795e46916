package hashmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-cc/containers/alloc"
)

func TestMapPutGetAndOverwrite(t *testing.T) {
	m := New[int, string](IntHasher)
	for i := 0; i < 50; i++ {
		_, ok := m.Put(i, "v")
		require.True(t, ok)
	}
	require.Equal(t, 50, m.Len())

	v, ok := m.Put(1, "updated")
	require.True(t, ok)
	assert.Equal(t, "updated", *v)
	got, _ := m.Get(1)
	assert.Equal(t, "updated", *got)
}

func TestMapStringKeys(t *testing.T) {
	m := NewString[int]()
	m.Put("alpha", 1)
	m.Put("beta", 2)

	v, ok := m.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, 1, *v)

	_, ok = m.Get("gamma")
	assert.False(t, ok)
}

func TestMapEraseKeyAndIterator(t *testing.T) {
	m := New[int, int](IntHasher)
	for i := 0; i < 30; i++ {
		m.Put(i, i)
	}
	require.True(t, m.EraseKey(5))
	assert.False(t, m.EraseKey(5))

	seen := map[int]bool{}
	for it := m.First(); it != m.End(); {
		seen[m.KeyFor(it)] = true
		if m.KeyFor(it)%7 == 0 {
			it = m.EraseIterator(it)
		} else {
			it = m.Next(it)
		}
	}
	for i := 0; i < 30; i++ {
		if i != 5 {
			assert.True(t, seen[i], "key %d not visited", i)
		}
	}
}

func TestMapReserveShrinkCloneAndAllocationFailure(t *testing.T) {
	m := New[int, int](IntHasher)
	require.True(t, m.Reserve(500))
	for i := 0; i < 10; i++ {
		m.Put(i, i)
	}
	require.True(t, m.Shrink())

	clone, ok := Clone(m)
	require.True(t, ok)
	clone.Put(999, -1)
	_, ok = m.Get(999)
	assert.False(t, ok)

	fail := &alloc.FailAfter{N: 1}
	m2 := New[int, int](IntHasher, WithAllocator[int, int](fail))
	_, ok = m2.Put(1, 1)
	assert.False(t, ok)
}

func TestMapDisposeCalledOnErase(t *testing.T) {
	var disposedKeys []int
	m := New[int, int](IntHasher, WithKeyDispose[int, int](func(k *int) { disposedKeys = append(disposedKeys, *k) }))
	m.Put(1, 1)
	m.Put(2, 2)
	m.EraseKey(1)
	assert.Equal(t, []int{1}, disposedKeys)
}
