package orderedmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapPutGetOverwriteAndOrder(t *testing.T) {
	m := New[int, string](OrderedInt[int])
	for _, k := range []int{5, 1, 4, 2, 3} {
		m.Put(k, "v")
	}
	require.Equal(t, 5, m.Len())

	var got []int
	m.ForEach(func(k int, _ *string) bool {
		got = append(got, k)
		return true
	})
	assert.Equal(t, []int{1, 2, 3, 4, 5}, got)

	v, ok := m.Put(3, "updated")
	require.True(t, ok)
	assert.Equal(t, "updated", *v)
}

func TestMapForEachReverse(t *testing.T) {
	m := New[int, int](OrderedInt[int])
	for i := 1; i <= 5; i++ {
		m.Put(i, i)
	}
	var got []int
	m.ForEachReverse(func(k int, _ *int) bool {
		got = append(got, k)
		return true
	})
	assert.Equal(t, []int{5, 4, 3, 2, 1}, got)
}

func TestMapBoundedFirstAndLast(t *testing.T) {
	m := New[int, int](OrderedInt[int])
	for _, k := range []int{10, 20, 30} {
		m.Put(k, k)
	}
	it := m.BoundedFirst(15)
	assert.Equal(t, 20, m.KeyFor(it))
	it = m.BoundedLast(15)
	assert.Equal(t, 10, m.KeyFor(it))
}

func TestMapStringKeys(t *testing.T) {
	m := New[string, int](OrderedString)
	m.Put("banana", 1)
	m.Put("apple", 2)
	var got []string
	m.ForEach(func(k string, _ *int) bool { got = append(got, k); return true })
	assert.Equal(t, []string{"apple", "banana"}, got)
}

func TestMapEraseKeyAndIterator(t *testing.T) {
	m := New[int, int](OrderedInt[int])
	for i := 0; i < 20; i++ {
		m.Put(i, i)
	}
	require.True(t, m.EraseKey(5))
	assert.False(t, m.EraseKey(5))

	seen := map[int]bool{}
	for it := m.First(); it != m.End(); {
		k := m.KeyFor(it)
		seen[k] = true
		if k%7 == 0 {
			it = m.EraseIterator(it)
		} else {
			it = m.Next(it)
		}
	}
	for i := 0; i < 20; i++ {
		if i != 5 {
			assert.True(t, seen[i])
		}
	}
}

func TestMapCloneIndependence(t *testing.T) {
	m := New[int, int](OrderedInt[int])
	m.Put(1, 1)
	m.Put(2, 2)
	clone, ok := Clone(m)
	require.True(t, ok)
	clone.Put(3, 3)
	_, ok = m.Get(3)
	assert.False(t, ok)
}
