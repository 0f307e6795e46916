package hashset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAddReportsExistedAndContains(t *testing.T) {
	s := New[int](IntHasher)
	existed, ok := s.Add(1)
	require.True(t, ok)
	assert.False(t, existed)

	existed, ok = s.Add(1)
	require.True(t, ok)
	assert.True(t, existed)

	assert.True(t, s.Contains(1))
	assert.False(t, s.Contains(2))
	assert.Equal(t, 1, s.Len())
}

func TestSetRemoveAndIteration(t *testing.T) {
	s := New[int](IntHasher)
	for i := 0; i < 20; i++ {
		s.Add(i)
	}
	require.True(t, s.Remove(5))
	assert.False(t, s.Remove(5))

	var got []int
	s.ForEach(func(e int) bool {
		got = append(got, e)
		return true
	})
	assert.Equal(t, 19, len(got))
}

func TestSetStringElements(t *testing.T) {
	s := NewString()
	s.Add("a")
	s.Add("b")
	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains("c"))
}

func TestSetCloneIndependence(t *testing.T) {
	s := New[int](IntHasher)
	s.Add(1)
	s.Add(2)
	clone, ok := Clone(s)
	require.True(t, ok)
	clone.Add(3)
	assert.False(t, s.Contains(3))
	assert.True(t, clone.Contains(3))
}
