package mintermset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pborges/qmkernel/word"
)

func TestAddBucketsByDataPopcount(t *testing.T) {
	s := New[word.U64](33)
	s.Add(word.U64(0b0011), 2) // data half has 2 ones
	s.Add(word.U64(0b0001), 1)
	s.Add(word.U64(0b0111), 2)

	require.Equal(t, 2, s.MaxBucket())
	assert.Len(t, s.Get(2), 2)
	assert.Len(t, s.Get(1), 1)
	assert.Empty(t, s.Get(0))
	assert.Nil(t, s.Get(100))
}

func TestAddPanicsOnOverflow(t *testing.T) {
	s := New[word.U32](3)
	assert.Panics(t, func() {
		s.Add(word.U32(1), 5)
	})
}

func TestAddAll(t *testing.T) {
	s := New[word.U64](65)
	vs := []word.U64{1, 3, 7}
	s.AddAll(vs, func(v word.U64) int { return v.PopCount() })
	assert.Equal(t, 3, s.MaxBucket())
	assert.Equal(t, vs[:1], s.Get(1))
}
