package generic

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlicePoolResets(t *testing.T) {
	p := NewSlicePool[*int](4)

	buf := p.Get()
	require.Empty(t, *buf)
	require.GreaterOrEqual(t, cap(*buf), 4)

	v := 1
	*buf = append(*buf, &v, &v)
	backing := (*buf)[:2]
	p.Put(buf)

	require.Empty(t, *buf)
	require.Nil(t, backing[0], "pointers are cleared before reuse")
	require.Nil(t, backing[1])
}

func TestPoolGenerates(t *testing.T) {
	calls := 0
	p := NewPool(func() int {
		calls++
		return 42
	}, nil)

	require.Equal(t, 42, p.Get())
	require.Equal(t, 1, calls)
	p.Put(7)
}
