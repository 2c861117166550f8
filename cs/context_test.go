package cs

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextInterning(t *testing.T) {
	empty := newEmptyContext()
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, "[]", empty.String())
	assert.Nil(t, empty.Last())

	ab := empty.Append("a", 3).Append("b", 3)
	assert.Same(t, ab, empty.Append("a", 3).Append("b", 3))
	assert.NotSame(t, ab, empty.Append("b", 3).Append("a", 3))
	assert.Equal(t, []any{"a", "b"}, ab.Elems())
	assert.Equal(t, "b", ab.Last())
	assert.Equal(t, "[a, b]", ab.String())

	// Contexts of different selectors never compare equal.
	other := newEmptyContext()
	assert.NotSame(t, ab, other.Append("a", 3).Append("b", 3))
}

func TestContextLimits(t *testing.T) {
	empty := newEmptyContext()
	abc := empty.Append("a", 3).Append("b", 3).Append("c", 3)
	assert.Equal(t, 3, abc.Len())

	bcd := abc.Append("d", 3)
	assert.Equal(t, []any{"b", "c", "d"}, bcd.Elems())
	assert.Same(t, bcd, empty.Append("b", 3).Append("c", 3).Append("d", 3))

	assert.Same(t, empty, abc.Append("d", 0))
	assert.Same(t, empty.Append("c", 1), abc.Truncate(1))
	assert.Same(t, abc, abc.Truncate(5))
	assert.Same(t, empty, abc.Truncate(0))
	assert.Same(t, empty, abc.Truncate(-1))
}

func TestContextConcurrentAppend(t *testing.T) {
	empty := newEmptyContext()
	res := make([]*Context, 8)

	var wg sync.WaitGroup
	for i := range res {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res[i] = empty.Append("a", 2).Append("b", 2).Append("c", 2)
		}(i)
	}
	wg.Wait()

	for _, c := range res {
		assert.Same(t, res[0], c)
	}
	assert.Equal(t, []any{"b", "c"}, res[0].Elems())
}
