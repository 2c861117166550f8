package slices

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3"}, Map([]int{1, 2, 3}, strconv.Itoa))
	assert.Empty(t, Map([]int(nil), strconv.Itoa))
}

func TestSubset(t *testing.T) {
	assert.True(t, Subset([]int{}, []int{1}))
	assert.True(t, Subset([]int{2, 1}, []int{1, 2, 3}))
	assert.False(t, Subset([]int{4}, []int{1, 2, 3}))
	assert.False(t, Subset([]int{1, 2}, []int{1}))
	assert.True(t, Contains([]string{"a", "b"}, "b"))
}
