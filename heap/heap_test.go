package heap_test

import (
	"testing"

	"github.com/BarrensZeppelin/pta/heap"
	"github.com/BarrensZeppelin/pta/ir"
	"github.com/stretchr/testify/assert"
)

func sites() (*ir.New, *ir.New, *ir.New) {
	prog := ir.NewProgram()
	a := prog.NewClass("A", nil)
	m := a.NewMethod("main", nil, nil, ir.Static)
	x, y, arr := m.NewVar("x", a), m.NewVar("y", a), m.NewVar("arr", ir.ArrayOf(a))
	return m.New(x, a), m.New(y, a), m.NewArray(arr, a, nil)
}

func TestAllocationSite(t *testing.T) {
	s1, s2, s3 := sites()
	h := heap.AllocationSite()

	o1, o2, o3 := h.Obj(s1), h.Obj(s2), h.Obj(s3)
	assert.Same(t, o1, h.Obj(s1))
	assert.NotSame(t, o1, o2)
	assert.Equal(t, []*heap.Obj{o1, o2, o3}, h.Objects())

	assert.Equal(t, heap.NewObject, o1.Kind)
	assert.Equal(t, heap.NewArray, o3.Kind)
	assert.Equal(t, "A[]", o3.Type.String())
	assert.Equal(t, "A.main()", o1.Container().String())
	assert.Equal(t, "NewObj{A.main()@0: x = new A}", o1.String())
}

func TestByType(t *testing.T) {
	s1, s2, s3 := sites()
	h := heap.ByType()

	o1, o2, o3 := h.Obj(s1), h.Obj(s2), h.Obj(s3)
	assert.Same(t, o1, o2)
	assert.NotSame(t, o1, o3)
	assert.Equal(t, heap.Merged, o1.Kind)
	assert.Equal(t, s1, o1.Site)
	assert.Len(t, h.Objects(), 2)
	assert.Equal(t, "MergedObj<A[]>", o3.String())
}
