package ir_test

import (
	"testing"

	"github.com/BarrensZeppelin/pta/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//	Object
//	├── A implements I: foo()
//	│   └── B: foo()
//	│       └── C
//	└── D implements J (abstract): abstract foo()
//	    └── E
//
// where interface J extends I, and I declares foo().
type hierarchy struct {
	prog                   *ir.Program
	obj, a, b, c, d, e     *ir.Class
	i, j                   *ir.Class
	aFoo, bFoo, dFoo, iFoo *ir.Method
}

func newHierarchy() *hierarchy {
	p := ir.NewProgram()
	h := &hierarchy{prog: p}
	h.i = p.NewInterface("I")
	h.j = p.NewInterface("J", h.i)
	h.obj = p.NewClass("Object", nil)
	h.a = p.NewClass("A", h.obj, h.i)
	h.b = p.NewClass("B", h.a)
	h.c = p.NewClass("C", h.b)
	h.d = p.NewClass("D", h.obj, h.j)
	h.d.IsAbstract = true
	h.e = p.NewClass("E", h.d)

	h.iFoo = h.i.NewMethod("foo", nil, nil, ir.Abstract)
	h.aFoo = h.a.NewMethod("foo", nil, nil, 0)
	h.bFoo = h.b.NewMethod("foo", nil, nil, 0)
	h.dFoo = h.d.NewMethod("foo", nil, nil, ir.Abstract)
	return h
}

func TestStructure(t *testing.T) {
	h := newHierarchy()
	hr := h.prog.Hierarchy

	assert.Same(t, h.obj, hr.Root())
	assert.Equal(t, []*ir.Class{h.i, h.j, h.obj, h.a, h.b, h.c, h.d, h.e}, hr.Classes())
	assert.Equal(t, []*ir.Class{h.a, h.d}, hr.DirectSubclassesOf(h.obj))
	assert.Equal(t, []*ir.Class{h.a}, hr.DirectImplementorsOf(h.i))
	assert.Equal(t, []*ir.Class{h.j}, hr.DirectSubinterfacesOf(h.i))
	assert.Equal(t, []*ir.Class{h.d}, hr.DirectImplementorsOf(h.j))
	assert.Same(t, h.c, hr.Class("C"))
	assert.Nil(t, hr.Class("Z"))

	assert.ElementsMatch(t, []*ir.Class{h.a, h.b, h.c}, hr.Subclasses(h.a))
	assert.ElementsMatch(t, []*ir.Class{h.a, h.b, h.c, h.d, h.e}, hr.Implementors(h.i))
	assert.ElementsMatch(t, []*ir.Class{h.d, h.e}, hr.Implementors(h.j))

	assert.True(t, hr.IsSubclass(h.c, h.a))
	assert.True(t, hr.IsSubclass(h.e, h.i))
	assert.True(t, hr.IsSubclass(h.a, h.a))
	assert.False(t, hr.IsSubclass(h.a, h.c))
	assert.False(t, hr.IsSubclass(h.a, h.j))
}

func TestDispatch(t *testing.T) {
	h := newHierarchy()
	hr := h.prog.Hierarchy

	assert.Same(t, h.aFoo, hr.Dispatch(h.a, "foo()"))
	assert.Same(t, h.bFoo, hr.Dispatch(h.b, "foo()"))
	assert.Same(t, h.bFoo, hr.Dispatch(h.c, "foo()"), "inherited from the nearest superclass")
	assert.Nil(t, hr.Dispatch(h.e, "foo()"), "abstract declarations are not targets")
	assert.Nil(t, hr.Dispatch(h.a, "bar()"))

	assert.Same(t, h.dFoo, hr.LookupMethod(h.e, "foo()"))
	assert.Same(t, h.iFoo, hr.LookupMethod(h.j, "foo()"))
	assert.Nil(t, hr.LookupMethod(h.obj, "foo()"))
}

func TestResolveCallee(t *testing.T) {
	h := newHierarchy()
	hr := h.prog.Hierarchy

	m := h.c.NewMethod("main", nil, nil, ir.Static)
	x := m.NewVar("x", h.i)
	virt := m.Call(nil, x, h.i.Ref("foo()"))
	require.Equal(t, ir.CallInterface, virt.Kind)

	assert.Same(t, h.bFoo, hr.ResolveCallee(h.c, virt))
	assert.Same(t, h.aFoo, hr.ResolveCallee(h.a, virt))
	assert.Nil(t, hr.ResolveCallee(h.e, virt))
	assert.Nil(t, hr.ResolveCallee(ir.Int, virt))

	// Super calls ignore the receiver's type.
	y := m.NewVar("y", h.c)
	special := m.Invoke(ir.CallSpecial, nil, y, h.a.Ref("foo()"))
	assert.Same(t, h.aFoo, hr.ResolveCallee(h.c, special))

	dyn := m.Invoke(ir.CallDynamic, nil, nil, h.a.Ref("foo()"))
	assert.Nil(t, hr.ResolveCallee(h.a, dyn))
}

func TestArrayDispatch(t *testing.T) {
	h := newHierarchy()
	hr := h.prog.Hierarchy
	hash := h.obj.NewMethod("hashCode", ir.Int, nil, 0)

	m := h.c.NewMethod("main", nil, nil, ir.Static)
	arr := m.NewVar("arr", ir.ArrayOf(h.a))
	inv := m.Call(nil, arr, h.obj.Ref("hashCode()"))

	assert.Same(t, h.obj, hr.ClassOf(ir.ArrayOf(h.a)))
	assert.Same(t, hash, hr.ResolveCallee(ir.ArrayOf(h.a), inv))
}
