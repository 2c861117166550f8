package cs_test

import (
	"testing"

	"github.com/BarrensZeppelin/pta/cs"
	"github.com/BarrensZeppelin/pta/heap"
	"github.com/BarrensZeppelin/pta/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture holds a caller invoking A.m twice, and two objects allocated in
// different classes.
type fixture struct {
	sites  [2]*ir.Invoke
	callee *ir.Method
	objs   [2]*heap.Obj
}

func newFixture(t *testing.T) fixture {
	prog := ir.NewProgram()
	obj := prog.NewClass("Object", nil)
	a := prog.NewClass("A", obj)
	b := prog.NewClass("B", obj)

	m := a.NewMethod("m", nil, nil, 0)
	main := b.NewMethod("main", nil, nil, ir.Static)
	x := main.NewVar("x", a)
	y := main.NewVar("y", a)

	h := heap.AllocationSite()
	var f fixture
	f.callee = m
	f.objs[0] = h.Obj(main.New(x, a))
	f.objs[1] = h.Obj(m.New(m.NewVar("z", a), a))
	f.sites[0] = main.Call(nil, x, m.Ref())
	f.sites[1] = main.Call(nil, y, m.Ref())
	require.Equal(t, ir.CallVirtual, f.sites[0].Kind)
	return f
}

func TestInsensitive(t *testing.T) {
	f := newFixture(t)
	s := cs.Insensitive()
	empty := s.EmptyContext()

	site := cs.CallSite{Context: empty, Invoke: f.sites[0]}
	recv := &cs.Obj{Context: empty, Obj: f.objs[0]}
	assert.Same(t, empty, s.SelectContext(site, recv, f.callee))
	assert.Same(t, empty, s.SelectHeapContext(cs.Method{Context: empty, Method: f.callee}, f.objs[1]))
	assert.Equal(t, "ci", s.String())
}

func TestKCallSite(t *testing.T) {
	f := newFixture(t)
	s := cs.KCallSite(2, 1)
	empty := s.EmptyContext()

	c1 := s.SelectContext(cs.CallSite{Context: empty, Invoke: f.sites[0]}, nil, f.callee)
	c2 := s.SelectContext(cs.CallSite{Context: empty, Invoke: f.sites[1]}, nil, f.callee)
	assert.NotSame(t, c1, c2)
	assert.Equal(t, []any{f.sites[0]}, c1.Elems())

	c12 := s.SelectContext(cs.CallSite{Context: c1, Invoke: f.sites[1]}, nil, f.callee)
	assert.Equal(t, []any{f.sites[0], f.sites[1]}, c12.Elems())
	c121 := s.SelectContext(cs.CallSite{Context: c12, Invoke: f.sites[0]}, nil, f.callee)
	assert.Equal(t, []any{f.sites[1], f.sites[0]}, c121.Elems())

	hctx := s.SelectHeapContext(cs.Method{Context: c12, Method: f.callee}, f.objs[1])
	assert.Equal(t, []any{f.sites[1]}, hctx.Elems())
	assert.Equal(t, "2-call", s.String())
}

func TestKObject(t *testing.T) {
	f := newFixture(t)
	s := cs.KObject(2, 1)
	empty := s.EmptyContext()

	o1 := &cs.Obj{Context: empty, Obj: f.objs[0]}
	site := cs.CallSite{Context: empty, Invoke: f.sites[0]}
	ctx := s.SelectContext(site, o1, f.callee)
	assert.Equal(t, []any{f.objs[0]}, ctx.Elems())

	// The receiver's heap context is prepended.
	o2 := &cs.Obj{Context: ctx, Obj: f.objs[1]}
	ctx2 := s.SelectContext(site, o2, f.callee)
	assert.Equal(t, []any{f.objs[0], f.objs[1]}, ctx2.Elems())

	// Static calls keep the caller's context.
	assert.Same(t, ctx, s.SelectContext(cs.CallSite{Context: ctx, Invoke: f.sites[0]}, nil, f.callee))
	assert.Equal(t, "2-obj", s.String())
}

func TestKType(t *testing.T) {
	f := newFixture(t)
	s := cs.KType(1, 0)
	empty := s.EmptyContext()

	site := cs.CallSite{Context: empty, Invoke: f.sites[0]}
	ctx := s.SelectContext(site, &cs.Obj{Context: empty, Obj: f.objs[0]}, f.callee)
	// objs[0] is allocated in B.main.
	require.Equal(t, 1, ctx.Len())
	assert.Equal(t, "B", ctx.Last().(*ir.Class).Name)

	ctx2 := s.SelectContext(site, &cs.Obj{Context: empty, Obj: f.objs[1]}, f.callee)
	assert.Equal(t, "A", ctx2.Last().(*ir.Class).Name)

	assert.Same(t, empty, s.SelectHeapContext(cs.Method{Context: ctx, Method: f.callee}, f.objs[0]))
}

func TestInvalidLimits(t *testing.T) {
	assert.Panics(t, func() { cs.KCallSite(0, 0) })
	assert.Panics(t, func() { cs.KObject(1, -1) })
}
