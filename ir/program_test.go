package ir_test

import (
	"testing"

	"github.com/BarrensZeppelin/pta/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func panicsWithMalformed(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, ir.ErrMalformed)
	}()
	f()
}

func TestMethods(t *testing.T) {
	p := ir.NewProgram()
	obj := p.NewClass("Object", nil)
	a := p.NewClass("A", obj)

	m := a.NewMethod("foo", obj, []ir.Param{{Name: "x", Type: a}, {Name: "n", Type: ir.Int}}, 0)
	assert.Equal(t, ir.Subsignature("foo(A,int)"), m.Subsig)
	assert.Equal(t, "foo", m.Subsig.Name())
	assert.Equal(t, "A.foo(A,int)", m.String())
	assert.Same(t, m, p.Method("A.foo(A,int)"))
	assert.Nil(t, p.Method("A.foo()"))
	assert.Nil(t, p.Method("foo()"))
	assert.Nil(t, p.Method("A.foo"))

	require.NotNil(t, m.This)
	assert.Equal(t, []*ir.Var{m.This, m.Params[0], m.Params[1]}, m.Vars())
	assert.Same(t, m.Params[0], m.Var("x"))
	assert.Equal(t, "A.foo(A,int)/x", m.Params[0].String())

	s := a.NewMethod("bar", nil, nil, ir.Static|ir.Private)
	assert.Nil(t, s.This)
	assert.True(t, s.IsStatic)
	assert.True(t, s.IsPrivate)
	assert.Equal(t, []*ir.Method{m, s}, p.Methods())

	ctor := a.NewMethod("<init>", nil, nil, 0)
	assert.True(t, ctor.IsConstructor())
}

func TestCallKinds(t *testing.T) {
	p := ir.NewProgram()
	obj := p.NewClass("Object", nil)
	itf := p.NewInterface("I")
	a := p.NewClass("A", obj, itf)
	itf.NewMethod("run", nil, nil, ir.Abstract)
	a.NewMethod("run", nil, nil, 0)
	a.NewMethod("helper", nil, nil, ir.Private)
	a.NewMethod("<init>", nil, nil, 0)
	a.NewMethod("util", nil, nil, ir.Static)

	m := a.NewMethod("main", nil, nil, ir.Static)
	x := m.NewVar("x", a)
	assert.Equal(t, ir.CallInterface, m.Call(nil, x, itf.Ref("run()")).Kind)
	assert.Equal(t, ir.CallVirtual, m.Call(nil, x, a.Ref("run()")).Kind)
	assert.Equal(t, ir.CallSpecial, m.Call(nil, x, a.Ref("helper()")).Kind)
	assert.Equal(t, ir.CallSpecial, m.Call(nil, x, a.Ref("<init>()")).Kind)
	assert.Equal(t, ir.CallStatic, m.Call(nil, nil, a.Ref("util()")).Kind)

	assert.Len(t, x.Invokes(), 4)
	for i, s := range m.Stmts() {
		assert.Equal(t, i, s.Index())
		assert.Same(t, m, s.Container())
	}

	panicsWithMalformed(t, func() { m.Call(nil, nil, a.Ref("run()")) })
	panicsWithMalformed(t, func() { m.Call(nil, x, a.Ref("util()")) })
	panicsWithMalformed(t, func() { m.Call(nil, x, a.Ref("missing()")) })
}

func TestMalformed(t *testing.T) {
	p := ir.NewProgram()
	obj := p.NewClass("Object", nil)
	itf := p.NewInterface("I")
	a := p.NewClass("A", obj)
	f := a.NewField("f", obj, false)
	sf := a.NewField("s", obj, true)
	m := a.NewMethod("m", nil, nil, 0)
	other := a.NewMethod("n", nil, nil, 0)

	panicsWithMalformed(t, func() { p.NewClass("A", obj) })
	panicsWithMalformed(t, func() { p.NewClass("B", itf) })
	panicsWithMalformed(t, func() { p.NewClass("B", obj, obj) })
	panicsWithMalformed(t, func() { a.NewField("f", obj, false) })
	panicsWithMalformed(t, func() { a.NewMethod("m", nil, nil, 0) })
	panicsWithMalformed(t, func() { m.NewVar("this", a) })
	panicsWithMalformed(t, func() { m.Copy(m.This, other.This) })
	panicsWithMalformed(t, func() { m.Load(m.This, nil, f) })
	panicsWithMalformed(t, func() { m.Store(m.This, sf, m.This) })
}

func TestVarRelations(t *testing.T) {
	p := ir.NewProgram()
	a := p.NewClass("A", nil)
	f := a.NewField("f", a, false)
	sf := a.NewField("s", a, true)
	m := a.NewMethod("m", a, nil, 0)
	x, i := m.NewVar("x", a), m.NewVar("i", ir.Int)

	load := m.Load(x, m.This, f)
	store := m.Store(m.This, f, x)
	m.Store(nil, sf, x)
	aload := m.LoadArray(x, x, i)
	astore := m.StoreArray(x, i, m.This)
	m.Return(x)

	assert.Equal(t, []*ir.LoadField{load}, m.This.LoadFields())
	assert.Equal(t, []*ir.StoreField{store}, m.This.StoreFields())
	assert.Empty(t, x.StoreFields())
	assert.Equal(t, []*ir.LoadArray{aload}, x.LoadArrays())
	assert.Equal(t, []*ir.StoreArray{astore}, x.StoreArrays())
	assert.Same(t, i, aload.IndexVar)
	assert.Same(t, i, astore.IndexVar)
	assert.Equal(t, "x = x[i]", aload.String())
	assert.Equal(t, "x[i] = this", astore.String())
	for idx, s := range []ir.Stmt{aload, astore} {
		assert.Equal(t, 3+idx, s.Index())
	}
	assert.Equal(t, []*ir.Var{x}, m.ReturnVars())
	assert.Equal(t, "A.f", f.String())
	assert.Same(t, f, a.Field("f"))
}

func TestTypes(t *testing.T) {
	p := ir.NewProgram()
	a := p.NewClass("A", nil)

	assert.True(t, ir.IsReference(a))
	assert.True(t, ir.IsReference(ir.ArrayOf(ir.Int)))
	assert.True(t, ir.IsReference(nil))
	assert.False(t, ir.IsReference(ir.Boolean))

	assert.True(t, ir.SameType(ir.ArrayOf(a), ir.ArrayOf(a)))
	assert.False(t, ir.SameType(ir.ArrayOf(a), ir.ArrayOf(ir.Int)))
	assert.False(t, ir.SameType(a, nil))
	assert.Same(t, ir.Long, ir.Primitive("long"))
	assert.Nil(t, ir.Primitive("A"))

	for _, k := range []ir.CallKind{ir.CallStatic, ir.CallSpecial, ir.CallVirtual, ir.CallInterface, ir.CallDynamic} {
		parsed, ok := ir.ParseCallKind(k.String())
		assert.True(t, ok)
		assert.Equal(t, k, parsed)
	}
	parsed, ok := ir.ParseCallKind("virtual")
	assert.True(t, ok)
	assert.Equal(t, ir.CallVirtual, parsed)
	_, ok = ir.ParseCallKind("indirect")
	assert.False(t, ok)
}
