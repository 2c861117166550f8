package pointer

import (
	"fmt"

	"github.com/BarrensZeppelin/pta/cs"
	"github.com/BarrensZeppelin/pta/heap"
	"github.com/BarrensZeppelin/pta/ir"
)

// Pointer is a node of the pointer flow graph. It is one of *VarPtr,
// *InstanceField, *StaticField and *ArrayIndex. Pointers are canonical within
// an analysis: the same logical pointer is always represented by the same
// value, and it owns exactly one points-to set.
type Pointer interface {
	fmt.Stringer
	PointsToSet() *PointsToSet

	base() *ptrBase
}

type ptrBase struct {
	pts *PointsToSet
}

func (p *ptrBase) PointsToSet() *PointsToSet { return p.pts }
func (p *ptrBase) base() *ptrBase            { return p }

// VarPtr is a local variable under a context.
type VarPtr struct {
	ptrBase
	Context *cs.Context
	Var     *ir.Var
}

func (p *VarPtr) String() string { return fmt.Sprintf("%v:%v", p.Context, p.Var) }

// InstanceField is a field of an abstract object.
type InstanceField struct {
	ptrBase
	Base  *cs.Obj
	Field *ir.Field
}

func (p *InstanceField) String() string { return fmt.Sprintf("%v.%s", p.Base, p.Field.Name) }

// StaticField is a static field. It is owned by the field's declaring class
// and never qualified by a context.
type StaticField struct {
	ptrBase
	Field *ir.Field
}

func (p *StaticField) String() string { return p.Field.String() }

// ArrayIndex stands for every element of an array object. Indices are not
// distinguished: all stores into the array flow into it and all loads read
// all of it.
type ArrayIndex struct {
	ptrBase
	Array *cs.Obj
}

func (p *ArrayIndex) String() string { return fmt.Sprintf("%v[*]", p.Array) }

type varKey struct {
	ctx *cs.Context
	v   *ir.Var
}

type fieldKey struct {
	obj *cs.Obj
	f   *ir.Field
}

type objKey struct {
	ctx *cs.Context
	obj *heap.Obj
}

// pool canonicalises abstract objects and pointers for one analysis run.
type pool struct {
	objs *objTable

	vars    map[varKey]*VarPtr
	ifields map[fieldKey]*InstanceField
	sfields map[*ir.Field]*StaticField
	arrays  map[*cs.Obj]*ArrayIndex

	// Creation order, for deterministic enumeration.
	varList    []*VarPtr
	ifieldList []*InstanceField
	sfieldList []*StaticField
	arrayList  []*ArrayIndex
}

func newPool() *pool {
	return &pool{
		objs:    &objTable{index: make(map[objKey]*cs.Obj)},
		vars:    make(map[varKey]*VarPtr),
		ifields: make(map[fieldKey]*InstanceField),
		sfields: make(map[*ir.Field]*StaticField),
		arrays:  make(map[*cs.Obj]*ArrayIndex),
	}
}

func (p *pool) csObj(ctx *cs.Context, o *heap.Obj) *cs.Obj { return p.objs.get(ctx, o) }

func (p *pool) csVar(ctx *cs.Context, v *ir.Var) *VarPtr {
	key := varKey{ctx, v}
	if ptr, found := p.vars[key]; found {
		return ptr
	}

	ptr := &VarPtr{ptrBase{p.objs.newSet()}, ctx, v}
	p.vars[key] = ptr
	p.varList = append(p.varList, ptr)
	return ptr
}

func (p *pool) instanceField(o *cs.Obj, f *ir.Field) *InstanceField {
	key := fieldKey{o, f}
	if ptr, found := p.ifields[key]; found {
		return ptr
	}

	ptr := &InstanceField{ptrBase{p.objs.newSet()}, o, f}
	p.ifields[key] = ptr
	p.ifieldList = append(p.ifieldList, ptr)
	return ptr
}

func (p *pool) staticField(f *ir.Field) *StaticField {
	if ptr, found := p.sfields[f]; found {
		return ptr
	}

	ptr := &StaticField{ptrBase{p.objs.newSet()}, f}
	p.sfields[f] = ptr
	p.sfieldList = append(p.sfieldList, ptr)
	return ptr
}

func (p *pool) arrayIndex(o *cs.Obj) *ArrayIndex {
	if ptr, found := p.arrays[o]; found {
		return ptr
	}

	ptr := &ArrayIndex{ptrBase{p.objs.newSet()}, o}
	p.arrays[o] = ptr
	p.arrayList = append(p.arrayList, ptr)
	return ptr
}
