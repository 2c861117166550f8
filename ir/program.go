// Package ir is the object-oriented intermediate representation consumed by
// the pointer analysis: classes, fields, methods with three-address
// statements, and the class hierarchy used for method dispatch.
package ir

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMalformed = errors.New("malformed IR")

type Program struct {
	Hierarchy *Hierarchy
	// Entry method of the program.
	Main *Method

	methods []*Method
}

func NewProgram() *Program {
	return &Program{Hierarchy: newHierarchy()}
}

// NewClass declares a class. A nil super makes the class a hierarchy root
// candidate; the first such class becomes Hierarchy.Root.
func (p *Program) NewClass(name string, super *Class, interfaces ...*Class) *Class {
	return p.newClass(name, super, interfaces, false)
}

// NewInterface declares an interface extending the given interfaces.
func (p *Program) NewInterface(name string, supers ...*Class) *Class {
	return p.newClass(name, nil, supers, true)
}

func (p *Program) newClass(name string, super *Class, itfs []*Class, isItf bool) *Class {
	if p.Hierarchy.Class(name) != nil {
		panic(fmt.Errorf("%w: duplicate class %s", ErrMalformed, name))
	}
	if super != nil && super.IsInterface {
		panic(fmt.Errorf("%w: %s extends interface %s", ErrMalformed, name, super))
	}
	for _, itf := range itfs {
		if !itf.IsInterface {
			panic(fmt.Errorf("%w: %s implements class %s", ErrMalformed, name, itf))
		}
	}

	c := &Class{
		Name:        name,
		Super:       super,
		Interfaces:  itfs,
		IsInterface: isItf,
		IsAbstract:  isItf,
		prog:        p,
		byName:      make(map[string]*Field),
		bySig:       make(map[Subsignature]*Method),
	}
	p.Hierarchy.add(c)
	return c
}

func (p *Program) Methods() []*Method { return p.methods }

// Method finds a method by its "Class.subsig" string, e.g. "A.foo(B)".
func (p *Program) Method(sig string) *Method {
	i := strings.Index(sig, "(")
	if i < 0 {
		return nil
	}
	dot := strings.LastIndex(sig[:i], ".")
	if dot < 0 {
		return nil
	}
	c := p.Hierarchy.Class(sig[:dot])
	if c == nil {
		return nil
	}
	return c.DeclaredMethod(Subsignature(sig[dot+1:]))
}

// The methods below append statements to a method body.

func (m *Method) New(lhs *Var, typ Type) *New {
	m.checkOwn(lhs)
	s := &New{Lhs: lhs, Type: typ}
	m.add(s)
	return s
}

func (m *Method) NewArray(lhs *Var, elem Type, length *Var) *New {
	m.checkOwn(lhs, length)
	s := &New{Lhs: lhs, Type: ArrayOf(elem), Length: length}
	m.add(s)
	return s
}

func (m *Method) Copy(lhs, rhs *Var) *Copy {
	m.checkOwn(lhs, rhs)
	s := &Copy{Lhs: lhs, Rhs: rhs}
	m.add(s)
	return s
}

func (m *Method) Cast(lhs, rhs *Var, typ Type) *Cast {
	m.checkOwn(lhs, rhs)
	s := &Cast{Lhs: lhs, Rhs: rhs, Type: typ}
	m.add(s)
	return s
}

func (m *Method) Literal(lhs *Var, value string) *AssignLiteral {
	m.checkOwn(lhs)
	s := &AssignLiteral{Lhs: lhs, Value: value}
	m.add(s)
	return s
}

func (m *Method) Binary(lhs, x, y *Var, op string) *Binary {
	m.checkOwn(lhs, x, y)
	s := &Binary{Lhs: lhs, X: x, Y: y, Op: op}
	m.add(s)
	return s
}

// Load appends lhs = base.f. For static fields base must be nil.
func (m *Method) Load(lhs, base *Var, f *Field) *LoadField {
	m.checkOwn(lhs, base)
	checkFieldAccess(base, f)
	s := &LoadField{Lhs: lhs, Base: base, Field: f}
	m.add(s)
	return s
}

// Store appends base.f = rhs. For static fields base must be nil.
func (m *Method) Store(base *Var, f *Field, rhs *Var) *StoreField {
	m.checkOwn(base, rhs)
	checkFieldAccess(base, f)
	s := &StoreField{Base: base, Field: f, Rhs: rhs}
	m.add(s)
	return s
}

func checkFieldAccess(base *Var, f *Field) {
	if (base == nil) != f.IsStatic {
		panic(fmt.Errorf("%w: static-ness of access to %v does not match field", ErrMalformed, f))
	}
}

func (m *Method) LoadArray(lhs, base, index *Var) *LoadArray {
	m.checkOwn(lhs, base, index)
	s := &LoadArray{Lhs: lhs, Base: base, IndexVar: index}
	m.add(s)
	return s
}

func (m *Method) StoreArray(base, index, rhs *Var) *StoreArray {
	m.checkOwn(base, index, rhs)
	s := &StoreArray{Base: base, IndexVar: index, Rhs: rhs}
	m.add(s)
	return s
}

// Call appends an invocation of ref and tags it with the call kind implied
// by the referenced declaration: static methods give CallStatic, private
// methods and constructors CallSpecial, methods referenced through an
// interface CallInterface, everything else CallVirtual. recv must be nil
// exactly for static methods. A reference that cannot be found in the
// hierarchy is malformed.
func (m *Method) Call(result, recv *Var, ref MethodRef, args ...*Var) *Invoke {
	decl := m.Class.prog.Hierarchy.LookupMethod(ref.Class, ref.Subsig)
	if decl == nil {
		panic(fmt.Errorf("%w: unresolvable method reference %v", ErrMalformed, ref))
	}

	var kind CallKind
	switch {
	case decl.IsStatic:
		kind = CallStatic
	case decl.IsPrivate || decl.IsConstructor():
		kind = CallSpecial
	case ref.Class.IsInterface:
		kind = CallInterface
	default:
		kind = CallVirtual
	}
	return m.Invoke(kind, result, recv, ref, args...)
}

// Invoke appends a call site with an explicit kind, e.g. CallSpecial for a
// super call.
func (m *Method) Invoke(kind CallKind, result, recv *Var, ref MethodRef, args ...*Var) *Invoke {
	m.checkOwn(result, recv)
	m.checkOwn(args...)
	if (recv == nil) != (kind == CallStatic || kind == CallDynamic) {
		panic(fmt.Errorf("%w: receiver of %v call to %v", ErrMalformed, kind, ref))
	}

	s := &Invoke{Kind: kind, Ref: ref, Recv: recv, Args: args, Result: result}
	m.add(s)
	return s
}

func (m *Method) Return(v *Var) *Return {
	m.checkOwn(v)
	s := &Return{Value: v}
	m.add(s)
	return s
}

func (m *Method) If(cond *Var, target int) *If {
	m.checkOwn(cond)
	s := &If{Cond: cond, Target: target}
	m.add(s)
	return s
}

func (m *Method) Goto(target int) *Goto {
	s := &Goto{Target: target}
	m.add(s)
	return s
}

func (m *Method) Nop() *Nop {
	s := &Nop{}
	m.add(s)
	return s
}
