package ir

import (
	"fmt"
	"strings"
)

// Subsignature identifies a method within a class: its name and parameter
// types, e.g. "foo(A,int)".
type Subsignature string

func MakeSubsignature(name string, params []Type) Subsignature {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(p.String())
	}
	sb.WriteByte(')')
	return Subsignature(sb.String())
}

// Name returns the method name part of the subsignature.
func (s Subsignature) Name() string {
	name, _, _ := strings.Cut(string(s), "(")
	return name
}

type Modifier uint8

const (
	Static Modifier = 1 << iota
	Abstract
	Private
)

type Param struct {
	Name string
	Type Type
}

// MethodRef is a symbolic reference to a method as it appears at a call
// site: the statically declared class and the subsignature.
type MethodRef struct {
	Class  *Class
	Subsig Subsignature
}

func (r MethodRef) String() string { return r.Class.Name + "." + string(r.Subsig) }

type Method struct {
	ID         int
	Class      *Class
	Name       string
	Subsig     Subsignature
	ReturnType Type
	IsStatic   bool
	IsAbstract bool
	IsPrivate  bool

	// This is nil for static methods.
	This   *Var
	Params []*Var

	vars       []*Var
	varByName  map[string]*Var
	stmts      []Stmt
	returnVars []*Var
}

func (m *Method) String() string { return m.Class.Name + "." + string(m.Subsig) }

func (m *Method) IsConstructor() bool { return m.Name == "<init>" }

func (m *Method) Ref() MethodRef { return MethodRef{Class: m.Class, Subsig: m.Subsig} }

func (m *Method) Stmts() []Stmt      { return m.stmts }
func (m *Method) Vars() []*Var       { return m.vars }
func (m *Method) ReturnVars() []*Var { return m.returnVars }

// Var returns the local variable with the given name, or nil.
func (m *Method) Var(name string) *Var { return m.varByName[name] }

// NewVar declares a local variable. A nil type means "unknown reference".
func (m *Method) NewVar(name string, typ Type) *Var {
	if _, found := m.varByName[name]; found {
		panic(fmt.Errorf("%w: duplicate variable %s in %v", ErrMalformed, name, m))
	}

	v := &Var{ID: len(m.vars), Name: name, Type: typ, Method: m}
	m.vars = append(m.vars, v)
	m.varByName[name] = v
	return v
}

// Var is a local variable (including "this" and parameters) of a method.
// Besides its identity it indexes the statements that access memory or
// invoke methods through it, which is what the solver reacts to when the
// variable's points-to set grows.
type Var struct {
	ID     int
	Name   string
	Type   Type
	Method *Method

	loadFields  []*LoadField
	storeFields []*StoreField
	loadArrays  []*LoadArray
	storeArrays []*StoreArray
	invokes     []*Invoke
}

func (v *Var) String() string { return v.Method.String() + "/" + v.Name }

func (v *Var) LoadFields() []*LoadField   { return v.loadFields }
func (v *Var) StoreFields() []*StoreField { return v.storeFields }
func (v *Var) LoadArrays() []*LoadArray   { return v.loadArrays }
func (v *Var) StoreArrays() []*StoreArray { return v.storeArrays }

// Invokes returns the instance invocations that have v as receiver.
func (v *Var) Invokes() []*Invoke { return v.invokes }

func (m *Method) checkOwn(vs ...*Var) {
	for _, v := range vs {
		if v != nil && v.Method != m {
			panic(fmt.Errorf("%w: variable %v used in %v", ErrMalformed, v, m))
		}
	}
}

func (m *Method) add(s Stmt) {
	s.base().index = len(m.stmts)
	s.base().method = m
	m.stmts = append(m.stmts, s)

	switch s := s.(type) {
	case *LoadField:
		if s.Base != nil {
			s.Base.loadFields = append(s.Base.loadFields, s)
		}
	case *StoreField:
		if s.Base != nil {
			s.Base.storeFields = append(s.Base.storeFields, s)
		}
	case *LoadArray:
		s.Base.loadArrays = append(s.Base.loadArrays, s)
	case *StoreArray:
		s.Base.storeArrays = append(s.Base.storeArrays, s)
	case *Invoke:
		if s.Recv != nil {
			s.Recv.invokes = append(s.Recv.invokes, s)
		}
	case *Return:
		if s.Value != nil {
			m.returnVars = append(m.returnVars, s.Value)
		}
	}
}
