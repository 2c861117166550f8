package ir

import "fmt"

// Class is a class or interface of the analysed program. Classes are owned
// by the Hierarchy that created them and are identified by their ID, which
// indexes the hierarchy's arena.
type Class struct {
	ID          int
	Name        string
	Super       *Class
	Interfaces  []*Class
	IsInterface bool
	IsAbstract  bool

	prog    *Program
	fields  []*Field
	methods []*Method
	byName  map[string]*Field
	bySig   map[Subsignature]*Method
}

func (c *Class) String() string { return c.Name }
func (*Class) isType()          {}

// Field is a (static or instance) field declared by a class.
type Field struct {
	Class    *Class
	Name     string
	Type     Type
	IsStatic bool
}

func (f *Field) String() string { return f.Class.Name + "." + f.Name }

// NewField declares a field on c.
func (c *Class) NewField(name string, typ Type, static bool) *Field {
	if _, found := c.byName[name]; found {
		panic(fmt.Errorf("%w: duplicate field %s.%s", ErrMalformed, c.Name, name))
	}

	f := &Field{Class: c, Name: name, Type: typ, IsStatic: static}
	c.fields = append(c.fields, f)
	c.byName[name] = f
	return f
}

// DeclaredField returns the field named name declared directly on c.
func (c *Class) DeclaredField(name string) *Field { return c.byName[name] }

// Field looks up a field by name on c and its superclasses.
func (c *Class) Field(name string) *Field {
	for cur := c; cur != nil; cur = cur.Super {
		if f := cur.byName[name]; f != nil {
			return f
		}
	}
	return nil
}

func (c *Class) Fields() []*Field { return c.fields }

// DeclaredMethod returns the method with the given subsignature declared
// directly on c, abstract or not.
func (c *Class) DeclaredMethod(sub Subsignature) *Method { return c.bySig[sub] }

func (c *Class) DeclaredMethods() []*Method { return c.methods }

// Ref returns a reference to the method with the given subsignature, as seen
// through c.
func (c *Class) Ref(sub Subsignature) MethodRef { return MethodRef{Class: c, Subsig: sub} }

// NewMethod declares a method on c. The receiver variable "this" is created
// for instance methods, followed by one variable per parameter.
func (c *Class) NewMethod(name string, ret Type, params []Param, mods Modifier) *Method {
	ptypes := make([]Type, len(params))
	for i, p := range params {
		ptypes[i] = p.Type
	}

	sub := MakeSubsignature(name, ptypes)
	if _, found := c.bySig[sub]; found {
		panic(fmt.Errorf("%w: duplicate method %s.%s", ErrMalformed, c.Name, sub))
	}

	m := &Method{
		ID:         len(c.prog.methods),
		Class:      c,
		Name:       name,
		Subsig:     sub,
		ReturnType: ret,
		IsStatic:   mods&Static != 0,
		IsAbstract: mods&Abstract != 0,
		IsPrivate:  mods&Private != 0,
		varByName:  make(map[string]*Var),
	}

	if !m.IsStatic {
		m.This = m.NewVar("this", c)
	}
	for _, p := range params {
		m.Params = append(m.Params, m.NewVar(p.Name, p.Type))
	}

	c.methods = append(c.methods, m)
	c.bySig[sub] = m
	c.prog.methods = append(c.prog.methods, m)
	return m
}
