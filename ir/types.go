package ir

import "fmt"

// Type is the static or dynamic type of a value in the analysed program.
// It is one of *Class, *ArrayType or *PrimitiveType.
type Type interface {
	fmt.Stringer
	isType()
}

type PrimitiveType struct{ name string }

func (p *PrimitiveType) String() string { return p.name }
func (*PrimitiveType) isType()          {}

var (
	Int     = &PrimitiveType{"int"}
	Long    = &PrimitiveType{"long"}
	Boolean = &PrimitiveType{"boolean"}
	Char    = &PrimitiveType{"char"}
	Double  = &PrimitiveType{"double"}
)

var primitives = map[string]*PrimitiveType{
	"int":     Int,
	"long":    Long,
	"boolean": Boolean,
	"char":    Char,
	"double":  Double,
}

// Primitive returns the primitive type with the given name, or nil.
func Primitive(name string) *PrimitiveType { return primitives[name] }

type ArrayType struct {
	Elem Type
}

func ArrayOf(elem Type) *ArrayType { return &ArrayType{Elem: elem} }

func (a *ArrayType) String() string { return a.Elem.String() + "[]" }
func (*ArrayType) isType()          {}

// IsReference reports whether values of type t can point to heap objects.
// A nil type (an untyped local) is treated as a reference.
func IsReference(t Type) bool {
	switch t.(type) {
	case *PrimitiveType:
		return false
	default:
		return true
	}
}

// SameType reports whether a and b denote the same type. Array types are
// structural, everything else is compared by identity.
func SameType(a, b Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	aa, ok1 := a.(*ArrayType)
	ba, ok2 := b.(*ArrayType)
	return ok1 && ok2 && SameType(aa.Elem, ba.Elem)
}
