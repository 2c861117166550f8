package ir

import (
	"fmt"
	"strings"
)

// Stmt is a statement of a method body. The set of statement kinds is
// closed: every kind has a method in Visitor, so introducing a new kind is a
// compile error in every analysis that walks statements.
type Stmt interface {
	fmt.Stringer
	// Index of the statement in its method body.
	Index() int
	// Method containing the statement.
	Container() *Method
	Accept(v Visitor)

	base() *stmtBase
}

type Visitor interface {
	VisitNew(*New)
	VisitCopy(*Copy)
	VisitCast(*Cast)
	VisitAssignLiteral(*AssignLiteral)
	VisitBinary(*Binary)
	VisitLoadField(*LoadField)
	VisitStoreField(*StoreField)
	VisitLoadArray(*LoadArray)
	VisitStoreArray(*StoreArray)
	VisitInvoke(*Invoke)
	VisitReturn(*Return)
	VisitIf(*If)
	VisitGoto(*Goto)
	VisitNop(*Nop)
}

type stmtBase struct {
	index  int
	method *Method
}

func (s *stmtBase) Index() int         { return s.index }
func (s *stmtBase) Container() *Method { return s.method }
func (s *stmtBase) base() *stmtBase    { return s }

// New allocates an object (or an array when Type is an *ArrayType).
type New struct {
	stmtBase
	Lhs  *Var
	Type Type
	// Length of the allocated array, nil for objects.
	Length *Var
}

func (s *New) Accept(v Visitor) { v.VisitNew(s) }
func (s *New) String() string {
	if s.Length != nil {
		return fmt.Sprintf("%s = new %v[%s]", s.Lhs.Name, s.Type.(*ArrayType).Elem, s.Length.Name)
	}
	return fmt.Sprintf("%s = new %v", s.Lhs.Name, s.Type)
}

type Copy struct {
	stmtBase
	Lhs, Rhs *Var
}

func (s *Copy) Accept(v Visitor) { v.VisitCopy(s) }
func (s *Copy) String() string   { return s.Lhs.Name + " = " + s.Rhs.Name }

type Cast struct {
	stmtBase
	Lhs, Rhs *Var
	Type     Type
}

func (s *Cast) Accept(v Visitor) { v.VisitCast(s) }
func (s *Cast) String() string   { return fmt.Sprintf("%s = (%v) %s", s.Lhs.Name, s.Type, s.Rhs.Name) }

// AssignLiteral assigns a constant (number, string, null) to a variable.
type AssignLiteral struct {
	stmtBase
	Lhs   *Var
	Value string
}

func (s *AssignLiteral) Accept(v Visitor) { v.VisitAssignLiteral(s) }
func (s *AssignLiteral) String() string   { return s.Lhs.Name + " = " + s.Value }

type Binary struct {
	stmtBase
	Lhs, X, Y *Var
	Op        string
}

func (s *Binary) Accept(v Visitor) { v.VisitBinary(s) }
func (s *Binary) String() string {
	return fmt.Sprintf("%s = %s %s %s", s.Lhs.Name, s.X.Name, s.Op, s.Y.Name)
}

// LoadField reads Base.Field, or Field itself when the field is static
// (Base is then nil).
type LoadField struct {
	stmtBase
	Lhs   *Var
	Base  *Var
	Field *Field
}

func (s *LoadField) IsStatic() bool   { return s.Field.IsStatic }
func (s *LoadField) Accept(v Visitor) { v.VisitLoadField(s) }
func (s *LoadField) String() string {
	if s.IsStatic() {
		return s.Lhs.Name + " = " + s.Field.String()
	}
	return s.Lhs.Name + " = " + s.Base.Name + "." + s.Field.Name
}

type StoreField struct {
	stmtBase
	Base  *Var
	Field *Field
	Rhs   *Var
}

func (s *StoreField) IsStatic() bool   { return s.Field.IsStatic }
func (s *StoreField) Accept(v Visitor) { v.VisitStoreField(s) }
func (s *StoreField) String() string {
	if s.IsStatic() {
		return s.Field.String() + " = " + s.Rhs.Name
	}
	return s.Base.Name + "." + s.Field.Name + " = " + s.Rhs.Name
}

type LoadArray struct {
	stmtBase
	Lhs, Base, IndexVar *Var
}

func (s *LoadArray) Accept(v Visitor) { v.VisitLoadArray(s) }
func (s *LoadArray) String() string {
	return fmt.Sprintf("%s = %s[%s]", s.Lhs.Name, s.Base.Name, s.IndexVar.Name)
}

type StoreArray struct {
	stmtBase
	Base, IndexVar, Rhs *Var
}

func (s *StoreArray) Accept(v Visitor) { v.VisitStoreArray(s) }
func (s *StoreArray) String() string {
	return fmt.Sprintf("%s[%s] = %s", s.Base.Name, s.IndexVar.Name, s.Rhs.Name)
}

// Invoke is a call site.
type Invoke struct {
	stmtBase
	Kind CallKind
	Ref  MethodRef
	// Receiver, nil for static and dynamic invocations.
	Recv *Var
	Args []*Var
	// Variable receiving the returned value, nil when the result is unused.
	Result *Var
}

func (s *Invoke) IsStatic() bool   { return s.Kind == CallStatic }
func (s *Invoke) Accept(v Visitor) { v.VisitInvoke(s) }
func (s *Invoke) String() string {
	var sb strings.Builder
	if s.Result != nil {
		sb.WriteString(s.Result.Name + " = ")
	}
	sb.WriteString(strings.ToLower(s.Kind.String()) + " ")
	if s.Recv != nil {
		sb.WriteString(s.Recv.Name + ".")
	}
	sb.WriteString(s.Ref.String())
	sb.WriteByte('(')
	for i, a := range s.Args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(a.Name)
	}
	sb.WriteByte(')')
	return fmt.Sprintf("%v@%d: %s", s.method, s.index, sb.String())
}

type Return struct {
	stmtBase
	// nil for void returns.
	Value *Var
}

func (s *Return) Accept(v Visitor) { v.VisitReturn(s) }
func (s *Return) String() string {
	if s.Value == nil {
		return "return"
	}
	return "return " + s.Value.Name
}

type If struct {
	stmtBase
	Cond   *Var
	Target int
}

func (s *If) Accept(v Visitor) { v.VisitIf(s) }
func (s *If) String() string   { return fmt.Sprintf("if %s goto %d", s.Cond.Name, s.Target) }

type Goto struct {
	stmtBase
	Target int
}

func (s *Goto) Accept(v Visitor) { v.VisitGoto(s) }
func (s *Goto) String() string   { return fmt.Sprintf("goto %d", s.Target) }

type Nop struct{ stmtBase }

func (s *Nop) Accept(v Visitor) { v.VisitNop(s) }
func (s *Nop) String() string   { return "nop" }
