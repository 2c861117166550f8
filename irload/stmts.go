package irload

import (
	"fmt"
	"strings"

	"github.com/BarrensZeppelin/pta/internal/slices"
	"github.com/BarrensZeppelin/pta/ir"
)

func (l *loader) stmt(m *ir.Method, sd *stmtDecl) (err error) {
	// Variable lookups abort through a panic to keep the cases below flat.
	defer func() {
		if r := recover(); r != nil {
			ve, ok := r.(varError)
			if !ok {
				panic(r)
			}
			err = ve.err
		}
	}()

	v := func(name string) *ir.Var { return l.variable(m, name, false) }
	opt := func(name string) *ir.Var { return l.variable(m, name, true) }

	switch strings.ToLower(sd.Op) {
	case "new":
		typ, err := l.typ(sd.Type)
		if err != nil {
			return err
		}
		if at, isArray := typ.(*ir.ArrayType); isArray {
			m.NewArray(v(sd.Lhs), at.Elem, opt(sd.Length))
		} else {
			m.New(v(sd.Lhs), typ)
		}
	case "newarray":
		elem, err := l.typ(sd.Type)
		if err != nil {
			return err
		}
		m.NewArray(v(sd.Lhs), elem, opt(sd.Length))
	case "copy", "assign":
		m.Copy(v(sd.Lhs), v(sd.Rhs))
	case "cast":
		typ, err := l.typ(sd.Type)
		if err != nil {
			return err
		}
		m.Cast(v(sd.Lhs), v(sd.Rhs), typ)
	case "const", "literal":
		m.Literal(v(sd.Lhs), sd.Value)
	case "binary":
		m.Binary(v(sd.Lhs), v(sd.X), v(sd.Y), sd.Oper)
	case "load":
		base := opt(sd.Base)
		f, err := l.field(base, sd.Field)
		if err != nil {
			return err
		}
		m.Load(v(sd.Lhs), base, f)
	case "store":
		base := opt(sd.Base)
		f, err := l.field(base, sd.Field)
		if err != nil {
			return err
		}
		m.Store(base, f, v(sd.Rhs))
	case "aload":
		m.LoadArray(v(sd.Lhs), v(sd.Base), v(sd.Index))
	case "astore":
		m.StoreArray(v(sd.Base), v(sd.Index), v(sd.Rhs))
	case "call", "invoke":
		ref, err := l.methodRef(sd.Method)
		if err != nil {
			return err
		}
		args := slices.Map(sd.Args, v)
		if sd.Kind == "" {
			m.Call(opt(sd.Lhs), opt(sd.Recv), ref, args...)
		} else {
			kind, ok := ir.ParseCallKind(sd.Kind)
			if !ok {
				return fmt.Errorf("%w: call kind %q", ir.ErrMalformed, sd.Kind)
			}
			m.Invoke(kind, opt(sd.Lhs), opt(sd.Recv), ref, args...)
		}
	case "return":
		m.Return(opt(sd.Value))
	case "if":
		m.If(v(sd.Cond), sd.Target)
	case "goto":
		m.Goto(sd.Target)
	case "nop":
		m.Nop()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, sd.Op)
	}
	return nil
}

type varError struct{ err error }

// variable resolves a local of m. An empty name is only allowed when
// optional is set and yields nil.
func (l *loader) variable(m *ir.Method, name string, optional bool) *ir.Var {
	if name == "" && optional {
		return nil
	}
	if v := m.Var(name); v != nil {
		return v
	}
	panic(varError{fmt.Errorf("%w: %q in %v", ErrUnknownVar, name, m)})
}

// field resolves "Class.name", or a bare name through the static type of
// base.
func (l *loader) field(base *ir.Var, name string) (*ir.Field, error) {
	if cname, fname, found := strings.Cut(name, "."); found {
		c := l.prog.Hierarchy.Class(cname)
		if c == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownClass, cname)
		}
		if f := c.Field(fname); f != nil {
			return f, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}

	if base != nil {
		if c, ok := base.Type.(*ir.Class); ok {
			if f := c.Field(name); f != nil {
				return f, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
}

// methodRef parses "Class.name(T1,T2)".
func (l *loader) methodRef(sig string) (ir.MethodRef, error) {
	i := strings.Index(sig, "(")
	if i < 0 {
		return ir.MethodRef{}, fmt.Errorf("%w: %q", ErrUnknownMethod, sig)
	}
	dot := strings.LastIndex(sig[:i], ".")
	if dot < 0 {
		return ir.MethodRef{}, fmt.Errorf("%w: %q", ErrUnknownMethod, sig)
	}

	c := l.prog.Hierarchy.Class(sig[:dot])
	if c == nil {
		return ir.MethodRef{}, fmt.Errorf("%w: %s", ErrUnknownClass, sig[:dot])
	}
	sub := ir.Subsignature(strings.ReplaceAll(sig[dot+1:], " ", ""))
	if l.prog.Hierarchy.LookupMethod(c, sub) == nil {
		return ir.MethodRef{}, fmt.Errorf("%w: %s", ErrUnknownMethod, sig)
	}
	return c.Ref(sub), nil
}
