package cs

import (
	"fmt"

	"github.com/BarrensZeppelin/pta/heap"
	"github.com/BarrensZeppelin/pta/ir"
)

// Method is a method analysed under a context.
type Method struct {
	Context *Context
	Method  *ir.Method
}

func (m Method) String() string { return fmt.Sprintf("%v:%v", m.Context, m.Method) }

// CallSite is a call site in a method analysed under Context.
type CallSite struct {
	Context *Context
	Invoke  *ir.Invoke
}

func (c CallSite) String() string { return fmt.Sprintf("%v:%v", c.Context, c.Invoke) }

// Container returns the context-qualified method containing the call site.
func (c CallSite) Container() Method {
	return Method{Context: c.Context, Method: c.Invoke.Container()}
}

// Obj is an abstract object qualified by a heap context. Objects are pooled
// by the analysis, which assigns them dense IDs.
type Obj struct {
	ID      int
	Context *Context
	Obj     *heap.Obj
}

func (o *Obj) String() string { return fmt.Sprintf("%v:%v", o.Context, o.Obj) }
