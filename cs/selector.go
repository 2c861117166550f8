package cs

import (
	"fmt"

	"github.com/BarrensZeppelin/pta/heap"
	"github.com/BarrensZeppelin/pta/ir"
)

// Selector is a context-sensitivity policy. The pointer analysis asks the
// selector for every context it needs and contains no variant-specific
// logic of its own.
type Selector interface {
	fmt.Stringer

	// EmptyContext returns the context of entry methods.
	EmptyContext() *Context
	// SelectContext returns the context for callee when invoked at site.
	// recv is the receiver object for instance calls and nil for static
	// calls.
	SelectContext(site CallSite, recv *Obj, callee *ir.Method) *Context
	// SelectHeapContext returns the heap context of obj when it is
	// allocated in m.
	SelectHeapContext(m Method, obj *heap.Obj) *Context
}

type insensitive struct{ empty *Context }

// Insensitive returns the selector that uses the empty context everywhere.
func Insensitive() Selector { return &insensitive{newEmptyContext()} }

func (s *insensitive) String() string         { return "ci" }
func (s *insensitive) EmptyContext() *Context { return s.empty }
func (s *insensitive) SelectContext(CallSite, *Obj, *ir.Method) *Context {
	return s.empty
}
func (s *insensitive) SelectHeapContext(Method, *heap.Obj) *Context {
	return s.empty
}

// limits holds the method context depth k and heap context depth hk shared
// by the k-limited selectors.
type limits struct {
	k, hk int
	empty *Context
}

func newLimits(k, hk int) limits {
	if k < 1 || hk < 0 {
		panic(fmt.Errorf("invalid context limits k=%d hk=%d", k, hk))
	}
	return limits{k: k, hk: hk, empty: newEmptyContext()}
}

func (l *limits) EmptyContext() *Context { return l.empty }

func (l *limits) SelectHeapContext(m Method, _ *heap.Obj) *Context {
	return m.Context.Truncate(l.hk)
}

type kCallSite struct{ limits }

// KCallSite returns a k-call-site sensitive selector: a callee context is
// the last k call sites leading to it, and heap contexts keep the last hk
// call sites of the allocating method.
func KCallSite(k, hk int) Selector { return &kCallSite{newLimits(k, hk)} }

func (s *kCallSite) String() string { return fmt.Sprintf("%d-call", s.k) }

func (s *kCallSite) SelectContext(site CallSite, _ *Obj, _ *ir.Method) *Context {
	return site.Context.Append(site.Invoke, s.k)
}

type kObject struct{ limits }

// KObject returns a k-object sensitive selector: the context of an instance
// method is the receiver object followed by its heap context, limited to k
// elements. Static callees inherit the caller's context.
func KObject(k, hk int) Selector { return &kObject{newLimits(k, hk)} }

func (s *kObject) String() string { return fmt.Sprintf("%d-obj", s.k) }

func (s *kObject) SelectContext(site CallSite, recv *Obj, _ *ir.Method) *Context {
	if recv == nil {
		return site.Context
	}
	return recv.Context.Append(recv.Obj, s.k)
}

type kType struct{ limits }

// KType returns a k-type sensitive selector. It is like KObject, but uses
// the class containing the receiver's allocation site instead of the
// receiver itself.
func KType(k, hk int) Selector { return &kType{newLimits(k, hk)} }

func (s *kType) String() string { return fmt.Sprintf("%d-type", s.k) }

func (s *kType) SelectContext(site CallSite, recv *Obj, _ *ir.Method) *Context {
	if recv == nil {
		return site.Context
	}
	return recv.Context.Append(recv.Obj.Container().Class, s.k)
}
