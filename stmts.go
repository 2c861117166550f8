package pointer

import (
	"github.com/BarrensZeppelin/pta/cs"
	"github.com/BarrensZeppelin/pta/ir"
)

// stmtProcessor seeds the pointer flow graph with the statements of one
// reachable method. Statements whose effect depends on the objects a
// variable points to (instance field and array accesses, instance calls)
// are handled by the solver when those objects arrive.
type stmtProcessor struct {
	a       *analysis
	method  cs.Method
	context *cs.Context
}

func (p *stmtProcessor) varPtr(v *ir.Var) *VarPtr { return p.a.pool.csVar(p.context, v) }

func (p *stmtProcessor) VisitNew(s *ir.New) {
	a := p.a
	obj := a.heap.Obj(s)
	hctx := a.selector.SelectHeapContext(p.method, obj)
	a.addEntry(p.varPtr(s.Lhs), a.pool.objs.singleton(a.pool.csObj(hctx, obj)))
}

func (p *stmtProcessor) VisitCopy(s *ir.Copy) {
	p.a.addPFGEdge(p.varPtr(s.Rhs), p.varPtr(s.Lhs))
}

// Casts are not filtered by type.
func (p *stmtProcessor) VisitCast(s *ir.Cast) {
	p.a.addPFGEdge(p.varPtr(s.Rhs), p.varPtr(s.Lhs))
}

func (p *stmtProcessor) VisitLoadField(s *ir.LoadField) {
	if s.IsStatic() {
		p.a.addPFGEdge(p.a.pool.staticField(s.Field), p.varPtr(s.Lhs))
	}
}

func (p *stmtProcessor) VisitStoreField(s *ir.StoreField) {
	if s.IsStatic() {
		p.a.addPFGEdge(p.varPtr(s.Rhs), p.a.pool.staticField(s.Field))
	}
}

func (p *stmtProcessor) VisitInvoke(s *ir.Invoke) {
	if s.IsStatic() {
		p.a.processStaticCall(p.context, s)
	}
}

func (p *stmtProcessor) VisitAssignLiteral(*ir.AssignLiteral) {}
func (p *stmtProcessor) VisitBinary(*ir.Binary)               {}
func (p *stmtProcessor) VisitLoadArray(*ir.LoadArray)         {}
func (p *stmtProcessor) VisitStoreArray(*ir.StoreArray)       {}
func (p *stmtProcessor) VisitReturn(*ir.Return)               {}
func (p *stmtProcessor) VisitIf(*ir.If)                       {}
func (p *stmtProcessor) VisitGoto(*ir.Goto)                   {}
func (p *stmtProcessor) VisitNop(*ir.Nop)                     {}
