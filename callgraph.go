package pointer

import (
	"fmt"

	"github.com/BarrensZeppelin/pta/callgraph"
	"github.com/BarrensZeppelin/pta/cs"
	"github.com/BarrensZeppelin/pta/ir"
)

// ArityError reports a call site whose arguments do not match the
// parameters of the method it resolves to.
type ArityError struct {
	CallSite *ir.Invoke
	Callee   *ir.Method
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%v passes %d arguments to %v which takes %d",
		e.CallSite, len(e.CallSite.Args), e.Callee, len(e.Callee.Params))
}

func (e *ArityError) Unwrap() error { return ir.ErrMalformed }

// checkCall validates a resolved call before anything about it is recorded,
// so that a malformed call never leaves a half-wired edge behind.
func (a *analysis) checkCall(site *ir.Invoke, callee *ir.Method) {
	if len(site.Args) != len(callee.Params) {
		a.fail(&ArityError{site, callee})
	}
	if site.Recv != nil && callee.IsStatic {
		a.malformed(site, "instance call resolved to static method %v", callee)
	}
	if site.Recv == nil && !callee.IsStatic {
		a.malformed(site, "static call resolved to instance method %v", callee)
	}
}

// processStaticCall resolves and wires a static invocation in a method
// analysed under ctx. No receiver is needed.
func (a *analysis) processStaticCall(ctx *cs.Context, inv *ir.Invoke) {
	callee := a.hierarchy.ResolveCallee(nil, inv)
	if callee == nil {
		a.dropCall(inv, nil)
		return
	}

	a.checkCall(inv, callee)
	site := cs.CallSite{Context: ctx, Invoke: inv}
	calleeCtx := a.selector.SelectContext(site, nil, callee)
	a.processCallEdge(site, cs.Method{Context: calleeCtx, Method: callee})
}

// processCall dispatches every invocation on recv to the newly discovered
// receiver object o.
func (a *analysis) processCall(recv *VarPtr, o *cs.Obj) {
	for _, inv := range recv.Var.Invokes() {
		callee := a.hierarchy.ResolveCallee(o.Obj.Type, inv)
		if callee == nil {
			a.dropCall(inv, o)
			continue
		}

		a.checkCall(inv, callee)
		site := cs.CallSite{Context: recv.Context, Invoke: inv}
		calleeCtx := a.selector.SelectContext(site, o, callee)

		// Only the receiver itself flows into "this", not the other
		// objects recv points to.
		a.addEntry(a.pool.csVar(calleeCtx, callee.This), a.pool.objs.singleton(o))
		a.processCallEdge(site, cs.Method{Context: calleeCtx, Method: callee})
	}
}

// processCallEdge adds the call edge site -> callee unless present, makes the
// callee reachable and connects arguments and return values.
func (a *analysis) processCallEdge(site cs.CallSite, callee cs.Method) {
	inv := site.Invoke
	if !a.callGraph.AddEdge(callgraph.Edge[cs.CallSite, cs.Method]{
		Kind:     inv.Kind,
		CallSite: site,
		Callee:   callee,
	}) {
		return
	}

	a.stats.callEdges.Inc()
	a.addReachable(callee)

	m := callee.Method
	for i, arg := range inv.Args {
		a.addPFGEdge(a.pool.csVar(site.Context, arg), a.pool.csVar(callee.Context, m.Params[i]))
	}

	if inv.Result != nil {
		result := a.pool.csVar(site.Context, inv.Result)
		for _, ret := range m.ReturnVars() {
			a.addPFGEdge(a.pool.csVar(callee.Context, ret), result)
		}
	}
}

func (a *analysis) dropCall(inv *ir.Invoke, recv *cs.Obj) {
	a.stats.dropped.Inc()
	if recv == nil {
		a.log.Debugf("No target for %v", inv)
	} else {
		a.log.Debugf("No target for %v on %v", inv, recv)
	}
}
