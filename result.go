package pointer

import (
	"strings"

	"github.com/BarrensZeppelin/pta/callgraph"
	"github.com/BarrensZeppelin/pta/cs"
	"github.com/BarrensZeppelin/pta/heap"
	"github.com/BarrensZeppelin/pta/ir"
	"github.com/VictoriaMetrics/metrics"
	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/slices"
)

// Result is the outcome of a pointer analysis. It is immutable and may be
// shared between goroutines.
type Result struct {
	Selector cs.Selector

	pool        *pool
	pfg         *pfg
	csCallGraph *callgraph.Graph[cs.CallSite, cs.Method]
	callGraph   *callgraph.Graph[*ir.Invoke, *ir.Method]
	varPtrs     map[*ir.Var][]*VarPtr
	vars        []*ir.Var
	stats       *stats
}

func (a *analysis) result() *Result {
	r := &Result{
		Selector:    a.selector,
		pool:        a.pool,
		pfg:         a.pfg,
		csCallGraph: a.callGraph,
		varPtrs:     make(map[*ir.Var][]*VarPtr),
		stats:       a.stats,
	}

	for _, p := range a.pool.varList {
		if _, seen := r.varPtrs[p.Var]; !seen && PointerLike(p.Var) {
			r.vars = append(r.vars, p.Var)
		}
		r.varPtrs[p.Var] = append(r.varPtrs[p.Var], p)
	}

	r.callGraph = callgraph.Project(a.callGraph,
		func(s cs.CallSite) *ir.Invoke { return s.Invoke },
		func(m cs.Method) *ir.Method { return m.Method },
		(*ir.Invoke).Container)

	return r
}

// CallGraph returns the call graph with contexts removed.
func (r *Result) CallGraph() *callgraph.Graph[*ir.Invoke, *ir.Method] { return r.callGraph }

// CSCallGraph returns the context-sensitive call graph.
func (r *Result) CSCallGraph() *callgraph.Graph[cs.CallSite, cs.Method] { return r.csCallGraph }

// Reachable returns the reachable methods in discovery order.
func (r *Result) Reachable() []*ir.Method { return r.callGraph.Reachable() }

// Vars returns every variable of reference type that occurs in a reachable
// method, in the order the analysis first met them.
func (r *Result) Vars() []*ir.Var { return r.vars }

// CSVars returns every context-sensitive variable of reference type.
func (r *Result) CSVars() []*VarPtr {
	var res []*VarPtr
	for _, p := range r.pool.varList {
		if PointerLike(p.Var) {
			res = append(res, p)
		}
	}
	return res
}

// PointsToCS returns the context-sensitive objects v may point to under any
// context, ordered by ID.
func (r *Result) PointsToCS(v *ir.Var) []*cs.Obj {
	ptrs := r.varPtrs[v]
	switch len(ptrs) {
	case 0:
		return nil
	case 1:
		return ptrs[0].PointsToSet().Objects()
	}

	union := r.pool.objs.newSet()
	for _, p := range ptrs {
		union.addAll(p.PointsToSet())
	}
	return union.Objects()
}

// PointsTo returns the abstract objects v may point to, ignoring contexts,
// ordered by ID.
func (r *Result) PointsTo(v *ir.Var) []*heap.Obj {
	return stripContexts(r.PointsToCS(v))
}

// CSPointsTo returns the objects v may point to under ctx.
func (r *Result) CSPointsTo(ctx *cs.Context, v *ir.Var) []*cs.Obj {
	if p := r.pool.vars[varKey{ctx, v}]; p != nil {
		return p.PointsToSet().Objects()
	}
	return nil
}

func (r *Result) InstanceFieldPointsTo(o *cs.Obj, f *ir.Field) []*cs.Obj {
	if p := r.pool.ifields[fieldKey{o, f}]; p != nil {
		return p.PointsToSet().Objects()
	}
	return nil
}

func (r *Result) StaticFieldPointsTo(f *ir.Field) []*cs.Obj {
	if p := r.pool.sfields[f]; p != nil {
		return p.PointsToSet().Objects()
	}
	return nil
}

func (r *Result) ArrayPointsTo(o *cs.Obj) []*cs.Obj {
	if p := r.pool.arrays[o]; p != nil {
		return p.PointsToSet().Objects()
	}
	return nil
}

// Objects returns every context-sensitive object created by the analysis.
func (r *Result) Objects() []*cs.Obj { return r.pool.objs.objs }

// MayAlias reports whether a and b may point to a common object.
func (r *Result) MayAlias(a, b *ir.Var) bool {
	pa := make(map[*heap.Obj]struct{})
	for _, o := range r.PointsTo(a) {
		pa[o] = struct{}{}
	}
	for _, o := range r.PointsTo(b) {
		if _, found := pa[o]; found {
			return true
		}
	}
	return false
}

// Metrics returns the counters collected while solving.
func (r *Result) Metrics() *metrics.Set { return r.stats.set }

// Digest returns a fingerprint of all non-empty points-to sets and all call
// edges. It does not depend on the order in which the analysis discovered
// facts, so two runs computing the same fixpoint have the same digest.
func (r *Result) Digest() uint64 {
	var lines []string
	add := func(p Pointer) {
		pts := p.PointsToSet()
		if pts.IsEmpty() {
			return
		}
		// Object IDs follow discovery order, so sort by name instead.
		objs := make([]string, 0, pts.Len())
		pts.ForEach(func(o *cs.Obj) { objs = append(objs, o.String()) })
		slices.Sort(objs)
		lines = append(lines, p.String()+" -> {"+strings.Join(objs, ", ")+"}")
	}
	for _, p := range r.pool.varList {
		add(p)
	}
	for _, p := range r.pool.ifieldList {
		add(p)
	}
	for _, p := range r.pool.sfieldList {
		add(p)
	}
	for _, p := range r.pool.arrayList {
		add(p)
	}
	for _, e := range r.csCallGraph.Edges() {
		lines = append(lines, e.String())
	}
	slices.Sort(lines)

	h := xxhash.New()
	for _, l := range lines {
		h.WriteString(l)
		h.WriteString("\n")
	}
	return h.Sum64()
}

func stripContexts(objs []*cs.Obj) []*heap.Obj {
	seen := make(map[*heap.Obj]struct{}, len(objs))
	res := make([]*heap.Obj, 0, len(objs))
	for _, o := range objs {
		if _, found := seen[o.Obj]; !found {
			seen[o.Obj] = struct{}{}
			res = append(res, o.Obj)
		}
	}
	slices.SortFunc(res, func(a, b *heap.Obj) bool { return a.ID < b.ID })
	return res
}
