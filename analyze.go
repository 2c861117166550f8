package pointer

import (
	"errors"
	"fmt"

	"github.com/BarrensZeppelin/pta/callgraph"
	"github.com/BarrensZeppelin/pta/cs"
	"github.com/BarrensZeppelin/pta/heap"
	"github.com/BarrensZeppelin/pta/internal/queue"
	"github.com/BarrensZeppelin/pta/ir"
	"github.com/sirupsen/logrus"
)

var ErrNoEntry = errors.New("no entry method")

type AnalysisConfig struct {
	Program *ir.Program

	// Entry is the method the analysis starts from. Defaults to
	// Program.Main.
	Entry *ir.Method

	// Entries are additional methods treated as called from outside the
	// program, each under the empty context.
	Entries []*ir.Method

	// Heap defaults to heap.AllocationSite().
	Heap heap.Model

	// Selector defaults to cs.Insensitive(). A selector may be shared by
	// concurrent runs; contexts it hands out are interned across all of
	// them.
	Selector cs.Selector

	// Logger defaults to the standard logrus logger.
	Logger *logrus.Logger
}

type entry struct {
	ptr Pointer
	pts *PointsToSet
}

// analysis holds all mutable state of a single solve. Nothing outlives
// Analyze except the read-only Result.
type analysis struct {
	hierarchy *ir.Hierarchy
	heap      heap.Model
	selector  cs.Selector
	log       *logrus.Entry
	trace     bool

	pool      *pool
	pfg       *pfg
	worklist  queue.Queue[entry]
	methods   queue.Queue[cs.Method]
	callGraph *callgraph.Graph[cs.CallSite, cs.Method]
	stats     *stats
}

// irError carries a malformed-IR error out of the solver loop.
type irError struct{ err error }

func (a *analysis) fail(err error) {
	panic(irError{err})
}

// Analyze runs the pointer analysis to a fixpoint and builds the call graph
// on the fly. It fails only when the program is malformed, in which case no
// result is returned.
func Analyze(config AnalysisConfig) (res *Result, err error) {
	prog := config.Program

	root := config.Entry
	if root == nil {
		root = prog.Main
	}
	if root == nil {
		return nil, ErrNoEntry
	}

	a := &analysis{
		hierarchy: prog.Hierarchy,
		heap:      config.Heap,
		selector:  config.Selector,
		pool:      newPool(),
		pfg:       newPFG(),
		stats:     newStats(),
	}
	if a.heap == nil {
		a.heap = heap.AllocationSite()
	}
	if a.selector == nil {
		a.selector = cs.Insensitive()
	}

	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	a.log = logger.WithField("selector", a.selector.String())
	a.trace = logger.IsLevelEnabled(logrus.TraceLevel)

	a.callGraph = callgraph.New(cs.CallSite.Container)

	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(irError)
			if !ok {
				panic(r)
			}
			res, err = nil, ie.err
		}
	}()

	empty := a.selector.EmptyContext()
	for _, m := range append([]*ir.Method{root}, config.Entries...) {
		csm := cs.Method{Context: empty, Method: m}
		if !a.callGraph.Contains(csm) {
			a.callGraph.AddEntry(csm)
			a.stats.reachable.Inc()
			a.methods.Push(csm)
		}
	}

	a.solve()

	a.log.WithFields(logrus.Fields{
		"reachable": a.callGraph.NumReachable(),
		"edges":     a.callGraph.NumEdges(),
		"pointers":  len(a.pool.varList) + len(a.pool.ifieldList) + len(a.pool.sfieldList) + len(a.pool.arrayList),
		"objects":   len(a.pool.objs.objs),
	}).Debug("Pointer analysis finished")

	return a.result(), nil
}

// solve alternates between processing newly reachable methods and
// worklist entries until both are exhausted.
func (a *analysis) solve() {
	for {
		if !a.methods.Empty() {
			a.processMethod(a.methods.Pop())
			continue
		}
		if a.worklist.Empty() {
			return
		}

		e := a.worklist.Pop()
		delta := a.propagate(e.ptr, e.pts)

		v, isVar := e.ptr.(*VarPtr)
		if !isVar || delta.IsEmpty() {
			continue
		}

		x, ctx := v.Var, v.Context
		delta.ForEach(func(o *cs.Obj) {
			for _, s := range x.StoreFields() {
				a.addPFGEdge(a.pool.csVar(ctx, s.Rhs), a.pool.instanceField(o, s.Field))
			}
			for _, s := range x.LoadFields() {
				a.addPFGEdge(a.pool.instanceField(o, s.Field), a.pool.csVar(ctx, s.Lhs))
			}
			for _, s := range x.StoreArrays() {
				a.addPFGEdge(a.pool.csVar(ctx, s.Rhs), a.pool.arrayIndex(o))
			}
			for _, s := range x.LoadArrays() {
				a.addPFGEdge(a.pool.arrayIndex(o), a.pool.csVar(ctx, s.Lhs))
			}
			a.processCall(v, o)
		})
	}
}

func (a *analysis) addEntry(p Pointer, pts *PointsToSet) {
	a.stats.worklistEntries.Inc()
	a.worklist.Push(entry{p, pts})
}

// addPFGEdge adds src -> dst to the pointer flow graph. When the edge is new,
// the objects already known to flow into src are scheduled for dst.
func (a *analysis) addPFGEdge(src, dst Pointer) {
	if a.pfg.addEdge(src, dst) {
		a.stats.pfgEdges.Inc()
		if pts := src.PointsToSet(); !pts.IsEmpty() {
			a.addEntry(dst, pts)
		}
	}
}

// propagate adds the objects of pts that are not yet in pt(p) to pt(p) and
// schedules them for p's successors. It returns the added objects. This is
// the only place where points-to sets grow.
func (a *analysis) propagate(p Pointer, pts *PointsToSet) *PointsToSet {
	delta := pts.minus(p.PointsToSet())
	if delta.IsEmpty() {
		return delta
	}

	a.stats.propagations.Inc()
	if a.trace {
		a.log.Tracef("pt(%v) += %v", p, delta)
	}

	p.PointsToSet().addAll(delta)
	for _, succ := range a.pfg.succsOf(p) {
		a.addEntry(succ, delta)
	}
	return delta
}

// processMethod seeds the flow graph with the statements of a newly
// reachable method.
func (a *analysis) processMethod(m cs.Method) {
	a.log.Debugf("Processing %v", m)

	p := &stmtProcessor{a: a, method: m, context: m.Context}
	for _, s := range m.Method.Stmts() {
		s.Accept(p)
	}
}

// addReachable marks m reachable. Its statements are processed the next
// time the solver loop comes around, exactly once.
func (a *analysis) addReachable(m cs.Method) {
	if a.callGraph.AddReachable(m) {
		a.stats.reachable.Inc()
		a.methods.Push(m)
	}
}

func (a *analysis) malformed(s ir.Stmt, format string, args ...any) {
	a.fail(fmt.Errorf("%w: %v: %s", ir.ErrMalformed, s, fmt.Sprintf(format, args...)))
}
