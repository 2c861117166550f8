// Package cha builds call graphs by class hierarchy analysis: a call site
// may reach every method that some subtype of the receiver's declared type
// dispatches to. The result over-approximates the call graph computed by
// the pointer analysis and needs no points-to information.
package cha

import (
	"github.com/BarrensZeppelin/pta/callgraph"
	"github.com/BarrensZeppelin/pta/internal/queue"
	"github.com/BarrensZeppelin/pta/ir"
	"github.com/sirupsen/logrus"
)

type Graph = callgraph.Graph[*ir.Invoke, *ir.Method]

// Build constructs the call graph of the methods reachable from the program's
// main method and the given additional entries.
func Build(prog *ir.Program, entries ...*ir.Method) *Graph {
	b := &builder{
		h:     prog.Hierarchy,
		g:     callgraph.New((*ir.Invoke).Container),
		cache: make(map[ir.MethodRef][]*ir.Method),
	}

	if prog.Main != nil {
		entries = append([]*ir.Method{prog.Main}, entries...)
	}
	for _, m := range entries {
		if !b.g.Contains(m) {
			b.g.AddEntry(m)
			b.queue.Push(m)
		}
	}

	for !b.queue.Empty() {
		m := b.queue.Pop()
		for _, s := range m.Stmts() {
			if inv, ok := s.(*ir.Invoke); ok {
				b.processCall(inv)
			}
		}
	}

	logrus.WithFields(logrus.Fields{
		"reachable": b.g.NumReachable(),
		"edges":     b.g.NumEdges(),
	}).Debug("CHA call graph built")
	return b.g
}

type builder struct {
	h     *ir.Hierarchy
	g     *Graph
	queue queue.Queue[*ir.Method]
	cache map[ir.MethodRef][]*ir.Method
}

func (b *builder) processCall(inv *ir.Invoke) {
	for _, callee := range b.resolve(inv) {
		b.g.AddEdge(callgraph.Edge[*ir.Invoke, *ir.Method]{
			Kind:     inv.Kind,
			CallSite: inv,
			Callee:   callee,
		})
		if b.g.AddReachable(callee) {
			b.queue.Push(callee)
		}
	}
}

func (b *builder) resolve(inv *ir.Invoke) []*ir.Method {
	switch inv.Kind {
	case ir.CallStatic, ir.CallSpecial:
		if m := b.h.Dispatch(inv.Ref.Class, inv.Ref.Subsig); m != nil {
			return []*ir.Method{m}
		}
		return nil
	case ir.CallVirtual, ir.CallInterface:
		if targets, found := b.cache[inv.Ref]; found {
			return targets
		}
		targets := Resolve(b.h, inv.Ref)
		b.cache[inv.Ref] = targets
		return targets
	default:
		return nil
	}
}

// Resolve returns every concrete method that a virtual or interface call
// through ref may dispatch to.
func Resolve(h *ir.Hierarchy, ref ir.MethodRef) []*ir.Method {
	var classes []*ir.Class
	if ref.Class.IsInterface {
		classes = h.Implementors(ref.Class)
	} else {
		classes = h.Subclasses(ref.Class)
	}

	var res []*ir.Method
	seen := make(map[*ir.Method]struct{})
	for _, c := range classes {
		m := h.Dispatch(c, ref.Subsig)
		if m == nil {
			continue
		}
		if _, found := seen[m]; !found {
			seen[m] = struct{}{}
			res = append(res, m)
		}
	}
	return res
}
