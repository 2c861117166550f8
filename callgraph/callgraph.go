// Package callgraph provides a call graph that is built incrementally: the
// set of reachable methods and the typed edges between call sites and
// callees only ever grow.
//
// The graph is generic in its call-site and method types, so the same
// structure serves the context-sensitive graph built by the pointer
// analysis, its context-insensitive projection and the CHA graph.
package callgraph

import (
	"fmt"

	"github.com/BarrensZeppelin/pta/ir"
)

type Edge[S, M comparable] struct {
	Kind     ir.CallKind
	CallSite S
	Callee   M
}

func (e Edge[S, M]) String() string {
	return fmt.Sprintf("[%v] %v -> %v", e.Kind, e.CallSite, e.Callee)
}

type edgeKey[S, M comparable] struct {
	site   S
	callee M
}

type Graph[S, M comparable] struct {
	containerOf func(S) M

	entries []M
	methods []M
	index   map[M]int

	edges   []Edge[S, M]
	edgeSet map[edgeKey[S, M]]struct{}
	out     map[S][]int
	in      map[M][]int
	sitesIn map[M][]S
}

// New creates an empty call graph. containerOf maps a call site to the
// method containing it.
func New[S, M comparable](containerOf func(S) M) *Graph[S, M] {
	return &Graph[S, M]{
		containerOf: containerOf,
		index:       make(map[M]int),
		edgeSet:     make(map[edgeKey[S, M]]struct{}),
		out:         make(map[S][]int),
		in:          make(map[M][]int),
		sitesIn:     make(map[M][]S),
	}
}

// AddEntry records m as an entry method. Entry methods are reachable.
func (g *Graph[S, M]) AddEntry(m M) {
	g.entries = append(g.entries, m)
	g.AddReachable(m)
}

func (g *Graph[S, M]) Entries() []M { return g.entries }

// AddReachable marks m reachable and reports whether it was new.
func (g *Graph[S, M]) AddReachable(m M) bool {
	if _, found := g.index[m]; found {
		return false
	}
	g.index[m] = len(g.methods)
	g.methods = append(g.methods, m)
	return true
}

func (g *Graph[S, M]) Contains(m M) bool {
	_, found := g.index[m]
	return found
}

// Reachable returns the reachable methods in discovery order.
func (g *Graph[S, M]) Reachable() []M { return g.methods }

func (g *Graph[S, M]) NumReachable() int { return len(g.methods) }

// AddEdge inserts e unless an edge between the same call site and callee is
// already present, and reports whether it was inserted.
func (g *Graph[S, M]) AddEdge(e Edge[S, M]) bool {
	key := edgeKey[S, M]{e.CallSite, e.Callee}
	if _, found := g.edgeSet[key]; found {
		return false
	}
	g.edgeSet[key] = struct{}{}

	i := len(g.edges)
	g.edges = append(g.edges, e)
	if len(g.out[e.CallSite]) == 0 {
		caller := g.containerOf(e.CallSite)
		g.sitesIn[caller] = append(g.sitesIn[caller], e.CallSite)
	}
	g.out[e.CallSite] = append(g.out[e.CallSite], i)
	g.in[e.Callee] = append(g.in[e.Callee], i)
	return true
}

func (g *Graph[S, M]) HasEdge(site S, callee M) bool {
	_, found := g.edgeSet[edgeKey[S, M]{site, callee}]
	return found
}

func (g *Graph[S, M]) Edges() []Edge[S, M] { return g.edges }

func (g *Graph[S, M]) NumEdges() int { return len(g.edges) }

func (g *Graph[S, M]) EdgesOutOf(site S) []Edge[S, M] { return g.collect(g.out[site]) }

func (g *Graph[S, M]) EdgesInto(m M) []Edge[S, M] { return g.collect(g.in[m]) }

func (g *Graph[S, M]) collect(idxs []int) []Edge[S, M] {
	res := make([]Edge[S, M], len(idxs))
	for i, idx := range idxs {
		res[i] = g.edges[idx]
	}
	return res
}

func (g *Graph[S, M]) CalleesOf(site S) []M {
	res := make([]M, len(g.out[site]))
	for i, idx := range g.out[site] {
		res[i] = g.edges[idx].Callee
	}
	return res
}

func (g *Graph[S, M]) CallersOf(m M) []S {
	res := make([]S, len(g.in[m]))
	for i, idx := range g.in[m] {
		res[i] = g.edges[idx].CallSite
	}
	return res
}

// CallSitesIn returns the call sites in m that have at least one outgoing
// edge.
func (g *Graph[S, M]) CallSitesIn(m M) []S { return g.sitesIn[m] }

// CalleesOfMethod returns the methods called from any call site in m.
func (g *Graph[S, M]) CalleesOfMethod(m M) []M {
	var res []M
	seen := make(map[M]struct{})
	for _, site := range g.sitesIn[m] {
		for _, idx := range g.out[site] {
			callee := g.edges[idx].Callee
			if _, found := seen[callee]; !found {
				seen[callee] = struct{}{}
				res = append(res, callee)
			}
		}
	}
	return res
}

// Project maps g onto another call graph, e.g. to drop contexts. Edges and
// methods that collapse onto each other are merged; the kind of the first
// merged edge is kept.
func Project[S, M, S2, M2 comparable](
	g *Graph[S, M],
	site func(S) S2,
	method func(M) M2,
	containerOf func(S2) M2,
) *Graph[S2, M2] {
	res := New(containerOf)
	for _, m := range g.entries {
		if m2 := method(m); !res.Contains(m2) {
			res.AddEntry(m2)
		}
	}
	for _, m := range g.methods {
		res.AddReachable(method(m))
	}
	for _, e := range g.edges {
		res.AddEdge(Edge[S2, M2]{Kind: e.Kind, CallSite: site(e.CallSite), Callee: method(e.Callee)})
	}
	return res
}
