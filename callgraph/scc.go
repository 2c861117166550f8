package callgraph

import (
	"github.com/yourbasic/graph"
	"golang.org/x/exp/slices"
)

// iterator adapts the reachable part of a Graph to graph.Iterator, using
// discovery indices as vertices.
type iterator[S, M comparable] struct {
	g    *Graph[S, M]
	succ [][]int
}

func (g *Graph[S, M]) iterator() iterator[S, M] {
	succ := make([][]int, len(g.methods))
	for v, m := range g.methods {
		for _, callee := range g.CalleesOfMethod(m) {
			if w, found := g.index[callee]; found {
				succ[v] = append(succ[v], w)
			}
		}
	}
	return iterator[S, M]{g, succ}
}

func (it iterator[S, M]) Order() int { return len(it.succ) }

func (it iterator[S, M]) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	for _, w := range it.succ[v] {
		if do(w, 1) {
			return true
		}
	}
	return false
}

// RecursiveGroups returns the strongly connected components of the
// reachable methods that involve recursion: components with more than one
// method, and single methods that call themselves. Methods in a group, and
// the groups themselves, are ordered by discovery.
func (g *Graph[S, M]) RecursiveGroups() [][]M {
	it := g.iterator()
	var comps [][]int
	for _, comp := range graph.StrongComponents(it) {
		if len(comp) > 1 || selfLoop(it, comp[0]) {
			slices.Sort(comp)
			comps = append(comps, comp)
		}
	}
	slices.SortFunc(comps, func(a, b []int) bool { return a[0] < b[0] })

	res := make([][]M, len(comps))
	for i, comp := range comps {
		res[i] = make([]M, len(comp))
		for j, v := range comp {
			res[i][j] = g.methods[v]
		}
	}
	return res
}

func selfLoop[S, M comparable](it iterator[S, M], v int) bool {
	for _, w := range it.succ[v] {
		if w == v {
			return true
		}
	}
	return false
}
