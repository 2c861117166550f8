package pointer

type pfgEdge struct{ src, dst Pointer }

// pfg is the pointer flow graph. An edge src -> dst means that pt(src) is
// included in pt(dst).
type pfg struct {
	succs map[Pointer][]Pointer
	edges map[pfgEdge]struct{}
}

func newPFG() *pfg {
	return &pfg{
		succs: make(map[Pointer][]Pointer),
		edges: make(map[pfgEdge]struct{}),
	}
}

// addEdge inserts src -> dst and reports whether the edge is new.
func (g *pfg) addEdge(src, dst Pointer) bool {
	e := pfgEdge{src, dst}
	if _, found := g.edges[e]; found {
		return false
	}
	g.edges[e] = struct{}{}
	g.succs[src] = append(g.succs[src], dst)
	return true
}

func (g *pfg) succsOf(p Pointer) []Pointer { return g.succs[p] }

func (g *pfg) numEdges() int { return len(g.edges) }
