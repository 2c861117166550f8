package pointer

import (
	"strings"

	"github.com/BarrensZeppelin/pta/cs"
	"github.com/BarrensZeppelin/pta/heap"
	"golang.org/x/tools/container/intsets"
)

// objTable assigns dense IDs to context-sensitive objects. Points-to sets
// store IDs and use the table to get back to objects.
type objTable struct {
	objs  []*cs.Obj
	index map[objKey]*cs.Obj
}

func (t *objTable) get(ctx *cs.Context, o *heap.Obj) *cs.Obj {
	key := objKey{ctx, o}
	if obj, found := t.index[key]; found {
		return obj
	}

	obj := &cs.Obj{ID: len(t.objs), Context: ctx, Obj: o}
	t.objs = append(t.objs, obj)
	t.index[key] = obj
	return obj
}

func (t *objTable) newSet() *PointsToSet { return &PointsToSet{table: t} }

func (t *objTable) singleton(o *cs.Obj) *PointsToSet {
	s := t.newSet()
	s.set.Insert(o.ID)
	return s
}

// PointsToSet is a set of abstract objects. The sets owned by pointers only
// grow during an analysis.
type PointsToSet struct {
	table *objTable
	set   intsets.Sparse
}

func (s *PointsToSet) Len() int                { return s.set.Len() }
func (s *PointsToSet) IsEmpty() bool           { return s.set.IsEmpty() }
func (s *PointsToSet) Contains(o *cs.Obj) bool { return s.set.Has(o.ID) }

// Objects returns the objects in the set ordered by ID.
func (s *PointsToSet) Objects() []*cs.Obj {
	ids := s.set.AppendTo(nil)
	res := make([]*cs.Obj, len(ids))
	for i, id := range ids {
		res[i] = s.table.objs[id]
	}
	return res
}

// ForEach calls f for every object in the set in ID order.
func (s *PointsToSet) ForEach(f func(*cs.Obj)) {
	for _, id := range s.set.AppendTo(nil) {
		f(s.table.objs[id])
	}
}

func (s *PointsToSet) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, o := range s.Objects() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(o.String())
	}
	sb.WriteByte('}')
	return sb.String()
}

// minus returns the objects of s that are not in o.
func (s *PointsToSet) minus(o *PointsToSet) *PointsToSet {
	res := s.table.newSet()
	res.set.Difference(&s.set, &o.set)
	return res
}

func (s *PointsToSet) addAll(o *PointsToSet) bool {
	return s.set.UnionWith(&o.set)
}
