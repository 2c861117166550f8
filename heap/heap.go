// Package heap contains the abstraction of heap objects used by the pointer
// analysis and the heap models mapping allocation sites to them.
package heap

import (
	"fmt"

	"github.com/BarrensZeppelin/pta/ir"
)

type AllocKind int

const (
	// An object allocated by a single allocation site.
	NewObject AllocKind = iota
	// An array allocated by a single allocation site.
	NewArray
	// A summary object merging every allocation site of a type.
	Merged
)

// Obj is an abstract object. Objects are immutable and owned by the Model
// that created them.
type Obj struct {
	ID   int
	Kind AllocKind
	// Allocation site. For Merged objects this is the first site that was
	// mapped to the object.
	Site *ir.New
	// Dynamic type of the object.
	Type ir.Type
}

func (o *Obj) String() string {
	if o.Kind == Merged {
		return fmt.Sprintf("MergedObj<%v>", o.Type)
	}
	return fmt.Sprintf("NewObj{%v@%d: %v}", o.Site.Container(), o.Site.Index(), o.Site)
}

// Container returns the method containing the allocation site.
func (o *Obj) Container() *ir.Method { return o.Site.Container() }

// Model maps allocation sites to abstract objects. Repeated requests for the
// same site must return the same object.
type Model interface {
	Obj(site *ir.New) *Obj
	// Objects returns every object created so far, ordered by ID.
	Objects() []*Obj
}

func kindOf(site *ir.New) AllocKind {
	if _, isArray := site.Type.(*ir.ArrayType); isArray {
		return NewArray
	}
	return NewObject
}

type allocationSiteModel struct {
	objs   []*Obj
	bySite map[*ir.New]*Obj
}

// AllocationSite returns a model with one abstract object per allocation
// site.
func AllocationSite() Model {
	return &allocationSiteModel{bySite: make(map[*ir.New]*Obj)}
}

func (m *allocationSiteModel) Obj(site *ir.New) *Obj {
	if o, found := m.bySite[site]; found {
		return o
	}

	o := &Obj{ID: len(m.objs), Kind: kindOf(site), Site: site, Type: site.Type}
	m.objs = append(m.objs, o)
	m.bySite[site] = o
	return o
}

func (m *allocationSiteModel) Objects() []*Obj { return m.objs }

type typeModel struct {
	objs   []*Obj
	byType map[string]*Obj
}

// ByType returns a model that merges all allocation sites of the same type
// into a single abstract object.
func ByType() Model {
	return &typeModel{byType: make(map[string]*Obj)}
}

func (m *typeModel) Obj(site *ir.New) *Obj {
	// Array types are structural, so key on the printed type.
	key := site.Type.String()
	if o, found := m.byType[key]; found {
		return o
	}

	o := &Obj{ID: len(m.objs), Kind: Merged, Site: site, Type: site.Type}
	m.objs = append(m.objs, o)
	m.byType[key] = o
	return o
}

func (m *typeModel) Objects() []*Obj { return m.objs }
