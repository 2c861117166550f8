package ir

// Hierarchy is the class hierarchy of a program. Classes live in an arena
// indexed by Class.ID; the subtype relations are kept as adjacency lists so
// that every traversal below is an explicit-stack walk.
type Hierarchy struct {
	classes []*Class
	byName  map[string]*Class
	root    *Class

	subclasses    [][]*Class
	implementors  [][]*Class
	subinterfaces [][]*Class
}

func newHierarchy() *Hierarchy {
	return &Hierarchy{byName: make(map[string]*Class)}
}

func (h *Hierarchy) add(c *Class) {
	c.ID = len(h.classes)
	h.classes = append(h.classes, c)
	h.byName[c.Name] = c
	h.subclasses = append(h.subclasses, nil)
	h.implementors = append(h.implementors, nil)
	h.subinterfaces = append(h.subinterfaces, nil)

	if c.Super != nil {
		h.subclasses[c.Super.ID] = append(h.subclasses[c.Super.ID], c)
	}
	for _, itf := range c.Interfaces {
		if c.IsInterface {
			h.subinterfaces[itf.ID] = append(h.subinterfaces[itf.ID], c)
		} else {
			h.implementors[itf.ID] = append(h.implementors[itf.ID], c)
		}
	}

	if h.root == nil && c.Super == nil && !c.IsInterface {
		h.root = c
	}
}

// Class returns the class with the given name, or nil.
func (h *Hierarchy) Class(name string) *Class { return h.byName[name] }

// Classes returns all classes in declaration order.
func (h *Hierarchy) Classes() []*Class { return h.classes }

// Root returns the first declared class without a superclass (the
// equivalent of java.lang.Object). Array objects dispatch from it.
func (h *Hierarchy) Root() *Class { return h.root }

func (h *Hierarchy) DirectSubclassesOf(c *Class) []*Class    { return h.subclasses[c.ID] }
func (h *Hierarchy) DirectImplementorsOf(c *Class) []*Class  { return h.implementors[c.ID] }
func (h *Hierarchy) DirectSubinterfacesOf(c *Class) []*Class { return h.subinterfaces[c.ID] }

// ClassOf returns the class that method lookup starts from for an object of
// type t.
func (h *Hierarchy) ClassOf(t Type) *Class {
	switch t := t.(type) {
	case *Class:
		return t
	case *ArrayType:
		return h.root
	default:
		return nil
	}
}

// Dispatch walks from c towards the root and returns the first concrete
// method matching sub. Abstract declarations are skipped. Returns nil when
// no concrete method exists.
func (h *Hierarchy) Dispatch(c *Class, sub Subsignature) *Method {
	for cur := c; cur != nil; cur = cur.Super {
		if m := cur.DeclaredMethod(sub); m != nil && !m.IsAbstract {
			return m
		}
	}
	return nil
}

// LookupMethod finds the declaration (possibly abstract) of sub visible from
// c, searching superclasses first and then all superinterfaces.
func (h *Hierarchy) LookupMethod(c *Class, sub Subsignature) *Method {
	for cur := c; cur != nil; cur = cur.Super {
		if m := cur.DeclaredMethod(sub); m != nil {
			return m
		}
	}

	seen := make([]bool, len(h.classes))
	var stack []*Class
	for cur := c; cur != nil; cur = cur.Super {
		stack = append(stack, cur.Interfaces...)
	}
	for len(stack) > 0 {
		itf := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[itf.ID] {
			continue
		}
		seen[itf.ID] = true

		if m := itf.DeclaredMethod(sub); m != nil {
			return m
		}
		stack = append(stack, itf.Interfaces...)
	}
	return nil
}

// ResolveCallee returns the method invoked by inv when the receiver has the
// dynamic type recv. Static and special invocations ignore recv. Returns nil
// when dispatch fails or the invocation is dynamic.
func (h *Hierarchy) ResolveCallee(recv Type, inv *Invoke) *Method {
	switch inv.Kind {
	case CallStatic, CallSpecial:
		return h.Dispatch(inv.Ref.Class, inv.Ref.Subsig)
	case CallVirtual, CallInterface:
		c := h.ClassOf(recv)
		if c == nil {
			return nil
		}
		return h.Dispatch(c, inv.Ref.Subsig)
	default:
		return nil
	}
}

// Subclasses returns c and every class transitively extending it.
func (h *Hierarchy) Subclasses(c *Class) []*Class {
	var res []*Class
	stack := []*Class{c}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		res = append(res, cur)
		stack = append(stack, h.subclasses[cur.ID]...)
	}
	return res
}

// Implementors returns every non-interface class implementing itf, directly,
// through a subinterface, or by extending an implementor.
func (h *Hierarchy) Implementors(itf *Class) []*Class {
	seen := make([]bool, len(h.classes))
	var res []*Class

	stack := []*Class{itf}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur.ID] {
			continue
		}
		seen[cur.ID] = true

		if cur.IsInterface {
			stack = append(stack, h.subinterfaces[cur.ID]...)
			stack = append(stack, h.implementors[cur.ID]...)
		} else {
			res = append(res, cur)
			stack = append(stack, h.subclasses[cur.ID]...)
		}
	}
	return res
}

// IsSubclass reports whether sub equals sup or inherits from it, through
// superclasses or implemented interfaces.
func (h *Hierarchy) IsSubclass(sub, sup *Class) bool {
	seen := make([]bool, len(h.classes))
	stack := []*Class{sub}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == sup {
			return true
		}
		if seen[cur.ID] {
			continue
		}
		seen[cur.ID] = true

		if cur.Super != nil {
			stack = append(stack, cur.Super)
		}
		stack = append(stack, cur.Interfaces...)
	}
	return false
}
