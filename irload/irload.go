// Package irload builds ir programs from YAML descriptions. It is used to
// write test fixtures and to feed the command line tool.
//
// A program lists its classes, each with fields and methods. Method bodies
// are lists of statements keyed by op:
//
//	main: Main.main()
//	classes:
//	  - name: Object
//	  - name: A
//	    super: Object
//	    fields: [f Object]
//	    methods:
//	      - name: get
//	        return: Object
//	        vars: [r Object]
//	        body:
//	          - {op: load, lhs: r, base: this, field: f}
//	          - {op: return, value: r}
//
// Params, vars and fields are written "name Type"; fields may be prefixed
// with "static". Types are primitive names, class names, or array types
// with a "[]" suffix.
package irload

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BarrensZeppelin/pta/ir"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownClass  = errors.New("unknown class")
	ErrUnknownVar    = errors.New("unknown variable")
	ErrUnknownField  = errors.New("unknown field")
	ErrUnknownMethod = errors.New("unknown method")
	ErrUnknownOp     = errors.New("unknown statement")
)

type programDecl struct {
	Main    string      `yaml:"main"`
	Classes []classDecl `yaml:"classes"`
}

type classDecl struct {
	Name       string       `yaml:"name"`
	Super      string       `yaml:"super"`
	Interfaces []string     `yaml:"interfaces"`
	Interface  bool         `yaml:"interface"`
	Abstract   bool         `yaml:"abstract"`
	Fields     []string     `yaml:"fields"`
	Methods    []methodDecl `yaml:"methods"`
}

type methodDecl struct {
	Name     string     `yaml:"name"`
	Params   []string   `yaml:"params"`
	Return   string     `yaml:"return"`
	Static   bool       `yaml:"static"`
	Abstract bool       `yaml:"abstract"`
	Private  bool       `yaml:"private"`
	Vars     []string   `yaml:"vars"`
	Body     []stmtDecl `yaml:"body"`
}

type stmtDecl struct {
	Op     string   `yaml:"op"`
	Lhs    string   `yaml:"lhs"`
	Rhs    string   `yaml:"rhs"`
	Type   string   `yaml:"type"`
	Length string   `yaml:"length"`
	Value  string   `yaml:"value"`
	Oper   string   `yaml:"operator"`
	X      string   `yaml:"x"`
	Y      string   `yaml:"y"`
	Base   string   `yaml:"base"`
	Field  string   `yaml:"field"`
	Index  string   `yaml:"index"`
	Kind   string   `yaml:"kind"`
	Recv   string   `yaml:"recv"`
	Method string   `yaml:"method"`
	Args   []string `yaml:"args"`
	Cond   string   `yaml:"cond"`
	Target int      `yaml:"target"`
}

// LoadProgramFile reads a program from a YAML file.
func LoadProgramFile(filename string) (*ir.Program, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read program: %w", err)
	}
	return LoadProgram(b)
}

// LoadProgramFromSource is LoadProgram for a string.
func LoadProgramFromSource(source string) (*ir.Program, error) {
	return LoadProgram([]byte(source))
}

// LoadProgram builds a program from its YAML description.
func LoadProgram(b []byte) (prog *ir.Program, err error) {
	var decl programDecl
	if err := yaml.Unmarshal(b, &decl); err != nil {
		return nil, fmt.Errorf("could not unmarshal program: %w", err)
	}

	// The ir builders panic on malformed input.
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok || !errors.Is(e, ir.ErrMalformed) {
				panic(r)
			}
			prog, err = nil, e
		}
	}()

	l := &loader{prog: ir.NewProgram()}
	if err := l.load(&decl); err != nil {
		return nil, err
	}
	return l.prog, nil
}

type loader struct {
	prog *ir.Program
}

func (l *loader) load(decl *programDecl) error {
	if err := l.declareClasses(decl.Classes); err != nil {
		return err
	}

	methods := make(map[*ir.Method]*methodDecl)
	for i := range decl.Classes {
		cd := &decl.Classes[i]
		c := l.prog.Hierarchy.Class(cd.Name)
		for _, fd := range cd.Fields {
			static := false
			if rest, found := strings.CutPrefix(fd, "static "); found {
				static, fd = true, rest
			}
			name, typ, err := l.typed(fd)
			if err != nil {
				return fmt.Errorf("field of %s: %w", cd.Name, err)
			}
			c.NewField(name, typ, static)
		}

		for j := range cd.Methods {
			md := &cd.Methods[j]
			m, err := l.declareMethod(c, md)
			if err != nil {
				return fmt.Errorf("method %s.%s: %w", cd.Name, md.Name, err)
			}
			methods[m] = md
		}
	}

	// Bodies come last since calls may refer to any method.
	for _, m := range l.prog.Methods() {
		for i, sd := range methods[m].Body {
			if err := l.stmt(m, &sd); err != nil {
				return fmt.Errorf("%v: statement %d: %w", m, i, err)
			}
		}
	}

	if decl.Main != "" {
		l.prog.Main = l.prog.Method(decl.Main)
		if l.prog.Main == nil {
			return fmt.Errorf("main: %w: %s", ErrUnknownMethod, decl.Main)
		}
	}
	return nil
}

// declareClasses creates classes in an order where supertypes come before
// their subtypes, regardless of the order of declaration.
func (l *loader) declareClasses(decls []classDecl) error {
	pending := make(map[string]*classDecl, len(decls))
	order := make([]string, 0, len(decls))
	for i := range decls {
		cd := &decls[i]
		if _, dup := pending[cd.Name]; dup {
			return fmt.Errorf("%w: duplicate class %s", ir.ErrMalformed, cd.Name)
		}
		pending[cd.Name] = cd
		order = append(order, cd.Name)
	}

	for len(pending) > 0 {
		progress := false
		for _, name := range order {
			cd, found := pending[name]
			if !found || !l.ready(cd) {
				continue
			}
			l.declareClass(cd)
			delete(pending, name)
			progress = true
		}

		if !progress {
			names := maps.Keys(pending)
			slices.Sort(names)
			return fmt.Errorf("%w: supertypes of %s", ErrUnknownClass, strings.Join(names, ", "))
		}
	}
	return nil
}

func (l *loader) ready(cd *classDecl) bool {
	h := l.prog.Hierarchy
	if cd.Super != "" && h.Class(cd.Super) == nil {
		return false
	}
	for _, itf := range cd.Interfaces {
		if h.Class(itf) == nil {
			return false
		}
	}
	return true
}

func (l *loader) declareClass(cd *classDecl) {
	h := l.prog.Hierarchy
	var itfs []*ir.Class
	for _, name := range cd.Interfaces {
		itfs = append(itfs, h.Class(name))
	}

	if cd.Interface {
		l.prog.NewInterface(cd.Name, itfs...)
		return
	}

	var super *ir.Class
	if cd.Super != "" {
		super = h.Class(cd.Super)
	}
	c := l.prog.NewClass(cd.Name, super, itfs...)
	c.IsAbstract = cd.Abstract
}

func (l *loader) declareMethod(c *ir.Class, md *methodDecl) (*ir.Method, error) {
	var params []ir.Param
	for _, pd := range md.Params {
		name, typ, err := l.typed(pd)
		if err != nil {
			return nil, err
		}
		params = append(params, ir.Param{Name: name, Type: typ})
	}

	var ret ir.Type
	if md.Return != "" && md.Return != "void" {
		var err error
		if ret, err = l.typ(md.Return); err != nil {
			return nil, err
		}
	}

	var mods ir.Modifier
	if md.Static {
		mods |= ir.Static
	}
	if md.Abstract || c.IsInterface {
		mods |= ir.Abstract
	}
	if md.Private {
		mods |= ir.Private
	}

	m := c.NewMethod(md.Name, ret, params, mods)
	for _, vd := range md.Vars {
		name, typ, err := l.typed(vd)
		if err != nil {
			return nil, err
		}
		m.NewVar(name, typ)
	}
	return m, nil
}

// typed splits "name Type".
func (l *loader) typed(s string) (string, ir.Type, error) {
	name, tname, found := strings.Cut(strings.TrimSpace(s), " ")
	if !found {
		return "", nil, fmt.Errorf("%w: missing type in %q", ir.ErrMalformed, s)
	}
	typ, err := l.typ(strings.TrimSpace(tname))
	return name, typ, err
}

func (l *loader) typ(name string) (ir.Type, error) {
	if elem, found := strings.CutSuffix(name, "[]"); found {
		t, err := l.typ(elem)
		if err != nil {
			return nil, err
		}
		return ir.ArrayOf(t), nil
	}
	if p := ir.Primitive(name); p != nil {
		return p, nil
	}
	if c := l.prog.Hierarchy.Class(name); c != nil {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownClass, name)
}
