// Package mod implements module assembly: the global symbol table that
// completed functions are registered into.  It keeps track of the symbolic
// state of a module as functions are declared and defined, so forward
// references between functions resolve to a single shared global reference.
package mod

import (
	"strings"

	"loom/ir"
	"loom/report"
)

// Symbol represents a module-level function symbol.
type Symbol struct {
	// The name of the symbol.
	Name string

	// The shared global reference to the symbol.  All uses of the symbol,
	// including those preceding its definition, resolve to this reference.
	Ref *ir.GlobalRef

	// The definition of the symbol.  This is nil while the symbol is only
	// forward-declared.
	Def *ir.Function
}

// -----------------------------------------------------------------------------

// Module is the global symbol table for one module under construction and, once
// construction finishes, the completed module itself.
type Module struct {
	// The name of the module.
	Name string

	// symbols maps symbol names to their table entries.
	symbols map[string]*Symbol

	// defOrder lists symbol names in definition order.
	defOrder []string
}

// New creates a new empty module with the given name.
func New(name string) *Module {
	return &Module{
		Name:    name,
		symbols: make(map[string]*Symbol),
	}
}

// -----------------------------------------------------------------------------

// Declare forward-declares a function by name and returns the shared global
// reference to it.  Declaring an already-declared name returns the existing
// reference: declarations are idempotent.
func (m *Module) Declare(name string) *ir.GlobalRef {
	if sym, ok := m.symbols[name]; ok {
		return sym.Ref
	}

	sym := &Symbol{
		Name: name,
		Ref:  &ir.GlobalRef{Name: name},
	}
	m.symbols[name] = sym
	return sym.Ref
}

// Define binds a name to a completed function, declaring the name first if it
// was never declared.  Defining an already-defined name fails: silent
// redefinition of a global is always rejected.
func (m *Module) Define(name string, fn *ir.Function) error {
	sym, ok := m.symbols[name]
	if !ok {
		m.Declare(name)
		sym = m.symbols[name]
	}

	if sym.Def != nil {
		return report.Structural("module", "global function defined multiple times: `%s`", name)
	}

	sym.Def = fn
	sym.Ref.RefType = fn.Type().(*ir.FuncType)
	m.defOrder = append(m.defOrder, name)
	return nil
}

// Contains returns whether the module's symbol table contains the given name,
// declared or defined.
func (m *Module) Contains(name string) bool {
	_, ok := m.symbols[name]
	return ok
}

// Get retrieves a defined function by name.
func (m *Module) Get(name string) (*ir.Function, bool) {
	if sym, ok := m.symbols[name]; ok && sym.Def != nil {
		return sym.Def, true
	}

	return nil, false
}

// Functions returns the module's defined functions in definition order.
func (m *Module) Functions() []*ir.Function {
	fns := make([]*ir.Function, len(m.defOrder))
	for i, name := range m.defOrder {
		fns[i] = m.symbols[name].Def
	}

	return fns
}

// Undefined returns the names of symbols that were declared but never defined,
// in no particular order.
func (m *Module) Undefined() []string {
	var names []string
	for name, sym := range m.symbols {
		if sym.Def == nil {
			names = append(names, name)
		}
	}

	return names
}

// -----------------------------------------------------------------------------

// Repr returns the full textual representation of the module.
func (m *Module) Repr() string {
	sb := strings.Builder{}
	sb.WriteString("module " + m.Name + "\n\n")

	for _, name := range m.Undefined() {
		sb.WriteString("forward @" + name + ";\n")
	}

	for _, fn := range m.Functions() {
		sb.WriteString(fn.Repr())
		sb.WriteString("\n\n")
	}

	return sb.String()
}
