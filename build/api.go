package build

import (
	"loom/ir"
	"loom/mod"
	"loom/report"
)

// This file contains the builder's public entry points: one begin/end pair per
// frame variant, plus the binding and return-value calls.  Each entry point
// converts raised structural and unresolved-reference errors into returned
// errors; internal invariant errors propagate as panics, since they indicate a
// bug in the front end driving the protocol.

// BeginModule opens a module scope.  A module scope must be the outermost
// scope of a construction.
func (b *Builder) BeginModule(name string) (err error) {
	defer report.Catch(&err)

	b.push(&moduleFrame{module: mod.New(name)})
	return nil
}

// EndModule closes the current module scope and stores the completed module in
// the builder's result slot.
func (b *Builder) EndModule() (err error) {
	defer report.Catch(&err)

	b.endTop("module", func(f Frame) bool { _, ok := f.(*moduleFrame); return ok })
	return nil
}

// -----------------------------------------------------------------------------

// BeginFunction opens a function scope.  The name may be empty for an
// anonymous function, but a function defined inside a module scope must be
// named.
func (b *Builder) BeginFunction(name string) (err error) {
	defer report.Catch(&err)

	b.push(&functionFrame{name: name, blockAsm: newBlockAssembler()})
	return nil
}

// Param declares a parameter on the function scope currently being opened and
// returns its variable.  Parameters must be declared before the function body
// begins.
func (b *Builder) Param(name string, typ ir.Type) (v *ir.Var, err error) {
	defer report.Catch(&err)

	ff, ok := lastFrame[*functionFrame](b)
	if !ok {
		panic(report.Structural("function", "parameters must be declared directly inside a function scope, before its body"))
	}

	v = &ir.Var{Name: name, VarType: typ}
	ff.params = append(ff.params, v)
	return v, nil
}

// FuncRetType declares the return type of the enclosing function scope.
func (b *Builder) FuncRetType(typ ir.Type) (err error) {
	defer report.Catch(&err)

	ff := b.findFunction()
	if ff.retType != nil {
		panic(report.Structural("function", "return type declared multiple times"))
	}

	ff.retType = typ
	return nil
}

// FuncAttrs merges the given attributes into the enclosing function scope.
func (b *Builder) FuncAttrs(attrs map[string]string) (err error) {
	defer report.Catch(&err)

	ff := b.findFunction()
	if ff.attrs == nil {
		ff.attrs = make(map[string]string)
	}
	for k, v := range attrs {
		ff.attrs[k] = v
	}

	return nil
}

// EndFunction closes the current function scope, force-closing at most one
// binding block left open inside it, and disposes of the completed function:
// into the enclosing module, or into the builder's result slot when there is
// no enclosing scope.
func (b *Builder) EndFunction() (err error) {
	defer report.Catch(&err)

	b.endSeq("function", func(f Frame) bool { _, ok := f.(*functionFrame); return ok })
	return nil
}

// -----------------------------------------------------------------------------

// BeginBlock opens a binding-block scope, dataflow or ordinary.  Opening a
// block while another block is open force-closes the previous one first.
func (b *Builder) BeginBlock(dataflow bool) (err error) {
	defer report.Catch(&err)

	b.push(&blockFrame{dataflow: dataflow})
	return nil
}

// EndBlock closes the current block scope and attaches the completed block to
// the enclosing sequential scope.  Closing a block with no bindings fails.
func (b *Builder) EndBlock() (err error) {
	defer report.Catch(&err)

	if _, ok := lastFrame[*blockFrame](b); !ok {
		panic(report.Structural("block", "close of block scope does not match the innermost open scope"))
	}

	b.pop()
	return nil
}

// -----------------------------------------------------------------------------

// BeginIf opens a conditional scope over the given condition.  Conditionals
// are disallowed anywhere inside a dataflow block.
func (b *Builder) BeginIf(cond ir.Expr) (err error) {
	defer report.Catch(&err)

	b.push(&ifFrame{cond: cond})
	return nil
}

// EndIf closes the current conditional scope.  Both branches must have been
// declared; the assembled conditional is emitted as a new binding in the
// enclosing block, and the bound variable is returned.
func (b *Builder) EndIf() (v *ir.Var, err error) {
	defer report.Catch(&err)

	iff, _ := lastFrame[*ifFrame](b)
	b.endTop("if", func(f Frame) bool { _, ok := f.(*ifFrame); return ok })
	return iff.result, nil
}

// BeginThen opens the then branch of the nearest enclosing conditional.
func (b *Builder) BeginThen() (err error) {
	defer report.Catch(&err)

	b.push(&thenFrame{})
	return nil
}

// EndThen closes the current then branch and records its assembled body and
// result name on the enclosing conditional.
func (b *Builder) EndThen() (err error) {
	defer report.Catch(&err)

	b.endSeq("then", func(f Frame) bool { _, ok := f.(*thenFrame); return ok })
	return nil
}

// BeginElse opens the else branch of the nearest enclosing conditional.  The
// then branch must already be closed.
func (b *Builder) BeginElse() (err error) {
	defer report.Catch(&err)

	b.push(&elseFrame{})
	return nil
}

// EndElse closes the current else branch, records its assembled body on the
// enclosing conditional, and asserts that both branches bound their result
// under the same name.
func (b *Builder) EndElse() (err error) {
	defer report.Catch(&err)

	b.endSeq("else", func(f Frame) bool { _, ok := f.(*elseFrame); return ok })
	return nil
}

// -----------------------------------------------------------------------------

// Bind adds a binding of value under the given name to the currently open
// block and returns the bound variable.
func (b *Builder) Bind(name string, value ir.Expr) (v *ir.Var, err error) {
	defer report.Catch(&err)

	return b.findFunction().blockAsm.emit(name, value), nil
}

// Emit adds a binding of value under a synthesized fresh name to the currently
// open block and returns the bound variable.
func (b *Builder) Emit(value ir.Expr) (v *ir.Var, err error) {
	defer report.Catch(&err)

	return b.findFunction().blockAsm.emit("", value), nil
}

// Global returns a reference to the named function of the enclosing module
// scope, forward-declaring the name if it has no definition yet.
func (b *Builder) Global(name string) (gr *ir.GlobalRef, err error) {
	defer report.Catch(&err)

	mf, ok := findFrame[*moduleFrame](b)
	if !ok {
		panic(report.Unresolved("module", "cannot reference a global outside a module scope"))
	}

	return mf.module.Declare(name), nil
}

// SetReturn sets the output expression of the nearest enclosing sequential
// scope: the return value of a function, or the result of a branch.
func (b *Builder) SetReturn(value ir.Expr) (err error) {
	defer report.Catch(&err)

	sf, ok := findFrame[seqFrame](b)
	if !ok {
		panic(report.Unresolved("function", "cannot set a return value outside a function or branch scope"))
	}

	if sf.seq().output != nil {
		panic(report.Structural(frameKindName(sf), "return value set multiple times"))
	}

	sf.seq().output = value
	return nil
}

// -----------------------------------------------------------------------------

// Function returns the result of a completed ad-hoc single-function
// construction.
func (b *Builder) Function() (*ir.Function, error) {
	if fn, ok := b.result.(*ir.Function); ok {
		return fn, nil
	}

	return nil, report.Structural("builder", "no completed function construction")
}

// Module returns the result of a completed module construction.
func (b *Builder) Module() (*mod.Module, error) {
	if m, ok := b.result.(*mod.Module); ok {
		return m, nil
	}

	return nil, report.Structural("builder", "no completed module construction")
}

// -----------------------------------------------------------------------------

// endSeq closes the current sequential scope of the given kind, first
// force-closing at most one binding block left open on top of it.  This
// bounded look-behind is the only sanctioned deviation from strict
// caller-driven open/close pairing.
func (b *Builder) endSeq(kind string, match func(Frame) bool) {
	if _, ok := lastFrame[*blockFrame](b); ok {
		b.pop()
	}

	b.endTop(kind, match)
}

// endTop closes the top frame, which must be of the given kind.
func (b *Builder) endTop(kind string, match func(Frame) bool) {
	top, ok := b.last()
	if !ok || !match(top) {
		got := "no open scope"
		if ok {
			got = "the innermost open scope is a " + frameKindName(top) + " scope"
		}

		panic(report.Structural(kind, "close of %s scope out of order: %s", kind, got))
	}

	b.pop()
}

// findFunction locates the nearest enclosing function frame.
func (b *Builder) findFunction() *functionFrame {
	ff, ok := findFrame[*functionFrame](b)
	if !ok {
		panic(report.Unresolved("function", "cannot find an enclosing function scope"))
	}

	return ff
}
