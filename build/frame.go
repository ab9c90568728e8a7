package build

import (
	"loom/ir"
	"loom/mod"
	"loom/report"
)

// Frame is a pushed/popped unit of lexical scope on the builder's stack.
// Every frame has a two-phase lifecycle: enter runs when the scope opens and
// exit runs when it closes.  A frame is owned exclusively by the builder while
// on the stack.
type Frame interface {
	// enter runs the frame's scope-open logic, including placing the frame on
	// the stack once its pre-push checks have passed.
	enter(b *Builder)

	// exit runs the frame's scope-close logic.  The frame has already been
	// removed from the stack when exit runs: the new top of the stack is the
	// frame's parent scope.
	exit(b *Builder)
}

// frameKindName returns the user-facing name of a frame's kind.
func frameKindName(f Frame) string {
	switch f.(type) {
	case *moduleFrame:
		return "module"
	case *functionFrame:
		return "function"
	case *blockFrame:
		return "block"
	case *ifFrame:
		return "if"
	case *thenFrame:
		return "then"
	case *elseFrame:
		return "else"
	}

	return "<unknown>"
}

// -----------------------------------------------------------------------------

// seqExprFrame is the shared state of the frame variants that assemble a
// sequential expression: function, then, and else frames.
type seqExprFrame struct {
	// The binding blocks accumulated by the scope, in the order they closed.
	blocks []*ir.BindingBlock

	// The scope's output expression.  Set by SetReturn.
	output ir.Expr
}

// seqFrame is implemented by every frame variant embedding seqExprFrame.  A
// closed binding block attaches to the nearest such frame.
type seqFrame interface {
	Frame
	seq() *seqExprFrame
}

// -----------------------------------------------------------------------------

// moduleFrame is the scope of one module under construction.  It must be the
// outermost frame: modules do not nest.
type moduleFrame struct {
	// The module being assembled.
	module *mod.Module
}

func (f *moduleFrame) enter(b *Builder) {
	if len(b.frames) != 0 {
		panic(report.Structural("module", "a module scope must be the outermost scope"))
	}

	b.append(f)
}

func (f *moduleFrame) exit(b *Builder) {
	if len(b.frames) != 0 {
		report.ICE("module frame closed with %d enclosing frames", len(b.frames))
	}

	if b.result != nil {
		panic(report.Structural("module", "builder result has already been set"))
	}

	b.result = f.module
}

// -----------------------------------------------------------------------------

// functionFrame is the scope of one function under construction.
type functionFrame struct {
	seqExprFrame

	// The name of the function.  Empty for an anonymous function.
	name string

	// The parameters declared so far, in order.
	params []*ir.Var

	// The declared return type.  Inferred from the body when nil.
	retType ir.Type

	// The function attributes set so far.
	attrs map[string]string

	// The block assembler for this function's binding blocks.
	blockAsm *blockAssembler
}

func (f *functionFrame) seq() *seqExprFrame {
	return &f.seqExprFrame
}

func (f *functionFrame) enter(b *Builder) {
	b.append(f)
}

func (f *functionFrame) exit(b *Builder) {
	if f.output == nil {
		panic(report.Structural("function", "a function must have a return value: call SetReturn before closing the scope"))
	}

	// Normalize the return value and the assembled sequential body.
	out := f.blockAsm.normalize(f.output)
	body := normalizeBody(&ir.SeqExpr{Blocks: f.blocks, Output: out})

	retType := f.retType
	if retType == nil {
		retType = body.Type()
	}

	attrs := f.attrs
	if attrs == nil {
		attrs = make(map[string]string)
	}
	if f.name != "" {
		attrs["global_symbol"] = f.name
	}

	fn := &ir.Function{
		Name:    f.name,
		Params:  f.params,
		Body:    body,
		RetType: retType,
		Attrs:   attrs,
	}

	// Dispose of the finished function.
	if len(b.frames) == 0 {
		// No outer frame: ad-hoc single-function construction.
		if b.result != nil {
			panic(report.Structural("function", "builder result has already been set"))
		}

		b.result = fn
		return
	}

	if mf, ok := findFrame[*moduleFrame](b); ok {
		if f.name == "" {
			panic(report.Structural("function", "a function defined in a module must have a name"))
		}

		// Declare on first visit, then bind the definition.  Define rejects
		// silent redefinition.
		if !mf.module.Contains(f.name) {
			mf.module.Declare(f.name)
		}

		if err := mf.module.Define(f.name, fn); err != nil {
			panic(err)
		}

		return
	}

	report.ICE("no destination for completed function: the enclosing frame is neither absent nor a module")
}

// -----------------------------------------------------------------------------

// blockFrame is the scope of one binding block, dataflow or ordinary.  It is a
// scope but not a sequential-expression frame: it produces exactly one binding
// block, attached to the nearest enclosing seq-expr frame when it closes.
type blockFrame struct {
	// Whether the block is a dataflow block.
	dataflow bool

	// implicit marks a block opened automatically when a branch scope was
	// entered.  An implicit block that is still empty when force-closed is
	// discarded rather than rejected.
	implicit bool

	// The owning function's block assembler, resolved on enter.
	asm *blockAssembler
}

func (f *blockFrame) enter(b *Builder) {
	// Opening a new block always ends a directly preceding open block: blocks
	// cannot nest or run consecutively within one scope.
	if _, ok := lastFrame[*blockFrame](b); ok {
		b.pop()

		if _, ok := lastFrame[*blockFrame](b); ok {
			report.ICE("consecutive open block frames remain after auto-close")
		}
	}

	b.append(f)

	ff, ok := findFrame[*functionFrame](b)
	if !ok {
		panic(report.Structural("block", "cannot open a binding block outside a function scope"))
	}

	f.asm = ff.blockAsm
	f.asm.begin(f.dataflow)
}

func (f *blockFrame) exit(b *Builder) {
	block := f.asm.end()

	if len(block.Bindings) == 0 {
		if f.implicit {
			// An untouched implicit branch block: nothing to attach.
			return
		}

		panic(report.Structural("block", "a binding block must contain at least one binding"))
	}

	top, ok := b.last()
	if !ok {
		report.ICE("binding block closed with no enclosing frame")
	}

	sf, ok := top.(seqFrame)
	if !ok {
		report.ICE("the frame enclosing a closed binding block must be a function, then, or else scope, not %s", frameKindName(top))
	}

	sf.seq().blocks = append(sf.seq().blocks, block)
}

// -----------------------------------------------------------------------------

// ifFrame is the scope of one conditional under construction.  When it closes
// it emits the assembled conditional as a fresh binding in the enclosing open
// block.
type ifFrame struct {
	// The branch condition.
	cond ir.Expr

	// The assembled then-branch expression.  Set by the then frame's exit.
	thenExpr ir.Expr

	// The assembled else-branch expression.  Set by the else frame's exit.
	elseExpr ir.Expr

	// The name under which both branches expose their result.  Recorded by
	// the then frame's exit and asserted by the else frame's.
	varName string

	// The variable the conditional's value was bound to.
	result *ir.Var
}

func (f *ifFrame) enter(b *Builder) {
	// A conditional introduces control flow: it can never appear inside a
	// dataflow block at any nesting depth.
	for _, fr := range b.frames {
		if bf, ok := fr.(*blockFrame); ok && bf.dataflow {
			panic(report.Structural("if", "cannot open a conditional inside a dataflow block"))
		}
	}

	b.append(f)
}

func (f *ifFrame) exit(b *Builder) {
	if f.thenExpr == nil {
		panic(report.Structural("if", "the then branch must be declared before the conditional closes"))
	}
	if f.elseExpr == nil {
		panic(report.Structural("if", "the else branch must be declared before the conditional closes"))
	}

	body := &ir.If{Cond: f.cond, Then: f.thenExpr, Else: f.elseExpr}

	// The conditional's value is exposed to the enclosing block as an
	// ordinary binding under the branches' unified name.
	ff, ok := findFrame[*functionFrame](b)
	if !ok {
		panic(report.Unresolved("function", "cannot find an enclosing function scope to emit the conditional into"))
	}

	f.result = ff.blockAsm.emit(f.varName, body)
}

// findIfFrame locates the nearest enclosing if frame.  The result must be
// re-resolved on every access: the frame is mutated by each of its two branch
// scopes in sequence.
func findIfFrame(b *Builder, branch string) *ifFrame {
	iff, ok := findFrame[*ifFrame](b)
	if !ok {
		panic(report.Unresolved("if", "cannot find an enclosing conditional scope for the %s branch", branch))
	}

	return iff
}

// -----------------------------------------------------------------------------

// thenFrame is the scope of a conditional's then branch.
type thenFrame struct {
	seqExprFrame
}

func (f *thenFrame) seq() *seqExprFrame {
	return &f.seqExprFrame
}

func (f *thenFrame) enter(b *Builder) {
	iff := findIfFrame(b, "then")
	if iff.thenExpr != nil {
		panic(report.Structural("then", "duplicate then branch declaration"))
	}

	b.append(f)

	// Bindings may be emitted into a branch without an explicit block call:
	// each branch scope opens an implicit default block.
	b.push(&blockFrame{implicit: true})
}

func (f *thenFrame) exit(b *Builder) {
	body, varName := branchSeqExpr(b, &f.seqExprFrame, "then")

	iff := findIfFrame(b, "then")
	iff.thenExpr = body
	iff.varName = varName
}

// elseFrame is the scope of a conditional's else branch.
type elseFrame struct {
	seqExprFrame
}

func (f *elseFrame) seq() *seqExprFrame {
	return &f.seqExprFrame
}

func (f *elseFrame) enter(b *Builder) {
	iff := findIfFrame(b, "else")
	if iff.thenExpr == nil {
		panic(report.Structural("else", "the else branch must follow a closed then branch"))
	}
	if iff.elseExpr != nil {
		panic(report.Structural("else", "duplicate else branch declaration"))
	}

	b.append(f)
	b.push(&blockFrame{implicit: true})
}

func (f *elseFrame) exit(b *Builder) {
	body, varName := branchSeqExpr(b, &f.seqExprFrame, "else")

	iff := findIfFrame(b, "else")
	iff.elseExpr = body

	// Branch unification: both branches must expose their result under the
	// same name, since downstream references to the conditional's value use
	// that single name.
	if varName != iff.varName {
		panic(report.Structural("else",
			"branches must bind their result to the same variable: then branch bound `%s`, else branch bound `%s`",
			iff.varName, varName))
	}
}

// branchSeqExpr assembles a closed branch scope into a sequential expression
// and reports the variable name under which the branch exposes its result:
// the name of the branch's output variable, or a synthesized name if the
// output is not itself a bound variable.
func branchSeqExpr(b *Builder, sf *seqExprFrame, branch string) (*ir.SeqExpr, string) {
	if sf.output == nil {
		panic(report.Structural(branch, "a branch must have a result value: call SetReturn before closing the branch"))
	}

	if v, ok := sf.output.(*ir.Var); ok {
		return &ir.SeqExpr{Blocks: sf.blocks, Output: v}, v.Name
	}

	// The branch output is not a bound variable: bind it under a synthesized
	// name so the branch exposes its result uniformly.
	ff, ok := findFrame[*functionFrame](b)
	if !ok {
		panic(report.Unresolved("function", "cannot find an enclosing function scope for the %s branch result", branch))
	}

	v := &ir.Var{Name: ff.blockAsm.freshName(), VarType: sf.output.Type()}
	binding := &ir.Binding{Var: v, Value: sf.output}

	blocks := sf.blocks
	if n := len(blocks); n > 0 && !blocks[n-1].Dataflow {
		last := blocks[n-1]
		blocks[n-1] = &ir.BindingBlock{
			Bindings: append(append([]*ir.Binding{}, last.Bindings...), binding),
		}
	} else {
		blocks = append(blocks, &ir.BindingBlock{Bindings: []*ir.Binding{binding}})
	}

	return &ir.SeqExpr{Blocks: blocks, Output: v}, v.Name
}
