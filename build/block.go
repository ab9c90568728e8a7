package build

import (
	"fmt"

	"loom/ir"
	"loom/report"
)

// blockAssembler accumulates bindings for the open binding blocks of one
// function under construction.  Blocks nest through conditional branches, so
// the open blocks form a stack: bindings are always appended to the innermost
// open block.
type blockAssembler struct {
	// The stack of open blocks, innermost last.
	open []*openBlock

	// The counter used to synthesize fresh binding names.
	nameCount int
}

// openBlock is a binding block still accumulating bindings.
type openBlock struct {
	// Whether the block is a dataflow block.
	dataflow bool

	// The bindings accumulated so far.
	bindings []*ir.Binding
}

func newBlockAssembler() *blockAssembler {
	return &blockAssembler{}
}

// -----------------------------------------------------------------------------

// begin starts accumulating a new block, dataflow or ordinary.
func (ba *blockAssembler) begin(dataflow bool) {
	ba.open = append(ba.open, &openBlock{dataflow: dataflow})
}

// end finishes the innermost open block and returns it.  The block-frame
// protocol guarantees begin/end pairing, so an unpaired end is a driver bug.
func (ba *blockAssembler) end() *ir.BindingBlock {
	if len(ba.open) == 0 {
		report.ICE("block assembler has no open block to end")
	}

	ob := ba.open[len(ba.open)-1]
	ba.open = ba.open[:len(ba.open)-1]

	return &ir.BindingBlock{Dataflow: ob.dataflow, Bindings: ob.bindings}
}

// emit appends a binding of value to the innermost open block under the given
// name, synthesizing a fresh name if name is empty.  It returns the bound
// variable.
func (ba *blockAssembler) emit(name string, value ir.Expr) *ir.Var {
	if len(ba.open) == 0 {
		panic(report.Structural("block", "no open binding block to bind into"))
	}

	if name == "" {
		name = ba.freshName()
	}

	v := &ir.Var{Name: name, VarType: value.Type()}
	ob := ba.open[len(ba.open)-1]
	ob.bindings = append(ob.bindings, &ir.Binding{Var: v, Value: value})
	return v
}

// freshName synthesizes a fresh local-value name.
func (ba *blockAssembler) freshName() string {
	name := fmt.Sprintf("lv%d", ba.nameCount)
	ba.nameCount++
	return name
}

// -----------------------------------------------------------------------------

// normalize rewrites an expression into one whose immediate value is directly
// referenceable.  Leaf expressions already are; any other expression is bound
// into the innermost open block and replaced by the bound variable.  With no
// open block the expression is returned unchanged: the enclosing scope has
// already sealed its blocks and the expression appears inline.
func (ba *blockAssembler) normalize(e ir.Expr) ir.Expr {
	switch e.(type) {
	case *ir.Var, *ir.Literal, *ir.GlobalRef:
		return e
	}

	if len(ba.open) == 0 {
		return e
	}

	return ba.emit("", e)
}

// normalizeBody canonicalizes an assembled sequential body: a body with no
// binding blocks collapses to its output expression.
func normalizeBody(se *ir.SeqExpr) ir.Expr {
	if len(se.Blocks) == 0 {
		return se.Output
	}

	return se
}
