package ir

import "strings"

// Binding is an immutable assignment of an expression's value to a named
// variable.  Bindings follow an SSA-like paradigm: a variable is bound exactly
// once.
type Binding struct {
	// The variable being bound.
	Var *Var

	// The bound expression.
	Value Expr
}

// Repr returns the indented string representation of the binding.
func (b *Binding) Repr(preindent string) string {
	value := b.Value.Repr()
	if ie, ok := b.Value.(*If); ok {
		value = ie.reprIndent(preindent)
	}

	return preindent + b.Var.Repr() + " := " + value
}

// -----------------------------------------------------------------------------

// BindingBlock is an ordered sequence of bindings: the unit a block scope
// produces.  A block must contain at least one binding to be valid.
type BindingBlock struct {
	// Whether this is a dataflow block: one restricted to pure, branch-free
	// bindings.
	Dataflow bool

	// The bindings of the block, in order.
	Bindings []*Binding
}

// Repr returns the indented string representation of the block.
func (bb *BindingBlock) Repr(preindent string) string {
	sb := strings.Builder{}

	if bb.Dataflow {
		sb.WriteString(preindent + "dataflow {\n")
	} else {
		sb.WriteString(preindent + "block {\n")
	}

	for _, binding := range bb.Bindings {
		sb.WriteString(binding.Repr(preindent+"  ") + "\n")
	}

	sb.WriteString(preindent + "}\n")
	return sb.String()
}
