package ir

import (
	"strings"

	"loom/util"
)

// Expr represents an expression in the IR.  All expression constructors are
// pure: nodes are immutable once built.
type Expr interface {
	// Type returns the result type of the expression.
	Type() Type

	// Repr returns the textual representation of the expression.
	Repr() string
}

// -----------------------------------------------------------------------------

// Var represents a named, bound value.
type Var struct {
	// The name of the variable.
	Name string

	// The type of the value stored in the variable.
	VarType Type
}

func (v *Var) Type() Type {
	return v.VarType
}

func (v *Var) Repr() string {
	return "$" + v.Name
}

// Literal represents a literal value.
type Literal struct {
	// The source text of the literal value.
	Value string

	// The type of the literal.
	LitType Type
}

func (lit *Literal) Type() Type {
	return lit.LitType
}

func (lit *Literal) Repr() string {
	return lit.Value
}

// -----------------------------------------------------------------------------

// PrimOp represents an expression comprised of a single primitive instruction.
type PrimOp struct {
	// The op code of the instruction.  Must be one of the enumerated op codes.
	OpCode int

	// The operands of the instruction.
	Operands []Expr

	// The result type of the instruction.
	ResultType Type
}

// Enumeration of instruction op codes.
const (
	OpAdd = iota // Add
	OpSub        // Subtract
	OpMul        // Multiply
	OpDiv        // Divide
	OpMod        // Modulo
	OpNeg        // Negate

	OpEq   // Equal to
	OpNEq  // Not equal to
	OpLT   // Less than
	OpGT   // Greater than
	OpLTEq // Less than or equal to
	OpGTEq // Greater than or equal to

	OpNot // Logical NOT
	OpAnd // Logical AND
	OpOr  // Logical OR
)

// opNames maps op codes to their textual names.
var opNames = map[int]string{
	OpAdd:  "add",
	OpSub:  "sub",
	OpMul:  "mul",
	OpDiv:  "div",
	OpMod:  "mod",
	OpNeg:  "neg",
	OpEq:   "eq",
	OpNEq:  "neq",
	OpLT:   "lt",
	OpGT:   "gt",
	OpLTEq: "lteq",
	OpGTEq: "gteq",
	OpNot:  "not",
	OpAnd:  "and",
	OpOr:   "or",
}

// OpName returns the textual name of an op code.
func OpName(opCode int) string {
	return opNames[opCode]
}

// OpCodeFor returns the op code with the given textual name.
func OpCodeFor(name string) (int, bool) {
	for code, n := range opNames {
		if n == name {
			return code, true
		}
	}

	return 0, false
}

func (po *PrimOp) Type() Type {
	return po.ResultType
}

func (po *PrimOp) Repr() string {
	return opNames[po.OpCode] + "(" + strings.Join(util.Map(po.Operands, Expr.Repr), ", ") + ")"
}

// -----------------------------------------------------------------------------

// GlobalRef represents a reference to a module-level function.  A global
// reference may exist before the function it names is defined: forward
// declarations produce exactly such references.
type GlobalRef struct {
	// The name of the referenced global.
	Name string

	// The type of the referenced function.  This is nil while the global is
	// only forward-declared.
	RefType *FuncType
}

func (gr *GlobalRef) Type() Type {
	if gr.RefType == nil {
		return PrimUnit
	}

	return gr.RefType
}

func (gr *GlobalRef) Repr() string {
	return "@" + gr.Name
}

// Call represents a call to a module-level function.
type Call struct {
	// The called global.
	Callee *GlobalRef

	// The call arguments, in order.
	Args []Expr
}

func (c *Call) Type() Type {
	if c.Callee.RefType == nil {
		return PrimUnit
	}

	return c.Callee.RefType.ReturnType
}

func (c *Call) Repr() string {
	return c.Callee.Repr() + "(" + strings.Join(util.Map(c.Args, Expr.Repr), ", ") + ")"
}

// -----------------------------------------------------------------------------

// SeqExpr represents a sequence of binding blocks evaluated in order followed
// by an output expression giving the sequence's value.
type SeqExpr struct {
	// The binding blocks of the sequence, in the order they were closed.
	Blocks []*BindingBlock

	// The output expression of the sequence.
	Output Expr
}

func (se *SeqExpr) Type() Type {
	return se.Output.Type()
}

func (se *SeqExpr) Repr() string {
	return se.reprIndent("")
}

func (se *SeqExpr) reprIndent(preindent string) string {
	sb := strings.Builder{}
	sb.WriteString("{\n")

	for _, block := range se.Blocks {
		sb.WriteString(block.Repr(preindent + "  "))
	}

	sb.WriteString(preindent + "  => " + se.Output.Repr() + "\n")
	sb.WriteString(preindent + "}")
	return sb.String()
}

// If represents a conditional expression: exactly one of the two branch
// expressions is evaluated, selected by the condition.
type If struct {
	// The branch condition.
	Cond Expr

	// The expression evaluated when the condition holds.
	Then Expr

	// The expression evaluated otherwise.
	Else Expr
}

func (ie *If) Type() Type {
	return ie.Then.Type()
}

func (ie *If) Repr() string {
	return ie.reprIndent("")
}

func (ie *If) reprIndent(preindent string) string {
	return "if " + ie.Cond.Repr() +
		" then " + reprBranch(ie.Then, preindent) +
		" else " + reprBranch(ie.Else, preindent)
}

// reprBranch prints one branch of a conditional at the given indentation.
func reprBranch(branch Expr, preindent string) string {
	if se, ok := branch.(*SeqExpr); ok {
		return se.reprIndent(preindent)
	}

	return branch.Repr()
}

// -----------------------------------------------------------------------------

// Function represents a completed IR function.
type Function struct {
	// The name of the function.  Empty for an anonymous function.
	Name string

	// The parameters of the function, in order.
	Params []*Var

	// The body of the function.
	Body Expr

	// The return type of the function.
	RetType Type

	// The function attributes.  Named functions carry a "global_symbol"
	// attribute derived from their name.
	Attrs map[string]string
}

func (fn *Function) Type() Type {
	return &FuncType{
		ParamTypes: util.Map(fn.Params, func(p *Var) Type { return p.VarType }),
		ReturnType: fn.RetType,
	}
}

func (fn *Function) Repr() string {
	sb := strings.Builder{}
	sb.WriteString("fn @" + fn.Name + "(")

	for i, param := range fn.Params {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(param.Repr() + ": " + param.VarType.Repr())
	}

	sb.WriteString(") -> " + fn.RetType.Repr() + " ")

	if se, ok := fn.Body.(*SeqExpr); ok {
		sb.WriteString(se.reprIndent(""))
	} else {
		sb.WriteString("= " + fn.Body.Repr())
	}

	return sb.String()
}
