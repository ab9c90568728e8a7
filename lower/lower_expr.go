package lower

import (
	"strconv"

	"loom/ir"
	"loom/report"
	"loom/util"

	llir "github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	llvalue "github.com/llir/llvm/ir/value"
)

// lowerExpr lowers an IR expression to an LLVM value, appending instructions
// to the current block as needed.
func (l *Lowerer) lowerExpr(expr ir.Expr) llvalue.Value {
	switch e := expr.(type) {
	case *ir.Var:
		val, ok := l.locals[e.Name]
		if !ok {
			report.ICE("use of unbound variable `%s` during lowering", e.Name)
		}
		return val
	case *ir.Literal:
		return l.lowerLiteral(e)
	case *ir.PrimOp:
		return l.lowerPrimOp(e)
	case *ir.GlobalRef:
		return l.lookupGlobal(e.Name)
	case *ir.Call:
		callee := l.lookupGlobal(e.Callee.Name)
		args := util.Map(e.Args, func(a ir.Expr) llvalue.Value { return l.lowerExpr(a) })
		return l.block.NewCall(callee, args...)
	case *ir.SeqExpr:
		return l.lowerSeqExpr(e)
	case *ir.If:
		return l.lowerIf(e)
	}

	report.ICE("expression kind cannot be lowered: %s", expr.Repr())
	return nil
}

// lookupGlobal retrieves the LLVM function for a global reference.
func (l *Lowerer) lookupGlobal(name string) *llir.Func {
	llFn, ok := l.globals[name]
	if !ok {
		report.ICE("reference to undefined global `%s` during lowering", name)
	}

	return llFn
}

// -----------------------------------------------------------------------------

// lowerSeqExpr lowers a sequential expression: each block's bindings are
// lowered in order, then the output expression gives the sequence's value.
func (l *Lowerer) lowerSeqExpr(se *ir.SeqExpr) llvalue.Value {
	for _, block := range se.Blocks {
		for _, binding := range block.Bindings {
			l.locals[binding.Var.Name] = l.lowerExpr(binding.Value)
		}
	}

	return l.lowerExpr(se.Output)
}

// lowerIf lowers a conditional expression to a conditional branch whose arms
// both jump to a common end block, where a phi node accumulates the branch
// results.
func (l *Lowerer) lowerIf(ifExpr *ir.If) llvalue.Value {
	endBlock := l.appendBlock()
	thenBlock := l.appendBlock()
	elseBlock := l.appendBlock()

	cond := l.lowerExpr(ifExpr.Cond)
	l.block.NewCondBr(cond, thenBlock, elseBlock)

	// incoming will be used to produce the resulting `phi` node if the
	// conditional yields a value.
	var incoming []*llir.Incoming

	// Note: after a branch body is lowered, l.block is the block the body
	// *ended* in, which is what the phi must record as the predecessor.
	l.block = thenBlock
	thenResult := l.lowerExpr(ifExpr.Then)
	incoming = append(incoming, llir.NewIncoming(thenResult, l.block))
	l.block.NewBr(endBlock)

	l.block = elseBlock
	elseResult := l.lowerExpr(ifExpr.Else)
	incoming = append(incoming, llir.NewIncoming(elseResult, l.block))
	l.block.NewBr(endBlock)

	l.block = endBlock

	if ifExpr.Type().Equiv(ir.PrimUnit) {
		return nil
	}

	return l.block.NewPhi(incoming...)
}

// -----------------------------------------------------------------------------

// lowerLiteral lowers a literal to an LLVM constant.
func (l *Lowerer) lowerLiteral(lit *ir.Literal) llvalue.Value {
	pt, ok := lit.LitType.(ir.PrimType)
	if !ok {
		report.ICE("literal with non-primitive type: %s", lit.LitType.Repr())
	}

	switch pt {
	case ir.PrimUnit:
		// Unit has no value representation: it only ever reaches lowering as a
		// return value, where nothing is returned.
		return nil
	case ir.PrimBool:
		b, err := strconv.ParseBool(lit.Value)
		if err != nil {
			report.ICE("malformed bool literal: `%s`", lit.Value)
		}
		return constant.NewBool(b)
	case ir.PrimI64:
		n, err := strconv.ParseInt(lit.Value, 10, 64)
		if err != nil {
			report.ICE("malformed integer literal: `%s`", lit.Value)
		}
		return constant.NewInt(lltypes.I64, n)
	case ir.PrimF64:
		f, err := strconv.ParseFloat(lit.Value, 64)
		if err != nil {
			report.ICE("malformed float literal: `%s`", lit.Value)
		}
		return constant.NewFloat(lltypes.Double, f)
	}

	report.ICE("literal of type %s cannot be lowered", pt.Repr())
	return nil
}

// lowerPrimOp lowers a primitive instruction expression.
func (l *Lowerer) lowerPrimOp(op *ir.PrimOp) llvalue.Value {
	isFloat := op.Operands[0].Type().Equiv(ir.PrimF64)

	x := l.lowerExpr(op.Operands[0])

	// Unary operators.
	switch op.OpCode {
	case ir.OpNeg:
		if isFloat {
			return l.block.NewFNeg(x)
		}
		return l.block.NewSub(constant.NewInt(lltypes.I64, 0), x)
	case ir.OpNot:
		return l.block.NewXor(x, constant.True)
	}

	y := l.lowerExpr(op.Operands[1])

	switch op.OpCode {
	case ir.OpAdd:
		if isFloat {
			return l.block.NewFAdd(x, y)
		}
		return l.block.NewAdd(x, y)
	case ir.OpSub:
		if isFloat {
			return l.block.NewFSub(x, y)
		}
		return l.block.NewSub(x, y)
	case ir.OpMul:
		if isFloat {
			return l.block.NewFMul(x, y)
		}
		return l.block.NewMul(x, y)
	case ir.OpDiv:
		if isFloat {
			return l.block.NewFDiv(x, y)
		}
		return l.block.NewSDiv(x, y)
	case ir.OpMod:
		if isFloat {
			return l.block.NewFRem(x, y)
		}
		return l.block.NewSRem(x, y)
	case ir.OpEq:
		return l.lowerCompare(isFloat, enum.IPredEQ, enum.FPredOEQ, x, y)
	case ir.OpNEq:
		return l.lowerCompare(isFloat, enum.IPredNE, enum.FPredONE, x, y)
	case ir.OpLT:
		return l.lowerCompare(isFloat, enum.IPredSLT, enum.FPredOLT, x, y)
	case ir.OpGT:
		return l.lowerCompare(isFloat, enum.IPredSGT, enum.FPredOGT, x, y)
	case ir.OpLTEq:
		return l.lowerCompare(isFloat, enum.IPredSLE, enum.FPredOLE, x, y)
	case ir.OpGTEq:
		return l.lowerCompare(isFloat, enum.IPredSGE, enum.FPredOGE, x, y)
	case ir.OpAnd:
		return l.block.NewAnd(x, y)
	case ir.OpOr:
		return l.block.NewOr(x, y)
	}

	report.ICE("unknown op code: %d", op.OpCode)
	return nil
}

// lowerCompare lowers a comparison with the predicate matching the operand
// class.
func (l *Lowerer) lowerCompare(isFloat bool, ipred enum.IPred, fpred enum.FPred, x, y llvalue.Value) llvalue.Value {
	if isFloat {
		return l.block.NewFCmp(fpred, x, y)
	}

	return l.block.NewICmp(ipred, x, y)
}

// -----------------------------------------------------------------------------

// lowerType converts an IR type to an LLVM type.
func (l *Lowerer) lowerType(typ ir.Type) lltypes.Type {
	if pt, ok := typ.(ir.PrimType); ok {
		switch pt {
		case ir.PrimUnit:
			return lltypes.Void
		case ir.PrimBool:
			return lltypes.I1
		case ir.PrimI64:
			return lltypes.I64
		case ir.PrimF64:
			return lltypes.Double
		}
	}

	report.ICE("type cannot be lowered: %s", typ.Repr())
	return nil
}
