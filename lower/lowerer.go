// Package lower converts built IR modules into LLVM modules.  It is a
// downstream consumer of the builder's output: lowering assumes its input
// module is well formed, so any inconsistency found here is fatal.
package lower

import (
	"fmt"

	"loom/ir"
	"loom/mod"
	"loom/util"

	llir "github.com/llir/llvm/ir"
	llvalue "github.com/llir/llvm/ir/value"
)

// Lowerer is responsible for converting a completed loom module into an LLVM
// module.
type Lowerer struct {
	// src is the source module being lowered.
	src *mod.Module

	// llMod is the LLVM module being produced.
	llMod *llir.Module

	// globals maps global function names to their LLVM functions.
	globals map[string]*llir.Func

	// enclosingFunc is the LLVM function enclosing the block being lowered.
	enclosingFunc *llir.Func

	// block is the current LLVM block being appended to.
	block *llir.Block

	// locals maps bound variable names to their LLVM values.
	locals map[string]llvalue.Value
}

// NewLowerer creates a new lowerer for the given module.
func NewLowerer(src *mod.Module) *Lowerer {
	return &Lowerer{
		src:     src,
		llMod:   llir.NewModule(),
		globals: make(map[string]*llir.Func),
	}
}

// Lower runs the main lowering algorithm for the source module.  This process
// is assumed to always succeed: any errors here are considered fatal.
func (l *Lowerer) Lower() *llir.Module {
	// Declare every function first so calls between functions, including
	// forward references, resolve to the right LLVM function.
	for _, fn := range l.src.Functions() {
		l.declareFunction(fn)
	}

	for _, fn := range l.src.Functions() {
		l.lowerFunction(fn)
	}

	return l.llMod
}

// LowerFunction lowers a single ad-hoc function into its own LLVM module.
func LowerFunction(fn *ir.Function) *llir.Module {
	l := &Lowerer{
		llMod:   llir.NewModule(),
		globals: make(map[string]*llir.Func),
	}

	l.declareFunction(fn)
	l.lowerFunction(fn)
	return l.llMod
}

// -----------------------------------------------------------------------------

// declareFunction adds the LLVM declaration of a function to the module.
func (l *Lowerer) declareFunction(fn *ir.Function) {
	params := util.Map(fn.Params, func(p *ir.Var) *llir.Param {
		return llir.NewParam(p.Name, l.lowerType(p.VarType))
	})

	llFn := l.llMod.NewFunc(globalName(fn), l.lowerType(fn.RetType), params...)
	l.globals[globalName(fn)] = llFn
}

// lowerFunction generates the LLVM body of a declared function.
func (l *Lowerer) lowerFunction(fn *ir.Function) {
	llFn := l.globals[globalName(fn)]

	l.enclosingFunc = llFn
	l.locals = make(map[string]llvalue.Value)
	for i, param := range fn.Params {
		l.locals[param.Name] = llFn.Params[i]
	}

	l.block = llFn.NewBlock("entry")
	result := l.lowerExpr(fn.Body)

	if fn.RetType.Equiv(ir.PrimUnit) {
		l.block.NewRet(nil)
	} else {
		l.block.NewRet(result)
	}
}

// globalName returns the LLVM symbol name of a function.  Anonymous functions
// lower under a placeholder symbol.
func globalName(fn *ir.Function) string {
	if fn.Name == "" {
		return "fn"
	}

	return fn.Name
}

// -----------------------------------------------------------------------------

// appendBlock adds a new basic block to the current function.  It does *not*
// set the current block to this new block.
func (l *Lowerer) appendBlock() *llir.Block {
	return l.enclosingFunc.NewBlock(fmt.Sprintf("bb%d", len(l.enclosingFunc.Blocks)))
}
