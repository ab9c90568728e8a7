package script

import (
	"fmt"

	"loom/build"
	"loom/ir"
	"loom/mod"
)

// runner replays the events of one script against one builder.
type runner struct {
	b *build.Builder

	// scope maps the names bound so far to their variables.  Scripts are flat
	// event lists, so one map covers the whole replay: later bindings of the
	// same name shadow earlier ones.
	scope map[string]*ir.Var
}

// Run replays the script against a fresh builder and returns the module it
// builds.  The module scope itself is implicit: the runner opens it before the
// first event and closes it after the last.
func Run(s *Script) (*mod.Module, error) {
	r := &runner{
		b:     build.New(),
		scope: make(map[string]*ir.Var),
	}

	if err := r.b.BeginModule(s.Module); err != nil {
		return nil, err
	}

	for i, ev := range s.Events {
		if err := r.runEvent(ev); err != nil {
			return nil, fmt.Errorf("event %d (%s): %w", i+1, ev.Op, err)
		}
	}

	if err := r.b.EndModule(); err != nil {
		return nil, err
	}

	return r.b.Module()
}

// runEvent replays a single event.
func (r *runner) runEvent(ev *Event) error {
	switch ev.Op {
	case OpBeginFunction:
		return r.b.BeginFunction(ev.Name)
	case OpParam:
		typ, err := typeFor(ev.Type)
		if err != nil {
			return err
		}

		v, err := r.b.Param(ev.Name, typ)
		if err != nil {
			return err
		}

		r.scope[ev.Name] = v
		return nil
	case OpRetType:
		typ, err := typeFor(ev.Type)
		if err != nil {
			return err
		}

		return r.b.FuncRetType(typ)
	case OpAttrs:
		return r.b.FuncAttrs(ev.Attrs)
	case OpEndFunction:
		return r.b.EndFunction()
	case OpBeginBlock:
		return r.b.BeginBlock(ev.Dataflow)
	case OpEndBlock:
		return r.b.EndBlock()
	case OpBeginIf:
		cond, err := r.buildExpr(ev.Value)
		if err != nil {
			return err
		}

		return r.b.BeginIf(cond)
	case OpBeginThen:
		return r.b.BeginThen()
	case OpEndThen:
		return r.b.EndThen()
	case OpBeginElse:
		return r.b.BeginElse()
	case OpEndElse:
		return r.b.EndElse()
	case OpEndIf:
		v, err := r.b.EndIf()
		if err != nil {
			return err
		}

		r.scope[v.Name] = v
		return nil
	case OpBind:
		value, err := r.buildExpr(ev.Value)
		if err != nil {
			return err
		}

		v, err := r.b.Bind(ev.Name, value)
		if err != nil {
			return err
		}

		r.scope[ev.Name] = v
		return nil
	case OpEmit:
		value, err := r.buildExpr(ev.Value)
		if err != nil {
			return err
		}

		v, err := r.b.Emit(value)
		if err != nil {
			return err
		}

		r.scope[v.Name] = v
		return nil
	case OpSetReturn:
		value, err := r.buildExpr(ev.Value)
		if err != nil {
			return err
		}

		return r.b.SetReturn(value)
	}

	return fmt.Errorf("unknown op: `%s`", ev.Op)
}

// -----------------------------------------------------------------------------

// buildExpr converts an encoded expression into an IR expression, resolving
// variable references against the replay scope.
func (r *runner) buildExpr(te *Expr) (ir.Expr, error) {
	if te == nil {
		return nil, fmt.Errorf("missing expression value")
	}

	switch te.Kind {
	case "lit":
		typ, err := typeFor(te.Type)
		if err != nil {
			return nil, err
		}

		return &ir.Literal{Value: te.Value, LitType: typ}, nil
	case "var":
		v, ok := r.scope[te.Name]
		if !ok {
			return nil, fmt.Errorf("reference to unbound variable `%s`", te.Name)
		}

		return v, nil
	case "global":
		gr, err := r.b.Global(te.Name)
		if err != nil {
			return nil, err
		}

		return gr, nil
	case "call":
		callee, err := r.b.Global(te.Name)
		if err != nil {
			return nil, err
		}

		args := make([]ir.Expr, len(te.Args))
		for i, ta := range te.Args {
			if args[i], err = r.buildExpr(ta); err != nil {
				return nil, err
			}
		}

		return &ir.Call{Callee: callee, Args: args}, nil
	case "prim":
		opCode, ok := ir.OpCodeFor(te.OpCode)
		if !ok {
			return nil, fmt.Errorf("unknown instruction name: `%s`", te.OpCode)
		}

		operands := make([]ir.Expr, len(te.Operands))
		for i, to := range te.Operands {
			var err error
			if operands[i], err = r.buildExpr(to); err != nil {
				return nil, err
			}
		}

		if len(operands) == 0 {
			return nil, fmt.Errorf("instruction `%s` has no operands", te.OpCode)
		}

		return &ir.PrimOp{
			OpCode:     opCode,
			Operands:   operands,
			ResultType: primOpType(opCode, operands),
		}, nil
	}

	return nil, fmt.Errorf("unknown expression kind: `%s`", te.Kind)
}

// primOpType computes the result type of a primitive instruction from its op
// code and operands.
func primOpType(opCode int, operands []ir.Expr) ir.Type {
	switch opCode {
	case ir.OpEq, ir.OpNEq, ir.OpLT, ir.OpGT, ir.OpLTEq, ir.OpGTEq:
		return ir.PrimBool
	default:
		return operands[0].Type()
	}
}
