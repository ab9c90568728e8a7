package ir

import (
	"strings"
	"testing"
)

func TestExprRepr(t *testing.T) {
	x := &Var{Name: "x", VarType: PrimI64}
	one := &Literal{Value: "1", LitType: PrimI64}

	cases := []struct {
		expr     Expr
		expected string
	}{
		{x, "$x"},
		{one, "1"},
		{&PrimOp{OpCode: OpAdd, Operands: []Expr{x, one}, ResultType: PrimI64}, "add($x, 1)"},
		{&PrimOp{OpCode: OpNeg, Operands: []Expr{x}, ResultType: PrimI64}, "neg($x)"},
		{&GlobalRef{Name: "f"}, "@f"},
		{&Call{Callee: &GlobalRef{Name: "f"}, Args: []Expr{x, one}}, "@f($x, 1)"},
		{&If{Cond: &Var{Name: "c", VarType: PrimBool}, Then: one, Else: x}, "if $c then 1 else $x"},
	}

	for _, c := range cases {
		if got := c.expr.Repr(); got != c.expected {
			t.Errorf("expected %q, got %q", c.expected, got)
		}
	}
}

func TestTypeRepr(t *testing.T) {
	cases := []struct {
		typ      Type
		expected string
	}{
		{PrimUnit, "unit"},
		{PrimBool, "bool"},
		{PrimI64, "i64"},
		{PrimF64, "f64"},
		{&FuncType{ParamTypes: []Type{PrimI64, PrimBool}, ReturnType: PrimF64}, "(i64, bool) -> f64"},
	}

	for _, c := range cases {
		if got := c.typ.Repr(); got != c.expected {
			t.Errorf("expected %q, got %q", c.expected, got)
		}
	}
}

func TestTypeEquiv(t *testing.T) {
	ft := &FuncType{ParamTypes: []Type{PrimI64}, ReturnType: PrimBool}

	if !PrimI64.Equiv(PrimI64) || PrimI64.Equiv(PrimF64) {
		t.Fatalf("primitive equivalence broken")
	}
	if !ft.Equiv(&FuncType{ParamTypes: []Type{PrimI64}, ReturnType: PrimBool}) {
		t.Fatalf("structurally equal function types must be equivalent")
	}
	if ft.Equiv(&FuncType{ParamTypes: []Type{PrimF64}, ReturnType: PrimBool}) {
		t.Fatalf("function types with different parameters must not be equivalent")
	}
	if ft.Equiv(PrimI64) {
		t.Fatalf("a function type is never equivalent to a primitive")
	}
}

func TestOpCodeNames(t *testing.T) {
	for code, name := range map[int]string{OpAdd: "add", OpLTEq: "lteq", OpNot: "not"} {
		if OpName(code) != name {
			t.Errorf("expected op name %s, got %s", name, OpName(code))
		}

		got, ok := OpCodeFor(name)
		if !ok || got != code {
			t.Errorf("op name %s did not round-trip", name)
		}
	}

	if _, ok := OpCodeFor("bogus"); ok {
		t.Errorf("unknown op name resolved to a code")
	}
}

func TestGlobalRefTypes(t *testing.T) {
	gr := &GlobalRef{Name: "f"}
	if !gr.Type().Equiv(PrimUnit) {
		t.Fatalf("an untyped forward reference must have the unit type")
	}

	call := &Call{Callee: gr}
	if !call.Type().Equiv(PrimUnit) {
		t.Fatalf("a call through an untyped reference must have the unit type")
	}

	gr.RefType = &FuncType{ReturnType: PrimI64}
	if !call.Type().Equiv(PrimI64) {
		t.Fatalf("a call's type must follow its callee's return type")
	}
}

func TestFunctionRepr(t *testing.T) {
	x := &Var{Name: "x", VarType: PrimI64}
	z := &Var{Name: "z", VarType: PrimI64}

	fn := &Function{
		Name:   "inc",
		Params: []*Var{x},
		Body: &SeqExpr{
			Blocks: []*BindingBlock{{
				Bindings: []*Binding{{
					Var:   z,
					Value: &PrimOp{OpCode: OpAdd, Operands: []Expr{x, &Literal{Value: "1", LitType: PrimI64}}, ResultType: PrimI64},
				}},
			}},
			Output: z,
		},
		RetType: PrimI64,
	}

	repr := fn.Repr()
	for _, want := range []string{
		"fn @inc($x: i64) -> i64 {",
		"block {",
		"$z := add($x, 1)",
		"=> $z",
	} {
		if !strings.Contains(repr, want) {
			t.Errorf("missing %q in:\n%s", want, repr)
		}
	}
}

func TestBindingBlockRepr(t *testing.T) {
	bb := &BindingBlock{
		Dataflow: true,
		Bindings: []*Binding{{
			Var:   &Var{Name: "a", VarType: PrimI64},
			Value: &Literal{Value: "1", LitType: PrimI64},
		}},
	}

	repr := bb.Repr("")
	if !strings.Contains(repr, "dataflow {") || !strings.Contains(repr, "$a := 1") {
		t.Errorf("unexpected block repr:\n%s", repr)
	}
}
