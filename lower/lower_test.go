package lower

import (
	"strings"
	"testing"

	"loom/build"
	"loom/ir"
	"loom/mod"
)

// buildAddModule builds a module with an `add` function and a `twice` function
// calling it.
func buildAddModule(t *testing.T) *mod.Module {
	t.Helper()

	b := build.New()
	must(t, b.BeginModule("m"))

	must(t, b.BeginFunction("add"))
	x, err := b.Param("x", ir.PrimI64)
	must(t, err)
	y, err := b.Param("y", ir.PrimI64)
	must(t, err)
	must(t, b.FuncRetType(ir.PrimI64))
	must(t, b.BeginBlock(false))

	z, err := b.Bind("z", &ir.PrimOp{OpCode: ir.OpAdd, Operands: []ir.Expr{x, y}, ResultType: ir.PrimI64})
	must(t, err)
	must(t, b.SetReturn(z))
	must(t, b.EndFunction())

	must(t, b.BeginFunction("twice"))
	n, err := b.Param("n", ir.PrimI64)
	must(t, err)
	must(t, b.FuncRetType(ir.PrimI64))
	must(t, b.BeginBlock(false))

	addRef, err := b.Global("add")
	must(t, err)

	r, err := b.Bind("r", &ir.Call{Callee: addRef, Args: []ir.Expr{n, n}})
	must(t, err)
	must(t, b.SetReturn(r))
	must(t, b.EndFunction())

	must(t, b.EndModule())

	m, err := b.Module()
	must(t, err)
	return m
}

func must(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
}

// -----------------------------------------------------------------------------

func TestLowerModule(t *testing.T) {
	llText := NewLowerer(buildAddModule(t)).Lower().String()

	for _, want := range []string{
		"define i64 @add(i64 %x, i64 %y)",
		"add i64 %x, %y",
		"define i64 @twice(i64 %n)",
		"call i64 @add(i64 %n, i64 %n)",
		"ret i64",
	} {
		if !strings.Contains(llText, want) {
			t.Errorf("missing %q in lowered module:\n%s", want, llText)
		}
	}
}

func TestLowerConditional(t *testing.T) {
	b := build.New()

	must(t, b.BeginFunction("clamp"))
	x, err := b.Param("x", ir.PrimI64)
	must(t, err)
	must(t, b.FuncRetType(ir.PrimI64))
	must(t, b.BeginBlock(false))

	c, err := b.Bind("c", &ir.PrimOp{
		OpCode:     ir.OpLT,
		Operands:   []ir.Expr{x, &ir.Literal{Value: "0", LitType: ir.PrimI64}},
		ResultType: ir.PrimBool,
	})
	must(t, err)

	must(t, b.BeginIf(c))

	must(t, b.BeginThen())
	y, err := b.Bind("y", &ir.Literal{Value: "0", LitType: ir.PrimI64})
	must(t, err)
	must(t, b.SetReturn(y))
	must(t, b.EndThen())

	must(t, b.BeginElse())
	y2, err := b.Bind("y", x)
	must(t, err)
	must(t, b.SetReturn(y2))
	must(t, b.EndElse())

	v, err := b.EndIf()
	must(t, err)
	must(t, b.SetReturn(v))
	must(t, b.EndFunction())

	fn, err := b.Function()
	must(t, err)

	llText := LowerFunction(fn).String()

	for _, want := range []string{
		"define i64 @clamp(i64 %x)",
		"icmp slt i64 %x, 0",
		"br i1",
		"phi i64",
		"ret i64",
	} {
		if !strings.Contains(llText, want) {
			t.Errorf("missing %q in lowered function:\n%s", want, llText)
		}
	}
}

func TestLowerPrimOps(t *testing.T) {
	cases := []struct {
		opCode   int
		operands []ir.Expr
		result   ir.Type
		want     string
	}{
		{ir.OpMul, []ir.Expr{i64Lit("3"), i64Lit("4")}, ir.PrimI64, "mul i64 3, 4"},
		{ir.OpDiv, []ir.Expr{i64Lit("8"), i64Lit("2")}, ir.PrimI64, "sdiv i64 8, 2"},
		{ir.OpMod, []ir.Expr{i64Lit("8"), i64Lit("3")}, ir.PrimI64, "srem i64 8, 3"},
		{ir.OpNeg, []ir.Expr{i64Lit("5")}, ir.PrimI64, "sub i64 0, 5"},
		{ir.OpAdd, []ir.Expr{f64Lit("1.5"), f64Lit("2.5")}, ir.PrimF64, "fadd double"},
		{ir.OpEq, []ir.Expr{f64Lit("1.5"), f64Lit("2.5")}, ir.PrimBool, "fcmp oeq double"},
		{ir.OpGTEq, []ir.Expr{i64Lit("1"), i64Lit("2")}, ir.PrimBool, "icmp sge i64 1, 2"},
		{ir.OpNot, []ir.Expr{&ir.Literal{Value: "true", LitType: ir.PrimBool}}, ir.PrimBool, "xor i1 true, true"},
	}

	for _, c := range cases {
		b := build.New()

		must(t, b.BeginFunction("f"))
		must(t, b.BeginBlock(false))

		v, err := b.Bind("v", &ir.PrimOp{OpCode: c.opCode, Operands: c.operands, ResultType: c.result})
		must(t, err)
		must(t, b.SetReturn(v))
		must(t, b.EndFunction())

		fn, err := b.Function()
		must(t, err)

		llText := LowerFunction(fn).String()
		if !strings.Contains(llText, c.want) {
			t.Errorf("missing %q in lowered function:\n%s", c.want, llText)
		}
	}
}

func TestLowerUnitFunction(t *testing.T) {
	b := build.New()

	must(t, b.BeginFunction("noop"))
	must(t, b.FuncRetType(ir.PrimUnit))
	must(t, b.SetReturn(&ir.Literal{Value: "0", LitType: ir.PrimUnit}))
	must(t, b.EndFunction())

	fn, err := b.Function()
	must(t, err)

	llText := LowerFunction(fn).String()
	if !strings.Contains(llText, "define void @noop()") || !strings.Contains(llText, "ret void") {
		t.Errorf("unexpected lowered function:\n%s", llText)
	}
}

func i64Lit(v string) ir.Expr {
	return &ir.Literal{Value: v, LitType: ir.PrimI64}
}

func f64Lit(v string) ir.Expr {
	return &ir.Literal{Value: v, LitType: ir.PrimF64}
}
