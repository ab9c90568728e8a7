package mod

import (
	"strings"
	"testing"

	"loom/ir"
	"loom/report"
)

func intFn(name string) *ir.Function {
	return &ir.Function{
		Name:    name,
		Body:    &ir.Literal{Value: "0", LitType: ir.PrimI64},
		RetType: ir.PrimI64,
		Attrs:   map[string]string{"global_symbol": name},
	}
}

func TestDeclareIsIdempotent(t *testing.T) {
	m := New("m")

	gr := m.Declare("f")
	if gr.Name != "f" || gr.RefType != nil {
		t.Fatalf("unexpected forward declaration: %+v", gr)
	}

	if m.Declare("f") != gr {
		t.Fatalf("redeclaring a name must return the same reference")
	}

	if !m.Contains("f") {
		t.Fatalf("declared name missing from the symbol table")
	}
	if _, ok := m.Get("f"); ok {
		t.Fatalf("a declared but undefined name must not resolve to a function")
	}
}

func TestDefineTypesSharedReference(t *testing.T) {
	m := New("m")

	gr := m.Declare("f")
	if err := m.Define("f", intFn("f")); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if gr.RefType == nil || !gr.RefType.ReturnType.Equiv(ir.PrimI64) {
		t.Fatalf("defining a declared name must type its shared reference")
	}

	if len(m.Undefined()) != 0 {
		t.Fatalf("no names should remain undefined")
	}
}

func TestDefineWithoutDeclare(t *testing.T) {
	m := New("m")

	if err := m.Define("f", intFn("f")); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if fn, ok := m.Get("f"); !ok || fn.Name != "f" {
		t.Fatalf("defined function missing from the symbol table")
	}
}

func TestRedefinitionFails(t *testing.T) {
	m := New("m")

	if err := m.Define("f", intFn("f")); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	err := m.Define("f", intFn("f"))
	if err == nil {
		t.Fatalf("expected a redefinition error")
	}
	if _, ok := err.(*report.StructuralError); !ok {
		t.Fatalf("expected a structural error, got %T", err)
	}
}

func TestFunctionsInDefinitionOrder(t *testing.T) {
	m := New("m")

	for _, name := range []string{"c", "a", "b"} {
		if err := m.Define(name, intFn(name)); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
	}

	fns := m.Functions()
	if len(fns) != 3 || fns[0].Name != "c" || fns[1].Name != "a" || fns[2].Name != "b" {
		t.Fatalf("functions out of definition order: %v", fns)
	}
}

func TestReprListsForwardDeclarations(t *testing.T) {
	m := New("m")

	m.Declare("g")
	if err := m.Define("f", intFn("f")); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	repr := m.Repr()
	if !strings.Contains(repr, "module m") {
		t.Fatalf("module header missing from repr:\n%s", repr)
	}
	if !strings.Contains(repr, "forward @g;") {
		t.Fatalf("forward declaration missing from repr:\n%s", repr)
	}
	if !strings.Contains(repr, "fn @f(") {
		t.Fatalf("function definition missing from repr:\n%s", repr)
	}
}
