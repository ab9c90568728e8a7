package ir

import (
	"strings"

	"loom/util"
)

// Type represents the type of an IR expression.
type Type interface {
	// Repr returns the textual representation of the type.
	Repr() string

	// Equiv returns whether this type is equivalent to other.
	Equiv(other Type) bool
}

// -----------------------------------------------------------------------------

// PrimType represents a primitive type.  It must be one of the enumerated
// primitive kinds.
type PrimType int

// Enumeration of primitive type kinds.
const (
	PrimUnit = PrimType(iota) // The empty/no-value type.
	PrimBool
	PrimI64
	PrimF64
)

func (pt PrimType) Repr() string {
	switch pt {
	case PrimUnit:
		return "unit"
	case PrimBool:
		return "bool"
	case PrimI64:
		return "i64"
	case PrimF64:
		return "f64"
	}

	return "<unknown>"
}

func (pt PrimType) Equiv(other Type) bool {
	opt, ok := other.(PrimType)
	return ok && pt == opt
}

// -----------------------------------------------------------------------------

// FuncType represents the type of a function or of a global reference to one.
type FuncType struct {
	// The parameter types of the function, in order.
	ParamTypes []Type

	// The return type of the function.
	ReturnType Type
}

func (ft *FuncType) Repr() string {
	return "(" + strings.Join(util.Map(ft.ParamTypes, Type.Repr), ", ") + ") -> " + ft.ReturnType.Repr()
}

func (ft *FuncType) Equiv(other Type) bool {
	oft, ok := other.(*FuncType)
	if !ok || len(ft.ParamTypes) != len(oft.ParamTypes) {
		return false
	}

	for i, pt := range ft.ParamTypes {
		if !pt.Equiv(oft.ParamTypes[i]) {
			return false
		}
	}

	return ft.ReturnType.Equiv(oft.ReturnType)
}
