// Package script loads and replays declarative TOML build scripts.  A script
// is a flat list of scope and binding events which the runner replays against
// a builder to produce a module, so IR constructions can be written down and
// versioned without a front end.
package script

import (
	"fmt"
	"os"

	"loom/ir"

	"github.com/pelletier/go-toml"
)

// Script represents a build script as it is encoded in TOML.
type Script struct {
	// The name of the module the script builds.
	Module string `toml:"module"`

	// The events of the script, replayed in order.
	Events []*Event `toml:"events"`
}

// Event represents a single builder event.  Which of the remaining fields are
// meaningful depends on the op.
type Event struct {
	// The operation name.  One of the enumerated ops below.
	Op string `toml:"op"`

	// The name attached to the event: the function name for begin_function,
	// the parameter name for param, the binding name for bind.
	Name string `toml:"name"`

	// The type attached to the event, for param and ret_type.
	Type string `toml:"type"`

	// Whether the opened block is a dataflow block, for begin_block.
	Dataflow bool `toml:"dataflow"`

	// The expression attached to the event, for bind, emit, set_return, and
	// begin_if.
	Value *Expr `toml:"value"`

	// The function attributes to merge, for attrs.
	Attrs map[string]string `toml:"attrs"`
}

// The operation names a script event may carry.
const (
	OpBeginFunction = "begin_function"
	OpParam         = "param"
	OpRetType       = "ret_type"
	OpAttrs         = "attrs"
	OpEndFunction   = "end_function"
	OpBeginBlock    = "begin_block"
	OpEndBlock      = "end_block"
	OpBeginIf       = "begin_if"
	OpBeginThen     = "begin_then"
	OpEndThen       = "end_then"
	OpBeginElse     = "begin_else"
	OpEndElse       = "end_else"
	OpEndIf         = "end_if"
	OpBind          = "bind"
	OpEmit          = "emit"
	OpSetReturn     = "set_return"
)

// Expr represents an expression as it is encoded in TOML.
type Expr struct {
	// The expression kind: "lit", "var", "global", "call", or "prim".
	Kind string `toml:"kind"`

	// The name of the referenced variable, global, or call target.
	Name string `toml:"name"`

	// The literal's type name, for "lit".
	Type string `toml:"type"`

	// The literal's source text, for "lit".
	Value string `toml:"value"`

	// The instruction name, for "prim".
	OpCode string `toml:"opcode"`

	// The instruction operands, for "prim".
	Operands []*Expr `toml:"operands"`

	// The call arguments, for "call".
	Args []*Expr `toml:"args"`
}

// Load loads and validates a build script.  `path` is the path to the script
// file.
func Load(path string) (*Script, error) {
	buff, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read script file at `%s`: %w", path, err)
	}

	s := &Script{}
	if err := toml.Unmarshal(buff, s); err != nil {
		return nil, fmt.Errorf("error parsing script file at `%s`: %w", path, err)
	}

	if err := validateScript(s); err != nil {
		return nil, fmt.Errorf("invalid script file at `%s`: %w", path, err)
	}

	return s, nil
}

// validateScript checks that the top level script contents are valid.
func validateScript(s *Script) error {
	if s.Module == "" {
		return fmt.Errorf("missing module name")
	}

	if len(s.Events) == 0 {
		return fmt.Errorf("script contains no events")
	}

	for i, ev := range s.Events {
		if ev.Op == "" {
			return fmt.Errorf("event %d is missing an op", i+1)
		}
	}

	return nil
}

// typeFor resolves a type name used in a script to an IR type.
func typeFor(name string) (ir.Type, error) {
	switch name {
	case "unit":
		return ir.PrimUnit, nil
	case "bool":
		return ir.PrimBool, nil
	case "i64":
		return ir.PrimI64, nil
	case "f64":
		return ir.PrimF64, nil
	}

	return nil, fmt.Errorf("unknown type name: `%s`", name)
}
