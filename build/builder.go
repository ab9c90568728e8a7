// Package build implements the scope/frame-stack protocol used to assemble IR
// function bodies incrementally.  A front end drives a Builder with explicit
// begin-scope/end-scope calls; the builder checks the protocol's invariants
// against the stack of live scopes and assembles the final tree lazily, in the
// order scopes close.
package build

// Builder is the frame-stack context for one in-progress IR construction.  It
// owns the ordered stack of live scopes and a single result slot.  Exactly one
// construction drives a Builder at a time: concurrent constructions use
// independent Builders and share no mutable state.
//
// Any structural error aborts the in-progress construction; the Builder and
// its partially built frames must then be discarded by the caller.
type Builder struct {
	// The stack of live scopes, outermost first.
	frames []Frame

	// The finished construction: a *ir.Function or a *mod.Module.  Set only
	// when the outermost frame closes with no enclosing scope.
	result interface{}
}

// New creates a new builder with an empty frame stack.
func New() *Builder {
	return &Builder{}
}

// -----------------------------------------------------------------------------

// push opens a frame: the frame's enter logic runs, which appends the frame to
// the stack at the appropriate point.
func (b *Builder) push(f Frame) {
	f.enter(b)
}

// pop closes the top frame: it is removed from the stack and its exit logic
// runs.  Ownership of the frame's output transfers to the new top of the stack
// or to the builder's result slot.
func (b *Builder) pop() {
	f := b.frames[len(b.frames)-1]
	b.frames = b.frames[:len(b.frames)-1]
	f.exit(b)
}

// append places a frame on top of the stack.  Called from frame enter logic
// once the frame's pre-push checks have passed.
func (b *Builder) append(f Frame) {
	b.frames = append(b.frames, f)
}

// last returns the current top of the stack.
func (b *Builder) last() (Frame, bool) {
	if len(b.frames) == 0 {
		return nil, false
	}

	return b.frames[len(b.frames)-1], true
}

// -----------------------------------------------------------------------------

// findFrame scans the stack from the top for the nearest frame of kind T.
// Callers must re-resolve on every access rather than cache the result: the
// returned frame's fields may be mutated between two visits, and the frame
// itself may have been popped.
func findFrame[T Frame](b *Builder) (T, bool) {
	for i := len(b.frames) - 1; i >= 0; i-- {
		if f, ok := b.frames[i].(T); ok {
			return f, true
		}
	}

	var zero T
	return zero, false
}

// lastFrame returns the top frame only if it is of kind T.  It is used to
// detect whether the currently open scope is of a given kind.
func lastFrame[T Frame](b *Builder) (T, bool) {
	if len(b.frames) > 0 {
		if f, ok := b.frames[len(b.frames)-1].(T); ok {
			return f, true
		}
	}

	var zero T
	return zero, false
}
