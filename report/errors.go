package report

import "fmt"

// StructuralError is a user-correctable misuse of the builder's scoping
// protocol: a missing return value before a function closes, an empty binding
// block, a duplicate or out-of-order branch declaration, and so on.  The frame
// kind records which scope the offending call was directed at so the author of
// the driving front end can locate the malformed scope.
type StructuralError struct {
	// The kind of frame the misuse occurred in: eg. "function", "block".
	Frame string

	// The error message.
	Message string
}

func (se *StructuralError) Error() string {
	return fmt.Sprintf("%s scope: %s", se.Frame, se.Message)
}

// Structural creates a new structural error for the given frame kind.
func Structural(frame, msg string, args ...interface{}) *StructuralError {
	return &StructuralError{Frame: frame, Message: fmt.Sprintf(msg, args...)}
}

// -----------------------------------------------------------------------------

// UnresolvedReferenceError indicates that a lookup for a required enclosing
// frame found none: eg. a then scope opened with no conditional scope anywhere
// below it on the stack.
type UnresolvedReferenceError struct {
	// The kind of frame the lookup wanted.
	Want string

	// The error message.
	Message string
}

func (ue *UnresolvedReferenceError) Error() string {
	return ue.Message
}

// Unresolved creates a new unresolved-reference error for a missing enclosing
// frame of the given kind.
func Unresolved(want, msg string, args ...interface{}) *UnresolvedReferenceError {
	return &UnresolvedReferenceError{Want: want, Message: fmt.Sprintf(msg, args...)}
}

// -----------------------------------------------------------------------------

// InternalInvariantError is fatal and not user-correctable: the frame stack is
// in a shape the protocol considers impossible if callers obey the contract.
// It signals a bug in the front end driving the protocol, not bad input, so it
// is never converted into an ordinary returned error.
type InternalInvariantError struct {
	// The error message.
	Message string
}

func (ie *InternalInvariantError) Error() string {
	return "internal invariant violated: " + ie.Message
}

// ICE raises an internal invariant error.  These are never supposed to happen:
// they propagate as panics through Catch and terminate the construction
// session.
func ICE(msg string, args ...interface{}) {
	panic(&InternalInvariantError{Message: fmt.Sprintf(msg, args...)})
}

// -----------------------------------------------------------------------------

// Catch converts raised structural and unresolved-reference errors into an
// ordinary returned error.  Internal invariant errors and foreign panics
// continue to propagate.
// NB: This function must ALWAYS be deferred.
func Catch(err *error) {
	if x := recover(); x != nil {
		switch e := x.(type) {
		case *StructuralError:
			*err = e
		case *UnresolvedReferenceError:
			*err = e
		default:
			panic(x)
		}
	}
}
