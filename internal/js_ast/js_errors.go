package js_ast

import "fmt"

type InternalErrorKind uint8

const (
	// A declaration or edit was requested with arguments that contradict the
	// current state of the tree
	ErrInvalidArgument InternalErrorKind = iota

	// An edit that the current position does not allow, such as removing a
	// mandatory child
	ErrUnsupportedOperation

	// Re-parenting a scope would have created a cycle
	ErrCycle

	// A name was declared directly into a catch scope that has nowhere to
	// forward the declaration to
	ErrCatchScopeDeclare
)

func (kind InternalErrorKind) String() string {
	switch kind {
	case ErrInvalidArgument:
		return "invalid argument"
	case ErrUnsupportedOperation:
		return "unsupported operation"
	case ErrCycle:
		return "scope cycle"
	case ErrCatchScopeDeclare:
		return "catch scope declaration"
	default:
		panic("Internal error")
	}
}

// The IR panics with this when a pass breaks one of its contracts. It always
// indicates a bug in the compiler, never a problem with the user's code, so
// it is not meant to be recovered from except by the pass driver, which
// reports it and aborts the pipeline.
type InternalError struct {
	Kind InternalErrorKind
	Text string
}

func (err *InternalError) Error() string {
	return fmt.Sprintf("Internal error (%s): %s", err.Kind, err.Text)
}

func internalError(kind InternalErrorKind, format string, args ...interface{}) {
	panic(&InternalError{Kind: kind, Text: fmt.Sprintf(format, args...)})
}
