package align

import "fmt"

// PreconditionError reports an operation that was aborted before any
// mutation: wrong mode, missing second rig, empty bone collections, wrong
// selection cardinality. The scene is untouched when one is returned.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return "precondition failed: " + e.Reason
}

// Preconditionf builds a PreconditionError from a format string.
func Preconditionf(format string, args ...any) *PreconditionError {
	return &PreconditionError{Reason: fmt.Sprintf(format, args...)}
}
